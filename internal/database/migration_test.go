package database

import (
	"testing"
	"time"

	"github.com/blackeyes972/budget-familiare/internal/models"
)

func testManager(t *testing.T, name string) *Manager {
	t.Helper()
	mgr, err := Open(TypeSQLite, Params{DBName: name}, t.TempDir(), false)
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func seedStore(t *testing.T, mgr *Manager) (uint, uint) {
	t.Helper()
	session := mgr.Session()

	salary := models.Category{Name: "Salary", TransactionType: models.TypeIncome, IsActive: true}
	groceries := models.Category{Name: "Groceries", TransactionType: models.TypeExpense, IsActive: true}
	if err := session.Create(&salary).Error; err != nil {
		t.Fatalf("seed salary: %v", err)
	}
	if err := session.Create(&groceries).Error; err != nil {
		t.Fatalf("seed groceries: %v", err)
	}

	transactions := []models.Transaction{
		{Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), Amount: 1500, Description: "january salary",
			CategoryID: salary.ID, TransactionType: models.TypeIncome},
		{Date: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), Amount: 85.5, Description: "weekly shop",
			CategoryID: groceries.ID, TransactionType: models.TypeExpense, Tags: "food,weekly"},
		{Date: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), Amount: 92.3, Description: "weekly shop",
			CategoryID: groceries.ID, TransactionType: models.TypeExpense},
	}
	for i := range transactions {
		if err := session.Create(&transactions[i]).Error; err != nil {
			t.Fatalf("seed transaction %d: %v", i, err)
		}
	}
	return salary.ID, groceries.ID
}

func countRows(t *testing.T, mgr *Manager, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := mgr.Session().Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func sumAmounts(t *testing.T, mgr *Manager, txType string) float64 {
	t.Helper()
	var sum float64
	err := mgr.Session().Model(&models.Transaction{}).
		Where("transaction_type = ?", txType).
		Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	if err != nil {
		t.Fatalf("sum %s: %v", txType, err)
	}
	return sum
}

func TestExportAll_ShapeAndOrder(t *testing.T) {
	src := testManager(t, "src")
	seedStore(t, src)

	data, err := src.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}

	if data.ExportInfo.SourceType != TypeSQLite {
		t.Errorf("SourceType = %q, want %q", data.ExportInfo.SourceType, TypeSQLite)
	}
	if data.ExportInfo.Version != ExportVersion {
		t.Errorf("Version = %q, want %q", data.ExportInfo.Version, ExportVersion)
	}
	if _, err := time.Parse(time.RFC3339, data.ExportInfo.Timestamp); err != nil {
		t.Errorf("Timestamp %q is not RFC 3339: %v", data.ExportInfo.Timestamp, err)
	}

	if len(data.Categories) != 2 || len(data.Transactions) != 3 {
		t.Fatalf("exported %d categories / %d transactions, want 2 / 3",
			len(data.Categories), len(data.Transactions))
	}
	for _, rec := range data.Transactions {
		if _, err := time.Parse(time.RFC3339, rec.Date); err != nil {
			t.Errorf("transaction date %q is not RFC 3339: %v", rec.Date, err)
		}
	}
	// chronological export order
	if data.Transactions[0].Description != "january salary" {
		t.Errorf("transactions[0] = %q, want january salary", data.Transactions[0].Description)
	}
}

func TestImport_RoundTripPreservesAggregates(t *testing.T) {
	src := testManager(t, "src")
	seedStore(t, src)
	dst := testManager(t, "dst")

	data, err := src.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}
	stats, err := dst.Import(data)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if stats.CategoriesCreated != 2 || stats.TransactionsImported != 3 {
		t.Errorf("stats = %+v, want 2 categories created, 3 transactions imported", stats)
	}
	if stats.TransactionsSkipped != 0 {
		t.Errorf("skipped %d transactions: %v", stats.TransactionsSkipped, stats.SkippedRecords)
	}

	if got, want := sumAmounts(t, dst, models.TypeIncome), sumAmounts(t, src, models.TypeIncome); got != want {
		t.Errorf("income sum = %v, want %v", got, want)
	}
	if got, want := sumAmounts(t, dst, models.TypeExpense), sumAmounts(t, src, models.TypeExpense); got != want {
		t.Errorf("expense sum = %v, want %v", got, want)
	}
	if got, want := countRows(t, dst, &models.Transaction{}), countRows(t, src, &models.Transaction{}); got != want {
		t.Errorf("transaction count = %d, want %d", got, want)
	}
}

func TestImport_SecondRunIsStable(t *testing.T) {
	src := testManager(t, "src")
	seedStore(t, src)
	dst := testManager(t, "dst")

	data, err := src.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}
	if _, err := dst.Import(data); err != nil {
		t.Fatalf("first Import() error = %v", err)
	}

	stats, err := dst.Import(data)
	if err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	if stats.CategoriesCreated != 0 || stats.CategoriesUpdated != 2 {
		t.Errorf("second run categories = %+v, want 0 created, 2 updated", stats)
	}
	if stats.TransactionsImported != 0 || stats.TransactionsUpdated != 3 {
		t.Errorf("second run transactions = %+v, want 0 imported, 3 updated", stats)
	}
	if got := countRows(t, dst, &models.Transaction{}); got != 3 {
		t.Errorf("transaction count after double import = %d, want 3", got)
	}
}

func TestImport_RemapsCategoryIDs(t *testing.T) {
	src := testManager(t, "src")
	seedStore(t, src)

	// destination already has a category occupying a low id, so the
	// source ids cannot be reused verbatim
	dst := testManager(t, "dst")
	occupant := models.Category{Name: "Preexisting", TransactionType: models.TypeExpense, IsActive: true}
	if err := dst.Session().Create(&occupant).Error; err != nil {
		t.Fatalf("create occupant: %v", err)
	}

	data, err := src.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}
	if _, err := dst.Import(data); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	var salary models.Category
	if err := dst.Session().
		Where("name = ? AND transaction_type = ?", "Salary", models.TypeIncome).
		First(&salary).Error; err != nil {
		t.Fatalf("find salary in destination: %v", err)
	}

	var n int64
	dst.Session().Model(&models.Transaction{}).
		Where("transaction_type = ? AND category_id = ?", models.TypeIncome, salary.ID).
		Count(&n)
	if n != 1 {
		t.Errorf("income transactions mapped to destination salary id = %d, want 1", n)
	}
}

func TestImport_SkipsUnmappableTransactions(t *testing.T) {
	dst := testManager(t, "dst")

	data := &ExportData{
		ExportInfo: ExportInfo{Timestamp: time.Now().UTC().Format(time.RFC3339), SourceType: TypeSQLite, Version: ExportVersion},
		Categories: []CategoryRecord{
			{ID: 1, Name: "Groceries", TransactionType: models.TypeExpense, IsActive: true},
		},
		Transactions: []TransactionRecord{
			{ID: "aaaaaaaa-0000-0000-0000-000000000001", Date: "2025-01-05T00:00:00Z", Amount: 10,
				Description: "mapped", CategoryID: 1, TransactionType: models.TypeExpense},
			{ID: "aaaaaaaa-0000-0000-0000-000000000002", Date: "2025-01-06T00:00:00Z", Amount: 20,
				Description: "orphan", CategoryID: 99, TransactionType: models.TypeExpense},
			{ID: "aaaaaaaa-0000-0000-0000-000000000003", Date: "not-a-date", Amount: 30,
				Description: "bad date", CategoryID: 1, TransactionType: models.TypeExpense},
		},
	}

	stats, err := dst.Import(data)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if stats.TransactionsImported != 1 {
		t.Errorf("imported = %d, want 1", stats.TransactionsImported)
	}
	if stats.TransactionsSkipped != 2 {
		t.Errorf("skipped = %d, want 2", stats.TransactionsSkipped)
	}
	if len(stats.SkippedRecords) != 2 {
		t.Errorf("skipped records = %v, want identities of both skipped transactions", stats.SkippedRecords)
	}
}

func TestImport_CategoryNaturalKeyIsNameAndType(t *testing.T) {
	dst := testManager(t, "dst")

	// Name is globally unique in the schema, so a same-name category of
	// the other type cannot be created; its transactions must be
	// skipped and tallied, not silently attached to the wrong category.
	existing := models.Category{Name: "Misc", TransactionType: models.TypeExpense, IsActive: true}
	if err := dst.Session().Create(&existing).Error; err != nil {
		t.Fatalf("create existing: %v", err)
	}

	data := &ExportData{
		Categories: []CategoryRecord{
			{ID: 7, Name: "Misc", TransactionType: models.TypeIncome, IsActive: true},
		},
		Transactions: []TransactionRecord{
			{ID: "bbbbbbbb-0000-0000-0000-000000000001", Date: "2025-03-01T00:00:00Z", Amount: 50,
				Description: "misc income", CategoryID: 7, TransactionType: models.TypeIncome},
		},
	}

	stats, err := dst.Import(data)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if stats.CategoriesCreated != 0 {
		t.Errorf("categories created = %d, want 0", stats.CategoriesCreated)
	}
	if stats.TransactionsSkipped != 1 {
		t.Errorf("skipped = %d, want 1 (category could not land)", stats.TransactionsSkipped)
	}
	if got := countRows(t, dst, &models.Transaction{}); got != 0 {
		t.Errorf("transactions in store = %d, want 0", got)
	}
}

func TestSwitch_MovesEverything(t *testing.T) {
	src := testManager(t, "src")
	seedStore(t, src)

	dstDir := t.TempDir()
	dst, stats, err := Switch(src, TypeSQLite, Params{DBName: "dst"}, dstDir, false)
	if err != nil {
		t.Fatalf("Switch() error = %v", err)
	}
	defer dst.Close()

	if stats.TransactionsSkipped != 0 {
		t.Errorf("switch skipped %d transactions: %v", stats.TransactionsSkipped, stats.SkippedRecords)
	}
	if got, want := countRows(t, dst, &models.Transaction{}), countRows(t, src, &models.Transaction{}); got != want {
		t.Errorf("destination has %d transactions, want %d", got, want)
	}
	// default catalog is seeded on top of the migrated categories
	var defaults int64
	dst.Session().Model(&models.Category{}).Count(&defaults)
	if defaults < 2 {
		t.Errorf("destination categories = %d, want at least the migrated 2", defaults)
	}

	// source stays intact and usable
	if got := countRows(t, src, &models.Transaction{}); got != 3 {
		t.Errorf("source transactions after switch = %d, want 3", got)
	}
}

func TestBackup_FileBasedCopiesStore(t *testing.T) {
	src := testManager(t, "src")
	seedStore(t, src)

	backupsDir := t.TempDir()
	path, err := src.Backup(backupsDir, "snapshot")
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if path == "" {
		t.Fatal("Backup() returned empty path")
	}

	// the copy must open as a working store with the same content
	copied, err := Open(TypeSQLite, Params{DBName: "snapshot"}, backupsDir, false)
	if err != nil {
		t.Fatalf("open backup copy: %v", err)
	}
	defer copied.Close()
	if got := countRows(t, copied, &models.Transaction{}); got != 3 {
		t.Errorf("backup copy has %d transactions, want 3", got)
	}
}
