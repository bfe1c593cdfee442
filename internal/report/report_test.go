package report

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/blackeyes972/budget-familiare/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Transaction{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return New(db), db
}

func seedCategory(t *testing.T, db *gorm.DB, name, txType string) uint {
	t.Helper()
	cat := models.Category{Name: name, TransactionType: txType, IsActive: true}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return cat.ID
}

func seedTx(t *testing.T, db *gorm.DB, date time.Time, amount float64, desc string, catID uint, txType string) {
	t.Helper()
	tx := models.Transaction{
		Date:            date,
		Amount:          amount,
		Description:     desc,
		CategoryID:      catID,
		TransactionType: txType,
	}
	if err := db.Create(&tx).Error; err != nil {
		t.Fatalf("seed transaction %s: %v", desc, err)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMonthlySummary(t *testing.T) {
	eng, db := testEngine(t)
	income := seedCategory(t, db, "Salary", models.TypeIncome)
	expense := seedCategory(t, db, "Groceries", models.TypeExpense)

	day := func(d int) time.Time { return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC) }
	seedTx(t, db, day(1), 100, "salary part", income, models.TypeIncome)
	seedTx(t, db, day(5), 200, "salary part", income, models.TypeIncome)
	seedTx(t, db, day(9), 300, "salary part", income, models.TypeIncome)
	seedTx(t, db, day(10), 50, "groceries", expense, models.TypeExpense)
	seedTx(t, db, day(20), 150, "groceries", expense, models.TypeExpense)
	// outside the month, must not count
	seedTx(t, db, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 999, "next month", expense, models.TypeExpense)

	s, err := eng.MonthlySummary(2025, 3)
	if err != nil {
		t.Fatalf("MonthlySummary() error = %v", err)
	}
	if !almostEqual(s.IncomeTotal, 600) {
		t.Errorf("IncomeTotal = %v, want 600", s.IncomeTotal)
	}
	if !almostEqual(s.ExpenseTotal, 200) {
		t.Errorf("ExpenseTotal = %v, want 200", s.ExpenseTotal)
	}
	if !almostEqual(s.Net, 400) {
		t.Errorf("Net = %v, want 400", s.Net)
	}
	if s.Count != 5 {
		t.Errorf("Count = %v, want 5", s.Count)
	}
	if s.FirstDate == nil || !s.FirstDate.Equal(day(1)) {
		t.Errorf("FirstDate = %v, want %v", s.FirstDate, day(1))
	}
	if s.LastDate == nil || !s.LastDate.Equal(day(20)) {
		t.Errorf("LastDate = %v, want %v", s.LastDate, day(20))
	}
}

func TestMonthlySummary_EmptyMonth(t *testing.T) {
	eng, _ := testEngine(t)

	s, err := eng.MonthlySummary(2025, 3)
	if err != nil {
		t.Fatalf("MonthlySummary() error = %v", err)
	}
	if s.IncomeTotal != 0 || s.ExpenseTotal != 0 || s.Net != 0 || s.Count != 0 {
		t.Errorf("empty month summary = %+v, want all zero", s)
	}
	if s.FirstDate != nil || s.LastDate != nil {
		t.Errorf("empty month bounds = %v, %v, want nil", s.FirstDate, s.LastDate)
	}
}

func TestPeriodSummary_OpenBounds(t *testing.T) {
	eng, db := testEngine(t)
	cat := seedCategory(t, db, "Groceries", models.TypeExpense)

	seedTx(t, db, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 10, "old", cat, models.TypeExpense)
	seedTx(t, db, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 20, "mid", cat, models.TypeExpense)
	seedTx(t, db, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 40, "new", cat, models.TypeExpense)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := eng.PeriodSummary(&start, nil)
	if err != nil {
		t.Fatalf("PeriodSummary() error = %v", err)
	}
	if !almostEqual(s.ExpenseTotal, 60) {
		t.Errorf("ExpenseTotal from 2025 = %v, want 60", s.ExpenseTotal)
	}

	s, err = eng.PeriodSummary(nil, nil)
	if err != nil {
		t.Fatalf("PeriodSummary(nil, nil) error = %v", err)
	}
	if !almostEqual(s.ExpenseTotal, 70) {
		t.Errorf("unbounded ExpenseTotal = %v, want 70", s.ExpenseTotal)
	}
}

func TestCategoryMonthlySummary_SumsMatchMonthlyTotal(t *testing.T) {
	eng, db := testEngine(t)
	groceries := seedCategory(t, db, "Groceries", models.TypeExpense)
	transport := seedCategory(t, db, "Transport", models.TypeExpense)

	day := func(d int) time.Time { return time.Date(2025, 5, d, 0, 0, 0, 0, time.UTC) }
	seedTx(t, db, day(2), 120, "weekly shop", groceries, models.TypeExpense)
	seedTx(t, db, day(9), 80, "weekly shop", groceries, models.TypeExpense)
	seedTx(t, db, day(3), 60, "fuel", transport, models.TypeExpense)

	rows, err := eng.CategoryMonthlySummary(2025, 5)
	if err != nil {
		t.Fatalf("CategoryMonthlySummary() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	// ordered by sum descending
	if rows[0].CategoryName != "Groceries" || !almostEqual(rows[0].Sum, 200) {
		t.Errorf("rows[0] = %+v, want Groceries sum 200", rows[0])
	}
	if rows[0].Count != 2 || !almostEqual(rows[0].Avg, 100) {
		t.Errorf("rows[0] count/avg = %d/%v, want 2/100", rows[0].Count, rows[0].Avg)
	}

	var categorySum float64
	for _, r := range rows {
		categorySum += r.Sum
	}
	monthly, err := eng.MonthlySummary(2025, 5)
	if err != nil {
		t.Fatalf("MonthlySummary() error = %v", err)
	}
	if !almostEqual(categorySum, monthly.ExpenseTotal) {
		t.Errorf("category sums = %v, monthly expense total = %v, want equal",
			categorySum, monthly.ExpenseTotal)
	}
}

func TestDailySummary_ChronologicalBuckets(t *testing.T) {
	eng, db := testEngine(t)
	income := seedCategory(t, db, "Salary", models.TypeIncome)
	expense := seedCategory(t, db, "Groceries", models.TypeExpense)

	day := func(d, h int) time.Time { return time.Date(2025, 7, d, h, 0, 0, 0, time.UTC) }
	seedTx(t, db, day(3, 9), 40, "shop", expense, models.TypeExpense)
	seedTx(t, db, day(3, 18), 10, "shop again", expense, models.TypeExpense)
	seedTx(t, db, day(3, 12), 900, "salary", income, models.TypeIncome)
	seedTx(t, db, day(1, 8), 5, "coffee beans", expense, models.TypeExpense)

	days, err := eng.DailySummary(2025, 7)
	if err != nil {
		t.Fatalf("DailySummary() error = %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("got %d buckets, want 3: %+v", len(days), days)
	}
	if days[0].Day != "2025-07-01" {
		t.Errorf("days[0] = %+v, want 2025-07-01 first", days[0])
	}
	for _, d := range days {
		if d.Day == "2025-07-03" && d.TransactionType == models.TypeExpense {
			if !almostEqual(d.Sum, 50) || d.Count != 2 {
				t.Errorf("expense bucket 03 = %+v, want sum 50 count 2", d)
			}
		}
	}
}

func TestTrend_ZeroPreviousConvention(t *testing.T) {
	eng, db := testEngine(t)
	income := seedCategory(t, db, "Salary", models.TypeIncome)

	seedTx(t, db, time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC), 500, "salary", income, models.TypeIncome)

	trend, err := eng.Trend(2025, 2)
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	// January is empty: positive current reads as +100%, an untouched
	// metric reads as 0%.
	if !almostEqual(trend.Income.ChangePercent, 100) {
		t.Errorf("Income.ChangePercent = %v, want 100", trend.Income.ChangePercent)
	}
	if !almostEqual(trend.Expense.ChangePercent, 0) {
		t.Errorf("Expense.ChangePercent = %v, want 0", trend.Expense.ChangePercent)
	}
	if !almostEqual(trend.Income.ChangeAmount, 500) {
		t.Errorf("Income.ChangeAmount = %v, want 500", trend.Income.ChangeAmount)
	}
}

func TestTrend_JanuaryComparesToPriorDecember(t *testing.T) {
	eng, db := testEngine(t)
	income := seedCategory(t, db, "Salary", models.TypeIncome)

	seedTx(t, db, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC), 1000, "december salary", income, models.TypeIncome)
	seedTx(t, db, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), 1100, "january salary", income, models.TypeIncome)

	trend, err := eng.Trend(2025, 1)
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if !almostEqual(trend.Previous.IncomeTotal, 1000) {
		t.Errorf("Previous.IncomeTotal = %v, want 1000 (December of prior year)", trend.Previous.IncomeTotal)
	}
	if !almostEqual(trend.Income.ChangePercent, 10) {
		t.Errorf("Income.ChangePercent = %v, want 10", trend.Income.ChangePercent)
	}
}

func TestMonthRange_LeapFebruary(t *testing.T) {
	start, end := MonthRange(2024, 2)
	if start.Day() != 1 || start.Month() != time.February {
		t.Errorf("start = %v, want 2024-02-01", start)
	}
	if end.Day() != 29 || end.Month() != time.February {
		t.Errorf("end = %v, want 2024-02-29", end)
	}
}

func TestTopExpenses_OrderAndTieBreak(t *testing.T) {
	eng, db := testEngine(t)
	cat := seedCategory(t, db, "Groceries", models.TypeExpense)
	income := seedCategory(t, db, "Salary", models.TypeIncome)

	day := func(d int) time.Time { return time.Date(2025, 9, d, 0, 0, 0, 0, time.UTC) }
	seedTx(t, db, day(10), 75, "tied later", cat, models.TypeExpense)
	seedTx(t, db, day(4), 75, "tied earlier", cat, models.TypeExpense)
	seedTx(t, db, day(2), 200, "big", cat, models.TypeExpense)
	seedTx(t, db, day(6), 30, "small", cat, models.TypeExpense)
	// income never shows up in top expenses
	seedTx(t, db, day(1), 5000, "salary", income, models.TypeIncome)

	top, err := eng.TopExpenses(2025, 9, 3)
	if err != nil {
		t.Fatalf("TopExpenses() error = %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("got %d expenses, want 3", len(top))
	}
	if top[0].Description != "big" {
		t.Errorf("top[0] = %q, want big", top[0].Description)
	}
	// tied amounts resolve by earlier date
	if top[1].Description != "tied earlier" || top[2].Description != "tied later" {
		t.Errorf("tie order = %q, %q, want tied earlier then tied later",
			top[1].Description, top[2].Description)
	}
}

func TestTopExpenses_DefaultLimit(t *testing.T) {
	eng, db := testEngine(t)
	cat := seedCategory(t, db, "Groceries", models.TypeExpense)

	for d := 1; d <= 8; d++ {
		seedTx(t, db, time.Date(2025, 9, d, 0, 0, 0, 0, time.UTC), float64(d*10), "shop", cat, models.TypeExpense)
	}

	top, err := eng.TopExpenses(2025, 9, 0)
	if err != nil {
		t.Fatalf("TopExpenses() error = %v", err)
	}
	if len(top) != 5 {
		t.Errorf("default limit returned %d, want 5", len(top))
	}
}
