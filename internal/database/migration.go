package database

import (
	"fmt"
	"time"

	"github.com/blackeyes972/budget-familiare/internal/models"

	"gorm.io/gorm"
)

// ExportVersion tags the portable record set format.
const ExportVersion = "1.0"

// ExportInfo describes where and when an export was taken.
type ExportInfo struct {
	Timestamp  string `json:"timestamp"`
	SourceType string `json:"source_type"`
	Version    string `json:"version"`
}

// CategoryRecord is the portable form of a category. The integer id is
// store-local; the (Name, TransactionType) natural key is what matches
// categories across stores. The id is still carried so transactions can
// be remapped on import.
type CategoryRecord struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	TransactionType string `json:"transaction_type"`
	Color           string `json:"color"`
	Icon            string `json:"icon"`
	IsActive        bool   `json:"is_active"`
	MetadataJSON    string `json:"metadata_json"`
}

// TransactionRecord is the portable form of a transaction. Dates travel
// as ISO-8601 strings and the category reference is the source store's
// integer id, remapped during import.
type TransactionRecord struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	Amount          float64 `json:"amount"`
	Description     string  `json:"description"`
	Notes           string  `json:"notes"`
	CategoryID      uint    `json:"category_id"`
	TransactionType string  `json:"transaction_type"`
	RecurrenceType  string  `json:"recurrence_type"`
	Tags            string  `json:"tags"`
	MetadataJSON    string  `json:"metadata_json"`
}

// ExportData is the engine-agnostic dataset used for export, import,
// backup and store switching.
type ExportData struct {
	ExportInfo   ExportInfo          `json:"export_info"`
	Categories   []CategoryRecord    `json:"categories"`
	Transactions []TransactionRecord `json:"transactions"`
}

// ImportStats tallies what an import did. Skipped records are reported
// with their identity so the user can reconcile by hand; silent loss is
// the worst outcome a migration can have.
type ImportStats struct {
	CategoriesCreated    int      `json:"categories_created"`
	CategoriesUpdated    int      `json:"categories_updated"`
	TransactionsImported int      `json:"transactions_imported"`
	TransactionsUpdated  int      `json:"transactions_updated"`
	TransactionsSkipped  int      `json:"transactions_skipped"`
	SkippedRecords       []string `json:"skipped_records,omitempty"`
}

// ExportAll serializes every category and transaction into the portable
// record set.
func (m *Manager) ExportAll() (*ExportData, error) {
	session := m.Session()

	var categories []models.Category
	if err := session.Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("export categories: %w", err)
	}

	var transactions []models.Transaction
	if err := session.Order("date, id").Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("export transactions: %w", err)
	}

	data := &ExportData{
		ExportInfo: ExportInfo{
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			SourceType: m.Type(),
			Version:    ExportVersion,
		},
		Categories:   make([]CategoryRecord, 0, len(categories)),
		Transactions: make([]TransactionRecord, 0, len(transactions)),
	}

	for _, c := range categories {
		data.Categories = append(data.Categories, CategoryRecord{
			ID:              c.ID,
			Name:            c.Name,
			TransactionType: c.TransactionType,
			Color:           c.Color,
			Icon:            c.Icon,
			IsActive:        c.IsActive,
			MetadataJSON:    c.MetadataJSON,
		})
	}
	for _, t := range transactions {
		data.Transactions = append(data.Transactions, TransactionRecord{
			ID:              t.ID,
			Date:            t.Date.UTC().Format(time.RFC3339),
			Amount:          t.Amount,
			Description:     t.Description,
			Notes:           t.Notes,
			CategoryID:      t.CategoryID,
			TransactionType: t.TransactionType,
			RecurrenceType:  t.RecurrenceType,
			Tags:            t.Tags,
			MetadataJSON:    t.MetadataJSON,
		})
	}
	return data, nil
}

// Import loads a portable record set into this store.
//
// Categories are matched by natural key: an existing category gets its
// mutable fields updated in place, a missing one is inserted. The
// source-id to destination-id mapping built from the natural keys is
// then used to remap transactions. A transaction whose category cannot
// be mapped is skipped and tallied, never silently dropped; the import
// as a whole continues. Transactions that already exist (same UUID) are
// overwritten.
func (m *Manager) Import(data *ExportData) (*ImportStats, error) {
	stats := &ImportStats{}
	session := m.Session()

	for _, rec := range data.Categories {
		var existing models.Category
		err := session.Where("name = ? AND transaction_type = ?", rec.Name, rec.TransactionType).
			First(&existing).Error
		switch {
		case err == nil:
			existing.Color = rec.Color
			existing.Icon = rec.Icon
			existing.IsActive = rec.IsActive
			existing.MetadataJSON = rec.MetadataJSON
			if err := session.Save(&existing).Error; err != nil {
				return stats, fmt.Errorf("update category %q: %w", rec.Name, err)
			}
			stats.CategoriesUpdated++
		case err == gorm.ErrRecordNotFound:
			cat := models.Category{
				Name:            rec.Name,
				TransactionType: rec.TransactionType,
				Color:           rec.Color,
				Icon:            rec.Icon,
				IsActive:        rec.IsActive,
				MetadataJSON:    rec.MetadataJSON,
			}
			if err := session.Create(&cat).Error; err != nil {
				// Natural-key conflict (same name, other type): the
				// record cannot land here, its transactions will be
				// skipped below.
				stats.SkippedRecords = append(stats.SkippedRecords,
					fmt.Sprintf("category %q (%s): %v", rec.Name, rec.TransactionType, err))
				continue
			}
			stats.CategoriesCreated++
		default:
			return stats, fmt.Errorf("look up category %q: %w", rec.Name, err)
		}
	}

	// Source-store category id -> destination id, joined on natural key.
	idMap := make(map[uint]uint, len(data.Categories))
	for _, rec := range data.Categories {
		var dst models.Category
		err := session.Where("name = ? AND transaction_type = ?", rec.Name, rec.TransactionType).
			First(&dst).Error
		if err != nil {
			continue
		}
		idMap[rec.ID] = dst.ID
	}

	for _, rec := range data.Transactions {
		if rec.Date == "" {
			stats.TransactionsSkipped++
			stats.SkippedRecords = append(stats.SkippedRecords,
				fmt.Sprintf("transaction %s (%q): missing date", rec.ID, rec.Description))
			continue
		}
		date, err := time.Parse(time.RFC3339, rec.Date)
		if err != nil {
			stats.TransactionsSkipped++
			stats.SkippedRecords = append(stats.SkippedRecords,
				fmt.Sprintf("transaction %s (%q): bad date %q", rec.ID, rec.Description, rec.Date))
			continue
		}

		newCategoryID, ok := idMap[rec.CategoryID]
		if !ok {
			stats.TransactionsSkipped++
			stats.SkippedRecords = append(stats.SkippedRecords,
				fmt.Sprintf("transaction %s (%q): category %d not mapped", rec.ID, rec.Description, rec.CategoryID))
			continue
		}

		var existing models.Transaction
		err = session.Where("id = ?", rec.ID).First(&existing).Error
		switch {
		case err == nil:
			existing.Date = date
			existing.Amount = rec.Amount
			existing.Description = rec.Description
			existing.Notes = rec.Notes
			existing.CategoryID = newCategoryID
			existing.TransactionType = rec.TransactionType
			existing.RecurrenceType = rec.RecurrenceType
			existing.Tags = rec.Tags
			existing.MetadataJSON = rec.MetadataJSON
			if err := session.Save(&existing).Error; err != nil {
				return stats, fmt.Errorf("update transaction %s: %w", rec.ID, err)
			}
			stats.TransactionsUpdated++
		case err == gorm.ErrRecordNotFound:
			tx := models.Transaction{
				ID:              rec.ID,
				Date:            date,
				Amount:          rec.Amount,
				Description:     rec.Description,
				Notes:           rec.Notes,
				CategoryID:      newCategoryID,
				TransactionType: rec.TransactionType,
				RecurrenceType:  rec.RecurrenceType,
				Tags:            rec.Tags,
				MetadataJSON:    rec.MetadataJSON,
			}
			if err := session.Create(&tx).Error; err != nil {
				stats.TransactionsSkipped++
				stats.SkippedRecords = append(stats.SkippedRecords,
					fmt.Sprintf("transaction %s (%q): %v", rec.ID, rec.Description, err))
				continue
			}
			stats.TransactionsImported++
		default:
			return stats, fmt.Errorf("look up transaction %s: %w", rec.ID, err)
		}
	}

	return stats, nil
}
