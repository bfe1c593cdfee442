package catalog

import (
	"errors"
	"fmt"

	"github.com/blackeyes972/budget-familiare/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when a category with the same natural key
// already exists.
var ErrDuplicate = errors.New("category already exists")

// ErrNotFound is returned when the category id does not resolve.
var ErrNotFound = errors.New("category not found")

// Manager runs category operations against one store.
type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// List returns categories ordered by name. transactionType filters by
// type when non-empty; activeOnly hides soft-deleted entries.
func (m *Manager) List(transactionType string, activeOnly bool) ([]models.Category, error) {
	query := m.db.Model(&models.Category{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if transactionType != "" {
		query = query.Where("transaction_type = ?", transactionType)
	}

	var categories []models.Category
	if err := query.Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Add inserts a new category. Names are unique across the whole
// catalog regardless of type, so the duplicate check is by name alone;
// a conflict is a no-op reporting ErrDuplicate, nothing partial is
// written.
func (m *Manager) Add(cat *models.Category) error {
	var existing models.Category
	err := m.db.Where("name = ?", cat.Name).First(&existing).Error
	switch {
	case err == nil:
		return ErrDuplicate
	case err != gorm.ErrRecordNotFound:
		return fmt.Errorf("look up category: %w", err)
	}

	if cat.MetadataJSON == "" {
		cat.MetadataJSON = `{"user_created":true}`
	}
	cat.IsActive = true
	if err := m.db.Create(cat).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update applies the given mutable fields to an existing category.
func (m *Manager) Update(id uint, updates map[string]interface{}) error {
	res := m.db.Model(&models.Category{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category. One that is still referenced by
// transactions is only deactivated (soft delete); an unreferenced one
// is removed for good.
func (m *Manager) Delete(id uint) error {
	var cat models.Category
	if err := m.db.First(&cat, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("look up category: %w", err)
	}

	var refs int64
	if err := m.db.Model(&models.Transaction{}).Where("category_id = ?", id).Count(&refs).Error; err != nil {
		return fmt.Errorf("count references: %w", err)
	}

	if refs > 0 {
		if err := m.db.Model(&cat).Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivate category: %w", err)
		}
		return nil
	}
	if err := m.db.Delete(&cat).Error; err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Stats summarizes the catalog.
type Stats struct {
	Total   int64             `json:"total_categories"`
	Active  int64             `json:"active_categories"`
	Income  int64             `json:"income_categories"`
	Expense int64             `json:"expense_categories"`
	Unused  []models.Category `json:"unused_categories"`
}

// Stats counts categories by state and type and lists the active ones
// no transaction references.
func (m *Manager) Stats() (*Stats, error) {
	s := &Stats{}
	model := m.db.Model(&models.Category{})

	if err := model.Count(&s.Total).Error; err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	if err := m.db.Model(&models.Category{}).Where("is_active = ?", true).Count(&s.Active).Error; err != nil {
		return nil, fmt.Errorf("count active: %w", err)
	}
	if err := m.db.Model(&models.Category{}).
		Where("is_active = ? AND transaction_type = ?", true, models.TypeIncome).
		Count(&s.Income).Error; err != nil {
		return nil, fmt.Errorf("count income: %w", err)
	}
	if err := m.db.Model(&models.Category{}).
		Where("is_active = ? AND transaction_type = ?", true, models.TypeExpense).
		Count(&s.Expense).Error; err != nil {
		return nil, fmt.Errorf("count expense: %w", err)
	}

	if err := m.db.
		Where("is_active = ? AND id NOT IN (?)", true,
			m.db.Model(&models.Transaction{}).Distinct("category_id")).
		Find(&s.Unused).Error; err != nil {
		return nil, fmt.Errorf("find unused: %w", err)
	}
	return s, nil
}
