package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/blackeyes972/budget-familiare/internal/models"

	"gorm.io/gorm"
)

// DefaultCategory is one entry of the built-in catalog.
type DefaultCategory struct {
	Name     string
	Type     string
	Color    string
	Icon     string
	Metadata map[string]interface{}
}

// DefaultCatalog is the catalog seeded on first run: 6 income and 12
// expense categories.
var DefaultCatalog = []DefaultCategory{
	// income
	{
		Name: "💼 Salary", Type: models.TypeIncome, Color: "#2ecc71", Icon: "💼",
		Metadata: map[string]interface{}{"priority": 1, "recurring": true, "essential": true, "description": "Fixed monthly salary"},
	},
	{
		Name: "💻 Freelance", Type: models.TypeIncome, Color: "#27ae60", Icon: "💻",
		Metadata: map[string]interface{}{"priority": 2, "recurring": false, "variable": true, "description": "Freelance work and consulting"},
	},
	{
		Name: "📈 Investments", Type: models.TypeIncome, Color: "#16a085", Icon: "📈",
		Metadata: map[string]interface{}{"priority": 3, "volatile": true, "long_term": true, "description": "Investment returns"},
	},
	{
		Name: "🎁 Bonus", Type: models.TypeIncome, Color: "#f39c12", Icon: "🎁",
		Metadata: map[string]interface{}{"priority": 4, "occasional": true, "description": "Bonuses, prizes, cash gifts"},
	},
	{
		Name: "↩️ Refunds", Type: models.TypeIncome, Color: "#e67e22", Icon: "↩️",
		Metadata: map[string]interface{}{"priority": 5, "occasional": true, "description": "Expense refunds, returns"},
	},
	{
		Name: "💰 Other Income", Type: models.TypeIncome, Color: "#95a5a6", Icon: "💰",
		Metadata: map[string]interface{}{"priority": 9, "catch_all": true, "description": "Uncategorized income"},
	},

	// expenses
	{
		Name: "🏠 Housing", Type: models.TypeExpense, Color: "#e74c3c", Icon: "🏠",
		Metadata: map[string]interface{}{"priority": 1, "essential": true, "recurring": true, "description": "Rent, mortgage, building fees"},
	},
	{
		Name: "🛒 Groceries", Type: models.TypeExpense, Color: "#e67e22", Icon: "🛒",
		Metadata: map[string]interface{}{"priority": 1, "essential": true, "recurring": true, "description": "Food shopping, supermarket"},
	},
	{
		Name: "💡 Utilities", Type: models.TypeExpense, Color: "#34495e", Icon: "💡",
		Metadata: map[string]interface{}{"priority": 1, "essential": true, "recurring": true, "description": "Electricity, gas, water, internet bills"},
	},
	{
		Name: "🚗 Transport", Type: models.TypeExpense, Color: "#9b59b6", Icon: "🚗",
		Metadata: map[string]interface{}{"priority": 2, "recurring": true, "description": "Fuel, public transport, car maintenance"},
	},
	{
		Name: "🏥 Health", Type: models.TypeExpense, Color: "#1abc9c", Icon: "🏥",
		Metadata: map[string]interface{}{"priority": 1, "essential": true, "description": "Medical visits, medicines, health insurance"},
	},
	{
		Name: "📚 Education", Type: models.TypeExpense, Color: "#ff9800", Icon: "📚",
		Metadata: map[string]interface{}{"priority": 2, "investment": true, "description": "Courses, books, training"},
	},
	{
		Name: "🎉 Leisure", Type: models.TypeExpense, Color: "#3498db", Icon: "🎉",
		Metadata: map[string]interface{}{"priority": 4, "discretionary": true, "description": "Entertainment, cinema, restaurants"},
	},
	{
		Name: "👕 Clothing", Type: models.TypeExpense, Color: "#e91e63", Icon: "👕",
		Metadata: map[string]interface{}{"priority": 3, "seasonal": true, "description": "Clothes, shoes, accessories"},
	},
	{
		Name: "📱 Technology", Type: models.TypeExpense, Color: "#607d8b", Icon: "📱",
		Metadata: map[string]interface{}{"priority": 3, "occasional": true, "description": "Devices, software, tech subscriptions"},
	},
	{
		Name: "🎁 Gifts", Type: models.TypeExpense, Color: "#f06292", Icon: "🎁",
		Metadata: map[string]interface{}{"priority": 4, "seasonal": true, "social": true, "description": "Gifts for special occasions"},
	},
	{
		Name: "💳 Taxes", Type: models.TypeExpense, Color: "#795548", Icon: "💳",
		Metadata: map[string]interface{}{"priority": 1, "essential": true, "periodic": true, "description": "Taxes, duties, contributions"},
	},
	{
		Name: "🔧 Other Expenses", Type: models.TypeExpense, Color: "#95a5a6", Icon: "🔧",
		Metadata: map[string]interface{}{"priority": 9, "catch_all": true, "description": "Uncategorized expenses"},
	},
}

// EnsureDefaults seeds the default catalog when the category table is
// empty. It is idempotent: any existing row, default or user-created,
// makes it a no-op, so repeated calls never duplicate entries.
func EnsureDefaults(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	categories := make([]models.Category, 0, len(DefaultCatalog))
	for _, def := range DefaultCatalog {
		meta, err := json.Marshal(def.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for %q: %w", def.Name, err)
		}
		categories = append(categories, models.Category{
			Name:            def.Name,
			TransactionType: def.Type,
			Color:           def.Color,
			Icon:            def.Icon,
			IsActive:        true,
			MetadataJSON:    string(meta),
		})
	}

	if err := db.Create(&categories).Error; err != nil {
		return fmt.Errorf("seed default categories: %w", err)
	}
	return nil
}
