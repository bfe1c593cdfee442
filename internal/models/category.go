package models

import "time"

// Transaction type values shared by categories and transactions.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Category represents an income/expense category.
// Name is unique across the whole catalog regardless of type.
type Category struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	TransactionType string    `gorm:"size:20;index;not null" json:"transaction_type"` // income / expense
	Color           string    `gorm:"size:7;default:'#3498db'" json:"color"`
	Icon            string    `gorm:"size:50" json:"icon"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	MetadataJSON    string    `gorm:"type:text" json:"metadata_json"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
