package models

import "time"

// Account is a bank account or wallet.
type Account struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"size:100;not null" json:"name"`
	AccountType        string    `gorm:"size:50;not null" json:"account_type"` // checking, savings, credit_card, cash, investment
	Currency           string    `gorm:"size:3;default:'EUR'" json:"currency"`
	InitialBalance     float64   `gorm:"default:0" json:"initial_balance"`
	CurrentBalance     float64   `gorm:"default:0" json:"current_balance"`
	IsActive           bool      `gorm:"default:true" json:"is_active"`
	IncludeInTotals    bool      `gorm:"default:true" json:"include_in_totals"`
	BankName           string    `gorm:"size:100" json:"bank_name"`
	AccountNumberLast4 string    `gorm:"size:4" json:"account_number_last4"` // last 4 digits only
	Color              string    `gorm:"size:7;default:'#3498db'" json:"color"`
	Icon               string    `gorm:"size:50" json:"icon"`
	MetadataJSON       string    `gorm:"type:text" json:"metadata_json"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
