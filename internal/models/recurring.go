package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecurringTransaction is a template from which periodic transactions
// are generated.
type RecurringTransaction struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Name            string     `gorm:"size:200;not null" json:"name"`
	Description     string     `gorm:"size:500;not null" json:"description"`
	Amount          float64    `gorm:"not null" json:"amount"`
	RecurrenceType  string     `gorm:"size:20;not null" json:"recurrence_type"`
	RecurrenceDay   int        `json:"recurrence_day"` // day of month for monthly, weekday for weekly
	CategoryID      uint       `gorm:"not null" json:"category_id"`
	TransactionType string     `gorm:"size:20;not null" json:"transaction_type"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	NextExecution   *time.Time `json:"next_execution"`
	LastExecution   *time.Time `json:"last_execution"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Category Category `json:"-"`
}

func (r *RecurringTransaction) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
