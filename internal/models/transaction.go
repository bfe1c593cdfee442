package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recurrence type values for transactions and recurring templates.
const (
	RecurrenceNone    = "none"
	RecurrenceMonthly = "monthly"
	RecurrenceWeekly  = "weekly"
	RecurrenceYearly  = "yearly"
)

// Transaction is a single income or expense record. The primary key is
// a UUID string so records keep their identity when moved between
// stores; integer keys would collide.
type Transaction struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Date            time.Time `gorm:"index;not null" json:"date"`
	Amount          float64   `gorm:"not null" json:"amount"` // positive magnitude, sign implied by type
	Description     string    `gorm:"size:500;not null" json:"description"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CategoryID      uint      `gorm:"index;not null" json:"category_id"`
	TransactionType string    `gorm:"size:20;index;not null" json:"transaction_type"`
	RecurrenceType  string    `gorm:"size:20;default:'none'" json:"recurrence_type"`
	Tags            string    `gorm:"size:500" json:"tags"` // comma-joined
	MetadataJSON    string    `gorm:"type:text" json:"metadata_json"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Category Category `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}

// BeforeCreate assigns a UUID when the caller did not bring one
// (imports preserve the original identity).
func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TagList splits the stored comma-joined tags, dropping blanks.
func (t *Transaction) TagList() []string {
	if t.Tags == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(t.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// SetTagList stores the given tags as comma-joined text.
func (t *Transaction) SetTagList(tags []string) {
	t.Tags = strings.Join(tags, ",")
}
