package models

import "time"

// Budget declares a monthly spending cap for one category. It is a
// declared limit only; nothing in the reporting layer enforces it.
type Budget struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CategoryID     uint      `gorm:"index;not null" json:"category_id"`
	MonthlyLimit   float64   `gorm:"not null" json:"monthly_limit"`
	AlertThreshold float64   `gorm:"default:0.8" json:"alert_threshold"` // fraction of the limit
	Year           int       `gorm:"not null" json:"year"`
	Month          int       `gorm:"not null" json:"month"` // 1-12
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	MetadataJSON   string    `gorm:"type:text" json:"metadata_json"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Category Category `json:"-"`
}
