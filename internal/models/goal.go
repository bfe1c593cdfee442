package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Goal is a savings target.
type Goal struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	Name          string     `gorm:"size:200;not null" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	TargetAmount  float64    `gorm:"not null" json:"target_amount"`
	CurrentAmount float64    `gorm:"default:0" json:"current_amount"`
	TargetDate    *time.Time `json:"target_date"`
	IsCompleted   bool       `gorm:"default:false" json:"is_completed"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	GoalType      string     `gorm:"size:50;default:'savings'" json:"goal_type"` // savings, debt_payoff, investment, purchase
	Priority      int        `gorm:"default:2" json:"priority"`                  // 1=high, 2=medium, 3=low
	MetadataJSON  string     `gorm:"type:text" json:"metadata_json"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

func (g *Goal) BeforeCreate(*gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}

// ProgressPercentage is how far the goal has come, capped at 100.
// A non-positive target makes progress meaningless, so it reads 0.
func (g *Goal) ProgressPercentage() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.CurrentAmount / g.TargetAmount * 100
	if p > 100 {
		return 100
	}
	return p
}

// RemainingAmount is what is still missing, never negative.
func (g *Goal) RemainingAmount() float64 {
	if r := g.TargetAmount - g.CurrentAmount; r > 0 {
		return r
	}
	return 0
}
