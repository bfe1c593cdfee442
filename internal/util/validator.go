package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackeyes972/budget-familiare/internal/models"
)

// ValidateAmount checks that an amount is positive and below the sanity cap.
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %f", amount)
	}
	if amount >= 10000000 {
		return fmt.Errorf("amount too large, got %f", amount)
	}
	return nil
}

// ValidateDescription checks that a description is present.
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("description is empty")
	}
	if len(description) > 500 {
		return fmt.Errorf("description too long, max 500 characters")
	}
	return nil
}

// ValidateDate checks YYYY-MM-DD format and returns the parsed time.
func ValidateDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	return t, nil
}

// ValidateTransactionType checks the type value.
func ValidateTransactionType(t string) error {
	if t != models.TypeIncome && t != models.TypeExpense {
		return fmt.Errorf("transaction type must be %q or %q, got %q",
			models.TypeIncome, models.TypeExpense, t)
	}
	return nil
}

// ValidateRecurrence checks the recurrence value.
func ValidateRecurrence(r string) error {
	switch r {
	case models.RecurrenceNone, models.RecurrenceMonthly,
		models.RecurrenceWeekly, models.RecurrenceYearly:
		return nil
	}
	return fmt.Errorf("invalid recurrence type %q", r)
}
