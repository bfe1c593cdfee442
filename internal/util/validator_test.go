package util

import (
	"strings"
	"testing"
)

func TestValidateAmount_Positive(t *testing.T) {
	testCases := []float64{0.01, 1.0, 100.5, 9999999.99}

	for _, amount := range testCases {
		err := ValidateAmount(amount)
		if err != nil {
			t.Errorf("ValidateAmount(%f) error = %v, want nil", amount, err)
		}
	}
}

func TestValidateAmount_Zero(t *testing.T) {
	err := ValidateAmount(0)

	if err == nil {
		t.Error("ValidateAmount(0) error = nil, want error")
	}
}

func TestValidateAmount_Negative(t *testing.T) {
	testCases := []float64{-0.01, -100, -9999.99}

	for _, amount := range testCases {
		err := ValidateAmount(amount)
		if err == nil {
			t.Errorf("ValidateAmount(%f) error = nil, want error", amount)
		}
	}
}

func TestValidateAmount_TooLarge(t *testing.T) {
	err := ValidateAmount(100000000)

	if err == nil {
		t.Error("ValidateAmount(100000000) error = nil, want error")
	}
}

func TestValidateDescription_Valid(t *testing.T) {
	testCases := []string{"Groceries", "Rent march", "a"}

	for _, description := range testCases {
		err := ValidateDescription(description)
		if err != nil {
			t.Errorf("ValidateDescription(%q) error = %v, want nil", description, err)
		}
	}
}

func TestValidateDescription_Empty(t *testing.T) {
	testCases := []string{"", "   ", "\t\n"}

	for _, description := range testCases {
		err := ValidateDescription(description)
		if err == nil {
			t.Errorf("ValidateDescription(%q) error = nil, want error", description)
		}
	}
}

func TestValidateDescription_TooLong(t *testing.T) {
	err := ValidateDescription(strings.Repeat("x", 501))

	if err == nil {
		t.Error("ValidateDescription() with 501 chars error = nil, want error")
	}
}

func TestValidateDate_Valid(t *testing.T) {
	testCases := []string{
		"2024-01-01",
		"2024-12-31",
		"2025-06-15",
	}

	for _, date := range testCases {
		parsed, err := ValidateDate(date)
		if err != nil {
			t.Errorf("ValidateDate(%q) error = %v, want nil", date, err)
		}
		if parsed.IsZero() {
			t.Errorf("ValidateDate(%q) returned zero time", date)
		}
	}
}

func TestValidateDate_InvalidFormat(t *testing.T) {
	testCases := []string{
		"",
		"2024/01/01",
		"01-01-2024",
		"not-a-date",
		"2024-13-01",
		"2024-01-32",
	}

	for _, date := range testCases {
		_, err := ValidateDate(date)
		if err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", date)
		}
	}
}

func TestValidateTransactionType(t *testing.T) {
	if err := ValidateTransactionType("income"); err != nil {
		t.Errorf("ValidateTransactionType(income) error = %v, want nil", err)
	}
	if err := ValidateTransactionType("expense"); err != nil {
		t.Errorf("ValidateTransactionType(expense) error = %v, want nil", err)
	}

	for _, tt := range []string{"", "INCOME", "transfer"} {
		if err := ValidateTransactionType(tt); err == nil {
			t.Errorf("ValidateTransactionType(%q) error = nil, want error", tt)
		}
	}
}

func TestValidateRecurrence(t *testing.T) {
	for _, r := range []string{"none", "monthly", "weekly", "yearly"} {
		if err := ValidateRecurrence(r); err != nil {
			t.Errorf("ValidateRecurrence(%q) error = %v, want nil", r, err)
		}
	}

	for _, r := range []string{"", "daily", "MONTHLY"} {
		if err := ValidateRecurrence(r); err == nil {
			t.Errorf("ValidateRecurrence(%q) error = nil, want error", r)
		}
	}
}
