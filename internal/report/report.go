// Package report computes read-only financial summaries. Every method
// opens one scoped session, never mutates transaction data, and is safe
// to call concurrently with writes (latest committed state wins).
package report

import (
	"fmt"
	"time"

	"github.com/blackeyes972/budget-familiare/internal/models"

	"gorm.io/gorm"
)

// Engine runs aggregation queries against one store.
type Engine struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Summary is the income/expense/net shape shared by period and monthly
// reports.
type Summary struct {
	IncomeTotal  float64    `json:"income_total"`
	ExpenseTotal float64    `json:"expense_total"`
	Net          float64    `json:"net"`
	Count        int64      `json:"count"`
	FirstDate    *time.Time `json:"first_date"`
	LastDate     *time.Time `json:"last_date"`
}

// PeriodSummary sums transactions inside [start, end]. Either bound may
// be nil for an open end. FirstDate/LastDate are the matching set's
// extremes, computed inside the same filter.
func (e *Engine) PeriodSummary(start, end *time.Time) (*Summary, error) {
	session := e.db.Session(&gorm.Session{})

	base := func() *gorm.DB {
		q := session.Model(&models.Transaction{})
		if start != nil {
			q = q.Where("date >= ?", *start)
		}
		if end != nil {
			q = q.Where("date <= ?", *end)
		}
		return q
	}

	s := &Summary{}
	if err := base().Where("transaction_type = ?", models.TypeIncome).
		Select("COALESCE(SUM(amount), 0)").Scan(&s.IncomeTotal).Error; err != nil {
		return nil, fmt.Errorf("sum income: %w", err)
	}
	if err := base().Where("transaction_type = ?", models.TypeExpense).
		Select("COALESCE(SUM(amount), 0)").Scan(&s.ExpenseTotal).Error; err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}
	if err := base().Count(&s.Count).Error; err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}
	s.Net = s.IncomeTotal - s.ExpenseTotal

	var bounds struct {
		FirstDate *time.Time
		LastDate  *time.Time
	}
	if err := base().Select("MIN(date) AS first_date, MAX(date) AS last_date").Scan(&bounds).Error; err != nil {
		return nil, fmt.Errorf("date bounds: %w", err)
	}
	s.FirstDate, s.LastDate = bounds.FirstDate, bounds.LastDate

	return s, nil
}

// MonthRange returns the inclusive bounds of a calendar month: from the
// first instant of its first day up to the last instant before the next
// month. December rolls into January of the next year and February ends
// on the actual last day, leap years included.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// MonthlySummary is PeriodSummary over one calendar month.
func (e *Engine) MonthlySummary(year, month int) (*Summary, error) {
	start, end := MonthRange(year, month)
	return e.PeriodSummary(&start, &end)
}

// CategorySummary is one row of the per-category monthly report.
type CategorySummary struct {
	CategoryID      uint    `gorm:"column:category_id" json:"category_id"`
	CategoryName    string  `gorm:"column:category_name" json:"category_name"`
	TransactionType string  `gorm:"column:transaction_type" json:"transaction_type"`
	Sum             float64 `gorm:"column:total_amount" json:"sum"`
	Count           int64   `gorm:"column:tx_count" json:"count"`
	Avg             float64 `gorm:"column:avg_amount" json:"avg"`
}

// CategoryMonthlySummary groups one month's transactions by (category,
// type), ordered by sum descending.
func (e *Engine) CategoryMonthlySummary(year, month int) ([]CategorySummary, error) {
	start, end := MonthRange(year, month)

	var rows []CategorySummary
	err := e.db.Session(&gorm.Session{}).
		Model(&models.Transaction{}).
		Select("transactions.category_id AS category_id, categories.name AS category_name, transactions.transaction_type AS transaction_type, SUM(transactions.amount) AS total_amount, COUNT(transactions.id) AS tx_count, AVG(transactions.amount) AS avg_amount").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.date >= ? AND transactions.date <= ?", start, end).
		Group("transactions.category_id, categories.name, transactions.transaction_type").
		Order("total_amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("category summary: %w", err)
	}
	return rows, nil
}

// DaySummary is one (day, type) bucket of the daily report.
type DaySummary struct {
	Day             string  `json:"day"` // YYYY-MM-DD
	TransactionType string  `json:"transaction_type"`
	Sum             float64 `json:"sum"`
	Count           int64   `json:"count"`
}

// DailySummary groups one month's transactions by calendar day and
// type, chronologically. Grouping happens in Go so no engine-specific
// date function is needed.
func (e *Engine) DailySummary(year, month int) ([]DaySummary, error) {
	start, end := MonthRange(year, month)

	var transactions []models.Transaction
	err := e.db.Session(&gorm.Session{}).
		Where("date >= ? AND date <= ?", start, end).
		Order("date, id").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("load month transactions: %w", err)
	}

	type key struct {
		day string
		typ string
	}
	buckets := make(map[key]*DaySummary)
	var order []key
	for i := range transactions {
		t := &transactions[i]
		k := key{day: t.Date.UTC().Format("2006-01-02"), typ: t.TransactionType}
		b, ok := buckets[k]
		if !ok {
			b = &DaySummary{Day: k.day, TransactionType: k.typ}
			buckets[k] = b
			order = append(order, k)
		}
		b.Sum += t.Amount
		b.Count++
	}

	out := make([]DaySummary, 0, len(order))
	for _, k := range order {
		out = append(out, *buckets[k])
	}
	return out, nil
}

// Delta is the month-over-month movement of one metric.
type Delta struct {
	ChangeAmount  float64 `json:"change_amount"`
	ChangePercent float64 `json:"change_percent"`
}

// Trend compares a month with the one right before it.
type Trend struct {
	Current  *Summary `json:"current"`
	Previous *Summary `json:"previous"`
	Income   Delta    `json:"income"`
	Expense  Delta    `json:"expense"`
	Net      Delta    `json:"net"`
}

// changePercent follows a fixed convention when the previous value is
// exactly 0: 100 if the current value is positive, 0 otherwise. This
// avoids dividing by zero and is a deliberate definition, not a derived
// ratio.
func changePercent(previous, current float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// Trend reports the deltas between the given month and the immediately
// preceding calendar month.
func (e *Engine) Trend(year, month int) (*Trend, error) {
	current, err := e.MonthlySummary(year, month)
	if err != nil {
		return nil, err
	}

	prevYear, prevMonth := year, month-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, 12
	}
	previous, err := e.MonthlySummary(prevYear, prevMonth)
	if err != nil {
		return nil, err
	}

	return &Trend{
		Current:  current,
		Previous: previous,
		Income: Delta{
			ChangeAmount:  current.IncomeTotal - previous.IncomeTotal,
			ChangePercent: changePercent(previous.IncomeTotal, current.IncomeTotal),
		},
		Expense: Delta{
			ChangeAmount:  current.ExpenseTotal - previous.ExpenseTotal,
			ChangePercent: changePercent(previous.ExpenseTotal, current.ExpenseTotal),
		},
		Net: Delta{
			ChangeAmount:  current.Net - previous.Net,
			ChangePercent: changePercent(previous.Net, current.Net),
		},
	}, nil
}

// TopExpenses returns the limit largest expense transactions of the
// month. Equal amounts are ordered by date then id, so the result is
// deterministic across engines.
func (e *Engine) TopExpenses(year, month, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 5
	}
	start, end := MonthRange(year, month)

	var transactions []models.Transaction
	err := e.db.Session(&gorm.Session{}).
		Where("transaction_type = ? AND date >= ? AND date <= ?", models.TypeExpense, start, end).
		Order("amount DESC, date ASC, id ASC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("top expenses: %w", err)
	}
	return transactions, nil
}
