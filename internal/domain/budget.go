package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is the per-session aggregate root. The four totals are derived from
// the item set and recomputed after every mutation; handlers and repositories
// must never write them independently.
type Budget struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`

	InitialInvestment decimal.Decimal `json:"initial_investment"`

	TotalEstimatedExpenses decimal.Decimal `json:"total_estimated_expenses"`
	TotalEstimatedRevenue  decimal.Decimal `json:"total_estimated_revenue"`
	TotalActualExpenses    decimal.Decimal `json:"total_actual_expenses"`
	TotalActualRevenue     decimal.Decimal `json:"total_actual_revenue"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []*BudgetItem `json:"items"`
}

// Totals holds the four derived sums in one value so the aggregation engine
// can return them atomically.
type Totals struct {
	EstimatedExpenses decimal.Decimal `json:"estimated_expenses"`
	EstimatedRevenue  decimal.Decimal `json:"estimated_revenue"`
	ActualExpenses    decimal.Decimal `json:"actual_expenses"`
	ActualRevenue     decimal.Decimal `json:"actual_revenue"`
}

// ZeroTotals returns a Totals with all four sums at zero.
func ZeroTotals() Totals {
	return Totals{
		EstimatedExpenses: decimal.Zero,
		EstimatedRevenue:  decimal.Zero,
		ActualExpenses:    decimal.Zero,
		ActualRevenue:     decimal.Zero,
	}
}

// Summary is the caller-facing totals view. Variance is total actual minus
// total estimated across both categories.
type Summary struct {
	TotalEstimated    decimal.Decimal `json:"total_estimated"`
	TotalActual       decimal.Decimal `json:"total_actual"`
	EstimatedExpenses decimal.Decimal `json:"estimated_expenses"`
	EstimatedRevenue  decimal.Decimal `json:"estimated_revenue"`
	ActualExpenses    decimal.Decimal `json:"actual_expenses"`
	ActualRevenue     decimal.Decimal `json:"actual_revenue"`
	Variance          decimal.Decimal `json:"variance"`
}

// SummaryFromTotals derives the summary view from a set of totals.
func SummaryFromTotals(t Totals) Summary {
	totalEstimated := t.EstimatedExpenses.Add(t.EstimatedRevenue)
	totalActual := t.ActualExpenses.Add(t.ActualRevenue)
	return Summary{
		TotalEstimated:    totalEstimated,
		TotalActual:       totalActual,
		EstimatedExpenses: t.EstimatedExpenses,
		EstimatedRevenue:  t.EstimatedRevenue,
		ActualExpenses:    t.ActualExpenses,
		ActualRevenue:     t.ActualRevenue,
		Variance:          totalActual.Sub(totalEstimated),
	}
}

// EmptyBudget returns the zeroed structure handed back when a session has no
// budget yet.
func EmptyBudget(sessionID string) *Budget {
	now := time.Now().UTC()
	return &Budget{
		SessionID:              sessionID,
		InitialInvestment:      decimal.Zero,
		TotalEstimatedExpenses: decimal.Zero,
		TotalEstimatedRevenue:  decimal.Zero,
		TotalActualExpenses:    decimal.Zero,
		TotalActualRevenue:     decimal.Zero,
		CreatedAt:              now,
		UpdatedAt:              now,
		Items:                  []*BudgetItem{},
	}
}
