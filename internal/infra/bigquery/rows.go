package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/shopspring/decimal"

	"github.com/ivolkov/founderdesk/internal/domain"
)

const (
	datasetID         = "founderdesk"
	budgetsTable      = "budgets"
	budgetItemsTable  = "budget_items"
	chatSessionsTable = "chat_sessions"

	// NUMERIC columns carry currency values; two fractional digits survive
	// the round trip.
	moneyScale = 2
)

// BudgetRow mirrors the founderdesk.budgets table.
type BudgetRow struct {
	ID        string `bigquery:"id"`         // REQUIRED
	UserID    string `bigquery:"user_id"`    // REQUIRED
	SessionID string `bigquery:"session_id"` // REQUIRED, unique per budget

	InitialInvestment *big.Rat `bigquery:"initial_investment"` // REQUIRED NUMERIC

	TotalEstimatedExpenses *big.Rat `bigquery:"total_estimated_expenses"` // REQUIRED NUMERIC
	TotalEstimatedRevenue  *big.Rat `bigquery:"total_estimated_revenue"`  // REQUIRED NUMERIC
	TotalActualExpenses    *big.Rat `bigquery:"total_actual_expenses"`    // REQUIRED NUMERIC
	TotalActualRevenue     *big.Rat `bigquery:"total_actual_revenue"`     // REQUIRED NUMERIC

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
	UpdatedTS time.Time `bigquery:"updated_ts"` // REQUIRED
}

// BudgetItemRow mirrors the founderdesk.budget_items table.
type BudgetItemRow struct {
	ID       string `bigquery:"id"`        // REQUIRED
	BudgetID string `bigquery:"budget_id"` // REQUIRED

	Name        string              `bigquery:"name"`        // REQUIRED
	Category    string              `bigquery:"category"`    // REQUIRED ('expense'|'revenue')
	Subcategory bigquery.NullString `bigquery:"subcategory"` // NULLABLE

	EstimatedAmount *big.Rat `bigquery:"estimated_amount"` // REQUIRED NUMERIC
	ActualAmount    *big.Rat `bigquery:"actual_amount"`    // NULLABLE NUMERIC

	EstimatedPrice  *big.Rat           `bigquery:"estimated_price"`  // NULLABLE NUMERIC
	EstimatedVolume bigquery.NullInt64 `bigquery:"estimated_volume"` // NULLABLE

	Description bigquery.NullString `bigquery:"description"` // NULLABLE
	IsCustom    bool                `bigquery:"is_custom"`   // REQUIRED
	IsSelected  bool                `bigquery:"is_selected"` // REQUIRED

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
	UpdatedTS time.Time `bigquery:"updated_ts"` // REQUIRED
}

// SessionRow mirrors the founderdesk.chat_sessions table, owned by the
// conversational backend and only read here.
type SessionRow struct {
	ID           string              `bigquery:"id"`            // REQUIRED
	UserID       string              `bigquery:"user_id"`       // REQUIRED
	Title        bigquery.NullString `bigquery:"title"`         // NULLABLE
	BusinessType bigquery.NullString `bigquery:"business_type"` // NULLABLE
	CreatedTS    time.Time           `bigquery:"created_ts"`    // REQUIRED
}

func ratToDecimal(r *big.Rat) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigRat(r, moneyScale)
}

func ratToDecimalPtr(r *big.Rat) *decimal.Decimal {
	if r == nil {
		return nil
	}
	d := decimal.NewFromBigRat(r, moneyScale)
	return &d
}

func decimalPtrToRat(d *decimal.Decimal) *big.Rat {
	if d == nil {
		return nil
	}
	return d.Rat()
}

// ToDomain converts a budget row without items attached.
func (r *BudgetRow) ToDomain() *domain.Budget {
	return &domain.Budget{
		ID:                     r.ID,
		UserID:                 r.UserID,
		SessionID:              r.SessionID,
		InitialInvestment:      ratToDecimal(r.InitialInvestment),
		TotalEstimatedExpenses: ratToDecimal(r.TotalEstimatedExpenses),
		TotalEstimatedRevenue:  ratToDecimal(r.TotalEstimatedRevenue),
		TotalActualExpenses:    ratToDecimal(r.TotalActualExpenses),
		TotalActualRevenue:     ratToDecimal(r.TotalActualRevenue),
		CreatedAt:              r.CreatedTS,
		UpdatedAt:              r.UpdatedTS,
	}
}

// ToDomain converts an item row.
func (r *BudgetItemRow) ToDomain() *domain.BudgetItem {
	it := &domain.BudgetItem{
		ID:              r.ID,
		BudgetID:        r.BudgetID,
		Name:            r.Name,
		Category:        domain.Category(r.Category),
		EstimatedAmount: ratToDecimal(r.EstimatedAmount),
		ActualAmount:    ratToDecimalPtr(r.ActualAmount),
		EstimatedPrice:  ratToDecimalPtr(r.EstimatedPrice),
		IsCustom:        r.IsCustom,
		IsSelected:      r.IsSelected,
		CreatedAt:       r.CreatedTS,
		UpdatedAt:       r.UpdatedTS,
	}
	if r.Subcategory.Valid {
		it.Subcategory = r.Subcategory.StringVal
	}
	if r.Description.Valid {
		it.Description = r.Description.StringVal
	}
	if r.EstimatedVolume.Valid {
		v := r.EstimatedVolume.Int64
		it.EstimatedVolume = &v
	}
	return it
}

// ToDomain converts a session row.
func (r *SessionRow) ToDomain() *domain.ChatSession {
	s := &domain.ChatSession{
		ID:        r.ID,
		UserID:    r.UserID,
		CreatedAt: r.CreatedTS,
	}
	if r.Title.Valid {
		s.Title = r.Title.StringVal
	}
	if r.BusinessType.Valid {
		s.BusinessType = r.BusinessType.StringVal
	}
	return s
}
