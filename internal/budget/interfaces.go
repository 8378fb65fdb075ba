package budget

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ivolkov/founderdesk/internal/domain"
)

// Store is the persistence gateway consumed by the reconciliation service.
// Each call commits independently; no cross-call transaction is assumed.
type Store interface {
	// SelectBudget returns the budget for a session, without items.
	// Returns ErrNotFound when no budget exists for the session.
	SelectBudget(ctx context.Context, sessionID string) (*domain.Budget, error)

	// InsertBudget creates a budget row and returns its assigned id.
	InsertBudget(ctx context.Context, b *domain.Budget) (string, error)

	// UpdateBudgetHeader overwrites initial_investment and user_id.
	UpdateBudgetHeader(ctx context.Context, budgetID, userID string, initialInvestment decimal.Decimal) error

	// UpdateBudgetTotals persists the four derived totals.
	UpdateBudgetTotals(ctx context.Context, budgetID string, totals domain.Totals) error

	// UpdateBudgetEstimatedRevenue persists only the estimated revenue
	// total, leaving the other three untouched.
	UpdateBudgetEstimatedRevenue(ctx context.Context, budgetID string, amount decimal.Decimal) error

	// SelectItems returns all items of a budget ordered by creation time.
	SelectItems(ctx context.Context, budgetID string) ([]*domain.BudgetItem, error)

	// InsertItems inserts new items, assigning ids where absent.
	InsertItems(ctx context.Context, items []*domain.BudgetItem) error

	// UpdateItem overwrites a persisted item's mutable fields.
	UpdateItem(ctx context.Context, item *domain.BudgetItem) error

	// DeleteItems removes the items with the given ids from the budget.
	DeleteItems(ctx context.Context, budgetID string, ids []string) error
}

// SessionStore confirms a chat session belongs to a user.
type SessionStore interface {
	// SelectSession returns the session, or ErrNotFound when it does not
	// exist or is owned by a different user.
	SelectSession(ctx context.Context, sessionID, userID string) (*domain.ChatSession, error)
}
