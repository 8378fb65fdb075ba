package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ivolkov/founderdesk/internal/domain"
)

// Service sequences identity resolution, diff planning, persistence
// mutations and aggregation into one reconciliation pass per call. It holds
// no mutable state beyond the per-budget lock table, so a single instance is
// constructed at startup and shared.
type Service struct {
	store    Store
	sessions SessionStore
	locks    *keyedLocks
	log      zerolog.Logger
}

// NewService creates a reconciliation service over the given gateways.
func NewService(store Store, sessions SessionStore, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		locks:    newKeyedLocks(),
		log:      log,
	}
}

// verifySession confirms the chat session exists and belongs to the caller.
func (s *Service) verifySession(ctx context.Context, userID, sessionID string) error {
	if _, err := s.sessions.SelectSession(ctx, sessionID, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		return &PersistenceError{Op: "select session", Err: err}
	}
	return nil
}

// resolve verifies session ownership and returns the budget for the session.
// Returns ErrNotFound when the session does not belong to the user or no
// budget exists yet.
func (s *Service) resolve(ctx context.Context, userID, sessionID string) (*domain.Budget, error) {
	if err := s.verifySession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	b, err := s.store.SelectBudget(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, &PersistenceError{Op: "select budget", Err: err}
	}
	return b, nil
}

// resolveOrCreate returns the session's budget, creating a zeroed one when
// absent. An existing budget created before the user signed in is adopted by
// overwriting its user reference.
func (s *Service) resolveOrCreate(ctx context.Context, userID, sessionID string, initialInvestment decimal.Decimal) (*domain.Budget, error) {
	if err := s.verifySession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	b, err := s.store.SelectBudget(ctx, sessionID)
	if err == nil {
		if b.UserID != userID {
			s.log.Warn().
				Str("budget_id", b.ID).
				Str("old_user_id", b.UserID).
				Str("user_id", userID).
				Msg("Adopting budget for user")
			if err := s.store.UpdateBudgetHeader(ctx, b.ID, userID, b.InitialInvestment); err != nil {
				return nil, &PersistenceError{Op: "adopt budget", Err: err}
			}
			b.UserID = userID
		}
		return b, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, &PersistenceError{Op: "select budget", Err: err}
	}

	nb := domain.EmptyBudget(sessionID)
	nb.UserID = userID
	nb.InitialInvestment = initialInvestment
	id, err := s.store.InsertBudget(ctx, nb)
	if err != nil {
		return nil, &PersistenceError{Op: "insert budget", Err: err}
	}
	nb.ID = id
	s.log.Info().Str("budget_id", id).Str("session_id", sessionID).Msg("Created budget")
	return nb, nil
}

// fetchFull re-reads the budget row and its items in creation order.
func (s *Service) fetchFull(ctx context.Context, sessionID string) (*domain.Budget, error) {
	b, err := s.store.SelectBudget(ctx, sessionID)
	if err != nil {
		return nil, &PersistenceError{Op: "select budget", Err: err}
	}
	items, err := s.store.SelectItems(ctx, b.ID)
	if err != nil {
		return nil, &PersistenceError{Op: "select items", Err: err}
	}
	b.Items = items
	return b, nil
}

// GetBudget returns the budget with its items, or a zeroed structure when
// the session has no budget yet. A missing session is still ErrNotFound.
func (s *Service) GetBudget(ctx context.Context, userID, sessionID string) (*domain.Budget, error) {
	if err := s.verifySession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	b, err := s.store.SelectBudget(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.EmptyBudget(sessionID), nil
		}
		return nil, &PersistenceError{Op: "select budget", Err: err}
	}
	items, err := s.store.SelectItems(ctx, b.ID)
	if err != nil {
		return nil, &PersistenceError{Op: "select items", Err: err}
	}
	b.Items = items
	return b, nil
}

// Reconcile runs one complete diff→mutate→aggregate pass for the session's
// budget, creating it on first call, and returns the refreshed budget with
// items in creation order. Calling it twice with the same incoming
// collection is idempotent: item identity, not submission order, drives the
// diff.
func (s *Service) Reconcile(ctx context.Context, userID, sessionID string, incoming []*domain.BudgetItem, initialInvestment decimal.Decimal) (*domain.Budget, error) {
	for _, it := range incoming {
		if err := it.Validate(); err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}
	}

	b, err := s.resolveOrCreate(ctx, userID, sessionID, initialInvestment)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(b.ID)
	defer release()

	if err := s.store.UpdateBudgetHeader(ctx, b.ID, userID, initialInvestment); err != nil {
		return nil, &PersistenceError{Op: "update budget header", Err: err}
	}

	persisted, err := s.store.SelectItems(ctx, b.ID)
	if err != nil {
		return nil, &PersistenceError{Op: "select items", Err: err}
	}

	plan := PlanDiff(persisted, incoming)
	if err := s.applyPlan(ctx, b.ID, plan); err != nil {
		return nil, err
	}

	if err := s.refreshTotals(ctx, b.ID); err != nil {
		return nil, err
	}

	full, err := s.fetchFull(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("budget_id", b.ID).
		Int("inserted", len(plan.ToInsert)).
		Int("updated", len(plan.ToUpdate)).
		Int("deleted", len(plan.ToDeleteIDs)).
		Msg("Reconciliation pass completed")

	return full, nil
}

// applyPlan applies inserts, then updates, then deletes. A failure after the
// first mutation leaves partial state behind; that is surfaced as
// PartialReconciliationError and never rolled back, since re-running the
// diff converges.
func (s *Service) applyPlan(ctx context.Context, budgetID string, plan *Plan) error {
	mutated := false

	for _, it := range plan.ToInsert {
		it.BudgetID = budgetID
	}
	if len(plan.ToInsert) > 0 {
		if err := s.store.InsertItems(ctx, plan.ToInsert); err != nil {
			return s.mutationError(budgetID, "insert items", err, mutated)
		}
		mutated = true
	}

	for _, it := range plan.ToUpdate {
		if err := s.store.UpdateItem(ctx, it); err != nil {
			return s.mutationError(budgetID, "update item", err, mutated)
		}
		mutated = true
	}

	if len(plan.ToDeleteIDs) > 0 {
		if err := s.store.DeleteItems(ctx, budgetID, plan.ToDeleteIDs); err != nil {
			return s.mutationError(budgetID, "delete items", err, mutated)
		}
	}

	return nil
}

func (s *Service) mutationError(budgetID, step string, err error, mutated bool) error {
	if mutated {
		return &PartialReconciliationError{BudgetID: budgetID, Step: step, Err: err}
	}
	return &PersistenceError{Op: step, Err: err}
}

// refreshTotals recomputes the four derived totals from the authoritative
// post-mutation item set and persists them.
func (s *Service) refreshTotals(ctx context.Context, budgetID string) error {
	items, err := s.store.SelectItems(ctx, budgetID)
	if err != nil {
		return &PartialReconciliationError{BudgetID: budgetID, Step: "select items for totals", Err: err}
	}
	totals := Aggregate(items)
	if err := s.store.UpdateBudgetTotals(ctx, budgetID, totals); err != nil {
		return &PartialReconciliationError{BudgetID: budgetID, Step: "update totals", Err: err}
	}
	return nil
}

// AddItem appends a single item to the session's budget and re-aggregates.
func (s *Service) AddItem(ctx context.Context, userID, sessionID string, item *domain.BudgetItem) (*domain.Budget, error) {
	if err := item.Validate(); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	b, err := s.resolve(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(b.ID)
	defer release()

	item.ID = ""
	item.BudgetID = b.ID
	if err := s.store.InsertItems(ctx, []*domain.BudgetItem{item}); err != nil {
		return nil, &PersistenceError{Op: "insert item", Err: err}
	}
	if err := s.refreshTotals(ctx, b.ID); err != nil {
		return nil, err
	}
	return s.fetchFull(ctx, sessionID)
}

// UpdateItem applies a partial update to one item and re-aggregates.
func (s *Service) UpdateItem(ctx context.Context, userID, sessionID, itemID string, upd domain.ItemUpdate) (*domain.Budget, error) {
	b, err := s.resolve(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(b.ID)
	defer release()

	items, err := s.store.SelectItems(ctx, b.ID)
	if err != nil {
		return nil, &PersistenceError{Op: "select items", Err: err}
	}

	var current *domain.BudgetItem
	for _, it := range items {
		if it.ID == itemID {
			current = it
			break
		}
	}
	if current == nil {
		return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}

	next, err := upd.Apply(*current)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if err := s.store.UpdateItem(ctx, &next); err != nil {
		return nil, &PersistenceError{Op: "update item", Err: err}
	}
	if err := s.refreshTotals(ctx, b.ID); err != nil {
		return nil, err
	}
	return s.fetchFull(ctx, sessionID)
}

// DeleteItem removes one item and re-aggregates.
func (s *Service) DeleteItem(ctx context.Context, userID, sessionID, itemID string) (*domain.Budget, error) {
	b, err := s.resolve(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(b.ID)
	defer release()

	if err := s.store.DeleteItems(ctx, b.ID, []string{itemID}); err != nil {
		return nil, &PersistenceError{Op: "delete item", Err: err}
	}
	if err := s.refreshTotals(ctx, b.ID); err != nil {
		return nil, err
	}
	return s.fetchFull(ctx, sessionID)
}

// Summary returns the persisted totals with the actual-vs-estimated
// variance. The budget must already exist.
func (s *Service) Summary(ctx context.Context, userID, sessionID string) (domain.Summary, error) {
	b, err := s.resolve(ctx, userID, sessionID)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.SummaryFromTotals(domain.Totals{
		EstimatedExpenses: b.TotalEstimatedExpenses,
		EstimatedRevenue:  b.TotalEstimatedRevenue,
		ActualExpenses:    b.TotalActualExpenses,
		ActualRevenue:     b.TotalActualRevenue,
	}), nil
}
