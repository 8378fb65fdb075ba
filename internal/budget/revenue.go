package budget

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ivolkov/founderdesk/internal/domain"
)

// ReconcileRevenueStreams runs a reconciliation pass restricted to revenue
// items. Only selected candidates participate in the diff: a deselected
// candidate is treated as absent, so its persisted item is deleted. After
// the pass only the estimated revenue total is recomputed and persisted;
// actual revenue and the expense totals are untouched.
func (s *Service) ReconcileRevenueStreams(ctx context.Context, userID, sessionID string, candidates []*domain.RevenueStreamCandidate) ([]*domain.BudgetItem, error) {
	for _, c := range candidates {
		if c.Name == "" && c.IsSelected {
			return nil, &ValidationError{Reason: "revenue stream name is required"}
		}
	}

	b, err := s.resolveOrCreate(ctx, userID, sessionID, decimal.Zero)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(b.ID)
	defer release()

	persisted, err := s.selectRevenueItems(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	var incoming []*domain.BudgetItem
	for _, c := range candidates {
		if !c.IsSelected {
			continue
		}
		incoming = append(incoming, c.Item(b.ID))
	}

	plan := PlanDiff(persisted, incoming)
	if err := s.applyPlan(ctx, b.ID, plan); err != nil {
		return nil, err
	}

	saved, err := s.selectRevenueItems(ctx, b.ID)
	if err != nil {
		return nil, &PartialReconciliationError{BudgetID: b.ID, Step: "select revenue items", Err: err}
	}

	estimated := Aggregate(saved).EstimatedRevenue
	if err := s.store.UpdateBudgetEstimatedRevenue(ctx, b.ID, estimated); err != nil {
		return nil, &PartialReconciliationError{BudgetID: b.ID, Step: "update estimated revenue", Err: err}
	}

	s.log.Info().
		Str("budget_id", b.ID).
		Int("inserted", len(plan.ToInsert)).
		Int("updated", len(plan.ToUpdate)).
		Int("deleted", len(plan.ToDeleteIDs)).
		Str("estimated_revenue", estimated.String()).
		Msg("Revenue streams reconciled")

	return saved, nil
}

// ListRevenueStreams returns the persisted revenue items for the session's
// budget in creation order.
func (s *Service) ListRevenueStreams(ctx context.Context, userID, sessionID string) ([]*domain.BudgetItem, error) {
	b, err := s.resolve(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.selectRevenueItems(ctx, b.ID)
}

func (s *Service) selectRevenueItems(ctx context.Context, budgetID string) ([]*domain.BudgetItem, error) {
	items, err := s.store.SelectItems(ctx, budgetID)
	if err != nil {
		return nil, &PersistenceError{Op: "select items", Err: err}
	}
	var revenue []*domain.BudgetItem
	for _, it := range items {
		if it.Category == domain.CategoryRevenue {
			revenue = append(revenue, it)
		}
	}
	return revenue, nil
}
