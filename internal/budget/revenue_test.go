package budget

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ivolkov/founderdesk/internal/domain"
)

func candidate(id, name string, projection int64, selected bool) *domain.RevenueStreamCandidate {
	return &domain.RevenueStreamCandidate{
		ID:                id,
		Name:              name,
		EstimatedPrice:    decimal.NewFromInt(projection),
		EstimatedVolume:   1,
		RevenueProjection: decimal.NewFromInt(projection),
		IsSelected:        selected,
	}
}

func TestReconcileRevenueStreamsSelectionSemantics(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	// Seed: one previously selected stream Y plus an expense that must
	// survive untouched.
	seeded, err := svc.Reconcile(ctx, "user-1", "sess-1", []*domain.BudgetItem{
		expense("", "Rent", 500),
	}, decimal.Zero)
	if err != nil {
		t.Fatalf("seed reconcile failed: %v", err)
	}
	saved, err := svc.ReconcileRevenueStreams(ctx, "user-1", "sess-1", []*domain.RevenueStreamCandidate{
		candidate("", "Subscriptions", 500, true),
	})
	if err != nil {
		t.Fatalf("seed revenue reconcile failed: %v", err)
	}
	idY := saved[0].ID

	// Deselect Y, select a new stream X.
	saved, err = svc.ReconcileRevenueStreams(ctx, "user-1", "sess-1", []*domain.RevenueStreamCandidate{
		candidate("", "Consulting", 1000, true),
		candidate(idY, "Subscriptions", 500, false),
	})
	if err != nil {
		t.Fatalf("revenue reconcile failed: %v", err)
	}

	if len(saved) != 1 || saved[0].Name != "Consulting" {
		t.Fatalf("expected only the selected stream to survive, got %+v", saved)
	}

	b, err := svc.GetBudget(ctx, "user-1", "sess-1")
	if err != nil {
		t.Fatalf("GetBudget failed: %v", err)
	}
	mustEqual(t, "estimated revenue", b.TotalEstimatedRevenue, "1000")
	mustEqual(t, "estimated expenses untouched", b.TotalEstimatedExpenses, "500")

	// The expense item is out of scope for the revenue pass.
	if len(b.Items) != 2 {
		t.Fatalf("expected expense + revenue item, got %d items", len(b.Items))
	}
	if b.Items[0].ID != seeded.Items[0].ID {
		t.Errorf("expense item identity changed")
	}
}

func TestReconcileRevenueStreamsDoesNotTouchActuals(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Reconcile(ctx, "user-1", "sess-1", []*domain.BudgetItem{
		withActual(expense("", "Rent", 500), "480"),
	}, decimal.Zero); err != nil {
		t.Fatalf("seed reconcile failed: %v", err)
	}

	if _, err := svc.ReconcileRevenueStreams(ctx, "user-1", "sess-1", []*domain.RevenueStreamCandidate{
		candidate("", "Sales", 900, true),
	}); err != nil {
		t.Fatalf("revenue reconcile failed: %v", err)
	}

	b, err := svc.GetBudget(ctx, "user-1", "sess-1")
	if err != nil {
		t.Fatalf("GetBudget failed: %v", err)
	}
	mustEqual(t, "actual expenses", b.TotalActualExpenses, "480")
	mustEqual(t, "estimated revenue", b.TotalEstimatedRevenue, "900")
}

func TestReconcileRevenueStreamsCreatesBudget(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	saved, err := svc.ReconcileRevenueStreams(context.Background(), "user-1", "sess-1", []*domain.RevenueStreamCandidate{
		candidate("", "Sales", 250, true),
	})
	if err != nil {
		t.Fatalf("revenue reconcile failed: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("expected 1 saved stream, got %d", len(saved))
	}
	if saved[0].Category != domain.CategoryRevenue {
		t.Errorf("saved stream category = %s", saved[0].Category)
	}
	mustEqual(t, "projection becomes estimate", saved[0].EstimatedAmount, "250")
}

func TestListRevenueStreams(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Reconcile(ctx, "user-1", "sess-1", []*domain.BudgetItem{
		expense("", "Rent", 500),
		revenue("", "Sales", 300),
	}, decimal.Zero); err != nil {
		t.Fatalf("seed reconcile failed: %v", err)
	}

	streams, err := svc.ListRevenueStreams(ctx, "user-1", "sess-1")
	if err != nil {
		t.Fatalf("ListRevenueStreams failed: %v", err)
	}
	if len(streams) != 1 || streams[0].Name != "Sales" {
		t.Fatalf("expected only revenue items, got %+v", streams)
	}
}
