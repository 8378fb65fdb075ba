package budget

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ivolkov/founderdesk/internal/domain"
)

func expense(id, name string, amount int64) *domain.BudgetItem {
	return &domain.BudgetItem{
		ID:              id,
		Name:            name,
		Category:        domain.CategoryExpense,
		EstimatedAmount: decimal.NewFromInt(amount),
	}
}

func revenue(id, name string, amount int64) *domain.BudgetItem {
	return &domain.BudgetItem{
		ID:              id,
		Name:            name,
		Category:        domain.CategoryRevenue,
		EstimatedAmount: decimal.NewFromInt(amount),
	}
}

func TestPlanDiff(t *testing.T) {
	tests := []struct {
		name        string
		persisted   []*domain.BudgetItem
		incoming    []*domain.BudgetItem
		wantInsert  int
		wantUpdate  int
		wantDelete  []string
	}{
		{
			name:       "empty both",
			persisted:  nil,
			incoming:   nil,
			wantInsert: 0,
			wantUpdate: 0,
		},
		{
			name:       "all new",
			persisted:  nil,
			incoming:   []*domain.BudgetItem{expense("", "Rent", 500), revenue("", "Sales", 300)},
			wantInsert: 2,
		},
		{
			name:       "matched id updates",
			persisted:  []*domain.BudgetItem{expense("A", "Rent", 500)},
			incoming:   []*domain.BudgetItem{expense("A", "Rent", 600)},
			wantUpdate: 1,
		},
		{
			name:       "unknown id inserts",
			persisted:  []*domain.BudgetItem{expense("A", "Rent", 500)},
			incoming:   []*domain.BudgetItem{expense("A", "Rent", 500), expense("ghost", "Tools", 50)},
			wantUpdate: 1,
			wantInsert: 1,
		},
		{
			name:       "omitted id deletes",
			persisted:  []*domain.BudgetItem{expense("A", "Rent", 500), revenue("B", "Sales", 300)},
			incoming:   []*domain.BudgetItem{expense("A", "Rent", 600), expense("", "New", 100)},
			wantUpdate: 1,
			wantInsert: 1,
			wantDelete: []string{"B"},
		},
		{
			name:       "empty incoming deletes all",
			persisted:  []*domain.BudgetItem{expense("A", "Rent", 500), revenue("B", "Sales", 300)},
			incoming:   nil,
			wantDelete: []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanDiff(tt.persisted, tt.incoming)
			if len(plan.ToInsert) != tt.wantInsert {
				t.Errorf("inserts = %d, want %d", len(plan.ToInsert), tt.wantInsert)
			}
			if len(plan.ToUpdate) != tt.wantUpdate {
				t.Errorf("updates = %d, want %d", len(plan.ToUpdate), tt.wantUpdate)
			}
			if len(plan.ToDeleteIDs) != len(tt.wantDelete) {
				t.Fatalf("deletes = %v, want %v", plan.ToDeleteIDs, tt.wantDelete)
			}
			for i, id := range tt.wantDelete {
				if plan.ToDeleteIDs[i] != id {
					t.Errorf("deletes[%d] = %s, want %s", i, plan.ToDeleteIDs[i], id)
				}
			}
		})
	}
}

func TestPlanDiffCarriesForwardIdentity(t *testing.T) {
	persisted := []*domain.BudgetItem{expense("A", "Rent", 500)}
	persisted[0].BudgetID = "budget-1"

	in := expense("A", "Rent renamed", 600)
	plan := PlanDiff(persisted, []*domain.BudgetItem{in})

	if len(plan.ToUpdate) != 1 {
		t.Fatalf("expected 1 update, got %d", len(plan.ToUpdate))
	}
	upd := plan.ToUpdate[0]
	if upd.ID != "A" {
		t.Errorf("identity not preserved: %s", upd.ID)
	}
	if upd.BudgetID != "budget-1" {
		t.Errorf("budget reference not carried forward: %s", upd.BudgetID)
	}
	if !upd.CreatedAt.Equal(persisted[0].CreatedAt) {
		t.Errorf("created timestamp not carried forward")
	}
	if upd.Name != "Rent renamed" {
		t.Errorf("payload not applied: %s", upd.Name)
	}
}

func TestPlanDiffDuplicateIDsLastWins(t *testing.T) {
	persisted := []*domain.BudgetItem{expense("A", "Rent", 500)}

	first := expense("A", "First", 100)
	last := expense("A", "Last", 200)
	plan := PlanDiff(persisted, []*domain.BudgetItem{first, last})

	if len(plan.ToUpdate) != 1 {
		t.Fatalf("duplicate ids must collapse to one update, got %d", len(plan.ToUpdate))
	}
	if got := plan.ToUpdate[0].Name; got != "Last" {
		t.Errorf("last occurrence must win, got %q", got)
	}
	if len(plan.ToDeleteIDs) != 0 {
		t.Errorf("unexpected deletes: %v", plan.ToDeleteIDs)
	}
}

func TestPlanDiffInsertDropsClientID(t *testing.T) {
	in := expense("client-generated", "Tools", 50)
	plan := PlanDiff(nil, []*domain.BudgetItem{in})

	if len(plan.ToInsert) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(plan.ToInsert))
	}
	if plan.ToInsert[0].ID != "" {
		t.Errorf("insert must let the store assign identity, got %q", plan.ToInsert[0].ID)
	}
}
