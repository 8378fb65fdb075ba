package budget

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ivolkov/founderdesk/internal/domain"
)

func withActual(it *domain.BudgetItem, amount string) *domain.BudgetItem {
	d := decimal.RequireFromString(amount)
	it.ActualAmount = &d
	return it
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		items []*domain.BudgetItem
		want  map[string]string
	}{
		{
			name:  "empty",
			items: nil,
			want:  map[string]string{"ee": "0", "er": "0", "ae": "0", "ar": "0"},
		},
		{
			name: "expenses and revenue split by category",
			items: []*domain.BudgetItem{
				expense("A", "Rent", 500),
				expense("B", "Tools", 200),
				revenue("C", "Sales", 300),
			},
			want: map[string]string{"ee": "700", "er": "300", "ae": "0", "ar": "0"},
		},
		{
			name: "nil actual counts as zero",
			items: []*domain.BudgetItem{
				withActual(expense("A", "Rent", 500), "510.25"),
				expense("B", "Tools", 200),
				withActual(revenue("C", "Sales", 300), "120.75"),
			},
			want: map[string]string{"ee": "700", "er": "300", "ae": "510.25", "ar": "120.75"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.items)
			check := func(label string, got decimal.Decimal, want string) {
				if !got.Equal(decimal.RequireFromString(want)) {
					t.Errorf("%s = %s, want %s", label, got, want)
				}
			}
			check("estimated expenses", got.EstimatedExpenses, tt.want["ee"])
			check("estimated revenue", got.EstimatedRevenue, tt.want["er"])
			check("actual expenses", got.ActualExpenses, tt.want["ae"])
			check("actual revenue", got.ActualRevenue, tt.want["ar"])
		})
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	a := []*domain.BudgetItem{expense("A", "Rent", 500), revenue("B", "Sales", 300), expense("C", "Tools", 50)}
	b := []*domain.BudgetItem{a[2], a[0], a[1]}

	ta, tb := Aggregate(a), Aggregate(b)
	if !ta.EstimatedExpenses.Equal(tb.EstimatedExpenses) || !ta.EstimatedRevenue.Equal(tb.EstimatedRevenue) {
		t.Errorf("aggregation depends on order: %+v vs %+v", ta, tb)
	}
}

func TestAggregatePreservesCents(t *testing.T) {
	items := []*domain.BudgetItem{
		{Name: "a", Category: domain.CategoryExpense, EstimatedAmount: decimal.RequireFromString("0.10")},
		{Name: "b", Category: domain.CategoryExpense, EstimatedAmount: decimal.RequireFromString("0.20")},
	}
	got := Aggregate(items).EstimatedExpenses
	if !got.Equal(decimal.RequireFromString("0.30")) {
		t.Errorf("0.10 + 0.20 = %s, want 0.30", got)
	}
}
