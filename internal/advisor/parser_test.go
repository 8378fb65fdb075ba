package advisor

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ivolkov/founderdesk/internal/domain"
)

func TestParseEstimates(t *testing.T) {
	text := `Here is a budget for your coffee shop:

**Startup Costs**
- Espresso machine: $12,000 (commercial grade)
- Renovation: $25,000

**Monthly Operating Expenses**
- Rent: $3,500 (downtown location)
- Utilities: $450

**Monthly Payroll**
- Barista: $2,800

**Monthly COGS**
- Coffee beans: $1,200 (specialty roaster)

Let me know if you want adjustments.`

	items := ParseEstimates(text)
	if len(items) != 6 {
		t.Fatalf("expected 6 items, got %d", len(items))
	}

	first := items[0]
	if first.Name != "Espresso machine" {
		t.Errorf("name = %q, want %q", first.Name, "Espresso machine")
	}
	if first.Subcategory != "startup_cost" {
		t.Errorf("subcategory = %q, want startup_cost", first.Subcategory)
	}
	if !first.EstimatedAmount.Equal(decimal.NewFromInt(12000)) {
		t.Errorf("amount = %s, want 12000", first.EstimatedAmount)
	}
	if first.Description != "commercial grade" {
		t.Errorf("description = %q, want %q", first.Description, "commercial grade")
	}
	if first.Category != domain.CategoryExpense {
		t.Errorf("category = %q, want expense", first.Category)
	}
	if first.IsCustom {
		t.Error("generated items must not be marked custom")
	}

	wantSubs := []string{"startup_cost", "startup_cost", "operating_expense", "operating_expense", "payroll", "cogs"}
	for i, want := range wantSubs {
		if items[i].Subcategory != want {
			t.Errorf("items[%d].Subcategory = %q, want %q", i, items[i].Subcategory, want)
		}
	}

	// Renovation has no parenthesized description.
	if items[1].Description != "" {
		t.Errorf("items[1].Description = %q, want empty", items[1].Description)
	}
}

func TestParseEstimatesSkipsLinesOutsideSections(t *testing.T) {
	text := `Total budget: $40,000

**Startup Costs**
- Licenses: $500`

	items := ParseEstimates(text)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Name != "Licenses" {
		t.Errorf("name = %q, want Licenses", items[0].Name)
	}
}

func TestParseEstimatesEmptyInput(t *testing.T) {
	if items := ParseEstimates(""); len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
	if items := ParseEstimates("no sections here at all"); len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain array untouched",
			in:   `[{"name":"Subscriptions"}]`,
			want: `[{"name":"Subscriptions"}]`,
		},
		{
			name: "json fence stripped",
			in:   "```json\n[1, 2]\n```",
			want: "[1, 2]",
		},
		{
			name: "bare fence stripped",
			in:   "```\n[1]\n```",
			want: "[1]",
		},
		{
			name: "prose around array trimmed",
			in:   "Sure! Here you go:\n[{\"name\":\"Ads\"}]\nHope that helps.",
			want: `[{"name":"Ads"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.in); got != tt.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCandidateFromPayload(t *testing.T) {
	c := candidateFromPayload(revenueStreamPayload{
		Name:            "Subscriptions",
		EstimatedPrice:  29.99,
		EstimatedVolume: 100,
	})

	if c.Name != "Subscriptions" {
		t.Errorf("name = %q", c.Name)
	}
	if !c.RevenueProjection.Equal(decimal.NewFromFloat(2999)) {
		t.Errorf("projection = %s, want 2999", c.RevenueProjection)
	}
	if !c.IsSelected {
		t.Error("generated candidates should start selected")
	}
}
