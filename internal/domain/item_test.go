package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"expense", CategoryExpense, false},
		{"revenue", CategoryRevenue, false},
		{"", "", true},
		{"Expense", "", true},
		{"income", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestItemUpdateApply(t *testing.T) {
	actual := decimal.RequireFromString("480.50")
	base := BudgetItem{
		ID:              "item-1",
		BudgetID:        "budget-1",
		Name:            "Rent",
		Category:        CategoryExpense,
		EstimatedAmount: decimal.NewFromInt(500),
		ActualAmount:    &actual,
		IsCustom:        true,
	}

	name := "Office rent"
	amount := decimal.NewFromInt(650)
	upd := ItemUpdate{Name: &name, EstimatedAmount: &amount}

	got, err := upd.Apply(base)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got.Name != "Office rent" {
		t.Errorf("name = %q", got.Name)
	}
	if !got.EstimatedAmount.Equal(amount) {
		t.Errorf("estimated amount = %s", got.EstimatedAmount)
	}
	// Omitted fields stay unchanged.
	if got.ActualAmount == nil || !got.ActualAmount.Equal(actual) {
		t.Errorf("actual amount must be untouched, got %v", got.ActualAmount)
	}
	if got.ID != "item-1" || got.BudgetID != "budget-1" {
		t.Errorf("identity must never change")
	}
}

func TestItemUpdateApplyClearActual(t *testing.T) {
	actual := decimal.NewFromInt(100)
	base := BudgetItem{Name: "Rent", Category: CategoryExpense, ActualAmount: &actual}

	got, err := ItemUpdate{ClearActualAmount: true}.Apply(base)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got.ActualAmount != nil {
		t.Errorf("actual amount not cleared: %v", got.ActualAmount)
	}
}

func TestItemUpdateApplyRejectsBadCategory(t *testing.T) {
	bad := "income"
	_, err := ItemUpdate{Category: &bad}.Apply(BudgetItem{Name: "x", Category: CategoryExpense})
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestRevenueCandidateItem(t *testing.T) {
	c := RevenueStreamCandidate{
		ID:                "stream-1",
		Name:              "Subscriptions",
		EstimatedPrice:    decimal.NewFromInt(25),
		EstimatedVolume:   40,
		RevenueProjection: decimal.NewFromInt(1000),
		IsSelected:        true,
		IsCustom:          true,
	}

	it := c.Item("budget-1")
	if it.Category != CategoryRevenue {
		t.Errorf("category = %s", it.Category)
	}
	if !it.EstimatedAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("projection not used as estimate: %s", it.EstimatedAmount)
	}
	if it.EstimatedPrice == nil || !it.EstimatedPrice.Equal(decimal.NewFromInt(25)) {
		t.Errorf("unit price lost")
	}
	if it.EstimatedVolume == nil || *it.EstimatedVolume != 40 {
		t.Errorf("volume lost")
	}
	if it.Description != "Revenue stream" {
		t.Errorf("default description missing: %q", it.Description)
	}
}
