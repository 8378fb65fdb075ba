package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies a budget line item.
type Category string

const (
	CategoryExpense Category = "expense"
	CategoryRevenue Category = "revenue"
)

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryExpense, CategoryRevenue:
		return Category(s), nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// BudgetItem is a single financial line entry owned by exactly one budget.
// The ID is assigned by the persistence gateway on first insert and is stable
// for the life of the item.
type BudgetItem struct {
	ID       string `json:"id"`
	BudgetID string `json:"budget_id"`

	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`

	EstimatedAmount decimal.Decimal  `json:"estimated_amount"`
	ActualAmount    *decimal.Decimal `json:"actual_amount,omitempty"`

	// Unit economics for revenue items; nil for expenses.
	EstimatedPrice  *decimal.Decimal `json:"estimated_price,omitempty"`
	EstimatedVolume *int64           `json:"estimated_volume,omitempty"`

	Description string `json:"description,omitempty"`
	IsCustom    bool   `json:"is_custom"`
	IsSelected  bool   `json:"is_selected"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields a client must always supply.
func (it *BudgetItem) Validate() error {
	if it.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if _, err := ParseCategory(string(it.Category)); err != nil {
		return err
	}
	return nil
}

// ItemUpdate is a partial update of one item. Nil means "leave unchanged";
// a non-nil pointer overwrites, so clearing a nullable field goes through the
// dedicated Clear flags rather than an ambiguous nil.
type ItemUpdate struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Subcategory *string `json:"subcategory,omitempty"`

	EstimatedAmount *decimal.Decimal `json:"estimated_amount,omitempty"`
	ActualAmount    *decimal.Decimal `json:"actual_amount,omitempty"`
	EstimatedPrice  *decimal.Decimal `json:"estimated_price,omitempty"`
	EstimatedVolume *int64           `json:"estimated_volume,omitempty"`

	Description *string `json:"description,omitempty"`
	IsCustom    *bool   `json:"is_custom,omitempty"`
	IsSelected  *bool   `json:"is_selected,omitempty"`

	ClearActualAmount bool `json:"clear_actual_amount,omitempty"`
}

// Apply merges the update into a copy of the item and returns it. The item's
// identity, budget reference and creation timestamp are never touched.
func (u ItemUpdate) Apply(it BudgetItem) (BudgetItem, error) {
	if u.Name != nil {
		it.Name = *u.Name
	}
	if u.Category != nil {
		cat, err := ParseCategory(*u.Category)
		if err != nil {
			return it, err
		}
		it.Category = cat
	}
	if u.Subcategory != nil {
		it.Subcategory = *u.Subcategory
	}
	if u.EstimatedAmount != nil {
		it.EstimatedAmount = *u.EstimatedAmount
	}
	if u.ClearActualAmount {
		it.ActualAmount = nil
	} else if u.ActualAmount != nil {
		v := *u.ActualAmount
		it.ActualAmount = &v
	}
	if u.EstimatedPrice != nil {
		v := *u.EstimatedPrice
		it.EstimatedPrice = &v
	}
	if u.EstimatedVolume != nil {
		v := *u.EstimatedVolume
		it.EstimatedVolume = &v
	}
	if u.Description != nil {
		it.Description = *u.Description
	}
	if u.IsCustom != nil {
		it.IsCustom = *u.IsCustom
	}
	if u.IsSelected != nil {
		it.IsSelected = *u.IsSelected
	}
	return it, nil
}
