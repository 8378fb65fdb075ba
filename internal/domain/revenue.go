package domain

import (
	"github.com/shopspring/decimal"
)

// RevenueStreamCandidate is a proposed revenue line item submitted by the
// client. It is never persisted as-is: only selected candidates become budget
// items, and the projection is taken from the caller rather than recomputed.
type RevenueStreamCandidate struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`

	EstimatedPrice    decimal.Decimal `json:"estimated_price"`
	EstimatedVolume   int64           `json:"estimated_volume"`
	RevenueProjection decimal.Decimal `json:"revenue_projection"`

	IsSelected  bool   `json:"is_selected"`
	IsCustom    bool   `json:"is_custom"`
	Description string `json:"description,omitempty"`
}

// Item converts a selected candidate into the budget item it should persist
// as. The candidate's projection becomes the item's estimated amount.
func (c RevenueStreamCandidate) Item(budgetID string) *BudgetItem {
	desc := c.Description
	if desc == "" {
		desc = "Revenue stream"
	}
	price := c.EstimatedPrice
	volume := c.EstimatedVolume
	return &BudgetItem{
		ID:              c.ID,
		BudgetID:        budgetID,
		Name:            c.Name,
		Category:        CategoryRevenue,
		Subcategory:     "revenue",
		EstimatedAmount: c.RevenueProjection,
		EstimatedPrice:  &price,
		EstimatedVolume: &volume,
		Description:     desc,
		IsCustom:        c.IsCustom,
		IsSelected:      c.IsSelected,
	}
}
