package budget

import (
	"github.com/ivolkov/founderdesk/internal/domain"
)

// Aggregate recomputes the four derived totals from the authoritative item
// set. It is a pure function: no side effects, order independent, missing
// actual amounts count as zero.
func Aggregate(items []*domain.BudgetItem) domain.Totals {
	totals := domain.ZeroTotals()
	for _, it := range items {
		switch it.Category {
		case domain.CategoryExpense:
			totals.EstimatedExpenses = totals.EstimatedExpenses.Add(it.EstimatedAmount)
			if it.ActualAmount != nil {
				totals.ActualExpenses = totals.ActualExpenses.Add(*it.ActualAmount)
			}
		case domain.CategoryRevenue:
			totals.EstimatedRevenue = totals.EstimatedRevenue.Add(it.EstimatedAmount)
			if it.ActualAmount != nil {
				totals.ActualRevenue = totals.ActualRevenue.Add(*it.ActualAmount)
			}
		}
	}
	return totals
}
