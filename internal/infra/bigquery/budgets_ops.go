package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/ivolkov/founderdesk/internal/budget"
	"github.com/ivolkov/founderdesk/internal/domain"
)

// SelectBudget returns the budget row for a session, without items.
func (r *Repository) SelectBudget(ctx context.Context, sessionID string) (*domain.Budget, error) {
	q := r.client.Query(`
		SELECT
			id,
			user_id,
			session_id,
			initial_investment,
			total_estimated_expenses,
			total_estimated_revenue,
			total_actual_expenses,
			total_actual_revenue,
			created_ts,
			updated_ts
		FROM ` + r.table(budgetsTable) + `
		WHERE session_id = @session_id
		ORDER BY created_ts
		LIMIT 1
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "session_id", Value: sessionID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("SelectBudget: query read: %w", err)
	}

	var row BudgetRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, budget.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("SelectBudget: iter next: %w", err)
	}

	return row.ToDomain(), nil
}

// InsertBudget creates a budget row and returns the assigned id. DML is used
// rather than the streaming inserter so the row is immediately updatable.
func (r *Repository) InsertBudget(ctx context.Context, b *domain.Budget) (string, error) {
	id := uuid.New().String()

	err := r.runDML(ctx, `
		INSERT INTO `+r.table(budgetsTable)+` (
			id, user_id, session_id, initial_investment,
			total_estimated_expenses, total_estimated_revenue,
			total_actual_expenses, total_actual_revenue,
			created_ts, updated_ts
		) VALUES (
			@id, @user_id, @session_id, @initial_investment,
			@est_exp, @est_rev, @act_exp, @act_rev,
			CURRENT_TIMESTAMP(), CURRENT_TIMESTAMP()
		)
	`, []bigquery.QueryParameter{
		{Name: "id", Value: id},
		{Name: "user_id", Value: b.UserID},
		{Name: "session_id", Value: b.SessionID},
		{Name: "initial_investment", Value: b.InitialInvestment.Rat()},
		{Name: "est_exp", Value: b.TotalEstimatedExpenses.Rat()},
		{Name: "est_rev", Value: b.TotalEstimatedRevenue.Rat()},
		{Name: "act_exp", Value: b.TotalActualExpenses.Rat()},
		{Name: "act_rev", Value: b.TotalActualRevenue.Rat()},
	})
	if err != nil {
		return "", fmt.Errorf("InsertBudget: %w", err)
	}

	return id, nil
}

// UpdateBudgetHeader overwrites the owner reference and initial investment.
func (r *Repository) UpdateBudgetHeader(ctx context.Context, budgetID, userID string, initialInvestment decimal.Decimal) error {
	err := r.runDML(ctx, `
		UPDATE `+r.table(budgetsTable)+`
		SET user_id = @user_id,
			initial_investment = @initial_investment,
			updated_ts = CURRENT_TIMESTAMP()
		WHERE id = @id
	`, []bigquery.QueryParameter{
		{Name: "id", Value: budgetID},
		{Name: "user_id", Value: userID},
		{Name: "initial_investment", Value: initialInvestment.Rat()},
	})
	if err != nil {
		return fmt.Errorf("UpdateBudgetHeader: %w", err)
	}
	return nil
}

// UpdateBudgetTotals persists the four recomputed totals.
func (r *Repository) UpdateBudgetTotals(ctx context.Context, budgetID string, totals domain.Totals) error {
	err := r.runDML(ctx, `
		UPDATE `+r.table(budgetsTable)+`
		SET total_estimated_expenses = @est_exp,
			total_estimated_revenue = @est_rev,
			total_actual_expenses = @act_exp,
			total_actual_revenue = @act_rev,
			updated_ts = CURRENT_TIMESTAMP()
		WHERE id = @id
	`, []bigquery.QueryParameter{
		{Name: "id", Value: budgetID},
		{Name: "est_exp", Value: totals.EstimatedExpenses.Rat()},
		{Name: "est_rev", Value: totals.EstimatedRevenue.Rat()},
		{Name: "act_exp", Value: totals.ActualExpenses.Rat()},
		{Name: "act_rev", Value: totals.ActualRevenue.Rat()},
	})
	if err != nil {
		return fmt.Errorf("UpdateBudgetTotals: %w", err)
	}
	return nil
}

// UpdateBudgetEstimatedRevenue persists only the estimated revenue total.
func (r *Repository) UpdateBudgetEstimatedRevenue(ctx context.Context, budgetID string, amount decimal.Decimal) error {
	err := r.runDML(ctx, `
		UPDATE `+r.table(budgetsTable)+`
		SET total_estimated_revenue = @est_rev,
			updated_ts = CURRENT_TIMESTAMP()
		WHERE id = @id
	`, []bigquery.QueryParameter{
		{Name: "id", Value: budgetID},
		{Name: "est_rev", Value: amount.Rat()},
	})
	if err != nil {
		return fmt.Errorf("UpdateBudgetEstimatedRevenue: %w", err)
	}
	return nil
}
