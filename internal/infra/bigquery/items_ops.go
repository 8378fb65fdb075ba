package bigquery

import (
	"context"
	"fmt"
	"math/big"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/ivolkov/founderdesk/internal/domain"
)

// SelectItems returns all items of a budget ordered by creation time.
func (r *Repository) SelectItems(ctx context.Context, budgetID string) ([]*domain.BudgetItem, error) {
	q := r.client.Query(`
		SELECT
			id,
			budget_id,
			name,
			category,
			subcategory,
			estimated_amount,
			actual_amount,
			estimated_price,
			estimated_volume,
			description,
			is_custom,
			is_selected,
			created_ts,
			updated_ts
		FROM ` + r.table(budgetItemsTable) + `
		WHERE budget_id = @budget_id
		ORDER BY created_ts
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "budget_id", Value: budgetID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("SelectItems: query read: %w", err)
	}

	var items []*domain.BudgetItem
	for {
		var row BudgetItemRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("SelectItems: iter next: %w", err)
		}
		items = append(items, row.ToDomain())
	}

	return items, nil
}

// InsertItems inserts new items one statement at a time, assigning ids where
// absent. The assigned ids are written back into the given items.
func (r *Repository) InsertItems(ctx context.Context, items []*domain.BudgetItem) error {
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		err := r.runDML(ctx, `
			INSERT INTO `+r.table(budgetItemsTable)+` (
				id, budget_id, name, category, subcategory,
				estimated_amount, actual_amount,
				estimated_price, estimated_volume,
				description, is_custom, is_selected,
				created_ts, updated_ts
			) VALUES (
				@id, @budget_id, @name, @category, @subcategory,
				@estimated_amount, @actual_amount,
				@estimated_price, @estimated_volume,
				@description, @is_custom, @is_selected,
				CURRENT_TIMESTAMP(), CURRENT_TIMESTAMP()
			)
		`, itemParams(item))
		if err != nil {
			return fmt.Errorf("InsertItems: item %q: %w", item.Name, err)
		}
	}

	return nil
}

// UpdateItem overwrites a persisted item's mutable fields. Identity and
// creation timestamp are left untouched.
func (r *Repository) UpdateItem(ctx context.Context, item *domain.BudgetItem) error {
	err := r.runDML(ctx, `
		UPDATE `+r.table(budgetItemsTable)+`
		SET name = @name,
			category = @category,
			subcategory = @subcategory,
			estimated_amount = @estimated_amount,
			actual_amount = @actual_amount,
			estimated_price = @estimated_price,
			estimated_volume = @estimated_volume,
			description = @description,
			is_custom = @is_custom,
			is_selected = @is_selected,
			updated_ts = CURRENT_TIMESTAMP()
		WHERE id = @id AND budget_id = @budget_id
	`, itemParams(item))
	if err != nil {
		return fmt.Errorf("UpdateItem: item %s: %w", item.ID, err)
	}
	return nil
}

// DeleteItems removes the given items from a budget.
func (r *Repository) DeleteItems(ctx context.Context, budgetID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	err := r.runDML(ctx, `
		DELETE FROM `+r.table(budgetItemsTable)+`
		WHERE budget_id = @budget_id
		  AND id IN UNNEST(@ids)
	`, []bigquery.QueryParameter{
		{Name: "budget_id", Value: budgetID},
		{Name: "ids", Value: ids},
	})
	if err != nil {
		return fmt.Errorf("DeleteItems: %w", err)
	}
	return nil
}

// itemParams maps a domain item to the shared insert/update parameter set.
// NULLABLE columns take nil values when the field is absent.
func itemParams(item *domain.BudgetItem) []bigquery.QueryParameter {
	var volume interface{}
	if item.EstimatedVolume != nil {
		volume = *item.EstimatedVolume
	} else {
		volume = bigquery.NullInt64{}
	}

	return []bigquery.QueryParameter{
		{Name: "id", Value: item.ID},
		{Name: "budget_id", Value: item.BudgetID},
		{Name: "name", Value: item.Name},
		{Name: "category", Value: string(item.Category)},
		{Name: "subcategory", Value: nullString(item.Subcategory)},
		{Name: "estimated_amount", Value: item.EstimatedAmount.Rat()},
		{Name: "actual_amount", Value: numericOrNull(decimalPtrToRat(item.ActualAmount))},
		{Name: "estimated_price", Value: numericOrNull(decimalPtrToRat(item.EstimatedPrice))},
		{Name: "estimated_volume", Value: volume},
		{Name: "description", Value: nullString(item.Description)},
		{Name: "is_custom", Value: item.IsCustom},
		{Name: "is_selected", Value: item.IsSelected},
	}
}

// numericOrNull returns an explicitly typed NULL for absent NUMERIC values,
// since a nil *big.Rat gives the parameter builder nothing to infer from.
func numericOrNull(r *big.Rat) interface{} {
	if r == nil {
		return &bigquery.QueryParameterValue{
			Type: bigquery.StandardSQLDataType{TypeKind: "NUMERIC"},
		}
	}
	return r
}

func nullString(s string) bigquery.NullString {
	if s == "" {
		return bigquery.NullString{}
	}
	return bigquery.NullString{StringVal: s, Valid: true}
}
