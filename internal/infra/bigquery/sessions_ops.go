package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/ivolkov/founderdesk/internal/budget"
	"github.com/ivolkov/founderdesk/internal/domain"
)

// SelectSession returns the chat session when it exists and is owned by the
// given user, and ErrNotFound otherwise.
func (r *Repository) SelectSession(ctx context.Context, sessionID, userID string) (*domain.ChatSession, error) {
	q := r.client.Query(`
		SELECT
			id,
			user_id,
			title,
			business_type,
			created_ts
		FROM ` + r.table(chatSessionsTable) + `
		WHERE id = @id
		  AND user_id = @user_id
		LIMIT 1
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "id", Value: sessionID},
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("SelectSession: query read: %w", err)
	}

	var row SessionRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, budget.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("SelectSession: iter next: %w", err)
	}

	return row.ToDomain(), nil
}
