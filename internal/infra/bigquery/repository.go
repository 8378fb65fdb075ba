// Package bigquery implements the persistence gateway over BigQuery.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	"github.com/ivolkov/founderdesk/internal/budget"
)

// Repository holds a shared BigQuery client for all budget, item and session
// operations. Construct it once at startup; every call commits on its own,
// no cross-call transaction is assumed.
type Repository struct {
	client    *bigquery.Client
	projectID string
}

// NewRepository creates a repository with a shared BigQuery client.
func NewRepository(ctx context.Context, projectID string) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{client: client, projectID: projectID}, nil
}

// Close closes the underlying BigQuery client.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// table returns the fully qualified, backtick-quoted table name.
func (r *Repository) table(name string) string {
	return "`" + r.projectID + "." + datasetID + "." + name + "`"
}

// runDML executes a parameterized DML statement and waits for the job.
func (r *Repository) runDML(ctx context.Context, query string, params []bigquery.QueryParameter) error {
	q := r.client.Query(query)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for job: %w", err)
	}

	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}

	return nil
}

var (
	_ budget.Store        = (*Repository)(nil)
	_ budget.SessionStore = (*Repository)(nil)
)
