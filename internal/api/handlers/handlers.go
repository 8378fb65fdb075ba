package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ivolkov/founderdesk/internal/advisor"
	"github.com/ivolkov/founderdesk/internal/api/middleware"
	"github.com/ivolkov/founderdesk/internal/budget"
	"github.com/ivolkov/founderdesk/internal/cache"
	"github.com/ivolkov/founderdesk/internal/domain"
	"github.com/ivolkov/founderdesk/internal/jobs"
)

// BudgetService is the reconciliation engine surface the handlers use.
// budget.Service satisfies it.
type BudgetService interface {
	GetBudget(ctx context.Context, userID, sessionID string) (*domain.Budget, error)
	Reconcile(ctx context.Context, userID, sessionID string, incoming []*domain.BudgetItem, initialInvestment decimal.Decimal) (*domain.Budget, error)
	AddItem(ctx context.Context, userID, sessionID string, item *domain.BudgetItem) (*domain.Budget, error)
	UpdateItem(ctx context.Context, userID, sessionID, itemID string, upd domain.ItemUpdate) (*domain.Budget, error)
	DeleteItem(ctx context.Context, userID, sessionID, itemID string) (*domain.Budget, error)
	Summary(ctx context.Context, userID, sessionID string) (domain.Summary, error)
	ReconcileRevenueStreams(ctx context.Context, userID, sessionID string, candidates []*domain.RevenueStreamCandidate) ([]*domain.BudgetItem, error)
	ListRevenueStreams(ctx context.Context, userID, sessionID string) ([]*domain.BudgetItem, error)
}

// Generator is the advisor surface the handlers use. advisor.Advisor
// satisfies it.
type Generator interface {
	GenerateEstimates(ctx context.Context, session *domain.ChatSession, history []advisor.Message) ([]*domain.BudgetItem, error)
	GenerateRevenueStreams(ctx context.Context, businessType string) ([]*domain.RevenueStreamCandidate, error)
}

// BudgetHandler handles all session-scoped budget endpoints.
type BudgetHandler struct {
	svc      BudgetService
	sessions budget.SessionStore
	gen      Generator
	genCache *cache.Cache
	log      zerolog.Logger
}

// NewBudgetHandler creates a new budget handler. gen and genCache may be nil
// when AI generation is disabled; the generation endpoints then return 503.
func NewBudgetHandler(svc BudgetService, sessions budget.SessionStore, gen Generator, genCache *cache.Cache, log zerolog.Logger) *BudgetHandler {
	return &BudgetHandler{
		svc:      svc,
		sessions: sessions,
		gen:      gen,
		genCache: genCache,
		log:      log,
	}
}

// Handle dispatches /api/sessions/{id}/... requests.
func (h *BudgetHandler) Handle(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) < 2 || parts[0] == "" {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	sessionID := parts[0]

	switch {
	case len(parts) == 2 && parts[1] == "budget":
		switch r.Method {
		case http.MethodGet:
			h.GetBudget(w, r, sessionID)
		case http.MethodPut:
			h.ReconcileBudget(w, r, sessionID)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}

	case len(parts) == 3 && parts[1] == "budget" && parts[2] == "items":
		if r.Method != http.MethodPost {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.AddItem(w, r, sessionID)

	case len(parts) == 4 && parts[1] == "budget" && parts[2] == "items":
		switch r.Method {
		case http.MethodPut:
			h.UpdateItem(w, r, sessionID, parts[3])
		case http.MethodDelete:
			h.DeleteItem(w, r, sessionID, parts[3])
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}

	case len(parts) == 3 && parts[1] == "budget" && parts[2] == "summary":
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.Summary(w, r, sessionID)

	case len(parts) == 3 && parts[1] == "budget" && parts[2] == "generate-estimates":
		if r.Method != http.MethodPost {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.GenerateEstimates(w, r, sessionID)

	case len(parts) == 3 && parts[1] == "budget" && parts[2] == "generate-revenue-streams":
		if r.Method != http.MethodPost {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.GenerateRevenueStreams(w, r, sessionID)

	case len(parts) == 2 && parts[1] == "revenue-streams":
		switch r.Method {
		case http.MethodGet:
			h.ListRevenueStreams(w, r, sessionID)
		case http.MethodPut:
			h.SaveRevenueStreams(w, r, sessionID)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}

	default:
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	}
}

// GetBudget handles GET /api/sessions/{id}/budget
func (h *BudgetHandler) GetBudget(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx := r.Context()

	b, err := h.svc.GetBudget(ctx, middleware.UserID(ctx), sessionID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to load budget")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, b)
}

// reconcileRequest is the PUT /budget payload: the client's complete intended
// item collection plus the budget header.
type reconcileRequest struct {
	InitialInvestment decimal.Decimal      `json:"initial_investment"`
	Items             []*domain.BudgetItem `json:"items"`
}

// ReconcileBudget handles PUT /api/sessions/{id}/budget
func (h *BudgetHandler) ReconcileBudget(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx := r.Context()

	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.svc.Reconcile(ctx, middleware.UserID(ctx), sessionID, req.Items, req.InitialInvestment)
	if err != nil {
		h.writeServiceError(w, err, "Failed to save budget")
		return
	}
	h.invalidateGenerated(sessionID)

	middleware.WriteJSON(w, http.StatusOK, b)
}

// invalidateGenerated drops every cached generation for the session; stale
// suggestions must not survive a reconciliation that changed the budget.
func (h *BudgetHandler) invalidateGenerated(sessionID string) {
	if h.genCache != nil {
		h.genCache.InvalidatePrefix(sessionID + ":")
	}
}

// AddItem handles POST /api/sessions/{id}/budget/items
func (h *BudgetHandler) AddItem(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx := r.Context()

	var item domain.BudgetItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.svc.AddItem(ctx, middleware.UserID(ctx), sessionID, &item)
	if err != nil {
		h.writeServiceError(w, err, "Failed to add item")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, b)
}

// UpdateItem handles PUT /api/sessions/{id}/budget/items/{itemID}
func (h *BudgetHandler) UpdateItem(w http.ResponseWriter, r *http.Request, sessionID, itemID string) {
	ctx := r.Context()

	var upd domain.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.svc.UpdateItem(ctx, middleware.UserID(ctx), sessionID, itemID, upd)
	if err != nil {
		h.writeServiceError(w, err, "Failed to update item")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, b)
}

// DeleteItem handles DELETE /api/sessions/{id}/budget/items/{itemID}
func (h *BudgetHandler) DeleteItem(w http.ResponseWriter, r *http.Request, sessionID, itemID string) {
	ctx := r.Context()

	b, err := h.svc.DeleteItem(ctx, middleware.UserID(ctx), sessionID, itemID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to delete item")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, b)
}

// Summary handles GET /api/sessions/{id}/budget/summary
func (h *BudgetHandler) Summary(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx := r.Context()

	sum, err := h.svc.Summary(ctx, middleware.UserID(ctx), sessionID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to compute summary")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, sum)
}

// SaveRevenueStreams handles PUT /api/sessions/{id}/revenue-streams.
// The body is the complete intended candidate collection; only selected
// candidates survive as revenue items.
func (h *BudgetHandler) SaveRevenueStreams(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx := r.Context()

	var candidates []*domain.RevenueStreamCandidate
	if err := json.NewDecoder(r.Body).Decode(&candidates); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	items, err := h.svc.ReconcileRevenueStreams(ctx, middleware.UserID(ctx), sessionID, candidates)
	if err != nil {
		h.writeServiceError(w, err, "Failed to save revenue streams")
		return
	}
	h.invalidateGenerated(sessionID)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// ListRevenueStreams handles GET /api/sessions/{id}/revenue-streams
func (h *BudgetHandler) ListRevenueStreams(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx := r.Context()

	items, err := h.svc.ListRevenueStreams(ctx, middleware.UserID(ctx), sessionID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to list revenue streams")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// GenerateEstimates handles POST /api/sessions/{id}/budget/generate-estimates.
// The generated items are returned to the client unpersisted; saving them is
// a separate PUT /budget. Results are cached per session to avoid repeated
// model calls.
func (h *BudgetHandler) GenerateEstimates(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx := r.Context()

	if h.gen == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "AI generation is not configured")
		return
	}

	userID := middleware.UserID(ctx)

	cacheKey := sessionID + ":estimates"
	if h.genCache != nil {
		if cached, ok := h.genCache.Get(cacheKey); ok {
			middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
				"items":  cached,
				"cached": true,
			})
			return
		}
	}

	session, err := h.sessions.SelectSession(ctx, sessionID, userID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to load session")
		return
	}

	var req struct {
		History []advisor.Message `json:"history"`
	}
	if r.Body != nil {
		// Body is optional; generation works from the session alone.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	items, err := h.gen.GenerateEstimates(ctx, session, req.History)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to generate estimates")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to generate estimates")
		return
	}

	if h.genCache != nil {
		h.genCache.Set(cacheKey, items)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"cached": false,
	})
}

// GenerateRevenueStreams handles POST /api/sessions/{id}/budget/generate-revenue-streams.
func (h *BudgetHandler) GenerateRevenueStreams(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx := r.Context()

	if h.gen == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "AI generation is not configured")
		return
	}

	userID := middleware.UserID(ctx)

	cacheKey := sessionID + ":revenue-streams"
	if h.genCache != nil {
		if cached, ok := h.genCache.Get(cacheKey); ok {
			middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
				"streams": cached,
				"cached":  true,
			})
			return
		}
	}

	session, err := h.sessions.SelectSession(ctx, sessionID, userID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to load session")
		return
	}

	streams, err := h.gen.GenerateRevenueStreams(ctx, session.BusinessType)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to generate revenue streams")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to generate revenue streams")
		return
	}

	if h.genCache != nil {
		h.genCache.Set(cacheKey, streams)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"streams": streams,
		"cached":  false,
	})
}

// writeServiceError maps engine errors onto HTTP statuses. Persistence
// details never leak to the client.
func (h *BudgetHandler) writeServiceError(w http.ResponseWriter, err error, message string) {
	var vErr *budget.ValidationError
	var pErr *budget.PartialReconciliationError

	switch {
	case errors.Is(err, budget.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	case errors.As(err, &vErr):
		middleware.WriteError(w, http.StatusBadRequest, vErr.Reason)
	case errors.As(err, &pErr):
		h.log.Error().Err(err).Str("budget_id", pErr.BudgetID).Str("step", pErr.Step).Msg(message)
		middleware.WriteError(w, http.StatusInternalServerError, message)
	default:
		h.log.Error().Err(err).Msg(message)
		middleware.WriteError(w, http.StatusInternalServerError, message)
	}
}

// JobsHandler handles job status endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store: store,
		log:   log,
	}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	filter := jobs.JobFilter{
		SessionID: query.Get("session_id"),
		Status:    jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
