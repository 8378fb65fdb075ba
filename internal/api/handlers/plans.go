package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ivolkov/founderdesk/internal/api/middleware"
	"github.com/ivolkov/founderdesk/internal/jobs"
	"github.com/ivolkov/founderdesk/internal/planstore"
)

// PlansHandler handles business plan upload endpoints. Uploaded plans are
// stored in GCS and an extraction job is enqueued so the advisor can turn the
// plan into budget estimates.
type PlansHandler struct {
	store     planstore.Storage
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewPlansHandler creates a new plans handler.
func NewPlansHandler(store planstore.Storage, publisher jobs.Publisher, log zerolog.Logger) *PlansHandler {
	return &PlansHandler{
		store:     store,
		publisher: publisher,
		log:       log,
	}
}

// CreateUploadURL handles POST /api/plans/upload-url
func (h *PlansHandler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Filename  string `json:"filename"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SessionID == "" || req.Filename == "" {
		middleware.WriteError(w, http.StatusBadRequest, "session_id and filename are required")
		return
	}

	planID := uuid.New().String()

	// For local development with user credentials, return a direct upload
	// URL. In production with service accounts this would be a signed URL.
	uploadURL := fmt.Sprintf("/api/plans/upload/%s?session_id=%s&filename=%s",
		planID, url.QueryEscape(req.SessionID), url.QueryEscape(req.Filename))

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"upload_url": uploadURL,
		"plan_id":    planID,
	})
}

// UploadPlan handles POST /api/plans/upload/{planID}.
// The request body is the plan document itself; on success an extraction job
// is enqueued and its id returned.
func (h *PlansHandler) UploadPlan(w http.ResponseWriter, r *http.Request, planID string) {
	ctx := r.Context()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "plan.pdf"
	}
	// Strip any path or query noise from the client-supplied name.
	if idx := strings.Index(filename, "?"); idx > 0 {
		filename = filename[:idx]
	}
	filename = filepath.Base(filename)

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	gcsURI, err := h.store.Upload(ctx, sessionID, filename, r.Body)
	if err != nil {
		h.log.Error().Err(err).Str("plan_id", planID).Msg("Failed to upload plan")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload plan")
		return
	}

	h.log.Info().
		Str("plan_id", planID).
		Str("session_id", sessionID).
		Str("gcs_uri", gcsURI).
		Msg("Plan uploaded")

	job := &jobs.ExtractPlanJob{
		SessionID:   sessionID,
		UserID:      middleware.UserID(ctx),
		GCSURI:      gcsURI,
		ContentType: contentType,
	}

	if err := h.publisher.PublishExtractPlan(ctx, job); err != nil {
		h.log.Error().Err(err).Str("plan_id", planID).Msg("Failed to enqueue extraction job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue extraction job")
		return
	}

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"plan_id": planID,
		"job_id":  job.JobID,
		"gcs_uri": gcsURI,
		"status":  string(job.Status),
	})
}
