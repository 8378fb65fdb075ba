package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ivolkov/founderdesk/internal/jobs"
)

type fakePlanStorage struct {
	uploaded []string
}

func (f *fakePlanStorage) Upload(ctx context.Context, sessionID, filename string, r io.Reader) (string, error) {
	f.uploaded = append(f.uploaded, filename)
	return "gs://plans/" + sessionID + "/" + filename, nil
}

func (f *fakePlanStorage) Fetch(ctx context.Context, uri string) ([]byte, error) {
	return nil, nil
}

type fakePublisher struct {
	published []*jobs.ExtractPlanJob
}

func (f *fakePublisher) PublishExtractPlan(ctx context.Context, job *jobs.ExtractPlanJob) error {
	job.JobID = "job-1"
	job.Status = jobs.JobStatusPending
	f.published = append(f.published, job)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func TestCreateUploadURL(t *testing.T) {
	h := NewPlansHandler(&fakePlanStorage{}, &fakePublisher{}, zerolog.Nop())

	r := httptest.NewRequest(http.MethodPost, "/api/plans/upload-url",
		strings.NewReader(`{"session_id":"s1","filename":"plan.pdf"}`))
	w := httptest.NewRecorder()
	h.CreateUploadURL(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["plan_id"] == "" {
		t.Error("missing plan_id")
	}
	if !strings.Contains(resp["upload_url"], "session_id=s1") {
		t.Errorf("upload_url = %q, want session_id param", resp["upload_url"])
	}
}

func TestCreateUploadURLMissingFields(t *testing.T) {
	h := NewPlansHandler(&fakePlanStorage{}, &fakePublisher{}, zerolog.Nop())

	r := httptest.NewRequest(http.MethodPost, "/api/plans/upload-url",
		strings.NewReader(`{"filename":"plan.pdf"}`))
	w := httptest.NewRecorder()
	h.CreateUploadURL(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUploadPlanEnqueuesJob(t *testing.T) {
	storage := &fakePlanStorage{}
	publisher := &fakePublisher{}
	h := NewPlansHandler(storage, publisher, zerolog.Nop())

	r := httptest.NewRequest(http.MethodPost,
		"/api/plans/upload/p1?session_id=s1&filename=plan.pdf",
		strings.NewReader("%PDF-1.4 fake"))
	w := httptest.NewRecorder()
	h.UploadPlan(w, r, "p1")

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", w.Code, w.Body.String())
	}
	if len(storage.uploaded) != 1 || storage.uploaded[0] != "plan.pdf" {
		t.Errorf("uploaded = %v", storage.uploaded)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("published %d jobs, want 1", len(publisher.published))
	}
	job := publisher.published[0]
	if job.SessionID != "s1" || job.GCSURI == "" {
		t.Errorf("job = %+v", job)
	}
}

func TestUploadPlanRequiresSession(t *testing.T) {
	h := NewPlansHandler(&fakePlanStorage{}, &fakePublisher{}, zerolog.Nop())

	r := httptest.NewRequest(http.MethodPost, "/api/plans/upload/p1", strings.NewReader("data"))
	w := httptest.NewRecorder()
	h.UploadPlan(w, r, "p1")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
