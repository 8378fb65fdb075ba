package planstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Storage provides an interface for plan document storage operations.
// This interface enables mocking and testing of storage functionality.
type Storage interface {
	// Upload stores a plan document for a session and returns its storage URI.
	Upload(ctx context.Context, sessionID, filename string, r io.Reader) (string, error)

	// Fetch downloads plan document bytes from the given storage URI.
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// Store persists uploaded business plan documents in a GCS bucket. It assumes
// Application Default Credentials are configured (gcloud auth application-default login).
type Store struct {
	bucket string
}

func NewStore(bucket string) *Store {
	return &Store{bucket: bucket}
}

// Upload streams a plan document into the bucket under plans/<session>/<uuid>_<filename>
// and returns the resulting gs:// URI.
func (s *Store) Upload(ctx context.Context, sessionID, filename string, r io.Reader) (string, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	objectName := fmt.Sprintf("plans/%s/%s_%s", sessionID, uuid.New().String(), path.Base(filename))

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	defer func() {
		// Ensure the writer is closed even on early returns.
		_ = w.Close()
	}()

	if _, err := io.Copy(w, r); err != nil {
		return "", fmt.Errorf("copy plan to GCS writer: %w", err)
	}

	// Close to finalize the upload.
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

// UploadFile uploads a local file, keeping its base name as the object suffix.
// Used by the upload-plan CLI.
func (s *Store) UploadFile(ctx context.Context, sessionID, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open file %q: %w", filePath, err)
	}
	defer f.Close()

	return s.Upload(ctx, sessionID, path.Base(filePath), f)
}

// Fetch downloads the plan document bytes from the given GCS URI.
func (s *Store) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucketName, objectPath, err := splitURI(uri)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch plan: creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch plan: reading object %s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("fetch plan: reading bytes: %w", err)
	}

	return data, nil
}

// splitURI splits "gs://bucket/path/to/object" into bucket and object path.
func splitURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}

	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}

	return parts[0], parts[1], nil
}

// Filename extracts the original filename from a plan URI.
// e.g. "gs://bucket/plans/s1/abc_plan.pdf" → "abc_plan.pdf"
func Filename(uri string) string {
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return path.Base(parts[1])
}

var _ Storage = (*Store)(nil)
