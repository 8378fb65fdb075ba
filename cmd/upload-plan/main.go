package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/ivolkov/founderdesk/internal/logger"
	"github.com/ivolkov/founderdesk/internal/planstore"
)

func main() {
	// Initialize structured logger
	log := logger.New(true)

	var (
		bucketName string
		sessionID  string
		filePath   string
	)

	flag.StringVar(&bucketName, "bucket", "", "GCS bucket name (required)")
	flag.StringVar(&sessionID, "session", "", "Chat session id the plan belongs to (required)")
	flag.StringVar(&filePath, "file", "", "Path to local plan document (required)")
	flag.Parse()

	if bucketName == "" || sessionID == "" || filePath == "" {
		log.Fatal().Msg("Usage: upload-plan -bucket BUCKET_NAME -session SESSION_ID -file /path/to/plan.pdf")
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("bucket", bucketName).
		Str("session_id", sessionID).
		Str("file", filePath).
		Msg("Uploading plan to GCS")

	store := planstore.NewStore(bucketName)
	uri, err := store.UploadFile(ctx, sessionID, filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to %s\n", filePath, uri)
}
