package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	infraBQ "github.com/ivolkov/founderdesk/internal/infra/bigquery"
	"github.com/ivolkov/founderdesk/internal/logger"
	"github.com/ivolkov/founderdesk/internal/notionsync"
)

func main() {
	// Initialize structured logger
	log := logger.New(true)

	// Parse CLI flags
	project := flag.String("project", os.Getenv("GCP_PROJECT"), "GCP project id (required, or set GCP_PROJECT env)")
	sessionID := flag.String("session", "", "Chat session whose budget to export (required)")
	notionToken := flag.String("notion-token", os.Getenv("NOTION_TOKEN"), "Notion API token (required, or set NOTION_TOKEN env)")
	notionDBID := flag.String("notion-db-id", "", "Notion database ID (required)")
	dryRun := flag.Bool("dry-run", false, "Dry run mode - preview changes without syncing")
	flag.Parse()

	// Validate required flags
	if *project == "" {
		log.Fatal().Msg("Error: --project is required")
	}
	if *sessionID == "" {
		log.Fatal().Msg("Error: --session is required")
	}
	if *notionToken == "" {
		log.Fatal().Msg("Error: --notion-token is required")
	}
	if *notionDBID == "" {
		log.Fatal().Msg("Error: --notion-db-id is required")
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("session_id", *sessionID).
		Bool("dry_run", *dryRun).
		Msg("Starting Notion sync")

	// Initialize BigQuery repository
	repo, err := infraBQ.NewRepository(ctx, *project)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize BigQuery repository")
	}
	defer repo.Close()

	// Resolve the session's budget
	b, err := repo.SelectBudget(ctx, *sessionID)
	if err != nil {
		log.Fatal().Err(err).Str("session_id", *sessionID).Msg("Failed to load budget for session")
	}

	// Initialize Notion client
	notionClient := notionsync.NewNotionClient(*notionToken)

	// Sync budget items
	if err := notionsync.SyncBudgetItems(ctx, repo, notionClient, *notionDBID, b.ID, *dryRun); err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	fmt.Println("Sync completed successfully.")
}
