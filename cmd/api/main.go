package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ivolkov/founderdesk/internal/advisor"
	"github.com/ivolkov/founderdesk/internal/api/handlers"
	"github.com/ivolkov/founderdesk/internal/api/middleware"
	"github.com/ivolkov/founderdesk/internal/budget"
	"github.com/ivolkov/founderdesk/internal/cache"
	infraBQ "github.com/ivolkov/founderdesk/internal/infra/bigquery"
	"github.com/ivolkov/founderdesk/internal/jobs"
	"github.com/ivolkov/founderdesk/internal/jobs/inmemory"
	"github.com/ivolkov/founderdesk/internal/logger"
	"github.com/ivolkov/founderdesk/internal/planstore"
)

func main() {
	// Parse command-line flags
	var (
		port    = flag.String("port", "8080", "HTTP server port")
		project = flag.String("project", os.Getenv("GCP_PROJECT"), "GCP project id (or set GCP_PROJECT env)")
		bucket  = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket name for plan uploads (or set GCS_BUCKET env)")
		model   = flag.String("model", os.Getenv("GEMINI_MODEL"), "Gemini model for estimate generation (or set GEMINI_MODEL env)")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New(true)

	if *project == "" {
		log.Fatal().Msg("GCP project is required (-project or GCP_PROJECT)")
	}
	if *bucket == "" {
		log.Warn().Msg("No GCS bucket configured - plan uploads will be disabled")
	}

	ctx := context.Background()

	// Initialize persistence
	repo, err := infraBQ.NewRepository(ctx, *project)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery repository")
	}
	defer repo.Close()

	svc := budget.NewService(repo, repo, log)
	adv := advisor.New(*model, log)
	genCache := cache.New(256, 10*time.Minute)
	plans := planstore.NewStore(*bucket)

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, 2, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	// Plan extraction: fetch the uploaded document, ask the model for
	// estimates, and reconcile them into the session's budget alongside
	// whatever the user already has.
	jobHandler := func(ctx context.Context, job jobs.Job) error {
		planJob, ok := job.(*jobs.ExtractPlanJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", planJob.JobID).
			Str("session_id", planJob.SessionID).
			Str("gcs_uri", planJob.GCSURI).
			Msg("Processing plan extraction job")

		doc, err := plans.Fetch(ctx, planJob.GCSURI)
		if err != nil {
			return fmt.Errorf("fetch plan: %w", err)
		}

		contentType := planJob.ContentType
		if contentType == "" {
			contentType = "application/pdf"
		}

		extracted, err := adv.GenerateEstimatesFromPlan(ctx, doc, contentType)
		if err != nil {
			return fmt.Errorf("extract estimates: %w", err)
		}

		current, err := svc.GetBudget(ctx, planJob.UserID, planJob.SessionID)
		if err != nil {
			return fmt.Errorf("load budget: %w", err)
		}

		incoming := append(current.Items, extracted...)
		if _, err := svc.Reconcile(ctx, planJob.UserID, planJob.SessionID, incoming, current.InitialInvestment); err != nil {
			return fmt.Errorf("reconcile extracted items: %w", err)
		}
		genCache.InvalidatePrefix(planJob.SessionID + ":")

		planJob.ItemCount = len(extracted)

		log.Info().
			Str("job_id", planJob.JobID).
			Str("session_id", planJob.SessionID).
			Int("items", len(extracted)).
			Msg("Plan extraction completed")

		return nil
	}

	go func() {
		log.Info().Msg("Starting job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	// Initialize handlers
	budgetHandler := handlers.NewBudgetHandler(svc, repo, adv, genCache, log)
	plansHandler := handlers.NewPlansHandler(plans, jobQueue, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	// Create router
	mux := http.NewServeMux()

	// Session-scoped budget endpoints
	mux.HandleFunc("/api/sessions/", budgetHandler.Handle)

	// Plan upload endpoints
	mux.HandleFunc("/api/plans/upload-url", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			plansHandler.CreateUploadURL(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/plans/upload/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			planID := strings.TrimPrefix(r.URL.Path, "/api/plans/upload/")
			if planID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Plan ID is required")
				return
			}
			plansHandler.UploadPlan(w, r, planID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Jobs endpoints
	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Apply middleware. Health stays outside Auth so probes don't need
	// an identity header.
	api := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Auth(mux),
				),
			),
		),
	)

	root := http.NewServeMux()
	root.Handle("/api/", api)
	root.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Cancel worker context and drain in-flight jobs
	cancelWorker()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := jobQueue.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Job queue shutdown failed")
	}

	if err := server.Shutdown(stopCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
