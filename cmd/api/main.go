package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/statement-parser/internal/api/handlers"
	"github.com/dvloznov/statement-parser/internal/api/middleware"
	"github.com/dvloznov/statement-parser/internal/config"
	"github.com/dvloznov/statement-parser/internal/jobs"
	"github.com/dvloznov/statement-parser/internal/jobs/inmemory"
	"github.com/dvloznov/statement-parser/internal/logger"
	"github.com/dvloznov/statement-parser/internal/pipeline"
)

func main() {
	cfg := config.Load()

	var (
		port = flag.String("port", cfg.Port, "HTTP server port")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	ctx := context.Background()

	// A missing credential blocks all operation: refuse to start
	// rather than fail every upload later.
	parser, err := pipeline.NewGeminiParser(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration required")
	}

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	// Background handler for async parse jobs: same pipeline as the
	// synchronous endpoint, result attached to the job.
	jobHandler := func(ctx context.Context, job *jobs.ParseStatementJob) error {
		log.Info().
			Str("job_id", job.JobID).
			Str("filename", job.Filename).
			Msg("Processing parse job")

		result, doc, err := pipeline.ParseStatementPDF(ctx, parser, job.PDFBytes)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", job.JobID).
				Str("filename", job.Filename).
				Msg("Pipeline execution failed")
			return err
		}

		job.Result = result
		job.PageCount = doc.PageCount

		log.Info().
			Str("job_id", job.JobID).
			Str("filename", job.Filename).
			Int("warnings", len(result.Warnings)).
			Msg("Pipeline execution completed successfully")

		return nil
	}

	go func() {
		log.Info().Msg("Starting job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	// Initialize handlers
	statementsHandler := handlers.NewStatementsHandler(parser, jobQueue, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/statements/parse", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			statementsHandler.ParseStatement(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/statements/parse-async", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			statementsHandler.EnqueueParse(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

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

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.MaxBytes(cfg.MaxUploadBytes)(mux),
				),
			),
		),
	)

	// Create HTTP server. No per-request write timeout: the model
	// call has no timeout of its own, and a slow parse should not be
	// cut off mid-response.
	server := &http.Server{
		Addr:        ":" + *port,
		Handler:     handler,
		ReadTimeout: 5 * time.Minute,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Str("model", cfg.GeminiModel).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
