package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-parser/internal/api/middleware"
	"github.com/dvloznov/statement-parser/internal/export"
	"github.com/dvloznov/statement-parser/internal/extractor"
	"github.com/dvloznov/statement-parser/internal/jobs"
	"github.com/dvloznov/statement-parser/internal/pipeline"
)

// maxMultipartMemory bounds the in-memory portion of multipart
// parsing; larger uploads spill to temp files.
const maxMultipartMemory = 32 << 20

// ParseResponse is the JSON response from the statement parse endpoints.
type ParseResponse struct {
	Success   bool                    `json:"success"`
	Error     string                  `json:"error,omitempty"`
	IsValid   bool                    `json:"is_valid,omitempty"`
	Warnings  []string                `json:"warnings,omitempty"`
	Errors    []string                `json:"errors,omitempty"`
	Data      map[string]interface{}  `json:"data,omitempty"`
	PageCount int                     `json:"page_count,omitempty"`
	Tables    []extractor.Table       `json:"tables,omitempty"`
	Stats     *export.TransactionStats `json:"stats,omitempty"`
	CSV       string                  `json:"csv,omitempty"`
}

// StatementsHandler handles statement upload and parse endpoints.
type StatementsHandler struct {
	parser    pipeline.StatementParser
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewStatementsHandler creates a new statements handler.
func NewStatementsHandler(parser pipeline.StatementParser, publisher jobs.Publisher, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{
		parser:    parser,
		publisher: publisher,
		log:       log,
	}
}

// ParseStatement handles POST /api/statements/parse.
// It runs the full extract-parse-validate pipeline synchronously and
// returns the normalized statement, warnings, derived aggregates, and
// a CSV rendering of the transactions.
func (h *StatementsHandler) ParseStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pdfBytes, filename, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	result, doc, err := pipeline.ParseStatementPDF(ctx, h.parser, pdfBytes)
	if err != nil {
		h.writePipelineError(w, filename, err)
		return
	}

	transactions, _ := result.Data[pipeline.FieldTransactions].([]interface{})
	stats := export.ComputeStats(transactions)

	var csvBuf bytes.Buffer
	if err := export.WriteTransactionsCSV(&csvBuf, transactions); err != nil {
		h.log.Error().Err(err).Msg("CSV generation failed")
		middleware.WriteError(w, http.StatusInternalServerError, "CSV generation failed")
		return
	}

	h.log.Info().
		Str("filename", filename).
		Int("pages", doc.PageCount).
		Int("transactions", stats.Count).
		Int("warnings", len(result.Warnings)).
		Msg("Statement parsed")

	middleware.WriteJSON(w, http.StatusOK, ParseResponse{
		Success:   true,
		IsValid:   result.IsValid,
		Warnings:  result.Warnings,
		Errors:    result.Errors,
		Data:      result.Data,
		PageCount: doc.PageCount,
		Tables:    doc.Tables,
		Stats:     &stats,
		CSV:       csvBuf.String(),
	})
}

// EnqueueParse handles POST /api/statements/parse-async.
// The upload is queued and parsed in the background; poll the job
// endpoint for the result.
func (h *StatementsHandler) EnqueueParse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pdfBytes, filename, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	job := &jobs.ParseStatementJob{
		Filename: filename,
		PDFBytes: pdfBytes,
	}

	if err := h.publisher.PublishParseStatement(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue parse job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue parse job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("filename", filename).Msg("Parse job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":   job.JobID,
		"filename": filename,
		"status":   string(job.Status),
	})
}

// readUpload pulls the uploaded PDF out of the multipart form.
// On failure it writes the error response and reports !ok.
func (h *StatementsHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "No file uploaded. Use form field 'file'.")
		return nil, "", false
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		middleware.WriteError(w, http.StatusBadRequest, "Only PDF files are supported.")
		return nil, "", false
	}

	pdfBytes, err := io.ReadAll(file)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read uploaded file.")
		return nil, "", false
	}

	return pdfBytes, header.Filename, true
}

// writePipelineError maps the three pipeline error kinds to HTTP
// responses. All of them are terminal for the upload.
func (h *StatementsHandler) writePipelineError(w http.ResponseWriter, filename string, err error) {
	var extractErr *extractor.ExtractionError
	var modelErr *pipeline.ModelError
	var parseErr *pipeline.ParseError

	switch {
	case errors.As(err, &extractErr):
		h.log.Warn().Err(err).Str("filename", filename).Msg("PDF extraction failed")
		middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &parseErr):
		// The raw response goes to the log, never to the user.
		h.log.Error().Err(err).Str("filename", filename).Str("raw_response", parseErr.Raw).Msg("Model response was not valid JSON")
		middleware.WriteError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &modelErr):
		h.log.Error().Err(err).Str("filename", filename).Msg("Model call failed")
		middleware.WriteError(w, http.StatusBadGateway, err.Error())
	default:
		h.log.Error().Err(err).Str("filename", filename).Msg("Pipeline failed")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// JobsHandler handles job-related endpoints.
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
		Status: jobs.JobStatus(query.Get("status")),
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
