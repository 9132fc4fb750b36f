// Package api exposes the importer and store reports over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Veraticus/cnab-must-flow/internal/common"
	"github.com/Veraticus/cnab-must-flow/internal/model"
	"github.com/Veraticus/cnab-must-flow/internal/service"
)

// maxUploadMemory is the part of a multipart upload kept in memory; the rest
// spills to temporary files.
const maxUploadMemory = 32 << 20

// ContentImporter imports the raw content of an uploaded file.
type ContentImporter interface {
	ImportContent(ctx context.Context, source string, content []byte) (*model.ImportSummary, error)
}

// Handler serves the HTTP API.
type Handler struct {
	importer ContentImporter
	reports  service.ReportRepository
	log      *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(importer ContentImporter, reports service.ReportRepository, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		importer: importer,
		reports:  reports,
		log:      log,
	}
}

// Routes returns the API routes wrapped in the standard middleware chain.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/transactions/import", h.ImportTransactions)
	mux.HandleFunc("GET /api/stores/balances", h.StoreBalances)
	mux.HandleFunc("GET /api/imports", h.ImportRuns)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return Chain(mux, RequestID, Logger(h.log), Recovery(h.log))
}

// ImportTransactions handles POST /api/transactions/import with a multipart
// "file" field.
func (h *Handler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		WriteError(w, http.StatusBadRequest, "Expected a multipart form with a file field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	summary, err := h.importer.ImportContent(r.Context(), filepath.Base(header.Filename), content)
	if err != nil {
		if errors.Is(err, common.ErrNoInput) {
			WriteError(w, http.StatusBadRequest, "Uploaded file is empty")
			return
		}
		h.log.Error("Import failed",
			"request_id", RequestIDFromContext(r.Context()),
			"file", header.Filename,
			"error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to import transactions")
		return
	}

	WriteJSON(w, ImportStatus(summary), summary)
}

// ImportStatus picks the response status for an import summary: 200 when no
// line was rejected, 422 when every line was rejected, 207 otherwise.
func ImportStatus(summary *model.ImportSummary) int {
	switch {
	case summary.Invalid == 0:
		return http.StatusOK
	case summary.Imported == 0 && summary.Duplicate == 0:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusMultiStatus
	}
}

type storeBalanceResponse struct {
	Name             string `json:"name"`
	Owner            string `json:"owner"`
	Balance          string `json:"balance"`
	ID               int64  `json:"id"`
	TransactionCount int    `json:"transaction_count"`
}

// StoreBalances handles GET /api/stores/balances.
func (h *Handler) StoreBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.reports.StoreBalances(r.Context())
	if err != nil {
		h.log.Error("Failed to load store balances", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load store balances")
		return
	}

	out := make([]storeBalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, storeBalanceResponse{
			ID:               b.Store.ID,
			Name:             b.Store.Name,
			Owner:            b.Store.Owner,
			Balance:          b.Balance.StringFixed(2),
			TransactionCount: b.TransactionCount,
		})
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"stores": out,
		"count":  len(out),
	})
}

type importRunResponse struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Lines      int       `json:"lines"`
	Imported   int       `json:"imported"`
	Invalid    int       `json:"invalid"`
	Duplicate  int       `json:"duplicate"`
}

// ImportRuns handles GET /api/imports?limit=N.
func (h *Handler) ImportRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	runs, err := h.reports.ImportRuns(r.Context(), limit)
	if err != nil {
		h.log.Error("Failed to load import runs", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load import history")
		return
	}

	out := make([]importRunResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, importRunResponse(run))
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"imports": out,
		"count":   len(out),
	})
}
