// Package api exposes the orchestrator over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/xeipuuv/gojsonschema"

	"luuno-orchestrator/internal/common/errors"
	"luuno-orchestrator/internal/common/logger"
	"luuno-orchestrator/internal/models"
)

const maxBodyBytes = 1 << 20

// Service is the orchestrator surface served over HTTP.
type Service interface {
	ProcessQuery(ctx context.Context, query models.Query) *models.QueryResult
	GetSystemStatus(ctx context.Context) models.SystemStatus
	CurrentStatus() models.SystemStatus
	AnalyzeBusiness(ctx context.Context, businessType string, rawData map[string]interface{}) *models.RecommendationReport
}

type Handler struct {
	service Service
	schemas *requestSchemas
	errors  *errors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(service Service, log logger.Logger) (*Handler, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	log = log.With(map[string]interface{}{"component": "api"})
	return &Handler{
		service: service,
		schemas: schemas,
		errors:  errors.NewErrorHandler(log),
		logger:  log,
	}, nil
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/query", h.handleQuery)
	mux.HandleFunc("GET /api/status", h.handleStatus)
	mux.HandleFunc("POST /api/status/refresh", h.handleRefresh)
	mux.HandleFunc("POST /api/analyze", h.handleAnalyze)
}

type analyzeRequest struct {
	BusinessType string                 `json:"businessType"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	var query models.Query
	if err := h.decode(w, r, h.schemas.query, &query); err != nil {
		h.errors.HandleHTTPError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.service.ProcessQuery(r.Context(), query))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("cached") == "true" {
		writeJSON(w, http.StatusOK, h.service.CurrentStatus())
		return
	}
	writeJSON(w, http.StatusOK, h.service.GetSystemStatus(r.Context()))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.GetSystemStatus(r.Context()))
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := h.decode(w, r, h.schemas.analyze, &req); err != nil {
		h.errors.HandleHTTPError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.service.AnalyzeBusiness(r.Context(), req.BusinessType, req.Data))
}

// decode reads the body, checks it against schema and unmarshals it into out.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema, out interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return errors.NewInvalidRequestError(fmt.Sprintf("read body: %v", err))
	}

	violations, err := validate(schema, body)
	if err != nil {
		return errors.NewInvalidRequestError(fmt.Sprintf("malformed JSON: %v", err))
	}
	if violations != "" {
		return errors.NewInvalidRequestError(violations)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewInvalidRequestError(fmt.Sprintf("decode body: %v", err))
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
