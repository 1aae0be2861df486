package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SoganiJ/InsuraX/internal/domain"
	"github.com/SoganiJ/InsuraX/internal/graph"
	"github.com/SoganiJ/InsuraX/internal/service"
)

// Error text returned while the graph store is unreachable. The suggestion
// names the most common cause seen in deployments.
const (
	storeUnavailableError      = "Fraud ring detector not initialized. Please check Neo4j connection and credentials."
	storeUnavailableSuggestion = "Set NEO4J_PASSWORD environment variable and ensure Neo4j is running"
)

// APIHandlers bundles the HTTP handlers exposing fraud-ring detection.
type APIHandlers struct {
	logger        *slog.Logger
	service       *service.DetectionService
	detectTimeout time.Duration
}

// NewAPIHandlers constructs handlers backed by the detection service. The
// timeout bounds one full load-and-detect cycle.
func NewAPIHandlers(logger *slog.Logger, svc *service.DetectionService, detectTimeout time.Duration) *APIHandlers {
	if detectTimeout <= 0 {
		detectTimeout = 2 * time.Minute
	}
	return &APIHandlers{
		logger:        logger,
		service:       svc,
		detectTimeout: detectTimeout,
	}
}

type detectRequest struct {
	Users    []map[string]any `json:"users"`
	Policies []map[string]any `json:"policies"`
	Claims   []map[string]any `json:"claims"`
}

type detectResponse struct {
	Success bool                   `json:"success"`
	Results domain.DetectionReport `json:"results"`
}

type visualizationResponse struct {
	Success bool                     `json:"success"`
	Data    domain.VisualizationData `json:"data"`
}

type ringHealthResponse struct {
	Success        bool   `json:"success"`
	Status         string `json:"status"`
	Neo4jConnected bool   `json:"neo4j_connected"`
	Error          string `json:"error,omitempty"`
}

type errorResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (h *APIHandlers) handleDetect(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.detect(w, r)
	default:
		methodNotAllowed(w, http.MethodPost)
	}
}

// detect accepts a full dataset and runs one load-and-detect cycle against
// it. All three record arrays must be present; empty arrays are legal and
// produce a report over an empty graph.
func (h *APIHandlers) detect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided", "")
		return
	}
	if req.Users == nil && req.Policies == nil && req.Claims == nil {
		writeError(w, http.StatusBadRequest, "No data provided", "")
		return
	}
	if req.Users == nil || req.Policies == nil || req.Claims == nil {
		writeError(w, http.StatusBadRequest, "Missing required data: users, policies, or claims", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.detectTimeout)
	defer cancel()

	report, err := h.service.RunDetection(ctx, req.Users, req.Policies, req.Claims)
	if err != nil {
		h.logger.Error("detection cycle failed", "error", err)
		if errors.Is(err, graph.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, storeUnavailableError, storeUnavailableSuggestion)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	respondJSON(w, http.StatusOK, detectResponse{Success: true, Results: report})
}

func (h *APIHandlers) handleVisualization(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	data, err := h.service.Visualization(r.Context())
	if err != nil {
		h.logger.Error("visualization extract failed", "error", err)
		if errors.Is(err, graph.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, storeUnavailableError, storeUnavailableSuggestion)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	respondJSON(w, http.StatusOK, visualizationResponse{Success: true, Data: data})
}

// handleRingHealth answers whether the graph store currently accepts
// queries, independently of the process-level /healthz probe.
func (h *APIHandlers) handleRingHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.service.Ping(ctx); err != nil {
		h.logger.Error("graph health probe failed", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, ringHealthResponse{
			Success:        false,
			Status:         "Unhealthy",
			Neo4jConnected: false,
			Error:          err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, ringHealthResponse{
		Success:        true,
		Status:         "Healthy",
		Neo4jConnected: true,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
}

func writeError(w http.ResponseWriter, status int, message, suggestion string) {
	respondJSON(w, status, errorResponse{Success: false, Error: message, Suggestion: suggestion})
}
