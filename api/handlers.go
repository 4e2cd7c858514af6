/*
handlers.go - HTTP API handlers for the bonus engine

PURPOSE:
  Exposes bonus computation via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to bonus.Service and bonus.BatchRunner.

ENDPOINTS:
  Bonus:
    GET    /api/employees/{id}/bonus?year=YYYY[&as_of=YYYY-MM-DD]
    POST   /api/bonus/runs              Compute a cohort

  Configuration:
    GET    /api/weights                 Tier table and sub-objective policy

  Scenarios:
    GET    /api/scenarios               List demo scenarios
    GET    /api/scenarios/current       Currently loaded scenario
    POST   /api/scenarios/load          Load a demo scenario

  Health:
    GET    /healthz

AS-OF DATE:
  The engine never reads the clock. When as_of is omitted the handler
  uses Handler.Now, which defaults to time.Now.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid year, as_of or request body
  - 404: Employee not found
  - 500: Data-layer errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/warp/bonus-engine/bonus"
	"github.com/warp/bonus-engine/factory"
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Service *bonus.Service
	Runner  *bonus.BatchRunner
	Weights *factory.WeightConfig

	// Now supplies the default as-of date.
	Now func() time.Time

	mu              sync.Mutex
	currentScenario string
}

// NewHandler wires a handler over store using the given weight configuration.
func NewHandler(store *sqlite.Store, weights *factory.WeightConfig, concurrency int, logger *slog.Logger) (*Handler, error) {
	calc, err := weights.NewCalculator()
	if err != nil {
		return nil, err
	}
	svc := bonus.NewService(store, calc)
	return &Handler{
		Store:   store,
		Service: svc,
		Runner:  bonus.NewBatchRunner(svc, concurrency, logger),
		Weights: weights,
		Now:     time.Now,
	}, nil
}

// =============================================================================
// BONUS HANDLERS
// =============================================================================

// GetBonus returns one employee's itemized bonus.
// GET /api/employees/{id}/bonus?year=2024&as_of=2025-02-01
func (h *Handler) GetBonus(w http.ResponseWriter, r *http.Request) {
	id := bonus.EmployeeID(chi.URLParam(r, "id"))

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	asOf, err := h.asOf(r.URL.Query().Get("as_of"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of format (use YYYY-MM-DD)", err)
		return
	}

	res, err := h.Service.Compute(r.Context(), id, year, asOf, nil)
	if err != nil {
		writeServiceError(w, "Failed to compute bonus", err)
		return
	}

	writeJSON(w, http.StatusOK, ToBonusResultDTO(*res))
}

// CreateRun computes a cohort and returns the batch report.
// POST /api/bonus/runs
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req RunBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	asOf, err := h.asOf(req.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of format (use YYYY-MM-DD)", err)
		return
	}

	ids := make([]bonus.EmployeeID, 0, len(req.EmployeeIDs))
	for _, id := range req.EmployeeIDs {
		ids = append(ids, bonus.EmployeeID(id))
	}

	report, err := h.Runner.Run(r.Context(), req.Year, asOf, ids)
	if err != nil {
		writeServiceError(w, "Failed to run bonus computation", err)
		return
	}

	writeJSON(w, http.StatusOK, ToBatchReportDTO(report))
}

// GetWeights returns the configured tier table.
// GET /api/weights
func (h *Handler) GetWeights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Weights.Sorted())
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) asOf(raw string) (generic.TimePoint, error) {
	if raw == "" {
		now := time.Now
		if h.Now != nil {
			now = h.Now
		}
		return generic.FromTime(now()), nil
	}
	return generic.ParseDate(raw)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError picks the status from the error chain.
func writeServiceError(w http.ResponseWriter, message string, err error) {
	var nf *bonus.EmployeeNotFoundError
	switch {
	case errors.As(err, &nf), generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Employee not found", err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
