package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/capintel/portfolio-engine/pkg/apperrors"
	"github.com/capintel/portfolio-engine/pkg/auth"
	"github.com/capintel/portfolio-engine/pkg/models"
	"github.com/capintel/portfolio-engine/pkg/repositories"
	"github.com/capintel/portfolio-engine/pkg/services"
)

// DashboardHandler serves the portfolio views: filter options, the
// filtered dashboard bundle, and per-project drill-downs.
type DashboardHandler struct {
	datasetService services.DatasetService
	filterService  services.FilterService
	aggregation    services.AggregationService
	drilldown      services.DrilldownService
	viewCache      services.ViewCache
	logger         *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(
	datasetService services.DatasetService,
	filterService services.FilterService,
	aggregation services.AggregationService,
	drilldown services.DrilldownService,
	viewCache services.ViewCache,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		datasetService: datasetService,
		filterService:  filterService,
		aggregation:    aggregation,
		drilldown:      drilldown,
		viewCache:      viewCache,
		logger:         logger,
	}
}

// RegisterRoutes registers the dashboard routes on the given mux.
// Every route sits behind the viewing gate.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/filters", authMiddleware.RequireViewer(h.FilterOptions))
	mux.HandleFunc("POST /api/dashboard", authMiddleware.RequireViewer(h.Dashboard))
	mux.HandleFunc("GET /api/projects/{id}", authMiddleware.RequireViewer(h.Drilldown))
}

// FilterOptions handles GET /api/filters.
// Returns the selectable values for every filter dimension.
func (h *DashboardHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}

	if err := WriteJSON(w, http.StatusOK, h.filterService.Options(ds)); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Dashboard handles POST /api/dashboard.
// The body is a filter specification; the response carries the
// filtered projects plus every derived view. An empty selection is a
// valid result, not an error.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var spec models.FilterSpec
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid filter specification"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
	}

	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}

	if view, hit := h.viewCache.Get(r.Context(), ds.Signature(), spec); hit {
		if err := WriteJSON(w, http.StatusOK, view); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
		return
	}

	projects := h.filterService.Apply(ds, spec)
	view := h.aggregation.Dashboard(ds, projects)
	h.viewCache.Put(r.Context(), ds.Signature(), spec, view)

	if err := WriteJSON(w, http.StatusOK, view); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Drilldown handles GET /api/projects/{id}.
// Returns the cross-entity detail bundle for one project.
func (h *DashboardHandler) Drilldown(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}

	bundle, err := h.drilldown.Resolve(ds, ds.AllProjects(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Project not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to resolve drill-down",
			zap.String("project_id", id),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to resolve project"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, bundle); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// dataset fetches the current dataset, writing the load-failure
// response when the workbook cannot be served. A load failure is
// terminal for the request; no partial dataset is ever exposed.
func (h *DashboardHandler) dataset(w http.ResponseWriter, r *http.Request) (*repositories.Dataset, bool) {
	ds, err := h.datasetService.Dataset(r.Context())
	if err != nil {
		h.logger.Error("Workbook load failed", zap.Error(err))
		if errors.Is(err, apperrors.ErrLoadFailed) || errors.Is(err, apperrors.ErrMissingIDColumn) {
			if err := ErrorResponse(w, http.StatusServiceUnavailable, "load_failed", "Project data is unavailable"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return nil, false
		}
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to load project data"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return nil, false
	}
	return ds, true
}
