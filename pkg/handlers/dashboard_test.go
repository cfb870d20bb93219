package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/capintel/portfolio-engine/pkg/apperrors"
	"github.com/capintel/portfolio-engine/pkg/auth"
	"github.com/capintel/portfolio-engine/pkg/models"
	"github.com/capintel/portfolio-engine/pkg/services"
)

func newDashboardServer(t *testing.T, datasets *mockDatasetService, cache services.ViewCache) *http.ServeMux {
	t.Helper()
	if cache == nil {
		cache = &spyViewCache{}
	}

	h := NewDashboardHandler(
		datasets,
		services.NewFilterService(),
		services.NewAggregationService(),
		services.NewDrilldownService(),
		cache,
		zap.NewNop(),
	)

	mw := auth.NewMiddleware(&mockAuthService{id: &auth.Identity{Email: "viewer@example.com"}}, zap.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, mw)
	return mux
}

func TestFilterOptionsEndpoint(t *testing.T) {
	mux := newDashboardServer(t, &mockDatasetService{ds: fixtureDataset()}, nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/filters", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var opts models.FilterOptions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Equal(t, []string{"Ghana", "Kenya"}, opts.Countries)
	assert.Equal(t, []int{2019, 2018}, opts.AwardYears)
	assert.Equal(t, []string{"AquaCorp"}, opts.ClientCompanies)
}

func TestDashboardEndpoint(t *testing.T) {
	cache := &spyViewCache{}
	mux := newDashboardServer(t, &mockDatasetService{ds: fixtureDataset()}, cache)

	body := strings.NewReader(`{"countries":["Kenya"]}`)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/dashboard", body))

	require.Equal(t, http.StatusOK, w.Code)

	var view models.DashboardView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Projects, 1)
	assert.Equal(t, "Coastal Desalination", view.Projects[0].Name)
	assert.Equal(t, 1, view.KPIs.ProjectCount)
	assert.Equal(t, 1, cache.puts, "computed view is cached")
}

func TestDashboardEndpointEmptySelection(t *testing.T) {
	mux := newDashboardServer(t, &mockDatasetService{ds: fixtureDataset()}, nil)

	body := strings.NewReader(`{"countries":["Chile"]}`)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/dashboard", body))

	require.Equal(t, http.StatusOK, w.Code, "empty selection is a valid result")

	var view models.DashboardView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Empty(t, view.Projects)
	assert.Equal(t, "N/A", view.KPIs.TopSector)
}

func TestDashboardEndpointCacheHit(t *testing.T) {
	cached := &models.DashboardView{KPIs: models.KPISet{ProjectCount: 42, TopSector: "Water"}}
	cache := &spyViewCache{hit: cached}
	mux := newDashboardServer(t, &mockDatasetService{ds: fixtureDataset()}, cache)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/dashboard", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusOK, w.Code)

	var view models.DashboardView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 42, view.KPIs.ProjectCount, "hit is served without recomputing")
	assert.Zero(t, cache.puts)
}

func TestDashboardEndpointBadBody(t *testing.T) {
	mux := newDashboardServer(t, &mockDatasetService{ds: fixtureDataset()}, nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/dashboard", strings.NewReader(`{not json`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardEndpointLoadFailure(t *testing.T) {
	mux := newDashboardServer(t, &mockDatasetService{err: fmt.Errorf("%w: gone", apperrors.ErrLoadFailed)}, nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/dashboard", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "load_failed", body["error"])
}

func TestDrilldownEndpoint(t *testing.T) {
	mux := newDashboardServer(t, &mockDatasetService{ds: fixtureDataset()}, nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects/1", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var bundle models.DrilldownBundle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bundle))
	assert.Equal(t, "Coastal Desalination", bundle.Project.Name)
	require.Len(t, bundle.Roles, 1)
	assert.Equal(t, "AquaCorp", bundle.Roles[0].CompanyName)
}

func TestDrilldownEndpointNotFound(t *testing.T) {
	mux := newDashboardServer(t, &mockDatasetService{ds: fixtureDataset()}, nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects/999", nil))

	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["error"])
}

func TestDashboardRoutesRequireAuth(t *testing.T) {
	h := NewDashboardHandler(
		&mockDatasetService{ds: fixtureDataset()},
		services.NewFilterService(),
		services.NewAggregationService(),
		services.NewDrilldownService(),
		&spyViewCache{},
		zap.NewNop(),
	)
	mw := auth.NewMiddleware(&mockAuthService{err: auth.ErrMissingAuthorization}, zap.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, mw)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/filters"},
		{http.MethodPost, "/api/dashboard"},
		{http.MethodGet, "/api/projects/1"},
	} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
	}
}
