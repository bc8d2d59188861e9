package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bess-degradation/internal/api/models"
	"bess-degradation/internal/metrics"
	"bess-degradation/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, staticDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec, err := metrics.NewPromRecorder(prometheus.NewRegistry())
	require.NoError(t, err)
	return NewRouter(Deps{
		Store:     store.NewMemoryStore(0),
		Metrics:   rec,
		StaticDir: staticDir,
	})
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestSimulate_ReferenceSystem(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(t, r, http.MethodPost, "/api/v1/simulate", `{"capacity_kwh": 2028, "include_breakdown": true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.SimulationResponse](t, w)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 3, resp.Summary.YearsToEOL)
	assert.True(t, resp.Summary.EOLReached)
	assert.Equal(t, 1095.0, resp.Summary.TotalCyclesToEOL)
	assert.Equal(t, "nominal", resp.Summary.OperationMode)
	assert.InDelta(t, 89.21, resp.Summary.Year1SOHPercent, 0.01)
	require.Len(t, resp.Breakdown, 4)
	assert.Equal(t, "FAT-SAT Pre-storage", resp.Breakdown[0].Source)
	assert.Equal(t, "nominal", resp.Breakdown[3].Mode)

	// Stored run is retrievable in every format.
	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+resp.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.SimulationResponse](t, w)
	assert.Equal(t, resp.Summary, got.Summary)
	assert.Len(t, got.Breakdown, 4)

	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+resp.ID+"/csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "year,cumulative_cycles,soh_percent"))
	assert.Equal(t, 5, strings.Count(w.Body.String(), "\n"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), resp.ID)

	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+resp.ID+"/chart.png", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	w = do(t, r, http.MethodGet, "/api/v1/simulations?limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[models.SimulationListResponse](t, w)
	require.Len(t, list.Simulations, 1)
	assert.Equal(t, resp.ID, list.Simulations[0].ID)
}

func TestSimulate_Errors(t *testing.T) {
	r := newTestRouter(t, "")

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"capacity_kwh":`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"capacity too small", `{"capacity_kwh": 10}`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"percent given as fraction", `{"dod": 90}`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"both dod spellings", `{"dod": 0.9, "dod_percent": 90}`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"unknown variant", `{"variant": "quantum"}`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"unknown preset", `{"preset": "acme"}`, http.StatusBadRequest, "UNKNOWN_PRESET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/v1/simulate", tt.body)
			assert.Equal(t, tt.status, w.Code)
			resp := decode[models.ErrorResponse](t, w)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}

	w := do(t, r, http.MethodPost, "/api/v1/simulate", `{"temperature_c": 60}`)
	resp := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "temperature_c", resp.Error.Details["field"])
	assert.Equal(t, 50.0, resp.Error.Details["max"])

	w = do(t, r, http.MethodPost, "/api/v1/simulate", `{"dod": 90}`)
	resp = decode[models.ErrorResponse](t, w)
	assert.Contains(t, resp.Error.Details["hint"], "dod_percent")

	w = do(t, r, http.MethodGet, "/api/v1/simulations/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodGet, "/api/v1/simulations/unknown/csv", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodGet, "/api/v1/simulations?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSimulate_PresetAndPercentFields(t *testing.T) {
	r := newTestRouter(t, "")
	w := do(t, r, http.MethodPost, "/api/v1/simulate",
		`{"preset": "catl", "capacity_kwh": 500, "dod_percent": 80, "eol_threshold_percent": 70, "storage_days": 0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.SimulationResponse](t, w)
	assert.Equal(t, "Contemporary Amperex Technology Co. Ltd. 500 kWh", resp.Summary.SystemName)
	assert.Equal(t, 0.0, resp.Summary.PreStorageLossPercent)
	assert.LessOrEqual(t, resp.Summary.FinalSOHPercent, 70.0)
	assert.InDelta(t, resp.Summary.ResidualCapacityKWh*0.85, resp.Summary.ResidualACCapacityKWh, 0.2)
}

func TestCompare(t *testing.T) {
	r := newTestRouter(t, "")
	body := `{
		"base": {"capacity_kwh": 2028},
		"variations": [
			{"name": "hard", "overrides": {"cycles_per_day": 2, "dod": 1.0}},
			{"name": "reference", "overrides": {}},
			{"name": "gentle", "overrides": {"variant": "bifasic", "temperature_c": 10, "dod": 0.5,
				"cycles_per_day": 0.5, "storage_days": 0, "eol_threshold": 0.5}}
		]
	}`
	w := do(t, r, http.MethodPost, "/api/v1/simulate/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.CompareResponse](t, w)
	require.Len(t, resp.Comparison, 3)
	names := []string{resp.Comparison[0].Name, resp.Comparison[1].Name, resp.Comparison[2].Name}
	assert.Equal(t, []string{"gentle", "reference", "hard"}, names)
	assert.Equal(t, 1, resp.Comparison[0].Rank)
	assert.False(t, resp.Comparison[0].Summary.EOLReached)
	assert.Equal(t, "hard", resp.Comparison[2].Summary.SystemName)
	assert.Empty(t, resp.ChartURL)

	// Overlay chart of two runs from the comparison.
	path := "/api/v1/simulations/" + resp.Comparison[1].ID + "/chart.png?with=" + resp.Comparison[2].ID
	w = do(t, r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/simulate/compare", `{
		"base": {"capacity_kwh": 2028},
		"chart": true,
		"variations": [{"name": "a", "overrides": {}}, {"name": "b", "overrides": {"temperature_c": 40}}]
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	charted := decode[models.CompareResponse](t, w)
	want := "/api/v1/simulations/" + charted.Comparison[0].ID + "/chart.png?with=" + charted.Comparison[1].ID
	assert.Equal(t, want, charted.ChartURL)
	w = do(t, r, http.MethodGet, charted.ChartURL, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = do(t, r, http.MethodPost, "/api/v1/simulate/compare", `{"base": {}, "variations": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodPost, "/api/v1/simulate/compare",
		`{"base": {}, "variations": [{"name": "a", "overrides": {}}, {"name": "a", "overrides": {}}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodPost, "/api/v1/simulate/compare",
		`{"base": {}, "variations": [{"name": "bad", "overrides": {"c_rate": 5}}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `variation \"bad\"`)
}

func TestPresets(t *testing.T) {
	r := newTestRouter(t, "")
	w := do(t, r, http.MethodGet, "/api/v1/presets", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.PresetsResponse](t, w)
	assert.Len(t, resp.Presets, 4)

	w = do(t, r, http.MethodGet, "/api/v1/presets/Gotion", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodGet, "/api/v1/presets/acme", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthMetricsAndStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	r := newTestRouter(t, dir)

	w := do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	do(t, r, http.MethodPost, "/api/v1/simulate", `{}`)
	w = do(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bess_simulations_total")
	assert.Contains(t, w.Body.String(), `route="/api/v1/simulate"`)

	w = do(t, r, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app")

	w = do(t, r, http.MethodGet, "/api/v2/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}
