package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bess-degradation/internal/analysis"
	"bess-degradation/internal/api/models"
	"bess-degradation/internal/lifetime"
	"bess-degradation/internal/logger"
	"bess-degradation/internal/metrics"
	"bess-degradation/internal/presets"
	"bess-degradation/internal/report"
	"bess-degradation/internal/store"

	"github.com/gin-gonic/gin"
)

// maxCompareVariations bounds a single comparison request.
const maxCompareVariations = 20

// SimulationHandler handles simulation requests
type SimulationHandler struct {
	engine    *lifetime.Engine
	store     store.Store
	catalogue *presets.Catalogue
	rec       metrics.Recorder
	log       logger.Logger
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(st store.Store, cat *presets.Catalogue, rec metrics.Recorder, log logger.Logger) *SimulationHandler {
	if cat == nil {
		cat = presets.Default()
	}
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &SimulationHandler{
		engine:    lifetime.New(),
		store:     st,
		catalogue: cat,
		rec:       rec,
		log:       log,
	}
}

// Simulate handles POST /api/v1/simulate
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rec.RecordFailure("invalid_request")
		badRequest(c, err)
		return
	}

	run, err := h.run(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewSimulationResponse(run.ID, run.Result, req.IncludeBreakdown))
}

// Compare handles POST /api/v1/simulate/compare
func (h *SimulationHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rec.RecordFailure("invalid_request")
		badRequest(c, err)
		return
	}
	if len(req.Variations) > maxCompareVariations {
		h.rec.RecordFailure("invalid_request")
		badRequest(c, fmt.Errorf("at most %d variations per comparison", maxCompareVariations))
		return
	}

	ids := make(map[string]string, len(req.Variations))
	for _, v := range req.Variations {
		if _, dup := ids[v.Name]; dup {
			h.rec.RecordFailure("invalid_request")
			badRequest(c, fmt.Errorf("duplicate variation name %q", v.Name))
			return
		}
		ids[v.Name] = ""
	}
	scenarios := make([]analysis.Scenario, 0, len(req.Variations))
	for _, v := range req.Variations {
		merged := req.Base.Merge(v.Overrides)
		if merged.Name == nil {
			name := v.Name
			merged.Name = &name
		}
		run, err := h.run(c.Request.Context(), merged)
		if err != nil {
			h.fail(c, fmt.Errorf("variation %q: %w", v.Name, err))
			return
		}
		ids[v.Name] = run.ID
		scenarios = append(scenarios, analysis.Scenario{Name: v.Name, Result: run.Result})
	}

	ranked := analysis.RankByLifetime(scenarios)
	out := models.CompareResponse{Comparison: make([]models.ComparisonResult, len(ranked))}
	for i, r := range ranked {
		out.Comparison[i] = models.ComparisonResult{
			Rank:    r.Rank,
			Name:    r.Name,
			ID:      ids[r.Name],
			Summary: report.NewSummary(r.Result),
			Stats:   models.NewStatsView(r.Stats),
		}
	}
	if req.Chart {
		out.ChartURL = chartURL(out.Comparison)
	}
	c.JSON(http.StatusOK, out)
}

// chartURL points at the chart of the first ranked run with the others overlaid.
func chartURL(ranked []models.ComparisonResult) string {
	path := "/api/v1/simulations/" + ranked[0].ID + "/chart.png"
	if len(ranked) == 1 {
		return path
	}
	others := make([]string, 0, len(ranked)-1)
	for _, r := range ranked[1:] {
		others = append(others, r.ID)
	}
	return path + "?with=" + strings.Join(others, ",")
}

// ListSimulations handles GET /api/v1/simulations
func (h *SimulationHandler) ListSimulations(c *gin.Context) {
	limit := 50
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			badRequest(c, fmt.Errorf("limit must be a positive integer"))
			return
		}
		limit = n
	}
	runs, err := h.store.List(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := models.SimulationListResponse{Simulations: make([]models.SimulationListItem, 0, len(runs))}
	for _, r := range runs {
		out.Simulations = append(out.Simulations, models.SimulationListItem{
			ID:         r.ID,
			CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
			SystemName: r.Result.Config.Name,
			YearsToEOL: r.Result.YearsToEOL,
			EOLReached: r.Result.EOLReached,
			FinalSOH:   report.Round(r.Result.Final().SOH*100, 2),
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetSimulation handles GET /api/v1/simulations/:id
func (h *SimulationHandler) GetSimulation(c *gin.Context) {
	run, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewSimulationResponse(run.ID, run.Result, true))
}

// GetCSV handles GET /api/v1/simulations/:id/csv
func (h *SimulationHandler) GetCSV(c *gin.Context) {
	run, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := lifetime.WriteCSV(&buf, run.Result.Records); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="lifetime_%s.csv"`, run.ID))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// GetChart handles GET /api/v1/simulations/:id/chart.png
// Extra runs can be overlaid with ?with=id1,id2.
func (h *SimulationHandler) GetChart(c *gin.Context) {
	ctx := c.Request.Context()
	ids := []string{c.Param("id")}
	if with := c.Query("with"); with != "" {
		for _, id := range strings.Split(with, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) > maxCompareVariations {
		badRequest(c, fmt.Errorf("at most %d runs per chart", maxCompareVariations))
		return
	}

	scenarios := make([]analysis.Scenario, 0, len(ids))
	for _, id := range ids {
		run, err := h.store.Get(ctx, id)
		if err != nil {
			h.fail(c, err)
			return
		}
		scenarios = append(scenarios, analysis.Scenario{Name: run.Result.Config.Name, Result: run.Result})
	}

	var buf bytes.Buffer
	eol := scenarios[0].Result.Config.EOLThreshold
	if err := report.WriteChart(&buf, "State of Health", scenarios, eol); err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *SimulationHandler) run(ctx context.Context, req models.SimulateRequest) (store.Run, error) {
	sc, err := req.Config().SystemConfig(h.catalogue)
	if err != nil {
		return store.Run{}, err
	}
	res, err := h.engine.Run(sc)
	if err != nil {
		return store.Run{}, err
	}
	run := store.NewRun(res)
	if err := h.store.Put(ctx, run); err != nil {
		return store.Run{}, fmt.Errorf("failed to store simulation: %w", err)
	}
	h.rec.RecordSimulation(string(res.OperationMode), res.EOLReached, res.YearsToEOL)
	h.log.Infow("simulation completed", map[string]any{
		"id":           run.ID,
		"system":       sc.Name,
		"mode":         res.OperationMode,
		"years_to_eol": res.YearsToEOL,
		"eol_reached":  res.EOLReached,
	})
	return run, nil
}

func (h *SimulationHandler) fail(c *gin.Context, err error) {
	status, body := errorResponse(err)
	h.rec.RecordFailure(strings.ToLower(body.Error.Code))
	if status >= http.StatusInternalServerError {
		h.log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, body)
}
