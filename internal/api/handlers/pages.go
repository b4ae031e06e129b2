package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/core"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/filters"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/pages"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/telemetry"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// PageSet bundles the per-page orchestrators the page handler serves.
type PageSet struct {
	Dashboard   *pages.Dashboard
	Operations  *pages.MeasurePage
	Maintenance *pages.MeasurePage
	Watchdog    *pages.Watchdog
	Health      *pages.Health
	Summary     *pages.SummaryTrend
}

// PageHandler maps HTTP requests to the page orchestrators. Refresh endpoints
// project the live filter state into request parameters, run the page's fetch
// cycle, and return the committed state; GET endpoints return the last
// committed state without fetching.
type PageHandler struct {
	store     *filters.Store
	set       PageSet
	metrics   *telemetry.Publisher // nil disables publication
	validator *core.Validator
	logger    *slog.Logger
}

// NewPageHandler creates a PageHandler with the provided dependencies.
func NewPageHandler(store *filters.Store, set PageSet, metrics *telemetry.Publisher, val *core.Validator, logger *slog.Logger) *PageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageHandler{
		store:     store,
		set:       set,
		metrics:   metrics,
		validator: val,
		logger:    logger,
	}
}

// RegisterRoutes mounts the page endpoints onto the mux.
func (h *PageHandler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", h.HandleDashboardState)
		r.Post("/refresh", h.HandleDashboardRefresh)
		r.Post("/refresh/map", h.HandleDashboardMapRefresh)
		r.Put("/display-metric", h.HandleDashboardDisplayMetric)
	})
	r.Route("/operations", func(r chi.Router) {
		h.registerMeasurePage(r, h.set.Operations)
	})
	r.Route("/maintenance", func(r chi.Router) {
		h.registerMeasurePage(r, h.set.Maintenance)
	})
	r.Route("/watchdog", func(r chi.Router) {
		r.Get("/", h.HandleWatchdogState)
		r.Get("/options", h.HandleWatchdogOptions)
		r.Post("/refresh", h.HandleWatchdogRefresh)
		r.Put("/params", h.HandleWatchdogParams)
	})
	r.Route("/health-metrics", func(r chi.Router) {
		r.Get("/", h.HandleHealthState)
		r.Post("/refresh", h.HandleHealthRefresh)
		r.Post("/refresh/{section}", h.HandleHealthSectionRefresh)
	})
	r.Route("/summary-trend", func(r chi.Router) {
		r.Get("/", h.HandleSummaryState)
		r.Post("/refresh", h.HandleSummaryRefresh)
	})
}

// observe publishes the refresh outcome and latency for one page cycle.
func (h *PageHandler) observe(r *http.Request, page string, started time.Time, result string) {
	ctx := r.Context()
	h.metrics.RecordPageRefresh(ctx, page, result)
	h.metrics.RecordPageRefreshLatency(ctx, page, time.Since(started))
}

// sectionResult folds per-section error messages into a single refresh
// outcome: all clean is success, all failed is failure, a mix is partial.
func sectionResult(errs ...string) string {
	failed := 0
	for _, e := range errs {
		if e != "" {
			failed++
		}
	}
	switch failed {
	case 0:
		return telemetry.ResultSuccess
	case len(errs):
		return telemetry.ResultFailure
	default:
		return telemetry.ResultPartial
	}
}

// params projects the live filter selections into the metrics request payload.
func (h *PageHandler) params() types.FilterParams {
	return filters.Project(h.store.State())
}

// HandleDashboardState handles GET /api/dashboard.
func (h *PageHandler) HandleDashboardState(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, h.set.Dashboard.State())
}

// HandleDashboardRefresh handles POST /api/dashboard/refresh.
func (h *PageHandler) HandleDashboardRefresh(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	st := h.set.Dashboard.Refresh(r.Context(), h.params())
	h.observe(r, "dashboard", started, sectionResult(st.Map.Error))
	core.JSON(w, r, http.StatusOK, st)
}

// HandleDashboardMapRefresh handles POST /api/dashboard/refresh/map: a retry
// of the map section alone, leaving the card grids as they are.
func (h *PageHandler) HandleDashboardMapRefresh(w http.ResponseWriter, r *http.Request) {
	st := h.set.Dashboard.RefreshMap(r.Context(), h.params())
	core.JSON(w, r, http.StatusOK, st)
}

// DisplayMetricRequest selects the measure the dashboard map renders.
type DisplayMetricRequest struct {
	Measure types.Measure `json:"measure" validate:"required"`
}

// HandleDashboardDisplayMetric handles PUT /api/dashboard/display-metric.
// Switching the metric does not refetch; the next refresh uses it.
func (h *PageHandler) HandleDashboardDisplayMetric(w http.ResponseWriter, r *http.Request) {
	var req DisplayMetricRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.set.Dashboard.SetDisplayMetric(req.Measure); err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, h.set.Dashboard.State())
}

// registerMeasurePage mounts the shared endpoint set for a single-measure
// analysis page (operations, maintenance).
func (h *PageHandler) registerMeasurePage(r chi.Router, page *pages.MeasurePage) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		core.JSON(w, req, http.StatusOK, page.State())
	})
	r.Get("/measures", func(w http.ResponseWriter, req *http.Request) {
		core.JSON(w, req, http.StatusOK, page.Measures())
	})
	r.Post("/refresh", func(w http.ResponseWriter, req *http.Request) {
		started := time.Now()
		st := page.Refresh(req.Context(), h.params())
		result := sectionResult(st.Headline.Error, st.Series.Error, st.Bar.Error, st.Map.Error)
		h.observe(req, page.Name(), started, result)
		core.JSON(w, req, http.StatusOK, st)
	})
	r.Post("/refresh/{section}", func(w http.ResponseWriter, req *http.Request) {
		st, err := page.RefreshSection(req.Context(), chi.URLParam(req, "section"), h.params())
		if err != nil {
			core.Error(w, req, err)
			return
		}
		core.JSON(w, req, http.StatusOK, st)
	})
	r.Put("/measure", func(w http.ResponseWriter, req *http.Request) {
		var body DisplayMetricRequest
		if err := core.DecodeJSON(w, req, &body); err != nil {
			core.Error(w, req, err)
			return
		}
		if err := h.validator.ValidateStruct(&body); err != nil {
			core.Error(w, req, err)
			return
		}
		if err := page.SetMeasure(body.Measure); err != nil {
			core.Error(w, req, err)
			return
		}
		core.JSON(w, req, http.StatusOK, page.State())
	})
	r.Put("/location", func(w http.ResponseWriter, req *http.Request) {
		var body SelectLocationRequest
		if err := core.DecodeJSON(w, req, &body); err != nil {
			core.Error(w, req, err)
			return
		}
		if err := h.validator.ValidateStruct(&body); err != nil {
			core.Error(w, req, err)
			return
		}
		page.SelectLocation(body.Label)
		core.JSON(w, req, http.StatusOK, page.State())
	})
}

// SelectLocationRequest toggles the highlighted location on the ranked bar.
type SelectLocationRequest struct {
	Label string `json:"label" validate:"required"`
}

// HandleWatchdogState handles GET /api/watchdog.
func (h *PageHandler) HandleWatchdogState(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, h.set.Watchdog.State())
}

// watchdogOptionsResponse lists the valid values for each watchdog filter
// control.
type watchdogOptionsResponse struct {
	Alerts     []string `json:"alerts"`
	Phases     []string `json:"phases"`
	Streaks    []string `json:"streaks"`
	ZoneGroups []string `json:"zoneGroups"`
}

// HandleWatchdogOptions handles GET /api/watchdog/options.
func (h *PageHandler) HandleWatchdogOptions(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, watchdogOptionsResponse{
		Alerts:     pages.WatchdogAlerts,
		Phases:     pages.WatchdogPhases,
		Streaks:    pages.WatchdogStreaks,
		ZoneGroups: pages.WatchdogZoneGroups,
	})
}

// HandleWatchdogRefresh handles POST /api/watchdog/refresh: an immediate
// fetch for the current params, bypassing the edit debounce.
func (h *PageHandler) HandleWatchdogRefresh(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	st := h.set.Watchdog.Refresh(r.Context(), h.set.Watchdog.State().Params)
	h.observe(r, "watchdog", started, sectionResult(st.Data.Error))
	core.JSON(w, r, http.StatusOK, st)
}

// HandleWatchdogParams handles PUT /api/watchdog/params: records a filter
// edit and schedules the debounced fetch. The response carries the accepted
// params; the data section updates once the debounced fetch lands.
func (h *PageHandler) HandleWatchdogParams(w http.ResponseWriter, r *http.Request) {
	var req types.WatchdogParams
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := validateWatchdogParams(req); err != nil {
		core.Error(w, r, err)
		return
	}
	h.set.Watchdog.SetParams(req)
	core.JSON(w, r, http.StatusAccepted, h.set.Watchdog.State())
}

// validateWatchdogParams checks the enum fields against the option lists.
// oneof tags cannot carry the multi-word alert names, so this is manual.
func validateWatchdogParams(p types.WatchdogParams) error {
	checks := []struct {
		field string
		value string
		valid []string
	}{
		{"alert", p.Alert, pages.WatchdogAlerts},
		{"phase", p.Phase, pages.WatchdogPhases},
		{"streak", p.Streak, pages.WatchdogStreaks},
	}
	for _, c := range checks {
		if !containsString(c.valid, c.value) {
			return types.NewAppError(
				types.ErrCodeValidationInvalidFilter,
				"invalid value for field "+c.field,
				nil,
			).WithDetails(map[string]any{"field": c.field, "value": c.value})
		}
	}
	if p.StartDate == "" || p.EndDate == "" {
		return types.NewAppError(types.ErrCodeValidationMissingField, "startDate and endDate are required", nil)
	}
	return nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// HandleHealthState handles GET /api/health-metrics.
func (h *PageHandler) HandleHealthState(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, h.set.Health.State())
}

// HealthRefreshRequest optionally overrides the corridor-table window.
type HealthRefreshRequest struct {
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// healthWindowMonths is the default corridor-table look-back.
const healthWindowMonths = 12

// healthWindow resolves the corridor-table window from an optional request
// body, filling missing bounds from the default trailing window.
func (h *PageHandler) healthWindow(w http.ResponseWriter, r *http.Request) (start, end string, err error) {
	var req HealthRefreshRequest
	if r.ContentLength != 0 {
		if err := core.DecodeJSON(w, r, &req); err != nil {
			return "", "", err
		}
		if err := h.validator.ValidateStruct(&req); err != nil {
			return "", "", err
		}
	}
	now := time.Now()
	start, end = req.StartDate, req.EndDate
	if start == "" {
		start = now.AddDate(0, -healthWindowMonths, 0).Format("2006-01-02")
	}
	if end == "" {
		end = now.Format("2006-01-02")
	}
	return start, end, nil
}

// HandleHealthRefresh handles POST /api/health-metrics/refresh. An empty body
// refreshes over the default trailing window.
func (h *PageHandler) HandleHealthRefresh(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.healthWindow(w, r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	started := time.Now()
	st := h.set.Health.Refresh(r.Context(), start, end)
	result := sectionResult(st.Regions.Error, st.Maintenance.Error, st.Operations.Error, st.Safety.Error)
	h.observe(r, "health-metrics", started, result)
	core.JSON(w, r, http.StatusOK, st)
}

// HandleHealthSectionRefresh handles POST /api/health-metrics/refresh/{section}:
// a retry of one board (regions, maintenance, operations, safety) leaving the
// others as they are.
func (h *PageHandler) HandleHealthSectionRefresh(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.healthWindow(w, r)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	st, err := h.set.Health.RefreshSection(r.Context(), chi.URLParam(r, "section"), start, end)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, st)
}

// HandleSummaryState handles GET /api/summary-trend.
func (h *PageHandler) HandleSummaryState(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, h.set.Summary.State())
}

// HandleSummaryRefresh handles POST /api/summary-trend/refresh.
func (h *PageHandler) HandleSummaryRefresh(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	st := h.set.Summary.Refresh(r.Context(), h.params())
	h.observe(r, "summary-trend", started, sectionResult(st.Trends.Error))
	core.JSON(w, r, http.StatusOK, st)
}
