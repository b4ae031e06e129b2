package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/core"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/pages"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/render"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/views"
)

// ChartHandler serves the builder output of the analysis pages as rendered
// HTML charts. It reads the last committed page state; it never fetches.
type ChartHandler struct {
	set    PageSet
	logger *slog.Logger
}

// NewChartHandler creates a ChartHandler over the page orchestrators.
func NewChartHandler(set PageSet, logger *slog.Logger) *ChartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartHandler{set: set, logger: logger}
}

// RegisterRoutes mounts the chart endpoints onto the mux.
func (h *ChartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/charts", func(r chi.Router) {
		r.Get("/dashboard/map", h.HandleDashboardMap)
		r.Get("/{page:operations|maintenance}/trend", h.HandleMeasureTrend)
		r.Get("/{page:operations|maintenance}/locations", h.HandleMeasureLocations)
		r.Get("/{page:operations|maintenance}/map", h.HandleMeasureMap)
		r.Get("/summary-trend/{measure}", h.HandleSummarySeries)
	})
}

// measurePage resolves the {page} route param to its orchestrator. The route
// pattern restricts the values, so a miss means a wiring bug.
func (h *ChartHandler) measurePage(r *http.Request) *pages.MeasurePage {
	if chi.URLParam(r, "page") == "maintenance" {
		return h.set.Maintenance
	}
	return h.set.Operations
}

func sectionUnavailable(w http.ResponseWriter, r *http.Request, section, reason string) {
	if reason == "" {
		reason = "no data for " + section + "; refresh the page first"
	}
	core.Error(w, r, types.NewAppError(types.ErrCodeNotFoundSection, reason, nil))
}

// renderHTML runs a chart renderer against the response. Render failures
// surface as internal errors; nothing has been written yet when they occur.
func (h *ChartHandler) renderHTML(w http.ResponseWriter, r *http.Request, fn func(http.ResponseWriter) error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := fn(w); err != nil {
		h.logger.Error("chart render failed", "path", r.URL.Path, "error", err)
	}
}

// HandleDashboardMap handles GET /api/charts/dashboard/map.
func (h *ChartHandler) HandleDashboardMap(w http.ResponseWriter, r *http.Request) {
	st := h.set.Dashboard.State()
	if st.Map.Error != "" {
		sectionUnavailable(w, r, "map", st.Map.Error)
		return
	}
	if len(st.Map.Data.Traces) == 0 {
		sectionUnavailable(w, r, "map", "")
		return
	}
	title := st.DisplayMetric.Label()
	h.renderHTML(w, r, func(w http.ResponseWriter) error {
		return render.SignalScatter(w, title, st.Map.Data)
	})
}

// HandleMeasureTrend handles GET /api/charts/{page}/trend.
func (h *ChartHandler) HandleMeasureTrend(w http.ResponseWriter, r *http.Request) {
	st := h.measurePage(r).State()
	if st.Series.Error != "" {
		sectionUnavailable(w, r, "trend", st.Series.Error)
		return
	}
	if len(st.Series.Data) == 0 {
		sectionUnavailable(w, r, "trend", "")
		return
	}
	title := st.Measure.Label()
	h.renderHTML(w, r, func(w http.ResponseWriter) error {
		return render.TrendChart(w, title, st.Series.Data)
	})
}

// HandleMeasureLocations handles GET /api/charts/{page}/locations.
func (h *ChartHandler) HandleMeasureLocations(w http.ResponseWriter, r *http.Request) {
	st := h.measurePage(r).State()
	if st.Bar.Error != "" {
		sectionUnavailable(w, r, "locations", st.Bar.Error)
		return
	}
	if len(st.Bar.Data) == 0 {
		sectionUnavailable(w, r, "locations", "")
		return
	}
	title := st.Measure.Label()
	h.renderHTML(w, r, func(w http.ResponseWriter) error {
		return render.LocationBar(w, title, st.Bar.Data)
	})
}

// HandleMeasureMap handles GET /api/charts/{page}/map.
func (h *ChartHandler) HandleMeasureMap(w http.ResponseWriter, r *http.Request) {
	st := h.measurePage(r).State()
	if st.Map.Error != "" {
		sectionUnavailable(w, r, "map", st.Map.Error)
		return
	}
	if len(st.Map.Data.Traces) == 0 {
		sectionUnavailable(w, r, "map", "")
		return
	}
	title := st.Measure.Label()
	h.renderHTML(w, r, func(w http.ResponseWriter) error {
		return render.SignalScatter(w, title, st.Map.Data)
	})
}

// HandleSummarySeries handles GET /api/charts/summary-trend/{measure}: one
// measure's month-by-month line from the summary bundle.
func (h *ChartHandler) HandleSummarySeries(w http.ResponseWriter, r *http.Request) {
	measure := types.Measure(chi.URLParam(r, "measure"))
	if !types.KnownMeasure(measure) {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationInvalidMeasure,
			"unknown measure code "+string(measure),
			nil,
		))
		return
	}
	st := h.set.Summary.State()
	if st.Trends.Error != "" {
		sectionUnavailable(w, r, "summary trend", st.Trends.Error)
		return
	}
	series, ok := h.set.Summary.SeriesFor(measure)
	if !ok {
		sectionUnavailable(w, r, "summary trend", "no trend data for measure "+string(measure))
		return
	}
	title := measure.Label()
	h.renderHTML(w, r, func(w http.ResponseWriter) error {
		return render.TrendChart(w, title, []views.LineSeries{series})
	})
}
