package pages

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/upstream"
)

// healthRegions are the zone groups shown on the region status board. The
// empty zone group is the statewide rollup.
var healthRegions = []struct {
	name      string
	zoneGroup string
}{
	{"North", "North"},
	{"Southeast", "Southeast"},
	{"Southwest", "Southwest"},
	{"Central Metro", "Central Metro"},
	{"Western Metro", "Western Metro"},
	{"Eastern Metro", "Eastern Metro"},
	{"Statewide", ""},
}

// RegionScores is one region card: health percentages on the 0..100 scale.
type RegionScores struct {
	Name        string  `json:"name"`
	Operations  float64 `json:"operations"`
	Maintenance float64 `json:"maintenance"`
	Safety      float64 `json:"safety"`
}

// HealthState is the health-metrics page state: region score cards plus the
// three corridor health tables.
type HealthState struct {
	Month       string                     `json:"month"`
	Regions     Section[[]RegionScores]    `json:"regions"`
	Maintenance Section[[]types.HealthRow] `json:"maintenance"`
	Operations  Section[[]types.HealthRow] `json:"operations"`
	Safety      Section[[]types.HealthRow] `json:"safety"`
	Generation  uint64                     `json:"generation"`
}

// Health orchestrates the health-metrics page: the per-region month-average
// scores and the maintenance/operations/safety corridor tables.
type Health struct {
	api    MetricsAPI
	logger *slog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	cyc   cycle
	state HealthState
}

// NewHealth wires the health-metrics orchestrator.
func NewHealth(api MetricsAPI, logger *slog.Logger) *Health {
	if logger == nil {
		logger = slog.Default()
	}
	return &Health{api: api, logger: logger, now: time.Now}
}

// State returns the last committed snapshot.
func (h *Health) State() HealthState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// ScoreMonth picks the month the region score board reports on: the current
// month once it is at least ten days old, otherwise the previous month.
// Formatted MM-01-YYYY as the month-averages endpoint expects.
func ScoreMonth(now time.Time) string {
	year, month, day := now.Date()
	if day < 10 {
		if month == time.January {
			month = time.December
			year--
		} else {
			month--
		}
	}
	return fmt.Sprintf("%02d-01-%d", int(month), year)
}

// Refresh fetches the region scores and the three corridor health tables over
// the start..end window (YYYY-MM-DD) and commits unless lapped by a newer
// cycle. The region board fails as a unit; each table fails independently.
func (h *Health) Refresh(ctx context.Context, start, end string) HealthState {
	gen := h.cyc.begin()
	month := ScoreMonth(h.now())
	next := HealthState{Month: month, Generation: gen}

	h.mu.Lock()
	h.state.Regions.Loading = true
	h.state.Maintenance.Loading = true
	h.state.Operations.Loading = true
	h.state.Safety.Loading = true
	h.mu.Unlock()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)

	g.Go(func() error {
		next.Regions = h.fetchRegions(gCtx, month)
		return nil
	})
	tables := []struct {
		measure types.Measure
		dest    *Section[[]types.HealthRow]
	}{
		{types.MeasureMaintenancePlot, &next.Maintenance},
		{types.MeasureOperationsPlot, &next.Operations},
		{types.MeasureSafetyPlot, &next.Safety},
	}
	for _, tbl := range tables {
		tbl := tbl
		g.Go(func() error {
			*tbl.dest = h.fetchTable(gCtx, tbl.measure, start, end)
			return nil
		})
	}
	_ = g.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.cyc.current(gen) {
		h.logger.Debug("discarding stale health cycle", "generation", gen)
		return h.state
	}
	h.state = next
	return h.state
}

// RefreshSection re-runs one board's fetch over the same window and commits
// just that board. Section names are regions, maintenance, operations, and
// safety. A full refresh starting in the meantime supersedes the result.
func (h *Health) RefreshSection(ctx context.Context, section, start, end string) (HealthState, error) {
	gen := h.cyc.peek()

	h.mu.Lock()
	switch section {
	case "regions":
		h.state.Regions.Loading = true
	case "maintenance":
		h.state.Maintenance.Loading = true
	case "operations":
		h.state.Operations.Loading = true
	case "safety":
		h.state.Safety.Loading = true
	default:
		h.mu.Unlock()
		return h.State(), types.NewAppError(types.ErrCodeNotFoundSection, "unknown section "+section, nil)
	}
	h.mu.Unlock()

	var commit func(st *HealthState)
	switch section {
	case "regions":
		month := ScoreMonth(h.now())
		sec := h.fetchRegions(ctx, month)
		commit = func(st *HealthState) {
			st.Month = month
			st.Regions = sec
		}
	case "maintenance":
		sec := h.fetchTable(ctx, types.MeasureMaintenancePlot, start, end)
		commit = func(st *HealthState) { st.Maintenance = sec }
	case "operations":
		sec := h.fetchTable(ctx, types.MeasureOperationsPlot, start, end)
		commit = func(st *HealthState) { st.Operations = sec }
	case "safety":
		sec := h.fetchTable(ctx, types.MeasureSafetyPlot, start, end)
		commit = func(st *HealthState) { st.Safety = sec }
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cyc.peek() != gen {
		h.logger.Debug("discarding superseded section retry", "section", section, "generation", gen)
		return h.state, nil
	}
	commit(&h.state)
	return h.state, nil
}

func (h *Health) fetchTable(ctx context.Context, measure types.Measure, start, end string) Section[[]types.HealthRow] {
	rows, err := h.api.Trend(ctx, upstream.TrendRequest{
		Source:   upstream.SourceMain,
		Level:    "cor",
		Interval: "mo",
		Measure:  measure,
		Start:    start,
		End:      end,
	})
	if err != nil {
		h.logger.Warn("health table fetch failed", "measure", measure, "error", err)
		return sectionErr[[]types.HealthRow](err)
	}
	return sectionOK(rows)
}

// fetchRegions loads every region's month average. A single failed region
// fails the whole board so the cards never show a partial comparison.
func (h *Health) fetchRegions(ctx context.Context, month string) Section[[]RegionScores] {
	scores := make([]RegionScores, len(healthRegions))
	for i, region := range healthRegions {
		avg, err := h.api.MonthAverages(ctx, region.zoneGroup, month)
		if err != nil {
			h.logger.Warn("region average fetch failed", "zoneGroup", region.zoneGroup, "error", err)
			return sectionErr[[]RegionScores](err)
		}
		pct := avg.Percentages()
		scores[i] = RegionScores{
			Name:        region.name,
			Operations:  pct.Operations,
			Maintenance: pct.Maintenance,
			Safety:      pct.Safety,
		}
	}
	return sectionOK(scores)
}
