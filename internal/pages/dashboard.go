package pages

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/upstream"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/views"
)

// MetricCard is one headline tile: the measure's label, its formatted
// aggregate value, and the display unit.
type MetricCard struct {
	Measure types.Measure `json:"measure"`
	Label   string        `json:"label"`
	Value   string        `json:"value"`
	Unit    string        `json:"unit,omitempty"`
}

// DashboardState is the dashboard page's derived state: the performance and
// volume card grids plus the signal scatter map for the display metric.
type DashboardState struct {
	Performance   []MetricCard           `json:"performance"`
	Volume        []MetricCard           `json:"volume"`
	DisplayMetric types.Measure          `json:"displayMetric"`
	Map           Section[views.MapView] `json:"map"`
	Generation    uint64                 `json:"generation"`
}

// Dashboard orchestrates the headline card and map fetches. Card fetches are
// isolated per measure: a failed or malformed aggregate renders that one card
// as N/A while the rest of the grid fills in.
type Dashboard struct {
	api     MetricsAPI
	signals SignalSource
	logger  *slog.Logger

	mu    sync.RWMutex
	cyc   cycle
	state DashboardState
}

// NewDashboard wires a dashboard orchestrator. The display metric starts on
// daily traffic volume.
func NewDashboard(api MetricsAPI, signals SignalSource, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		api:     api,
		signals: signals,
		logger:  logger,
		state:   DashboardState{DisplayMetric: types.MeasureDailyVolume},
	}
}

// State returns the last committed snapshot.
func (d *Dashboard) State() DashboardState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// SetDisplayMetric switches the map to another measure. Measures without a
// map rendering are rejected.
func (d *Dashboard) SetDisplayMetric(m types.Measure) error {
	if _, ok := views.MapConfigFor(m); !ok {
		return types.NewAppError(types.ErrCodeValidationInvalidMeasure, "measure has no map rendering", nil)
	}
	d.mu.Lock()
	d.state.DisplayMetric = m
	d.mu.Unlock()
	return nil
}

// Refresh runs a full fetch cycle for the given filter projection and commits
// the result unless a newer cycle has started in the meantime.
func (d *Dashboard) Refresh(ctx context.Context, params types.FilterParams) DashboardState {
	gen := d.cyc.begin()
	display := d.State().DisplayMetric

	d.mu.Lock()
	d.state.Map.Loading = true
	d.mu.Unlock()

	next := DashboardState{
		Performance:   make([]MetricCard, len(types.PerformanceMeasures)),
		Volume:        make([]MetricCard, len(types.VolumeMeasures)),
		DisplayMetric: display,
		Generation:    gen,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)

	for i, m := range types.PerformanceMeasures {
		i, m := i, m
		g.Go(func() error {
			next.Performance[i] = d.fetchCard(gCtx, m, params)
			return nil
		})
	}
	for i, m := range types.VolumeMeasures {
		i, m := i, m
		g.Go(func() error {
			next.Volume[i] = d.fetchCard(gCtx, m, params)
			return nil
		})
	}
	g.Go(func() error {
		next.Map = d.fetchMap(gCtx, display, params)
		return nil
	})
	_ = g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.cyc.current(gen) {
		d.logger.Debug("discarding stale dashboard cycle", "generation", gen)
		return d.state
	}
	cur := d.state.DisplayMetric
	if cur != display {
		// The metric changed mid-cycle; the map was fetched for the old one.
		// An empty map section beats pairing the new label with stale traces.
		next.Map = Section[views.MapView]{}
	}
	next.DisplayMetric = cur
	d.state = next
	return d.state
}

// RefreshMap refetches only the signal map for the current display metric and
// commits it in place, leaving the card grids untouched. A full refresh or a
// metric switch starting in the meantime supersedes the result.
func (d *Dashboard) RefreshMap(ctx context.Context, params types.FilterParams) DashboardState {
	gen := d.cyc.peek()
	display := d.State().DisplayMetric

	d.mu.Lock()
	d.state.Map.Loading = true
	d.mu.Unlock()

	section := d.fetchMap(ctx, display, params)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cyc.peek() != gen {
		d.logger.Debug("discarding superseded map retry", "generation", gen)
		return d.state
	}
	if d.state.DisplayMetric != display {
		d.state.Map.Loading = false
		return d.state
	}
	d.state.Map = section
	return d.state
}

func (d *Dashboard) fetchCard(ctx context.Context, m types.Measure, params types.FilterParams) MetricCard {
	card := MetricCard{Measure: m, Label: m.Label(), Unit: m.Unit()}
	avg, err := d.api.StraightAverage(ctx, upstream.MeasureRequest{Measure: m}, params)
	if err != nil {
		d.logger.Warn("metric card fetch failed", "measure", m, "error", err)
		card.Value = views.Unavailable
		return card
	}
	if math.IsNaN(avg.Avg) {
		card.Value = views.Unavailable
		return card
	}
	card.Value = views.FormatValue(m, avg.Avg)
	return card
}

func (d *Dashboard) fetchMap(ctx context.Context, m types.Measure, params types.FilterParams) Section[views.MapView] {
	cfg, ok := views.MapConfigFor(m)
	if !ok {
		return Section[views.MapView]{Error: "measure has no map rendering"}
	}
	signals, err := d.signals.Signals(ctx)
	if err != nil {
		d.logger.Warn("signal registry fetch failed", "error", err)
		return sectionErr[views.MapView](err)
	}
	data, err := d.api.SignalsFilterAverage(ctx, upstream.MeasureRequest{Measure: m}, params)
	if err != nil {
		d.logger.Warn("map metric fetch failed", "measure", m, "error", err)
		return sectionErr[views.MapView](err)
	}
	return sectionOK(views.BuildMapView(cfg, signals, data))
}
