package pages

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/upstream"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/views"
)

// MeasurePageState is the derived state of a single-measure analysis page:
// the headline aggregate, the per-location trend lines, the ranked location
// bar, and the signal scatter map, each its own section.
type MeasurePageState struct {
	Measure          types.Measure               `json:"measure"`
	SelectedLocation *string                     `json:"selectedLocation"`
	Headline         Section[MetricCard]         `json:"headline"`
	Series           Section[[]views.LineSeries] `json:"series"`
	Bar              Section[[]views.BarItem]    `json:"bar"`
	Map              Section[views.MapView]      `json:"map"`
	Generation       uint64                      `json:"generation"`
}

// MeasurePage drives the Operations and Maintenance pages: one selected
// measure at a time, four concurrent fetches per refresh, sections isolated
// from each other's failures.
type MeasurePage struct {
	name     string
	measures []types.Measure
	api      MetricsAPI
	signals  SignalSource
	logger   *slog.Logger

	mu    sync.RWMutex
	cyc   cycle
	state MeasurePageState
}

// NewOperationsPage builds the operations page, defaulting to daily traffic
// volume.
func NewOperationsPage(api MetricsAPI, signals SignalSource, logger *slog.Logger) *MeasurePage {
	return newMeasurePage("operations", types.OperationsMeasures, types.MeasureDailyVolume, api, signals, logger)
}

// NewMaintenancePage builds the maintenance page, defaulting to vehicle
// detector uptime.
func NewMaintenancePage(api MetricsAPI, signals SignalSource, logger *slog.Logger) *MeasurePage {
	return newMeasurePage("maintenance", types.MaintenanceMeasures, types.MeasureDetectorUp, api, signals, logger)
}

func newMeasurePage(name string, measures []types.Measure, initial types.Measure, api MetricsAPI, signals SignalSource, logger *slog.Logger) *MeasurePage {
	if logger == nil {
		logger = slog.Default()
	}
	return &MeasurePage{
		name:     name,
		measures: measures,
		api:      api,
		signals:  signals,
		logger:   logger.With("page", name),
		state:    MeasurePageState{Measure: initial},
	}
}

// Name identifies the page in routes and logs.
func (p *MeasurePage) Name() string {
	return p.name
}

// Measures lists the measures this page can display.
func (p *MeasurePage) Measures() []types.Measure {
	return p.measures
}

// State returns the last committed snapshot.
func (p *MeasurePage) State() MeasurePageState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// SetMeasure switches the page to another of its measures. The location
// selection is cleared since it belongs to the previous ranking.
func (p *MeasurePage) SetMeasure(m types.Measure) error {
	allowed := false
	for _, c := range p.measures {
		if c == m {
			allowed = true
			break
		}
	}
	if !allowed {
		return types.NewAppError(types.ErrCodeValidationInvalidMeasure, "measure not available on this page", nil)
	}
	p.mu.Lock()
	p.state.Measure = m
	p.state.SelectedLocation = nil
	p.mu.Unlock()
	return nil
}

// SelectLocation toggles the highlighted location on the ranked bar and
// re-dims the bar items in place. Selecting the current location clears it.
func (p *MeasurePage) SelectLocation(label string) *string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.SelectedLocation = views.ToggleSelection(p.state.SelectedLocation, label)
	if p.state.Bar.Error == "" {
		p.state.Bar.Data = restyleBar(p.state.Bar.Data, p.state.SelectedLocation)
	}
	return p.state.SelectedLocation
}

func restyleBar(items []views.BarItem, selected *string) []views.BarItem {
	out := make([]views.BarItem, len(items))
	for i, item := range items {
		item.Opacity = views.OpacityFull
		if selected != nil && item.Label != *selected {
			item.Opacity = views.OpacityDimmed
		}
		out[i] = item
	}
	return out
}

// Refresh runs the page's four fetches for the current measure and commits
// unless a newer cycle has started.
func (p *MeasurePage) Refresh(ctx context.Context, params types.FilterParams) MeasurePageState {
	gen := p.cyc.begin()
	cur := p.State()
	measure := cur.Measure

	p.mu.Lock()
	p.state.Headline.Loading = true
	p.state.Series.Loading = true
	p.state.Bar.Loading = true
	p.state.Map.Loading = true
	p.mu.Unlock()

	next := MeasurePageState{
		Measure:          measure,
		SelectedLocation: cur.SelectedLocation,
		Generation:       gen,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)

	g.Go(func() error {
		next.Headline = p.fetchHeadline(gCtx, measure, params)
		return nil
	})
	g.Go(func() error {
		next.Series = p.fetchSeries(gCtx, measure, params)
		return nil
	})
	g.Go(func() error {
		next.Bar = p.fetchBar(gCtx, measure, next.SelectedLocation, params)
		return nil
	})
	g.Go(func() error {
		next.Map = p.fetchMap(gCtx, measure, params)
		return nil
	})
	_ = g.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.cyc.current(gen) {
		p.logger.Debug("discarding stale cycle", "generation", gen)
		return p.state
	}
	p.state = next
	return p.state
}

// RefreshSection re-runs a single section's fetch for the current measure and
// commits just that section, leaving the sibling sections as they are.
// Section names are headline, series, bar, and map. A full refresh or a
// measure switch starting in the meantime supersedes the result.
func (p *MeasurePage) RefreshSection(ctx context.Context, section string, params types.FilterParams) (MeasurePageState, error) {
	gen := p.cyc.peek()
	cur := p.State()
	measure := cur.Measure

	p.mu.Lock()
	switch section {
	case "headline":
		p.state.Headline.Loading = true
	case "series":
		p.state.Series.Loading = true
	case "bar":
		p.state.Bar.Loading = true
	case "map":
		p.state.Map.Loading = true
	default:
		p.mu.Unlock()
		return cur, types.NewAppError(types.ErrCodeNotFoundSection, "unknown section "+section, nil)
	}
	p.mu.Unlock()

	var commit func(st *MeasurePageState)
	switch section {
	case "headline":
		sec := p.fetchHeadline(ctx, measure, params)
		commit = func(st *MeasurePageState) { st.Headline = sec }
	case "series":
		sec := p.fetchSeries(ctx, measure, params)
		commit = func(st *MeasurePageState) { st.Series = sec }
	case "bar":
		sec := p.fetchBar(ctx, measure, cur.SelectedLocation, params)
		commit = func(st *MeasurePageState) {
			if st.Bar.Error == "" && sec.Error == "" {
				sec.Data = restyleBar(sec.Data, st.SelectedLocation)
			}
			st.Bar = sec
		}
	case "map":
		sec := p.fetchMap(ctx, measure, params)
		commit = func(st *MeasurePageState) { st.Map = sec }
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cyc.peek() != gen {
		p.logger.Debug("discarding superseded section retry", "section", section, "generation", gen)
		return p.state, nil
	}
	if p.state.Measure != measure {
		p.clearLoadingLocked()
		return p.state, nil
	}
	commit(&p.state)
	return p.state, nil
}

func (p *MeasurePage) clearLoadingLocked() {
	p.state.Headline.Loading = false
	p.state.Series.Loading = false
	p.state.Bar.Loading = false
	p.state.Map.Loading = false
}

func (p *MeasurePage) fetchHeadline(ctx context.Context, measure types.Measure, params types.FilterParams) Section[MetricCard] {
	avg, err := p.api.StraightAverage(ctx, upstream.MeasureRequest{Measure: measure}, params)
	if err != nil {
		p.logger.Warn("headline fetch failed", "measure", measure, "error", err)
		return sectionErr[MetricCard](err)
	}
	return sectionOK(MetricCard{
		Measure: measure,
		Label:   measure.Label(),
		Value:   views.FormatValue(measure, avg.Avg),
		Unit:    measure.Unit(),
	})
}

func (p *MeasurePage) fetchSeries(ctx context.Context, measure types.Measure, params types.FilterParams) Section[[]views.LineSeries] {
	rows, err := p.api.FilterSeries(ctx, upstream.MeasureRequest{Measure: measure}, params)
	if err != nil {
		p.logger.Warn("trend series fetch failed", "measure", measure, "error", err)
		return sectionErr[[]views.LineSeries](err)
	}
	return sectionOK(views.BuildTimeSeries(measure, rows))
}

func (p *MeasurePage) fetchBar(ctx context.Context, measure types.Measure, selected *string, params types.FilterParams) Section[[]views.BarItem] {
	avgs, err := p.api.AverageByLocation(ctx, upstream.MeasureRequest{Measure: measure}, false, params)
	if err != nil {
		p.logger.Warn("location averages fetch failed", "measure", measure, "error", err)
		return sectionErr[[]views.BarItem](err)
	}
	return sectionOK(views.BuildLocationBar(measure, avgs, selected))
}

func (p *MeasurePage) fetchMap(ctx context.Context, measure types.Measure, params types.FilterParams) Section[views.MapView] {
	cfg, ok := views.MapConfigFor(measure)
	if !ok {
		return Section[views.MapView]{Error: "measure has no map rendering"}
	}
	signals, err := p.signals.Signals(ctx)
	if err != nil {
		p.logger.Warn("signal registry fetch failed", "error", err)
		return sectionErr[views.MapView](err)
	}
	data, err := p.api.SignalsFilterAverage(ctx, upstream.MeasureRequest{Measure: measure}, params)
	if err != nil {
		p.logger.Warn("map metric fetch failed", "measure", measure, "error", err)
		return sectionErr[views.MapView](err)
	}
	return sectionOK(views.BuildMapView(cfg, signals, data))
}
