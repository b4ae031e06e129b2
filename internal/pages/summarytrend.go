package pages

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/views"
)

// SummaryTrendState is the summary-trend page state: the month-by-month
// bundle for every measure, fetched in one call.
type SummaryTrendState struct {
	Trends     Section[types.SummaryTrends] `json:"trends"`
	Generation uint64                       `json:"generation"`
}

// SummaryTrend orchestrates the summary-trend page: a single bundle fetch
// covering all measures, with per-measure series derived on demand.
type SummaryTrend struct {
	api    MetricsAPI
	logger *slog.Logger

	mu    sync.RWMutex
	cyc   cycle
	state SummaryTrendState
}

// NewSummaryTrend wires the summary-trend orchestrator.
func NewSummaryTrend(api MetricsAPI, logger *slog.Logger) *SummaryTrend {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryTrend{api: api, logger: logger}
}

// State returns the last committed snapshot.
func (s *SummaryTrend) State() SummaryTrendState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Refresh fetches the trend bundle for the filter projection and commits it
// unless lapped by a newer cycle. Each measure's points are sorted
// chronologically.
func (s *SummaryTrend) Refresh(ctx context.Context, params types.FilterParams) SummaryTrendState {
	gen := s.cyc.begin()

	s.mu.Lock()
	s.state.Trends.Loading = true
	s.mu.Unlock()

	var section Section[types.SummaryTrends]
	bundle, err := s.api.SummaryTrends(ctx, params)
	if err != nil {
		s.logger.Warn("summary trends fetch failed", "error", err)
		section = sectionErr[types.SummaryTrends](err)
	} else {
		for _, points := range bundle {
			sortTrendPoints(points)
		}
		section = sectionOK(bundle)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cyc.current(gen) {
		s.logger.Debug("discarding stale summary trend cycle", "generation", gen)
		return s.state
	}
	s.state = SummaryTrendState{Trends: section, Generation: gen}
	return s.state
}

// SeriesFor derives the plotted line for one measure from the committed
// bundle. Percent-class values are normalized onto the 0..1 scale.
func (s *SummaryTrend) SeriesFor(m types.Measure) (views.LineSeries, bool) {
	st := s.State()
	points, ok := st.Trends.Data[m]
	if !ok || len(points) == 0 {
		return views.LineSeries{}, false
	}
	percent := m.Class() == types.FormatPercent
	series := views.LineSeries{Name: m.Label(), Color: views.TraceColor(0)}
	for _, p := range points {
		month, ok := views.ParseMonth(p.Month)
		if !ok {
			continue
		}
		v := p.Average
		if percent {
			v = views.NormalizePercent(v)
		}
		series.Points = append(series.Points, views.TimePoint{
			Month: month,
			Label: views.MonthLabel(month),
			Value: v,
		})
	}
	return series, len(series.Points) > 0
}

func sortTrendPoints(points []types.SummaryTrendPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		a, aok := views.ParseMonth(points[i].Month)
		b, bok := views.ParseMonth(points[j].Month)
		if aok && bok {
			return a.Before(b)
		}
		return points[i].Month < points[j].Month
	})
}
