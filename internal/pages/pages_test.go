package pages

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/upstream"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/views"
)

// stubAPI implements MetricsAPI with overridable function fields; the zero
// value succeeds with empty data.
type stubAPI struct {
	straightFn func(m types.Measure) (types.StraightAverage, error)
	seriesFn   func(m types.Measure) ([]types.TrendRow, error)
	avgFn      func(m types.Measure) ([]types.LocationAvg, error)
	signalsFn  func(m types.Measure) ([]types.LocationAvg, error)
	summaryFn  func() (types.SummaryTrends, error)
	trendFn    func(req upstream.TrendRequest) ([]types.HealthRow, error)
	monthFn    func(zoneGroup, month string) (types.RegionAverage, error)
	watchdogFn func(params types.WatchdogParams) ([]types.WatchdogData, error)
}

func (s *stubAPI) StraightAverage(_ context.Context, req upstream.MeasureRequest, _ types.FilterParams) (types.StraightAverage, error) {
	if s.straightFn != nil {
		return s.straightFn(req.Measure)
	}
	return types.StraightAverage{Avg: 1}, nil
}

func (s *stubAPI) FilterSeries(_ context.Context, req upstream.MeasureRequest, _ types.FilterParams) ([]types.TrendRow, error) {
	if s.seriesFn != nil {
		return s.seriesFn(req.Measure)
	}
	return nil, nil
}

func (s *stubAPI) AverageByLocation(_ context.Context, req upstream.MeasureRequest, _ bool, _ types.FilterParams) ([]types.LocationAvg, error) {
	if s.avgFn != nil {
		return s.avgFn(req.Measure)
	}
	return nil, nil
}

func (s *stubAPI) SignalsFilterAverage(_ context.Context, req upstream.MeasureRequest, _ types.FilterParams) ([]types.LocationAvg, error) {
	if s.signalsFn != nil {
		return s.signalsFn(req.Measure)
	}
	return nil, nil
}

func (s *stubAPI) SummaryTrends(_ context.Context, _ types.FilterParams) (types.SummaryTrends, error) {
	if s.summaryFn != nil {
		return s.summaryFn()
	}
	return types.SummaryTrends{}, nil
}

func (s *stubAPI) Trend(_ context.Context, req upstream.TrendRequest) ([]types.HealthRow, error) {
	if s.trendFn != nil {
		return s.trendFn(req)
	}
	return nil, nil
}

func (s *stubAPI) MonthAverages(_ context.Context, zoneGroup, month string) (types.RegionAverage, error) {
	if s.monthFn != nil {
		return s.monthFn(zoneGroup, month)
	}
	return types.RegionAverage{}, nil
}

func (s *stubAPI) WatchdogData(_ context.Context, params types.WatchdogParams) ([]types.WatchdogData, error) {
	if s.watchdogFn != nil {
		return s.watchdogFn(params)
	}
	return nil, nil
}

type stubSignals struct {
	signals []types.Signal
	err     error
}

func (s *stubSignals) Signals(context.Context) ([]types.Signal, error) {
	return s.signals, s.err
}

func testParams() types.FilterParams {
	return types.FilterParams{DateRange: 4, TimePeriod: 4, ZoneGroup: "Central Metro"}
}

func TestDashboardRefreshPopulatesCards(t *testing.T) {
	api := &stubAPI{
		straightFn: func(m types.Measure) (types.StraightAverage, error) {
			if m == types.MeasureDailyVolume {
				return types.StraightAverage{Avg: 24312.6}, nil
			}
			return types.StraightAverage{Avg: 0.5}, nil
		},
	}
	d := NewDashboard(api, &stubSignals{}, nil)

	st := d.Refresh(context.Background(), testParams())

	require.Len(t, st.Performance, len(types.PerformanceMeasures))
	require.Len(t, st.Volume, len(types.VolumeMeasures))
	assert.Equal(t, types.MeasureThroughput, st.Performance[0].Measure)
	assert.Equal(t, "Throughput", st.Performance[0].Label)

	var vpd MetricCard
	for _, card := range st.Volume {
		if card.Measure == types.MeasureDailyVolume {
			vpd = card
		}
	}
	assert.Equal(t, "24,313", vpd.Value)
}

func TestDashboardCardFailureIsIsolated(t *testing.T) {
	api := &stubAPI{
		straightFn: func(m types.Measure) (types.StraightAverage, error) {
			if m == types.MeasureThroughput {
				return types.StraightAverage{}, errors.New("boom")
			}
			return types.StraightAverage{Avg: 1}, nil
		},
	}
	d := NewDashboard(api, &stubSignals{}, nil)

	st := d.Refresh(context.Background(), testParams())

	assert.Equal(t, views.Unavailable, st.Performance[0].Value)
	assert.NotEqual(t, views.Unavailable, st.Performance[1].Value, "other cards unaffected")
}

func TestDashboardMapSection(t *testing.T) {
	signals := &stubSignals{signals: []types.Signal{
		{SignalID: "1001", Latitude: 33.75, Longitude: -84.39, MainStreetName: "Peachtree", SideStreetName: "10th"},
	}}
	api := &stubAPI{
		signalsFn: func(types.Measure) ([]types.LocationAvg, error) {
			return []types.LocationAvg{{Label: "1001", Avg: 5000}}, nil
		},
	}
	d := NewDashboard(api, signals, nil)

	st := d.Refresh(context.Background(), testParams())

	require.Empty(t, st.Map.Error)
}

func TestDashboardSetDisplayMetric(t *testing.T) {
	d := NewDashboard(&stubAPI{}, &stubSignals{}, nil)

	require.NoError(t, d.SetDisplayMetric(types.MeasureArrivalsOnGreen))
	assert.Equal(t, types.MeasureArrivalsOnGreen, d.State().DisplayMetric)

	err := d.SetDisplayMetric(types.MeasureTravelTimeIndex)
	require.Error(t, err)
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeValidationInvalidMeasure, appErr.Code)
}

func TestDashboardStaleCycleDiscarded(t *testing.T) {
	release := make(chan struct{})
	var gated atomic.Bool
	api := &stubAPI{
		straightFn: func(types.Measure) (types.StraightAverage, error) {
			// Only the first call blocks; the lapping cycle runs freely.
			if gated.CompareAndSwap(false, true) {
				<-release
			}
			return types.StraightAverage{Avg: 7}, nil
		},
	}
	d := NewDashboard(api, &stubSignals{}, nil)

	done := make(chan DashboardState, 1)
	go func() { done <- d.Refresh(context.Background(), testParams()) }()

	// Let the slow cycle start, then lap it.
	time.Sleep(20 * time.Millisecond)
	fresh := d.Refresh(context.Background(), testParams())
	close(release)
	stale := <-done

	assert.Equal(t, fresh.Generation, stale.Generation, "stale cycle returns the committed state")
	assert.Equal(t, fresh.Generation, d.State().Generation)
}

func TestDashboardMetricSwitchMidCycleDropsStaleMap(t *testing.T) {
	release := make(chan struct{})
	var gated atomic.Bool
	signals := &stubSignals{signals: []types.Signal{
		{SignalID: "1001", Latitude: 33.75, Longitude: -84.39},
	}}
	api := &stubAPI{
		signalsFn: func(types.Measure) ([]types.LocationAvg, error) {
			if gated.CompareAndSwap(false, true) {
				<-release
			}
			return []types.LocationAvg{{Label: "1001", Avg: 5000}}, nil
		},
	}
	d := NewDashboard(api, signals, nil)

	done := make(chan DashboardState, 1)
	go func() { done <- d.Refresh(context.Background(), testParams()) }()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, d.SetDisplayMetric(types.MeasureArrivalsOnGreen))
	close(release)
	st := <-done

	assert.Equal(t, types.MeasureArrivalsOnGreen, st.DisplayMetric, "mid-cycle switch wins")
	assert.Empty(t, st.Map.Data.Traces, "map fetched for the old metric is dropped")
	assert.Empty(t, st.Map.Error)
	require.Len(t, st.Performance, len(types.PerformanceMeasures), "card grids still commit")
}

func TestDashboardMapRetryLeavesCards(t *testing.T) {
	var cardCalls atomic.Int32
	api := &stubAPI{
		straightFn: func(types.Measure) (types.StraightAverage, error) {
			cardCalls.Add(1)
			return types.StraightAverage{Avg: 1}, nil
		},
		signalsFn: func(types.Measure) ([]types.LocationAvg, error) {
			return nil, errors.New("boom")
		},
	}
	d := NewDashboard(api, &stubSignals{}, nil)

	before := d.Refresh(context.Background(), testParams())
	require.NotEmpty(t, before.Map.Error)

	api.signalsFn = func(types.Measure) ([]types.LocationAvg, error) {
		return []types.LocationAvg{{Label: "1001", Avg: 5000}}, nil
	}
	calls := cardCalls.Load()

	st := d.RefreshMap(context.Background(), testParams())

	assert.Empty(t, st.Map.Error, "retried section recovers")
	assert.Equal(t, calls, cardCalls.Load(), "card grids are not refetched")
	assert.Equal(t, before.Performance, st.Performance)
	assert.Equal(t, before.Volume, st.Volume)
}

func TestMeasurePageRefreshSections(t *testing.T) {
	api := &stubAPI{
		straightFn: func(types.Measure) (types.StraightAverage, error) {
			return types.StraightAverage{Avg: 15000}, nil
		},
		seriesFn: func(m types.Measure) ([]types.TrendRow, error) {
			return []types.TrendRow{{Corridor: "SR 9", Month: "2024-01-01", Value: 15000}}, nil
		},
		avgFn: func(types.Measure) ([]types.LocationAvg, error) {
			return []types.LocationAvg{{Label: "SR 9", Avg: 15000}}, nil
		},
	}
	p := NewOperationsPage(api, &stubSignals{}, nil)

	st := p.Refresh(context.Background(), testParams())

	assert.Equal(t, types.MeasureDailyVolume, st.Measure)
	require.Empty(t, st.Headline.Error)
	assert.Equal(t, "15,000", st.Headline.Data.Value)
	require.Len(t, st.Series.Data, 1)
	require.Len(t, st.Bar.Data, 1)
	assert.Empty(t, st.Map.Error)
}

func TestMeasurePageSectionFailureIsolated(t *testing.T) {
	api := &stubAPI{
		seriesFn: func(types.Measure) ([]types.TrendRow, error) {
			return nil, types.NewAppError(types.ErrCodeUpstreamUnavailable, "Service temporarily unavailable. Please try again later.", nil)
		},
	}
	p := NewOperationsPage(api, &stubSignals{}, nil)

	st := p.Refresh(context.Background(), testParams())

	assert.Equal(t, "Service temporarily unavailable. Please try again later.", st.Series.Error)
	assert.Empty(t, st.Headline.Error)
	assert.Empty(t, st.Bar.Error)
}

func TestMeasurePageSectionRetryLeavesSiblings(t *testing.T) {
	var headlineCalls, barCalls, mapCalls atomic.Int32
	api := &stubAPI{
		straightFn: func(types.Measure) (types.StraightAverage, error) {
			headlineCalls.Add(1)
			return types.StraightAverage{Avg: 15000}, nil
		},
		avgFn: func(types.Measure) ([]types.LocationAvg, error) {
			barCalls.Add(1)
			return []types.LocationAvg{{Label: "SR 9", Avg: 15000}}, nil
		},
		signalsFn: func(types.Measure) ([]types.LocationAvg, error) {
			mapCalls.Add(1)
			return nil, nil
		},
		seriesFn: func(types.Measure) ([]types.TrendRow, error) {
			return nil, errors.New("boom")
		},
	}
	p := NewOperationsPage(api, &stubSignals{}, nil)

	before := p.Refresh(context.Background(), testParams())
	require.NotEmpty(t, before.Series.Error)

	api.seriesFn = func(types.Measure) ([]types.TrendRow, error) {
		return []types.TrendRow{{Corridor: "SR 9", Month: "2024-01-01", Value: 15000}}, nil
	}
	h0, b0, m0 := headlineCalls.Load(), barCalls.Load(), mapCalls.Load()

	st, err := p.RefreshSection(context.Background(), "series", testParams())
	require.NoError(t, err)

	assert.Empty(t, st.Series.Error, "retried section recovers")
	require.Len(t, st.Series.Data, 1)
	assert.Equal(t, h0, headlineCalls.Load(), "headline not refetched")
	assert.Equal(t, b0, barCalls.Load(), "bar not refetched")
	assert.Equal(t, m0, mapCalls.Load(), "map not refetched")
	assert.Equal(t, before.Headline.Data, st.Headline.Data)
	assert.Equal(t, before.Bar.Data, st.Bar.Data)
}

func TestMeasurePageRefreshSectionUnknown(t *testing.T) {
	p := NewOperationsPage(&stubAPI{}, &stubSignals{}, nil)

	_, err := p.RefreshSection(context.Background(), "sidebar", testParams())

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeNotFoundSection, appErr.Code)
}

func TestMeasurePageLoadingWhileRefreshInFlight(t *testing.T) {
	release := make(chan struct{})
	var gated atomic.Bool
	api := &stubAPI{
		seriesFn: func(types.Measure) ([]types.TrendRow, error) {
			if gated.CompareAndSwap(false, true) {
				<-release
			}
			return nil, nil
		},
	}
	p := NewOperationsPage(api, &stubSignals{}, nil)

	done := make(chan MeasurePageState, 1)
	go func() { done <- p.Refresh(context.Background(), testParams()) }()

	assert.Eventually(t, func() bool {
		st := p.State()
		return st.Series.Loading && st.Headline.Loading
	}, time.Second, 5*time.Millisecond, "sections report loading while the cycle is in flight")

	close(release)
	st := <-done
	assert.False(t, st.Series.Loading)
	assert.False(t, p.State().Headline.Loading)
}

func TestMeasurePageSetMeasure(t *testing.T) {
	p := NewOperationsPage(&stubAPI{}, &stubSignals{}, nil)

	require.NoError(t, p.SetMeasure(types.MeasureThroughput))
	assert.Equal(t, types.MeasureThroughput, p.State().Measure)

	err := p.SetMeasure(types.MeasureCCTVUp)
	require.Error(t, err, "cctv uptime is not an operations measure")
}

func TestMaintenancePageDefault(t *testing.T) {
	p := NewMaintenancePage(&stubAPI{}, &stubSignals{}, nil)
	assert.Equal(t, types.MeasureDetectorUp, p.State().Measure)
	assert.Equal(t, "maintenance", p.Name())
}

func TestMeasurePageSelectLocationRestyles(t *testing.T) {
	api := &stubAPI{
		avgFn: func(types.Measure) ([]types.LocationAvg, error) {
			return []types.LocationAvg{
				{Label: "SR 9", Avg: 900},
				{Label: "SR 10", Avg: 1200},
			}, nil
		},
	}
	p := NewOperationsPage(api, &stubSignals{}, nil)
	p.Refresh(context.Background(), testParams())

	sel := p.SelectLocation("SR 10")
	require.NotNil(t, sel)
	st := p.State()
	assert.Equal(t, views.OpacityDimmed, st.Bar.Data[0].Opacity)
	assert.Equal(t, views.OpacityFull, st.Bar.Data[1].Opacity)

	assert.Nil(t, p.SelectLocation("SR 10"), "re-selecting clears")
	st = p.State()
	assert.Equal(t, views.OpacityFull, st.Bar.Data[0].Opacity)
}

func TestWatchdogDefaults(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	params := DefaultWatchdogParams(now)

	assert.Equal(t, "2024-03-08T12:00:00Z", params.StartDate)
	assert.Equal(t, "2024-03-15T12:00:00Z", params.EndDate)
	assert.Equal(t, "No Camera Image", params.Alert)
	assert.Equal(t, "All", params.Phase)
	assert.Equal(t, "All", params.Streak)
	assert.Equal(t, "Central Metro", params.ZoneGroup)
}

func TestWatchdogRefreshUnwrapsPayload(t *testing.T) {
	api := &stubAPI{
		watchdogFn: func(types.WatchdogParams) ([]types.WatchdogData, error) {
			return []types.WatchdogData{{
				X: []string{"2024-03-01"},
				Y: []string{"1001: Peachtree @ 10th"},
				Z: [][]float64{{3}},
				TableData: []types.WatchdogTableRow{
					{SignalID: "1001", Alert: "No Camera Image", Streak: 3},
				},
			}}, nil
		},
	}
	w := NewWatchdog(api, time.Millisecond, nil)

	st := w.Refresh(context.Background(), DefaultWatchdogParams(time.Now()))

	require.Empty(t, st.Data.Error)
	require.Len(t, st.Data.Data.TableData, 1)
	assert.Equal(t, "1001", st.Data.Data.TableData[0].SignalID)
}

func TestWatchdogRefreshEmptyPayload(t *testing.T) {
	w := NewWatchdog(&stubAPI{}, time.Millisecond, nil)

	st := w.Refresh(context.Background(), DefaultWatchdogParams(time.Now()))

	assert.Empty(t, st.Data.Error)
	assert.Empty(t, st.Data.Data.TableData)
}

func TestWatchdogDebounceCoalesces(t *testing.T) {
	w := NewWatchdog(&stubAPI{}, 30*time.Millisecond, nil)
	defer w.Stop()

	var mu sync.Mutex
	var fetched []string
	w.fetchFn = func(p types.WatchdogParams) {
		mu.Lock()
		fetched = append(fetched, p.Alert)
		mu.Unlock()
	}

	params := DefaultWatchdogParams(time.Now())
	for _, alert := range []string{"Force Offs", "Max Outs", "Count"} {
		params.Alert = alert
		w.SetParams(params)
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(fetched) == 1 && fetched[0] == "Count"
	}, time.Second, 10*time.Millisecond, "one trailing fetch with the final filter")
}

func TestScoreMonth(t *testing.T) {
	tests := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "03-01-2024"},
		{time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "02-01-2024"},
		{time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), "12-01-2023"},
		{time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "01-01-2024"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreMonth(tt.now), tt.now.String())
	}
}

func TestHealthRefresh(t *testing.T) {
	api := &stubAPI{
		monthFn: func(zoneGroup, month string) (types.RegionAverage, error) {
			if zoneGroup == "" {
				return types.RegionAverage{Operations: 0.8, Maintenance: 0.7, Safety: 0.9}, nil
			}
			return types.RegionAverage{Operations: 0.5, Maintenance: -1, Safety: 0.6}, nil
		},
		trendFn: func(req upstream.TrendRequest) ([]types.HealthRow, error) {
			if req.Measure == types.MeasureSafetyPlot {
				return nil, errors.New("boom")
			}
			return []types.HealthRow{{Corridor: "SR 9", Month: "2024-03", PercentHealth: 0.92}}, nil
		},
	}
	h := NewHealth(api, nil)
	h.now = func() time.Time { return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) }

	st := h.Refresh(context.Background(), "2024-02-01", "2024-03-01")

	assert.Equal(t, "03-01-2024", st.Month)
	require.Empty(t, st.Regions.Error)
	require.Len(t, st.Regions.Data, 7)
	assert.Equal(t, "North", st.Regions.Data[0].Name)
	assert.InDelta(t, 50.0, st.Regions.Data[0].Operations, 1e-9)
	assert.Zero(t, st.Regions.Data[0].Maintenance, "-1 folds to zero")
	assert.Equal(t, "Statewide", st.Regions.Data[6].Name)
	assert.InDelta(t, 80.0, st.Regions.Data[6].Operations, 1e-9)

	assert.Empty(t, st.Maintenance.Error)
	assert.Empty(t, st.Operations.Error)
	assert.NotEmpty(t, st.Safety.Error, "failed table is isolated")
}

func TestHealthRegionsFailAsUnit(t *testing.T) {
	api := &stubAPI{
		monthFn: func(zoneGroup, month string) (types.RegionAverage, error) {
			if zoneGroup == "Southwest" {
				return types.RegionAverage{}, errors.New("boom")
			}
			return types.RegionAverage{Operations: 0.5}, nil
		},
	}
	h := NewHealth(api, nil)

	st := h.Refresh(context.Background(), "2024-02-01", "2024-03-01")

	assert.NotEmpty(t, st.Regions.Error)
	assert.Empty(t, st.Regions.Data)
}

func TestHealthSectionRetryLeavesSiblings(t *testing.T) {
	var regionCalls atomic.Int32
	api := &stubAPI{
		monthFn: func(zoneGroup, month string) (types.RegionAverage, error) {
			regionCalls.Add(1)
			return types.RegionAverage{Operations: 0.5}, nil
		},
		trendFn: func(req upstream.TrendRequest) ([]types.HealthRow, error) {
			if req.Measure == types.MeasureSafetyPlot {
				return nil, errors.New("boom")
			}
			return []types.HealthRow{{Corridor: "SR 9", Month: "2024-03", PercentHealth: 0.92}}, nil
		},
	}
	h := NewHealth(api, nil)

	before := h.Refresh(context.Background(), "2024-02-01", "2024-03-01")
	require.NotEmpty(t, before.Safety.Error)

	api.trendFn = func(upstream.TrendRequest) ([]types.HealthRow, error) {
		return []types.HealthRow{{Corridor: "SR 9", Month: "2024-03", PercentHealth: 0.95}}, nil
	}
	calls := regionCalls.Load()

	st, err := h.RefreshSection(context.Background(), "safety", "2024-02-01", "2024-03-01")
	require.NoError(t, err)

	assert.Empty(t, st.Safety.Error, "retried board recovers")
	require.Len(t, st.Safety.Data, 1)
	assert.Equal(t, calls, regionCalls.Load(), "region board not refetched")
	assert.Equal(t, before.Maintenance, st.Maintenance)
	assert.Equal(t, before.Operations, st.Operations)
}

func TestHealthRefreshSectionUnknown(t *testing.T) {
	h := NewHealth(&stubAPI{}, nil)

	_, err := h.RefreshSection(context.Background(), "sidebar", "2024-02-01", "2024-03-01")

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeNotFoundSection, appErr.Code)
}

func TestSummaryTrendRefreshSortsPoints(t *testing.T) {
	api := &stubAPI{
		summaryFn: func() (types.SummaryTrends, error) {
			return types.SummaryTrends{
				types.MeasureThroughput: {
					{Month: "2024-03-01", Average: 820},
					{Month: "2024-01-01", Average: 780},
					{Month: "2024-02-01", Average: 800},
				},
			}, nil
		},
	}
	s := NewSummaryTrend(api, nil)

	st := s.Refresh(context.Background(), testParams())

	require.Empty(t, st.Trends.Error)
	points := st.Trends.Data[types.MeasureThroughput]
	require.Len(t, points, 3)
	assert.Equal(t, "2024-01-01", points[0].Month)
	assert.Equal(t, "2024-03-01", points[2].Month)
}

func TestSummaryTrendSeriesFor(t *testing.T) {
	api := &stubAPI{
		summaryFn: func() (types.SummaryTrends, error) {
			return types.SummaryTrends{
				types.MeasureArrivalsOnGreen: {
					{Month: "2024-01-01", Average: 45},
				},
			}, nil
		},
	}
	s := NewSummaryTrend(api, nil)
	s.Refresh(context.Background(), testParams())

	series, ok := s.SeriesFor(types.MeasureArrivalsOnGreen)
	require.True(t, ok)
	assert.Equal(t, "Arrivals on Green", series.Name)
	require.Len(t, series.Points, 1)
	assert.InDelta(t, 0.45, series.Points[0].Value, 1e-9)
	assert.Equal(t, "Jan 2024", series.Points[0].Label)

	_, ok = s.SeriesFor(types.MeasureThroughput)
	assert.False(t, ok)
}
