package upstream

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/config"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   string
}

func newTestGateway(t *testing.T, status int, responseBody string) (*Gateway, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Query = map[string]string{}
		for k := range r.URL.Query() {
			captured.Query[k] = r.URL.Query().Get(k)
		}
		body, _ := io.ReadAll(r.Body)
		captured.Body = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(srv.Close)

	g := NewGateway(config.UpstreamConfig{
		BaseURL:   srv.URL,
		Timeout:   5 * time.Second,
		UserAgent: "somata-test/1.0",
	}, WithSleepFunc(noopSleep))
	return g, captured
}

func TestFilterSeriesDecodesOpenRows(t *testing.T) {
	g, captured := newTestGateway(t, http.StatusOK, `[
		{"corridor":"SR 9","zone_Group":"North","month":"2024-03-01T00:00:00","vpd":12345.6},
		{"corridor":"US 78","zone_Group":"North","month":"2024-03-01T00:00:00","vpd":"9876.5"},
		{"corridor":"SR 20","zone_Group":"North","month":"2024-03-01T00:00:00"}
	]`)

	rows, err := g.FilterSeries(context.Background(), MeasureRequest{Measure: types.MeasureDailyVolume}, types.FilterParams{})

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/metrics/filter", captured.Path)
	assert.Equal(t, "main", captured.Query["source"])
	assert.Equal(t, "vpd", captured.Query["measure"])

	assert.Equal(t, "SR 9", rows[0].Corridor)
	assert.Equal(t, "North", rows[0].ZoneGroup)
	assert.Equal(t, "2024-03-01T00:00:00", rows[0].Month)
	assert.InDelta(t, 12345.6, rows[0].Value, 0.001)
	assert.InDelta(t, 9876.5, rows[1].Value, 0.001, "numeric strings are accepted")
	assert.True(t, math.IsNaN(rows[2].Value), "missing value field yields NaN")
}

func TestFilterSeriesSendsFilterParams(t *testing.T) {
	g, captured := newTestGateway(t, http.StatusOK, `[]`)

	params := types.FilterParams{ZoneGroup: "Central Metro", DateRange: 4, TimePeriod: 4}
	_, err := g.FilterSeries(context.Background(), MeasureRequest{Measure: types.MeasureThroughput}, params)

	require.NoError(t, err)
	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(captured.Body), &sent))
	assert.Equal(t, "Central Metro", sent["zone_Group"])
}

func TestAverageByLocationDashboardFlag(t *testing.T) {
	g, captured := newTestGateway(t, http.StatusOK, `[{"label":"SR 9","avg":42.5,"delta":0.02}]`)

	rows, err := g.AverageByLocation(context.Background(), MeasureRequest{Measure: types.MeasureThroughput}, true, types.FilterParams{})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "/metrics/average", captured.Path)
	assert.Equal(t, "true", captured.Query["dashboard"])
	assert.Equal(t, "SR 9", rows[0].Label)
	assert.InDelta(t, 42.5, rows[0].Avg, 0.001)
}

func TestStraightAverageBareNumber(t *testing.T) {
	g, _ := newTestGateway(t, http.StatusOK, `24313.8`)

	avg, err := g.StraightAverage(context.Background(), MeasureRequest{Measure: types.MeasureDailyVolume}, types.FilterParams{})

	require.NoError(t, err)
	assert.InDelta(t, 24313.8, avg.Avg, 0.001)
	assert.Zero(t, avg.Delta)
}

func TestStraightAverageObject(t *testing.T) {
	g, captured := newTestGateway(t, http.StatusOK, `{"avg":0.873,"delta":-0.01}`)

	avg, err := g.StraightAverage(context.Background(), MeasureRequest{Measure: types.MeasureArrivalsOnGreen}, types.FilterParams{})

	require.NoError(t, err)
	assert.Equal(t, "/metrics/straightaverage", captured.Path)
	assert.InDelta(t, 0.873, avg.Avg, 0.0001)
	assert.InDelta(t, -0.01, avg.Delta, 0.0001)
}

func TestSignalsFilterAveragePath(t *testing.T) {
	g, captured := newTestGateway(t, http.StatusOK, `[{"label":"1001","avg":18500}]`)

	rows, err := g.SignalsFilterAverage(context.Background(), MeasureRequest{Measure: types.MeasureDailyVolume}, types.FilterParams{})

	require.NoError(t, err)
	assert.Equal(t, "/metrics/signals/filter/average", captured.Path)
	require.Len(t, rows, 1)
	assert.Equal(t, "1001", rows[0].Label)
}

func TestSummaryTrendsBundle(t *testing.T) {
	g, captured := newTestGateway(t, http.StatusOK, `{
		"tp":[{"month":"2024-02-01T00:00:00","average":1100}],
		"aogd":[{"month":"2024-02-01T00:00:00","average":0.71}]
	}`)

	bundle, err := g.SummaryTrends(context.Background(), types.FilterParams{})

	require.NoError(t, err)
	assert.Equal(t, "/metrics/summarytrends", captured.Path)
	assert.Equal(t, "main", captured.Query["source"])
	require.Contains(t, bundle, types.MeasureThroughput)
	require.Contains(t, bundle, types.MeasureArrivalsOnGreen)
	assert.InDelta(t, 1100, float64(bundle[types.MeasureThroughput][0].Average), 0.001)
}

func TestTrendQueryParams(t *testing.T) {
	g, captured := newTestGateway(t, http.StatusOK, `[{"zone_Group":"North","corridor":"SR 9","month":"2024-02-01T00:00:00","percent Health":0.91}]`)

	rows, err := g.Trend(context.Background(), TrendRequest{
		Source:   SourceMain,
		Level:    "cor",
		Interval: "mo",
		Measure:  types.MeasureMaintenancePlot,
		Start:    "2023-09-01",
		End:      "2024-03-01",
	})

	require.NoError(t, err)
	assert.Equal(t, "/metrics", captured.Path)
	assert.Equal(t, "main", captured.Query["source"])
	assert.Equal(t, "cor", captured.Query["level"])
	assert.Equal(t, "mo", captured.Query["interval"])
	assert.Equal(t, "maint_plot", captured.Query["measure"])
	assert.Equal(t, "2023-09-01", captured.Query["start"])
	assert.Equal(t, "2024-03-01", captured.Query["end"])
	require.Len(t, rows, 1)
	assert.InDelta(t, 0.91, float64(rows[0].PercentHealth), 0.0001)
}

func TestMonthAveragesArrayDecode(t *testing.T) {
	g, captured := newTestGateway(t, http.StatusOK, `[0.82,0.74,0.95]`)

	avg, err := g.MonthAverages(context.Background(), "Central Metro", "03-01-2024")

	require.NoError(t, err)
	assert.Equal(t, "/metrics/monthaverages", captured.Path)
	assert.Equal(t, "Central Metro", captured.Query["zoneGroup"])
	assert.Equal(t, "03-01-2024", captured.Query["month"])
	assert.InDelta(t, 0.82, avg.Operations, 0.0001)
	assert.InDelta(t, 0.74, avg.Maintenance, 0.0001)
	assert.InDelta(t, 0.95, avg.Safety, 0.0001)
}

func TestMonthAveragesShortArray(t *testing.T) {
	g, _ := newTestGateway(t, http.StatusOK, `[0.82]`)

	avg, err := g.MonthAverages(context.Background(), "North", "03-01-2024")

	require.NoError(t, err)
	assert.InDelta(t, 0.82, avg.Operations, 0.0001)
	assert.InDelta(t, -1, avg.Maintenance, 0.0001)
	assert.InDelta(t, -1, avg.Safety, 0.0001)
}

func TestWatchdogDataPost(t *testing.T) {
	g, captured := newTestGateway(t, http.StatusOK, `[{"x":["2024-03-01"],"y":["1001 - SR 9"],"z":[[1]],"tableData":[]}]`)

	params := types.WatchdogParams{Alert: "No Camera Image", Phase: "All", ZoneGroup: "Central Metro"}
	data, err := g.WatchdogData(context.Background(), params)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/watchdog/data", captured.Path)
	require.Len(t, data, 1)
	require.Len(t, data[0].X, 1)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(captured.Body), &sent))
	assert.Equal(t, "No Camera Image", sent["alert"])
}

func TestAllSignalsPath(t *testing.T) {
	g, captured := newTestGateway(t, http.StatusOK, `[
		{"signalID":"1001","intersection":"SR 9 @ Main St","latitude":33.9,"longitude":-84.3}
	]`)

	signals, err := g.AllSignals(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/signals/all", captured.Path)
	require.Len(t, signals, 1)
	assert.Equal(t, "1001", signals[0].SignalID)
	assert.True(t, signals[0].HasCoordinates())
}

func TestOptionListPaths(t *testing.T) {
	tests := []struct {
		name     string
		call     func(g *Gateway) ([]string, error)
		wantPath string
	}{
		{"zone groups", func(g *Gateway) ([]string, error) { return g.ZoneGroups(context.Background()) }, "/signals/zonegroups"},
		{"zones", func(g *Gateway) ([]string, error) { return g.Zones(context.Background()) }, "/signals/zones"},
		{"agencies", func(g *Gateway) ([]string, error) { return g.Agencies(context.Background()) }, "/signals/agencies"},
		{"counties", func(g *Gateway) ([]string, error) { return g.Counties(context.Background()) }, "/signals/counties"},
		{"cities", func(g *Gateway) ([]string, error) { return g.Cities(context.Background()) }, "/signals/cities"},
		{"corridors", func(g *Gateway) ([]string, error) { return g.Corridors(context.Background()) }, "/signals/corridors"},
		{"subcorridors", func(g *Gateway) ([]string, error) { return g.Subcorridors(context.Background()) }, "/signals/subcorridors"},
		{"priorities", func(g *Gateway) ([]string, error) { return g.Priorities(context.Background()) }, "/signals/priorities"},
		{"classifications", func(g *Gateway) ([]string, error) { return g.Classifications(context.Background()) }, "/signals/classifications"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, captured := newTestGateway(t, http.StatusOK, `["A","B"]`)
			opts, err := tt.call(g)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, captured.Path)
			assert.Equal(t, []string{"A", "B"}, opts)
		})
	}
}

func TestZonesByZoneGroupEscapesPath(t *testing.T) {
	g, captured := newTestGateway(t, http.StatusOK, `["District 1"]`)

	opts, err := g.ZonesByZoneGroup(context.Background(), "Central Metro")

	require.NoError(t, err)
	assert.Equal(t, "/signals/zonesbyzonegroup/Central Metro", captured.Path)
	assert.Equal(t, []string{"District 1"}, opts)
}

func TestCorridorsByFilterQuery(t *testing.T) {
	g, captured := newTestGateway(t, http.StatusOK, `["SR 9"]`)

	_, err := g.CorridorsByFilter(context.Background(), OptionFilter{ZoneGroup: "North", County: "Forsyth"})

	require.NoError(t, err)
	assert.Equal(t, "/signals/corridorsbyfilter", captured.Path)
	assert.Equal(t, "North", captured.Query["zoneGroup"])
	assert.Equal(t, "Forsyth", captured.Query["county"])
	assert.Contains(t, captured.Query, "zone", "empty selections are still sent")
	assert.Equal(t, "", captured.Query["zone"])
}

func TestSubcorridorsByCorridor(t *testing.T) {
	g, captured := newTestGateway(t, http.StatusOK, `["SR 9 North"]`)

	opts, err := g.SubcorridorsByCorridor(context.Background(), "SR 9")

	require.NoError(t, err)
	assert.Equal(t, "/signals/subcorridorsbycorridor/SR 9", captured.Path)
	assert.Equal(t, []string{"SR 9 North"}, opts)
}
