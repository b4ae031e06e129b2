package upstream

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/config"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// SourceMain is the default data source for all dashboard measures.
const SourceMain = "main"

// Gateway exposes one operation per metrics API endpoint. Each operation
// performs one HTTP call and returns the decoded, typed response shape.
type Gateway struct {
	*Client
}

// NewGateway builds a Gateway from the upstream configuration.
func NewGateway(cfg config.UpstreamConfig, opts ...ClientOption) *Gateway {
	policy := DefaultRetryPolicy()
	if cfg.MaxRetries > 0 {
		policy.MaxRetries = cfg.MaxRetries
	}
	return &Gateway{
		Client: NewClient(
			&http.Client{Timeout: cfg.Timeout},
			cfg.BaseURL,
			policy,
			cfg.UserAgent,
			opts...,
		),
	}
}

// MeasureRequest identifies which metric a metrics call requests.
type MeasureRequest struct {
	Source  string
	Measure types.Measure
}

func (r MeasureRequest) query() url.Values {
	source := r.Source
	if source == "" {
		source = SourceMain
	}
	q := url.Values{}
	q.Set("source", source)
	q.Set("measure", string(r.Measure))
	return q
}

// FilterSeries fetches the filtered time series for a measure: one row per
// corridor per period. The open row shape is decoded here into TrendRow, with
// the measure-specific value field resolved via Measure.ValueField.
func (g *Gateway) FilterSeries(ctx context.Context, req MeasureRequest, params types.FilterParams) ([]types.TrendRow, error) {
	var raw []map[string]json.RawMessage
	if err := g.postJSON(ctx, "/metrics/filter", req.query(), params, &raw); err != nil {
		return nil, err
	}

	field := req.Measure.ValueField()
	rows := make([]types.TrendRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, types.TrendRow{
			Corridor:  rawString(r, "corridor"),
			ZoneGroup: rawString(r, "zone_Group"),
			Month:     rawString(r, "month"),
			Value:     rawFloat(r, field),
		})
	}
	return rows, nil
}

// AverageByLocation fetches per-corridor averages (with deltas) for a measure.
func (g *Gateway) AverageByLocation(ctx context.Context, req MeasureRequest, dashboard bool, params types.FilterParams) ([]types.LocationAvg, error) {
	q := req.query()
	q.Set("dashboard", strconv.FormatBool(dashboard))
	var rows []types.LocationAvg
	if err := g.postJSON(ctx, "/metrics/average", q, params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// StraightAverage fetches the single aggregate value (plus delta from the
// prior period) for a measure across the current filter scope.
func (g *Gateway) StraightAverage(ctx context.Context, req MeasureRequest, params types.FilterParams) (types.StraightAverage, error) {
	var avg types.StraightAverage
	if err := g.postJSON(ctx, "/metrics/straightaverage", req.query(), params, &avg); err != nil {
		return types.StraightAverage{}, err
	}
	return avg, nil
}

// SignalsFilterAverage fetches per-signal averaged values for a measure, used
// to place and color map markers. Labels are signal IDs.
func (g *Gateway) SignalsFilterAverage(ctx context.Context, req MeasureRequest, params types.FilterParams) ([]types.LocationAvg, error) {
	var rows []types.LocationAvg
	if err := g.postJSON(ctx, "/metrics/signals/filter/average", req.query(), params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SummaryTrends fetches the summary-trend bundle keyed by measure code.
func (g *Gateway) SummaryTrends(ctx context.Context, params types.FilterParams) (types.SummaryTrends, error) {
	q := url.Values{}
	q.Set("source", SourceMain)
	var bundle types.SummaryTrends
	if err := g.postJSON(ctx, "/metrics/summarytrends", q, params, &bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

// TrendRequest identifies a historical trend query for the health-metrics view.
type TrendRequest struct {
	Source   string
	Level    string
	Interval string
	Measure  types.Measure
	Start    string // "M/YYYY"
	End      string
}

// Trend fetches historical health rows for a measure over a month range.
func (g *Gateway) Trend(ctx context.Context, req TrendRequest) ([]types.HealthRow, error) {
	q := url.Values{}
	q.Set("source", req.Source)
	q.Set("level", req.Level)
	q.Set("interval", req.Interval)
	q.Set("measure", string(req.Measure))
	q.Set("start", req.Start)
	q.Set("end", req.End)
	var rows []types.HealthRow
	if err := g.getJSON(ctx, "/metrics", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthAverages fetches zone-group month averages for the health-metrics view.
func (g *Gateway) MonthAverages(ctx context.Context, zoneGroup, month string) (types.RegionAverage, error) {
	q := url.Values{}
	q.Set("zoneGroup", zoneGroup)
	q.Set("month", month)
	var avg types.RegionAverage
	if err := g.getJSON(ctx, "/metrics/monthaverages", q, &avg); err != nil {
		return types.RegionAverage{}, err
	}
	return avg, nil
}

// WatchdogData fetches heatmap and table data for equipment-alert monitoring.
func (g *Gateway) WatchdogData(ctx context.Context, params types.WatchdogParams) ([]types.WatchdogData, error) {
	var data []types.WatchdogData
	if err := g.postJSON(ctx, "/watchdog/data", nil, params, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// rawString extracts a string field from an open row; missing or non-string
// fields yield "".
func rawString(row map[string]json.RawMessage, key string) string {
	raw, ok := row[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// rawFloat extracts a numeric field from an open row, accepting a JSON number
// or a numeric string. Missing or malformed values yield NaN, which renders
// as "N/A" downstream.
func rawFloat(row map[string]json.RawMessage, key string) float64 {
	raw, ok := row[key]
	if !ok {
		return math.NaN()
	}
	var f types.FlexibleFloat
	if err := f.UnmarshalJSON(raw); err != nil {
		return math.NaN()
	}
	return float64(f)
}
