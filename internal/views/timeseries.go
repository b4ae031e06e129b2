package views

import (
	"math"
	"sort"
	"time"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// TimePoint is one plotted month on a trend line.
type TimePoint struct {
	Month time.Time `json:"-"`
	Label string    `json:"label"`
	Value float64   `json:"value"`
}

// LineSeries is one named trend line with a stable palette color.
type LineSeries struct {
	Name   string      `json:"name"`
	Color  string      `json:"color"`
	Points []TimePoint `json:"points"`
}

// monthLayouts are the month encodings seen across the metrics endpoints.
var monthLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
	"1/2006",
	"Jan 2006",
}

// ParseMonth parses the month strings the metrics API emits.
func ParseMonth(s string) (time.Time, bool) {
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonthLabel renders a month for axis ticks and tooltips.
func MonthLabel(t time.Time) string {
	return t.Format("Jan 2006")
}

// BuildTimeSeries groups trend rows into per-location line series, one per
// corridor (falling back to zone group when the corridor is empty), with
// points in chronological order. Percent-class values are normalized onto the
// 0..1 scale; rows with missing values or unparseable months are dropped.
// Series are ordered by name so palette colors are stable across refreshes.
func BuildTimeSeries(measure types.Measure, rows []types.TrendRow) []LineSeries {
	percent := measure.Class() == types.FormatPercent
	grouped := make(map[string][]TimePoint)
	for _, row := range rows {
		name := row.Corridor
		if name == "" {
			name = row.ZoneGroup
		}
		if name == "" || math.IsNaN(row.Value) {
			continue
		}
		month, ok := ParseMonth(row.Month)
		if !ok {
			continue
		}
		v := row.Value
		if percent {
			v = NormalizePercent(v)
		}
		grouped[name] = append(grouped[name], TimePoint{
			Month: month,
			Label: MonthLabel(month),
			Value: v,
		})
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	series := make([]LineSeries, 0, len(names))
	for i, name := range names {
		points := grouped[name]
		sort.Slice(points, func(a, b int) bool { return points[a].Month.Before(points[b].Month) })
		series = append(series, LineSeries{
			Name:   name,
			Color:  TraceColor(i),
			Points: points,
		})
	}
	return series
}
