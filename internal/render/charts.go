// Package render turns the derived view structures into self-contained
// ECharts HTML documents. The JSON endpoints are the primary surface; these
// renders back the /charts routes for embedding and ad-hoc inspection.
package render

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/views"
)

const (
	chartWidth  = "900px"
	chartHeight = "520px"
)

// TrendChart renders the per-corridor trend lines as an HTML line chart.
// Series share the union of month labels on the X axis, in first-seen order;
// each series carries its assigned trace color.
func TrendChart(w io.Writer, title string, series []views.LineSeries) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	labels := monthLabels(series)
	line.SetXAxis(labels)

	for _, s := range series {
		byLabel := make(map[string]float64, len(s.Points))
		for _, p := range s.Points {
			byLabel[p.Label] = p.Value
		}
		data := make([]opts.LineData, 0, len(labels))
		for _, label := range labels {
			if v, ok := byLabel[label]; ok {
				data = append(data, opts.LineData{Value: v})
			} else {
				data = append(data, opts.LineData{Value: nil})
			}
		}
		line.AddSeries(s.Name, data,
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}

	return line.Render(w)
}

// LocationBar renders the per-corridor averages as an HTML bar chart,
// preserving the ascending order and per-bar color and dimming produced by
// the view layer.
func LocationBar(w io.Writer, title string, items []views.BarItem) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, 0, len(items))
	data := make([]opts.BarData, 0, len(items))
	for _, item := range items {
		labels = append(labels, item.Label)
		data = append(data, opts.BarData{
			Value: item.Value,
			ItemStyle: &opts.ItemStyle{
				Color:   item.Color,
				Opacity: float32(item.Opacity),
			},
		})
	}

	bar.SetXAxis(labels)
	bar.AddSeries(title, data)
	bar.XYReversal()

	return bar.Render(w)
}

// SignalScatter renders the map view as an HTML scatter chart, one series per
// legend bucket with longitude on X and latitude on Y. It is a flat-plane
// stand-in for the tiled map the browser client draws.
func SignalScatter(w io.Writer, title string, view views.MapView) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Scale: opts.Bool(true)}),
	)

	for _, trace := range view.Traces {
		data := make([]opts.ScatterData, 0, len(trace.Points))
		for _, p := range trace.Points {
			data = append(data, opts.ScatterData{
				Name:  p.Text,
				Value: []float64{p.Longitude, p.Latitude},
			})
		}
		scatter.AddSeries(trace.Name, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: trace.Color}),
		)
	}

	return scatter.Render(w)
}

// monthLabels collects the union of point labels across series in first-seen
// order. Series points are already chronological, so first-seen order is
// chronological whenever series cover overlapping ranges.
func monthLabels(series []views.LineSeries) []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, s := range series {
		for _, p := range s.Points {
			if _, ok := seen[p.Label]; ok {
				continue
			}
			seen[p.Label] = struct{}{}
			labels = append(labels, p.Label)
		}
	}
	return labels
}
