package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/views"
)

func TestTrendChartRendersSeries(t *testing.T) {
	series := []views.LineSeries{
		{
			Name:  "SR 9",
			Color: "#1f77b4",
			Points: []views.TimePoint{
				{Label: "Jan 2024", Value: 0.85},
				{Label: "Feb 2024", Value: 0.87},
			},
		},
		{
			Name:  "US 78",
			Color: "#ff7f0e",
			Points: []views.TimePoint{
				{Label: "Feb 2024", Value: 0.91},
			},
		},
	}

	var buf bytes.Buffer
	err := TrendChart(&buf, "Arrivals on Green", series)

	require.NoError(t, err)
	html := buf.String()
	assert.Contains(t, html, "Arrivals on Green")
	assert.Contains(t, html, "SR 9")
	assert.Contains(t, html, "US 78")
	assert.Contains(t, html, "Jan 2024")
	assert.Contains(t, html, "#1f77b4")
}

func TestTrendChartEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	err := TrendChart(&buf, "Empty", nil)

	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}

func TestLocationBarRendersItems(t *testing.T) {
	items := []views.BarItem{
		{Label: "US 78", Value: 0.72, Text: "72.0%", Color: "#1f77b4", Opacity: 1.0},
		{Label: "SR 9", Value: 0.88, Text: "88.0%", Color: "#ff7f0e", Opacity: 0.5},
	}

	var buf bytes.Buffer
	err := LocationBar(&buf, "Progression Ratio", items)

	require.NoError(t, err)
	html := buf.String()
	assert.Contains(t, html, "Progression Ratio")
	assert.Contains(t, html, "US 78")
	assert.Contains(t, html, "SR 9")
}

func TestSignalScatterRendersTraces(t *testing.T) {
	view := views.MapView{
		Traces: []views.MapTrace{
			{
				Name:  "10,000 - 20,000",
				Color: "#cdd312",
				Points: []views.MapPoint{
					{SignalID: "1001", Latitude: 33.9, Longitude: -84.3, Text: "ID: 1001"},
				},
			},
		},
		CenterLat: 33.9,
		CenterLon: -84.3,
		Zoom:      12,
	}

	var buf bytes.Buffer
	err := SignalScatter(&buf, "Traffic Volume", view)

	require.NoError(t, err)
	html := buf.String()
	assert.Contains(t, html, "Traffic Volume")
	assert.Contains(t, html, "10,000 - 20,000")
	assert.Contains(t, html, "#cdd312")
}
