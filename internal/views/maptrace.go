package views

import (
	"fmt"
	"math"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// MapPoint is one signal marker on the scatter map.
type MapPoint struct {
	SignalID  string  `json:"signalID"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Text      string  `json:"text"`
}

// MapTrace is one legend bucket's worth of markers.
type MapTrace struct {
	Name   string     `json:"name"`
	Color  string     `json:"color"`
	Points []MapPoint `json:"points"`
}

// MapView is the full scatter-map payload: per-bucket traces plus the
// computed viewport.
type MapView struct {
	Traces    []MapTrace `json:"traces"`
	CenterLat float64    `json:"centerLat"`
	CenterLon float64    `json:"centerLon"`
	Zoom      float64    `json:"zoom"`
}

const defaultMapZoom = 12

// BuildMapView joins signal metric averages onto the signal registry by
// signal ID and buckets the joined markers into one trace per value range.
// Signals without coordinates or without a metric row are dropped. Empty
// buckets produce no trace; the sentinel [-1, -1] bucket collects signals
// whose value is the -1 "no data" marker.
func BuildMapView(cfg MapConfig, signals []types.Signal, data []types.LocationAvg) MapView {
	byID := make(map[string]float64, len(data))
	for _, d := range data {
		byID[d.Label] = d.Avg
	}

	type marker struct {
		signal types.Signal
		value  float64
	}
	joined := make([]marker, 0, len(signals))
	for _, sig := range signals {
		if !sig.HasCoordinates() {
			continue
		}
		v, ok := byID[sig.SignalID]
		if !ok || math.IsNaN(v) {
			continue
		}
		joined = append(joined, marker{signal: sig, value: v})
	}

	view := MapView{Zoom: defaultMapZoom}
	for i, r := range cfg.Ranges {
		var points []MapPoint
		for _, m := range joined {
			if !r.Contains(m.value) {
				continue
			}
			points = append(points, MapPoint{
				SignalID:  m.signal.SignalID,
				Latitude:  m.signal.Latitude,
				Longitude: m.signal.Longitude,
				Text:      tooltip(cfg, m.signal, m.value),
			})
		}
		if len(points) == 0 {
			continue
		}
		view.Traces = append(view.Traces, MapTrace{
			Name:   cfg.LegendLabels[i],
			Color:  cfg.LegendColors[i],
			Points: points,
		})
	}

	if len(joined) > 0 {
		var sumLat, sumLon float64
		lats := make([]float64, 0, len(joined))
		lons := make([]float64, 0, len(joined))
		for _, m := range joined {
			sumLat += m.signal.Latitude
			sumLon += m.signal.Longitude
			lats = append(lats, m.signal.Latitude)
			lons = append(lons, m.signal.Longitude)
		}
		view.CenterLat = sumLat / float64(len(joined))
		view.CenterLon = sumLon / float64(len(joined))
		view.Zoom = fitZoom(lats, lons)
	}
	return view
}

func tooltip(cfg MapConfig, sig types.Signal, v float64) string {
	value := "Unavailable"
	if v != -1 {
		value = FormatTooltipValue(cfg, v)
	}
	return fmt.Sprintf("ID: %s<br>%s @ %s<br>%s: %s",
		sig.SignalID, sig.MainStreetName, sig.SideStreetName, cfg.Label, value)
}

// fitZoom picks a viewport zoom that contains the marker bounding box. The
// coefficients are fitted for the web-mercator tile sizes the map widget
// uses.
func fitZoom(lats, lons []float64) float64 {
	if len(lats) <= 1 {
		return defaultMapZoom
	}
	minLat, maxLat := lats[0], lats[0]
	for _, v := range lats[1:] {
		minLat = math.Min(minLat, v)
		maxLat = math.Max(maxLat, v)
	}
	minLon, maxLon := lons[0], lons[0]
	for _, v := range lons[1:] {
		minLon = math.Min(minLon, v)
		maxLon = math.Max(maxLon, v)
	}
	widthY := maxLat - minLat
	widthX := maxLon - minLon
	if widthY <= 0 || widthX <= 0 {
		return defaultMapZoom
	}
	zoomY := -1.446*math.Log(widthY) + 8.2753
	zoomX := -1.415*math.Log(widthX) + 9.7068
	return math.Min(zoomY, zoomX)
}
