// Package views derives presentation-ready structures from metric rows:
// time-series groupings, ranked location bars, and scatter-map traces. All
// builders are pure functions over already-fetched data.
package views

import "github.com/parandev-inditech/Somata-UI-sub000/internal/types"

// Legend color ramp. Hex values match the dashboard style guide.
const (
	ColorGreen       = "#04c360"
	ColorGreenYellow = "#80cc2f"
	ColorYellowGreen = "#cdd312"
	ColorYellow      = "#ffd600"
	ColorOrange      = "#ffac00"
	ColorRedOrange   = "#ff5600"
	ColorRed         = "#ff0000"
	ColorLightTeal   = "#66d99e"
	ColorTeal        = "#00a698"
	ColorBlue        = "#0070ed"
	ColorDarkBlue    = "#0070ed"
	ColorPurple      = "#6600cc"
	ColorGray        = "#a9a9a9"
)

// Range is an inclusive [low, high] value bucket. The sentinel [-1, -1]
// bucket collects signals with no value for the measure.
type Range [2]float64

// Contains reports whether v falls inside the inclusive range.
func (r Range) Contains(v float64) bool {
	return v >= r[0] && v <= r[1]
}

// MapConfig describes how one measure renders on the signal scatter map:
// value buckets, their legend labels and marker colors, and how tooltips
// format the value.
type MapConfig struct {
	Measure        types.Measure
	Label          string
	FormatType     types.FormatClass
	FormatDecimals int
	Ranges         []Range
	LegendLabels   []string
	LegendColors   []string
}

// Bucket palettes shared across measures.
var (
	volumeRamp   = []string{ColorGray, ColorLightTeal, ColorTeal, ColorBlue, ColorDarkBlue, ColorPurple}
	goodHighRamp = []string{ColorGray, ColorRed, ColorRedOrange, ColorYellow, ColorGreenYellow, ColorGreen}
	goodLowRamp  = []string{ColorGray, ColorGreen, ColorGreenYellow, ColorYellow, ColorRedOrange, ColorRed}
)

var unavailableRange = Range{-1, -1}

var uptimeRanges = []Range{
	unavailableRange,
	{0, 0.6},
	{0.61, 0.8},
	{0.81, 0.9},
	{0.91, 0.95},
	{0.95, 1},
}

var uptimeLabels = []string{
	"Unavailable",
	"0% - 60%",
	"60.01% - 80%",
	"80.01% - 90%",
	"90.1% - 95%",
	"95.1%+",
}

var splitFailRanges = []Range{
	unavailableRange,
	{0, 0.05},
	{0.051, 0.1},
	{0.101, 0.15},
	{0.151, 0.2},
	{0.201, 1},
}

var splitFailLabels = []string{
	"Unavailable",
	"0% - 5%",
	"5.1% - 10%",
	"10.1% - 15%",
	"15.1% - 20%",
	"20.1%+",
}

func uptimeConfig(m types.Measure, label string) MapConfig {
	return MapConfig{
		Measure:        m,
		Label:          label,
		FormatType:     types.FormatPercent,
		FormatDecimals: 1,
		Ranges:         uptimeRanges,
		LegendLabels:   uptimeLabels,
		LegendColors:   goodHighRamp,
	}
}

var mapConfigs = map[types.Measure]MapConfig{
	types.MeasureDailyVolume: {
		Measure:        types.MeasureDailyVolume,
		Label:          "Daily Traffic Volume",
		FormatType:     types.FormatCount,
		FormatDecimals: 0,
		Ranges: []Range{
			unavailableRange,
			{0, 10000},
			{10001, 20000},
			{20001, 30000},
			{30001, 40000},
			{40001, 10000000},
		},
		LegendLabels: []string{
			"Unavailable",
			"0 - 10,000 vpd",
			"10,001 - 20,000 vpd",
			"20,001 - 30,000 vpd",
			"30,001 - 40,000 vpd",
			"40,001+ vpd",
		},
		LegendColors: volumeRamp,
	},
	types.MeasurePedActivity: {
		Measure:        types.MeasurePedActivity,
		Label:          "Daily Pedestrian Pushbutton Activity",
		FormatType:     types.FormatCount,
		FormatDecimals: 0,
		Ranges: []Range{
			unavailableRange,
			{0, 100},
			{101, 200},
			{201, 300},
			{301, 400},
			{400, 5000},
		},
		LegendLabels: []string{
			"Unavailable",
			"0 - 100",
			"101 - 200",
			"201 - 300",
			"301 - 400",
			"400+",
		},
		LegendColors: volumeRamp,
	},
	types.MeasureThroughput: {
		Measure:        types.MeasureThroughput,
		Label:          "Throughput",
		FormatType:     types.FormatCount,
		FormatDecimals: 0,
		Ranges: []Range{
			unavailableRange,
			{0, 2000},
			{2001, 4000},
			{4001, 6000},
			{6001, 8000},
			{8001, 100000},
		},
		LegendLabels: []string{
			"Unavailable",
			"0 - 2000",
			"2,001 - 4,000",
			"4,001 - 6,000",
			"6,001 - 8,000",
			"8,001+",
		},
		LegendColors: volumeRamp,
	},
	types.MeasureArrivalsOnGreen: {
		Measure:        types.MeasureArrivalsOnGreen,
		Label:          "Arrivals on Green",
		FormatType:     types.FormatPercent,
		FormatDecimals: 1,
		Ranges: []Range{
			unavailableRange,
			{0, 0.2},
			{0.21, 0.4},
			{0.41, 0.6},
			{0.61, 0.8},
			{0.8, 1},
		},
		LegendLabels: []string{
			"Unavailable",
			"0% - 20%",
			"21% - 40%",
			"41% - 60%",
			"61% - 80%",
			"81% - 100%",
		},
		LegendColors: []string{ColorGray, ColorPurple, ColorRedOrange, ColorYellow, ColorGreenYellow, ColorGreen},
	},
	types.MeasureProgressionRatio: {
		Measure:        types.MeasureProgressionRatio,
		Label:          "Progression Ratio",
		FormatType:     types.FormatRatio,
		FormatDecimals: 2,
		Ranges: []Range{
			unavailableRange,
			{0, 0.4},
			{0.41, 0.8},
			{0.81, 1},
			{1.01, 1.2},
			{1.21, 10},
		},
		LegendLabels: []string{
			"Unavailable",
			"0 - 0.4",
			"0.41 - 0.8",
			"0.81 - 1",
			"1.01 - 1.2",
			"1.2+",
		},
		LegendColors: []string{ColorGray, ColorRed, ColorRedOrange, ColorOrange, ColorYellow, ColorYellowGreen},
	},
	types.MeasureQueueSpillback: {
		Measure:        types.MeasureQueueSpillback,
		Label:          "Queue Spillback",
		FormatType:     types.FormatPercent,
		FormatDecimals: 1,
		Ranges: []Range{
			unavailableRange,
			{0, 0.2},
			{0.21, 0.4},
			{0.41, 0.6},
			{0.61, 0.8},
			{0.81, 1},
		},
		LegendLabels: []string{
			"Unavailable",
			"0% - 20%",
			"20.01% - 40%",
			"40.01% - 60%",
			"60.01% - 80%",
			"80.01% - 100%",
		},
		LegendColors: goodLowRamp,
	},
	types.MeasurePeakSplitFail: {
		Measure:        types.MeasurePeakSplitFail,
		Label:          "Peak Split Failures",
		FormatType:     types.FormatPercent,
		FormatDecimals: 1,
		Ranges:         splitFailRanges,
		LegendLabels:   splitFailLabels,
		LegendColors:   goodLowRamp,
	},
	types.MeasureOffPeakSplitFail: {
		Measure:        types.MeasureOffPeakSplitFail,
		Label:          "Off-Peak Split Failures",
		FormatType:     types.FormatPercent,
		FormatDecimals: 1,
		Ranges:         splitFailRanges,
		LegendLabels:   splitFailLabels,
		LegendColors:   goodLowRamp,
	},
	types.MeasureDetectorUp:    uptimeConfig(types.MeasureDetectorUp, "Detector Uptime"),
	types.MeasurePedDetectorUp: uptimeConfig(types.MeasurePedDetectorUp, "Pedestrian Pushbutton Uptime"),
	types.MeasureCCTVUp:        uptimeConfig(types.MeasureCCTVUp, "CCTV Uptime"),
	types.MeasureCommsUp:       uptimeConfig(types.MeasureCommsUp, "Communication Uptime"),
}

// MapConfigFor returns the scatter-map rendering config for the measure.
// Index measures (travel time, planning time) and the peak volume variants
// have no map rendering.
func MapConfigFor(m types.Measure) (MapConfig, bool) {
	cfg, ok := mapConfigs[m]
	return cfg, ok
}
