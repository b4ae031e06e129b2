package types

// Measure is the short code identifying which metric is requested from the
// metrics API (e.g. "tp" for throughput, "aogd" for arrivals on green daily).
type Measure string

const (
	MeasureThroughput        Measure = "tp"
	MeasureArrivalsOnGreen   Measure = "aogd"
	MeasureProgressionRatio  Measure = "prd"
	MeasureQueueSpillback    Measure = "qsd"
	MeasurePeakSplitFail     Measure = "sfd"
	MeasureOffPeakSplitFail  Measure = "sfo"
	MeasureTravelTimeIndex   Measure = "tti"
	MeasurePlanningTimeIndex Measure = "pti"

	MeasureDailyVolume   Measure = "vpd"
	MeasureAMPeakVolume  Measure = "vphpa"
	MeasurePMPeakVolume  Measure = "vphpp"
	MeasurePedActivity   Measure = "papd"
	MeasureDetectorUp    Measure = "du"
	MeasurePedDetectorUp Measure = "pau"
	MeasureCCTVUp        Measure = "cctv"
	MeasureCommsUp       Measure = "cu"

	// Corridor health-score plots served by the historical trend endpoint.
	MeasureMaintenancePlot Measure = "maint_plot"
	MeasureOperationsPlot  Measure = "ops_plot"
	MeasureSafetyPlot      Measure = "safety_plot"
)

// PerformanceMeasures is the fixed measure set for the dashboard performance table.
var PerformanceMeasures = []Measure{
	MeasureThroughput,
	MeasureArrivalsOnGreen,
	MeasureProgressionRatio,
	MeasureQueueSpillback,
	MeasurePeakSplitFail,
	MeasureOffPeakSplitFail,
	MeasureTravelTimeIndex,
	MeasurePlanningTimeIndex,
}

// VolumeMeasures is the fixed measure set for the dashboard volume/equipment table.
var VolumeMeasures = []Measure{
	MeasureDailyVolume,
	MeasureAMPeakVolume,
	MeasurePMPeakVolume,
	MeasurePedActivity,
	MeasureDetectorUp,
	MeasurePedDetectorUp,
	MeasureCCTVUp,
	MeasureCommsUp,
}

// MaintenanceMeasures is the selectable measure set on the maintenance page.
var MaintenanceMeasures = []Measure{
	MeasureDetectorUp,
	MeasurePedActivity,
	MeasurePedDetectorUp,
	MeasureCCTVUp,
	MeasureCommsUp,
}

// OperationsMeasures is the selectable measure set on the operations page.
var OperationsMeasures = []Measure{
	MeasureDailyVolume,
	MeasureThroughput,
	MeasureArrivalsOnGreen,
	MeasureProgressionRatio,
	MeasureQueueSpillback,
	MeasurePeakSplitFail,
	MeasureOffPeakSplitFail,
	MeasureTravelTimeIndex,
	MeasurePlanningTimeIndex,
}

// measureLabels maps measure codes to display labels.
var measureLabels = map[Measure]string{
	MeasureProgressionRatio:  "Progression Ratio",
	MeasurePeakSplitFail:     "Peak Period Split Failures",
	MeasureArrivalsOnGreen:   "Arrivals on Green",
	MeasureThroughput:        "Throughput",
	MeasureQueueSpillback:    "Queue Spillback Ratio",
	MeasureOffPeakSplitFail:  "Off Peak Split Failures",
	MeasureTravelTimeIndex:   "Travel Time Index",
	MeasurePlanningTimeIndex: "Planning Time Index",
	MeasureDailyVolume:       "Traffic Volume",
	MeasurePMPeakVolume:      "PM Peak Volume",
	MeasureAMPeakVolume:      "AM Peak Volume",
	MeasurePedActivity:       "Pedestrian Activations",
	MeasureDetectorUp:        "Vehicle Detector Uptime",
	MeasurePedDetectorUp:     "Pedestrian Detector Uptime",
	MeasureCCTVUp:            "CCTV Uptime",
	MeasureCommsUp:           "Communications Uptime",
}

// Label returns the display label for the measure, or the raw code when the
// measure is unknown.
func (m Measure) Label() string {
	if l, ok := measureLabels[m]; ok {
		return l
	}
	return string(m)
}

// FormatClass describes how a measure's values are formatted and normalized.
type FormatClass int

const (
	FormatCount   FormatClass = iota // rounded, thousands separators
	FormatPercent                    // 0-1 fraction rendered as percent
	FormatRatio                      // two-decimal ratio/index
)

// Class returns the formatting taxonomy for the measure.
func (m Measure) Class() FormatClass {
	switch m {
	case MeasureArrivalsOnGreen, MeasureQueueSpillback, MeasurePeakSplitFail,
		MeasureOffPeakSplitFail, MeasureDetectorUp, MeasurePedDetectorUp,
		MeasureCCTVUp, MeasureCommsUp:
		return FormatPercent
	case MeasureThroughput, MeasureDailyVolume, MeasureAMPeakVolume,
		MeasurePMPeakVolume, MeasurePedActivity:
		return FormatCount
	default:
		return FormatRatio
	}
}

// Unit returns the display unit suffix for the measure ("vph", "vpd", "%", or "").
func (m Measure) Unit() string {
	switch m {
	case MeasureThroughput, MeasurePMPeakVolume, MeasureAMPeakVolume:
		return "vph"
	case MeasureDailyVolume:
		return "vpd"
	case MeasureArrivalsOnGreen, MeasureQueueSpillback, MeasurePeakSplitFail,
		MeasureOffPeakSplitFail, MeasureDetectorUp, MeasurePedDetectorUp,
		MeasureCCTVUp, MeasureCommsUp:
		return "%"
	default:
		return ""
	}
}

// ValueField returns the measure-specific value key used in filtered-series
// rows returned by the metrics API.
func (m Measure) ValueField() string {
	switch m {
	case MeasureDailyVolume:
		return "vpd"
	case MeasureThroughput:
		return "vph"
	case MeasureArrivalsOnGreen:
		return "aog"
	case MeasureProgressionRatio:
		return "pr"
	case MeasureQueueSpillback:
		return "qs_freq"
	case MeasurePeakSplitFail, MeasureOffPeakSplitFail:
		return "sf_freq"
	case MeasureTravelTimeIndex:
		return "tti"
	case MeasurePlanningTimeIndex:
		return "pti"
	case MeasureDetectorUp, MeasurePedDetectorUp, MeasureCCTVUp, MeasureCommsUp:
		return "uptime"
	case MeasurePedActivity:
		return "papd"
	default:
		return string(m)
	}
}

// KnownMeasure reports whether m is one of the measure codes this service
// requests. Handler input validation uses it to reject arbitrary codes.
func KnownMeasure(m Measure) bool {
	_, ok := measureLabels[m]
	return ok
}
