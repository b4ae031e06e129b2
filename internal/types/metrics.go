package types

import (
	"encoding/json"
	"math"
	"strconv"
)

// Signal is a registry entry for a signalized intersection, used to join
// per-signal metric rows onto map coordinates.
type Signal struct {
	ID             int     `json:"id"`
	SignalID       string  `json:"signalID"`
	Intersection   string  `json:"intersection"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Region         string  `json:"region"`
	Status         string  `json:"status"`
	MainStreetName string  `json:"mainStreetName"`
	SideStreetName string  `json:"sideStreetName"`
}

// HasCoordinates reports whether the signal can be placed on a map.
func (s Signal) HasCoordinates() bool {
	return s.Latitude != 0 && s.Longitude != 0 && s.SignalID != ""
}

// LocationAvg is one averaged-by-location row: a corridor (or, for per-signal
// averages, a signal ID) with its averaged value and delta from the prior period.
type LocationAvg struct {
	Label     string  `json:"label"`
	Avg       float64 `json:"avg"`
	Delta     float64 `json:"delta"`
	ZoneGroup *string `json:"zoneGroup"`
	Weight    float64 `json:"weight"`
}

// StraightAverage is a single aggregate value for a measure across the current
// filter scope. The endpoint returns either a bare number or an {avg, delta}
// object; both decode into this type. An unexpected shape yields NaN, which
// renders as "N/A" downstream instead of failing the section.
type StraightAverage struct {
	Avg   float64 `json:"avg"`
	Delta float64 `json:"delta"`
}

func (s *StraightAverage) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		s.Avg = n
		s.Delta = 0
		return nil
	}
	type alias StraightAverage
	var a alias
	if err := json.Unmarshal(data, &a); err == nil {
		*s = StraightAverage(a)
		return nil
	}
	s.Avg = math.NaN()
	s.Delta = math.NaN()
	return nil
}

// TrendRow is one point of a filtered time series, decoded from the open row
// shape at the gateway boundary: the common dimensions plus the single
// measure-specific value field.
type TrendRow struct {
	Corridor  string
	ZoneGroup string
	Month     string
	Value     float64
}

// HealthRow is one region-health row. The "percent Health" field arrives from
// the API as either a string or a number.
type HealthRow struct {
	ZoneGroup     string       `json:"zone_Group"`
	Corridor      string       `json:"corridor"`
	Month         string       `json:"month"`
	PercentHealth FlexibleFloat `json:"percent Health"`
}

// FlexibleFloat decodes a JSON number or a numeric string. Anything else
// decodes to NaN rather than failing the row.
type FlexibleFloat float64

func (f *FlexibleFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*f = FlexibleFloat(v)
			return nil
		}
	}
	*f = FlexibleFloat(math.NaN())
	return nil
}

// RegionAverage is a zone group's month-average health scores. The endpoint
// returns a bare three-element array [operations, maintenance, safety] on the
// 0..1 scale with -1 marking a missing score.
type RegionAverage struct {
	Operations  float64
	Maintenance float64
	Safety      float64
}

func (r *RegionAverage) UnmarshalJSON(data []byte) error {
	var vals []float64
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	get := func(i int) float64 {
		if i < len(vals) {
			return vals[i]
		}
		return -1
	}
	r.Operations = get(0)
	r.Maintenance = get(1)
	r.Safety = get(2)
	return nil
}

// Percentages maps the raw scores onto 0..100, folding the -1 missing marker
// to zero.
func (r RegionAverage) Percentages() RegionAverage {
	scale := func(v float64) float64 {
		if v == -1 {
			return 0
		}
		return v * 100
	}
	return RegionAverage{
		Operations:  scale(r.Operations),
		Maintenance: scale(r.Maintenance),
		Safety:      scale(r.Safety),
	}
}

// SummaryTrendPoint is one point of a summary-trend series.
type SummaryTrendPoint struct {
	Month   string  `json:"month"`
	Average float64 `json:"average"`
}

// SummaryTrends is the summary-trend bundle keyed by measure code.
type SummaryTrends map[Measure][]SummaryTrendPoint

// WatchdogParams is the request body for the watchdog data endpoint.
type WatchdogParams struct {
	StartDate          string `json:"startDate"`
	EndDate            string `json:"endDate"`
	Alert              string `json:"alert"`
	Phase              string `json:"phase"`
	IntersectionFilter string `json:"intersectionFilter"`
	Streak             string `json:"streak"`
	ZoneGroup          string `json:"zoneGroup"`
}

// WatchdogTableRow is one row of the watchdog alert table.
type WatchdogTableRow struct {
	ZoneGroup   string `json:"zoneGroup"`
	Zone        string `json:"zone"`
	Corridor    string `json:"corridor"`
	SignalID    string `json:"signalID"`
	Name        string `json:"name"`
	Alert       string `json:"alert"`
	Occurrences int    `json:"occurrences"`
	Streak      int    `json:"streak"`
	Date        string `json:"date"`
}

// WatchdogData is the heatmap plus table payload for equipment-alert monitoring.
type WatchdogData struct {
	X         []string           `json:"x"`
	Y         []string           `json:"y"`
	Z         [][]float64        `json:"z"`
	TableData []WatchdogTableRow `json:"tableData"`
}
