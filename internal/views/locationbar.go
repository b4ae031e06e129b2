package views

import (
	"math"
	"sort"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// BarItem is one horizontal bar in the ranked location chart.
type BarItem struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Text    string  `json:"text"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// BuildLocationBar ranks location averages ascending by value, assigns
// palette colors by sorted position, and dims every bar except the selected
// location. A nil selection leaves all bars at full opacity. Rows without a
// value are dropped.
func BuildLocationBar(measure types.Measure, avgs []types.LocationAvg, selected *string) []BarItem {
	percent := measure.Class() == types.FormatPercent

	ranked := make([]types.LocationAvg, 0, len(avgs))
	for _, a := range avgs {
		if a.Label == "" || math.IsNaN(a.Avg) {
			continue
		}
		ranked = append(ranked, a)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Avg < ranked[j].Avg
	})

	items := make([]BarItem, 0, len(ranked))
	for i, a := range ranked {
		v := a.Avg
		if percent {
			v = NormalizePercent(v)
		}
		opacity := OpacityFull
		if selected != nil && a.Label != *selected {
			opacity = OpacityDimmed
		}
		items = append(items, BarItem{
			Label:   a.Label,
			Value:   v,
			Text:    FormatValue(measure, v),
			Color:   TraceColor(i),
			Opacity: opacity,
		})
	}
	return items
}

// ToggleSelection implements click-to-select on the location bar: clicking
// the already-selected location clears the selection, clicking any other
// location moves it.
func ToggleSelection(current *string, clicked string) *string {
	if current != nil && *current == clicked {
		return nil
	}
	return &clicked
}
