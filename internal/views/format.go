package views

import (
	"fmt"
	"math"
	"strconv"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// Unavailable is displayed wherever a value is missing or not a number.
const Unavailable = "N/A"

// NormalizePercent coerces a percent-class value onto the 0..1 scale. Some
// upstream endpoints report percents as 45.0 and others as 0.45; any value
// above 1 is treated as a 0..100 reading.
func NormalizePercent(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	if v > 1 {
		return v / 100
	}
	return v
}

// FormatValue renders a metric value for display according to the measure's
// format class: percents as "87.3%", counts rounded with thousands
// separators, ratios with two decimals. NaN renders as N/A.
func FormatValue(m types.Measure, v float64) string {
	return formatClass(m.Class(), 1, v)
}

// FormatTooltipValue renders a value for scatter-map tooltips using the map
// config's format type and decimal count.
func FormatTooltipValue(cfg MapConfig, v float64) string {
	return formatClass(cfg.FormatType, cfg.FormatDecimals, v)
}

func formatClass(class types.FormatClass, decimals int, v float64) string {
	if math.IsNaN(v) {
		return Unavailable
	}
	switch class {
	case types.FormatPercent:
		return fmt.Sprintf("%.*f%%", decimals, NormalizePercent(v)*100)
	case types.FormatRatio:
		return strconv.FormatFloat(v, 'f', 2, 64)
	default:
		return groupDigits(int64(math.Round(v)))
	}
}

// groupDigits renders n with comma thousands separators.
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) > 3 {
		out := make([]byte, 0, len(s)+len(s)/3)
		lead := len(s) % 3
		if lead == 0 {
			lead = 3
		}
		out = append(out, s[:lead]...)
		for i := lead; i < len(s); i += 3 {
			out = append(out, ',')
			out = append(out, s[i:i+3]...)
		}
		s = string(out)
	}
	if neg {
		return "-" + s
	}
	return s
}
