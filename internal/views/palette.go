package views

// tracePalette is the 10-color cycle assigned to chart traces by position.
var tracePalette = [...]string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#7f7f7f",
	"#bcbd22",
	"#17becf",
}

// Marker opacities for the selected/dimmed location bar states.
const (
	OpacityFull   = 1.0
	OpacityDimmed = 0.5
)

// TraceColor returns the palette color for the i-th trace, cycling when more
// traces than colors exist.
func TraceColor(i int) string {
	if i < 0 {
		i = -i
	}
	return tracePalette[i%len(tracePalette)]
}
