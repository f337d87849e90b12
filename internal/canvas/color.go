package canvas

import "strings"

// Color is either a preset key "1" through "6" or a "#RRGGBB" hex string.
type Color string

// PresetColors maps the six preset keys to their CSS colors.
var PresetColors = map[Color]string{
	"1": "#fb464c", // red
	"2": "#e9973f", // orange
	"3": "#e0de71", // yellow
	"4": "#44cf6e", // green
	"5": "#53dfdd", // cyan
	"6": "#a882ff", // purple
}

// ResolveColor turns c into a CSS color. Hex values pass through unchanged,
// preset keys go through PresetColors, and anything else resolves to no
// color so the caller can fall back to a theme default.
func ResolveColor(c Color) (string, bool) {
	if c == "" {
		return "", false
	}
	if strings.HasPrefix(string(c), "#") {
		return string(c), true
	}
	css, ok := PresetColors[c]
	return css, ok
}
