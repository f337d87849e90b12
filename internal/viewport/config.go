package viewport

import (
	"math"
	"strconv"
	"strings"
)

// Config is the controller configuration a rendered container carries in
// its data attributes.
type Config struct {
	Interactive       bool
	InitialZoom       float64
	Limits            Limits
	DefaultFullscreen bool
}

// ParseConfig reads the container attributes through attr. Missing,
// unparseable or zero zoom values fall back to the defaults; interaction
// is on unless explicitly disabled.
func ParseConfig(attr func(name string) string) Config {
	return Config{
		Interactive: attr("data-enable-interaction") != "false",
		InitialZoom: parseZoom(attr("data-initial-zoom"), DefaultInitialZoom),
		Limits: Limits{
			Min: parseZoom(attr("data-min-zoom"), DefaultMinZoom),
			Max: parseZoom(attr("data-max-zoom"), DefaultMaxZoom),
		},
		DefaultFullscreen: attr("data-default-fullscreen") == "true",
	}
}

func parseZoom(s string, def float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// parsePx reads a CSS pixel length such as "600px".
func parsePx(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "px")), 64)
	if err != nil {
		return 0
	}
	return v
}
