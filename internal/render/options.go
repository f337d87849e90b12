package render

import (
	"fmt"
	"strings"
)

// Default viewport settings.
const (
	DefaultInitialZoom = 1.0
	DefaultMinZoom     = 0.1
	DefaultMaxZoom     = 5.0
)

// Options configures Render. The zoom values are written to the markup
// verbatim and become the controller's initial state.
type Options struct {
	// EnableInteraction turns on pan/zoom input handling. Nil means true.
	EnableInteraction *bool
	InitialZoom       float64
	MinZoom           float64
	MaxZoom           float64
	DefaultFullscreen bool

	// FileHref maps a file node reference to the href of its page.
	// Nil links to "/" + the reference without its ".md" suffix.
	FileHref func(file string) string
}

// Interactive reports whether pan/zoom input is enabled.
func (o Options) Interactive() bool {
	return o.EnableInteraction == nil || *o.EnableInteraction
}

// WithDefaults fills zero zoom values with the package defaults.
func (o Options) WithDefaults() Options {
	if o.InitialZoom == 0 {
		o.InitialZoom = DefaultInitialZoom
	}
	if o.MinZoom == 0 {
		o.MinZoom = DefaultMinZoom
	}
	if o.MaxZoom == 0 {
		o.MaxZoom = DefaultMaxZoom
	}
	return o
}

// Sanitize applies defaults and repairs nonsensical zoom bounds. Negative
// values fall back to the defaults, an inverted range is swapped and the
// initial zoom is clamped into range. Each adjustment is described in the
// returned warnings so the caller can log them; Render itself never
// validates.
func (o Options) Sanitize() (Options, []string) {
	var warnings []string
	fix := func(name string, v *float64, def float64) {
		if *v < 0 {
			warnings = append(warnings, fmt.Sprintf("%s %g is not positive, using %g", name, *v, def))
			*v = def
		}
	}
	fix("initial_zoom", &o.InitialZoom, DefaultInitialZoom)
	fix("min_zoom", &o.MinZoom, DefaultMinZoom)
	fix("max_zoom", &o.MaxZoom, DefaultMaxZoom)
	o = o.WithDefaults()

	if o.MinZoom > o.MaxZoom {
		warnings = append(warnings, fmt.Sprintf("min_zoom %g exceeds max_zoom %g, swapping", o.MinZoom, o.MaxZoom))
		o.MinZoom, o.MaxZoom = o.MaxZoom, o.MinZoom
	}
	if o.InitialZoom < o.MinZoom || o.InitialZoom > o.MaxZoom {
		clamped := min(max(o.InitialZoom, o.MinZoom), o.MaxZoom)
		warnings = append(warnings, fmt.Sprintf("initial_zoom %g outside [%g, %g], using %g", o.InitialZoom, o.MinZoom, o.MaxZoom, clamped))
		o.InitialZoom = clamped
	}
	return o, warnings
}

func (o Options) fileHref(file string) string {
	if o.FileHref != nil {
		return o.FileHref(file)
	}
	return "/" + FileSlug(file)
}

// FileSlug strips the trailing ".md" from a file node reference.
func FileSlug(file string) string {
	return strings.TrimSuffix(file, ".md")
}
