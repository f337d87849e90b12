package config

// Config is the top-level canvasdoc configuration, corresponding to .canvasdoc.yml.
type Config struct {
	Title      string       `yaml:"title" koanf:"title"`
	Logo       string       `yaml:"logo" koanf:"logo"`
	ContentDir string       `yaml:"content_dir" koanf:"content_dir"`
	OutputDir  string       `yaml:"output_dir" koanf:"output_dir"`
	Include    []string     `yaml:"include" koanf:"include"`
	Exclude    []string     `yaml:"exclude" koanf:"exclude"`
	Canvas     CanvasConfig `yaml:"canvas" koanf:"canvas"`
	Build      BuildConfig  `yaml:"build" koanf:"build"`
	Assets     AssetsConfig `yaml:"assets" koanf:"assets"`
	Serve      ServeConfig  `yaml:"serve" koanf:"serve"`
}

// CanvasConfig holds the viewport settings written into every canvas page.
type CanvasConfig struct {
	// EnableInteraction turns pan and zoom on. Unset means enabled.
	EnableInteraction *bool   `yaml:"enable_interaction,omitempty" koanf:"enable_interaction"`
	InitialZoom       float64 `yaml:"initial_zoom" koanf:"initial_zoom"`
	MinZoom           float64 `yaml:"min_zoom" koanf:"min_zoom"`
	MaxZoom           float64 `yaml:"max_zoom" koanf:"max_zoom"`
	DefaultFullscreen bool    `yaml:"default_fullscreen" koanf:"default_fullscreen"`
}

// Interactive reports whether pan and zoom are enabled.
func (c CanvasConfig) Interactive() bool {
	return c.EnableInteraction == nil || *c.EnableInteraction
}

// BuildConfig tunes the site generator.
type BuildConfig struct {
	MaxConcurrency int  `yaml:"max_concurrency" koanf:"max_concurrency"`
	Incremental    bool `yaml:"incremental" koanf:"incremental"`
}

// AssetsConfig locates the browser controller bundle. When WASMExecPath is
// empty the Go installation's wasm_exec.js is used if it can be found.
type AssetsConfig struct {
	WASMPath     string `yaml:"wasm_path" koanf:"wasm_path"`
	WASMExecPath string `yaml:"wasm_exec_path" koanf:"wasm_exec_path"`
}

// ServeConfig holds dev server settings.
type ServeConfig struct {
	Port int `yaml:"port" koanf:"port"`
}
