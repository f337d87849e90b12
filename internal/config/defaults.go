package config

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = ".canvasdoc.yml"

// DefaultExcludes are glob patterns excluded from the site by default.
var DefaultExcludes = []string{
	"**/_*",
	"**/*.excalidraw.md",
	"templates/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ContentDir: "content",
		OutputDir:  "public",
		Include:    []string{"**"},
		Exclude:    DefaultExcludes,
		Canvas: CanvasConfig{
			InitialZoom: 1,
			MinZoom:     0.1,
			MaxZoom:     5,
		},
		Build: BuildConfig{
			MaxConcurrency: 5,
			Incremental:    true,
		},
		Serve: ServeConfig{
			Port: 8080,
		},
	}
}
