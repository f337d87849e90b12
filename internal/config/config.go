// Package config loads and validates the canvasdoc configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: CANVASDOC_CANVAS__MIN_ZOOM sets canvas.min_zoom.
const EnvPrefix = "CANVASDOC_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CANVASDOC_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps CANVASDOC_BUILD__MAX_CONCURRENCY to build.max_concurrency.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values. Zoom
// settings are not checked here; the site generator repairs and reports
// them instead.
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if filepath.Clean(c.ContentDir) == filepath.Clean(c.OutputDir) {
		return fmt.Errorf("output_dir must differ from content_dir")
	}
	if c.Build.MaxConcurrency < 0 {
		return fmt.Errorf("build.max_concurrency must be non-negative")
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("invalid serve.port %d", c.Serve.Port)
	}
	for _, p := range [...]struct{ name, path string }{
		{"assets.wasm_path", c.Assets.WASMPath},
		{"assets.wasm_exec_path", c.Assets.WASMExecPath},
	} {
		if p.path == "" {
			continue
		}
		if _, err := os.Stat(p.path); err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
	}
	return nil
}

// SiteTitle returns the configured title, falling back to the content
// directory name.
func (c *Config) SiteTitle() string {
	if c.Title != "" {
		return c.Title
	}
	abs, err := filepath.Abs(c.ContentDir)
	if err != nil {
		return c.ContentDir
	}
	return filepath.Base(abs)
}
