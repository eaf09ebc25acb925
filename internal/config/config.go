// Package config loads the rpni configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for a configuration file.
const DefaultPath = "rpni.yaml"

// Config is the full application configuration.
type Config struct {
	Log    Log    `mapstructure:"log"`
	Traces Traces `mapstructure:"traces"`
	Store  Store  `mapstructure:"store"`
	Render Render `mapstructure:"render"`
	Server Server `mapstructure:"server"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

// Traces names the default trace files.
type Traces struct {
	Positive string `mapstructure:"positive"`
	Negative string `mapstructure:"negative"`
}

// Store selects where learning runs are kept.
type Store struct {
	// Backend is one of "memory", "file" or "redis".
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
	Redis   Redis  `mapstructure:"redis"`
}

type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Render controls graph output.
type Render struct {
	// Format is one of "mermaid", "dot" or "json".
	Format string  `mapstructure:"format"`
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

type Server struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Log: Log{Level: "info"},
		Traces: Traces{
			Positive: filepath.Join("res", "+"),
			Negative: filepath.Join("res", "-"),
		},
		Store: Store{
			Backend: "file",
			Dir:     filepath.Join(".rpni", "runs"),
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: "rpni:run:",
			},
		},
		Render: Render{
			Format: "mermaid",
			Width:  1200,
			Height: 800,
		},
		Server: Server{Addr: ":8080"},
	}
}

// Load reads the configuration file at path (YAML, or JSON by extension) over
// the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := Decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode maps loosely typed input onto cfg. Keys absent from raw keep their
// current value; durations may be given as strings such as "1h".
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Validate rejects unknown backends and formats.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Render.Format {
	case "mermaid", "dot", "json":
	default:
		return fmt.Errorf("unknown render format %q", c.Render.Format)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %vx%v", c.Render.Width, c.Render.Height)
	}
	return nil
}
