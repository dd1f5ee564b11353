// Package config loads the optional dxfsvg configuration file.
//
// The file is TOML. Every key is optional; missing keys keep their defaults
// and command-line flags override both.
//
//	[render]
//	font_family = "Arial"
//	max_block_depth = 64
//	formats = ["svg"]
//	png_scale = 2.0
//
//	[cache]
//	backend = "file"        # file, redis or none
//	dir = "~/.cache/dxfsvg"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
//	max_upload_mb = 64
//	read_timeout = "30s"
//	render_timeout = "60s"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dxfsvg/pkg/errors"
)

// AppName names the configuration and cache directories.
const AppName = "dxfsvg"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the whole configuration file.
type Config struct {
	Render Render `toml:"render"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Render holds defaults for rendering.
type Render struct {
	FontFamily    string   `toml:"font_family"`
	MaxBlockDepth int      `toml:"max_block_depth"`
	Formats       []string `toml:"formats"`
	PNGScale      float64  `toml:"png_scale"`
	Codepage      string   `toml:"codepage"`
}

// Cache selects and configures the artifact cache.
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	Prefix   string   `toml:"prefix"`
	TTL      Duration `toml:"ttl"`
}

// Server configures the HTTP service.
type Server struct {
	Addr          string   `toml:"addr"`
	MaxUploadMB   int64    `toml:"max_upload_mb"`
	ReadTimeout   Duration `toml:"read_timeout"`
	RenderTimeout Duration `toml:"render_timeout"`
}

// Duration is a time.Duration written as a string ("30s", "2h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: Render{
			Formats:  []string{"svg"},
			PNGScale: 2,
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Server: Server{
			Addr:          ":8080",
			MaxUploadMB:   64,
			ReadTimeout:   Duration{30 * time.Second},
			RenderTimeout: Duration{60 * time.Second},
		},
	}
}

// Load reads path over the defaults. An empty path tries [DefaultPath] and
// silently keeps the defaults when that file does not exist; an explicit
// path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be checked by type alone.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend %q (valid: file, redis, none)", c.Cache.Backend)
	}
	if len(c.Render.Formats) > 0 {
		if err := errors.ValidateFormats(c.Render.Formats); err != nil {
			return err
		}
	}
	if err := errors.ValidateCodepage(c.Render.Codepage); err != nil {
		return err
	}
	if c.Render.MaxBlockDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render.max_block_depth must not be negative")
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max_upload_mb must be positive")
	}
	c.Cache.Dir = expandHome(c.Cache.Dir)
	return nil
}

// CacheDir returns the configured cache directory, or the XDG default
// (~/.cache/dxfsvg).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// DefaultPath returns $XDG_CONFIG_HOME/dxfsvg/config.toml, falling back to
// ~/.config/dxfsvg/config.toml.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
