// Package config provides TOML-based configuration for flowbridge.
//
// Configuration is optional. When no file exists, [DefaultConfig] is used.
// Values are read in this order, later sources winning:
//
//  1. Built-in defaults
//  2. $XDG_CONFIG_HOME/flowbridge/config.toml (or ~/.config/flowbridge/config.toml)
//  3. FLOWBRIDGE_* environment variables
//
// Example file:
//
//	[log]
//	level = "debug"
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//	redis_addr = "localhost:6379"
//
//	[layout]
//	width = 390
//	height = 844
//	style = "outline"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
package config

import (
	"fmt"
	"time"

	"github.com/matzehuels/flowbridge/pkg/errors"
)

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config is the root configuration.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Cache  CacheConfig  `toml:"cache"`
	Layout LayoutConfig `toml:"layout"`
	Server ServerConfig `toml:"server"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// CacheConfig selects and configures the layout cache backend.
type CacheConfig struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// LayoutConfig holds defaults applied when a manifest or request leaves a
// value unset.
type LayoutConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Style  string  `toml:"style"`
	Scale  float64 `toml:"scale"`
}

// ServerConfig configures `flowbridge serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	case BackendMongo:
		if err := errors.ValidateURI(c.Cache.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.mongo_uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}

	for field, v := range map[string]float64{
		"layout.width":  c.Layout.Width,
		"layout.height": c.Layout.Height,
		"layout.scale":  c.Layout.Scale,
	} {
		if err := errors.ValidateDimension(field, v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", field)
		}
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown log level %q", c.Log.Level)
	}
	return nil
}

// Duration wraps time.Duration with TOML-friendly string parsing.
// Supports standard Go duration strings: "1s", "30s", "5m", "1h", "15m", etc.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %q not allowed", s)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML serialization.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
