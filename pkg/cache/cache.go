// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
// Every backend implements [Cache]:
//
//   - [NullCache] stores nothing. Use it to disable caching.
//   - [FileCache] stores entries as JSON files for the CLI.
//   - [RedisCache] and [MongoCache] share a cache between API replicas.
//
// [Open] builds the backend named in a [config.CacheConfig] and wraps it in
// an [Instrumented] cache that reports hits and misses to the registered
// observability hooks.
//
// # Keys
//
// Keys are built by a [Keyer]. A layout key hashes the manifest together
// with the container it is laid out in; an artifact key hashes the layout
// together with its render options. [NewScopedKeyer] prefixes keys so
// tenants sharing a Redis or MongoDB backend cannot read each other's
// entries.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte store with per-entry expiry. A ttl of zero never expires.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Key prefixes. The prefix before the first ':' is the key type reported
// to observability hooks.
const (
	PrefixLayout   = "layout"
	PrefixArtifact = "artifact"
)

// LayoutKeyOpts are the inputs besides the manifest that change a layout.
type LayoutKeyOpts struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ArtifactKeyOpts are the inputs besides the layout that change an artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style"`
	Scale  float64 `json:"scale,omitempty"`
	Labels bool    `json:"labels,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	LayoutKey(manifestHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey returns "layout:<hash>".
func (k *DefaultKeyer) LayoutKey(manifestHash string, opts LayoutKeyOpts) string {
	return hashKey(PrefixLayout, manifestHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(PrefixArtifact, layoutHash, opts)
}

// KeyType returns the type segment of key, skipping any scope prefix.
// Unknown keys report "other".
func KeyType(key string) string {
	for _, part := range strings.Split(key, ":") {
		switch part {
		case PrefixLayout, PrefixArtifact:
			return part
		}
	}
	return "other"
}

var _ Keyer = (*DefaultKeyer)(nil)
