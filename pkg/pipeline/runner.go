package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/flowbridge/pkg/cache"
	"github.com/matzehuels/flowbridge/pkg/layout"
	"github.com/matzehuels/flowbridge/pkg/manifest"
	"github.com/matzehuels/flowbridge/pkg/observability"
)

// Runner executes the pipeline with caching. The CLI and the API share it.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides cache.TTLLayout and cache.TTLArtifact when positive.
	TTL time.Duration
}

// NewRunner creates a runner. A nil keyer is a DefaultKeyer, a nil cache is
// a NullCache and a nil logger is log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → layout → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	m, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Manifest = m
	result.Stats.LoadTime = time.Since(loadStart)
	result.ManifestHash = ManifestHash(m)

	r.Logger.Info("loaded manifest",
		"source", opts.source(),
		"sections", len(m.Sections),
		"items", m.ItemCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, m, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Sections = len(l.Sections)
	result.Stats.Items = l.ItemCount()
	for _, s := range l.Sections {
		result.Stats.Rows += s.Rows
	}
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"id", l.ID,
		"items", result.Stats.Items,
		"content_height", l.ContentHeight,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the manifest and reports the load to the pipeline hooks.
func (r *Runner) Load(ctx context.Context, opts Options) (*manifest.Manifest, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	src := opts.source()
	hooks.OnLoadStart(ctx, src)

	start := time.Now()
	m, err := Load(opts)
	sections := 0
	if m != nil {
		sections = len(m.Sections)
	}
	hooks.OnLoadComplete(ctx, src, sections, time.Since(start), err)
	return m, err
}

// LayoutWithCacheInfo computes the layout of m, reporting whether it came
// from the cache. Fresh layouts get a new ID; cached ones keep theirs.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, m *manifest.Manifest, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(m.Sections))
	start := time.Now()

	key := r.Keyer.LayoutKey(ManifestHash(m), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := layout.Unmarshal(data); err == nil {
				hooks.OnLayoutComplete(ctx, len(cached.Sections), cached.ItemCount(), time.Since(start), nil)
				return cached, true, nil
			}
			opts.Logger.Debug("discarding unreadable cached layout", "key", key)
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "key", key, "err", err)
		}
	}

	l := ComputeLayout(m)
	l.ID = uuid.NewString()

	if data, err := layout.Marshal(l); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLLayout)); err != nil {
			opts.Logger.Warn("cache write failed", "key", key, "err", err)
		}
	}

	hooks.OnLayoutComplete(ctx, len(l.Sections), l.ItemCount(), time.Since(start), nil)
	return l, false, nil
}

// Layout is LayoutWithCacheInfo without the cache hit flag.
func (r *Runner) Layout(ctx context.Context, m *manifest.Manifest, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, m, opts)
	return l, err
}

// RenderWithCacheInfo renders l in every requested format. The hit flag is
// true only when every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	hash, err := layoutHash(l)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
			return artifacts, true, nil
		}
	}

	rendered, err := RenderFromLayout(l, opts)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err != nil {
			opts.Logger.Warn("cache write failed", "key", key, "err", err)
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache hit flag.
func (r *Runner) Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(fallback time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return fallback
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// ManifestHash hashes the canonical JSON form of m, so the same collection
// written in YAML, TOML or JSON shares cache entries.
func ManifestHash(m *manifest.Manifest) string {
	data, _ := m.Encode(manifest.FormatJSON)
	return cache.Hash(data)
}

// layoutHash hashes l without its ID.
func layoutHash(l layout.Layout) (string, error) {
	l.ID = ""
	data, err := layout.Marshal(l)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
