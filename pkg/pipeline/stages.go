package pipeline

import (
	"fmt"

	"github.com/matzehuels/flowbridge/pkg/layout"
	"github.com/matzehuels/flowbridge/pkg/manifest"
	"github.com/matzehuels/flowbridge/pkg/render"
)

// =============================================================================
// Load
// =============================================================================

// Load reads the manifest named by opts, fills an unset container from the
// defaults and applies the overrides.
func Load(opts Options) (*manifest.Manifest, error) {
	var (
		m   *manifest.Manifest
		err error
	)
	if opts.Path != "" {
		m, err = manifest.Load(opts.Path)
	} else {
		var format manifest.Format
		format, err = manifest.ParseFormat(opts.ManifestFormat)
		if err != nil {
			return nil, err
		}
		m, err = manifest.Parse([]byte(opts.Manifest), format)
	}
	if err != nil {
		return nil, err
	}

	if m.Container.Width == 0 {
		m.Container.Width = opts.DefaultWidth
	}
	if m.Container.Height == 0 {
		m.Container.Height = opts.DefaultHeight
	}
	if opts.Width > 0 {
		m.Container.Width = opts.Width
	}
	if opts.Height > 0 {
		m.Container.Height = opts.Height
	}
	return m, nil
}

// source names the manifest for logs and hooks.
func (o *Options) source() string {
	if o.Path != "" {
		return o.Path
	}
	return "inline:" + o.ManifestFormat
}

// =============================================================================
// Layout
// =============================================================================

// ComputeLayout translates and resolves every section of m.
func ComputeLayout(m *manifest.Manifest) layout.Layout {
	l := layout.Resolve(m.Bridge(), m, m.Environment())
	l.Name = m.Name
	return l
}

// =============================================================================
// Render
// =============================================================================

// RenderFromLayout renders l in every format of opts.
func RenderFromLayout(l layout.Layout, opts Options) (map[string][]byte, error) {
	l.Style = opts.Style
	ropts := opts.RenderOptions()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := render.Render(l, format, ropts...)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
