// Package pipeline runs the load → layout → render pipeline shared by the
// CLI and the HTTP API.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Load: read a manifest from a file or from inline bytes
//  2. Layout: translate every section and resolve it into frames
//  3. Render: draw the layout in the requested formats
//
// Layout and render results are cached by content hash, so laying out the
// same manifest twice, or rendering the same layout twice, is a cache hit.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "collection.yaml",
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowbridge/pkg/cache"
	"github.com/matzehuels/flowbridge/pkg/config"
	"github.com/matzehuels/flowbridge/pkg/errors"
	"github.com/matzehuels/flowbridge/pkg/layout"
	"github.com/matzehuels/flowbridge/pkg/manifest"
	"github.com/matzehuels/flowbridge/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultStyle is the default visual style.
	DefaultStyle = layout.StyleSimple

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 1.0

	// MaxScale bounds the PNG scale factor.
	MaxScale = 8.0

	// DefaultManifestFormat is assumed for inline manifests without a format.
	DefaultManifestFormat = manifest.FormatYAML
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It doubles as the JSON body of API
// requests.
type Options struct {
	// Load options. Path is used by the CLI; API requests send the manifest
	// inline.
	Path           string `json:"-"`
	Manifest       string `json:"manifest,omitempty"`
	ManifestFormat string `json:"manifest_format,omitempty"`

	// Layout options. A non-zero Width or Height overrides the manifest's
	// container.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// DefaultWidth and DefaultHeight fill a container dimension the
	// manifest leaves at zero. They come from configuration.
	DefaultWidth  float64 `json:"-"`
	DefaultHeight float64 `json:"-"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Labels  bool     `json:"labels,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Manifest     *manifest.Manifest
	ManifestHash string
	Layout       layout.Layout
	Artifacts    map[string][]byte
	Stats        Stats
	CacheInfo    CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Sections   int
	Items      int
	Rows       int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !render.ValidFormat(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(render.Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style exists.
func ValidateStyle(style string) error {
	if style != layout.StyleSimple && style != layout.StyleOutline {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: %s, %s)", style, layout.StyleSimple, layout.StyleOutline)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every stage's options and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that exactly one manifest source is set.
func (o *Options) ValidateForLoad() error {
	switch {
	case o.Path == "" && o.Manifest == "":
		return errors.New(errors.ErrCodeInvalidInput, "a manifest path or inline manifest is required")
	case o.Path != "" && o.Manifest != "":
		return errors.New(errors.ErrCodeInvalidInput, "set either a manifest path or an inline manifest, not both")
	}
	if o.Manifest != "" && o.ManifestFormat == "" {
		o.ManifestFormat = string(DefaultManifestFormat)
	}
	o.setLogger()
	return nil
}

// ValidateForLayout checks the container overrides.
func (o *Options) ValidateForLayout() error {
	for field, v := range map[string]float64{"width": o.Width, "height": o.Height} {
		if err := errors.ValidateDimension(field, v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s override", field)
		}
	}
	o.setLogger()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %g] (got %g)", MaxScale, o.Scale)
	}
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ApplyConfig fills unset options from the configured layout defaults.
func (o *Options) ApplyConfig(lc config.LayoutConfig) {
	if o.DefaultWidth == 0 {
		o.DefaultWidth = lc.Width
	}
	if o.DefaultHeight == 0 {
		o.DefaultHeight = lc.Height
	}
	if o.Style == "" {
		o.Style = lc.Style
	}
	if o.Scale == 0 {
		o.Scale = lc.Scale
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Width: o.Width, Height: o.Height}
}

// ArtifactKeyOpts returns cache key options for rendering one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Style: o.Style, Labels: o.Labels}
	if format == render.FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

// RenderOptions converts the options to render options.
func (o *Options) RenderOptions() []render.Option {
	style, err := render.StyleByName(o.Style)
	if err != nil {
		style = render.Simple{}
	}
	opts := []render.Option{render.WithStyle(style), render.WithScale(o.Scale)}
	if o.Labels {
		opts = append(opts, render.WithLabels())
	}
	return opts
}
