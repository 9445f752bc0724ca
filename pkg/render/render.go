package render

import (
	"fmt"
	"slices"

	"github.com/matzehuels/flowbridge/pkg/layout"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatTree = "tree" // the DOT hierarchy rendered to SVG
)

// Formats lists every supported format.
var Formats = []string{FormatSVG, FormatPNG, FormatJSON, FormatDOT, FormatTree}

// ValidFormat reports whether format is supported.
func ValidFormat(format string) bool {
	return slices.Contains(Formats, format)
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatTree:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

// Option configures rendering.
type Option func(*options)

type options struct {
	style  Style
	scale  float64
	labels bool
}

// WithStyle sets the visual style (default Simple).
func WithStyle(s Style) Option { return func(o *options) { o.style = s } }

// WithScale sets the PNG scale factor (default 1).
func WithScale(s float64) Option { return func(o *options) { o.scale = s } }

// WithLabels draws item indices and section names.
func WithLabels() Option { return func(o *options) { o.labels = true } }

func newOptions(opts ...Option) options {
	o := options{style: Simple{}, scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.style == nil {
		o.style = Simple{}
	}
	if o.scale <= 0 {
		o.scale = 1
	}
	return o
}

// Render renders l in the given format.
func Render(l layout.Layout, format string, opts ...Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(l, opts...), nil
	case FormatPNG:
		return RenderPNG(l, opts...)
	case FormatJSON:
		return RenderJSON(l)
	case FormatDOT:
		return []byte(ToDOT(l)), nil
	case FormatTree:
		return RenderTree(l)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// RenderJSON writes the layout as indented JSON.
func RenderJSON(l layout.Layout) ([]byte, error) {
	return layout.Marshal(l)
}

// label returns the text drawn on a frame, or "" for none.
func label(f layout.Frame, s layout.Section) string {
	switch f.Kind {
	case layout.KindItem:
		return fmt.Sprint(f.Item)
	case layout.KindHeader:
		if s.Name != "" {
			return s.Name
		}
		return fmt.Sprintf("section %d", s.Index)
	}
	return ""
}
