package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/flowbridge/pkg/layout"
)

// Style defines the visual appearance of a rendered layout.
type Style interface {
	// Name is the style's configuration name.
	Name() string
	// Paint returns how a frame of section is drawn.
	Paint(f layout.Frame, section int) Paint
}

// Paint is the resolved appearance of one frame. Colors are "#rrggbb";
// an empty Fill draws no fill.
type Paint struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Dashed      bool
}

var palette = []string{"#4e79a7", "#f28e2b", "#59a14f", "#e15759", "#76b7b2", "#edc948", "#b07aa1"}

const (
	boundaryFill = "#d9d9d9"
	strokeColor  = "#333333"
	textColor    = "#ffffff"
	background   = "#ffffff"
)

func sectionColor(section int) string {
	return palette[section%len(palette)]
}

// Simple fills items with a per-section color and boundary items in grey.
type Simple struct{}

func (Simple) Name() string { return layout.StyleSimple }

func (Simple) Paint(f layout.Frame, section int) Paint {
	switch f.Kind {
	case layout.KindHeader, layout.KindFooter:
		return Paint{Fill: boundaryFill, Stroke: strokeColor, StrokeWidth: 1}
	case layout.KindPlaceholder:
		return Paint{Stroke: sectionColor(section), StrokeWidth: 1, Dashed: true}
	default:
		return Paint{Fill: sectionColor(section), Stroke: strokeColor, StrokeWidth: 1}
	}
}

// Outline draws strokes only. Boundary items are dashed.
type Outline struct{}

func (Outline) Name() string { return layout.StyleOutline }

func (Outline) Paint(f layout.Frame, section int) Paint {
	switch f.Kind {
	case layout.KindHeader, layout.KindFooter, layout.KindPlaceholder:
		return Paint{Stroke: strokeColor, StrokeWidth: 1, Dashed: true}
	default:
		return Paint{Stroke: sectionColor(section), StrokeWidth: 2}
	}
}

// StyleByName returns the style with the given name. The empty name is
// Simple.
func StyleByName(name string) (Style, error) {
	switch name {
	case "", layout.StyleSimple:
		return Simple{}, nil
	case layout.StyleOutline:
		return Outline{}, nil
	}
	return nil, fmt.Errorf("unknown style %q (want %s or %s)", name, layout.StyleSimple, layout.StyleOutline)
}

func (p Paint) svgAttrs(buf *bytes.Buffer) {
	fill := p.Fill
	if fill == "" {
		fill = "none"
	}
	fmt.Fprintf(buf, ` fill="%s" stroke="%s" stroke-width="%.1f"`, fill, p.Stroke, p.StrokeWidth)
	if p.Dashed {
		buf.WriteString(` stroke-dasharray="4 3"`)
	}
}
