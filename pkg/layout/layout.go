// Package layout resolves compositional sections into absolute frames and
// serializes the result.
//
// pkg/core/flow describes a collection the way a compositional layout
// engine consumes it: groups, fractional and estimated dimensions, edge
// spacing. This package plays the part of that engine. [Resolve] walks
// every section of a collection and places each item, header, footer and
// placeholder in container coordinates, so the translation can be
// inspected, rendered and compared without a UI toolkit.
//
// # Coordinate System
//
// The origin is the top-left corner of the scrollable content. Sections
// stack vertically. Sections that scroll orthogonally lay their groups out
// horizontally and report the scroll extent in [Section.ContentWidth].
//
// # Serialization
//
// Layouts are the wire format of the CLI, the API and the cache:
//
//	l := layout.Resolve(m.Bridge(), m, m.Environment())
//	data, _ := layout.Marshal(l)               // Layout → JSON
//	parsed, _ := layout.Unmarshal(data)        // JSON → Layout
//	_ = layout.WriteFile(l, "out.layout.json") // Layout → file
package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// Frame kinds.
const (
	KindItem        = "item"
	KindHeader      = "header"
	KindFooter      = "footer"
	KindPlaceholder = "placeholder"
)

// Visual styles for rendering.
const (
	StyleSimple  = "simple"
	StyleOutline = "outline"
)

// MinContentHeight is the smallest content height a layout reports. Hosts
// that size a nested collection from its content height would otherwise
// collapse an empty collection and never lay it out again.
const MinContentHeight = 1.0

// =============================================================================
// Layout - Resolved Collection
// =============================================================================

// Layout is a resolved collection: every visible element with its frame.
type Layout struct {
	// ID identifies the layout pass that produced this layout.
	ID   string `json:"id,omitempty" bson:"id,omitempty"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`

	// Width and Height are the container's size. ContentHeight is the
	// scrollable height, never below MinContentHeight.
	Width         float64 `json:"width" bson:"width"`
	Height        float64 `json:"height" bson:"height"`
	ContentHeight float64 `json:"content_height" bson:"content_height"`
	Style         string  `json:"style,omitempty" bson:"style,omitempty"`

	Sections []Section `json:"sections" bson:"sections"`
}

// Section is one resolved section.
type Section struct {
	Index     int    `json:"index" bson:"index"`
	Name      string `json:"name,omitempty" bson:"name,omitempty"`
	Mode      string `json:"mode" bson:"mode"` // fixed, estimated, custom or none
	Scrolling string `json:"scrolling,omitempty" bson:"scrolling,omitempty"`

	// Bounds including header and footer.
	Y      float64 `json:"y" bson:"y"`
	Height float64 `json:"height" bson:"height"`

	// ContentWidth is the horizontal scroll extent of an orthogonally
	// scrolling section, zero otherwise.
	ContentWidth float64 `json:"content_width,omitempty" bson:"content_width,omitempty"`

	Rows   int     `json:"rows" bson:"rows"`
	Frames []Frame `json:"frames,omitempty" bson:"frames,omitempty"`
}

// Frame is a positioned element.
type Frame struct {
	Kind   string  `json:"kind" bson:"kind"`
	Item   int     `json:"item" bson:"item"` // item index within its section, -1 for non-items
	Row    int     `json:"row" bson:"row"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// MaxX returns X + Width.
func (f Frame) MaxX() float64 { return f.X + f.Width }

// MaxY returns Y + Height.
func (f Frame) MaxY() float64 { return f.Y + f.Height }

// Items returns only the item frames of s.
func (s *Section) Items() []Frame {
	var out []Frame
	for _, f := range s.Frames {
		if f.Kind == KindItem {
			out = append(out, f)
		}
	}
	return out
}

// ItemCount returns the number of item frames in all sections.
func (l *Layout) ItemCount() int {
	var n int
	for i := range l.Sections {
		n += len(l.Sections[i].Items())
	}
	return n
}

// ContentWidth returns the widest extent of any frame, at least Width.
func (l *Layout) ContentWidth() float64 {
	w := l.Width
	for _, s := range l.Sections {
		for _, f := range s.Frames {
			w = max(w, f.MaxX())
		}
	}
	return w
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// Marshal serializes a Layout to pretty-printed JSON bytes.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Layout.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Width <= 0 {
		return Layout{}, fmt.Errorf("layout must have a positive width")
	}
	if l.ContentHeight < MinContentHeight {
		l.ContentHeight = MinContentHeight
	}
	return l, nil
}

// WriteFile writes a Layout to a JSON file.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Layout from a JSON file.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
