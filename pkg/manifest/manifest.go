// Package manifest describes a collection as a file that flowbridge can lay
// out: a container, flow-layout defaults and an ordered list of sections.
//
// A [Manifest] implements every collaborator the layout bridge needs
// ([flow.DataSource], [flow.SizeProvider] and [flow.Delegate]), so a parsed
// manifest can be laid out directly:
//
//	m, err := manifest.Load("collection.yaml")
//	if err != nil {
//	    return err
//	}
//	section, ok := m.Bridge().Section(0, m.Environment())
//
// Manifests may be written in YAML, TOML or JSON:
//
//	name: demo
//	container: {width: 375, height: 750}
//	defaults:
//	  item_size: {width: 150, height: 150}
//	  section_inset: {top: 8, bottom: 8}
//	  header_size: {width: 100, height: 80}
//	sections:
//	  - name: grid
//	    items: 8
//	  - name: carousel
//	    items: 10
//	    custom: {kind: carousel, item_size: {width: 50, height: 50}, group_spacing: 16, inset: {top: 8, bottom: 8}, boundary: true}
//
// Every per-section field is optional and falls back to the manifest
// defaults, which in turn fall back to [flow.LegacyDefaults].
package manifest

import (
	"github.com/matzehuels/flowbridge/pkg/core/flow"
)

// Limits on a manifest's size. Every item becomes a frame when the manifest
// is resolved, so a few bytes of input must not ask for unbounded memory.
const (
	MaxSections        = 1000
	MaxItemsPerSection = 10000
	MaxItems           = 100000
)

// Manifest is a parsed collection description.
type Manifest struct {
	Name      string    `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Container Container `json:"container" toml:"container" yaml:"container"`
	Defaults  Defaults  `json:"defaults" toml:"defaults" yaml:"defaults"`
	Sections  []Section `json:"sections" toml:"sections" yaml:"sections"`
}

// Container is the scrolling view the collection is laid out in.
type Container struct {
	Width  float64     `json:"width" toml:"width" yaml:"width"`
	Height float64     `json:"height" toml:"height" yaml:"height"`
	Insets flow.Insets `json:"insets" toml:"insets" yaml:"insets"`
}

// Defaults override [flow.LegacyDefaults] for every section.
type Defaults struct {
	ItemSize          *flow.Size   `json:"item_size,omitempty" toml:"item_size" yaml:"item_size,omitempty"`
	EstimatedItemSize *flow.Size   `json:"estimated_item_size,omitempty" toml:"estimated_item_size" yaml:"estimated_item_size,omitempty"`
	InteritemSpacing  *float64     `json:"interitem_spacing,omitempty" toml:"interitem_spacing" yaml:"interitem_spacing,omitempty"`
	LineSpacing       *float64     `json:"line_spacing,omitempty" toml:"line_spacing" yaml:"line_spacing,omitempty"`
	SectionInset      *flow.Insets `json:"section_inset,omitempty" toml:"section_inset" yaml:"section_inset,omitempty"`
	HeaderSize        *flow.Size   `json:"header_size,omitempty" toml:"header_size" yaml:"header_size,omitempty"`
	FooterSize        *flow.Size   `json:"footer_size,omitempty" toml:"footer_size" yaml:"footer_size,omitempty"`
}

// Section is one section of the collection. Nil fields are not overridden.
type Section struct {
	Name  string `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Items int    `json:"items" toml:"items" yaml:"items"`

	// ItemSizes gives per-item sizes, repeated when shorter than Items.
	// It takes precedence over ItemSize.
	ItemSizes []flow.Size `json:"item_sizes,omitempty" toml:"item_sizes" yaml:"item_sizes,omitempty"`
	ItemSize  *flow.Size  `json:"item_size,omitempty" toml:"item_size" yaml:"item_size,omitempty"`

	InteritemSpacing *float64     `json:"interitem_spacing,omitempty" toml:"interitem_spacing" yaml:"interitem_spacing,omitempty"`
	LineSpacing      *float64     `json:"line_spacing,omitempty" toml:"line_spacing" yaml:"line_spacing,omitempty"`
	Inset            *flow.Insets `json:"inset,omitempty" toml:"inset" yaml:"inset,omitempty"`
	HeaderSize       *flow.Size   `json:"header_size,omitempty" toml:"header_size" yaml:"header_size,omitempty"`
	FooterSize       *flow.Size   `json:"footer_size,omitempty" toml:"footer_size" yaml:"footer_size,omitempty"`

	// Custom replaces the flow translation with a hand-built section.
	Custom *Custom `json:"custom,omitempty" toml:"custom" yaml:"custom,omitempty"`
}

// Environment returns the layout environment of the container.
func (m *Manifest) Environment() flow.Environment {
	return flow.Environment{
		ContentSize:   flow.Size{Width: m.Container.Width, Height: m.Container.Height},
		ContentInsets: m.Container.Insets,
	}
}

// FlowDefaults returns [flow.LegacyDefaults] with the manifest's defaults
// applied.
func (m *Manifest) FlowDefaults() flow.Defaults {
	d := flow.LegacyDefaults()
	md := m.Defaults
	if md.ItemSize != nil {
		d.ItemSize = *md.ItemSize
	}
	if md.EstimatedItemSize != nil {
		d.EstimatedItemSize = *md.EstimatedItemSize
	}
	if md.InteritemSpacing != nil {
		d.InteritemSpacing = *md.InteritemSpacing
	}
	if md.LineSpacing != nil {
		d.LineSpacing = *md.LineSpacing
	}
	if md.SectionInset != nil {
		d.SectionInset = *md.SectionInset
	}
	if md.HeaderSize != nil {
		d.HeaderSize = *md.HeaderSize
	}
	if md.FooterSize != nil {
		d.FooterSize = *md.FooterSize
	}
	return d
}

// Bridge returns a layout bridge backed by m.
func (m *Manifest) Bridge() *flow.Bridge {
	return flow.New(flow.Config{
		DataSource: m,
		Delegate:   m,
		Defaults:   m.FlowDefaults(),
		Provider:   m,
	})
}

// ItemCount returns the total number of items across all sections.
func (m *Manifest) ItemCount() int {
	var n int
	for _, s := range m.Sections {
		n += s.Items
	}
	return n
}

// SectionCount returns the number of sections.
func (m *Manifest) SectionCount() int { return len(m.Sections) }

// SectionName returns the name of section i, or "" when it has none.
func (m *Manifest) SectionName(i int) string {
	if s, ok := m.section(i); ok {
		return s.Name
	}
	return ""
}

func (m *Manifest) section(i int) (*Section, bool) {
	if i < 0 || i >= len(m.Sections) {
		return nil, false
	}
	return &m.Sections[i], true
}

// =============================================================================
// flow.DataSource
// =============================================================================

// NumberOfItems implements [flow.DataSource].
func (m *Manifest) NumberOfItems(section int) (int, bool) {
	s, ok := m.section(section)
	if !ok {
		return 0, false
	}
	return s.Items, true
}

// =============================================================================
// flow.SizeProvider
// =============================================================================

// ItemSize implements [flow.SizeProvider].
func (m *Manifest) ItemSize(ip flow.IndexPath) (flow.Size, bool) {
	s, ok := m.section(ip.Section)
	if !ok || ip.Item < 0 {
		return flow.Size{}, false
	}
	if n := len(s.ItemSizes); n > 0 {
		return s.ItemSizes[ip.Item%n], true
	}
	return deref(s.ItemSize)
}

// InteritemSpacing implements [flow.SizeProvider].
func (m *Manifest) InteritemSpacing(section int) (float64, bool) {
	if s, ok := m.section(section); ok {
		return deref(s.InteritemSpacing)
	}
	return 0, false
}

// LineSpacing implements [flow.SizeProvider].
func (m *Manifest) LineSpacing(section int) (float64, bool) {
	if s, ok := m.section(section); ok {
		return deref(s.LineSpacing)
	}
	return 0, false
}

// SectionInset implements [flow.SizeProvider].
func (m *Manifest) SectionInset(section int) (flow.Insets, bool) {
	if s, ok := m.section(section); ok {
		return deref(s.Inset)
	}
	return flow.Insets{}, false
}

// HeaderSize implements [flow.SizeProvider].
func (m *Manifest) HeaderSize(section int) (flow.Size, bool) {
	if s, ok := m.section(section); ok {
		return deref(s.HeaderSize)
	}
	return flow.Size{}, false
}

// FooterSize implements [flow.SizeProvider].
func (m *Manifest) FooterSize(section int) (flow.Size, bool) {
	if s, ok := m.section(section); ok {
		return deref(s.FooterSize)
	}
	return flow.Size{}, false
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
