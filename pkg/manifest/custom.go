package manifest

import (
	"github.com/matzehuels/flowbridge/pkg/core/flow"
)

// Custom section kinds.
const (
	// KindCarousel is a single row of fixed-size items that scrolls
	// horizontally inside the vertically scrolling collection.
	KindCarousel = "carousel"
	// KindList stacks full-width rows of a fixed height.
	KindList = "list"
	// KindPager shows one item per page, each filling the section, and
	// pages horizontally.
	KindPager = "pager"
	// KindTiles stacks full-width square tiles.
	KindTiles = "tiles"
)

// CustomKinds lists every custom section kind.
var CustomKinds = []string{KindCarousel, KindList, KindPager, KindTiles}

// Custom describes a section that is not translated from flow measurements.
type Custom struct {
	Kind         string      `json:"kind" toml:"kind" yaml:"kind"`
	ItemSize     flow.Size   `json:"item_size" toml:"item_size" yaml:"item_size"`
	GroupSpacing float64     `json:"group_spacing,omitempty" toml:"group_spacing" yaml:"group_spacing,omitempty"`
	Inset        flow.Insets `json:"inset" toml:"inset" yaml:"inset"`
	// Scrolling is a flow.ScrollingBehavior name. Carousels default to
	// continuous_group_leading_boundary, pagers to group_paging.
	Scrolling string `json:"scrolling,omitempty" toml:"scrolling" yaml:"scrolling,omitempty"`
	// Boundary borrows the flow-style header and footer for the section.
	Boundary bool `json:"boundary,omitempty" toml:"boundary" yaml:"boundary,omitempty"`
}

func (c *Custom) scrolling() flow.ScrollingBehavior {
	if c.Scrolling == "" {
		switch c.Kind {
		case KindCarousel:
			return flow.ScrollContinuousGroupLeadingBoundary
		case KindPager:
			return flow.ScrollGroupPaging
		}
	}
	s, _ := flow.ParseScrollingBehavior(c.Scrolling)
	return s
}

// UsesFlowLayout implements [flow.Delegate]. Sections without a custom
// description, and unknown sections, use the flow translation.
func (m *Manifest) UsesFlowLayout(section int) bool {
	s, ok := m.section(section)
	return !ok || s.Custom == nil
}

// CustomSection implements [flow.Delegate].
func (m *Manifest) CustomSection(b *flow.Bridge, section int, env flow.Environment) (*flow.Section, bool) {
	s, ok := m.section(section)
	if !ok || s.Custom == nil {
		return nil, false
	}
	c := s.Custom

	var size flow.LayoutSize
	switch c.Kind {
	case KindCarousel:
		size = flow.AbsoluteSize(c.ItemSize)
	case KindList:
		size = flow.LayoutSize{Width: flow.FractionalWidth(1), Height: flow.Absolute(c.ItemSize.Height)}
	case KindPager:
		size = flow.FullContainerSize()
	case KindTiles:
		size = flow.EqualDimensions()
	default:
		return nil, false
	}

	out := &flow.Section{
		Mode: flow.ModeCustom,
		Group: flow.Group{
			Axis:  flow.Horizontal,
			Size:  size,
			Items: []flow.Item{{Size: size}},
		},
		InterGroupSpacing: c.GroupSpacing,
		ContentInsets:     c.Inset,
		Scrolling:         c.scrolling(),
	}
	if s.Items == 0 {
		out.Group = flow.EmptyGroup()
	}
	if c.Boundary {
		out.BoundaryItems = b.BoundaryItems(section, env)
	}
	return out, true
}
