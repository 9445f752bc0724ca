package flow

import "fmt"

// Size is a width/height pair in points.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// HasZeroDimension reports whether either dimension is zero.
func (s Size) HasZeroDimension() bool { return s.Width == 0 || s.Height == 0 }

// Insets are four-sided insets in directional (leading/trailing) terms.
type Insets struct {
	Top      float64 `json:"top" bson:"top"`
	Leading  float64 `json:"leading" bson:"leading"`
	Bottom   float64 `json:"bottom" bson:"bottom"`
	Trailing float64 `json:"trailing" bson:"trailing"`
}

// UniformInsets returns insets with the same value on every side.
func UniformInsets(v float64) Insets {
	return Insets{Top: v, Leading: v, Bottom: v, Trailing: v}
}

// SymmetricInsets returns insets with horizontal applied to leading and
// trailing and vertical applied to top and bottom.
func SymmetricInsets(horizontal, vertical float64) Insets {
	return Insets{Top: vertical, Leading: horizontal, Bottom: vertical, Trailing: horizontal}
}

// Horizontal returns Leading + Trailing.
func (i Insets) Horizontal() float64 { return i.Leading + i.Trailing }

// Vertical returns Top + Bottom.
func (i Insets) Vertical() float64 { return i.Top + i.Bottom }

// DimensionKind identifies how a [Dimension] value is interpreted.
type DimensionKind int

const (
	KindAbsolute DimensionKind = iota
	KindFractionalWidth
	KindFractionalHeight
	KindEstimated
)

var dimensionKindNames = [...]string{"absolute", "fractional_width", "fractional_height", "estimated"}

func (k DimensionKind) String() string {
	if k < 0 || int(k) >= len(dimensionKindNames) {
		return fmt.Sprintf("DimensionKind(%d)", int(k))
	}
	return dimensionKindNames[k]
}

// Dimension is one axis of a [LayoutSize].
type Dimension struct {
	Kind  DimensionKind
	Value float64
}

// Absolute returns a fixed dimension in points.
func Absolute(v float64) Dimension { return Dimension{Kind: KindAbsolute, Value: v} }

// FractionalWidth returns a dimension relative to the container's width.
func FractionalWidth(v float64) Dimension { return Dimension{Kind: KindFractionalWidth, Value: v} }

// FractionalHeight returns a dimension relative to the container's height.
func FractionalHeight(v float64) Dimension { return Dimension{Kind: KindFractionalHeight, Value: v} }

// Estimated returns a self-sizing dimension with an initial estimate.
func Estimated(v float64) Dimension { return Dimension{Kind: KindEstimated, Value: v} }

func (d Dimension) String() string {
	return fmt.Sprintf("%s(%g)", d.Kind, d.Value)
}

// LayoutSize is the size of an item, group or boundary item.
type LayoutSize struct {
	Width  Dimension
	Height Dimension
}

// AbsoluteSize returns a layout size with both dimensions absolute.
func AbsoluteSize(s Size) LayoutSize {
	return LayoutSize{Width: Absolute(s.Width), Height: Absolute(s.Height)}
}

// FullContainerSize fills the container in both directions.
func FullContainerSize() LayoutSize {
	return LayoutSize{Width: FractionalWidth(1), Height: FractionalHeight(1)}
}

// EqualDimensions is a square as wide as the container.
func EqualDimensions() LayoutSize {
	return LayoutSize{Width: FractionalWidth(1), Height: FractionalWidth(1)}
}

// SpacingKind distinguishes fixed from flexible spacing.
type SpacingKind int

const (
	SpacingFixed SpacingKind = iota
	SpacingFlexible
)

func (k SpacingKind) String() string {
	if k == SpacingFlexible {
		return "flexible"
	}
	return "fixed"
}

// Spacing is a fixed amount, or a flexible minimum the host may grow.
type Spacing struct {
	Kind  SpacingKind
	Value float64
}

// Fixed returns fixed spacing of v points.
func Fixed(v float64) Spacing { return Spacing{Kind: SpacingFixed, Value: v} }

// Flexible returns flexible spacing of at least v points.
func Flexible(v float64) Spacing { return Spacing{Kind: SpacingFlexible, Value: v} }

// EdgeSpacing offsets an item inside its group. Bottom is nil when the
// remaining space is left for the host to derive.
type EdgeSpacing struct {
	Leading  Spacing
	Top      Spacing
	Trailing Spacing
	Bottom   *Spacing
}

// Item is a leaf element of a group.
type Item struct {
	Size        LayoutSize
	EdgeSpacing EdgeSpacing
}

// Axis is the direction in which a group lays out its children.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Group lays out Items (leaf rows) or Subgroups (stacks of rows) along Axis.
// A group has either items or subgroups, never both.
type Group struct {
	Axis             Axis
	Size             LayoutSize
	Items            []Item
	Subgroups        []Group
	InterItemSpacing Spacing

	// First and Last mark a row's position within its section.
	First bool
	Last  bool

	// Placeholder marks the near-zero-height group of an empty section.
	Placeholder bool
}

// ItemCount returns the number of leaf items in g and all nested groups.
func (g Group) ItemCount() int {
	n := len(g.Items)
	for _, sub := range g.Subgroups {
		n += sub.ItemCount()
	}
	return n
}

// Rows returns the leaf rows of g: its subgroups for a vertical stack, or g
// itself for a single row.
func (g Group) Rows() []Group {
	if len(g.Subgroups) > 0 {
		return g.Subgroups
	}
	return []Group{g}
}

// BoundaryKind identifies a supplementary boundary element.
type BoundaryKind int

const (
	Header BoundaryKind = iota
	Footer
)

func (k BoundaryKind) String() string {
	if k == Footer {
		return "footer"
	}
	return "header"
}

// Alignment is the section edge a boundary item attaches to.
type Alignment int

const (
	AlignTop Alignment = iota
	AlignBottom
)

func (a Alignment) String() string {
	if a == AlignBottom {
		return "bottom"
	}
	return "top"
}

// BoundaryItem is a header or footer attached to a section edge.
type BoundaryItem struct {
	Kind      BoundaryKind
	Size      LayoutSize
	Alignment Alignment
}

// IndexPath addresses one item within one section.
type IndexPath struct {
	Section int
	Item    int
}

// Environment describes the container a section is laid out in.
type Environment struct {
	ContentSize   Size
	ContentInsets Insets
}

// EffectiveContentSize is ContentSize minus ContentInsets.
func (e Environment) EffectiveContentSize() Size {
	return Size{
		Width:  e.ContentSize.Width - e.ContentInsets.Horizontal(),
		Height: e.ContentSize.Height - e.ContentInsets.Vertical(),
	}
}
