package flow

import "fmt"

// Mode records how a section's top-level group was built.
type Mode int

const (
	// ModeFixed packs explicitly sized items into rows.
	ModeFixed Mode = iota
	// ModeEstimated uses one self-sizing row template.
	ModeEstimated
	// ModeCustom marks a section supplied by a [Delegate].
	ModeCustom
)

var modeNames = [...]string{"fixed", "estimated", "custom"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ScrollingBehavior is how a section scrolls orthogonally to its container.
// Flow sections never scroll orthogonally.
type ScrollingBehavior int

const (
	ScrollNone ScrollingBehavior = iota
	ScrollContinuous
	ScrollContinuousGroupLeadingBoundary
	ScrollPaging
	ScrollGroupPaging
)

var scrollingNames = [...]string{"none", "continuous", "continuous_group_leading_boundary", "paging", "group_paging"}

func (s ScrollingBehavior) String() string {
	if s < 0 || int(s) >= len(scrollingNames) {
		return fmt.Sprintf("ScrollingBehavior(%d)", int(s))
	}
	return scrollingNames[s]
}

// ParseScrollingBehavior parses the String form of a ScrollingBehavior.
// The empty string is ScrollNone.
func ParseScrollingBehavior(s string) (ScrollingBehavior, bool) {
	if s == "" {
		return ScrollNone, true
	}
	for i, name := range scrollingNames {
		if name == s {
			return ScrollingBehavior(i), true
		}
	}
	return ScrollNone, false
}

// Section is the compositional description of one collection section.
type Section struct {
	Mode              Mode
	Group             Group
	InterGroupSpacing float64
	ContentInsets     Insets
	BoundaryItems     []BoundaryItem
	Scrolling         ScrollingBehavior
}

// Header returns the section's header boundary item, if any.
func (s *Section) Header() (BoundaryItem, bool) {
	return s.boundary(Header)
}

// Footer returns the section's footer boundary item, if any.
func (s *Section) Footer() (BoundaryItem, bool) {
	return s.boundary(Footer)
}

func (s *Section) boundary(kind BoundaryKind) (BoundaryItem, bool) {
	for _, b := range s.BoundaryItems {
		if b.Kind == kind {
			return b, true
		}
	}
	return BoundaryItem{}, false
}

// boundaryItems builds the header and footer for the given reference
// sizes. Like a flow layout, the width is the container's full content
// width, ignoring insets, and only the requested height is used. A size
// that is zero in either dimension produces no item.
func boundaryItems(header, footer Size, env Environment) []BoundaryItem {
	var items []BoundaryItem
	if !header.HasZeroDimension() {
		items = append(items, BoundaryItem{
			Kind:      Header,
			Size:      AbsoluteSize(Size{Width: env.ContentSize.Width, Height: header.Height}),
			Alignment: AlignTop,
		})
	}
	if !footer.HasZeroDimension() {
		items = append(items, BoundaryItem{
			Kind:      Footer,
			Size:      AbsoluteSize(Size{Width: env.ContentSize.Width, Height: footer.Height}),
			Alignment: AlignBottom,
		})
	}
	return items
}
