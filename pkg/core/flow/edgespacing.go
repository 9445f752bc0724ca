package flow

// HorizontalEdgeSpacing decides how far an item is offset from its packed
// position so a row matches flow-layout justification.
//
// A flow layout left- and right-justifies rows that are not full by
// spreading the leftover width between items, centers rows that hold a
// single item, and left-aligns the last row. Leading centers an item;
// Trailing pushes the next item right.
type HorizontalEdgeSpacing struct {
	// GroupWidth is the row's width, normally the section's available width.
	GroupWidth float64
	ItemWidth  float64
	// GroupInteritemSpacing is the fixed spacing between items in the row.
	GroupInteritemSpacing float64
	// RemainingWidthPerItem is the row's unused width divided by its number
	// of interitem spacings (see [RemainingWidthPerItem]).
	RemainingWidthPerItem float64

	InFirstGroup         bool
	InLastGroup          bool
	GroupHasOneItem      bool
	AllGroupsHaveOneItem bool
}

func (h HorizontalEdgeSpacing) centered() bool {
	switch {
	case h.InFirstGroup && h.InLastGroup:
		// A single-row section left-aligns a lone item unless two of it
		// would not fit side by side.
		return 2*h.ItemWidth+h.GroupInteritemSpacing > h.GroupWidth
	case h.InLastGroup:
		return h.AllGroupsHaveOneItem
	case h.GroupHasOneItem:
		return true
	default:
		return false
	}
}

// Leading returns half the remaining width when the item is centered and
// zero otherwise.
func (h HorizontalEdgeSpacing) Leading() Spacing {
	if !h.centered() {
		return Fixed(0)
	}
	return Fixed(h.RemainingWidthPerItem / 2)
}

// Trailing returns the remaining width per item for a left-aligned item
// that is neither the last in its row nor in the last row. The last row
// stays left-justified only.
func (h HorizontalEdgeSpacing) Trailing(isLastItemInGroup bool) Spacing {
	if h.Leading().Value != 0 || isLastItemInGroup || h.InLastGroup {
		return Fixed(0)
	}
	return Fixed(h.RemainingWidthPerItem)
}

// VerticalEdgeSpacing centers an item against the tallest item in its row.
type VerticalEdgeSpacing struct {
	GroupHeight float64
	ItemHeight  float64
}

// Top returns (GroupHeight - ItemHeight) / 2.
func (v VerticalEdgeSpacing) Top() Spacing {
	return Fixed((v.GroupHeight - v.ItemHeight) / 2)
}

// Bottom is always nil: the host derives the space below the item.
func (v VerticalEdgeSpacing) Bottom() *Spacing {
	return nil
}

// RemainingWidth returns the width of a row not taken by its items and the
// fixed spacings between them. It is never negative, so rows holding an
// oversize item have nothing to distribute.
func RemainingWidth(groupWidth, interitemSpacing float64, itemWidths []float64) float64 {
	used := 0.0
	for _, w := range itemWidths {
		used += w
	}
	if n := len(itemWidths) - 1; n > 0 {
		used += float64(n) * interitemSpacing
	}
	return max(0, groupWidth-used)
}

// RemainingWidthPerItem divides [RemainingWidth] by the number of interitem
// spacings in the row. A single-item row gets the whole remaining width.
func RemainingWidthPerItem(groupWidth, interitemSpacing float64, itemWidths []float64) float64 {
	remaining := RemainingWidth(groupWidth, interitemSpacing, itemWidths)
	switch spacings := len(itemWidths) - 1; {
	case spacings > 0:
		return remaining / float64(spacings)
	case spacings == 0:
		return remaining
	default:
		return 0
	}
}
