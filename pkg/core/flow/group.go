package flow

// PlaceholderHeight is the height of the group that stands in for an empty
// section. Hosts reject zero-height groups, so it is small but positive.
const PlaceholderHeight = 0.01

// EmptyGroup returns the full-width placeholder group used for sections
// without items. Boundary items of the section are unaffected.
func EmptyGroup() Group {
	size := LayoutSize{Width: FractionalWidth(1), Height: Absolute(PlaceholderHeight)}
	return Group{
		Axis:        Horizontal,
		Size:        size,
		Items:       []Item{{Size: size}},
		Placeholder: true,
	}
}

// HorizontalGroup builds one row from already packed sizes. The row is
// availableWidth wide and as tall as its tallest item; items wider than the
// row are clipped to it. Edge spacing is left zero; see [HorizontalGroups].
func HorizontalGroup(sizes []Size, interitemSpacing, availableWidth float64) Group {
	var height float64
	items := make([]Item, len(sizes))
	for i, s := range sizes {
		height = max(height, s.Height)
		items[i] = Item{Size: AbsoluteSize(Size{Width: min(availableWidth, s.Width), Height: s.Height})}
	}
	return Group{
		Axis:             Horizontal,
		Size:             AbsoluteSize(Size{Width: availableWidth, Height: height}),
		Items:            items,
		InterItemSpacing: Fixed(interitemSpacing),
	}
}

// HorizontalGroups packs sizes into rows and justifies every item in them.
// An empty input yields a single placeholder row.
func HorizontalGroups(sizes []Size, interitemSpacing, availableWidth float64) []Group {
	if len(sizes) == 0 {
		return []Group{EmptyGroup()}
	}
	packed := PackRows(sizes, interitemSpacing, availableWidth)
	groups := make([]Group, len(packed))
	for i, row := range packed {
		groups[i] = HorizontalGroup(row, interitemSpacing, availableWidth)
	}
	justify(groups)
	return groups
}

// justify fills in row positions and per-item edge spacing. It runs while
// the groups are still being built.
func justify(groups []Group) {
	allSingle := true
	for _, g := range groups {
		if len(g.Items) != 1 {
			allSingle = false
			break
		}
	}

	for gi := range groups {
		g := &groups[gi]
		g.First = gi == 0
		g.Last = gi == len(groups)-1

		groupWidth := g.Size.Width.Value
		groupHeight := g.Size.Height.Value
		widths := make([]float64, len(g.Items))
		for i, it := range g.Items {
			widths[i] = it.Size.Width.Value
		}
		perItem := RemainingWidthPerItem(groupWidth, g.InterItemSpacing.Value, widths)

		for i := range g.Items {
			it := &g.Items[i]
			h := HorizontalEdgeSpacing{
				GroupWidth:            groupWidth,
				ItemWidth:             it.Size.Width.Value,
				GroupInteritemSpacing: g.InterItemSpacing.Value,
				RemainingWidthPerItem: perItem,
				InFirstGroup:          g.First,
				InLastGroup:           g.Last,
				GroupHasOneItem:       len(g.Items) == 1,
				AllGroupsHaveOneItem:  allSingle,
			}
			v := VerticalEdgeSpacing{GroupHeight: groupHeight, ItemHeight: it.Size.Height.Value}
			it.EdgeSpacing = EdgeSpacing{
				Leading:  h.Leading(),
				Top:      v.Top(),
				Trailing: h.Trailing(i == len(g.Items)-1),
				Bottom:   v.Bottom(),
			}
		}
	}
}

// VerticalGroup stacks the justified rows of a fixed-size section. Rows are
// packed against the effective content width minus the horizontal section
// insets. The group is full width and exactly as tall as its rows plus the
// line spacing between them; line spacing is also its inter-item spacing.
func VerticalGroup(sizes []Size, inset Insets, interitemSpacing, lineSpacing float64, env Environment) Group {
	available := max(0, env.EffectiveContentSize().Width-inset.Horizontal())
	rows := HorizontalGroups(sizes, interitemSpacing, available)

	var height float64
	for _, r := range rows {
		height += r.Size.Height.Value
	}
	height += float64(max(0, len(rows)-1)) * lineSpacing

	return Group{
		Axis:             Vertical,
		Size:             LayoutSize{Width: FractionalWidth(1), Height: Absolute(height)},
		Subgroups:        rows,
		InterItemSpacing: Fixed(lineSpacing),
	}
}

// EstimatedGroup builds the single self-sizing row template used when item
// sizes are estimated. The group spans the full width so the host wraps
// items onto new lines as rows fill, with flexible interitem spacing.
//
// Known divergence: a flow layout left-justifies only its last row; this
// group lets the host justify every row the same way.
func EstimatedGroup(estimated Size, interitemSpacing float64) Group {
	item := Item{Size: LayoutSize{Width: Estimated(estimated.Width), Height: Estimated(estimated.Height)}}
	return Group{
		Axis:             Horizontal,
		Size:             LayoutSize{Width: FractionalWidth(1), Height: Estimated(estimated.Height)},
		Items:            []Item{item},
		InterItemSpacing: Flexible(interitemSpacing),
	}
}
