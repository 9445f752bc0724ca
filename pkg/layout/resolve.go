package layout

import (
	"math"

	"github.com/matzehuels/flowbridge/pkg/core/flow"
)

// Source is a collection that can be resolved.
type Source interface {
	flow.DataSource
	SectionCount() int
}

// SectionNamer is implemented by sources whose sections carry names.
type SectionNamer interface {
	SectionName(section int) string
}

// ModeNone marks a section the bridge produced no layout for.
const ModeNone = "none"

// Resolve lays out every section of src and returns the frames.
//
// Sections stack vertically from the container's top content inset.
// Headers and footers span from x = 0, matching the full-width boundary
// items the bridge produces. A fixed section places its single group. An
// estimated or custom section repeats its group until every item is
// placed: vertically, or horizontally when the section scrolls
// orthogonally. Estimated items resolve to their estimate.
//
// Resolve is pure: it does not assign an ID.
func Resolve(b *flow.Bridge, src Source, env flow.Environment) Layout {
	l := Layout{
		Width:  env.ContentSize.Width,
		Height: env.ContentSize.Height,
	}
	namer, _ := src.(SectionNamer)

	y := env.ContentInsets.Top
	for i := range src.SectionCount() {
		rs := Section{Index: i, Y: y, Mode: ModeNone}
		if namer != nil {
			rs.Name = namer.SectionName(i)
		}
		if s, ok := b.Section(i, env); ok {
			n, _ := src.NumberOfItems(i)
			y = resolveSection(&rs, s, max(0, n), env, y)
		}
		rs.Height = y - rs.Y
		l.Sections = append(l.Sections, rs)
	}

	l.ContentHeight = ContentHeight(y + env.ContentInsets.Bottom)
	return l
}

// ContentHeight clamps a computed content height to MinContentHeight.
func ContentHeight(h float64) float64 {
	if math.IsNaN(h) || h < MinContentHeight {
		return MinContentHeight
	}
	return h
}

// resolveSection places s starting at y and returns the y below it.
func resolveSection(rs *Section, s *flow.Section, n int, env flow.Environment, y float64) float64 {
	rs.Mode = s.Mode.String()
	if s.Scrolling != flow.ScrollNone {
		rs.Scrolling = s.Scrolling.String()
	}

	if h, ok := s.Header(); ok {
		w, hh := resolveSize(h.Size, env.ContentSize.Width, env.ContentSize.Height)
		rs.Frames = append(rs.Frames, Frame{Kind: KindHeader, Item: -1, X: 0, Y: y, Width: w, Height: hh})
		y += hh
	}

	inset := s.ContentInsets
	eff := env.EffectiveContentSize()
	x := env.ContentInsets.Leading + inset.Leading
	availW := max(0, eff.Width-inset.Horizontal())
	availH := max(0, eff.Height-inset.Vertical())
	y += inset.Top

	gw, gh := resolveSize(s.Group.Size, availW, availH)
	r := &resolver{n: n}

	if s.Mode == flow.ModeFixed || s.Group.Placeholder {
		r.place(s.Group, x, y, gw, gh)
		y += gh
	} else {
		horizontal := s.Scrolling != flow.ScrollNone
		var groups int
		gx, gy := x, y
		for r.next < n {
			before := r.next
			r.place(s.Group, gx, gy, gw, gh)
			if r.next == before {
				break
			}
			groups++
			if horizontal {
				gx += gw + s.InterGroupSpacing
			} else {
				gy += gh + s.InterGroupSpacing
			}
		}
		if groups > 0 {
			if horizontal {
				extent := float64(groups)*gw + float64(groups-1)*s.InterGroupSpacing
				rs.ContentWidth = x + extent + inset.Trailing + env.ContentInsets.Trailing
				y += gh
			} else {
				y += float64(groups)*gh + float64(groups-1)*s.InterGroupSpacing
			}
		}
	}
	rs.Rows = r.row
	rs.Frames = append(rs.Frames, r.frames...)
	y += inset.Bottom

	if f, ok := s.Footer(); ok {
		w, fh := resolveSize(f.Size, env.ContentSize.Width, env.ContentSize.Height)
		rs.Frames = append(rs.Frames, Frame{Kind: KindFooter, Item: -1, Row: max(0, rs.Rows-1), X: 0, Y: y, Width: w, Height: fh})
		y += fh
	}
	return y
}

// resolver places the leaf items of one section in order.
type resolver struct {
	n      int // items in the section
	next   int // next item index
	row    int
	frames []Frame
}

// place lays out g with its origin at (x, y) and resolved size w x h.
func (r *resolver) place(g flow.Group, x, y, w, h float64) {
	if len(g.Subgroups) > 0 {
		for i, sub := range g.Subgroups {
			if i > 0 {
				if g.Axis == flow.Vertical {
					y += g.InterItemSpacing.Value
				} else {
					x += g.InterItemSpacing.Value
				}
			}
			sw, sh := resolveSize(sub.Size, w, h)
			r.place(sub, x, y, sw, sh)
			if g.Axis == flow.Vertical {
				y += sh
			} else {
				x += sw
			}
		}
		return
	}

	if g.Placeholder {
		for _, it := range g.Items {
			iw, ih := resolveSize(it.Size, w, h)
			r.frames = append(r.frames, Frame{Kind: KindPlaceholder, Item: -1, Row: r.row, X: x, Y: y, Width: iw, Height: ih})
		}
		r.row++
		return
	}

	if isRepeatingRow(g) {
		r.placeRepeating(g, x, y, w, h)
		return
	}

	cx, cy := x, y
	for _, it := range g.Items {
		if r.next >= r.n {
			break
		}
		iw, ih := resolveSize(it.Size, w, h)
		e := it.EdgeSpacing
		var f Frame
		if g.Axis == flow.Vertical {
			f = Frame{X: x + e.Leading.Value, Y: cy + e.Top.Value}
			cy = f.Y + ih + g.InterItemSpacing.Value
			if e.Bottom != nil {
				cy += e.Bottom.Value
			}
		} else {
			f = Frame{X: cx + e.Leading.Value, Y: y + e.Top.Value}
			cx = f.X + iw + e.Trailing.Value + g.InterItemSpacing.Value
		}
		f.Kind, f.Item, f.Row, f.Width, f.Height = KindItem, r.next, r.row, iw, ih
		r.frames = append(r.frames, f)
		r.next++
	}
	r.row++
}

// isRepeatingRow reports whether g is a self-sizing row template: one
// item repeated across the row with flexible spacing.
func isRepeatingRow(g flow.Group) bool {
	return g.Axis == flow.Horizontal && len(g.Items) == 1 && g.InterItemSpacing.Kind == flow.SpacingFlexible
}

// placeRepeating fills a row with as many copies of its item as fit at the
// minimum spacing, then spreads the leftover width between them. Short
// last rows keep the column positions of full rows.
func (r *resolver) placeRepeating(g flow.Group, x, y, w, h float64) {
	iw, ih := resolveSize(g.Items[0].Size, w, h)
	iw = min(iw, w)
	minSpacing := g.InterItemSpacing.Value

	perRow := 1
	if iw+minSpacing > 0 {
		perRow = max(1, int(math.Floor((w+minSpacing)/(iw+minSpacing))))
	}
	spacing := minSpacing
	if perRow > 1 {
		spacing = (w - float64(perRow)*iw) / float64(perRow-1)
	}

	for j := 0; j < perRow && r.next < r.n; j++ {
		r.frames = append(r.frames, Frame{
			Kind:   KindItem,
			Item:   r.next,
			Row:    r.row,
			X:      x + float64(j)*(iw+spacing),
			Y:      y,
			Width:  iw,
			Height: ih,
		})
		r.next++
	}
	r.row++
}

func resolveSize(s flow.LayoutSize, w, h float64) (float64, float64) {
	return resolveDimension(s.Width, w, h), resolveDimension(s.Height, w, h)
}

// resolveDimension resolves d against a container of size w x h.
func resolveDimension(d flow.Dimension, w, h float64) float64 {
	switch d.Kind {
	case flow.KindFractionalWidth:
		return d.Value * w
	case flow.KindFractionalHeight:
		return d.Value * h
	default:
		return d.Value
	}
}
