package flow

// DataSource reports how many items a section holds. ok is false for a
// section the source does not know about.
type DataSource interface {
	NumberOfItems(section int) (n int, ok bool)
}

// Delegate decides, per section, between the flow translation and a
// section it supplies itself.
type Delegate interface {
	// UsesFlowLayout reports whether section is laid out from flow
	// measurements.
	UsesFlowLayout(section int) bool
	// CustomSection returns the section to use when UsesFlowLayout is
	// false. The bridge is passed so implementations can borrow flow-style
	// pieces such as [Bridge.BoundaryItems]. Returning false leaves the
	// section without a layout.
	CustomSection(b *Bridge, section int, env Environment) (*Section, bool)
}

// Config wires a Bridge to its collaborators. The bridge only reads from
// them during a call and never retains results.
type Config struct {
	DataSource DataSource
	Delegate   Delegate
	Defaults   Defaults
	Provider   SizeProvider // optional per-section overrides
}

// Bridge produces compositional sections from flow-layout measurements.
// A Bridge holds no mutable state and is safe for concurrent use as long
// as its collaborators are.
type Bridge struct {
	source   DataSource
	delegate Delegate
	adapter  Adapter
}

// New returns a Bridge over the given collaborators.
func New(cfg Config) *Bridge {
	return &Bridge{
		source:   cfg.DataSource,
		delegate: cfg.Delegate,
		adapter:  Adapter{Defaults: cfg.Defaults, Provider: cfg.Provider},
	}
}

// Adapter returns the measurement lookup chain the bridge uses.
func (b *Bridge) Adapter() Adapter { return b.adapter }

// Section computes the layout for sectionIndex. It returns false when there
// is no delegate, or when the chosen path cannot produce a section.
func (b *Bridge) Section(sectionIndex int, env Environment) (*Section, bool) {
	if b.delegate == nil {
		return nil, false
	}
	if b.delegate.UsesFlowLayout(sectionIndex) {
		return b.FlowSection(sectionIndex, env)
	}
	return b.delegate.CustomSection(b, sectionIndex, env)
}

// FlowSection builds the compositional equivalent of a flow-layout
// section. It returns false when the data source is missing or does not
// know sectionIndex.
//
// Empty sections get a placeholder group. Otherwise a non-zero estimated
// item size selects [EstimatedGroup], and explicit item sizes are packed
// into a [VerticalGroup] of rows.
func (b *Bridge) FlowSection(sectionIndex int, env Environment) (*Section, bool) {
	if b.source == nil {
		return nil, false
	}
	n, ok := b.source.NumberOfItems(sectionIndex)
	if !ok {
		return nil, false
	}
	n = max(0, n)

	interitem := b.adapter.InteritemSpacing(sectionIndex)
	line := b.adapter.LineSpacing(sectionIndex)
	inset := b.adapter.SectionInset(sectionIndex)
	estimated := b.adapter.EstimatedItemSize()

	section := &Section{
		Mode: ModeFixed,
		// Only applied by the host in estimated mode; a fixed section has a
		// single top-level group.
		InterGroupSpacing: line,
		ContentInsets:     inset,
		BoundaryItems:     b.BoundaryItems(sectionIndex, env),
	}

	switch {
	case n == 0:
		section.Group = EmptyGroup()
	case !estimated.IsZero():
		section.Mode = ModeEstimated
		section.Group = EstimatedGroup(estimated, interitem)
	default:
		sizes := make([]Size, n)
		for i := range sizes {
			sizes[i] = b.adapter.ItemSize(IndexPath{Section: sectionIndex, Item: i})
		}
		section.Group = VerticalGroup(sizes, inset, interitem, line, env)
	}
	return section, true
}

// BoundaryItems returns the flow-style header and footer for sectionIndex.
// Custom sections may call it to reuse the flow reference sizes.
func (b *Bridge) BoundaryItems(sectionIndex int, env Environment) []BoundaryItem {
	return boundaryItems(b.adapter.HeaderSize(sectionIndex), b.adapter.FooterSize(sectionIndex), env)
}
