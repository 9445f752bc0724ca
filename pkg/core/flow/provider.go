package flow

import "math"

// Defaults are the layout-wide measurements used when a [SizeProvider]
// has no answer for a section or item.
type Defaults struct {
	ItemSize          Size
	EstimatedItemSize Size
	InteritemSpacing  float64
	LineSpacing       float64
	SectionInset      Insets
	HeaderSize        Size
	FooterSize        Size
}

// LegacyDefaults returns the out-of-the-box values of a flow layout:
// 50x50 items, 10 point spacing, no insets and no header or footer.
func LegacyDefaults() Defaults {
	return Defaults{
		ItemSize:         Size{Width: 50, Height: 50},
		InteritemSpacing: 10,
		LineSpacing:      10,
	}
}

// SizeProvider answers per-section and per-item overrides. Every method
// returns ok == false to fall back to [Defaults]. Implementations are called
// many times per layout pass and should be cheap and side-effect free.
type SizeProvider interface {
	ItemSize(ip IndexPath) (Size, bool)
	InteritemSpacing(section int) (float64, bool)
	LineSpacing(section int) (float64, bool)
	SectionInset(section int) (Insets, bool)
	HeaderSize(section int) (Size, bool)
	FooterSize(section int) (Size, bool)
}

// Adapter resolves measurements through the override chain: provider
// answer, else default. Results are sanitized here so the packing code
// never sees negative, NaN or infinite values; those become zero.
type Adapter struct {
	Defaults Defaults
	Provider SizeProvider // may be nil
}

// ItemSize returns the size of the item at ip.
func (a Adapter) ItemSize(ip IndexPath) Size {
	s := a.Defaults.ItemSize
	if a.Provider != nil {
		if v, ok := a.Provider.ItemSize(ip); ok {
			s = v
		}
	}
	return clampSize(s)
}

// InteritemSpacing returns the minimum spacing between items in a row.
func (a Adapter) InteritemSpacing(section int) float64 {
	v := a.Defaults.InteritemSpacing
	if a.Provider != nil {
		if p, ok := a.Provider.InteritemSpacing(section); ok {
			v = p
		}
	}
	return clamp(v)
}

// LineSpacing returns the minimum spacing between rows.
func (a Adapter) LineSpacing(section int) float64 {
	v := a.Defaults.LineSpacing
	if a.Provider != nil {
		if p, ok := a.Provider.LineSpacing(section); ok {
			v = p
		}
	}
	return clamp(v)
}

// SectionInset returns the insets around the section's items.
func (a Adapter) SectionInset(section int) Insets {
	in := a.Defaults.SectionInset
	if a.Provider != nil {
		if p, ok := a.Provider.SectionInset(section); ok {
			in = p
		}
	}
	return Insets{Top: clamp(in.Top), Leading: clamp(in.Leading), Bottom: clamp(in.Bottom), Trailing: clamp(in.Trailing)}
}

// HeaderSize returns the header reference size; zero means no header.
func (a Adapter) HeaderSize(section int) Size {
	s := a.Defaults.HeaderSize
	if a.Provider != nil {
		if v, ok := a.Provider.HeaderSize(section); ok {
			s = v
		}
	}
	return clampSize(s)
}

// FooterSize returns the footer reference size; zero means no footer.
func (a Adapter) FooterSize(section int) Size {
	s := a.Defaults.FooterSize
	if a.Provider != nil {
		if v, ok := a.Provider.FooterSize(section); ok {
			s = v
		}
	}
	return clampSize(s)
}

// EstimatedItemSize is layout-wide; there is no per-section override.
func (a Adapter) EstimatedItemSize() Size {
	return clampSize(a.Defaults.EstimatedItemSize)
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func clampSize(s Size) Size {
	return Size{Width: clamp(s.Width), Height: clamp(s.Height)}
}
