// Package flow translates flow-layout sizing rules into compositional
// layout sections.
//
// # Overview
//
// A flow layout describes a collection as items of known size that wrap
// into rows, with inter-item spacing, line spacing, section insets and
// optional header and footer reference sizes. A compositional layout
// describes the same collection as nested groups of items with explicit
// layout sizes and per-item edge spacing. This package computes the
// compositional description that renders identically to the flow one, so
// existing sizing logic can be reused unchanged.
//
// # Pipeline
//
// For one section the [Bridge] runs:
//
//	SizeProvider/Defaults ──► Adapter (clamped measurements)
//	        │
//	        ▼
//	PackRows ──► HorizontalGroup per row ──► edge spacing per item
//	        │
//	        ▼
//	VerticalGroup (fixed mode) or EstimatedGroup (estimated mode)
//	        │
//	        ▼
//	Section + BoundaryItems
//
// # Justification
//
// Rows that are not completely filled are justified the way a flow layout
// does it: leftover width is distributed as trailing edge spacing after each
// non-final item, lone items are centered, and the last row is left aligned.
// See [HorizontalEdgeSpacing] for the exact rules. Items are vertically
// centered against the tallest item in their row ([VerticalEdgeSpacing]).
//
// # Estimated Sizing
//
// When the estimated item size is non-zero, a section is described by a
// single self-sizing item inside a full-width horizontal group with flexible
// inter-item spacing ([EstimatedGroup]). In that mode the flow layout's
// habit of left-justifying only the last row is not reproduced.
//
// # Purity
//
// Every function in this package is a pure function of its inputs. Nothing
// is cached between calls and no value is mutated after it is returned, so a
// [Bridge] may be called repeatedly within a layout pass. Geometry never
// fails: unresolvable sections yield (nil, false) instead of an error.
package flow
