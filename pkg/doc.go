// Package pkg holds the flowbridge libraries.
//
// # Overview
//
// flowbridge lays out flow-style collections (per-item sizes, interitem and
// line spacing, section insets, headers and footers) as compositional
// sections, the way a compositional layout engine expects them. The
// translation is pure geometry and can run without any UI toolkit.
//
// The pkg directory is organized into four areas:
//
//  1. [core/flow] - the translation itself (row packing, edge spacing, groups, sections)
//  2. [manifest], [layout] - collection descriptions in, resolved frames out
//  3. [render], [cache] - SVG, PNG, JSON and DOT output, and the result cache
//  4. [pipeline], [api] - orchestration shared by the CLI and the HTTP API
//
// # Architecture
//
//	Manifest (YAML, TOML, JSON)
//	         ↓
//	    [core/flow] Bridge (flow section → compositional section)
//	         ↓
//	    [layout] Resolve (compositional section → frames)
//	         ↓
//	    [render] SVG/PNG/JSON/DOT output
//
// # Quick Start
//
//	m, err := manifest.Load("collection.yaml")
//	if err != nil {
//	    return err
//	}
//	l := layout.Resolve(m.Bridge(), m, m.Environment())
//	svg, err := render.Render(l, render.FormatSVG)
//
// Supporting packages:
//   - [config]: TOML configuration with environment overrides
//   - [errors]: coded errors shared by the CLI and the API
//   - [observability]: hooks for pipeline, cache and HTTP events
//   - [buildinfo]: version information set at build time
package pkg
