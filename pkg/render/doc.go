// Package render draws resolved layouts.
//
// # Overview
//
// A [layout.Layout] holds every header, item, footer and placeholder frame
// of a collection. This package turns it into something a person can look
// at:
//
//   - [RenderSVG] writes a vector wireframe of every frame
//   - [RenderPNG] rasterizes the same wireframe with fogleman/gg
//   - [ToDOT] and [RenderTree] draw the section, row and item hierarchy
//     with Graphviz
//   - [RenderJSON] writes the layout itself
//
// [Render] dispatches on a format name and is what the CLI and the API
// call:
//
//	data, err := render.Render(l, render.FormatSVG, render.WithStyle(render.Outline{}))
//
// # Styles
//
// A [Style] decides colors and strokes. [Simple] fills each section with
// its own color; [Outline] draws strokes only, which makes spacing between
// items easy to read. [StyleByName] maps the names used in configuration
// and on the command line.
package render
