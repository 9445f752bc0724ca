package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/flowbridge/pkg/layout"
)

// RenderSVG draws every frame of l as a rectangle, grouped per section.
// The canvas is the layout's content size, so orthogonally scrolling
// sections are drawn in full.
func RenderSVG(l layout.Layout, opts ...Option) []byte {
	o := newOptions(opts...)
	w, h := l.ContentWidth(), l.ContentHeight

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-style="%s">`+"\n",
		w, h, w, h, o.style.Name())
	fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="%s"/>`+"\n", background)

	for _, s := range l.Sections {
		fmt.Fprintf(&buf, `  <g id="section-%d" class="section" data-mode="%s"`, s.Index, s.Mode)
		if s.Name != "" {
			fmt.Fprintf(&buf, ` data-name="%s"`, html.EscapeString(s.Name))
		}
		buf.WriteString(">\n")

		for _, f := range s.Frames {
			fmt.Fprintf(&buf, `    <rect class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"`, f.Kind, f.X, f.Y, f.Width, f.Height)
			o.style.Paint(f, s.Index).svgAttrs(&buf)
			buf.WriteString("/>\n")
		}
		if o.labels {
			renderLabels(&buf, s)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLabels(buf *bytes.Buffer, s layout.Section) {
	for _, f := range s.Frames {
		text := label(f, s)
		if text == "" {
			continue
		}
		fmt.Fprintf(buf, `    <text class="label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
			f.X+f.Width/2, f.Y+f.Height/2, fontSize(f), strokeColor, html.EscapeString(text))
	}
}

func fontSize(f layout.Frame) float64 {
	return max(6, min(14, f.Height/3))
}
