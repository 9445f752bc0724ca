package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowbridge/pkg/layout"
)

// ToDOT describes the hierarchy of l as a Graphviz digraph: the layout,
// its sections, each section's rows and boundary items, and the items of
// every row.
func ToDOT(l layout.Layout) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layout {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	root := l.Name
	if root == "" {
		root = "layout"
	}
	fmt.Fprintf(&buf, "  %q [label=%q];\n", "root", fmt.Sprintf("%s\n%gx%g", root, l.Width, l.Height))

	for _, s := range l.Sections {
		sid := fmt.Sprintf("s%d", s.Index)
		title := fmt.Sprintf("section %d", s.Index)
		if s.Name != "" {
			title += ": " + s.Name
		}
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", sid, title+"\n"+s.Mode, sectionColor(s.Index))
		fmt.Fprintf(&buf, "  %q -> %q;\n", "root", sid)

		rows := make(map[int]bool)
		for _, f := range s.Frames {
			var id, text string
			parent := sid
			switch f.Kind {
			case layout.KindHeader, layout.KindFooter:
				id = fmt.Sprintf("%s.%s", sid, f.Kind)
				text = f.Kind
			case layout.KindPlaceholder:
				id = sid + ".placeholder"
				text = "placeholder"
			default:
				rid := fmt.Sprintf("%s.r%d", sid, f.Row)
				if !rows[f.Row] {
					rows[f.Row] = true
					fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse];\n", rid, fmt.Sprintf("row %d", f.Row))
					fmt.Fprintf(&buf, "  %q -> %q;\n", sid, rid)
				}
				parent = rid
				id = fmt.Sprintf("%s.i%d", sid, f.Item)
				text = fmt.Sprintf("item %d", f.Item)
			}
			fmt.Fprintf(&buf, "  %q [label=%q];\n", id, fmt.Sprintf("%s\n%gx%g", text, f.Width, f.Height))
			fmt.Fprintf(&buf, "  %q -> %q;\n", parent, id)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderTree renders ToDOT(l) to SVG with Graphviz.
func RenderTree(l layout.Layout) ([]byte, error) {
	return RenderDOT(context.Background(), ToDOT(l))
}

// RenderDOT renders a DOT graph to SVG.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
