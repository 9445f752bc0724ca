package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbridge/pkg/core/flow"
	"github.com/matzehuels/flowbridge/pkg/errors"
	"github.com/matzehuels/flowbridge/pkg/layout"
	"github.com/matzehuels/flowbridge/pkg/manifest"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		section int
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [manifest | layout.json]",
		Short: "Summarize the sections of a layout",
		Long: `Summarize the sections of a layout.

Without --section, inspect prints one row per section. With --section N it
prints the frames of section N and, for a manifest, the compositional
section the bridge translated it into.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("section") {
				section = -1
			}
			return c.runInspect(cmd.Context(), args[0], section, flags)
		},
	}

	cmd.Flags().IntVarP(&section, "section", "s", 0, "show the frames of one section")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, section int, flags layoutFlags) error {
	l, m, err := c.loadLayout(ctx, input, flags)
	if err != nil {
		return err
	}

	if section < 0 {
		title := l.Name
		if title == "" {
			title = input
		}
		fmt.Println(StyleTitle.Render(title))
		printKeyValue("Container", fmt.Sprintf("%g × %g", l.Width, l.Height))
		printKeyValue("Content", fmt.Sprintf("%g × %g", l.ContentWidth(), l.ContentHeight))
		printNewline()
		fmt.Println(sectionsTable(l))
		if n := unresolvedSections(l); n > 0 {
			printWarning("%s produced no layout", plural(n, "section"))
		}
		return nil
	}

	if section >= len(l.Sections) {
		return errors.New(errors.ErrCodeSectionNotFound, "section %d not found (layout has %d)", section, len(l.Sections))
	}
	s := l.Sections[section]
	fmt.Println(StyleTitle.Render(sectionTitle(s)))
	if s.Mode == layout.ModeNone {
		printWarning("Section %d produced no layout", section)
		return nil
	}
	if m != nil {
		if fs, ok := m.Bridge().Section(section, m.Environment()); ok {
			fmt.Println(StyleDim.Render(describeSection(fs)))
		}
	}
	fmt.Println(framesTable(s))
	return nil
}

// loadLayout reads a layout file, or lays out a manifest and also returns
// it.
func (c *CLI) loadLayout(ctx context.Context, input string, flags layoutFlags) (layout.Layout, *manifest.Manifest, error) {
	if isLayoutFile(input) {
		l, err := layout.ReadFile(input)
		return l, nil, err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return layout.Layout{}, nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.options(input, flags)
	m, err := runner.Load(ctx, opts)
	if err != nil {
		return layout.Layout{}, nil, err
	}
	l, err := runner.Layout(ctx, m, opts)
	return l, m, err
}

func sectionTitle(s layout.Section) string {
	if s.Name != "" {
		return fmt.Sprintf("Section %d · %s", s.Index, s.Name)
	}
	return fmt.Sprintf("Section %d", s.Index)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// sectionsTable renders one row per section.
func sectionsTable(l layout.Layout) string {
	t := newTable("#", "Name", "Mode", "Scrolling", "Items", "Rows", "Y", "Height")
	for _, s := range l.Sections {
		scrolling := s.Scrolling
		if scrolling == "" {
			scrolling = "-"
		}
		t.Row(
			strconv.Itoa(s.Index),
			s.Name,
			s.Mode,
			scrolling,
			strconv.Itoa(len(s.Items())),
			strconv.Itoa(s.Rows),
			num(s.Y),
			num(s.Height),
		)
	}
	return t.Render()
}

// framesTable renders every frame of s.
func framesTable(s layout.Section) string {
	t := newTable("Kind", "Item", "Row", "X", "Y", "Width", "Height")
	for _, f := range s.Frames {
		item := "-"
		if f.Item >= 0 {
			item = strconv.Itoa(f.Item)
		}
		t.Row(f.Kind, item, strconv.Itoa(f.Row), num(f.X), num(f.Y), num(f.Width), num(f.Height))
	}
	return t.Render()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// describeSection prints the compositional structure of s as an indented
// tree.
func describeSection(s *flow.Section) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s section, group spacing %g", s.Mode, s.InterGroupSpacing)
	if s.Scrolling != flow.ScrollNone {
		fmt.Fprintf(&b, ", scrolling %s", s.Scrolling)
	}
	b.WriteByte('\n')
	for _, bi := range s.BoundaryItems {
		fmt.Fprintf(&b, "  %s %s × %s\n", bi.Kind, bi.Size.Width, bi.Size.Height)
	}
	describeGroup(&b, s.Group, 1)
	return strings.TrimRight(b.String(), "\n")
}

func describeGroup(b *strings.Builder, g flow.Group, depth int) {
	indent := strings.Repeat("  ", depth)
	kind := g.Axis.String() + " group"
	if g.Placeholder {
		kind = "placeholder group"
	}
	fmt.Fprintf(b, "%s%s %s × %s, spacing %s(%g)", indent, kind, g.Size.Width, g.Size.Height, g.InterItemSpacing.Kind, g.InterItemSpacing.Value)
	if len(g.Items) > 0 {
		fmt.Fprintf(b, ", %s", plural(len(g.Items), "item"))
	}
	b.WriteByte('\n')
	for _, sub := range g.Subgroups {
		describeGroup(b, sub, depth+1)
	}
}

// unresolvedSections counts the sections of l the bridge had no layout for.
func unresolvedSections(l layout.Layout) int {
	var n int
	for _, s := range l.Sections {
		if s.Mode == layout.ModeNone {
			n++
		}
	}
	return n
}
