package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbridge/pkg/layout"
)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "preview [manifest | layout.json]",
		Short: "Browse the sections and frames of a layout interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, _, err := c.loadLayout(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewPreviewModel(l), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PreviewModel - Interactive layout browser
// =============================================================================

// PreviewModel is the bubbletea model for browsing a layout. It lists the
// sections; enter opens the frames of the selected section.
type PreviewModel struct {
	Layout layout.Layout
	Cursor int
	Offset int
	Height int

	// Open is the index of the section whose frames are shown, or -1.
	Open int
}

// NewPreviewModel creates a preview of l.
func NewPreviewModel(l layout.Layout) PreviewModel {
	return PreviewModel{Layout: l, Height: 15, Open: -1}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace":
			if m.Open < 0 {
				return m, tea.Quit
			}
			m.Open = -1
		case "up", "k":
			if m.Open < 0 && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Open < 0 && m.Cursor < len(m.Layout.Sections)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Layout.Sections) > 0 {
				m.Open = m.Cursor
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-6)
	}
	return m, nil
}

func (m PreviewModel) View() string {
	if m.Open >= 0 {
		return m.frameView()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(previewTitle(m.Layout)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ frames  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Layout.Sections))
	for i := m.Offset; i < end; i++ {
		s := m.Layout.Sections[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-3d %-16s %-10s %s", cursor, s.Index, s.Name, s.Mode,
			listDimStyle.Render(fmt.Sprintf("%s · %s · y %s", plural(len(s.Items()), "item"), plural(s.Rows, "row"), num(s.Y))))
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case s.Mode == layout.ModeNone:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Layout.Sections)), len(m.Layout.Sections))))
	return b.String()
}

func (m PreviewModel) frameView() string {
	s := m.Layout.Sections[m.Open]

	var b strings.Builder
	b.WriteString(StyleTitle.Render(sectionTitle(s)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")
	b.WriteString(framesTable(s))
	b.WriteString("\n")
	return b.String()
}

func previewTitle(l layout.Layout) string {
	name := l.Name
	if name == "" {
		name = "layout"
	}
	return fmt.Sprintf("%s · %g × %g · content height %g", name, l.Width, l.Height, l.ContentHeight)
}
