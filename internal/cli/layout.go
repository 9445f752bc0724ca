package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbridge/pkg/layout"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [manifest]",
		Short: "Resolve a collection manifest into a layout",
		Long: `Resolve a collection manifest into a layout.

The layout command reads a manifest (YAML, TOML or JSON), translates every
section into a compositional section and resolves it into frames. The output
is a layout.json file (same format as 'render -f json') that 'render' and
'inspect' accept in place of the manifest.

Results are cached for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the manifest, computes the layout and writes it.
func (c *CLI) runLayout(ctx context.Context, input, output string, flags layoutFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.options(input, flags)
	m, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, "Resolving layout...")
	spinner.Start()

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, m, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "" {
		output = layoutPath(input)
	}
	if err := layout.WriteFile(l, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(len(l.Sections), l.ItemCount(), rowCount(l), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+output)

	return nil
}

// layoutPath derives <base>.layout.json from a manifest path.
func layoutPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + layoutSuffix
}

// layoutSuffix marks files produced by the layout command.
const layoutSuffix = ".layout.json"

func isLayoutFile(path string) bool {
	return strings.HasSuffix(path, layoutSuffix)
}

func rowCount(l layout.Layout) int {
	var n int
	for _, s := range l.Sections {
		n += s.Rows
	}
	return n
}
