package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbridge/pkg/layout"
	"github.com/matzehuels/flowbridge/pkg/pipeline"
	"github.com/matzehuels/flowbridge/pkg/render"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		style      string
		scale      float64
		labels     bool
		flags      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [manifest | layout.json]",
		Short: "Render a manifest or a computed layout",
		Long: `Render a manifest or a computed layout.

Given a manifest, render runs the whole pipeline: load, layout and render.
Given a *.layout.json file produced by 'layout', it only renders.

Formats: svg (default), png, json, dot (Graphviz source of the section
hierarchy) and tree (that hierarchy drawn by Graphviz as SVG).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			opts := c.options(args[0], flags)
			opts.Formats = formats
			opts.Labels = labels
			if cmd.Flags().Changed("style") {
				opts.Style = style
			}
			if cmd.Flags().Changed("scale") {
				opts.Scale = scale
			}
			if err := opts.ValidateForRender(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], output, opts, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, dot, tree (comma-separated)")
	cmd.Flags().StringVar(&style, "style", pipeline.DefaultStyle, "visual style: simple, outline")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&labels, "labels", false, "label frames with their index path")
	flags.register(cmd)

	return cmd
}

// runRender renders input in every requested format and writes the files.
func (c *CLI) runRender(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()

	var (
		l         layout.Layout
		artifacts map[string][]byte
		layoutHit bool
		renderHit bool
	)
	if isLayoutFile(input) {
		l, err = layout.ReadFile(input)
		if err == nil {
			artifacts, renderHit, err = runner.RenderWithCacheInfo(ctx, l, opts)
			layoutHit = true
		}
	} else {
		var result *pipeline.Result
		result, err = runner.Execute(ctx, opts)
		if err == nil {
			l, artifacts = result.Layout, result.Artifacts
			layoutHit, renderHit = result.CacheInfo.LayoutHit, result.CacheInfo.RenderHit
		}
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(l.Sections), l.ItemCount(), rowCount(l), layoutHit && renderHit)
	return nil
}

// writeArtifacts writes one file per format and returns the paths. A single
// format is written to output as given; several formats share output (or
// the input name) as a base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	base := basePath(output, input)

	var paths []string
	for _, format := range formats {
		path := base + "." + extension(format)
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path. Without output it strips the
// extension (and any .layout suffix) from input. A known format extension
// on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".layout")
	}
	ext := filepath.Ext(output)
	if render.ValidFormat(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// extension returns the file extension written for a format.
func extension(format string) string {
	switch format {
	case render.FormatTree:
		return "tree.svg"
	case render.FormatDOT:
		return "dot"
	}
	return format
}
