package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format) or base path (multiple)
	page       string   // page name (default: first page)
	formats    []string // output formats: "svg", "png", "pdf"
	scale      float64  // PNG pixels per point
	embedFonts bool     // inline font faces in SVG output
	noCache    bool     // disable caching
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [document]",
		Short: "Render a page to SVG, PNG or PDF",
		Long: `Render a page, including any generated callouts, to SVG, PNG or PDF.

Imported design nodes are drawn as outlines; generated callouts are drawn with
their full styling. PDF output requires rsvg-convert (librsvg).

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			opts.formats = parseFormats(formatsStr, cfg.Render.Formats)
			if err := errors.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if !cmd.Flags().Changed("scale") {
				opts.scale = cfg.Render.Scale
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&opts.page, "page", "", "page name (default: first page)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG pixels per point")
	cmd.Flags().BoolVar(&opts.embedFonts, "embed-fonts", false, "embed font faces in SVG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender loads the document and renders the page.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, err := runner.Load(ctx, input)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", describeFormats(opts.formats)))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, doc, pipeline.Options{
		Page:       opts.page,
		Formats:    opts.formats,
		Scale:      opts.scale,
		EmbedFonts: opts.embedFonts,
		Refresh:    opts.noCache,
		Logger:     c.Logger,
	})
	if err != nil {
		cancelled := spinner.Cancelled()
		spinner.StopWithError("Render failed")
		if cancelled {
			return ctx.Err()
		}
		return fmt.Errorf("render: %w", err)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", describeFormats(opts.formats)))
	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.formats,
		input:     input,
		output:    opts.output,
		cacheHit:  cacheHit,
	})
}
