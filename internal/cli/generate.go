package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/calloutgen/pkg/core/callouts"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output     string   // document output path (default: overwrite input)
	page       string   // page name (default: first page)
	frames     []string // explicit frame IDs, bypassing the selection
	pick       bool     // choose frames interactively
	allowEmpty bool     // treat "no annotations" as success
	formats    []string // artifacts to render after generating
	noCache    bool     // disable caching
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var framesStr, formatsStr string
	opts := generateOpts{}

	cmd := &cobra.Command{
		Use:   "generate [document]",
		Short: "Generate callouts for every annotation on a page",
		Long: `Generate numbered callouts for the annotations on a page.

Targets are the selected frames, groups, components and instances, or every
top-level frame when nothing container-like is selected. Existing callouts
are replaced, so running generate twice leaves a single set.

The document is updated in place unless --output is given. Use --format to
also render the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.frames = parseList(framesStr)
			opts.formats = parseFormats(formatsStr, nil)
			if err := errors.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.pick && len(opts.frames) > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--pick and --frames cannot be combined")
			}
			return c.runGenerate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output document (default: overwrite input)")
	cmd.Flags().StringVar(&opts.page, "page", "", "page name (default: first page)")
	cmd.Flags().StringVar(&framesStr, "frames", "", "frame IDs to annotate (comma-separated)")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose frames interactively")
	cmd.Flags().BoolVar(&opts.allowEmpty, "allow-empty", false, "succeed when there are no annotations")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "also render: svg, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runGenerate loads the document, generates callouts and saves the result.
func (c *CLI) runGenerate(ctx context.Context, input string, opts generateOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	out, err := documentOutput(opts.output, input)
	if err != nil {
		return err
	}

	doc, err := runner.Load(ctx, input)
	if err != nil {
		return err
	}

	if opts.pick {
		page, err := doc.Page(opts.page)
		if err != nil {
			return err
		}
		picked, err := pickFrames(ctx, page)
		if err != nil {
			return err
		}
		if len(picked) == 0 {
			printInfo("No frames selected")
			return nil
		}
		opts.frames = picked
	}

	cfg := c.config()
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Generating callouts...")
	if len(opts.formats) > 0 {
		spinner.SetMessage(fmt.Sprintf("Generating callouts and rendering %s...", describeFormats(opts.formats)))
	}
	if c.verbose {
		spinner.Mute()
	}
	spinner.Start()
	result, err := runner.Process(ctx, doc, pipeline.Options{
		Page:    opts.page,
		Frames:  opts.frames,
		Command: callouts.CommandGenerate,
		Formats: opts.formats,
		Scale:   cfg.Render.Scale,
		Refresh: opts.noCache,
		Logger:  c.Logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	note := result.Notification
	if note.Error {
		if note.Code != string(errors.ErrCodeNoAnnotations) || !opts.allowEmpty {
			return note.Err()
		}
		printWarning("%s", note.Message)
		// The stale callout group is already gone; persist that.
		return saveDocument(result.Document, out)
	}

	prog.done("generated callouts", "callouts", note.Count, "frames", note.Frames)
	printNotification(note)
	if err := saveDocument(result.Document, out); err != nil {
		return err
	}
	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.formats,
		input:     out,
		cacheHit:  result.CacheInfo.RenderHit,
	}); err != nil {
		return err
	}
	printStats(result.Stats.NodeCount, note.Count, result.CacheInfo.ApplyHit)

	if len(opts.formats) == 0 {
		printNewline()
		printNextStep("Preview", fmt.Sprintf("%s render %s", appName, out))
	}
	return nil
}
