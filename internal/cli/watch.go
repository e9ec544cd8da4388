package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/calloutgen/pkg/cache"
	"github.com/matzehuels/calloutgen/pkg/core/callouts"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/pipeline"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// defaultDebounce is how long the document must stay quiet before a rebuild.
const defaultDebounce = 500 * time.Millisecond

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	output   string
	page     string
	formats  []string
	debounce time.Duration
}

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var formatsStr string
	opts := watchOpts{}

	cmd := &cobra.Command{
		Use:   "watch [document]",
		Short: "Regenerate callouts whenever the document changes",
		Long: `Watch a document and regenerate its callouts after every save.

Changes are debounced, and the command ignores the write it made itself, so
watching a document that is also the output does not loop. Press Ctrl+C to
stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, nil)
			if err := errors.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output document (default: overwrite input)")
	cmd.Flags().StringVar(&opts.page, "page", "", "page name (default: first page)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "also render: svg, png, pdf (comma-separated)")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", defaultDebounce, "quiet period before regenerating")

	return cmd
}

// runWatch rebuilds once, then again after every settled change until ctx
// is cancelled.
func (c *CLI) runWatch(ctx context.Context, input string, opts watchOpts) error {
	out, err := documentOutput(opts.output, input)
	if err != nil {
		return err
	}
	if err := errors.ValidateDocumentPath(input); err != nil {
		return err
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", input)
	}

	runner, err := c.newRunner(false)
	if err != nil {
		return err
	}
	defer runner.Close()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "start watcher")
	}
	defer w.Close()
	// Editors often save by renaming a temp file over the original, which
	// drops a watch on the file itself.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "watch %s", filepath.Dir(abs))
	}

	b := &watchBuild{cli: c, runner: runner, input: input, output: out, opts: opts}
	b.rebuild(ctx)

	deb := newDebouncer(opts.debounce)
	defer deb.stop()
	printInfo("Watching %s (Ctrl+C to stop)", input)

	for {
		select {
		case <-ctx.Done():
			printNewline()
			printInfo("Stopped watching")
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			c.Logger.Debug("document changed", "op", ev.Op.String())
			deb.trigger()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "error", err)
		case <-deb.C:
			b.rebuild(ctx)
		}
	}
}

// watchBuild regenerates one document and remembers what it last wrote.
type watchBuild struct {
	cli    *CLI
	runner *pipeline.Runner
	input  string
	output string
	opts   watchOpts

	lastWrite string // hash of the bytes last written to output
}

// rebuild regenerates the document. Failures are reported and swallowed so
// the watch keeps running.
func (b *watchBuild) rebuild(ctx context.Context) {
	data, err := os.ReadFile(b.input)
	if err != nil {
		b.cli.Logger.Warn("read document", "error", err)
		return
	}
	if b.output == b.input && cache.Hash(data) == b.lastWrite {
		b.cli.Logger.Debug("skipping own write")
		return
	}

	doc, err := scene.Read(bytes.NewReader(data), scene.FormatFromPath(b.input))
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return
	}
	prog := newProgress(b.cli.Logger)
	spinner := newSpinnerWithContext(ctx, "Regenerating...")
	if b.cli.verbose {
		spinner.Mute()
	}
	spinner.Start()
	result, err := b.runner.Process(ctx, doc, pipeline.Options{
		Page:    b.opts.page,
		Command: callouts.CommandGenerate,
		Formats: b.opts.formats,
		Scale:   b.cli.config().Render.Scale,
		Logger:  b.cli.Logger,
	})
	spinner.Stop()
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return
	}
	note := result.Notification
	if note.Error && note.Code != string(errors.ErrCodeNoAnnotations) {
		printWarning("%s", note.Message)
		return
	}

	var buf bytes.Buffer
	if err := scene.Write(result.Document, &buf, scene.FormatFromPath(b.output)); err != nil {
		printError("%s", errors.UserMessage(err))
		return
	}
	if err := os.WriteFile(b.output, buf.Bytes(), 0o644); err != nil {
		printError("write %s: %v", b.output, err)
		return
	}
	b.lastWrite = cache.Hash(buf.Bytes())

	prog.done("regenerated", "callouts", note.Count)
	printNotification(note)
	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   b.opts.formats,
		input:     b.output,
		cacheHit:  result.CacheInfo.RenderHit,
	}); err != nil {
		printError("%s", errors.UserMessage(err))
	}
}

// debouncer coalesces bursts of triggers into one send on C after a quiet
// period.
type debouncer struct {
	C chan struct{}

	delay time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{C: make(chan struct{}, 1), delay: delay}
}

// trigger restarts the quiet period.
func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		select {
		case d.C <- struct{}{}:
		default:
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
