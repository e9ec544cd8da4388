// Package pipeline provides the document pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a JSON or YAML scene document
//  2. Apply: Run a callout command (generate or remove) on one page
//  3. Render: Draw the page as SVG, PNG or PDF
//
// Each stage can be run independently or as part of the complete pipeline.
// Apply and Render results are cached by content hash, so re-running an
// unchanged document is a cache lookup.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, generator, logger)
//	result, err := runner.Execute(ctx, "checkout.json", pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/calloutgen/pkg/cache"
	"github.com/matzehuels/calloutgen/pkg/core/callouts"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// DefaultScale is the default pixel density of PNG artifacts.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Apply options
	Page    string           `json:"page,omitempty"`
	Frames  []string         `json:"frames,omitempty"`
	Command callouts.Command `json:"command,omitempty"`
	Refresh bool             `json:"refresh,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	EmbedFonts bool     `json:"embed_fonts,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Command == "" {
		o.Command = callouts.CommandGenerate
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options after defaults are applied. An empty format
// list is valid and skips rendering.
func (o *Options) Validate() error {
	switch o.Command {
	case callouts.CommandGenerate, callouts.CommandRemove:
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown command %q", o.Command)
	}
	if o.Command == callouts.CommandRemove && len(o.Frames) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "frames cannot be combined with remove")
	}
	if err := errors.ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	return nil
}

// DocumentKeyOpts returns cache key options for the apply stage.
func (o *Options) DocumentKeyOpts(configHash string) cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Page:       o.Page,
		Frames:     o.Frames,
		ConfigHash: configHash,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Page: o.Page}
	switch format {
	case FormatPNG:
		opts.Scale = o.Scale
	case FormatSVG:
		opts.EmbedFonts = o.EmbedFonts
	}
	return opts
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the document after the command ran.
	Document *scene.Document

	// DocumentHash is the content hash of the loaded document.
	DocumentHash string

	// Notification is the user-facing outcome of the command.
	Notification callouts.Notification

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LoadTime   time.Duration
	ApplyTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ApplyHit  bool // Whether the command result came from cache
	RenderHit bool // Whether all artifacts came from cache
}
