package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/calloutgen/pkg/cache"
	"github.com/matzehuels/calloutgen/pkg/core/callouts"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/observability"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, generator and logger: it
// doesn't store pipeline results. Multiple goroutines can safely use the same
// Runner with different documents.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Generator *callouts.Generator
	Logger    *log.Logger

	// ConfigHash identifies the generator settings in cache keys. Runners
	// with different layouts or styles must not share entries.
	ConfigHash string
}

// NewRunner creates a runner with the given cache, keyer and generator.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If gen is nil, a generator with default settings is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, gen *callouts.Generator, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if gen == nil {
		gen = callouts.New(callouts.WithLogger(logger))
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Generator: gen,
		Logger:    logger,
	}
}

// Execute runs the complete load → apply → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, path string, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	doc, err := r.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	loadTime := time.Since(start)

	result, err := r.Process(ctx, doc, opts)
	if result != nil {
		result.Stats.LoadTime = loadTime
	}
	return result, err
}

// Process runs the apply and render stages on an already loaded document.
// The returned Result is non-nil whenever the apply stage ran.
func (r *Runner) Process(ctx context.Context, doc *scene.Document, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}
	hash, err := documentHash(doc)
	if err != nil {
		return nil, err
	}
	result.DocumentHash = hash

	applyStart := time.Now()
	out, note, hit, err := r.ApplyWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Document = out
	result.Notification = note
	result.CacheInfo.ApplyHit = hit
	result.Stats.ApplyTime = time.Since(applyStart)
	for _, p := range out.Pages {
		result.Stats.NodeCount += p.Count()
	}

	r.Logger.Info("applied command",
		"command", opts.Command,
		"message", note.Message,
		"cached", hit,
		"duration", result.Stats.ApplyTime)

	if note.Error || len(opts.Formats) == 0 {
		return result, nil
	}

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, out, opts)
	if err != nil {
		return result, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Load reads a document from disk.
func (r *Runner) Load(ctx context.Context, path string) (*scene.Document, error) {
	if err := errors.ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	doc, err := scene.Load(path)
	count := 0
	if doc != nil {
		for _, p := range doc.Pages {
			count += p.Count()
		}
	}
	hooks.OnLoadComplete(ctx, path, count, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded document", "path", path, "pages", len(doc.Pages), "nodes", count)
	return doc, nil
}

// cachedApply is the cache entry of the apply stage.
type cachedApply struct {
	Notification callouts.Notification `json:"notification"`
	Document     json.RawMessage       `json:"document"`
}

// ApplyWithCacheInfo runs the command on the selected page and returns the
// resulting document and whether it came from cache. Successful generate
// results are cached; failures and removals always run.
//
// On a cache miss doc is modified in place and returned.
func (r *Runner) ApplyWithCacheInfo(ctx context.Context, doc *scene.Document, opts Options) (*scene.Document, callouts.Notification, bool, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, callouts.Notification{}, false, err
	}
	page, err := doc.Page(opts.Page)
	if err != nil {
		return nil, callouts.Notification{}, false, err
	}

	cacheable := opts.Command == callouts.CommandGenerate
	var key string
	if cacheable {
		hash, err := documentHash(doc)
		if err != nil {
			return nil, callouts.Notification{}, false, err
		}
		key = r.Keyer.DocumentKey(hash, opts.DocumentKeyOpts(r.ConfigHash))
		if !opts.Refresh {
			if entry, ok := r.lookupApply(ctx, key); ok {
				return entry.doc, entry.note, true, nil
			}
		}
	}

	var note callouts.Notification
	if len(opts.Frames) > 0 {
		frames, err := resolveFrames(page, opts.Frames)
		if err != nil {
			return nil, note, false, err
		}
		note = r.Generator.RunFrames(ctx, page, frames)
	} else {
		note = r.Generator.Run(ctx, page, opts.Command)
	}

	if cacheable && !note.Error {
		r.storeApply(ctx, key, doc, note)
	}
	return doc, note, false, nil
}

// Apply is a convenience wrapper that discards the cache hit info.
func (r *Runner) Apply(ctx context.Context, doc *scene.Document, opts Options) (*scene.Document, callouts.Notification, error) {
	out, note, _, err := r.ApplyWithCacheInfo(ctx, doc, opts)
	return out, note, err
}

type applyEntry struct {
	doc  *scene.Document
	note callouts.Notification
}

func (r *Runner) lookupApply(ctx context.Context, key string) (applyEntry, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, key)
		return applyEntry{}, false
	}
	var entry cachedApply
	if err := json.Unmarshal(data, &entry); err != nil {
		r.Logger.Warn("discarding corrupt cache entry", "key", key, "error", err)
		return applyEntry{}, false
	}
	doc, err := scene.Read(bytes.NewReader(entry.Document), scene.FormatJSON)
	if err != nil {
		r.Logger.Warn("discarding corrupt cache entry", "key", key, "error", err)
		return applyEntry{}, false
	}
	observability.Cache().OnCacheHit(ctx, key)
	return applyEntry{doc: doc, note: entry.Notification}, true
}

func (r *Runner) storeApply(ctx context.Context, key string, doc *scene.Document, note callouts.Notification) {
	var buf bytes.Buffer
	if err := scene.Write(doc, &buf, scene.FormatJSON); err != nil {
		return
	}
	data, err := json.Marshal(cachedApply{Notification: note, Document: buf.Bytes()})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLDocument); err != nil {
		r.Logger.Debug("cache set failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// resolveFrames looks up explicit frame IDs on the page.
func resolveFrames(page *scene.Page, ids []string) ([]*scene.Node, error) {
	frames := make([]*scene.Node, 0, len(ids))
	for _, id := range ids {
		n := page.NodeByID(id)
		if n == nil {
			return nil, errors.New(errors.ErrCodeNotFound, "frame %q not found on page %q", id, page.Name)
		}
		frames = append(frames, n)
	}
	return frames, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// documentHash hashes the canonical JSON encoding of doc.
func documentHash(doc *scene.Document) (string, error) {
	var buf bytes.Buffer
	if err := scene.Write(doc, &buf, scene.FormatJSON); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return cache.Hash(buf.Bytes()), nil
}
