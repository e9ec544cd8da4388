package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/calloutgen/pkg/cache"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/observability"
	"github.com/matzehuels/calloutgen/pkg/render/sink"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// Render draws the selected page of doc in every requested format.
func Render(ctx context.Context, doc *scene.Document, opts Options) (map[string][]byte, error) {
	page, err := doc.Page(opts.Page)
	if err != nil {
		return nil, err
	}

	sinkOpts := []sink.Option{sink.WithScale(opts.Scale)}
	if opts.EmbedFonts {
		sinkOpts = append(sinkOpts, sink.WithEmbeddedFonts())
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := sink.Render(ctx, page, format, sinkOpts...)
		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeRenderFailed
			}
			return nil, errors.Wrap(code, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *scene.Document, opts Options) (map[string][]byte, bool, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	hash, err := documentHash(doc)
	if err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit && !opts.Refresh {
			observability.Cache().OnCacheHit(ctx, key)
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, key)
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, doc, renderOpts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, key, len(data))
		}
		artifacts[format] = data
	}
	return artifacts, false, nil
}
