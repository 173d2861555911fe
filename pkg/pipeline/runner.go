package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/auradisp/pkg/brightness"
	"github.com/matzehuels/auradisp/pkg/cache"
	"github.com/matzehuels/auradisp/pkg/graph"
	"github.com/matzehuels/auradisp/pkg/nodeset"
	"github.com/matzehuels/auradisp/pkg/observability"
	"github.com/matzehuels/auradisp/pkg/render"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → light → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Build
	layoutStart := time.Now()
	set, layoutHit, err := r.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	// Stage 2: Light
	if err := r.Light(set, opts); err != nil {
		return nil, fmt.Errorf("brightness: %w", err)
	}
	result.Set = set
	result.Layout = set.Export()
	if data, err := graph.MarshalLayout(result.Layout); err == nil {
		result.LayoutHash = cache.Hash(data)
	}

	stats := set.Stats()
	result.Stats.NodeCount = set.Len()
	result.Stats.EdgeCount = stats.Accepted
	result.Stats.ExpectedEdges = set.ExpectedEdges()
	result.Stats.Conflicts = len(set.Conflicts())
	result.Stats.Components = len(set.Components())
	result.Stats.MaxDegree = set.MaxDegree()
	result.Stats.Span = set.Span()

	logger.Info("resolved layout",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"expected", result.Stats.ExpectedEdges,
		"max_degree", result.Stats.MaxDegree,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, set, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo constructs the resolved node set with caching and
// returns cache hit info. A cached set carries the stored edges; its
// resolver statistics are synthesized and its conflict log is empty.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) (*nodeset.Set, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.LayoutKey(opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if l, err := graph.UnmarshalLayout(data); err == nil {
				if set, err := nodeset.FromLayout(l); err == nil {
					observability.Cache().OnCacheHit(ctx, keyTypeLayout)
					return set, true, nil
				}
			}
			// A corrupt entry falls through to a rebuild that overwrites it.
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Policy, opts.Nodes)
	start := time.Now()
	set, err := nodeset.NewContext(ctx, opts.NodesetConfig())
	hooks.OnLayoutComplete(ctx, opts.Policy, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	stats := set.Stats()
	hooks.OnResolve(ctx, stats.Nodes, stats.Accepted, len(set.Conflicts()))
	opts.Logger.Debug("resolved edges",
		"candidates", stats.Candidates,
		"accepted", stats.Accepted,
		"rejected", stats.Rejected,
		"tests", stats.CrossingTests,
		"workers", stats.Workers)

	if data, err := graph.MarshalLayout(set.Export()); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}

	return set, false, nil
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Build(ctx context.Context, opts Options) (*nodeset.Set, error) {
	set, _, err := r.BuildWithCacheInfo(ctx, opts)
	return set, err
}

// Light assigns brightness to set according to opts.
func (r *Runner) Light(set *nodeset.Set, opts Options) error {
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	mode, err := brightness.ParseMode(opts.Brightness)
	if err != nil {
		return err
	}
	return set.AssignBrightnessParams(mode, opts.BrightnessParams())
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, set *nodeset.Set, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from layout data
	layoutData, err := graph.MarshalLayout(set.Export())
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderSet(ctx, set, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, set *nodeset.Set, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, set, opts)
	return artifacts, err
}

// RenderSet renders set in every requested format without caching.
func RenderSet(ctx context.Context, set *nodeset.Set, opts Options) (map[string][]byte, error) {
	ropts := opts.RenderOptions()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, name := range opts.Formats {
		format, err := render.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		data, err := render.Render(ctx, set, format, ropts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		artifacts[name] = data
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
