// Package observability lets an application watch the pipeline without the
// libraries depending on a metrics or tracing backend.
//
// Libraries report events through the hook interfaces returned by
// [Pipeline], [Cache], [Batch] and [HTTP]. By default every hook is a no-op;
// main registers real implementations once at startup:
//
//	rec := observability.NewRecorder()
//	observability.Install(rec)
//
// [Recorder] is the bundled implementation. It keeps counters that the HTTP
// server publishes at /v1/stats.
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// PipelineHooks receives build and render events.
type PipelineHooks interface {
	// OnLayoutStart and OnLayoutComplete bracket placement, distances and
	// edge resolution of one layout.
	OnLayoutStart(ctx context.Context, policy string, nodeCount int)
	OnLayoutComplete(ctx context.Context, policy string, duration time.Duration, err error)

	// OnResolve reports the outcome of the crossing sweep.
	OnResolve(ctx context.Context, nodeCount, accepted, conflicts int)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is "layout" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// BatchHooks receives seed sweep events.
type BatchHooks interface {
	OnBatchStart(ctx context.Context, seeds, concurrency int)
	OnSeedComplete(ctx context.Context, seed uint64, crossings int, duration time.Duration, err error)
	OnBatchComplete(ctx context.Context, runs int, duration time.Duration, err error)
}

// HTTPHooks receives served requests. route is the matched pattern.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                       {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)   {}
func (NoopPipelineHooks) OnResolve(context.Context, int, int, int)                         {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopBatchHooks ignores every event.
type NoopBatchHooks struct{}

func (NoopBatchHooks) OnBatchStart(context.Context, int, int)                            {}
func (NoopBatchHooks) OnSeedComplete(context.Context, uint64, int, time.Duration, error) {}
func (NoopBatchHooks) OnBatchComplete(context.Context, int, time.Duration, error)        {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registry is replaced as a whole on every change, so readers never lock.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	batch    BatchHooks
	http     HTTPHooks
}

var (
	current  atomic.Pointer[registry]
	updateMu sync.Mutex
)

func init() { Reset() }

func update(fn func(r *registry)) {
	updateMu.Lock()
	defer updateMu.Unlock()
	next := *current.Load()
	fn(&next)
	current.Store(&next)
}

// SetPipelineHooks registers h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks registers h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetBatchHooks registers h. A nil h is ignored.
func SetBatchHooks(h BatchHooks) {
	if h != nil {
		update(func(r *registry) { r.batch = h })
	}
}

// SetHTTPHooks registers h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Install registers rec for every hook category.
func Install(rec *Recorder) {
	update(func(r *registry) {
		r.pipeline, r.cache, r.batch, r.http = rec, rec, rec, rec
	})
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// Batch returns the registered batch hooks.
func Batch() BatchHooks { return current.Load().batch }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	current.Store(&registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		batch:    NoopBatchHooks{},
		http:     NoopHTTPHooks{},
	})
}
