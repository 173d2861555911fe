package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Recorder counts events. It implements every hook interface and is safe
// for concurrent use.
type Recorder struct {
	started time.Time

	layouts       atomic.Int64
	layoutErrors  atomic.Int64
	layoutNanos   atomic.Int64
	nodes         atomic.Int64
	accepted      atomic.Int64
	conflicts     atomic.Int64
	renders       atomic.Int64
	renderErrors  atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	cacheBytes    atomic.Int64
	batches       atomic.Int64
	seeds         atomic.Int64
	seedCrossings atomic.Int64
	requests      atomic.Int64

	mu       sync.Mutex
	statuses map[int]int64
	routes   map[string]int64
}

// Snapshot is a point-in-time copy of a Recorder's counters.
type Snapshot struct {
	Uptime          string           `json:"uptime"`
	Layouts         int64            `json:"layouts"`
	LayoutErrors    int64            `json:"layout_errors"`
	MeanLayoutMilli float64          `json:"mean_layout_ms"`
	Nodes           int64            `json:"nodes"`
	AcceptedEdges   int64            `json:"accepted_edges"`
	Conflicts       int64            `json:"conflicts"`
	Renders         int64            `json:"renders"`
	RenderErrors    int64            `json:"render_errors"`
	CacheHits       int64            `json:"cache_hits"`
	CacheMisses     int64            `json:"cache_misses"`
	CacheBytes      int64            `json:"cache_bytes_written"`
	Batches         int64            `json:"batches"`
	Seeds           int64            `json:"seeds"`
	SeedCrossings   int64            `json:"seed_crossings"`
	Requests        int64            `json:"requests"`
	Statuses        map[int]int64    `json:"statuses,omitempty"`
	Routes          map[string]int64 `json:"routes,omitempty"`
}

// NewRecorder returns a Recorder with all counters at zero.
func NewRecorder() *Recorder {
	return &Recorder{
		started:  time.Now(),
		statuses: make(map[int]int64),
		routes:   make(map[string]int64),
	}
}

func (r *Recorder) OnLayoutStart(context.Context, string, int) {}

func (r *Recorder) OnLayoutComplete(_ context.Context, _ string, d time.Duration, err error) {
	if err != nil {
		r.layoutErrors.Add(1)
		return
	}
	r.layouts.Add(1)
	r.layoutNanos.Add(int64(d))
}

func (r *Recorder) OnResolve(_ context.Context, nodeCount, accepted, conflicts int) {
	r.nodes.Add(int64(nodeCount))
	r.accepted.Add(int64(accepted))
	r.conflicts.Add(int64(conflicts))
}

func (r *Recorder) OnRenderStart(context.Context, []string) {}

func (r *Recorder) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, err error) {
	if err != nil {
		r.renderErrors.Add(1)
		return
	}
	r.renders.Add(int64(len(formats)))
}

func (r *Recorder) OnCacheHit(context.Context, string)  { r.cacheHits.Add(1) }
func (r *Recorder) OnCacheMiss(context.Context, string) { r.cacheMisses.Add(1) }

func (r *Recorder) OnCacheSet(_ context.Context, _ string, size int) {
	r.cacheBytes.Add(int64(size))
}

func (r *Recorder) OnBatchStart(context.Context, int, int) { r.batches.Add(1) }

func (r *Recorder) OnSeedComplete(_ context.Context, _ uint64, crossings int, _ time.Duration, err error) {
	if err == nil {
		r.seeds.Add(1)
		r.seedCrossings.Add(int64(crossings))
	}
}

func (r *Recorder) OnBatchComplete(context.Context, int, time.Duration, error) {}

func (r *Recorder) OnRequest(context.Context, string, string) { r.requests.Add(1) }

func (r *Recorder) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	r.statuses[status]++
	r.routes[method+" "+route]++
	r.mu.Unlock()
}

// Snapshot copies the current counters.
func (r *Recorder) Snapshot() Snapshot {
	s := Snapshot{
		Uptime:        time.Since(r.started).Round(time.Second).String(),
		Layouts:       r.layouts.Load(),
		LayoutErrors:  r.layoutErrors.Load(),
		Nodes:         r.nodes.Load(),
		AcceptedEdges: r.accepted.Load(),
		Conflicts:     r.conflicts.Load(),
		Renders:       r.renders.Load(),
		RenderErrors:  r.renderErrors.Load(),
		CacheHits:     r.cacheHits.Load(),
		CacheMisses:   r.cacheMisses.Load(),
		CacheBytes:    r.cacheBytes.Load(),
		Batches:       r.batches.Load(),
		Seeds:         r.seeds.Load(),
		SeedCrossings: r.seedCrossings.Load(),
		Requests:      r.requests.Load(),
	}
	if s.Layouts > 0 {
		s.MeanLayoutMilli = float64(r.layoutNanos.Load()) / float64(s.Layouts) / 1e6
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statuses) > 0 {
		s.Statuses = make(map[int]int64, len(r.statuses))
		for k, v := range r.statuses {
			s.Statuses[k] = v
		}
	}
	if len(r.routes) > 0 {
		s.Routes = make(map[string]int64, len(r.routes))
		for k, v := range r.routes {
			s.Routes[k] = v
		}
	}
	return s
}

var (
	_ PipelineHooks = (*Recorder)(nil)
	_ CacheHooks    = (*Recorder)(nil)
	_ BatchHooks    = (*Recorder)(nil)
	_ HTTPHooks     = (*Recorder)(nil)
)
