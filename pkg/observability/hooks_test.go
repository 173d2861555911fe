package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := Batch().(NoopBatchHooks); !ok {
		t.Errorf("Batch() = %T, want NoopBatchHooks", Batch())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}

	Pipeline().OnLayoutStart(ctx, "uniform", 32)
	Pipeline().OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)
	Cache().OnCacheSet(ctx, "artifact", 1024)
	Batch().OnSeedComplete(ctx, 7, 0, time.Second, nil)
	HTTP().OnResponse(ctx, "GET", "/v1/layout", 200, time.Second)
}

func TestSetHooks(t *testing.T) {
	defer Reset()

	p := &testPipelineHooks{}
	SetPipelineHooks(p)
	SetPipelineHooks(nil)
	if Pipeline() != p {
		t.Error("SetPipelineHooks(nil) should keep the registered hooks")
	}

	b := &testBatchHooks{}
	SetBatchHooks(b)
	if Batch() != b {
		t.Error("SetBatchHooks should register hooks")
	}
	if Pipeline() != p {
		t.Error("setting one category should keep the others")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestInstallRecorder(t *testing.T) {
	defer Reset()
	ctx := context.Background()
	rec := NewRecorder()
	Install(rec)

	Pipeline().OnLayoutComplete(ctx, "uniform", 4*time.Millisecond, nil)
	Pipeline().OnLayoutComplete(ctx, "uniform", 0, errors.New("boom"))
	Pipeline().OnResolve(ctx, 10, 21, 24)
	Pipeline().OnRenderComplete(ctx, []string{"svg", "json"}, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "layout")
	Cache().OnCacheMiss(ctx, "artifact")
	Cache().OnCacheSet(ctx, "artifact", 512)
	Batch().OnBatchStart(ctx, 2, 2)
	Batch().OnSeedComplete(ctx, 1, 0, time.Millisecond, nil)
	Batch().OnSeedComplete(ctx, 2, 1, time.Millisecond, nil)
	HTTP().OnRequest(ctx, "GET", "/v1/layout")
	HTTP().OnResponse(ctx, "GET", "/v1/layout", 200, time.Millisecond)

	s := rec.Snapshot()
	checks := []struct {
		name      string
		got, want int64
	}{
		{"layouts", s.Layouts, 1},
		{"layout errors", s.LayoutErrors, 1},
		{"nodes", s.Nodes, 10},
		{"accepted", s.AcceptedEdges, 21},
		{"conflicts", s.Conflicts, 24},
		{"renders", s.Renders, 2},
		{"cache hits", s.CacheHits, 1},
		{"cache misses", s.CacheMisses, 1},
		{"cache bytes", s.CacheBytes, 512},
		{"batches", s.Batches, 1},
		{"seeds", s.Seeds, 2},
		{"seed crossings", s.SeedCrossings, 1},
		{"requests", s.Requests, 1},
		{"status 200", s.Statuses[200], 1},
		{"route", s.Routes["GET /v1/layout"], 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}
	if s.MeanLayoutMilli != 4 {
		t.Errorf("MeanLayoutMilli = %g, want 4", s.MeanLayoutMilli)
	}
}

func TestRecorderConcurrent(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				rec.OnCacheHit(ctx, "layout")
				rec.OnResponse(ctx, "GET", "/healthz", 200, 0)
				_ = rec.Snapshot()
			}
		}()
	}
	wg.Wait()

	s := rec.Snapshot()
	if s.CacheHits != 800 || s.Statuses[200] != 800 {
		t.Errorf("hits = %d, statuses = %v, want 800 each", s.CacheHits, s.Statuses)
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testBatchHooks struct{ NoopBatchHooks }
