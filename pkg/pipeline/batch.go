package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/auradisp/pkg/observability"
	"github.com/matzehuels/auradisp/pkg/planar"
)

// SeedReport audits one layout of a batch.
type SeedReport struct {
	Seed       uint64        `json:"seed"`
	Nodes      int           `json:"nodes"`
	Edges      int           `json:"edges"`
	Expected   int           `json:"expected"`
	Conflicts  int           `json:"conflicts"`
	Crossings  int           `json:"crossings"`
	Components int           `json:"components"`
	Cached     bool          `json:"cached"`
	Duration   time.Duration `json:"duration"`
}

// Triangulated reports whether the layout reached the triangulation edge
// count 3n-3-h.
func (r SeedReport) Triangulated() bool {
	return r.Edges == r.Expected
}

// BatchSummary aggregates a batch.
type BatchSummary struct {
	Runs         int
	MinEdges     int
	MaxEdges     int
	MeanEdges    float64
	Triangulated int
	Crossings    int
	Disconnected int
}

// SeedRange returns count consecutive seeds starting at start.
func SeedRange(start uint64, count int) []uint64 {
	seeds := make([]uint64, max(count, 0))
	for i := range seeds {
		seeds[i] = start + uint64(i)
	}
	return seeds
}

// Batch builds one layout per seed with up to concurrency builds in flight
// and audits each result. Reports are returned in seed order. The first
// failure cancels the remaining builds. A concurrency below 1 uses
// GOMAXPROCS.
func (r *Runner) Batch(ctx context.Context, opts Options, seeds []uint64, concurrency int) ([]SeedReport, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if concurrency < 1 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	// Parallelism comes from the batch; each resolve runs sequentially.
	opts.Workers = 1

	hooks := observability.Batch()
	hooks.OnBatchStart(ctx, len(seeds), concurrency)
	batchStart := time.Now()

	reports := make([]SeedReport, len(seeds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, seed := range seeds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o := opts
			o.Seed = seed
			start := time.Now()
			set, hit, err := r.BuildWithCacheInfo(ctx, o)
			if err != nil {
				hooks.OnSeedComplete(ctx, seed, 0, time.Since(start), err)
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			crossings, err := planar.CountCrossings(set.Positions(), set.Connections(), o.Epsilon)
			hooks.OnSeedComplete(ctx, seed, crossings, time.Since(start), err)
			if err != nil {
				return fmt.Errorf("seed %d: audit: %w", seed, err)
			}
			reports[i] = SeedReport{
				Seed:       seed,
				Nodes:      set.Len(),
				Edges:      set.Stats().Accepted,
				Expected:   set.ExpectedEdges(),
				Conflicts:  len(set.Conflicts()),
				Crossings:  crossings,
				Components: len(set.Components()),
				Cached:     hit,
				Duration:   time.Since(start),
			}
			return nil
		})
	}
	err := g.Wait()
	hooks.OnBatchComplete(ctx, len(seeds), time.Since(batchStart), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("batch complete", "runs", len(reports), "concurrency", concurrency)
	return reports, nil
}

// Summarize aggregates reports.
func Summarize(reports []SeedReport) BatchSummary {
	s := BatchSummary{Runs: len(reports)}
	if len(reports) == 0 {
		return s
	}
	s.MinEdges = reports[0].Edges
	total := 0
	for _, r := range reports {
		s.MinEdges = min(s.MinEdges, r.Edges)
		s.MaxEdges = max(s.MaxEdges, r.Edges)
		total += r.Edges
		s.Crossings += r.Crossings
		if r.Triangulated() {
			s.Triangulated++
		}
		if r.Components > 1 {
			s.Disconnected++
		}
	}
	s.MeanEdges = float64(total) / float64(len(reports))
	return s
}
