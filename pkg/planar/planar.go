// Package planar selects a heuristically planar edge set over a node layout.
//
// Every unordered node pair is a candidate edge. Candidates are sorted by
// length and swept shortest-first: each surviving candidate rejects every
// longer candidate that crosses it without sharing an endpoint. The shorter
// edge of any crossing pair always wins, so a short connection is never
// obstructed by a longer one.
//
// The result is not certified planar. Near-parallel configurations are
// classified by the geometry tolerance, and misclassification there is an
// accepted approximation.
//
// # Ordering
//
// Candidates of equal length are ordered by (i, j) ascending. This makes the
// accepted set a pure function of the positions and the tolerance.
//
// # Edge count
//
// For points in general position the sweep produces the greedy
// triangulation, which has 3n − 3 − h edges where h is the number of convex
// hull vertices. When every node lies on the hull this is 2n − 3.
// [ExpectedEdges] computes the figure.
package planar

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/geom"
	"github.com/matzehuels/auradisp/pkg/matrix"
)

// Options tunes the resolver.
type Options struct {
	// Epsilon is the parallelism tolerance passed to the intersection
	// predicate. Zero means geom.DefaultEpsilon; use geom.Exact for exact
	// comparisons.
	Epsilon float64
	// Workers > 1 splits each accepted candidate's scan over that many
	// goroutines. The accepted set, conflicts and test count are identical
	// to the sequential sweep.
	Workers int
}

// Candidate is one node pair with its length and final verdict.
type Candidate struct {
	matrix.Edge
	Length   float64 `json:"length"`
	Accepted bool    `json:"accepted"`
}

// Conflict records a crossing pair resolved by the sweep. Kept is never
// longer than Rejected.
type Conflict struct {
	Kept           matrix.Edge `json:"kept"`
	Rejected       matrix.Edge `json:"rejected"`
	KeptLength     float64     `json:"kept_length"`
	RejectedLength float64     `json:"rejected_length"`
}

// Stats summarizes one resolver run.
type Stats struct {
	Nodes         int `json:"nodes"`
	Candidates    int `json:"candidates"`
	Accepted      int `json:"accepted"`
	Rejected      int `json:"rejected"`
	CrossingTests int `json:"crossing_tests"`
	Workers       int `json:"workers"`
}

// Result is the outcome of [Resolve].
type Result struct {
	Connections *matrix.Connections
	// Candidates in sweep order (length, i, j).
	Candidates []Candidate
	Conflicts  []Conflict
	Stats      Stats
}

// Resolve runs the shortest-first crossing sweep over positions. dist may be
// nil, in which case distances are computed from positions.
func Resolve(positions []geom.Vec, dist *matrix.Distances, opts Options) (*Result, error) {
	return ResolveContext(context.Background(), positions, dist, opts)
}

// ResolveContext is [Resolve] with cancellation. The sweep checks ctx
// before every accepted candidate and every few thousand crossing tests.
func ResolveContext(ctx context.Context, positions []geom.Vec, dist *matrix.Distances, opts Options) (*Result, error) {
	n := len(positions)
	if dist == nil {
		dist = matrix.BuildDistances(positions)
	}
	if dist.Len() != n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "distance matrix has %d nodes, positions have %d", dist.Len(), n)
	}
	eps := opts.Epsilon
	if eps == 0 {
		eps = geom.DefaultEpsilon
	}
	if err := errors.ValidateEpsilon(eps); err != nil {
		return nil, err
	}

	cands, err := candidates(dist)
	if err != nil {
		return nil, err
	}

	workers := max(opts.Workers, 1)
	if len(cands) <= 1 {
		workers = 1
	}
	r := &resolver{positions: positions, cands: cands, eps: eps, workers: workers}
	if err := r.sweep(ctx); err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}

	conns := matrix.NewConnections(n)
	accepted := 0
	for _, c := range r.cands {
		if c.Accepted {
			conns.Set(c.I, c.J)
			accepted++
		}
	}

	return &Result{
		Connections: conns,
		Candidates:  r.cands,
		Conflicts:   r.conflicts,
		Stats: Stats{
			Nodes:         n,
			Candidates:    len(cands),
			Accepted:      accepted,
			Rejected:      len(cands) - accepted,
			CrossingTests: r.tests,
			Workers:       workers,
		},
	}, nil
}

// candidates enumerates every pair i<j in sweep order. Coincident nodes
// produce a zero-length candidate the predicate cannot handle, so they are
// rejected up front.
func candidates(dist *matrix.Distances) ([]Candidate, error) {
	n := dist.Len()
	cands := make([]Candidate, 0, n*(n-1)/2)
	for i := range n {
		for j := i + 1; j < n; j++ {
			l := dist.At(i, j)
			if l == 0 {
				return nil, errors.Wrap(errors.ErrCodeDegenerateGeometry, geom.ErrDegenerateSegment,
					"nodes %d and %d coincide", i, j)
			}
			cands = append(cands, Candidate{Edge: matrix.Edge{I: i, J: j}, Length: l, Accepted: true})
		}
	}
	slices.SortFunc(cands, compareCandidates)
	return cands, nil
}

func compareCandidates(a, b Candidate) int {
	return cmp.Or(
		cmp.Compare(a.Length, b.Length),
		cmp.Compare(a.I, b.I),
		cmp.Compare(a.J, b.J),
	)
}

// parallelMin is the number of remaining candidates below which a scan
// stays on the calling goroutine.
const parallelMin = 64

// cancelEvery is how many crossing tests a scan runs between context checks.
const cancelEvery = 4096

type resolver struct {
	positions []geom.Vec
	cands     []Candidate
	eps       float64
	workers   int

	conflicts []Conflict
	tests     int
}

func (r *resolver) intersects(a, b int) (bool, error) {
	ca, cb := r.cands[a], r.cands[b]
	hit, err := geom.SegmentsIntersect(
		r.positions[ca.I], r.positions[ca.J],
		r.positions[cb.I], r.positions[cb.J],
		r.eps,
	)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeDegenerateGeometry, err,
			"candidates %d-%d and %d-%d", ca.I, ca.J, cb.I, cb.J)
	}
	return hit, nil
}

// sweep walks candidates shortest-first. Each accepted candidate scans the
// later ones still accepted and rejects those it crosses. Only sweep writes
// the Accepted flags, and never while a scan is running.
func (r *resolver) sweep(ctx context.Context) error {
	for a := range r.cands {
		if !r.cands[a].Accepted {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		hits, err := r.scan(ctx, a)
		if err != nil {
			return err
		}
		for _, b := range hits {
			r.reject(a, b)
		}
	}
	return nil
}

// scan returns, in ascending order, the later accepted candidates crossing
// candidate a. Long ranges are split across r.workers goroutines.
func (r *resolver) scan(ctx context.Context, a int) ([]int, error) {
	lo, hi := a+1, len(r.cands)
	if r.workers <= 1 || hi-lo < parallelMin {
		hits, tests, err := r.scanRange(ctx, a, lo, hi)
		r.tests += tests
		return hits, err
	}

	chunk := (hi - lo + r.workers - 1) / r.workers
	parts := make([][]int, r.workers)
	tests := make([]int, r.workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := range r.workers {
		from, to := lo+w*chunk, min(lo+(w+1)*chunk, hi)
		if from >= to {
			break
		}
		g.Go(func() error {
			var err error
			parts[w], tests[w], err = r.scanRange(gctx, a, from, to)
			return err
		})
	}
	err := g.Wait()
	for _, t := range tests {
		r.tests += t
	}
	if err != nil {
		return nil, err
	}
	return slices.Concat(parts...), nil
}

func (r *resolver) scanRange(ctx context.Context, a, lo, hi int) ([]int, int, error) {
	var hits []int
	tests := 0
	for b := lo; b < hi; b++ {
		if !r.cands[b].Accepted || r.cands[a].Shares(r.cands[b].Edge) {
			continue
		}
		tests++
		if tests%cancelEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, tests, err
			}
		}
		hit, err := r.intersects(a, b)
		if err != nil {
			return nil, tests, err
		}
		if hit {
			hits = append(hits, b)
		}
	}
	return hits, tests, nil
}

func (r *resolver) reject(kept, rejected int) {
	r.cands[rejected].Accepted = false
	r.conflicts = append(r.conflicts, Conflict{
		Kept:           r.cands[kept].Edge,
		Rejected:       r.cands[rejected].Edge,
		KeptLength:     r.cands[kept].Length,
		RejectedLength: r.cands[rejected].Length,
	})
}
