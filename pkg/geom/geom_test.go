package geom

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVecOps(t *testing.T) {
	a := Vec{3, 4}
	b := Vec{1, -2}

	require.Equal(t, Vec{4, 2}, a.Add(b))
	require.Equal(t, Vec{2, 6}, a.Sub(b))
	require.Equal(t, Vec{6, 8}, a.Scale(2))
	require.Equal(t, 5.0, a.Norm())
	require.Equal(t, Vec{-4, 3}, a.Perp())
	require.Equal(t, -5.0, Dot(a, b))
	require.Equal(t, -10.0, Cross(a, b))
	require.Equal(t, 0.0, Dot(a, a.Perp()))

	u, ok := a.Unit()
	require.True(t, ok)
	require.InDelta(t, 1.0, u.Norm(), 1e-12)

	_, ok = Vec{}.Unit()
	require.False(t, ok)
}

func TestDist(t *testing.T) {
	require.Equal(t, 5.0, Dist(Vec{0, 0}, Vec{4, 3}))
	require.Equal(t, Dist(Vec{1, 7}, Vec{-2, 3}), Dist(Vec{-2, 3}, Vec{1, 7}))
	require.Equal(t, 0.0, Dist(Vec{2, 2}, Vec{2, 2}))
}

func TestIsFinite(t *testing.T) {
	require.True(t, Vec{1, 2}.IsFinite())
	require.False(t, Vec{math.NaN(), 0}.IsFinite())
	require.False(t, Vec{0, math.Inf(-1)}.IsFinite())
}

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, p3, p4 Vec
		want           bool
	}{
		{"crossing diagonals", Vec{0, 0}, Vec{1, 1}, Vec{0, 1}, Vec{1, 0}, true},
		{"collinear disjoint", Vec{0, 0}, Vec{1, 0}, Vec{2, 0}, Vec{3, 0}, false},
		{"collinear overlapping", Vec{0, 0}, Vec{2, 0}, Vec{1, 0}, Vec{3, 0}, true},
		{"parallel separate", Vec{0, 0}, Vec{1, 0}, Vec{0, 1}, Vec{1, 1}, false},
		{"collinear touching end", Vec{0, 0}, Vec{1, 0}, Vec{1, 0}, Vec{2, 0}, true},
		{"collinear reversed overlap", Vec{0, 0}, Vec{2, 0}, Vec{3, 0}, Vec{1.5, 0}, true},
		{"collinear containing", Vec{1, 0}, Vec{2, 0}, Vec{0, 0}, Vec{3, 0}, true},
		{"T junction", Vec{0, 0}, Vec{2, 0}, Vec{1, 0}, Vec{1, 5}, true},
		{"lines cross beyond segment", Vec{0, 0}, Vec{1, 0}, Vec{2, -1}, Vec{2, 1}, false},
		{"lines cross beyond second", Vec{0, 0}, Vec{4, 0}, Vec{2, 1}, Vec{2, 3}, false},
		{"shared endpoint", Vec{0, 0}, Vec{1, 0}, Vec{0, 0}, Vec{0, 1}, true},
		{"rectangle spoke on diagonal", Vec{0, 0}, Vec{2, 1.5}, Vec{4, 0}, Vec{0, 3}, true},
	}

	for _, eps := range []float64{DefaultEpsilon, Exact, 0} {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s/eps=%g", tt.name, eps), func(t *testing.T) {
				got, err := SegmentsIntersect(tt.p1, tt.p2, tt.p3, tt.p4, eps)
				require.NoError(t, err)
				require.Equal(t, tt.want, got)

				// The relation is symmetric in the two segments and in the
				// orientation of each segment.
				swapped, err := SegmentsIntersect(tt.p3, tt.p4, tt.p1, tt.p2, eps)
				require.NoError(t, err)
				require.Equal(t, tt.want, swapped)

				reversed, err := SegmentsIntersect(tt.p2, tt.p1, tt.p4, tt.p3, eps)
				require.NoError(t, err)
				require.Equal(t, tt.want, reversed)
			})
		}
	}
}

func TestSegmentsIntersectEpsilon(t *testing.T) {
	// Nearly parallel: the second segment drifts by 1e-4 over unit length.
	p1, p2 := Vec{0, 0}, Vec{1, 0}
	p3, p4 := Vec{0, 0.00005}, Vec{1, -0.00005}

	got, err := SegmentsIntersect(p1, p2, p3, p4, DefaultEpsilon)
	require.NoError(t, err)
	require.True(t, got, "treated as collinear and overlapping within tolerance")

	got, err = SegmentsIntersect(p1, p2, p3, p4, 0)
	require.NoError(t, err)
	require.True(t, got, "exact solve finds the crossing at the midpoint")

	// A parallel offset larger than eps is a separate line.
	got, err = SegmentsIntersect(p1, p2, Vec{0, 0.01}, Vec{1, 0.01}, DefaultEpsilon)
	require.NoError(t, err)
	require.False(t, got)
}

func TestSegmentsIntersectDegenerate(t *testing.T) {
	_, err := SegmentsIntersect(Vec{1, 1}, Vec{1, 1}, Vec{0, 0}, Vec{2, 2}, DefaultEpsilon)
	require.True(t, errors.Is(err, ErrDegenerateSegment))

	_, err = SegmentsIntersect(Vec{0, 0}, Vec{2, 2}, Vec{3, 3}, Vec{3, 3}, DefaultEpsilon)
	require.ErrorIs(t, err, ErrDegenerateSegment)
}

func TestConvexHull(t *testing.T) {
	tests := []struct {
		name string
		pts  []Vec
		want int
	}{
		{"empty", nil, 0},
		{"single", []Vec{{1, 1}}, 1},
		{"pair", []Vec{{0, 0}, {1, 1}}, 2},
		{"duplicates", []Vec{{0, 0}, {0, 0}, {1, 1}}, 2},
		{"triangle", []Vec{{0, 0}, {1, 0}, {0, 1}}, 3},
		{"rectangle with centre", []Vec{{0, 0}, {4, 0}, {4, 3}, {0, 3}, {2, 1.5}}, 4},
		{"collinear", []Vec{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, 2},
		{"edge midpoint dropped", []Vec{{0, 0}, {2, 0}, {1, 0}, {1, 2}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Len(t, ConvexHull(tt.pts), tt.want)
		})
	}
}

func TestConvexHullOrder(t *testing.T) {
	pts := []Vec{{2, 1.5}, {4, 3}, {0, 0}, {0, 3}, {4, 0}}
	require.Equal(t, []int{2, 4, 1, 3}, ConvexHull(pts))
}

func ExampleSegmentsIntersect() {
	hit, _ := SegmentsIntersect(Vec{0, 0}, Vec{1, 1}, Vec{0, 1}, Vec{1, 0}, DefaultEpsilon)
	fmt.Println(hit)
	hit, _ = SegmentsIntersect(Vec{0, 0}, Vec{1, 0}, Vec{0, 1}, Vec{1, 1}, DefaultEpsilon)
	fmt.Println(hit)
	// Output:
	// true
	// false
}
