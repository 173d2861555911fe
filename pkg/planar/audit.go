package planar

import (
	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/geom"
	"github.com/matzehuels/auradisp/pkg/matrix"
)

// CountCrossings returns the number of pairs of connected edges that share
// no endpoint yet intersect under tolerance eps. A resolved layout reports
// zero; any other connection set can be audited the same way. A zero eps
// selects geom.DefaultEpsilon, as in [Options].
//
// It runs in O(E²) time where E is the number of connected edges.
func CountCrossings(positions []geom.Vec, conns *matrix.Connections, eps float64) (int, error) {
	if conns.Len() != len(positions) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "connections have %d nodes, positions have %d", conns.Len(), len(positions))
	}
	if eps == 0 {
		eps = geom.DefaultEpsilon
	}
	edges := conns.Edges()
	crossings := 0
	for a := range edges {
		for b := a + 1; b < len(edges); b++ {
			ea, eb := edges[a], edges[b]
			if ea.Shares(eb) {
				continue
			}
			hit, err := geom.SegmentsIntersect(positions[ea.I], positions[ea.J], positions[eb.I], positions[eb.J], eps)
			if err != nil {
				return 0, errors.Wrap(errors.ErrCodeDegenerateGeometry, err, "edges %d-%d and %d-%d", ea.I, ea.J, eb.I, eb.J)
			}
			if hit {
				crossings++
			}
		}
	}
	return crossings, nil
}

// ExpectedEdges returns the edge count of a triangulation of n points in
// general position with hull convex hull vertices: 3n − 3 − hull. With every
// point on the hull it reduces to 2n − 3.
func ExpectedEdges(n, hull int) int {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		return 3*n - 3 - hull
	}
}

// ExpectedEdgesFor computes [ExpectedEdges] for positions.
func ExpectedEdgesFor(positions []geom.Vec) int {
	return ExpectedEdges(len(positions), len(geom.ConvexHull(positions)))
}
