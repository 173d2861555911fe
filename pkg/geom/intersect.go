package geom

import (
	"errors"
	"math"
)

// ErrDegenerateSegment is returned when a segment has zero length and
// therefore no direction.
var ErrDegenerateSegment = errors.New("geom: degenerate zero-length segment")

// SegmentsIntersect reports whether the closed segments [p1,p2] and [p3,p4]
// share at least one point.
//
// Segments whose directions differ by at most eps (measured as the sine of
// the angle between them) are treated as parallel; parallel segments
// intersect only when collinear within eps and their extents overlap. With
// eps == 0 both tests are exact.
// Otherwise the crossing parameters along both segments are solved directly
// and both must lie in [0,1]. Touching at an endpoint counts as intersecting;
// callers that want to ignore shared endpoints must filter those pairs first.
func SegmentsIntersect(p1, p2, p3, p4 Vec, eps float64) (bool, error) {
	v1 := p2.Sub(p1)
	v2 := p4.Sub(p3)

	u1, ok := v1.Unit()
	if !ok {
		return false, ErrDegenerateSegment
	}
	u2, ok := v2.Unit()
	if !ok {
		return false, ErrDegenerateSegment
	}

	n := u1.Perp()
	d := p3.Sub(p1)

	if math.Abs(Dot(n, u2)) <= eps {
		if math.Abs(Dot(d, n)) > eps {
			return false, nil
		}
		// Collinear: project the second segment onto the first, normalised
		// so that p1 maps to 0 and p2 maps to 1.
		l2 := Dot(v1, v1)
		r0 := Dot(d, v1) / l2
		r1 := Dot(p4.Sub(p1), v1) / l2
		lo, hi := math.Min(r0, r1), math.Max(r0, r1)
		return hi >= 0 && lo <= 1, nil
	}

	den := Cross(v1, v2)
	t := Cross(d, v2) / den
	s := Cross(d, v1) / den
	return t >= 0 && t <= 1 && s >= 0 && s <= 1, nil
}
