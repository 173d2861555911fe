package geom

import "sort"

// ConvexHull returns the indices of the points on the convex hull of pts in
// counter-clockwise order, starting from the lowest-leftmost point.
// Points lying on a hull edge are not included. Duplicate points contribute
// at most one index. Fewer than three distinct points return all of them.
func ConvexHull(pts []Vec) []int {
	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := pts[idx[a]], pts[idx[b]]
		if pa.X != pb.X {
			return pa.X < pb.X
		}
		return pa.Y < pb.Y
	})

	uniq := idx[:0]
	for _, i := range idx {
		if len(uniq) > 0 && pts[uniq[len(uniq)-1]] == pts[i] {
			continue
		}
		uniq = append(uniq, i)
	}
	if len(uniq) < 3 {
		return append([]int(nil), uniq...)
	}

	turn := func(o, a, b int) float64 {
		return Cross(pts[a].Sub(pts[o]), pts[b].Sub(pts[o]))
	}

	hull := make([]int, 0, 2*len(uniq))
	for _, i := range uniq {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], i) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, i)
	}
	lower := len(hull) + 1
	for k := len(uniq) - 2; k >= 0; k-- {
		i := uniq[k]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], i) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, i)
	}
	return hull[:len(hull)-1]
}
