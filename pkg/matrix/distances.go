// Package matrix holds the fixed-capacity n×n containers owned by one
// resolved layout: the Euclidean distance matrix and the symmetric
// connection relation.
//
// Both containers are indexed by node id and sized once at construction.
// Neither exposes a way to change its size.
package matrix

import (
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/auradisp/pkg/geom"
)

// Distances is a symmetric n×n matrix of pairwise Euclidean distances with a
// zero diagonal.
type Distances struct {
	m *mat.SymDense
	n int
}

// BuildDistances computes all pairwise distances between positions. Only the
// upper triangle is computed; symmetry is structural.
func BuildDistances(positions []geom.Vec) *Distances {
	n := len(positions)
	d := &Distances{n: n}
	if n == 0 {
		return d
	}
	d.m = mat.NewSymDense(n, nil)
	for i := range n {
		for j := i + 1; j < n; j++ {
			d.m.SetSym(i, j, geom.Dist(positions[i], positions[j]))
		}
	}
	return d
}

// Len returns the number of nodes.
func (d *Distances) Len() int { return d.n }

// At returns the distance between nodes i and j.
func (d *Distances) At(i, j int) float64 { return d.m.At(i, j) }

// Max returns the largest pairwise distance.
func (d *Distances) Max() float64 {
	if d.m == nil {
		return 0
	}
	return mat.Max(d.m)
}
