// Package geom is the geometry kernel shared by layout generation, distance
// computation and edge resolution.
//
// All arithmetic is float64. Predicates take an explicit tolerance so callers
// can tune it; [DefaultEpsilon] is the value the rest of the module uses.
package geom

import "math"

// DefaultEpsilon is the tolerance used for parallelism and collinearity tests
// when the caller does not supply one.
const DefaultEpsilon = 1e-3

// Exact is the smallest positive tolerance. Option structs read a zero
// Epsilon as [DefaultEpsilon]; passing Exact asks for exact comparisons
// instead.
const Exact = math.SmallestNonzeroFloat64

// Vec is a point or displacement in the plane.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+w.
func (v Vec) Add(w Vec) Vec { return Vec{v.X + w.X, v.Y + w.Y} }

// Sub returns v-w.
func (v Vec) Sub(w Vec) Vec { return Vec{v.X - w.X, v.Y - w.Y} }

// Scale returns k·v.
func (v Vec) Scale(k float64) Vec { return Vec{k * v.X, k * v.Y} }

// Norm returns the Euclidean length of v.
func (v Vec) Norm() float64 { return math.Hypot(v.X, v.Y) }

// Unit returns v scaled to length 1. The zero vector has no direction, so
// Unit reports ok=false for it instead of producing NaN components.
func (v Vec) Unit() (u Vec, ok bool) {
	n := v.Norm()
	if n == 0 {
		return Vec{}, false
	}
	return Vec{v.X / n, v.Y / n}, true
}

// Perp returns v rotated by +90°.
func (v Vec) Perp() Vec { return Vec{-v.Y, v.X} }

// IsFinite reports whether both components are finite numbers.
func (v Vec) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Dot returns the scalar product of a and b.
func Dot(a, b Vec) float64 { return a.X*b.X + a.Y*b.Y }

// Cross returns the z component of the 3-D cross product of a and b.
func Cross(a, b Vec) float64 { return a.X*b.Y - a.Y*b.X }

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec) float64 { return b.Sub(a).Norm() }
