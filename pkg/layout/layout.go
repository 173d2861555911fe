// Package layout generates node positions inside a bounding rectangle.
//
// A [Policy] decides how positions are drawn. Every policy guarantees
// pairwise-distinct positions (no two closer than [Options.MinSeparation]),
// which keeps zero-length candidate edges out of the resolver.
//
// Randomness always comes from a caller-supplied *rand.Rand so a run is fully
// reproducible from its seed:
//
//	pts, err := layout.Generate(32, 30, 10, layout.Uniform, layout.NewRand(42))
package layout

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/geom"
)

// Policy selects how node positions are drawn.
type Policy string

const (
	// Uniform draws each coordinate independently and uniformly from
	// [0,width) × [0,height).
	Uniform Policy = "uniform"
	// Circle draws independent uniform angles on an ellipse centred in the
	// bounding rectangle. Every node lies on the convex hull.
	Circle Policy = "circle"
)

// Policies lists the supported policies in display order.
var Policies = []Policy{Uniform, Circle}

const (
	// DefaultFraction is the share of the bounding box the circle policy's
	// ellipse spans.
	DefaultFraction = 0.8
	// DefaultMinSeparation is the smallest distance allowed between two
	// generated positions.
	DefaultMinSeparation = 1e-6
	// DefaultMaxAttempts bounds the redraws for a single position.
	DefaultMaxAttempts = 64
)

// ParsePolicy converts a policy name into a Policy. The empty string selects
// [Uniform].
func ParsePolicy(s string) (Policy, error) {
	if s == "" {
		return Uniform, nil
	}
	for _, p := range Policies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidPolicy, "unknown layout policy %q (want %s or %s)", s, Uniform, Circle)
}

// NewRand returns the deterministic random source used for a seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Options tunes position generation. The zero value selects the uniform
// policy with package defaults.
type Options struct {
	Policy        Policy
	Fraction      float64 // circle only; 0 means DefaultFraction
	MinSeparation float64 // 0 means DefaultMinSeparation
	MaxAttempts   int     // 0 means DefaultMaxAttempts
}

// Generate draws n distinct positions inside a width × height rectangle.
func Generate(n int, width, height float64, policy Policy, rng *rand.Rand) ([]geom.Vec, error) {
	return Options{Policy: policy}.Generate(n, width, height, rng)
}

// Generate draws n distinct positions inside a width × height rectangle
// using o.
func (o Options) Generate(n int, width, height float64, rng *rand.Rand) ([]geom.Vec, error) {
	if err := errors.ValidateNodeCount(n); err != nil {
		return nil, err
	}
	if err := errors.ValidateBounds(width, height); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "random source is required")
	}
	o = o.withDefaults()
	if o.Fraction <= 0 || o.Fraction > 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "circle fraction must be in (0,1], got %g", o.Fraction)
	}

	var draw func() geom.Vec
	switch o.Policy {
	case Uniform:
		draw = func() geom.Vec {
			return geom.Vec{X: rng.Float64() * width, Y: rng.Float64() * height}
		}
	case Circle:
		cx, cy := width/2, height/2
		rx, ry := o.Fraction*width/2, o.Fraction*height/2
		draw = func() geom.Vec {
			theta := rng.Float64() * 2 * math.Pi
			return geom.Vec{X: cx + rx*math.Cos(theta), Y: cy + ry*math.Sin(theta)}
		}
	default:
		_, err := ParsePolicy(string(o.Policy))
		return nil, err
	}

	pts := make([]geom.Vec, 0, n)
	for i := range n {
		p, err := o.drawDistinct(pts, draw)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		pts = append(pts, p)
	}
	return pts, nil
}

func (o Options) withDefaults() Options {
	if o.Policy == "" {
		o.Policy = Uniform
	}
	if o.Fraction == 0 {
		o.Fraction = DefaultFraction
	}
	if o.MinSeparation == 0 {
		o.MinSeparation = DefaultMinSeparation
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	return o
}

func (o Options) drawDistinct(existing []geom.Vec, draw func() geom.Vec) (geom.Vec, error) {
	for range o.MaxAttempts {
		p := draw()
		if !tooClose(existing, p, o.MinSeparation) {
			return p, nil
		}
	}
	return geom.Vec{}, errors.New(errors.ErrCodeDegenerateGeometry,
		"no position at least %g from existing nodes after %d attempts", o.MinSeparation, o.MaxAttempts)
}

func tooClose(existing []geom.Vec, p geom.Vec, minSep float64) bool {
	for _, q := range existing {
		if geom.Dist(p, q) < minSep {
			return true
		}
	}
	return false
}
