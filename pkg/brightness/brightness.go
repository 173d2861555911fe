// Package brightness assigns a per-node intensity in [0, PWMMax].
//
// A [Mode] is chosen once per run and applied to the whole node set. Only
// [Computed] looks at node positions; the other modes depend on the node
// count alone.
package brightness

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/geom"
	"github.com/matzehuels/auradisp/pkg/layout"
)

// PWMMax is the largest brightness value, matching an 8-bit PWM duty cycle.
const PWMMax = 255

// Mode selects a brightness assignment.
type Mode string

const (
	AllOn    Mode = "all-on"   // every node at PWMMax
	Random   Mode = "random"   // independent uniform draw per node
	Computed Mode = "computed" // smooth noise field sampled at each position
	Test     Mode = "test"     // linear ramp over node index
)

// Modes lists the supported modes in display order.
var Modes = []Mode{AllOn, Random, Computed, Test}

// DefaultNoiseScale maps layout units to noise space for Computed.
const DefaultNoiseScale = 0.15

// Params carries the inputs a mode may read.
type Params struct {
	Seed uint64
	// Phase offsets the noise field along its third axis so successive
	// frames vary smoothly. Computed only.
	Phase float64
	// Scale is the spatial frequency of the noise field. Zero means
	// DefaultNoiseScale.
	Scale float64
}

// ParseMode converts a mode name into a Mode. The empty string selects
// [AllOn].
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return AllOn, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidMode, "unknown brightness mode %q", s)
}

// Assign returns one brightness value per position.
func Assign(mode Mode, positions []geom.Vec, p Params) ([]int, error) {
	n := len(positions)
	out := make([]int, n)

	switch mode {
	case AllOn:
		for i := range out {
			out[i] = PWMMax
		}
	case Random:
		rng := layout.NewRand(p.Seed)
		for i := range out {
			out[i] = rng.IntN(PWMMax + 1)
		}
	case Computed:
		scale := p.Scale
		if scale == 0 {
			scale = DefaultNoiseScale
		}
		noise := opensimplex.New(int64(p.Seed))
		for i, pos := range positions {
			v := noise.Eval3(pos.X*scale, pos.Y*scale, p.Phase)
			out[i] = level((v + 1) / 2)
		}
	case Test:
		for i := range out {
			if n == 1 {
				out[i] = PWMMax
				continue
			}
			out[i] = i * PWMMax / (n - 1)
		}
	default:
		_, err := ParseMode(string(mode))
		return nil, err
	}
	return out, nil
}

// level maps f in [0,1] to the nearest PWM step, clamping out-of-range input.
func level(f float64) int {
	v := int(math.Round(f * PWMMax))
	return min(max(v, 0), PWMMax)
}
