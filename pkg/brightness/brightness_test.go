package brightness

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/geom"
	"github.com/matzehuels/auradisp/pkg/layout"
)

func positions(t *testing.T, n int) []geom.Vec {
	t.Helper()
	pts, err := layout.Generate(n, 30, 10, layout.Uniform, layout.NewRand(4))
	require.NoError(t, err)
	return pts
}

func TestAssignRange(t *testing.T) {
	pts := positions(t, 64)
	for _, m := range Modes {
		t.Run(string(m), func(t *testing.T) {
			got, err := Assign(m, pts, Params{Seed: 9})
			require.NoError(t, err)
			require.Len(t, got, len(pts))
			for i, v := range got {
				require.True(t, v >= 0 && v <= PWMMax, "node %d = %d", i, v)
			}
		})
	}
}

func TestAssignAllOn(t *testing.T) {
	got, err := Assign(AllOn, positions(t, 3), Params{})
	require.NoError(t, err)
	require.Equal(t, []int{PWMMax, PWMMax, PWMMax}, got)
}

func TestAssignTestRamp(t *testing.T) {
	got, err := Assign(Test, make([]geom.Vec, 4), Params{})
	require.NoError(t, err)
	require.Equal(t, []int{0, 85, 170, 255}, got)

	got, err = Assign(Test, make([]geom.Vec, 1), Params{})
	require.NoError(t, err)
	require.Equal(t, []int{PWMMax}, got)
}

func TestAssignDeterministic(t *testing.T) {
	pts := positions(t, 16)
	for _, m := range []Mode{Random, Computed} {
		a, err := Assign(m, pts, Params{Seed: 3})
		require.NoError(t, err)
		b, err := Assign(m, pts, Params{Seed: 3})
		require.NoError(t, err)
		require.Equal(t, a, b, "mode %s", m)
	}
}

func TestAssignComputedIsSmooth(t *testing.T) {
	// Two nodes a hair apart sample almost the same point of the field.
	pts := []geom.Vec{{X: 10, Y: 5}, {X: 10.001, Y: 5}}
	got, err := Assign(Computed, pts, Params{Seed: 1})
	require.NoError(t, err)
	require.InDelta(t, got[0], got[1], 1)
}

func TestAssignUnknownMode(t *testing.T) {
	_, err := Assign(Mode("strobe"), nil, Params{})
	require.True(t, errors.Is(err, errors.ErrCodeInvalidMode))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	require.Equal(t, AllOn, m)

	m, err = ParseMode("computed")
	require.NoError(t, err)
	require.Equal(t, Computed, m)

	_, err = ParseMode("off")
	require.Error(t, err)
}

func TestLevelClamps(t *testing.T) {
	require.Equal(t, 0, level(-0.5))
	require.Equal(t, PWMMax, level(1.5))
	require.Equal(t, 128, level(0.5))
}
