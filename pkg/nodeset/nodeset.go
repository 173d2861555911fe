// Package nodeset owns one resolved node layout.
//
// [New] runs the fixed pipeline eagerly: positions are generated, the
// distance matrix is built, and the planar edge resolver selects the
// connections. A constructed [Set] is read-only except for brightness, which
// [Set.AssignBrightness] replaces without touching geometry. To change
// geometry, build a new Set (see [Set.Regenerate]).
//
// Construction either returns a complete Set or an error; there is no
// partially built state.
package nodeset

import (
	"context"
	"fmt"

	"github.com/matzehuels/auradisp/pkg/brightness"
	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/geom"
	"github.com/matzehuels/auradisp/pkg/layout"
	"github.com/matzehuels/auradisp/pkg/matrix"
	"github.com/matzehuels/auradisp/pkg/planar"
)

// Default construction parameters: 32 nodes on a 30×10 character screen.
const (
	DefaultNodes  = 32
	DefaultWidth  = 30.0
	DefaultHeight = 10.0
)

// Config holds the construction parameters of a Set. A zero Epsilon selects
// geom.DefaultEpsilon; geom.Exact asks for exact comparisons.
type Config struct {
	N       int           `json:"n"`
	Width   float64       `json:"width"`
	Height  float64       `json:"height"`
	Seed    uint64        `json:"seed"`
	Policy  layout.Policy `json:"policy"`
	Epsilon float64       `json:"epsilon"`
	// Workers parallelizes the resolver's crossing scans. It never changes
	// the result.
	Workers int `json:"-"`
}

// DefaultConfig returns the default construction parameters with seed 0.
func DefaultConfig() Config {
	return Config{
		N:       DefaultNodes,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Policy:  layout.Uniform,
		Epsilon: geom.DefaultEpsilon,
	}
}

// Validate checks the parameters without building anything.
func (c Config) Validate() error {
	if err := errors.ValidateNodeCount(c.N); err != nil {
		return err
	}
	if err := errors.ValidateBounds(c.Width, c.Height); err != nil {
		return err
	}
	if err := errors.ValidateEpsilon(c.Epsilon); err != nil {
		return err
	}
	if _, err := layout.ParsePolicy(string(c.Policy)); err != nil {
		return err
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Policy == "" {
		c.Policy = layout.Uniform
	}
	if c.Epsilon == 0 {
		c.Epsilon = geom.DefaultEpsilon
	}
	return c
}

// Set is a resolved node layout.
type Set struct {
	cfg        Config
	positions  []geom.Vec
	dist       *matrix.Distances
	conns      *matrix.Connections
	stats      planar.Stats
	conflicts  []planar.Conflict
	brightness []int
	mode       brightness.Mode
}

// New builds a Set from cfg. Every node starts at full brightness.
func New(cfg Config) (*Set, error) {
	return NewContext(context.Background(), cfg)
}

// NewContext is [New] with cancellation of edge resolution.
func NewContext(ctx context.Context, cfg Config) (*Set, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pts, err := layout.Generate(cfg.N, cfg.Width, cfg.Height, cfg.Policy, layout.NewRand(cfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("generate layout: %w", err)
	}
	return build(ctx, cfg, pts)
}

// FromPositions builds a Set over caller-supplied positions. cfg.N is taken
// from len(positions) and cfg.Seed only labels the Set.
func FromPositions(cfg Config, positions []geom.Vec) (*Set, error) {
	cfg = cfg.withDefaults()
	cfg.N = len(positions)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for i, p := range positions {
		if !p.IsFinite() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %d has non-finite position", i)
		}
	}
	return build(context.Background(), cfg, append([]geom.Vec(nil), positions...))
}

func build(ctx context.Context, cfg Config, pts []geom.Vec) (*Set, error) {
	dist := matrix.BuildDistances(pts)
	res, err := planar.ResolveContext(ctx, pts, dist, planar.Options{Epsilon: cfg.Epsilon, Workers: cfg.Workers})
	if err != nil {
		return nil, fmt.Errorf("resolve edges: %w", err)
	}

	s := &Set{
		cfg:       cfg,
		positions: pts,
		dist:      dist,
		conns:     res.Connections,
		stats:     res.Stats,
		conflicts: res.Conflicts,
	}
	if err := s.AssignBrightness(brightness.AllOn, 0); err != nil {
		return nil, err
	}
	return s, nil
}

// Regenerate builds a new Set with the same parameters and a new seed.
// The receiver is not modified.
func (s *Set) Regenerate(seed uint64) (*Set, error) {
	cfg := s.cfg
	cfg.Seed = seed
	return New(cfg)
}

// AssignBrightness replaces every node's brightness using mode. Geometry and
// connections are untouched.
func (s *Set) AssignBrightness(mode brightness.Mode, seed uint64) error {
	return s.AssignBrightnessParams(mode, brightness.Params{Seed: seed})
}

// AssignBrightnessParams is [Set.AssignBrightness] with full mode parameters.
func (s *Set) AssignBrightnessParams(mode brightness.Mode, p brightness.Params) error {
	b, err := brightness.Assign(mode, s.positions, p)
	if err != nil {
		return err
	}
	s.brightness = b
	s.mode = mode
	return nil
}

// =============================================================================
// Read-only accessors
// =============================================================================

// Config returns the construction parameters.
func (s *Set) Config() Config { return s.cfg }

// Len returns the node count.
func (s *Set) Len() int { return len(s.positions) }

// Bounds returns the bounding width and height.
func (s *Set) Bounds() (width, height float64) { return s.cfg.Width, s.cfg.Height }

// Position returns the position of node i.
func (s *Set) Position(i int) geom.Vec { return s.positions[i] }

// Positions returns a copy of all positions.
func (s *Set) Positions() []geom.Vec { return append([]geom.Vec(nil), s.positions...) }

// Distance returns the distance between nodes i and j.
func (s *Set) Distance(i, j int) float64 { return s.dist.At(i, j) }

// Distances returns the distance matrix. It must not be modified.
func (s *Set) Distances() *matrix.Distances { return s.dist }

// Connected reports whether nodes i and j are connected.
func (s *Set) Connected(i, j int) bool { return s.conns.Connected(i, j) }

// Connections returns a copy of the connection relation.
func (s *Set) Connections() *matrix.Connections { return s.conns.Clone() }

// Edges returns the accepted edges ordered by (I, J).
func (s *Set) Edges() []matrix.Edge { return s.conns.Edges() }

// Brightness returns the brightness of node i.
func (s *Set) Brightness(i int) int { return s.brightness[i] }

// Brightnesses returns a copy of all brightness values.
func (s *Set) Brightnesses() []int { return append([]int(nil), s.brightness...) }

// BrightnessMode returns the mode of the last brightness assignment.
func (s *Set) BrightnessMode() brightness.Mode { return s.mode }

// Stats returns the resolver statistics.
func (s *Set) Stats() planar.Stats { return s.stats }

// Conflicts returns the crossings resolved during construction.
func (s *Set) Conflicts() []planar.Conflict { return append([]planar.Conflict(nil), s.conflicts...) }

// Span returns the largest distance between two nodes.
func (s *Set) Span() float64 { return s.dist.Max() }

// MaxDegree returns the largest number of edges at one node.
func (s *Set) MaxDegree() int {
	m := 0
	for i := range s.positions {
		m = max(m, s.conns.Degree(i))
	}
	return m
}

// Components returns the connected components of the accepted edges.
func (s *Set) Components() [][]int { return s.conns.Components() }

// ExpectedEdges returns the triangulation edge count for these positions.
func (s *Set) ExpectedEdges() int { return planar.ExpectedEdgesFor(s.positions) }
