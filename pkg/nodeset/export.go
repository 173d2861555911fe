package nodeset

import (
	"github.com/matzehuels/auradisp/pkg/brightness"
	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/geom"
	"github.com/matzehuels/auradisp/pkg/graph"
	"github.com/matzehuels/auradisp/pkg/layout"
	"github.com/matzehuels/auradisp/pkg/matrix"
	"github.com/matzehuels/auradisp/pkg/planar"
)

// Export converts the Set into its serialized snapshot.
func (s *Set) Export() graph.Layout {
	l := graph.Layout{
		Version:        graph.FormatVersion,
		Width:          s.cfg.Width,
		Height:         s.cfg.Height,
		Seed:           s.cfg.Seed,
		Policy:         string(s.cfg.Policy),
		Epsilon:        s.cfg.Epsilon,
		BrightnessMode: string(s.mode),
		Nodes:          make([]graph.Node, len(s.positions)),
		Edges:          []graph.Edge{},
	}
	for i, p := range s.positions {
		l.Nodes[i] = graph.Node{ID: i, X: p.X, Y: p.Y, Brightness: s.brightness[i]}
	}
	for _, e := range s.conns.Edges() {
		l.Edges = append(l.Edges, graph.Edge{From: e.I, To: e.J})
	}
	return l
}

// FromLayout rebuilds a Set from a snapshot. Positions, edges and brightness
// are taken as stored; the resolver is not run again.
func FromLayout(l graph.Layout) (*Set, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if err := errors.ValidateNodeCount(len(l.Nodes)); err != nil {
		return nil, err
	}

	cfg := Config{
		N:       len(l.Nodes),
		Width:   l.Width,
		Height:  l.Height,
		Seed:    l.Seed,
		Policy:  layout.Policy(l.Policy),
		Epsilon: l.Epsilon,
	}.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pts := make([]geom.Vec, len(l.Nodes))
	levels := make([]int, len(l.Nodes))
	for i, n := range l.Nodes {
		pts[i] = geom.Vec{X: n.X, Y: n.Y}
		if !pts[i].IsFinite() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %d has non-finite position", i)
		}
		if n.Brightness < 0 || n.Brightness > brightness.PWMMax {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %d brightness %d outside [0,%d]", i, n.Brightness, brightness.PWMMax)
		}
		levels[i] = n.Brightness
	}

	conns := matrix.NewConnections(len(pts))
	for _, e := range l.Edges {
		conns.Set(e.From, e.To)
	}
	n := len(pts)
	return &Set{
		cfg:       cfg,
		positions: pts,
		dist:      matrix.BuildDistances(pts),
		conns:     conns,
		stats: planar.Stats{
			Nodes:      n,
			Candidates: n * (n - 1) / 2,
			Accepted:   conns.EdgeCount(),
			Rejected:   n*(n-1)/2 - conns.EdgeCount(),
			Workers:    1,
		},
		brightness: levels,
		mode:       brightness.Mode(l.BrightnessMode),
	}, nil
}
