package matrix

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Edge is an unordered pair of node ids, normalised so that I < J.
type Edge struct {
	I int `json:"i"`
	J int `json:"j"`
}

// NewEdge returns the normalised edge between a and b.
func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{I: a, J: b}
}

// Shares reports whether e and o have an endpoint in common.
func (e Edge) Shares(o Edge) bool {
	return e.I == o.I || e.I == o.J || e.J == o.I || e.J == o.J
}

// Connections is a symmetric n×n boolean relation with a false diagonal.
// Storage is a single flat slice allocated once.
type Connections struct {
	cells []bool
	n     int
}

// NewConnections returns an empty relation over n nodes.
func NewConnections(n int) *Connections {
	return &Connections{cells: make([]bool, n*n), n: n}
}

// Len returns the number of nodes.
func (c *Connections) Len() int { return c.n }

// Connected reports whether i and j are connected. A node is never connected
// to itself.
func (c *Connections) Connected(i, j int) bool { return c.cells[i*c.n+j] }

// Set connects i and j in both directions. Self-loops are ignored.
func (c *Connections) Set(i, j int) {
	if i == j {
		return
	}
	c.cells[i*c.n+j] = true
	c.cells[j*c.n+i] = true
}

// Degree returns the number of nodes connected to i.
func (c *Connections) Degree(i int) int {
	d := 0
	for _, v := range c.cells[i*c.n : (i+1)*c.n] {
		if v {
			d++
		}
	}
	return d
}

// Sum returns the number of true cells, which is twice the edge count.
func (c *Connections) Sum() int {
	s := 0
	for _, v := range c.cells {
		if v {
			s++
		}
	}
	return s
}

// EdgeCount returns the number of undirected edges.
func (c *Connections) EdgeCount() int { return c.Sum() / 2 }

// Edges returns every connected pair once, ordered by (I, J).
func (c *Connections) Edges() []Edge {
	var edges []Edge
	for i := range c.n {
		for j := i + 1; j < c.n; j++ {
			if c.Connected(i, j) {
				edges = append(edges, Edge{I: i, J: j})
			}
		}
	}
	return edges
}

// Equal reports whether c and o hold the same relation.
func (c *Connections) Equal(o *Connections) bool {
	if c.n != o.n {
		return false
	}
	for k, v := range c.cells {
		if o.cells[k] != v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of c.
func (c *Connections) Clone() *Connections {
	return &Connections{cells: append([]bool(nil), c.cells...), n: c.n}
}

// Graph exports the relation as an undirected gonum graph whose node ids are
// the node indices. Isolated nodes are included.
func (c *Connections) Graph() *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := range c.n {
		g.AddNode(simple.Node(i))
	}
	for _, e := range c.Edges() {
		g.SetEdge(simple.Edge{F: simple.Node(e.I), T: simple.Node(e.J)})
	}
	return g
}

// Components returns the connected components as sorted node-id lists,
// ordered by their smallest member.
func (c *Connections) Components() [][]int {
	if c.n == 0 {
		return nil
	}
	comps := topo.ConnectedComponents(c.Graph())
	out := make([][]int, 0, len(comps))
	for _, comp := range comps {
		out = append(out, nodeIDs(comp))
	}
	sort.Slice(out, func(a, b int) bool { return out[a][0] < out[b][0] })
	return out
}

func nodeIDs(nodes []graph.Node) []int {
	ids := make([]int, len(nodes))
	for k, n := range nodes {
		ids[k] = int(n.ID())
	}
	sort.Ints(ids)
	return ids
}
