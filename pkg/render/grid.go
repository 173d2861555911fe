package render

import (
	"math"
	"strings"

	"github.com/matzehuels/auradisp/pkg/brightness"
)

// Grid is a fixed-size character buffer addressed as (col, row) with row 0
// at the top.
type Grid struct {
	cols, rows int
	cells      []rune
}

// NewGrid returns a blank grid. Non-positive dimensions are raised to 1.
func NewGrid(cols, rows int) *Grid {
	cols, rows = max(cols, 1), max(rows, 1)
	g := &Grid{cols: cols, rows: rows, cells: make([]rune, cols*rows)}
	g.Clear()
	return g
}

// Size returns the grid dimensions.
func (g *Grid) Size() (cols, rows int) { return g.cols, g.rows }

// Clear blanks every cell.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = ' '
	}
}

// At returns the rune at (col, row), or 0 outside the grid.
func (g *Grid) At(col, row int) rune {
	if !g.inside(col, row) {
		return 0
	}
	return g.cells[row*g.cols+col]
}

// Plot sets the cell at (col, row). Cells outside the grid are ignored.
func (g *Grid) Plot(col, row int, r rune) {
	if g.inside(col, row) {
		g.cells[row*g.cols+col] = r
	}
}

func (g *Grid) inside(col, row int) bool {
	return col >= 0 && col < g.cols && row >= 0 && row < g.rows
}

// Line walks from (c0, r0) to (c1, r1) one step at a time along the longer
// axis, rounding the other coordinate, and plots r on every visited cell.
func (g *Grid) Line(c0, r0, c1, r1 int, r rune) {
	dc, dr := c1-c0, r1-r0
	steps := max(abs(dc), abs(dr))
	if steps == 0 {
		g.Plot(c0, r0, r)
		return
	}
	for k := 0; k <= steps; k++ {
		c := c0 + int(math.Round(float64(k*dc)/float64(steps)))
		row := r0 + int(math.Round(float64(k*dr)/float64(steps)))
		g.Plot(c, row, r)
	}
}

// Lines returns the grid rows without a frame.
func (g *Grid) Lines() []string {
	out := make([]string, g.rows)
	for row := range g.rows {
		out[row] = string(g.cells[row*g.cols : (row+1)*g.cols])
	}
	return out
}

// Framed returns the grid surrounded by a +---+ border, one line per row,
// each terminated by a newline.
func (g *Grid) Framed() string {
	var b strings.Builder
	edge := "+" + strings.Repeat("-", g.cols) + "+\n"
	b.WriteString(edge)
	for _, line := range g.Lines() {
		b.WriteByte('|')
		b.WriteString(line)
		b.WriteString("|\n")
	}
	b.WriteString(edge)
	return b.String()
}

// String implements fmt.Stringer.
func (g *Grid) String() string { return g.Framed() }

// =============================================================================
// Scene rasterization
// =============================================================================

// GridOptions sizes a character grid. Zero dimensions default to the scene
// bounds rounded up, so a 30×10 layout maps one unit to one cell.
type GridOptions struct {
	Cols int
	Rows int
}

func (o GridOptions) size(s Scene) (int, int) {
	w, h := s.Bounds()
	cols, rows := o.Cols, o.Rows
	if cols <= 0 {
		cols = int(math.Ceil(w))
	}
	if rows <= 0 {
		rows = int(math.Ceil(h))
	}
	return max(cols, 1), max(rows, 1)
}

// cell maps a scene position to its grid cell.
func cell(s Scene, i, cols, rows int) (int, int) {
	w, h := s.Bounds()
	p := s.Position(i)
	c := int(math.Floor(p.X / w * float64(cols)))
	r := int(math.Floor(p.Y / h * float64(rows)))
	return clamp(c, 0, cols-1), clamp(r, 0, rows-1)
}

// nodeGlyphs ramps from dim to bright.
var nodeGlyphs = []rune(".oO@")

// NodeGlyph returns the grid glyph for a brightness level.
func NodeGlyph(level int) rune {
	k := level * len(nodeGlyphs) / (brightness.PWMMax + 1)
	return nodeGlyphs[clamp(k, 0, len(nodeGlyphs)-1)]
}

// edgeGlyph picks a line character from the cell slope.
func edgeGlyph(dc, dr int) rune {
	switch {
	case abs(dc) >= 2*abs(dr):
		return '-'
	case abs(dr) >= 2*abs(dc):
		return '|'
	case (dc > 0) == (dr > 0):
		return '\\'
	default:
		return '/'
	}
}

// DrawDisplay plots every node with its brightness glyph.
func DrawDisplay(s Scene, opts GridOptions) *Grid {
	cols, rows := opts.size(s)
	g := NewGrid(cols, rows)
	for i := range s.Len() {
		c, r := cell(s, i, cols, rows)
		g.Plot(c, r, NodeGlyph(s.Brightness(i)))
	}
	return g
}

// DrawConnect plots every accepted edge and then every node as 'o'.
func DrawConnect(s Scene, opts GridOptions) *Grid {
	cols, rows := opts.size(s)
	g := NewGrid(cols, rows)
	n := s.Len()
	for i := range n {
		ci, ri := cell(s, i, cols, rows)
		for j := i + 1; j < n; j++ {
			if !s.Connected(i, j) {
				continue
			}
			cj, rj := cell(s, j, cols, rows)
			g.Line(ci, ri, cj, rj, edgeGlyph(cj-ci, rj-ri))
		}
	}
	for i := range n {
		c, r := cell(s, i, cols, rows)
		g.Plot(c, r, 'o')
	}
	return g
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi int) int { return min(max(x, lo), hi) }
