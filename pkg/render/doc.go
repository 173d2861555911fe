// Package render turns a resolved node layout into text and image output.
//
// # Overview
//
// Renderers consume the narrow [Scene] interface, never the node set itself,
// so any source of positions, connections and brightness can be drawn:
//
//   - Text dumps: [WriteData] (positions, distances, connections)
//   - Character grids: [WriteDisplay] (nodes by brightness) and
//     [WriteConnect] (accepted edges), drawn on a bordered [Grid]
//   - Vector output: [SVG] (native) and [DOT]/[GraphvizSVG] (Graphviz)
//   - Format conversion: [ToPDF] and [ToPNG] via rsvg-convert
//
// # Character Grid
//
// A [Grid] is owned by the caller and sized per call. Positions are scaled
// from the scene bounds onto the grid with row 0 at the top. Edges are drawn
// with a point-by-point walk along the dominant axis, then nodes are plotted
// on top.
//
//	var buf bytes.Buffer
//	render.WriteConnect(&buf, set, render.GridOptions{Cols: 30, Rows: 10})
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg) and work on
// any SVG produced here.
//
//	svg := render.SVG(set, render.SVGOptions{})
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
package render
