package render

import (
	"bufio"
	"fmt"
	"io"
)

// WriteData writes a plain-text dump of the scene: node positions and
// brightness, the distance matrix and the connection matrix.
func WriteData(w io.Writer, s Scene) error {
	bw := bufio.NewWriter(w)
	n := s.Len()
	width, height := s.Bounds()

	fmt.Fprintf(bw, "nodes: %d\nbounds: %g x %g\n\n", n, width, height)

	fmt.Fprintln(bw, "positions:")
	fmt.Fprintf(bw, "%4s %9s %9s %4s\n", "id", "x", "y", "pwm")
	for i := range n {
		p := s.Position(i)
		fmt.Fprintf(bw, "%4d %9.3f %9.3f %4d\n", i, p.X, p.Y, s.Brightness(i))
	}

	fmt.Fprintln(bw, "\ndistances:")
	for i := range n {
		for j := range n {
			if j > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%7.3f", s.Distance(i, j))
		}
		bw.WriteByte('\n')
	}

	fmt.Fprintln(bw, "\nconnections:")
	if err := writeMatrix(bw, s); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteDisplay writes the bordered brightness grid.
func WriteDisplay(w io.Writer, s Scene, opts GridOptions) error {
	_, err := io.WriteString(w, DrawDisplay(s, opts).Framed())
	return err
}

// WriteConnect writes the bordered connection grid followed by the edge
// count.
func WriteConnect(w io.Writer, s Scene, opts GridOptions) error {
	if _, err := io.WriteString(w, DrawConnect(s, opts).Framed()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "edges: %d\n", countEdges(s))
	return err
}

func writeMatrix(bw *bufio.Writer, s Scene) error {
	n := s.Len()
	for i := range n {
		for j := range n {
			if j > 0 {
				bw.WriteByte(' ')
			}
			if s.Connected(i, j) {
				bw.WriteByte('1')
			} else {
				bw.WriteByte('0')
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

func countEdges(s Scene) int {
	e := 0
	for i := range s.Len() {
		for j := i + 1; j < s.Len(); j++ {
			if s.Connected(i, j) {
				e++
			}
		}
	}
	return e
}
