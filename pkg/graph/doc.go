// Package graph provides the serialization format for resolved node layouts.
//
// A [Layout] is a self-contained snapshot of one run: the bounding box, the
// construction parameters, every node with its position and brightness, and
// the accepted edges. It is the wire format for JSON files, HTTP responses
// and the layout cache, and it lets a layout be re-rendered without running
// the resolver again.
//
// # Format
//
//	{
//	  "version": 1,
//	  "width": 30,
//	  "height": 10,
//	  "seed": 42,
//	  "policy": "uniform",
//	  "nodes": [{"id": 0, "x": 3.2, "y": 7.9, "brightness": 255}, ...],
//	  "edges": [{"from": 0, "to": 4}, ...]
//	}
//
// Node ids are dense indices 0..n-1 in slice order. Edges are undirected and
// written with From < To.
//
// # Usage
//
//	l, err := graph.ReadLayoutFile("layout.json")  // File → Layout
//	err = graph.WriteLayoutFile(l, "copy.json")    // Layout → File
//	data, _ := graph.MarshalLayout(l)              // Layout → []byte
//
// Converting to and from the in-memory node set is done by the nodeset
// package (Export and FromLayout).
package graph
