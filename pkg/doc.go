// Package pkg provides the core libraries of Auradisp, a generator for planar
// LED node graphs.
//
// # Overview
//
// Auradisp scatters nodes over a rectangular frame, connects them with the
// shortest set of straight wires that never cross, assigns each node a
// brightness and renders the result. The pkg directory is organized into
// three areas:
//
//  1. Domain logic ([geom], [layout], [matrix], [planar], [brightness], [nodeset])
//  2. Output ([graph] snapshots and [render] formats)
//  3. Infrastructure ([pipeline], [cache], [config], [errors], [observability])
//
// # Architecture
//
// The data flow through Auradisp:
//
//	Config (node count, frame, seed, policy)
//	         ↓
//	    [layout] package (place nodes)
//	         ↓
//	    [matrix] package (pairwise distances)
//	         ↓
//	    [planar] package (greedy non-crossing wires)
//	         ↓
//	    [brightness] package (PWM duty per node)
//	         ↓
//	    [render] package (text grids, SVG, DOT, PNG, PDF, JSON)
//
// [nodeset] runs the first four steps and owns the result; [pipeline] adds
// caching and rendering on top and is shared by the CLI and the HTTP server.
//
// # Quick Start
//
//	cfg := nodeset.DefaultConfig()
//	cfg.N, cfg.Seed = 64, 7
//
//	set, err := nodeset.New(cfg)
//	if err != nil {
//	    return err
//	}
//	set.AssignBrightness(brightness.Computed, 7)
//
//	svg := render.SVG(set, render.SVGOptions{})
//
// # Main Packages
//
// [geom] - Points, distances and the segment intersection predicate.
//
// [layout] - Placement policies (uniform scatter, circle) driven by a seeded
// PCG generator.
//
// [matrix] - Symmetric distance and connection matrices with edge and
// component queries.
//
// [planar] - The greedy resolver: candidate pairs ordered by length, each
// accepted only if it crosses no accepted wire. Optional parallel crossing
// detection yields the same result.
//
// [brightness] - Brightness modes (all on, random, computed noise, test
// pattern).
//
// [graph] - The JSON layout snapshot exchanged between commands.
//
// [pipeline] - Build, light and render with layout and artifact caching, plus
// seed batches.
//
// [cache] - File, Redis and null cache backends with content-addressed keys.
package pkg
