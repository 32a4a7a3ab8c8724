// Package pkg provides the core libraries for dotswarm circle layouts.
//
// # Overview
//
// Dotswarm turns a tabular dataset into a board of per-group cells, each
// holding a swarm of circles settled by a small force simulation. The pkg
// directory is organized into five main areas:
//
//  1. [dataset] - CSV loading and the TOML column spec
//  2. [scale] - Size and categorical color scales
//  3. [sim] - The force simulation: energy, repulsion, collisions, drag
//  4. [board] - Grid of group cells wired to scales and filters
//  5. [export] - SVG and JSON sinks for a settled frame
//
// # Architecture
//
// The typical data flow through dotswarm:
//
//	CSV + column spec
//	         ↓
//	    [dataset] package (rows, roles, stats)
//	         ↓
//	    [board] package (cells, scales, filters)
//	         ↓
//	    [sim] package (one group per cell, ticked until still)
//	         ↓
//	    [export] package (SVG / JSON frame)
//
// # Quick Start
//
//	spec, _ := dataset.LoadSpec("trees.toml")
//	d, _ := dataset.LoadFile("trees.csv", spec)
//	b, _ := board.New(d, board.DefaultConfig())
//	for i := 0; i < 300; i++ {
//	    b.Tick()
//	}
//	svg := export.RenderSVG(b.Snapshot(), export.WithLegend(b.Legend()))
//
// Supporting packages: [cache] stores rendered artifacts between runs,
// [filter] holds the range-filter state, [errors] defines coded errors,
// and [buildinfo] carries version metadata injected at build time.
package pkg
