/*
Package gensyn is a node-graph engine for composing signal-processing units ("gates")
into a network that produces a waveform.

Gates are named nodes with typed input and output ports and a store of numeric
parameters. Connections wire an output port into an input port; the engine rejects
cycles, duplicate edges and incompatible ports. Reading the waveform pulls values
through the graph from the well-known "output" gate, computing every gate once per pass.

# Concept

The engine is a library. It never logs failures, never retries and never runs in the
background: every operation is synchronous and either succeeds or leaves the graph
untouched and returns an error that unwraps to one of the domain error kinds.

# Key Features

  - Deterministic Evaluation: the same graph, parameters and step always yield the same samples.
  - Typed Ports: connections are checked against the ports each gate type declares.
  - Patches: the whole graph round-trips through domain.Snapshot (see pkg/schema for JSON/YAML).
  - Extensible Catalog: built-in gates live in pkg/gates; WithGateTypes adds your own.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/gensyn"
	)

	func main() {
		ctx := context.Background()
		eng, err := gensyn.New()
		if err != nil {
			log.Fatal(err)
		}

		lfo, _ := eng.Add(ctx, "Simple_LFO", "lfo")
		sine, _ := eng.Add(ctx, "Sine_Wave", "sine")
		out, _ := eng.Output()

		if _, err := lfo.Connect(ctx, "out", sine); err != nil {
			log.Fatal(err)
		}
		if _, err := out.Connect(ctx, "in", sine); err != nil {
			log.Fatal(err)
		}

		buf := make([]float32, 256)
		if err := eng.Render(ctx, buf); err != nil {
			log.Fatal(err)
		}
	}

For the command-line host, see cmd/gensyn. For the string-boundary command host
that mirrors the original scripting operations, see pkg/command.
*/
package gensyn
