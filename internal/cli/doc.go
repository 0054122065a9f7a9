// Package cli implements the interactive GenSyn command processor.
//
// Each input line is one command of the string boundary in pkg/command
// (gate-add, gate-connect, ...). A line starting with '@' renders the output
// waveform to a raw float32 PCM file, and the REPL adds a few conveniences of
// its own such as patch-save, patch-load and graph.
package cli
