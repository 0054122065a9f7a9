/*
Package runner streams the output waveform of a GenSyn engine to a sink.

A Runner pulls fixed-size blocks from the engine's render cursor and writes
them as raw little-endian float32 PCM, mono, at the engine's sample rate.
The format has no header; players need to be told the rate explicitly:

	ffplay -f f32le -ar 44100 -ac 1 out.raw

# Usage

	r := runner.New(engine,
		runner.WithDuration(5*time.Second),
		runner.WithLogger(logger),
	)

	frames, err := r.WriteFile(ctx, "out.raw")
*/
package runner
