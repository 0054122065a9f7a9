package runner

import (
	"log/slog"
	"time"
)

// DefaultBlockSize is the number of frames pulled from the engine per write.
const DefaultBlockSize = 256

// DefaultDuration is the length of audio written when no duration or frame count is set.
const DefaultDuration = 10 * time.Second

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithBlockSize sets the number of frames rendered per block.
// Values below 1 keep the default.
func WithBlockSize(frames int) Option {
	return func(r *Runner) {
		if frames > 0 {
			r.blockSize = frames
		}
	}
}

// WithDuration sets how much audio Run writes, converted to frames at the engine's sample rate.
func WithDuration(d time.Duration) Option {
	return func(r *Runner) {
		r.duration = d
		r.frames = 0
	}
}

// WithFrames sets an exact number of frames to write. It overrides WithDuration.
func WithFrames(n int) Option {
	return func(r *Runner) {
		r.frames = n
	}
}

// WithRewind resets the engine's render cursor before writing.
func WithRewind(rewind bool) Option {
	return func(r *Runner) {
		r.rewind = rewind
	}
}
