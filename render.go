package gensyn

import (
	"context"
	"time"

	"github.com/aretw0/gensyn/pkg/domain"
)

// Evaluate computes one block of the output waveform at the given step.
// Frames are numbered from step*frames.
func (e *Engine) Evaluate(ctx context.Context, step uint64, frames int) ([]float32, error) {
	start := time.Now()
	out, err := e.graph.Evaluate(step, frames)
	if e.hooks.OnEvaluate != nil {
		e.hooks.OnEvaluate(ctx, &domain.EvaluateEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventEvaluate},
			Step:      step,
			Frames:    frames,
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	return out, err
}

// Render fills buf with the next block of the waveform and advances the cursor.
// Consecutive calls with the same buffer length produce a continuous signal.
func (e *Engine) Render(ctx context.Context, buf []float32) error {
	step := e.cursor.Add(1) - 1
	out, err := e.Evaluate(ctx, step, len(buf))
	if err != nil {
		e.cursor.CompareAndSwap(step+1, step)
		return err
	}
	copy(buf, out)
	return nil
}

// Position returns the step the next Render call will evaluate.
func (e *Engine) Position() uint64 {
	return e.cursor.Load()
}

// Reset rewinds the render cursor to the first block.
func (e *Engine) Reset() {
	e.cursor.Store(0)
}
