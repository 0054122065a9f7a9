package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/gensyn/pkg/domain"
)

// LoggingHooks traces every lifecycle event at Debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGateAdd: func(ctx context.Context, e *domain.GateEvent) {
			logger.DebugContext(ctx, "gate_add", "gate", e.Name, "class", e.Class)
		},
		OnGateRemove: func(ctx context.Context, e *domain.GateEvent) {
			logger.DebugContext(ctx, "gate_remove", "gate", e.Name)
		},
		OnConnect: func(ctx context.Context, e *domain.ConnectionEvent) {
			logger.DebugContext(ctx, "connect", "edge", e.Connection.String())
		},
		OnDisconnect: func(ctx context.Context, e *domain.ConnectionEvent) {
			logger.DebugContext(ctx, "disconnect", "edge", e.Connection.String())
		},
		OnEvaluate: func(ctx context.Context, e *domain.EvaluateEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "evaluate failed", "step", e.Step, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, "evaluate", "step", e.Step, "frames", e.Frames, "duration", e.Duration)
		},
		OnLoadState: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "load_state", "gates", e.Gates, "connections", e.Connections)
		},
	}
}

// Combine returns hooks that call every non-nil hook of each set, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, s := range sets {
		out.OnGateAdd = chain(out.OnGateAdd, s.OnGateAdd)
		out.OnGateRemove = chain(out.OnGateRemove, s.OnGateRemove)
		out.OnConnect = chain(out.OnConnect, s.OnConnect)
		out.OnDisconnect = chain(out.OnDisconnect, s.OnDisconnect)
		out.OnEvaluate = chain(out.OnEvaluate, s.OnEvaluate)
		out.OnLoadState = chain(out.OnLoadState, s.OnLoadState)
	}
	return out
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
