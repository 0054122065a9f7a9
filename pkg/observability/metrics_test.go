package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/gensyn"
	"github.com/aretw0/gensyn/pkg/gates"
	"github.com/aretw0/gensyn/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_TrackEngine(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := observability.Combine(m.Hooks(), observability.LoggingHooks(logger))

	ctx := context.Background()
	eng, err := gensyn.New(gensyn.WithLifecycleHooks(hooks))
	require.NoError(t, err)

	_, err = eng.Add(ctx, gates.ClassInput, "in")
	require.NoError(t, err)
	_, err = eng.Connect(ctx, "in", "output", "out")
	require.NoError(t, err)
	require.NoError(t, eng.Render(ctx, make([]float32, 128)))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Gates))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Connections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GateEvents.WithLabelValues("gate_add", gates.ClassInput)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("ok")))
	assert.Equal(t, 128.0, testutil.ToFloat64(m.Frames))

	require.NoError(t, eng.RemoveGate(ctx, "in"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Gates))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Connections))

	_, err = eng.Evaluate(ctx, 0, 0)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("error")))

	assert.Contains(t, logs.String(), "gate_add")
	assert.Contains(t, logs.String(), "evaluate failed")
}

func TestNewMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}
