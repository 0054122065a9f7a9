package runner_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/gensyn"
	"github.com/aretw0/gensyn/pkg/gates"
	"github.com/aretw0/gensyn/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantEngine(t *testing.T, value string) *gensyn.Engine {
	t.Helper()
	ctx := context.Background()
	eng, err := gensyn.New(gensyn.WithSampleRate(1000))
	require.NoError(t, err)
	require.NoError(t, eng.AddGate(ctx, gates.ClassInput, "dc"))
	require.NoError(t, eng.SetParam(ctx, "dc", "value", value))
	_, err = eng.Connect(ctx, "dc", "output", "out")
	require.NoError(t, err)
	return eng
}

func TestRun_WritesLittleEndianFloats(t *testing.T) {
	eng := constantEngine(t, "0.25")
	r := runner.New(eng, runner.WithFrames(10), runner.WithBlockSize(4))

	var buf bytes.Buffer
	n, err := r.Run(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, 40, buf.Len())
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3e}, buf.Bytes()[:4], "0.25 as f32le")

	samples, err := runner.Decode(&buf)
	require.NoError(t, err)
	require.Len(t, samples, 10)
	for _, s := range samples {
		assert.Equal(t, float32(0.25), s)
	}
	assert.Equal(t, uint64(3), eng.Position(), "three blocks pulled")
}

func TestRun_DurationUsesSampleRate(t *testing.T) {
	eng := constantEngine(t, "1")
	r := runner.New(eng, runner.WithDuration(500*time.Millisecond))
	assert.Equal(t, 500, r.TotalFrames())

	r = runner.New(eng)
	assert.Equal(t, 10000, r.TotalFrames(), "default is ten seconds")
}

func TestRun_Rewind(t *testing.T) {
	eng := constantEngine(t, "1")
	r := runner.New(eng, runner.WithFrames(8), runner.WithBlockSize(8), runner.WithRewind(true))

	_, err := r.Run(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	_, err = r.Run(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), eng.Position())
}

func TestRun_Cancelled(t *testing.T) {
	eng := constantEngine(t, "1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := runner.New(eng, runner.WithFrames(100)).Run(ctx, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRun_WriteError(t *testing.T) {
	eng := constantEngine(t, "1")
	_, err := runner.New(eng, runner.WithFrames(4)).Run(context.Background(), failingWriter{})
	assert.ErrorContains(t, err, "disk full")
}

func TestWriteFile(t *testing.T) {
	eng := constantEngine(t, "-0.5")
	path := filepath.Join(t.TempDir(), "out.raw")

	n, err := runner.New(eng, runner.WithFrames(300)).WriteFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 300, n)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	samples, err := runner.Decode(f)
	require.NoError(t, err)
	assert.Len(t, samples, 300)
	assert.Equal(t, float32(-0.5), samples[299])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestDecode_Truncated(t *testing.T) {
	_, err := runner.Decode(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)
}
