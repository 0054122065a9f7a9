package runner

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/gensyn/internal/logging"
)

// Source is the part of the engine the runner drives.
type Source interface {
	Render(ctx context.Context, buf []float32) error
	SampleRate() float64
	Reset()
}

// Runner writes blocks of a Source's waveform as raw float32 PCM.
type Runner struct {
	src       Source
	logger    *slog.Logger
	blockSize int
	duration  time.Duration
	frames    int
	rewind    bool
}

// New creates a Runner over src.
func New(src Source, opts ...Option) *Runner {
	r := &Runner{
		src:       src,
		logger:    logging.NewNop(),
		blockSize: DefaultBlockSize,
		duration:  DefaultDuration,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TotalFrames returns the number of frames Run will write.
func (r *Runner) TotalFrames() int {
	if r.frames > 0 {
		return r.frames
	}
	return int(math.Round(r.duration.Seconds() * r.src.SampleRate()))
}

// Run renders TotalFrames frames into w, block by block.
// The last block is truncated when the total is not a multiple of the block size.
// It stops early if ctx is cancelled, returning the frames written so far.
func (r *Runner) Run(ctx context.Context, w io.Writer) (int, error) {
	if r.rewind {
		r.src.Reset()
	}

	total := r.TotalFrames()
	buf := make([]float32, r.blockSize)
	raw := make([]byte, 4*r.blockSize)
	written := 0
	start := time.Now()

	for written < total {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if err := r.src.Render(ctx, buf); err != nil {
			return written, fmt.Errorf("render block at frame %d: %w", written, err)
		}

		n := min(r.blockSize, total-written)
		for i, v := range buf[:n] {
			binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(v))
		}
		if _, err := w.Write(raw[:4*n]); err != nil {
			return written, fmt.Errorf("write pcm: %w", err)
		}
		written += n
	}

	r.logger.Debug("pcm rendered",
		"frames", written,
		"block_size", r.blockSize,
		"sample_rate", r.src.SampleRate(),
		"elapsed", time.Since(start))
	return written, nil
}

// WriteFile renders into path, replacing it only once every block has been written.
func (r *Runner) WriteFile(ctx context.Context, path string) (int, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "tmp-pcm-*")
	if err != nil {
		return 0, fmt.Errorf("create pcm file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once renamed.
		_ = os.Remove(tmpName)
	}()

	bw := bufio.NewWriter(tmp)
	n, err := r.Run(ctx, bw)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		r.logger.Warn("pcm file not written", "path", path, "err", err)
		return n, err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return n, fmt.Errorf("rename pcm file: %w", err)
	}
	r.logger.Info("pcm file written", "path", path, "frames", n)
	return n, nil
}

// Decode reads raw little-endian float32 PCM back into samples.
func Decode(rd io.Reader) ([]float32, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("pcm stream has %d trailing bytes", len(data)%4)
	}
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return out, nil
}
