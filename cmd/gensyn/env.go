package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/gensyn"
	"github.com/aretw0/gensyn/internal/logging"
	"github.com/aretw0/gensyn/pkg/adapters/file"
	"github.com/aretw0/gensyn/pkg/adapters/loam"
	"github.com/aretw0/gensyn/pkg/adapters/redis"
	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/patch"
	"github.com/aretw0/gensyn/pkg/ports"
)

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	name, _ := cmd.Flags().GetString("log-format")
	format, err := logging.ParseFormat(name)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v; using text\n", err)
		format = logging.FormatText
	}
	return logging.NewWith(cmd.ErrOrStderr(), level, format)
}

func newEngine(cmd *cobra.Command, logger *slog.Logger, opts ...gensyn.Option) (*gensyn.Engine, error) {
	hz, _ := cmd.Flags().GetFloat64("sample-rate")
	base := []gensyn.Option{gensyn.WithLogger(logger), gensyn.WithSampleRate(hz)}
	eng, err := gensyn.New(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	return eng, nil
}

// openManager returns the writable patch store selected by --redis or --dir.
// The returned func releases the backend.
func openManager(cmd *cobra.Command, logger *slog.Logger) (*patch.Manager, func(), error) {
	addr, _ := cmd.Flags().GetString("redis")
	if addr == "" {
		dir, _ := cmd.Flags().GetString("dir")
		return patch.NewManager(file.New(dir), patch.WithLogger(logger)), func() {}, nil
	}

	store := redis.New(addr, os.Getenv("GENSYN_REDIS_PASSWORD"), 0)
	if err := store.Client().Ping(cmd.Context()).Err(); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	mgr := patch.NewManager(store,
		patch.WithLogger(logger),
		patch.WithLocker(redis.NewLocker(store.Client(), "gensyn:lock:")),
	)
	return mgr, func() { _ = store.Close() }, nil
}

// openLoader returns where named patches are read from: the --vault when given,
// the writable store otherwise.
func openLoader(cmd *cobra.Command, logger *slog.Logger) (ports.PatchLoader, func(), error) {
	if vault, _ := cmd.Flags().GetString("vault"); vault != "" {
		l, err := loam.Open(vault)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open vault %s: %w", vault, err)
		}
		return l, func() {}, nil
	}
	return openManager(cmd, logger)
}

// resolvePatch reads ref as a snapshot file when it names one, or looks it up by ID.
func resolvePatch(ctx context.Context, cmd *cobra.Command, logger *slog.Logger, ref string) (*domain.Snapshot, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return file.ReadFile(ref)
	}
	loader, release, err := openLoader(cmd, logger)
	if err != nil {
		return nil, err
	}
	defer release()
	return loader.Load(ctx, ref)
}
