package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/gensyn"
	httpAdapter "github.com/aretw0/gensyn/pkg/adapters/http"
	"github.com/aretw0/gensyn/pkg/adapters/loam"
	"github.com/aretw0/gensyn/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts one engine and exposes it as a JSON API over HTTP, with Prometheus
metrics on /metrics, engine events on /events and the API document on /openapi.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		ref, _ := cmd.Flags().GetString("patch")
		watch, _ := cmd.Flags().GetBool("watch")
		origins, _ := cmd.Flags().GetStringSlice("allowed-origins")
		vault, _ := cmd.Flags().GetString("vault")
		logger := newLogger(cmd)

		if watch && (vault == "" || ref == "") {
			return errors.New("--watch needs both --vault and --patch")
		}

		reg := prometheus.NewRegistry()
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		streams := httpAdapter.NewStreamManager(logger)

		eng, err := newEngine(cmd, logger, gensyn.WithName(ref), gensyn.WithLifecycleHooks(observability.Combine(
			observability.LoggingHooks(logger),
			metrics.Hooks(),
			streams.Hooks(),
		)))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if ref != "" {
			snap, err := resolvePatch(ctx, cmd, logger, ref)
			if err != nil {
				return fmt.Errorf("failed to load patch %s: %w", ref, err)
			}
			if err := eng.LoadState(ctx, snap); err != nil {
				return err
			}
		}
		if watch {
			if err := watchVault(ctx, vault, ref, eng, logger); err != nil {
				return err
			}
		}

		srv := &http.Server{
			Addr: ":" + port,
			Handler: httpAdapter.NewHandler(eng,
				httpAdapter.WithLogger(logger),
				httpAdapter.WithGatherer(reg),
				httpAdapter.WithStreams(streams),
				httpAdapter.WithAllowedOrigins(origins...),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting GenSyn Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			fmt.Fprintln(cmd.OutOrStdout(), "\nStart shutdown...")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "GenSyn Server stopped gracefully")
		}
		return nil
	},
}

// watchVault reloads the served patch whenever its document changes in the vault.
func watchVault(ctx context.Context, vault, id string, eng *gensyn.Engine, logger *slog.Logger) error {
	loader, err := loam.Open(vault)
	if err != nil {
		return fmt.Errorf("failed to open vault %s: %w", vault, err)
	}
	changes, err := loader.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for changed := range changes {
			if changed != id {
				continue
			}
			snap, err := loader.Load(ctx, id)
			if err == nil {
				err = eng.LoadState(ctx, snap)
			}
			if err != nil {
				logger.Warn("patch reload failed", "patch", id, "err", err)
				continue
			}
			logger.Info("patch reloaded", "patch", id)
		}
	}()
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("patch", "", "Patch ID or snapshot file to serve")
	serveCmd.Flags().Bool("watch", false, "Reload the patch when it changes in --vault")
	serveCmd.Flags().StringSlice("allowed-origins", nil, "CORS origins allowed to call the API")
}
