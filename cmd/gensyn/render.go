package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/gensyn/pkg/runner"
)

var renderCmd = &cobra.Command{
	Use:   "render <patch>",
	Short: "Render a patch to a raw PCM file",
	Long: `Loads a patch by ID (or from a snapshot file) and writes its output waveform
as little-endian 32bit float samples in [-1, 1], one channel.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		logger := newLogger(cmd)

		eng, err := newEngine(cmd, logger)
		if err != nil {
			return err
		}
		snap, err := resolvePatch(ctx, cmd, logger, args[0])
		if err != nil {
			return fmt.Errorf("failed to load patch %s: %w", args[0], err)
		}
		if err := eng.LoadState(ctx, snap); err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("output")
		duration, _ := cmd.Flags().GetDuration("duration")
		blockSize, _ := cmd.Flags().GetInt("block-size")
		opts := []runner.Option{
			runner.WithLogger(logger),
			runner.WithDuration(duration),
			runner.WithBlockSize(blockSize),
		}
		if cmd.Flags().Changed("frames") {
			frames, _ := cmd.Flags().GetInt("frames")
			opts = append(opts, runner.WithFrames(frames))
		}

		n, err := runner.New(eng, opts...).WriteFile(ctx, out)
		if err != nil {
			if ctx.Err() == context.Canceled {
				return fmt.Errorf("render interrupted after %d samples", n)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d samples (32bit float [-1, 1], %g Hz) to %s\n", n, eng.SampleRate(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("output", "o", "out.raw", "File to write")
	renderCmd.Flags().Duration("duration", runner.DefaultDuration, "Length of the render")
	renderCmd.Flags().Int("frames", 0, "Exact number of samples to render (overrides --duration)")
	renderCmd.Flags().Int("block-size", runner.DefaultBlockSize, "Samples evaluated per block")
}
