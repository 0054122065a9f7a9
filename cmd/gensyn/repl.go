package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/gensyn/internal/cli"
	"github.com/aretw0/gensyn/pkg/runner"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive command processor",
	Long: `Reads gate commands line by line from standard input.
'@file' renders the output waveform to file as raw 32bit float PCM, e.g.

  gensyn repl --demo
  $ @out.raw
  $ quit
  ffplay -f f32le -ar 44100 -ac 1 out.raw`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(cmd)

		eng, err := newEngine(cmd, logger)
		if err != nil {
			return err
		}

		mgr, release, err := openManager(cmd, logger)
		if err != nil {
			return err
		}
		defer release()

		demo, _ := cmd.Flags().GetBool("demo")
		ref, _ := cmd.Flags().GetString("patch")
		switch {
		case demo && ref != "":
			return fmt.Errorf("--demo and --patch are mutually exclusive")
		case demo:
			if err := cli.Demo().Apply(ctx, eng); err != nil {
				return err
			}
		case ref != "":
			snap, err := resolvePatch(ctx, cmd, logger, ref)
			if err != nil {
				return fmt.Errorf("failed to load patch %s: %w", ref, err)
			}
			if err := eng.LoadState(ctx, snap); err != nil {
				return err
			}
		}

		duration, _ := cmd.Flags().GetDuration("duration")
		repl := cli.New(ctx, eng, cli.Options{
			In:            os.Stdin,
			Out:           cmd.OutOrStdout(),
			Interactive:   cli.IsInteractive(),
			Logger:        logger,
			Store:         mgr,
			RunnerOptions: []runner.Option{runner.WithDuration(duration)},
		})
		return repl.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().Bool("demo", false, "Start from the demo patch")
	replCmd.Flags().String("patch", "", "Patch ID or snapshot file to start from")
	replCmd.Flags().Duration("duration", 10*time.Second, "Length of each '@file' render")
}
