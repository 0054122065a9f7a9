package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/gensyn/internal/cli"
	"github.com/aretw0/gensyn/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [patch]",
	Short: "Export the gate graph visualization",
	Long: `Loads a patch (the demo patch when none is given) and outputs a Mermaid
diagram (graph LR) of its gates and connections.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(cmd)

		eng, err := newEngine(cmd, logger)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			err = cli.Demo().Apply(ctx, eng)
		} else {
			snap, loadErr := resolvePatch(ctx, cmd, logger, args[0])
			if loadErr != nil {
				return fmt.Errorf("failed to load patch %s: %w", args[0], loadErr)
			}
			err = eng.LoadState(ctx, snap)
		}
		if err != nil {
			return err
		}

		snap, err := eng.SaveState(ctx)
		if err != nil {
			return err
		}
		focus, _ := cmd.Flags().GetString("focus")
		dim, _ := cmd.Flags().GetBool("dim")
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(snap, eng.Types(ctx), &graph.GraphOverlay{
			Focus:          focus,
			DimUnreachable: dim,
		}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("focus", "", "Gate to highlight")
	graphCmd.Flags().Bool("dim", true, "Grey out gates that do not reach the output gate")
}
