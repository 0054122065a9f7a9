package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aretw0/gensyn/internal/cli"
	"github.com/aretw0/gensyn/pkg/adapters/file"
	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/schema"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Manage saved patches",
	Long:  `List, inspect, save and remove patches kept in --dir (or --redis).`,
}

var patchLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved patches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, release, err := openLoader(cmd, newLogger(cmd))
		if err != nil {
			return err
		}
		defer release()

		ids, err := loader.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing patches: %w", err)
		}
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No patches found.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), "- "+id)
		}
		return nil
	},
}

var patchInspectCmd = &cobra.Command{
	Use:   "inspect <patch-id>",
	Short: "Print a saved patch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, _ := cmd.Flags().GetString("format")
		format, err := schema.ParseFormat(f)
		if err != nil {
			return err
		}
		snap, err := resolvePatch(cmd.Context(), cmd, newLogger(cmd), args[0])
		if err != nil {
			return fmt.Errorf("error loading patch '%s': %w", args[0], err)
		}
		data, err := schema.Marshal(snap, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var patchSaveCmd = &cobra.Command{
	Use:   "save [patch-id]",
	Short: "Save a snapshot file (or the demo patch) under an ID",
	Long: `Validates a snapshot and stores it. A random ID is generated when none is given.

  gensyn patch save wobble --from wobble.yaml
  gensyn patch save --demo`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		from, _ := cmd.Flags().GetString("from")
		demo, _ := cmd.Flags().GetBool("demo")

		var (
			snap *domain.Snapshot
			err  error
		)
		switch {
		case demo == (from != ""):
			return fmt.Errorf("exactly one of --from or --demo is required")
		case demo:
			snap, err = cli.Demo().Build()
		default:
			snap, err = file.ReadFile(from)
		}
		if err != nil {
			return err
		}

		// Replaying the snapshot catches graph errors the schema cannot see.
		eng, err := newEngine(cmd, logger)
		if err != nil {
			return err
		}
		if err := eng.LoadState(cmd.Context(), snap); err != nil {
			return err
		}

		id := uuid.NewString()
		if len(args) == 1 {
			id = args[0]
		}
		mgr, release, err := openManager(cmd, logger)
		if err != nil {
			return err
		}
		defer release()
		if err := mgr.Save(cmd.Context(), id, snap); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var patchRmCmd = &cobra.Command{
	Use:   "rm <patch-id>...",
	Short: "Remove one or more patches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, release, err := openManager(cmd, newLogger(cmd))
		if err != nil {
			return err
		}
		defer release()

		var failed int
		for _, id := range args {
			if err := mgr.Delete(cmd.Context(), id); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", id, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed patch '%s'\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d patches could not be removed", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(patchCmd)
	patchCmd.AddCommand(patchLsCmd)
	patchCmd.AddCommand(patchInspectCmd)
	patchCmd.AddCommand(patchSaveCmd)
	patchCmd.AddCommand(patchRmCmd)

	patchInspectCmd.Flags().String("format", "yaml", "Output format: yaml or json")
	patchSaveCmd.Flags().String("from", "", "Snapshot file (JSON or YAML) to save")
	patchSaveCmd.Flags().Bool("demo", false, "Save the demo patch")
}
