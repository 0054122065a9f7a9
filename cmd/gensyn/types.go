package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the registered gate types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd, newLogger(cmd))
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CLASS\tKIND\tINPUTS\tPARAMS\tDESCRIPTION")
		for _, t := range eng.Types(cmd.Context()) {
			params := make([]string, 0, len(t.Params))
			for _, p := range t.Params {
				params = append(params, fmt.Sprintf("%s=%g", p.Name, p.Default))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.Class, t.Kind(),
				dash(strings.Join(t.Inputs, ",")), dash(strings.Join(params, ",")), t.Description)
		}
		return w.Flush()
	},
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
