package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/gensyn"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gensyn",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gensyn version %s\n", strings.TrimSpace(gensyn.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
