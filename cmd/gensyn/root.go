package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/gensyn/internal/runtime"
	"github.com/aretw0/gensyn/pkg/adapters/file"
)

var rootCmd = &cobra.Command{
	Use:   "gensyn",
	Short: "GenSyn is a gate graph synthesizer",
	Long: `GenSyn composes signal-processing gates into a graph whose output gate
produces a waveform. Patches can be edited interactively, rendered to raw PCM,
served over HTTP or exposed to agents through MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", file.DefaultDir, "Directory holding saved patches")
	rootCmd.PersistentFlags().String("redis", "", "Redis address; stores patches in Redis instead of --dir")
	rootCmd.PersistentFlags().String("vault", "", "Loam vault to read patches from (read-only)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().Float64("sample-rate", runtime.DefaultSampleRate, "Samples per second of the rendered waveform")
}
