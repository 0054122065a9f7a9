package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/gensyn/internal/presentation/graph"
	"github.com/aretw0/gensyn/pkg/command"
)

// replCommands are the REPL additions on top of the host operations.
var replCommands = []command.Spec{
	{Name: "graph", Usage: "graph", Summary: "Prints a Mermaid flowchart of the current graph."},
	{Name: "reset", Usage: "reset", Summary: "Rewinds the render cursor to the first block."},
	{Name: "patch-ls", Usage: "patch-ls", Summary: "Lists saved patches."},
	{Name: "patch-save", Usage: "patch-save <id>", Summary: "Saves the current graph as a patch.", Args: 1},
	{Name: "patch-load", Usage: "patch-load <id>", Summary: "Replaces the current graph with a saved patch.", Args: 1},
}

// dispatch runs one tokenized line through a cobra command tree.
func (r *REPL) dispatch(ctx context.Context, fields []string) string {
	root := r.commandTree()
	if c, _, err := root.Find(fields); err != nil || c == root {
		return fmt.Sprintf("unknown command %q (try help)", fields[0])
	}

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(fields)
	if err := root.ExecuteContext(ctx); err != nil {
		return err.Error()
	}
	return strings.TrimRight(out.String(), "\n")
}

func (r *REPL) commandTree() *cobra.Command {
	root := &cobra.Command{
		Use:           "gensyn",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	h := r.host
	handlers := map[string]func(cmd *cobra.Command, args []string) string{
		"help":            func(cmd *cobra.Command, _ []string) string { return r.help() },
		"gate-list":       func(_ *cobra.Command, _ []string) string { return h.GateList() },
		"gate-check":      func(_ *cobra.Command, a []string) string { return h.GateCheck(a[0]) },
		"gate-add":        func(_ *cobra.Command, a []string) string { return h.GateAdd(a[0], a[1]) },
		"gate-remove":     func(_ *cobra.Command, a []string) string { return h.GateRemove(a[0]) },
		"gate-connect":    func(_ *cobra.Command, a []string) string { return h.GateConnect(a[0], a[1], a[2]) },
		"gate-disconnect": func(_ *cobra.Command, a []string) string { return h.GateDisconnect(a[0], a[1], a[2]) },
		"gate-set-param":  func(_ *cobra.Command, a []string) string { return h.GateSetParam(a[0], a[1], a[2]) },
		"gate-summary": func(_ *cobra.Command, a []string) string {
			s, errMsg := h.GateSummary(a[0])
			if errMsg != "" {
				return errMsg
			}
			return s
		},
		"gate-get-param": func(_ *cobra.Command, a []string) string {
			v, errMsg := h.GateGetParam(a[0], a[1])
			if errMsg != "" {
				return errMsg
			}
			return v
		},
		"graph":      r.graphCmd,
		"reset":      r.resetCmd,
		"patch-ls":   r.patchList,
		"patch-save": r.patchSave,
		"patch-load": r.patchLoad,
	}

	for _, spec := range append(append([]command.Spec{}, command.Commands...), replCommands...) {
		fn := handlers[spec.Name]
		if fn == nil {
			continue
		}
		cmd := &cobra.Command{
			Use:                spec.Name,
			Short:              spec.Summary,
			DisableFlagParsing: true,
			Args:               exactArgs(spec),
			Run: func(cmd *cobra.Command, args []string) {
				if out := fn(cmd, args); out != "" {
					cmd.Println(out)
				}
			},
		}
		if spec.Name == "help" {
			root.SetHelpCommand(cmd)
		}
		root.AddCommand(cmd)
	}
	return root
}

func exactArgs(spec command.Spec) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != spec.Args {
			return fmt.Errorf("usage: %s", spec.Usage)
		}
		return nil
	}
}

func (r *REPL) help() string {
	if r.markdown == nil {
		var b strings.Builder
		b.WriteString(r.host.Help())
		b.WriteString("\nREPL commands:\n")
		for _, c := range replCommands {
			fmt.Fprintf(&b, "  %-40s %s\n", c.Usage, c.Summary)
		}
		fmt.Fprintf(&b, "  %-40s %s\n", "@<file>", "Writes the output waveform as raw float32 PCM.")
		fmt.Fprintf(&b, "  %-40s %s\n", "quit", "Leaves the REPL.")
		return strings.TrimRight(b.String(), "\n")
	}

	var md strings.Builder
	md.WriteString("# GenSyn Command Processor\n\n| Command | Description |\n|---|---|\n")
	for _, c := range append(append([]command.Spec{}, command.Commands...), replCommands...) {
		fmt.Fprintf(&md, "| `%s` | %s |\n", c.Usage, c.Summary)
	}
	md.WriteString("| `@<file>` | Writes the output waveform as raw float32 PCM. |\n")
	md.WriteString("| `quit` | Leaves the REPL. |\n\n## Gate types\n\n")
	for _, t := range r.engine.Types(context.Background()) {
		fmt.Fprintf(&md, "- **%s** (%s): %s\n", t.Class, t.Kind(), t.Description)
	}
	md.WriteString("\nRoles: `out[:port]` feeds the other gate, `in[:port]` is fed by it.\n")

	rendered, err := r.markdown(md.String())
	if err != nil {
		return r.host.Help()
	}
	return strings.TrimRight(rendered, "\n")
}

func (r *REPL) graphCmd(cmd *cobra.Command, _ []string) string {
	snap, err := r.engine.SaveState(cmd.Context())
	if err != nil {
		return err.Error()
	}
	return strings.TrimRight(graph.GenerateMermaid(snap, r.engine.Types(cmd.Context()), nil), "\n")
}

func (r *REPL) resetCmd(_ *cobra.Command, _ []string) string {
	r.engine.Reset()
	return ""
}

func (r *REPL) patchList(cmd *cobra.Command, _ []string) string {
	if r.opts.Store == nil {
		return "no patch store configured"
	}
	ids, err := r.opts.Store.List(cmd.Context())
	if err != nil {
		return err.Error()
	}
	return strings.Join(ids, "\n")
}

func (r *REPL) patchSave(cmd *cobra.Command, args []string) string {
	if r.opts.Store == nil {
		return "no patch store configured"
	}
	snap, err := r.engine.SaveState(cmd.Context())
	if err != nil {
		return err.Error()
	}
	if err := r.opts.Store.Save(cmd.Context(), args[0], snap); err != nil {
		return err.Error()
	}
	return ""
}

func (r *REPL) patchLoad(cmd *cobra.Command, args []string) string {
	if r.opts.Store == nil {
		return "no patch store configured"
	}
	snap, err := r.opts.Store.Load(cmd.Context(), args[0])
	if err != nil {
		return err.Error()
	}
	if err := r.engine.LoadState(cmd.Context(), snap); err != nil {
		return err.Error()
	}
	return ""
}
