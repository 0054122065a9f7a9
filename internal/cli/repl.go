package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/gensyn"
	"github.com/aretw0/gensyn/internal/logging"
	"github.com/aretw0/gensyn/internal/presentation/tui"
	"github.com/aretw0/gensyn/pkg/command"
	"github.com/aretw0/gensyn/pkg/ports"
	"github.com/aretw0/gensyn/pkg/runner"
)

// Prompt is printed before each line in interactive mode.
const Prompt = "$ "

// Options configures a REPL.
type Options struct {
	In  io.Reader
	Out io.Writer

	// Interactive enables the banner, the prompt and markdown help.
	Interactive bool
	Logger      *slog.Logger

	// Store backs patch-save, patch-load and patch-ls. Those commands fail when nil.
	Store ports.PatchStore

	// RunnerOptions are applied to every '@file' render.
	RunnerOptions []runner.Option
}

// REPL reads commands line by line and applies them to an engine.
type REPL struct {
	engine   *gensyn.Engine
	host     *command.Host
	opts     Options
	logger   *slog.Logger
	markdown func(string) (string, error)
}

// New creates a REPL over eng.
func New(ctx context.Context, eng *gensyn.Engine, opts Options) *REPL {
	r := &REPL{
		engine: eng,
		host:   command.NewHost(ctx, eng),
		opts:   opts,
		logger: opts.Logger,
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if opts.Interactive {
		r.markdown = tui.NewRenderer(TerminalWidth(100))
	}
	return r
}

// Run processes lines until EOF, a quit command or an interrupt while idle.
// An interrupt during a render only cancels that render.
func (r *REPL) Run(ctx context.Context) error {
	out := r.opts.Out
	if r.opts.Interactive {
		tui.PrintBanner(out, gensyn.Version)
		fmt.Fprintln(out, "Type help to see more information on usage.")
	}

	// Stops the reader once Run returns, whatever the caller does with ctx.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	signals := runner.NewSignalManager(ctx)
	defer signals.Stop()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r.opts.In)
		sc.Buffer(make([]byte, 4096), 1<<20)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		if r.opts.Interactive {
			fmt.Fprint(out, Prompt)
		}

		var line string
		select {
		case <-signals.Context().Done():
			if signals.Interrupted() {
				fmt.Fprintln(out)
			}
			return nil
		case l, ok := <-lines:
			if !ok {
				signals.CheckRace()
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			line = l
		}

		result, quit := r.Exec(signals.Context(), line)
		if result != "" {
			fmt.Fprintln(out, result)
		}
		if quit {
			return nil
		}
		if signals.Interrupted() {
			signals.Reset()
		}
	}
}

// Exec runs a single line and returns what should be printed.
func (r *REPL) Exec(ctx context.Context, line string) (result string, quit bool) {
	line = strings.TrimSpace(line)
	switch {
	case line == "" || strings.HasPrefix(line, "#"):
		return "", false
	case line == "q" || line == "quit" || line == "exit":
		return "", true
	case strings.HasPrefix(line, "@"):
		return r.writePCM(ctx, strings.TrimSpace(line[1:])), false
	}

	fields := strings.Fields(line)
	return r.dispatch(ctx, fields), false
}

func (r *REPL) writePCM(ctx context.Context, path string) string {
	if path == "" {
		return "usage: @<file>"
	}
	n, err := runner.New(r.engine, append([]runner.Option{runner.WithLogger(r.logger)}, r.opts.RunnerOptions...)...).
		WriteFile(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Sprintf("Render interrupted after %d samples; %s left untouched", n, path)
		}
		return fmt.Sprintf("Cannot write output waveform to %s: %v", path, err)
	}
	return fmt.Sprintf("Wrote waveform (32bit float [-1, 1]) to %s", path)
}
