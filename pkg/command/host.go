// Package command is the string boundary of the engine: every gate operation takes and
// returns plain strings, so it can sit behind a scripting binding, a line-oriented REPL
// or any other host that cannot carry typed errors.
//
// Mutating calls return the empty string on success and a non-empty error message,
// to be surfaced verbatim, on failure.
package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/gensyn/pkg/ports"
)

// Host adapts a ports.GateEngine to the string convention.
type Host struct {
	engine ports.GateEngine
	ctx    context.Context
}

// NewHost wraps an engine. ctx is handed to every engine call.
func NewHost(ctx context.Context, engine ports.GateEngine) *Host {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Host{engine: engine, ctx: ctx}
}

func message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// GateAdd creates a gate of type typ named name.
func (h *Host) GateAdd(typ, name string) string {
	return message(h.engine.AddGate(h.ctx, typ, name))
}

// GateCheck returns the empty string when name refers to a gate.
func (h *Host) GateCheck(name string) string {
	return message(h.engine.CheckGate(h.ctx, name))
}

// GateRemove deletes a gate and its edges. It never fails.
func (h *Host) GateRemove(name string) string {
	return message(h.engine.RemoveGate(h.ctx, name))
}

// GateSummary returns the description of a gate, or the error message when it does not exist.
func (h *Host) GateSummary(name string) (summary, errMsg string) {
	s, err := h.engine.GateSummary(h.ctx, name)
	return s, message(err)
}

// GateConnect declares an edge with role given from a's perspective.
func (h *Host) GateConnect(a, b, role string) string {
	_, err := h.engine.Connect(h.ctx, a, b, role)
	return message(err)
}

// GateDisconnect removes an edge declared with the same arguments.
func (h *Host) GateDisconnect(a, b, role string) string {
	_, err := h.engine.Disconnect(h.ctx, a, b, role)
	return message(err)
}

// GateSetParam stores a raw parameter value.
func (h *Host) GateSetParam(name, param, value string) string {
	return message(h.engine.SetParam(h.ctx, name, param, value))
}

// GateGetParam returns the parameter formatted with six decimals.
func (h *Host) GateGetParam(name, param string) (value, errMsg string) {
	v, err := h.engine.GetParam(h.ctx, name, param)
	if err != nil {
		return "", err.Error()
	}
	return strconv.FormatFloat(v, 'f', 6, 64), ""
}

// GateList returns the gate names joined by newlines, in creation order.
func (h *Host) GateList() string {
	return strings.Join(h.engine.ListGates(h.ctx), "\n")
}

// Help describes the available commands and the registered gate types.
func (h *Host) Help() string {
	var b strings.Builder
	b.WriteString("GenSyn Command Processor.\n\n")
	b.WriteString("Commands:\n")
	for _, c := range Commands {
		fmt.Fprintf(&b, "  %-40s %s\n", c.Usage, c.Summary)
	}
	b.WriteString("\nGate types:\n")
	for _, t := range h.engine.Types(h.ctx) {
		fmt.Fprintf(&b, "  %-18s %s\n", t.Class, t.Description)
	}
	b.WriteString("\nRoles: out[:port] feeds the other gate, in[:port] is fed by it.\n")
	return b.String()
}

// Spec documents one command of the host.
type Spec struct {
	Name    string
	Usage   string
	Summary string
	Args    int
}

// Commands lists the host operations in the order help shows them.
var Commands = []Spec{
	{Name: "help", Usage: "help", Summary: "Displays this help."},
	{Name: "gate-list", Usage: "gate-list", Summary: "Lists all gates by name, one per line.", Args: 0},
	{Name: "gate-check", Usage: "gate-check <name>", Summary: "Prints nothing if name refers to a gate.", Args: 1},
	{Name: "gate-add", Usage: "gate-add <type> <name>", Summary: "Adds a new gate of the given type.", Args: 2},
	{Name: "gate-remove", Usage: "gate-remove <name>", Summary: "Removes a gate and all of its connections.", Args: 1},
	{Name: "gate-summary", Usage: "gate-summary <name>", Summary: "Gives a detailed summary of a gate.", Args: 1},
	{Name: "gate-connect", Usage: "gate-connect <a> <b> <role>", Summary: "Connects a to b; role is a's side of the edge.", Args: 3},
	{Name: "gate-disconnect", Usage: "gate-disconnect <a> <b> <role>", Summary: "Removes an edge declared with the same arguments.", Args: 3},
	{Name: "gate-get-param", Usage: "gate-get-param <name> <param>", Summary: "Gets the given parameter value.", Args: 2},
	{Name: "gate-set-param", Usage: "gate-set-param <name> <param> <value>", Summary: "Sets the given parameter value.", Args: 3},
}
