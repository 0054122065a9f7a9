package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/gensyn/pkg/domain"
)

// GraphOverlay contains highlight data to visualize on the graph.
type GraphOverlay struct {
	// Focus is drawn with the "current" style, e.g. the gate a summary was asked for.
	Focus string
	// DimUnreachable greys out gates with no path to the output gate.
	DimUnreachable bool
}

// GenerateMermaid produces a Mermaid flowchart of a patch. Shapes follow the gate kind:
// - Input: ((Circle))
// - Output: [/Parallelogram/]
// - Transform: [Rectangle]
// - Inert: [[Subroutine]]
// Edges are labelled with the ports they join. Parameters are listed under the class name.
func GenerateMermaid(snap *domain.Snapshot, types []domain.GateType, overlay *GraphOverlay) string {
	kinds := make(map[string]domain.GateKind, len(types))
	for _, t := range types {
		kinds[t.Class] = t.Kind()
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, g := range snap.Gates {
		safeID := sanitizeMermaidID(g.Name)

		opener, closer := "[", "]"
		switch kinds[g.Type] {
		case domain.KindInput:
			opener, closer = "((", "))"
		case domain.KindOutput:
			opener, closer = "[/", "/]"
		case domain.KindInert:
			opener, closer = "[[", "]]"
		}

		label := fmt.Sprintf("%s <br/> <small>%s</small>", g.Name, g.Type)
		if len(g.Params) > 0 {
			keys := make([]string, 0, len(g.Params))
			for k := range g.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				label += fmt.Sprintf(" <br/> %s=%s", k, g.Params[k])
			}
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(label), closer)
	}

	for _, c := range snap.Connections {
		arrow := "-->"
		if c.FromPort != "" || c.ToPort != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", escapeLabel(portLabel(c.Connection)))
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(c.From), arrow, sanitizeMermaidID(c.To))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef dim fill:#eeeeee,stroke:#9e9e9e,color:#757575;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		if overlay.DimUnreachable {
			live := Reachable(snap, domain.OutputGateName)
			for _, g := range snap.Gates {
				if !live[g.Name] {
					fmt.Fprintf(&sb, "    class %s dim;\n", sanitizeMermaidID(g.Name))
				}
			}
		}
		if overlay.Focus != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Focus))
		}
	}

	return sb.String()
}

// Reachable returns the set of gates with a directed path into sink, sink included.
func Reachable(snap *domain.Snapshot, sink string) map[string]bool {
	feeds := make(map[string][]string)
	for _, c := range snap.Connections {
		feeds[c.To] = append(feeds[c.To], c.From)
	}
	seen := map[string]bool{}
	stack := []string{sink}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, feeds[n]...)
	}
	return seen
}

func portLabel(c domain.Connection) string {
	switch {
	case c.FromPort == "":
		return c.ToPort
	case c.ToPort == "":
		return c.FromPort
	}
	return c.FromPort + " → " + c.ToPort
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, ":", "_")
	if s == "end" {
		// Reserved keyword in Mermaid flowcharts.
		s = "end_"
	}
	return s
}
