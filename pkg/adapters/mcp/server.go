package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/gensyn"
	"github.com/aretw0/gensyn/internal/logging"
	"github.com/aretw0/gensyn/internal/presentation/graph"
	"github.com/aretw0/gensyn/pkg/ports"
	"github.com/aretw0/gensyn/pkg/schema"
)

const (
	// StateURI is the resource holding the current snapshot as JSON.
	StateURI = "gensyn://state"
	// GraphURI is the resource holding a Mermaid flowchart of the current graph.
	GraphURI = "gensyn://graph"
)

// MaxRenderFrames caps the block size the render tool accepts.
const MaxRenderFrames = 4096

// RenderResponse is the structured result of the render tool.
type RenderResponse struct {
	Step       uint64    `json:"step" jsonschema_description:"The block index that was evaluated"`
	Frames     int       `json:"frames" jsonschema_description:"Number of samples in the block"`
	SampleRate float64   `json:"sample_rate" jsonschema_description:"Samples per second"`
	Peak       float64   `json:"peak" jsonschema_description:"Largest absolute sample value"`
	Samples    []float32 `json:"samples" jsonschema_description:"The output waveform"`
}

// Engine defines the interface required by the MCP server to drive a GenSyn engine.
type Engine interface {
	ports.GateEngine
	SampleRate() float64
}

// Server wraps a GenSyn Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the MCP server.
type Option func(*Server)

// WithLogger sets the logger for tool failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("gensyn-mcp", strings.TrimSpace(gensyn.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_types",
		mcp.WithDescription("List the gate types that can be instantiated, with their ports and parameters."),
	), s.handleListTypes)

	s.mcpServer.AddTool(mcp.NewTool("list_gates",
		mcp.WithDescription("List gate names in creation order."),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(strings.Join(s.engine.ListGates(ctx), "\n")), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("add_gate",
		mcp.WithDescription("Create a gate of a registered type."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Gate type class, e.g. Simple_LFO")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Unique gate name")),
	), s.stringTool("add_gate", func(ctx context.Context, args map[string]string) (string, error) {
		if err := s.engine.AddGate(ctx, args["type"], args["name"]); err != nil {
			return "", err
		}
		return fmt.Sprintf("added %s (%s)", args["name"], args["type"]), nil
	}, "type", "name"))

	s.mcpServer.AddTool(mcp.NewTool("remove_gate",
		mcp.WithDescription("Remove a gate and every edge touching it."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Gate name")),
	), s.stringTool("remove_gate", func(ctx context.Context, args map[string]string) (string, error) {
		if err := s.engine.RemoveGate(ctx, args["name"]); err != nil {
			return "", err
		}
		return "removed " + args["name"], nil
	}, "name"))

	s.mcpServer.AddTool(mcp.NewTool("gate_summary",
		mcp.WithDescription("Describe a gate: class, kind, connected ports and parameters."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Gate name")),
	), s.stringTool("gate_summary", func(ctx context.Context, args map[string]string) (string, error) {
		return s.engine.GateSummary(ctx, args["name"])
	}, "name"))

	roleDesc := mcp.Description("Role of gate a: out[:port] makes a feed b, in[:port] makes b feed a")
	s.mcpServer.AddTool(mcp.NewTool("connect",
		mcp.WithDescription("Connect two gates."),
		mcp.WithString("a", mcp.Required(), mcp.Description("Declaring gate")),
		mcp.WithString("b", mcp.Required(), mcp.Description("Other gate")),
		mcp.WithString("role", mcp.Required(), roleDesc),
	), s.stringTool("connect", func(ctx context.Context, args map[string]string) (string, error) {
		c, err := s.engine.Connect(ctx, args["a"], args["b"], args["role"])
		if err != nil {
			return "", err
		}
		return "connected " + c.String(), nil
	}, "a", "b", "role"))

	s.mcpServer.AddTool(mcp.NewTool("disconnect",
		mcp.WithDescription("Remove an edge declared with the same arguments as connect."),
		mcp.WithString("a", mcp.Required(), mcp.Description("Declaring gate")),
		mcp.WithString("b", mcp.Required(), mcp.Description("Other gate")),
		mcp.WithString("role", mcp.Required(), roleDesc),
	), s.stringTool("disconnect", func(ctx context.Context, args map[string]string) (string, error) {
		c, err := s.engine.Disconnect(ctx, args["a"], args["b"], args["role"])
		if err != nil {
			return "", err
		}
		return "disconnected " + c.String(), nil
	}, "a", "b", "role"))

	s.mcpServer.AddTool(mcp.NewTool("set_param",
		mcp.WithDescription("Store a parameter value on a gate. Values are kept as raw text."),
		mcp.WithString("gate", mcp.Required(), mcp.Description("Gate name")),
		mcp.WithString("param", mcp.Required(), mcp.Description("Parameter name")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Decimal value, e.g. 0.5")),
	), s.stringTool("set_param", func(ctx context.Context, args map[string]string) (string, error) {
		if err := s.engine.SetParam(ctx, args["gate"], args["param"], args["value"]); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.%s = %s", args["gate"], args["param"], args["value"]), nil
	}, "gate", "param", "value"))

	s.mcpServer.AddTool(mcp.NewTool("get_param",
		mcp.WithDescription("Read a parameter as a number, falling back to the type default."),
		mcp.WithString("gate", mcp.Required(), mcp.Description("Gate name")),
		mcp.WithString("param", mcp.Required(), mcp.Description("Parameter name")),
	), s.stringTool("get_param", func(ctx context.Context, args map[string]string) (string, error) {
		v, err := s.engine.GetParam(ctx, args["gate"], args["param"])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%f", v), nil
	}, "gate", "param"))

	s.mcpServer.AddTool(mcp.NewTool("render",
		mcp.WithDescription("Evaluate one block of the output waveform."),
		mcp.WithNumber("step", mcp.Description("Block index (default 0)")),
		mcp.WithNumber("frames", mcp.Description("Samples per block (default 256)")),
		mcp.WithOutputSchema[RenderResponse](),
	), mcp.NewStructuredToolHandler(s.handleRender))

	s.mcpServer.AddTool(mcp.NewTool("load_state",
		mcp.WithDescription("Replace the whole graph with a snapshot document (JSON or YAML)."),
		mcp.WithString("snapshot", mcp.Required(), mcp.Description("Snapshot document")),
	), s.stringTool("load_state", func(ctx context.Context, args map[string]string) (string, error) {
		doc := args["snapshot"]
		format := schema.FormatYAML
		if strings.HasPrefix(strings.TrimSpace(doc), "{") {
			format = schema.FormatJSON
		}
		snap, err := schema.Unmarshal([]byte(doc), format)
		if err != nil {
			return "", err
		}
		if err := s.engine.LoadState(ctx, snap); err != nil {
			return "", err
		}
		return fmt.Sprintf("loaded %d gates, %d connections", len(snap.Gates), len(snap.Connections)), nil
	}, "snapshot"))
}

// stringTool adapts an engine call taking required string arguments into a tool handler.
// Engine failures become tool errors so the model can read and correct them.
func (s *Server) stringTool(op string, fn func(context.Context, map[string]string) (string, error), keys ...string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := make(map[string]string, len(keys))
		for _, k := range keys {
			v, err := request.RequireString(k)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			args[k] = v
		}
		out, err := fn(ctx, args)
		if err != nil {
			s.logger.Warn("MCP tool failed", "tool", op, "err", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func (s *Server) handleListTypes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type param struct {
		Name    string  `json:"name"`
		Default float64 `json:"default"`
	}
	type view struct {
		Class       string   `json:"class"`
		Kind        string   `json:"kind"`
		Description string   `json:"description"`
		Inputs      []string `json:"inputs"`
		Outputs     []string `json:"outputs"`
		Params      []param  `json:"params"`
	}
	var out []view
	for _, t := range s.engine.Types(ctx) {
		v := view{Class: t.Class, Kind: string(t.Kind()), Description: t.Description, Inputs: t.Inputs, Outputs: t.Outputs}
		for _, p := range t.Params {
			v.Params = append(v.Params, param{Name: p.Name, Default: p.Default})
		}
		out = append(out, v)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleRender(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (RenderResponse, error) {
	step, _, err := wholeArg(args, "step", 0, maxExactStep)
	if err != nil {
		return RenderResponse{}, err
	}
	frames := gensyn.DefaultBlockSize
	if v, ok, err := wholeArg(args, "frames", 1, MaxRenderFrames); err != nil {
		return RenderResponse{}, err
	} else if ok {
		frames = int(v)
	}

	out, err := s.engine.Evaluate(ctx, uint64(step), frames)
	if err != nil {
		s.logger.Warn("MCP render failed", "step", step, "err", err)
		return RenderResponse{}, fmt.Errorf("render failed: %w", err)
	}
	var peak float64
	for _, v := range out {
		a := float64(v)
		if a < 0 {
			a = -a
		}
		peak = max(peak, a)
	}
	return RenderResponse{Step: uint64(step), Frames: frames, SampleRate: s.engine.SampleRate(), Peak: peak, Samples: out}, nil
}

// maxExactStep is the largest step a JSON number carries without rounding.
const maxExactStep = 1 << 53

// wholeArg reads an optional integer argument in [lo, hi]. JSON numbers arrive
// as float64, so range and integrality are checked before converting.
func wholeArg(args map[string]any, key string, lo, hi float64) (float64, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	v, isNum := raw.(float64)
	if !isNum || math.IsNaN(v) || v != math.Trunc(v) || v < lo || v > hi {
		return 0, false, fmt.Errorf("%s must be an integer between %d and %d", key, int64(lo), int64(hi))
	}
	return v, true, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StateURI, "Current Patch Snapshot",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		snap, err := s.engine.SaveState(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot graph: %w", err)
		}
		data, err := schema.Marshal(snap, schema.FormatJSON)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: StateURI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Current Gate Graph (Mermaid)",
		mcp.WithMIMEType("text/vnd.mermaid"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		snap, err := s.engine.SaveState(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot graph: %w", err)
		}
		chart := graph.GenerateMermaid(snap, s.engine.Types(ctx), &graph.GraphOverlay{DimUnreachable: true})
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: GraphURI, MIMEType: "text/vnd.mermaid", Text: chart},
		}, nil
	})
}
