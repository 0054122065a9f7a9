package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/gensyn"
	"github.com/aretw0/gensyn/internal/logging"
	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/ports"
)

// MaxRenderFrames caps the block size a single /render request may ask for.
const MaxRenderFrames = 1 << 16

// Engine is the engine surface served over HTTP.
type Engine interface {
	ports.GateEngine
	Connections() []domain.Connection
	SampleRate() float64
}

// Server serves the GenSyn JSON API.
type Server struct {
	Engine   Engine
	Streams  *StreamManager
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	origins  []string
}

// Option configures the HTTP handler.
type Option func(*Server)

// WithLogger sets the logger used for failed requests.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes the registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithStreams sets the event fan-out behind /events. Wire its Hooks into the engine.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithAllowedOrigins sets the CORS allow list. The default allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:  engine,
		logger:  logging.NewNop(),
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/types", s.ListTypes)
	r.Route("/gates", func(r chi.Router) {
		r.Get("/", s.ListGates)
		r.Post("/", s.AddGate)
		r.Get("/{name}", s.GetGate)
		r.Delete("/{name}", s.RemoveGate)
		r.Get("/{name}/params/{param}", s.GetParam)
		r.Put("/{name}/params/{param}", s.SetParam)
	})
	r.Get("/connections", s.ListConnections)
	r.Post("/connections", s.Connect)
	r.Delete("/connections", s.Disconnect)
	r.Get("/state", s.SaveState)
	r.Put("/state", s.LoadState)
	r.Get("/render", s.Render)
	r.Get("/events", s.SubscribeEvents)

	return r
}

// AddGateRequest is the body of POST /gates.
type AddGateRequest struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required"`
}

// SetParamRequest is the body of PUT /gates/{name}/params/{param}.
type SetParamRequest struct {
	Value *string `json:"value" validate:"required"`
}

// ConnectRequest is the body of POST and DELETE /connections.
// Role is given from A's perspective, as at the REPL.
type ConnectRequest struct {
	A    string `json:"a" validate:"required"`
	B    string `json:"b" validate:"required"`
	Role string `json:"role" validate:"required"`
}

// GateTypeView describes a registered gate type.
type GateTypeView struct {
	Class       string   `json:"class"`
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Inputs      []string `json:"inputs"`
	Outputs     []string `json:"outputs"`
}

// GateView describes one gate instance.
type GateView struct {
	Name    string              `json:"name"`
	Class   string              `json:"class"`
	Params  map[string]string   `json:"params"`
	Inputs  []domain.Connection `json:"inputs"`
	Summary string              `json:"summary"`
}

// ParamValue is the parsed value of one parameter.
type ParamValue struct {
	Gate  string  `json:"gate"`
	Param string  `json:"param"`
	Value float64 `json:"value"`
}

// Block is one rendered block of the output waveform.
type Block struct {
	Step       uint64    `json:"step"`
	Frames     int       `json:"frames"`
	SampleRate float64   `json:"sample_rate"`
	Samples    []float32 `json:"samples"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "gensyn-http",
		"version":     strings.TrimSpace(gensyn.Version),
		"api_version": apiVersion,
	})
}

// ListTypes handles the GET /types request.
func (s *Server) ListTypes(w http.ResponseWriter, r *http.Request) {
	types := s.Engine.Types(r.Context())
	out := make([]GateTypeView, 0, len(types))
	for _, t := range types {
		out = append(out, GateTypeView{
			Class:       t.Class,
			Kind:        string(t.Kind()),
			Description: t.Description,
			Inputs:      append([]string{}, t.Inputs...),
			Outputs:     append([]string{}, t.Outputs...),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ListGates handles the GET /gates request.
func (s *Server) ListGates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.ListGates(r.Context()))
}

// AddGate handles the POST /gates request.
func (s *Server) AddGate(w http.ResponseWriter, r *http.Request) {
	body, err := decodeJSON[AddGateRequest](r)
	if err != nil {
		s.fail(w, r, "add_gate", err)
		return
	}
	if err := s.Engine.AddGate(r.Context(), body.Type, body.Name); err != nil {
		s.fail(w, r, "add_gate", err)
		return
	}
	w.Header().Set("Location", "/gates/"+body.Name)
	writeJSON(w, http.StatusCreated, body)
}

// GetGate handles the GET /gates/{name} request.
func (s *Server) GetGate(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.fail(w, r, "get_gate", err)
		return
	}
	summary, err := s.Engine.GateSummary(r.Context(), name)
	if err != nil {
		s.fail(w, r, "get_gate", err)
		return
	}
	snap, err := s.Engine.SaveState(r.Context())
	if err != nil {
		s.fail(w, r, "get_gate", err)
		return
	}

	view := GateView{Name: name, Summary: summary, Params: map[string]string{}, Inputs: []domain.Connection{}}
	for _, g := range snap.Gates {
		if g.Name == name {
			view.Class = g.Type
			for k, v := range g.Params {
				view.Params[k] = v
			}
		}
	}
	for _, c := range snap.Connections {
		if c.To == name {
			view.Inputs = append(view.Inputs, c.Connection)
		}
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveGate handles the DELETE /gates/{name} request.
func (s *Server) RemoveGate(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.fail(w, r, "remove_gate", err)
		return
	}
	if err := s.Engine.RemoveGate(r.Context(), name); err != nil {
		s.fail(w, r, "remove_gate", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetParam handles the GET /gates/{name}/params/{param} request.
func (s *Server) GetParam(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.fail(w, r, "get_param", err)
		return
	}
	param, err := pathParam(r, "param")
	if err != nil {
		s.fail(w, r, "get_param", err)
		return
	}
	v, err := s.Engine.GetParam(r.Context(), name, param)
	if err != nil {
		s.fail(w, r, "get_param", err)
		return
	}
	writeJSON(w, http.StatusOK, ParamValue{Gate: name, Param: param, Value: v})
}

// SetParam handles the PUT /gates/{name}/params/{param} request.
func (s *Server) SetParam(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.fail(w, r, "set_param", err)
		return
	}
	param, err := pathParam(r, "param")
	if err != nil {
		s.fail(w, r, "set_param", err)
		return
	}
	body, err := decodeJSON[SetParamRequest](r)
	if err != nil {
		s.fail(w, r, "set_param", err)
		return
	}
	if err := s.Engine.SetParam(r.Context(), name, param, *body.Value); err != nil {
		s.fail(w, r, "set_param", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListConnections handles the GET /connections request.
func (s *Server) ListConnections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Connections())
}

// Connect handles the POST /connections request.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	body, err := decodeJSON[ConnectRequest](r)
	if err != nil {
		s.fail(w, r, "connect", err)
		return
	}
	c, err := s.Engine.Connect(r.Context(), body.A, body.B, body.Role)
	if err != nil {
		s.fail(w, r, "connect", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Disconnect handles the DELETE /connections request.
func (s *Server) Disconnect(w http.ResponseWriter, r *http.Request) {
	body, err := decodeJSON[ConnectRequest](r)
	if err != nil {
		s.fail(w, r, "disconnect", err)
		return
	}
	c, err := s.Engine.Disconnect(r.Context(), body.A, body.B, body.Role)
	if err != nil {
		s.fail(w, r, "disconnect", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// SaveState handles the GET /state request.
func (s *Server) SaveState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Engine.SaveState(r.Context())
	if err != nil {
		s.fail(w, r, "save_state", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// LoadState handles the PUT /state request.
func (s *Server) LoadState(w http.ResponseWriter, r *http.Request) {
	snap, err := decodeJSON[domain.Snapshot](r)
	if err != nil {
		s.fail(w, r, "load_state", domain.NewError("load_state", "", domain.ErrSchemaError, "%v", err))
		return
	}
	if err := s.Engine.LoadState(r.Context(), &snap); err != nil {
		s.fail(w, r, "load_state", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Render handles the GET /render request. It evaluates without moving any render cursor.
func (s *Server) Render(w http.ResponseWriter, r *http.Request) {
	var step uint64
	frames := gensyn.DefaultBlockSize
	if err := queryParam(r, "step", &step); err != nil {
		s.fail(w, r, "render", err)
		return
	}
	if err := queryParam(r, "frames", &frames); err != nil {
		s.fail(w, r, "render", err)
		return
	}
	if frames < 1 || frames > MaxRenderFrames {
		s.fail(w, r, "render", domain.NewError("render", "", domain.ErrInvalidArgument,
			"frames must be between 1 and %d", MaxRenderFrames))
		return
	}

	out, err := s.Engine.Evaluate(r.Context(), step, frames)
	if err != nil {
		s.fail(w, r, "render", err)
		return
	}
	writeJSON(w, http.StatusOK, Block{Step: step, Frames: frames, SampleRate: s.Engine.SampleRate(), Samples: out})
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case <-keepalive.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
