package runtime

import (
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/gensyn/pkg/domain"
)

// SetParam stores a raw parameter value. Any name is accepted; names the gate type
// does not declare are kept and flagged by Summary.
func (g *Graph) SetParam(name, param, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	gt, err := g.lookup("set_param", name)
	if err != nil {
		return err
	}
	if param == "" {
		return domain.NewError("set_param", name, domain.ErrInvalidArgument, "parameter name is empty")
	}
	gt.params[param] = value
	return nil
}

// GetParam parses a parameter. Unset parameters yield the type default,
// or 0 when the type does not declare the name.
func (g *Graph) GetParam(name, param string) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	gt, err := g.lookup("get_param", name)
	if err != nil {
		return 0, err
	}
	raw, ok := gt.params[param]
	if !ok {
		return gt.defaultParam(param), nil
	}
	v, err := parseParam(raw)
	if err != nil {
		return 0, domain.NewError("get_param", name, domain.ErrParseError, "parameter %q: %q is not a number", param, raw)
	}
	return v, nil
}

// Params returns a copy of the raw parameter store of a gate.
func (g *Graph) Params(name string) (map[string]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	gt, err := g.lookup("get_param", name)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(gt.params))
	for k, v := range gt.params {
		out[k] = v
	}
	return out, nil
}

func parseParam(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

func (gt *gate) defaultParam(param string) float64 {
	if spec, ok := gt.typ.Param(param); ok {
		return spec.Default
	}
	return 0
}

// param is the evaluation-time read: malformed text falls back to the default.
func (gt *gate) param(param string) float64 {
	raw, ok := gt.params[param]
	if !ok {
		return gt.defaultParam(param)
	}
	v, err := parseParam(raw)
	if err != nil {
		return gt.defaultParam(param)
	}
	return v
}
