package loam

// PatchMetadata is the frontmatter (or JSON/YAML body) of a patch document in a Loam vault.
// Gates and connections are kept loose so hand-written values like `hz: 2` decode as text.
type PatchMetadata struct {
	ID          string           `json:"id" mapstructure:"id"`
	Title       string           `json:"title" mapstructure:"title"`
	Description string           `json:"description" mapstructure:"description"`
	Version     int              `json:"version" mapstructure:"version"`
	SampleRate  float64          `json:"sample_rate" mapstructure:"sample_rate"`
	Gates       []map[string]any `json:"gates" mapstructure:"gates"`
	Connections []map[string]any `json:"connections" mapstructure:"connections"`

	// General Metadata
	Tags []string `json:"tags" mapstructure:"tags"`
}

// document rebuilds the generic snapshot document understood by schema.Decode.
func (m PatchMetadata) document() map[string]any {
	gates := make([]any, 0, len(m.Gates))
	for _, g := range m.Gates {
		gates = append(gates, normalize(g))
	}
	conns := make([]any, 0, len(m.Connections))
	for _, c := range m.Connections {
		conns = append(conns, normalize(c))
	}
	return map[string]any{
		"version":     m.Version,
		"sample_rate": m.SampleRate,
		"gates":       gates,
		"connections": conns,
	}
}

// normalize converts YAML-style map[interface{}]interface{} values into string-keyed maps.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[k] = normalize(sub)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[toString(k)] = normalize(sub)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, sub := range val {
			out[i] = normalize(sub)
		}
		return out
	default:
		return v
	}
}
