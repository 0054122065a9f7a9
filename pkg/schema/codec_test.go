package schema_test

import (
	"errors"
	"testing"

	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *domain.Snapshot {
	return &domain.Snapshot{
		Version:    domain.SnapshotVersion,
		SampleRate: 44100,
		Gates: []domain.GateState{
			{Name: "output", Type: domain.OutputGateClass},
			{Name: "lfo", Type: "Simple_LFO", Params: map[string]string{"hz": "0.25"}},
		},
		Connections: []domain.ConnectionState{
			{Connection: domain.Connection{From: "lfo", FromPort: "out", To: "output", ToPort: "waveform"}, Role: "out:waveform"},
		},
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	for _, format := range []schema.Format{schema.FormatJSON, schema.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := schema.Marshal(sample(), format)
			require.NoError(t, err)

			got, err := schema.Unmarshal(data, format)
			require.NoError(t, err)
			assert.Equal(t, sample(), got)
		})
	}
}

func TestMarshal_FlattensConnections(t *testing.T) {
	data, err := schema.Marshal(sample(), schema.FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "from: lfo")
	assert.NotContains(t, string(data), "connection:")

	data, err = schema.Marshal(sample(), schema.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"from": "lfo"`)
}

func TestUnmarshal_HandWrittenYAML(t *testing.T) {
	doc := `
gates:
  - {name: output, type: GenSyn_Output}
  - name: amp
    type: Simple_Amplifier
    params:
      volume: 0.5
      steps: 3
connections:
  - {from: amp, to: output}
`
	snap, err := schema.Unmarshal([]byte(doc), schema.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"output", "amp"}, snap.GateNames())
	assert.Equal(t, map[string]string{"volume": "0.5", "steps": "3"}, snap.Gates[1].Params)
	assert.Equal(t, "amp", snap.Connections[0].From)
}

func TestUnmarshal_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format schema.Format
	}{
		{"syntax", `{"gates": [`, schema.FormatJSON},
		{"empty", ``, schema.FormatYAML},
		{"unknown key", `{"gates": [], "colour": "red"}`, schema.FormatJSON},
		{"unknown gate key", "gates:\n  - {name: a, type: T, wires: 2}\n", schema.FormatYAML},
		{"wrong shape", `{"gates": "lots"}`, schema.FormatJSON},
		{"missing type", "gates:\n  - {name: a}\n", schema.FormatYAML},
		{"duplicate gate", "gates:\n  - {name: a, type: T}\n  - {name: a, type: T}\n", schema.FormatYAML},
		{"bad role", `{"connections": [{"from": "a", "to": "b", "role": "up"}]}`, schema.FormatJSON},
		{"version", `{"version": 7}`, schema.FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Unmarshal([]byte(tt.doc), tt.format)
			assert.ErrorIs(t, err, domain.ErrSchemaError)
		})
	}
}

func TestValidate_Aggregates(t *testing.T) {
	err := schema.Validate(&domain.Snapshot{
		Gates:       []domain.GateState{{}},
		Connections: []domain.ConnectionState{{}},
	})
	require.Error(t, err)

	errs := schema.ValidationErrors(err)
	require.Len(t, errs, 4)

	var verr *schema.ValidationError
	require.True(t, errors.As(errs[0], &verr))
	assert.Equal(t, "gates[0].name", verr.Key)
	assert.Contains(t, err.Error(), "4 validation errors")
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, schema.FormatJSON, schema.FormatFromPath("a/b.JSON"))
	assert.Equal(t, schema.FormatYAML, schema.FormatFromPath("patch.yml"))
	assert.Equal(t, ".yaml", schema.FormatYAML.Ext())

	f, err := schema.ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, schema.FormatYAML, f)
	_, err = schema.ParseFormat("toml")
	assert.Error(t, err)
}
