package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/gensyn/internal/presentation/graph"
	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/gates"
)

func tremolo() *domain.Snapshot {
	return &domain.Snapshot{
		Version: 1,
		Gates: []domain.GateState{
			{Name: "output", Type: gates.ClassOutput},
			{Name: "lfo", Type: gates.ClassLFO, Params: map[string]string{"max": "0.5", "hz": "4"}},
			{Name: "amp-1", Type: gates.ClassAmplifier},
			{Name: "stray", Type: gates.ClassInput},
		},
		Connections: []domain.ConnectionState{
			{Connection: domain.Connection{From: "lfo", FromPort: "out", To: "amp-1", ToPort: "input"}},
			{Connection: domain.Connection{From: "amp-1", FromPort: "out", To: "output", ToPort: "waveform"}},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes By Kind",
			contains: []string{
				"graph LR",
				`lfo(("lfo <br/> <small>Simple_LFO</small> <br/> hz=4 <br/> max=0.5"))`,
				`output[/"output <br/> <small>GenSyn_Output</small>"/]`,
				`amp_1["amp-1 <br/> <small>Simple_Amplifier</small>"]`,
			},
		},
		{
			name: "Port Labels",
			contains: []string{
				`lfo -- "out → input" --> amp_1`,
				`amp_1 -- "out → waveform" --> output`,
			},
		},
		{
			name:     "No Overlay",
			excludes: []string{"classDef"},
		},
		{
			name:    "Overlay",
			overlay: &graph.GraphOverlay{Focus: "lfo", DimUnreachable: true},
			contains: []string{
				"class stray dim;",
				"class lfo current;",
			},
			excludes: []string{"class output dim;", "class amp_1 dim;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tremolo(), gates.Catalog(), tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.excludes {
				assert.False(t, strings.Contains(got, bad), "unexpected %q", bad)
			}
		})
	}
}

func TestReachable(t *testing.T) {
	live := graph.Reachable(tremolo(), domain.OutputGateName)
	assert.True(t, live["output"])
	assert.True(t, live["lfo"])
	assert.False(t, live["stray"])
}
