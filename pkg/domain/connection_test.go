package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		tag  string
		want Role
	}{
		{tag: "out", want: Role{Direction: DirectionOut}},
		{tag: "source", want: Role{Direction: DirectionOut}},
		{tag: "in", want: Role{Direction: DirectionIn}},
		{tag: "sink", want: Role{Direction: DirectionIn}},
		{tag: "out:pitch", want: Role{Direction: DirectionOut, Port: "pitch"}},
		{tag: " in:waveform ", want: Role{Direction: DirectionIn, Port: "waveform"}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseRole(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRole_Invalid(t *testing.T) {
	for _, tag := range []string{"", "input0", "both", "out:", "sideways:pitch"} {
		t.Run(tag, func(t *testing.T) {
			_, err := ParseRole(tag)
			assert.ErrorIs(t, err, ErrInvalidRole)
		})
	}
}

func TestConnection_SourceRole(t *testing.T) {
	c := Connection{From: "lfo", FromPort: "out", To: "mix", ToPort: "input0"}
	assert.Equal(t, "out:input0", c.SourceRole())
	assert.Equal(t, "lfo.out -> mix.input0", c.String())
	assert.True(t, c.Touches("mix"))
	assert.False(t, c.Touches("output"))
}

func TestGateError(t *testing.T) {
	err := NewError("add", "osc", ErrDuplicateName, "gate already registered")

	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, `add "osc": duplicate name: gate already registered`, err.Error())
	assert.Equal(t, ErrDuplicateName, KindOf(err))

	wrapped := errors.Join(errors.New("context"), err)
	assert.Equal(t, ErrDuplicateName, KindOf(wrapped))
	assert.Nil(t, KindOf(errors.New("plain")))
}

func TestGateType_Kind(t *testing.T) {
	assert.Equal(t, KindInput, GateType{Outputs: []string{"out"}}.Kind())
	assert.Equal(t, KindOutput, GateType{Inputs: []string{"waveform"}}.Kind())
	assert.Equal(t, KindTransform, GateType{Inputs: []string{"in"}, Outputs: []string{"out"}}.Kind())
	assert.Equal(t, KindInert, GateType{}.Kind())
}
