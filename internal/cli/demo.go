package cli

import (
	"github.com/aretw0/gensyn/pkg/dsl"
	"github.com/aretw0/gensyn/pkg/gates"
)

// Demo builds the starter patch: a slow LFO wobbling the pitch of a sine wave.
func Demo() *dsl.Builder {
	p := dsl.New()
	p.Gate("TestInput", gates.ClassInput).Set("value", -0.8925527503477801).To("TestAdder", "input1")
	p.Gate("TestWave", gates.ClassSineWave).ToOutput()
	p.Gate("TestLFO", gates.ClassLFO).Set("max", 0.01).Set("hz", 4).To("TestAdder", "input0")
	p.Gate("TestAdder", gates.ClassAdder).To("TestWave", "pitch")
	return p
}
