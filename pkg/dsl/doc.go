/*
Package dsl provides a Go DSL for programmatically constructing GenSyn patches.

It is a fluent alternative to writing snapshot documents by hand. The builder
produces a domain.Snapshot, so anything it builds can be loaded into an engine,
saved to a patch store or encoded as YAML.

Example usage:

	p := dsl.New()

	p.Gate("lfo", gates.ClassLFO).Set("hz", 2).To("osc", "velocity")
	p.Gate("pitch", gates.ClassInput).Set("value", 0.5).To("osc", "pitch")
	p.Gate("osc", gates.ClassSineWave).To("amp", "")
	p.Gate("amp", gates.ClassAmplifier).Set("volume", 0.8).ToOutput()

	if err := p.Apply(ctx, engine); err != nil {
		log.Fatal(err)
	}
*/
package dsl
