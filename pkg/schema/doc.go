// Package schema encodes and decodes engine snapshots ("patches") as JSON or YAML documents.
//
// Decoding goes through a generic document first and is strict: unknown keys, wrong
// shapes and structurally incomplete gates or connections are all reported together.
// Every decode failure wraps domain.ErrSchemaError.
//
// Basic usage:
//
//	data, err := schema.Marshal(snap, schema.FormatYAML)
//	...
//	snap, err := schema.Unmarshal(data, schema.FormatYAML)
//	if errors.Is(err, domain.ErrSchemaError) {
//	    for _, e := range schema.ValidationErrors(errors.Unwrap(err)) { ... }
//	}
//
// A document looks like:
//
//	version: 1
//	sample_rate: 44100
//	gates:
//	  - {name: output, type: GenSyn_Output}
//	  - {name: lfo, type: Simple_LFO, params: {hz: 0.25}}
//	connections:
//	  - {from: lfo, from_port: out, to: output, to_port: waveform}
package schema
