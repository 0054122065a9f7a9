package runtime

import (
	"github.com/aretw0/gensyn/pkg/domain"
)

// Evaluate computes one block of the waveform arriving at the output gate.
// Frames are numbered from step*frames, so the same graph, parameters and step
// always produce the same samples.
func (g *Graph) Evaluate(step uint64, frames int) ([]float32, error) {
	if frames <= 0 {
		return nil, domain.NewError("evaluate", domain.OutputGateName, domain.ErrInvalidArgument, "frames must be positive, got %d", frames)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, err := g.lookup("evaluate", domain.OutputGateName); err != nil {
		return nil, err
	}
	p := &pass{
		graph:  g,
		step:   step,
		frames: frames,
		cache:  make(map[string][]float32, len(g.gates)),
	}
	out := p.pull(domain.OutputGateName)

	result := make([]float32, frames)
	copy(result, out)
	return result, nil
}

// pass is a single evaluation; its cache is keyed by gate name and lives for one block.
type pass struct {
	graph  *Graph
	step   uint64
	frames int
	cache  map[string][]float32
}

func (p *pass) pull(name string) []float32 {
	if buf, ok := p.cache[name]; ok {
		return buf
	}
	gt := p.graph.gates[name]

	inputs := make([][]float32, len(gt.typ.Inputs))
	for i, port := range gt.typ.Inputs {
		if e, ok := p.graph.inbound[name][port]; ok {
			inputs[i] = p.pull(e.From)
		}
	}

	out := make([]float32, p.frames)
	if gt.typ.Process == nil {
		for _, in := range inputs {
			if in != nil {
				copy(out, in)
				break
			}
		}
	} else {
		gt.typ.Process(domain.ProcessContext{
			SampleRate: p.graph.sampleRate,
			Step:       p.step,
			Frame0:     p.step * uint64(p.frames),
			Param:      gt.param,
		}, inputs, out)
	}

	p.cache[name] = out
	return out
}
