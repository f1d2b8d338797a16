// Package transform provides the reference Transformer: an ordered chain of
// text stages applied to every source file.
package transform

import (
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Transformer = (*Pipeline)(nil)

// Stage is one step of a Pipeline. Implementations must be deterministic.
type Stage interface {
	Transform(source, id string) string
}

// Pipeline applies its stages in order, feeding each the previous output.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a Pipeline running stages in the given order.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Default returns the standard pipeline: line ending normalisation followed by
// the banner. An empty banner omits the banner stage.
func Default(banner string) *Pipeline {
	stages := []Stage{EOL{}}
	if banner != "" {
		stages = append(stages, Banner{Text: banner})
	}
	return NewPipeline(stages...)
}

// Transform runs source through every stage.
func (p *Pipeline) Transform(source, id string) string {
	out := source
	for _, stage := range p.stages {
		out = stage.Transform(out, id)
	}
	return out
}
