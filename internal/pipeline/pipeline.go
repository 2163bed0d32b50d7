package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages keep running after errors so every
// stage can contribute diagnostics; each stage decides whether its input is
// usable.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		start := time.Now()
		before := ctx.Sink.Len()
		ctx = processor.Process(ctx)
		ctx.Logger.Debug().
			Str("step", stepName(processor)).
			Dur("took", time.Since(start)).
			Int("new_errors", ctx.Sink.Len()-before).
			Msg("pipeline step finished")
	}
	return ctx
}

func stepName(p Processor) string {
	name := fmt.Sprintf("%T", p)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "Processor")
}
