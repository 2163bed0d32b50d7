package analyzer

import (
	"github.com/funvibe/jmm/internal/pipeline"
	"github.com/funvibe/jmm/internal/symbols"
)

type SemanticAnalyzerProcessor struct{}

// Process analyzes the parsed program. Slot 0 of main holds its String[]
// parameter, so locals start at slot 1.
func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}

	ctx.SymbolTable = symbols.NewSymbolTable(1)
	analyzer := New(ctx.SymbolTable, ctx.Sink)
	analyzer.Analyze(ctx.AstRoot)

	ctx.Logger.Debug().
		Int("max_locals", ctx.AstRoot.MaxLocals).
		Int("statements", len(ctx.AstRoot.Statements)).
		Msg("analysis finished")
	return ctx
}
