package parser

import (
	"github.com/funvibe/jmm/internal/diagnostics"
	"github.com/funvibe/jmm/internal/pipeline"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		// The lexer stage did not run
		ctx.Sink.Report(diagnostics.ErrP000, 0, "parser: token stream is nil")
		return ctx
	}

	parser := New(ctx.TokenStream, ctx.Sink)
	ctx.AstRoot = parser.ParseProgram(ctx.DefaultClassName())
	ctx.AstRoot.File = ctx.FilePath

	return ctx
}
