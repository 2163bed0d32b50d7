package lexer

import (
	"github.com/funvibe/jmm/internal/pipeline"
)

// LexerProcessor installs a Scanner over the source as the token stream.
// Tokens are produced lazily, as the parser asks for them.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.TokenStream = New(ctx.FilePath, ctx.SourceCode, ctx.Sink)
	return ctx
}
