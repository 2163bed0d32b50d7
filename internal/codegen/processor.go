package codegen

import (
	"errors"

	"github.com/funvibe/jmm/internal/bytecode"
	"github.com/funvibe/jmm/internal/diagnostics"
	"github.com/funvibe/jmm/internal/pipeline"
)

type CodegenProcessor struct{}

// Process generates the body of main. It only runs on programs that
// passed analysis.
func (cp *CodegenProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.HasErrors() {
		return ctx
	}

	code := bytecode.NewCodeBuffer(bytecode.NewConstantPool())
	if err := NewCompiler(code).Compile(ctx.AstRoot); err != nil {
		var cerr *Error
		if errors.As(err, &cerr) {
			ctx.Sink.Report(diagnostics.ErrC001, cerr.Line, "%s", cerr.Msg)
		} else {
			ctx.Sink.Report(diagnostics.ErrC001, 0, "%v", err)
		}
		return ctx
	}
	if err := code.Finish(); err != nil {
		ctx.Sink.Report(diagnostics.ErrC001, 0, "%v", err)
		return ctx
	}

	ctx.Code = code
	ctx.Logger.Debug().
		Int("code_length", code.Len()).
		Int("max_stack", code.MaxStack()).
		Int("constants", code.Pool.Count()).
		Msg("code generated")
	return ctx
}
