package backend

import (
	"path/filepath"

	"github.com/funvibe/jmm/internal/classfile"
	"github.com/funvibe/jmm/internal/config"
	"github.com/funvibe/jmm/internal/diagnostics"
	"github.com/funvibe/jmm/internal/pipeline"
)

// ClassWriterProcessor wraps the generated code of main into a class with
// a default constructor.
type ClassWriterProcessor struct{}

func (p *ClassWriterProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.Code == nil || ctx.HasErrors() {
		return ctx
	}

	class := classfile.New(ctx.AstRoot.ClassName, ctx.Config.ClassVersion, ctx.Code.Pool)
	if ctx.FilePath != "" {
		class.SourceFile = filepath.Base(ctx.FilePath)
	}
	if err := class.AddDefaultConstructor(); err != nil {
		ctx.Sink.Report(diagnostics.ErrC001, 0, "%v", err)
		return ctx
	}
	class.AddMethod(&classfile.Method{
		AccessFlags: classfile.AccPublic | classfile.AccStatic,
		Name:        config.MainMethodName,
		Descriptor:  config.MainMethodDescriptor,
		Code:        ctx.Code,
		MaxLocals:   ctx.AstRoot.MaxLocals,
	})
	ctx.Class = class
	return ctx
}

// EmitProcessor implements pipeline.Processor to run a Backend
type EmitProcessor struct {
	Backend Backend
}

// NewEmitProcessor creates a new pipeline step for the given backend
func NewEmitProcessor(b Backend) *EmitProcessor {
	return &EmitProcessor{Backend: b}
}

func (p *EmitProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, there is nothing to write
	if ctx.Code == nil || ctx.HasErrors() {
		return ctx
	}

	path, err := p.Backend.Emit(ctx)
	if err != nil {
		ctx.Sink.Report(diagnostics.ErrR001, 0, "%s: %v", p.Backend.Name(), err)
		return ctx
	}
	ctx.OutputPath = path
	if path != "" {
		ctx.Logger.Info().Str("backend", p.Backend.Name()).Str("output", path).Msg("class written")
	}
	return ctx
}
