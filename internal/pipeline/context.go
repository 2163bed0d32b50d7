package pipeline

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/bytecode"
	"github.com/funvibe/jmm/internal/classfile"
	"github.com/funvibe/jmm/internal/config"
	"github.com/funvibe/jmm/internal/diagnostics"
	"github.com/funvibe/jmm/internal/symbols"
	"github.com/funvibe/jmm/internal/token"
	"github.com/funvibe/jmm/internal/utils"
)

// Processor is one stage of the compiler.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// TokenStream is what the parser pulls tokens from.
type TokenStream interface {
	NextToken() token.Token
}

// PipelineContext carries one compilation unit through the stages.
type PipelineContext struct {
	FilePath   string
	SourceCode string

	// BuildID tags every log line of this compilation.
	BuildID uuid.UUID
	Config  *config.Config
	Logger  zerolog.Logger
	Sink    *diagnostics.Sink

	TokenStream TokenStream
	AstRoot     *ast.Program
	SymbolTable *symbols.SymbolTable
	Code        *bytecode.CodeBuffer
	Class       *classfile.Class

	// OutputPath is set by the backend that wrote the result.
	OutputPath string
}

func NewPipelineContext(filePath, sourceCode string, cfg *config.Config, logger zerolog.Logger) *PipelineContext {
	if cfg == nil {
		cfg = config.Default()
	}
	id := uuid.New()
	return &PipelineContext{
		FilePath:   filePath,
		SourceCode: sourceCode,
		BuildID:    id,
		Config:     cfg,
		Logger:     logger.With().Str("build", id.String()).Str("file", filePath).Logger(),
		Sink:       diagnostics.NewSink(filePath),
	}
}

func (ctx *PipelineContext) HasErrors() bool {
	return ctx.Sink.HasErrors()
}

func (ctx *PipelineContext) Errors() []*diagnostics.DiagnosticError {
	return ctx.Sink.Errors()
}

// DefaultClassName derives a class name from the source file name, for
// sources that are a bare statement list.
func (ctx *PipelineContext) DefaultClassName() string {
	return utils.ClassNameFromPath(ctx.FilePath)
}
