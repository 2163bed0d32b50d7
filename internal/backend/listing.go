package backend

import (
	"fmt"
	"io"

	"github.com/funvibe/jmm/internal/bytecode"
	"github.com/funvibe/jmm/internal/config"
	"github.com/funvibe/jmm/internal/pipeline"
)

// ListingBackend prints the disassembled body of main instead of writing
// a class file.
type ListingBackend struct {
	Out io.Writer
}

func NewListing(out io.Writer) *ListingBackend {
	return &ListingBackend{Out: out}
}

func (b *ListingBackend) Name() string { return "listing" }

func (b *ListingBackend) Emit(ctx *pipeline.PipelineContext) (string, error) {
	if ctx.Code == nil {
		return "", fmt.Errorf("no code to list")
	}
	name := config.MainMethodName
	if ctx.AstRoot != nil {
		name = ctx.AstRoot.ClassName + "." + name
	}
	if _, err := io.WriteString(b.Out, bytecode.Disassemble(ctx.Code, name)); err != nil {
		return "", err
	}
	return "", nil
}
