// Package backend writes a compiled class out: as a class file on disk or
// as a readable listing of its main method.
package backend

import (
	"github.com/funvibe/jmm/internal/pipeline"
)

// Backend is the interface for output backends
type Backend interface {
	// Emit writes the class held by the pipeline context and returns
	// where it went, or "" for stream outputs
	Emit(ctx *pipeline.PipelineContext) (string, error)

	// Name returns the backend name for display
	Name() string
}
