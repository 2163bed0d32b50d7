package backend

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/funvibe/jmm/internal/pipeline"
	"github.com/funvibe/jmm/internal/utils"
)

// ClassFileBackend writes <OutputDir>/<ClassName>.class
type ClassFileBackend struct {
	OutputDir string
}

func NewClassFile(outputDir string) *ClassFileBackend {
	return &ClassFileBackend{OutputDir: outputDir}
}

func (b *ClassFileBackend) Name() string { return "classfile" }

func (b *ClassFileBackend) Emit(ctx *pipeline.PipelineContext) (string, error) {
	if ctx.Class == nil {
		return "", fmt.Errorf("no class to write")
	}
	path := utils.ClassFilePath(b.OutputDir, ctx.Class.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	data, err := ctx.Class.Bytes()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
