package utils

import (
	"path/filepath"
	"strings"

	"github.com/funvibe/jmm/internal/config"
)

// TrimSourceExt removes a recognized source extension from name.
func TrimSourceExt(name string) string {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// ClassNameFromPath derives a class name from a source file path: the
// base name without its extension, with every character that cannot
// appear in an identifier replaced by '_'.
func ClassNameFromPath(path string) string {
	base := TrimSourceExt(filepath.Base(path))
	if base == "." || base == "" || base == string(filepath.Separator) {
		return "Main"
	}
	var sb strings.Builder
	for i, r := range base {
		switch {
		case r == '_' || r == '$' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z'):
			sb.WriteRune(r)
		case '0' <= r && r <= '9' && i > 0:
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// ClassFilePath returns where the class file for className goes under
// outputDir.
func ClassFilePath(outputDir, className string) string {
	if outputDir == "" {
		outputDir = "."
	}
	return filepath.Join(outputDir, className+config.ClassFileExt)
}
