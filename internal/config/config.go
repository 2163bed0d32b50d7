package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the jmm.yaml compiler configuration.
// Every field is optional; CLI flags take precedence over the file.
type Config struct {
	// OutputDir is where class files are written. Relative paths are
	// resolved against the directory holding jmm.yaml.
	OutputDir string `yaml:"output_dir,omitempty"`

	// ClassVersion is the class file major version to emit.
	ClassVersion int `yaml:"class_version,omitempty"`

	// Color controls ANSI coloring of diagnostics: auto, always or never.
	Color string `yaml:"color,omitempty"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`

	// DumpFormat is the default format of the ast command: text or json.
	DumpFormat string `yaml:"dump_format,omitempty"`
}

// Default returns the configuration used when no jmm.yaml is present.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a jmm.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDir = filepath.Join(filepath.Dir(path), cfg.OutputDir)
	}
	return cfg, nil
}

// ParseConfig parses jmm.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// FindConfig looks for jmm.yaml in dir. Unlike source lookup it does not
// walk up: a configuration applies to the sources next to it.
// Returns "" and nil error when there is none.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// Validate checks the configuration for semantic errors.
func (c *Config) Validate() error {
	if c.ClassVersion < MinClassVersion || c.ClassVersion > MaxClassVersion {
		return fmt.Errorf("class_version %d out of range [%d, %d]", c.ClassVersion, MinClassVersion, MaxClassVersion)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be one of auto, always, never (got %q)", c.Color)
	}
	switch c.DumpFormat {
	case DumpText, DumpJSON:
	default:
		return fmt.Errorf("dump_format must be text or json (got %q)", c.DumpFormat)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.ClassVersion == 0 {
		c.ClassVersion = DefaultClassVersion
	}
	if c.Color == "" {
		c.Color = ColorAuto
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.DumpFormat == "" {
		c.DumpFormat = DumpText
	}
}
