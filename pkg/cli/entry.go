// Package cli implements the jmmc command line: compiling a source file to
// a class file, and the tokens, ast and disasm inspection commands.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/funvibe/jmm/internal/analyzer"
	"github.com/funvibe/jmm/internal/backend"
	"github.com/funvibe/jmm/internal/codegen"
	"github.com/funvibe/jmm/internal/config"
	"github.com/funvibe/jmm/internal/diagnostics"
	"github.com/funvibe/jmm/internal/lexer"
	"github.com/funvibe/jmm/internal/parser"
	"github.com/funvibe/jmm/internal/pipeline"
	"github.com/funvibe/jmm/internal/prettyprinter"
	"github.com/funvibe/jmm/internal/token"
)

// Exit statuses
const (
	ExitOK     = 0
	ExitErrors = 1 // diagnostics were reported
	ExitUsage  = 2
)

const usage = `Usage:
  jmmc [-o dir] [-target N] [-color auto|always|never] [-v] <file.java>
  jmmc tokens [-v] <file.java>
  jmmc ast [-format text|json] [-v] <file.java>
  jmmc disasm [-target N] [-v] <file.java>
  jmmc help
`

var errUsage = errors.New("usage")

// session is one command invocation over one source file.
type session struct {
	stdout, stderr io.Writer
	cfg            *config.Config
	ctx            *pipeline.PipelineContext
}

// Run executes jmmc with args, which exclude the program name, and
// returns the exit status.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "tokens":
			return handleTokens(args[1:], stdout, stderr)
		case "ast":
			return handleAST(args[1:], stdout, stderr)
		case "disasm":
			return handleDisasm(args[1:], stdout, stderr)
		case "help", "-h", "-help", "--help":
			fmt.Fprint(stdout, usage)
			return ExitOK
		}
	}
	return handleCompile(args, stdout, stderr)
}

// flags are the options shared by every command. Only flags given on the
// command line override jmm.yaml.
type flags struct {
	fs      *flag.FlagSet
	output  string
	target  int
	color   string
	format  string
	verbose bool
}

func newFlags(name string, stderr io.Writer) *flags {
	f := &flags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	f.fs.SetOutput(stderr)
	f.fs.Usage = func() { fmt.Fprint(stderr, usage) }
	f.fs.StringVar(&f.color, "color", config.ColorAuto, "color diagnostics: auto, always or never")
	f.fs.BoolVar(&f.verbose, "v", false, "log every compiler step")
	return f
}

// parse parses args and returns the single source file they name.
func (f *flags) parse(args []string) (string, error) {
	if err := f.fs.Parse(args); err != nil {
		return "", errUsage
	}
	if f.fs.NArg() != 1 {
		f.fs.Usage()
		return "", errUsage
	}
	return f.fs.Arg(0), nil
}

func (f *flags) apply(cfg *config.Config) error {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "o":
			cfg.OutputDir = f.output
		case "target":
			cfg.ClassVersion = f.target
		case "color":
			cfg.Color = f.color
		case "format":
			cfg.DumpFormat = f.format
		}
	})
	if f.verbose {
		cfg.LogLevel = zerolog.LevelDebugValue
	}
	return cfg.Validate()
}

// start loads the configuration next to path, applies the command line
// and reads the source.
func start(f *flags, path string, stdout, stderr io.Writer) (*session, int) {
	cfg, err := loadConfig(path)
	if err == nil {
		err = f.apply(cfg)
	}
	if err != nil {
		fmt.Fprintf(stderr, "jmmc: %v\n", err)
		return nil, ExitUsage
	}

	s := &session{stdout: stdout, stderr: stderr, cfg: cfg}
	source, err := os.ReadFile(path)
	s.ctx = pipeline.NewPipelineContext(path, string(source), cfg, newLogger(stderr, cfg))
	if err != nil {
		s.ctx.Sink.Report(diagnostics.ErrR001, 0, "cannot read source: %v", err)
		return s, s.finish()
	}
	return s, ExitOK
}

func loadConfig(path string) (*config.Config, error) {
	cfgPath, err := config.FindConfig(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(cfgPath)
}

func newLogger(w io.Writer, cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: cfg.Color != config.ColorAlways}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// finish prints the collected diagnostics and picks the exit status.
func (s *session) finish() int {
	if !s.ctx.HasErrors() {
		return ExitOK
	}
	if err := diagnostics.NewPrinter(s.stderr, s.cfg.Color).Print(s.ctx.Errors()); err != nil {
		fmt.Fprintf(s.stderr, "jmmc: %v\n", err)
	}
	return ExitErrors
}

// frontEnd is scanning, parsing and analysis.
func frontEnd() []pipeline.Processor {
	return []pipeline.Processor{
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	}
}

func compilePipeline(b backend.Backend) *pipeline.Pipeline {
	steps := append(frontEnd(),
		&codegen.CodegenProcessor{},
		&backend.ClassWriterProcessor{},
		backend.NewEmitProcessor(b),
	)
	return pipeline.New(steps...)
}

func handleCompile(args []string, stdout, stderr io.Writer) int {
	f := newFlags("jmmc", stderr)
	f.fs.StringVar(&f.output, "o", ".", "output directory for class files")
	f.fs.IntVar(&f.target, "target", config.DefaultClassVersion, "class file major version")
	path, err := f.parse(args)
	if err != nil {
		return ExitUsage
	}
	s, status := start(f, path, stdout, stderr)
	if s == nil || status != ExitOK {
		return status
	}

	s.ctx = compilePipeline(backend.NewClassFile(s.cfg.OutputDir)).Run(s.ctx)
	return s.finish()
}

func handleTokens(args []string, stdout, stderr io.Writer) int {
	f := newFlags("tokens", stderr)
	path, err := f.parse(args)
	if err != nil {
		return ExitUsage
	}
	s, status := start(f, path, stdout, stderr)
	if s == nil || status != ExitOK {
		return status
	}

	s.ctx = pipeline.New(&lexer.LexerProcessor{}).Run(s.ctx)
	for {
		tok := s.ctx.TokenStream.NextToken()
		if tok.Type == token.EOF {
			break
		}
		if tok.Type == token.IDENT || token.IsLiteral(tok.Type) {
			fmt.Fprintf(stdout, "%d %s %s\n", tok.Line, tok.Type, tok.Lexeme)
		} else {
			fmt.Fprintf(stdout, "%d %s\n", tok.Line, tok.Type)
		}
	}
	return s.finish()
}

func handleAST(args []string, stdout, stderr io.Writer) int {
	f := newFlags("ast", stderr)
	f.fs.StringVar(&f.format, "format", config.DumpText, "dump format: text or json")
	path, err := f.parse(args)
	if err != nil {
		return ExitUsage
	}
	s, status := start(f, path, stdout, stderr)
	if s == nil || status != ExitOK {
		return status
	}

	s.ctx = pipeline.New(frontEnd()...).Run(s.ctx)
	if s.ctx.AstRoot != nil {
		out, err := prettyprinter.Format(s.ctx.AstRoot, s.cfg.DumpFormat)
		if err != nil {
			fmt.Fprintf(stderr, "jmmc: %v\n", err)
			return ExitUsage
		}
		stdout.Write(out)
	}
	return s.finish()
}

func handleDisasm(args []string, stdout, stderr io.Writer) int {
	f := newFlags("disasm", stderr)
	f.fs.IntVar(&f.target, "target", config.DefaultClassVersion, "class file major version")
	path, err := f.parse(args)
	if err != nil {
		return ExitUsage
	}
	s, status := start(f, path, stdout, stderr)
	if s == nil || status != ExitOK {
		return status
	}

	s.ctx = compilePipeline(backend.NewListing(stdout)).Run(s.ctx)
	return s.finish()
}
