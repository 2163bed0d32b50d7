package diagnostics

import "fmt"

// Sink collects diagnostics for one compilation unit. It is append-only:
// entries keep the order in which they were reported, and reporting never
// interrupts the caller.
type Sink struct {
	file   string
	errors []*DiagnosticError
}

func NewSink(file string) *Sink {
	return &Sink{file: file}
}

// Report records a diagnostic at line.
func (s *Sink) Report(code ErrorCode, line int, format string, args ...any) {
	s.Add(Errorf(code, line, format, args...))
}

// Add records an already built diagnostic, filling in the file name if it
// has none.
func (s *Sink) Add(err *DiagnosticError) {
	if err.File == "" {
		err.File = s.file
	}
	s.errors = append(s.errors, err)
}

func (s *Sink) File() string {
	return s.file
}

func (s *Sink) Errors() []*DiagnosticError {
	return s.errors
}

func (s *Sink) HasErrors() bool {
	return len(s.errors) > 0
}

func (s *Sink) Len() int {
	return len(s.errors)
}

// Messages returns the rendered diagnostics, in report order.
func (s *Sink) Messages() []string {
	out := make([]string, len(s.errors))
	for i, e := range s.errors {
		out[i] = e.Error()
	}
	return out
}

func (s *Sink) String() string {
	return fmt.Sprintf("%s: %d diagnostic(s)", s.file, len(s.errors))
}

// Reporter is the reporting side of a Sink.
type Reporter interface {
	Report(code ErrorCode, line int, format string, args ...any)
}
