package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// Printer writes diagnostics one per line.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter creates a printer for w. mode is "auto", "always" or "never";
// auto colors only when w is a terminal.
func NewPrinter(w io.Writer, mode string) *Printer {
	return &Printer{w: w, color: wantColor(w, mode)}
}

func wantColor(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) Print(errs []*DiagnosticError) error {
	for _, e := range errs {
		var err error
		if p.color {
			_, err = fmt.Fprintf(p.w, "%s%s:%d:%s %s%s%s\n", ansiBold, e.File, e.Token.Line, ansiReset, ansiRed, e.Message, ansiReset)
		} else {
			_, err = fmt.Fprintln(p.w, e.Error())
		}
		if err != nil {
			return err
		}
	}
	return nil
}
