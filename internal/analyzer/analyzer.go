package analyzer

import (
	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/diagnostics"
	"github.com/funvibe/jmm/internal/symbols"
	"github.com/funvibe/jmm/internal/typesystem"
)

type targetKind int

const (
	loopTarget targetKind = iota
	switchTarget
	blockTarget // a labeled statement that is neither loop nor switch
)

// jumpTarget is an enclosing construct a break or continue may leave.
type jumpTarget struct {
	label string
	kind  targetKind
}

// Analyzer type-checks a program, resolves names to local slots and
// rewrites nodes whose meaning depends on operand types. Every problem is
// reported to the sink and analysis carries on; a failed expression gets
// the error type, which later checks accept silently.
type Analyzer struct {
	symbolTable *symbols.SymbolTable
	sink        diagnostics.Reporter
	targets     []jumpTarget
}

// New creates an Analyzer that declares locals in symbolTable.
func New(symbolTable *symbols.SymbolTable, sink diagnostics.Reporter) *Analyzer {
	return &Analyzer{symbolTable: symbolTable, sink: sink}
}

// Analyze analyzes every statement of the program in place and records
// how many local slots the main method needs.
func (a *Analyzer) Analyze(program *ast.Program) {
	for i, stmt := range program.Statements {
		program.Statements[i] = a.analyzeStatement(stmt)
	}
	program.MaxLocals = a.symbolTable.MaxLocals()
}

func (a *Analyzer) report(code diagnostics.ErrorCode, n ast.Node, format string, args ...any) {
	a.sink.Report(code, ast.Line(n), format, args...)
}

func (a *Analyzer) openScope() {
	a.symbolTable = symbols.NewEnclosedSymbolTable(a.symbolTable, symbols.ScopeBlock)
}

func (a *Analyzer) closeScope() {
	a.symbolTable = a.symbolTable.Close()
}

func (a *Analyzer) pushTarget(label string, kind targetKind) {
	a.targets = append(a.targets, jumpTarget{label: label, kind: kind})
}

func (a *Analyzer) popTarget() {
	a.targets = a.targets[:len(a.targets)-1]
}

// findTarget returns the innermost target accepted by match.
func (a *Analyzer) findTarget(match func(jumpTarget) bool) (jumpTarget, bool) {
	for i := len(a.targets) - 1; i >= 0; i-- {
		if match(a.targets[i]) {
			return a.targets[i], true
		}
	}
	return jumpTarget{}, false
}

// resolveType maps a declared type name to a type: a primitive keyword
// or a known class.
func (a *Analyzer) resolveType(n ast.Node, name string) typesystem.Type {
	if t, ok := typesystem.Primitive(name); ok {
		if t.Tag == typesystem.Void {
			a.report(diagnostics.ErrA002, n, "Illegal use of type void")
			return typesystem.ERROR
		}
		return t
	}
	if t, ok := typesystem.LookupClass(name); ok {
		return t
	}
	a.report(diagnostics.ErrA001, n, "Cannot find class: %s", name)
	return typesystem.ERROR
}
