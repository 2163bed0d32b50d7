package diagnostics

import (
	"fmt"

	"github.com/funvibe/jmm/internal/token"
)

type ErrorCode string

const (
	// Lexical
	ErrL001 ErrorCode = "L001"

	// Syntax
	ErrP000 ErrorCode = "P000" // pipeline misuse
	ErrP001 ErrorCode = "P001"

	// Semantic
	ErrA001 ErrorCode = "A001" // undefined name or class
	ErrA002 ErrorCode = "A002" // type mismatch
	ErrA003 ErrorCode = "A003" // invalid operand
	ErrA004 ErrorCode = "A004" // missing control-flow target
	ErrA005 ErrorCode = "A005" // duplicate declaration, label or case

	// Code generation
	ErrC001 ErrorCode = "C001"

	// Resources
	ErrR001 ErrorCode = "R001"
)

// DiagnosticError is a single reported problem, anchored to a source line.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
}

func NewError(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

// Errorf is NewError with a line in place of a token.
func Errorf(code ErrorCode, line int, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{
		Code:    code,
		Token:   token.Token{Line: line},
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *DiagnosticError) Line() int {
	return e.Token.Line
}

// Error renders the diagnostic as "<file>:<line>: <message>".
func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Token.Line, e.Message)
}
