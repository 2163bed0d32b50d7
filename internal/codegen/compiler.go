// Package codegen turns an analyzed program into JVM instructions for the
// body of main, written through a bytecode.Emitter.
package codegen

import (
	"fmt"

	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/bytecode"
	"github.com/funvibe/jmm/internal/typesystem"
)

type frameKind int

const (
	loopFrame frameKind = iota
	switchFrame
	blockFrame // labeled statement that is neither loop nor switch
	tryFrame
)

// protectedRange is a [start, end) span covered by a try statement's
// handlers.
type protectedRange struct {
	start, end bytecode.Label
}

// frame is an enclosing construct that break, continue and return may
// leave. Try frames carry the finally code to run on the way out and the
// ranges their handlers protect; code inlined for an exit is kept out of
// those ranges.
type frame struct {
	kind          frameKind
	label         string
	breakLabel    bytecode.Label
	continueLabel bytecode.Label

	try        *ast.TryStatement
	protecting bool
	rangeStart bytecode.Label
	ranges     *[]protectedRange
}

// Compiler generates code for one method body.
type Compiler struct {
	out    bytecode.Emitter
	frames []*frame
}

func NewCompiler(out bytecode.Emitter) *Compiler {
	return &Compiler{out: out}
}

// Compile generates the statements of main followed by the final return.
// The program must have been analyzed without errors.
func (c *Compiler) Compile(program *ast.Program) error {
	for _, stmt := range program.Statements {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}
	c.out.Emit(bytecode.RETURN)
	return nil
}

// Error is a failure to generate code for a construct at Line.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func errorAt(n ast.Node, format string, args ...any) error {
	return &Error{Line: ast.Line(n), Msg: fmt.Sprintf(format, args...)}
}

// loadOp, storeOp and friends select the typed instruction variant.

func loadOp(t typesystem.Type) bytecode.Opcode {
	switch t.Tag {
	case typesystem.Long:
		return bytecode.LLOAD
	case typesystem.Double:
		return bytecode.DLOAD
	case typesystem.String, typesystem.Reference, typesystem.Null:
		return bytecode.ALOAD
	}
	return bytecode.ILOAD
}

func storeOp(t typesystem.Type) bytecode.Opcode {
	switch t.Tag {
	case typesystem.Long:
		return bytecode.LSTORE
	case typesystem.Double:
		return bytecode.DSTORE
	case typesystem.String, typesystem.Reference, typesystem.Null:
		return bytecode.ASTORE
	}
	return bytecode.ISTORE
}

func dupOp(t typesystem.Type) bytecode.Opcode {
	if t.Width() == 2 {
		return bytecode.DUP2
	}
	return bytecode.DUP
}

func popOp(t typesystem.Type) bytecode.Opcode {
	if t.Width() == 2 {
		return bytecode.POP2
	}
	return bytecode.POP
}

// pushFrame makes f the innermost frame.
func (c *Compiler) pushFrame(f *frame) {
	c.frames = append(c.frames, f)
}

func (c *Compiler) popFrame() {
	c.frames = c.frames[:len(c.frames)-1]
}

// findFrame returns the index of the innermost frame accepted by match,
// or -1.
func (c *Compiler) findFrame(match func(*frame) bool) int {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if match(c.frames[i]) {
			return i
		}
	}
	return -1
}
