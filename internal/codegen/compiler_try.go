package codegen

import (
	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/bytecode"
)

// compileTryStatement lays out
//
//	try block            protected by the catch handlers and the any handler
//	finally; GOTO end
//	handler_i: ASTORE e  one per catch clause
//	catch body           protected by the any handler
//	finally; GOTO end
//	any: ASTORE tmp      only with finally
//	finally
//	ALOAD tmp; ATHROW
//	end:
//
// The finally block is copied onto every path that leaves the statement.
// Copies made for break, continue and return are cut out of the
// protected ranges.
func (c *Compiler) compileTryStatement(s *ast.TryStatement) error {
	var blockRanges, catchRanges []protectedRange
	end := c.out.CreateLabel()

	f := &frame{kind: tryFrame, try: s, ranges: &blockRanges}
	c.openRange(f)
	c.pushFrame(f)
	err := c.compileStatement(s.Block)
	c.popFrame()
	if err != nil {
		return err
	}
	c.closeRange(f)
	if err := c.compileFinally(s); err != nil {
		return err
	}
	c.out.EmitBranch(bytecode.GOTO, end)

	for _, cl := range s.Catches {
		handler := c.out.CreateLabel()
		for _, r := range blockRanges {
			c.out.AddHandler(r.start, r.end, handler, cl.Type.InternalName())
		}
		c.out.PlaceLabel(handler)
		c.out.MarkLine(ast.Line(cl))
		c.out.EmitLocal(bytecode.ASTORE, cl.Param.Slot)
		if err := c.compileCatchBody(s, cl, &catchRanges); err != nil {
			return err
		}
		if err := c.compileFinally(s); err != nil {
			return err
		}
		c.out.EmitBranch(bytecode.GOTO, end)
	}

	if s.Finally != nil {
		anyHandler := c.out.CreateLabel()
		for _, r := range append(blockRanges, catchRanges...) {
			c.out.AddHandler(r.start, r.end, anyHandler, "")
		}
		c.out.PlaceLabel(anyHandler)
		c.out.EmitLocal(bytecode.ASTORE, s.Slot)
		if err := c.compileStatement(s.Finally); err != nil {
			return err
		}
		c.out.EmitLocal(bytecode.ALOAD, s.Slot)
		c.out.Emit(bytecode.ATHROW)
	}

	c.out.PlaceLabel(end)
	return nil
}

// compileCatchBody compiles a handler body. With a finally block the body
// is itself protected so the finally block also runs when it throws.
func (c *Compiler) compileCatchBody(s *ast.TryStatement, cl *ast.CatchClause, ranges *[]protectedRange) error {
	if s.Finally == nil {
		return c.compileStatement(cl.Body)
	}
	f := &frame{kind: tryFrame, try: s, ranges: ranges}
	c.openRange(f)
	c.pushFrame(f)
	err := c.compileStatement(cl.Body)
	c.popFrame()
	if err != nil {
		return err
	}
	c.closeRange(f)
	return nil
}

func (c *Compiler) compileFinally(s *ast.TryStatement) error {
	if s.Finally == nil {
		return nil
	}
	return c.compileStatement(s.Finally)
}
