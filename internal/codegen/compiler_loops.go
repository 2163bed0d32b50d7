package codegen

import (
	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/bytecode"
)

// compileWhileStatement lays out
//
//	test: branch to exit when cond is false
//	body
//	GOTO test
//	exit:
func (c *Compiler) compileWhileStatement(s *ast.WhileStatement, label string) error {
	test := c.out.CreateLabel()
	exit := c.out.CreateLabel()

	c.out.PlaceLabel(test)
	if err := c.compileCondition(s.Condition, exit, false); err != nil {
		return err
	}
	c.pushFrame(&frame{kind: loopFrame, label: label, breakLabel: exit, continueLabel: test})
	err := c.compileStatement(s.Body)
	c.popFrame()
	if err != nil {
		return err
	}
	c.out.EmitBranch(bytecode.GOTO, test)
	c.out.PlaceLabel(exit)
	return nil
}

// compileForStatement puts the test after the body so each iteration
// takes one branch:
//
//	init
//	GOTO test
//	entry: body
//	cont:  update
//	test:  branch to entry when cond is true
//	exit:
func (c *Compiler) compileForStatement(s *ast.ForStatement, label string) error {
	if err := c.compileStatements(s.Init); err != nil {
		return err
	}
	entry := c.out.CreateLabel()
	cont := c.out.CreateLabel()
	test := c.out.CreateLabel()
	exit := c.out.CreateLabel()

	c.out.EmitBranch(bytecode.GOTO, test)
	c.out.PlaceLabel(entry)
	c.pushFrame(&frame{kind: loopFrame, label: label, breakLabel: exit, continueLabel: cont})
	err := c.compileStatement(s.Body)
	c.popFrame()
	if err != nil {
		return err
	}

	c.out.PlaceLabel(cont)
	if err := c.compileStatements(s.Update); err != nil {
		return err
	}
	c.out.PlaceLabel(test)
	if s.Condition == nil {
		c.out.EmitBranch(bytecode.GOTO, entry)
	} else if err := c.compileCondition(s.Condition, entry, true); err != nil {
		return err
	}
	c.out.PlaceLabel(exit)
	return nil
}

// compileSwitchStatement stores the discriminant in its slot and compares
// it against each case constant in source order. Groups follow in order,
// so control falls through from one group to the next.
func (c *Compiler) compileSwitchStatement(s *ast.SwitchStatement, label string) error {
	if err := c.compileExpression(s.Discriminant); err != nil {
		return err
	}
	c.out.EmitLocal(bytecode.ISTORE, s.Slot)

	exit := c.out.CreateLabel()
	fallback := exit
	entries := make([]bytecode.Label, len(s.Groups))
	for i, g := range s.Groups {
		entries[i] = c.out.CreateLabel()
		for _, l := range g.Labels {
			if l.IsDefault() {
				fallback = entries[i]
				continue
			}
			v, err := caseValue(l.Value)
			if err != nil {
				return err
			}
			c.out.EmitLocal(bytecode.ILOAD, s.Slot)
			c.emitIntConstant(v)
			c.out.EmitBranch(bytecode.IF_ICMPEQ, entries[i])
		}
	}
	c.out.EmitBranch(bytecode.GOTO, fallback)

	c.pushFrame(&frame{kind: switchFrame, label: label, breakLabel: exit})
	defer c.popFrame()
	for i, g := range s.Groups {
		c.out.PlaceLabel(entries[i])
		if err := c.compileStatements(g.Statements); err != nil {
			return err
		}
	}
	c.out.PlaceLabel(exit)
	return nil
}

// caseValue decodes a case label, an int or char literal.
func caseValue(expr ast.Expression) (int32, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return e.Int32()
	case *ast.CharLiteral:
		r, err := e.Rune()
		return int32(r), err
	}
	return 0, errorAt(expr, "constant expression required")
}

// compileLabeledStatement attaches the label to a loop or switch body;
// any other statement becomes a block that only break can leave.
func (c *Compiler) compileLabeledStatement(s *ast.LabeledStatement) error {
	switch body := s.Body.(type) {
	case *ast.WhileStatement:
		return c.compileWhileStatement(body, s.Label)
	case *ast.ForStatement:
		return c.compileForStatement(body, s.Label)
	case *ast.SwitchStatement:
		return c.compileSwitchStatement(body, s.Label)
	}
	exit := c.out.CreateLabel()
	c.pushFrame(&frame{kind: blockFrame, label: s.Label, breakLabel: exit})
	err := c.compileStatement(s.Body)
	c.popFrame()
	if err != nil {
		return err
	}
	c.out.PlaceLabel(exit)
	return nil
}

func (c *Compiler) compileBreakStatement(s *ast.BreakStatement) error {
	k := c.findFrame(func(f *frame) bool {
		if s.Label != "" {
			return f.kind != tryFrame && f.label == s.Label
		}
		return f.kind == loopFrame || f.kind == switchFrame
	})
	if k < 0 {
		return errorAt(s, "break has no target")
	}
	return c.jumpOut(k+1, c.frames[k].breakLabel)
}

func (c *Compiler) compileContinueStatement(s *ast.ContinueStatement) error {
	k := c.findFrame(func(f *frame) bool {
		return f.kind == loopFrame && (s.Label == "" || f.label == s.Label)
	})
	if k < 0 {
		return errorAt(s, "continue has no target")
	}
	return c.jumpOut(k+1, c.frames[k].continueLabel)
}

// jumpOut branches to target, leaving every frame above depth.
func (c *Compiler) jumpOut(depth int, target bytecode.Label) error {
	return c.leaveFrames(depth, func() { c.out.EmitBranch(bytecode.GOTO, target) })
}

// leaveFrames emits exit after running the finally blocks of the try
// statements above depth, innermost first. While that code runs none of
// the crossed try statements protect it; their ranges reopen once exit
// has been emitted.
func (c *Compiler) leaveFrames(depth int, exit func()) error {
	var crossed []*frame
	hasFinally := false
	for i := len(c.frames) - 1; i >= depth; i-- {
		if f := c.frames[i]; f.kind == tryFrame {
			crossed = append(crossed, f)
			hasFinally = hasFinally || f.try.Finally != nil
		}
	}
	if !hasFinally {
		exit()
		return nil
	}

	var closed []*frame
	for _, f := range crossed {
		if f.protecting {
			c.closeRange(f)
			closed = append(closed, f)
		}
	}

	saved := c.frames
	for i := len(saved) - 1; i >= depth; i-- {
		f := saved[i]
		if f.kind != tryFrame || f.try.Finally == nil {
			continue
		}
		c.frames = saved[:i:i]
		err := c.compileStatement(f.try.Finally)
		c.frames = saved
		if err != nil {
			return err
		}
	}

	exit()
	for _, f := range closed {
		c.openRange(f)
	}
	return nil
}

// openRange starts a new protected range for f at the current position.
func (c *Compiler) openRange(f *frame) {
	f.rangeStart = c.out.CreateLabel()
	c.out.PlaceLabel(f.rangeStart)
	f.protecting = true
}

// closeRange ends f's current protected range at the current position.
func (c *Compiler) closeRange(f *frame) {
	end := c.out.CreateLabel()
	c.out.PlaceLabel(end)
	*f.ranges = append(*f.ranges, protectedRange{start: f.rangeStart, end: end})
	f.protecting = false
}
