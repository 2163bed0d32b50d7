package codegen

import (
	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/bytecode"
	"github.com/funvibe/jmm/internal/config"
	"github.com/funvibe/jmm/internal/typesystem"
)

func (c *Compiler) compileStatement(stmt ast.Statement) error {
	c.out.MarkLine(ast.Line(stmt))

	switch s := stmt.(type) {
	case *ast.BlockStatement:
		return c.compileStatements(s.Statements)

	case *ast.VariableDeclaration:
		return c.compileVariableDeclaration(s)

	case *ast.ExpressionStatement:
		return c.compileExpressionStatement(s)

	case *ast.IfStatement:
		return c.compileIfStatement(s)

	case *ast.WhileStatement:
		return c.compileWhileStatement(s, "")

	case *ast.ForStatement:
		return c.compileForStatement(s, "")

	case *ast.SwitchStatement:
		return c.compileSwitchStatement(s, "")

	case *ast.LabeledStatement:
		return c.compileLabeledStatement(s)

	case *ast.BreakStatement:
		return c.compileBreakStatement(s)

	case *ast.ContinueStatement:
		return c.compileContinueStatement(s)

	case *ast.TryStatement:
		return c.compileTryStatement(s)

	case *ast.ThrowStatement:
		if err := c.compileExpression(s.Value); err != nil {
			return err
		}
		c.out.Emit(bytecode.ATHROW)

	case *ast.ReturnStatement:
		return c.leaveFrames(0, func() { c.out.Emit(bytecode.RETURN) })

	case *ast.PrintStatement:
		return c.compilePrintStatement(s)

	case *ast.EmptyStatement:

	default:
		return errorAt(stmt, "cannot generate code for %T", stmt)
	}
	return nil
}

func (c *Compiler) compileStatements(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// compileVariableDeclaration stores each initializer, or the zero value
// of the declared type when there is none.
func (c *Compiler) compileVariableDeclaration(s *ast.VariableDeclaration) error {
	for _, d := range s.Declarators {
		if d.Value != nil {
			if err := c.compileExpression(d.Value); err != nil {
				return err
			}
		} else {
			c.emitZeroValue(s.Type)
		}
		c.out.EmitLocal(storeOp(s.Type), d.Name.Slot)
	}
	return nil
}

func (c *Compiler) emitZeroValue(t typesystem.Type) {
	switch t.Tag {
	case typesystem.Long:
		c.out.Emit(bytecode.LCONST_0)
	case typesystem.Double:
		c.out.Emit(bytecode.DCONST_0)
	case typesystem.String, typesystem.Reference, typesystem.Null:
		c.out.Emit(bytecode.ACONST_NULL)
	default:
		c.out.Emit(bytecode.ICONST_0)
	}
}

// compileExpressionStatement avoids computing values that would only be
// popped again.
func (c *Compiler) compileExpressionStatement(s *ast.ExpressionStatement) error {
	switch e := s.Expression.(type) {
	case *ast.AssignExpression:
		return c.compileAssignExpression(e, false)
	case *ast.IncrementExpression:
		c.compileIncrementExpression(e, false)
		return nil
	}
	if err := c.compileExpression(s.Expression); err != nil {
		return err
	}
	c.out.Emit(popOp(s.Expression.GetType()))
	return nil
}

func (c *Compiler) compileIfStatement(s *ast.IfStatement) error {
	elseLabel := c.out.CreateLabel()
	if err := c.compileCondition(s.Condition, elseLabel, false); err != nil {
		return err
	}
	if err := c.compileStatement(s.Consequence); err != nil {
		return err
	}
	if s.Alternative == nil {
		c.out.PlaceLabel(elseLabel)
		return nil
	}
	endLabel := c.out.CreateLabel()
	c.out.EmitBranch(bytecode.GOTO, endLabel)
	c.out.PlaceLabel(elseLabel)
	if err := c.compileStatement(s.Alternative); err != nil {
		return err
	}
	c.out.PlaceLabel(endLabel)
	return nil
}

func (c *Compiler) compilePrintStatement(s *ast.PrintStatement) error {
	c.out.EmitMember(bytecode.GETSTATIC, config.SystemClass, "out", "L"+config.PrintStreamClass+";")
	name := "print"
	if s.Newline {
		name = "println"
	}
	desc := "()V"
	if s.Value != nil {
		if err := c.compileExpression(s.Value); err != nil {
			return err
		}
		desc = "(" + argumentDescriptor(s.Value.GetType()) + ")V"
	}
	c.out.EmitMember(bytecode.INVOKEVIRTUAL, config.PrintStreamClass, name, desc)
	return nil
}
