package codegen

import (
	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/bytecode"
	"github.com/funvibe/jmm/internal/typesystem"
)

var intComparisons = map[string]bytecode.Opcode{
	"==": bytecode.IF_ICMPEQ,
	"!=": bytecode.IF_ICMPNE,
	"<":  bytecode.IF_ICMPLT,
	"<=": bytecode.IF_ICMPLE,
	">":  bytecode.IF_ICMPGT,
	">=": bytecode.IF_ICMPGE,
}

// zeroComparisons test the int left by LCMP, DCMPL or DCMPG.
var zeroComparisons = map[string]bytecode.Opcode{
	"==": bytecode.IFEQ,
	"!=": bytecode.IFNE,
	"<":  bytecode.IFLT,
	"<=": bytecode.IFLE,
	">":  bytecode.IFGT,
	">=": bytecode.IFGE,
}

// compileCondition evaluates a boolean expression for control flow only:
// it branches to target when the value equals jumpWhen and otherwise
// falls through. Nothing is left on the stack.
func (c *Compiler) compileCondition(expr ast.Expression, target bytecode.Label, jumpWhen bool) error {
	switch e := expr.(type) {
	case *ast.LogicalExpression:
		return c.compileLogicalCondition(e, target, jumpWhen)

	case *ast.UnaryExpression:
		if e.Operator == "!" {
			return c.compileCondition(e.Operand, target, !jumpWhen)
		}

	case *ast.ComparisonExpression:
		return c.compileComparison(e, target, jumpWhen)
	}

	if err := c.compileExpression(expr); err != nil {
		return err
	}
	if jumpWhen {
		c.out.EmitBranch(bytecode.IFNE, target)
	} else {
		c.out.EmitBranch(bytecode.IFEQ, target)
	}
	return nil
}

// compileLogicalCondition short-circuits. For a && b jumping on false,
// either operand failing goes straight to target; jumping on true, a
// false left operand skips the right one.
func (c *Compiler) compileLogicalCondition(e *ast.LogicalExpression, target bytecode.Label, jumpWhen bool) error {
	// the value that decides the result without looking at Right
	decisive := e.Operator == "||"
	if decisive == jumpWhen {
		if err := c.compileCondition(e.Left, target, jumpWhen); err != nil {
			return err
		}
		return c.compileCondition(e.Right, target, jumpWhen)
	}
	skip := c.out.CreateLabel()
	if err := c.compileCondition(e.Left, skip, decisive); err != nil {
		return err
	}
	if err := c.compileCondition(e.Right, target, jumpWhen); err != nil {
		return err
	}
	c.out.PlaceLabel(skip)
	return nil
}

func (c *Compiler) compileComparison(e *ast.ComparisonExpression, target bytecode.Label, jumpWhen bool) error {
	if err := c.compileExpression(e.Left); err != nil {
		return err
	}
	if err := c.compileExpression(e.Right); err != nil {
		return err
	}

	var op bytecode.Opcode
	switch operandType := e.Left.GetType(); {
	case operandType.Tag == typesystem.Long:
		c.out.Emit(bytecode.LCMP)
		op = zeroComparisons[e.Operator]
	case operandType.Tag == typesystem.Double:
		// NaN must make every ordered comparison false
		if e.Operator == "<" || e.Operator == "<=" {
			c.out.Emit(bytecode.DCMPG)
		} else {
			c.out.Emit(bytecode.DCMPL)
		}
		op = zeroComparisons[e.Operator]
	case operandType.IsReference():
		if e.Operator == "==" {
			op = bytecode.IF_ACMPEQ
		} else {
			op = bytecode.IF_ACMPNE
		}
	default:
		op = intComparisons[e.Operator]
	}
	if op == 0 {
		return errorAt(e, "unknown comparison %s", e.Operator)
	}

	if !jumpWhen {
		op = op.Negate()
	}
	c.out.EmitBranch(op, target)
	return nil
}
