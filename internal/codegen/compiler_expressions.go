package codegen

import (
	"math"

	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/bytecode"
	"github.com/funvibe/jmm/internal/config"
	"github.com/funvibe/jmm/internal/typesystem"
)

// compileExpression leaves the value of expr on the operand stack.
func (c *Compiler) compileExpression(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		v, err := e.Int32()
		if err != nil {
			return errorAt(e, "%v", err)
		}
		c.emitIntConstant(v)

	case *ast.LongLiteral:
		v, err := e.Int64()
		if err != nil {
			return errorAt(e, "%v", err)
		}
		switch v {
		case 0:
			c.out.Emit(bytecode.LCONST_0)
		case 1:
			c.out.Emit(bytecode.LCONST_1)
		default:
			c.out.EmitLDC(v)
		}

	case *ast.DoubleLiteral:
		v, err := e.Float64()
		if err != nil {
			return errorAt(e, "%v", err)
		}
		switch {
		case v == 0 && !math.Signbit(v):
			c.out.Emit(bytecode.DCONST_0)
		case v == 1:
			c.out.Emit(bytecode.DCONST_1)
		default:
			c.out.EmitLDC(v)
		}

	case *ast.CharLiteral:
		r, err := e.Rune()
		if err != nil {
			return errorAt(e, "%v", err)
		}
		c.emitIntConstant(int32(r))

	case *ast.StringLiteral:
		s, err := e.Unquoted()
		if err != nil {
			return errorAt(e, "%v", err)
		}
		c.out.EmitLDC(s)

	case *ast.BooleanLiteral:
		if e.Value {
			c.out.Emit(bytecode.ICONST_1)
		} else {
			c.out.Emit(bytecode.ICONST_0)
		}

	case *ast.NullLiteral:
		c.out.Emit(bytecode.ACONST_NULL)

	case *ast.Identifier:
		c.out.EmitLocal(loadOp(e.GetType()), e.Slot)

	case *ast.BinaryExpression:
		return c.compileBinaryExpression(e)

	case *ast.StringConcatenation:
		return c.compileStringConcatenation(e)

	case *ast.ComparisonExpression, *ast.LogicalExpression:
		return c.compileBooleanValue(e)

	case *ast.UnaryExpression:
		return c.compileUnaryExpression(e)

	case *ast.ConditionalExpression:
		return c.compileConditionalExpression(e)

	case *ast.AssignExpression:
		return c.compileAssignExpression(e, true)

	case *ast.IncrementExpression:
		c.compileIncrementExpression(e, true)

	case *ast.NewExpression:
		return c.compileNewExpression(e)

	default:
		return errorAt(expr, "cannot generate code for %T", expr)
	}
	return nil
}

// emitIntConstant picks the shortest instruction that pushes v.
func (c *Compiler) emitIntConstant(v int32) {
	switch {
	case v >= -1 && v <= 5:
		c.out.Emit(bytecode.Opcode(int32(bytecode.ICONST_0) + v))
	case v >= math.MinInt8 && v <= math.MaxInt8:
		c.out.EmitInt(bytecode.BIPUSH, int(v))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		c.out.EmitInt(bytecode.SIPUSH, int(v))
	default:
		c.out.EmitLDC(v)
	}
}

var arithmeticOps = map[string][3]bytecode.Opcode{
	"+": {bytecode.IADD, bytecode.LADD, bytecode.DADD},
	"-": {bytecode.ISUB, bytecode.LSUB, bytecode.DSUB},
	"*": {bytecode.IMUL, bytecode.LMUL, bytecode.DMUL},
	"/": {bytecode.IDIV, bytecode.LDIV, bytecode.DDIV},
	"%": {bytecode.IREM, bytecode.LREM, bytecode.DREM},
}

var intOps = map[string]bytecode.Opcode{
	"<<":  bytecode.ISHL,
	">>":  bytecode.ISHR,
	">>>": bytecode.IUSHR,
	"&":   bytecode.IAND,
	"|":   bytecode.IOR,
	"^":   bytecode.IXOR,
}

// compileBinaryExpression evaluates left then right and applies one
// instruction chosen by the result type.
func (c *Compiler) compileBinaryExpression(e *ast.BinaryExpression) error {
	t := e.GetType()
	// an int product of mixed operands narrows each operand first
	mixed := e.Operator == "*" && !e.Left.GetType().Equals(e.Right.GetType())

	if err := c.compileExpression(e.Left); err != nil {
		return err
	}
	if mixed {
		c.emitToInt(e.Left.GetType())
	}
	if err := c.compileExpression(e.Right); err != nil {
		return err
	}
	if mixed {
		c.emitToInt(e.Right.GetType())
	}

	if op, ok := intOps[e.Operator]; ok {
		c.out.Emit(op)
		return nil
	}
	ops, ok := arithmeticOps[e.Operator]
	if !ok {
		return errorAt(e, "unknown operator %s", e.Operator)
	}
	switch t.Tag {
	case typesystem.Long:
		c.out.Emit(ops[1])
	case typesystem.Double:
		c.out.Emit(ops[2])
	default:
		c.out.Emit(ops[0])
	}
	return nil
}

func (c *Compiler) emitToInt(t typesystem.Type) {
	switch t.Tag {
	case typesystem.Long:
		c.out.Emit(bytecode.L2I)
	case typesystem.Double:
		c.out.Emit(bytecode.D2I)
	}
}

// compileStringConcatenation builds the string with one StringBuilder for
// a whole chain of concatenations.
func (c *Compiler) compileStringConcatenation(e *ast.StringConcatenation) error {
	c.out.EmitType(bytecode.NEW, config.StringBuilderClass)
	c.out.Emit(bytecode.DUP)
	c.out.EmitMember(bytecode.INVOKESPECIAL, config.StringBuilderClass, config.InitMethodName, "()V")
	if err := c.appendOperands(e); err != nil {
		return err
	}
	c.out.EmitMember(bytecode.INVOKEVIRTUAL, config.StringBuilderClass, "toString", "()Ljava/lang/String;")
	return nil
}

func (c *Compiler) appendOperands(expr ast.Expression) error {
	if e, ok := expr.(*ast.StringConcatenation); ok {
		if err := c.appendOperands(e.Left); err != nil {
			return err
		}
		return c.appendOperands(e.Right)
	}
	if err := c.compileExpression(expr); err != nil {
		return err
	}
	desc := "(" + argumentDescriptor(expr.GetType()) + ")L" + config.StringBuilderClass + ";"
	c.out.EmitMember(bytecode.INVOKEVIRTUAL, config.StringBuilderClass, "append", desc)
	return nil
}

// argumentDescriptor is the descriptor of the append or println overload
// taking a value of type t.
func argumentDescriptor(t typesystem.Type) string {
	switch t.Tag {
	case typesystem.Int, typesystem.Long, typesystem.Double, typesystem.Boolean, typesystem.Char:
		return t.Descriptor()
	case typesystem.String:
		return "Ljava/lang/String;"
	}
	return "Ljava/lang/Object;"
}

// compileBooleanValue materializes a condition as 1 or 0.
func (c *Compiler) compileBooleanValue(e ast.Expression) error {
	falseLabel := c.out.CreateLabel()
	endLabel := c.out.CreateLabel()
	if err := c.compileCondition(e, falseLabel, false); err != nil {
		return err
	}
	c.out.Emit(bytecode.ICONST_1)
	c.out.EmitBranch(bytecode.GOTO, endLabel)
	c.out.PlaceLabel(falseLabel)
	c.out.Emit(bytecode.ICONST_0)
	c.out.PlaceLabel(endLabel)
	return nil
}

func (c *Compiler) compileUnaryExpression(e *ast.UnaryExpression) error {
	if e.Operator == "!" {
		return c.compileBooleanValue(e)
	}
	if err := c.compileExpression(e.Operand); err != nil {
		return err
	}
	switch e.Operator {
	case "-":
		switch e.GetType().Tag {
		case typesystem.Long:
			c.out.Emit(bytecode.LNEG)
		case typesystem.Double:
			c.out.Emit(bytecode.DNEG)
		default:
			c.out.Emit(bytecode.INEG)
		}
	case "~":
		c.out.Emit(bytecode.ICONST_M1)
		c.out.Emit(bytecode.IXOR)
	case "+":
	default:
		return errorAt(e, "unknown operator %s", e.Operator)
	}
	return nil
}

// compileConditionalExpression lays out cond ? a : b as
//
//	branch to else when cond is false
//	a
//	GOTO end
//	else: b
//	end:
func (c *Compiler) compileConditionalExpression(e *ast.ConditionalExpression) error {
	elseLabel := c.out.CreateLabel()
	endLabel := c.out.CreateLabel()
	if err := c.compileCondition(e.Condition, elseLabel, false); err != nil {
		return err
	}
	if err := c.compileExpression(e.Consequence); err != nil {
		return err
	}
	c.out.EmitBranch(bytecode.GOTO, endLabel)
	c.out.PlaceLabel(elseLabel)
	if err := c.compileExpression(e.Alternative); err != nil {
		return err
	}
	c.out.PlaceLabel(endLabel)
	return nil
}

// compileAssignExpression stores the value; with keep the assigned value
// also stays on the stack as the expression's result.
func (c *Compiler) compileAssignExpression(e *ast.AssignExpression, keep bool) error {
	if err := c.compileExpression(e.Value); err != nil {
		return err
	}
	t := e.Target.GetType()
	if keep {
		c.out.Emit(dupOp(t))
	}
	c.out.EmitLocal(storeOp(t), e.Target.Slot)
	return nil
}

func (c *Compiler) compileIncrementExpression(e *ast.IncrementExpression, keep bool) {
	slot := e.Target.Slot
	switch {
	case !keep:
		c.out.EmitIinc(slot, e.Delta)
	case e.Prefix:
		c.out.EmitIinc(slot, e.Delta)
		c.out.EmitLocal(bytecode.ILOAD, slot)
	default:
		c.out.EmitLocal(bytecode.ILOAD, slot)
		c.out.EmitIinc(slot, e.Delta)
	}
}

func (c *Compiler) compileNewExpression(e *ast.NewExpression) error {
	c.out.EmitType(bytecode.NEW, e.ClassName)
	c.out.Emit(bytecode.DUP)
	desc := "()V"
	for _, arg := range e.Arguments {
		if err := c.compileExpression(arg); err != nil {
			return err
		}
		desc = "(" + argumentDescriptor(arg.GetType()) + ")V"
	}
	c.out.EmitMember(bytecode.INVOKESPECIAL, e.ClassName, config.InitMethodName, desc)
	return nil
}
