package analyzer

import (
	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/config"
	"github.com/funvibe/jmm/internal/diagnostics"
	"github.com/funvibe/jmm/internal/typesystem"
)

var numericTypes = []typesystem.Type{typesystem.INT, typesystem.LONG, typesystem.DOUBLE}

// AnalyzeExpression analyzes e and returns the node that replaces it.
// The result always carries a type.
func (a *Analyzer) AnalyzeExpression(e ast.Expression) ast.Expression {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		n.SetType(typesystem.INT)
	case *ast.LongLiteral:
		n.SetType(typesystem.LONG)
	case *ast.DoubleLiteral:
		n.SetType(typesystem.DOUBLE)
	case *ast.CharLiteral:
		n.SetType(typesystem.CHAR)
	case *ast.StringLiteral:
		n.SetType(typesystem.STRING)
	case *ast.BooleanLiteral:
		n.SetType(typesystem.BOOLEAN)
	case *ast.NullLiteral:
		n.SetType(typesystem.NULL)
	case *ast.Identifier:
		a.analyzeIdentifier(n)
	case *ast.BinaryExpression:
		return a.analyzeBinary(n)
	case *ast.StringConcatenation:
		a.analyzeConcatenation(n)
	case *ast.ComparisonExpression:
		a.analyzeComparison(n)
	case *ast.LogicalExpression:
		n.Left = a.AnalyzeExpression(n.Left)
		n.Right = a.AnalyzeExpression(n.Right)
		ok := n.Left.GetType().MustMatchExpected(a.sink, ast.Line(n), typesystem.BOOLEAN)
		ok = n.Right.GetType().MustMatchExpected(a.sink, ast.Line(n), typesystem.BOOLEAN) && ok
		n.SetType(resultOr(ok, typesystem.BOOLEAN))
	case *ast.UnaryExpression:
		a.analyzeUnary(n)
	case *ast.ConditionalExpression:
		a.analyzeConditional(n)
	case *ast.AssignExpression:
		a.analyzeAssign(n)
	case *ast.IncrementExpression:
		a.analyzeIdentifier(n.Target)
		ok := n.Target.GetType().MustMatchExpected(a.sink, ast.Line(n), typesystem.INT)
		n.SetType(resultOr(ok, typesystem.INT))
	case *ast.NewExpression:
		a.analyzeNew(n)
	}
	return e
}

func resultOr(ok bool, t typesystem.Type) typesystem.Type {
	if !ok {
		return typesystem.ERROR
	}
	return t
}

func anyError(types ...typesystem.Type) bool {
	for _, t := range types {
		if t.IsError() {
			return true
		}
	}
	return false
}

func (a *Analyzer) analyzeIdentifier(id *ast.Identifier) {
	sym, ok := a.symbolTable.Find(id.Value)
	if !ok {
		a.report(diagnostics.ErrA001, id, "Cannot find symbol: %s", id.Value)
		id.SetType(typesystem.ERROR)
		return
	}
	id.Slot = sym.Slot
	id.SetType(sym.Type)
}

// analyzeBinary applies the operator typing rules. Both operands are
// analyzed first, left to right. A '+' with a String operand is replaced
// by a concatenation.
func (a *Analyzer) analyzeBinary(n *ast.BinaryExpression) ast.Expression {
	n.Left = a.AnalyzeExpression(n.Left)
	n.Right = a.AnalyzeExpression(n.Right)
	lt, rt := n.Left.GetType(), n.Right.GetType()
	line := ast.Line(n)

	switch n.Operator {
	case "+":
		if lt.Tag == typesystem.String || rt.Tag == typesystem.String {
			return a.AnalyzeExpression(&ast.StringConcatenation{Token: n.Token, Left: n.Left, Right: n.Right})
		}
		switch {
		case anyError(lt, rt):
			n.SetType(typesystem.ERROR)
		case lt.Equals(rt) && lt.IsNumeric():
			n.SetType(lt)
		default:
			a.report(diagnostics.ErrA003, n, "Invalid operand types for +")
			n.SetType(typesystem.ERROR)
		}

	case "*":
		ok := lt.MustMatchOneOf(a.sink, line, numericTypes...)
		ok = rt.MustMatchOneOf(a.sink, line, numericTypes...) && ok
		switch {
		case !ok || anyError(lt, rt):
			n.SetType(typesystem.ERROR)
		case lt.Equals(rt):
			n.SetType(lt)
		default:
			// operands of different numeric types multiply as int
			n.SetType(typesystem.INT)
		}

	default:
		// - / % << >> >>> & | ^ are int only
		ok := lt.MustMatchExpected(a.sink, line, typesystem.INT)
		ok = rt.MustMatchExpected(a.sink, line, typesystem.INT) && ok
		n.SetType(resultOr(ok && !anyError(lt, rt), typesystem.INT))
	}
	return n
}

// analyzeConcatenation types a concatenation built from already analyzed
// operands.
func (a *Analyzer) analyzeConcatenation(n *ast.StringConcatenation) {
	if n.Left.GetType().IsUnset() {
		n.Left = a.AnalyzeExpression(n.Left)
	}
	if n.Right.GetType().IsUnset() {
		n.Right = a.AnalyzeExpression(n.Right)
	}
	n.SetType(typesystem.STRING)
}

func (a *Analyzer) analyzeComparison(n *ast.ComparisonExpression) {
	n.Left = a.AnalyzeExpression(n.Left)
	n.Right = a.AnalyzeExpression(n.Right)
	lt, rt := n.Left.GetType(), n.Right.GetType()
	line := ast.Line(n)

	var ok bool
	switch n.Operator {
	case "==", "!=":
		ok = (lt.IsReference() && rt.IsReference()) || rt.MustMatchExpected(a.sink, line, lt)
	default:
		ok = lt.MustMatchOneOf(a.sink, line, numericTypes...) &&
			rt.MustMatchOneOf(a.sink, line, numericTypes...) &&
			rt.MustMatchExpected(a.sink, line, lt)
	}
	n.SetType(resultOr(ok, typesystem.BOOLEAN))
}

func (a *Analyzer) analyzeUnary(n *ast.UnaryExpression) {
	n.Operand = a.AnalyzeExpression(n.Operand)
	t := n.Operand.GetType()
	line := ast.Line(n)

	switch n.Operator {
	case "-", "+":
		n.SetType(resultOr(t.MustMatchOneOf(a.sink, line, numericTypes...), t))
	case "!":
		n.SetType(resultOr(t.MustMatchExpected(a.sink, line, typesystem.BOOLEAN), typesystem.BOOLEAN))
	case "~":
		n.SetType(resultOr(t.MustMatchExpected(a.sink, line, typesystem.INT), typesystem.INT))
	}
}

// analyzeConditional requires a boolean condition and branches of exactly
// the same type; the result has the type of the first branch.
func (a *Analyzer) analyzeConditional(n *ast.ConditionalExpression) {
	n.Condition = a.AnalyzeExpression(n.Condition)
	n.Condition.GetType().MustMatchExpected(a.sink, ast.Line(n), typesystem.BOOLEAN)
	n.Consequence = a.AnalyzeExpression(n.Consequence)
	n.Alternative = a.AnalyzeExpression(n.Alternative)
	n.Consequence.GetType().MustMatchExpected(a.sink, ast.Line(n), n.Alternative.GetType())
	n.SetType(n.Consequence.GetType())
}

func (a *Analyzer) analyzeAssign(n *ast.AssignExpression) {
	a.analyzeIdentifier(n.Target)
	n.Value = a.AnalyzeExpression(n.Value)
	target := n.Target.GetType()
	n.Value.GetType().MustBeAssignableTo(a.sink, ast.Line(n), target)
	n.SetType(target)
}

// analyzeNew accepts a no-argument constructor for every known class and
// a message constructor for strings and throwables.
func (a *Analyzer) analyzeNew(n *ast.NewExpression) {
	for i, arg := range n.Arguments {
		n.Arguments[i] = a.AnalyzeExpression(arg)
	}

	t, ok := typesystem.LookupClass(n.ClassName)
	if !ok {
		a.report(diagnostics.ErrA001, n, "Cannot find class: %s", n.ClassName)
		n.SetType(typesystem.ERROR)
		return
	}
	n.ClassName = t.InternalName()
	n.SetType(t)

	switch len(n.Arguments) {
	case 0:
	case 1:
		if t.Tag != typesystem.String && !t.IsThrowable() {
			a.report(diagnostics.ErrA003, n, "Class %s has no constructor taking arguments", t)
			n.SetType(typesystem.ERROR)
			return
		}
		if !n.Arguments[0].GetType().MustMatchExpected(a.sink, ast.Line(n), typesystem.STRING) {
			n.SetType(typesystem.ERROR)
		}
	default:
		a.report(diagnostics.ErrA003, n, "Too many arguments to constructor of %s", t)
		n.SetType(typesystem.ERROR)
	}
}

// throwableType is the type every thrown or caught value must extend.
var throwableType = typesystem.Ref(config.ThrowableClass)
