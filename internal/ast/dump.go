package ast

import (
	"strconv"
)

// DumpNode is the structured, read-only view of a node: its kind, line,
// resolved type (empty before analysis), an optional value (operator,
// name or literal text) and its children. Role names the parent field a
// child came from.
type DumpNode struct {
	Kind     string      `json:"kind"`
	Role     string      `json:"role,omitempty"`
	Line     int         `json:"line"`
	Type     string      `json:"type,omitempty"`
	Value    string      `json:"value,omitempty"`
	Children []*DumpNode `json:"children,omitempty"`
}

// Dump builds the structured view of n. It never modifies the tree, so
// dumping twice gives equal results.
func Dump(n Node) *DumpNode {
	if n == nil {
		return nil
	}
	d := &dumper{}
	n.Accept(d)
	return d.result
}

type dumper struct {
	result *DumpNode
}

func (d *dumper) node(n Node, kind, value string) *DumpNode {
	dn := &DumpNode{Kind: kind, Line: Line(n), Value: value}
	if e, ok := n.(Expression); ok {
		dn.Type = e.GetType().String()
	}
	d.result = dn
	return dn
}

// child dumps n under role and appends it to parent. nil children are skipped.
func (d *dumper) child(parent *DumpNode, role string, n Node) {
	if isNil(n) {
		return
	}
	c := Dump(n)
	c.Role = role
	parent.Children = append(parent.Children, c)
}

func (d *dumper) statements(parent *DumpNode, role string, stmts []Statement) {
	for _, s := range stmts {
		d.child(parent, role, s)
	}
}

// isNil catches typed nils stored in interfaces, like a (*BlockStatement)(nil).
func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *BlockStatement:
		return v == nil
	case *Identifier:
		return v == nil
	}
	return false
}

func (d *dumper) VisitProgram(p *Program) {
	dn := &DumpNode{Kind: "Program", Value: p.ClassName}
	d.result = dn
	d.statements(dn, "", p.Statements)
}

func (d *dumper) VisitIntegerLiteral(n *IntegerLiteral) { d.node(n, "IntegerLiteral", n.Value) }
func (d *dumper) VisitLongLiteral(n *LongLiteral)       { d.node(n, "LongLiteral", n.Value) }
func (d *dumper) VisitDoubleLiteral(n *DoubleLiteral)   { d.node(n, "DoubleLiteral", n.Value) }
func (d *dumper) VisitCharLiteral(n *CharLiteral)       { d.node(n, "CharLiteral", n.Value) }
func (d *dumper) VisitStringLiteral(n *StringLiteral)   { d.node(n, "StringLiteral", n.Value) }
func (d *dumper) VisitNullLiteral(n *NullLiteral)       { d.node(n, "NullLiteral", "null") }
func (d *dumper) VisitIdentifier(n *Identifier)         { d.node(n, "Identifier", n.Value) }

func (d *dumper) VisitBooleanLiteral(n *BooleanLiteral) {
	d.node(n, "BooleanLiteral", strconv.FormatBool(n.Value))
}

func (d *dumper) VisitBinaryExpression(n *BinaryExpression) {
	dn := d.node(n, "BinaryExpression", n.Operator)
	d.child(dn, "left", n.Left)
	d.child(dn, "right", n.Right)
}

func (d *dumper) VisitStringConcatenation(n *StringConcatenation) {
	dn := d.node(n, "StringConcatenation", "+")
	d.child(dn, "left", n.Left)
	d.child(dn, "right", n.Right)
}

func (d *dumper) VisitComparisonExpression(n *ComparisonExpression) {
	dn := d.node(n, "ComparisonExpression", n.Operator)
	d.child(dn, "left", n.Left)
	d.child(dn, "right", n.Right)
}

func (d *dumper) VisitLogicalExpression(n *LogicalExpression) {
	dn := d.node(n, "LogicalExpression", n.Operator)
	d.child(dn, "left", n.Left)
	d.child(dn, "right", n.Right)
}

func (d *dumper) VisitUnaryExpression(n *UnaryExpression) {
	dn := d.node(n, "UnaryExpression", n.Operator)
	d.child(dn, "operand", n.Operand)
}

func (d *dumper) VisitConditionalExpression(n *ConditionalExpression) {
	dn := d.node(n, "ConditionalExpression", "")
	d.child(dn, "condition", n.Condition)
	d.child(dn, "then", n.Consequence)
	d.child(dn, "else", n.Alternative)
}

func (d *dumper) VisitAssignExpression(n *AssignExpression) {
	dn := d.node(n, "AssignExpression", "=")
	d.child(dn, "target", n.Target)
	d.child(dn, "value", n.Value)
}

func (d *dumper) VisitIncrementExpression(n *IncrementExpression) {
	op := "++"
	if n.Delta < 0 {
		op = "--"
	}
	if n.Prefix {
		op = "pre" + op
	} else {
		op = "post" + op
	}
	dn := d.node(n, "IncrementExpression", op)
	d.child(dn, "target", n.Target)
}

func (d *dumper) VisitNewExpression(n *NewExpression) {
	dn := d.node(n, "NewExpression", n.ClassName)
	for _, a := range n.Arguments {
		d.child(dn, "argument", a)
	}
}

func (d *dumper) VisitBlockStatement(n *BlockStatement) {
	dn := d.node(n, "BlockStatement", "")
	d.statements(dn, "", n.Statements)
}

func (d *dumper) VisitVariableDeclaration(n *VariableDeclaration) {
	dn := d.node(n, "VariableDeclaration", n.TypeName)
	if !n.Type.IsUnset() {
		dn.Type = n.Type.String()
	}
	for _, decl := range n.Declarators {
		d.child(dn, "name", decl.Name)
		if decl.Value != nil {
			d.child(dn, "initializer", decl.Value)
		}
	}
}

func (d *dumper) VisitExpressionStatement(n *ExpressionStatement) {
	dn := d.node(n, "ExpressionStatement", "")
	d.child(dn, "expression", n.Expression)
}

func (d *dumper) VisitIfStatement(n *IfStatement) {
	dn := d.node(n, "IfStatement", "")
	d.child(dn, "condition", n.Condition)
	d.child(dn, "then", n.Consequence)
	if n.Alternative != nil {
		d.child(dn, "else", n.Alternative)
	}
}

func (d *dumper) VisitWhileStatement(n *WhileStatement) {
	dn := d.node(n, "WhileStatement", "")
	d.child(dn, "condition", n.Condition)
	d.child(dn, "body", n.Body)
}

func (d *dumper) VisitForStatement(n *ForStatement) {
	dn := d.node(n, "ForStatement", "")
	d.statements(dn, "init", n.Init)
	if n.Condition != nil {
		d.child(dn, "condition", n.Condition)
	}
	d.statements(dn, "update", n.Update)
	d.child(dn, "body", n.Body)
}

func (d *dumper) VisitBreakStatement(n *BreakStatement) {
	d.node(n, "BreakStatement", n.Label)
}

func (d *dumper) VisitContinueStatement(n *ContinueStatement) {
	d.node(n, "ContinueStatement", n.Label)
}

func (d *dumper) VisitLabeledStatement(n *LabeledStatement) {
	dn := d.node(n, "LabeledStatement", n.Label)
	d.child(dn, "body", n.Body)
}

func (d *dumper) VisitSwitchStatement(n *SwitchStatement) {
	dn := d.node(n, "SwitchStatement", "")
	d.child(dn, "discriminant", n.Discriminant)
	for _, g := range n.Groups {
		d.child(dn, "group", g)
	}
}

func (d *dumper) VisitSwitchGroup(n *SwitchGroup) {
	dn := d.node(n, "SwitchGroup", "")
	for _, l := range n.Labels {
		d.child(dn, "label", l)
	}
	d.statements(dn, "", n.Statements)
}

func (d *dumper) VisitSwitchLabel(n *SwitchLabel) {
	if n.IsDefault() {
		d.node(n, "SwitchLabel", "default")
		return
	}
	dn := d.node(n, "SwitchLabel", "case")
	d.child(dn, "value", n.Value)
}

func (d *dumper) VisitTryStatement(n *TryStatement) {
	dn := d.node(n, "TryStatement", "")
	d.child(dn, "block", n.Block)
	for _, c := range n.Catches {
		d.child(dn, "catch", c)
	}
	if n.Finally != nil {
		d.child(dn, "finally", n.Finally)
	}
}

func (d *dumper) VisitCatchClause(n *CatchClause) {
	dn := d.node(n, "CatchClause", n.TypeName)
	if !n.Type.IsUnset() {
		dn.Type = n.Type.String()
	}
	d.child(dn, "parameter", n.Param)
	d.child(dn, "body", n.Body)
}

func (d *dumper) VisitThrowStatement(n *ThrowStatement) {
	dn := d.node(n, "ThrowStatement", "")
	d.child(dn, "value", n.Value)
}

func (d *dumper) VisitReturnStatement(n *ReturnStatement) {
	dn := d.node(n, "ReturnStatement", "")
	if n.Value != nil {
		d.child(dn, "value", n.Value)
	}
}

func (d *dumper) VisitPrintStatement(n *PrintStatement) {
	name := "print"
	if n.Newline {
		name = "println"
	}
	dn := d.node(n, "PrintStatement", name)
	if n.Value != nil {
		d.child(dn, "value", n.Value)
	}
}

func (d *dumper) VisitEmptyStatement(n *EmptyStatement) {
	d.node(n, "EmptyStatement", "")
}
