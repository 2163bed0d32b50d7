package ast

import (
	"github.com/funvibe/jmm/internal/token"
	"github.com/funvibe/jmm/internal/typesystem"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
	GetToken() token.Token
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression. Its type is unset
// until analysis assigns one.
type Expression interface {
	Node
	expressionNode()
	GetType() typesystem.Type
	SetType(typesystem.Type)
}

// Line is the source line a node starts on.
func Line(n Node) int {
	return n.GetToken().Line
}

// Program is the root node of every AST our parser produces: one class
// whose main method holds Statements.
type Program struct {
	File       string // Source file path
	ClassName  string
	Statements []Statement

	// MaxLocals is the number of local slots main needs, set by analysis.
	MaxLocals int
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// typed is embedded by expressions to hold the analyzed type.
type typed struct {
	Type typesystem.Type
}

func (t *typed) GetType() typesystem.Type    { return t.Type }
func (t *typed) SetType(typ typesystem.Type) { t.Type = typ }

type Visitor interface {
	VisitProgram(node *Program)

	// Expressions
	VisitIntegerLiteral(node *IntegerLiteral)
	VisitLongLiteral(node *LongLiteral)
	VisitDoubleLiteral(node *DoubleLiteral)
	VisitCharLiteral(node *CharLiteral)
	VisitStringLiteral(node *StringLiteral)
	VisitBooleanLiteral(node *BooleanLiteral)
	VisitNullLiteral(node *NullLiteral)
	VisitIdentifier(node *Identifier)
	VisitBinaryExpression(node *BinaryExpression)
	VisitStringConcatenation(node *StringConcatenation)
	VisitComparisonExpression(node *ComparisonExpression)
	VisitLogicalExpression(node *LogicalExpression)
	VisitUnaryExpression(node *UnaryExpression)
	VisitConditionalExpression(node *ConditionalExpression)
	VisitAssignExpression(node *AssignExpression)
	VisitIncrementExpression(node *IncrementExpression)
	VisitNewExpression(node *NewExpression)

	// Statements
	VisitBlockStatement(node *BlockStatement)
	VisitVariableDeclaration(node *VariableDeclaration)
	VisitExpressionStatement(node *ExpressionStatement)
	VisitIfStatement(node *IfStatement)
	VisitWhileStatement(node *WhileStatement)
	VisitForStatement(node *ForStatement)
	VisitBreakStatement(node *BreakStatement)
	VisitContinueStatement(node *ContinueStatement)
	VisitLabeledStatement(node *LabeledStatement)
	VisitSwitchStatement(node *SwitchStatement)
	VisitSwitchGroup(node *SwitchGroup)
	VisitSwitchLabel(node *SwitchLabel)
	VisitTryStatement(node *TryStatement)
	VisitCatchClause(node *CatchClause)
	VisitThrowStatement(node *ThrowStatement)
	VisitReturnStatement(node *ReturnStatement)
	VisitPrintStatement(node *PrintStatement)
	VisitEmptyStatement(node *EmptyStatement)
}
