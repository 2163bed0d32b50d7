package ast

import (
	"github.com/funvibe/jmm/internal/token"
)

// Literals keep their source spelling in Value; conversion to a runtime
// value happens at code generation.

type IntegerLiteral struct {
	typed
	Token token.Token
	Value string
}

func (il *IntegerLiteral) Accept(v Visitor)      { v.VisitIntegerLiteral(il) }
func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }

type LongLiteral struct {
	typed
	Token token.Token
	Value string // with the l/L suffix
}

func (ll *LongLiteral) Accept(v Visitor)      { v.VisitLongLiteral(ll) }
func (ll *LongLiteral) expressionNode()       {}
func (ll *LongLiteral) TokenLiteral() string  { return ll.Token.Lexeme }
func (ll *LongLiteral) GetToken() token.Token { return ll.Token }

type DoubleLiteral struct {
	typed
	Token token.Token
	Value string // may carry a d/D suffix or exponent
}

func (dl *DoubleLiteral) Accept(v Visitor)      { v.VisitDoubleLiteral(dl) }
func (dl *DoubleLiteral) expressionNode()       {}
func (dl *DoubleLiteral) TokenLiteral() string  { return dl.Token.Lexeme }
func (dl *DoubleLiteral) GetToken() token.Token { return dl.Token }

type CharLiteral struct {
	typed
	Token token.Token
	Value string // quoted, escapes undecoded: '\n'
}

func (cl *CharLiteral) Accept(v Visitor)      { v.VisitCharLiteral(cl) }
func (cl *CharLiteral) expressionNode()       {}
func (cl *CharLiteral) TokenLiteral() string  { return cl.Token.Lexeme }
func (cl *CharLiteral) GetToken() token.Token { return cl.Token }

type StringLiteral struct {
	typed
	Token token.Token
	Value string // quoted, escapes undecoded
}

func (sl *StringLiteral) Accept(v Visitor)      { v.VisitStringLiteral(sl) }
func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

type BooleanLiteral struct {
	typed
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) Accept(v Visitor)      { v.VisitBooleanLiteral(bl) }
func (bl *BooleanLiteral) expressionNode()       {}
func (bl *BooleanLiteral) TokenLiteral() string  { return bl.Token.Lexeme }
func (bl *BooleanLiteral) GetToken() token.Token { return bl.Token }

type NullLiteral struct {
	typed
	Token token.Token
}

func (nl *NullLiteral) Accept(v Visitor)      { v.VisitNullLiteral(nl) }
func (nl *NullLiteral) expressionNode()       {}
func (nl *NullLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NullLiteral) GetToken() token.Token { return nl.Token }

// Identifier is a use of a local variable. Slot is assigned by analysis.
type Identifier struct {
	typed
	Token token.Token
	Value string
	Slot  int
}

func (i *Identifier) Accept(v Visitor)      { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }

// BinaryExpression is an arithmetic, bitwise or shift operation.
// Operator is the operator image: + - * / % << >> >>> & | ^
type BinaryExpression struct {
	typed
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) Accept(v Visitor)      { v.VisitBinaryExpression(be) }
func (be *BinaryExpression) expressionNode()       {}
func (be *BinaryExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BinaryExpression) GetToken() token.Token { return be.Token }

// StringConcatenation replaces a '+' with a String operand during analysis.
type StringConcatenation struct {
	typed
	Token token.Token
	Left  Expression
	Right Expression
}

func (sc *StringConcatenation) Accept(v Visitor)      { v.VisitStringConcatenation(sc) }
func (sc *StringConcatenation) expressionNode()       {}
func (sc *StringConcatenation) TokenLiteral() string  { return sc.Token.Lexeme }
func (sc *StringConcatenation) GetToken() token.Token { return sc.Token }

// ComparisonExpression is one of < <= > >= == !=
type ComparisonExpression struct {
	typed
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (ce *ComparisonExpression) Accept(v Visitor)      { v.VisitComparisonExpression(ce) }
func (ce *ComparisonExpression) expressionNode()       {}
func (ce *ComparisonExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *ComparisonExpression) GetToken() token.Token { return ce.Token }

// LogicalExpression is && or ||, short-circuiting.
type LogicalExpression struct {
	typed
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (le *LogicalExpression) Accept(v Visitor)      { v.VisitLogicalExpression(le) }
func (le *LogicalExpression) expressionNode()       {}
func (le *LogicalExpression) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LogicalExpression) GetToken() token.Token { return le.Token }

// UnaryExpression is one of - + ! ~ applied to Operand.
type UnaryExpression struct {
	typed
	Token    token.Token
	Operator string
	Operand  Expression
}

func (ue *UnaryExpression) Accept(v Visitor)      { v.VisitUnaryExpression(ue) }
func (ue *UnaryExpression) expressionNode()       {}
func (ue *UnaryExpression) TokenLiteral() string  { return ue.Token.Lexeme }
func (ue *UnaryExpression) GetToken() token.Token { return ue.Token }

// ConditionalExpression is cond ? a : b
type ConditionalExpression struct {
	typed
	Token       token.Token // the '?'
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (ce *ConditionalExpression) Accept(v Visitor)      { v.VisitConditionalExpression(ce) }
func (ce *ConditionalExpression) expressionNode()       {}
func (ce *ConditionalExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *ConditionalExpression) GetToken() token.Token { return ce.Token }

// AssignExpression stores Value into a local. Compound assignments are
// desugared by the parser.
type AssignExpression struct {
	typed
	Token  token.Token
	Target *Identifier
	Value  Expression
}

func (ae *AssignExpression) Accept(v Visitor)      { v.VisitAssignExpression(ae) }
func (ae *AssignExpression) expressionNode()       {}
func (ae *AssignExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *AssignExpression) GetToken() token.Token { return ae.Token }

// IncrementExpression is ++x, --x, x++ or x--.
type IncrementExpression struct {
	typed
	Token  token.Token
	Target *Identifier
	Delta  int // +1 or -1
	Prefix bool
}

func (ie *IncrementExpression) Accept(v Visitor)      { v.VisitIncrementExpression(ie) }
func (ie *IncrementExpression) expressionNode()       {}
func (ie *IncrementExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IncrementExpression) GetToken() token.Token { return ie.Token }

// NewExpression instantiates a known class: new C() or new C("message").
type NewExpression struct {
	typed
	Token     token.Token
	ClassName string
	Arguments []Expression
}

func (ne *NewExpression) Accept(v Visitor)      { v.VisitNewExpression(ne) }
func (ne *NewExpression) expressionNode()       {}
func (ne *NewExpression) TokenLiteral() string  { return ne.Token.Lexeme }
func (ne *NewExpression) GetToken() token.Token { return ne.Token }
