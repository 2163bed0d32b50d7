package ast

import (
	"github.com/funvibe/jmm/internal/token"
	"github.com/funvibe/jmm/internal/typesystem"
)

// BlockStatement is { statements } and opens a scope.
type BlockStatement struct {
	Token      token.Token // the '{'
	Statements []Statement
}

func (bs *BlockStatement) Accept(v Visitor)      { v.VisitBlockStatement(bs) }
func (bs *BlockStatement) statementNode()        {}
func (bs *BlockStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token { return bs.Token }

// VariableDeclaration declares one or more locals of the same type:
// int a = 1, b;
type VariableDeclaration struct {
	Token       token.Token
	TypeName    string
	Type        typesystem.Type // resolved from TypeName by analysis
	Declarators []*VariableDeclarator
}

type VariableDeclarator struct {
	Name  *Identifier
	Value Expression // nil means the type's zero value
}

func (vd *VariableDeclaration) Accept(v Visitor)      { v.VisitVariableDeclaration(vd) }
func (vd *VariableDeclaration) statementNode()        {}
func (vd *VariableDeclaration) TokenLiteral() string  { return vd.Token.Lexeme }
func (vd *VariableDeclaration) GetToken() token.Token { return vd.Token }

// ExpressionStatement evaluates Expression and discards its value.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) Accept(v Visitor)      { v.VisitExpressionStatement(es) }
func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence Statement
	Alternative Statement // nil without else
}

func (is *IfStatement) Accept(v Visitor)      { v.VisitIfStatement(is) }
func (is *IfStatement) statementNode()        {}
func (is *IfStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token { return is.Token }

type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) Accept(v Visitor)      { v.VisitWhileStatement(ws) }
func (ws *WhileStatement) statementNode()        {}
func (ws *WhileStatement) TokenLiteral() string  { return ws.Token.Lexeme }
func (ws *WhileStatement) GetToken() token.Token { return ws.Token }

// ForStatement is for (Init; Condition; Update) Body. Init holds either
// one variable declaration or expression statements; a nil Condition
// loops forever. Init variables are scoped to the loop.
type ForStatement struct {
	Token     token.Token
	Init      []Statement
	Condition Expression
	Update    []Statement
	Body      Statement
}

func (fs *ForStatement) Accept(v Visitor)      { v.VisitForStatement(fs) }
func (fs *ForStatement) statementNode()        {}
func (fs *ForStatement) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *ForStatement) GetToken() token.Token { return fs.Token }

type BreakStatement struct {
	Token token.Token
	Label string // empty for the innermost loop or switch
}

func (bs *BreakStatement) Accept(v Visitor)      { v.VisitBreakStatement(bs) }
func (bs *BreakStatement) statementNode()        {}
func (bs *BreakStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BreakStatement) GetToken() token.Token { return bs.Token }

type ContinueStatement struct {
	Token token.Token
	Label string // empty for the innermost loop
}

func (cs *ContinueStatement) Accept(v Visitor)      { v.VisitContinueStatement(cs) }
func (cs *ContinueStatement) statementNode()        {}
func (cs *ContinueStatement) TokenLiteral() string  { return cs.Token.Lexeme }
func (cs *ContinueStatement) GetToken() token.Token { return cs.Token }

// LabeledStatement is label: Body
type LabeledStatement struct {
	Token token.Token
	Label string
	Body  Statement
}

func (ls *LabeledStatement) Accept(v Visitor)      { v.VisitLabeledStatement(ls) }
func (ls *LabeledStatement) statementNode()        {}
func (ls *LabeledStatement) TokenLiteral() string  { return ls.Token.Lexeme }
func (ls *LabeledStatement) GetToken() token.Token { return ls.Token }

// SwitchStatement dispatches on an int or char discriminant. Control
// falls through from one group into the next unless it breaks.
type SwitchStatement struct {
	Token        token.Token
	Discriminant Expression
	Groups       []*SwitchGroup

	// Slot holds the evaluated discriminant; assigned by analysis.
	Slot int
}

func (ss *SwitchStatement) Accept(v Visitor)      { v.VisitSwitchStatement(ss) }
func (ss *SwitchStatement) statementNode()        {}
func (ss *SwitchStatement) TokenLiteral() string  { return ss.Token.Lexeme }
func (ss *SwitchStatement) GetToken() token.Token { return ss.Token }

// SwitchGroup is one or more labels followed by statements.
type SwitchGroup struct {
	Token      token.Token
	Labels     []*SwitchLabel
	Statements []Statement
}

func (sg *SwitchGroup) Accept(v Visitor)      { v.VisitSwitchGroup(sg) }
func (sg *SwitchGroup) TokenLiteral() string  { return sg.Token.Lexeme }
func (sg *SwitchGroup) GetToken() token.Token { return sg.Token }

// SwitchLabel is case Value: or, with a nil Value, default:
type SwitchLabel struct {
	Token token.Token
	Value Expression
}

func (sl *SwitchLabel) IsDefault() bool { return sl.Value == nil }

func (sl *SwitchLabel) Accept(v Visitor)      { v.VisitSwitchLabel(sl) }
func (sl *SwitchLabel) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *SwitchLabel) GetToken() token.Token { return sl.Token }

// TryStatement is try Block, zero or more catch clauses and an optional
// finally block. At least one of the two is present.
type TryStatement struct {
	Token   token.Token
	Block   *BlockStatement
	Catches []*CatchClause
	Finally *BlockStatement

	// Slot holds an in-flight exception while finally runs in the
	// catch-all handler; assigned by analysis when Finally is set.
	Slot int
}

func (ts *TryStatement) Accept(v Visitor)      { v.VisitTryStatement(ts) }
func (ts *TryStatement) statementNode()        {}
func (ts *TryStatement) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *TryStatement) GetToken() token.Token { return ts.Token }

// CatchClause is catch (TypeName Param) Body
type CatchClause struct {
	Token    token.Token
	TypeName string
	Type     typesystem.Type // resolved by analysis
	Param    *Identifier
	Body     *BlockStatement
}

func (cc *CatchClause) Accept(v Visitor)      { v.VisitCatchClause(cc) }
func (cc *CatchClause) TokenLiteral() string  { return cc.Token.Lexeme }
func (cc *CatchClause) GetToken() token.Token { return cc.Token }

type ThrowStatement struct {
	Token token.Token
	Value Expression
}

func (ts *ThrowStatement) Accept(v Visitor)      { v.VisitThrowStatement(ts) }
func (ts *ThrowStatement) statementNode()        {}
func (ts *ThrowStatement) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *ThrowStatement) GetToken() token.Token { return ts.Token }

type ReturnStatement struct {
	Token token.Token
	Value Expression // always nil in a valid program: main is void
}

func (rs *ReturnStatement) Accept(v Visitor)      { v.VisitReturnStatement(rs) }
func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }

// PrintStatement is System.out.println(Value) or System.out.print(Value).
type PrintStatement struct {
	Token   token.Token
	Newline bool
	Value   Expression // nil for println()
}

func (ps *PrintStatement) Accept(v Visitor)      { v.VisitPrintStatement(ps) }
func (ps *PrintStatement) statementNode()        {}
func (ps *PrintStatement) TokenLiteral() string  { return ps.Token.Lexeme }
func (ps *PrintStatement) GetToken() token.Token { return ps.Token }

type EmptyStatement struct {
	Token token.Token
}

func (es *EmptyStatement) Accept(v Visitor)      { v.VisitEmptyStatement(es) }
func (es *EmptyStatement) statementNode()        {}
func (es *EmptyStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *EmptyStatement) GetToken() token.Token { return es.Token }
