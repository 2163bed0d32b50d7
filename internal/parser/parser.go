package parser

import (
	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/diagnostics"
	"github.com/funvibe/jmm/internal/token"
)

const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -= ...
	CONDITIONAL // ?:
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BIT_OR      // |
	BIT_XOR     // ^
	BIT_AND     // &
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SHIFT       // << >> >>>
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x ++x
	POSTFIX     // x++
)

// MaxRecursionDepth bounds expression nesting.
const MaxRecursionDepth = 500

var precedences = map[token.TokenType]int{
	token.ASSIGN:          ASSIGN,
	token.PLUS_ASSIGN:     ASSIGN,
	token.MINUS_ASSIGN:    ASSIGN,
	token.ASTERISK_ASSIGN: ASSIGN,
	token.SLASH_ASSIGN:    ASSIGN,
	token.PERCENT_ASSIGN:  ASSIGN,
	token.AMP_ASSIGN:      ASSIGN,
	token.PIPE_ASSIGN:     ASSIGN,
	token.CARET_ASSIGN:    ASSIGN,
	token.LSHIFT_ASSIGN:   ASSIGN,
	token.RSHIFT_ASSIGN:   ASSIGN,
	token.URSHIFT_ASSIGN:  ASSIGN,
	token.QUESTION:        CONDITIONAL,
	token.OR:              LOGICAL_OR,
	token.AND:             LOGICAL_AND,
	token.PIPE:            BIT_OR,
	token.CARET:           BIT_XOR,
	token.AMPERSAND:       BIT_AND,
	token.EQ:              EQUALS,
	token.NOT_EQ:          EQUALS,
	token.LT:              LESSGREATER,
	token.GT:              LESSGREATER,
	token.LTE:             LESSGREATER,
	token.GTE:             LESSGREATER,
	token.LSHIFT:          SHIFT,
	token.RSHIFT:          SHIFT,
	token.URSHIFT:         SHIFT,
	token.PLUS:            SUM,
	token.MINUS:           SUM,
	token.ASTERISK:        PRODUCT,
	token.SLASH:           PRODUCT,
	token.PERCENT:         PRODUCT,
	token.INC:             POSTFIX,
	token.DEC:             POSTFIX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// TokenSource is where the parser pulls tokens from; a lexer.Scanner.
type TokenSource interface {
	NextToken() token.Token
}

// Parser is a recursive-descent parser with Pratt-style expressions.
// curToken is the next token to consume and peekToken the one after it;
// parse functions consume exactly the tokens of their construct.
type Parser struct {
	tokens TokenSource
	sink   *diagnostics.Sink

	curToken  token.Token
	peekToken token.Token
	consumed  int

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	depth int
	// set after a syntax error until the next statement boundary, so one
	// mistake yields one diagnostic
	recovering bool
}

func New(tokens TokenSource, sink *diagnostics.Sink) *Parser {
	p := &Parser{tokens: tokens, sink: sink}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT_LITERAL, p.parseIntegerLiteral)
	p.registerPrefix(token.LONG_LITERAL, p.parseLongLiteral)
	p.registerPrefix(token.DOUBLE_LITERAL, p.parseDoubleLiteral)
	p.registerPrefix(token.CHAR_LITERAL, p.parseCharLiteral)
	p.registerPrefix(token.STRING_LITERAL, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.MINUS, p.parseNegation)
	p.registerPrefix(token.UPLUS, p.parsePrefixExpression)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.TILDE, p.parsePrefixExpression)
	p.registerPrefix(token.INC, p.parsePrefixIncrement)
	p.registerPrefix(token.DEC, p.parsePrefixIncrement)
	p.registerPrefix(token.NEW, p.parseNewExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for tt, prec := range precedences {
		switch prec {
		case ASSIGN:
			p.registerInfix(tt, p.parseAssignExpression)
		case CONDITIONAL:
			p.registerInfix(tt, p.parseConditionalExpression)
		case POSTFIX:
			p.registerInfix(tt, p.parsePostfixExpression)
		default:
			p.registerInfix(tt, p.parseInfixExpression)
		}
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	p.consumed = 0
	return p
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.tokens.NextToken()
	p.consumed++
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// expect consumes curToken if it has type t, and reports an error
// otherwise.
func (p *Parser) expect(t token.TokenType) (token.Token, bool) {
	tok := p.curToken
	if tok.Type != t {
		p.errorAt(tok, "%s found where %s sought", describe(tok), string(t))
		return tok, false
	}
	p.nextToken()
	return tok, true
}

func (p *Parser) errorAt(tok token.Token, format string, args ...any) {
	if p.recovering {
		return
	}
	p.recovering = true
	p.sink.Report(diagnostics.ErrP001, tok.Line, format, args...)
}

// synchronize skips to the end of the broken statement: past the next
// ';', or up to a '}' or the end of input.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) && !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			break
		}
		p.nextToken()
	}
	p.recovering = false
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return token.EOF
	case token.STRING_LITERAL, token.CHAR_LITERAL:
		return tok.Lexeme
	}
	if tok.Lexeme != "" {
		return tok.Lexeme
	}
	return string(tok.Type)
}

// ParseProgram parses either a class holding a static main method or a
// bare statement list. defaultClass names the class in the second case.
func (p *Parser) ParseProgram(defaultClass string) *ast.Program {
	program := &ast.Program{ClassName: defaultClass}

	if p.curTokenIs(token.CLASS) || (p.curTokenIs(token.PUBLIC) && p.peekTokenIs(token.CLASS)) {
		p.parseClassDeclaration(program)
		return program
	}

	program.Statements = p.parseStatementsUntil(token.EOF)
	return program
}

// parseStatementsUntil parses statements until curToken has one of the
// given types (or input ends). It never consumes the terminator.
func (p *Parser) parseStatementsUntil(terminators ...token.TokenType) []ast.Statement {
	var stmts []ast.Statement
	for !p.curTokenIs(token.EOF) && !p.curIsOneOf(terminators) {
		before, reported := p.consumed, p.sink.Len()
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.consumed == before {
			// a stray token no statement can start with, such as an
			// unbalanced '}'
			if p.sink.Len() == reported {
				p.errorAt(p.curToken, "%s found where statement sought", describe(p.curToken))
			}
			p.nextToken()
			p.recovering = false
		}
	}
	return stmts
}

func (p *Parser) curIsOneOf(types []token.TokenType) bool {
	for _, t := range types {
		if p.curTokenIs(t) {
			return true
		}
	}
	return false
}

// [public] class Name { public static void main(String[] args) { ... } }
func (p *Parser) parseClassDeclaration(program *ast.Program) {
	if p.curTokenIs(token.PUBLIC) {
		p.nextToken()
	}
	p.nextToken() // class
	name, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		return
	}
	program.ClassName = name.Lexeme
	if _, ok := p.expect(token.LBRACE); !ok {
		return
	}

	body := p.parseMainMethod()
	if body != nil {
		program.Statements = body.Statements
	}

	if _, ok := p.expect(token.RBRACE); ok && !p.curTokenIs(token.EOF) {
		p.errorAt(p.curToken, "%s found where %s sought", describe(p.curToken), token.EOF)
	}
}

func (p *Parser) parseMainMethod() *ast.BlockStatement {
	start := p.curToken
	public, static := false, false
	for modifiers := true; modifiers; {
		switch p.curToken.Type {
		case token.PUBLIC:
			public = true
		case token.STATIC:
			static = true
		case token.FINAL:
		default:
			modifiers = false
			continue
		}
		p.nextToken()
	}

	if _, ok := p.expect(token.VOID); !ok {
		return nil
	}
	name, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}
	if name.Lexeme != "main" {
		p.errorAt(name, "only a main method is supported, found %s", name.Lexeme)
		return nil
	}
	if !public || !static {
		p.errorAt(start, "main must be public static")
	}
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}
	if !p.parseMainParameter() {
		return nil
	}
	if _, ok := p.expect(token.RPAREN); !ok {
		return nil
	}
	return p.parseBlockStatement()
}

// String[] args or String args[]
func (p *Parser) parseMainParameter() bool {
	typ, ok := p.expect(token.IDENT)
	if !ok {
		return false
	}
	if typ.Lexeme != "String" {
		p.errorAt(typ, "main parameter must be String[]")
		return false
	}
	brackets := func() bool {
		if _, ok := p.expect(token.LBRACKET); !ok {
			return false
		}
		_, ok := p.expect(token.RBRACKET)
		return ok
	}
	if p.curTokenIs(token.LBRACKET) {
		if !brackets() {
			return false
		}
		_, ok := p.expect(token.IDENT)
		return ok
	}
	if _, ok := p.expect(token.IDENT); !ok {
		return false
	}
	return brackets()
}
