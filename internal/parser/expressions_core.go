package parser

import (
	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.errorAt(p.curToken, "expression too complex")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.curPrecedence() {
		infix := p.infixParseFns[p.curToken.Type]
		if infix == nil {
			return leftExp
		}
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}
	return leftExp
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.errorAt(tok, "%s found where expression sought", describe(tok))
}

// parseInfixExpression handles the left-associative binary operators.
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()

	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return newBinary(tok, string(tok.Type), left, right)
}

// newBinary picks the node kind for a binary operator image.
func newBinary(tok token.Token, op string, left, right ast.Expression) ast.Expression {
	switch op {
	case token.LT, token.LTE, token.GT, token.GTE, token.EQ, token.NOT_EQ:
		return &ast.ComparisonExpression{Token: tok, Operator: op, Left: left, Right: right}
	case token.AND, token.OR:
		return &ast.LogicalExpression{Token: tok, Operator: op, Left: left, Right: right}
	default:
		return &ast.BinaryExpression{Token: tok, Operator: op, Left: left, Right: right}
	}
}

// compoundOperators maps a compound assignment to its binary operator.
var compoundOperators = map[token.TokenType]string{
	token.PLUS_ASSIGN:     token.PLUS,
	token.MINUS_ASSIGN:    token.MINUS,
	token.ASTERISK_ASSIGN: token.ASTERISK,
	token.SLASH_ASSIGN:    token.SLASH,
	token.PERCENT_ASSIGN:  token.PERCENT,
	token.AMP_ASSIGN:      token.AMPERSAND,
	token.PIPE_ASSIGN:     token.PIPE,
	token.CARET_ASSIGN:    token.CARET,
	token.LSHIFT_ASSIGN:   token.LSHIFT,
	token.RSHIFT_ASSIGN:   token.RSHIFT,
	token.URSHIFT_ASSIGN:  token.URSHIFT,
}

// parseAssignExpression is right-associative: a = b = c is a = (b = c).
// x op= e becomes x = x op e.
func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	target, ok := left.(*ast.Identifier)
	if !ok {
		p.errorAt(tok, "invalid assignment target %s", describe(left.GetToken()))
		return nil
	}
	p.nextToken()

	value := p.parseExpression(ASSIGN - 1)
	if value == nil {
		return nil
	}
	if op, compound := compoundOperators[tok.Type]; compound {
		use := &ast.Identifier{Token: target.Token, Value: target.Value}
		value = newBinary(tok, op, use, value)
	}
	return &ast.AssignExpression{Token: tok, Target: target, Value: value}
}

func (p *Parser) parseConditionalExpression(condition ast.Expression) ast.Expression {
	expr := &ast.ConditionalExpression{Token: p.curToken, Condition: condition}
	p.nextToken()

	if expr.Consequence = p.parseExpression(LOWEST); expr.Consequence == nil {
		return nil
	}
	if _, ok := p.expect(token.COLON); !ok {
		return nil
	}
	if expr.Alternative = p.parseExpression(CONDITIONAL - 1); expr.Alternative == nil {
		return nil
	}
	return expr
}

func (p *Parser) parsePostfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	target, ok := left.(*ast.Identifier)
	if !ok {
		p.errorAt(tok, "invalid argument to %s", tok.Lexeme)
		return nil
	}
	p.nextToken()
	return &ast.IncrementExpression{Token: tok, Target: target, Delta: delta(tok), Prefix: false}
}

func (p *Parser) parsePrefixIncrement() ast.Expression {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	target, ok := operand.(*ast.Identifier)
	if !ok {
		p.errorAt(tok, "invalid argument to %s", tok.Lexeme)
		return nil
	}
	return &ast.IncrementExpression{Token: tok, Target: target, Delta: delta(tok), Prefix: true}
}

func delta(tok token.Token) int {
	if tok.Type == token.DEC {
		return -1
	}
	return 1
}

// parsePrefixExpression handles unary plus, ! and ~.
func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	op := string(tok.Type)
	if tok.Type == token.UPLUS {
		op = token.PLUS
	}
	return &ast.UnaryExpression{Token: tok, Operator: op, Operand: operand}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if _, ok := p.expect(token.RPAREN); !ok {
		return nil
	}
	return exp
}

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.curToken
	p.nextToken()
	return &ast.Identifier{Token: tok, Value: tok.Lexeme}
}

// new Name(args) or new java.lang.Name(args)
func (p *Parser) parseNewExpression() ast.Expression {
	expr := &ast.NewExpression{Token: p.curToken}
	p.nextToken()

	name, ok := p.parseQualifiedName()
	if !ok {
		return nil
	}
	expr.ClassName = name
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	expr.Arguments = args
	return expr
}

func (p *Parser) parseQualifiedName() (string, bool) {
	first, ok := p.expect(token.IDENT)
	if !ok {
		return "", false
	}
	name := first.Lexeme
	for p.curTokenIs(token.DOT) {
		p.nextToken()
		part, ok := p.expect(token.IDENT)
		if !ok {
			return "", false
		}
		name += "." + part.Lexeme
	}
	return name, true
}

// parseExpressionList parses comma separated expressions and consumes the
// closing token.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool) {
	var list []ast.Expression
	if p.curTokenIs(end) {
		p.nextToken()
		return list, true
	}
	for {
		exp := p.parseExpression(LOWEST)
		if exp == nil {
			return nil, false
		}
		list = append(list, exp)
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if _, ok := p.expect(end); !ok {
		return nil, false
	}
	return list, true
}
