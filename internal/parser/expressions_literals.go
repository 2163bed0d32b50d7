package parser

import (
	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/token"
)

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.curToken
	p.nextToken()
	return &ast.IntegerLiteral{Token: tok, Value: tok.Lexeme}
}

func (p *Parser) parseLongLiteral() ast.Expression {
	tok := p.curToken
	p.nextToken()
	return &ast.LongLiteral{Token: tok, Value: tok.Lexeme}
}

func (p *Parser) parseDoubleLiteral() ast.Expression {
	tok := p.curToken
	p.nextToken()
	return &ast.DoubleLiteral{Token: tok, Value: tok.Lexeme}
}

func (p *Parser) parseCharLiteral() ast.Expression {
	tok := p.curToken
	p.nextToken()
	return &ast.CharLiteral{Token: tok, Value: tok.Lexeme}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.curToken
	p.nextToken()
	return &ast.StringLiteral{Token: tok, Value: tok.Lexeme}
}

func (p *Parser) parseBoolean() ast.Expression {
	tok := p.curToken
	p.nextToken()
	return &ast.BooleanLiteral{Token: tok, Value: tok.Type == token.TRUE}
}

func (p *Parser) parseNull() ast.Expression {
	tok := p.curToken
	p.nextToken()
	return &ast.NullLiteral{Token: tok}
}

// parseNegation folds a minus sign into a directly following numeric
// literal, so -2147483648 is one int literal. Otherwise it is a unary
// minus.
func (p *Parser) parseNegation() ast.Expression {
	minus := p.curToken
	p.nextToken()

	lit := p.curToken
	var folded ast.Expression
	switch lit.Type {
	case token.INT_LITERAL:
		folded = &ast.IntegerLiteral{Token: minus, Value: "-" + lit.Lexeme}
	case token.LONG_LITERAL:
		folded = &ast.LongLiteral{Token: minus, Value: "-" + lit.Lexeme}
	case token.DOUBLE_LITERAL:
		folded = &ast.DoubleLiteral{Token: minus, Value: "-" + lit.Lexeme}
	}
	// -1++ stays a (rejected) unary minus over 1++
	if folded != nil && precedences[p.peekToken.Type] != POSTFIX {
		p.nextToken()
		return folded
	}

	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.UnaryExpression{Token: minus, Operator: token.MINUS, Operand: operand}
}
