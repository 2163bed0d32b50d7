package parser

import (
	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/token"
)

// parseCondition parses a parenthesized condition.
func (p *Parser) parseCondition() ast.Expression {
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(token.RPAREN); !ok {
		return nil
	}
	return cond
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}
	p.nextToken()

	if stmt.Condition = p.parseCondition(); stmt.Condition == nil {
		return nil
	}
	if stmt.Consequence = p.parseStatement(); stmt.Consequence == nil {
		return nil
	}
	if p.curTokenIs(token.ELSE) {
		p.nextToken()
		if stmt.Alternative = p.parseStatement(); stmt.Alternative == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	p.nextToken()

	if stmt.Condition = p.parseCondition(); stmt.Condition == nil {
		return nil
	}
	if stmt.Body = p.parseStatement(); stmt.Body == nil {
		return nil
	}
	return stmt
}

// for (init; cond; update) body
func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}
	p.nextToken()
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}

	if !p.curTokenIs(token.SEMICOLON) {
		if p.startsDeclaration() {
			decl := p.parseVariableDeclaration()
			if decl == nil {
				return nil
			}
			stmt.Init = []ast.Statement{decl}
		} else {
			init, ok := p.parseStatementExpressionList()
			if !ok {
				return nil
			}
			stmt.Init = init
		}
	}
	if _, ok := p.expect(token.SEMICOLON); !ok {
		return nil
	}

	if !p.curTokenIs(token.SEMICOLON) {
		if stmt.Condition = p.parseExpression(LOWEST); stmt.Condition == nil {
			return nil
		}
	}
	if _, ok := p.expect(token.SEMICOLON); !ok {
		return nil
	}

	if !p.curTokenIs(token.RPAREN) {
		update, ok := p.parseStatementExpressionList()
		if !ok {
			return nil
		}
		stmt.Update = update
	}
	if _, ok := p.expect(token.RPAREN); !ok {
		return nil
	}

	if stmt.Body = p.parseStatement(); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) startsDeclaration() bool {
	return isTypeKeyword(p.curToken.Type) || p.curTokenIs(token.FINAL) ||
		(p.curTokenIs(token.IDENT) && p.peekTokenIs(token.IDENT))
}

func (p *Parser) parseStatementExpressionList() ([]ast.Statement, bool) {
	var list []ast.Statement
	for {
		stmt := p.parseStatementExpression()
		if stmt == nil {
			return nil, false
		}
		list = append(list, stmt)
		if !p.curTokenIs(token.COMMA) {
			return list, true
		}
		p.nextToken()
	}
}

func (p *Parser) parseBreakStatement() ast.Statement {
	stmt := &ast.BreakStatement{Token: p.curToken}
	p.nextToken()
	if p.curTokenIs(token.IDENT) {
		stmt.Label = p.curToken.Lexeme
		p.nextToken()
	}
	if _, ok := p.expect(token.SEMICOLON); !ok {
		return nil
	}
	return stmt
}

func (p *Parser) parseContinueStatement() ast.Statement {
	stmt := &ast.ContinueStatement{Token: p.curToken}
	p.nextToken()
	if p.curTokenIs(token.IDENT) {
		stmt.Label = p.curToken.Lexeme
		p.nextToken()
	}
	if _, ok := p.expect(token.SEMICOLON); !ok {
		return nil
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	p.nextToken()
	if !p.curTokenIs(token.SEMICOLON) {
		if stmt.Value = p.parseExpression(LOWEST); stmt.Value == nil {
			return nil
		}
	}
	if _, ok := p.expect(token.SEMICOLON); !ok {
		return nil
	}
	return stmt
}

func (p *Parser) parseThrowStatement() ast.Statement {
	stmt := &ast.ThrowStatement{Token: p.curToken}
	p.nextToken()
	if stmt.Value = p.parseExpression(LOWEST); stmt.Value == nil {
		return nil
	}
	if _, ok := p.expect(token.SEMICOLON); !ok {
		return nil
	}
	return stmt
}

func (p *Parser) parseLabeledStatement() ast.Statement {
	stmt := &ast.LabeledStatement{Token: p.curToken, Label: p.curToken.Lexeme}
	p.nextToken() // label
	p.nextToken() // :
	if stmt.Body = p.parseStatement(); stmt.Body == nil {
		return nil
	}
	return stmt
}

// switch (e) { case 1: case 2: ... default: ... }
func (p *Parser) parseSwitchStatement() ast.Statement {
	stmt := &ast.SwitchStatement{Token: p.curToken}
	p.nextToken()

	if stmt.Discriminant = p.parseCondition(); stmt.Discriminant == nil {
		return nil
	}
	if _, ok := p.expect(token.LBRACE); !ok {
		return nil
	}

	for p.curTokenIs(token.CASE) || p.curTokenIs(token.DEFAULT) {
		group := &ast.SwitchGroup{Token: p.curToken}
		for p.curTokenIs(token.CASE) || p.curTokenIs(token.DEFAULT) {
			label := p.parseSwitchLabel()
			if label == nil {
				return nil
			}
			group.Labels = append(group.Labels, label)
		}
		group.Statements = p.parseStatementsUntil(token.CASE, token.DEFAULT, token.RBRACE)
		stmt.Groups = append(stmt.Groups, group)
	}

	if _, ok := p.expect(token.RBRACE); !ok {
		return nil
	}
	return stmt
}

func (p *Parser) parseSwitchLabel() *ast.SwitchLabel {
	label := &ast.SwitchLabel{Token: p.curToken}
	isCase := p.curTokenIs(token.CASE)
	p.nextToken()
	if isCase {
		if label.Value = p.parseExpression(LOWEST); label.Value == nil {
			return nil
		}
	}
	if _, ok := p.expect(token.COLON); !ok {
		return nil
	}
	return label
}

// try { } catch (T e) { } ... finally { }
func (p *Parser) parseTryStatement() ast.Statement {
	stmt := &ast.TryStatement{Token: p.curToken}
	p.nextToken()

	if stmt.Block = p.parseBlockStatement(); stmt.Block == nil {
		return nil
	}
	for p.curTokenIs(token.CATCH) {
		clause := p.parseCatchClause()
		if clause == nil {
			return nil
		}
		stmt.Catches = append(stmt.Catches, clause)
	}
	if p.curTokenIs(token.FINALLY) {
		p.nextToken()
		if stmt.Finally = p.parseBlockStatement(); stmt.Finally == nil {
			return nil
		}
	}
	if len(stmt.Catches) == 0 && stmt.Finally == nil {
		p.errorAt(stmt.Token, "'try' without 'catch' or 'finally'")
		return nil
	}
	return stmt
}

func (p *Parser) parseCatchClause() *ast.CatchClause {
	clause := &ast.CatchClause{Token: p.curToken}
	p.nextToken()
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}
	typeName, ok := p.parseQualifiedName()
	if !ok {
		return nil
	}
	clause.TypeName = typeName
	param, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}
	clause.Param = &ast.Identifier{Token: param, Value: param.Lexeme}
	if _, ok := p.expect(token.RPAREN); !ok {
		return nil
	}
	if clause.Body = p.parseBlockStatement(); clause.Body == nil {
		return nil
	}
	return clause
}
