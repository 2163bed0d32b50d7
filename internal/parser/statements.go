package parser

import (
	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/token"
)

// parseStatement parses one statement. On a syntax error it returns nil
// and leaves the parser past the broken statement.
func (p *Parser) parseStatement() ast.Statement {
	stmt := p.parseStatementNoRecover()
	if p.recovering {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) parseStatementNoRecover() ast.Statement {
	switch p.curToken.Type {
	case token.LBRACE:
		if block := p.parseBlockStatement(); block != nil {
			return block
		}
		return nil
	case token.SEMICOLON:
		stmt := &ast.EmptyStatement{Token: p.curToken}
		p.nextToken()
		return stmt
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.DO:
		tok := p.curToken
		p.nextToken()
		p.errorAt(tok, "do statements are not supported")
		// skip the body; the trailing while (...); goes with recovery
		p.parseStatement()
		return nil
	case token.INT, token.LONG, token.DOUBLE, token.BOOLEAN, token.CHAR, token.FINAL:
		return p.parseDeclarationStatement()
	case token.IDENT:
		switch {
		case p.peekTokenIs(token.IDENT):
			return p.parseDeclarationStatement()
		case p.peekTokenIs(token.COLON):
			return p.parseLabeledStatement()
		case p.curToken.Lexeme == "System" && p.peekTokenIs(token.DOT):
			return p.parsePrintStatement()
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	if _, ok := p.expect(token.LBRACE); !ok {
		return nil
	}
	block.Statements = p.parseStatementsUntil(token.RBRACE)
	if _, ok := p.expect(token.RBRACE); !ok {
		return nil
	}
	return block
}

func isTypeKeyword(t token.TokenType) bool {
	switch t {
	case token.INT, token.LONG, token.DOUBLE, token.BOOLEAN, token.CHAR:
		return true
	}
	return false
}

func (p *Parser) parseDeclarationStatement() ast.Statement {
	decl := p.parseVariableDeclaration()
	if decl == nil {
		return nil
	}
	if _, ok := p.expect(token.SEMICOLON); !ok {
		return nil
	}
	return decl
}

// parseVariableDeclaration parses [final] Type a [= e], b ... up to, not
// including, the terminating semicolon.
func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	decl := &ast.VariableDeclaration{Token: p.curToken}
	if p.curTokenIs(token.FINAL) {
		p.nextToken()
	}

	switch {
	case isTypeKeyword(p.curToken.Type):
		decl.TypeName = p.curToken.Lexeme
		p.nextToken()
	case p.curTokenIs(token.IDENT):
		name, ok := p.parseQualifiedName()
		if !ok {
			return nil
		}
		decl.TypeName = name
	default:
		p.errorAt(p.curToken, "%s found where type sought", describe(p.curToken))
		return nil
	}

	for {
		nameTok, ok := p.expect(token.IDENT)
		if !ok {
			return nil
		}
		d := &ast.VariableDeclarator{Name: &ast.Identifier{Token: nameTok, Value: nameTok.Lexeme}}
		if p.curTokenIs(token.ASSIGN) {
			p.nextToken()
			if d.Value = p.parseExpression(LOWEST); d.Value == nil {
				return nil
			}
		}
		decl.Declarators = append(decl.Declarators, d)
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := p.parseStatementExpression()
	if stmt == nil {
		return nil
	}
	if _, ok := p.expect(token.SEMICOLON); !ok {
		return nil
	}
	return stmt
}

// parseStatementExpression parses an expression that may stand alone:
// an assignment, an increment or an instance creation.
func (p *Parser) parseStatementExpression() *ast.ExpressionStatement {
	tok := p.curToken
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	switch exp.(type) {
	case *ast.AssignExpression, *ast.IncrementExpression, *ast.NewExpression:
	default:
		p.errorAt(tok, "not a statement")
		return nil
	}
	return &ast.ExpressionStatement{Token: tok, Expression: exp}
}

// System.out.println(e) or System.out.print(e)
func (p *Parser) parsePrintStatement() ast.Statement {
	stmt := &ast.PrintStatement{Token: p.curToken}
	p.nextToken() // System
	p.nextToken() // .

	out, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}
	if out.Lexeme != "out" {
		p.errorAt(out, "unknown field System.%s", out.Lexeme)
		return nil
	}
	if _, ok := p.expect(token.DOT); !ok {
		return nil
	}
	method, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}
	switch method.Lexeme {
	case "println":
		stmt.Newline = true
	case "print":
	default:
		p.errorAt(method, "unknown method System.out.%s", method.Lexeme)
		return nil
	}

	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	switch {
	case len(args) == 1:
		stmt.Value = args[0]
	case len(args) > 1:
		p.errorAt(method, "too many arguments to %s", method.Lexeme)
		return nil
	case !stmt.Newline:
		p.errorAt(method, "print needs an argument")
		return nil
	}
	if _, ok := p.expect(token.SEMICOLON); !ok {
		return nil
	}
	return stmt
}
