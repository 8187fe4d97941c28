package parser

import (
	"flex/interpreter-go/pkg/ast"
	"flex/interpreter-go/pkg/token"
)

func (p *Parser) statement() (ast.Statement, error) {
	switch {
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.Break):
		return p.breakStatement()
	case p.match(token.LeftBrace):
		id := p.ids.Next()
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return ast.NewBlockStatement(id, body), nil
	default:
		return p.expressionStatement()
	}
}

// block parses declarations up to and including the closing '}'. The
// opening brace has already been consumed.
func (p *Parser) block() ([]ast.Statement, error) {
	var statements []ast.Statement
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	if _, err := p.consume(token.RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return statements, nil
}

// forStatement desugars `for (init; cond; step) body` into
// `{ init; while (cond) { body; step; } }`.
func (p *Parser) forStatement() (ast.Statement, error) {
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var initializer ast.Statement
	var err error
	switch {
	case p.match(token.Semicolon):
	case p.match(token.Var):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition ast.Expression
	if !p.check(token.Semicolon) {
		if condition, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment ast.Expression
	if !p.check(token.RightParen) {
		if increment, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		step := ast.NewExpressionStatement(p.ids.Next(), increment)
		body = ast.NewBlockStatement(p.ids.Next(), []ast.Statement{body, step})
	}
	if condition == nil {
		condition = ast.NewLiteral(p.ids.Next(), true)
	}
	var loop ast.Statement = ast.NewWhileLoop(p.ids.Next(), condition, body)
	if initializer != nil {
		loop = ast.NewBlockStatement(p.ids.Next(), []ast.Statement{initializer, loop})
	}
	return loop, nil
}

func (p *Parser) ifStatement() (ast.Statement, error) {
	id := p.ids.Next()
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var els ast.Statement
	if p.match(token.Else) {
		if els, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return ast.NewIfStatement(id, condition, then, els), nil
}

func (p *Parser) printStatement() (ast.Statement, error) {
	id := p.ids.Next()
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return ast.NewPrintStatement(id, value), nil
}

func (p *Parser) returnStatement() (ast.Statement, error) {
	id := p.ids.Next()
	keyword := p.previous()
	var value ast.Expression
	if !p.check(token.Semicolon) {
		var err error
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return ast.NewReturnStatement(id, keyword, value), nil
}

func (p *Parser) whileStatement() (ast.Statement, error) {
	id := p.ids.Next()
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileLoop(id, condition, body), nil
}

func (p *Parser) breakStatement() (ast.Statement, error) {
	id := p.ids.Next()
	keyword := p.previous()
	if _, err := p.consume(token.Semicolon, "Expect ';' after 'break'."); err != nil {
		return nil, err
	}
	return ast.NewBreakStatement(id, keyword), nil
}

func (p *Parser) expressionStatement() (ast.Statement, error) {
	id := p.ids.Next()
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return ast.NewExpressionStatement(id, expr), nil
}
