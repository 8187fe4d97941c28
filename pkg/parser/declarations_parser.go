package parser

import (
	"fmt"

	"flex/interpreter-go/pkg/ast"
	"flex/interpreter-go/pkg/token"
)

// declaration parses one declaration. It returns nil when the declaration was
// malformed; the error has already been reported and the parser synchronized.
func (p *Parser) declaration() ast.Statement {
	stmt, err := p.parseDeclaration()
	if err != nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) parseDeclaration() (ast.Statement, error) {
	switch {
	case p.match(token.Class):
		return p.classDeclaration()
	case p.check(token.Fun) && p.checkNext(token.Identifier):
		p.advance()
		return p.functionDeclaration("function")
	case p.match(token.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() (ast.Statement, error) {
	id := p.ids.Next()
	name, err := p.consume(token.Identifier, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *ast.Variable
	if p.match(token.Less) {
		superName, err := p.consume(token.Identifier, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = ast.NewVariable(p.ids.Next(), superName)
	}

	if _, err := p.consume(token.LeftBrace, "Expect '{' before class body."); err != nil {
		return nil, err
	}
	var methods []*ast.FunctionDefinition
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		method, err := p.functionDeclaration("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	if _, err := p.consume(token.RightBrace, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return ast.NewClassDefinition(id, name, superclass, methods), nil
}

// functionDeclaration parses `IDENT "(" params? ")" block`; kind names the
// construct in error messages.
func (p *Parser) functionDeclaration(kind string) (*ast.FunctionDefinition, error) {
	id := p.ids.Next()
	name, err := p.consume(token.Identifier, fmt.Sprintf("Expect %s name.", kind))
	if err != nil {
		return nil, err
	}
	fn, err := p.functionBody(kind)
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDefinition(id, name, fn), nil
}

// functionBody parses the parameter list and body shared by named
// declarations, methods and anonymous `fun` expressions.
func (p *Parser) functionBody(kind string) (*ast.LambdaExpression, error) {
	id := p.ids.Next()
	if _, err := p.consume(token.LeftParen, fmt.Sprintf("Expect '(' after %s name.", kind)); err != nil {
		return nil, err
	}
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArity {
				p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArity))
			}
			param, err := p.consume(token.Identifier, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftBrace, fmt.Sprintf("Expect '{' before %s body.", kind)); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewLambdaExpression(id, params, body), nil
}

func (p *Parser) varDeclaration() (ast.Statement, error) {
	id := p.ids.Next()
	name, err := p.consume(token.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var initializer ast.Expression
	if p.match(token.Equal) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return ast.NewVariableDeclaration(id, name, initializer), nil
}
