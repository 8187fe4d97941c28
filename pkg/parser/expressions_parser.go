package parser

import (
	"fmt"

	"flex/interpreter-go/pkg/ast"
	"flex/interpreter-go/pkg/token"
)

func (p *Parser) expression() (ast.Expression, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expression, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.match(token.Equal) {
		return expr, nil
	}

	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	switch target := expr.(type) {
	case *ast.Variable:
		return ast.NewAssignmentExpression(p.ids.Next(), target.Name, value), nil
	case *ast.MemberAccessExpression:
		return ast.NewMemberAssignmentExpression(p.ids.Next(), target.Object, target.Name, value), nil
	}
	// Reported without unwinding: the parser is not confused.
	p.errorAt(equals, "Invalid assignment target.")
	return expr, nil
}

func (p *Parser) or() (ast.Expression, error) {
	return p.logical(p.and, token.Or)
}

func (p *Parser) and() (ast.Expression, error) {
	return p.logical(p.equality, token.And)
}

func (p *Parser) logical(operand func() (ast.Expression, error), op token.Kind) (ast.Expression, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(op) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogicalExpression(p.ids.Next(), expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expression, error) {
	return p.binary(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() (ast.Expression, error) {
	return p.binary(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() (ast.Expression, error) {
	return p.binary(p.factor, token.Minus, token.Plus)
}

func (p *Parser) factor() (ast.Expression, error) {
	return p.binary(p.unary, token.Slash, token.Star, token.Percent)
}

// binary parses a left-associative chain of operand (op operand)*.
func (p *Parser) binary(operand func() (ast.Expression, error), ops ...token.Kind) (ast.Expression, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinaryExpression(p.ids.Next(), expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(p.ids.Next(), operator, operand), nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(token.LeftParen):
			if expr, err = p.finishCall(expr); err != nil {
				return nil, err
			}
		case p.match(token.Dot):
			name, err := p.consume(token.Identifier, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = ast.NewMemberAccessExpression(p.ids.Next(), expr, name)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	var args []ast.Expression
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArity {
				p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArity))
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren, err := p.consume(token.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionCall(p.ids.Next(), callee, paren, args), nil
}

func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.match(token.False):
		return ast.NewLiteral(p.ids.Next(), false), nil
	case p.match(token.True):
		return ast.NewLiteral(p.ids.Next(), true), nil
	case p.match(token.Null):
		return ast.NewLiteral(p.ids.Next(), nil), nil
	case p.match(token.Number, token.String):
		return ast.NewLiteral(p.ids.Next(), p.previous().Literal), nil
	case p.match(token.This):
		return ast.NewSelfExpression(p.ids.Next(), p.previous()), nil
	case p.match(token.Super):
		keyword := p.previous()
		if _, err := p.consume(token.Dot, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.consume(token.Identifier, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return ast.NewSuperExpression(p.ids.Next(), keyword, method), nil
	case p.match(token.Identifier):
		return ast.NewVariable(p.ids.Next(), p.previous()), nil
	case p.match(token.Fun):
		return p.functionBody("function")
	case p.match(token.LeftParen):
		id := p.ids.Next()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return ast.NewGroupingExpression(id, expr), nil
	}
	return nil, p.errorAt(p.peek(), "Expect expression.")
}
