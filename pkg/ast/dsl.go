package ast

import (
	"sync/atomic"

	"flex/interpreter-go/pkg/token"
)

// Builders for hand-assembled trees in tests. They draw ids from a shared
// negative range so they never collide with parser-assigned ids.

var dslIDs atomic.Int64

func dslID() NodeID {
	return NodeID(-dslIDs.Add(1))
}

var operatorKinds = map[string]token.Kind{
	"+":   token.Plus,
	"-":   token.Minus,
	"*":   token.Star,
	"/":   token.Slash,
	"%":   token.Percent,
	"!":   token.Bang,
	"!=":  token.BangEqual,
	"==":  token.EqualEqual,
	">":   token.Greater,
	">=":  token.GreaterEqual,
	"<":   token.Less,
	"<=":  token.LessEqual,
	"and": token.And,
	"or":  token.Or,
}

// Tok builds a position-less token; operators and keywords get their kind.
func Tok(lexeme string) token.Token {
	if kind, ok := operatorKinds[lexeme]; ok {
		return token.New(kind, lexeme, nil, 0, 0)
	}
	return token.New(token.LookupIdent(lexeme), lexeme, nil, 0, 0)
}

func toks(names []string) []token.Token {
	out := make([]token.Token, len(names))
	for i, name := range names {
		out[i] = Tok(name)
	}
	return out
}

// Expression helpers.

func Num(value float64) *Literal {
	return NewLiteral(dslID(), value)
}

func Str(value string) *Literal {
	return NewLiteral(dslID(), value)
}

func Bool(value bool) *Literal {
	return NewLiteral(dslID(), value)
}

func Nil() *Literal {
	return NewLiteral(dslID(), nil)
}

func ID(name string) *Variable {
	return NewVariable(dslID(), Tok(name))
}

func Assign(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(dslID(), Tok(name), value)
}

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(dslID(), left, Tok(op), right)
}

func Logic(op string, left, right Expression) *LogicalExpression {
	return NewLogicalExpression(dslID(), left, Tok(op), right)
}

func Un(op string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(dslID(), Tok(op), operand)
}

func CallExpr(callee Expression, args ...Expression) *FunctionCall {
	return NewFunctionCall(dslID(), callee, token.New(token.RightParen, ")", nil, 0, 0), args)
}

func Member(object Expression, name string) *MemberAccessExpression {
	return NewMemberAccessExpression(dslID(), object, Tok(name))
}

func SetMember(object Expression, name string, value Expression) *MemberAssignmentExpression {
	return NewMemberAssignmentExpression(dslID(), object, Tok(name), value)
}

func Lambda(params []string, body ...Statement) *LambdaExpression {
	return NewLambdaExpression(dslID(), toks(params), body)
}

func Group(expr Expression) *GroupingExpression {
	return NewGroupingExpression(dslID(), expr)
}

func This() *SelfExpression {
	return NewSelfExpression(dslID(), Tok("this"))
}

func Super(method string) *SuperExpression {
	return NewSuperExpression(dslID(), Tok("super"), Tok(method))
}

// Statement helpers.

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(dslID(), expr)
}

func Print(expr Expression) *PrintStatement {
	return NewPrintStatement(dslID(), expr)
}

func VarDecl(name string, initializer Expression) *VariableDeclaration {
	return NewVariableDeclaration(dslID(), Tok(name), initializer)
}

func Fn(name string, params []string, body ...Statement) *FunctionDefinition {
	return NewFunctionDefinition(dslID(), Tok(name), Lambda(params, body...))
}

func Class(name string, superclass string, methods ...*FunctionDefinition) *ClassDefinition {
	var super *Variable
	if superclass != "" {
		super = ID(superclass)
	}
	return NewClassDefinition(dslID(), Tok(name), super, methods)
}

func Block(body ...Statement) *BlockStatement {
	return NewBlockStatement(dslID(), body)
}

func If(condition Expression, then, els Statement) *IfStatement {
	return NewIfStatement(dslID(), condition, then, els)
}

func While(condition Expression, body Statement) *WhileLoop {
	return NewWhileLoop(dslID(), condition, body)
}

func Brk() *BreakStatement {
	return NewBreakStatement(dslID(), Tok("break"))
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(dslID(), Tok("return"), value)
}
