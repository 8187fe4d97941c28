// Package ast defines the Flex syntax tree: a closed set of expression and
// statement nodes, each carrying an explicit NodeID.
package ast

import "flex/interpreter-go/pkg/token"

// NodeID identifies a node for out-of-band annotations such as the
// resolver's hop counts. Parser-built nodes get positive ids.
type NodeID int

// IDGenerator hands out node ids. One generator must back every parse whose
// nodes share a resolution table.
type IDGenerator struct {
	next NodeID
}

// Next returns a fresh id.
func (g *IDGenerator) Next() NodeID {
	g.next++
	return g.next
}

// Node is implemented by every expression and statement.
type Node interface {
	ID() NodeID
}

type nodeImpl struct {
	NodeID NodeID
}

func (n nodeImpl) ID() NodeID { return n.NodeID }

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Expressions

// Literal holds nil, a bool, a float64 or a string.
type Literal struct {
	nodeImpl
	expressionMarker

	Value any
}

func NewLiteral(id NodeID, value any) *Literal {
	return &Literal{nodeImpl: nodeImpl{NodeID: id}, Value: value}
}

type Variable struct {
	nodeImpl
	expressionMarker

	Name token.Token
}

func NewVariable(id NodeID, name token.Token) *Variable {
	return &Variable{nodeImpl: nodeImpl{NodeID: id}, Name: name}
}

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Name  token.Token
	Value Expression
}

func NewAssignmentExpression(id NodeID, name token.Token, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: nodeImpl{NodeID: id}, Name: name, Value: value}
}

// LogicalExpression is a short-circuiting `and`/`or`.
type LogicalExpression struct {
	nodeImpl
	expressionMarker

	Left     Expression
	Operator token.Token
	Right    Expression
}

func NewLogicalExpression(id NodeID, left Expression, operator token.Token, right Expression) *LogicalExpression {
	return &LogicalExpression{nodeImpl: nodeImpl{NodeID: id}, Left: left, Operator: operator, Right: right}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Left     Expression
	Operator token.Token
	Right    Expression
}

func NewBinaryExpression(id NodeID, left Expression, operator token.Token, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: nodeImpl{NodeID: id}, Left: left, Operator: operator, Right: right}
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator token.Token
	Operand  Expression
}

func NewUnaryExpression(id NodeID, operator token.Token, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: nodeImpl{NodeID: id}, Operator: operator, Operand: operand}
}

// FunctionCall keeps the closing paren for runtime error positions.
type FunctionCall struct {
	nodeImpl
	expressionMarker

	Callee    Expression
	Paren     token.Token
	Arguments []Expression
}

func NewFunctionCall(id NodeID, callee Expression, paren token.Token, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: nodeImpl{NodeID: id}, Callee: callee, Paren: paren, Arguments: args}
}

type MemberAccessExpression struct {
	nodeImpl
	expressionMarker

	Object Expression
	Name   token.Token
}

func NewMemberAccessExpression(id NodeID, object Expression, name token.Token) *MemberAccessExpression {
	return &MemberAccessExpression{nodeImpl: nodeImpl{NodeID: id}, Object: object, Name: name}
}

type MemberAssignmentExpression struct {
	nodeImpl
	expressionMarker

	Object Expression
	Name   token.Token
	Value  Expression
}

func NewMemberAssignmentExpression(id NodeID, object Expression, name token.Token, value Expression) *MemberAssignmentExpression {
	return &MemberAssignmentExpression{nodeImpl: nodeImpl{NodeID: id}, Object: object, Name: name, Value: value}
}

// LambdaExpression is a function literal. Named declarations and methods wrap
// one as well.
type LambdaExpression struct {
	nodeImpl
	expressionMarker

	Params []token.Token
	Body   []Statement
}

func NewLambdaExpression(id NodeID, params []token.Token, body []Statement) *LambdaExpression {
	return &LambdaExpression{nodeImpl: nodeImpl{NodeID: id}, Params: params, Body: body}
}

type GroupingExpression struct {
	nodeImpl
	expressionMarker

	Expression Expression
}

func NewGroupingExpression(id NodeID, expr Expression) *GroupingExpression {
	return &GroupingExpression{nodeImpl: nodeImpl{NodeID: id}, Expression: expr}
}

// SelfExpression is the `this` receiver.
type SelfExpression struct {
	nodeImpl
	expressionMarker

	Keyword token.Token
}

func NewSelfExpression(id NodeID, keyword token.Token) *SelfExpression {
	return &SelfExpression{nodeImpl: nodeImpl{NodeID: id}, Keyword: keyword}
}

type SuperExpression struct {
	nodeImpl
	expressionMarker

	Keyword token.Token
	Method  token.Token
}

func NewSuperExpression(id NodeID, keyword, method token.Token) *SuperExpression {
	return &SuperExpression{nodeImpl: nodeImpl{NodeID: id}, Keyword: keyword, Method: method}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression
}

func NewExpressionStatement(id NodeID, expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: nodeImpl{NodeID: id}, Expression: expr}
}

type PrintStatement struct {
	nodeImpl
	statementMarker

	Expression Expression
}

func NewPrintStatement(id NodeID, expr Expression) *PrintStatement {
	return &PrintStatement{nodeImpl: nodeImpl{NodeID: id}, Expression: expr}
}

// VariableDeclaration has a nil Initializer when none was written.
type VariableDeclaration struct {
	nodeImpl
	statementMarker

	Name        token.Token
	Initializer Expression
}

func NewVariableDeclaration(id NodeID, name token.Token, initializer Expression) *VariableDeclaration {
	return &VariableDeclaration{nodeImpl: nodeImpl{NodeID: id}, Name: name, Initializer: initializer}
}

type FunctionDefinition struct {
	nodeImpl
	statementMarker

	Name     token.Token
	Function *LambdaExpression
}

func NewFunctionDefinition(id NodeID, name token.Token, fn *LambdaExpression) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: nodeImpl{NodeID: id}, Name: name, Function: fn}
}

type ClassDefinition struct {
	nodeImpl
	statementMarker

	Name       token.Token
	Superclass *Variable
	Methods    []*FunctionDefinition
}

func NewClassDefinition(id NodeID, name token.Token, superclass *Variable, methods []*FunctionDefinition) *ClassDefinition {
	return &ClassDefinition{nodeImpl: nodeImpl{NodeID: id}, Name: name, Superclass: superclass, Methods: methods}
}

type BlockStatement struct {
	nodeImpl
	statementMarker

	Body []Statement
}

func NewBlockStatement(id NodeID, body []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: nodeImpl{NodeID: id}, Body: body}
}

// IfStatement has a nil Else when there is no else branch.
type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression
	Then      Statement
	Else      Statement
}

func NewIfStatement(id NodeID, condition Expression, then, els Statement) *IfStatement {
	return &IfStatement{nodeImpl: nodeImpl{NodeID: id}, Condition: condition, Then: then, Else: els}
}

type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression
	Body      Statement
}

func NewWhileLoop(id NodeID, condition Expression, body Statement) *WhileLoop {
	return &WhileLoop{nodeImpl: nodeImpl{NodeID: id}, Condition: condition, Body: body}
}

type BreakStatement struct {
	nodeImpl
	statementMarker

	Keyword token.Token
}

func NewBreakStatement(id NodeID, keyword token.Token) *BreakStatement {
	return &BreakStatement{nodeImpl: nodeImpl{NodeID: id}, Keyword: keyword}
}

// ReturnStatement has a nil Value for a bare `return;`.
type ReturnStatement struct {
	nodeImpl
	statementMarker

	Keyword token.Token
	Value   Expression
}

func NewReturnStatement(id NodeID, keyword token.Token, value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: nodeImpl{NodeID: id}, Keyword: keyword, Value: value}
}
