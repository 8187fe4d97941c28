package interpreter

import (
	"fmt"
	"math"

	"flex/interpreter-go/pkg/ast"
	"flex/interpreter-go/pkg/runtime"
	"flex/interpreter-go/pkg/token"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return literalValue(n.Value), nil
	case *ast.GroupingExpression:
		return i.evaluateExpression(n.Expression, env)
	case *ast.Variable:
		return i.lookUpVariable(n.Name, n, env)
	case *ast.AssignmentExpression:
		return i.evaluateAssignment(n, env)
	case *ast.LogicalExpression:
		return i.evaluateLogicalExpression(n, env)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env)
	case *ast.LambdaExpression:
		return &runtime.FunctionValue{Declaration: n, Closure: env}, nil
	case *ast.MemberAccessExpression:
		return i.evaluateMemberAccess(n, env)
	case *ast.MemberAssignmentExpression:
		return i.evaluateMemberAssignment(n, env)
	case *ast.SelfExpression:
		return i.lookUpVariable(n.Keyword, n, env)
	case *ast.SuperExpression:
		return i.evaluateSuperExpression(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %T", node)
	}
}

func literalValue(v any) runtime.Value {
	switch val := v.(type) {
	case float64:
		return runtime.NumberValue{Val: val}
	case string:
		return runtime.StringValue{Val: val}
	case bool:
		return runtime.BoolValue{Val: val}
	default:
		return runtime.NilValue{}
	}
}

// lookUpVariable reads a resolved local by hop count, or a global by name.
func (i *Interpreter) lookUpVariable(name token.Token, node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	var (
		val runtime.Value
		err error
	)
	if hops, ok := i.locals[node.ID()]; ok {
		val, err = env.GetAt(hops, name.Lexeme)
	} else {
		val, err = i.global.Get(name.Lexeme)
	}
	if err != nil {
		return nil, &RuntimeError{Token: name, Message: err.Error()}
	}
	return val, nil
}

func (i *Interpreter) evaluateAssignment(expr *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(expr.Value, env)
	if err != nil {
		return nil, err
	}
	if hops, ok := i.locals[expr.ID()]; ok {
		err = env.AssignAt(hops, expr.Name.Lexeme, val)
	} else {
		err = i.global.Assign(expr.Name.Lexeme, val)
	}
	if err != nil {
		return nil, &RuntimeError{Token: expr.Name, Message: err.Error()}
	}
	return val, nil
}

// evaluateLogicalExpression short-circuits and yields the deciding operand
// itself, not a boolean.
func (i *Interpreter) evaluateLogicalExpression(expr *ast.LogicalExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	if expr.Operator.Kind == token.Or {
		if isTruthy(left) {
			return left, nil
		}
	} else if !isTruthy(left) {
		return left, nil
	}
	return i.evaluateExpression(expr.Right, env)
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case token.Bang:
		return runtime.BoolValue{Val: !isTruthy(operand)}, nil
	case token.Minus:
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, newRuntimeError(expr.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	default:
		return nil, newRuntimeError(expr.Operator, "Unsupported unary operator '%s'.", expr.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}

	op := expr.Operator
	switch op.Kind {
	case token.EqualEqual:
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case token.BangEqual:
		return runtime.BoolValue{Val: !valuesEqual(left, right)}, nil
	case token.Plus:
		switch l := left.(type) {
		case runtime.NumberValue:
			if r, ok := right.(runtime.NumberValue); ok {
				return runtime.NumberValue{Val: l.Val + r.Val}, nil
			}
		case runtime.StringValue:
			if r, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: l.Val + r.Val}, nil
			}
		}
		return nil, newRuntimeError(op, "Operands must be two numbers or two strings.")
	}

	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, newRuntimeError(op, "Operands must be numbers.")
	}
	switch op.Kind {
	case token.Minus:
		return runtime.NumberValue{Val: l.Val - r.Val}, nil
	case token.Star:
		return runtime.NumberValue{Val: l.Val * r.Val}, nil
	case token.Slash:
		return runtime.NumberValue{Val: l.Val / r.Val}, nil
	case token.Percent:
		return runtime.NumberValue{Val: math.Mod(l.Val, r.Val)}, nil
	case token.Greater:
		return runtime.BoolValue{Val: l.Val > r.Val}, nil
	case token.GreaterEqual:
		return runtime.BoolValue{Val: l.Val >= r.Val}, nil
	case token.Less:
		return runtime.BoolValue{Val: l.Val < r.Val}, nil
	case token.LessEqual:
		return runtime.BoolValue{Val: l.Val <= r.Val}, nil
	default:
		return nil, newRuntimeError(op, "Unsupported binary operator '%s'.", op.Lexeme)
	}
}
