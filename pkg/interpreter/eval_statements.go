package interpreter

import (
	"fmt"

	"flex/interpreter-go/pkg/ast"
	"flex/interpreter-go/pkg/runtime"
)

func (i *Interpreter) executeStatement(node ast.Statement, env *runtime.Environment) (completion, error) {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		if _, err := i.evaluateExpression(n.Expression, env); err != nil {
			return normalCompletion, err
		}
		return normalCompletion, nil
	case *ast.PrintStatement:
		return i.executePrint(n, env)
	case *ast.VariableDeclaration:
		return i.executeVariableDeclaration(n, env)
	case *ast.FunctionDefinition:
		env.Define(n.Name.Lexeme, &runtime.FunctionValue{
			Name:        n.Name.Lexeme,
			Declaration: n.Function,
			Closure:     env,
		})
		return normalCompletion, nil
	case *ast.ClassDefinition:
		return normalCompletion, i.executeClassDefinition(n, env)
	case *ast.BlockStatement:
		return i.executeBlock(n.Body, runtime.NewEnvironment(env))
	case *ast.IfStatement:
		return i.executeIf(n, env)
	case *ast.WhileLoop:
		return i.executeWhileLoop(n, env)
	case *ast.BreakStatement:
		return completion{kind: completionBreak}, nil
	case *ast.ReturnStatement:
		return i.executeReturn(n, env)
	default:
		return normalCompletion, fmt.Errorf("unsupported statement type: %T", node)
	}
}

// executeBlock runs statements in env and stops at the first completion that
// is not normal.
func (i *Interpreter) executeBlock(statements []ast.Statement, env *runtime.Environment) (completion, error) {
	for _, stmt := range statements {
		c, err := i.executeStatement(stmt, env)
		if err != nil || c.kind != completionNormal {
			return c, err
		}
	}
	return normalCompletion, nil
}

func (i *Interpreter) executePrint(stmt *ast.PrintStatement, env *runtime.Environment) (completion, error) {
	val, err := i.evaluateExpression(stmt.Expression, env)
	if err != nil {
		return normalCompletion, err
	}
	if _, err := fmt.Fprintln(i.out, stringify(val)); err != nil {
		return normalCompletion, fmt.Errorf("print: %w", err)
	}
	return normalCompletion, nil
}

func (i *Interpreter) executeVariableDeclaration(stmt *ast.VariableDeclaration, env *runtime.Environment) (completion, error) {
	var val runtime.Value = runtime.NilValue{}
	if stmt.Initializer != nil {
		var err error
		if val, err = i.evaluateExpression(stmt.Initializer, env); err != nil {
			return normalCompletion, err
		}
	}
	env.Define(stmt.Name.Lexeme, val)
	return normalCompletion, nil
}

func (i *Interpreter) executeIf(stmt *ast.IfStatement, env *runtime.Environment) (completion, error) {
	cond, err := i.evaluateExpression(stmt.Condition, env)
	if err != nil {
		return normalCompletion, err
	}
	if isTruthy(cond) {
		return i.executeStatement(stmt.Then, env)
	}
	if stmt.Else != nil {
		return i.executeStatement(stmt.Else, env)
	}
	return normalCompletion, nil
}

func (i *Interpreter) executeWhileLoop(loop *ast.WhileLoop, env *runtime.Environment) (completion, error) {
	for {
		cond, err := i.evaluateExpression(loop.Condition, env)
		if err != nil {
			return normalCompletion, err
		}
		if !isTruthy(cond) {
			return normalCompletion, nil
		}
		c, err := i.executeStatement(loop.Body, env)
		if err != nil {
			return normalCompletion, err
		}
		switch c.kind {
		case completionBreak:
			return normalCompletion, nil
		case completionReturn:
			return c, nil
		}
	}
}

func (i *Interpreter) executeReturn(stmt *ast.ReturnStatement, env *runtime.Environment) (completion, error) {
	var val runtime.Value = runtime.NilValue{}
	if stmt.Value != nil {
		var err error
		if val, err = i.evaluateExpression(stmt.Value, env); err != nil {
			return normalCompletion, err
		}
	}
	return completion{kind: completionReturn, value: val}, nil
}
