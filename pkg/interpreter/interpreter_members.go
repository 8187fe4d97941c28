package interpreter

import (
	"errors"

	"flex/interpreter-go/pkg/ast"
	"flex/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(call.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		arg, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	fn, ok := runtime.AsCallable(callee)
	if !ok {
		return nil, newRuntimeError(call.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, newRuntimeError(call.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	result, err := fn.Call(i, args)
	if err != nil {
		var rtErr *RuntimeError
		if errors.As(err, &rtErr) {
			return nil, rtErr
		}
		return nil, &RuntimeError{Token: call.Paren, Message: err.Error()}
	}
	return result, nil
}

// executeClassDefinition builds the class value. When there is a superclass,
// the methods close over an extra frame binding `super`.
func (i *Interpreter) executeClassDefinition(def *ast.ClassDefinition, env *runtime.Environment) error {
	var superclass *runtime.ClassValue
	if def.Superclass != nil {
		val, err := i.evaluateExpression(def.Superclass, env)
		if err != nil {
			return err
		}
		class, ok := val.(*runtime.ClassValue)
		if !ok {
			return newRuntimeError(def.Superclass.Name, "Superclass must be a class.")
		}
		superclass = class
	}

	env.Define(def.Name.Lexeme, runtime.NilValue{})

	methodEnv := env
	if superclass != nil {
		methodEnv = runtime.NewEnvironment(env)
		methodEnv.Define("super", superclass)
	}
	methods := make(map[string]*runtime.FunctionValue, len(def.Methods))
	for _, method := range def.Methods {
		name := method.Name.Lexeme
		methods[name] = &runtime.FunctionValue{
			Name:          name,
			Declaration:   method.Function,
			Closure:       methodEnv,
			IsInitializer: name == "init",
		}
	}

	env.Define(def.Name.Lexeme, &runtime.ClassValue{
		Name:       def.Name.Lexeme,
		Superclass: superclass,
		Methods:    methods,
	})
	return nil
}

func (i *Interpreter) evaluateMemberAccess(expr *ast.MemberAccessExpression, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*runtime.InstanceValue)
	if !ok {
		return nil, newRuntimeError(expr.Name, "Only instances have properties.")
	}
	val, ok := instance.Get(expr.Name.Lexeme)
	if !ok {
		return nil, newRuntimeError(expr.Name, "Undefined property '%s'.", expr.Name.Lexeme)
	}
	return val, nil
}

func (i *Interpreter) evaluateMemberAssignment(expr *ast.MemberAssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*runtime.InstanceValue)
	if !ok {
		return nil, newRuntimeError(expr.Name, "Only instances have fields.")
	}
	val, err := i.evaluateExpression(expr.Value, env)
	if err != nil {
		return nil, err
	}
	instance.Set(expr.Name.Lexeme, val)
	return val, nil
}

// evaluateSuperExpression finds the method on the superclass and binds it to
// the current receiver, which sits one frame inside the `super` frame.
func (i *Interpreter) evaluateSuperExpression(expr *ast.SuperExpression, env *runtime.Environment) (runtime.Value, error) {
	hops, ok := i.locals[expr.ID()]
	if !ok {
		return nil, newRuntimeError(expr.Keyword, "Can't use 'super' outside of a class.")
	}
	superVal, err := env.GetAt(hops, "super")
	if err != nil {
		return nil, &RuntimeError{Token: expr.Keyword, Message: err.Error()}
	}
	thisVal, err := env.GetAt(hops-1, "this")
	if err != nil {
		return nil, &RuntimeError{Token: expr.Keyword, Message: err.Error()}
	}
	superclass, ok := superVal.(*runtime.ClassValue)
	if !ok {
		return nil, newRuntimeError(expr.Keyword, "Superclass must be a class.")
	}
	instance, ok := thisVal.(*runtime.InstanceValue)
	if !ok {
		return nil, newRuntimeError(expr.Keyword, "Only instances have properties.")
	}
	method := superclass.FindMethod(expr.Method.Lexeme)
	if method == nil {
		return nil, newRuntimeError(expr.Method, "Undefined property '%s'.", expr.Method.Lexeme)
	}
	return method.Bind(instance), nil
}
