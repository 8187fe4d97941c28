package runtime

import (
	"fmt"

	"flex/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindNativeFunction
	KindClass
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

// Executor runs a function body in an already prepared call frame and
// returns the value of the `return` that ended it, or NilValue.
type Executor interface {
	ExecuteBody(body []ast.Statement, env *Environment) (Value, error)
}

// Callable is implemented by every value that can appear as a callee.
type Callable interface {
	Value
	Arity() int
	Call(exec Executor, args []Value) (Value, error)
}

// FunctionValue is a user-defined function or method together with the frame
// it closes over. Name is empty for anonymous functions.
type FunctionValue struct {
	Name          string
	Declaration   *ast.LambdaExpression
	Closure       *Environment
	IsInitializer bool
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) Arity() int { return len(v.Declaration.Params) }

// Call binds arguments in a fresh frame on the closure and runs the body in
// it. Initializers always yield the bound receiver.
func (v *FunctionValue) Call(exec Executor, args []Value) (Value, error) {
	env := NewEnvironment(v.Closure)
	for i, param := range v.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}
	result, err := exec.ExecuteBody(v.Declaration.Body, env)
	if err != nil {
		return nil, err
	}
	if v.IsInitializer {
		return v.Closure.GetAt(0, "this")
	}
	if result == nil {
		return NilValue{}, nil
	}
	return result, nil
}

// Bind returns a copy of the method whose closure has `this` bound to the
// instance.
func (v *FunctionValue) Bind(instance *InstanceValue) *FunctionValue {
	env := NewEnvironment(v.Closure)
	env.Define("this", instance)
	return &FunctionValue{
		Name:          v.Name,
		Declaration:   v.Declaration,
		Closure:       env,
		IsInitializer: v.IsInitializer,
	}
}

type NativeFunc func(args []Value) (Value, error)

type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v *NativeFunctionValue) Kind() Kind { return KindNativeFunction }

func (v *NativeFunctionValue) Call(_ Executor, args []Value) (Value, error) {
	return v.Impl(args)
}

// nativeCallable adapts NativeFunctionValue, whose Arity is a field, to
// Callable.
type nativeCallable struct {
	*NativeFunctionValue
}

func (n nativeCallable) Arity() int { return n.NativeFunctionValue.Arity }

// AsCallable reports whether v can be called and returns it as a Callable.
func AsCallable(v Value) (Callable, bool) {
	switch fn := v.(type) {
	case *FunctionValue:
		return fn, true
	case *ClassValue:
		return fn, true
	case *NativeFunctionValue:
		return nativeCallable{fn}, true
	default:
		return nil, false
	}
}

//-----------------------------------------------------------------------------
// Classes and instances
//-----------------------------------------------------------------------------

type ClassValue struct {
	Name       string
	Superclass *ClassValue
	Methods    map[string]*FunctionValue
}

func (v *ClassValue) Kind() Kind { return KindClass }

// FindMethod looks name up on the class, then along the superclass chain.
func (v *ClassValue) FindMethod(name string) *FunctionValue {
	for class := v; class != nil; class = class.Superclass {
		if method, ok := class.Methods[name]; ok {
			return method
		}
	}
	return nil
}

// Arity is the arity of the (possibly inherited) initializer, or 0.
func (v *ClassValue) Arity() int {
	if initializer := v.FindMethod("init"); initializer != nil {
		return initializer.Arity()
	}
	return 0
}

// Call constructs an instance and runs its initializer, if any.
func (v *ClassValue) Call(exec Executor, args []Value) (Value, error) {
	instance := NewInstance(v)
	if initializer := v.FindMethod("init"); initializer != nil {
		if _, err := initializer.Bind(instance).Call(exec, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

type InstanceValue struct {
	Class  *ClassValue
	Fields map[string]Value
}

func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{Class: class, Fields: make(map[string]Value)}
}

func (v *InstanceValue) Kind() Kind { return KindInstance }

// Get reads a field, or else a method bound to this instance. Fields shadow
// methods.
func (v *InstanceValue) Get(name string) (Value, bool) {
	if field, ok := v.Fields[name]; ok {
		return field, true
	}
	if method := v.Class.FindMethod(name); method != nil {
		return method.Bind(v), true
	}
	return nil, false
}

// Set always writes a field.
func (v *InstanceValue) Set(name string, value Value) {
	v.Fields[name] = value
}
