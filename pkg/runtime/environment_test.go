package runtime

import (
	"testing"

	"flex/interpreter-go/pkg/ast"
)

func TestEnvironmentDefineGetAssign(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", NumberValue{Val: 1})
	local := NewEnvironment(global)

	v, err := local.Get("a")
	if err != nil || v.(NumberValue).Val != 1 {
		t.Fatalf("expected lookup through parent, got %#v (%v)", v, err)
	}
	if err := local.Assign("a", NumberValue{Val: 2}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if v, _ := global.Get("a"); v.(NumberValue).Val != 2 {
		t.Fatalf("expected assignment to reach the defining frame, got %#v", v)
	}
	if _, err := local.Get("missing"); err == nil || err.Error() != "Undefined variable 'missing'." {
		t.Fatalf("expected undefined variable error, got %v", err)
	}
	if err := local.Assign("missing", NilValue{}); err == nil {
		t.Fatalf("expected assignment to an unbound name to fail")
	}
}

func TestEnvironmentDefineOverwrites(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("a", StringValue{Val: "x"})
	env.Define("a", StringValue{Val: "y"})
	if v, _ := env.Get("a"); v.(StringValue).Val != "y" {
		t.Fatalf("expected redefinition to overwrite, got %#v", v)
	}
	if keys := env.Keys(); len(keys) != 1 || keys[0] != "a" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestEnvironmentHopAccess(t *testing.T) {
	global := NewEnvironment(nil)
	middle := NewEnvironment(global)
	inner := NewEnvironment(middle)
	global.Define("x", StringValue{Val: "global"})
	middle.Define("x", StringValue{Val: "middle"})

	if inner.Ancestor(2) != global || inner.Ancestor(0) != inner {
		t.Fatalf("unexpected ancestors")
	}
	v, err := inner.GetAt(2, "x")
	if err != nil || v.(StringValue).Val != "global" {
		t.Fatalf("expected to skip the shadowing frame, got %#v (%v)", v, err)
	}
	if err := inner.AssignAt(1, "x", StringValue{Val: "changed"}); err != nil {
		t.Fatalf("assign at: %v", err)
	}
	if v, _ := middle.Get("x"); v.(StringValue).Val != "changed" {
		t.Fatalf("expected middle frame to change, got %#v", v)
	}
	if v, _ := global.Get("x"); v.(StringValue).Val != "global" {
		t.Fatalf("expected global frame untouched, got %#v", v)
	}
	if _, err := inner.GetAt(0, "x"); err == nil {
		t.Fatalf("expected GetAt not to search outward")
	}
}

type bodyRecorder struct {
	env    *Environment
	result Value
}

func (r *bodyRecorder) ExecuteBody(_ []ast.Statement, env *Environment) (Value, error) {
	r.env = env
	return r.result, nil
}

func TestFunctionCallBindsParametersInFreshFrame(t *testing.T) {
	closure := NewEnvironment(nil)
	fn := &FunctionValue{Name: "f", Declaration: ast.Lambda([]string{"a", "b"}), Closure: closure}
	exec := &bodyRecorder{}

	result, err := fn.Call(exec, []Value{NumberValue{Val: 1}, StringValue{Val: "two"}})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if _, ok := result.(NilValue); !ok {
		t.Fatalf("expected nil result without a return, got %#v", result)
	}
	if exec.env.Parent() != closure {
		t.Fatalf("expected call frame to chain to the closure")
	}
	if v, _ := exec.env.GetAt(0, "b"); v.(StringValue).Val != "two" {
		t.Fatalf("expected b bound in the call frame, got %#v", v)
	}
	if fn.Arity() != 2 {
		t.Fatalf("expected arity 2, got %d", fn.Arity())
	}
}

func TestClassInstantiationRunsInheritedInitializer(t *testing.T) {
	closure := NewEnvironment(nil)
	initializer := &FunctionValue{Name: "init", Declaration: ast.Lambda([]string{"n"}), Closure: closure, IsInitializer: true}
	base := &ClassValue{Name: "Base", Methods: map[string]*FunctionValue{"init": initializer}}
	derived := &ClassValue{Name: "Derived", Superclass: base, Methods: map[string]*FunctionValue{}}
	exec := &bodyRecorder{result: NumberValue{Val: 99}}

	if derived.Arity() != 1 {
		t.Fatalf("expected inherited init arity, got %d", derived.Arity())
	}
	v, err := derived.Call(exec, []Value{NumberValue{Val: 3}})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	instance, ok := v.(*InstanceValue)
	if !ok || instance.Class != derived {
		t.Fatalf("expected Derived instance, got %#v", v)
	}
	this, err := exec.env.Parent().GetAt(0, "this")
	if err != nil || this != instance {
		t.Fatalf("expected init bound to the new instance, got %#v (%v)", this, err)
	}
}

func TestInstanceFieldsShadowMethods(t *testing.T) {
	method := &FunctionValue{Name: "m", Declaration: ast.Lambda(nil), Closure: NewEnvironment(nil)}
	class := &ClassValue{Name: "C", Methods: map[string]*FunctionValue{"m": method}}
	instance := NewInstance(class)

	v, ok := instance.Get("m")
	bound, isFn := v.(*FunctionValue)
	if !ok || !isFn || bound == method {
		t.Fatalf("expected a freshly bound method, got %#v", v)
	}
	if this, _ := bound.Closure.GetAt(0, "this"); this != instance {
		t.Fatalf("expected bound receiver, got %#v", this)
	}

	instance.Set("m", NumberValue{Val: 1})
	if v, _ := instance.Get("m"); v.(NumberValue).Val != 1 {
		t.Fatalf("expected field to shadow method, got %#v", v)
	}
	if _, ok := instance.Get("missing"); ok {
		t.Fatalf("expected missing property lookup to fail")
	}
}

func TestAsCallable(t *testing.T) {
	native := &NativeFunctionValue{Name: "clock", Arity: 0, Impl: func([]Value) (Value, error) {
		return NumberValue{Val: 1.5}, nil
	}}
	callable, ok := AsCallable(native)
	if !ok || callable.Arity() != 0 {
		t.Fatalf("expected native to be callable")
	}
	v, err := callable.Call(nil, nil)
	if err != nil || v.(NumberValue).Val != 1.5 {
		t.Fatalf("unexpected native result %#v (%v)", v, err)
	}
	if _, ok := AsCallable(StringValue{Val: "x"}); ok {
		t.Fatalf("strings are not callable")
	}
}
