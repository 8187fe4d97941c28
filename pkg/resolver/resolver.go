// Package resolver performs the static scope pass. It records, for every
// variable reference that binds to a local, how many frames separate the use
// from its declaration, and rejects scope misuse before anything runs.
package resolver

import (
	"flex/interpreter-go/pkg/ast"
	"flex/interpreter-go/pkg/diagnostics"
	"flex/interpreter-go/pkg/token"
)

// Locals maps a node to the number of environment hops between the frame
// evaluating it and the frame defining the name it refers to. Nodes without
// an entry are globals.
type Locals map[ast.NodeID]int

type functionType int

const (
	functionNone functionType = iota
	functionFunction
	functionMethod
	functionInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Resolver walks statements once, before interpretation. A Resolver can be
// reused across REPL lines; each call to Resolve extends the same table.
type Resolver struct {
	reporter diagnostics.Reporter
	locals   Locals

	// scopes holds local scopes only; the global scope is not tracked.
	// false means declared but not yet initialized.
	scopes []map[string]bool

	// globals are committed top-level names; staged are top-level names
	// defined by input not yet committed; pendingGlobals are first-time
	// top-level names whose initializer is being resolved.
	globals        map[string]bool
	staged         map[string]bool
	pendingGlobals map[string]bool

	currentFunction functionType
	currentClass    classType
	loopDepth       int
}

// New creates a resolver with an empty table.
func New(reporter diagnostics.Reporter) *Resolver {
	return &Resolver{
		reporter:       reporter,
		locals:         Locals{},
		globals:        map[string]bool{},
		staged:         map[string]bool{},
		pendingGlobals: map[string]bool{},
	}
}

// DefineGlobal marks a host-provided global, such as a native function, as
// already defined.
func (r *Resolver) DefineGlobal(name string) {
	r.globals[name] = true
}

// Commit keeps the top-level names defined since the last Commit or
// Rollback. Call it once the input they came from is going to run.
func (r *Resolver) Commit() {
	for name := range r.staged {
		r.globals[name] = true
	}
	clear(r.staged)
}

// Rollback forgets the top-level names defined since the last Commit, for
// input rejected before it could run.
func (r *Resolver) Rollback() {
	clear(r.staged)
}

func (r *Resolver) isGlobal(name string) bool {
	return r.globals[name] || r.staged[name]
}

// Resolve resolves a whole program with a fresh resolver.
func Resolve(statements []ast.Statement, reporter diagnostics.Reporter) Locals {
	r := New(reporter)
	r.Resolve(statements)
	r.Commit()
	return r.Locals()
}

// Locals returns the resolution table built so far.
func (r *Resolver) Locals() Locals {
	return r.locals
}

// Resolve adds the bindings of statements to the table. Errors go to the
// reporter; resolution always visits every statement.
func (r *Resolver) Resolve(statements []ast.Statement) {
	for _, stmt := range statements {
		r.resolveStatement(stmt)
	}
}

func (r *Resolver) resolveStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case nil:
	case *ast.BlockStatement:
		r.beginScope()
		r.Resolve(s.Body)
		r.endScope()
	case *ast.VariableDeclaration:
		r.declare(s.Name)
		if s.Initializer != nil {
			global := len(r.scopes) == 0 && !r.isGlobal(s.Name.Lexeme)
			if global {
				r.pendingGlobals[s.Name.Lexeme] = true
			}
			r.resolveExpression(s.Initializer)
			if global {
				delete(r.pendingGlobals, s.Name.Lexeme)
			}
		}
		r.define(s.Name)
	case *ast.FunctionDefinition:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Function, functionFunction)
	case *ast.ClassDefinition:
		r.resolveClass(s)
	case *ast.ExpressionStatement:
		r.resolveExpression(s.Expression)
	case *ast.PrintStatement:
		r.resolveExpression(s.Expression)
	case *ast.IfStatement:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Then)
		if s.Else != nil {
			r.resolveStatement(s.Else)
		}
	case *ast.WhileLoop:
		r.resolveExpression(s.Condition)
		r.loopDepth++
		r.resolveStatement(s.Body)
		r.loopDepth--
	case *ast.BreakStatement:
		if r.loopDepth == 0 {
			r.error(s.Keyword, "Can't use 'break' outside of a loop.")
		}
	case *ast.ReturnStatement:
		if r.currentFunction == functionNone {
			r.error(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == functionInitializer {
				r.error(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpression(s.Value)
		}
	}
}

func (r *Resolver) resolveClass(s *ast.ClassDefinition) {
	enclosingClass := r.currentClass
	r.currentClass = classClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.error(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpression(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	for _, method := range s.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method.Function, kind)
	}
	r.endScope()
}

// resolveFunction resolves parameters and body in a single scope, matching
// the one call frame the interpreter creates per invocation.
func (r *Resolver) resolveFunction(fn *ast.LambdaExpression, kind functionType) {
	enclosingFunction, enclosingLoops := r.currentFunction, r.loopDepth
	r.currentFunction, r.loopDepth = kind, 0

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.Resolve(fn.Body)
	r.endScope()

	r.currentFunction, r.loopDepth = enclosingFunction, enclosingLoops
}

func (r *Resolver) resolveExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case nil, *ast.Literal:
	case *ast.Variable:
		if len(r.scopes) == 0 {
			if r.pendingGlobals[e.Name.Lexeme] {
				r.error(e.Name, "Can't read local variable in its own initializer.")
			}
		} else if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
			r.error(e.Name, "Can't read local variable in its own initializer.")
		}
		r.resolveLocal(e, e.Name)
	case *ast.AssignmentExpression:
		r.resolveExpression(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.BinaryExpression:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.LogicalExpression:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.UnaryExpression:
		r.resolveExpression(e.Operand)
	case *ast.GroupingExpression:
		r.resolveExpression(e.Expression)
	case *ast.FunctionCall:
		r.resolveExpression(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpression(arg)
		}
	case *ast.MemberAccessExpression:
		r.resolveExpression(e.Object)
	case *ast.MemberAssignmentExpression:
		r.resolveExpression(e.Value)
		r.resolveExpression(e.Object)
	case *ast.LambdaExpression:
		r.resolveFunction(e, functionFunction)
	case *ast.SelfExpression:
		if r.currentClass == classNone {
			r.error(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.SuperExpression:
		switch r.currentClass {
		case classNone:
			r.error(e.Keyword, "Can't use 'super' outside of a class.")
			return
		case classClass:
			r.error(e.Keyword, "Can't use 'super' in a class with no superclass.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[name.Lexeme]; exists {
		r.error(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		r.staged[name.Lexeme] = true
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) resolveLocal(node ast.Node, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[node.ID()] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) error(tok token.Token, message string) {
	if r.reporter != nil {
		diagnostics.ReportAt(r.reporter, diagnostics.KindResolve, tok, message)
	}
}
