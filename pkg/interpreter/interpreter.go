// Package interpreter evaluates resolved Flex statements by walking the tree.
package interpreter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"flex/interpreter-go/pkg/ast"
	"flex/interpreter-go/pkg/diagnostics"
	"flex/interpreter-go/pkg/resolver"
	"flex/interpreter-go/pkg/runtime"
	"flex/interpreter-go/pkg/token"
)

// Interpreter drives evaluation of Flex statements against one global
// environment. It is not safe for concurrent use.
type Interpreter struct {
	global   *runtime.Environment
	locals   resolver.Locals
	out      io.Writer
	reporter diagnostics.Reporter
	started  time.Time
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets where `print` writes. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithReporter sets the sink that receives runtime errors.
func WithReporter(r diagnostics.Reporter) Option {
	return func(i *Interpreter) { i.reporter = r }
}

// New returns an interpreter whose global environment holds the natives.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		global:  runtime.NewEnvironment(nil),
		locals:  resolver.Locals{},
		out:     os.Stdout,
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.defineNatives()
	return i
}

// GlobalEnvironment returns the interpreter’s global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Interpret executes statements in order against the global environment,
// using locals for every resolved reference. The first runtime error stops
// execution; it is handed to the reporter and returned. Host failures, such
// as a print writer error, are reported as unpositioned runtime diagnostics.
func (i *Interpreter) Interpret(statements []ast.Statement, locals resolver.Locals) error {
	if locals != nil {
		i.locals = locals
	}
	for _, stmt := range statements {
		if _, err := i.executeStatement(stmt, i.global); err != nil {
			var rtErr *RuntimeError
			if errors.As(err, &rtErr) {
				if i.reporter != nil {
					i.reporter.RuntimeError(rtErr.Token, rtErr.Message)
				}
				return rtErr
			}
			if i.reporter != nil {
				i.reporter.Report(diagnostics.KindRuntime, 0, 0, err.Error())
			}
			return err
		}
	}
	return nil
}

// ExecuteBody runs a function body directly in env, the call frame prepared
// by the callee.
func (i *Interpreter) ExecuteBody(body []ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	for _, stmt := range body {
		c, err := i.executeStatement(stmt, env)
		if err != nil {
			return nil, err
		}
		if c.kind == completionReturn {
			return c.value, nil
		}
	}
	return runtime.NilValue{}, nil
}

func (i *Interpreter) defineNatives() {
	i.global.Define("clock", &runtime.NativeFunctionValue{
		Name:  "clock",
		Arity: 0,
		Impl: func([]runtime.Value) (runtime.Value, error) {
			return runtime.NumberValue{Val: time.Since(i.started).Seconds()}, nil
		},
	})
}

// RuntimeError is a failure raised while evaluating. Token locates the
// operator, name or call that failed.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[%d:%d] Error: %s", e.Token.Line, e.Token.Column, e.Message)
}

func newRuntimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

type completionKind int

const (
	completionNormal completionKind = iota
	completionReturn
	completionBreak
)

// completion is how a statement finished. value is set only for returns.
type completion struct {
	kind  completionKind
	value runtime.Value
}

var normalCompletion = completion{kind: completionNormal}

func isTruthy(val runtime.Value) bool {
	switch v := val.(type) {
	case runtime.BoolValue:
		return v.Val
	case runtime.NilValue:
		return false
	case runtime.NumberValue:
		return v.Val != 0
	default:
		return true
	}
}
