package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"flex/interpreter-go/pkg/ast"
	"flex/interpreter-go/pkg/diagnostics"
	"flex/interpreter-go/pkg/lexer"
	"flex/interpreter-go/pkg/parser"
	"flex/interpreter-go/pkg/resolver"
)

type runResult struct {
	stdout []string
	bag    *diagnostics.Bag
	err    error
}

// runSource pushes source through the full pipeline with a fresh interpreter.
// Static errors fail the test.
func runSource(t *testing.T, source string) runResult {
	t.Helper()
	var out bytes.Buffer
	bag := diagnostics.NewBag(nil)
	stmts := parser.Parse(lexer.Scan(source, bag), &ast.IDGenerator{}, bag)
	locals := resolver.Resolve(stmts, bag)
	if bag.HasStaticErrors() {
		t.Fatalf("unexpected static diagnostics: %v", bag.Messages())
	}
	interp := New(WithOutput(&out), WithReporter(bag))
	err := interp.Interpret(stmts, locals)
	return runResult{stdout: splitLines(out.String()), bag: bag, err: err}
}

func expectOutput(t *testing.T, source string, want ...string) {
	t.Helper()
	res := runSource(t, source)
	if res.err != nil {
		t.Fatalf("unexpected runtime error: %v", res.err)
	}
	if strings.Join(res.stdout, "\n") != strings.Join(want, "\n") {
		t.Fatalf("expected output %q, got %q", want, res.stdout)
	}
}

func expectRuntimeError(t *testing.T, source, message string) runResult {
	t.Helper()
	res := runSource(t, source)
	if res.err == nil {
		t.Fatalf("expected runtime error %q", message)
	}
	rtErr, ok := res.err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T: %v", res.err, res.err)
	}
	if rtErr.Message != message {
		t.Fatalf("expected runtime error %q, got %q", message, rtErr.Message)
	}
	if got := res.bag.Messages(diagnostics.KindRuntime); len(got) != 1 || got[0] != message {
		t.Fatalf("expected reporter to receive %q, got %v", message, got)
	}
	return res
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
