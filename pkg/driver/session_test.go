package driver

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flex/interpreter-go/pkg/logger"
)

func newTestSession(stdout, stderr *bytes.Buffer) *Session {
	opts := []SessionOption{WithStdout(stdout), WithLogger(logger.Discard())}
	if stderr != nil {
		opts = append(opts, WithStderr(stderr))
	} else {
		opts = append(opts, WithStderr(nil))
	}
	return NewSession(opts...)
}

func TestSessionKeepsGlobalsAcrossRuns(t *testing.T) {
	var stdout bytes.Buffer
	session := newTestSession(&stdout, nil)

	lines := []string{
		"var count = 1;",
		"fun bump() { count = count + 1; return count; }",
		"print bump();",
		"print count;",
	}
	for _, line := range lines {
		if static, runtime := session.Run(line); static || runtime {
			t.Fatalf("line %q failed: static=%v runtime=%v %v", line, static, runtime, session.Diagnostics())
		}
	}
	if got := stdout.String(); got != "2\n2\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestSessionClosuresSurviveAcrossRuns(t *testing.T) {
	var stdout bytes.Buffer
	session := newTestSession(&stdout, nil)
	session.Run("fun make() { var n = 0; fun inc() { n = n + 1; return n; } return inc; }")
	session.Run("var c = make();")
	session.Run("c();")
	session.Run("print c();")
	if got := stdout.String(); got != "2\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestSessionStaticErrorDoesNotPoisonNextRun(t *testing.T) {
	var stdout bytes.Buffer
	session := newTestSession(&stdout, nil)

	static, runtime := session.Run("print ;")
	if !static || runtime {
		t.Fatalf("expected static error only, got static=%v runtime=%v", static, runtime)
	}
	if len(session.Diagnostics()) != 1 {
		t.Fatalf("expected one diagnostic, got %v", session.Diagnostics())
	}

	static, runtime = session.Run("print 1;")
	if static || runtime {
		t.Fatalf("expected clean run, got static=%v runtime=%v %v", static, runtime, session.Diagnostics())
	}
	if len(session.Diagnostics()) != 0 {
		t.Fatalf("diagnostics should be cleared between runs, got %v", session.Diagnostics())
	}
	if got := stdout.String(); got != "1\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestSessionSkipsWholeChunkOnStaticError(t *testing.T) {
	var stdout bytes.Buffer
	session := newTestSession(&stdout, nil)
	static, _ := session.Run("print \"before\";\nreturn 1;")
	if !static {
		t.Fatalf("expected resolution error")
	}
	if stdout.Len() != 0 {
		t.Fatalf("nothing should run when a chunk has static errors, got %q", stdout.String())
	}
}

func TestSessionContinuesAfterRuntimeError(t *testing.T) {
	var stdout bytes.Buffer
	session := newTestSession(&stdout, nil)

	static, runtime := session.Run("var a = 1;\nprint a;\nprint -\"x\";\nprint 99;")
	if static || !runtime {
		t.Fatalf("expected runtime error, got static=%v runtime=%v", static, runtime)
	}
	diags := session.Diagnostics()
	if len(diags) != 1 || diags[0].String() != "[3:7] Error: Operand must be a number." {
		t.Fatalf("unexpected diagnostics %v", diags)
	}

	if static, runtime := session.Run("print a + 1;"); static || runtime {
		t.Fatalf("session should keep working after a runtime error")
	}
	if got := stdout.String(); got != "1\n2\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestSessionEchoesDiagnostics(t *testing.T) {
	var stdout, stderr bytes.Buffer
	session := newTestSession(&stdout, &stderr)
	session.Run("var x = ;")
	want := "[1:9] Error: Expect expression. Found ';'.\n"
	if got := stderr.String(); got != want {
		t.Fatalf("stderr = %q, want %q", got, want)
	}
}

func TestSessionNativeClock(t *testing.T) {
	var stdout bytes.Buffer
	session := newTestSession(&stdout, nil)
	if static, runtime := session.Run("var t = clock(); print t >= 0; print clock;"); static || runtime {
		t.Fatalf("clock failed: %v", session.Diagnostics())
	}
	if got := stdout.String(); got != "true\n<native fn clock>\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.flex")
	if err := os.WriteFile(path, []byte("print \"from file\";\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var stdout bytes.Buffer
	session := newTestSession(&stdout, nil)
	static, runtime, err := session.RunFile(path)
	if err != nil || static || runtime {
		t.Fatalf("RunFile: static=%v runtime=%v err=%v", static, runtime, err)
	}
	if got := stdout.String(); got != "from file\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRunFileMissing(t *testing.T) {
	var stdout bytes.Buffer
	session := newTestSession(&stdout, nil)
	_, _, err := session.RunFile(filepath.Join(t.TempDir(), "missing.flex"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "driver: read ") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestSessionRejectedChunkDoesNotDefineGlobals(t *testing.T) {
	var stdout bytes.Buffer
	session := newTestSession(&stdout, nil)

	for run := 1; run <= 2; run++ {
		static, runtime := session.Run("var a = a;")
		if !static || runtime {
			t.Fatalf("run %d: expected static error only, got static=%v runtime=%v %v", run, static, runtime, session.Diagnostics())
		}
		diags := session.Diagnostics()
		if len(diags) != 1 || diags[0].String() != "[1:9] Error: Can't read local variable in its own initializer." {
			t.Fatalf("run %d: unexpected diagnostics %v", run, diags)
		}
	}

	session.Run("var b = 1; return;")
	if static, _ := session.Run("var b = b;"); !static {
		t.Fatalf("globals from a rejected chunk must not be visible to later input")
	}

	session.Run("print missing; var z = 1;")
	if static, _ := session.Run("var z = z;"); !static {
		t.Fatalf("a declaration skipped by a runtime error must not define a global")
	}

	if static, runtime := session.Run("var c = 1;"); static || runtime {
		t.Fatalf("unexpected failure: %v", session.Diagnostics())
	}
	if static, runtime := session.Run("var c = c + 1; print c;"); static || runtime {
		t.Fatalf("redefining a committed global should be allowed: %v", session.Diagnostics())
	}
	if got := stdout.String(); got != "2\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed pipe")
}

func TestSessionReportsOutputFailureAsRuntimeError(t *testing.T) {
	session := NewSession(WithStdout(brokenWriter{}), WithStderr(nil), WithLogger(logger.Discard()))
	static, runtime := session.Run("print 1;")
	if static || !runtime {
		t.Fatalf("expected runtime failure, got static=%v runtime=%v", static, runtime)
	}
	if diags := session.Diagnostics(); len(diags) != 1 || !strings.Contains(diags[0].Message, "closed pipe") {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
}
