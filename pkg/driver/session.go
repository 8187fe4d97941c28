// Package driver wires the Flex pipeline together and loads project
// manifests.
package driver

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"flex/interpreter-go/pkg/ast"
	"flex/interpreter-go/pkg/diagnostics"
	"flex/interpreter-go/pkg/interpreter"
	"flex/interpreter-go/pkg/lexer"
	"flex/interpreter-go/pkg/logger"
	"flex/interpreter-go/pkg/parser"
	"flex/interpreter-go/pkg/resolver"
)

// Session runs source text through scan, parse, resolve and interpret. One
// session keeps its globals, node ids and resolution table across calls to
// Run, which is what a REPL needs.
type Session struct {
	ids      *ast.IDGenerator
	resolver *resolver.Resolver
	interp   *interpreter.Interpreter
	bag      *diagnostics.Bag
	log      *slog.Logger
}

type sessionConfig struct {
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

// WithStdout sets where `print` writes.
func WithStdout(w io.Writer) SessionOption {
	return func(c *sessionConfig) { c.stdout = w }
}

// WithStderr sets where diagnostics are echoed as they are reported. A nil
// writer only collects them.
func WithStderr(w io.Writer) SessionOption {
	return func(c *sessionConfig) { c.stderr = w }
}

// WithLogger sets the structured logger for pipeline events.
func WithLogger(l *slog.Logger) SessionOption {
	return func(c *sessionConfig) { c.log = l }
}

// NewSession creates a session writing to os.Stdout and os.Stderr unless
// overridden.
func NewSession(opts ...SessionOption) *Session {
	cfg := sessionConfig{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = slog.Default()
	}

	bag := diagnostics.NewBag(cfg.stderr)
	interp := interpreter.New(interpreter.WithOutput(cfg.stdout), interpreter.WithReporter(bag))
	s := &Session{
		ids:      &ast.IDGenerator{},
		resolver: resolver.New(bag),
		interp:   interp,
		bag:      bag,
		log:      cfg.log,
	}
	s.syncGlobals()
	return s
}

func (s *Session) syncGlobals() {
	for _, name := range s.interp.GlobalEnvironment().Keys() {
		s.resolver.DefineGlobal(name)
	}
}

// Run executes one chunk of source. Interpretation is skipped when scanning,
// parsing or resolving this chunk reported an error. Diagnostics from earlier
// calls are cleared first.
func (s *Session) Run(source string) (hadStaticError, hadRuntimeError bool) {
	s.bag.Reset()

	started := time.Now()
	tokens := lexer.Scan(source, s.bag)
	logger.LogPhase(s.log, "scan", started, "tokens", len(tokens))

	started = time.Now()
	statements := parser.Parse(tokens, s.ids, s.bag)
	logger.LogPhase(s.log, "parse", started, "statements", len(statements))
	if s.bag.HasStaticErrors() {
		s.log.Debug("skipping execution", "reason", "syntax errors", "diagnostics", len(s.bag.Diagnostics()))
		return true, false
	}

	started = time.Now()
	s.resolver.Resolve(statements)
	logger.LogPhase(s.log, "resolve", started, "locals", len(s.resolver.Locals()))
	if s.bag.HasStaticErrors() {
		s.resolver.Rollback()
		s.log.Debug("skipping execution", "reason", "resolution errors", "diagnostics", len(s.bag.Diagnostics()))
		return true, false
	}

	started = time.Now()
	err := s.interp.Interpret(statements, s.resolver.Locals())
	logger.LogPhase(s.log, "interpret", started, "failed", err != nil)
	// Only declarations that actually ran become globals.
	s.resolver.Rollback()
	s.syncGlobals()
	if err != nil {
		s.log.Debug("runtime error", "error", err)
	}
	return false, s.bag.HasRuntimeErrors()
}

// RunFile reads path and runs its contents.
func (s *Session) RunFile(path string) (hadStaticError, hadRuntimeError bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, false, fmt.Errorf("driver: read %s: %w", path, err)
	}
	s.log.Debug("running file", "path", path, "bytes", len(data))
	hadStaticError, hadRuntimeError = s.Run(string(data))
	return hadStaticError, hadRuntimeError, nil
}

// Diagnostics returns what the most recent Run reported.
func (s *Session) Diagnostics() []diagnostics.Diagnostic {
	return s.bag.Diagnostics()
}
