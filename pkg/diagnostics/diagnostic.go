// Package diagnostics collects and renders lexical, syntax, resolution and
// runtime errors produced while running Flex source.
package diagnostics

import (
	"fmt"

	"flex/interpreter-go/pkg/token"
)

// Kind identifies which phase produced a diagnostic.
type Kind int

const (
	KindLex Kind = iota
	KindSyntax
	KindResolve
	KindRuntime
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex"
	case KindSyntax:
		return "syntax"
	case KindResolve:
		return "resolve"
	case KindRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Static reports whether the kind blocks interpretation.
func (k Kind) Static() bool {
	return k != KindRuntime
}

// Diagnostic is a single positioned error.
type Diagnostic struct {
	Kind    Kind
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%d:%d] Error: %s", d.Line, d.Column, d.Message)
}

// Reporter is the error sink shared by every pipeline phase. Report takes an
// explicit kind and position; RuntimeError carries the token that triggered a
// runtime failure.
type Reporter interface {
	Report(kind Kind, line, column int, message string)
	RuntimeError(tok token.Token, message string)
}

// ReportAt reports a static error positioned at tok.
func ReportAt(r Reporter, kind Kind, tok token.Token, message string) {
	r.Report(kind, tok.Line, tok.Column, message)
}
