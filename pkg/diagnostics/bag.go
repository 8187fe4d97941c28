package diagnostics

import (
	"fmt"
	"io"
	"sync"

	"flex/interpreter-go/pkg/token"
)

// Bag collects diagnostics and, when an output writer is configured, echoes
// each one as it arrives.
type Bag struct {
	mu           sync.Mutex
	diagnostics  []Diagnostic
	out          io.Writer
	staticCount  int
	runtimeCount int
}

// NewBag creates an empty bag. out may be nil.
func NewBag(out io.Writer) *Bag {
	return &Bag{out: out}
}

// Report records a diagnostic of the given kind.
func (b *Bag) Report(kind Kind, line, column int, message string) {
	b.add(Diagnostic{Kind: kind, Line: line, Column: column, Message: message})
}

// RuntimeError records a runtime diagnostic positioned at tok.
func (b *Bag) RuntimeError(tok token.Token, message string) {
	b.add(Diagnostic{Kind: KindRuntime, Line: tok.Line, Column: tok.Column, Message: message})
}

func (b *Bag) add(diag Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.diagnostics = append(b.diagnostics, diag)
	if diag.Kind.Static() {
		b.staticCount++
	} else {
		b.runtimeCount++
	}
	if b.out != nil {
		fmt.Fprintln(b.out, diag.String())
	}
}

// HasStaticErrors reports whether any lexical, syntax or resolution error was
// recorded since the last Reset.
func (b *Bag) HasStaticErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.staticCount > 0
}

// HasRuntimeErrors reports whether a runtime error was recorded since the
// last Reset.
func (b *Bag) HasRuntimeErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.runtimeCount > 0
}

// Diagnostics returns a copy of the recorded diagnostics in report order.
func (b *Bag) Diagnostics() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Diagnostic, len(b.diagnostics))
	copy(out, b.diagnostics)
	return out
}

// Messages returns the message text of every diagnostic of the given kinds,
// or of all diagnostics when no kind is given.
func (b *Bag) Messages(kinds ...Kind) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, diag := range b.diagnostics {
		if len(kinds) > 0 && !hasKind(kinds, diag.Kind) {
			continue
		}
		out = append(out, diag.Message)
	}
	return out
}

func hasKind(kinds []Kind, kind Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Reset clears all recorded diagnostics and counters.
func (b *Bag) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.diagnostics = nil
	b.staticCount = 0
	b.runtimeCount = 0
}
