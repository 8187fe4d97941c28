// Package parser builds Flex statements from a token stream.
package parser

import (
	"fmt"

	"flex/interpreter-go/pkg/ast"
	"flex/interpreter-go/pkg/diagnostics"
	"flex/interpreter-go/pkg/token"
)

// maxArity caps both parameter lists and call argument lists.
const maxArity = 255

// Parser is a recursive-descent parser with panic-mode recovery. Errors are
// reported as they are found; a declaration that fails to parse is dropped
// and parsing resumes at the next statement boundary.
type Parser struct {
	tokens   []token.Token
	current  int
	ids      *ast.IDGenerator
	reporter diagnostics.Reporter
}

// parseError unwinds the parser to the nearest declaration.
type parseError struct {
	tok     token.Token
	message string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("parser: %d:%d: %s", e.tok.Line, e.tok.Column, e.message)
}

// New creates a parser over an EOF-terminated token list. ids may be nil, in
// which case the parser numbers nodes from its own generator.
func New(tokens []token.Token, ids *ast.IDGenerator, reporter diagnostics.Reporter) *Parser {
	if ids == nil {
		ids = &ast.IDGenerator{}
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line, column := 1, 1
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			line, column = last.Line, last.Column+len([]rune(last.Lexeme))
		}
		tokens = append(tokens[:len(tokens):len(tokens)], token.New(token.EOF, "", nil, line, column))
	}
	return &Parser{tokens: tokens, ids: ids, reporter: reporter}
}

// Parse parses a whole program.
func Parse(tokens []token.Token, ids *ast.IDGenerator, reporter diagnostics.Reporter) []ast.Statement {
	return New(tokens, ids, reporter).Parse()
}

// Parse returns every well-formed top-level declaration in source order.
func (p *Parser) Parse() []ast.Statement {
	var statements []ast.Statement
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// errorAt reports a syntax error at tok and returns it for unwinding.
func (p *Parser) errorAt(tok token.Token, message string) *parseError {
	if tok.Kind == token.EOF {
		message += " Found end of input."
	} else {
		message += fmt.Sprintf(" Found '%s'.", tok.Lexeme)
	}
	if p.reporter != nil {
		p.reporter.Report(diagnostics.KindSyntax, tok.Line, tok.Column, message)
	}
	return &parseError{tok: tok, message: message}
}

// synchronize discards tokens until just after a ';' or just before a
// keyword that starts a statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If,
			token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}
