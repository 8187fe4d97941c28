// Package token defines the lexical tokens shared by the lexer and parser.
package token

import "fmt"

// Kind identifies the lexical category of a token.
type Kind int

const (
	// Single-character tokens.
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Semicolon
	Minus
	Plus
	Percent
	Slash
	Star

	// One or two character tokens.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Break
	Class
	Else
	False
	For
	Fun
	If
	Null
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	EOF
)

var kindNames = [...]string{
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	Comma:        ",",
	Dot:          ".",
	Semicolon:    ";",
	Minus:        "-",
	Plus:         "+",
	Percent:      "%",
	Slash:        "/",
	Star:         "*",
	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",
	Identifier:   "identifier",
	String:       "string",
	Number:       "number",
	And:          "and",
	Break:        "break",
	Class:        "class",
	Else:         "else",
	False:        "false",
	For:          "for",
	Fun:          "fun",
	If:           "if",
	Null:         "null",
	Or:           "or",
	Print:        "print",
	Return:       "return",
	Super:        "super",
	This:         "this",
	True:         "true",
	Var:          "var",
	While:        "while",
	EOF:          "end of file",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

// Keywords maps reserved words to their token kinds.
var Keywords = map[string]Kind{
	"and":    And,
	"break":  Break,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"null":   Null,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// LookupIdent returns the keyword kind for ident, or Identifier.
func LookupIdent(ident string) Kind {
	if kind, ok := Keywords[ident]; ok {
		return kind
	}
	return Identifier
}

// Token is an immutable lexeme with its source position. Literal holds the
// parsed float64 for numbers and the unquoted text for strings.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal any
	Line    int
	Column  int
}

// New builds a token.
func New(kind Kind, lexeme string, literal any, line, column int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Literal: literal, Line: line, Column: column}
}

func (t Token) String() string {
	if t.Kind == EOF {
		return fmt.Sprintf("%d:%d EOF", t.Line, t.Column)
	}
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Column, t.Kind, t.Lexeme)
}
