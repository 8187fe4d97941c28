// Package lexer turns Flex source text into tokens.
package lexer

import (
	"fmt"
	"strconv"

	"flex/interpreter-go/pkg/diagnostics"
	"flex/interpreter-go/pkg/token"
)

// Lexer scans one source string. It never aborts: bad input is reported to
// the reporter and scanning resumes after the offending character.
type Lexer struct {
	source   []rune
	reporter diagnostics.Reporter
	tokens   []token.Token

	start       int
	current     int
	line        int
	column      int
	startLine   int
	startColumn int
}

// New creates a lexer over source.
func New(source string, reporter diagnostics.Reporter) *Lexer {
	return &Lexer{
		source:   []rune(source),
		reporter: reporter,
		line:     1,
	}
}

// Scan tokenizes source and returns the EOF-terminated token list.
func Scan(source string, reporter diagnostics.Reporter) []token.Token {
	return New(source, reporter).Tokens()
}

// Tokens scans the whole input.
func (l *Lexer) Tokens() []token.Token {
	for !l.isAtEnd() {
		l.start = l.current
		l.startLine = l.line
		l.startColumn = l.column + 1
		l.scanToken()
	}
	l.tokens = append(l.tokens, token.New(token.EOF, "", nil, l.line, l.column+1))
	return l.tokens
}

func (l *Lexer) scanToken() {
	c := l.advance()
	switch c {
	case '(':
		l.addToken(token.LeftParen)
	case ')':
		l.addToken(token.RightParen)
	case '{':
		l.addToken(token.LeftBrace)
	case '}':
		l.addToken(token.RightBrace)
	case ',':
		l.addToken(token.Comma)
	case '.':
		l.addToken(token.Dot)
	case ';':
		l.addToken(token.Semicolon)
	case '-':
		l.addToken(token.Minus)
	case '+':
		l.addToken(token.Plus)
	case '%':
		l.addToken(token.Percent)
	case '*':
		if l.match('/') {
			l.errorAt(l.startLine, l.startColumn, "Unmatched block comment closer '*/'.")
			return
		}
		l.addToken(token.Star)
	case '/':
		switch {
		case l.match('/'):
			l.lineComment()
		case l.match('*'):
			l.blockComment()
		default:
			l.addToken(token.Slash)
		}
	case '!':
		l.addToken(l.pick('=', token.BangEqual, token.Bang))
	case '=':
		l.addToken(l.pick('=', token.EqualEqual, token.Equal))
	case '<':
		l.addToken(l.pick('=', token.LessEqual, token.Less))
	case '>':
		l.addToken(l.pick('=', token.GreaterEqual, token.Greater))
	case ' ', '\r', '\t', '\n':
	case '"':
		l.stringLiteral()
	default:
		switch {
		case isDigit(c):
			l.numberLiteral()
		case isAlpha(c):
			l.identifier()
		default:
			l.errorAt(l.startLine, l.startColumn, fmt.Sprintf("Unexpected character '%c'.", c))
		}
	}
}

func (l *Lexer) lineComment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

func (l *Lexer) blockComment() {
	for !l.isAtEnd() {
		if l.advance() == '*' && l.match('/') {
			return
		}
	}
	l.errorAt(l.startLine, l.startColumn, "Unterminated block comment.")
}

func (l *Lexer) stringLiteral() {
	for !l.isAtEnd() && l.peek() != '"' {
		l.advance()
	}
	if l.isAtEnd() {
		l.errorAt(l.startLine, l.startColumn, "Unterminated string.")
		return
	}
	l.advance()
	value := string(l.source[l.start+1 : l.current-1])
	l.addLiteral(token.String, value)
}

func (l *Lexer) numberLiteral() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	text := string(l.source[l.start:l.current])
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		l.errorAt(l.startLine, l.startColumn, fmt.Sprintf("Invalid number literal '%s'.", text))
		return
	}
	l.addLiteral(token.Number, value)
}

func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	l.addToken(token.LookupIdent(string(l.source[l.start:l.current])))
}

func (l *Lexer) pick(next rune, matched, single token.Kind) token.Kind {
	if l.match(next) {
		return matched
	}
	return single
}

func (l *Lexer) addToken(kind token.Kind) {
	l.addLiteral(kind, nil)
}

func (l *Lexer) addLiteral(kind token.Kind, literal any) {
	lexeme := string(l.source[l.start:l.current])
	l.tokens = append(l.tokens, token.New(kind, lexeme, literal, l.startLine, l.startColumn))
}

func (l *Lexer) errorAt(line, column int, message string) {
	if l.reporter != nil {
		l.reporter.Report(diagnostics.KindLex, line, column, message)
	}
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) advance() rune {
	c := l.source[l.current]
	l.current++
	if c == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	return c
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() rune {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c rune) bool {
	return isAlpha(c) || isDigit(c)
}
