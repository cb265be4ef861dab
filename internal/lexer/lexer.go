package lexer

import (
	"unicode/utf8"

	"github.com/xirelogy/go-lox/internal/token"
)

const (
	msgUnterminatedString = "Unterminated string."
	msgUnexpectedChar     = "Unexpected character"
)

// Lexer converts source text into a stream of tokens.
// It borrows the input: every token literal is a slice of it.
type Lexer struct {
	input  string
	start  int // offset of the token being scanned
	pos    int // next read position
	line   int
	column int

	startLine   int
	startColumn int
}

// New creates a lexer for the provided source text.
func New(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
	}
}

// NextToken returns the next token from the input.
// Once the input is exhausted it keeps returning EOF.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	l.markStart()

	if l.atEnd() {
		return l.makeToken(token.EOF)
	}

	ch := l.readChar()
	if isLetter(ch) {
		return l.readIdentifier()
	}
	if isDigit(ch) {
		return l.readNumber()
	}

	switch ch {
	case '(':
		return l.makeToken(token.LParen)
	case ')':
		return l.makeToken(token.RParen)
	case '{':
		return l.makeToken(token.LBrace)
	case '}':
		return l.makeToken(token.RBrace)
	case ';':
		return l.makeToken(token.Semicolon)
	case ',':
		return l.makeToken(token.Comma)
	case '.':
		return l.makeToken(token.Dot)
	case '-':
		return l.makeToken(token.Minus)
	case '+':
		return l.makeToken(token.Plus)
	case '/':
		return l.makeToken(token.Slash)
	case '*':
		return l.makeToken(token.Star)
	case '!':
		if l.match('=') {
			return l.makeToken(token.NotEqual)
		}
		return l.makeToken(token.Bang)
	case '=':
		if l.match('=') {
			return l.makeToken(token.Equal)
		}
		return l.makeToken(token.Assign)
	case '<':
		if l.match('=') {
			return l.makeToken(token.LessEqual)
		}
		return l.makeToken(token.Less)
	case '>':
		if l.match('=') {
			return l.makeToken(token.GreaterEqual)
		}
		return l.makeToken(token.Greater)
	case '"':
		return l.readString()
	}

	// swallow the rest of a multi-byte character so the error covers it whole
	if ch >= utf8.RuneSelf {
		_, size := utf8.DecodeRuneInString(l.input[l.start:])
		for l.pos < l.start+size {
			l.readChar()
		}
	}
	return l.errorToken(msgUnexpectedChar)
}

func (l *Lexer) markStart() {
	l.start = l.pos
	l.startLine = l.line
	l.startColumn = l.column + 1
}

func (l *Lexer) makeToken(t token.Type) token.Token {
	return token.Token{
		Type:    t,
		Literal: l.input[l.start:l.pos],
		Pos: token.Position{
			Offset: l.start,
			Line:   l.startLine,
			Column: l.startColumn,
		},
	}
}

func (l *Lexer) errorToken(msg string) token.Token {
	tok := l.makeToken(token.Error)
	tok.Message = msg
	return tok
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch l.peekChar() {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		case '/':
			if l.peekNext() != '/' {
				return
			}
			for !l.atEnd() && l.peekChar() != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() token.Token {
	for isLetter(l.peekChar()) || isDigit(l.peekChar()) {
		l.readChar()
	}
	return l.makeToken(token.LookupIdent(l.input[l.start:l.pos]))
}

func (l *Lexer) readNumber() token.Token {
	for isDigit(l.peekChar()) {
		l.readChar()
	}
	if l.peekChar() == '.' && isDigit(l.peekNext()) {
		l.readChar()
		for isDigit(l.peekChar()) {
			l.readChar()
		}
	}
	return l.makeToken(token.Number)
}

func (l *Lexer) readString() token.Token {
	for !l.atEnd() && l.peekChar() != '"' {
		l.readChar()
	}
	if l.atEnd() {
		return l.errorToken(msgUnterminatedString)
	}
	l.readChar() // closing quote
	return l.makeToken(token.String)
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) match(expected byte) bool {
	if l.atEnd() || l.input[l.pos] != expected {
		return false
	}
	l.readChar()
	return true
}

func (l *Lexer) peekChar() byte {
	if l.atEnd() {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) readChar() byte {
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	return ch
}
