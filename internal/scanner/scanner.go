// Package scanner turns source bytes into token.Tokens.
//
// It exposes both an eager mode (Scan, used by the tree-walker's parser)
// and a lazy one-token-at-a-time mode (Next, used by the single-pass
// compiler).
package scanner

import (
	"strconv"
	"strings"

	"lox/internal/report"
	"lox/internal/token"
)

// Scanner lexes a fixed source buffer.
type Scanner struct {
	src      []byte
	start    int
	current  int
	line     int
	reporter *report.Reporter
}

// New returns a Scanner over src, reporting lexical errors to r.
func New(src []byte, r *report.Reporter) *Scanner {
	return &Scanner{src: src, line: 1, reporter: r}
}

// Scan lexes the entire source eagerly and returns every token,
// terminated by a single EOF token.
func (s *Scanner) Scan() []token.Token {
	toks := make([]token.Token, 0, len(s.src)/4+1)
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

// Next lexes and returns the single next token, advancing past it.
// Returns a token.EOF token (repeatedly, if called again) once the
// source is exhausted.
func (s *Scanner) Next() token.Token {
	s.skipWhitespaceAndComments()
	s.start = s.current

	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()

	switch {
	case isDigit(c):
		return s.number()
	case isAlpha(c):
		return s.identifier()
	}

	switch c {
	case '(':
		return s.make(token.LeftParen)
	case ')':
		return s.make(token.RightParen)
	case '{':
		return s.make(token.LeftBrace)
	case '}':
		return s.make(token.RightBrace)
	case ',':
		return s.make(token.Comma)
	case '.':
		return s.make(token.Dot)
	case '-':
		return s.make(token.Minus)
	case '+':
		return s.make(token.Plus)
	case ';':
		return s.make(token.Semicolon)
	case '*':
		return s.make(token.Star)
	case '/':
		return s.make(token.Slash)
	case '!':
		if s.matchByte('=') {
			return s.make(token.BangEqual)
		}
		return s.make(token.Bang)
	case '=':
		if s.matchByte('=') {
			return s.make(token.EqualEqual)
		}
		return s.make(token.Equal)
	case '<':
		if s.matchByte('=') {
			return s.make(token.LessEqual)
		}
		return s.make(token.Less)
	case '>':
		if s.matchByte('=') {
			return s.make(token.GreaterEqual)
		}
		return s.make(token.Greater)
	case '"':
		return s.string()
	}

	s.reporter.Error(s.line, "Unexpected character.")
	return s.Next()
}

func (s *Scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.current++
		case '\n':
			s.line++
			s.current++
		case '/':
			if s.peekAt(1) == '/' {
				for !s.atEnd() && s.peek() != '\n' {
					s.current++
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) string() token.Token {
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.current++
	}

	if s.atEnd() {
		s.reporter.Error(s.line, "Unterminated string.")
		return s.make(token.EOF)
	}

	s.current++ // closing quote
	lexeme := string(s.src[s.start:s.current])
	literal := lexeme[1 : len(lexeme)-1]
	return token.Token{Type: token.String, Lexeme: lexeme, Literal: literal, Line: s.line}
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.current++
	}
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.current++ // consume '.'
		for isDigit(s.peek()) {
			s.current++
		}
	}

	lexeme := string(s.src[s.start:s.current])
	// Validated by the digit scan above; re-parsing here only
	// normalizes formatting for the literal text.
	f, _ := strconv.ParseFloat(lexeme, 64)
	literal := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.Contains(literal, ".") && !strings.ContainsAny(literal, "eE") {
		literal += ".0"
	}
	return token.Token{Type: token.Number, Lexeme: lexeme, Literal: literal, Line: s.line}
}

func (s *Scanner) identifier() token.Token {
	for isAlphaNumeric(s.peek()) {
		s.current++
	}
	lexeme := string(s.src[s.start:s.current])
	typ, ok := token.Keywords[lexeme]
	if !ok {
		typ = token.Identifier
	}
	return token.Token{Type: typ, Lexeme: lexeme, Line: s.line}
}

func (s *Scanner) make(typ token.Type) token.Token {
	return token.Token{Type: typ, Lexeme: string(s.src[s.start:s.current]), Line: s.line}
}

func (s *Scanner) atEnd() bool {
	return s.current >= len(s.src)
}

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekAt(offset int) byte {
	idx := s.current + offset
	if idx >= len(s.src) {
		return 0
	}
	return s.src[idx]
}

func (s *Scanner) matchByte(expected byte) bool {
	if s.atEnd() || s.src[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
