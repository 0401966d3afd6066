package sexpr

import (
	"io"
	"strings"
)

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenOpen TokenKind = iota
	TokenClose
	TokenSymbol
	TokenNumber
	TokenString
)

func (k TokenKind) String() string {
	switch k {
	case TokenOpen:
		return "("
	case TokenClose:
		return ")"
	case TokenSymbol:
		return "symbol"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	}
	return "unknown"
}

// Token is one lexical unit. Text holds the unescaped contents for strings
// and the verbatim run for symbols and numbers.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
}

// Lexer splits source text into tokens.
// A Lexer is single-use; construct a new one to restart from the beginning.
type Lexer struct {
	src  string
	off  int
	line int
	col  int
}

// NewLexer returns a lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Lex tokenizes the whole of src.
func Lex(src string) ([]Token, error) {
	l := NewLexer(src)
	var toks []Token
	for {
		tok, err := l.Next()
		if err == io.EOF {
			return toks, nil
		}
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
}

// Pos returns the current position of the lexer.
func (l *Lexer) Pos() Position {
	return Position{Offset: l.off, Line: l.line, Column: l.col}
}

// Next returns the next token, or io.EOF once the input is exhausted.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()
	if l.off >= len(l.src) {
		return Token{}, io.EOF
	}

	pos := l.Pos()
	switch c := l.src[l.off]; c {
	case '(':
		l.advance()
		return Token{Kind: TokenOpen, Text: "(", Pos: pos}, nil
	case ')':
		l.advance()
		return Token{Kind: TokenClose, Text: ")", Pos: pos}, nil
	case '"':
		return l.lexString(pos)
	default:
		return l.lexBare(pos), nil
	}
}

func (l *Lexer) advance() {
	if l.src[l.off] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.off++
}

func (l *Lexer) skipWhitespace() {
	for l.off < len(l.src) && isSpace(l.src[l.off]) {
		l.advance()
	}
}

func (l *Lexer) lexBare(pos Position) Token {
	start := l.off
	for l.off < len(l.src) && !isDelimiter(l.src[l.off]) {
		l.advance()
	}
	text := l.src[start:l.off]
	kind := TokenSymbol
	if looksNumeric(text) {
		kind = TokenNumber
	}
	return Token{Kind: kind, Text: text, Pos: pos}
}

func (l *Lexer) lexString(pos Position) (Token, error) {
	l.advance() // opening quote

	var sb strings.Builder
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch c {
		case '"':
			l.advance()
			return Token{Kind: TokenString, Text: sb.String(), Pos: pos}, nil
		case '\\':
			escPos := l.Pos()
			l.advance()
			if l.off >= len(l.src) {
				return Token{}, newLexError(ErrUnterminatedString, pos)
			}
			r, ok := unescape(l.src[l.off])
			if !ok {
				return Token{}, newLexError(ErrInvalidEscape, escPos)
			}
			sb.WriteByte(r)
			l.advance()
		default:
			sb.WriteByte(c)
			l.advance()
		}
	}
	return Token{}, newLexError(ErrUnterminatedString, pos)
}

func unescape(c byte) (byte, bool) {
	switch c {
	case '\\', '"':
		return c, true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	}
	return 0, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || c == '(' || c == ')' || c == '"'
}

// looksNumeric reports whether a bare run is made only of digits, signs and
// dots and holds at least one digit.
func looksNumeric(s string) bool {
	digits := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '-' || c == '+' || c == '.':
		default:
			return false
		}
	}
	return digits > 0
}
