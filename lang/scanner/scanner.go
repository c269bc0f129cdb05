// Package scanner tokenizes ember source text for the parser to consume.
// The scanning loop and its advance/peek/error plumbing follow the shape of
// go/scanner.Scanner (and mna/nenuphar/lang/scanner, which adapts the same
// source): a single current-rune cursor advanced one codepoint at a time,
// with positions tracked as the scanner goes rather than recovered after
// the fact from byte offsets.
package scanner

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ember-lang/ember/lang/token"
)

// Scanner tokenizes a single source file.
type Scanner struct {
	filename string
	src      []byte
	err      func(pos token.Position, msg string)

	cur  rune // current character, -1 at end of file
	off  int  // byte offset of cur
	roff int  // byte offset just past cur

	line    int // 1-based line of cur
	col     int // 1-based column of cur
	lineOff int // byte offset where the current line started
}

// Init prepares s to scan src. errHandler is called once per lexical error
// encountered; it may be nil to discard errors (Scan still produces ILLEGAL
// tokens in that case).
func (s *Scanner) Init(filename string, src []byte, errHandler func(token.Position, string)) {
	s.filename = filename
	s.src = src
	s.err = errHandler
	s.off = 0
	s.roff = 0
	s.line = 1
	s.col = 0
	s.lineOff = 0
	s.cur = ' '
	s.advance()
}

func (s *Scanner) advance() {
	if s.cur == '\n' {
		s.line++
		s.lineOff = s.roff
	}
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		s.col = s.off - s.lineOff + 1
		return
	}
	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.errorAt(s.off, "illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.cur = r
	s.col = s.off - s.lineOff + 1
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) posAt(off, col int) token.Position {
	return token.Position{Line: s.line, FromCol: col, ToCol: col}
}

func (s *Scanner) errorAt(off int, msg string) {
	if s.err != nil {
		s.err(s.posAt(off, s.col), msg)
	}
}

func (s *Scanner) advanceIf(c rune) bool {
	if s.cur == c {
		s.advance()
		return true
	}
	return false
}

func isLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case s.cur == ' ' || s.cur == '\t' || s.cur == '\r' || s.cur == '\n':
			s.advance()
		case s.cur == '/' && s.peek() == '/':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) number() string {
	start := s.off
	for isDigit(s.cur) {
		s.advance()
	}
	if s.cur == '.' && isDigit(rune(s.peek())) {
		s.advance()
		for isDigit(s.cur) {
			s.advance()
		}
	}
	if s.cur == 'e' || s.cur == 'E' {
		save := *s
		s.advance()
		if s.cur == '+' || s.cur == '-' {
			s.advance()
		}
		if isDigit(s.cur) {
			for isDigit(s.cur) {
				s.advance()
			}
		} else {
			// not actually an exponent; rewind the cursor to the 'e'/'E' so
			// the number ends before it and the rest (a bare 'e'/'E'
			// identifier) is left for the next Scan.
			*s = save
		}
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) stringLit(quote rune) (string, bool) {
	var sb strings.Builder
	ok := true
	for {
		if s.cur == quote {
			s.advance()
			return sb.String(), ok
		}
		if s.cur == -1 || s.cur == '\n' {
			s.errorAt(s.off, "string literal not terminated")
			return sb.String(), false
		}
		if s.cur == '\\' {
			s.advance()
			switch s.cur {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '\'':
				sb.WriteByte('\'')
			default:
				s.errorAt(s.off, "unknown escape sequence")
				ok = false
				sb.WriteRune(s.cur)
			}
			s.advance()
			continue
		}
		sb.WriteRune(s.cur)
		s.advance()
	}
}

// Scan returns the next token in the source.
func (s *Scanner) Scan() token.Token {
	s.skipWhitespaceAndComments()

	startCol := s.col
	pos := s.posAt(s.off, startCol)

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		return token.Token{Kind: token.LookupIdent(lit), Lexeme: lit, Pos: pos}

	case isDigit(cur) || (cur == '.' && isDigit(rune(s.peek()))):
		lit := s.number()
		return token.Token{Kind: token.NUMBER, Lexeme: lit, Pos: pos}

	case cur == -1:
		return token.Token{Kind: token.EOF, Pos: pos}

	case cur == '"':
		s.advance()
		lit, _ := s.stringLit('"')
		return token.Token{Kind: token.STRING, Lexeme: lit, Pos: pos}

	default:
		s.advance()
		switch cur {
		case '+':
			return token.Token{Kind: token.PLUS, Lexeme: "+", Pos: pos}
		case '-':
			if s.advanceIf('>') {
				return token.Token{Kind: token.ARROW, Lexeme: "->", Pos: pos}
			}
			return token.Token{Kind: token.MINUS, Lexeme: "-", Pos: pos}
		case '*':
			return token.Token{Kind: token.STAR, Lexeme: "*", Pos: pos}
		case '/':
			return token.Token{Kind: token.SLASH, Lexeme: "/", Pos: pos}
		case '!':
			if s.advanceIf('=') {
				return token.Token{Kind: token.BANGEQ, Lexeme: "!=", Pos: pos}
			}
			return token.Token{Kind: token.BANG, Lexeme: "!", Pos: pos}
		case '=':
			if s.advanceIf('=') {
				return token.Token{Kind: token.EQEQ, Lexeme: "==", Pos: pos}
			}
			return token.Token{Kind: token.EQ, Lexeme: "=", Pos: pos}
		case '<':
			if s.advanceIf('=') {
				return token.Token{Kind: token.LE, Lexeme: "<=", Pos: pos}
			}
			return token.Token{Kind: token.LT, Lexeme: "<", Pos: pos}
		case '>':
			if s.advanceIf('=') {
				return token.Token{Kind: token.GE, Lexeme: ">=", Pos: pos}
			}
			return token.Token{Kind: token.GT, Lexeme: ">", Pos: pos}
		case '&':
			if s.advanceIf('&') {
				return token.Token{Kind: token.AMPAMP, Lexeme: "&&", Pos: pos}
			}
			s.errorAt(s.off, "unexpected character '&'")
			return token.Token{Kind: token.ILLEGAL, Lexeme: "&", Pos: pos}
		case '|':
			if s.advanceIf('|') {
				return token.Token{Kind: token.PIPEPIPE, Lexeme: "||", Pos: pos}
			}
			s.errorAt(s.off, "unexpected character '|'")
			return token.Token{Kind: token.ILLEGAL, Lexeme: "|", Pos: pos}
		case '(':
			return token.Token{Kind: token.LPAREN, Lexeme: "(", Pos: pos}
		case ')':
			return token.Token{Kind: token.RPAREN, Lexeme: ")", Pos: pos}
		case '{':
			return token.Token{Kind: token.LBRACE, Lexeme: "{", Pos: pos}
		case '}':
			return token.Token{Kind: token.RBRACE, Lexeme: "}", Pos: pos}
		case ',':
			return token.Token{Kind: token.COMMA, Lexeme: ",", Pos: pos}
		case ';':
			return token.Token{Kind: token.SEMI, Lexeme: ";", Pos: pos}
		case ':':
			return token.Token{Kind: token.COLON, Lexeme: ":", Pos: pos}
		default:
			s.errorAt(s.off, "unexpected character "+string(cur))
			return token.Token{Kind: token.ILLEGAL, Lexeme: string(cur), Pos: pos}
		}
	}
}
