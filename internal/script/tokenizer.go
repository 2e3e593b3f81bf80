package script

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits text into tokens, keeping whitespace and comments so
// callers can reason about physical lines. It never fails: malformed input
// yields Unterminated or single-rune Punctuation tokens. The last token is
// always EOF.
func Tokenize(text string) []Token {
	s := &scanner{src: text}

	var tokens []Token

	for {
		tok := s.scan()
		tokens = append(tokens, tok)

		if tok.Kind == EOF {
			return tokens
		}
	}
}

type scanner struct {
	src string
	pos int
	// prev is the last significant token kind; it decides whether "/"
	// starts a regular expression or is a division.
	prev Token
}

func (s *scanner) scan() Token {
	if s.pos >= len(s.src) {
		return Token{Kind: EOF, Start: len(s.src), End: len(s.src)}
	}

	start := s.pos
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])

	var tok Token

	switch {
	case isSpace(r):
		s.skipWhile(isSpace)
		tok = s.token(Whitespace, start)
	case strings.HasPrefix(s.src[s.pos:], "//"):
		if i := strings.IndexByte(s.src[s.pos:], '\n'); i >= 0 {
			s.pos += i
		} else {
			s.pos = len(s.src)
		}

		tok = s.token(Comment, start)
	case strings.HasPrefix(s.src[s.pos:], "/*"):
		tok = s.blockComment(start)
	case isIdentStart(r):
		s.skipWhile(isIdentPart)

		tok = s.token(Identifier, start)
		if IsKeyword(tok.Text) {
			tok.Kind = Keyword
		}
	case isDigit(r) || (r == '.' && s.pos+1 < len(s.src) && isDigit(rune(s.src[s.pos+1]))):
		s.number()
		tok = s.token(Number, start)
	case r == '"' || r == '\'':
		tok = s.quoted(start, byte(r), String)
	case r == '`':
		tok = s.quoted(start, '`', Template)
	case strings.ContainsRune(punctuation, r):
		s.pos += size
		tok = s.token(Punctuation, start)
	default:
		tok = s.operator(start, size)
	}

	if !tok.Trivia() {
		s.prev = tok
	}

	return tok
}

func (s *scanner) token(kind Kind, start int) Token {
	return Token{Kind: kind, Text: s.src[start:s.pos], Start: start, End: s.pos}
}

func (s *scanner) skipWhile(pred func(rune) bool) {
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !pred(r) {
			return
		}

		s.pos += size
	}
}

func (s *scanner) blockComment(start int) Token {
	end := strings.Index(s.src[s.pos+2:], "*/")
	if end < 0 {
		s.pos = len(s.src)
		tok := s.token(Comment, start)
		tok.Unterminated = true

		return tok
	}

	s.pos += 2 + end + 2

	return s.token(Comment, start)
}

func (s *scanner) number() {
	if strings.HasPrefix(s.src[s.pos:], "0x") || strings.HasPrefix(s.src[s.pos:], "0X") {
		s.pos += 2
		s.skipWhile(isHexDigit)

		return
	}

	s.skipWhile(isDigit)

	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		s.pos++
		s.skipWhile(isDigit)
	}

	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		next := s.pos + 1
		if next < len(s.src) && (s.src[next] == '+' || s.src[next] == '-') {
			next++
		}

		if next < len(s.src) && isDigit(rune(s.src[next])) {
			s.pos = next
			s.skipWhile(isDigit)
		}
	}
}

// quoted scans a string or template literal. Plain strings stop at a newline;
// templates may span lines.
func (s *scanner) quoted(start int, quote byte, kind Kind) Token {
	s.pos++

	for s.pos < len(s.src) {
		c := s.src[s.pos]

		switch {
		case c == '\\':
			s.pos += 2
			continue
		case c == quote:
			s.pos++
			return s.token(kind, start)
		case c == '\n' && kind == String:
			tok := s.token(kind, start)
			tok.Unterminated = true

			return tok
		}

		s.pos++
	}

	s.pos = len(s.src)
	tok := s.token(kind, start)
	tok.Unterminated = true

	return tok
}

func (s *scanner) operator(start, size int) Token {
	rest := s.src[s.pos:]

	if rest[0] == '/' && s.regexAllowed() {
		if tok, ok := s.regex(start); ok {
			return tok
		}
	}

	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			// "?." followed by a digit is a conditional and a number.
			if op == "?." && len(rest) > 2 && isDigit(rune(rest[2])) {
				continue
			}

			s.pos += len(op)

			return s.token(Operator, start)
		}
	}

	s.pos += size

	return s.token(Punctuation, start)
}

func (s *scanner) regexAllowed() bool {
	switch s.prev.Kind {
	case Identifier, Number, String, Template:
		return false
	case Keyword:
		switch s.prev.Text {
		case "this", "true", "false", "null", "undefined":
			return false
		}
	case Punctuation:
		return s.prev.Text != ")" && s.prev.Text != "]" && s.prev.Text != "}"
	}

	return true
}

// regex scans a /pattern/flags literal on a single line.
func (s *scanner) regex(start int) (Token, bool) {
	i := s.pos + 1
	inClass := false

	for i < len(s.src) {
		c := s.src[i]

		switch {
		case c == '\n':
			return Token{}, false
		case c == '\\':
			i += 2
			continue
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			s.pos = i + 1
			s.skipWhile(isIdentPart)

			return s.token(String, start), true
		}

		i++
	}

	return Token{}, false
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v' || r == '\u00a0' || r == '\ufeff'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
