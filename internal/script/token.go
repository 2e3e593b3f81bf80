// Package script tokenizes and parses the expression language embedded in
// host documents between <% and %> delimiters.
package script

import (
	"fmt"

	"github.com/mouse-blink/auditor/internal/source"
)

// Kind classifies a token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	Identifier
	Keyword
	Number
	String
	Template
	Operator
	Punctuation
	Comment
	Whitespace
)

var kindNames = [...]string{
	EOF:         "EOF",
	Identifier:  "Identifier",
	Keyword:     "Keyword",
	Number:      "Number",
	String:      "String",
	Template:    "Template",
	Operator:    "Operator",
	Punctuation: "Punctuation",
	Comment:     "Comment",
	Whitespace:  "Whitespace",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a lexeme with its byte span in the tokenized text.
type Token struct {
	Kind  Kind
	Text  string
	Start int
	End   int
	// Unterminated is set on strings, templates and block comments that ran
	// to the end of input without a closing delimiter.
	Unterminated bool
}

// Span returns the token's byte range.
func (t Token) Span() source.Span {
	return source.Span{Start: t.Start, End: t.End}
}

// Is reports whether the token is an operator or punctuation with the given text.
func (t Token) Is(text string) bool {
	return (t.Kind == Operator || t.Kind == Punctuation) && t.Text == text
}

// IsKeyword reports whether the token is the given keyword.
func (t Token) IsKeyword(word string) bool {
	return t.Kind == Keyword && t.Text == word
}

// Trivia reports whether the token carries no syntax (whitespace or comment).
func (t Token) Trivia() bool {
	return t.Kind == Whitespace || t.Kind == Comment
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Start)
}

var keywords = map[string]bool{
	"var": true, "let": true, "const": true, "function": true, "return": true,
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"break": true, "continue": true, "in": true, "of": true, "new": true,
	"typeof": true, "instanceof": true, "delete": true, "void": true,
	"true": true, "false": true, "null": true, "undefined": true, "empty": true,
	"switch": true, "case": true, "default": true, "try": true, "catch": true,
	"finally": true, "throw": true, "this": true,
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	return keywords[word]
}

// operators sorted longest first so the tokenizer can match greedily.
var operators = []string{
	"===", "!==", "**=", "...", ">>>",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "**", "<<", ">>",
	"=", "<", ">", "+", "-", "*", "/", "%", "!", "?", ":", "&", "|", "^", "~", ".",
}

const punctuation = "(){}[];,"

// precedence returns the binding power of a binary operator token, or 0.
func precedence(t Token) int {
	switch t.Kind {
	case Keyword:
		switch t.Text {
		case "in", "instanceof":
			return 7
		}
	case Operator:
		switch t.Text {
		case "??":
			return 1
		case "||":
			return 2
		case "&&":
			return 3
		case "|", "^", "&":
			return 4
		case "==", "!=", "===", "!==":
			return 6
		case "<", ">", "<=", ">=":
			return 7
		case "<<", ">>", ">>>":
			return 8
		case "+", "-":
			return 9
		case "*", "/", "%":
			return 10
		case "**":
			return 11
		}
	}

	return 0
}
