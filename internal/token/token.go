// Package token defines the lexical symbols of the language.
package token

import (
	"fmt"
	"monkey-lang/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF

	// Literals
	IDENT  // add, foobar, x
	INT    // 1343456
	STRING // "hello"

	// Operators
	ASSIGN   // =
	PLUS     // +
	MINUS    // -
	BANG     // !
	ASTERISK // *
	SLASH    // /
	LT       // <
	GT       // >
	EQ       // ==
	NOT_EQ   // !=

	// Delimiters
	COMMA     // ,
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }

	// Keywords
	KW_LET
	KW_FN
	KW_TRUE
	KW_FALSE
	KW_IF
	KW_ELSE
	KW_RETURN
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	INT:    "INT",
	STRING: "STRING",

	ASSIGN:   "=",
	PLUS:     "+",
	MINUS:    "-",
	BANG:     "!",
	ASTERISK: "*",
	SLASH:    "/",
	LT:       "<",
	GT:       ">",
	EQ:       "==",
	NOT_EQ:   "!=",

	COMMA:     ",",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",

	KW_LET:    "let",
	KW_FN:     "fn",
	KW_TRUE:   "true",
	KW_FALSE:  "false",
	KW_IF:     "if",
	KW_ELSE:   "else",
	KW_RETURN: "return",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool {
	return k >= KW_LET && k <= KW_RETURN
}

var keywords = map[string]Kind{
	"let":    KW_LET,
	"fn":     KW_FN,
	"true":   KW_TRUE,
	"false":  KW_FALSE,
	"if":     KW_IF,
	"else":   KW_ELSE,
	"return": KW_RETURN,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token is a lexical token: its kind, the exact source slice it was
// scanned from, and where that slice sits in the source.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
