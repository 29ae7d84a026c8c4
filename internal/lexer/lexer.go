// Package lexer turns source text into a forward-only stream of tokens.
package lexer

import (
	"monkey-lang/internal/span"
	"monkey-lang/internal/token"
	"unicode"
	"unicode/utf8"
)

// Lexer scans source one token at a time. It is not restartable.
type Lexer struct {
	source string

	ch      rune // current character, 0 at end of input
	pos     int  // byte offset of ch
	readPos int  // byte offset of the character after ch
	line    int  // line of ch (1-based)
	col     int  // column of ch (1-based)

	done bool
}

// New creates a Lexer positioned at the first character of source.
func New(source string) *Lexer {
	l := &Lexer{source: source, line: 1, col: 0}
	l.readChar()
	return l
}

// Next returns the next token, or false once the input is exhausted.
func (l *Lexer) Next() (token.Token, bool) {
	if l.done {
		return token.Token{}, false
	}
	l.skipWhitespace()
	if l.atEnd() {
		l.done = true
		return token.Token{}, false
	}
	return l.nextToken(), true
}

// Tokenize drains the lexer and returns every token followed by a
// terminating EOF token.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for {
		tok, ok := l.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	end := l.Pos()
	return append(tokens, token.Token{Kind: token.EOF, Span: span.Span{Start: end, End: end}})
}

// Pos returns the position of the next unread character.
func (l *Lexer) Pos() span.Position {
	return l.curPos()
}

// ---- internal helpers ----

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.source)
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos = l.readPos
	if l.readPos >= len(l.source) {
		l.ch = 0
		return
	}
	r, size := utf8.DecodeRuneInString(l.source[l.readPos:])
	l.ch = r
	l.readPos += size
}

// peekChar returns the character after the current one without consuming it.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.readPos:])
	return r
}

func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && (l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n') {
		l.readChar()
	}
}

func (l *Lexer) makeToken(kind token.Kind, start span.Position) token.Token {
	return token.Token{
		Kind:   kind,
		Lexeme: l.source[start.Offset:l.pos],
		Span:   span.Span{Start: start, End: l.curPos()},
	}
}

// ---- token reading ----

func (l *Lexer) nextToken() token.Token {
	start := l.curPos()

	switch {
	case isLetter(l.ch):
		return l.readIdentifier(start)
	case isDigit(l.ch):
		return l.readNumber(start)
	case l.ch == '"':
		return l.readString(start)
	}

	kind := token.ILLEGAL
	switch l.ch {
	case '=':
		kind = token.ASSIGN
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.EQ
		}
	case '!':
		kind = token.BANG
		if l.peekChar() == '=' {
			l.readChar()
			kind = token.NOT_EQ
		}
	case '+':
		kind = token.PLUS
	case '-':
		kind = token.MINUS
	case '*':
		kind = token.ASTERISK
	case '/':
		kind = token.SLASH
	case '<':
		kind = token.LT
	case '>':
		kind = token.GT
	case ';':
		kind = token.SEMICOLON
	case ',':
		kind = token.COMMA
	case '(':
		kind = token.LPAREN
	case ')':
		kind = token.RPAREN
	case '{':
		kind = token.LBRACE
	case '}':
		kind = token.RBRACE
	}
	l.readChar()
	return l.makeToken(kind, start)
}

// readIdentifier reads an alphabetic run and classifies it as keyword or identifier.
// Digits and underscores are not part of identifiers.
func (l *Lexer) readIdentifier(start span.Position) token.Token {
	for isLetter(l.ch) {
		l.readChar()
	}
	tok := l.makeToken(token.IDENT, start)
	tok.Kind = token.LookupIdent(tok.Lexeme)
	return tok
}

// readNumber reads an unsigned run of decimal digits. Range checking is
// left to the parser.
func (l *Lexer) readNumber(start span.Position) token.Token {
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.makeToken(token.INT, start)
}

// readString reads a double-quoted string. The lexeme is the text between
// the quotes; an unterminated string becomes an ILLEGAL token.
func (l *Lexer) readString(start span.Position) token.Token {
	l.readChar() // opening "
	for !l.atEnd() && l.ch != '"' {
		l.readChar()
	}
	if l.atEnd() {
		return l.makeToken(token.ILLEGAL, start)
	}
	l.readChar() // closing "
	tok := l.makeToken(token.STRING, start)
	tok.Lexeme = tok.Lexeme[1 : len(tok.Lexeme)-1]
	return tok
}

// ---- character classification ----

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch rune) bool {
	return ch != 0 && unicode.IsLetter(ch)
}
