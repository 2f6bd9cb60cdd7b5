// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

// token is a non-trivia token produced by the lexer.
type token struct {
	kind syntax.Kind
	rng  rowan.TextRange

	// Whether a line break separates this token from the previous one.
	newlineBefore bool
}

// lexer splits source text into tokens and trivia.
type lexer struct {
	text   string
	cursor int

	tokens []token
	trivia []rowan.Trivia
	errors []rowan.ParseError

	trailing bool // Whether trivia seen now is trailing trivia.
	newline  bool // Whether a line break was seen since the last token.
}

// lex performs lexical analysis on text. The final token is always EOF.
func lex(text string) *lexer {
	l := &lexer{text: text}
	for !l.Done() {
		start := l.cursor
		r := l.Pop()

		switch {
		case r == '\n' || r == '\u2028' || r == '\u2029':
			l.pushNewline(start)
		case r == '\r':
			if l.Peek() == '\n' {
				l.Pop()
			}
			l.pushNewline(start)

		case isWhitespace(r):
			l.TakeWhile(isWhitespace)
			l.pushTrivia(start, rowan.TriviaWhitespace)

		case r == '/' && l.Peek() == '/':
			l.TakeWhile(func(r rune) bool { return !isLineTerminator(r) })
			l.pushTrivia(start, rowan.TriviaSingleLineComment)
		case r == '/' && l.Peek() == '*':
			l.cursor++ // Skip the *.
			if _, ok := l.SeekInclusive("*/"); !ok {
				l.SeekEOF()
				l.Errorf(start, "unterminated block comment")
			}
			if strings.ContainsFunc(l.text[start:l.cursor], isLineTerminator) {
				// A comment spanning lines ends the trailing trivia of the
				// previous token.
				l.trailing = false
				l.newline = true
			}
			l.pushTrivia(start, rowan.TriviaMultiLineComment)

		case r == '"' || r == '\'' || r == '`':
			lexString(l, start, r)

		case r == '.' && isDigit(l.Peek()):
			l.cursor = start
			lexNumber(l)
		case isDigit(r):
			l.cursor = start
			lexNumber(l)

		case isIdentStart(r):
			l.TakeWhile(isIdentContinue)
			kind := syntax.Ident
			if kw, ok := syntax.Keyword(l.text[start:l.cursor]); ok {
				kind = kw
			}
			l.push(start, kind)

		default:
			if kind, n := punct(l.text[start:]); n > 0 {
				l.cursor = start + n
				l.push(start, kind)
				continue
			}
			l.push(start, syntax.ErrorToken)
			l.Errorf(start, "unexpected character %q", r)
		}
	}

	l.tokens = append(l.tokens, token{
		kind:          syntax.EOF,
		rng:           rowan.EmptyRange(rowan.TextSize(len(l.text))),
		newlineBefore: l.newline,
	})
	return l
}

// Done returns whether or not we're done lexing runes.
func (l *lexer) Done() bool {
	return l.cursor >= len(l.text)
}

// Peek peeks the next character.
//
// Returns -1 if l.Done().
func (l *lexer) Peek() rune {
	if l.Done() {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(l.text[l.cursor:])
	return r
}

// Pop consumes the next character.
//
// Returns -1 if l.Done().
func (l *lexer) Pop() rune {
	if l.Done() {
		return -1
	}
	r, n := utf8.DecodeRuneInString(l.text[l.cursor:])
	l.cursor += n
	return r
}

// TakeWhile consumes the characters while they match the given function.
// Returns consumed characters.
func (l *lexer) TakeWhile(f func(rune) bool) string {
	start := l.cursor
	for !l.Done() {
		r, n := utf8.DecodeRuneInString(l.text[l.cursor:])
		if !f(r) {
			break
		}
		l.cursor += n
	}
	return l.text[start:l.cursor]
}

// SeekInclusive seeks until the given needle is found; returns the prefix
// including the needle, and updates the cursor to point after it.
func (l *lexer) SeekInclusive(needle string) (string, bool) {
	rest := l.text[l.cursor:]
	if idx := strings.Index(rest, needle); idx != -1 {
		l.cursor += idx + len(needle)
		return rest[:idx+len(needle)], true
	}
	return "", false
}

// SeekEOF seeks the cursor to the end of the file and returns the remaining
// text.
func (l *lexer) SeekEOF() string {
	rest := l.text[l.cursor:]
	l.cursor = len(l.text)
	return rest
}

// Errorf records an error spanning from start to the cursor.
func (l *lexer) Errorf(start int, format string, args ...any) {
	l.errors = append(l.errors, rowan.ParseError{
		Range:   l.span(start),
		Message: fmt.Sprintf(format, args...),
	})
}

func (l *lexer) span(start int) rowan.TextRange {
	return rowan.NewTextRange(rowan.TextSize(start), rowan.TextSize(l.cursor))
}

func (l *lexer) push(start int, kind syntax.Kind) {
	l.tokens = append(l.tokens, token{
		kind:          kind,
		rng:           l.span(start),
		newlineBefore: l.newline,
	})
	l.trailing = true
	l.newline = false
}

func (l *lexer) pushTrivia(start int, kind rowan.TriviaPieceKind) {
	l.trivia = append(l.trivia, rowan.Trivia{
		Kind:     kind,
		Range:    l.span(start),
		Trailing: l.trailing,
	})
}

func (l *lexer) pushNewline(start int) {
	l.trailing = false
	l.newline = true
	l.pushTrivia(start, rowan.TriviaNewline)
}

// lexString lexes a quoted string whose opening quote has been consumed.
func lexString(l *lexer, start int, quote rune) {
	for {
		r := l.Peek()
		switch {
		case r == -1 || (quote != '`' && isLineTerminator(r)):
			l.Errorf(start, "unterminated string literal")
			l.push(start, syntax.String)
			return
		case r == '\\':
			l.Pop()
			l.Pop()
		case r == quote:
			l.Pop()
			l.push(start, syntax.String)
			return
		default:
			l.Pop()
		}
	}
}

// lexNumber lexes a decimal or hexadecimal number.
func lexNumber(l *lexer) {
	start := l.cursor
	if strings.HasPrefix(l.text[start:], "0x") || strings.HasPrefix(l.text[start:], "0X") {
		l.cursor += 2
		if l.TakeWhile(isHexDigit) == "" {
			l.Errorf(start, "missing hexadecimal digits")
		}
	} else {
		l.TakeWhile(isDigit)
		if l.Peek() == '.' {
			l.Pop()
			l.TakeWhile(isDigit)
		}
		if r := l.Peek(); r == 'e' || r == 'E' {
			l.Pop()
			if r := l.Peek(); r == '+' || r == '-' {
				l.Pop()
			}
			if l.TakeWhile(isDigit) == "" {
				l.Errorf(start, "missing exponent digits")
			}
		}
	}
	if isIdentStart(l.Peek()) {
		l.TakeWhile(isIdentContinue)
		l.Errorf(start, "identifier starts immediately after numeric literal")
	}
	l.push(start, syntax.Number)
}

// puncts is sorted so that longer operators come before their prefixes.
var puncts = []struct {
	text string
	kind syntax.Kind
}{
	{"===", syntax.Eq3},
	{"!==", syntax.Neq2},
	{"=>", syntax.FatArrow},
	{"==", syntax.Eq2},
	{"!=", syntax.Neq},
	{"<=", syntax.LtEq},
	{">=", syntax.GtEq},
	{"&&", syntax.Amp2},
	{"||", syntax.Pipe2},
	{"??", syntax.Question2},
	{"++", syntax.Plus2},
	{"--", syntax.Minus2},
	{"+=", syntax.PlusEq},
	{"-=", syntax.MinusEq},
	{"*=", syntax.StarEq},
	{"/=", syntax.SlashEq},
	{"(", syntax.LParen},
	{")", syntax.RParen},
	{"{", syntax.LCurly},
	{"}", syntax.RCurly},
	{"[", syntax.LBrack},
	{"]", syntax.RBrack},
	{";", syntax.Semicolon},
	{",", syntax.Comma},
	{".", syntax.Dot},
	{":", syntax.Colon},
	{"?", syntax.Question},
	{"=", syntax.Eq},
	{"+", syntax.Plus},
	{"-", syntax.Minus},
	{"*", syntax.Star},
	{"/", syntax.Slash},
	{"%", syntax.Percent},
	{"<", syntax.Lt},
	{">", syntax.Gt},
	{"!", syntax.Bang},
}

func punct(text string) (syntax.Kind, int) {
	for _, p := range puncts {
		if strings.HasPrefix(text, p.text) {
			return p.kind, len(p.text)
		}
	}
	return 0, 0
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f', '\u00a0', '\ufeff':
		return true
	}
	return !isLineTerminator(r) && unicode.Is(unicode.Zs, r)
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
