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

// Package format defines the intermediate representation produced by
// formatting rules and consumed by the printer.
//
// A formatted document is a tree of [Token]s. The token set is closed:
// spaces, line breaks with a [LineMode], indentation, groups, lists,
// conditional content, plain text and source text copied from a syntax tree.
// Lists never contain other lists; [Concat] splices them on construction.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rome/tools-sub011/internal/debug"
	"github.com/rome/tools-sub011/rowan"
)

// ErrCarriageReturn is returned by [TryText] for text containing '\r'. Line
// endings are chosen by the printer; tokens always use '\n'.
var ErrCarriageReturn = errors.New("format: text contains a carriage return")

// Token is a formatting token. The set of implementations is closed; use the
// constructors in this package.
type Token interface {
	fmt.Stringer
	isToken()
}

// LineMode is the way a [LineToken] breaks.
type LineMode byte

const (
	// LineSoft prints nothing when its group is flat, and a newline otherwise.
	LineSoft LineMode = iota
	// LineHard always prints a newline, and forces its group to break.
	LineHard
	// LineSoftOrSpace prints a space when its group is flat, and a newline
	// otherwise.
	LineSoftOrSpace
	// LineEmpty always prints an empty line, i.e. two newlines.
	LineEmpty
)

// String implements [fmt.Stringer].
func (m LineMode) String() string {
	switch m {
	case LineSoft:
		return "soft"
	case LineHard:
		return "hard"
	case LineSoftOrSpace:
		return "soft_or_space"
	case LineEmpty:
		return "empty"
	default:
		return fmt.Sprintf("LineMode(%d)", byte(m))
	}
}

type (
	// SpaceToken is a single space.
	SpaceToken struct{}

	// LineToken is a line break.
	LineToken struct{ mode LineMode }

	// IndentToken indents its content by one level.
	IndentToken struct{ content Token }

	// GroupToken is a unit that the printer prints either entirely on one
	// line ("flat") or broken across lines.
	GroupToken struct {
		content     Token
		shouldBreak bool
	}

	// List is a sequence of tokens. It never contains another List.
	List struct{ tokens []Token }

	// IfBreakToken prints different content depending on whether its
	// enclosing group is broken.
	IfBreakToken struct{ breakContent, flatContent Token }

	// TextToken is text created by a formatting rule.
	TextToken struct{ text string }

	// SourceToken is text copied from a syntax tree.
	SourceToken struct {
		text     string
		source   rowan.TextRange
		verbatim bool
	}
)

func (SpaceToken) isToken()   {}
func (LineToken) isToken()    {}
func (IndentToken) isToken()  {}
func (GroupToken) isToken()   {}
func (List) isToken()         {}
func (IfBreakToken) isToken() {}
func (TextToken) isToken()    {}
func (SourceToken) isToken()  {}

// Space returns a single space.
func Space() Token { return SpaceToken{} }

// Line returns a line break with the given mode.
func Line(mode LineMode) Token { return LineToken{mode: mode} }

// SoftLine returns a line break that disappears when its group is flat.
func SoftLine() Token { return Line(LineSoft) }

// HardLine returns a line break that is always printed.
func HardLine() Token { return Line(LineHard) }

// SoftLineOrSpace returns a line break that becomes a space when its group
// is flat.
func SoftLineOrSpace() Token { return Line(LineSoftOrSpace) }

// EmptyLine returns a blank line.
func EmptyLine() Token { return Line(LineEmpty) }

// Empty returns the empty list, which prints nothing.
func Empty() Token { return List{} }

// Indent indents every line that content breaks onto.
func Indent(content ...Token) Token {
	c := Concat(content...)
	if IsEmpty(c) {
		return c
	}
	return IndentToken{content: c}
}

// Group groups content into a unit that is printed flat if it fits on the
// current line, and broken otherwise.
func Group(content ...Token) Token {
	c := Concat(content...)
	if IsEmpty(c) {
		return c
	}
	return GroupToken{content: c}
}

// GroupBreak is like [Group], but the group always breaks.
//
// This is exactly a group whose soft lines have been replaced with hard
// lines by [ForceBreak]; a group with no line breaks of its own still prints
// flat.
func GroupBreak(content ...Token) Token {
	c := Concat(content...)
	if IsEmpty(c) {
		return c
	}
	return GroupToken{content: ForceBreak(c), shouldBreak: true}
}

// IfBreak returns content that is printed only if the enclosing group is
// broken. When the group is flat, it prints nothing.
func IfBreak(content ...Token) Token {
	return IfBreakOr(Concat(content...), nil)
}

// IfBreakOr returns a token that prints breakContent if the enclosing group
// is broken, and flatContent if it is flat.
func IfBreakOr(breakContent, flatContent Token) Token {
	breakContent = orEmpty(breakContent)
	flatContent = orEmpty(flatContent)
	if IsEmpty(breakContent) && IsEmpty(flatContent) {
		return Empty()
	}
	return IfBreakToken{breakContent: breakContent, flatContent: flatContent}
}

// Text returns a token that prints text as-is.
//
// text must not contain '\r'; this is only checked in debug mode. Use
// [TryText] for text of unknown provenance.
func Text(text string) Token {
	debug.Assert(!strings.Contains(text, "\r"), "format: text %q contains a carriage return", text)
	if text == "" {
		return Empty()
	}
	return TextToken{text: text}
}

// TryText is like [Text], but returns an error instead of asserting.
func TryText(text string) (Token, error) {
	if strings.Contains(text, "\r") {
		return nil, fmt.Errorf("%w: %q", ErrCarriageReturn, text)
	}
	return Text(text), nil
}

// Syntax returns a token that prints the source text of node, without its
// outer trivia.
func Syntax(node rowan.SyntaxNode) Token {
	return source(node.TextTrimmed(), node.TextTrimmedRange(), false)
}

// SyntaxToken returns a token that prints the source text of tok, without
// its trivia.
func SyntaxToken(tok rowan.SyntaxToken) Token {
	return source(tok.TextTrimmed(), tok.TextTrimmedRange(), false)
}

// Verbatim is like [Syntax], but marks the node as left unformatted. The
// printer reports where verbatim text ends up in its output.
func Verbatim(node rowan.SyntaxNode) Token {
	return source(node.TextTrimmed(), node.TextTrimmedRange(), true)
}

func source(text string, rng rowan.TextRange, verbatim bool) Token {
	if text == "" {
		return Empty()
	}
	return SourceToken{text: normalizeNewlines(text), source: rng, verbatim: verbatim}
}

// normalizeNewlines replaces \r\n and lone \r with \n.
func normalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// Concat concatenates tokens into a single token.
//
// Nested lists are spliced into the result and empty tokens are dropped, so
// the result never contains a list of lists. If exactly one token remains,
// it is returned as-is; if none remain, the result is [Empty]. Nil tokens
// are treated as empty.
//
// Concat is idempotent: Concat(Concat(xs...)) == Concat(xs...).
func Concat(tokens ...Token) Token {
	var out []Token
	for _, t := range tokens {
		switch t := t.(type) {
		case nil:
		case List:
			out = append(out, t.tokens...)
		default:
			out = append(out, t)
		}
	}

	switch len(out) {
	case 0:
		return List{}
	case 1:
		return out[0]
	default:
		return List{tokens: out}
	}
}

// Join concatenates tokens with sep between each adjacent pair.
func Join(sep Token, tokens ...Token) Token {
	out := make([]Token, 0, 2*len(tokens))
	for i, t := range tokens {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, t)
	}
	return Concat(out...)
}

// IsEmpty returns whether t prints nothing in every layout.
func IsEmpty(t Token) bool {
	l, ok := t.(List)
	return t == nil || (ok && len(l.tokens) == 0)
}

// ForceBreak returns a copy of t in which every soft line belonging to the
// current group has been replaced by a hard line. Lines inside nested groups
// belong to those groups and are left alone.
func ForceBreak(t Token) Token {
	switch t := t.(type) {
	case LineToken:
		if t.mode == LineSoft || t.mode == LineSoftOrSpace {
			return HardLine()
		}
		return t
	case IndentToken:
		return IndentToken{content: ForceBreak(t.content)}
	case List:
		if len(t.tokens) == 0 {
			return t
		}
		out := make([]Token, len(t.tokens))
		for i, t := range t.tokens {
			out[i] = ForceBreak(t)
		}
		return List{tokens: out}
	case IfBreakToken:
		return IfBreakToken{breakContent: ForceBreak(t.breakContent), flatContent: ForceBreak(t.flatContent)}
	default:
		return t
	}
}

func orEmpty(t Token) Token {
	if t == nil {
		return Empty()
	}
	return t
}

// Mode returns the mode of this line break.
func (t LineToken) Mode() LineMode { return t.mode }

// Content returns the indented content.
func (t IndentToken) Content() Token { return t.content }

// Content returns the grouped content.
func (t GroupToken) Content() Token { return t.content }

// ShouldBreak returns whether this group was created with [GroupBreak].
func (t GroupToken) ShouldBreak() bool { return t.shouldBreak }

// Tokens returns the tokens of this list. The caller must not modify the
// returned slice.
func (t List) Tokens() []Token { return t.tokens }

// Len returns the number of tokens in this list.
func (t List) Len() int { return len(t.tokens) }

// BreakContent returns the content printed when the group is broken.
func (t IfBreakToken) BreakContent() Token { return t.breakContent }

// FlatContent returns the content printed when the group is flat.
func (t IfBreakToken) FlatContent() Token { return t.flatContent }

// Text returns the text of this token.
func (t TextToken) Text() string { return t.text }

// Text returns the source text of this token, with line endings normalized
// to '\n'.
func (t SourceToken) Text() string { return t.text }

// Source returns the range in the source file this token was copied from.
func (t SourceToken) Source() rowan.TextRange { return t.source }

// IsVerbatim returns whether this token is a node left unformatted.
func (t SourceToken) IsVerbatim() bool { return t.verbatim }
