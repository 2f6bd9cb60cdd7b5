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

package rowan

import (
	"github.com/rome/tools-sub011/internal/countme"
	"github.com/rome/tools-sub011/internal/debug"
)

// GreenToken is an immutable leaf of a green tree.
//
// The text of a token includes its leading and trailing trivia. The trivia
// descriptors record how many bytes at either end of the text are trivia;
// what remains in between is the trimmed text.
type GreenToken struct {
	kind              RawSyntaxKind
	text              string
	leading, trailing GreenTrivia
}

// NewGreenToken returns a token without trivia.
func NewGreenToken(kind RawSyntaxKind, text string) *GreenToken {
	return NewGreenTokenWithTrivia(kind, text, GreenTrivia{}, GreenTrivia{})
}

// NewGreenTokenWithTrivia returns a token whose text starts with leading
// trivia and ends with trailing trivia.
//
// The trivia lengths must not exceed the length of text. This is the
// caller's responsibility and is only checked in debug mode.
func NewGreenTokenWithTrivia(kind RawSyntaxKind, text string, leading, trailing GreenTrivia) *GreenToken {
	debug.Assert(
		uint64(leading.TextLen())+uint64(trailing.TextLen()) <= uint64(len(text)),
		"rowan: trivia (%d + %d bytes) longer than token text %q",
		leading.TextLen(), trailing.TextLen(), text,
	)

	t := &GreenToken{kind: kind, text: text, leading: leading, trailing: trailing}
	countme.Track("GreenToken", t)
	return t
}

// Kind returns this token's kind.
func (t *GreenToken) Kind() RawSyntaxKind {
	return t.kind
}

// Text returns the full text of this token, trivia included.
func (t *GreenToken) Text() string {
	return t.text
}

// TextLen returns the length of the full text of this token.
func (t *GreenToken) TextLen() TextSize {
	return TextSize(len(t.text))
}

// TextTrimmed returns the text of this token without its trivia.
func (t *GreenToken) TextTrimmed() string {
	return t.text[t.leading.TextLen() : t.TextLen()-t.trailing.TextLen()]
}

// TextLeadingTrivia returns the text of this token's leading trivia.
func (t *GreenToken) TextLeadingTrivia() string {
	return t.text[:t.leading.TextLen()]
}

// TextTrailingTrivia returns the text of this token's trailing trivia.
func (t *GreenToken) TextTrailingTrivia() string {
	return t.text[t.TextLen()-t.trailing.TextLen():]
}

// LeadingTrivia returns the descriptor for this token's leading trivia.
func (t *GreenToken) LeadingTrivia() GreenTrivia {
	return t.leading
}

// TrailingTrivia returns the descriptor for this token's trailing trivia.
func (t *GreenToken) TrailingTrivia() GreenTrivia {
	return t.trailing
}

// WithLeadingTrivia returns a copy of this token with its leading trivia
// replaced.
func (t *GreenToken) WithLeadingTrivia(text string, trivia GreenTrivia) *GreenToken {
	return NewGreenTokenWithTrivia(t.kind,
		text+t.TextTrimmed()+t.TextTrailingTrivia(),
		trivia, t.trailing)
}

// WithTrailingTrivia returns a copy of this token with its trailing trivia
// replaced.
func (t *GreenToken) WithTrailingTrivia(text string, trivia GreenTrivia) *GreenToken {
	return NewGreenTokenWithTrivia(t.kind,
		t.TextLeadingTrivia()+t.TextTrimmed()+text,
		t.leading, trivia)
}

// WithTriviaFrom returns a token with this token's kind and trimmed text,
// but with the trivia of other.
func (t *GreenToken) WithTriviaFrom(other *GreenToken) *GreenToken {
	return NewGreenTokenWithTrivia(t.kind,
		other.TextLeadingTrivia()+t.TextTrimmed()+other.TextTrailingTrivia(),
		other.leading, other.trailing)
}
