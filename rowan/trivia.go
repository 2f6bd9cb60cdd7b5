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
	"iter"
	"math"
	"strings"
)

// TriviaPiece is the kind and length of one piece of trivia.
type TriviaPiece struct {
	Kind   TriviaPieceKind
	Length TextSize
}

// GreenTrivia is the trivia on one side of a [GreenToken].
//
// Tokens with no trivia or a single piece of trivia are by far the most
// common, so those cases are stored inline without allocating.
//
// The zero value contains no trivia.
type GreenTrivia struct {
	single TriviaPiece   // Valid when many is nil and single.Kind != 0.
	many   []TriviaPiece // Two or more pieces.
}

// NewGreenTrivia returns trivia consisting of the given pieces.
//
// pieces is copied if necessary; the caller may reuse it afterwards.
func NewGreenTrivia(pieces ...TriviaPiece) GreenTrivia {
	switch len(pieces) {
	case 0:
		return GreenTrivia{}
	case 1:
		return GreenTrivia{single: pieces[0]}
	default:
		return GreenTrivia{many: append([]TriviaPiece(nil), pieces...)}
	}
}

// Len returns the number of pieces.
func (t GreenTrivia) Len() int {
	switch {
	case t.many != nil:
		return len(t.many)
	case t.single.Kind != 0:
		return 1
	default:
		return 0
	}
}

// IsEmpty returns whether there is no trivia.
func (t GreenTrivia) IsEmpty() bool {
	return t.Len() == 0
}

// At returns the nth piece.
//
// Panics if n is out of bounds.
func (t GreenTrivia) At(n int) TriviaPiece {
	if t.many != nil {
		return t.many[n]
	}
	if n != 0 || t.single.Kind == 0 {
		panic("rowan: trivia index out of bounds")
	}
	return t.single
}

// Pieces returns an iterator over the pieces of this trivia.
func (t GreenTrivia) Pieces() iter.Seq[TriviaPiece] {
	return func(yield func(TriviaPiece) bool) {
		for i := range t.Len() {
			if !yield(t.At(i)) {
				return
			}
		}
	}
}

// TextLen returns the total length of all pieces.
//
// If the total would overflow a [TextSize], it saturates at [MaxTextSize].
// No real file is that large, so this only guards against corrupted input.
func (t GreenTrivia) TextLen() TextSize {
	if t.many == nil {
		return t.single.Length
	}

	var total uint64
	for _, p := range t.many {
		total += uint64(p.Length)
		if total > math.MaxUint32 {
			return MaxTextSize
		}
	}
	return TextSize(total)
}

// HasComments returns whether any piece is a comment.
func (t GreenTrivia) HasComments() bool {
	for p := range t.Pieces() {
		if p.Kind.IsComment() {
			return true
		}
	}
	return false
}

// SyntaxTriviaPiece is a piece of trivia positioned in a tree.
type SyntaxTriviaPiece struct {
	Kind  TriviaPieceKind
	Range TextRange
	Text  string
}

// SyntaxTrivia is the leading or trailing trivia of a [SyntaxToken].
type SyntaxTrivia struct {
	token    SyntaxToken
	trailing bool
}

func (t SyntaxTrivia) green() GreenTrivia {
	if t.trailing {
		return t.token.green.trailing
	}
	return t.token.green.leading
}

// Len returns the number of pieces.
func (t SyntaxTrivia) Len() int {
	return t.green().Len()
}

// Text returns the text of all pieces.
func (t SyntaxTrivia) Text() string {
	if t.trailing {
		return t.token.green.TextTrailingTrivia()
	}
	return t.token.green.TextLeadingTrivia()
}

// TextRange returns the range covered by this trivia.
func (t SyntaxTrivia) TextRange() TextRange {
	r := t.token.TextRange()
	n := t.green().TextLen()
	if t.trailing {
		return NewTextRange(r.End-n, r.End)
	}
	return TextRangeAt(r.Start, n)
}

// Pieces returns an iterator over the positioned pieces of this trivia.
func (t SyntaxTrivia) Pieces() iter.Seq[SyntaxTriviaPiece] {
	return func(yield func(SyntaxTriviaPiece) bool) {
		r := t.TextRange()
		text := t.Text()
		var offset TextSize
		for p := range t.green().Pieces() {
			piece := SyntaxTriviaPiece{
				Kind:  p.Kind,
				Range: TextRangeAt(r.Start+offset, p.Length),
				Text:  text[offset : offset+p.Length],
			}
			offset += p.Length
			if !yield(piece) {
				return
			}
		}
	}
}

// HasComments returns whether any piece is a comment.
func (t SyntaxTrivia) HasComments() bool {
	return t.green().HasComments()
}

// HasNewline returns whether any piece is a line break.
func (t SyntaxTrivia) HasNewline() bool {
	for p := range t.green().Pieces() {
		if p.Kind.IsNewline() {
			return true
		}
	}
	return false
}

// triviaText renders a list of pieces for debugging.
func triviaText(t GreenTrivia, text string) string {
	var b strings.Builder
	var offset TextSize
	for i := range t.Len() {
		p := t.At(i)
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Kind.String())
		b.WriteString("(")
		b.WriteString(quote(text[offset : offset+p.Length]))
		b.WriteString(")")
		offset += p.Length
	}
	return b.String()
}
