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

import "fmt"

// RawSyntaxKind is the language-independent representation of a syntax
// kind. Each [Language] defines its own disjoint space of kinds.
type RawSyntaxKind uint16

// Language describes the kind space of a concrete language.
//
// The tree itself only stores raw kinds; traversal code that needs to know
// whether a node is a list or a bogus node (a region the parser could not
// interpret) asks the language.
type Language interface {
	// KindName returns a human-readable name for kind.
	KindName(kind RawSyntaxKind) string

	// IsList returns whether kind is a list kind. List nodes have an arbitrary
	// number of children, possibly zero.
	IsList(kind RawSyntaxKind) bool

	// IsBogus returns whether kind stands in for invalid syntax.
	IsBogus(kind RawSyntaxKind) bool
}

// TriviaPieceKind is the kind of a single piece of trivia.
type TriviaPieceKind uint8

const (
	TriviaNewline           TriviaPieceKind = 1 + iota // A line break: \n, \r\n or \r.
	TriviaWhitespace                                   // Spaces and tabs.
	TriviaSingleLineComment                            // A comment that ends at the end of the line.
	TriviaMultiLineComment                             // A comment that may span lines.
	TriviaSkipped                                      // Text the parser skipped over.
)

// IsNewline returns whether this is a line break.
func (k TriviaPieceKind) IsNewline() bool { return k == TriviaNewline }

// IsWhitespace returns whether this is whitespace.
func (k TriviaPieceKind) IsWhitespace() bool { return k == TriviaWhitespace }

// IsComment returns whether this is a comment of either kind.
func (k TriviaPieceKind) IsComment() bool {
	return k == TriviaSingleLineComment || k == TriviaMultiLineComment
}

// IsSkipped returns whether this is skipped token text.
func (k TriviaPieceKind) IsSkipped() bool { return k == TriviaSkipped }

// String implements [fmt.Stringer].
func (k TriviaPieceKind) String() string {
	switch k {
	case TriviaNewline:
		return "Newline"
	case TriviaWhitespace:
		return "Whitespace"
	case TriviaSingleLineComment:
		return "Comments"
	case TriviaMultiLineComment:
		return "MultiLineComment"
	case TriviaSkipped:
		return "Skipped"
	default:
		return fmt.Sprintf("TriviaPieceKind(%d)", uint8(k))
	}
}
