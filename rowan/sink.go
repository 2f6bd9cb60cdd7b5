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

// TreeSink receives the events a parser emits while parsing.
//
// Tokens are reported by kind and the offset at which their trimmed text
// ends; the sink is responsible for attaching trivia.
type TreeSink interface {
	// Token adds a token of the given kind that ends at end.
	Token(kind RawSyntaxKind, end TextSize)
	// StartNode starts a new node.
	StartNode(kind RawSyntaxKind)
	// FinishNode finishes the innermost started node.
	FinishNode()
	// Errors records parse errors.
	Errors(errs ...ParseError)
}

// ParseError is an error recorded by a parser. The tree is always built, even
// if errors are present.
type ParseError struct {
	Range   TextRange
	Message string
}

// Error implements [error].
func (e ParseError) Error() string {
	return fmt.Sprintf("%v: %s", e.Range, e.Message)
}

// Trivia is a piece of trivia found by a lexer.
type Trivia struct {
	Kind  TriviaPieceKind
	Range TextRange

	// Whether this trivia is trailing trivia of the preceding token, rather
	// than leading trivia of the following token.
	Trailing bool
}

// LosslessTreeSink is a [TreeSink] that builds a green tree whose tokens
// carry all of the trivia of the source text, so that the tree's text is
// exactly the source text.
type LosslessTreeSink struct {
	text    string
	trivia  []Trivia
	builder *TreeBuilder
	errors  []ParseError

	pos        TextSize      // Current position in text.
	nextTrivia int           // Index of the next unconsumed trivia.
	pieces     []TriviaPiece // Scratch space for Token.
}

var _ TreeSink = (*LosslessTreeSink)(nil)

// NewLosslessTreeSink returns a sink for the given source text and its
// trivia, in source order.
func NewLosslessTreeSink(text string, trivia []Trivia, cache *NodeCache) *LosslessTreeSink {
	return &LosslessTreeSink{
		text:    text,
		trivia:  trivia,
		builder: NewTreeBuilder(cache),
	}
}

// Token implements [TreeSink].
func (s *LosslessTreeSink) Token(kind RawSyntaxKind, end TextSize) {
	start := s.pos
	s.pieces = s.pieces[:0]

	// Every trivia up to the token is leading trivia.
	s.eatTrivia(false)
	leading := len(s.pieces)

	s.pos = end

	// Trivia marked as trailing that immediately follows is trailing trivia.
	s.eatTrivia(true)

	s.builder.Token(kind, s.text[start:s.pos], s.pieces[:leading], s.pieces[leading:])
}

// EndOfFile adds the end-of-file token, which takes every remaining piece of
// trivia as leading trivia.
func (s *LosslessTreeSink) EndOfFile(kind RawSyntaxKind) {
	start := s.pos
	s.pieces = s.pieces[:0]
	for _, t := range s.trivia[s.nextTrivia:] {
		s.pieces = append(s.pieces, TriviaPiece{Kind: t.Kind, Length: t.Range.Len()})
		s.pos = t.Range.End
	}
	s.nextTrivia = len(s.trivia)
	s.builder.Token(kind, s.text[start:s.pos], s.pieces, nil)
}

// StartNode implements [TreeSink].
func (s *LosslessTreeSink) StartNode(kind RawSyntaxKind) {
	s.builder.StartNode(kind)
}

// FinishNode implements [TreeSink].
func (s *LosslessTreeSink) FinishNode() {
	s.builder.FinishNode()
}

// Checkpoint returns a checkpoint for the current position.
func (s *LosslessTreeSink) Checkpoint() Checkpoint {
	return s.builder.Checkpoint()
}

// StartNodeAt starts a node at a checkpoint. See [TreeBuilder.StartNodeAt].
func (s *LosslessTreeSink) StartNodeAt(cp Checkpoint, kind RawSyntaxKind) {
	s.builder.StartNodeAt(cp, kind)
}

// Errors implements [TreeSink].
func (s *LosslessTreeSink) Errors(errs ...ParseError) {
	s.errors = append(s.errors, errs...)
}

// Finish returns the finished tree and the errors recorded while building
// it.
//
// Panics if the source text was not fully consumed; that indicates that the
// parser skipped input without emitting it into the tree.
func (s *LosslessTreeSink) Finish() (*GreenNode, []ParseError) {
	if int(s.pos) != len(s.text) {
		panic(fmt.Sprintf("rowan: tree sink finished at %d of %d bytes", s.pos, len(s.text)))
	}
	return s.builder.Finish(), s.errors
}

func (s *LosslessTreeSink) eatTrivia(trailing bool) {
	for _, t := range s.trivia[s.nextTrivia:] {
		if t.Trailing != trailing || t.Range.Start != s.pos {
			break
		}
		s.pieces = append(s.pieces, TriviaPiece{Kind: t.Kind, Length: t.Range.Len()})
		s.pos = t.Range.End
		s.nextTrivia++
	}
}
