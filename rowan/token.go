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

import "iter"

// SyntaxToken is a cursor over a [GreenToken] that knows its absolute
// position and its parent.
//
// The zero value is a nil token.
type SyntaxToken struct {
	parent *nodeData
	index  int
	offset TextSize
	green  *GreenToken
}

// IsZero returns whether this is the nil token.
func (t SyntaxToken) IsZero() bool {
	return t.green == nil
}

// Kind returns this token's kind.
func (t SyntaxToken) Kind() RawSyntaxKind {
	return t.green.kind
}

// KindName returns the language's name for this token's kind.
func (t SyntaxToken) KindName() string {
	return t.parent.tree.lang.KindName(t.Kind())
}

// Green returns the green token under this cursor.
func (t SyntaxToken) Green() *GreenToken {
	return t.green
}

// Equal returns whether two cursors point at the same token of the same
// tree.
func (t SyntaxToken) Equal(other SyntaxToken) bool {
	if t.green == nil || other.green == nil {
		return t.green == other.green
	}
	return t.parent.tree == other.parent.tree &&
		t.green == other.green &&
		t.offset == other.offset
}

// Parent returns the node containing this token.
func (t SyntaxToken) Parent() SyntaxNode {
	return SyntaxNode{t.parent}
}

// Ancestors returns an iterator over the ancestors of this token, innermost
// first.
func (t SyntaxToken) Ancestors() iter.Seq[SyntaxNode] {
	return t.Parent().Ancestors()
}

// Index returns the index of this token within its parent's children.
func (t SyntaxToken) Index() int {
	return t.index
}

// Text returns the text of this token, trivia included.
func (t SyntaxToken) Text() string {
	return t.green.text
}

// TextTrimmed returns the text of this token without trivia.
func (t SyntaxToken) TextTrimmed() string {
	return t.green.TextTrimmed()
}

// TextRange returns the range of this token, trivia included.
func (t SyntaxToken) TextRange() TextRange {
	return TextRangeAt(t.offset, t.green.TextLen())
}

// TextTrimmedRange returns the range of this token without trivia.
func (t SyntaxToken) TextTrimmedRange() TextRange {
	start := t.offset + t.green.leading.TextLen()
	return TextRangeAt(start, TextSize(len(t.green.TextTrimmed())))
}

// LeadingTrivia returns this token's leading trivia.
func (t SyntaxToken) LeadingTrivia() SyntaxTrivia {
	return SyntaxTrivia{token: t}
}

// TrailingTrivia returns this token's trailing trivia.
func (t SyntaxToken) TrailingTrivia() SyntaxTrivia {
	return SyntaxTrivia{token: t, trailing: true}
}

// HasLeadingComments returns whether this token's leading trivia contains a
// comment.
func (t SyntaxToken) HasLeadingComments() bool {
	return t.green.leading.HasComments()
}

// HasTrailingComments returns whether this token's trailing trivia contains
// a comment.
func (t SyntaxToken) HasTrailingComments() bool {
	return t.green.trailing.HasComments()
}

// NextSiblingOrToken returns the next sibling, which may be a node.
func (t SyntaxToken) NextSiblingOrToken() SyntaxElement {
	return siblingOf(t.parent, t.index+1)
}

// PrevSiblingOrToken returns the previous sibling, which may be a node.
func (t SyntaxToken) PrevSiblingOrToken() SyntaxElement {
	return siblingOf(t.parent, t.index-1)
}

// NextToken returns the token after this one in the whole tree, or the nil
// token.
func (t SyntaxToken) NextToken() SyntaxToken {
	d, idx := t.parent, t.index+1
	for d != nil {
		for ; idx < len(d.green.children); idx++ {
			if d.green.children[idx].token != nil {
				return d.childToken(idx)
			}
			if tok := d.childNode(idx).FirstToken(); !tok.IsZero() {
				return tok
			}
		}
		d, idx = d.parent, d.index+1
	}
	return SyntaxToken{}
}

// PrevToken returns the token before this one in the whole tree, or the nil
// token.
func (t SyntaxToken) PrevToken() SyntaxToken {
	d, idx := t.parent, t.index-1
	for d != nil {
		for ; idx >= 0; idx-- {
			if d.green.children[idx].token != nil {
				return d.childToken(idx)
			}
			if tok := d.childNode(idx).LastToken(); !tok.IsZero() {
				return tok
			}
		}
		d, idx = d.parent, d.index-1
	}
	return SyntaxToken{}
}

// String implements [fmt.Stringer] by returning the text of this token.
func (t SyntaxToken) String() string {
	if t.IsZero() {
		return "<nil>"
	}
	return t.Text()
}
