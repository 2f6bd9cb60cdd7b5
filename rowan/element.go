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

// SyntaxElement is either a [SyntaxNode] or a [SyntaxToken].
//
// The zero value is neither.
type SyntaxElement struct {
	node  SyntaxNode
	token SyntaxToken
}

// NodeOf wraps a node as an element.
func NodeOf(n SyntaxNode) SyntaxElement {
	return SyntaxElement{node: n}
}

// TokenOf wraps a token as an element.
func TokenOf(t SyntaxToken) SyntaxElement {
	return SyntaxElement{token: t}
}

// IsZero returns whether this element is neither a node nor a token.
func (e SyntaxElement) IsZero() bool {
	return e.node.IsZero() && e.token.IsZero()
}

// IsNode returns whether this element is a node.
func (e SyntaxElement) IsNode() bool {
	return !e.node.IsZero()
}

// IsToken returns whether this element is a token.
func (e SyntaxElement) IsToken() bool {
	return !e.token.IsZero()
}

// Node returns the node this element wraps, or the nil node.
func (e SyntaxElement) Node() SyntaxNode {
	return e.node
}

// Token returns the token this element wraps, or the nil token.
func (e SyntaxElement) Token() SyntaxToken {
	return e.token
}

// Kind returns the kind of the wrapped node or token.
func (e SyntaxElement) Kind() RawSyntaxKind {
	if e.IsNode() {
		return e.node.Kind()
	}
	return e.token.Kind()
}

// Green returns the green element under this cursor.
func (e SyntaxElement) Green() GreenElement {
	if e.IsNode() {
		return NodeElement(e.node.Green())
	}
	return TokenElement(e.token.Green())
}

// Parent returns the node containing this element.
func (e SyntaxElement) Parent() SyntaxNode {
	if e.IsNode() {
		return e.node.Parent()
	}
	return e.token.Parent()
}

// Index returns the index of this element within its parent's children.
func (e SyntaxElement) Index() int {
	if e.IsNode() {
		return e.node.Index()
	}
	return e.token.Index()
}

// TextRange returns the range of this element, trivia included.
func (e SyntaxElement) TextRange() TextRange {
	if e.IsNode() {
		return e.node.TextRange()
	}
	return e.token.TextRange()
}

// Text returns the text of this element, trivia included.
func (e SyntaxElement) Text() string {
	if e.IsNode() {
		return e.node.Text()
	}
	return e.token.Text()
}

// NextSiblingOrToken returns the next sibling, which may be a node or a
// token.
func (e SyntaxElement) NextSiblingOrToken() SyntaxElement {
	if e.IsNode() {
		return e.node.NextSiblingOrToken()
	}
	return e.token.NextSiblingOrToken()
}

// PrevSiblingOrToken returns the previous sibling, which may be a node or a
// token.
func (e SyntaxElement) PrevSiblingOrToken() SyntaxElement {
	if e.IsNode() {
		return e.node.PrevSiblingOrToken()
	}
	return e.token.PrevSiblingOrToken()
}

// Equal returns whether two elements are the same element of the same tree.
func (e SyntaxElement) Equal(other SyntaxElement) bool {
	return e.node.Equal(other.node) && e.token.Equal(other.token)
}

// key returns an identity for this element that is stable across cursor
// re-creation: two cursors for the same element of the same tree have the
// same key.
func (e SyntaxElement) key() elementKey {
	if e.IsNode() {
		return elementKey{tree: e.node.data.tree, offset: e.node.data.offset, node: e.node.data.green}
	}
	return elementKey{tree: e.token.parent.tree, offset: e.token.offset, token: e.token.green}
}

func (e SyntaxElement) tree() *tree {
	if e.IsNode() {
		return e.node.data.tree
	}
	return e.token.parent.tree
}

// path returns the child indices leading from the root to this element.
func (e SyntaxElement) path() []int {
	var rev []int
	d := e.node.data
	if e.IsToken() {
		rev = append(rev, e.token.index)
		d = e.token.parent
	}
	for ; d.parent != nil; d = d.parent {
		rev = append(rev, d.index)
	}

	out := make([]int, len(rev))
	for i, idx := range rev {
		out[len(rev)-1-i] = idx
	}
	return out
}

type elementKey struct {
	tree   *tree
	offset TextSize
	node   *GreenNode
	token  *GreenToken
}
