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
)

// tree identifies one red tree. Every red value created by navigating from
// the same call to [NewRoot] shares the same *tree.
type tree struct {
	lang Language
}

// nodeData is the data of a red node. It is allocated on demand during
// navigation and never cached in the green tree, so there are no reference
// cycles: a red node points to its parent, never the other way around.
type nodeData struct {
	tree   *tree
	parent *nodeData // nil for the root.
	index  int       // Index in parent.
	offset TextSize  // Absolute offset of the start of this node.
	green  *GreenNode
}

// SyntaxNode is a cursor over a [GreenNode] that knows its absolute position
// and its parent.
//
// SyntaxNodes are cheap to copy and compare. The zero value is a nil node;
// navigation functions return it when there is nothing to return.
type SyntaxNode struct {
	data *nodeData
}

// NewRoot returns the root of a red tree over green.
func NewRoot(lang Language, green *GreenNode) SyntaxNode {
	return SyntaxNode{&nodeData{tree: &tree{lang: lang}, green: green}}
}

func (d *nodeData) childNode(idx int) SyntaxNode {
	c := d.green.children[idx]
	return SyntaxNode{&nodeData{
		tree:   d.tree,
		parent: d,
		index:  idx,
		offset: d.offset + c.RelOffset,
		green:  c.node,
	}}
}

func (d *nodeData) childToken(idx int) SyntaxToken {
	c := d.green.children[idx]
	return SyntaxToken{
		parent: d,
		index:  idx,
		offset: d.offset + c.RelOffset,
		green:  c.token,
	}
}

func (d *nodeData) child(idx int) SyntaxElement {
	if d.green.children[idx].node != nil {
		return SyntaxElement{node: d.childNode(idx)}
	}
	return SyntaxElement{token: d.childToken(idx)}
}

// IsZero returns whether this is the nil node.
func (n SyntaxNode) IsZero() bool {
	return n.data == nil
}

// Language returns the language of the tree this node belongs to.
func (n SyntaxNode) Language() Language {
	return n.data.tree.lang
}

// Kind returns this node's kind.
func (n SyntaxNode) Kind() RawSyntaxKind {
	return n.data.green.kind
}

// KindName returns the language's name for this node's kind.
func (n SyntaxNode) KindName() string {
	return n.Language().KindName(n.Kind())
}

// IsList returns whether this node is a list node.
func (n SyntaxNode) IsList() bool {
	return n.Language().IsList(n.Kind())
}

// IsBogus returns whether this node stands in for invalid syntax.
func (n SyntaxNode) IsBogus() bool {
	return n.Language().IsBogus(n.Kind())
}

// Green returns the green node under this cursor.
func (n SyntaxNode) Green() *GreenNode {
	return n.data.green
}

// Equal returns whether two cursors point at the same node of the same tree.
func (n SyntaxNode) Equal(other SyntaxNode) bool {
	if n.data == nil || other.data == nil {
		return n.data == other.data
	}
	return n.data.tree == other.data.tree &&
		n.data.green == other.data.green &&
		n.data.offset == other.data.offset
}

// Parent returns this node's parent, or the nil node if this is the root.
func (n SyntaxNode) Parent() SyntaxNode {
	return SyntaxNode{n.data.parent}
}

// Root returns the root of the tree this node belongs to.
func (n SyntaxNode) Root() SyntaxNode {
	d := n.data
	for d.parent != nil {
		d = d.parent
	}
	return SyntaxNode{d}
}

// Index returns the index of this node within its parent's children.
func (n SyntaxNode) Index() int {
	return n.data.index
}

// Ancestors returns an iterator over this node and its ancestors, innermost
// first.
func (n SyntaxNode) Ancestors() iter.Seq[SyntaxNode] {
	return func(yield func(SyntaxNode) bool) {
		for d := n.data; d != nil; d = d.parent {
			if !yield(SyntaxNode{d}) {
				return
			}
		}
	}
}

// TextRange returns the range of this node, trivia included.
func (n SyntaxNode) TextRange() TextRange {
	return TextRangeAt(n.data.offset, n.data.green.textLen)
}

// Text returns the text of this node, trivia included.
func (n SyntaxNode) Text() string {
	return n.data.green.Text()
}

// TextTrimmedRange returns the range of this node without the leading
// trivia of its first token and the trailing trivia of its last token.
func (n SyntaxNode) TextTrimmedRange() TextRange {
	first, last := n.FirstToken(), n.LastToken()
	if first.IsZero() {
		return EmptyRange(n.data.offset)
	}
	start, end := first.TextTrimmedRange().Start, last.TextTrimmedRange().End
	return NewTextRange(start, max(start, end))
}

// TextTrimmed returns the text of this node without leading and trailing
// trivia.
func (n SyntaxNode) TextTrimmed() string {
	return n.TextTrimmedRange().Sub(n.data.offset).Slice(n.Text())
}

// Len returns the number of direct children of this node, tokens included.
func (n SyntaxNode) Len() int {
	return len(n.data.green.children)
}

// ChildAt returns the nth child of this node, which may be a token.
func (n SyntaxNode) ChildAt(idx int) SyntaxElement {
	return n.data.child(idx)
}

// Children returns an iterator over the child nodes of this node, skipping
// tokens.
func (n SyntaxNode) Children() iter.Seq[SyntaxNode] {
	return func(yield func(SyntaxNode) bool) {
		for i, c := range n.data.green.children {
			if c.node != nil && !yield(n.data.childNode(i)) {
				return
			}
		}
	}
}

// ChildrenWithTokens returns an iterator over all children of this node.
func (n SyntaxNode) ChildrenWithTokens() iter.Seq[SyntaxElement] {
	return func(yield func(SyntaxElement) bool) {
		for i := range n.data.green.children {
			if !yield(n.data.child(i)) {
				return
			}
		}
	}
}

// FirstChild returns the first child node, or the nil node.
func (n SyntaxNode) FirstChild() SyntaxNode {
	for i, c := range n.data.green.children {
		if c.node != nil {
			return n.data.childNode(i)
		}
	}
	return SyntaxNode{}
}

// LastChild returns the last child node, or the nil node.
func (n SyntaxNode) LastChild() SyntaxNode {
	for i := len(n.data.green.children) - 1; i >= 0; i-- {
		if n.data.green.children[i].node != nil {
			return n.data.childNode(i)
		}
	}
	return SyntaxNode{}
}

// FirstChildOrToken returns the first child, or the zero element.
func (n SyntaxNode) FirstChildOrToken() SyntaxElement {
	if len(n.data.green.children) == 0 {
		return SyntaxElement{}
	}
	return n.data.child(0)
}

// LastChildOrToken returns the last child, or the zero element.
func (n SyntaxNode) LastChildOrToken() SyntaxElement {
	if len(n.data.green.children) == 0 {
		return SyntaxElement{}
	}
	return n.data.child(len(n.data.green.children) - 1)
}

// NextSibling returns the next sibling node, or the nil node.
func (n SyntaxNode) NextSibling() SyntaxNode {
	p := n.data.parent
	if p == nil {
		return SyntaxNode{}
	}
	for i := n.data.index + 1; i < len(p.green.children); i++ {
		if p.green.children[i].node != nil {
			return p.childNode(i)
		}
	}
	return SyntaxNode{}
}

// PrevSibling returns the previous sibling node, or the nil node.
func (n SyntaxNode) PrevSibling() SyntaxNode {
	p := n.data.parent
	if p == nil {
		return SyntaxNode{}
	}
	for i := n.data.index - 1; i >= 0; i-- {
		if p.green.children[i].node != nil {
			return p.childNode(i)
		}
	}
	return SyntaxNode{}
}

// NextSiblingOrToken returns the next sibling, which may be a token.
func (n SyntaxNode) NextSiblingOrToken() SyntaxElement {
	return siblingOf(n.data.parent, n.data.index+1)
}

// PrevSiblingOrToken returns the previous sibling, which may be a token.
func (n SyntaxNode) PrevSiblingOrToken() SyntaxElement {
	return siblingOf(n.data.parent, n.data.index-1)
}

func siblingOf(parent *nodeData, idx int) SyntaxElement {
	if parent == nil || idx < 0 || idx >= len(parent.green.children) {
		return SyntaxElement{}
	}
	return parent.child(idx)
}

// FirstToken returns the first token in this subtree, or the nil token if
// the subtree contains no tokens.
func (n SyntaxNode) FirstToken() SyntaxToken {
	for i, c := range n.data.green.children {
		if c.token != nil {
			return n.data.childToken(i)
		}
		if t := n.data.childNode(i).FirstToken(); !t.IsZero() {
			return t
		}
	}
	return SyntaxToken{}
}

// LastToken returns the last token in this subtree, or the nil token if the
// subtree contains no tokens.
func (n SyntaxNode) LastToken() SyntaxToken {
	for i := len(n.data.green.children) - 1; i >= 0; i-- {
		if n.data.green.children[i].token != nil {
			return n.data.childToken(i)
		}
		if t := n.data.childNode(i).LastToken(); !t.IsZero() {
			return t
		}
	}
	return SyntaxToken{}
}

// WalkEvent is an event emitted by [SyntaxNode.Preorder].
type WalkEvent[T any] struct {
	Value T
	Leave bool // False on entry, true on exit.
}

// Preorder returns an iterator that enters and then leaves every node of
// this subtree in preorder.
func (n SyntaxNode) Preorder() iter.Seq[WalkEvent[SyntaxNode]] {
	return func(yield func(WalkEvent[SyntaxNode]) bool) {
		n.preorder(func(e WalkEvent[SyntaxElement]) bool {
			if e.Value.IsToken() {
				return true
			}
			return yield(WalkEvent[SyntaxNode]{Value: e.Value.node, Leave: e.Leave})
		})
	}
}

// PreorderWithTokens is like [SyntaxNode.Preorder], but also visits tokens.
func (n SyntaxNode) PreorderWithTokens() iter.Seq[WalkEvent[SyntaxElement]] {
	return func(yield func(WalkEvent[SyntaxElement]) bool) {
		n.preorder(yield)
	}
}

func (n SyntaxNode) preorder(yield func(WalkEvent[SyntaxElement]) bool) bool {
	self := SyntaxElement{node: n}
	if !yield(WalkEvent[SyntaxElement]{Value: self}) {
		return false
	}
	for i, c := range n.data.green.children {
		if c.token != nil {
			tok := SyntaxElement{token: n.data.childToken(i)}
			if !yield(WalkEvent[SyntaxElement]{Value: tok}) ||
				!yield(WalkEvent[SyntaxElement]{Value: tok, Leave: true}) {
				return false
			}
			continue
		}
		if !n.data.childNode(i).preorder(yield) {
			return false
		}
	}
	return yield(WalkEvent[SyntaxElement]{Value: self, Leave: true})
}

// Descendants returns an iterator over this node and every node below it,
// in preorder.
func (n SyntaxNode) Descendants() iter.Seq[SyntaxNode] {
	return func(yield func(SyntaxNode) bool) {
		for e := range n.Preorder() {
			if !e.Leave && !yield(e.Value) {
				return
			}
		}
	}
}

// DescendantsTokens returns an iterator over every token in this subtree,
// in source order.
func (n SyntaxNode) DescendantsTokens() iter.Seq[SyntaxToken] {
	return func(yield func(SyntaxToken) bool) {
		for e := range n.PreorderWithTokens() {
			if !e.Leave && e.Value.IsToken() && !yield(e.Value.token) {
				return
			}
		}
	}
}

// ChildOrTokenAtRange returns the child of this node that contains rng, an
// absolute range.
func (n SyntaxNode) ChildOrTokenAtRange(rng TextRange) SyntaxElement {
	if !n.TextRange().ContainsRange(rng) {
		return SyntaxElement{}
	}
	idx, _, ok := n.data.green.ChildAtRange(rng.Sub(n.data.offset))
	if !ok {
		return SyntaxElement{}
	}
	return n.data.child(idx)
}

// CoveringElement returns the deepest element whose range contains rng.
//
// Panics if rng is not contained in this node.
func (n SyntaxNode) CoveringElement(rng TextRange) SyntaxElement {
	if !n.TextRange().ContainsRange(rng) {
		panic("rowan: range " + rng.String() + " not in node " + n.TextRange().String())
	}

	res := SyntaxElement{node: n}
	for res.IsNode() {
		next := res.node.ChildOrTokenAtRange(rng)
		if next.IsZero() {
			break
		}
		res = next
	}
	return res
}

// TokenAtOffset describes the tokens found at an offset: none, one, or the
// two tokens on either side of a boundary.
type TokenAtOffset struct {
	Left, Right SyntaxToken
}

// Single returns the token at the offset if there is exactly one.
func (t TokenAtOffset) Single() (SyntaxToken, bool) {
	switch {
	case t.Left.IsZero():
		return t.Right, !t.Right.IsZero()
	case t.Right.IsZero():
		return t.Left, true
	default:
		return SyntaxToken{}, false
	}
}

// TokenAtOffset returns the tokens at offset.
//
// If offset lies strictly inside a token, that token is returned. If it lies
// on the boundary between two tokens, both are returned.
func (n SyntaxNode) TokenAtOffset(offset TextSize) TokenAtOffset {
	if !n.TextRange().ContainsInclusive(offset) {
		return TokenAtOffset{}
	}

	left := n.tokenTouching(offset, func(r TextRange) bool {
		return r.Start < offset && offset <= r.End
	})
	right := n.tokenTouching(offset, func(r TextRange) bool {
		return r.Start <= offset && offset < r.End
	})
	if !left.IsZero() && !right.IsZero() && left.Equal(right) {
		right = SyntaxToken{}
	}
	return TokenAtOffset{Left: left, Right: right}
}

func (n SyntaxNode) tokenTouching(offset TextSize, touches func(TextRange) bool) SyntaxToken {
	d := n.data
outer:
	for {
		for i, c := range d.green.children {
			if !touches(c.RelRange().Add(d.offset)) {
				continue
			}
			if c.token != nil {
				return d.childToken(i)
			}
			d = d.childNode(i).data
			continue outer
		}
		return SyntaxToken{}
	}
}

// ReplaceWith returns the root of a new green tree in which this node has
// been replaced with replacement.
//
// Only the nodes on the path from this node to the root are rebuilt; every
// other node is shared with the current tree.
func (n SyntaxNode) ReplaceWith(replacement *GreenNode) *GreenNode {
	green := replacement
	for d := n.data; d.parent != nil; d = d.parent {
		green = d.parent.green.ReplaceChild(d.index, NodeElement(green))
	}
	return green
}

// String implements [fmt.Stringer] by returning the text of this node.
func (n SyntaxNode) String() string {
	if n.IsZero() {
		return "<nil>"
	}
	return n.Text()
}
