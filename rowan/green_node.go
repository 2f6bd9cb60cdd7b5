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
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/rome/tools-sub011/internal/countme"
	"github.com/rome/tools-sub011/internal/debug"
	"github.com/rome/tools-sub011/internal/ext/slicesx"
)

// GreenElement is either a *[GreenNode] or a *[GreenToken].
//
// The zero value is neither, and represents a missing element.
type GreenElement struct {
	node  *GreenNode
	token *GreenToken
}

// NodeElement wraps a node as an element.
func NodeElement(n *GreenNode) GreenElement {
	return GreenElement{node: n}
}

// TokenElement wraps a token as an element.
func TokenElement(t *GreenToken) GreenElement {
	return GreenElement{token: t}
}

// IsZero returns whether this element is missing.
func (e GreenElement) IsZero() bool {
	return e.node == nil && e.token == nil
}

// Node returns the node this element wraps, or nil.
func (e GreenElement) Node() *GreenNode {
	return e.node
}

// Token returns the token this element wraps, or nil.
func (e GreenElement) Token() *GreenToken {
	return e.token
}

// Kind returns the kind of the wrapped node or token.
func (e GreenElement) Kind() RawSyntaxKind {
	if e.node != nil {
		return e.node.kind
	}
	return e.token.kind
}

// TextLen returns the length of the wrapped node or token.
func (e GreenElement) TextLen() TextSize {
	if e.node != nil {
		return e.node.textLen
	}
	return e.token.TextLen()
}

// Text returns the full text of the wrapped node or token.
func (e GreenElement) Text() string {
	if e.node != nil {
		return e.node.Text()
	}
	return e.token.text
}

func (e GreenElement) writeText(b *strings.Builder) {
	if e.token != nil {
		b.WriteString(e.token.text)
		return
	}
	for _, c := range e.node.children {
		c.writeText(b)
	}
}

// GreenChild is a child of a [GreenNode], together with its offset relative
// to the start of its parent.
type GreenChild struct {
	GreenElement
	RelOffset TextSize
}

// RelRange returns the range of this child relative to its parent.
func (c GreenChild) RelRange() TextRange {
	return TextRangeAt(c.RelOffset, c.TextLen())
}

// GreenNode is an immutable interior node of a green tree.
//
// Children are stored in a flat slice together with their relative offsets,
// which gives O(1) access by index and O(log n) lookup by offset. A node's
// length is the sum of its children's lengths.
type GreenNode struct {
	kind     RawSyntaxKind
	textLen  TextSize
	children []GreenChild
}

// NewGreenNode returns a new node with the given children.
//
// The children are shared, not copied: this is O(n) in the number of direct
// children only.
func NewGreenNode(kind RawSyntaxKind, children ...GreenElement) *GreenNode {
	n := &GreenNode{
		kind:     kind,
		children: make([]GreenChild, 0, len(children)),
	}
	var offset uint64
	for _, c := range children {
		if c.IsZero() {
			panic("rowan: missing child element in NewGreenNode")
		}
		n.children = append(n.children, GreenChild{
			GreenElement: c,
			RelOffset:    saturate(offset),
		})
		offset += uint64(c.TextLen())
	}
	n.textLen = saturate(offset)

	countme.Track("GreenNode", n)
	return n
}

// NewGreenNodeSeq is like [NewGreenNode], but takes an iterator that yields
// exactly count children.
//
// Yielding a different number of children is a bug in the caller, and is
// only checked in debug mode.
func NewGreenNodeSeq(kind RawSyntaxKind, count int, children iter.Seq[GreenElement]) *GreenNode {
	buf := make([]GreenElement, 0, count)
	for c := range children {
		buf = append(buf, c)
	}
	debug.Assert(len(buf) == count,
		"rowan: NewGreenNodeSeq expected %d children, got %d", count, len(buf))
	return NewGreenNode(kind, buf...)
}

func saturate(n uint64) TextSize {
	if n > math.MaxUint32 {
		return MaxTextSize
	}
	return TextSize(n)
}

// Kind returns this node's kind.
func (n *GreenNode) Kind() RawSyntaxKind {
	return n.kind
}

// TextLen returns the total length of this node's text.
func (n *GreenNode) TextLen() TextSize {
	return n.textLen
}

// Text returns the full text of this node, trivia included.
func (n *GreenNode) Text() string {
	var b strings.Builder
	b.Grow(int(n.textLen))
	NodeElement(n).writeText(&b)
	return b.String()
}

// Len returns the number of direct children of this node.
func (n *GreenNode) Len() int {
	return len(n.children)
}

// Child returns the nth child.
//
// Panics if n is out of bounds.
func (n *GreenNode) Child(idx int) GreenChild {
	return n.children[idx]
}

// Children returns an iterator over the direct children of this node.
func (n *GreenNode) Children() iter.Seq2[int, GreenChild] {
	return func(yield func(int, GreenChild) bool) {
		for i, c := range n.children {
			if !yield(i, c) {
				return
			}
		}
	}
}

// ChildAtRange finds the child that contains rel, a range relative to the
// start of this node.
//
// Returns false if rel is out of bounds or straddles a boundary between two
// children. An empty range that sits exactly on a boundary belongs to the
// child before the boundary.
func (n *GreenNode) ChildAtRange(rel TextRange) (index int, child GreenChild, ok bool) {
	idx, found := slicesx.BinarySearchFunc(n.children, func(c GreenChild) int {
		return c.RelRange().compare(rel)
	})
	if !found {
		idx = max(idx-1, 0)
	}

	child, ok = slicesx.Get(n.children, idx)
	if !ok || !child.RelRange().ContainsRange(rel) {
		return 0, GreenChild{}, false
	}
	return idx, child, true
}

// ReplaceChild returns a copy of this node with the child at idx replaced.
func (n *GreenNode) ReplaceChild(idx int, replacement GreenElement) *GreenNode {
	return n.SpliceChildren(idx, idx+1, replacement)
}

// InsertChild returns a copy of this node with a new child inserted at idx.
func (n *GreenNode) InsertChild(idx int, child GreenElement) *GreenNode {
	return n.SpliceChildren(idx, idx, child)
}

// RemoveChild returns a copy of this node with the child at idx removed.
func (n *GreenNode) RemoveChild(idx int) *GreenNode {
	return n.SpliceChildren(idx, idx+1)
}

// SpliceChildren returns a copy of this node with the children in
// [from, to) replaced with replacement.
//
// Only the direct children of this node are copied; every child, including
// the ones not touched by the splice, is shared with the original.
func (n *GreenNode) SpliceChildren(from, to int, replacement ...GreenElement) *GreenNode {
	if from < 0 || from > to || to > len(n.children) {
		panic(fmt.Sprintf("rowan: splice range [%d, %d) out of bounds for %d children",
			from, to, len(n.children)))
	}

	elems := make([]GreenElement, 0, len(n.children)-(to-from)+len(replacement))
	for _, c := range n.children[:from] {
		elems = append(elems, c.GreenElement)
	}
	elems = append(elems, replacement...)
	for _, c := range n.children[to:] {
		elems = append(elems, c.GreenElement)
	}
	return NewGreenNode(n.kind, elems...)
}
