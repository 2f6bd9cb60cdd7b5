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

	"github.com/rome/tools-sub011/internal/ext/slicesx"
)

// TreeBuilder builds a green tree bottom-up from a stream of start, token
// and finish events.
//
// Calls must be strictly nested: every StartNode is matched by a later
// FinishNode. Violating this is a bug in the caller, and panics.
type TreeBuilder struct {
	cache    *NodeCache
	parents  []builderParent
	children []GreenElement
}

type builderParent struct {
	kind  RawSyntaxKind
	first int // Index into children of this node's first child.
}

// Checkpoint is a position in a [TreeBuilder] that a node can later be
// started at, wrapping everything emitted since.
type Checkpoint int

// NewTreeBuilder returns a builder that deduplicates leaves through cache.
//
// cache may be nil, in which case nothing is deduplicated.
func NewTreeBuilder(cache *NodeCache) *TreeBuilder {
	return &TreeBuilder{cache: cache}
}

// StartNode starts a new node, which becomes the parent of everything
// emitted until the matching FinishNode.
func (b *TreeBuilder) StartNode(kind RawSyntaxKind) {
	b.parents = append(b.parents, builderParent{kind: kind, first: len(b.children)})
}

// Token adds a token to the current node.
func (b *TreeBuilder) Token(kind RawSyntaxKind, text string, leading, trailing []TriviaPiece) {
	b.children = append(b.children, TokenElement(
		b.cache.token(kind, text, NewGreenTrivia(leading...), NewGreenTrivia(trailing...)),
	))
}

// Element adds an already built element to the current node.
func (b *TreeBuilder) Element(e GreenElement) {
	b.children = append(b.children, e)
}

// FinishNode finishes the current node.
func (b *TreeBuilder) FinishNode() {
	parent, ok := slicesx.Pop(&b.parents)
	if !ok {
		panic("rowan: FinishNode without matching StartNode")
	}
	node := b.cache.node(parent.kind, b.children[parent.first:])
	b.children = append(b.children[:parent.first], NodeElement(node))
}

// Checkpoint returns a checkpoint for the current position.
func (b *TreeBuilder) Checkpoint() Checkpoint {
	return Checkpoint(len(b.children))
}

// StartNodeAt starts a node at a previously taken checkpoint, making every
// element emitted since the checkpoint a child of the new node.
func (b *TreeBuilder) StartNodeAt(cp Checkpoint, kind RawSyntaxKind) {
	if int(cp) > len(b.children) {
		panic(fmt.Sprintf("rowan: checkpoint %d past end of children (%d)", cp, len(b.children)))
	}
	if parent, ok := slicesx.Last(b.parents); ok && int(cp) < parent.first {
		panic("rowan: checkpoint no longer valid, was FinishNode called early?")
	}
	b.parents = append(b.parents, builderParent{kind: kind, first: int(cp)})
}

// Finish returns the root of the finished tree.
//
// Panics if a node is still open, or if there is not exactly one root.
func (b *TreeBuilder) Finish() *GreenNode {
	if len(b.parents) != 0 {
		panic(fmt.Sprintf("rowan: Finish called with %d unfinished nodes", len(b.parents)))
	}
	if len(b.children) != 1 || b.children[0].node == nil {
		panic(fmt.Sprintf("rowan: Finish expected exactly one root node, got %d elements", len(b.children)))
	}
	root := b.children[0].node
	b.children = b.children[:0]
	return root
}

// NodeCache deduplicates identical tokens and small nodes while building
// trees, so that e.g. every `;` token with the same trivia is one
// allocation. A cache may be reused across trees, but not concurrently.
type NodeCache struct {
	tokens map[tokenKey]*GreenToken
	nodes  map[nodeKey]*GreenNode
}

type tokenKey struct {
	kind              RawSyntaxKind
	text              string
	leading, trailing TriviaPiece
}

// maxCachedChildren is the largest number of children a node can have and
// still be deduplicated.
const maxCachedChildren = 3

type nodeKey struct {
	kind     RawSyntaxKind
	n        int
	children [maxCachedChildren]GreenElement
}

// NewNodeCache returns an empty cache.
func NewNodeCache() *NodeCache {
	return &NodeCache{
		tokens: make(map[tokenKey]*GreenToken),
		nodes:  make(map[nodeKey]*GreenNode),
	}
}

func (c *NodeCache) token(kind RawSyntaxKind, text string, leading, trailing GreenTrivia) *GreenToken {
	if c == nil || leading.Len() > 1 || trailing.Len() > 1 {
		return NewGreenTokenWithTrivia(kind, text, leading, trailing)
	}

	key := tokenKey{kind: kind, text: text, leading: leading.single, trailing: trailing.single}
	if t, ok := c.tokens[key]; ok {
		return t
	}
	t := NewGreenTokenWithTrivia(kind, text, leading, trailing)
	c.tokens[key] = t
	return t
}

func (c *NodeCache) node(kind RawSyntaxKind, children []GreenElement) *GreenNode {
	if c == nil || len(children) > maxCachedChildren {
		return NewGreenNode(kind, children...)
	}

	key := nodeKey{kind: kind, n: len(children)}
	var length TextSize
	for i, child := range children {
		key.children[i] = child
		length += child.TextLen()
	}

	// Empty nodes are never shared, so that two of them never sit at the
	// same offset in the same tree with the same identity.
	if length == 0 {
		return NewGreenNode(kind, children...)
	}

	if n, ok := c.nodes[key]; ok {
		return n
	}
	n := NewGreenNode(kind, children...)
	c.nodes[key] = n
	return n
}
