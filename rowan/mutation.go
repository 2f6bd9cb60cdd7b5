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
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrConflictingEdits is returned by [BatchMutation.Commit] when one edit
	// replaces or removes an element that contains the target of another
	// edit.
	ErrConflictingEdits = errors.New("rowan: conflicting edits")

	// ErrForeignElement is returned by [BatchMutation.Commit] when an edit
	// targets an element of a different tree.
	ErrForeignElement = errors.New("rowan: element does not belong to the mutated tree")
)

// BatchMutation collects edits against a tree and commits them all at once
// into a new tree.
//
// Edits are keyed by the identity of the element they target, not by value:
// two identical subtrees at different positions are different targets.
// Nothing is applied until [BatchMutation.Commit]; the original tree is
// never modified and remains valid before, during and after the commit.
//
// Replacing or removing the same element twice keeps the last edit. Editing
// an element that lies inside another replaced or removed element is a
// conflict, and makes Commit fail.
type BatchMutation struct {
	root  SyntaxNode
	edits map[elementKey]*edit
	order []elementKey // Insertion order of edits, for deterministic output.
	err   error
}

type edit struct {
	target SyntaxElement
	path   []int

	replace     bool
	replacement GreenElement // Zero when replace is set means removal.

	before, after []GreenElement
}

// BeginMutation starts a new batch of edits against the tree containing
// node.
func BeginMutation(node SyntaxNode) *BatchMutation {
	return &BatchMutation{
		root:  node.Root(),
		edits: make(map[elementKey]*edit),
	}
}

// Root returns the root of the tree this mutation edits.
func (m *BatchMutation) Root() SyntaxNode {
	return m.root
}

// Len returns the number of distinct elements this mutation edits.
func (m *BatchMutation) Len() int {
	return len(m.order)
}

// IsEmpty returns whether no edits have been recorded.
func (m *BatchMutation) IsEmpty() bool {
	return len(m.order) == 0
}

// ReplaceNode replaces prev with next.
func (m *BatchMutation) ReplaceNode(prev SyntaxNode, next *GreenNode) {
	m.ReplaceElement(NodeOf(prev), NodeElement(next))
}

// ReplaceToken replaces prev with next. The trivia of prev is dropped
// along with it.
func (m *BatchMutation) ReplaceToken(prev SyntaxToken, next *GreenToken) {
	m.ReplaceElement(TokenOf(prev), TokenElement(next))
}

// ReplaceTokenTransferTrivia replaces prev with a token that has the kind
// and trimmed text of next, but the leading and trailing trivia of prev.
func (m *BatchMutation) ReplaceTokenTransferTrivia(prev SyntaxToken, next *GreenToken) {
	m.ReplaceToken(prev, next.WithTriviaFrom(prev.Green()))
}

// ReplaceElement replaces prev with next.
func (m *BatchMutation) ReplaceElement(prev SyntaxElement, next GreenElement) {
	if next.IsZero() {
		panic("rowan: replacement element is missing; use RemoveElement")
	}
	if e := m.edit(prev); e != nil {
		e.replace = true
		e.replacement = next
	}
}

// RemoveNode removes node from its parent.
func (m *BatchMutation) RemoveNode(node SyntaxNode) {
	m.RemoveElement(NodeOf(node))
}

// RemoveToken removes token from its parent.
func (m *BatchMutation) RemoveToken(token SyntaxToken) {
	m.RemoveElement(TokenOf(token))
}

// RemoveElement removes elem from its parent.
func (m *BatchMutation) RemoveElement(elem SyntaxElement) {
	if e := m.edit(elem); e != nil {
		e.replace = true
		e.replacement = GreenElement{}
	}
}

// InsertBefore inserts elems as siblings immediately before anchor.
func (m *BatchMutation) InsertBefore(anchor SyntaxElement, elems ...GreenElement) {
	if e := m.edit(anchor); e != nil {
		e.before = append(e.before, elems...)
	}
}

// InsertAfter inserts elems as siblings immediately after anchor.
func (m *BatchMutation) InsertAfter(anchor SyntaxElement, elems ...GreenElement) {
	if e := m.edit(anchor); e != nil {
		e.after = append(e.after, elems...)
	}
}

// Merge records every edit of other in m. Both mutations must edit the same
// tree, and must not edit the same element.
func (m *BatchMutation) Merge(other *BatchMutation) error {
	if m.root.data.tree != other.root.data.tree {
		return ErrForeignElement
	}
	for _, key := range other.order {
		if _, ok := m.edits[key]; ok {
			return fmt.Errorf("%w: both mutations edit %v", ErrConflictingEdits, other.edits[key].target.TextRange())
		}
	}
	for _, key := range other.order {
		e := *other.edits[key]
		m.edits[key] = &e
		m.order = append(m.order, key)
	}
	if m.err == nil {
		m.err = other.err
	}
	return nil
}

// Ranges returns the ranges, in the original tree, of every element this
// mutation edits, sorted by start offset.
func (m *BatchMutation) Ranges() []TextRange {
	out := make([]TextRange, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.edits[key].target.TextRange())
	}
	slices.SortFunc(out, compareRanges)
	return out
}

// TextEdits returns the edits to the original text that this mutation
// performs, sorted and non-overlapping if the mutation is valid.
func (m *BatchMutation) TextEdits() []TextEdit {
	var out []TextEdit
	for _, key := range m.order {
		e := m.edits[key]
		rng := e.target.TextRange()
		if len(e.before) > 0 {
			out = append(out, TextEdit{Range: EmptyRange(rng.Start), Replacement: elementsText(e.before)})
		}
		if e.replace {
			var text string
			if !e.replacement.IsZero() {
				text = e.replacement.Text()
			}
			out = append(out, TextEdit{Range: rng, Replacement: text})
		}
		if len(e.after) > 0 {
			out = append(out, TextEdit{Range: EmptyRange(rng.End), Replacement: elementsText(e.after)})
		}
	}
	slices.SortStableFunc(out, func(a, b TextEdit) int { return compareRanges(a.Range, b.Range) })
	return out
}

// Commit applies every recorded edit and returns the root of the new tree.
func (m *BatchMutation) Commit() (SyntaxNode, error) {
	return m.CommitContext(context.Background())
}

// CommitContext is like [BatchMutation.Commit], but gives up early if ctx is
// cancelled.
//
// Only the nodes on the paths from edited elements to the root are rebuilt,
// once each, however many edits they contain. Every other node of the new
// tree is the same allocation as in the original tree.
func (m *BatchMutation) CommitContext(ctx context.Context) (SyntaxNode, error) {
	if m.err != nil {
		return SyntaxNode{}, m.err
	}
	if err := m.checkConflicts(); err != nil {
		return SyntaxNode{}, err
	}
	if err := ctx.Err(); err != nil {
		return SyntaxNode{}, err
	}

	if len(m.order) == 1 {
		e := m.edits[m.order[0]]
		if e.replace && e.target.IsNode() && e.replacement.Node() != nil &&
			len(e.before) == 0 && len(e.after) == 0 {
			return NewRoot(m.root.Language(), e.target.Node().ReplaceWith(e.replacement.Node())), nil
		}
	}

	trie := new(editTrie)
	for _, key := range m.order {
		e := m.edits[key]
		t := trie
		for _, idx := range e.path {
			t = t.child(idx)
		}
		t.edit = e
	}

	var green *GreenNode
	if e := trie.edit; e != nil {
		// The root itself was edited.
		if len(e.before) > 0 || len(e.after) > 0 || e.replacement.Node() == nil {
			return SyntaxNode{}, fmt.Errorf("%w: the root can only be replaced with a node", ErrConflictingEdits)
		}
		green = e.replacement.Node()
	} else {
		green = trie.rebuild(m.root.Green())
	}

	return NewRoot(m.root.Language(), green), nil
}

// edit returns the edit record for elem, creating it if necessary.
func (m *BatchMutation) edit(elem SyntaxElement) *edit {
	if elem.IsZero() {
		panic("rowan: cannot edit a nil element")
	}
	if elem.tree() != m.root.data.tree {
		if m.err == nil {
			m.err = fmt.Errorf("%w: %v", ErrForeignElement, elem.TextRange())
		}
		return nil
	}

	key := elem.key()
	if e, ok := m.edits[key]; ok {
		return e
	}
	e := &edit{target: elem, path: elem.path()}
	m.edits[key] = e
	m.order = append(m.order, key)
	return e
}

// checkConflicts reports whether any edit targets an element nested inside
// an element that another edit replaces or removes.
func (m *BatchMutation) checkConflicts() error {
	edits := make([]*edit, 0, len(m.order))
	for _, key := range m.order {
		edits = append(edits, m.edits[key])
	}
	slices.SortFunc(edits, func(a, b *edit) int { return slices.Compare(a.path, b.path) })

	// After sorting, every element nested inside another comes after it, and
	// before any element that is not nested inside it. So we only need a
	// stack of the replaced ancestors seen so far.
	var replaced []*edit
	for _, e := range edits {
		for len(replaced) > 0 && !isPrefix(replaced[len(replaced)-1].path, e.path) {
			replaced = replaced[:len(replaced)-1]
		}
		if len(replaced) > 0 {
			outer := replaced[len(replaced)-1]
			return fmt.Errorf("%w: %v is inside %v, which is replaced",
				ErrConflictingEdits, e.target.TextRange(), outer.target.TextRange())
		}
		if e.replace {
			replaced = append(replaced, e)
		}
	}
	return nil
}

func isPrefix(prefix, path []int) bool {
	return len(prefix) < len(path) && slices.Equal(prefix, path[:len(prefix)])
}

type editTrie struct {
	edit     *edit
	children map[int]*editTrie
}

func (t *editTrie) child(idx int) *editTrie {
	if t.children == nil {
		t.children = make(map[int]*editTrie)
	}
	c := t.children[idx]
	if c == nil {
		c = new(editTrie)
		t.children[idx] = c
	}
	return c
}

// rebuild splices every edit below t into green, returning the new node.
//
// Children are spliced from the back, so that the indices of the children
// still to be edited do not move.
func (t *editTrie) rebuild(green *GreenNode) *GreenNode {
	indices := slices.Sorted(maps.Keys(t.children))
	for _, i := range slices.Backward(indices) {
		sub := t.children[i]
		child := green.Child(i)

		var elems []GreenElement
		e := sub.edit
		if e != nil {
			elems = append(elems, e.before...)
		}
		switch {
		case e != nil && e.replace:
			if !e.replacement.IsZero() {
				elems = append(elems, e.replacement)
			}
		case len(sub.children) > 0:
			elems = append(elems, NodeElement(sub.rebuild(child.node)))
		default:
			elems = append(elems, child.GreenElement)
		}
		if e != nil {
			elems = append(elems, e.after...)
		}

		switch len(elems) {
		case 0:
			green = green.RemoveChild(i)
		case 1:
			green = green.ReplaceChild(i, elems[0])
		default:
			green = green.SpliceChildren(i, i+1, elems...)
		}
	}
	return green
}

func elementsText(elems []GreenElement) string {
	var b strings.Builder
	for _, e := range elems {
		e.writeText(&b)
	}
	return b.String()
}

func compareRanges(a, b TextRange) int {
	return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(a.End, b.End))
}
