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

package rowan_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rome/tools-sub011/rowan"
)

func TestMutationReplace(t *testing.T) {
	t.Parallel()

	root := build(t)
	toks := tokens(root)

	m := rowan.BeginMutation(root)
	m.ReplaceToken(toks[2], rowan.NewGreenToken(kIdent, "xyz"))
	edits := m.TextEdits()
	next, err := m.Commit()
	require.NoError(t, err)

	assert.Equal(t, "a,xyzc", next.Text())
	assert.Equal(t, "a,bc", root.Text(), "original tree was modified")
	assert.Equal(t, next.Text(), rowan.ApplyTextEdits(root.Text(), edits))

	// Everything off the edited path is shared.
	assert.Same(t, root.Green().Child(1).Node(), next.Green().Child(1).Node())
	assert.Same(t, toks[0].Green(), tokens(next)[0].Green())
	assert.NotSame(t, root.Green().Child(0).Node(), next.Green().Child(0).Node())

	// Offsets after the edit are shifted.
	assert.Equal(t, rowan.NewTextRange(5, 6), tokens(next)[3].TextRange())
}

func TestMutationReplaceNode(t *testing.T) {
	t.Parallel()

	root := build(t)
	m := rowan.BeginMutation(root)
	m.ReplaceNode(root.FirstChild(), rowan.NewGreenNode(kList, token(kIdent, "x")))
	next, err := m.Commit()
	require.NoError(t, err)

	assert.Equal(t, "xc", next.Text())
	assert.Same(t, root.Green().Child(1).Node(), next.Green().Child(1).Node())
	assert.Equal(t, rowan.NewTextRange(1, 2), next.LastChild().TextRange())
}

func TestMutationMany(t *testing.T) {
	t.Parallel()

	root := build(t)
	toks := tokens(root)

	m := rowan.BeginMutation(root)
	m.ReplaceToken(toks[0], rowan.NewGreenToken(kIdent, "y"))
	m.RemoveToken(toks[1])
	m.ReplaceToken(toks[2], rowan.NewGreenToken(kIdent, "q"))
	m.ReplaceToken(toks[2], rowan.NewGreenToken(kIdent, "z")) // Last write wins.
	m.InsertAfter(rowan.TokenOf(toks[3]), token(kComma, ","), token(kIdent, "d"))
	assert.Equal(t, 4, m.Len())

	edits := m.TextEdits()
	next, err := m.CommitContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "yzc,d", next.Text())
	assert.Equal(t, next.Text(), rowan.ApplyTextEdits(root.Text(), edits))
	assert.Equal(t, `ROOT@0..5
  LIST@0..2
    IDENT@0..1 "y" [] []
    IDENT@1..2 "z" [] []
  LIST@2..5
    IDENT@2..3 "c" [] []
    COMMA@3..4 "," [] []
    IDENT@4..5 "d" [] []
`, rowan.Dump(next))
}

func TestMutationInsertBefore(t *testing.T) {
	t.Parallel()

	root := build(t)
	m := rowan.BeginMutation(root)
	m.InsertBefore(rowan.NodeOf(root.LastChild()), rowan.NodeElement(
		rowan.NewGreenNode(kList, token(kIdent, "w")),
	))
	edits := m.TextEdits()
	next, err := m.Commit()
	require.NoError(t, err)
	assert.Equal(t, "a,bwc", next.Text())
	assert.Equal(t, next.Text(), rowan.ApplyTextEdits(root.Text(), edits))
	assert.Equal(t, 3, next.Len())
}

func TestMutationTransferTrivia(t *testing.T) {
	t.Parallel()

	b := rowan.NewTreeBuilder(nil)
	b.StartNode(kRoot)
	b.Token(kIdent, " a ",
		[]rowan.TriviaPiece{{Kind: rowan.TriviaWhitespace, Length: 1}},
		[]rowan.TriviaPiece{{Kind: rowan.TriviaWhitespace, Length: 1}},
	)
	b.FinishNode()
	root := rowan.NewRoot(testLang{}, b.Finish())

	m := rowan.BeginMutation(root)
	m.ReplaceTokenTransferTrivia(root.FirstToken(), rowan.NewGreenToken(kIdent, "bb"))
	next, err := m.Commit()
	require.NoError(t, err)
	assert.Equal(t, " bb ", next.Text())
}

func TestMutationReplaceRoot(t *testing.T) {
	t.Parallel()

	root := build(t)
	m := rowan.BeginMutation(root)
	m.ReplaceNode(root, rowan.NewGreenNode(kRoot, token(kIdent, "r")))
	next, err := m.Commit()
	require.NoError(t, err)
	assert.Equal(t, "r", next.Text())

	m = rowan.BeginMutation(root)
	m.RemoveNode(root)
	_, err = m.Commit()
	require.ErrorIs(t, err, rowan.ErrConflictingEdits)
}

func TestMutationConflicts(t *testing.T) {
	t.Parallel()

	root := build(t)
	list := root.FirstChild()
	a := list.FirstToken()

	m := rowan.BeginMutation(root)
	m.RemoveNode(list)
	m.ReplaceToken(a, rowan.NewGreenToken(kIdent, "x"))
	_, err := m.Commit()
	require.ErrorIs(t, err, rowan.ErrConflictingEdits)

	// Inserting next to an element does not conflict with edits inside it.
	m = rowan.BeginMutation(root)
	m.InsertAfter(rowan.NodeOf(list), token(kComma, ";"))
	m.ReplaceToken(a, rowan.NewGreenToken(kIdent, "x"))
	next, err := m.Commit()
	require.NoError(t, err)
	assert.Equal(t, "x,b;c", next.Text())
}

func TestMutationForeign(t *testing.T) {
	t.Parallel()

	root := build(t)

	// A second root over the same green tree is a different tree.
	other := rowan.NewRoot(testLang{}, root.Green())

	m := rowan.BeginMutation(root)
	m.RemoveNode(other.FirstChild())
	_, err := m.Commit()
	require.ErrorIs(t, err, rowan.ErrForeignElement)
}

func TestMutationIdentity(t *testing.T) {
	t.Parallel()

	// Two identical subtrees are distinct targets.
	list := rowan.NewGreenNode(kList, token(kIdent, "a"))
	root := rowan.NewRoot(testLang{}, rowan.NewGreenNode(kRoot, rowan.NodeElement(list), rowan.NodeElement(list)))

	m := rowan.BeginMutation(root)
	m.RemoveNode(root.LastChild())
	next, err := m.Commit()
	require.NoError(t, err)
	assert.Equal(t, "a", next.Text())
	assert.Same(t, list, next.Green().Child(0).Node())
}

func TestMutationMerge(t *testing.T) {
	t.Parallel()

	root := build(t)
	toks := tokens(root)

	m1 := rowan.BeginMutation(root)
	m1.RemoveToken(toks[0])
	m2 := rowan.BeginMutation(root)
	m2.RemoveToken(toks[3])
	require.NoError(t, m1.Merge(m2))

	assert.Equal(t, []rowan.TextRange{rowan.NewTextRange(0, 1), rowan.NewTextRange(3, 4)}, m1.Ranges())
	next, err := m1.Commit()
	require.NoError(t, err)
	assert.Equal(t, ",b", next.Text())

	m3 := rowan.BeginMutation(root)
	m3.RemoveToken(toks[0])
	require.ErrorIs(t, m1.Merge(m3), rowan.ErrConflictingEdits)

	require.ErrorIs(t, m1.Merge(rowan.BeginMutation(build(t))), rowan.ErrForeignElement)
}

func TestMutationCancelled(t *testing.T) {
	t.Parallel()

	root := build(t)
	m := rowan.BeginMutation(root)
	m.RemoveToken(root.FirstToken())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.CommitContext(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
