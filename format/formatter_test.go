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

package format_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rome/tools-sub011/format"
	"github.com/rome/tools-sub011/rowan"
)

const (
	kRoot rowan.RawSyntaxKind = iota + 1
	kPair
	kBogus
	kUnknown
	kWord
)

type testLang struct{}

func (testLang) KindName(kind rowan.RawSyntaxKind) string {
	return [...]string{"", "ROOT", "PAIR", "BOGUS", "UNKNOWN", "WORD"}[kind]
}
func (testLang) IsList(kind rowan.RawSyntaxKind) bool  { return kind == kRoot }
func (testLang) IsBogus(kind rowan.RawSyntaxKind) bool { return kind == kBogus }

var ws = []rowan.TriviaPiece{{Kind: rowan.TriviaWhitespace, Length: 1}}

// tree builds "a  b /*c*/ x y z  w" as a root of four children: a PAIR,
// a BOGUS node, an UNKNOWN node and a PAIR with a single word.
func tree(t *testing.T) rowan.SyntaxNode {
	t.Helper()

	b := rowan.NewTreeBuilder(nil)
	b.StartNode(kRoot)
	b.StartNode(kPair)
	b.Token(kWord, "a ", nil, ws)
	b.Token(kWord, " b ", ws, ws)
	b.FinishNode()
	b.StartNode(kBogus)
	b.Token(kWord, "/*c*/ x ", []rowan.TriviaPiece{
		{Kind: rowan.TriviaMultiLineComment, Length: 5},
		{Kind: rowan.TriviaWhitespace, Length: 1},
	}, ws)
	b.FinishNode()
	b.StartNode(kUnknown)
	b.Token(kWord, "y ", nil, ws)
	b.FinishNode()
	b.StartNode(kPair)
	b.Token(kWord, "z  w", nil, nil)
	b.FinishNode()
	b.FinishNode()
	return rowan.NewRoot(testLang{}, b.Finish())
}

func registry() *format.Registry {
	r := format.NewRegistry()
	r.Register(kRoot, func(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
		var parts []format.Token
		for child := range node.Children() {
			parts = append(parts, f.Node(child))
		}
		return format.Join(format.HardLine(), parts...), nil
	})
	r.Register(kPair, func(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
		if node.Len() != 2 {
			return nil, format.MissingChild(node, "second word")
		}
		first, second := node.ChildAt(0).Token(), node.ChildAt(1).Token()
		return format.Group(f.Token(first), format.Text("="), f.Token(second)), nil
	})
	return r
}

func TestFormat(t *testing.T) {
	t.Parallel()

	root := tree(t)
	formatted, err := registry().Format(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t,
		`[group([source("a"), "=", source("b")]), hard_line, source("/*c*/"), space, verbatim("x"), hard_line, verbatim("y"), hard_line, verbatim("z  w")]`,
		formatted.Root.String())

	// The bogus node, the node with no rule and the node whose rule failed.
	assert.Equal(t, []rowan.TextRange{
		rowan.NewTextRange(11, 12),
		rowan.NewTextRange(13, 14),
		rowan.NewTextRange(15, 19),
	}, formatted.Verbatim)
}

func TestFormatErrors(t *testing.T) {
	t.Parallel()

	root := tree(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := registry().Format(ctx, root)
	require.ErrorIs(t, err, context.Canceled)

	boom := errors.New("boom")
	r := registry()
	r.Register(kPair, func(*format.Formatter, rowan.SyntaxNode) (format.Token, error) {
		return nil, boom
	})
	_, err = r.Format(context.Background(), root)
	require.ErrorIs(t, err, boom)
}

func TestComments(t *testing.T) {
	t.Parallel()

	b := rowan.NewTreeBuilder(nil)
	b.StartNode(kRoot)
	b.Token(kWord, "// a\n\n/* b */ x // c", []rowan.TriviaPiece{
		{Kind: rowan.TriviaSingleLineComment, Length: 4},
		{Kind: rowan.TriviaNewline, Length: 1},
		{Kind: rowan.TriviaNewline, Length: 1},
		{Kind: rowan.TriviaMultiLineComment, Length: 7},
		{Kind: rowan.TriviaWhitespace, Length: 1},
	}, []rowan.TriviaPiece{
		{Kind: rowan.TriviaWhitespace, Length: 1},
		{Kind: rowan.TriviaSingleLineComment, Length: 4},
	})
	b.FinishNode()
	tok := rowan.NewRoot(testLang{}, b.Finish()).FirstToken()

	assert.Equal(t, `[source("// a"), empty_line, source("/* b */"), space]`, format.LeadingComments(tok).String())
	assert.Equal(t, `[space, source("// c"), hard_line]`, format.TrailingComments(tok).String())
}

func TestTakeTrailingComments(t *testing.T) {
	t.Parallel()

	comment := []rowan.TriviaPiece{
		{Kind: rowan.TriviaWhitespace, Length: 1},
		{Kind: rowan.TriviaSingleLineComment, Length: 4},
	}
	tests := []struct {
		name  string
		words []string
		want  string
	}{
		{
			name:  "moved",
			words: []string{"a", "b // c"},
			want:  `[group([source("a"), "=", source("b")]), ";", space, source("// c"), hard_line]`,
		},
		{
			name:  "verbatim-child",
			words: []string{"z // c"},
			want:  `[verbatim("z"), ";", space, source("// c"), hard_line]`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			b := rowan.NewTreeBuilder(nil)
			b.StartNode(kRoot)
			b.StartNode(kPair)
			for i, word := range test.words {
				if i == len(test.words)-1 {
					b.Token(kWord, word, nil, comment)
				} else {
					b.Token(kWord, word, nil, nil)
				}
			}
			b.FinishNode()
			b.FinishNode()
			root := rowan.NewRoot(testLang{}, b.Finish())

			r := registry()
			r.Register(kRoot, func(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
				pair := node.FirstChild()
				end := f.TakeTrailingComments(pair.LastToken())
				return format.Concat(f.Node(pair), format.Text(";"), end), nil
			})
			formatted, err := r.Format(context.Background(), root)
			require.NoError(t, err)
			assert.Equal(t, test.want, formatted.Root.String())
		})
	}
}
