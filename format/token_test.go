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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rome/tools-sub011/format"
)

func TestConcat(t *testing.T) {
	t.Parallel()

	a, b, c := format.Text("a"), format.Text("b"), format.Text("c")

	tests := []struct {
		name string
		in   format.Token
		want string
	}{
		{name: "empty", in: format.Concat(), want: "[]"},
		{name: "empties", in: format.Concat(format.Empty(), nil, format.Text("")), want: "[]"},
		{name: "single", in: format.Concat(a), want: `"a"`},
		{name: "single-nested", in: format.Concat(format.Concat(format.Concat(a))), want: `"a"`},
		{name: "flatten", in: format.Concat(a, format.Concat(b, c)), want: `["a", "b", "c"]`},
		{name: "flatten-deep", in: format.Concat(format.Concat(a, format.Concat(b, format.Empty())), c), want: `["a", "b", "c"]`},
		{name: "join", in: format.Join(format.Text(","), a, b, c), want: `["a", ",", "b", ",", "c"]`},
		{name: "join-one", in: format.Join(format.Text(","), a), want: `"a"`},
		{name: "join-none", in: format.Join(format.Text(",")), want: "[]"},
		{name: "group-empty", in: format.Group(format.Empty()), want: "[]"},
		{name: "indent", in: format.Indent(format.SoftLine(), a), want: `indent([soft_line, "a"])`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, test.in.String())
		})
	}
}

func TestConcatIdempotent(t *testing.T) {
	t.Parallel()

	inputs := [][]format.Token{
		nil,
		{format.Text("a")},
		{format.Text("a"), format.Concat(format.Space(), format.Text("b"))},
		{format.Group(format.Text("x")), format.Empty(), format.HardLine()},
	}
	for _, in := range inputs {
		once := format.Concat(in...)
		assert.Equal(t, once, format.Concat(once))
		if l, ok := once.(format.List); ok {
			for _, t2 := range l.Tokens() {
				_, nested := t2.(format.List)
				assert.False(t, nested, "list contains a list")
			}
		}
	}

	// The empty list is always the zero List.
	assert.Equal(t, format.List{}, format.Concat())
	assert.True(t, format.IsEmpty(format.Concat(format.Empty())))
}

func TestText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"a\nb"`, format.Text("a\nb").String())
	assert.Panics(t, func() { format.Text("a\r\nb") })

	_, err := format.TryText("a\rb")
	require.ErrorIs(t, err, format.ErrCarriageReturn)

	tok, err := format.TryText("ok")
	require.NoError(t, err)
	assert.Equal(t, `"ok"`, tok.String())
}

func TestGroupBreak(t *testing.T) {
	t.Parallel()

	inner := format.Group(format.Text("x"), format.SoftLine())
	g := format.GroupBreak(
		format.Text("a"),
		format.SoftLineOrSpace(),
		format.Indent(format.SoftLine(), format.Text("b")),
		format.IfBreakOr(format.SoftLine(), format.Space()),
		inner,
		format.EmptyLine(),
	)

	assert.Equal(t,
		`group_break(["a", hard_line, indent([hard_line, "b"]), if_break(hard_line, space), group(["x", soft_line]), empty_line])`,
		g.String())

	group, ok := g.(format.GroupToken)
	require.True(t, ok)
	assert.True(t, group.ShouldBreak())
}

func TestIfBreak(t *testing.T) {
	t.Parallel()

	tok := format.IfBreak(format.Text(","))
	ib, ok := tok.(format.IfBreakToken)
	require.True(t, ok)
	assert.True(t, format.IsEmpty(ib.FlatContent()))
	assert.Equal(t, `if_break(",")`, tok.String())

	assert.True(t, format.IsEmpty(format.IfBreakOr(nil, format.Empty())))
	assert.Equal(t, `if_break([], " ")`, format.IfBreakOr(nil, format.Text(" ")).String())
}
