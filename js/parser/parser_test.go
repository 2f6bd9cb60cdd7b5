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

package parser_test

import (
	"bytes"
	"context"
	"slices"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rome/tools-sub011/internal/metrics"
	"github.com/rome/tools-sub011/js/parser"
	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

// find returns the first node of the given kind in preorder.
func find(t *testing.T, root rowan.SyntaxNode, kind syntax.Kind) rowan.SyntaxNode {
	t.Helper()
	for n := range root.Descendants() {
		if syntax.KindOf(n) == kind {
			return n
		}
	}
	t.Fatalf("no %v in tree:\n%s", kind, rowan.Dump(root))
	return rowan.SyntaxNode{}
}

func kinds(nodes []rowan.SyntaxNode) []syntax.Kind {
	out := make([]syntax.Kind, len(nodes))
	for i, n := range nodes {
		out[i] = syntax.KindOf(n)
	}
	return out
}

func errorStrings(errs []rowan.ParseError) []string {
	var out []string
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}

func statements(root rowan.SyntaxNode) []rowan.SyntaxNode {
	return slices.Collect(root.FirstChild().Children())
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"\n\n",
		"// only a comment",
		"let a = 1;\n",
		"function f(a, b) {\n  return a + b; // sum\n}\n",
		"class A extends B {}",
		"if (a) { b() } else if (c) d(); else { /* e */ }",
		"for (let i = 0; i < 10; i++) { continue; }",
		"for (const k in o) {} for (x of xs) {}",
		"outer: while (true) { do { break outer } while (x) }",
		"switch (x) { case 1: a(); default: b() }",
		"try { a() } catch (e) { throw e } finally { c() }",
		"const o = { a: 1, b, m() { return this.a }, 'c': [1, 2, 3] };",
		"x = y => y * 2; z = (a, b) => { return a ?? b };",
		"new Foo.Bar(1).baz[0]--;",
		"a ? b : c;\r\nd;\r",
		"let x = @;",
		"}}}{{{",
		"'unterminated\nstring",
		"/* unterminated",
		"function (",
		"class { get }",
		"let let let",
		"0x 1e 2abc .5",
		"a b c",
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			t.Parallel()

			var parse *parser.Parse
			require.NotPanics(t, func() { parse = parser.ParseText(text) })
			assert.Equal(t, text, parse.Root.Text())
			assert.Equal(t, syntax.Module, syntax.KindOf(parse.Root))
			assert.Equal(t, syntax.EOF, syntax.TokenKind(parse.Root.LastToken()))
		})
	}
}

func TestDump(t *testing.T) {
	t.Parallel()

	parse := parser.ParseText("let a = 1;\n")
	assert.Empty(t, parse.Errors)
	assert.Equal(t, `JS_MODULE@0..11
  JS_STATEMENT_LIST@0..10
    JS_VARIABLE_STATEMENT@0..10
      JS_VARIABLE_DECLARATION@0..9
        LET_KW@0..4 "let" [] [Whitespace(" ")]
        JS_VARIABLE_DECLARATOR_LIST@4..9
          JS_VARIABLE_DECLARATOR@4..9
            JS_IDENTIFIER_BINDING@4..6
              IDENT@4..6 "a" [] [Whitespace(" ")]
            JS_INITIALIZER_CLAUSE@6..9
              EQ@6..8 "=" [] [Whitespace(" ")]
              JS_NUMBER_LITERAL_EXPRESSION@8..9
                JS_NUMBER_LITERAL@8..9 "1" [] []
      SEMICOLON@9..10 ";" [] []
  EOF@10..11 "" [Newline("\n")] []
`, rowan.Dump(parse.Root))
}

func TestTrivia(t *testing.T) {
	t.Parallel()

	parse := parser.ParseText("a // x\n/* y */ b")
	assert.Empty(t, parse.Errors)

	toks := slices.Collect(parse.Root.DescendantsTokens())
	require.Len(t, toks, 3)

	a, b := toks[0], toks[1]
	assert.Equal(t, " // x", a.TrailingTrivia().Text())
	assert.True(t, a.HasTrailingComments())
	assert.Equal(t, "\n/* y */ ", b.LeadingTrivia().Text())
	assert.True(t, b.LeadingTrivia().HasNewline())

	var pieces []rowan.TriviaPieceKind
	for p := range b.LeadingTrivia().Pieces() {
		pieces = append(pieces, p.Kind)
	}
	assert.Equal(t, []rowan.TriviaPieceKind{
		rowan.TriviaNewline, rowan.TriviaMultiLineComment, rowan.TriviaWhitespace,
	}, pieces)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, text string
		want       []string
		bogus      syntax.Kind
	}{
		{
			name: "missing-binding",
			text: "let = 1;",
			want: []string{"4..5: expected an identifier but found `=`"},
		},
		{
			name: "missing-paren",
			text: "if (a {}",
			want: []string{"6..7: expected `)` but found `{`"},
		},
		{
			name: "missing-semicolon",
			text: "a b",
			want: []string{"2..3: expected `;` but found `b`"},
		},
		{
			name:  "stray-brace",
			text:  "}",
			want:  []string{"0..1: unexpected `}`"},
			bogus: syntax.BogusStatement,
		},
		{
			name: "unknown-character",
			text: "let x = @;",
			want: []string{
				"8..9: unexpected character '@'",
				"8..9: expected an expression but found `@`",
			},
			bogus: syntax.BogusExpression,
		},
		{
			name: "unterminated-string",
			text: "'abc",
			want: []string{"0..4: unterminated string literal"},
		},
		{
			name: "unclosed-parameters",
			text: "function f( {}",
			want: []string{
				"12..13: expected a parameter but found `{`",
				"12..13: expected `)` but found `{`",
			},
		},
		{
			name:  "bad-class-member",
			text:  "class A { + }",
			want:  []string{"10..11: expected a class member but found `+`"},
			bogus: syntax.BogusMember,
		},
		{
			name: "missing-catch",
			text: "try {}",
			want: []string{"6..6: expected `catch` or `finally` but found end of file"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			parse := parser.ParseText(tt.text)
			assert.True(t, parse.HasErrors())
			assert.Equal(t, tt.want, errorStrings(parse.Errors))
			assert.Equal(t, tt.text, parse.Root.Text())
			if tt.bogus != 0 {
				node := find(t, parse.Root, tt.bogus)
				assert.True(t, node.IsBogus())
			}
		})
	}
}

func TestStatements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want []syntax.Kind
	}{
		{"a\nb", []syntax.Kind{syntax.ExpressionStatement, syntax.ExpressionStatement}},
		{"return\nx", []syntax.Kind{syntax.ReturnStatement, syntax.ExpressionStatement}},
		{"for (;;) {}", []syntax.Kind{syntax.ForStatement}},
		{"for (x in y) {}", []syntax.Kind{syntax.ForInStatement}},
		{"for (let x of y) {}", []syntax.Kind{syntax.ForOfStatement}},
		{"for (var i = 0 in o) ;", []syntax.Kind{syntax.ForInStatement}},
		{"l: for (;;) break l", []syntax.Kind{syntax.LabeledStatement}},
		{"do x(); while (y) z()", []syntax.Kind{syntax.DoWhileStatement, syntax.ExpressionStatement}},
		{"{} ; function f() {} class C {}", []syntax.Kind{
			syntax.BlockStatement, syntax.EmptyStatement, syntax.FunctionDeclaration, syntax.ClassDeclaration,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			parse := parser.ParseText(tt.text)
			assert.Empty(t, parse.Errors)
			assert.Equal(t, tt.want, kinds(statements(parse.Root)))
		})
	}
}

func TestExpressions(t *testing.T) {
	t.Parallel()

	t.Run("precedence", func(t *testing.T) {
		t.Parallel()
		parse := parser.ParseText("a + b * c")
		top := find(t, parse.Root, syntax.BinaryExpression)
		assert.Equal(t, "b * c", top.LastChild().TextTrimmed())
	})
	t.Run("left-associative", func(t *testing.T) {
		t.Parallel()
		parse := parser.ParseText("a - b - c")
		top := find(t, parse.Root, syntax.BinaryExpression)
		assert.Equal(t, "a - b", top.FirstChild().TextTrimmed())
		assert.Equal(t, syntax.BinaryExpression, syntax.KindOf(top.FirstChild()))
	})
	t.Run("logical", func(t *testing.T) {
		t.Parallel()
		parse := parser.ParseText("a || b && c == d")
		top := find(t, parse.Root, syntax.LogicalExpression)
		assert.Equal(t, "b && c == d", top.LastChild().TextTrimmed())
		assert.Equal(t, syntax.LogicalExpression, syntax.KindOf(top.LastChild()))
	})
	t.Run("assignment", func(t *testing.T) {
		t.Parallel()
		parse := parser.ParseText("x = y += 1")
		top := find(t, parse.Root, syntax.AssignmentExpression)
		assert.Equal(t, syntax.AssignmentExpression, syntax.KindOf(top.LastChild()))
	})
	t.Run("conditional", func(t *testing.T) {
		t.Parallel()
		parse := parser.ParseText("a ? b : c ? d : e")
		top := find(t, parse.Root, syntax.ConditionalExpression)
		assert.Equal(t, "c ? d : e", top.LastChild().TextTrimmed())
	})
	t.Run("arrows", func(t *testing.T) {
		t.Parallel()
		parse := parser.ParseText("f(x => x, (a, b) => { return a })")
		assert.Empty(t, parse.Errors)
		args := find(t, parse.Root, syntax.ArgumentList)
		assert.Equal(t, []syntax.Kind{
			syntax.ArrowFunctionExpression, syntax.ArrowFunctionExpression,
		}, kinds(slices.Collect(args.Children())))
	})
	t.Run("members", func(t *testing.T) {
		t.Parallel()
		parse := parser.ParseText("new a.b(1).c[d]()")
		assert.Empty(t, parse.Errors)
		stmt := statements(parse.Root)[0]
		call := stmt.FirstChild()
		assert.Equal(t, syntax.CallExpression, syntax.KindOf(call))
		assert.Equal(t, syntax.ComputedMemberExpression, syntax.KindOf(call.FirstChild()))
		assert.Equal(t, "new a.b(1)", find(t, parse.Root, syntax.NewExpression).TextTrimmed())
	})
	t.Run("object", func(t *testing.T) {
		t.Parallel()
		parse := parser.ParseText("x = { a: 1, b, c() {} }")
		assert.Empty(t, parse.Errors)
		members := find(t, parse.Root, syntax.ObjectMemberList)
		assert.Equal(t, []syntax.Kind{
			syntax.PropertyObjectMember, syntax.ShorthandPropertyObjectMember, syntax.MethodMember,
		}, kinds(slices.Collect(members.Children())))
	})
	t.Run("updates", func(t *testing.T) {
		t.Parallel()
		parse := parser.ParseText("++a; b--; !typeof -c")
		assert.Empty(t, parse.Errors)
		assert.Equal(t, []syntax.Kind{
			syntax.PrefixUpdateExpression, syntax.PostfixUpdateExpression, syntax.UnaryExpression,
		}, kinds(slicesCollectFirst(statements(parse.Root))))
	})
}

func slicesCollectFirst(nodes []rowan.SyntaxNode) []rowan.SyntaxNode {
	out := make([]rowan.SyntaxNode, len(nodes))
	for i, n := range nodes {
		out[i] = n.FirstChild()
	}
	return out
}

func TestClassMembers(t *testing.T) {
	t.Parallel()

	parse := parser.ParseText("class A { constructor() {} get x() {} set x(v) {} m() {} get() {} p = 1; q }")
	assert.Empty(t, parse.Errors)
	members := find(t, parse.Root, syntax.ClassMemberList)
	assert.Equal(t, []syntax.Kind{
		syntax.ConstructorMember,
		syntax.GetterMember,
		syntax.SetterMember,
		syntax.MethodMember,
		syntax.MethodMember,
		syntax.PropertyMember,
		syntax.PropertyMember,
	}, kinds(slices.Collect(members.Children())))
}

func TestCache(t *testing.T) {
	t.Parallel()

	cache := rowan.NewNodeCache()
	first := parser.ParseContext(context.Background(), "a;", parser.Options{Cache: cache})
	second := parser.ParseContext(context.Background(), "a;a;", parser.Options{Cache: cache})

	a := first.Root.FirstToken().Green()
	toks := slices.Collect(second.Root.DescendantsTokens())
	require.Len(t, toks, 5)
	assert.Same(t, a, toks[0].Green())
	assert.Same(t, a, toks[2].Green())
}

func TestObservability(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	registry := metrics.NewRegistry()
	ctx := metrics.WithRegistry(logger.WithContext(context.Background()), registry)

	parser.ParseContext(ctx, "a b", parser.Options{})

	assert.Contains(t, buf.String(), `"message":"parsed module"`)
	assert.Contains(t, buf.String(), `"errors":1`)
	summaries := registry.Summaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, "parse", summaries[0].Name)
	assert.Equal(t, 1, summaries[0].Count)
}
