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

package controlflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rome/tools-sub011/analyze"
	"github.com/rome/tools-sub011/cfg"
	"github.com/rome/tools-sub011/js/controlflow"
	"github.com/rome/tools-sub011/js/parser"
)

func graphs(t *testing.T, ctx context.Context, text string) []*cfg.ControlFlowGraph {
	t.Helper()

	parse := parser.ParseText(text)
	require.False(t, parse.HasErrors(), "%v", parse.Errors)
	return walk(t, ctx, parse)
}

func walk(t *testing.T, ctx context.Context, parse *parser.Parse) []*cfg.ControlFlowGraph {
	t.Helper()

	signals, err := controlflow.NewRegistry().Walk(ctx, parse.Root, nil)
	require.NoError(t, err)
	var out []*cfg.ControlFlowGraph
	for _, signal := range signals {
		out = append(out, signal.(analyze.ControlFlowGraphMatch).Graph)
	}
	return out
}

// moduleGraph returns the graph of the top level of text.
func moduleGraph(t *testing.T, text string) *cfg.ControlFlowGraph {
	t.Helper()

	gs := graphs(t, context.Background(), text)
	require.NotEmpty(t, gs)
	return gs[len(gs)-1]
}

func TestGraphs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, text, want string
	}{
		{
			name: "straight",
			text: "a(); let b = 1;",
			want: `block 0:
  statement JS_EXPRESSION_STATEMENT "a();"
  statement JS_VARIABLE_STATEMENT "let b = 1;"
`,
		},
		{
			name: "while",
			text: "while (a) { if (b) break; c(); continue; d(); }",
			want: `block 0:
  statement JS_WHILE_STATEMENT "while (a) { if (b) break; c(); continue; d(); }"
  jump -> 1
block 1:
  jump if -> 2 JS_IDENTIFIER_EXPRESSION "a"
  jump -> 3
block 2:
  statement JS_IF_STATEMENT "if (b) break;"
  jump if -> 4 JS_IDENTIFIER_EXPRESSION "b"
  jump -> 5
block 3:
  return
block 4:
  jump -> 3 JS_BREAK_STATEMENT "break;"
block 5:
  statement JS_EXPRESSION_STATEMENT "c();"
  jump -> 1 JS_CONTINUE_STATEMENT "continue;"
  statement JS_EXPRESSION_STATEMENT "d();"
`,
		},
		{
			name: "do-while",
			text: "do { a(); } while (b);",
			want: `block 0:
  statement JS_DO_WHILE_STATEMENT "do { a(); } while (b);"
  jump -> 1
block 1:
  statement JS_EXPRESSION_STATEMENT "a();"
  jump -> 2
block 2:
  jump if -> 1 JS_IDENTIFIER_EXPRESSION "b"
  jump -> 3
block 3:
`,
		},
		{
			name: "for",
			text: "for (let i = 0; i < n; i++) a();",
			want: `block 0:
  statement JS_FOR_STATEMENT "for (let i = 0; i < n; i++) a();"
  jump -> 1
block 1:
  jump if -> 2 JS_BINARY_EXPRESSION "i < n"
  jump -> 4
block 2:
  statement JS_EXPRESSION_STATEMENT "a();"
  jump -> 3
block 3:
  statement JS_POST_UPDATE_EXPRESSION "i++"
  jump -> 1
block 4:
`,
		},
		{
			name: "labeled-continue",
			text: "outer: for (;;) { for (x of y) { continue outer; } }",
			want: `block 0:
  statement JS_LABELED_STATEMENT "outer: for (;;) { for (x of y) { continue outer; } }"
  statement JS_FOR_STATEMENT "for (;;) { for (x of y) { continue outer; } }"
  jump -> 2
block 1:
  return
block 2:
  jump -> 3
block 3:
  statement JS_FOR_OF_STATEMENT "for (x of y) { continue outer; }"
  jump -> 6
block 4:
  jump -> 2
block 5:
  jump -> 1
block 6:
  jump if -> 7
  jump -> 8
block 7:
  jump -> 4 JS_CONTINUE_STATEMENT "continue outer;"
block 8:
  jump -> 4
`,
		},
		{
			name: "switch",
			text: "switch (x) { case 1: a(); case 2: b(); break; default: c(); }",
			want: `block 0:
  statement JS_SWITCH_STATEMENT "switch (x) { case 1: a(); case 2: b(); break; default: c(); }"
  jump if -> 1 JS_NUMBER_LITERAL_EXPRESSION "1"
  jump if -> 2 JS_NUMBER_LITERAL_EXPRESSION "2"
  jump -> 3
block 1:
  statement JS_EXPRESSION_STATEMENT "a();"
  jump -> 2
block 2:
  statement JS_EXPRESSION_STATEMENT "b();"
  jump -> 4 JS_BREAK_STATEMENT "break;"
block 3:
  statement JS_EXPRESSION_STATEMENT "c();"
  jump -> 4
block 4:
`,
		},
		{
			name: "try",
			text: "try { a(); } catch (e) { b(); } finally { c(); }",
			want: `block 0:
  statement JS_TRY_STATEMENT "try { a(); } catch (e) { b(); } finally { c(); }"
  jump -> 1
block 1:
  jump if -> 2
  statement JS_EXPRESSION_STATEMENT "a();"
  jump -> 3
block 2:
  jump if -> 3
  statement JS_EXPRESSION_STATEMENT "b();"
  jump -> 3
block 3:
  statement JS_EXPRESSION_STATEMENT "c();"
  jump -> 4
block 4:
`,
		},
		{
			name: "throw",
			text: "throw a; b();",
			want: `block 0:
  return JS_THROW_STATEMENT "throw a;"
  statement JS_EXPRESSION_STATEMENT "b();"
`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, moduleGraph(t, test.text).String())
		})
	}
}

func TestFunctionGraphs(t *testing.T) {
	t.Parallel()

	text := "function f(a) { if (a) { b(); } else { return; } c(); }\nconst h = () => { return; x(); };"
	gs := graphs(t, context.Background(), text)
	require.Len(t, gs, 3)

	assert.Equal(t, "JS_FUNCTION_DECLARATION", gs[0].Node.KindName())
	assert.Equal(t, `block 0:
  statement JS_IF_STATEMENT "if (a) { b(); } else { return; }"
  jump if -> 1 JS_IDENTIFIER_EXPRESSION "a"
  jump -> 2
block 1:
  statement JS_EXPRESSION_STATEMENT "b();"
  jump -> 3
block 2:
  return JS_RETURN_STATEMENT "return;"
block 3:
  statement JS_EXPRESSION_STATEMENT "c();"
`, gs[0].String())

	assert.Equal(t, "JS_ARROW_FUNCTION_EXPRESSION", gs[1].Node.KindName())
	assert.Equal(t, []string{"x();"}, unreachable(gs[1]))

	assert.Equal(t, "JS_MODULE", gs[2].Node.KindName())
	assert.Equal(t, `block 0:
  statement JS_VARIABLE_STATEMENT "const h = () => { return; x(); };"
`, gs[2].String())
}

func TestUnreachable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want []string
	}{
		{text: "a(); b();"},
		{text: "return; a();", want: []string{"a();"}},
		{
			text: "while (x) { break; a(); } b();",
			want: []string{"a();"},
		},
		{
			text: "if (x) { return; } else { throw y; } a(); if (z) b();",
			want: []string{"a();", "if (z) b();", "z", "b();"},
		},
		{text: "for (;;) {} a();", want: []string{"a();"}},
		{text: "for (;;) { break; } a();"},
		{text: "try { return; } finally { a(); } b();"},
		{text: "try { return; } catch (e) { return; } b();", want: []string{"b();"}},
		{
			text: "while (a) { return; if (b) { c(); } }",
			want: []string{"if (b) { c(); }", "b", "c();"},
		},
	}

	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, unreachable(moduleGraph(t, test.text)))
		})
	}
}

func TestAbandoned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, text string
	}{
		{name: "missing-body", text: "function f() { if (a) }\nfunction g() { return; }"},
		{name: "stray-break", text: "function f() { break; }\nfunction g() { return; }"},
		{name: "unknown-label", text: "function f() { while (a) { continue b; } }\nfunction g() { return; }"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			gs := walk(t, context.Background(), parser.ParseText(test.text))
			require.Len(t, gs, 2)
			assert.Equal(t, "g", gs[0].Node.FirstChild().TextTrimmed())
			assert.Equal(t, "JS_MODULE", gs[1].Node.KindName())
		})
	}
}

func TestRegistryReuse(t *testing.T) {
	t.Parallel()

	registry := controlflow.NewRegistry()
	root := parser.ParseText("while (a) { b(); }").Root
	first, err := registry.Walk(context.Background(), root, nil)
	require.NoError(t, err)
	second, err := registry.Walk(context.Background(), root, nil)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t,
		first[0].(analyze.ControlFlowGraphMatch).Graph.String(),
		second[0].(analyze.ControlFlowGraphMatch).Graph.String(),
	)
}

func unreachable(g *cfg.ControlFlowGraph) []string {
	var out []string
	for _, inst := range g.Unreachable() {
		if !inst.Node.IsZero() {
			out = append(out, inst.Node.TextTrimmed())
		}
	}
	return out
}
