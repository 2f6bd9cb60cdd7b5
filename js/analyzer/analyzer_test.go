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

package analyzer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rome/tools-sub011/analyze"
	"github.com/rome/tools-sub011/js/analyzer"
	"github.com/rome/tools-sub011/js/parser"
	"github.com/rome/tools-sub011/js/semantic"
	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

func parse(t *testing.T, text string) rowan.SyntaxNode {
	t.Helper()
	parse := parser.ParseText(text)
	require.Empty(t, parse.Errors)
	return parse.Root
}

// lint runs a single rule, and returns the source text of every range it
// reported, with the ranges of notes following their diagnostic.
func lint(t *testing.T, rule, text string) []string {
	t.Helper()
	r, ok := analyzer.Rules().Get(rule)
	require.True(t, ok)

	result, err := analyzer.Analyze(context.Background(), parse(t, text), []analyze.Rule{r})
	require.NoError(t, err)

	var got []string
	for _, d := range result.Diagnostics {
		assert.Equal(t, rule, d.Rule)
		got = append(got, d.Range.Slice(text))
		for _, note := range d.Notes {
			got = append(got, "note: "+note.Range.Slice(text))
		}
	}
	return got
}

func TestNoUnreachable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, text string
		want       []string
	}{
		{
			name: "live",
			text: "function f() { a(); return; }",
		},
		{
			name: "after-return",
			text: "function f() { return; a(); b(); }",
			want: []string{"a();", "note: b();"},
		},
		{
			name: "both-branches",
			text: "function f(x) { if (x) { return; } else { throw x; } a(); }",
			want: []string{"a();"},
		},
		{
			name: "after-break",
			text: "function f() { while (true) { break; a(); } b(); }",
			want: []string{"a();"},
		},
		{
			name: "outermost",
			text: "function f(x) { return; if (x) { a(); } }",
			want: []string{"if (x) { a(); }"},
		},
		{
			name: "infinite-loop",
			text: "function f() { for (;;) {} a(); }",
			want: []string{"a();"},
		},
		{
			name: "hoisted-function",
			text: "function f() { return; function g() { a(); } }",
		},
		{
			name: "nested",
			text: "function f() { g(() => { return; a(); }); }",
			want: []string{"a();"},
		},
		{
			name: "after-return-in-loop",
			text: "function f() { while (a) { return; if (b) { c(); } } }",
			want: []string{"if (b) { c(); }"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, lint(t, "noUnreachable", tt.text))
		})
	}
}

func TestNoShadowRestrictedNames(t *testing.T) {
	t.Parallel()

	text := "function f(undefined) { var NaN = 1; let ok = eval; }"
	assert.Equal(t, []string{"undefined", "NaN"}, lint(t, "noShadowRestrictedNames", text))
}

func TestUseConst(t *testing.T) {
	t.Parallel()

	text := `let a = 1;
let b = 2;
b = 3;
let c;
let d = 1, e = 2;
e++;
for (let x of xs) {}
for (let i = 0; i < 1; i++) {}
`
	assert.Equal(t, []string{"let", "let"}, lint(t, "useConst", text))

	r, _ := analyzer.Rules().Get("useConst")
	fixed, result, err := analyzer.Fix(context.Background(), parse(t, text), []analyze.Rule{r})
	require.NoError(t, err)
	assert.Len(t, result.Actions, 2)
	assert.Equal(t, `const a = 1;
let b = 2;
b = 3;
let c;
let d = 1, e = 2;
e++;
for (const x of xs) {}
for (let i = 0; i < 1; i++) {}
`, fixed.Text())
}

func TestUseConstWithoutModel(t *testing.T) {
	t.Parallel()

	// Without a semantic model the rule cannot tell whether a binding is
	// written, so it reports nothing.
	r, _ := analyzer.Rules().Get("useConst")
	result, err := analyze.Analyze(context.Background(), parse(t, "let a = 1;"), []analyze.Rule{r}, analyze.Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
}

func TestRules(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"noUnreachable", "noShadowRestrictedNames", "useConst"},
		analyzer.Rules().Names())
}

// bindingNamed returns the binding declared by the first JS_IDENTIFIER_BINDING
// spelled name.
func bindingNamed(t *testing.T, model *semantic.Model, name string) *semantic.Binding {
	t.Helper()
	for n := range model.Root().Descendants() {
		if syntax.KindOf(n) == syntax.IdentifierBinding && n.TextTrimmed() == name {
			b, ok := model.Binding(n)
			require.True(t, ok)
			return b
		}
	}
	t.Fatalf("no binding named %q", name)
	return nil
}

func TestRename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		from, to string
		want     string // Empty if the rename is rejected.
	}{
		{
			name: "simple",
			text: "let a = 1; f(a); a = 2;",
			from: "a", to: "b",
			want: "let b = 1; f(b); b = 2;",
		},
		{
			name: "trivia",
			text: "let /* x */ a = 1;\nf(a // y\n);",
			from: "a", to: "value",
			want: "let /* x */ value = 1;\nf(value // y\n);",
		},
		{
			name: "shorthand",
			text: "let a = 1; f({ a });",
			from: "a", to: "b",
			want: "let b = 1; f({ a: b });",
		},
		{
			name: "hoisted",
			text: "function g() { if (x) { var a = 1; } return a; }",
			from: "a", to: "b",
			want: "function g() { if (x) { var b = 1; } return b; }",
		},
		{
			name: "sibling-scope",
			text: "let a = 1; function g() { f(a); } function h() { let b; }",
			from: "a", to: "b",
			want: "let b = 1; function g() { f(b); } function h() { let b; }",
		},
		{
			name: "same-name",
			text: "let a = 1;",
			from: "a", to: "a",
			want: "let a = 1;",
		},
		{
			name: "declared-in-scope",
			text: "var a; var b; f(a);",
			from: "a", to: "b",
		},
		{
			name: "declared-in-hoisting-target",
			text: "function g() { var b; { let a; } }",
			from: "a", to: "b",
		},
		{
			name: "use-before-shadow",
			text: "let a = 1; function g() { f(a); let b = 2; }",
			from: "a", to: "b",
		},
		{
			name: "outer-binding",
			text: "function g() { let a = 1; f(a); } let b = 2; f(b);",
			from: "a", to: "b",
		},
		{
			name: "captures-global",
			text: "let a = 1; function g() { return b; }",
			from: "a", to: "b",
		},
		{
			name: "captures-outer",
			text: "let b = 1; function g() { let a = 2; return b; }",
			from: "a", to: "b",
		},
		{
			name: "keyword",
			text: "let a = 1;",
			from: "a", to: "if",
		},
		{
			name: "not-identifier",
			text: "let a = 1;",
			from: "a", to: "1a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := parse(t, tt.text)
			model := semantic.Build(root)
			mutation := rowan.BeginMutation(root)
			ok := analyzer.RenameNodeDeclaration(model, mutation, bindingNamed(t, model, tt.from), tt.to)

			if tt.want == "" {
				assert.False(t, ok)
				assert.True(t, mutation.IsEmpty())
			} else {
				assert.True(t, ok)
			}

			next, err := mutation.Commit()
			require.NoError(t, err)
			if tt.want == "" {
				assert.Equal(t, tt.text, next.Text())
			} else {
				assert.Equal(t, tt.want, next.Text())
			}
			assert.Equal(t, tt.text, root.Text())
		})
	}
}
