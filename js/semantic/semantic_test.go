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

package semantic_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rome/tools-sub011/js/parser"
	"github.com/rome/tools-sub011/js/semantic"
	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

func build(t *testing.T, text string) *semantic.Model {
	t.Helper()
	parse := parser.ParseText(text)
	require.Empty(t, parse.Errors)
	return semantic.Build(parse.Root)
}

// nodes returns every node of the given kind whose trimmed text is text.
func nodes(model *semantic.Model, kind syntax.Kind, text string) []rowan.SyntaxNode {
	var out []rowan.SyntaxNode
	for n := range model.Root().Descendants() {
		if syntax.KindOf(n) == kind && n.TextTrimmed() == text {
			out = append(out, n)
		}
	}
	return out
}

func ref(t *testing.T, model *semantic.Model, name string, idx int) *semantic.Reference {
	t.Helper()
	all := nodes(model, syntax.IdentifierExpression, name)
	all = append(all, nodes(model, syntax.ShorthandPropertyObjectMember, name)...)
	require.Greater(t, len(all), idx, "no reference %d to %q", idx, name)
	r, ok := model.Reference(all[idx])
	require.True(t, ok)
	return r
}

func bindingNames(scope *semantic.Scope) []string {
	var out []string
	for b := range scope.Bindings() {
		out = append(out, b.Kind.String()+" "+b.Name)
	}
	return out
}

func TestScopes(t *testing.T) {
	t.Parallel()

	model := build(t, `
var a = 1;
function f(p) {
  var a = p;
  if (a) {
    let b = a;
    var c = b;
  }
  return c + g;
}
f(a);
`)

	global := model.Global()
	assert.Equal(t, []string{"var a", "function f"}, bindingNames(global))
	require.Len(t, global.Children, 1)

	fn := global.Children[0]
	assert.Equal(t, syntax.FunctionDeclaration, syntax.KindOf(fn.Node))
	assert.True(t, fn.IsHoistingTarget())
	assert.Equal(t, []string{"parameter p", "var a", "var c"}, bindingNames(fn))
	require.Len(t, fn.Children, 1)

	block := fn.Children[0]
	assert.False(t, block.IsHoistingTarget())
	assert.Same(t, fn, block.HoistingTarget())
	assert.Equal(t, []string{"let b"}, bindingNames(block))

	assert.Equal(t, []*semantic.Scope{global, fn, block}, model.Scopes())

	p, _ := fn.Get("p")
	assert.Same(t, p, ref(t, model, "p", 0).Binding)

	inner, _ := fn.Get("a")
	outer, _ := global.Get("a")
	assert.Same(t, inner, ref(t, model, "a", 0).Binding)
	assert.Same(t, inner, ref(t, model, "a", 1).Binding)
	assert.Same(t, outer, ref(t, model, "a", 2).Binding)

	b := ref(t, model, "b", 0)
	assert.Same(t, block, b.Scope)
	assert.Same(t, block, model.ScopeOf(b.Node))
	assert.Equal(t, semantic.Let, b.Binding.Kind)

	c, _ := fn.Get("c")
	assert.Same(t, c, ref(t, model, "c", 0).Binding)

	require.Len(t, model.Unresolved(), 1)
	assert.Equal(t, "g", model.Unresolved()[0].Token().TextTrimmed())
	assert.Nil(t, model.Unresolved()[0].Binding)
}

func TestBindings(t *testing.T) {
	t.Parallel()

	t.Run("hoisted-function", func(t *testing.T) {
		t.Parallel()
		model := build(t, "x(); function x() {}")
		r := ref(t, model, "x", 0)
		require.NotNil(t, r.Binding)
		assert.Equal(t, semantic.Function, r.Binding.Kind)
		assert.Same(t, model.Global(), r.Binding.Scope)
	})
	t.Run("shadowing", func(t *testing.T) {
		t.Parallel()
		model := build(t, "let x; { let x; x; } x;")
		inner, outer := ref(t, model, "x", 0), ref(t, model, "x", 1)
		assert.NotSame(t, inner.Binding, outer.Binding)
		assert.Same(t, model.Global(), outer.Binding.Scope)
		assert.Equal(t, syntax.BlockStatement, syntax.KindOf(inner.Binding.Scope.Node))
	})
	t.Run("function-expression-name", func(t *testing.T) {
		t.Parallel()
		model := build(t, "const f = function g() { g }; g;")
		inside, outside := ref(t, model, "g", 0), ref(t, model, "g", 1)
		require.NotNil(t, inside.Binding)
		assert.Equal(t, syntax.FunctionExpression, syntax.KindOf(inside.Binding.Scope.Node))
		assert.Nil(t, outside.Binding)
	})
	t.Run("catch", func(t *testing.T) {
		t.Parallel()
		model := build(t, "try {} catch (e) { e }")
		r := ref(t, model, "e", 0)
		require.NotNil(t, r.Binding)
		assert.Equal(t, semantic.CatchParameter, r.Binding.Kind)
		assert.Equal(t, syntax.CatchClause, syntax.KindOf(r.Binding.Scope.Node))
	})
	t.Run("for-let", func(t *testing.T) {
		t.Parallel()
		model := build(t, "for (let i = 0; i < 3; i++) {} for (var j of js) {}")
		i := ref(t, model, "i", 0)
		assert.Equal(t, syntax.ForStatement, syntax.KindOf(i.Binding.Scope.Node))
		j, ok := model.Global().Get("j")
		require.True(t, ok)
		assert.Equal(t, semantic.Var, j.Kind)
	})
	t.Run("redeclared", func(t *testing.T) {
		t.Parallel()
		model := build(t, "var a; var a; a")
		a, ok := model.Global().Get("a")
		require.True(t, ok)
		assert.Len(t, a.Declarations, 2)
		assert.Len(t, a.References, 1)
		for _, decl := range a.Declarations {
			b, ok := model.Binding(decl)
			require.True(t, ok)
			assert.Same(t, a, b)
		}
	})
	t.Run("shorthand", func(t *testing.T) {
		t.Parallel()
		model := build(t, "let a; x = { a }")
		r := ref(t, model, "a", 0)
		assert.True(t, r.IsShorthand())
		require.NotNil(t, r.Binding)
		assert.Equal(t, "a", r.Binding.Name)
	})
	t.Run("class", func(t *testing.T) {
		t.Parallel()
		model := build(t, "class A {} new A()")
		r := ref(t, model, "A", 0)
		require.NotNil(t, r.Binding)
		assert.Equal(t, semantic.Class, r.Binding.Kind)
	})
	t.Run("arrow", func(t *testing.T) {
		t.Parallel()
		model := build(t, "f = x => x")
		r := ref(t, model, "x", 0)
		require.NotNil(t, r.Binding)
		assert.Equal(t, semantic.Parameter, r.Binding.Kind)
		assert.Equal(t, syntax.ArrowFunctionExpression, syntax.KindOf(r.Binding.Scope.Node))
	})
}

func TestWrites(t *testing.T) {
	t.Parallel()

	model := build(t, "let x, y; x = 1; x++; y += x; for (x of y) {}")
	x, _ := model.Global().Get("x")
	y, _ := model.Global().Get("y")

	writes := func(b *semantic.Binding) []bool {
		return slices.Collect(func(yield func(bool) bool) {
			for _, r := range b.References {
				if !yield(r.Write) {
					return
				}
			}
		})
	}
	assert.Equal(t, []bool{true, true, false, true}, writes(x))
	assert.Equal(t, []bool{true, false}, writes(y))
}
