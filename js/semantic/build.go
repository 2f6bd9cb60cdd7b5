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

package semantic

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rome/tools-sub011/internal/metrics"
	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

// Build computes the semantic model of the tree rooted at root.
func Build(root rowan.SyntaxNode) *Model {
	return BuildContext(context.Background(), root)
}

// BuildContext is like [Build], recording timing in the metrics registry
// carried by ctx.
func BuildContext(ctx context.Context, root rowan.SyntaxNode) *Model {
	defer metrics.FromContext(ctx).Time("semantic")()

	b := &builder{model: &Model{
		root:         root,
		scopesByNode: make(map[nodeKey]*Scope),
		bindings:     make(map[nodeKey]*Binding),
		references:   make(map[nodeKey]*Reference),
	}}
	b.push(root, true)

	for event := range root.Preorder() {
		node := event.Value
		if event.Leave {
			if b.scope.Node.Equal(node) && b.scope.Parent != nil {
				b.scope = b.scope.Parent
			}
			continue
		}

		kind := syntax.KindOf(node)
		switch {
		case kind.IsFunctionLike():
			b.push(node, true)
		case kind == syntax.BlockStatement, kind == syntax.ForStatement,
			kind == syntax.ForInStatement, kind == syntax.ForOfStatement,
			kind == syntax.SwitchStatement, kind == syntax.CatchClause:
			b.push(node, false)
		case kind == syntax.IdentifierBinding:
			b.declare(node)
		case kind == syntax.IdentifierExpression, kind == syntax.ShorthandPropertyObjectMember:
			b.reference(node)
		}
	}

	b.resolve()
	zerolog.Ctx(ctx).Debug().
		Int("scopes", len(b.model.scopes)).
		Int("bindings", len(b.model.bindings)).
		Int("references", len(b.model.references)).
		Int("unresolved", len(b.model.unresolved)).
		Msg("built semantic model")
	return b.model
}

type builder struct {
	model *Model
	scope *Scope
	refs  []*Reference
}

func (b *builder) push(node rowan.SyntaxNode, hoistingTarget bool) {
	s := &Scope{
		ID:             len(b.model.scopes),
		Node:           node,
		Parent:         b.scope,
		hoistingTarget: hoistingTarget,
		bindings:       make(map[string]*Binding),
	}
	if b.scope != nil {
		b.scope.Children = append(b.scope.Children, s)
	}
	b.model.scopes = append(b.model.scopes, s)
	b.model.scopesByNode[keyOf(node)] = s
	b.scope = s
}

// declare records the name declared by a JS_IDENTIFIER_BINDING node, in the
// scope the declaration belongs to.
func (b *builder) declare(node rowan.SyntaxNode) {
	name := node.TextTrimmed()
	if name == "" {
		return
	}

	scope := b.scope
	var kind BindingKind
	parent := node.Parent()
	switch syntax.KindOf(parent) {
	case syntax.VariableDeclarator:
		switch syntax.TokenKind(parent.Parent().Parent().FirstToken()) {
		case syntax.LetKw:
			kind = Let
		case syntax.ConstKw:
			kind = Const
		default:
			kind = Var
			scope = scope.HoistingTarget()
		}
	case syntax.FunctionDeclaration:
		// The name belongs to the scope around the function, not the one the
		// function introduces.
		kind = Function
		scope = scope.Parent
	case syntax.FunctionExpression:
		kind = Function
	case syntax.ClassDeclaration:
		kind = Class
	case syntax.CatchDeclaration:
		kind = CatchParameter
	default:
		kind = Parameter
	}

	binding, ok := scope.bindings[name]
	if !ok {
		binding = &Binding{Name: name, Kind: kind, Scope: scope}
		scope.bindings[name] = binding
		scope.order = append(scope.order, binding)
	}
	binding.Declarations = append(binding.Declarations, node)
	b.model.bindings[keyOf(node)] = binding
}

func (b *builder) reference(node rowan.SyntaxNode) {
	ref := &Reference{Node: node, Scope: b.scope, Write: isWrite(node)}
	b.refs = append(b.refs, ref)
	b.model.references[keyOf(node)] = ref
}

// resolve binds every reference once all declarations are known, so that
// hoisted names resolve even when used before they are declared.
func (b *builder) resolve() {
	for _, ref := range b.refs {
		name := ref.Token().TextTrimmed()
		binding, ok := ref.Scope.Lookup(name)
		if !ok {
			b.model.unresolved = append(b.model.unresolved, ref)
			continue
		}
		ref.Binding = binding
		binding.References = append(binding.References, ref)
	}
}

// isWrite returns whether an identifier expression is assigned to.
func isWrite(node rowan.SyntaxNode) bool {
	parent := node.Parent()
	switch syntax.KindOf(parent) {
	case syntax.AssignmentExpression:
		return parent.FirstChild().Equal(node)
	case syntax.PrefixUpdateExpression, syntax.PostfixUpdateExpression:
		return true
	case syntax.ForInStatement, syntax.ForOfStatement:
		// `for (x of xs)` assigns x.
		return parent.FirstChild().Equal(node)
	default:
		return false
	}
}
