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

// Package semantic computes the scopes, bindings and references of a
// JavaScript syntax tree.
package semantic

import (
	"fmt"
	"iter"

	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

// BindingKind is the way a [Binding] was declared.
type BindingKind int8

const (
	Var BindingKind = iota
	Let
	Const
	Function
	Class
	Parameter
	CatchParameter
)

// String implements [fmt.Stringer].
func (k BindingKind) String() string {
	switch k {
	case Var:
		return "var"
	case Let:
		return "let"
	case Const:
		return "const"
	case Function:
		return "function"
	case Class:
		return "class"
	case Parameter:
		return "parameter"
	case CatchParameter:
		return "catch parameter"
	default:
		return fmt.Sprintf("BindingKind(%d)", int8(k))
	}
}

// Model is the semantic model of a tree.
type Model struct {
	root   rowan.SyntaxNode
	scopes []*Scope

	scopesByNode map[nodeKey]*Scope
	bindings     map[nodeKey]*Binding
	references   map[nodeKey]*Reference
	unresolved   []*Reference
}

// nodeKey identifies a node within one tree.
type nodeKey struct {
	rng  rowan.TextRange
	kind rowan.RawSyntaxKind
}

func keyOf(node rowan.SyntaxNode) nodeKey {
	return nodeKey{node.TextTrimmedRange(), node.Kind()}
}

// Scope is a region of the program in which names are bound.
type Scope struct {
	ID       int
	Node     rowan.SyntaxNode // The node that introduces this scope.
	Parent   *Scope
	Children []*Scope

	// Whether var declarations in nested block scopes are hoisted to this
	// scope; true for the global scope and for function scopes.
	hoistingTarget bool

	bindings map[string]*Binding
	order    []*Binding
}

// Binding is a declared name.
type Binding struct {
	Name  string
	Kind  BindingKind
	Scope *Scope

	// The JS_IDENTIFIER_BINDING nodes that declare this name. There is more
	// than one if the name is redeclared, as var allows.
	Declarations []rowan.SyntaxNode

	References []*Reference
}

// Reference is a use of a name.
type Reference struct {
	// The JS_IDENTIFIER_EXPRESSION, or shorthand object member, that
	// contains the name.
	Node  rowan.SyntaxNode
	Scope *Scope

	// The binding the name resolves to; nil for globals that are not
	// declared in the file.
	Binding *Binding

	// Whether this reference assigns to the name.
	Write bool
}

// Root returns the root of the analyzed tree.
func (m *Model) Root() rowan.SyntaxNode { return m.root }

// Global returns the outermost scope.
func (m *Model) Global() *Scope { return m.scopes[0] }

// Scopes returns every scope, in preorder.
func (m *Model) Scopes() []*Scope { return m.scopes }

// Binding returns the binding declared by a JS_IDENTIFIER_BINDING node.
func (m *Model) Binding(node rowan.SyntaxNode) (*Binding, bool) {
	b, ok := m.bindings[keyOf(node)]
	return b, ok
}

// Reference returns the reference made by a node.
func (m *Model) Reference(node rowan.SyntaxNode) (*Reference, bool) {
	r, ok := m.references[keyOf(node)]
	return r, ok
}

// Unresolved returns the references that do not resolve to any binding in
// the file.
func (m *Model) Unresolved() []*Reference { return m.unresolved }

// ScopeOf returns the innermost scope containing node.
func (m *Model) ScopeOf(node rowan.SyntaxNode) *Scope {
	for n := node; !n.IsZero(); n = n.Parent() {
		if s, ok := m.scopesByNode[keyOf(n)]; ok {
			return s
		}
	}
	return m.Global()
}

// Get returns the binding for name declared directly in this scope.
func (s *Scope) Get(name string) (*Binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

// Lookup resolves name in this scope or the nearest ancestor that binds it.
func (s *Scope) Lookup(name string) (*Binding, bool) {
	for scope := range s.Ancestors() {
		if b, ok := scope.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Bindings returns the bindings declared directly in this scope, in
// declaration order.
func (s *Scope) Bindings() iter.Seq[*Binding] {
	return func(yield func(*Binding) bool) {
		for _, b := range s.order {
			if !yield(b) {
				return
			}
		}
	}
}

// Ancestors returns this scope and its ancestors, innermost first.
func (s *Scope) Ancestors() iter.Seq[*Scope] {
	return func(yield func(*Scope) bool) {
		for scope := s; scope != nil; scope = scope.Parent {
			if !yield(scope) {
				return
			}
		}
	}
}

// IsHoistingTarget returns whether var declarations are hoisted to this
// scope.
func (s *Scope) IsHoistingTarget() bool { return s.hoistingTarget }

// HoistingTarget returns the scope that var declarations in this scope are
// hoisted to.
func (s *Scope) HoistingTarget() *Scope {
	for scope := range s.Ancestors() {
		if scope.hoistingTarget {
			return scope
		}
	}
	return s
}

// String implements [fmt.Stringer].
func (s *Scope) String() string {
	return fmt.Sprintf("scope %d (%s@%v)", s.ID, s.Node.KindName(), s.Node.TextTrimmedRange())
}

// Token returns the identifier token of this binding's first declaration.
func (b *Binding) Token() rowan.SyntaxToken {
	return b.Declarations[0].FirstToken()
}

// Token returns the identifier token of this reference.
func (r *Reference) Token() rowan.SyntaxToken {
	return r.Node.FirstToken()
}

// IsShorthand returns whether this reference is an object member such as
// `{ a }`, which both names a property and reads a variable.
func (r *Reference) IsShorthand() bool {
	return syntax.KindOf(r.Node) == syntax.ShorthandPropertyObjectMember
}
