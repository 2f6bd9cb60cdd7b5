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

package analyze

import (
	"context"

	"github.com/rome/tools-sub011/rowan"
)

// Visitor is notified when the traversal driver enters and leaves nodes.
// Visitors build signals that need more than one node to compute, such as
// control flow graphs, and emit them through [VisitContext.Emit].
type Visitor interface {
	Visit(vc *VisitContext, event rowan.WalkEvent[rowan.SyntaxNode])
}

// VisitorFunc adapts a function to a [Visitor].
type VisitorFunc func(vc *VisitContext, event rowan.WalkEvent[rowan.SyntaxNode])

// Visit implements [Visitor].
func (f VisitorFunc) Visit(vc *VisitContext, event rowan.WalkEvent[rowan.SyntaxNode]) {
	f(vc, event)
}

// VisitContext is the state of a traversal, shared by every visitor.
type VisitContext struct {
	ctx     context.Context
	root    rowan.SyntaxNode
	signals []QueryMatch
	locals  map[any]any
}

// Context returns the context the traversal was started with.
func (vc *VisitContext) Context() context.Context { return vc.ctx }

// Root returns the root of the tree being traversed.
func (vc *VisitContext) Root() rowan.SyntaxNode { return vc.root }

// Emit records a signal for rules to run on.
func (vc *VisitContext) Emit(match QueryMatch) {
	vc.signals = append(vc.signals, match)
}

// Local returns the value of type T that visitors store under key for the
// duration of one traversal, creating it with init on first use.
//
// A registry may drive several traversals at once; visitors keep their
// mutable state here rather than in themselves.
func Local[T any](vc *VisitContext, key any, init func() T) T {
	if v, ok := vc.locals[key]; ok {
		return v.(T)
	}
	if vc.locals == nil {
		vc.locals = make(map[any]any)
	}
	v := init()
	vc.locals[key] = v
	return v
}

// VisitorRegistry holds visitors keyed by the node kinds they are interested
// in, and drives a single traversal of a tree that notifies all of them.
type VisitorRegistry struct {
	byKind map[rowan.RawSyntaxKind][]Visitor
	all    []Visitor
}

// NewVisitorRegistry returns an empty registry.
func NewVisitorRegistry() *VisitorRegistry {
	return &VisitorRegistry{byKind: make(map[rowan.RawSyntaxKind][]Visitor)}
}

// Register adds a visitor for nodes of the given kinds. With no kinds, the
// visitor sees every node.
func (r *VisitorRegistry) Register(v Visitor, kinds ...rowan.RawSyntaxKind) {
	if len(kinds) == 0 {
		r.all = append(r.all, v)
		return
	}
	for _, kind := range kinds {
		r.byKind[kind] = append(r.byKind[kind], v)
	}
}

// Walk traverses the tree under root once, in preorder.
//
// On entering a node, the visitors that see every node are notified first,
// then the visitors for its kind, each in registration order; on leaving,
// the same visitors are notified in the reverse order. Nodes whose kinds are
// listed in nodeKinds are emitted as [NodeMatch] signals when entered.
//
// Returns every emitted signal, in emission order.
func (r *VisitorRegistry) Walk(ctx context.Context, root rowan.SyntaxNode, nodeKinds map[rowan.RawSyntaxKind]bool) ([]QueryMatch, error) {
	vc := &VisitContext{ctx: ctx, root: root}
	var visitors []Visitor
	for event := range root.Preorder() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		node := event.Value
		if !event.Leave && nodeKinds[node.Kind()] {
			vc.Emit(NodeMatch{Node: node})
		}
		if r == nil {
			continue
		}

		visitors = append(visitors[:0], r.all...)
		visitors = append(visitors, r.byKind[node.Kind()]...)
		if !event.Leave {
			for _, v := range visitors {
				v.Visit(vc, event)
			}
			continue
		}
		for i := len(visitors) - 1; i >= 0; i-- {
			visitors[i].Visit(vc, event)
		}
	}
	return vc.signals, nil
}
