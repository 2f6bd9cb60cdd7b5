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

package analyzer

import (
	"context"
	"slices"

	"github.com/rome/tools-sub011/analyze"
	"github.com/rome/tools-sub011/cfg"
	"github.com/rome/tools-sub011/js/semantic"
	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

// noUnreachable reports statements that can never execute.
type noUnreachable struct{}

func (noUnreachable) Name() string         { return "noUnreachable" }
func (noUnreachable) Query() analyze.Query { return analyze.ControlFlowQuery() }

func (noUnreachable) Run(_ context.Context, match analyze.QueryMatch) *analyze.Diagnostic {
	dead := unreachableNodes(match.(analyze.ControlFlowGraphMatch).Graph)
	if len(dead) == 0 {
		return nil
	}

	d := analyze.Warnf(dead[0].TextTrimmedRange(), "this code is unreachable")
	for _, node := range dead[1:] {
		d.Apply(analyze.Notef(node.TextTrimmedRange(), "this code is also unreachable"))
	}
	return d.Apply(analyze.Helpf("remove the code, or the statement that makes it unreachable"))
}

func (noUnreachable) Action(context.Context, analyze.QueryMatch) *rowan.BatchMutation {
	return nil
}

// unreachableNodes returns the outermost nodes of the dead instructions of
// graph, in source order. A node is not dead if it contains the node of an
// instruction that can execute.
func unreachableNodes(graph *cfg.ControlFlowGraph) []rowan.SyntaxNode {
	var dead []rowan.SyntaxNode
	deadRefs := make(map[cfg.InstructionRef]bool)
	for ref, inst := range graph.Unreachable() {
		deadRefs[ref] = true
		if !inst.Node.IsZero() {
			dead = append(dead, inst.Node)
		}
	}
	var live []rowan.TextRange
	for b, block := range graph.Blocks {
		for i, inst := range block.Instructions {
			if !inst.Node.IsZero() && !deadRefs[cfg.InstructionRef{Block: cfg.BlockIndex(b), Index: i}] {
				live = append(live, inst.Node.TextTrimmedRange())
			}
		}
	}

	dead = slices.DeleteFunc(dead, func(node rowan.SyntaxNode) bool {
		rng := node.TextTrimmedRange()
		return slices.ContainsFunc(live, func(r rowan.TextRange) bool {
			return rng.ContainsRange(r)
		})
	})
	slices.SortFunc(dead, func(a, b rowan.SyntaxNode) int {
		ra, rb := a.TextTrimmedRange(), b.TextTrimmedRange()
		if ra.Start != rb.Start {
			return int(ra.Start) - int(rb.Start)
		}
		// Outermost first.
		return int(rb.End) - int(ra.End)
	})

	var out []rowan.SyntaxNode
	for _, node := range dead {
		if n := len(out); n > 0 && out[n-1].TextTrimmedRange().ContainsRange(node.TextTrimmedRange()) {
			continue
		}
		out = append(out, node)
	}
	return out
}

// useConst reports let declarations whose bindings are never reassigned,
// and offers to make them const.
type useConst struct{}

func (useConst) Name() string { return "useConst" }

func (useConst) Query() analyze.Query {
	return analyze.NodeQuery(syntax.VariableDeclaration.Raw())
}

func (useConst) Run(ctx context.Context, match analyze.QueryMatch) *analyze.Diagnostic {
	node := match.(analyze.NodeMatch).Node
	if !canBeConst(ctx, node) {
		return nil
	}
	kw := node.FirstToken()
	return analyze.Warnf(kw.TextTrimmedRange(), "this let declares variables that are never reassigned").Apply(
		analyze.Helpf("use const instead"),
	)
}

func (useConst) Action(ctx context.Context, match analyze.QueryMatch) *rowan.BatchMutation {
	node := match.(analyze.NodeMatch).Node
	m := rowan.BeginMutation(node)
	m.ReplaceTokenTransferTrivia(node.FirstToken(), rowan.NewGreenToken(syntax.ConstKw.Raw(), "const"))
	return m
}

// canBeConst returns whether the VariableDeclaration node is a let whose
// every binding is initialized once and never written.
func canBeConst(ctx context.Context, node rowan.SyntaxNode) bool {
	model, ok := analyze.Service[*semantic.Model](ctx)
	if !ok || syntax.TokenKind(node.FirstToken()) != syntax.LetKw {
		return false
	}
	// A for-in or for-of head is initialized once per iteration.
	switch syntax.KindOf(node.Parent()) {
	case syntax.ForInStatement, syntax.ForOfStatement:
		return bindingsUnwritten(model, node, false)
	default:
		return bindingsUnwritten(model, node, true)
	}
}

func bindingsUnwritten(model *semantic.Model, decl rowan.SyntaxNode, needInit bool) bool {
	list := child(decl, syntax.VariableDeclaratorList)
	if list.IsZero() {
		return false
	}
	found := false
	for declarator := range list.Children() {
		if syntax.KindOf(declarator) != syntax.VariableDeclarator {
			return false
		}
		id := child(declarator, syntax.IdentifierBinding)
		if id.IsZero() || (needInit && child(declarator, syntax.Initializer).IsZero()) {
			return false
		}
		binding, ok := model.Binding(id)
		if !ok || len(binding.Declarations) != 1 {
			return false
		}
		for _, ref := range binding.References {
			if ref.Write {
				return false
			}
		}
		found = true
	}
	return found
}

// restrictedNames are the globals that must not be redeclared.
var restrictedNames = map[string]bool{
	"NaN":       true,
	"Infinity":  true,
	"undefined": true,
	"eval":      true,
	"arguments": true,
}

// noShadowRestrictedNames reports declarations that shadow a restricted
// global.
type noShadowRestrictedNames struct{}

func (noShadowRestrictedNames) Name() string { return "noShadowRestrictedNames" }

func (noShadowRestrictedNames) Query() analyze.Query {
	return analyze.NodeQuery(syntax.IdentifierBinding.Raw())
}

func (noShadowRestrictedNames) Run(_ context.Context, match analyze.QueryMatch) *analyze.Diagnostic {
	name := match.(analyze.NodeMatch).Node.TextTrimmed()
	if !restrictedNames[name] {
		return nil
	}
	return analyze.Errorf(match.Range(), "do not shadow the global %q", name).Apply(
		analyze.Helpf("rename this binding"),
	)
}

func (noShadowRestrictedNames) Action(context.Context, analyze.QueryMatch) *rowan.BatchMutation {
	return nil
}

func child(node rowan.SyntaxNode, kind syntax.Kind) rowan.SyntaxNode {
	for c := range node.Children() {
		if syntax.KindOf(c) == kind {
			return c
		}
	}
	return rowan.SyntaxNode{}
}
