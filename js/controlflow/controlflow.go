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

// Package controlflow builds the control flow graph of every function in a
// JavaScript tree.
//
// Graphs are built by a set of visitors, one per construct, driven by an
// [analyze.VisitorRegistry]. Each function-like node (and the module itself)
// gets its own [cfg.FunctionBuilder]; when the traversal leaves the node,
// the finished graph is emitted as an [analyze.ControlFlowGraphMatch].
//
// If a construct is missing a child it needs, such as an if statement
// without a body, the graph of the function containing it is abandoned and
// nothing is emitted for it.
package controlflow

import (
	"github.com/rs/zerolog"

	"github.com/rome/tools-sub011/analyze"
	"github.com/rome/tools-sub011/cfg"
	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

// Register adds the control flow visitors to registry.
func Register(registry *analyze.VisitorRegistry) {
	kinds := func(ks ...syntax.Kind) []rowan.RawSyntaxKind {
		raw := make([]rowan.RawSyntaxKind, len(ks))
		for i, k := range ks {
			raw[i] = k.Raw()
		}
		return raw
	}

	registry.Register(visitor(visitFunction), kinds(
		syntax.Module,
		syntax.FunctionDeclaration, syntax.FunctionExpression, syntax.ArrowFunctionExpression,
		syntax.ConstructorMember, syntax.MethodMember, syntax.GetterMember, syntax.SetterMember,
	)...)
	registry.Register(visitor(visitStatement), kinds(
		syntax.ExpressionStatement, syntax.VariableStatement,
		syntax.ClassDeclaration, syntax.BogusStatement,
	)...)
	registry.Register(visitor(visitIf), kinds(syntax.IfStatement)...)
	registry.Register(visitor(visitElse), kinds(syntax.ElseClause)...)
	registry.Register(visitor(visitWhile), kinds(syntax.WhileStatement)...)
	registry.Register(visitor(visitDoWhile), kinds(syntax.DoWhileStatement)...)
	registry.Register(visitor(visitFor), kinds(syntax.ForStatement)...)
	registry.Register(visitor(visitForIn), kinds(syntax.ForInStatement, syntax.ForOfStatement)...)
	registry.Register(visitor(visitSwitch), kinds(syntax.SwitchStatement)...)
	registry.Register(visitor(visitCase), kinds(syntax.CaseClause, syntax.DefaultClause)...)
	registry.Register(visitor(visitTry), kinds(syntax.TryStatement)...)
	registry.Register(visitor(visitCatch), kinds(syntax.CatchClause)...)
	registry.Register(visitor(visitFinally), kinds(syntax.FinallyClause)...)
	registry.Register(visitor(visitLabeled), kinds(syntax.LabeledStatement)...)
	registry.Register(visitor(visitBreak), kinds(syntax.BreakStatement)...)
	registry.Register(visitor(visitContinue), kinds(syntax.ContinueStatement)...)
	registry.Register(visitor(visitReturn), kinds(syntax.ReturnStatement, syntax.ThrowStatement)...)
}

// NewRegistry returns a visitor registry containing only the control flow
// visitors.
func NewRegistry() *analyze.VisitorRegistry {
	registry := analyze.NewVisitorRegistry()
	Register(registry)
	return registry
}

// state is the state of one traversal.
type state struct {
	functions []*function
}

// function is a function whose graph is being built.
type function struct {
	node    rowan.SyntaxNode
	builder *cfg.FunctionBuilder
	frames  []*frame
	failed  bool
}

// frame is a construct whose blocks are still being filled in.
type frame struct {
	node  rowan.SyntaxNode
	label string // Label of the enclosing labeled statement, if any.

	next cfg.BlockIndex // Where control goes after the construct.

	// Loops can be continued; loops and switches can be broken out of.
	loop, breakable bool
	cont            cfg.BlockIndex

	alt    cfg.BlockIndex   // else branch of an if; body of a do-while.
	update rowan.SyntaxNode // for loops.

	catch, finally       cfg.BlockIndex
	hasCatch, hasFinally bool

	clauses []cfg.BlockIndex // One per switch clause.
	clause  int
}

type stateKey struct{}

// visitor adapts a visit function to [analyze.Visitor], giving it the
// traversal's state.
type visitor func(vc *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode])

func (v visitor) Visit(vc *analyze.VisitContext, event rowan.WalkEvent[rowan.SyntaxNode]) {
	v(vc, analyze.Local(vc, stateKey{}, func() *state { return new(state) }), event)
}

// current returns the function under construction, or nil if it has been
// abandoned.
func (s *state) current() *function {
	if len(s.functions) == 0 {
		return nil
	}
	fn := s.functions[len(s.functions)-1]
	if fn.failed {
		return nil
	}
	return fn
}

func visitFunction(vc *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	if !event.Leave {
		s.functions = append(s.functions, &function{
			node:    event.Value,
			builder: cfg.NewFunctionBuilder(event.Value),
		})
		return
	}

	fn := s.functions[len(s.functions)-1]
	s.functions = s.functions[:len(s.functions)-1]
	if fn.failed {
		zerolog.Ctx(vc.Context()).Debug().
			Stringer("range", fn.node.TextTrimmedRange()).
			Str("kind", fn.node.KindName()).
			Msg("abandoned control flow graph")
		return
	}
	vc.Emit(analyze.ControlFlowGraphMatch{Graph: fn.builder.Finish()})
}

// fail abandons the graph of the current function.
func (fn *function) fail() {
	fn.failed = true
	fn.frames = nil
}

func (fn *function) push(f *frame) {
	fn.frames = append(fn.frames, f)
}

// pop removes the innermost frame, which must be for node.
func (fn *function) pop(node rowan.SyntaxNode) *frame {
	if len(fn.frames) == 0 {
		fn.fail()
		return nil
	}
	f := fn.frames[len(fn.frames)-1]
	if !f.node.Equal(node) {
		fn.fail()
		return nil
	}
	fn.frames = fn.frames[:len(fn.frames)-1]
	return f
}

// top returns the innermost frame if it is for node.
func (fn *function) top(node rowan.SyntaxNode) *frame {
	if len(fn.frames) == 0 {
		return nil
	}
	f := fn.frames[len(fn.frames)-1]
	if !f.node.Equal(node) {
		return nil
	}
	return f
}

// goTo ends the block under the cursor with a jump to block, unless control
// already cannot reach its end.
func (fn *function) goTo(block cfg.BlockIndex) {
	if !fn.builder.IsTerminated() {
		fn.builder.AppendJump(false, block, rowan.SyntaxNode{})
	}
}

// moveTo ends the block under the cursor with a jump to block, and continues
// building there.
func (fn *function) moveTo(block cfg.BlockIndex) {
	fn.goTo(block)
	fn.builder.SetCursor(block)
}

// labelOf returns the label that applies to a statement.
func labelOf(node rowan.SyntaxNode) string {
	parent := node.Parent()
	if syntax.KindOf(parent) != syntax.LabeledStatement {
		return ""
	}
	return parent.FirstToken().TextTrimmed()
}

// childOfKind returns the first child node of node with the given kind.
func childOfKind(node rowan.SyntaxNode, kind syntax.Kind) rowan.SyntaxNode {
	for child := range node.Children() {
		if syntax.KindOf(child) == kind {
			return child
		}
	}
	return rowan.SyntaxNode{}
}
