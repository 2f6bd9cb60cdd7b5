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

package controlflow

import (
	"github.com/rome/tools-sub011/analyze"
	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

// visitStatement records statements that do not transfer control.
func visitStatement(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	if fn := s.current(); fn != nil && !event.Leave {
		fn.builder.AppendStatement(event.Value)
	}
}

func visitIf(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	fn := s.current()
	if fn == nil {
		return
	}
	node := event.Value
	if event.Leave {
		if f := fn.pop(node); f != nil {
			fn.moveTo(f.next)
		}
		return
	}

	test, body := splitHead(node)
	if body.IsZero() {
		fn.fail()
		return
	}
	fn.builder.AppendStatement(node)

	f := &frame{node: node}
	then := fn.builder.AppendBlock()
	els := !childOfKind(node, syntax.ElseClause).IsZero()
	if els {
		f.alt = fn.builder.AppendBlock()
	}
	f.next = fn.builder.AppendBlock()

	fn.builder.AppendJump(true, then, test)
	if els {
		fn.builder.AppendJump(false, f.alt, rowan.SyntaxNode{})
	} else {
		fn.builder.AppendJump(false, f.next, rowan.SyntaxNode{})
	}
	fn.builder.SetCursor(then)
	fn.push(f)
}

func visitElse(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	fn := s.current()
	if fn == nil || event.Leave {
		return
	}
	f := fn.top(event.Value.Parent())
	if f == nil {
		fn.fail()
		return
	}
	fn.goTo(f.next)
	fn.builder.SetCursor(f.alt)
}

func visitWhile(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	fn := s.current()
	if fn == nil {
		return
	}
	node := event.Value
	if event.Leave {
		if f := fn.pop(node); f != nil {
			fn.goTo(f.cont)
			fn.builder.SetCursor(f.next)
		}
		return
	}

	test, body := splitHead(node)
	if body.IsZero() {
		fn.fail()
		return
	}
	fn.builder.AppendStatement(node)

	cond, loop, next := fn.builder.AppendBlock(), fn.builder.AppendBlock(), fn.builder.AppendBlock()
	fn.moveTo(cond)
	fn.builder.AppendJump(true, loop, test)
	fn.builder.AppendJump(false, next, rowan.SyntaxNode{})
	fn.builder.SetCursor(loop)
	fn.push(&frame{
		node: node, label: labelOf(node),
		loop: true, breakable: true,
		cont: cond, next: next,
	})
}

func visitDoWhile(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	fn := s.current()
	if fn == nil {
		return
	}
	node := event.Value
	if event.Leave {
		f := fn.pop(node)
		if f == nil {
			return
		}
		fn.moveTo(f.cont)
		test, _ := splitHead(node)
		fn.builder.AppendJump(true, f.alt, test)
		fn.builder.AppendJump(false, f.next, rowan.SyntaxNode{})
		fn.builder.SetCursor(f.next)
		return
	}

	if _, body := splitHead(node); body.IsZero() {
		fn.fail()
		return
	}
	fn.builder.AppendStatement(node)

	loop, cond, next := fn.builder.AppendBlock(), fn.builder.AppendBlock(), fn.builder.AppendBlock()
	fn.moveTo(loop)
	fn.push(&frame{
		node: node, label: labelOf(node),
		loop: true, breakable: true,
		cont: cond, next: next, alt: loop,
	})
}

func visitFor(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	fn := s.current()
	if fn == nil {
		return
	}
	node := event.Value
	if event.Leave {
		f := fn.pop(node)
		if f == nil {
			return
		}
		fn.moveTo(f.cont)
		if !f.update.IsZero() {
			fn.builder.AppendStatement(f.update)
		}
		fn.builder.AppendJump(false, f.alt, rowan.SyntaxNode{})
		fn.builder.SetCursor(f.next)
		return
	}

	header := forHeader(node)
	if header.body.IsZero() {
		fn.fail()
		return
	}
	fn.builder.AppendStatement(node)

	cond, loop := fn.builder.AppendBlock(), fn.builder.AppendBlock()
	update, next := fn.builder.AppendBlock(), fn.builder.AppendBlock()
	fn.moveTo(cond)
	if header.test.IsZero() {
		fn.builder.AppendJump(false, loop, rowan.SyntaxNode{})
	} else {
		fn.builder.AppendJump(true, loop, header.test)
		fn.builder.AppendJump(false, next, rowan.SyntaxNode{})
	}
	fn.builder.SetCursor(loop)
	fn.push(&frame{
		node: node, label: labelOf(node),
		loop: true, breakable: true,
		cont: update, next: next, alt: cond,
		update: header.update,
	})
}

func visitForIn(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	fn := s.current()
	if fn == nil {
		return
	}
	node := event.Value
	if event.Leave {
		if f := fn.pop(node); f != nil {
			fn.goTo(f.cont)
			fn.builder.SetCursor(f.next)
		}
		return
	}

	if _, body := splitHead(node); body.IsZero() {
		fn.fail()
		return
	}
	fn.builder.AppendStatement(node)

	cond, loop, next := fn.builder.AppendBlock(), fn.builder.AppendBlock(), fn.builder.AppendBlock()
	fn.moveTo(cond)
	fn.builder.AppendJump(true, loop, rowan.SyntaxNode{})
	fn.builder.AppendJump(false, next, rowan.SyntaxNode{})
	fn.builder.SetCursor(loop)
	fn.push(&frame{
		node: node, label: labelOf(node),
		loop: true, breakable: true,
		cont: cond, next: next,
	})
}

func visitSwitch(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	fn := s.current()
	if fn == nil {
		return
	}
	node := event.Value
	if event.Leave {
		if f := fn.pop(node); f != nil {
			fn.moveTo(f.next)
		}
		return
	}
	fn.builder.AppendStatement(node)

	var clauses []rowan.SyntaxNode
	for clause := range childOfKind(node, syntax.SwitchCaseList).Children() {
		switch syntax.KindOf(clause) {
		case syntax.CaseClause, syntax.DefaultClause:
			clauses = append(clauses, clause)
		}
	}

	f := &frame{node: node, label: labelOf(node), breakable: true}
	for range clauses {
		f.clauses = append(f.clauses, fn.builder.AppendBlock())
	}
	f.next = fn.builder.AppendBlock()

	fallback := f.next
	for i, clause := range clauses {
		if syntax.KindOf(clause) == syntax.DefaultClause {
			fallback = f.clauses[i]
			continue
		}
		var test rowan.SyntaxNode
		for child := range clause.Children() {
			if syntax.KindOf(child) != syntax.StatementList {
				test = child
				break
			}
		}
		fn.builder.AppendJump(true, f.clauses[i], test)
	}
	fn.builder.AppendJump(false, fallback, rowan.SyntaxNode{})
	fn.push(f)
}

// visitCase moves to the block of a switch clause. Control falls into it
// from the previous clause.
func visitCase(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	fn := s.current()
	if fn == nil || event.Leave {
		return
	}
	f := fn.top(event.Value.Parent().Parent())
	if f == nil || f.clause >= len(f.clauses) {
		fn.fail()
		return
	}
	fn.moveTo(f.clauses[f.clause])
	f.clause++
}

func visitTry(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	fn := s.current()
	if fn == nil {
		return
	}
	node := event.Value
	if event.Leave {
		if f := fn.pop(node); f != nil {
			fn.moveTo(f.next)
		}
		return
	}
	fn.builder.AppendStatement(node)

	f := &frame{
		node:       node,
		hasCatch:   !childOfKind(node, syntax.CatchClause).IsZero(),
		hasFinally: !childOfKind(node, syntax.FinallyClause).IsZero(),
	}
	body := fn.builder.AppendBlock()
	if f.hasCatch {
		f.catch = fn.builder.AppendBlock()
	}
	if f.hasFinally {
		f.finally = fn.builder.AppendBlock()
	}
	f.next = fn.builder.AppendBlock()

	fn.moveTo(body)
	// Anything in the body may throw.
	switch {
	case f.hasCatch:
		fn.builder.AppendJump(true, f.catch, rowan.SyntaxNode{})
	case f.hasFinally:
		fn.builder.AppendJump(true, f.finally, rowan.SyntaxNode{})
	}
	fn.push(f)
}

func visitCatch(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	fn := s.current()
	if fn == nil || event.Leave {
		return
	}
	f := fn.top(event.Value.Parent())
	if f == nil {
		fn.fail()
		return
	}
	if f.hasFinally {
		fn.goTo(f.finally)
		fn.builder.SetCursor(f.catch)
		fn.builder.AppendJump(true, f.finally, rowan.SyntaxNode{})
		return
	}
	fn.goTo(f.next)
	fn.builder.SetCursor(f.catch)
}

func visitFinally(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	fn := s.current()
	if fn == nil || event.Leave {
		return
	}
	f := fn.top(event.Value.Parent())
	if f == nil {
		fn.fail()
		return
	}
	fn.moveTo(f.finally)
}

func visitLabeled(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	fn := s.current()
	if fn == nil {
		return
	}
	node := event.Value
	if event.Leave {
		if f := fn.pop(node); f != nil {
			fn.moveTo(f.next)
		}
		return
	}
	fn.builder.AppendStatement(node)
	fn.push(&frame{
		node:  node,
		label: node.FirstToken().TextTrimmed(),
		next:  fn.builder.AppendBlock(),
	})
}

func visitBreak(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	fn := s.current()
	if fn == nil || event.Leave {
		return
	}
	label := jumpLabel(event.Value)
	target := fn.find(func(f *frame) bool {
		if label == "" {
			return f.breakable
		}
		return f.label == label
	})
	if target == nil {
		fn.fail()
		return
	}
	fn.builder.AppendJump(false, target.next, event.Value)
}

func visitContinue(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	fn := s.current()
	if fn == nil || event.Leave {
		return
	}
	label := jumpLabel(event.Value)
	target := fn.find(func(f *frame) bool {
		return f.loop && (label == "" || f.label == label)
	})
	if target == nil {
		fn.fail()
		return
	}
	fn.builder.AppendJump(false, target.cont, event.Value)
}

// visitReturn handles return and throw, which both leave the function.
func visitReturn(_ *analyze.VisitContext, s *state, event rowan.WalkEvent[rowan.SyntaxNode]) {
	if fn := s.current(); fn != nil && !event.Leave {
		fn.builder.AppendReturn(event.Value)
	}
}

// find returns the innermost frame matching pred.
func (fn *function) find(pred func(*frame) bool) *frame {
	for i := len(fn.frames) - 1; i >= 0; i-- {
		if pred(fn.frames[i]) {
			return fn.frames[i]
		}
	}
	return nil
}

// splitHead returns the head expression and the body statement of a control
// statement. Either may be zero if the statement did not parse.
func splitHead(node rowan.SyntaxNode) (head, body rowan.SyntaxNode) {
	for child := range node.Children() {
		kind := syntax.KindOf(child)
		switch {
		case kind.IsStatement():
			if body.IsZero() {
				body = child
			}
		case kind == syntax.ElseClause:
		case head.IsZero():
			head = child
		}
	}
	return head, body
}

type header struct {
	test, update, body rowan.SyntaxNode
}

// forHeader picks apart a three-clause for loop. The clauses are told apart
// by the semicolons between them.
func forHeader(node rowan.SyntaxNode) header {
	var h header
	section := 0
	for elem := range node.ChildrenWithTokens() {
		if elem.IsToken() {
			switch syntax.TokenKind(elem.Token()) {
			case syntax.Semicolon:
				section++
			case syntax.RParen:
				section = 3
			}
			continue
		}
		switch child := elem.Node(); {
		case section == 1:
			h.test = child
		case section == 2:
			h.update = child
		case section >= 3 && syntax.KindOf(child).IsStatement():
			h.body = child
		}
	}
	return h
}

// jumpLabel returns the label of a break or continue, if any.
func jumpLabel(node rowan.SyntaxNode) string {
	for elem := range node.ChildrenWithTokens() {
		if elem.IsToken() && syntax.TokenKind(elem.Token()) == syntax.Ident {
			return elem.Token().TextTrimmed()
		}
	}
	return ""
}
