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

package parser

import (
	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

// canStartExpression returns whether a token of this kind may begin an
// expression.
func canStartExpression(k syntax.Kind) bool {
	switch k {
	case syntax.Ident, syntax.Number, syntax.String,
		syntax.TrueKw, syntax.FalseKw, syntax.NullKw, syntax.ThisKw,
		syntax.LParen, syntax.LBrack, syntax.LCurly,
		syntax.FunctionKw, syntax.NewKw, syntax.TypeofKw,
		syntax.Bang, syntax.Minus, syntax.Plus, syntax.Plus2, syntax.Minus2:
		return true
	default:
		return false
	}
}

// precedence returns the binding power of a binary operator, or zero if k is
// not one.
func precedence(k syntax.Kind, noIn bool) int {
	switch k {
	case syntax.Question2:
		return 1
	case syntax.Pipe2:
		return 2
	case syntax.Amp2:
		return 3
	case syntax.Eq2, syntax.Eq3, syntax.Neq, syntax.Neq2:
		return 4
	case syntax.Lt, syntax.Gt, syntax.LtEq, syntax.GtEq, syntax.InstanceofKw:
		return 5
	case syntax.InKw:
		if noIn {
			return 0
		}
		return 5
	case syntax.Plus, syntax.Minus:
		return 6
	case syntax.Star, syntax.Slash, syntax.Percent:
		return 7
	default:
		return 0
	}
}

func isAssignOp(k syntax.Kind) bool {
	switch k {
	case syntax.Eq, syntax.PlusEq, syntax.MinusEq, syntax.StarEq, syntax.SlashEq:
		return true
	default:
		return false
	}
}

// parseExpression parses an expression.
func parseExpression(p *parser) {
	parseAssignment(p, false)
}

// parseExpressionNoIn parses an expression in which `in` is not treated as an
// operator, as in the header of a for loop.
func parseExpressionNoIn(p *parser) {
	parseAssignment(p, true)
}

func parseAssignment(p *parser, noIn bool) {
	if p.at(syntax.Ident) && p.nth(1) == syntax.FatArrow || p.at(syntax.LParen) && arrowAhead(p) {
		parseArrow(p, noIn)
		return
	}

	cp := p.checkpoint()
	parseConditional(p, noIn)
	if isAssignOp(p.peek()) {
		p.bump()
		parseAssignment(p, noIn)
		p.wrap(cp, syntax.AssignmentExpression)
	}
}

// arrowAhead returns whether the parenthesized tokens at the cursor are the
// parameters of an arrow function.
func arrowAhead(p *parser) bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].kind {
		case syntax.LParen:
			depth++
		case syntax.RParen:
			depth--
			if depth == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].kind == syntax.FatArrow
			}
		case syntax.EOF:
			return false
		}
	}
	return false
}

func parseArrow(p *parser, noIn bool) {
	p.start(syntax.ArrowFunctionExpression)
	if p.at(syntax.Ident) {
		parseBinding(p)
	} else {
		parseParameters(p)
	}
	if p.newlineBefore() {
		p.errorf("line break is not allowed before `=>`")
	}
	p.expect(syntax.FatArrow)
	if p.at(syntax.LCurly) {
		parseFunctionBody(p)
	} else {
		parseAssignment(p, noIn)
	}
	p.finish()
}

func parseConditional(p *parser, noIn bool) {
	cp := p.checkpoint()
	parseBinary(p, 0, noIn)
	if p.at(syntax.Question) {
		p.bump()
		parseAssignment(p, false)
		p.expect(syntax.Colon)
		parseAssignment(p, noIn)
		p.wrap(cp, syntax.ConditionalExpression)
	}
}

// parseBinary parses binary operators by precedence climbing; every operator
// is left-associative.
func parseBinary(p *parser, minPrec int, noIn bool) {
	cp := p.checkpoint()
	parseUnary(p)
	for {
		op := p.peek()
		prec := precedence(op, noIn)
		if prec == 0 || prec <= minPrec {
			return
		}
		kind := syntax.BinaryExpression
		if op == syntax.Amp2 || op == syntax.Pipe2 || op == syntax.Question2 {
			kind = syntax.LogicalExpression
		}
		p.bump()
		parseBinary(p, prec, noIn)
		p.wrap(cp, kind)
	}
}

func parseUnary(p *parser) {
	switch p.peek() {
	case syntax.Bang, syntax.Minus, syntax.Plus, syntax.TypeofKw:
		p.start(syntax.UnaryExpression)
		p.bump()
		parseUnary(p)
		p.finish()
	case syntax.Plus2, syntax.Minus2:
		p.start(syntax.PrefixUpdateExpression)
		p.bump()
		parseUnary(p)
		p.finish()
	default:
		cp := p.checkpoint()
		parseCallOrMember(p)
		if p.at(syntax.Plus2, syntax.Minus2) && !p.newlineBefore() {
			p.bump()
			p.wrap(cp, syntax.PostfixUpdateExpression)
		}
	}
}

func parseCallOrMember(p *parser) {
	cp := p.checkpoint()
	if p.at(syntax.NewKw) {
		parseNew(p)
	} else {
		parsePrimary(p)
	}
	for {
		switch {
		case parseMemberSuffix(p, cp):
			continue
		case p.at(syntax.LParen):
			parseArguments(p)
			p.wrap(cp, syntax.CallExpression)
		default:
			return
		}
	}
}

// parseMemberSuffix parses `.name` or `[expr]` after the expression that
// started at cp. Returns false if there was no member access to parse.
func parseMemberSuffix(p *parser, cp rowan.Checkpoint) bool {
	switch {
	case p.at(syntax.Dot):
		p.bump()
		if isName(p.peek()) && p.peek() != syntax.String && p.peek() != syntax.Number {
			p.bump()
		} else {
			p.errorf("expected a property name but found %s", p.describeCurrent())
		}
		p.wrap(cp, syntax.StaticMemberExpression)
		return true
	case p.at(syntax.LBrack):
		p.bump()
		parseExpression(p)
		p.expect(syntax.RBrack)
		p.wrap(cp, syntax.ComputedMemberExpression)
		return true
	default:
		return false
	}
}

func parseNew(p *parser) {
	p.start(syntax.NewExpression)
	p.bump()
	cp := p.checkpoint()
	if p.at(syntax.NewKw) {
		parseNew(p)
	} else {
		parsePrimary(p)
	}
	for parseMemberSuffix(p, cp) {
		// Keep going until there are no more member accesses.
	}
	if p.at(syntax.LParen) {
		parseArguments(p)
	}
	p.finish()
}

func parseArguments(p *parser) {
	p.start(syntax.CallArguments)
	p.bump()
	p.start(syntax.ArgumentList)
	mp := p.mustProgress()
	for !p.at(syntax.RParen, syntax.EOF) {
		mp()
		parseAssignment(p, false)
		if !p.eat(syntax.Comma) {
			break
		}
	}
	p.finish()
	p.expect(syntax.RParen)
	p.finish()
}

func parsePrimary(p *parser) {
	switch p.peek() {
	case syntax.Ident:
		parseLeaf(p, syntax.IdentifierExpression)
	case syntax.Number:
		parseLeaf(p, syntax.NumberLiteralExpression)
	case syntax.String:
		parseLeaf(p, syntax.StringLiteralExpression)
	case syntax.TrueKw, syntax.FalseKw:
		parseLeaf(p, syntax.BooleanLiteralExpression)
	case syntax.NullKw:
		parseLeaf(p, syntax.NullLiteralExpression)
	case syntax.ThisKw:
		parseLeaf(p, syntax.ThisExpression)

	case syntax.LParen:
		p.start(syntax.ParenthesizedExpression)
		p.bump()
		parseExpression(p)
		p.expect(syntax.RParen)
		p.finish()

	case syntax.LBrack:
		p.start(syntax.ArrayExpression)
		p.bump()
		p.start(syntax.ArrayElementList)
		mp := p.mustProgress()
		for !p.at(syntax.RBrack, syntax.EOF) {
			mp()
			parseAssignment(p, false)
			if !p.eat(syntax.Comma) {
				break
			}
		}
		p.finish()
		p.expect(syntax.RBrack)
		p.finish()

	case syntax.LCurly:
		parseObject(p)

	case syntax.FunctionKw:
		parseFunction(p, syntax.FunctionExpression)

	case syntax.RParen, syntax.RBrack, syntax.RCurly, syntax.Semicolon, syntax.Comma, syntax.EOF:
		// Leave closing tokens for the enclosing construct.
		p.errorf("expected an expression but found %s", p.describeCurrent())

	default:
		p.bogus(syntax.BogusExpression, "expected an expression but found %s", p.describeCurrent())
	}
}

func parseLeaf(p *parser, kind syntax.Kind) {
	p.start(kind)
	p.bump()
	p.finish()
}

func parseObject(p *parser) {
	p.start(syntax.ObjectExpression)
	p.bump()
	p.start(syntax.ObjectMemberList)
	mp := p.mustProgress()
	for !p.at(syntax.RCurly, syntax.EOF) {
		mp()
		switch {
		case p.at(syntax.Ident) && (p.nth(1) == syntax.Comma || p.nth(1) == syntax.RCurly):
			parseLeaf(p, syntax.ShorthandPropertyObjectMember)
		case p.atName() && p.nth(1) == syntax.Colon:
			p.start(syntax.PropertyObjectMember)
			parseMemberName(p)
			p.bump()
			parseAssignment(p, false)
			p.finish()
		case p.atName() && p.nth(1) == syntax.LParen:
			p.start(syntax.MethodMember)
			parseMemberName(p)
			parseParameters(p)
			parseFunctionBody(p)
			p.finish()
		default:
			p.bogus(syntax.BogusMember, "expected an object member but found %s", p.describeCurrent())
		}
		if !p.eat(syntax.Comma) {
			break
		}
	}
	p.finish()
	p.expect(syntax.RCurly)
	p.finish()
}
