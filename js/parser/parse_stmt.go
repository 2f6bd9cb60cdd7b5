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

import "github.com/rome/tools-sub011/js/syntax"

// parseStatementList parses statements until end (or EOF) into a statement
// list node. The terminator is not consumed.
func parseStatementList(p *parser, end syntax.Kind) {
	p.start(syntax.StatementList)
	mp := p.mustProgress()
	for !p.at(end, syntax.EOF) {
		mp()
		if p.at(syntax.RCurly) {
			p.bogus(syntax.BogusStatement, "unexpected `}`")
			continue
		}
		parseStatement(p)
	}
	p.finish()
}

// parseCaseBody parses the statements of a switch clause.
func parseCaseBody(p *parser) {
	p.start(syntax.StatementList)
	mp := p.mustProgress()
	for !p.at(syntax.CaseKw, syntax.DefaultKw, syntax.RCurly, syntax.EOF) {
		mp()
		parseStatement(p)
	}
	p.finish()
}

// parseStatement parses a single statement.
//
// At a closing brace or the end of the file, an error is recorded and nothing
// is consumed; the enclosing construct will deal with the token.
func parseStatement(p *parser) {
	switch p.peek() {
	case syntax.EOF, syntax.RCurly:
		p.errorf("expected a statement but found %s", p.describeCurrent())
	case syntax.LCurly:
		parseBlock(p)
	case syntax.Semicolon:
		p.start(syntax.EmptyStatement)
		p.bump()
		p.finish()
	case syntax.VarKw, syntax.LetKw, syntax.ConstKw:
		p.start(syntax.VariableStatement)
		parseVariableDeclaration(p, false)
		parseSemicolon(p)
		p.finish()
	case syntax.FunctionKw:
		parseFunction(p, syntax.FunctionDeclaration)
	case syntax.ClassKw:
		parseClass(p)
	case syntax.IfKw:
		parseIf(p)
	case syntax.WhileKw:
		parseWhile(p)
	case syntax.DoKw:
		parseDoWhile(p)
	case syntax.ForKw:
		parseFor(p)
	case syntax.SwitchKw:
		parseSwitch(p)
	case syntax.TryKw:
		parseTry(p)
	case syntax.BreakKw:
		parseJump(p, syntax.BreakStatement)
	case syntax.ContinueKw:
		parseJump(p, syntax.ContinueStatement)
	case syntax.ReturnKw:
		p.start(syntax.ReturnStatement)
		p.bump()
		if !p.at(syntax.Semicolon, syntax.RCurly, syntax.EOF) && !p.newlineBefore() {
			parseExpression(p)
		}
		parseSemicolon(p)
		p.finish()
	case syntax.ThrowKw:
		p.start(syntax.ThrowStatement)
		p.bump()
		if p.newlineBefore() {
			p.errorf("line break is not allowed after `throw`")
		}
		parseExpression(p)
		parseSemicolon(p)
		p.finish()
	case syntax.Ident:
		if p.nth(1) == syntax.Colon {
			p.start(syntax.LabeledStatement)
			p.bump()
			p.bump()
			parseStatement(p)
			p.finish()
			return
		}
		parseExpressionStatement(p)
	default:
		if !canStartExpression(p.peek()) {
			p.bogus(syntax.BogusStatement, "expected a statement but found %s", p.describeCurrent())
			return
		}
		parseExpressionStatement(p)
	}
}

func parseExpressionStatement(p *parser) {
	p.start(syntax.ExpressionStatement)
	parseExpression(p)
	parseSemicolon(p)
	p.finish()
}

// parseSemicolon consumes a statement terminator, applying automatic
// semicolon insertion.
func parseSemicolon(p *parser) {
	if p.eat(syntax.Semicolon) || p.at(syntax.RCurly, syntax.EOF) || p.newlineBefore() {
		return
	}
	p.errorf("expected `;` but found %s", p.describeCurrent())
}

func parseBlock(p *parser) {
	p.start(syntax.BlockStatement)
	if p.expect(syntax.LCurly) {
		parseStatementList(p, syntax.RCurly)
		p.expect(syntax.RCurly)
	}
	p.finish()
}

// parseVariableDeclaration parses `let a = 1, b`. Inside a for header, the
// initializers may not contain `in`.
func parseVariableDeclaration(p *parser, noIn bool) {
	p.start(syntax.VariableDeclaration)
	p.bump()
	p.start(syntax.VariableDeclaratorList)
	for {
		p.start(syntax.VariableDeclarator)
		parseBinding(p)
		if p.at(syntax.Eq) {
			p.start(syntax.Initializer)
			p.bump()
			parseAssignment(p, noIn)
			p.finish()
		}
		p.finish()
		if !p.eat(syntax.Comma) {
			break
		}
	}
	p.finish()
	p.finish()
}

// parseBinding parses an identifier that declares a name.
func parseBinding(p *parser) {
	if !p.at(syntax.Ident) {
		p.errorf("expected an identifier but found %s", p.describeCurrent())
		return
	}
	p.start(syntax.IdentifierBinding)
	p.bump()
	p.finish()
}

// parseFunction parses a function declaration or expression.
func parseFunction(p *parser, kind syntax.Kind) {
	p.start(kind)
	p.bump()
	if kind == syntax.FunctionDeclaration || p.at(syntax.Ident) {
		parseBinding(p)
	}
	parseParameters(p)
	parseFunctionBody(p)
	p.finish()
}

func parseParameters(p *parser) {
	p.start(syntax.Parameters)
	if !p.expect(syntax.LParen) {
		p.finish()
		return
	}
	p.start(syntax.ParameterList)
	mp := p.mustProgress()
	for !p.at(syntax.RParen, syntax.EOF) {
		mp()
		switch {
		case p.at(syntax.Ident):
			parseBinding(p)
		case p.at(syntax.LCurly, syntax.Semicolon):
			// Probably a missing `)`; let the caller recover.
			p.errorf("expected a parameter but found %s", p.describeCurrent())
		default:
			p.bogus(syntax.Bogus, "expected a parameter but found %s", p.describeCurrent())
		}
		if !p.eat(syntax.Comma) {
			break
		}
	}
	p.finish()
	p.expect(syntax.RParen)
	p.finish()
}

func parseFunctionBody(p *parser) {
	p.start(syntax.FunctionBody)
	if p.expect(syntax.LCurly) {
		parseStatementList(p, syntax.RCurly)
		p.expect(syntax.RCurly)
	}
	p.finish()
}

func parseClass(p *parser) {
	p.start(syntax.ClassDeclaration)
	p.bump()
	parseBinding(p)
	if p.atContextual("extends") {
		p.bump()
		parseCallOrMember(p)
	}
	if p.expect(syntax.LCurly) {
		p.start(syntax.ClassMemberList)
		mp := p.mustProgress()
		for !p.at(syntax.RCurly, syntax.EOF) {
			mp()
			parseClassMember(p)
		}
		p.finish()
		p.expect(syntax.RCurly)
	}
	p.finish()
}

func parseClassMember(p *parser) {
	switch {
	case p.at(syntax.Semicolon):
		p.start(syntax.EmptyStatement)
		p.bump()
		p.finish()

	case (p.atContextual("get") || p.atContextual("set")) && isName(p.nth(1)):
		kind := syntax.GetterMember
		if p.atContextual("set") {
			kind = syntax.SetterMember
		}
		p.start(kind)
		p.bump()
		parseMemberName(p)
		parseParameters(p)
		parseFunctionBody(p)
		p.finish()

	case p.atName() && p.nth(1) == syntax.LParen:
		kind := syntax.MethodMember
		if p.atContextual("constructor") {
			kind = syntax.ConstructorMember
		}
		p.start(kind)
		parseMemberName(p)
		parseParameters(p)
		parseFunctionBody(p)
		p.finish()

	case p.atName():
		p.start(syntax.PropertyMember)
		parseMemberName(p)
		if p.at(syntax.Eq) {
			p.start(syntax.Initializer)
			p.bump()
			parseAssignment(p, false)
			p.finish()
		}
		parseSemicolon(p)
		p.finish()

	default:
		p.bogus(syntax.BogusMember, "expected a class member but found %s", p.describeCurrent())
	}
}

// parseMemberName parses the name of a class or object member.
func parseMemberName(p *parser) {
	if !p.atName() {
		p.errorf("expected a member name but found %s", p.describeCurrent())
		return
	}
	p.start(syntax.LiteralMemberName)
	p.bump()
	p.finish()
}

// parseParenthesized parses `( expr )`, as found in control statements.
func parseParenthesized(p *parser) {
	p.expect(syntax.LParen)
	parseExpression(p)
	p.expect(syntax.RParen)
}

func parseIf(p *parser) {
	p.start(syntax.IfStatement)
	p.bump()
	parseParenthesized(p)
	parseStatement(p)
	if p.at(syntax.ElseKw) {
		p.start(syntax.ElseClause)
		p.bump()
		parseStatement(p)
		p.finish()
	}
	p.finish()
}

func parseWhile(p *parser) {
	p.start(syntax.WhileStatement)
	p.bump()
	parseParenthesized(p)
	parseStatement(p)
	p.finish()
}

func parseDoWhile(p *parser) {
	p.start(syntax.DoWhileStatement)
	p.bump()
	parseStatement(p)
	p.expect(syntax.WhileKw)
	parseParenthesized(p)
	p.eat(syntax.Semicolon)
	p.finish()
}

// parseFor parses the three kinds of for loop. The kind of node is only
// known once the header has been parsed.
func parseFor(p *parser) {
	cp := p.checkpoint()
	p.bump()
	p.expect(syntax.LParen)

	switch {
	case p.at(syntax.VarKw, syntax.LetKw, syntax.ConstKw):
		parseVariableDeclaration(p, true)
	case !p.at(syntax.Semicolon):
		parseExpressionNoIn(p)
	}

	kind := syntax.ForStatement
	switch {
	case p.at(syntax.InKw):
		kind = syntax.ForInStatement
		p.bump()
		parseExpression(p)
	case p.atContextual("of"):
		kind = syntax.ForOfStatement
		p.bump()
		parseAssignment(p, false)
	default:
		p.expect(syntax.Semicolon)
		if !p.at(syntax.Semicolon) {
			parseExpression(p)
		}
		p.expect(syntax.Semicolon)
		if !p.at(syntax.RParen) {
			parseExpression(p)
		}
	}

	p.expect(syntax.RParen)
	parseStatement(p)
	p.wrap(cp, kind)
}

func parseSwitch(p *parser) {
	p.start(syntax.SwitchStatement)
	p.bump()
	parseParenthesized(p)
	if p.expect(syntax.LCurly) {
		p.start(syntax.SwitchCaseList)
		mp := p.mustProgress()
		for !p.at(syntax.RCurly, syntax.EOF) {
			mp()
			switch {
			case p.at(syntax.CaseKw):
				p.start(syntax.CaseClause)
				p.bump()
				parseExpression(p)
				p.expect(syntax.Colon)
				parseCaseBody(p)
				p.finish()
			case p.at(syntax.DefaultKw):
				p.start(syntax.DefaultClause)
				p.bump()
				p.expect(syntax.Colon)
				parseCaseBody(p)
				p.finish()
			default:
				p.bogus(syntax.BogusStatement, "expected `case` or `default` but found %s", p.describeCurrent())
			}
		}
		p.finish()
		p.expect(syntax.RCurly)
	}
	p.finish()
}

func parseTry(p *parser) {
	p.start(syntax.TryStatement)
	p.bump()
	parseBlock(p)

	if !p.at(syntax.CatchKw, syntax.FinallyKw) {
		p.errorf("expected `catch` or `finally` but found %s", p.describeCurrent())
	}
	if p.at(syntax.CatchKw) {
		p.start(syntax.CatchClause)
		p.bump()
		if p.at(syntax.LParen) {
			p.start(syntax.CatchDeclaration)
			p.bump()
			parseBinding(p)
			p.expect(syntax.RParen)
			p.finish()
		}
		parseBlock(p)
		p.finish()
	}
	if p.at(syntax.FinallyKw) {
		p.start(syntax.FinallyClause)
		p.bump()
		parseBlock(p)
		p.finish()
	}
	p.finish()
}

// parseJump parses break and continue, with their optional label.
func parseJump(p *parser, kind syntax.Kind) {
	p.start(kind)
	p.bump()
	if p.at(syntax.Ident) && !p.newlineBefore() {
		p.bump()
	}
	parseSemicolon(p)
	p.finish()
}
