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

package formatter

import (
	"strings"

	"github.com/rome/tools-sub011/format"
	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

func formatModule(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	out := []format.Token{f.Node(child(node, syntax.StatementList))}
	if eof := token(node, syntax.EOF); eof.HasLeadingComments() {
		out = append(out, lineBefore(eof), format.LeadingComments(eof))
	}
	if !unterminatedComment(node) {
		out = append(out, format.HardLine())
	}
	return format.Concat(out...), nil
}

// unterminatedComment returns whether module ends inside a block comment
// that is never closed. The comment runs to the end of the file, so nothing
// may be printed after it.
func unterminatedComment(module rowan.SyntaxNode) bool {
	eof := token(module, syntax.EOF)
	if eof.IsZero() {
		return false
	}
	trivia := eof.LeadingTrivia()
	if !eof.HasLeadingComments() {
		prev := eof.PrevToken()
		if prev.IsZero() {
			return false
		}
		trivia = prev.TrailingTrivia()
	}

	var last rowan.SyntaxTriviaPiece
	for p := range trivia.Pieces() {
		if p.Kind.IsComment() {
			last = p
		}
	}
	return last.Kind == rowan.TriviaMultiLineComment &&
		(len(last.Text) < 4 || !strings.HasSuffix(last.Text, "*/"))
}

// formatLines puts each child of a list on its own line, keeping at most one
// blank line between them. Empty statements are dropped.
func formatLines(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	var out []format.Token
	for c := range node.Children() {
		first := c.FirstToken()
		if syntax.KindOf(c) == syntax.EmptyStatement {
			if t := comments(first); !format.IsEmpty(t) {
				out = append(out, t)
			}
			continue
		}
		if len(out) > 0 {
			out = append(out, lineBefore(first))
		}
		out = append(out, f.Node(c))
	}
	return format.Concat(out...), nil
}

// braced formats `{ body }` with body indented on lines of its own. An empty
// body prints as `{}`.
func braced(f *format.Formatter, node rowan.SyntaxNode, body format.Token) (format.Token, error) {
	open, closing := token(node, syntax.LCurly), token(node, syntax.RCurly)
	if open.IsZero() || closing.IsZero() {
		return nil, format.MissingChild(node, "braces")
	}

	inner := body
	if closing.HasLeadingComments() {
		if !format.IsEmpty(body) {
			inner = format.Concat(inner, lineBefore(closing))
		}
		inner = format.Concat(inner, format.LeadingComments(closing))
	}
	end := format.Concat(format.SyntaxToken(closing), format.TrailingComments(closing))
	if format.IsEmpty(inner) {
		return format.Concat(f.Token(open), end), nil
	}
	return format.Concat(
		f.Token(open),
		format.Indent(format.HardLine(), inner),
		format.HardLine(),
		end,
	), nil
}

func formatBlock(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	return braced(f, node, f.Node(child(node, syntax.StatementList)))
}

// clauseBody formats the statement controlled by an if, a loop or an else.
// Blocks stay on the same line; other statements move to the next line if
// they do not fit.
func clauseBody(f *format.Formatter, parent, stmt rowan.SyntaxNode) (format.Token, error) {
	switch syntax.KindOf(stmt) {
	case syntax.Tombstone:
		return nil, format.MissingChild(parent, "body")
	case syntax.BlockStatement:
		return format.Concat(format.Space(), f.Node(stmt)), nil
	case syntax.EmptyStatement:
		return f.Node(stmt), nil
	default:
		return format.Group(format.Indent(format.SoftLineOrSpace(), f.Node(stmt))), nil
	}
}

// parenthesized formats the `(expr)` head of a control statement.
func parenthesized(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	var open, closing rowan.SyntaxToken
	var expr rowan.SyntaxNode
	for elem := range node.ChildrenWithTokens() {
		switch {
		case elem.IsToken() && syntax.TokenKind(elem.Token()) == syntax.LParen && open.IsZero():
			open = elem.Token()
		case elem.IsToken() && syntax.TokenKind(elem.Token()) == syntax.RParen && !open.IsZero():
			closing = elem.Token()
		case elem.IsNode() && !open.IsZero() && closing.IsZero() && expr.IsZero():
			expr = elem.Node()
		}
	}
	if open.IsZero() || closing.IsZero() || expr.IsZero() {
		return nil, format.MissingChild(node, "parenthesized expression")
	}
	return format.Concat(f.Token(open), f.Node(expr), f.Token(closing)), nil
}

// keywordHead formats `kw (expr)`.
func keywordHead(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	head, err := parenthesized(f, node)
	if err != nil {
		return nil, err
	}
	return format.Concat(f.Token(node.FirstToken()), format.Space(), head), nil
}

// formatWords prints the children of node separated by spaces.
func formatWords(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	var out []format.Token
	for elem := range node.ChildrenWithTokens() {
		if elem.IsNode() {
			out = append(out, f.Node(elem.Node()))
		} else {
			out = append(out, f.Token(elem.Token()))
		}
	}
	return format.Join(format.Space(), out...), nil
}

func formatVariableStatement(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	end := semicolon(f, node)
	decl, err := required(f, node, child(node, syntax.VariableDeclaration), "declaration")
	if err != nil {
		return nil, err
	}
	return format.Concat(decl, end), nil
}

func formatVariableDeclaration(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	list, err := required(f, node, child(node, syntax.VariableDeclaratorList), "declarators")
	if err != nil {
		return nil, err
	}
	return format.Group(f.Token(node.FirstToken()), format.Space(), list), nil
}

func formatDeclaratorList(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	list := separated(f, node, format.Empty())
	if len(childNodes(node, func(syntax.Kind) bool { return true })) > 1 {
		return format.Indent(list), nil
	}
	return list, nil
}

func formatInitializer(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	value, err := required(f, node, node.FirstChild(), "value")
	if err != nil {
		return nil, err
	}
	return format.Concat(format.Space(), f.Token(node.FirstToken()), format.Space(), value), nil
}

// formatFunction formats function declarations and expressions.
func formatFunction(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	params, err := required(f, node, child(node, syntax.Parameters), "parameters")
	if err != nil {
		return nil, err
	}
	body, err := required(f, node, child(node, syntax.FunctionBody), "body")
	if err != nil {
		return nil, err
	}
	return format.Concat(
		f.Token(node.FirstToken()), format.Space(),
		f.Node(child(node, syntax.IdentifierBinding)),
		params, format.Space(), body,
	), nil
}

func formatClass(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	out := []format.Token{f.Token(node.FirstToken())}
	for elem := range node.ChildrenWithTokens() {
		switch {
		case elem.IsNode() && syntax.KindOf(elem.Node()) == syntax.ClassMemberList:
		case elem.IsNode():
			out = append(out, format.Space(), f.Node(elem.Node()))
		case syntax.TokenKind(elem.Token()) == syntax.Ident:
			// extends
			out = append(out, format.Space(), f.Token(elem.Token()))
		}
	}
	body, err := braced(f, node, f.Node(child(node, syntax.ClassMemberList)))
	if err != nil {
		return nil, err
	}
	return format.Concat(append(out, format.Space(), body)...), nil
}

// formatMethod formats class and object methods, including accessors.
func formatMethod(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	var out []format.Token
	if tok := token(node, syntax.Ident); !tok.IsZero() {
		// get or set
		out = append(out, f.Token(tok), format.Space())
	}
	for _, part := range []struct {
		kind syntax.Kind
		what string
	}{
		{syntax.LiteralMemberName, "name"},
		{syntax.Parameters, "parameters"},
		{syntax.FunctionBody, "body"},
	} {
		tok, err := required(f, node, child(node, part.kind), part.what)
		if err != nil {
			return nil, err
		}
		if part.kind == syntax.FunctionBody {
			out = append(out, format.Space())
		}
		out = append(out, tok)
	}
	return format.Concat(out...), nil
}

func formatPropertyMember(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	end := semicolon(f, node)
	name, err := required(f, node, child(node, syntax.LiteralMemberName), "name")
	if err != nil {
		return nil, err
	}
	return format.Concat(name, f.Node(child(node, syntax.Initializer)), end), nil
}

func formatIf(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	head, err := keywordHead(f, node)
	if err != nil {
		return nil, err
	}
	stmts := childNodes(node, isStatement)
	if len(stmts) == 0 {
		return nil, format.MissingChild(node, "consequent")
	}
	body, err := clauseBody(f, node, stmts[0])
	if err != nil {
		return nil, err
	}

	out := []format.Token{head, body}
	if els := child(node, syntax.ElseClause); !els.IsZero() {
		if syntax.KindOf(stmts[0]) == syntax.BlockStatement {
			out = append(out, format.Space())
		} else {
			out = append(out, format.HardLine())
		}
		out = append(out, f.Node(els))
	}
	return format.Concat(out...), nil
}

func formatElse(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	stmt := node.FirstChild()
	if syntax.KindOf(stmt) == syntax.IfStatement {
		return format.Concat(f.Token(node.FirstToken()), format.Space(), f.Node(stmt)), nil
	}
	body, err := clauseBody(f, node, stmt)
	if err != nil {
		return nil, err
	}
	return format.Concat(f.Token(node.FirstToken()), body), nil
}

func formatWhile(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	head, err := keywordHead(f, node)
	if err != nil {
		return nil, err
	}
	var body rowan.SyntaxNode
	if stmts := childNodes(node, isStatement); len(stmts) > 0 {
		body = stmts[0]
	}
	tail, err := clauseBody(f, node, body)
	if err != nil {
		return nil, err
	}
	return format.Concat(head, tail), nil
}

func formatDoWhile(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	end := semicolon(f, node)
	var stmt rowan.SyntaxNode
	if stmts := childNodes(node, isStatement); len(stmts) > 0 {
		stmt = stmts[0]
	}
	body, err := clauseBody(f, node, stmt)
	if err != nil {
		return nil, err
	}
	kw := token(node, syntax.WhileKw)
	test, err := parenthesized(f, node)
	if kw.IsZero() || err != nil {
		return nil, format.MissingChild(node, "condition")
	}

	sep := format.Space()
	if syntax.KindOf(stmt) != syntax.BlockStatement {
		sep = format.HardLine()
	}
	return format.Concat(
		f.Token(node.FirstToken()), body, sep,
		f.Token(kw), format.Space(), test, end,
	), nil
}

func formatFor(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	var parts [3]rowan.SyntaxNode // init; test; update
	var body rowan.SyntaxNode
	var open, closing rowan.SyntaxToken
	var semis []rowan.SyntaxToken
	for elem := range node.ChildrenWithTokens() {
		if elem.IsToken() {
			switch syntax.TokenKind(elem.Token()) {
			case syntax.LParen:
				open = elem.Token()
			case syntax.Semicolon:
				semis = append(semis, elem.Token())
			case syntax.RParen:
				closing = elem.Token()
			}
			continue
		}
		switch {
		case !closing.IsZero():
			body = elem.Node()
		case len(semis) < len(parts):
			parts[len(semis)] = elem.Node()
		}
	}
	if open.IsZero() || closing.IsZero() || len(semis) != 2 {
		return nil, format.MissingChild(node, "for header")
	}
	tail, err := clauseBody(f, node, body)
	if err != nil {
		return nil, err
	}

	header := []format.Token{f.Token(open), f.Node(parts[0])}
	for i, semi := range semis {
		header = append(header, f.Token(semi))
		if part := parts[i+1]; !part.IsZero() {
			header = append(header, format.Space(), f.Node(part))
		}
	}
	header = append(header, f.Token(closing))
	return format.Concat(
		f.Token(node.FirstToken()), format.Space(),
		format.Concat(header...), tail,
	), nil
}

// formatForIn formats for-in and for-of loops.
func formatForIn(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	var out []format.Token
	var body rowan.SyntaxNode
	var inHeader bool
	for elem := range node.ChildrenWithTokens() {
		if elem.IsNode() {
			if !inHeader {
				body = elem.Node()
				continue
			}
			out = append(out, f.Node(elem.Node()))
			continue
		}
		tok := elem.Token()
		switch syntax.TokenKind(tok) {
		case syntax.ForKw:
			out = append(out, f.Token(tok), format.Space())
		case syntax.LParen:
			inHeader = true
			out = append(out, f.Token(tok))
		case syntax.RParen:
			inHeader = false
			out = append(out, f.Token(tok))
		default:
			// in or of
			out = append(out, format.Space(), f.Token(tok), format.Space())
		}
	}
	tail, err := clauseBody(f, node, body)
	if err != nil {
		return nil, err
	}
	return format.Concat(append(out, tail)...), nil
}

func formatSwitch(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	head, err := keywordHead(f, node)
	if err != nil {
		return nil, err
	}
	body, err := braced(f, node, f.Node(child(node, syntax.SwitchCaseList)))
	if err != nil {
		return nil, err
	}
	return format.Concat(head, format.Space(), body), nil
}

// formatCase formats case and default clauses. A body that is a single block
// stays on the clause's line.
func formatCase(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	colon := token(node, syntax.Colon)
	list := child(node, syntax.StatementList)
	if colon.IsZero() || list.IsZero() {
		return nil, format.MissingChild(node, "clause body")
	}

	out := []format.Token{f.Token(node.FirstToken())}
	for c := range node.Children() {
		if syntax.KindOf(c) != syntax.StatementList {
			out = append(out, format.Space(), f.Node(c))
		}
	}
	out = append(out, f.Token(colon))

	stmts := childNodes(list, isStatement)
	switch {
	case len(stmts) == 1 && syntax.KindOf(stmts[0]) == syntax.BlockStatement:
		out = append(out, format.Space(), f.Node(list))
	case len(stmts) > 0:
		out = append(out, format.Indent(format.HardLine(), f.Node(list)))
	}
	return format.Concat(out...), nil
}

func formatTry(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	if child(node, syntax.CatchClause).IsZero() && child(node, syntax.FinallyClause).IsZero() {
		return nil, format.MissingChild(node, "catch or finally")
	}
	return formatWords(f, node)
}

func formatCatch(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	if child(node, syntax.BlockStatement).IsZero() {
		return nil, format.MissingChild(node, "body")
	}
	return formatWords(f, node)
}

func formatFinally(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	return formatCatch(f, node)
}

// formatJump formats break, continue, return and throw.
func formatJump(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	end := semicolon(f, node)
	var out []format.Token
	for elem := range node.ChildrenWithTokens() {
		switch {
		case elem.IsNode():
			out = append(out, f.Node(elem.Node()))
		case syntax.TokenKind(elem.Token()) != syntax.Semicolon:
			out = append(out, f.Token(elem.Token()))
		}
	}
	return format.Concat(format.Join(format.Space(), out...), end), nil
}

func formatLabeled(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	colon := token(node, syntax.Colon)
	stmt, err := required(f, node, node.FirstChild(), "body")
	if colon.IsZero() || err != nil {
		return nil, format.MissingChild(node, "body")
	}
	return format.Concat(f.Token(node.FirstToken()), f.Token(colon), format.Space(), stmt), nil
}

func formatExpressionStatement(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	end := semicolon(f, node)
	expr, err := required(f, node, node.FirstChild(), "expression")
	if err != nil {
		return nil, err
	}
	return format.Concat(expr, end), nil
}
