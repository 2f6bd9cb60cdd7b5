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
	"github.com/rome/tools-sub011/format"
	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

// separated formats a comma-separated list, with a line after each comma
// that becomes a space when the enclosing group is flat.
//
// A comma after the last element is replaced by trailing.
func separated(f *format.Formatter, list rowan.SyntaxNode, trailing format.Token) format.Token {
	var out []format.Token
	var elems int
	var last rowan.SyntaxToken // A comma with no element after it.
	for elem := range list.ChildrenWithTokens() {
		if elem.IsNode() {
			if !last.IsZero() {
				out = append(out, f.Token(last), format.SoftLineOrSpace())
				last = rowan.SyntaxToken{}
			}
			out = append(out, f.Node(elem.Node()))
			elems++
			continue
		}
		if !last.IsZero() {
			// A hole, as in `[a,,b]`.
			out = append(out, f.Token(last), format.SoftLineOrSpace())
		}
		last = elem.Token()
	}
	if elems > 0 {
		out = append(out, trailing)
	}
	if !last.IsZero() {
		out = append(out, comments(last))
	}
	return format.Concat(out...)
}

// formatCommaList formats argument, parameter, array and object lists. They
// get a trailing comma when broken over several lines.
func formatCommaList(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	return separated(f, node, format.IfBreak(format.Text(","))), nil
}

// delimiters returns the opening and closing tokens and the list of a
// bracketed construct.
func delimiters(node rowan.SyntaxNode) (open, closing rowan.SyntaxToken, list rowan.SyntaxNode) {
	for elem := range node.ChildrenWithTokens() {
		switch {
		case elem.IsNode() && elem.Node().IsList():
			list = elem.Node()
		case elem.IsToken() && open.IsZero():
			open = elem.Token()
		case elem.IsToken():
			closing = elem.Token()
		}
	}
	return open, closing, list
}

// huggable returns whether a lone argument can sit directly between the
// parentheses of a call, breaking on its own.
func huggable(node rowan.SyntaxNode) bool {
	switch syntax.KindOf(node) {
	case syntax.FunctionExpression, syntax.ArrowFunctionExpression,
		syntax.ObjectExpression, syntax.ArrayExpression:
		return true
	default:
		return false
	}
}

// formatDelimited formats arguments and arrays: a group that breaks with
// one element per line, unless a lone element can be hugged.
func formatDelimited(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	return delimited(f, node, true)
}

// formatParameters formats parameter lists. Parameters are never hugged.
func formatParameters(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	return delimited(f, node, false)
}

func delimited(f *format.Formatter, node rowan.SyntaxNode, hug bool) (format.Token, error) {
	open, closing, list := delimiters(node)
	if open.IsZero() || closing.IsZero() || list.IsZero() {
		return nil, format.MissingChild(node, "delimiters")
	}

	elems := childNodes(list, func(syntax.Kind) bool { return true })
	switch {
	case len(elems) == 0 && list.FirstToken().IsZero():
		return format.Concat(f.Token(open), f.Token(closing)), nil
	case hug && len(elems) == 1 && huggable(elems[0]) && list.FirstToken().Equal(elems[0].FirstToken()) &&
		list.LastToken().Equal(elems[0].LastToken()):
		return format.Concat(f.Token(open), f.Node(elems[0]), f.Token(closing)), nil
	}

	return format.Group(
		f.Token(open),
		format.Indent(format.SoftLine(), f.Node(list)),
		format.SoftLine(),
		f.Token(closing),
	), nil
}

// formatObject formats object literals. An object written over several
// lines stays that way.
func formatObject(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	open, closing, list := delimiters(node)
	if open.IsZero() || closing.IsZero() || list.IsZero() {
		return nil, format.MissingChild(node, "braces")
	}
	first := list.FirstToken()
	if first.IsZero() {
		return format.Concat(f.Token(open), f.Token(closing)), nil
	}

	group := format.Group
	if first.LeadingTrivia().HasNewline() {
		group = format.GroupBreak
	}
	return group(
		f.Token(open),
		format.Indent(format.SoftLineOrSpace(), f.Node(list)),
		format.SoftLineOrSpace(),
		f.Token(closing),
	), nil
}

func formatPropertyObjectMember(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	colon := token(node, syntax.Colon)
	name := child(node, syntax.LiteralMemberName)
	var value rowan.SyntaxNode
	for c := range node.Children() {
		if !c.Equal(name) {
			value = c
		}
	}
	if colon.IsZero() || name.IsZero() || value.IsZero() {
		return nil, format.MissingChild(node, "property")
	}
	return format.Concat(f.Node(name), f.Token(colon), format.Space(), f.Node(value)), nil
}

// operands returns the operand nodes and the operator token of an
// expression with one operator.
func operands(node rowan.SyntaxNode) (left, right rowan.SyntaxNode, op rowan.SyntaxToken) {
	for elem := range node.ChildrenWithTokens() {
		switch {
		case elem.IsToken():
			op = elem.Token()
		case op.IsZero():
			left = elem.Node()
		default:
			right = elem.Node()
		}
	}
	return left, right, op
}

func formatAssignment(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	left, right, op := operands(node)
	if left.IsZero() || right.IsZero() || op.IsZero() {
		return nil, format.MissingChild(node, "operand")
	}
	return format.Concat(f.Node(left), format.Space(), f.Token(op), format.Space(), f.Node(right)), nil
}

// formatBinary formats binary and logical expressions, breaking after the
// operator.
func formatBinary(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	left, right, op := operands(node)
	if left.IsZero() || right.IsZero() || op.IsZero() {
		return nil, format.MissingChild(node, "operand")
	}
	return format.Group(
		f.Node(left), format.Space(), f.Token(op),
		format.Indent(format.SoftLineOrSpace(), f.Node(right)),
	), nil
}

func formatConditional(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	question, colon := token(node, syntax.Question), token(node, syntax.Colon)
	parts := childNodes(node, func(syntax.Kind) bool { return true })
	if question.IsZero() || colon.IsZero() || len(parts) != 3 {
		return nil, format.MissingChild(node, "branch")
	}
	return format.Group(
		f.Node(parts[0]),
		format.Indent(
			format.SoftLineOrSpace(), f.Token(question), format.Space(), f.Node(parts[1]),
			format.SoftLineOrSpace(), f.Token(colon), format.Space(), f.Node(parts[2]),
		),
	), nil
}

func formatUnary(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	op := node.FirstToken()
	operand, err := required(f, node, node.FirstChild(), "operand")
	if err != nil {
		return nil, err
	}

	var space bool
	switch kind := syntax.TokenKind(op); kind {
	case syntax.Plus, syntax.Minus:
		// Keep `- -a` and `+ +a` from turning into decrements.
		next := syntax.TokenKind(node.FirstChild().FirstToken())
		space = next == kind || next == syntax.Plus2 && kind == syntax.Plus ||
			next == syntax.Minus2 && kind == syntax.Minus
	default:
		space = kind.IsKeyword()
	}
	if space {
		return format.Concat(f.Token(op), format.Space(), operand), nil
	}
	return format.Concat(f.Token(op), operand), nil
}

func formatNew(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	rest := []format.Token{f.Token(node.FirstToken()), format.Space()}
	for c := range node.Children() {
		rest = append(rest, f.Node(c))
	}
	if len(rest) == 2 {
		return nil, format.MissingChild(node, "callee")
	}
	return format.Concat(rest...), nil
}

func formatArrow(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	arrow := token(node, syntax.FatArrow)
	parts := childNodes(node, func(syntax.Kind) bool { return true })
	if arrow.IsZero() || len(parts) != 2 {
		return nil, format.MissingChild(node, "arrow function part")
	}
	return format.Concat(
		f.Node(parts[0]), format.Space(), f.Token(arrow), format.Space(), f.Node(parts[1]),
	), nil
}
