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

// Package formatter formats JavaScript trees.
//
// Every node kind has a rule that lowers it to [format.Token]s; the result is
// laid out by [printer.Print]. Comments are kept, attached to the tokens
// whose trivia they were found in. Nodes that do not parse cleanly are
// printed as they appear in the source.
package formatter

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rome/tools-sub011/format"
	"github.com/rome/tools-sub011/internal/metrics"
	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/printer"
	"github.com/rome/tools-sub011/rowan"
)

// Registry returns the JavaScript formatting rules.
//
// The registry is shared; callers must not register rules on it.
var Registry = sync.OnceValue(func() *format.Registry {
	r := format.NewRegistry()
	for kind, rule := range rules {
		r.Register(kind.Raw(), rule)
	}
	return r
})

var rules = map[syntax.Kind]format.Rule{
	syntax.Module:        formatModule,
	syntax.StatementList: formatLines,

	syntax.FunctionDeclaration:    formatFunction,
	syntax.FunctionExpression:     formatFunction,
	syntax.ClassDeclaration:       formatClass,
	syntax.VariableStatement:      formatVariableStatement,
	syntax.VariableDeclaration:    formatVariableDeclaration,
	syntax.VariableDeclaratorList: formatDeclaratorList,
	syntax.VariableDeclarator:     formatSequence,
	syntax.Initializer:            formatInitializer,
	syntax.IfStatement:            formatIf,
	syntax.ElseClause:             formatElse,
	syntax.WhileStatement:         formatWhile,
	syntax.DoWhileStatement:       formatDoWhile,
	syntax.ForStatement:           formatFor,
	syntax.ForInStatement:         formatForIn,
	syntax.ForOfStatement:         formatForIn,
	syntax.SwitchStatement:        formatSwitch,
	syntax.SwitchCaseList:         formatLines,
	syntax.CaseClause:             formatCase,
	syntax.DefaultClause:          formatCase,
	syntax.TryStatement:           formatTry,
	syntax.CatchClause:            formatCatch,
	syntax.CatchDeclaration:       formatSequence,
	syntax.FinallyClause:          formatFinally,
	syntax.BreakStatement:         formatJump,
	syntax.ContinueStatement:      formatJump,
	syntax.ReturnStatement:        formatJump,
	syntax.ThrowStatement:         formatJump,
	syntax.LabeledStatement:       formatLabeled,
	syntax.BlockStatement:         formatBlock,
	syntax.ExpressionStatement:    formatExpressionStatement,
	syntax.EmptyStatement:         formatSequence,

	syntax.IdentifierBinding: formatSequence,
	syntax.Parameters:        formatParameters,
	syntax.ParameterList:     formatCommaList,
	syntax.FunctionBody:      formatBlock,
	syntax.ClassMemberList:   formatLines,
	syntax.ConstructorMember: formatMethod,
	syntax.MethodMember:      formatMethod,
	syntax.GetterMember:      formatMethod,
	syntax.SetterMember:      formatMethod,
	syntax.PropertyMember:    formatPropertyMember,
	syntax.LiteralMemberName: formatSequence,

	syntax.IdentifierExpression:          formatSequence,
	syntax.NumberLiteralExpression:       formatSequence,
	syntax.StringLiteralExpression:       formatSequence,
	syntax.BooleanLiteralExpression:      formatSequence,
	syntax.NullLiteralExpression:         formatSequence,
	syntax.ThisExpression:                formatSequence,
	syntax.ShorthandPropertyObjectMember: formatSequence,
	syntax.AssignmentExpression:          formatAssignment,
	syntax.BinaryExpression:              formatBinary,
	syntax.LogicalExpression:             formatBinary,
	syntax.ConditionalExpression:         formatConditional,
	syntax.UnaryExpression:               formatUnary,
	syntax.PrefixUpdateExpression:        formatSequence,
	syntax.PostfixUpdateExpression:       formatSequence,
	syntax.CallExpression:                formatSequence,
	syntax.CallArguments:                 formatDelimited,
	syntax.ArgumentList:                  formatCommaList,
	syntax.NewExpression:                 formatNew,
	syntax.StaticMemberExpression:        formatSequence,
	syntax.ComputedMemberExpression:      formatSequence,
	syntax.ParenthesizedExpression:       formatSequence,
	syntax.ArrayExpression:               formatDelimited,
	syntax.ArrayElementList:              formatCommaList,
	syntax.ObjectExpression:              formatObject,
	syntax.ObjectMemberList:              formatCommaList,
	syntax.PropertyObjectMember:          formatPropertyObjectMember,
	syntax.ArrowFunctionExpression:       formatArrow,
}

// Format formats the tree rooted at root.
//
// The logger and metrics registry are taken from ctx, if present.
func Format(ctx context.Context, root rowan.SyntaxNode, options printer.Options) (printer.Printed, error) {
	defer metrics.FromContext(ctx).Time("format")()

	formatted, err := Registry().Format(ctx, root)
	if err != nil {
		return printer.Printed{}, err
	}
	printed := printer.Print(options, formatted.Root)

	zerolog.Ctx(ctx).Debug().
		Int("bytes", len(printed.Code)).
		Int("verbatim", len(formatted.Verbatim)).
		Msg("formatted module")
	return printed, nil
}

// token returns the first child token of node with the given kind.
func token(node rowan.SyntaxNode, kind syntax.Kind) rowan.SyntaxToken {
	for elem := range node.ChildrenWithTokens() {
		if elem.IsToken() && syntax.TokenKind(elem.Token()) == kind {
			return elem.Token()
		}
	}
	return rowan.SyntaxToken{}
}

// child returns the first child node of node with the given kind.
func child(node rowan.SyntaxNode, kind syntax.Kind) rowan.SyntaxNode {
	for c := range node.Children() {
		if syntax.KindOf(c) == kind {
			return c
		}
	}
	return rowan.SyntaxNode{}
}

// childNodes returns the child nodes of node that satisfy keep.
func childNodes(node rowan.SyntaxNode, keep func(syntax.Kind) bool) []rowan.SyntaxNode {
	var out []rowan.SyntaxNode
	for c := range node.Children() {
		if keep(syntax.KindOf(c)) {
			out = append(out, c)
		}
	}
	return out
}

func isStatement(k syntax.Kind) bool { return k.IsStatement() }

// comments returns the comments around a token that is not printed.
func comments(tok rowan.SyntaxToken) format.Token {
	return format.Concat(format.LeadingComments(tok), format.TrailingComments(tok))
}

// lineBefore returns the line break that separates tok from what precedes
// it: a blank line if there was one in the source, a single line otherwise.
func lineBefore(tok rowan.SyntaxToken) format.Token {
	var newlines int
	for p := range tok.LeadingTrivia().Pieces() {
		if p.Kind.IsComment() {
			break
		}
		if p.Kind.IsNewline() {
			newlines++
		}
	}
	if newlines > 1 {
		return format.EmptyLine()
	}
	return format.HardLine()
}

// required formats a child node that must be present.
func required(f *format.Formatter, parent, node rowan.SyntaxNode, what string) (format.Token, error) {
	if node.IsZero() {
		return nil, format.MissingChild(parent, what)
	}
	return f.Node(node), nil
}

// requiredToken formats a child token that must be present.
func requiredToken(f *format.Formatter, parent rowan.SyntaxNode, kind syntax.Kind) (format.Token, error) {
	tok := token(parent, kind)
	if tok.IsZero() {
		return nil, format.MissingChild(parent, kind.String())
	}
	return f.Token(tok), nil
}

// semicolon formats the terminator of a statement, adding one if it was
// left to automatic insertion. An added semicolon goes before the comments
// trailing the statement, so it must be formatted before the rest of node.
//
// Nothing is added after invalid syntax, which would change its meaning.
func semicolon(f *format.Formatter, node rowan.SyntaxNode) format.Token {
	if tok := token(node, syntax.Semicolon); !tok.IsZero() {
		return f.Token(tok)
	}
	last := node.LastToken()
	if last.IsZero() || invalidEnd(node, last) {
		return format.Empty()
	}
	return format.Concat(format.Text(";"), f.TakeTrailingComments(last))
}

// invalidEnd returns whether node ends in something the parser could not
// make sense of.
func invalidEnd(node rowan.SyntaxNode, last rowan.SyntaxToken) bool {
	switch syntax.TokenKind(last) {
	case syntax.ErrorToken:
		return true
	case syntax.String:
		if unterminated(last.TextTrimmed()) {
			return true
		}
	}
	for n := range last.Ancestors() {
		if n.IsBogus() {
			return true
		}
		if n.Equal(node) {
			break
		}
	}
	return false
}

// unterminated returns whether a string literal is missing its closing
// quote.
func unterminated(text string) bool {
	if len(text) < 2 || text[len(text)-1] != text[0] {
		return true
	}
	var escapes int
	for i := len(text) - 2; i > 0 && text[i] == '\\'; i-- {
		escapes++
	}
	return escapes%2 == 1
}

// formatSequence prints the children of node one after the other, with no
// space in between except for the space keyword tokens need.
func formatSequence(f *format.Formatter, node rowan.SyntaxNode) (format.Token, error) {
	var out []format.Token
	var prevWord bool
	for elem := range node.ChildrenWithTokens() {
		var tok format.Token
		var word bool
		if elem.IsNode() {
			tok = f.Node(elem.Node())
		} else {
			kind := syntax.TokenKind(elem.Token())
			tok = f.Token(elem.Token())
			word = kind.IsKeyword() || kind == syntax.Ident
		}
		if prevWord && (word || elem.IsNode() && startsWithWord(elem.Node())) {
			out = append(out, format.Space())
		}
		out = append(out, tok)
		prevWord = word || elem.IsNode() && endsWithWord(elem.Node())
	}
	return format.Concat(out...), nil
}

func startsWithWord(node rowan.SyntaxNode) bool {
	kind := syntax.TokenKind(node.FirstToken())
	return kind.IsKeyword() || kind == syntax.Ident || kind == syntax.Number
}

func endsWithWord(node rowan.SyntaxNode) bool {
	kind := syntax.TokenKind(node.LastToken())
	return kind.IsKeyword() || kind == syntax.Ident || kind == syntax.Number
}
