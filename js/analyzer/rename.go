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
	"unicode"

	"github.com/rome/tools-sub011/js/semantic"
	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

// RenameNodeDeclaration queues, in mutation, the edits that rename binding
// and every reference to it to newName.
//
// The rename is all or nothing. It is rejected, and nothing is queued, if
// newName is not an identifier, if it is already declared in a scope the
// declaration shares, or if renaming would change what any name in the
// program resolves to:
//
//   - newName is declared in any scope enclosing a reference to binding,
//     even after the reference or outside of binding's scope;
//   - an existing reference to newName would be captured by the renamed
//     binding.
//
// A shorthand object member such as `{ a }` is expanded to `{ a: b }` so
// that the property name is unchanged.
func RenameNodeDeclaration(model *semantic.Model, mutation *rowan.BatchMutation, binding *semantic.Binding, newName string) bool {
	if newName == binding.Name {
		return true
	}
	if !isIdentifier(newName) {
		return false
	}

	target := binding.Scope.HoistingTarget()
	for scope := range binding.Scope.Ancestors() {
		if _, ok := scope.Get(newName); ok {
			return false
		}
		if scope == target {
			break
		}
	}

	for _, ref := range binding.References {
		for scope := range ref.Scope.Ancestors() {
			if _, ok := scope.Get(newName); ok {
				return false
			}
		}
	}

	if captures(model, binding, newName) {
		return false
	}

	name := rowan.NewGreenToken(syntax.Ident.Raw(), newName)
	for _, decl := range binding.Declarations {
		mutation.ReplaceTokenTransferTrivia(decl.FirstToken(), name)
	}
	for _, ref := range binding.References {
		if ref.IsShorthand() {
			mutation.ReplaceNode(ref.Node, expandShorthand(ref.Token(), newName))
			continue
		}
		mutation.ReplaceTokenTransferTrivia(ref.Token(), name)
	}
	return true
}

// captures returns whether some reference to newName, which today resolves
// outside of binding's scope or not at all, lies within binding's scope and
// so would resolve to binding once it is renamed.
func captures(model *semantic.Model, binding *semantic.Binding, newName string) bool {
	for node := range model.Root().Descendants() {
		switch syntax.KindOf(node) {
		case syntax.IdentifierExpression, syntax.ShorthandPropertyObjectMember:
		default:
			continue
		}
		ref, ok := model.Reference(node)
		if !ok || ref.Token().TextTrimmed() != newName {
			continue
		}
		for scope := range ref.Scope.Ancestors() {
			if ref.Binding != nil && scope == ref.Binding.Scope {
				break
			}
			if scope == binding.Scope {
				return true
			}
		}
	}
	return false
}

// expandShorthand builds `name: newName` from the token of a shorthand
// member, keeping its trivia on the outside.
func expandShorthand(tok rowan.SyntaxToken, newName string) *rowan.GreenNode {
	green := tok.Green()
	key := green.WithTrailingTrivia("", rowan.GreenTrivia{})
	colon := rowan.NewGreenTokenWithTrivia(syntax.Colon.Raw(), ": ",
		rowan.GreenTrivia{},
		rowan.NewGreenTrivia(rowan.TriviaPiece{Kind: rowan.TriviaWhitespace, Length: 1}))
	value := rowan.NewGreenToken(syntax.Ident.Raw(), newName).
		WithTrailingTrivia(green.TextTrailingTrivia(), green.TrailingTrivia())

	return rowan.NewGreenNode(syntax.PropertyObjectMember.Raw(),
		rowan.NodeElement(rowan.NewGreenNode(syntax.LiteralMemberName.Raw(), rowan.TokenElement(key))),
		rowan.TokenElement(colon),
		rowan.NodeElement(rowan.NewGreenNode(syntax.IdentifierExpression.Raw(), rowan.TokenElement(value))),
	)
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := syntax.Keyword(name); ok {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
