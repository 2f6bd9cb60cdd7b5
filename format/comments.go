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

package format

import "github.com/rome/tools-sub011/rowan"

// LeadingComments returns the comments in the leading trivia of tok.
//
// A comment followed by a line break in the source is followed by a hard
// line, or by an empty line if a blank line followed it; otherwise it is
// followed by a space.
func LeadingComments(tok rowan.SyntaxToken) Token {
	if tok.IsZero() || !tok.HasLeadingComments() {
		return Empty()
	}

	var out []Token
	var newlines int
	var pending, lineComment bool
	flush := func() {
		if !pending {
			return
		}
		if lineComment {
			newlines = max(newlines, 1)
		}
		switch {
		case newlines > 1:
			out = append(out, EmptyLine())
		case newlines == 1:
			out = append(out, HardLine())
		default:
			out = append(out, Space())
		}
		pending = false
	}

	for p := range tok.LeadingTrivia().Pieces() {
		switch {
		case p.Kind.IsComment():
			flush()
			out = append(out, source(p.Text, p.Range, false))
			pending, newlines = true, 0
			lineComment = p.Kind == rowan.TriviaSingleLineComment
		case p.Kind.IsNewline():
			newlines++
		}
	}
	flush()
	return Concat(out...)
}

// TrailingComments returns the comments in the trailing trivia of tok, each
// preceded by a space. A line comment is followed by a hard line, since
// nothing may follow it on the same line.
func TrailingComments(tok rowan.SyntaxToken) Token {
	if tok.IsZero() || !tok.HasTrailingComments() {
		return Empty()
	}

	var out []Token
	for p := range tok.TrailingTrivia().Pieces() {
		if !p.Kind.IsComment() {
			continue
		}
		out = append(out, Space(), source(p.Text, p.Range, false))
		if p.Kind == rowan.TriviaSingleLineComment {
			out = append(out, HardLine())
		}
	}
	return Concat(out...)
}
