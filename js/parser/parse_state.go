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
	"fmt"

	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

// parser holds the state of a parse in progress.
type parser struct {
	text   string
	tokens []token
	pos    int
	sink   *rowan.LosslessTreeSink
}

// peek returns the kind of the current token.
func (p *parser) peek() syntax.Kind {
	return p.tokens[p.pos].kind
}

// nth returns the kind of the token n tokens ahead.
func (p *parser) nth(n int) syntax.Kind {
	if p.pos+n >= len(p.tokens) {
		return syntax.EOF
	}
	return p.tokens[p.pos+n].kind
}

// at returns whether the current token is of any of the given kinds.
func (p *parser) at(kinds ...syntax.Kind) bool {
	k := p.peek()
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// atContextual returns whether the current token is an identifier with the
// given text.
func (p *parser) atContextual(word string) bool {
	return p.peek() == syntax.Ident && p.tokenText() == word
}

// atName returns whether the current token can be used as a property name.
func (p *parser) atName() bool {
	return isName(p.peek())
}

func isName(k syntax.Kind) bool {
	return k == syntax.Ident || k == syntax.String || k == syntax.Number || k.IsKeyword()
}

// tokenText returns the text of the current token.
func (p *parser) tokenText() string {
	return p.tokens[p.pos].rng.Slice(p.text)
}

// newlineBefore returns whether a line break precedes the current token.
func (p *parser) newlineBefore() bool {
	return p.tokens[p.pos].newlineBefore
}

// bump adds the current token to the tree and advances.
func (p *parser) bump() {
	tok := p.tokens[p.pos]
	if tok.kind == syntax.EOF {
		panic("js/parser: bumped past the end of the file")
	}
	p.sink.Token(tok.kind.Raw(), tok.rng.End)
	p.pos++
}

// eat bumps the current token if it is of the given kind.
func (p *parser) eat(kind syntax.Kind) bool {
	if !p.at(kind) {
		return false
	}
	p.bump()
	return true
}

// expect is like eat, but records an error if the token is not present.
func (p *parser) expect(kind syntax.Kind) bool {
	if p.eat(kind) {
		return true
	}
	p.errorf("expected %s but found %s", describe(kind), p.describeCurrent())
	return false
}

func (p *parser) start(kind syntax.Kind) {
	p.sink.StartNode(kind.Raw())
}

func (p *parser) finish() {
	p.sink.FinishNode()
}

func (p *parser) checkpoint() rowan.Checkpoint {
	return p.sink.Checkpoint()
}

// wrap wraps everything added since cp into a node of the given kind.
func (p *parser) wrap(cp rowan.Checkpoint, kind syntax.Kind) {
	p.sink.StartNodeAt(cp, kind.Raw())
	p.sink.FinishNode()
}

// errorf records an error at the current token.
func (p *parser) errorf(format string, args ...any) {
	p.sink.Errors(rowan.ParseError{
		Range:   p.tokens[p.pos].rng,
		Message: fmt.Sprintf(format, args...),
	})
}

// bogus records an error and wraps the current token in a bogus node of the
// given kind.
func (p *parser) bogus(kind syntax.Kind, format string, args ...any) {
	p.errorf(format, args...)
	p.start(kind)
	p.bump()
	p.finish()
}

func (p *parser) describeCurrent() string {
	if p.at(syntax.EOF) {
		return "end of file"
	}
	return fmt.Sprintf("`%s`", p.tokenText())
}

func describe(kind syntax.Kind) string {
	switch kind {
	case syntax.Ident:
		return "an identifier"
	case syntax.EOF:
		return "end of file"
	}
	for _, p := range puncts {
		if p.kind == kind {
			return fmt.Sprintf("`%s`", p.text)
		}
	}
	return kind.String()
}

// mustProgress returns a function that panics if the parser has not advanced
// since the last time it was called. Loops that might not consume input use
// it to guard against hangs.
func (p *parser) mustProgress() func() {
	last := -1
	return func() {
		if p.pos == last {
			panic(fmt.Sprintf("js/parser: no progress at token %d (%v)", p.pos, p.peek()))
		}
		last = p.pos
	}
}
