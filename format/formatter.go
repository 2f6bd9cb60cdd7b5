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

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/rome/tools-sub011/rowan"
)

// ErrMissingChild is returned by formatting rules when a node lacks a child
// the rule requires. The node is then printed verbatim.
var ErrMissingChild = errors.New("format: missing required child")

// MissingChild returns an error wrapping [ErrMissingChild] for a child of
// parent described by what.
func MissingChild(parent rowan.SyntaxNode, what string) error {
	return fmt.Errorf("%w: %s in %s at %v", ErrMissingChild, what, parent.KindName(), parent.TextRange())
}

// Rule formats one kind of node.
type Rule func(f *Formatter, node rowan.SyntaxNode) (Token, error)

// Registry maps node kinds to the rules that format them.
//
// A Registry must not be modified once formatting has started; after that it
// may be used from many goroutines.
type Registry struct {
	rules map[rowan.RawSyntaxKind]Rule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[rowan.RawSyntaxKind]Rule)}
}

// Register sets the rule for kind, replacing any previous one.
func (r *Registry) Register(kind rowan.RawSyntaxKind, rule Rule) {
	r.rules[kind] = rule
}

// Formatted is the result of formatting a tree.
type Formatted struct {
	Root Token

	// Source ranges of nodes that were printed verbatim, because they were
	// bogus, had no rule, or their rule failed.
	Verbatim []rowan.TextRange
}

// Format formats the tree rooted at root.
//
// Nodes that cannot be formatted are printed verbatim rather than failing
// the whole tree. An error is returned only if ctx expires or a rule fails
// with something other than [ErrMissingChild].
func (r *Registry) Format(ctx context.Context, root rowan.SyntaxNode) (*Formatted, error) {
	f := &Formatter{ctx: ctx, registry: r}
	token := f.Node(root)
	if f.err != nil {
		return nil, f.err
	}
	return &Formatted{Root: token, Verbatim: f.verbatim}, nil
}

// Formatter is the state of a single call to [Registry.Format]. Rules use
// it to format their children.
type Formatter struct {
	ctx      context.Context
	registry *Registry

	verbatim []rowan.TextRange
	taken    []rowan.TextRange // Tokens whose trailing comments a rule moved.
	err      error
}

// Context returns the context formatting was started with.
func (f *Formatter) Context() context.Context {
	return f.ctx
}

// Node formats node with the rule registered for its kind.
func (f *Formatter) Node(node rowan.SyntaxNode) Token {
	if node.IsZero() || f.err != nil {
		return Empty()
	}
	if err := f.ctx.Err(); err != nil {
		f.err = err
		return Empty()
	}

	log := zerolog.Ctx(f.ctx)
	rule := f.registry.rules[node.Kind()]
	switch {
	case node.IsBogus():
		log.Debug().Str("kind", node.KindName()).Stringer("range", node.TextRange()).Msg("bogus node printed verbatim")
		return f.Verbatim(node)
	case rule == nil:
		log.Debug().Str("kind", node.KindName()).Msg("no formatting rule, printing verbatim")
		return f.Verbatim(node)
	}

	taken := len(f.taken)
	token, err := rule(f, node)
	if err != nil {
		// The verbatim node prints the comments the rule moved.
		f.taken = f.taken[:taken]
		if !errors.Is(err, ErrMissingChild) && f.err == nil {
			f.err = fmt.Errorf("formatting %s at %v: %w", node.KindName(), node.TextRange(), err)
		}
		log.Debug().Err(err).Msg("formatting rule failed, printing verbatim")
		return f.Verbatim(node)
	}
	return token
}

// Verbatim prints node as it appears in the source, along with the comments
// around it.
func (f *Formatter) Verbatim(node rowan.SyntaxNode) Token {
	rng := node.TextTrimmedRange()
	if !rng.IsEmpty() {
		f.verbatim = append(f.verbatim, rng)
	}
	return Concat(
		LeadingComments(node.FirstToken()),
		Verbatim(node),
		f.trailingComments(node.LastToken()),
	)
}

// Token prints tok along with the comments in its trivia.
func (f *Formatter) Token(tok rowan.SyntaxToken) Token {
	if tok.IsZero() {
		return Empty()
	}
	return Concat(LeadingComments(tok), SyntaxToken(tok), f.trailingComments(tok))
}

// TakeTrailingComments returns the comments trailing tok, which will then
// not be printed along with tok. It must be called before tok is formatted.
func (f *Formatter) TakeTrailingComments(tok rowan.SyntaxToken) Token {
	if tok.IsZero() || !tok.HasTrailingComments() {
		return Empty()
	}
	f.taken = append(f.taken, tok.TextRange())
	return TrailingComments(tok)
}

func (f *Formatter) trailingComments(tok rowan.SyntaxToken) Token {
	if !tok.IsZero() && slices.Contains(f.taken, tok.TextRange()) {
		return Empty()
	}
	return TrailingComments(tok)
}
