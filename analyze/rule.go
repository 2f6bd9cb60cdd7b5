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

package analyze

import (
	"context"
	"fmt"
	"slices"

	"github.com/rome/tools-sub011/cfg"
	"github.com/rome/tools-sub011/rowan"
)

// QueryMatch is a signal a [Rule] is run on: either a syntax node or a
// control flow graph built by a visitor.
type QueryMatch interface {
	// Range returns the text range this match covers.
	Range() rowan.TextRange

	isQueryMatch()
}

// NodeMatch is a [QueryMatch] for a single syntax node.
type NodeMatch struct {
	Node rowan.SyntaxNode
}

// ControlFlowGraphMatch is a [QueryMatch] for the control flow graph of a
// function.
type ControlFlowGraphMatch struct {
	Graph *cfg.ControlFlowGraph
}

// Range implements [QueryMatch].
func (m NodeMatch) Range() rowan.TextRange { return m.Node.TextTrimmedRange() }

// Range implements [QueryMatch].
func (m ControlFlowGraphMatch) Range() rowan.TextRange { return m.Graph.Node.TextTrimmedRange() }

func (NodeMatch) isQueryMatch()             {}
func (ControlFlowGraphMatch) isQueryMatch() {}

// Query selects the matches that a rule is run on.
type Query struct {
	// Node kinds whose nodes are matched.
	Kinds []rowan.RawSyntaxKind
	// Whether control flow graphs are matched.
	ControlFlow bool
}

// NodeQuery returns a query matching nodes of the given kinds.
func NodeQuery(kinds ...rowan.RawSyntaxKind) Query {
	return Query{Kinds: kinds}
}

// ControlFlowQuery returns a query matching every control flow graph.
func ControlFlowQuery() Query {
	return Query{ControlFlow: true}
}

// Matches returns whether m is selected by this query.
func (q Query) Matches(m QueryMatch) bool {
	switch m := m.(type) {
	case NodeMatch:
		return slices.Contains(q.Kinds, m.Node.Kind())
	case ControlFlowGraphMatch:
		return q.ControlFlow
	default:
		return false
	}
}

// Rule is a single lint rule.
//
// Rules must be safe to call from multiple goroutines; [Analyze] runs
// different rules concurrently on the same immutable tree.
type Rule interface {
	// Name returns the rule's unique name, such as "noUnreachable".
	Name() string

	// Query returns the matches this rule is run on.
	Query() Query

	// Run checks a single match, returning nil if there is nothing to report.
	Run(ctx context.Context, match QueryMatch) *Diagnostic

	// Action returns a fix for a match that Run reported on, or nil if the
	// rule cannot fix it.
	Action(ctx context.Context, match QueryMatch) *rowan.BatchMutation
}

// Registry is a collection of rules, indexed by name.
type Registry struct {
	rules  []Rule
	byName map[string]int
}

// NewRegistry returns a registry containing the given rules.
func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{byName: make(map[string]int)}
	for _, rule := range rules {
		r.Register(rule)
	}
	return r
}

// Register adds a rule to this registry.
//
// Panics if a rule with the same name is already registered.
func (r *Registry) Register(rule Rule) {
	name := rule.Name()
	if _, ok := r.byName[name]; ok {
		panic(fmt.Sprintf("analyze: rule %q registered twice", name))
	}
	r.byName[name] = len(r.rules)
	r.rules = append(r.rules, rule)
}

// Get looks up a rule by name.
func (r *Registry) Get(name string) (Rule, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.rules[idx], true
}

// Rules returns every rule, in registration order.
func (r *Registry) Rules() []Rule {
	return slices.Clone(r.rules)
}

// Names returns the name of every rule, in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name()
	}
	return names
}

// Select returns the rules for which enabled returns true, in registration
// order.
func (r *Registry) Select(enabled func(name string) bool) []Rule {
	var out []Rule
	for _, rule := range r.rules {
		if enabled(rule.Name()) {
			out = append(out, rule)
		}
	}
	return out
}
