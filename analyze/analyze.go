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

// Package analyze runs lint rules over syntax trees.
//
// A single traversal of the tree produces signals: a [NodeMatch] for every
// node some rule asked for, plus whatever the registered visitors emit, such
// as a [ControlFlowGraphMatch] per function. Each rule is then run on the
// signals its [Query] selects. Rules only read the tree; fixes are returned
// as [rowan.BatchMutation] values that the caller may apply with
// [ApplyActions].
package analyze

import (
	"cmp"
	"context"
	"runtime"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rome/tools-sub011/internal/metrics"
	"github.com/rome/tools-sub011/rowan"
)

// Options configures [Analyze].
type Options struct {
	// Visitors that emit additional signals during the traversal. May be nil.
	Visitors *VisitorRegistry

	// Values made available to rules through [Service].
	Services []any

	// The maximum number of rules to run at once. Zero means GOMAXPROCS.
	Concurrency int
}

// Result is the outcome of [Analyze].
type Result struct {
	// Diagnostics, sorted by range and then by rule name.
	Diagnostics []*Diagnostic
	// Fixes offered for the diagnostics, in the same order.
	Actions []Action
}

// Action is a fix offered by a rule.
type Action struct {
	Rule     string
	Range    rowan.TextRange
	Mutation *rowan.BatchMutation
}

type servicesKey struct{}

// WithServices returns a context that makes the given values available to
// [Service].
func WithServices(ctx context.Context, services ...any) context.Context {
	if len(services) == 0 {
		return ctx
	}
	prev, _ := ctx.Value(servicesKey{}).([]any)
	return context.WithValue(ctx, servicesKey{}, append(slices.Clone(prev), services...))
}

// Service returns the most recently added service of type T available to a
// rule.
func Service[T any](ctx context.Context) (T, bool) {
	services, _ := ctx.Value(servicesKey{}).([]any)
	for _, s := range slices.Backward(services) {
		if v, ok := s.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Analyze runs rules over the tree rooted at root.
//
// The only error Analyze returns is that of ctx, if it is cancelled.
func Analyze(ctx context.Context, root rowan.SyntaxNode, rules []Rule, opts Options) (*Result, error) {
	defer metrics.FromContext(ctx).Time("analyze")()
	log := zerolog.Ctx(ctx)
	ctx = WithServices(ctx, opts.Services...)

	nodeKinds := make(map[rowan.RawSyntaxKind]bool)
	for _, rule := range rules {
		for _, kind := range rule.Query().Kinds {
			nodeKinds[kind] = true
		}
	}

	signals, err := opts.Visitors.Walk(ctx, root, nodeKinds)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("rules", len(rules)).Int("signals", len(signals)).Msg("collected signals")

	type ruleResult struct {
		diagnostics []*Diagnostic
		actions     []Action
	}
	results := make([]ruleResult, len(rules))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cmp.Or(opts.Concurrency, runtime.GOMAXPROCS(0)))
	for i, rule := range rules {
		g.Go(func() error {
			defer metrics.FromContext(ctx).Time("rule/" + rule.Name())()
			start := time.Now()

			out := &results[i]
			query := rule.Query()
			for _, signal := range signals {
				if err := ctx.Err(); err != nil {
					return err
				}
				if !query.Matches(signal) {
					continue
				}

				d := rule.Run(ctx, signal)
				if d == nil {
					continue
				}
				d.Rule = rule.Name()
				out.diagnostics = append(out.diagnostics, d)

				if m := rule.Action(ctx, signal); m != nil && !m.IsEmpty() {
					out.actions = append(out.actions, Action{Rule: d.Rule, Range: d.Range, Mutation: m})
				}
			}

			log.Debug().
				Str("rule", rule.Name()).
				Int("diagnostics", len(out.diagnostics)).
				Dur("elapsed", time.Since(start)).
				Msg("ran rule")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := new(Result)
	for _, r := range results {
		result.Diagnostics = append(result.Diagnostics, r.diagnostics...)
		result.Actions = append(result.Actions, r.actions...)
	}
	slices.SortStableFunc(result.Diagnostics, func(a, b *Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Range.Start, b.Range.Start),
			cmp.Compare(a.Range.End, b.Range.End),
			cmp.Compare(a.Rule, b.Rule),
		)
	})
	slices.SortStableFunc(result.Actions, func(a, b Action) int {
		return cmp.Or(
			cmp.Compare(a.Range.Start, b.Range.Start),
			cmp.Compare(a.Range.End, b.Range.End),
			cmp.Compare(a.Rule, b.Rule),
		)
	})
	return result, nil
}
