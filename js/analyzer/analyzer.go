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

// Package analyzer contains the lint rules for JavaScript, and the rename
// refactoring built on the semantic model.
package analyzer

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rome/tools-sub011/analyze"
	"github.com/rome/tools-sub011/js/controlflow"
	"github.com/rome/tools-sub011/js/semantic"
	"github.com/rome/tools-sub011/rowan"
)

// Rules returns every JavaScript lint rule.
//
// The registry is shared; callers must not register rules on it.
var Rules = sync.OnceValue(func() *analyze.Registry {
	return analyze.NewRegistry(
		noUnreachable{},
		noShadowRestrictedNames{},
		useConst{},
	)
})

// Analyze runs rules over the tree rooted at root.
//
// Rules can look up the tree's [*semantic.Model] with [analyze.Service],
// and are matched against the control flow graph of every function.
func Analyze(ctx context.Context, root rowan.SyntaxNode, rules []analyze.Rule) (*analyze.Result, error) {
	model := semantic.BuildContext(ctx, root)
	result, err := analyze.Analyze(ctx, root, rules, analyze.Options{
		Visitors: controlflow.NewRegistry(),
		Services: []any{model},
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().
		Int("rules", len(rules)).
		Int("diagnostics", len(result.Diagnostics)).
		Msg("analyzed module")
	return result, nil
}

// Fix runs rules over root and applies every fix they offer that does not
// overlap another. It returns the new root, and the diagnostics of the
// original tree.
func Fix(ctx context.Context, root rowan.SyntaxNode, rules []analyze.Rule) (rowan.SyntaxNode, *analyze.Result, error) {
	result, err := Analyze(ctx, root, rules)
	if err != nil {
		return root, nil, err
	}
	fixed, _, err := analyze.ApplyActions(ctx, root, result.Actions)
	if err != nil {
		return root, nil, err
	}
	return fixed, result, nil
}
