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

	"github.com/rs/zerolog"

	"github.com/rome/tools-sub011/internal/interval"
	"github.com/rome/tools-sub011/rowan"
)

// ApplyActions commits as many of the given actions to root as possible.
//
// Actions are considered in order. An action is skipped if any of the ranges
// it edits overlaps a range edited by an action that was already accepted;
// the rest are merged into a single mutation and committed at once.
//
// Returns the new root and the actions that were applied. If no action is
// applied, root is returned unchanged.
func ApplyActions(ctx context.Context, root rowan.SyntaxNode, actions []Action) (rowan.SyntaxNode, []Action, error) {
	var (
		edited  interval.Set[rowan.TextSize, string]
		merged  *rowan.BatchMutation
		applied []Action
	)

actions:
	for _, action := range actions {
		ranges := action.Mutation.Ranges()
		for _, r := range ranges {
			lo, hi := bounds(r)
			for other := range edited.Overlapping(lo, hi) {
				zerolog.Ctx(ctx).Debug().
					Str("rule", action.Rule).
					Stringer("range", r).
					Str("conflict", other.Value).
					Msg("skipping overlapping action")
				continue actions
			}
		}

		if merged == nil {
			merged = rowan.BeginMutation(root)
		}
		if err := merged.Merge(action.Mutation); err != nil {
			return root, applied, fmt.Errorf("applying %s: %w", action.Rule, err)
		}
		for _, r := range ranges {
			lo, hi := bounds(r)
			// Ranges within one action may overlap each other, such as an
			// insertion next to a replacement.
			edited.Insert(lo, hi, action.Rule)
		}
		applied = append(applied, action)
	}

	if merged == nil {
		return root, nil, nil
	}
	next, err := merged.CommitContext(ctx)
	if err != nil {
		return root, nil, err
	}
	zerolog.Ctx(ctx).Debug().Int("actions", len(applied)).Int("edits", merged.Len()).Msg("applied actions")
	return next, applied, nil
}

// bounds converts a half-open range into the inclusive interval it occupies.
// An empty range occupies its start offset.
func bounds(r rowan.TextRange) (lo, hi rowan.TextSize) {
	if r.IsEmpty() {
		return r.Start, r.Start
	}
	return r.Start, r.End - 1
}
