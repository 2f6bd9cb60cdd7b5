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

// Package rowan implements immutable, structurally shared syntax trees.
//
// A tree has two layers. The green layer ([GreenNode], [GreenToken]) is the
// source of truth: it is immutable, stores offsets relative to each parent,
// and any green value may be shared by any number of trees. The red layer
// ([SyntaxNode], [SyntaxToken]) is a cursor over a green tree that adds
// absolute offsets and parent links. Red values are created on demand while
// navigating and can be thrown away at any time.
//
// Tokens store their text together with their leading and trailing trivia
// (whitespace and comments), so concatenating the text of every token in a
// tree reproduces the source exactly.
//
// Trees are never edited in place. [BatchMutation] collects edits against a
// red tree and commits them into a new root that shares every untouched
// subtree with the original; the original tree stays valid.
//
// Because nothing is ever mutated, any number of goroutines may navigate the
// same tree concurrently.
package rowan
