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

package diff_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rome/tools-sub011/diff"
)

func TestUnified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, old, new, want string
	}{
		{
			name: "changed-line",
			old:  "a\nb\nc\n",
			new:  "a\nx\nc\n",
			want: "--- old\n+++ new\n@@ -1,3 +1,3 @@\n a\n-b\n+x\n c\n",
		},
		{
			name: "no-final-newline",
			old:  "a\nb\nc",
			new:  "a\nx\nc",
			want: "--- old\n+++ new\n@@ -1,3 +1,3 @@\n a\n-b\n+x\n c\n\\ No newline at end of file\n",
		},
		{
			name: "added-final-newline",
			old:  "a",
			new:  "a\n",
			want: "--- old\n+++ new\n@@ -1 +1 @@\n-a\n\\ No newline at end of file\n+a\n",
		},
		{name: "same", old: "same", new: "same"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, diff.Unified("old", "new", test.old, test.new, 3))
		})
	}
}

func TestEdits(t *testing.T) {
	t.Parallel()

	old := "a\nb\nc\nd\n"
	new := "a\nx\nc\nd\ne\n"
	got := diff.Edits(old, new)

	want := []diff.Edit{
		{Op: diff.Equal, OldStart: 0, NewStart: 0, Old: []string{"a\n"}, New: []string{"a\n"}},
		{Op: diff.Replace, OldStart: 1, NewStart: 1, Old: []string{"b\n"}, New: []string{"x\n"}},
		{Op: diff.Equal, OldStart: 2, NewStart: 2, Old: []string{"c\n", "d\n"}, New: []string{"c\n", "d\n"}},
		{Op: diff.Insert, OldStart: 4, NewStart: 4, Old: []string{}, New: []string{"e\n"}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("edits mismatch (-want +got):\n%s", d)
	}

	var rebuilt strings.Builder
	for _, e := range got {
		for _, line := range e.New {
			rebuilt.WriteString(line)
		}
	}
	assert.Equal(t, new, rebuilt.String())
}

func TestRender(t *testing.T) {
	t.Parallel()

	unified := diff.Unified("old", "new", "a\nb\nc", "a\nx\nc", 3)

	var b strings.Builder
	require.NoError(t, diff.Render(&b, diff.Markup, unified))
	assert.Equal(t, strings.Join([]string{
		"<Emphasis>--- old</Emphasis>",
		"<Emphasis>+++ new</Emphasis>",
		"<Info>@@ -1,3 +1,3 @@</Info>",
		" a",
		"<Error>-b</Error>",
		"<Success>+x</Success>",
		" c",
		"\\ No newline at end of file",
		"",
	}, "\n"), b.String())

	b.Reset()
	require.NoError(t, diff.Render(&b, diff.ANSI, unified))
	assert.Contains(t, b.String(), "\033[1;91m-b\033[0m\n")

	b.Reset()
	require.NoError(t, diff.Render(&b, diff.Plain, unified))
	assert.Equal(t, unified, b.String())
}
