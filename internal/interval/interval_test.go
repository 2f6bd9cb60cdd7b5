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

package interval_test

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rome/tools-sub011/internal/interval"
)

func TestInsert(t *testing.T) {
	t.Parallel()

	type r struct {
		start, end int
		value      string
	}

	tests := []struct {
		name   string
		ranges []r    // Ranges to insert.
		want   string // If not "", the value of the overlap for the last range.
	}{
		{
			name:   "empty",
			ranges: []r{{0, 9, "foo"}},
		},
		{
			name:   "new-max",
			ranges: []r{{0, 9, "foo"}, {30, 39, "bar"}},
		},
		{
			name:   "new-min",
			ranges: []r{{30, 39, "bar"}, {0, 9, "foo"}},
		},
		{
			name:   "between",
			ranges: []r{{0, 9, "foo"}, {30, 39, "bar"}, {10, 29, "baz"}},
		},
		{
			name:   "inside",
			ranges: []r{{0, 9, "foo"}, {1, 2, "baz"}},
			want:   "foo",
		},
		{
			name:   "touching",
			ranges: []r{{0, 9, "foo"}, {9, 12, "baz"}},
			want:   "foo",
		},
		{
			name:   "left-edge",
			ranges: []r{{10, 19, "foo"}, {5, 10, "baz"}},
			want:   "foo",
		},
		{
			name:   "contains",
			ranges: []r{{10, 19, "foo"}, {30, 39, "bar"}, {0, 50, "baz"}},
			want:   "foo",
		},
		{
			name:   "point",
			ranges: []r{{10, 10, "foo"}, {10, 10, "baz"}},
			want:   "foo",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			var set interval.Set[int, string]
			for i, r := range test.ranges {
				overlap, ok := set.Insert(r.start, r.end, r.value)
				if i < len(test.ranges)-1 || test.want == "" {
					assert.True(t, ok, "%v", r)
					continue
				}
				assert.False(t, ok)
				assert.Equal(t, test.want, overlap.Value)
			}
		})
	}
}

func TestQueries(t *testing.T) {
	t.Parallel()

	var set interval.Set[uint32, string]
	set.Insert(0, 4, "a")
	set.Insert(10, 14, "b")
	set.Insert(20, 20, "c")

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, `{[0x0, 0x4]: "a", [0xa, 0xe]: "b", 0x14: "c"}`, fmt.Sprintf("%q", &set))

	got, ok := set.Get(12)
	assert.True(t, ok)
	assert.Equal(t, "b", got.Value)
	_, ok = set.Get(7)
	assert.False(t, ok)

	var values []string
	for i := range set.Overlapping(3, 20) {
		values = append(values, i.Value)
	}
	assert.Equal(t, []string{"a", "b", "c"}, values)

	values = values[:0]
	for i := range set.Overlapping(5, 9) {
		values = append(values, i.Value)
	}
	assert.Empty(t, values)

	var starts []uint32
	for i := range set.All() {
		starts = append(starts, i.Start)
	}
	assert.True(t, slices.IsSorted(starts))
}
