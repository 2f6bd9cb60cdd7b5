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

// Package interval provides a set of disjoint integer intervals.
package interval

import (
	"fmt"
	"iter"

	"github.com/tidwall/btree"
	"golang.org/x/exp/constraints" //nolint:exptostd // Tries to replace w/ cmp.
)

// Endpoint is a type that may be used as an interval endpoint.
type Endpoint = constraints.Integer

// Set is a collection of pairwise disjoint intervals, each with an associated
// value. Both endpoints of an interval are inclusive, so [0, 3] and [3, 5]
// overlap.
//
// A zero value is ready to use.
type Set[K Endpoint, V any] struct {
	// Keys in this map are the ends of intervals in the set.
	tree btree.Map[K, *Interval[K, V]]
}

// Interval is an entry in a [Set].
type Interval[K Endpoint, V any] struct {
	Start, End K // Inclusive.
	Value      V
}

// Contains returns whether an interval contains a given point.
func (i Interval[K, V]) Contains(point K) bool {
	return i.Start <= point && point <= i.End
}

// Len returns the number of intervals in the set.
func (s *Set[K, V]) Len() int {
	return s.tree.Len()
}

// Get looks up the interval which contains point, if one exists.
func (s *Set[K, V]) Get(point K) (Interval[K, V], bool) {
	iter := s.tree.Iter()
	if !iter.Seek(point) || point < iter.Value().Start {
		// It is implicit already that point <= end.
		return Interval[K, V]{}, false
	}
	return *iter.Value(), true
}

// Insert inserts [start, end] into the set, unless it overlaps an interval
// already present.
//
// If it does overlap, nothing is inserted, and the overlapping interval with
// the least start is returned along with false.
func (s *Set[K, V]) Insert(start, end K, value V) (overlap Interval[K, V], ok bool) {
	if start > end {
		panic(fmt.Sprintf("interval: start (%#v) > end (%#v)", start, end))
	}

	// Find [c, d], the least interval with start <= d. Because the intervals
	// are disjoint, their starts are sorted the same way as their ends, so if
	// [c, d] does not overlap, no later interval does either.
	iter := s.tree.Iter()
	if iter.Seek(start) && iter.Value().Start <= end {
		return *iter.Value(), false
	}

	s.tree.Set(end, &Interval[K, V]{Start: start, End: end, Value: value})
	return Interval[K, V]{}, true
}

// Overlapping returns an iterator over the intervals that overlap
// [start, end], in order.
func (s *Set[K, V]) Overlapping(start, end K) iter.Seq[Interval[K, V]] {
	return func(yield func(Interval[K, V]) bool) {
		iter := s.tree.Iter()
		for more := iter.Seek(start); more; more = iter.Next() {
			if end < iter.Value().Start || !yield(*iter.Value()) {
				return
			}
		}
	}
}

// All returns an iterator over the intervals in this set, in order.
func (s *Set[K, V]) All() iter.Seq[Interval[K, V]] {
	return func(yield func(Interval[K, V]) bool) {
		iter := s.tree.Iter()
		for more := iter.First(); more; more = iter.Next() {
			if !yield(*iter.Value()) {
				return
			}
		}
	}
}

// Format implements [fmt.Formatter].
func (s *Set[K, V]) Format(state fmt.State, v rune) {
	fmt.Fprint(state, "{")
	first := true
	s.tree.Scan(func(end K, entry *Interval[K, V]) bool {
		if !first {
			fmt.Fprint(state, ", ")
		}
		first = false

		if entry.Start == end {
			fmt.Fprintf(state, "%#v: ", entry.Start)
		} else {
			fmt.Fprintf(state, "[%#v, %#v]: ", entry.Start, end)
		}
		fmt.Fprintf(state, fmt.FormatString(state, v), entry.Value)

		return true
	})
	fmt.Fprint(state, "}")
}
