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

package rowan

import (
	"fmt"
	"math"
)

// TextSize is a byte offset or length within a source file.
type TextSize uint32

// MaxTextSize is the largest representable [TextSize].
const MaxTextSize TextSize = math.MaxUint32

// TextRange is a half-open range of bytes [Start, End).
type TextRange struct {
	Start, End TextSize
}

// NewTextRange returns the range [start, end).
//
// Panics if start > end.
func NewTextRange(start, end TextSize) TextRange {
	if start > end {
		panic(fmt.Sprintf("rowan: invalid text range %d..%d", start, end))
	}
	return TextRange{Start: start, End: end}
}

// TextRangeAt returns the range of length n starting at offset.
func TextRangeAt(offset, n TextSize) TextRange {
	return NewTextRange(offset, offset+n)
}

// EmptyRange returns the empty range at offset.
func EmptyRange(offset TextSize) TextRange {
	return TextRange{Start: offset, End: offset}
}

// Len returns the length of this range.
func (r TextRange) Len() TextSize {
	return r.End - r.Start
}

// IsEmpty returns whether this range has length zero.
func (r TextRange) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns whether offset is inside this range, excluding the end.
func (r TextRange) Contains(offset TextSize) bool {
	return r.Start <= offset && offset < r.End
}

// ContainsInclusive returns whether offset is inside this range, including
// the end.
func (r TextRange) ContainsInclusive(offset TextSize) bool {
	return r.Start <= offset && offset <= r.End
}

// ContainsRange returns whether other lies entirely within this range.
func (r TextRange) ContainsRange(other TextRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Intersect returns the intersection of two ranges, if they intersect.
func (r TextRange) Intersect(other TextRange) (TextRange, bool) {
	start, end := max(r.Start, other.Start), min(r.End, other.End)
	if start > end {
		return TextRange{}, false
	}
	return TextRange{Start: start, End: end}, true
}

// Cover returns the smallest range containing both ranges.
func (r TextRange) Cover(other TextRange) TextRange {
	return TextRange{Start: min(r.Start, other.Start), End: max(r.End, other.End)}
}

// Add shifts this range forward by offset.
func (r TextRange) Add(offset TextSize) TextRange {
	return TextRange{Start: r.Start + offset, End: r.End + offset}
}

// Sub shifts this range backward by offset.
func (r TextRange) Sub(offset TextSize) TextRange {
	return TextRange{Start: r.Start - offset, End: r.End - offset}
}

// Slice returns the text covered by this range.
func (r TextRange) Slice(text string) string {
	return text[r.Start:r.End]
}

// compare orders two ranges for binary search: a range sorts before another
// if it ends at or before the other's start, and they compare equal if they
// overlap.
func (r TextRange) compare(other TextRange) int {
	switch {
	case r.End <= other.Start:
		return -1
	case other.End <= r.Start:
		return 1
	default:
		return 0
	}
}

// String implements [fmt.Stringer].
func (r TextRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// TextEdit replaces the text in Range with Replacement.
type TextEdit struct {
	Range       TextRange
	Replacement string
}

// ApplyTextEdits applies a sorted, non-overlapping list of edits to text.
func ApplyTextEdits(text string, edits []TextEdit) string {
	var out []byte
	var prev TextSize
	for _, e := range edits {
		out = append(out, text[prev:e.Range.Start]...)
		out = append(out, e.Replacement...)
		prev = e.Range.End
	}
	return string(append(out, text[prev:]...))
}
