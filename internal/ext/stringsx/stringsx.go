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

// Package stringsx contains extensions to Go's package strings.
package stringsx

import (
	"iter"
	"strings"
)

// Every verifies that all bytes in the string are b.
func Every(s string, b byte) bool {
	for i := range len(s) {
		if s[i] != b {
			return false
		}
	}
	return true
}

// Split is like [strings.Split], but returning an iterator instead of a slice.
func Split[Sep string | rune](s string, sep Sep) iter.Seq[string] {
	r := string(sep)
	return func(yield func(string) bool) {
		for {
			chunk, rest, found := strings.Cut(s, r)
			s = rest
			if !yield(chunk) || !found {
				return
			}
		}
	}
}

// LastLine returns the substring after the last newline in s, or s itself
// if it contains no newline.
func LastLine(s string) string {
	return s[strings.LastIndexByte(s, '\n')+1:]
}
