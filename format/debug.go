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

package format

import (
	"strconv"
	"strings"
)

// String implements [fmt.Stringer].
func (SpaceToken) String() string { return "space" }

// String implements [fmt.Stringer].
func (t LineToken) String() string { return t.mode.String() + "_line" }

// String implements [fmt.Stringer].
func (t IndentToken) String() string { return "indent(" + t.content.String() + ")" }

// String implements [fmt.Stringer].
func (t GroupToken) String() string {
	if t.shouldBreak {
		return "group_break(" + t.content.String() + ")"
	}
	return "group(" + t.content.String() + ")"
}

// String implements [fmt.Stringer].
func (t List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, t := range t.tokens {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteByte(']')
	return b.String()
}

// String implements [fmt.Stringer].
func (t IfBreakToken) String() string {
	if IsEmpty(t.flatContent) {
		return "if_break(" + t.breakContent.String() + ")"
	}
	return "if_break(" + t.breakContent.String() + ", " + t.flatContent.String() + ")"
}

// String implements [fmt.Stringer].
func (t TextToken) String() string { return strconv.Quote(t.text) }

// String implements [fmt.Stringer].
func (t SourceToken) String() string {
	if t.verbatim {
		return "verbatim(" + strconv.Quote(t.text) + ")"
	}
	return "source(" + strconv.Quote(t.text) + ")"
}
