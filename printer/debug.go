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

package printer

import (
	"fmt"
	"strings"
)

// debug renders elems one per line, nested by indentation, along with the
// layout chosen for each group.
func debug(elems []*elem) string {
	var b strings.Builder
	debugTo(&b, 0, elems)
	return b.String()
}

func debugTo(b *strings.Builder, depth int, elems []*elem) {
	for _, e := range elems {
		b.WriteString(strings.Repeat("  ", depth))
		switch e.kind {
		case elemText:
			if e.verbatim {
				b.WriteString("verbatim ")
			}
			fmt.Fprintf(b, "%q\n", e.text)
		case elemSpace:
			fmt.Fprintf(b, "space %d\n", e.spaces)
		case elemLine:
			switch {
			case e.space:
				b.WriteString("line soft-or-space\n")
			case e.soft:
				b.WriteString("line soft\n")
			default:
				fmt.Fprintf(b, "line hard %d\n", e.newlines)
			}
		case elemIndent:
			b.WriteString("indent\n")
			debugTo(b, depth+1, e.children)
		case elemGroup:
			layout := "flat"
			if e.group.broken {
				layout = "broken"
			}
			fmt.Fprintf(b, "group %s width=%d col=%d\n", layout, e.group.width, e.group.column)
			debugTo(b, depth+1, e.children)
		case elemIfBreak:
			b.WriteString("if-break\n")
			debugTo(b, depth+1, e.children)
			if len(e.flat) > 0 {
				b.WriteString(strings.Repeat("  ", depth))
				b.WriteString("else\n")
				debugTo(b, depth+1, e.flat)
			}
		}
	}
}
