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
	"strconv"
	"strings"
)

// Dump renders the tree under node, one element per line, in a format
// suitable for golden tests:
//
//	JS_MODULE@0..9
//	  JS_VARIABLE_STATEMENT@0..9
//	    LET_KW@0..4 "let" [] [Whitespace(" ")]
func Dump(node SyntaxNode) string {
	var b strings.Builder
	var depth int
	for ev := range node.PreorderWithTokens() {
		if ev.Leave {
			if ev.Value.IsNode() {
				depth--
			}
			continue
		}

		b.WriteString(strings.Repeat("  ", depth))
		elem := ev.Value
		if elem.IsNode() {
			depth++
			fmt.Fprintf(&b, "%s@%v\n", elem.Node().KindName(), elem.TextRange())
			continue
		}

		tok := elem.Token()
		green := tok.Green()
		fmt.Fprintf(&b, "%s@%v %s [%s] [%s]\n",
			tok.KindName(), tok.TextRange(), quote(green.TextTrimmed()),
			triviaText(green.LeadingTrivia(), green.TextLeadingTrivia()),
			triviaText(green.TrailingTrivia(), green.TextTrailingTrivia()),
		)
	}
	return b.String()
}

func quote(s string) string {
	return strconv.Quote(s)
}
