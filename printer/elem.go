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
	"strings"

	"github.com/rome/tools-sub011/format"
	"github.com/rome/tools-sub011/internal/ext/stringsx"
)

type elemKind byte

const (
	elemText elemKind = iota
	elemSpace
	elemLine
	elemIndent
	elemGroup
	elemIfBreak
)

// elem is a node of the document after lowering. Lists are flattened into
// the children of the enclosing element.
type elem struct {
	kind elemKind

	text     string // elemText.
	verbatim bool
	spaces   int         // elemSpace.
	newlines int         // elemLine: 1, or 2 for an empty line.
	soft     bool        // elemLine: dropped when flat.
	space    bool        // elemLine: a space when flat.
	children []*elem     // elemIndent, elemGroup, and the broken side of elemIfBreak.
	flat     []*elem     // elemIfBreak.
	group    *groupState // elemGroup.
}

// groupState is what the printer learns about a group.
type groupState struct {
	expand bool // Cannot be printed flat.
	broken bool
	column int
	width  int // Width when printed flat.
}

// lower converts a document into elements, appending them to out.
func lower(out []*elem, token format.Token) []*elem {
	switch t := token.(type) {
	case format.SpaceToken:
		return append(out, &elem{kind: elemSpace, spaces: 1})

	case format.LineToken:
		line := &elem{kind: elemLine, newlines: 1}
		switch t.Mode() {
		case format.LineSoft:
			line.soft = true
		case format.LineSoftOrSpace:
			line.soft, line.space = true, true
		case format.LineEmpty:
			line.newlines = 2
		}
		return append(out, line)

	case format.IndentToken:
		return append(out, &elem{kind: elemIndent, children: lower(nil, t.Content())})

	case format.GroupToken:
		return append(out, &elem{
			kind:     elemGroup,
			children: lower(nil, t.Content()),
			group:    &groupState{expand: t.ShouldBreak()},
		})

	case format.List:
		for _, t := range t.Tokens() {
			out = lower(out, t)
		}
		return out

	case format.IfBreakToken:
		return append(out, &elem{
			kind:     elemIfBreak,
			children: lower(nil, t.BreakContent()),
			flat:     lower(nil, t.FlatContent()),
		})

	case format.TextToken:
		return appendText(out, t.Text(), false)

	case format.SourceToken:
		return appendText(out, t.Text(), t.IsVerbatim())
	}
	return out
}

// appendText appends a text element. Text made only of spaces or only of
// newlines is whitespace, and merges with the whitespace around it.
func appendText(out []*elem, text string, verbatim bool) []*elem {
	switch {
	case text == "":
		return out
	case !verbatim && stringsx.Every(text, ' '):
		return append(out, &elem{kind: elemSpace, spaces: len(text)})
	case !verbatim && stringsx.Every(text, '\n'):
		return append(out, &elem{kind: elemLine, newlines: len(text)})
	}
	return append(out, &elem{kind: elemText, text: text, verbatim: verbatim})
}

// measure fills in the flat width of every group in elems, and marks the
// groups that cannot be flat. It returns the flat width of elems, and
// whether they force their enclosing group to break.
func measure(options Options, elems []*elem) (width int, expand bool) {
	for _, e := range elems {
		switch e.kind {
		case elemText:
			if strings.Contains(e.text, "\n") {
				expand = true
			}
			width += stringWidth(options, -1, e.text)
		case elemSpace:
			width += e.spaces
		case elemLine:
			switch {
			case !e.soft:
				expand = true
			case e.space:
				width++
			}
		case elemIndent:
			w, x := measure(options, e.children)
			width += w
			expand = expand || x
		case elemGroup:
			w, x := measure(options, e.children)
			e.group.width = w
			e.group.expand = e.group.expand || x
			width += w
			expand = expand || e.group.expand
		case elemIfBreak:
			// The broken side may break freely; only the flat side
			// constrains the enclosing group.
			measure(options, e.children)
			w, x := measure(options, e.flat)
			width += w
			expand = expand || x
		}
	}
	return width, expand
}
