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

	"github.com/rivo/uniseg"

	"github.com/rome/tools-sub011/internal/ext/iterx"
	"github.com/rome/tools-sub011/internal/ext/stringsx"
	"github.com/rome/tools-sub011/rowan"
)

type mode byte

const (
	modeBreak mode = iota
	modeFlat
)

// indentation is the prefix written after each line break.
type indentation struct {
	text  string
	width int
}

func (i indentation) add(options Options) indentation {
	if options.IndentStyle == IndentTab {
		return indentation{i.text + "\t", stringWidth(options, i.width, "\t")}
	}
	return indentation{i.text + strings.Repeat(" ", options.IndentWidth), i.width + options.IndentWidth}
}

// command is an element waiting to be printed.
type command struct {
	elem   *elem
	indent indentation
	mode   mode
}

// printer turns elements into text.
//
// Pending commands are kept on a stack, next command last. Spaces and line
// breaks are buffered until the next text, so that adjacent whitespace
// merges: runs of spaces keep the longest, a line break swallows the spaces
// before it, and a line never starts the output.
type printer struct {
	Options

	stack []command

	out              strings.Builder
	column           int
	spaces, newlines int

	verbatim []rowan.TextRange
}

func (p *printer) push(elems []*elem, indent indentation, mode mode) {
	for i := len(elems) - 1; i >= 0; i-- {
		p.stack = append(p.stack, command{elems[i], indent, mode})
	}
}

// print prints elems. The top level is printed broken.
func (p *printer) print(elems []*elem) {
	p.push(elems, indentation{}, modeBreak)
	for len(p.stack) > 0 {
		cmd := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]

		switch e := cmd.elem; e.kind {
		case elemText:
			start := p.write(e.text, cmd.indent)
			if e.verbatim {
				p.verbatim = append(p.verbatim, rowan.NewTextRange(start, rowan.TextSize(p.out.Len())))
			}

		case elemSpace:
			p.spaces = max(p.spaces, e.spaces)

		case elemLine:
			if cmd.mode == modeFlat && e.soft {
				if e.space {
					p.spaces = max(p.spaces, 1)
				}
				continue
			}
			p.newlines = max(p.newlines, e.newlines)
			p.spaces = 0

		case elemIndent:
			p.push(e.children, cmd.indent.add(p.Options), cmd.mode)

		case elemGroup:
			g := e.group
			g.column = p.column
			if p.newlines == 0 {
				g.column += p.spaces
			}
			mode := cmd.mode
			if mode == modeBreak && !g.expand && p.fits(e, cmd.indent) {
				mode = modeFlat
			}
			g.broken = mode == modeBreak
			p.push(e.children, cmd.indent, mode)

		case elemIfBreak:
			if cmd.mode == modeBreak {
				p.push(e.children, cmd.indent, cmd.mode)
			} else {
				p.push(e.flat, cmd.indent, cmd.mode)
			}
		}
	}
	p.finish()
}

// fits returns whether group can be printed flat: whether everything from
// the group up to the next line break that may be taken after it stays
// within the line width.
//
// Commands still on the stack are measured in their own mode, and every
// group among them is assumed broken.
func (p *printer) fits(group *elem, indent indentation) bool {
	column, spaces := p.column, p.spaces
	switch {
	case p.out.Len() == 0:
		column, spaces = 0, 0
	case p.newlines > 0:
		column, spaces = indent.width, 0
	}

	var stack []command
	push := func(elems []*elem, indent indentation, mode mode) {
		for i := len(elems) - 1; i >= 0; i-- {
			stack = append(stack, command{elems[i], indent, mode})
		}
	}
	push(group.children, indent, modeFlat)

	rest := len(p.stack)
	for {
		if len(stack) == 0 {
			if rest == 0 {
				return true
			}
			rest--
			stack = append(stack, p.stack[rest])
			continue
		}
		cmd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch e := cmd.elem; e.kind {
		case elemText:
			first, _, multiline := strings.Cut(e.text, "\n")
			column = stringWidth(p.Options, column+spaces, first)
			spaces = 0
			if column > p.LineWidth {
				return false
			}
			if multiline {
				return true
			}

		case elemSpace:
			spaces = max(spaces, e.spaces)

		case elemLine:
			if cmd.mode == modeFlat && e.soft {
				if e.space {
					spaces = max(spaces, 1)
				}
				continue
			}
			return true

		case elemIndent:
			push(e.children, cmd.indent.add(p.Options), cmd.mode)

		case elemGroup:
			mode := cmd.mode
			if e.group.expand {
				mode = modeBreak
			}
			push(e.children, cmd.indent, mode)

		case elemIfBreak:
			if cmd.mode == modeBreak {
				push(e.children, cmd.indent, cmd.mode)
			} else {
				push(e.flat, cmd.indent, cmd.mode)
			}
		}
	}
}

// write writes pending whitespace followed by text, and returns the offset
// text starts at. Line breaks in text are translated to the line ending.
func (p *printer) write(text string, indent indentation) rowan.TextSize {
	if p.out.Len() == 0 {
		p.newlines, p.spaces = 0, 0
	}
	if p.newlines > 0 {
		for range p.newlines {
			p.out.WriteString(p.LineEnding.String())
		}
		p.out.WriteString(indent.text)
		p.column = indent.width
		p.newlines, p.spaces = 0, 0
	}
	for range p.spaces {
		p.out.WriteByte(' ')
	}
	p.column += p.spaces
	p.spaces = 0

	start := rowan.TextSize(p.out.Len())
	last := stringsx.LastLine(text)
	if len(last) < len(text) {
		p.column = 0
	}
	p.column = stringWidth(p.Options, p.column, last)

	if p.LineEnding != LF {
		text = strings.ReplaceAll(text, "\n", p.LineEnding.String())
	}
	p.out.WriteString(text)
	return start
}

// finish flushes the line breaks still pending at the end of the output.
// Pending spaces are dropped.
func (p *printer) finish() {
	if p.out.Len() == 0 {
		return
	}
	for range p.newlines {
		p.out.WriteString(p.LineEnding.String())
	}
	p.newlines, p.spaces = 0, 0
}

// stringWidth returns the column text ends at when written at column.
//
// A column of -1 gives every tab its full width, for measuring text whose
// position is not known yet.
func stringWidth(options Options, column int, text string) int {
	full := column < 0
	column = max(0, column)
	for i, part := range iterx.Enumerate(stringsx.Split(text, '\t')) {
		if i > 0 {
			tab := options.TabWidth
			if !full {
				tab -= column % options.TabWidth
			}
			column += tab
		}
		column += uniseg.StringWidth(part)
	}
	return column
}
