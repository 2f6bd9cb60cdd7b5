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

// Package printer prints a [format.Token] document as text, choosing for
// each group whether it is printed flat on one line or broken.
//
// The document is first lowered into a tree of elements, and every group is
// measured. A group cannot be flat if anything in it forces a line break.
// Printing then walks the elements
// with an explicit stack. A group is printed flat if it, and whatever
// follows it up to the next line break that could be taken, fits in the
// line width.
package printer

import (
	"github.com/rome/tools-sub011/format"
	"github.com/rome/tools-sub011/rowan"
)

// IndentStyle is the character used to indent.
type IndentStyle byte

const (
	IndentTab IndentStyle = iota
	IndentSpace
)

// LineEnding is the sequence printed for each line break.
type LineEnding byte

const (
	LF LineEnding = iota
	CRLF
	CR
)

// String returns the characters of this line ending.
func (e LineEnding) String() string {
	switch e {
	case CRLF:
		return "\r\n"
	case CR:
		return "\r"
	default:
		return "\n"
	}
}

// Options configures [Print].
type Options struct {
	// The column at which groups break. Defaults to 80.
	LineWidth int

	IndentStyle IndentStyle
	// The number of spaces per indentation level when IndentStyle is
	// IndentSpace. Defaults to 2.
	IndentWidth int

	LineEnding LineEnding

	// The number of columns a tab counts as. Defaults to IndentWidth.
	TabWidth int

	// If true, prints the element tree with the decision made for each
	// group instead of the code.
	Debug bool
}

// WithDefaults fills in the zero fields that have a default.
func (o Options) WithDefaults() Options {
	if o.LineWidth == 0 {
		o.LineWidth = 80
	}
	if o.IndentWidth == 0 {
		o.IndentWidth = 2
	}
	if o.TabWidth == 0 {
		o.TabWidth = o.IndentWidth
	}
	return o
}

// Printed is the result of [Print].
type Printed struct {
	Code string

	// Ranges of Code that were copied verbatim from the source because the
	// corresponding nodes could not be formatted.
	Verbatim []rowan.TextRange
}

// Print prints a document.
func Print(options Options, doc format.Token) Printed {
	options = options.WithDefaults()

	elems := lower(nil, doc)
	measure(options, elems)

	p := printer{Options: options}
	p.print(elems)
	if options.Debug {
		return Printed{Code: debug(elems)}
	}
	return Printed{Code: p.out.String(), Verbatim: p.verbatim}
}
