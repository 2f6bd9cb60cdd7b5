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

// Package diff computes and renders line-based differences between texts,
// such as the change a formatter or a fix would make to a file.
package diff

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Op is the kind of an [Edit].
type Op byte

const (
	Equal Op = iota
	Insert
	Delete
	Replace
)

// String implements [fmt.Stringer].
func (o Op) String() string {
	switch o {
	case Equal:
		return "equal"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	default:
		return fmt.Sprintf("Op(%d)", byte(o))
	}
}

// Edit is a run of lines that is the same in both texts, or that was
// changed. Lines include their trailing newline.
type Edit struct {
	Op Op

	// Zero-based line indices of this run in the old and new text.
	OldStart, NewStart int
	Old, New           []string
}

// Edits returns the line-level edits that turn old into new.
//
// Equal runs are included, so concatenating the New lines of every edit
// reproduces new.
func Edits(old, new string) []Edit {
	a, b := splitLines(old), splitLines(new)
	m := difflib.NewMatcher(a, b)

	var out []Edit
	for _, op := range m.GetOpCodes() {
		e := Edit{
			OldStart: op.I1,
			NewStart: op.J1,
			Old:      a[op.I1:op.I2],
			New:      b[op.J1:op.J2],
		}
		switch op.Tag {
		case 'e':
			e.Op = Equal
		case 'i':
			e.Op = Insert
		case 'd':
			e.Op = Delete
		case 'r':
			e.Op = Replace
		}
		out = append(out, e)
	}
	return out
}

// Unified returns a unified diff between old and new, with the given number
// of lines of context around each change. Returns "" if the texts are equal.
func Unified(oldName, newName, old, new string, context int) string {
	if old == new {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        unifiedLines(old),
		B:        unifiedLines(new),
		FromFile: oldName,
		ToFile:   newName,
		Context:  context,
	})
	if err != nil {
		// Only returned if writing to the underlying buffer fails.
		panic(err)
	}
	return diff
}

// splitLines splits text into lines that keep their newline. Unlike
// [difflib.SplitLines], no newline is added to the last line.
func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

const noNewline = "\\ No newline at end of file\n"

// unifiedLines splits text for a unified diff. A last line with no newline
// carries the marker line that says so, so it differs from the same line
// with a newline.
func unifiedLines(text string) []string {
	lines := splitLines(text)
	if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
		lines[n-1] += "\n" + noNewline
	}
	return lines
}

// Style is the way [Render] highlights a diff.
type Style byte

const (
	// Plain copies the diff as-is.
	Plain Style = iota
	// ANSI colors the diff with terminal escape sequences.
	ANSI
	// Markup wraps lines in console markup tags: <Success>, <Error> and
	// <Info>.
	Markup
)

// Render writes a unified diff produced by [Unified] to w, highlighted in
// the given style.
func Render(w io.Writer, style Style, unified string) error {
	bw := bufio.NewWriter(w)
	for line := range strings.SplitAfterSeq(unified, "\n") {
		if line == "" {
			continue
		}
		body, nl := strings.CutSuffix(line, "\n")

		var pre, post string
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			pre, post = emphasis(style)
		case strings.HasPrefix(body, "+"):
			pre, post = success(style)
		case strings.HasPrefix(body, "-"):
			pre, post = failure(style)
		case strings.HasPrefix(body, "@@"):
			pre, post = info(style)
		}

		bw.WriteString(pre)
		bw.WriteString(body)
		bw.WriteString(post)
		if nl {
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func emphasis(s Style) (string, string) {
	return pick(s, "\033[1m", "\033[0m", "<Emphasis>", "</Emphasis>")
}

func success(s Style) (string, string) {
	return pick(s, "\033[1;92m", "\033[0m", "<Success>", "</Success>")
}

func failure(s Style) (string, string) {
	return pick(s, "\033[1;91m", "\033[0m", "<Error>", "</Error>")
}

func info(s Style) (string, string) {
	return pick(s, "\033[36m", "\033[0m", "<Info>", "</Info>")
}

func pick(s Style, ansiOpen, ansiClose, markupOpen, markupClose string) (string, string) {
	switch s {
	case ANSI:
		return ansiOpen, ansiClose
	case Markup:
		return markupOpen, markupClose
	default:
		return "", ""
	}
}
