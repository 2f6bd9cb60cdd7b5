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

// Package corpora runs golden-file tests: every input file in a directory
// is a test case, and its expected outputs live next to it.
package corpora

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rome/tools-sub011/diff"
)

// Corpus describes a directory of test cases. This is essentially a way of
// doing table-driven tests where the "table" is in your file system.
type Corpus struct {
	// The root of the test data directory. This path is relative to the file
	// that calls [Corpus.Run].
	Root string

	// An environment variable holding a glob. Test cases whose names match
	// it have their outputs rewritten instead of checked.
	Refresh string

	// A glob, relative to Root, selecting the input files, e.g. "**/*.js".
	Pattern string

	// Possible outputs of the test. If the file for an output is missing,
	// the output is expected to be empty.
	Outputs []Output

	// Test executes one test case. Returns one string per element of
	// Outputs.
	Test func(t *testing.T, path, text string) []string
}

// Output is one output of a test case.
type Output struct {
	// The suffix added to the input's file name to find this output, so
	// with an Extension of "fmt", the output of "foo.js" is "foo.js.fmt".
	Extension string

	// The comparison function for this output. May be nil, in which case the
	// values are compared byte-for-byte.
	Compare Compare
}

// Compare is a comparison function between strings, used in [Output].
//
// Returns empty string if the strings match, otherwise returns an error
// message.
type Compare func(got, want string) string

// Run runs every test case in the corpus as a subtest of t.
func (c Corpus) Run(t *testing.T) {
	t.Helper()

	testDir := callerDir(0)
	root := filepath.Join(testDir, c.Root)
	t.Logf("corpora: searching for %q in %q", c.Pattern, root)

	tests, err := doublestar.Glob(os.DirFS(root), c.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		t.Fatal("corpora: error while globbing test data:", err)
	}
	if len(tests) == 0 {
		t.Fatalf("corpora: no test cases match %q", c.Pattern)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpora: invalid glob in %s: %q", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		t.Logf("corpora: refreshing test data because %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(root, filepath.FromSlash(name))
			input, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("corpora: error while loading input file %q: %v", path, err)
			}

			results := c.Test(t, name, string(input))
			refresh := refresh != "" && doublestar.MatchUnvalidated(refresh, name)
			for i, output := range c.Outputs {
				c.check(t, path+"."+output.Extension, output, results[i], refresh)
			}
		})
	}
}

func (c Corpus) check(t *testing.T, path string, output Output, got string, refresh bool) {
	t.Helper()

	if refresh {
		var err error
		if got == "" {
			err = os.Remove(path)
			if errors.Is(err, os.ErrNotExist) {
				err = nil
			}
		} else {
			err = os.WriteFile(path, []byte(got), 0o644)
		}
		if err != nil {
			t.Errorf("corpora: error while refreshing output file %q: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Errorf("corpora: error while loading output file %q: %v", path, err)
		return
	}

	compare := output.Compare
	if compare == nil {
		compare = defaultCompare
	}
	if msg := compare(got, string(want)); msg != "" {
		t.Errorf("output mismatch for %q:\n%s", path, msg)
	}
}

func defaultCompare(got, want string) string {
	if got == want {
		return ""
	}

	var out strings.Builder
	if err := diff.Render(&out, diff.ANSI, diff.Unified("want", "got", want, got, 2)); err != nil {
		return err.Error()
	}
	return out.String()
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine test file's directory")
	}
	return filepath.Dir(file)
}
