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

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, text := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(text), 0o644))
	}
	return fs
}

func run(fs afero.Fs, args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd := newRootCommand(&app{fs: fs, cwd: "/work", stdout: &out, stderr: &errOut})
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func readFile(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, name)
	require.NoError(t, err)
	return string(data)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	fs := newFs(t, map[string]string{
		"/work/a.js":              "let   a=1\n",
		"/work/src/b.js":          "b;\n",
		"/work/node_modules/c.js": "c\n",
		"/work/notes.txt":         "not code",
	})

	stdout, _, err := run(fs, "format")
	require.ErrorIs(t, err, ErrUnformatted)
	assert.Contains(t, err.Error(), "1 of 2 files")
	assert.Contains(t, stdout, "--- a.js\n+++ a.js\n")
	assert.Contains(t, stdout, "-let   a=1\n+let a = 1;\n")
	assert.NotContains(t, stdout, "b.js")

	_, stderr, err := run(fs, "format", "--write")
	require.NoError(t, err)
	assert.Contains(t, stderr, "formatted 1 of 2 files")
	assert.Equal(t, "let a = 1;\n", readFile(t, fs, "/work/a.js"))
	assert.Equal(t, "c\n", readFile(t, fs, "/work/node_modules/c.js"))

	stdout, _, err = run(fs, "format")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestFormatConfig(t *testing.T) {
	t.Parallel()

	fs := newFs(t, map[string]string{
		"/work/rome.toml": "[formatter]\nindent-style = \"space\"\nindent-width = 4\n[files]\nignore = [\"gen/**\"]\n",
		"/work/a.js":      "function f(){return 1}\n",
		"/work/gen/b.js":  "b\n",
	})

	_, _, err := run(fs, "format", "-w")
	require.NoError(t, err)
	assert.Equal(t, "function f() {\n    return 1;\n}\n", readFile(t, fs, "/work/a.js"))
	assert.Equal(t, "b\n", readFile(t, fs, "/work/gen/b.js"))

	// Files named directly are formatted even if ignored.
	_, _, err = run(fs, "format", "-w", "gen/b.js")
	require.NoError(t, err)
	assert.Equal(t, "b;\n", readFile(t, fs, "/work/gen/b.js"))
}

func TestFormatErrors(t *testing.T) {
	t.Parallel()

	fs := newFs(t, map[string]string{
		"/work/bad.js":  "let = ;\n",
		"/work/good.js": "good\n",
	})

	_, _, err := run(fs, "format", "--write", "bad.js", "good.js", "missing.js")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.js")

	_, _, err = run(fs, "format", "--write", "bad.js", "good.js")
	require.ErrorIs(t, err, errSyntax)
	assert.Contains(t, err.Error(), "bad.js")
	assert.Equal(t, "let = ;\n", readFile(t, fs, "/work/bad.js"))
	assert.Equal(t, "good;\n", readFile(t, fs, "/work/good.js"))
}

func TestCheck(t *testing.T) {
	t.Parallel()

	fs := newFs(t, map[string]string{
		"/work/b.js": "function f() { return; g(); }\nlet x = 1;\n",
	})

	stdout, _, err := run(fs, "check")
	require.NoError(t, err)
	assert.Equal(t, `b.js:1:24: warning: this code is unreachable [noUnreachable]
  help: remove the code, or the statement that makes it unreachable
b.js:2:1: warning: this let declares variables that are never reassigned [useConst]
  help: use const instead
`, stdout)

	_, stderr, err := run(fs, "check", "--apply")
	require.NoError(t, err)
	assert.Contains(t, stderr, "fixed 1 of 1 files")
	assert.Equal(t, "function f() { return; g(); }\nconst x = 1;\n", readFile(t, fs, "/work/b.js"))
}

func TestCheckErrors(t *testing.T) {
	t.Parallel()

	fs := newFs(t, map[string]string{
		"/work/rome.toml": "[linter.rules]\nuseConst = false\n",
		"/work/a.js":      "var NaN = 1;\nlet x = 1;\n",
		"/work/b.js":      "let = ;\n",
	})

	stdout, _, err := run(fs, "check")
	require.ErrorIs(t, err, ErrDiagnostics)
	assert.Contains(t, err.Error(), "2 of 2 files")
	assert.Contains(t, stdout, "a.js:1:5: error: do not shadow the global \"NaN\" [noShadowRestrictedNames]\n")
	assert.Contains(t, stdout, "b.js:1:")
	assert.Contains(t, stdout, "[syntax]")
	assert.NotContains(t, stdout, "useConst")
}

func TestParse(t *testing.T) {
	t.Parallel()

	fs := newFs(t, map[string]string{"/work/a.js": "a;"})

	stdout, _, err := run(fs, "parse", "a.js")
	require.NoError(t, err)
	assert.Contains(t, stdout, "JS_MODULE@0..2\n")

	stdout, _, err = run(fs, "parse", "-o", "yaml", "a.js")
	require.NoError(t, err)

	var doc parseDocument
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "JS_MODULE", doc.Tree.Kind)
	assert.Equal(t, "0..2", doc.Tree.Range)
	assert.Empty(t, doc.Errors)

	var tokens []string
	var walk func(*treeElement)
	walk = func(e *treeElement) {
		if e.Text != "" {
			tokens = append(tokens, e.Text)
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	walk(doc.Tree)
	assert.Equal(t, []string{"a", ";"}, tokens)

	_, _, err = run(fs, "parse", "-o", "json", "a.js")
	assert.ErrorContains(t, err, "unknown --output")
}

func TestMetricsFlag(t *testing.T) {
	t.Parallel()

	fs := newFs(t, map[string]string{"/work/a.js": "a;\n"})
	_, stderr, err := run(fs, "format", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, stderr, "metric")
	assert.Contains(t, stderr, "parse")
	assert.Contains(t, stderr, "format")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(afero.NewMemMapFs(), "version")
	require.NoError(t, err)
	assert.NotEmpty(t, stdout)
}
