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
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/rome/tools-sub011/analyze"
	"github.com/rome/tools-sub011/config"
	"github.com/rome/tools-sub011/js/analyzer"
	"github.com/rome/tools-sub011/js/parser"
	"github.com/rome/tools-sub011/rowan"
)

// ErrDiagnostics is returned by `rome check` when some file has an error.
var ErrDiagnostics = errors.Base("some files have errors")

func newCheckCommand(a *app) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Lint files, printing a diagnostic for each problem found",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := config.Find(a.fs, a.cwd)
			if err != nil {
				return err
			}
			if !c.LinterEnabled() {
				cmd.PrintErrln("the linter is disabled in", config.FileName)
				return nil
			}
			rules := analyzer.Rules().Select(c.RuleEnabled)
			paths, err := a.discover(ctx, c, args)
			if err != nil {
				return err
			}

			var failed, fixed atomic.Int64
			err = a.each(ctx, c, paths, func(ctx context.Context, f file, out *bytes.Buffer) error {
				parse := parser.ParseContext(ctx, f.text, parser.Options{})
				for _, e := range parse.Errors {
					writeDiagnostic(out, f, &analyze.Diagnostic{
						Rule:     "syntax",
						Severity: analyze.SeverityError,
						Range:    e.Range,
						Message:  e.Message,
					})
				}
				if parse.HasErrors() {
					failed.Add(1)
					return nil
				}

				root, result, err := lint(ctx, parse.Root, rules, apply)
				if err != nil {
					return err
				}
				hasError := false
				for _, d := range result.Diagnostics {
					writeDiagnostic(out, f, d)
					hasError = hasError || d.Severity == analyze.SeverityError
				}
				if hasError {
					failed.Add(1)
				}
				if apply && root.Text() != f.text {
					fixed.Add(1)
					return errors.WithStack(afero.WriteFile(a.fs, a.abs(f.path), []byte(root.Text()), 0o644))
				}
				return nil
			})

			if n := fixed.Load(); n > 0 {
				cmd.PrintErrf("fixed %d of %d files\n", n, len(paths))
			}
			if n := failed.Load(); n > 0 {
				err = multierr.Append(err, errors.Errorf("%d of %d files: %w", n, len(paths), ErrDiagnostics))
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "apply the fixes rules offer, and write the fixed files")
	return cmd
}

// lint runs rules over root. If fix is set, it applies their fixes and
// returns the fixed tree; the diagnostics are those of the original tree.
func lint(ctx context.Context, root rowan.SyntaxNode, rules []analyze.Rule, fix bool) (rowan.SyntaxNode, *analyze.Result, error) {
	if fix {
		return analyzer.Fix(ctx, root, rules)
	}
	result, err := analyzer.Analyze(ctx, root, rules)
	return root, result, err
}

// writeDiagnostic prints d as `path:line:col: severity: message [rule]`,
// followed by its notes and help.
func writeDiagnostic(out *bytes.Buffer, f file, d *analyze.Diagnostic) {
	line, col := position(f.text, d.Range.Start)
	fmt.Fprintf(out, "%s:%d:%d: %v: %s", f.path, line, col, d.Severity, d.Message)
	if d.Rule != "" {
		fmt.Fprintf(out, " [%s]", d.Rule)
	}
	out.WriteByte('\n')
	for _, note := range d.Notes {
		line, col := position(f.text, note.Range.Start)
		fmt.Fprintf(out, "  %s:%d:%d: note: %s\n", f.path, line, col, note.Message)
	}
	for _, help := range d.Help {
		fmt.Fprintf(out, "  help: %s\n", help)
	}
}

// position returns the one-based line and column of offset in text.
// Columns count bytes.
func position(text string, offset rowan.TextSize) (line, col int) {
	before := text[:min(int(offset), len(text))]
	line = strings.Count(before, "\n") + 1
	return line, len(before) - strings.LastIndexByte(before, '\n')
}
