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
	"sync/atomic"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/rome/tools-sub011/config"
	"github.com/rome/tools-sub011/diff"
	"github.com/rome/tools-sub011/js/formatter"
	"github.com/rome/tools-sub011/js/parser"
)

// ErrUnformatted is returned by `rome format` when, without --write, some
// file is not formatted.
var ErrUnformatted = errors.Base("some files are not formatted")

func newFormatCommand(a *app) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "format [path...]",
		Short: "Format files, printing a diff for each file that changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := config.Find(a.fs, a.cwd)
			if err != nil {
				return err
			}
			if !c.FormatterEnabled() {
				cmd.PrintErrln("the formatter is disabled in", config.FileName)
				return nil
			}
			paths, err := a.discover(ctx, c, args)
			if err != nil {
				return err
			}

			var changed atomic.Int64
			err = a.each(ctx, c, paths, func(ctx context.Context, f file, out *bytes.Buffer) error {
				formatted, err := formatFile(ctx, c, f)
				if err != nil || formatted == f.text {
					return err
				}
				changed.Add(1)
				if write {
					return errors.WithStack(afero.WriteFile(a.fs, a.abs(f.path), []byte(formatted), 0o644))
				}
				unified := diff.Unified(f.path, f.path, f.text, formatted, 3)
				return diff.Render(out, a.diffStyle(), unified)
			})

			n := changed.Load()
			switch {
			case write && n > 0:
				cmd.PrintErrf("formatted %d of %d files\n", n, len(paths))
			case !write && n > 0:
				err = multierr.Append(err, errors.Errorf("%d of %d files: %w", n, len(paths), ErrUnformatted))
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write formatted files instead of printing diffs")
	return cmd
}

// formatFile formats one file. Files with syntax errors are not formatted.
func formatFile(ctx context.Context, c *config.Config, f file) (string, error) {
	opts, err := c.PrinterOptions(f.rel)
	if err != nil {
		return "", err
	}
	parse := parser.ParseContext(ctx, f.text, parser.Options{})
	if parse.HasErrors() {
		return "", errors.Errorf("%w: %v", errSyntax, parse.Errors[0])
	}
	printed, err := formatter.Format(ctx, parse.Root, opts)
	if err != nil {
		return "", err
	}
	return printed.Code, nil
}

var errSyntax = errors.Base("syntax error")

func (a *app) diffStyle() diff.Style {
	if a.color {
		return diff.ANSI
	}
	return diff.Plain
}
