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
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/rome/tools-sub011/config"
)

// file is one input file.
type file struct {
	path string // As given on the command line, or found under a directory.
	rel  string // Relative to the configuration directory.
	text string
}

// discover returns the files named by args, in order. Directories are
// searched for files the configuration includes; files named directly are
// always included. No args means the working directory.
func (a *app) discover(ctx context.Context, c *config.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var (
		out  []string
		errs error
	)
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}
	for _, arg := range args {
		path := a.abs(arg)
		info, err := a.fs.Stat(path)
		if err != nil {
			errs = multierr.Append(errs, errors.WithStack(err))
			continue
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		err = afero.Walk(a.fs, path, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if name := info.Name(); name == "node_modules" || (len(name) > 1 && name[0] == '.') {
					return filepath.SkipDir
				}
				return nil
			}
			rel, err := filepath.Rel(c.Dir, path)
			if err != nil {
				return err
			}
			if !c.Included(rel) {
				return nil
			}
			if c.Files.MaxSize > 0 && info.Size() > c.Files.MaxSize {
				zerolog.Ctx(ctx).Debug().Str("path", path).Msg("skipping large file")
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("searching %s: %w", arg, err))
		}
	}
	return out, errs
}

func (a *app) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(a.cwd, path)
}

// each reads every path and calls do on it concurrently, writing whatever
// each call prints to stdout in the order of paths.
//
// Every failure is reported, combined into one error.
func (a *app) each(ctx context.Context, c *config.Config, paths []string, do func(ctx context.Context, f file, out *bytes.Buffer) error) error {
	outs := make([]bytes.Buffer, len(paths))

	var (
		mu   sync.Mutex
		errs error
	)
	g, ctx := errgroup.WithContext(ctx)
	jobs := a.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			err := a.process(ctx, c, path, &outs[i], do)
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
			// A failure in one file does not stop the others; only
			// cancellation does.
			return ctx.Err()
		})
	}
	err := g.Wait()

	for i := range outs {
		if _, werr := outs[i].WriteTo(a.stdout); werr != nil {
			return errors.WithStack(werr)
		}
	}
	if err != nil {
		return errors.WithStack(err)
	}
	return sortErrors(errs)
}

func (a *app) process(ctx context.Context, c *config.Config, path string, out *bytes.Buffer, do func(context.Context, file, *bytes.Buffer) error) error {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return errors.WithStack(err)
	}
	rel, err := filepath.Rel(c.Dir, path)
	if err != nil {
		rel = path
	}
	f := file{path: a.display(path), rel: filepath.ToSlash(rel), text: string(data)}
	if err := do(ctx, f, out); err != nil {
		return errors.Errorf("%s: %w", f.path, err)
	}
	return nil
}

// display returns path relative to the working directory, if it is inside
// it.
func (a *app) display(path string) string {
	rel, err := filepath.Rel(a.cwd, path)
	if err != nil || !filepath.IsLocal(rel) {
		return path
	}
	return filepath.ToSlash(rel)
}

// sortErrors orders the errors combined in err by message, since files
// finish in any order.
func sortErrors(err error) error {
	errs := multierr.Errors(err)
	slices.SortFunc(errs, func(a, b error) int {
		return strings.Compare(a.Error(), b.Error())
	})
	return multierr.Combine(errs...)
}
