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

// Package config loads rome.toml project configuration.
//
// Formatting options are resolved per file: the defaults, then any matching
// .editorconfig section in the project directory, then rome.toml.
package config

import (
	"path"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/rome/tools-sub011/printer"
)

const (
	// FileName is the name of the configuration file.
	FileName = "rome.toml"

	// EditorConfigName is the name of the editorconfig file read alongside
	// FileName.
	EditorConfigName = ".editorconfig"
)

// DefaultInclude matches the files processed when rome.toml names none.
var DefaultInclude = []string{"**/*.js", "**/*.mjs", "**/*.cjs"}

// Config is a rome.toml file.
type Config struct {
	Formatter Formatter `toml:"formatter"`
	Linter    Linter    `toml:"linter"`
	Files     Files     `toml:"files"`

	// Dir is the directory containing rome.toml, or the directory the search
	// started from if there is none. Set at load time.
	Dir string `toml:"-"`

	editorconfig *editorconfig.Editorconfig
}

// Formatter configures `rome format`.
type Formatter struct {
	Enabled     *bool  `toml:"enabled"`
	LineWidth   int    `toml:"line-width"`
	IndentStyle string `toml:"indent-style"` // "tab" or "space"
	IndentWidth int    `toml:"indent-width"`
	LineEnding  string `toml:"line-ending"` // "lf", "crlf" or "cr"
}

// Linter configures `rome check`.
type Linter struct {
	Enabled *bool `toml:"enabled"`

	// Rules turns individual rules on or off by name. Rules that are not
	// listed are on.
	Rules map[string]bool `toml:"rules"`
}

// Files selects the files that are processed.
type Files struct {
	Include []string `toml:"include"`
	Ignore  []string `toml:"ignore"`

	// Files larger than this many bytes are skipped. Zero means no limit.
	MaxSize int64 `toml:"max-size"`
}

// Load parses rome.toml, and .editorconfig if there is one, from dir.
func Load(fs afero.Fs, dir string) (*Config, error) {
	file := filepath.Join(dir, FileName)
	data, err := afero.ReadFile(fs, file)
	if err != nil {
		return nil, errors.Errorf("cannot read %s: %w", file, err)
	}

	c := &Config{Dir: dir}
	meta, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, errors.Errorf("parse error in %s: %w", file, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("%s: unknown key %q", file, undecoded[0].String())
	}
	if err := c.validate(); err != nil {
		return nil, errors.Errorf("%s: %w", file, err)
	}
	if err := c.loadEditorConfig(fs); err != nil {
		return nil, err
	}
	return c, nil
}

// Find walks up from dir to the nearest directory containing rome.toml and
// loads it. If there is none, it returns the default configuration for dir.
func Find(fs afero.Fs, dir string) (*Config, error) {
	for d := dir; ; {
		ok, err := afero.Exists(fs, filepath.Join(d, FileName))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if ok {
			return Load(fs, d)
		}

		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}

	c := Default()
	c.Dir = dir
	if err := c.loadEditorConfig(fs); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the configuration used when there is no rome.toml.
func Default() *Config {
	return &Config{}
}

func (c *Config) validate() error {
	switch c.Formatter.IndentStyle {
	case "", editorconfig.IndentStyleTab, editorconfig.IndentStyleSpaces:
	default:
		return errors.Errorf("formatter.indent-style must be %q or %q, got %q",
			editorconfig.IndentStyleTab, editorconfig.IndentStyleSpaces, c.Formatter.IndentStyle)
	}
	if _, ok := lineEnding(c.Formatter.LineEnding); !ok && c.Formatter.LineEnding != "" {
		return errors.Errorf("formatter.line-ending must be one of lf, crlf or cr, got %q", c.Formatter.LineEnding)
	}
	if c.Formatter.LineWidth < 0 || c.Formatter.LineWidth > 320 {
		return errors.Errorf("formatter.line-width must be between 1 and 320, got %d", c.Formatter.LineWidth)
	}
	if c.Formatter.IndentWidth < 0 {
		return errors.Errorf("formatter.indent-width must be positive, got %d", c.Formatter.IndentWidth)
	}
	for _, pattern := range slices.Concat(c.Files.Include, c.Files.Ignore) {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid file pattern %q", pattern)
		}
	}
	return nil
}

func (c *Config) loadEditorConfig(fs afero.Fs) error {
	file := filepath.Join(c.Dir, EditorConfigName)
	f, err := fs.Open(file)
	if errors.Is(err, afero.ErrFileNotFound) {
		return nil
	} else if err != nil {
		return errors.Errorf("cannot read %s: %w", file, err)
	}
	defer f.Close()

	ec, err := editorconfig.Parse(f)
	if err != nil {
		return errors.Errorf("parse error in %s: %w", file, err)
	}
	c.editorconfig = ec
	return nil
}

// FormatterEnabled returns whether `rome format` should run.
func (c *Config) FormatterEnabled() bool {
	return c.Formatter.Enabled == nil || *c.Formatter.Enabled
}

// LinterEnabled returns whether `rome check` should run.
func (c *Config) LinterEnabled() bool {
	return c.Linter.Enabled == nil || *c.Linter.Enabled
}

// RuleEnabled returns whether the lint rule with the given name is on.
func (c *Config) RuleEnabled(name string) bool {
	on, ok := c.Linter.Rules[name]
	return !ok || on
}

// Included returns whether the file at rel, a slash-separated path relative
// to Dir, should be processed.
func (c *Config) Included(rel string) bool {
	rel = filepath.ToSlash(rel)
	include := c.Files.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	match := func(patterns []string) bool {
		return slices.ContainsFunc(patterns, func(p string) bool {
			ok, _ := doublestar.Match(p, rel)
			return ok
		})
	}
	return match(include) && !match(c.Files.Ignore)
}

// PrinterOptions returns the formatting options for the file at rel, a
// slash-separated path relative to Dir.
func (c *Config) PrinterOptions(rel string) (printer.Options, error) {
	var opts printer.Options

	if c.editorconfig != nil {
		def, err := c.editorconfig.GetDefinitionForFilename(path.Clean(filepath.ToSlash(rel)))
		if err != nil {
			return opts, errors.Errorf("%s: %w", EditorConfigName, err)
		}
		switch def.IndentStyle {
		case editorconfig.IndentStyleTab:
			opts.IndentStyle = printer.IndentTab
		case editorconfig.IndentStyleSpaces:
			opts.IndentStyle = printer.IndentSpace
		}
		if n, err := strconv.Atoi(def.IndentSize); err == nil && n > 0 {
			opts.IndentWidth = n
		}
		if def.TabWidth > 0 {
			opts.TabWidth = def.TabWidth
		}
		if e, ok := lineEnding(def.EndOfLine); ok {
			opts.LineEnding = e
		}
		if n, err := strconv.Atoi(def.Raw["max_line_length"]); err == nil && n > 0 {
			opts.LineWidth = n
		}
	}

	f := c.Formatter
	switch f.IndentStyle {
	case editorconfig.IndentStyleTab:
		opts.IndentStyle = printer.IndentTab
	case editorconfig.IndentStyleSpaces:
		opts.IndentStyle = printer.IndentSpace
	}
	if f.IndentWidth > 0 {
		opts.IndentWidth = f.IndentWidth
	}
	if f.LineWidth > 0 {
		opts.LineWidth = f.LineWidth
	}
	if e, ok := lineEnding(f.LineEnding); ok {
		opts.LineEnding = e
	}
	return opts.WithDefaults(), nil
}

func lineEnding(name string) (printer.LineEnding, bool) {
	switch name {
	case editorconfig.EndOfLineLf:
		return printer.LF, true
	case editorconfig.EndOfLineCrLf:
		return printer.CRLF, true
	case editorconfig.EndOfLineCr:
		return printer.CR, true
	default:
		return printer.LF, false
	}
}
