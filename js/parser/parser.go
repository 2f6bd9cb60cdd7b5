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

// Package parser parses the JavaScript subset described by [syntax] into
// lossless [rowan] trees.
//
// Parsing never fails: syntax errors are reported alongside the tree, and the
// offending source is kept in the tree as bogus nodes or as nodes with missing
// children.
package parser

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rome/tools-sub011/internal/metrics"
	"github.com/rome/tools-sub011/js/syntax"
	"github.com/rome/tools-sub011/rowan"
)

// Parse is the result of parsing a file.
type Parse struct {
	Root   rowan.SyntaxNode
	Errors []rowan.ParseError
}

// HasErrors returns whether any syntax errors were found.
func (p *Parse) HasErrors() bool {
	return len(p.Errors) > 0
}

// Options configures [ParseContext].
type Options struct {
	// Cache deduplicates tokens and small nodes across parses. May be nil.
	Cache *rowan.NodeCache
}

// ParseText parses text with default options.
func ParseText(text string) *Parse {
	return ParseContext(context.Background(), text, Options{})
}

// ParseContext parses text. The logger and metrics registry are taken from
// ctx, if present.
func ParseContext(ctx context.Context, text string, opts Options) *Parse {
	defer metrics.FromContext(ctx).Time("parse")()

	l := lex(text)
	p := &parser{
		tokens: l.tokens,
		text:   text,
		sink:   rowan.NewLosslessTreeSink(text, l.trivia, opts.Cache),
	}
	p.sink.Errors(l.errors...)

	parseModule(p)

	green, errs := p.sink.Finish()
	zerolog.Ctx(ctx).Debug().
		Int("bytes", len(text)).
		Int("tokens", len(l.tokens)).
		Int("errors", len(errs)).
		Msg("parsed module")

	return &Parse{
		Root:   rowan.NewRoot(syntax.Language{}, green),
		Errors: errs,
	}
}

func parseModule(p *parser) {
	p.start(syntax.Module)
	parseStatementList(p, syntax.EOF)
	p.sink.EndOfFile(syntax.EOF.Raw())
	p.finish()
}
