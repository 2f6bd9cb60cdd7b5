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

package analyze

import (
	"fmt"
	"strings"

	"github.com/rome/tools-sub011/rowan"
)

// Severity is the severity of a [Diagnostic].
type Severity int8

const (
	SeverityHint Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// String implements [fmt.Stringer].
func (s Severity) String() string {
	switch s {
	case SeverityHint:
		return "hint"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int8(s))
	}
}

// Diagnostic is a problem found by a [Rule].
type Diagnostic struct {
	// The rule that produced this diagnostic. Set by [Analyze].
	Rule string

	Severity Severity
	Range    rowan.TextRange
	Message  string
	Notes    []Note
	Help     []string
}

// Note attaches a secondary range to a diagnostic.
type Note struct {
	Range   rowan.TextRange
	Message string
}

// DiagnosticOption is an option that can be applied to a [Diagnostic].
type DiagnosticOption func(*Diagnostic)

// Errorf returns a new error diagnostic.
func Errorf(rng rowan.TextRange, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: SeverityError, Range: rng, Message: fmt.Sprintf(format, args...)}
}

// Warnf returns a new warning diagnostic.
func Warnf(rng rowan.TextRange, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: SeverityWarning, Range: rng, Message: fmt.Sprintf(format, args...)}
}

// Apply applies the given options to this diagnostic.
func (d *Diagnostic) Apply(options ...DiagnosticOption) *Diagnostic {
	for _, option := range options {
		if option != nil {
			option(d)
		}
	}
	return d
}

// Notef returns an option that adds a note on a secondary range.
func Notef(rng rowan.TextRange, format string, args ...any) DiagnosticOption {
	return func(d *Diagnostic) {
		d.Notes = append(d.Notes, Note{Range: rng, Message: fmt.Sprintf(format, args...)})
	}
}

// Helpf returns an option that adds a suggestion for fixing the problem.
func Helpf(format string, args ...any) DiagnosticOption {
	return func(d *Diagnostic) {
		d.Help = append(d.Help, fmt.Sprintf(format, args...))
	}
}

// WithSeverity returns an option that overrides the severity.
func WithSeverity(s Severity) DiagnosticOption {
	return func(d *Diagnostic) { d.Severity = s }
}

// Error implements [error], formatting the diagnostic on a single line.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %v: %s", d.Range, d.Severity, d.Message)
	if d.Rule != "" {
		fmt.Fprintf(&b, " [%s]", d.Rule)
	}
	return b.String()
}
