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

// Package debug provides assertions that are only checked in debug mode.
//
// Debug mode is on when running under go test, or when the ROME_DEBUG
// environment variable is set to a non-empty value other than "0".
package debug

import (
	"fmt"
	"os"
	"testing"
)

// Enabled is whether debug assertions are checked.
var Enabled = func() bool {
	switch os.Getenv("ROME_DEBUG") {
	case "", "0":
		return testing.Testing()
	default:
		return true
	}
}()

// Assert panics with the given message if cond is false and debug mode is on.
func Assert(cond bool, format string, args ...any) {
	if Enabled && !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
