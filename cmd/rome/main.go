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

// Command rome formats and lints JavaScript.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/rome/tools-sub011/internal/metrics"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	a := &app{
		fs:     afero.NewOsFs(),
		cwd:    cwd,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	if err := newRootCommand(a).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the state shared by every command.
type app struct {
	fs             afero.Fs
	cwd            string
	stdout, stderr io.Writer

	logLevel string
	debug    bool
	metrics  bool
	color    bool
	jobs     int

	registry *metrics.Registry
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "rome",
		Short:         "A formatter and linter for JavaScript",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version(),
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "warn", "the minimum level of log messages to print")
	flags.BoolVar(&a.debug, "debug", false, "print debug logs; same as --log-level=debug")
	flags.BoolVar(&a.metrics, "metrics", false, "print timing metrics when done")
	flags.BoolVar(&a.color, "color", false, "color diffs with terminal escape sequences")
	flags.IntVarP(&a.jobs, "jobs", "j", 0, "the number of files to process at once; 0 means one per CPU")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		level, err := zerolog.ParseLevel(a.logLevel)
		if err != nil {
			return errors.Errorf("invalid --log-level: %w", err)
		}
		if a.debug {
			level = zerolog.DebugLevel
		}
		logger := zerolog.New(zerolog.ConsoleWriter{Out: a.stderr, NoColor: !a.color}).
			Level(level).With().Timestamp().Logger()

		ctx := logger.WithContext(cmd.Context())
		if a.metrics {
			a.registry = metrics.NewRegistry()
			ctx = metrics.WithRegistry(ctx, a.registry)
		}
		cmd.SetContext(ctx)
		return nil
	}
	root.PersistentPostRunE = func(*cobra.Command, []string) error {
		if a.registry == nil {
			return nil
		}
		return errors.WithStack(a.registry.Report(a.stderr))
	}

	root.AddCommand(
		newFormatCommand(a),
		newCheckCommand(a),
		newParseCommand(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version of rome",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				cmd.Println(root.Version)
			},
		},
	)
	return root
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "unknown"
	}
	return info.Main.Version
}
