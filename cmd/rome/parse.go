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
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/rome/tools-sub011/js/parser"
	"github.com/rome/tools-sub011/rowan"
)

func newParseCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "parse path",
		Short: "Print the syntax tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := afero.ReadFile(a.fs, a.abs(args[0]))
			if err != nil {
				return errors.WithStack(err)
			}
			parse := parser.ParseContext(cmd.Context(), string(data), parser.Options{})

			switch output {
			case "text":
				cmd.Print(rowan.Dump(parse.Root))
				for _, e := range parse.Errors {
					cmd.Println("error:", e)
				}
			case "yaml":
				doc := parseDocument{Tree: yamlTree(parse.Root)}
				for _, e := range parse.Errors {
					doc.Errors = append(doc.Errors, e.Error())
				}
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(doc); err != nil {
					return errors.WithStack(err)
				}
				return errors.WithStack(enc.Close())
			default:
				return errors.Errorf("unknown --output %q; must be text or yaml", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "the output format: text or yaml")
	return cmd
}

type parseDocument struct {
	Tree   *treeElement `yaml:"tree"`
	Errors []string     `yaml:"errors,omitempty"`
}

// treeElement is a node or token of a syntax tree, as written to YAML.
type treeElement struct {
	Kind     string         `yaml:"kind"`
	Range    string         `yaml:"range"`
	Text     string         `yaml:"text,omitempty"`
	Leading  string         `yaml:"leading,omitempty"`
	Trailing string         `yaml:"trailing,omitempty"`
	Children []*treeElement `yaml:"children,omitempty"`
}

func yamlTree(node rowan.SyntaxNode) *treeElement {
	out := &treeElement{Kind: node.KindName(), Range: node.TextRange().String()}
	for elem := range node.ChildrenWithTokens() {
		if elem.IsNode() {
			out.Children = append(out.Children, yamlTree(elem.Node()))
			continue
		}
		tok := elem.Token()
		green := tok.Green()
		out.Children = append(out.Children, &treeElement{
			Kind:     tok.KindName(),
			Range:    tok.TextRange().String(),
			Text:     green.TextTrimmed(),
			Leading:  green.TextLeadingTrivia(),
			Trailing: green.TextTrailingTrivia(),
		})
	}
	return out
}
