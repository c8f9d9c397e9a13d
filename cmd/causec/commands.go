// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/gx-org/cause/build/analyzer"
	"github.com/gx-org/cause/build/debug"
	"github.com/gx-org/cause/build/workspace"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
)

func newTagsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tags <fixture>...",
		Short: "Print the tags of the nodes of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := opts.readFixtures(args)
			if err != nil {
				return err
			}
			paths := maps.Keys(files)
			sort.Strings(paths)
			for _, path := range paths {
				doc, err := debug.Tags(analyzer.Analyze(path, files[path]))
				if err != nil {
					return err
				}
				printDoc(cmd.OutOrStdout(), path, doc)
			}
			return nil
		},
	}
}

func newResolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <fixture>...",
		Short: "Print the types of the nodes of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.build(cmd.Context(), args)
			if b == nil {
				return err
			}
			for unit := range b.Units() {
				if unit.Resolved == nil {
					continue
				}
				doc, dumpErr := debug.Resolved(unit.Resolved)
				if dumpErr != nil {
					return dumpErr
				}
				printDoc(cmd.OutOrStdout(), unit.Path, doc)
			}
			return buildError(b, err)
		},
	}
}

func newCompileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <fixture>...",
		Short: "Print the bytecode of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.build(cmd.Context(), args)
			if b == nil {
				return err
			}
			for unit := range b.Units() {
				if unit.Compiled == nil {
					continue
				}
				doc, dumpErr := debug.Compiled(unit.Compiled)
				if dumpErr != nil {
					return dumpErr
				}
				printDoc(cmd.OutOrStdout(), unit.Path, doc)
			}
			return buildError(b, err)
		},
	}
}

func printDoc(w io.Writer, path, doc string) {
	fmt.Fprintf(w, "# %s\n---\n%s", path, doc)
}

// buildError returns the error of a build, or its diagnostics if the build
// did not fail.
func buildError(b *workspace.Build, err error) error {
	if err != nil {
		return err
	}
	return b.Diagnostics().ToError()
}
