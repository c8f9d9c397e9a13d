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
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gx-org/cause/build/ast"
	"github.com/gx-org/cause/build/ast/astyaml"
	"github.com/gx-org/cause/build/module"
	"github.com/gx-org/cause/build/workspace"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const fixtureExtension = ".yaml"

type options struct {
	root        string
	verbose     bool
	concurrency int
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "causec",
		Short: "causec analyzes, resolves and compiles cause syntax trees",
		Long: `causec runs the cause front-end on syntax trees stored as YAML fixtures.

Examples:
  causec tags main.cau.yaml
  causec resolve --root=testdata testdata/project/*.yaml
  causec compile -v main.cau.yaml lib.cau.yaml`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.root, "root", ".", "Root directory of the workspace")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log the progress of the build on stderr")
	cmd.PersistentFlags().IntVar(&opts.concurrency, "concurrency", 0, "Maximum number of files built at the same time (0 for no limit)")
	cmd.AddCommand(
		newTagsCmd(opts),
		newResolveCmd(opts),
		newCompileCmd(opts),
	)
	return cmd
}

func (opts *options) logger() *slog.Logger {
	if !opts.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// workspacePath returns the path in the workspace of a fixture.
func (opts *options) workspacePath(fixture string) (string, error) {
	rel, err := filepath.Rel(opts.root, fixture)
	if err != nil {
		return "", errors.WithStack(err)
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasSuffix(rel, fixtureExtension) {
		return "", errors.Errorf("%s: fixture has no %s extension", fixture, fixtureExtension)
	}
	path := strings.TrimSuffix(rel, fixtureExtension)
	if err := module.Check(path); err != nil {
		return "", errors.Wrapf(err, "%s", fixture)
	}
	return path, nil
}

// readFixtures decodes syntax trees given the paths of their fixtures.
func (opts *options) readFixtures(fixtures []string) (map[string]*ast.File, error) {
	files := make(map[string]*ast.File, len(fixtures))
	for _, fixture := range fixtures {
		path, err := opts.workspacePath(fixture)
		if err != nil {
			return nil, err
		}
		src, err := os.ReadFile(fixture)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		file, err := astyaml.Decode(src)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", fixture)
		}
		files[path] = file
	}
	return files, nil
}

func (opts *options) build(ctx context.Context, fixtures []string) (*workspace.Build, error) {
	files, err := opts.readFixtures(fixtures)
	if err != nil {
		return nil, err
	}
	ws := workspace.New(
		workspace.WithLogger(opts.logger()),
		workspace.WithConcurrency(opts.concurrency),
	)
	return ws.Build(ctx, files)
}
