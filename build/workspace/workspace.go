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

// Package workspace builds a set of cause files.
//
// Each file is analyzed, resolved and compiled once all the files it
// imports have been resolved. Files which do not depend on each other are
// built concurrently.
package workspace

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"sort"
	"strings"
	gosync "sync"

	"github.com/gx-org/cause/base/ordered"
	"github.com/gx-org/cause/base/sync"
	"github.com/gx-org/cause/build/analyzer"
	"github.com/gx-org/cause/build/ast"
	"github.com/gx-org/cause/build/compiled"
	"github.com/gx-org/cause/build/compiler"
	"github.com/gx-org/cause/build/fmterr"
	"github.com/gx-org/cause/build/resolver"
	"github.com/gx-org/cause/build/tags"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"
)

// ErrImportCycle is returned when files import each other.
var ErrImportCycle = errors.New("import cycle")

type (
	// Option configures a workspace.
	Option func(*Workspace)

	// Workspace builds files given descriptors of files built elsewhere.
	Workspace struct {
		logger      *slog.Logger
		external    map[string]*resolver.ExternalFile
		concurrency int
	}
)

// WithLogger sets the logger of the workspace.
func WithLogger(logger *slog.Logger) Option {
	return func(ws *Workspace) {
		ws.logger = logger
	}
}

// WithExternal makes the descriptor of a file which is not built by the
// workspace available to the files being built.
func WithExternal(path string, ext *resolver.ExternalFile) Option {
	return func(ws *Workspace) {
		ws.external[path] = ext
	}
}

// WithConcurrency sets the maximum number of files built at the same time.
// A value below 1 means no limit.
func WithConcurrency(n int) Option {
	return func(ws *Workspace) {
		ws.concurrency = n
	}
}

// New returns a new workspace.
func New(opts ...Option) *Workspace {
	ws := &Workspace{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		external: make(map[string]*resolver.ExternalFile),
	}
	for _, opt := range opts {
		opt(ws)
	}
	return ws
}

type (
	// Unit is a file built by the workspace.
	Unit struct {
		Path     string
		File     *ast.File
		Graph    *tags.Graph
		Resolved *resolver.File
		Compiled *compiled.File

		// deps are the paths of the files of the workspace imported by the file.
		deps []string
		done chan struct{}
	}

	// Build is the result of building files.
	Build struct {
		units       *ordered.Map[string, *Unit]
		descriptors sync.Map[string, *resolver.ExternalFile]
	}
)

// Units returns the units of the build, dependencies first.
func (b *Build) Units() iter.Seq[*Unit] {
	return b.units.Values()
}

// Unit returns the unit of a file.
func (b *Build) Unit(path string) (*Unit, bool) {
	return b.units.Load(path)
}

// Descriptor returns the descriptor published by a file once resolved.
func (b *Build) Descriptor(path string) (*resolver.ExternalFile, bool) {
	return b.descriptors.Load(path)
}

// Diagnostics returns the errors found in the source of all the files.
func (b *Build) Diagnostics() *fmterr.Errors {
	errs := &fmterr.Errors{}
	for unit := range b.units.Values() {
		if unit.Resolved == nil {
			continue
		}
		for _, err := range unit.Resolved.Errors().Errors() {
			errs.Append(err)
		}
	}
	if errs.Empty() {
		return nil
	}
	return errs
}

type asyncErrors struct {
	locker gosync.Mutex
	errs   error
}

func (ae *asyncErrors) add(err error) {
	ae.locker.Lock()
	defer ae.locker.Unlock()

	ae.errs = multierr.Append(ae.errs, err)
}

func (ae *asyncErrors) errors() error {
	ae.locker.Lock()
	defer ae.locker.Unlock()

	return ae.errs
}

// Build analyzes, resolves and compiles a set of files given their paths.
// The build is returned with the units which could be compiled, even if an
// error is returned.
func (ws *Workspace) Build(ctx context.Context, files map[string]*ast.File) (*Build, error) {
	units := make(map[string]*Unit, len(files))
	for path, file := range files {
		units[path] = &Unit{
			Path:  path,
			File:  file,
			Graph: analyzer.Analyze(path, file),
			done:  make(chan struct{}),
		}
	}
	for _, unit := range units {
		for _, dep := range unit.Graph.Files() {
			if _, ok := units[dep]; ok {
				unit.deps = append(unit.deps, dep)
			}
		}
	}
	order, err := sortUnits(units)
	b := &Build{units: ordered.NewMap[string, *Unit]()}
	if err != nil {
		return b, err
	}
	for _, unit := range order {
		b.units.Store(unit.Path, unit)
	}
	ws.logger.Info("workspace.start", "files", len(order), "external", len(ws.external))

	var errs asyncErrors
	g, gctx := errgroup.WithContext(ctx)
	if ws.concurrency > 0 {
		g.SetLimit(ws.concurrency)
	}
	for _, unit := range order {
		g.Go(func() error {
			return ws.buildUnit(gctx, b, units, unit, &errs)
		})
	}
	if err := g.Wait(); err != nil {
		return b, err
	}
	ws.logger.Info("workspace.done", "files", len(order))
	return b, errs.errors()
}

func (ws *Workspace) buildUnit(ctx context.Context, b *Build, units map[string]*Unit, unit *Unit, errs *asyncErrors) error {
	defer close(unit.done)
	external := make(map[string]*resolver.ExternalFile, len(ws.external)+len(unit.deps))
	for path, ext := range ws.external {
		external[path] = ext
	}
	for _, dep := range unit.deps {
		select {
		case <-units[dep].done:
		case <-ctx.Done():
			return ctx.Err()
		}
		ext, ok := b.descriptors.Load(dep)
		if !ok {
			return fmterr.Internal(errors.Errorf("%s: descriptor of dependency %s has not been published", unit.Path, dep))
		}
		external[dep] = ext
	}
	logger := ws.logger.With("file", unit.Path)
	unit.Resolved = resolver.Resolve(resolver.Input{
		Path:     unit.Path,
		File:     unit.File,
		Graph:    unit.Graph,
		External: external,
	})
	if !b.descriptors.StoreOnce(unit.Path, unit.Resolved.Descriptor()) {
		return fmterr.Internal(errors.Errorf("descriptor of %s published twice", unit.Path))
	}
	logger.Debug("workspace.resolved", "diagnostics", len(unit.Resolved.Errors().Errors()))
	out, err := compiler.Compile(compiler.Input{
		File:     unit.File,
		Graph:    unit.Graph,
		Resolved: unit.Resolved,
	})
	unit.Compiled = out
	if err != nil {
		logger.Warn("workspace.compile.err", "err", err)
		prefix := fmterr.PrefixWith("compiling %s: ", unit.Path)
		var fileErrs *fmterr.Errors
		if !errors.As(err, &fileErrs) {
			errs.add(prefix(err))
			return nil
		}
		for _, fileErr := range fileErrs.Transform(prefix).Errors() {
			errs.add(fileErr)
		}
		return nil
	}
	logger.Debug("workspace.compiled", "chunks", len(out.Chunks))
	return nil
}

// sortUnits returns the units such that every unit comes after the units
// it depends on. Units are visited by path for the order to be stable.
func sortUnits(units map[string]*Unit) ([]*Unit, error) {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[string]int, len(units))
	var order []*Unit
	var stack []string
	var visit func(path string) error
	visit = func(path string) error {
		switch state[path] {
		case visited:
			return nil
		case visiting:
			start := 0
			for i, p := range stack {
				if p == path {
					start = i
				}
			}
			cycle := append(append([]string{}, stack[start:]...), path)
			return errors.Wrapf(ErrImportCycle, "%s", strings.Join(cycle, " -> "))
		}
		state[path] = visiting
		stack = append(stack, path)
		unit := units[path]
		deps := append([]string{}, unit.deps...)
		sort.Strings(deps)
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[path] = visited
		order = append(order, unit)
		return nil
	}
	paths := maps.Keys(units)
	sort.Strings(paths)
	for _, path := range paths {
		if err := visit(path); err != nil {
			return nil, err
		}
	}
	return order, nil
}
