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

// Package resolver infers the types of the nodes of a file from their tags.
//
// Resolution is a fixed point: every pass tries to resolve the pending
// nodes of a worklist given what is already known. The results of a pass
// are committed together at the end of the pass, and a resolved node is
// never resolved again. Resolution stops when a pass resolves nothing.
// Nodes still pending at that point cannot be resolved.
package resolver

import (
	"fmt"

	"github.com/gx-org/cause/base/ordered"
	"github.com/gx-org/cause/build/ast"
	"github.com/gx-org/cause/build/core"
	"github.com/gx-org/cause/build/crumbs"
	"github.com/gx-org/cause/build/tags"
	"github.com/gx-org/cause/build/types"
)

type (
	// Kind is the kind of resolution of a node.
	Kind int

	// ExternalFile describes what a file exports to the files importing it.
	ExternalFile struct {
		// Exports maps exported names to their values.
		Exports *ordered.Map[string, types.Value]
		// Types are the canonical types known by the file.
		Types []*types.Signal
	}

	// Input of the resolver.
	Input struct {
		Path  string
		File  *ast.File
		Graph *tags.Graph
		// External maps the paths of other files to their descriptors.
		// Core files are always available.
		External map[string]*ExternalFile
	}

	// Entry is the resolution of a node.
	Entry struct {
		Kind   Kind
		Crumbs crumbs.Crumbs
		Value  types.Value
	}
)

const (
	// Inferred is the type inferred from the value of a node.
	Inferred Kind = iota
	// Expected is the type a node is constrained to by a type annotation.
	Expected
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Inferred:
		return "inferred"
	case Expected:
		return "expected"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type key struct {
	kind   Kind
	crumbs crumbs.Key
}

func keyOf(kind Kind, c crumbs.Crumbs) key {
	return key{kind: kind, crumbs: c.Key()}
}

// CoreFiles returns the descriptors of the core files.
func CoreFiles() map[string]*ExternalFile {
	files := make(map[string]*ExternalFile)
	for path, exports := range core.Files() {
		ext := &ExternalFile{Exports: ordered.NewMap[string, types.Value]()}
		for name, typ := range exports.Iter() {
			ext.Exports.Store(name, types.Resolved(typ))
		}
		files[path] = ext
	}
	return files
}

type step struct {
	kind   Kind
	crumbs crumbs.Crumbs
	value  types.Value
}

type resolver struct {
	path      string
	graph     *tags.Graph
	external  map[string]*ExternalFile
	entries   *ordered.Map[key, *Entry]
	canonical *ordered.Map[types.CanonicalID, *types.Signal]

	// steps to commit at the end of the current pass.
	steps []step
	// passes is the number of passes run so far.
	passes int
}

// Resolve infers the types of the nodes of a file.
func Resolve(in Input) *File {
	r := &resolver{
		path:      in.Path,
		graph:     in.Graph,
		external:  make(map[string]*ExternalFile),
		entries:   ordered.NewMap[key, *Entry](),
		canonical: ordered.NewMap[types.CanonicalID, *types.Signal](),
	}
	for path, ext := range in.External {
		r.external[path] = ext
		for _, sig := range ext.Types {
			r.canonical.Store(sig.ID, sig)
		}
	}
	for path, ext := range CoreFiles() {
		r.external[path] = ext
	}
	r.seed(in.File)
	r.run()
	return newFile(in, r)
}

func (r *resolver) track(kind Kind, c crumbs.Crumbs) {
	k := keyOf(kind, c)
	if r.entries.Has(k) {
		return
	}
	r.entries.Store(k, &Entry{Kind: kind, Crumbs: c})
}

// seed tracks the expressions, the nodes of a primitive type (including
// declaration statements), the constraints, and the top-level declarations
// declaring a value.
func (r *resolver) seed(file *ast.File) {
	for n := range r.graph.Nodes() {
		for _, tag := range n.Tags {
			switch tag.(type) {
			case tags.Expression, tags.IsPrimitiveValue:
				r.track(Inferred, n.Crumbs)
			case tags.BasicConstraint:
				r.track(Expected, n.Crumbs)
			}
		}
	}
	for _, decl := range tags.FindAll[tags.ScopeContainsDeclaration](r.graph, file.Crumbs) {
		_, isFunc := tags.Find[tags.IsFunction](r.graph, decl.Declaration)
		_, isValue := tags.Find[tags.NamedValue](r.graph, decl.Declaration)
		if isFunc || isValue {
			r.track(Inferred, decl.Declaration)
		}
	}
}

func (r *resolver) pendingKeys() []key {
	var keys []key
	for k, e := range r.entries.Iter() {
		if e.Value.IsPending() {
			keys = append(keys, k)
		}
	}
	return keys
}

func (r *resolver) run() {
	worklist := r.pendingKeys()
	for {
		r.passes++
		for _, k := range worklist {
			e, _ := r.entries.Load(k)
			if !e.Value.IsPending() {
				continue
			}
			if v, ok := r.resolve(e); ok {
				r.steps = append(r.steps, step{kind: e.Kind, crumbs: e.Crumbs, value: v})
			}
		}
		seeded, changes := r.commit()
		if changes == 0 {
			break
		}
		var next []key
		for _, k := range worklist {
			if e, _ := r.entries.Load(k); e.Value.IsPending() {
				next = append(next, k)
			}
		}
		worklist = append(next, seeded...)
	}
	for _, k := range r.pendingKeys() {
		e, _ := r.entries.Load(k)
		r.steps = append(r.steps, step{kind: e.Kind, crumbs: e.Crumbs, value: types.Errored(types.NeverResolved{})})
	}
	r.commit()
}

// commit applies the steps of a pass. It returns the keys of the newly
// tracked nodes and the number of changes.
func (r *resolver) commit() (seeded []key, changes int) {
	steps := r.steps
	r.steps = nil
	for _, s := range steps {
		k := keyOf(s.kind, s.crumbs)
		e, exists := r.entries.Load(k)
		if s.value.IsPending() {
			if !exists {
				r.entries.Store(k, &Entry{Kind: s.kind, Crumbs: s.crumbs})
				seeded = append(seeded, k)
				changes++
			}
			continue
		}
		if exists && !e.Value.IsPending() {
			panic(fmt.Sprintf("clobbering resolved %s type of %q (%s) with %s", s.kind, s.crumbs, e.Value, s.value))
		}
		value := s.value
		if typ, ok := value.Type(); ok {
			if canonical, ok := typ.(types.Canonical); ok {
				r.canonical.Store(canonical.Signal.ID, canonical.Signal)
				value = types.Resolved(types.TypeReference{ID: canonical.Signal.ID})
			}
		}
		if !exists {
			e = &Entry{Kind: s.kind, Crumbs: s.crumbs}
			r.entries.Store(k, e)
		}
		e.Value = value
		changes++
	}
	return seeded, changes
}

// load returns the value of a node for a given kind of resolution.
// Untracked nodes are tracked from the next pass and are pending until then.
func (r *resolver) load(kind Kind, c crumbs.Crumbs) types.Value {
	if e, ok := r.entries.Load(keyOf(kind, c)); ok {
		return e.Value
	}
	r.steps = append(r.steps, step{kind: kind, crumbs: c, value: types.Pending()})
	return types.Pending()
}

// typeOf returns the type of a node, preferring the expected type.
func (r *resolver) typeOf(c crumbs.Crumbs) types.Value {
	if e, ok := r.entries.Load(keyOf(Expected, c)); ok {
		return e.Value
	}
	return r.load(Inferred, c)
}

func (r *resolver) resolve(e *Entry) (types.Value, bool) {
	for _, tag := range r.graph.Tags(e.Crumbs) {
		var v types.Value
		var ok bool
		switch e.Kind {
		case Inferred:
			v, ok = r.inferred(e.Crumbs, tag)
		case Expected:
			v, ok = r.expected(e.Crumbs, tag)
		}
		if ok {
			return v, true
		}
	}
	return types.Value{}, false
}

func proxy(c crumbs.Crumbs) types.Value {
	return types.Errored(types.ProxyError{CausedBy: c})
}

func errored(err types.LangError) (types.Value, bool) {
	return types.Errored(err), true
}

// assignable returns true if a value of type actual can be used where a
// value of type expected is required.
func assignable(expected, actual types.Type) bool {
	if _, never := actual.(types.NeverContinues); never {
		return true
	}
	return types.Equal(expected, actual)
}
