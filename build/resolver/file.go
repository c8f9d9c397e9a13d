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

package resolver

import (
	"iter"

	"github.com/gx-org/cause/base/ordered"
	"github.com/gx-org/cause/build/ast"
	"github.com/gx-org/cause/build/crumbs"
	"github.com/gx-org/cause/build/fmterr"
	"github.com/gx-org/cause/build/types"
)

// File is a file with the types of its nodes resolved.
type File struct {
	path      string
	file      *ast.File
	entries   *ordered.Map[key, *Entry]
	canonical *ordered.Map[types.CanonicalID, *types.Signal]
	errs      *fmterr.Errors
}

func newFile(in Input, r *resolver) *File {
	f := &File{
		path:      in.Path,
		file:      in.File,
		entries:   r.entries,
		canonical: r.canonical,
		errs:      &fmterr.Errors{},
	}
	f.report()
	return f
}

// report appends a diagnostic for every error which is not a proxy.
func (f *File) report() {
	app := f.errs.NewAppender(f.path)
	seen := make(map[crumbs.Key]bool)
	for _, e := range f.entries.Iter() {
		err := e.Value.Err()
		if err == nil || types.IsProxy(err) {
			continue
		}
		if seen[e.Crumbs.Key()] {
			continue
		}
		seen[e.Crumbs.Key()] = true
		node, findErr := ast.Find(f.file, e.Crumbs)
		if findErr != nil {
			app.Append(fmterr.Internal(findErr))
			continue
		}
		app.AppendAt(node, err)
	}
}

// Path returns the path of the file.
func (f *File) Path() string {
	return f.path
}

// AST returns the syntax tree of the file.
func (f *File) AST() *ast.File {
	return f.file
}

// Errors returns the diagnostics of the file or nil if the file has no error.
func (f *File) Errors() *fmterr.Errors {
	if f.errs.Empty() {
		return nil
	}
	return f.errs
}

// Lookup returns the resolution of a node for a given kind.
func (f *File) Lookup(kind Kind, c crumbs.Crumbs) (types.Value, bool) {
	e, ok := f.entries.Load(keyOf(kind, c))
	if !ok {
		return types.Value{}, false
	}
	return e.Value, true
}

// TypeOf returns the type of a node: its expected type if the node is
// constrained, its inferred type otherwise.
func (f *File) TypeOf(c crumbs.Crumbs) (types.Value, bool) {
	if v, ok := f.Lookup(Expected, c); ok {
		return v, true
	}
	return f.Lookup(Inferred, c)
}

// CheckForRuntimeError returns the error of a node or nil if the node has
// no error.
func (f *File) CheckForRuntimeError(c crumbs.Crumbs) types.LangError {
	if v, ok := f.Lookup(Expected, c); ok && v.Err() != nil {
		return v.Err()
	}
	if v, ok := f.Lookup(Inferred, c); ok {
		return v.Err()
	}
	return nil
}

// Canonical returns a canonical type given its identifier.
func (f *File) Canonical(id types.CanonicalID) (*types.Signal, bool) {
	return f.canonical.Load(id)
}

// Signals returns the canonical types known by the file in registration order.
func (f *File) Signals() []*types.Signal {
	var sigs []*types.Signal
	for sig := range f.canonical.Values() {
		sigs = append(sigs, sig)
	}
	return sigs
}

// Entries returns an iterator over the resolutions in tracking order.
func (f *File) Entries() iter.Seq[*Entry] {
	return f.entries.Values()
}

// Descriptor returns the description of the file for the files importing it.
func (f *File) Descriptor() *ExternalFile {
	ext := &ExternalFile{
		Exports: ordered.NewMap[string, types.Value](),
		Types:   f.Signals(),
	}
	for _, decl := range f.file.Declarations {
		switch decl.(type) {
		case *ast.FunctionDecl, *ast.NamedValueDecl:
		default:
			continue
		}
		c := decl.NodeInfo().Crumbs
		v, ok := f.TypeOf(c)
		if !ok {
			continue
		}
		if v.Err() != nil {
			v = types.Errored(types.ProxyError{Path: f.path, CausedBy: c})
		} else if typ, _ := v.Type(); typ != nil {
			if ref, isRef := typ.(types.TypeReference); isRef {
				if sig, found := f.canonical.Load(ref.ID); found {
					v = types.Resolved(types.Canonical{Signal: sig})
				}
			}
		}
		ext.Exports.Store(decl.DeclaredName(), v)
	}
	return ext
}
