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

// Package core describes the exports of the core files of the language.
//
// Core files are always available to every file. Names exported by
// core/builtin.cau are global: they are in scope without import.
package core

import (
	"github.com/gx-org/cause/base/ordered"
	"github.com/gx-org/cause/base/uname"
	"github.com/gx-org/cause/build/types"
)

// Paths of the core files.
const (
	BuiltinPath = "core/builtin.cau"
	StringPath  = "core/string.cau"
)

// Names of the core signals.
const (
	DebugName            = "Debug"
	TypeErrorName        = "TypeError"
	AssumptionBrokenName = "AssumptionBroken"
)

// Exports maps the names exported by a file to their types.
type Exports = ordered.Map[string, types.Type]

type fileBuilder struct {
	path    string
	names   *uname.Unique
	exports *Exports
}

func newFile(path string) *fileBuilder {
	return &fileBuilder{
		path:    path,
		names:   uname.New(),
		exports: ordered.NewMap[string, types.Type](),
	}
}

func (f *fileBuilder) export(name string, typ types.Type) {
	f.exports.Store(name, typ)
}

func (f *fileBuilder) signal(name string, result types.Type, params ...types.Param) {
	f.export(name, types.Canonical{Signal: &types.Signal{
		ID: types.CanonicalID{
			Path:   f.path,
			Name:   name,
			Number: f.names.Number(name),
		},
		Name:   name,
		Params: params,
		Result: result,
	}})
}

func param(name string, typ types.Type) types.Param {
	return types.Param{Name: name, Type: typ}
}

func builtinFile() *Exports {
	f := newFile(BuiltinPath)
	for _, kind := range types.Primitives() {
		f.export(kind.String(), types.PrimitiveType{Kind: kind})
	}
	str := types.Primitive{Kind: types.String}
	f.signal(DebugName, types.Primitive{Kind: types.Action}, param("message", str))
	f.signal(TypeErrorName, types.NeverContinues{}, param("error", types.BadValue{}))
	f.signal(AssumptionBrokenName, types.NeverContinues{}, param("message", str))
	return f.exports
}

func stringFile() *Exports {
	f := newFile(StringPath)
	str := types.Primitive{Kind: types.String}
	f.export("append", &types.Function{
		Name:   "append",
		Params: []types.Param{param("this", str), param("other", str)},
		Return: types.Resolved(str),
	})
	return f.exports
}

// Files returns the exports of all the core files, keyed by path.
// A new set of descriptors is returned for each call.
func Files() map[string]*Exports {
	return map[string]*Exports{
		BuiltinPath: builtinFile(),
		StringPath:  stringFile(),
	}
}

// GlobalNames returns the names in scope in every file.
func GlobalNames() []string {
	var names []string
	for name := range builtinFile().Keys() {
		names = append(names, name)
	}
	return names
}

// IsCore returns true if a path is the path of a core file.
func IsCore(path string) bool {
	return path == BuiltinPath || path == StringPath
}
