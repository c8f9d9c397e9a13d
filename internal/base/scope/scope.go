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

// Package scope provides lexical scopes: a chain of namespaces in which a name
// is looked up from the innermost scope to the outermost one.
package scope

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/gx-org/cause/base/ordered"
	"golang.org/x/exp/maps"
)

// Scope maps names to values. A scope only sees the values defined in itself
// or in its parents. Parents never see the values of their children.
type Scope[V any] struct {
	parent *Scope[V]
	local  *ordered.Map[string, V]
}

// New returns a new scope given a parent, which can be nil.
func New[V any](parent *Scope[V]) *Scope[V] {
	return &Scope[V]{
		parent: parent,
		local:  ordered.NewMap[string, V](),
	}
}

// NewWithValues returns a root scope with predefined values.
// Values are defined in the alphabetical order of their names.
func NewWithValues[V any](vals map[string]V) *Scope[V] {
	s := New[V](nil)
	names := maps.Keys(vals)
	sort.Strings(names)
	for _, name := range names {
		s.Define(name, vals[name])
	}
	return s
}

// NewChild returns a new scope with s as its parent.
func (s *Scope[V]) NewChild() *Scope[V] {
	return New(s)
}

// Parent returns the parent of the scope or nil for a root scope.
func (s *Scope[V]) Parent() *Scope[V] {
	return s.parent
}

// Define maps a name to a value in the local scope, shadowing any value with
// the same name defined in a parent.
func (s *Scope[V]) Define(name string, v V) {
	s.local.Store(name, v)
}

// Find returns the value associated with a name in the nearest scope
// defining it.
//
// The second return value indicates whether any value was found.
func (s *Scope[V]) Find(name string) (value V, ok bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if value, ok = cur.local.Load(name); ok {
			return
		}
	}
	return
}

// IsLocal returns true if the name is defined in the scope itself,
// ignoring its parents.
func (s *Scope[V]) IsLocal(name string) bool {
	return s.local.Has(name)
}

// LocalKeys returns the names defined in the scope without its parents.
func (s *Scope[V]) LocalKeys() iter.Seq[string] {
	return s.local.Keys()
}

// String representation of the scope.
func (s *Scope[V]) String() string {
	var levels []string
	for cur := s; cur != nil; cur = cur.parent {
		var kvs []string
		for k, v := range cur.local.Iter() {
			kvs = append(kvs, fmt.Sprintf("%s: %v", k, v))
		}
		levels = append(levels, "{"+strings.Join(kvs, ", ")+"}")
	}
	return strings.Join(levels, " -> ")
}
