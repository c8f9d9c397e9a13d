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

// Package crumbs provides breadcrumbs: structural paths addressing nodes in a
// cause AST.
//
// A breadcrumb is a sequence of entries. Each entry is either the name of a
// field of a node (e.g. "body") or an index in a list of nodes. Breadcrumbs
// are values: operations never modify the receiver.
package crumbs

import (
	"strconv"
	"strings"
)

// Entry is a step in a breadcrumb.
type Entry struct {
	name  string
	index int
}

// Name returns an entry selecting a field of a node.
func Name(name string) Entry {
	return Entry{name: name, index: -1}
}

// Index returns an entry selecting an element in a list of nodes.
func Index(i int) Entry {
	return Entry{index: i}
}

// IsIndex returns true if the entry is a list index.
func (e Entry) IsIndex() bool {
	return e.name == "" && e.index >= 0
}

// FieldName returns the field name of the entry or an empty string for indices.
func (e Entry) FieldName() string {
	return e.name
}

// ListIndex returns the index of the entry or -1 for field names.
func (e Entry) ListIndex() int {
	if !e.IsIndex() {
		return -1
	}
	return e.index
}

// String returns the entry as it appears in a breadcrumb.
func (e Entry) String() string {
	if e.IsIndex() {
		return strconv.Itoa(e.index)
	}
	return e.name
}

// Crumbs is a structural path from the root of a file to a node.
type Crumbs struct {
	entries []Entry
}

// New returns a breadcrumb from a list of entries.
func New(entries ...Entry) Crumbs {
	return Crumbs{entries: append([]Entry(nil), entries...)}
}

// Root returns the breadcrumb of the root of a file.
func Root() Crumbs {
	return Crumbs{}
}

// Append returns a new breadcrumb with an entry added at the end.
func (c Crumbs) Append(e Entry) Crumbs {
	entries := make([]Entry, len(c.entries), len(c.entries)+1)
	copy(entries, c.entries)
	return Crumbs{entries: append(entries, e)}
}

// AppendName returns a new breadcrumb selecting a field.
func (c Crumbs) AppendName(name string) Crumbs {
	return c.Append(Name(name))
}

// AppendIndex returns a new breadcrumb selecting an element in a list.
func (c Crumbs) AppendIndex(i int) Crumbs {
	return c.Append(Index(i))
}

// PopStart splits a breadcrumb into its first entry and the remainder.
// It panics if the breadcrumb is empty.
func (c Crumbs) PopStart() (Entry, Crumbs) {
	return c.entries[0], Crumbs{entries: c.entries[1:]}
}

// Len returns the number of entries.
func (c Crumbs) Len() int {
	return len(c.entries)
}

// IsEmpty returns true for the root breadcrumb.
func (c Crumbs) IsEmpty() bool {
	return len(c.entries) == 0
}

// Entries returns a copy of the entries of the breadcrumb.
func (c Crumbs) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Equal returns true if both breadcrumbs have the same entries.
func (c Crumbs) Equal(other Crumbs) bool {
	if len(c.entries) != len(other.entries) {
		return false
	}
	for i, e := range c.entries {
		if e != other.entries[i] {
			return false
		}
	}
	return true
}

// HasPrefix returns true if the breadcrumb starts with all the entries of prefix.
func (c Crumbs) HasPrefix(prefix Crumbs) bool {
	if len(prefix.entries) > len(c.entries) {
		return false
	}
	return Crumbs{entries: c.entries[:len(prefix.entries)]}.Equal(prefix)
}

// Key returns a string uniquely identifying the breadcrumb.
// Two breadcrumbs are equal if and only if their keys are equal.
func (c Crumbs) Key() Key {
	var b strings.Builder
	for _, e := range c.entries {
		if e.IsIndex() {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(e.index))
			b.WriteByte(']')
			continue
		}
		b.WriteByte('/')
		b.WriteString(e.name)
	}
	return Key(b.String())
}

// String returns the entries joined with dots.
func (c Crumbs) String() string {
	ss := make([]string, len(c.entries))
	for i, e := range c.entries {
		ss[i] = e.String()
	}
	return strings.Join(ss, ".")
}

// Key is a comparable representation of a breadcrumb.
type Key string
