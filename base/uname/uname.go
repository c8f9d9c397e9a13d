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

// Package uname provides disambiguation numbers for names declared more than
// once in the same namespace.
package uname

import "strings"

// Unique hands out a disambiguation number per name.
type Unique struct {
	next map[string]int
}

// New returns a new generator.
func New() *Unique {
	return &Unique{next: make(map[string]int)}
}

// Number returns the disambiguation number of a new declaration of a name.
// The first declaration of a name gets 0, the second 1, and so on.
// A name can be qualified by any number of parent names.
func (n *Unique) Number(name string, parents ...string) int {
	key := nameKey(name, parents)
	num := n.next[key]
	n.next[key] = num + 1
	return num
}

// Count returns how many numbers have been handed out for a name.
func (n *Unique) Count(name string, parents ...string) int {
	return n.next[nameKey(name, parents)]
}

func nameKey(name string, parents []string) string {
	return strings.Join(append(append([]string(nil), parents...), name), "\x00")
}
