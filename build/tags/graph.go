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

package tags

import (
	"fmt"
	"iter"
	"sort"

	"github.com/gx-org/cause/base/ordered"
	"github.com/gx-org/cause/build/crumbs"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
)

// Node is a node of the graph: a breadcrumb and its tags in insertion order.
type Node struct {
	Crumbs crumbs.Crumbs
	Tags   []Tag
}

// Graph stores the tags of the nodes of a file and the set of files the
// file refers to.
type Graph struct {
	nodes *ordered.Map[crumbs.Key, *Node]
	files map[string]bool
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: ordered.NewMap[crumbs.Key, *Node](),
		files: make(map[string]bool),
	}
}

func (g *Graph) append(c crumbs.Crumbs, tag Tag) {
	g.nodes.Update(c.Key(), func(n *Node, ok bool) *Node {
		if !ok {
			n = &Node{Crumbs: c}
		}
		n.Tags = append(n.Tags, tag)
		return n
	})
}

// Add a tag to a node. If the tag has an inverse, the inverse is added to
// the node the tag refers to.
func (g *Graph) Add(c crumbs.Crumbs, tag Tag) {
	g.append(c, tag)
	if other, inv, ok := Inverse(tag, c); ok {
		g.append(other, inv)
	}
}

// AddFile records a file referred to by the graph.
func (g *Graph) AddFile(path string) {
	g.files[path] = true
}

// Files returns the paths of the files referred to by the graph, sorted.
func (g *Graph) Files() []string {
	paths := maps.Keys(g.files)
	sort.Strings(paths)
	return paths
}

// Tags returns the tags of a node in insertion order.
func (g *Graph) Tags(c crumbs.Crumbs) []Tag {
	n, ok := g.nodes.Load(c.Key())
	if !ok {
		return nil
	}
	return n.Tags
}

// Has returns true if the node has at least one tag.
func (g *Graph) Has(c crumbs.Crumbs) bool {
	return g.nodes.Has(c.Key())
}

// Nodes returns an iterator over the nodes of the graph in insertion order.
func (g *Graph) Nodes() iter.Seq[*Node] {
	return g.nodes.Values()
}

// Size returns the number of nodes with tags.
func (g *Graph) Size() int {
	return g.nodes.Size()
}

// Merge appends the tags and files of another graph to this graph.
func (g *Graph) Merge(other *Graph) {
	for n := range other.Nodes() {
		for _, tag := range n.Tags {
			g.append(n.Crumbs, tag)
		}
	}
	for path := range other.files {
		g.AddFile(path)
	}
}

// CheckInverses returns an error if a tag with an inverse is stored
// without its inverse.
func (g *Graph) CheckInverses() error {
	for n := range g.Nodes() {
		for _, tag := range n.Tags {
			other, inv, ok := Inverse(tag, n.Crumbs)
			if !ok {
				continue
			}
			if !g.contains(other, inv) {
				return errors.Errorf("tag %s at %q has no inverse %s at %q", tag, n.Crumbs, inv, other)
			}
		}
	}
	return nil
}

func (g *Graph) contains(c crumbs.Crumbs, tag Tag) bool {
	for _, t := range g.Tags(c) {
		if Equal(t, tag) {
			return true
		}
	}
	return false
}

// Equal returns true if two tags are of the same kind with the same content.
func Equal(a, b Tag) bool {
	return fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b) && a.String() == b.String()
}

// Find returns the first tag of type T of a node.
func Find[T Tag](g *Graph, c crumbs.Crumbs) (T, bool) {
	for _, tag := range g.Tags(c) {
		if t, ok := tag.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// FindAll returns all the tags of type T of a node.
func FindAll[T Tag](g *Graph, c crumbs.Crumbs) []T {
	var ts []T
	for _, tag := range g.Tags(c) {
		if t, ok := tag.(T); ok {
			ts = append(ts, t)
		}
	}
	return ts
}
