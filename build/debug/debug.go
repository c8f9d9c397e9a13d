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

// Package debug dumps the intermediate representations of a file as YAML.
package debug

import (
	"fmt"

	"github.com/gx-org/cause/build/compiled"
	"github.com/gx-org/cause/build/resolver"
	"github.com/gx-org/cause/build/tags"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	tagsDoc struct {
		Files []string  `yaml:"files,omitempty"`
		Nodes []nodeDoc `yaml:"nodes"`
	}

	nodeDoc struct {
		Crumbs string   `yaml:"crumbs"`
		Tags   []string `yaml:"tags"`
	}

	resolvedDoc struct {
		Path    string     `yaml:"path"`
		Types   []string   `yaml:"types,omitempty"`
		Entries []entryDoc `yaml:"entries"`
		Errors  []string   `yaml:"errors,omitempty"`
	}

	entryDoc struct {
		Kind   string `yaml:"kind"`
		Crumbs string `yaml:"crumbs"`
		Value  string `yaml:"value"`
	}

	compiledDoc struct {
		Path    string      `yaml:"path"`
		Types   []string    `yaml:"types,omitempty"`
		Exports []exportDoc `yaml:"exports"`
		Chunks  []chunkDoc  `yaml:"chunks"`
	}

	exportDoc struct {
		Name  string `yaml:"name"`
		Value string `yaml:"value"`
	}

	chunkDoc struct {
		Constants    []string `yaml:"constants,omitempty"`
		Instructions []string `yaml:"instructions"`
	}
)

func crumbsString(s fmt.Stringer) string {
	str := s.String()
	if str == "" {
		return "."
	}
	return str
}

func marshal(doc any) (string, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(out), nil
}

// Tags returns the tags of a graph as a YAML document.
func Tags(g *tags.Graph) (string, error) {
	doc := tagsDoc{Files: g.Files()}
	for node := range g.Nodes() {
		nd := nodeDoc{Crumbs: crumbsString(node.Crumbs)}
		for _, tag := range node.Tags {
			nd.Tags = append(nd.Tags, tag.String())
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	return marshal(doc)
}

// Resolved returns the resolutions of a file as a YAML document.
func Resolved(f *resolver.File) (string, error) {
	doc := resolvedDoc{Path: f.Path()}
	for _, sig := range f.Signals() {
		doc.Types = append(doc.Types, sig.String())
	}
	for entry := range f.Entries() {
		doc.Entries = append(doc.Entries, entryDoc{
			Kind:   entry.Kind.String(),
			Crumbs: crumbsString(entry.Crumbs),
			Value:  entry.Value.String(),
		})
	}
	for _, err := range f.Errors().Errors() {
		doc.Errors = append(doc.Errors, err.Error())
	}
	return marshal(doc)
}

// Compiled returns a compiled file as a YAML document.
func Compiled(f *compiled.File) (string, error) {
	doc := compiledDoc{Path: f.Path}
	for _, sig := range f.Types {
		doc.Types = append(doc.Types, sig.String())
	}
	for name, exp := range f.Exports.Iter() {
		doc.Exports = append(doc.Exports, exportDoc{Name: name, Value: exp.String()})
	}
	for _, ch := range f.Chunks {
		cd := chunkDoc{}
		for _, c := range ch.Constants {
			cd.Constants = append(cd.Constants, c.String())
		}
		for _, inst := range ch.Instructions {
			cd.Instructions = append(cd.Instructions, inst.String())
		}
		doc.Chunks = append(doc.Chunks, cd)
	}
	return marshal(doc)
}
