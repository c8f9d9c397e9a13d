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

package ast

import (
	"github.com/gx-org/cause/build/crumbs"
	"github.com/pkg/errors"
)

// Names of the fields used as breadcrumb entries.
const (
	FieldDeclarations   = "declarations"
	FieldPath           = "path"
	FieldMappings       = "mappings"
	FieldSourceName     = "source_name"
	FieldRename         = "rename"
	FieldName           = "name"
	FieldReturnType     = "return_type"
	FieldBody           = "body"
	FieldTypeAnnotation = "type_annotation"
	FieldValue          = "value"
	FieldStatements     = "statements"
	FieldExpression     = "expression"
	FieldDeclaration    = "declaration"
	FieldIdentifier     = "identifier"
	FieldArgument       = "argument"
	FieldArguments      = "arguments"
	FieldCallee         = "callee"
)

// Field is a child slot of a node: either a single node or a list of nodes.
type Field struct {
	Name   string
	Node   Node
	List   []Node
	IsList bool
}

func single(name string, n Node) Field {
	return Field{Name: name, Node: n}
}

func list[T Node](name string, nodes []T) Field {
	f := Field{Name: name, IsList: true, List: make([]Node, len(nodes))}
	for i, n := range nodes {
		f.List[i] = n
	}
	return f
}

// Fields returns the children of a node in a stable order.
// Optional children which are not set are omitted.
func Fields(n Node) []Field {
	switch n := n.(type) {
	case *File:
		return []Field{list(FieldDeclarations, n.Declarations)}
	case *ImportDecl:
		return []Field{
			single(FieldPath, n.Path),
			list(FieldMappings, n.Mappings),
		}
	case *ImportMapping:
		fields := []Field{single(FieldSourceName, n.SourceName)}
		if n.Rename != nil {
			fields = append(fields, single(FieldRename, n.Rename))
		}
		return fields
	case *FunctionDecl:
		fields := []Field{single(FieldName, n.Name)}
		if n.ReturnType != nil {
			fields = append(fields, single(FieldReturnType, n.ReturnType))
		}
		return append(fields, single(FieldBody, n.Body))
	case *NamedValueDecl:
		fields := []Field{single(FieldName, n.Name)}
		if n.TypeAnnotation != nil {
			fields = append(fields, single(FieldTypeAnnotation, n.TypeAnnotation))
		}
		return append(fields, single(FieldValue, n.Value))
	case *BlockBody:
		return []Field{list(FieldStatements, n.Statements)}
	case *ExpressionStmt:
		return []Field{single(FieldExpression, n.Expression)}
	case *DeclarationStmt:
		return []Field{single(FieldDeclaration, n.Declaration)}
	case *IdentifierExpr:
		return []Field{single(FieldIdentifier, n.Identifier)}
	case *CauseExpr:
		return []Field{single(FieldArgument, n.Argument)}
	case *CallExpr:
		return []Field{
			list(FieldArguments, n.Arguments),
			single(FieldCallee, n.Callee),
		}
	case *CallArgument:
		fields := []Field{single(FieldValue, n.Value)}
		if n.Name != nil {
			fields = append(fields, single(FieldName, n.Name))
		}
		return fields
	case *IdentifierTypeRef:
		return []Field{single(FieldIdentifier, n.Identifier)}
	}
	return nil
}

func field(n Node, name string) (Field, bool) {
	for _, f := range Fields(n) {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Find returns the node addressed by a breadcrumb, starting from root.
func Find(root Node, c crumbs.Crumbs) (Node, error) {
	cur := root
	for !c.IsEmpty() {
		var entry crumbs.Entry
		entry, c = c.PopStart()
		f, ok := field(cur, entry.FieldName())
		if !ok {
			return nil, errors.Errorf("cannot find field %q in %T at %s", entry, cur, cur.NodeInfo().Crumbs)
		}
		if !f.IsList {
			cur = f.Node
			continue
		}
		if c.IsEmpty() {
			return nil, errors.Errorf("breadcrumb stops in the middle of list %q at %s", f.Name, cur.NodeInfo().Crumbs)
		}
		entry, c = c.PopStart()
		i := entry.ListIndex()
		if i < 0 || i >= len(f.List) {
			return nil, errors.Errorf("invalid index %s in list %q of length %d at %s", entry, f.Name, len(f.List), cur.NodeInfo().Crumbs)
		}
		cur = f.List[i]
	}
	return cur, nil
}

// Walk calls f on n and its descendants in depth-first order.
// Children of a node are not visited if f returns false.
func Walk(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}
	for _, fld := range Fields(n) {
		if !fld.IsList {
			Walk(fld.Node, f)
			continue
		}
		for _, child := range fld.List {
			Walk(child, f)
		}
	}
}

// CheckCrumbs returns an error if the breadcrumb of a node in the tree is not
// the breadcrumb of its parent plus one entry.
func CheckCrumbs(root Node) error {
	var err error
	Walk(root, func(parent Node) bool {
		if err != nil {
			return false
		}
		pc := parent.NodeInfo().Crumbs
		for _, fld := range Fields(parent) {
			if !fld.IsList {
				err = checkChild(fld.Node, pc.AppendName(fld.Name))
			} else {
				for i, child := range fld.List {
					if err = checkChild(child, pc.AppendName(fld.Name).AppendIndex(i)); err != nil {
						break
					}
				}
			}
			if err != nil {
				return false
			}
		}
		return true
	})
	return err
}

func checkChild(n Node, want crumbs.Crumbs) error {
	if got := n.NodeInfo().Crumbs; !got.Equal(want) {
		return errors.Errorf("%T has breadcrumb %q but want %q", n, got, want)
	}
	return nil
}
