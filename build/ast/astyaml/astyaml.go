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

// Package astyaml decodes syntax trees written as YAML documents.
//
// The format mirrors the syntax tree:
//
//	declarations:
//	  - import: {path: ./other.cau, mappings: [A, {name: B, as: C}]}
//	  - let: {name: x, type: Integer, value: {int: 1}}
//	  - function:
//	      name: main
//	      body:
//	        - let: {name: y, value: {string: hello}}
//	        - call: {callee: {ident: Debug}, args: [{ident: y}]}
//
// A statement is a declaration if its key is import, function or let.
// Otherwise it is an expression. A call argument is either an expression
// or a mapping with a value key and an optional name key.
package astyaml

import (
	"strconv"

	"github.com/gx-org/cause/build/ast"
	"github.com/gx-org/cause/build/crumbs"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Decode decodes a YAML document into a file.
func Decode(src []byte) (*ast.File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, errors.Wrapf(err, "cannot parse YAML")
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return &ast.File{}, nil
		}
		root = root.Content[0]
	}
	return decodeFile(root)
}

func rangeOf(n *yaml.Node) ast.Range {
	start := ast.Position{Line: n.Line, Column: n.Column}
	end := start
	if n.Kind == yaml.ScalarNode {
		end.Column += len(n.Value)
	}
	return ast.Range{Start: start, End: end}
}

func info(n *yaml.Node, c crumbs.Crumbs) ast.Info {
	return ast.Info{Crumbs: c, Range: rangeOf(n)}
}

func errorf(n *yaml.Node, format string, a ...any) error {
	return errors.Errorf("%d:%d: "+format, append([]any{n.Line, n.Column}, a...)...)
}

// fields returns the key/value pairs of a mapping node.
func fields(n *yaml.Node) (map[string]*yaml.Node, []string, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nil, errorf(n, "expected a mapping")
	}
	m := make(map[string]*yaml.Node, len(n.Content)/2)
	var keys []string
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if _, dup := m[key]; dup {
			return nil, nil, errorf(n.Content[i], "duplicate key %q", key)
		}
		m[key] = n.Content[i+1]
		keys = append(keys, key)
	}
	return m, keys, nil
}

// single returns the only key of a mapping and its value.
func single(n *yaml.Node) (string, *yaml.Node, error) {
	m, keys, err := fields(n)
	if err != nil {
		return "", nil, err
	}
	if len(keys) != 1 {
		return "", nil, errorf(n, "expected a mapping with a single key but got %v", keys)
	}
	return keys[0], m[keys[0]], nil
}

func sequence(n *yaml.Node) ([]*yaml.Node, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, errorf(n, "expected a sequence")
	}
	return n.Content, nil
}

func scalar(n *yaml.Node, what string) (string, error) {
	if n == nil {
		return "", errors.Errorf("missing %s", what)
	}
	if n.Kind != yaml.ScalarNode {
		return "", errorf(n, "%s: expected a scalar", what)
	}
	return n.Value, nil
}

func identifier(n *yaml.Node, c crumbs.Crumbs) (*ast.Identifier, error) {
	text, err := scalar(n, c.String())
	if err != nil {
		return nil, err
	}
	return &ast.Identifier{Info: info(n, c), Text: text}, nil
}

func decodeFile(n *yaml.Node) (*ast.File, error) {
	c := crumbs.Root()
	m, _, err := fields(n)
	if err != nil {
		return nil, err
	}
	file := &ast.File{Info: info(n, c)}
	decls, err := sequence(m[ast.FieldDeclarations])
	if err != nil {
		return nil, err
	}
	for i, dn := range decls {
		decl, err := decodeDecl(dn, c.AppendName(ast.FieldDeclarations).AppendIndex(i))
		if err != nil {
			return nil, err
		}
		file.Declarations = append(file.Declarations, decl)
	}
	return file, nil
}

func isDecl(key string) bool {
	switch key {
	case "import", "function", "let":
		return true
	}
	return false
}

func decodeDecl(n *yaml.Node, c crumbs.Crumbs) (ast.Decl, error) {
	key, val, err := single(n)
	if err != nil {
		return nil, err
	}
	switch key {
	case "import":
		return decodeImport(val, c)
	case "function":
		return decodeFunction(val, c)
	case "let":
		return decodeLet(val, c)
	}
	return nil, errorf(n, "unknown declaration %q", key)
}

func decodeImport(n *yaml.Node, c crumbs.Crumbs) (*ast.ImportDecl, error) {
	m, _, err := fields(n)
	if err != nil {
		return nil, err
	}
	path, err := scalar(m["path"], "import path")
	if err != nil {
		return nil, err
	}
	decl := &ast.ImportDecl{
		Info: info(n, c),
		Path: &ast.ImportPath{Info: info(m["path"], c.AppendName(ast.FieldPath)), Path: path},
	}
	mappings, err := sequence(m["mappings"])
	if err != nil {
		return nil, err
	}
	for i, mn := range mappings {
		mapping, err := decodeMapping(mn, c.AppendName(ast.FieldMappings).AppendIndex(i))
		if err != nil {
			return nil, err
		}
		decl.Mappings = append(decl.Mappings, mapping)
	}
	return decl, nil
}

func decodeMapping(n *yaml.Node, c crumbs.Crumbs) (*ast.ImportMapping, error) {
	mapping := &ast.ImportMapping{Info: info(n, c)}
	var err error
	if n.Kind == yaml.ScalarNode {
		mapping.SourceName, err = identifier(n, c.AppendName(ast.FieldSourceName))
		return mapping, err
	}
	m, _, err := fields(n)
	if err != nil {
		return nil, err
	}
	if mapping.SourceName, err = identifier(m["name"], c.AppendName(ast.FieldSourceName)); err != nil {
		return nil, err
	}
	if as := m["as"]; as != nil {
		if mapping.Rename, err = identifier(as, c.AppendName(ast.FieldRename)); err != nil {
			return nil, err
		}
	}
	return mapping, nil
}

func decodeFunction(n *yaml.Node, c crumbs.Crumbs) (*ast.FunctionDecl, error) {
	m, _, err := fields(n)
	if err != nil {
		return nil, err
	}
	decl := &ast.FunctionDecl{Info: info(n, c)}
	if decl.Name, err = identifier(m["name"], c.AppendName(ast.FieldName)); err != nil {
		return nil, err
	}
	if ret := m["returns"]; ret != nil {
		if decl.ReturnType, err = decodeType(ret, c.AppendName(ast.FieldReturnType)); err != nil {
			return nil, err
		}
	}
	bodyNode := m["body"]
	if bodyNode == nil {
		bodyNode = n
	}
	bc := c.AppendName(ast.FieldBody)
	body := &ast.BlockBody{Info: info(bodyNode, bc)}
	stmts, err := sequence(m["body"])
	if err != nil {
		return nil, err
	}
	for i, sn := range stmts {
		stmt, err := decodeStmt(sn, bc.AppendName(ast.FieldStatements).AppendIndex(i))
		if err != nil {
			return nil, err
		}
		body.Statements = append(body.Statements, stmt)
	}
	decl.Body = body
	return decl, nil
}

func decodeLet(n *yaml.Node, c crumbs.Crumbs) (*ast.NamedValueDecl, error) {
	m, _, err := fields(n)
	if err != nil {
		return nil, err
	}
	decl := &ast.NamedValueDecl{Info: info(n, c)}
	if decl.Name, err = identifier(m["name"], c.AppendName(ast.FieldName)); err != nil {
		return nil, err
	}
	if typ := m["type"]; typ != nil {
		if decl.TypeAnnotation, err = decodeType(typ, c.AppendName(ast.FieldTypeAnnotation)); err != nil {
			return nil, err
		}
	}
	if m["value"] == nil {
		return nil, errorf(n, "missing value for %q", decl.Name.Text)
	}
	if decl.Value, err = decodeExpr(m["value"], c.AppendName(ast.FieldValue)); err != nil {
		return nil, err
	}
	return decl, nil
}

func decodeType(n *yaml.Node, c crumbs.Crumbs) (ast.TypeRef, error) {
	id, err := identifier(n, c.AppendName(ast.FieldIdentifier))
	if err != nil {
		return nil, err
	}
	return &ast.IdentifierTypeRef{Info: info(n, c), Identifier: id}, nil
}

func decodeStmt(n *yaml.Node, c crumbs.Crumbs) (ast.Stmt, error) {
	key, _, err := single(n)
	if err != nil {
		return nil, err
	}
	if isDecl(key) {
		decl, err := decodeDecl(n, c.AppendName(ast.FieldDeclaration))
		if err != nil {
			return nil, err
		}
		return &ast.DeclarationStmt{Info: info(n, c), Declaration: decl}, nil
	}
	expr, err := decodeExpr(n, c.AppendName(ast.FieldExpression))
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Info: info(n, c), Expression: expr}, nil
}

func decodeExpr(n *yaml.Node, c crumbs.Crumbs) (ast.Expr, error) {
	key, val, err := single(n)
	if err != nil {
		return nil, err
	}
	switch key {
	case "ident":
		id, err := identifier(val, c.AppendName(ast.FieldIdentifier))
		if err != nil {
			return nil, err
		}
		return &ast.IdentifierExpr{Info: info(n, c), Identifier: id}, nil
	case "string":
		text, err := scalar(val, "string literal")
		if err != nil {
			return nil, err
		}
		return &ast.StringLiteral{Info: info(val, c), Text: text}, nil
	case "int":
		text, err := scalar(val, "integer literal")
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, errorf(val, "invalid integer literal %q", text)
		}
		return &ast.IntegerLiteral{Info: info(val, c), Value: v}, nil
	case "cause":
		arg, err := decodeExpr(val, c.AppendName(ast.FieldArgument))
		if err != nil {
			return nil, err
		}
		return &ast.CauseExpr{Info: info(n, c), Argument: arg}, nil
	case "call":
		return decodeCall(val, c)
	}
	return nil, errorf(n, "unknown expression %q", key)
}

func decodeCall(n *yaml.Node, c crumbs.Crumbs) (*ast.CallExpr, error) {
	m, _, err := fields(n)
	if err != nil {
		return nil, err
	}
	call := &ast.CallExpr{Info: info(n, c)}
	args, err := sequence(m["args"])
	if err != nil {
		return nil, err
	}
	for i, an := range args {
		arg, err := decodeArg(an, c.AppendName(ast.FieldArguments).AppendIndex(i))
		if err != nil {
			return nil, err
		}
		call.Arguments = append(call.Arguments, arg)
	}
	if m["callee"] == nil {
		return nil, errorf(n, "missing callee")
	}
	if call.Callee, err = decodeExpr(m["callee"], c.AppendName(ast.FieldCallee)); err != nil {
		return nil, err
	}
	return call, nil
}

func decodeArg(n *yaml.Node, c crumbs.Crumbs) (*ast.CallArgument, error) {
	arg := &ast.CallArgument{Info: info(n, c)}
	m, _, err := fields(n)
	if err != nil {
		return nil, err
	}
	valueNode, isArg := m["value"]
	if !isArg {
		arg.Value, err = decodeExpr(n, c.AppendName(ast.FieldValue))
		return arg, err
	}
	if arg.Value, err = decodeExpr(valueNode, c.AppendName(ast.FieldValue)); err != nil {
		return nil, err
	}
	if name := m["name"]; name != nil {
		if arg.Name, err = identifier(name, c.AppendName(ast.FieldName)); err != nil {
			return nil, err
		}
	}
	return arg, nil
}
