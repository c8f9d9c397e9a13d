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

// Package asthelper builds syntax trees programmatically.
//
// Builders are functions taking the breadcrumb of the node to build. The
// breadcrumb of every child is derived from its parent, so trees built with
// this package always satisfy ast.CheckCrumbs.
package asthelper

import (
	"github.com/gx-org/cause/build/ast"
	"github.com/gx-org/cause/build/crumbs"
)

type (
	// DeclFunc builds a declaration.
	DeclFunc func(crumbs.Crumbs) ast.Decl
	// StmtFunc builds a statement.
	StmtFunc func(crumbs.Crumbs) ast.Stmt
	// ExprFunc builds an expression.
	ExprFunc func(crumbs.Crumbs) ast.Expr
	// TypeFunc builds a type reference.
	TypeFunc func(crumbs.Crumbs) ast.TypeRef
	// ArgFunc builds a call argument.
	ArgFunc func(crumbs.Crumbs) *ast.CallArgument
	// MappingFunc builds an import mapping.
	MappingFunc func(crumbs.Crumbs) *ast.ImportMapping
)

func info(c crumbs.Crumbs) ast.Info {
	return ast.Info{Crumbs: c}
}

func ident(c crumbs.Crumbs, name string) *ast.Identifier {
	return &ast.Identifier{Info: info(c), Text: name}
}

// File returns a file given its declarations.
func File(decls ...DeclFunc) *ast.File {
	root := crumbs.Root()
	file := &ast.File{Info: info(root)}
	for i, decl := range decls {
		file.Declarations = append(file.Declarations, decl(root.AppendName(ast.FieldDeclarations).AppendIndex(i)))
	}
	return file
}

// Import returns an import declaration.
func Import(path string, mappings ...MappingFunc) DeclFunc {
	return func(c crumbs.Crumbs) ast.Decl {
		decl := &ast.ImportDecl{
			Info: info(c),
			Path: &ast.ImportPath{Info: info(c.AppendName(ast.FieldPath)), Path: path},
		}
		for i, mapping := range mappings {
			decl.Mappings = append(decl.Mappings, mapping(c.AppendName(ast.FieldMappings).AppendIndex(i)))
		}
		return decl
	}
}

// Mapping imports a name without renaming it.
func Mapping(name string) MappingFunc {
	return func(c crumbs.Crumbs) *ast.ImportMapping {
		return &ast.ImportMapping{
			Info:       info(c),
			SourceName: ident(c.AppendName(ast.FieldSourceName), name),
		}
	}
}

// MappingAs imports a name under a different local name.
func MappingAs(name, rename string) MappingFunc {
	return func(c crumbs.Crumbs) *ast.ImportMapping {
		m := Mapping(name)(c)
		m.Rename = ident(c.AppendName(ast.FieldRename), rename)
		return m
	}
}

// Function returns a function declaration with a block body.
func Function(name string, stmts ...StmtFunc) DeclFunc {
	return FunctionReturning(name, nil, stmts...)
}

// FunctionReturning returns a function declaration with a return type
// annotation. The annotation can be nil.
func FunctionReturning(name string, ret TypeFunc, stmts ...StmtFunc) DeclFunc {
	return func(c crumbs.Crumbs) ast.Decl {
		decl := &ast.FunctionDecl{
			Info: info(c),
			Name: ident(c.AppendName(ast.FieldName), name),
		}
		if ret != nil {
			decl.ReturnType = ret(c.AppendName(ast.FieldReturnType))
		}
		decl.Body = Block(stmts...)(c.AppendName(ast.FieldBody))
		return decl
	}
}

// Block returns a block body builder.
func Block(stmts ...StmtFunc) func(crumbs.Crumbs) ast.Body {
	return func(c crumbs.Crumbs) ast.Body {
		body := &ast.BlockBody{Info: info(c)}
		for i, stmt := range stmts {
			body.Statements = append(body.Statements, stmt(c.AppendName(ast.FieldStatements).AppendIndex(i)))
		}
		return body
	}
}

// Let returns a named value declaration without type annotation.
func Let(name string, value ExprFunc) DeclFunc {
	return LetTyped(name, nil, value)
}

// LetTyped returns a named value declaration. The type annotation can be nil.
func LetTyped(name string, typ TypeFunc, value ExprFunc) DeclFunc {
	return func(c crumbs.Crumbs) ast.Decl {
		decl := &ast.NamedValueDecl{
			Info: info(c),
			Name: ident(c.AppendName(ast.FieldName), name),
		}
		if typ != nil {
			decl.TypeAnnotation = typ(c.AppendName(ast.FieldTypeAnnotation))
		}
		decl.Value = value(c.AppendName(ast.FieldValue))
		return decl
	}
}

// Type returns a type reference by name.
func Type(name string) TypeFunc {
	return func(c crumbs.Crumbs) ast.TypeRef {
		return &ast.IdentifierTypeRef{
			Info:       info(c),
			Identifier: ident(c.AppendName(ast.FieldIdentifier), name),
		}
	}
}

// Expr returns an expression statement.
func Expr(expr ExprFunc) StmtFunc {
	return func(c crumbs.Crumbs) ast.Stmt {
		return &ast.ExpressionStmt{
			Info:       info(c),
			Expression: expr(c.AppendName(ast.FieldExpression)),
		}
	}
}

// Decl returns a declaration statement.
func Decl(decl DeclFunc) StmtFunc {
	return func(c crumbs.Crumbs) ast.Stmt {
		return &ast.DeclarationStmt{
			Info:        info(c),
			Declaration: decl(c.AppendName(ast.FieldDeclaration)),
		}
	}
}

// Ident returns an identifier expression.
func Ident(name string) ExprFunc {
	return func(c crumbs.Crumbs) ast.Expr {
		return &ast.IdentifierExpr{
			Info:       info(c),
			Identifier: ident(c.AppendName(ast.FieldIdentifier), name),
		}
	}
}

// Cause returns a cause expression.
func Cause(arg ExprFunc) ExprFunc {
	return func(c crumbs.Crumbs) ast.Expr {
		return &ast.CauseExpr{
			Info:     info(c),
			Argument: arg(c.AppendName(ast.FieldArgument)),
		}
	}
}

// Call returns a call expression.
func Call(callee ExprFunc, args ...ArgFunc) ExprFunc {
	return func(c crumbs.Crumbs) ast.Expr {
		call := &ast.CallExpr{Info: info(c)}
		for i, arg := range args {
			call.Arguments = append(call.Arguments, arg(c.AppendName(ast.FieldArguments).AppendIndex(i)))
		}
		call.Callee = callee(c.AppendName(ast.FieldCallee))
		return call
	}
}

// Arg returns a positional call argument.
func Arg(value ExprFunc) ArgFunc {
	return func(c crumbs.Crumbs) *ast.CallArgument {
		return &ast.CallArgument{
			Info:  info(c),
			Value: value(c.AppendName(ast.FieldValue)),
		}
	}
}

// NamedArg returns a named call argument.
func NamedArg(name string, value ExprFunc) ArgFunc {
	return func(c crumbs.Crumbs) *ast.CallArgument {
		arg := Arg(value)(c)
		arg.Name = ident(c.AppendName(ast.FieldName), name)
		return arg
	}
}

// String returns a string literal.
func String(s string) ExprFunc {
	return func(c crumbs.Crumbs) ast.Expr {
		return &ast.StringLiteral{Info: info(c), Text: s}
	}
}

// Int returns an integer literal.
func Int(v int64) ExprFunc {
	return func(c crumbs.Crumbs) ast.Expr {
		return &ast.IntegerLiteral{Info: info(c), Value: v}
	}
}

// Crumbs returns the breadcrumb of the top-level declaration i followed by
// the given entries. Entries are strings for field names and ints for list
// indices.
func Crumbs(decl int, entries ...any) crumbs.Crumbs {
	c := crumbs.Root().AppendName(ast.FieldDeclarations).AppendIndex(decl)
	for _, e := range entries {
		switch e := e.(type) {
		case string:
			c = c.AppendName(e)
		case int:
			c = c.AppendIndex(e)
		default:
			panic("breadcrumb entry must be a string or an int")
		}
	}
	return c
}
