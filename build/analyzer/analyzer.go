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

// Package analyzer derives the tags of the nodes of a syntax tree.
//
// The analyzer walks the tree once, resolving names to the breadcrumbs of
// their declarations through lexical scopes. It does not compute any type:
// types are inferred from the tags by the resolver.
package analyzer

import (
	"github.com/gx-org/cause/build/ast"
	"github.com/gx-org/cause/build/core"
	"github.com/gx-org/cause/build/crumbs"
	"github.com/gx-org/cause/build/module"
	"github.com/gx-org/cause/build/tags"
	"github.com/gx-org/cause/build/types"
	"github.com/gx-org/cause/internal/base/scope"
)

type (
	// binding is what a name in scope refers to.
	binding struct {
		// decl is the breadcrumb of the declaration in the file.
		decl crumbs.Crumbs
		// global is true for names exported by the builtin core file.
		global bool
	}

	// context is the state passed down the tree.
	context struct {
		scope       *scope.Scope[binding]
		scopeCrumbs crumbs.Crumbs
	}

	analyzer struct {
		path  string
		graph *tags.Graph
	}
)

func globals() *scope.Scope[binding] {
	vals := make(map[string]binding)
	for _, name := range core.GlobalNames() {
		vals[name] = binding{global: true}
	}
	return scope.NewWithValues(vals)
}

// Analyze returns the tags of the nodes of a file.
func Analyze(path string, file *ast.File) *tags.Graph {
	a := &analyzer{path: path, graph: tags.NewGraph()}
	a.file(file)
	return a.graph
}

func (a *analyzer) add(n ast.Node, tag tags.Tag) {
	a.graph.Add(n.NodeInfo().Crumbs, tag)
}

func crumbsOf(n ast.Node) crumbs.Crumbs {
	return n.NodeInfo().Crumbs
}

func (a *analyzer) file(file *ast.File) {
	ctx := context{
		scope:       globals().NewChild(),
		scopeCrumbs: file.Crumbs,
	}
	// Top-level declarations are hoisted.
	for _, decl := range file.Declarations {
		switch decl := decl.(type) {
		case *ast.ImportDecl:
			for _, mapping := range decl.Mappings {
				ctx.scope.Define(mapping.LocalName(), binding{decl: mapping.Crumbs})
			}
		case *ast.FunctionDecl, *ast.NamedValueDecl:
			ctx.scope.Define(decl.DeclaredName(), binding{decl: crumbsOf(decl)})
		}
	}
	for _, decl := range file.Declarations {
		a.add(decl, tags.DeclarationForScope{Scope: ctx.scopeCrumbs})
		a.declaration(ctx, decl)
	}
}

func (a *analyzer) declaration(ctx context, decl ast.Decl) {
	switch decl := decl.(type) {
	case *ast.ImportDecl:
		a.importDecl(decl)
	case *ast.FunctionDecl:
		a.function(ctx, decl)
	case *ast.NamedValueDecl:
		a.namedValue(ctx, decl)
	}
}

func (a *analyzer) importDecl(decl *ast.ImportDecl) {
	path, err := module.Resolve(a.path, decl.Path.Path)
	if err != nil {
		bad := tags.BadFileReference{Path: decl.Path.Path, Reason: err.Error()}
		a.add(decl.Path, bad)
		for _, mapping := range decl.Mappings {
			a.add(mapping, bad)
		}
		return
	}
	a.graph.AddFile(path)
	a.add(decl.Path, tags.ReferencesFile{Path: path})
	for _, mapping := range decl.Mappings {
		a.add(mapping, tags.ReferencesFile{Path: path, ExportName: mapping.SourceName.Text})
	}
}

func (a *analyzer) function(ctx context, decl *ast.FunctionDecl) {
	ctx.scope = ctx.scope.NewChild()
	ctx.scope.Define(decl.Name.Text, binding{decl: decl.Crumbs})
	ctx.scopeCrumbs = decl.Crumbs
	a.add(decl, tags.IsFunction{Name: decl.Name.Text})
	a.add(decl, tags.FunctionCanReturnTypeOf{Return: crumbsOf(decl.Body)})
	if decl.ReturnType != nil {
		a.typeRef(ctx, decl.ReturnType)
		a.add(decl.Body, tags.BasicConstraint{TypeAnnotation: crumbsOf(decl.ReturnType)})
	}
	a.body(ctx, decl.Body)
}

func (a *analyzer) namedValue(ctx context, decl *ast.NamedValueDecl) {
	tag := tags.NamedValue{Name: decl.Name.Text, Value: crumbsOf(decl.Value)}
	if decl.TypeAnnotation != nil {
		annotation := crumbsOf(decl.TypeAnnotation)
		tag.TypeAnnotation = &annotation
	}
	a.add(decl, tag)
	a.expression(ctx, decl.Value)
	if decl.TypeAnnotation != nil {
		a.typeRef(ctx, decl.TypeAnnotation)
		a.add(decl.Value, tags.BasicConstraint{TypeAnnotation: crumbsOf(decl.TypeAnnotation)})
	}
}

func (a *analyzer) body(ctx context, body ast.Body) {
	switch body := body.(type) {
	case *ast.BlockBody:
		a.block(ctx, body)
	}
}

func (a *analyzer) block(ctx context, block *ast.BlockBody) {
	if len(block.Statements) == 0 {
		a.add(block, tags.IsPrimitiveValue{Primitive: types.Action})
		return
	}
	a.add(block, tags.ValueComesFrom{Source: crumbsOf(block.Statements[len(block.Statements)-1])})
	ctx.scope = ctx.scope.NewChild()
	ctx.scopeCrumbs = block.Crumbs
	for _, stmt := range block.Statements {
		a.statement(ctx, stmt)
	}
}

func (a *analyzer) statement(ctx context, stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.ExpressionStmt:
		a.add(stmt, tags.ValueComesFrom{Source: crumbsOf(stmt.Expression)})
		a.expression(ctx, stmt.Expression)
	case *ast.DeclarationStmt:
		a.add(stmt, tags.IsPrimitiveValue{Primitive: types.Action})
		decl := stmt.Declaration
		a.add(decl, tags.DeclarationForScope{Scope: ctx.scopeCrumbs})
		a.declaration(ctx, decl)
		// The name is only visible to the statements which follow.
		switch decl := decl.(type) {
		case *ast.ImportDecl:
			for _, mapping := range decl.Mappings {
				ctx.scope.Define(mapping.LocalName(), binding{decl: mapping.Crumbs})
			}
		default:
			ctx.scope.Define(decl.DeclaredName(), binding{decl: crumbsOf(decl)})
		}
	}
}

func (a *analyzer) expression(ctx context, expr ast.Expr) {
	a.add(expr, tags.Expression{})
	switch expr := expr.(type) {
	case *ast.IdentifierExpr:
		a.identifier(ctx, expr, expr.Identifier.Text)
	case *ast.CauseExpr:
		a.add(expr, tags.Causes{Signal: crumbsOf(expr.Argument)})
		a.expression(ctx, expr.Argument)
	case *ast.CallExpr:
		for i, arg := range expr.Arguments {
			a.add(expr, tags.CallsWithArgument{Argument: crumbsOf(arg.Value), Index: i})
			a.expression(ctx, arg.Value)
		}
		a.expression(ctx, expr.Callee)
		a.add(expr, tags.Calls{Callee: crumbsOf(expr.Callee)})
	case *ast.StringLiteral:
		a.add(expr, tags.IsPrimitiveValue{Primitive: types.String})
	case *ast.IntegerLiteral:
		a.add(expr, tags.IsPrimitiveValue{Primitive: types.Integer})
	}
}

func (a *analyzer) typeRef(ctx context, ref ast.TypeRef) {
	switch ref := ref.(type) {
	case *ast.IdentifierTypeRef:
		a.identifier(ctx, ref, ref.Identifier.Text)
	}
}

// identifier tags a node referring to a name.
func (a *analyzer) identifier(ctx context, n ast.Node, name string) {
	b, ok := ctx.scope.Find(name)
	switch {
	case !ok:
		a.add(n, tags.ReferenceNotInScope{Name: name})
	case b.global:
		a.graph.AddFile(core.BuiltinPath)
		a.add(n, tags.ReferencesFile{Path: core.BuiltinPath, ExportName: name})
	default:
		a.add(n, tags.ValueComesFrom{Source: b.decl})
	}
}
