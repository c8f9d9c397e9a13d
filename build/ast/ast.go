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

// Package ast defines the syntax tree of cause source files.
//
// Every node carries its breadcrumb: the structural path from the root of the
// file to the node. The tree is produced by a parser external to this module
// (or by the asthelper package) and is never modified afterwards.
package ast

import (
	"fmt"

	"github.com/gx-org/cause/build/crumbs"
)

type (
	// Position is a position in a source document.
	Position struct {
		Line, Column int
	}

	// Range is a range of characters in a source document.
	Range struct {
		Start, End Position
	}

	// Info is the information shared by all nodes.
	Info struct {
		Crumbs crumbs.Crumbs
		Range  Range
	}

	// Node is a node in the tree.
	Node interface {
		NodeInfo() *Info
	}
)

// NodeInfo returns the information of the node.
func (i *Info) NodeInfo() *Info {
	return i
}

// String returns the position of a range as line:column.
func (r Range) String() string {
	return fmt.Sprintf("%d:%d", r.Start.Line, r.Start.Column)
}

type (
	// Identifier is a name in the source.
	Identifier struct {
		Info
		Text string
	}

	// File is the root of a source file.
	File struct {
		Info
		Declarations []Decl
	}
)

// Declarations.
type (
	// Decl is a declaration, either at the top-level of a file or in a block.
	Decl interface {
		Node
		declNode()
		// DeclaredName returns the name introduced by the declaration,
		// or an empty string for imports.
		DeclaredName() string
	}

	// ImportDecl imports names exported by another file.
	ImportDecl struct {
		Info
		Path     *ImportPath
		Mappings []*ImportMapping
	}

	// ImportPath is the path of an imported file as written in the source.
	ImportPath struct {
		Info
		Path string
	}

	// ImportMapping maps a name exported by another file to a local name.
	ImportMapping struct {
		Info
		SourceName *Identifier
		// Rename is optional.
		Rename *Identifier
	}

	// FunctionDecl declares a function.
	FunctionDecl struct {
		Info
		Name *Identifier
		// ReturnType is optional.
		ReturnType TypeRef
		Body       Body
	}

	// NamedValueDecl declares a named value, e.g. `let x: Integer = 1`.
	NamedValueDecl struct {
		Info
		Name *Identifier
		// TypeAnnotation is optional.
		TypeAnnotation TypeRef
		Value          Expr
	}
)

func (*ImportDecl) declNode()     {}
func (*FunctionDecl) declNode()   {}
func (*NamedValueDecl) declNode() {}

// DeclaredName returns an empty string: imports declare one name per mapping.
func (*ImportDecl) DeclaredName() string { return "" }

// DeclaredName returns the name of the function.
func (d *FunctionDecl) DeclaredName() string { return d.Name.Text }

// DeclaredName returns the name of the value.
func (d *NamedValueDecl) DeclaredName() string { return d.Name.Text }

// LocalName returns the name under which an imported name is known in the file.
func (m *ImportMapping) LocalName() string {
	if m.Rename != nil {
		return m.Rename.Text
	}
	return m.SourceName.Text
}

// Bodies.
type (
	// Body is the body of a function.
	Body interface {
		Node
		bodyNode()
	}

	// BlockBody is a list of statements between braces.
	BlockBody struct {
		Info
		Statements []Stmt
	}
)

func (*BlockBody) bodyNode() {}

// Statements.
type (
	// Stmt is a statement in a block.
	Stmt interface {
		Node
		stmtNode()
	}

	// ExpressionStmt evaluates an expression.
	ExpressionStmt struct {
		Info
		Expression Expr
	}

	// DeclarationStmt declares a name in a block.
	DeclarationStmt struct {
		Info
		Declaration Decl
	}
)

func (*ExpressionStmt) stmtNode()  {}
func (*DeclarationStmt) stmtNode() {}

// Expressions.
type (
	// Expr is an expression.
	Expr interface {
		Node
		exprNode()
	}

	// IdentifierExpr refers to a declaration by name.
	IdentifierExpr struct {
		Info
		Identifier *Identifier
	}

	// CauseExpr causes a signal.
	CauseExpr struct {
		Info
		Argument Expr
	}

	// CallExpr calls a function or constructs a signal.
	CallExpr struct {
		Info
		Callee    Expr
		Arguments []*CallArgument
	}

	// CallArgument is an argument passed to a call.
	CallArgument struct {
		Info
		// Name is optional.
		Name  *Identifier
		Value Expr
	}

	// StringLiteral is a string literal.
	StringLiteral struct {
		Info
		Text string
	}

	// IntegerLiteral is an integer literal.
	IntegerLiteral struct {
		Info
		Value int64
	}
)

func (*IdentifierExpr) exprNode() {}
func (*CauseExpr) exprNode()      {}
func (*CallExpr) exprNode()       {}
func (*StringLiteral) exprNode()  {}
func (*IntegerLiteral) exprNode() {}

// Type references.
type (
	// TypeRef refers to a type.
	TypeRef interface {
		Node
		typeRefNode()
	}

	// IdentifierTypeRef refers to a type by name.
	IdentifierTypeRef struct {
		Info
		Identifier *Identifier
	}
)

func (*IdentifierTypeRef) typeRefNode() {}

var (
	_ Decl    = (*ImportDecl)(nil)
	_ Decl    = (*FunctionDecl)(nil)
	_ Decl    = (*NamedValueDecl)(nil)
	_ Body    = (*BlockBody)(nil)
	_ Stmt    = (*ExpressionStmt)(nil)
	_ Stmt    = (*DeclarationStmt)(nil)
	_ Expr    = (*IdentifierExpr)(nil)
	_ Expr    = (*CauseExpr)(nil)
	_ Expr    = (*CallExpr)(nil)
	_ Expr    = (*StringLiteral)(nil)
	_ Expr    = (*IntegerLiteral)(nil)
	_ TypeRef = (*IdentifierTypeRef)(nil)
	_ Node    = (*File)(nil)
	_ Node    = (*ImportPath)(nil)
	_ Node    = (*ImportMapping)(nil)
	_ Node    = (*CallArgument)(nil)
	_ Node    = (*Identifier)(nil)
)
