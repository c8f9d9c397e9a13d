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

// Package compiler lowers a resolved file into bytecode chunks.
//
// The compiler trusts the resolver: a node with a type error is compiled
// into an instruction pushing the error as a bad value, so that the error
// surfaces when the virtual machine reaches it.
package compiler

import (
	"github.com/gx-org/cause/build/ast"
	"github.com/gx-org/cause/build/compiled"
	"github.com/gx-org/cause/build/core"
	"github.com/gx-org/cause/build/crumbs"
	"github.com/gx-org/cause/build/fmterr"
	"github.com/gx-org/cause/build/resolver"
	"github.com/gx-org/cause/build/tags"
	"github.com/gx-org/cause/build/types"
	"github.com/pkg/errors"
)

// ErrNotImplemented is returned for language features the compiler does
// not support yet.
var ErrNotImplemented = errors.New("not implemented")

// Input of the compiler.
type Input struct {
	File     *ast.File
	Graph    *tags.Graph
	Resolved *resolver.File
}

type compiler struct {
	in   Input
	out  *compiled.File
	errs *fmterr.Appender
}

// Compile a file. The returned file contains every declaration which could
// be compiled, even if an error is returned.
func Compile(in Input) (*compiled.File, error) {
	errs := &fmterr.Errors{}
	c := &compiler{
		in:   in,
		out:  compiled.NewFile(in.Resolved.Path()),
		errs: errs.NewAppender(in.Resolved.Path()),
	}
	c.types()
	for _, decl := range in.File.Declarations {
		c.declaration(decl)
	}
	if errs := c.errs.Errors(); errs != nil {
		return c.out, errs
	}
	return c.out, nil
}

func (c *compiler) path() string {
	return c.errs.Path()
}

func (c *compiler) notImplemented(node ast.Node, what string) error {
	return fmterr.Position(c.path(), node, errors.Wrap(ErrNotImplemented, what))
}

func (c *compiler) internalf(node ast.Node, format string, a ...any) error {
	return fmterr.Internalf(c.path(), node, format, a...)
}

// badValue returns the constant of an error found at a node.
func (c *compiler) badValue(node ast.Node, err types.LangError) compiled.ErrorConstant {
	return compiled.ErrorConstant{
		Path:   c.path(),
		Crumbs: node.NodeInfo().Crumbs,
		Err:    err,
	}
}

// types exports the canonical types declared by the file.
func (c *compiler) types() {
	for _, sig := range c.in.Resolved.Signals() {
		if sig.ID.Path != c.path() {
			continue
		}
		c.out.Types = append(c.out.Types, sig)
		c.out.Exports.Store(sig.Name, compiled.TypeExport{ID: sig.ID})
	}
}

func (c *compiler) declaration(decl ast.Decl) {
	switch decl := decl.(type) {
	case *ast.ImportDecl:
	case *ast.FunctionDecl:
		ch, err := c.function(decl)
		if err != nil {
			c.errs.Append(err)
			return
		}
		c.out.Exports.Store(decl.Name.Text, compiled.ChunkExport{Index: c.out.AddChunk(ch)})
	case *ast.NamedValueDecl:
		exp, err := c.namedValue(decl)
		if err != nil {
			c.errs.Append(err)
			return
		}
		c.out.Exports.Store(decl.Name.Text, exp)
	default:
		c.errs.AppendInternalf(decl, "declaration %T not supported", decl)
	}
}

func (c *compiler) namedValue(decl *ast.NamedValueDecl) (compiled.Export, error) {
	for _, n := range []ast.Node{decl, decl.Value} {
		if err := c.in.Resolved.CheckForRuntimeError(n.NodeInfo().Crumbs); err != nil {
			return compiled.ConstantExport{Value: c.badValue(n, err)}, nil
		}
	}
	cst, ok := literal(decl.Value)
	if !ok {
		return nil, c.notImplemented(decl.Value, "top-level value which is not a literal")
	}
	return compiled.ConstantExport{Value: cst}, nil
}

func literal(expr ast.Expr) (compiled.Constant, bool) {
	switch expr := expr.(type) {
	case *ast.StringLiteral:
		return compiled.StringConstant{Value: expr.Text}, true
	case *ast.IntegerLiteral:
		return compiled.IntegerConstant{Value: expr.Value}, true
	}
	return nil, false
}

// chunk is the state of the compilation of a function.
type chunk struct {
	*compiler
	ch *compiled.Chunk
	// locals maps the breadcrumbs of local declarations to their slot on
	// the stack.
	locals map[crumbs.Key]int
}

func (c *compiler) function(decl *ast.FunctionDecl) (*compiled.Chunk, error) {
	fc := &chunk{
		compiler: c,
		ch:       &compiled.Chunk{},
		locals:   make(map[crumbs.Key]int),
	}
	if err := fc.body(decl.Body); err != nil {
		return nil, err
	}
	fc.ch.Write(compiled.Return)
	return fc.ch, nil
}

func (fc *chunk) body(body ast.Body) error {
	switch body := body.(type) {
	case *ast.BlockBody:
		return fc.block(body)
	default:
		return fc.internalf(body, "body %T not supported", body)
	}
}

func (fc *chunk) block(block *ast.BlockBody) error {
	if len(block.Statements) == 0 {
		fc.ch.Write(compiled.PushAction)
		return nil
	}
	for i, stmt := range block.Statements {
		if err := fc.statement(stmt, i == len(block.Statements)-1); err != nil {
			return err
		}
	}
	return nil
}

func (fc *chunk) statement(stmt ast.Stmt, last bool) error {
	switch stmt := stmt.(type) {
	case *ast.ExpressionStmt:
		if err := fc.expression(stmt.Expression); err != nil {
			return err
		}
		if !last {
			fc.ch.Write(compiled.Pop)
		}
	case *ast.DeclarationStmt:
		if err := fc.localDeclaration(stmt.Declaration); err != nil {
			return err
		}
		if last {
			fc.ch.Write(compiled.PushAction)
		}
	default:
		return fc.internalf(stmt, "statement %T not supported", stmt)
	}
	return nil
}

// localDeclaration leaves the value of a named value on the stack.
func (fc *chunk) localDeclaration(decl ast.Decl) error {
	switch decl := decl.(type) {
	case *ast.ImportDecl:
		return nil
	case *ast.NamedValueDecl:
		if err := fc.expression(decl.Value); err != nil {
			return err
		}
		fc.locals[decl.Crumbs.Key()] = len(fc.locals)
		return nil
	case *ast.FunctionDecl:
		return fc.notImplemented(decl, "function declared in a block")
	default:
		return fc.internalf(decl, "declaration %T not supported", decl)
	}
}

func (fc *chunk) expression(expr ast.Expr) error {
	switch expr := expr.(type) {
	case *ast.IdentifierExpr:
		return fc.identifier(expr)
	case *ast.CauseExpr:
		return fc.cause(expr)
	case *ast.CallExpr:
		return fc.call(expr)
	case *ast.StringLiteral, *ast.IntegerLiteral:
		cst, _ := literal(expr)
		fc.ch.WriteLiteral(cst)
		return nil
	default:
		return fc.internalf(expr, "expression %T not supported", expr)
	}
}

func (fc *chunk) identifier(expr *ast.IdentifierExpr) error {
	if err := fc.in.Resolved.CheckForRuntimeError(expr.Crumbs); err != nil {
		fc.ch.WriteLiteral(fc.badValue(expr, err))
		return nil
	}
	if ref, ok := tags.Find[tags.ReferencesFile](fc.in.Graph, expr.Crumbs); ok {
		return fc.importRef(expr, ref)
	}
	from, ok := tags.Find[tags.ValueComesFrom](fc.in.Graph, expr.Crumbs)
	if !ok {
		return fc.internalf(expr, "identifier %s has no source", expr.Identifier.Text)
	}
	if ref, ok := tags.Find[tags.ReferencesFile](fc.in.Graph, from.Source); ok {
		return fc.importRef(expr, ref)
	}
	if slot, ok := fc.locals[from.Source.Key()]; ok {
		fc.ch.Write(compiled.ReadLocal, slot)
		return nil
	}
	scope, ok := tags.Find[tags.DeclarationForScope](fc.in.Graph, from.Source)
	if !ok {
		return fc.internalf(expr, "source %s of identifier %s is not a declaration", from.Source, expr.Identifier.Text)
	}
	if !scope.Scope.Equal(fc.in.File.Crumbs) {
		return fc.notImplemented(expr, "reference to a function declared in a block")
	}
	fc.ch.WriteImport(fc.path(), expr.Identifier.Text)
	return nil
}

func (fc *chunk) importRef(expr *ast.IdentifierExpr, ref tags.ReferencesFile) error {
	if ref.ExportName == "" {
		return fc.notImplemented(expr, "file used as a value")
	}
	fc.ch.WriteImport(ref.Path, ref.ExportName)
	return nil
}

func (fc *chunk) cause(expr *ast.CauseExpr) error {
	if err := fc.expression(expr.Argument); err != nil {
		return err
	}
	if err := fc.in.Resolved.CheckForRuntimeError(expr.Crumbs); err != nil {
		fc.ch.Write(compiled.Pop)
		fc.ch.WriteLiteral(fc.badValue(expr, err))
		fc.ch.WriteImport(core.BuiltinPath, core.TypeErrorName)
		fc.ch.Write(compiled.Construct)
	}
	fc.ch.Write(compiled.Cause)
	return nil
}

func (fc *chunk) call(expr *ast.CallExpr) error {
	for _, arg := range expr.Arguments {
		if err := fc.expression(arg.Value); err != nil {
			return err
		}
	}
	if err := fc.expression(expr.Callee); err != nil {
		return err
	}
	if err := fc.in.Resolved.CheckForRuntimeError(expr.Crumbs); err != nil {
		for range len(expr.Arguments) + 1 {
			fc.ch.Write(compiled.Pop)
		}
		fc.ch.WriteLiteral(fc.badValue(expr, err))
		return nil
	}
	callee, ok := fc.in.Resolved.TypeOf(expr.Callee.NodeInfo().Crumbs)
	if !ok {
		return fc.internalf(expr, "callee has not been resolved")
	}
	typ, ok := callee.Type()
	if !ok {
		return fc.internalf(expr, "callee of a valid call has no type: %v", callee)
	}
	switch typ.(type) {
	case types.TypeReference:
		fc.ch.Write(compiled.Construct)
	case *types.Function:
		fc.ch.Write(compiled.CallFunction)
	default:
		return fc.internalf(expr, "cannot call %v", typ)
	}
	return nil
}
