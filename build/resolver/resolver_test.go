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

package resolver_test

import (
	"testing"

	"github.com/gx-org/cause/base/ordered"
	"github.com/gx-org/cause/build/analyzer"
	"github.com/gx-org/cause/build/ast"
	ah "github.com/gx-org/cause/build/ast/asthelper"
	"github.com/gx-org/cause/build/core"
	"github.com/gx-org/cause/build/crumbs"
	"github.com/gx-org/cause/build/resolver"
	"github.com/gx-org/cause/build/types"
)

var (
	stringType  = types.Primitive{Kind: types.String}
	integerType = types.Primitive{Kind: types.Integer}
	actionType  = types.Primitive{Kind: types.Action}
)

func resolve(t *testing.T, path string, file *ast.File, external map[string]*resolver.ExternalFile) *resolver.File {
	t.Helper()
	if err := ast.CheckCrumbs(file); err != nil {
		t.Fatalf("invalid test file: %+v", err)
	}
	return resolver.Resolve(resolver.Input{
		Path:     path,
		File:     file,
		Graph:    analyzer.Analyze(path, file),
		External: external,
	})
}

func stmt(decl, i int, entries ...any) crumbs.Crumbs {
	return ah.Crumbs(decl, append([]any{ast.FieldBody, ast.FieldStatements, i}, entries...)...)
}

func checkType(t *testing.T, f *resolver.File, c crumbs.Crumbs, want types.Type) {
	t.Helper()
	v, ok := f.TypeOf(c)
	if !ok {
		t.Errorf("%s has not been resolved", c)
		return
	}
	got, ok := v.Type()
	if !ok {
		t.Errorf("%s: got %s but want %s", c, v, want)
		return
	}
	if !types.Equal(got, want) {
		t.Errorf("%s: got type %s but want %s", c, got, want)
	}
}

func checkError(t *testing.T, f *resolver.File, c crumbs.Crumbs, want types.LangError) {
	t.Helper()
	got := f.CheckForRuntimeError(c)
	if got == nil {
		v, _ := f.TypeOf(c)
		t.Errorf("%s: got %s but want error %v", c, v, want)
		return
	}
	if !types.ErrorsEqual(got, want) {
		t.Errorf("%s: got error %#v but want %#v", c, got, want)
	}
}

func checkNumErrors(t *testing.T, f *resolver.File, want int) {
	t.Helper()
	errs := f.Errors()
	got := len(errs.Errors())
	if got != want {
		t.Errorf("got %d errors but want %d:\n%v", got, want, errs)
	}
}

func printFile() (string, *resolver.ExternalFile) {
	const path = "langtest/signals.cau"
	exports := ordered.NewMap[string, types.Value]()
	exports.Store("Print", types.Resolved(types.Canonical{Signal: &types.Signal{
		ID:     types.CanonicalID{Path: path, Name: "Print"},
		Name:   "Print",
		Params: []types.Param{{Name: "message", Type: stringType}},
		Result: actionType,
	}}))
	return path, &resolver.ExternalFile{Exports: exports}
}

func TestSignalFromImport(t *testing.T) {
	path, print := printFile()
	f := resolve(t, "project/hello.cau", ah.File(
		ah.Import(path, ah.Mapping("Print")),
		ah.Function("main",
			ah.Expr(ah.Cause(ah.Call(ah.Ident("Print"), ah.Arg(ah.String("Hello World"))))),
		),
	), map[string]*resolver.ExternalFile{path: print})
	checkNumErrors(t, f, 0)
	cause := stmt(1, 0, ast.FieldExpression)
	call := cause.AppendName(ast.FieldArgument)
	printID := types.CanonicalID{Path: path, Name: "Print"}
	checkType(t, f, call, types.Instance{ID: printID})
	checkType(t, f, call.AppendName(ast.FieldCallee), types.TypeReference{ID: printID})
	checkType(t, f, cause, actionType)
	checkType(t, f, ah.Crumbs(1), &types.Function{Name: "main", Return: types.Resolved(actionType)})
	if _, ok := f.Canonical(printID); !ok {
		t.Errorf("signal %s has not been registered", printID)
	}
}

func TestAnnotationMismatch(t *testing.T) {
	f := resolve(t, "main.cau", ah.File(
		ah.LetTyped("val", ah.Type("Integer"), ah.String("howdy")),
	), nil)
	checkNumErrors(t, f, 1)
	value := ah.Crumbs(0, ast.FieldValue)
	checkError(t, f, value, types.MismatchedType{Expected: integerType, Actual: stringType})
	inferred, ok := f.Lookup(resolver.Inferred, value)
	if typ, isResolved := inferred.Type(); !ok || !isResolved || !types.Equal(typ, stringType) {
		t.Errorf("inferred type of %s is %s but want %s", value, inferred, stringType)
	}
	checkType(t, f, ah.Crumbs(0), integerType)
}

func TestAnnotationMatch(t *testing.T) {
	f := resolve(t, "main.cau", ah.File(
		ah.LetTyped("val", ah.Type("Integer"), ah.Int(3)),
		ah.FunctionReturning("main", ah.Type("String"), ah.Expr(ah.String("ok"))),
	), nil)
	checkNumErrors(t, f, 0)
	checkType(t, f, ah.Crumbs(0, ast.FieldValue), integerType)
	checkType(t, f, ah.Crumbs(1), &types.Function{Name: "main", Return: types.Resolved(stringType)})
}

func TestUndeclaredSignal(t *testing.T) {
	f := resolve(t, "main.cau", ah.File(
		ah.Function("main", ah.Expr(ah.Cause(ah.Call(ah.Ident("Undeclared"))))),
	), nil)
	checkNumErrors(t, f, 1)
	cause := stmt(0, 0, ast.FieldExpression)
	call := cause.AppendName(ast.FieldArgument)
	callee := call.AppendName(ast.FieldCallee)
	checkError(t, f, callee, types.NotInScope{Name: "Undeclared"})
	checkError(t, f, call, types.ProxyError{CausedBy: callee})
	checkError(t, f, cause, types.ProxyError{CausedBy: call})
	fn, _ := f.TypeOf(ah.Crumbs(0))
	if typ, ok := fn.Type(); !ok {
		t.Errorf("function has not been resolved: %s", fn)
	} else if ret := typ.(*types.Function).Return; ret.Err() == nil {
		t.Errorf("function returns %s but want an error", ret)
	}
}

func TestEmptyBody(t *testing.T) {
	f := resolve(t, "main.cau", ah.File(ah.Function("f")), nil)
	checkNumErrors(t, f, 0)
	checkType(t, f, ah.Crumbs(0, ast.FieldBody), actionType)
	checkType(t, f, ah.Crumbs(0), &types.Function{Name: "f", Return: types.Resolved(actionType)})
}

func TestMutualRecursionNeverResolves(t *testing.T) {
	f := resolve(t, "main.cau", ah.File(
		ah.Function("a", ah.Expr(ah.Call(ah.Ident("b")))),
		ah.Function("b", ah.Expr(ah.Call(ah.Ident("a")))),
	), nil)
	for _, c := range []crumbs.Crumbs{
		ah.Crumbs(0),
		ah.Crumbs(1),
		stmt(0, 0, ast.FieldExpression),
		stmt(1, 0, ast.FieldExpression),
	} {
		checkError(t, f, c, types.NeverResolved{})
	}
	for e := range f.Entries() {
		if e.Value.IsPending() {
			t.Errorf("%s %s is still pending", e.Kind, e.Crumbs)
		}
	}
	if f.Errors() == nil {
		t.Errorf("unresolved nodes have not been reported")
	}
}

func TestCallingFunctions(t *testing.T) {
	f := resolve(t, "main.cau", ah.File(
		ah.Import(core.StringPath, ah.Mapping("append")),
		ah.Function("helper", ah.Expr(ah.Call(ah.Ident("append"), ah.Arg(ah.String("a")), ah.Arg(ah.String("b"))))),
		ah.Function("main", ah.Expr(ah.Call(ah.Ident("helper")))),
	), nil)
	checkNumErrors(t, f, 0)
	checkType(t, f, stmt(2, 0, ast.FieldExpression), stringType)
}

func TestLocalValues(t *testing.T) {
	f := resolve(t, "main.cau", ah.File(
		ah.Function("main",
			ah.Decl(ah.Let("message", ah.String("hello"))),
			ah.Expr(ah.Cause(ah.Call(ah.Ident("Debug"), ah.Arg(ah.Ident("message"))))),
		),
	), nil)
	checkNumErrors(t, f, 0)
	checkType(t, f, stmt(0, 0), actionType)
	checkType(t, f, stmt(0, 0, ast.FieldDeclaration), stringType)
	checkType(t, f, stmt(0, 1, ast.FieldExpression), actionType)
}

func TestDeclarationStatementsAreActions(t *testing.T) {
	f := resolve(t, "main.cau", ah.File(
		ah.Function("main",
			ah.Decl(ah.Let("unused", ah.Int(1))),
			ah.Decl(ah.Let("other", ah.String("a"))),
			ah.Expr(ah.String("done")),
		),
	), nil)
	checkNumErrors(t, f, 0)
	checkType(t, f, stmt(0, 0), actionType)
	checkType(t, f, stmt(0, 1), actionType)
	checkType(t, f, stmt(0, 0, ast.FieldDeclaration, ast.FieldValue), integerType)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		file *ast.File
		at   crumbs.Crumbs
		want types.LangError
	}{
		{
			name: "missing arguments",
			file: ah.File(ah.Function("main", ah.Expr(ah.Cause(ah.Call(ah.Ident("Debug")))))),
			at:   stmt(0, 0, ast.FieldExpression, ast.FieldArgument),
			want: types.MissingArguments{Names: []string{"message"}},
		},
		{
			name: "mistyped argument",
			file: ah.File(ah.Function("main", ah.Expr(ah.Cause(ah.Call(ah.Ident("Debug"), ah.Arg(ah.Int(1))))))),
			at:   stmt(0, 0, ast.FieldExpression, ast.FieldArgument),
			want: types.MismatchedType{Expected: stringType, Actual: integerType},
		},
		{
			name: "excess arguments",
			file: ah.File(ah.Function("main", ah.Expr(ah.Call(ah.Ident("Debug"), ah.Arg(ah.String("a")), ah.Arg(ah.String("b")))))),
			at:   stmt(0, 0, ast.FieldExpression),
			want: types.ExcessArguments{Expected: 1},
		},
		{
			name: "cause a string",
			file: ah.File(ah.Function("main", ah.Expr(ah.Cause(ah.String("oops"))))),
			at:   stmt(0, 0, ast.FieldExpression),
			want: types.NotCausable{Actual: stringType},
		},
		{
			name: "call a string",
			file: ah.File(ah.Function("main", ah.Expr(ah.Call(ah.String("oops"))))),
			at:   stmt(0, 0, ast.FieldExpression),
			want: types.NotCallable{Actual: stringType},
		},
		{
			name: "annotation is not a type",
			file: ah.File(ah.Let("x", ah.Int(1)), ah.LetTyped("y", ah.Type("x"), ah.Int(2))),
			at:   ah.Crumbs(1, ast.FieldValue),
			want: types.NotATypeReference{Actual: integerType},
		},
		{
			name: "file not found",
			file: ah.File(ah.Import("./missing.cau", ah.Mapping("A")), ah.Let("x", ah.Ident("A"))),
			at:   ah.Crumbs(0, ast.FieldMappings, 0),
			want: types.FileNotFound{Path: "missing.cau"},
		},
		{
			name: "export not found",
			file: ah.File(ah.Import(core.StringPath, ah.Mapping("prepend")), ah.Let("x", ah.Ident("prepend"))),
			at:   ah.Crumbs(0, ast.FieldMappings, 0),
			want: types.ExportNotFound{Path: core.StringPath, Name: "prepend"},
		},
		{
			name: "invalid import path",
			file: ah.File(ah.Import("../../x.cau", ah.Mapping("A")), ah.Let("x", ah.Ident("A"))),
			at:   ah.Crumbs(0, ast.FieldMappings, 0),
			want: types.ImportPathInvalid{Path: "../../x.cau"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := resolve(t, "main.cau", test.file, nil)
			checkNumErrors(t, f, 1)
			got := f.CheckForRuntimeError(test.at)
			if got == nil {
				t.Fatalf("no error at %s", test.at)
			}
			if invalid, ok := test.want.(types.ImportPathInvalid); ok {
				gotInvalid, ok := got.(types.ImportPathInvalid)
				if !ok || gotInvalid.Path != invalid.Path {
					t.Errorf("got error %#v but want %#v", got, test.want)
				}
				return
			}
			if !types.ErrorsEqual(got, test.want) {
				t.Errorf("got error %#v but want %#v", got, test.want)
			}
		})
	}
}

func TestLiteralTypesAreStable(t *testing.T) {
	file := ah.File(ah.Let("s", ah.String("a")), ah.Let("i", ah.Int(1)))
	for range 2 {
		f := resolve(t, "main.cau", file, nil)
		checkType(t, f, ah.Crumbs(0, ast.FieldValue), stringType)
		checkType(t, f, ah.Crumbs(1, ast.FieldValue), integerType)
	}
}

func TestDescriptorAcrossFiles(t *testing.T) {
	lib := resolve(t, "lib.cau", ah.File(
		ah.Function("make", ah.Expr(ah.Call(ah.Ident("Debug"), ah.Arg(ah.String("made"))))),
		ah.Let("Alias", ah.Ident("Debug")),
		ah.Let("broken", ah.Ident("nowhere")),
	), nil)
	desc := lib.Descriptor()
	if got := desc.Exports.Size(); got != 3 {
		t.Errorf("got %d exports but want 3", got)
	}
	alias, _ := desc.Exports.Load("Alias")
	if typ, _ := alias.Type(); typ == nil {
		t.Errorf("Alias has no type")
	} else if _, ok := typ.(types.Canonical); !ok {
		t.Errorf("Alias is exported as %s but want a canonical type", typ)
	}
	main := resolve(t, "main.cau", ah.File(
		ah.Import("./lib.cau", ah.Mapping("make"), ah.Mapping("broken")),
		ah.Function("main",
			ah.Expr(ah.Cause(ah.Call(ah.Ident("make")))),
			ah.Expr(ah.Ident("broken")),
		),
	), map[string]*resolver.ExternalFile{"lib.cau": desc})
	checkNumErrors(t, main, 0)
	checkType(t, main, stmt(1, 0, ast.FieldExpression), actionType)
	checkError(t, main, ah.Crumbs(0, ast.FieldMappings, 1), types.ProxyError{Path: "lib.cau", CausedBy: ah.Crumbs(2)})
}
