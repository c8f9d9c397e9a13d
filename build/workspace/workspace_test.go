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

package workspace_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/cause/base/ordered"
	"github.com/gx-org/cause/build/ast"
	ah "github.com/gx-org/cause/build/ast/asthelper"
	"github.com/gx-org/cause/build/compiled"
	"github.com/gx-org/cause/build/compiler"
	"github.com/gx-org/cause/build/core"
	"github.com/gx-org/cause/build/resolver"
	"github.com/gx-org/cause/build/types"
	"github.com/gx-org/cause/build/workspace"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

func TestBuildAcrossFiles(t *testing.T) {
	ws := workspace.New(workspace.WithConcurrency(2))
	b, err := ws.Build(context.Background(), map[string]*ast.File{
		"project/main.cau": ah.File(
			ah.Import("./lib.cau", ah.Mapping("greeting")),
			ah.Function("main", ah.Expr(ah.Cause(ah.Call(ah.Ident("Debug"), ah.Arg(ah.Call(ah.Ident("greeting"))))))),
		),
		"project/lib.cau": ah.File(
			ah.Import(core.StringPath, ah.Mapping("append")),
			ah.Function("greeting", ah.Expr(ah.Call(ah.Ident("append"), ah.Arg(ah.String("hello ")), ah.Arg(ah.String("world"))))),
		),
	})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if diags := b.Diagnostics(); diags != nil {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	var order []string
	for unit := range b.Units() {
		order = append(order, unit.Path)
	}
	if diff := cmp.Diff(order, []string{"project/lib.cau", "project/main.cau"}); diff != "" {
		t.Errorf("incorrect build order:\n%s", diff)
	}
	lib, ok := b.Descriptor("project/lib.cau")
	if !ok {
		t.Fatalf("descriptor of project/lib.cau has not been published")
	}
	greeting, ok := lib.Exports.Load("greeting")
	if !ok {
		t.Fatalf("greeting is not exported by project/lib.cau")
	}
	want := &types.Function{Name: "greeting", Return: types.Resolved(types.Primitive{Kind: types.String})}
	if typ, _ := greeting.Type(); typ == nil || !types.Equal(typ, want) {
		t.Errorf("incorrect greeting export: got %s but want %s", greeting, want)
	}
	main, ok := b.Unit("project/main.cau")
	if !ok || main.Compiled == nil {
		t.Fatalf("project/main.cau has not been compiled")
	}
	ch, ok := main.Compiled.Chunk("main")
	if !ok {
		t.Fatalf("chunk main not found")
	}
	var insts []string
	for _, inst := range ch.Instructions {
		insts = append(insts, inst.String())
	}
	wantInsts := []string{"Import(0, 1)", "CallFunction", "Import(2, 3)", "Construct", "Cause", "Return"}
	if diff := cmp.Diff(insts, wantInsts); diff != "" {
		t.Errorf("incorrect instructions:\n%s\n%s", diff, ch.Disassemble())
	}
	if got := ch.Constants[0]; !compiled.ConstantsEqual(got, compiled.StringConstant{Value: "project/lib.cau"}) {
		t.Errorf("incorrect import path: got %s but want %q", got, "project/lib.cau")
	}
}

func TestImportCycle(t *testing.T) {
	_, err := workspace.New().Build(context.Background(), map[string]*ast.File{
		"a.cau": ah.File(ah.Import("b.cau", ah.Mapping("b"))),
		"b.cau": ah.File(ah.Import("a.cau", ah.Mapping("a"))),
	})
	if !errors.Is(err, workspace.ErrImportCycle) {
		t.Fatalf("got error %v but want %v", err, workspace.ErrImportCycle)
	}
	const want = "a.cau -> b.cau -> a.cau: import cycle"
	if err.Error() != want {
		t.Errorf("incorrect error message: got %q but want %q", err.Error(), want)
	}
}

func TestExternalFile(t *testing.T) {
	const signals = "langtest/signals.cau"
	exports := ordered.NewMap[string, types.Value]()
	exports.Store("Print", types.Resolved(types.Canonical{Signal: &types.Signal{
		ID:     types.CanonicalID{Path: signals, Name: "Print"},
		Name:   "Print",
		Params: []types.Param{{Name: "message", Type: types.Primitive{Kind: types.String}}},
		Result: types.Primitive{Kind: types.Action},
	}}))
	ws := workspace.New(workspace.WithExternal(signals, &resolver.ExternalFile{Exports: exports}))
	b, err := ws.Build(context.Background(), map[string]*ast.File{
		"hello.cau": ah.File(
			ah.Import(signals, ah.Mapping("Print")),
			ah.Function("main", ah.Expr(ah.Cause(ah.Call(ah.Ident("Print"), ah.Arg(ah.String("Hello World")))))),
		),
	})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if diags := b.Diagnostics(); diags != nil {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

func TestManyIndependentFiles(t *testing.T) {
	const numFiles = 20
	files := make(map[string]*ast.File)
	for i := range numFiles {
		files[fmt.Sprintf("file%d.cau", i)] = ah.File(
			ah.Function("main", ah.Expr(ah.Cause(ah.Call(ah.Ident("Debug"), ah.Arg(ah.String(fmt.Sprint(i))))))),
		)
	}
	b, err := workspace.New(workspace.WithConcurrency(4)).Build(context.Background(), files)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	compiledFiles := 0
	for unit := range b.Units() {
		if unit.Compiled != nil {
			compiledFiles++
		}
	}
	if compiledFiles != numFiles {
		t.Errorf("got %d compiled files but want %d", compiledFiles, numFiles)
	}
}

func TestDiagnostics(t *testing.T) {
	b, err := workspace.New().Build(context.Background(), map[string]*ast.File{
		"lib.cau": ah.File(ah.LetTyped("count", ah.Type("Integer"), ah.String("howdy"))),
		"main.cau": ah.File(
			ah.Import("lib.cau", ah.Mapping("count")),
			ah.Function("main", ah.Expr(ah.Ident("count"))),
		),
	})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	diags := b.Diagnostics()
	if got := len(diags.Errors()); got != 1 {
		t.Errorf("got %d diagnostics but want 1:\n%v", got, diags)
	}
	main, _ := b.Unit("main.cau")
	if errs := main.Resolved.Errors(); errs != nil {
		t.Errorf("errors of lib.cau reported in main.cau: %v", errs)
	}
}

func TestCompileErrorsAreAggregated(t *testing.T) {
	b, err := workspace.New().Build(context.Background(), map[string]*ast.File{
		"a.cau": ah.File(
			ah.Let("a", ah.String("a")),
			ah.Let("b", ah.Ident("a")),
			ah.Let("c", ah.Ident("a")),
		),
		"b.cau": ah.File(
			ah.Let("a", ah.String("a")),
			ah.Let("b", ah.Ident("a")),
		),
	})
	errs := multierr.Errors(err)
	if len(errs) != 3 {
		t.Fatalf("got %d errors but want 3: %v", len(errs), err)
	}
	perFile := make(map[string]int)
	for _, err := range errs {
		if !errors.Is(err, compiler.ErrNotImplemented) {
			t.Errorf("got error %v but want %v", err, compiler.ErrNotImplemented)
		}
		for _, path := range []string{"a.cau", "b.cau"} {
			if strings.HasPrefix(err.Error(), "compiling "+path+": ") {
				perFile[path]++
			}
		}
	}
	if diff := cmp.Diff(perFile, map[string]int{"a.cau": 2, "b.cau": 1}); diff != "" {
		t.Errorf("errors are not prefixed with their file:\n%s", diff)
	}
	for unit := range b.Units() {
		if _, ok := b.Descriptor(unit.Path); !ok {
			t.Errorf("descriptor of %s has not been published", unit.Path)
		}
	}
}
