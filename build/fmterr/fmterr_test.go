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

package fmterr_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/gx-org/cause/build/ast"
	"github.com/gx-org/cause/build/crumbs"
	"github.com/gx-org/cause/build/fmterr"
)

func node() ast.Node {
	return &ast.Identifier{
		Info: ast.Info{
			Crumbs: crumbs.Root().AppendName("declarations").AppendIndex(1),
			Range:  ast.Range{Start: ast.Position{Line: 3, Column: 5}},
		},
		Text: "x",
	}
}

func TestErrorf(t *testing.T) {
	err := fmterr.Errorf("main.cau", node(), "x %s", "not in scope")
	want := "main.cau:3:5:[declarations.1]: x not in scope"
	if got := err.Error(); got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	var withPos fmterr.ErrorWithPos
	if !errors.As(err, &withPos) {
		t.Fatalf("%T does not implement ErrorWithPos", err)
	}
	if withPos.Path() != "main.cau" || withPos.Range().Start.Line != 3 {
		t.Errorf("unexpected position %s %s", withPos.Path(), withPos.Range())
	}
}

func TestAppender(t *testing.T) {
	errs := &fmterr.Errors{}
	app := errs.NewAppender("main.cau")
	if app.Errors() != nil {
		t.Errorf("new appender is not empty")
	}
	app.AppendAt(node(), errors.New("first"))
	app.AppendAt(node(), errors.New("second"))
	app.AppendInternalf(node(), "third")
	if got := len(errs.Errors()); got != 3 {
		t.Fatalf("got %d errors but want 3", got)
	}
	if !strings.Contains(errs.Errors()[2].Error(), "internal error") {
		t.Errorf("error %q is not marked as internal", errs.Errors()[2])
	}
	if app.Path() != "main.cau" {
		t.Errorf("got path %q but want %q", app.Path(), "main.cau")
	}
	if errs.ToError() == nil {
		t.Errorf("ToError returns nil")
	}
	onlyFirst := errs.Transform(func(err error) error {
		if strings.Contains(err.Error(), "first") {
			return err
		}
		return nil
	})
	if got := len(onlyFirst.Errors()); got != 1 {
		t.Errorf("got %d errors after transform but want 1", got)
	}
}

func TestEmptyToError(t *testing.T) {
	var errs *fmterr.Errors
	if err := errs.ToError(); err != nil {
		t.Errorf("got %v but want nil", err)
	}
}
