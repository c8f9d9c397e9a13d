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

package compiled_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/cause/build/compiled"
	"github.com/gx-org/cause/build/crumbs"
	"github.com/gx-org/cause/build/types"
)

func TestAddConstantDeduplicates(t *testing.T) {
	ch := &compiled.Chunk{}
	missing := func(c crumbs.Crumbs) compiled.Constant {
		return compiled.ErrorConstant{
			Path:   "main.cau",
			Crumbs: c,
			Err:    types.MissingArguments{Names: []string{"message"}},
		}
	}
	first := crumbs.Root().AppendName("declarations").AppendIndex(0)
	second := crumbs.Root().AppendName("declarations").AppendIndex(1)
	consts := []compiled.Constant{
		compiled.StringConstant{Value: "a"},
		compiled.IntegerConstant{Value: 1},
		compiled.StringConstant{Value: "a"},
		missing(first),
		missing(first),
		compiled.IntegerConstant{Value: 1},
		missing(second),
		compiled.StringConstant{Value: "b"},
	}
	var got []int
	for _, c := range consts {
		got = append(got, ch.AddConstant(c))
	}
	want := []int{0, 1, 0, 2, 2, 1, 3, 4}
	if !cmp.Equal(got, want) {
		t.Errorf("incorrect constant indices: got %v but want %v", got, want)
	}
	if len(ch.Constants) != 5 {
		t.Errorf("got %d constants but want 5", len(ch.Constants))
	}
}

func TestWriteImport(t *testing.T) {
	ch := &compiled.Chunk{}
	ch.WriteLiteral(compiled.StringConstant{Value: "Debug"})
	ch.WriteImport("core/builtin.cau", "Debug")
	ch.Write(compiled.Construct)
	want := []string{"Literal(0)", "Import(1, 0)", "Construct"}
	var got []string
	for _, inst := range ch.Instructions {
		got = append(got, inst.String())
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("incorrect instructions: %s", diff)
	}
}

func TestOpcodeArgs(t *testing.T) {
	tests := []struct {
		op   compiled.Opcode
		name string
		args int
	}{
		{compiled.Pop, "Pop", 0},
		{compiled.PushAction, "PushAction", 0},
		{compiled.Literal, "Literal", 1},
		{compiled.Import, "Import", 2},
		{compiled.ReadLocal, "ReadLocal", 1},
		{compiled.CallFunction, "CallFunction", 0},
		{compiled.Return, "Return", 0},
	}
	for _, test := range tests {
		if got := test.op.String(); got != test.name {
			t.Errorf("incorrect name: got %q but want %q", got, test.name)
		}
		if got := test.op.NumArgs(); got != test.args {
			t.Errorf("%s: got %d arguments but want %d", test.name, got, test.args)
		}
	}
}

func TestFileChunk(t *testing.T) {
	f := compiled.NewFile("main.cau")
	idx := f.AddChunk(&compiled.Chunk{})
	f.Exports.Store("main", compiled.ChunkExport{Index: idx})
	f.Exports.Store("x", compiled.ConstantExport{Value: compiled.IntegerConstant{Value: 2}})
	if _, ok := f.Chunk("main"); !ok {
		t.Errorf("chunk main not found")
	}
	if _, ok := f.Chunk("x"); ok {
		t.Errorf("constant x returned as a chunk")
	}
	if _, ok := f.Chunk("y"); ok {
		t.Errorf("unknown export y returned as a chunk")
	}
}

func TestErrorConstantString(t *testing.T) {
	c := compiled.ErrorConstant{
		Path:   "main.cau",
		Crumbs: crumbs.Root().AppendName("declarations").AppendIndex(2),
		Err:    types.NotInScope{Name: "x"},
	}
	want := "error(main.cau:[declarations.2]: x not in scope)"
	if got := c.String(); got != want {
		t.Errorf("got %q but want %q", got, want)
	}
}

func TestDisassemble(t *testing.T) {
	ch := &compiled.Chunk{}
	ch.WriteLiteral(compiled.StringConstant{Value: "hi"})
	ch.Write(compiled.Return)
	got := ch.Disassemble()
	want := "const 0: \"hi\"\n0000 Literal(0)\n0001 Return\n"
	if got != want {
		t.Errorf("incorrect listing:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
