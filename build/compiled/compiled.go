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

// Package compiled defines compiled files: the output of the compiler run by
// the virtual machine.
package compiled

import (
	"fmt"
	"strings"

	"github.com/gx-org/cause/base/ordered"
	"github.com/gx-org/cause/build/crumbs"
	"github.com/gx-org/cause/build/types"
)

// Opcode is the operation of an instruction.
type Opcode int

const (
	// Pop discards the value on top of the stack.
	Pop Opcode = iota
	// PushAction pushes the action value.
	PushAction
	// Literal pushes a constant of the chunk.
	Literal
	// Import pushes a value exported by a file. Both arguments are constants:
	// the path of the file and the name of the export.
	Import
	// ReadLocal pushes a copy of a local slot of the stack.
	ReadLocal
	// Construct pops a type and its arguments and pushes an instance of the type.
	Construct
	// CallFunction pops a function and its arguments and pushes the result of
	// the call.
	CallFunction
	// Cause pops a signal and causes it.
	Cause
	// Return returns the value on top of the stack.
	Return
)

var opcodeNames = map[Opcode]string{
	Pop:          "Pop",
	PushAction:   "PushAction",
	Literal:      "Literal",
	Import:       "Import",
	ReadLocal:    "ReadLocal",
	Construct:    "Construct",
	CallFunction: "CallFunction",
	Cause:        "Cause",
	Return:       "Return",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

// NumArgs returns the number of arguments taken by an opcode.
func (op Opcode) NumArgs() int {
	switch op {
	case Literal, ReadLocal:
		return 1
	case Import:
		return 2
	}
	return 0
}

// Instruction is an instruction of a chunk.
type Instruction struct {
	Op Opcode
	// Args are constant indices or local slots, depending on the opcode.
	Args []int
}

// Instr returns a new instruction.
func Instr(op Opcode, args ...int) Instruction {
	return Instruction{Op: op, Args: args}
}

func (inst Instruction) String() string {
	if len(inst.Args) == 0 {
		return inst.Op.String()
	}
	args := make([]string, len(inst.Args))
	for i, arg := range inst.Args {
		args[i] = fmt.Sprint(arg)
	}
	return fmt.Sprintf("%s(%s)", inst.Op, strings.Join(args, ", "))
}

// Constant is a value stored in the constant table of a chunk.
type Constant interface {
	fmt.Stringer
	constant()
}

type (
	// StringConstant is a string value.
	StringConstant struct {
		Value string
	}

	// IntegerConstant is an integer value.
	IntegerConstant struct {
		Value int64
	}

	// FloatConstant is a float value.
	FloatConstant struct {
		Value float64
	}

	// ErrorConstant is a bad value: an error found at compile time and
	// reported at run time, with the node where the error was found.
	ErrorConstant struct {
		Path   string
		Crumbs crumbs.Crumbs
		Err    types.LangError
	}
)

func (StringConstant) constant()  {}
func (IntegerConstant) constant() {}
func (FloatConstant) constant()   {}
func (ErrorConstant) constant()   {}

func (c StringConstant) String() string  { return fmt.Sprintf("%q", c.Value) }
func (c IntegerConstant) String() string { return fmt.Sprint(c.Value) }
func (c FloatConstant) String() string   { return fmt.Sprint(c.Value) }
func (c ErrorConstant) String() string {
	return fmt.Sprintf("error(%s:[%s]: %s)", c.Path, c.Crumbs, c.Err)
}

// ConstantsEqual returns true if two constants are the same value.
func ConstantsEqual(a, b Constant) bool {
	switch a := a.(type) {
	case ErrorConstant:
		bErr, ok := b.(ErrorConstant)
		return ok &&
			a.Path == bErr.Path &&
			a.Crumbs.Equal(bErr.Crumbs) &&
			types.ErrorsEqual(a.Err, bErr.Err)
	default:
		return a == b
	}
}

// Chunk is a sequence of instructions with its constant table.
type Chunk struct {
	Constants    []Constant
	Instructions []Instruction
}

// AddConstant adds a constant to the table of the chunk if the table does
// not contain it already. It returns the index of the constant in the table.
func (ch *Chunk) AddConstant(c Constant) int {
	for i, existing := range ch.Constants {
		if ConstantsEqual(existing, c) {
			return i
		}
	}
	ch.Constants = append(ch.Constants, c)
	return len(ch.Constants) - 1
}

// Write appends an instruction to the chunk.
func (ch *Chunk) Write(op Opcode, args ...int) {
	ch.Instructions = append(ch.Instructions, Instr(op, args...))
}

// WriteLiteral appends an instruction pushing a constant.
func (ch *Chunk) WriteLiteral(c Constant) {
	ch.Write(Literal, ch.AddConstant(c))
}

// WriteImport appends an instruction pushing a value exported by a file.
func (ch *Chunk) WriteImport(path, name string) {
	pathIndex := ch.AddConstant(StringConstant{Value: path})
	nameIndex := ch.AddConstant(StringConstant{Value: name})
	ch.Write(Import, pathIndex, nameIndex)
}

// Export is a value exported by a compiled file.
type Export interface {
	fmt.Stringer
	export()
}

type (
	// TypeExport exports a canonical type declared by the file.
	TypeExport struct {
		ID types.CanonicalID
	}

	// ChunkExport exports a function compiled into a chunk.
	ChunkExport struct {
		Index int
	}

	// ConstantExport exports a constant value.
	ConstantExport struct {
		Value Constant
	}
)

func (TypeExport) export()     {}
func (ChunkExport) export()    {}
func (ConstantExport) export() {}

func (e TypeExport) String() string     { return fmt.Sprintf("type(%s)", e.ID) }
func (e ChunkExport) String() string    { return fmt.Sprintf("chunk(%d)", e.Index) }
func (e ConstantExport) String() string { return fmt.Sprintf("constant(%s)", e.Value) }

// File is a compiled file.
type File struct {
	Path    string
	Exports *ordered.Map[string, Export]
	Chunks  []*Chunk
	// Types are the canonical types declared by the file.
	Types []*types.Signal
}

// NewFile returns an empty compiled file.
func NewFile(path string) *File {
	return &File{
		Path:    path,
		Exports: ordered.NewMap[string, Export](),
	}
}

// AddChunk appends a chunk to the file and returns its index.
func (f *File) AddChunk(ch *Chunk) int {
	f.Chunks = append(f.Chunks, ch)
	return len(f.Chunks) - 1
}

// Chunk returns the chunk exported under a given name.
func (f *File) Chunk(name string) (*Chunk, bool) {
	exp, ok := f.Exports.Load(name)
	if !ok {
		return nil, false
	}
	chExp, ok := exp.(ChunkExport)
	if !ok {
		return nil, false
	}
	return f.Chunks[chExp.Index], true
}

// Disassemble returns a readable listing of a chunk.
func (ch *Chunk) Disassemble() string {
	var b strings.Builder
	for i, c := range ch.Constants {
		fmt.Fprintf(&b, "const %d: %s\n", i, c)
	}
	for i, inst := range ch.Instructions {
		fmt.Fprintf(&b, "%04d %s\n", i, inst)
	}
	return b.String()
}
