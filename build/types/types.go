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

// Package types defines the types of cause values and the language errors
// found while resolving them.
package types

import (
	"fmt"
	"strings"
)

// PrimitiveKind is the kind of a primitive type.
type PrimitiveKind int

// Primitive kinds.
const (
	String PrimitiveKind = iota
	Integer
	Float
	Action
)

var primitiveNames = map[PrimitiveKind]string{
	String:  "String",
	Integer: "Integer",
	Float:   "Float",
	Action:  "Action",
}

// String returns the name of the primitive as exported by the core files.
func (k PrimitiveKind) String() string {
	if s, ok := primitiveNames[k]; ok {
		return s
	}
	return fmt.Sprintf("PrimitiveKind(%d)", int(k))
}

// Primitives returns all the primitive kinds in declaration order.
func Primitives() []PrimitiveKind {
	return []PrimitiveKind{String, Integer, Float, Action}
}

type (
	// Type of a value.
	Type interface {
		fmt.Stringer
		typ()
	}

	// Primitive is a value of a primitive type.
	Primitive struct {
		Kind PrimitiveKind
	}

	// PrimitiveType is a primitive type used as a value, for example in a
	// type annotation.
	PrimitiveType struct {
		Kind PrimitiveKind
	}

	// Param is a parameter of a function or a signal.
	Param struct {
		Name string
		Type Type
	}

	// Function is the type of a function.
	Function struct {
		Name   string
		Params []Param
		// Return can be an error if the body of the function has an error.
		Return Value
	}

	// Canonical is a canonical type as declared in a file descriptor.
	// Canonical types are registered by the resolver and then referred to
	// by TypeReference.
	Canonical struct {
		Signal *Signal
	}

	// TypeReference refers to a registered canonical type.
	TypeReference struct {
		ID CanonicalID
	}

	// Instance is an instance of a registered canonical type.
	Instance struct {
		ID CanonicalID
	}

	// BadValue is the type of runtime error values.
	BadValue struct{}

	// NeverContinues is the type of causing a signal which never resumes.
	NeverContinues struct{}
)

func (Primitive) typ()      {}
func (PrimitiveType) typ()  {}
func (*Function) typ()      {}
func (Canonical) typ()      {}
func (TypeReference) typ()  {}
func (Instance) typ()       {}
func (BadValue) typ()       {}
func (NeverContinues) typ() {}

func (t Primitive) String() string     { return t.Kind.String() }
func (t PrimitiveType) String() string { return "type " + t.Kind.String() }
func (t Canonical) String() string     { return "canonical " + t.Signal.ID.String() }
func (t TypeReference) String() string { return "type " + t.ID.String() }
func (t Instance) String() string      { return t.ID.String() }
func (BadValue) String() string        { return "BadValue" }
func (NeverContinues) String() string  { return "NeverContinues" }

func paramsString(params []Param) string {
	ss := make([]string, len(params))
	for i, p := range params {
		ss[i] = fmt.Sprintf("%s %s", p.Name, p.Type)
	}
	return strings.Join(ss, ", ")
}

func (t *Function) String() string {
	return fmt.Sprintf("fn %s(%s) %s", t.Name, paramsString(t.Params), t.Return)
}

// InstanceType returns the type of the values described by a type.
// It returns false if the type does not describe a type of values.
func InstanceType(t Type) (Type, bool) {
	switch t := t.(type) {
	case PrimitiveType:
		return Primitive{Kind: t.Kind}, true
	case TypeReference:
		return Instance{ID: t.ID}, true
	case Canonical:
		return Instance{ID: t.Signal.ID}, true
	}
	return nil, false
}

// Equal returns true if two types are the same.
func Equal(a, b Type) bool {
	switch at := a.(type) {
	case *Function:
		bt, ok := b.(*Function)
		if !ok {
			return false
		}
		if at == bt {
			return true
		}
		if at.Name != bt.Name || !paramsEqual(at.Params, bt.Params) {
			return false
		}
		return at.Return.Equal(bt.Return)
	case Canonical:
		bt, ok := b.(Canonical)
		if !ok {
			return false
		}
		return at.Signal.Equal(bt.Signal)
	}
	return a == b
}

func paramsEqual(a, b []Param) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !Equal(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}
