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

// Package tags defines the facts the analyzer derives about the nodes of a
// syntax tree and the graph storing them.
//
// Tags referring to another node come in pairs: a tag on one node and its
// inverse on the other node. Both are always inserted together by
// Graph.Add.
package tags

import (
	"fmt"

	"github.com/gx-org/cause/build/crumbs"
	"github.com/gx-org/cause/build/types"
)

// Tag is a fact about a node.
type Tag interface {
	fmt.Stringer
	tag()
}

type (
	// ReferencesFile marks a node referring to a file or to a name exported
	// by a file. ExportName is empty for a reference to the file itself.
	ReferencesFile struct {
		Path       string
		ExportName string
	}

	// BadFileReference marks a node referring to a file with an invalid path.
	BadFileReference struct {
		Path   string
		Reason string
	}

	// ValueComesFrom marks a node whose value is the value of another node.
	ValueComesFrom struct {
		Source crumbs.Crumbs
	}

	// ValueGoesTo is the inverse of ValueComesFrom.
	ValueGoesTo struct {
		Destination crumbs.Crumbs
	}

	// Calls marks a call and its callee.
	Calls struct {
		Callee crumbs.Crumbs
	}

	// CalledBy is the inverse of Calls.
	CalledBy struct {
		Call crumbs.Crumbs
	}

	// CallsWithArgument marks a call and the value of one of its arguments.
	CallsWithArgument struct {
		Argument crumbs.Crumbs
		Index    int
	}

	// ArgumentForCall is the inverse of CallsWithArgument.
	ArgumentForCall struct {
		Call  crumbs.Crumbs
		Index int
	}

	// Causes marks a cause expression and the signal it causes.
	Causes struct {
		Signal crumbs.Crumbs
	}

	// CausedBy is the inverse of Causes.
	CausedBy struct {
		Cause crumbs.Crumbs
	}

	// FunctionCanReturnTypeOf marks a function and a node whose value the
	// function can return.
	FunctionCanReturnTypeOf struct {
		Return crumbs.Crumbs
	}

	// ReturnsFromFunction is the inverse of FunctionCanReturnTypeOf.
	ReturnsFromFunction struct {
		Function crumbs.Crumbs
	}

	// DeclarationForScope marks a declaration and the scope declaring it.
	DeclarationForScope struct {
		Scope crumbs.Crumbs
	}

	// ScopeContainsDeclaration is the inverse of DeclarationForScope.
	ScopeContainsDeclaration struct {
		Declaration crumbs.Crumbs
	}

	// IsPrimitiveValue marks a node whose value is of a primitive type.
	IsPrimitiveValue struct {
		Primitive types.PrimitiveKind
	}

	// IsFunction marks a function declaration.
	IsFunction struct {
		Name string
	}

	// NamedValue marks a named value declaration.
	NamedValue struct {
		Name string
		// TypeAnnotation is nil if the value is not annotated.
		TypeAnnotation *crumbs.Crumbs
		Value          crumbs.Crumbs
	}

	// BasicConstraint marks a value whose type must be the instance type of
	// a type annotation.
	BasicConstraint struct {
		TypeAnnotation crumbs.Crumbs
	}

	// ReferenceNotInScope marks an identifier which is not declared.
	ReferenceNotInScope struct {
		Name string
	}

	// Expression marks a node which is an expression.
	Expression struct{}
)

func (ReferencesFile) tag()           {}
func (BadFileReference) tag()         {}
func (ValueComesFrom) tag()           {}
func (ValueGoesTo) tag()              {}
func (Calls) tag()                    {}
func (CalledBy) tag()                 {}
func (CallsWithArgument) tag()        {}
func (ArgumentForCall) tag()          {}
func (Causes) tag()                   {}
func (CausedBy) tag()                 {}
func (FunctionCanReturnTypeOf) tag()  {}
func (ReturnsFromFunction) tag()      {}
func (DeclarationForScope) tag()      {}
func (ScopeContainsDeclaration) tag() {}
func (IsPrimitiveValue) tag()         {}
func (IsFunction) tag()               {}
func (NamedValue) tag()               {}
func (BasicConstraint) tag()          {}
func (ReferenceNotInScope) tag()      {}
func (Expression) tag()               {}

func (t ReferencesFile) String() string {
	if t.ExportName == "" {
		return fmt.Sprintf("ReferencesFile(%s)", t.Path)
	}
	return fmt.Sprintf("ReferencesFile(%s, %s)", t.Path, t.ExportName)
}

func (t BadFileReference) String() string {
	return fmt.Sprintf("BadFileReference(%s: %s)", t.Path, t.Reason)
}

func (t ValueComesFrom) String() string { return fmt.Sprintf("ValueComesFrom(%s)", t.Source) }
func (t ValueGoesTo) String() string    { return fmt.Sprintf("ValueGoesTo(%s)", t.Destination) }
func (t Calls) String() string          { return fmt.Sprintf("Calls(%s)", t.Callee) }
func (t CalledBy) String() string       { return fmt.Sprintf("CalledBy(%s)", t.Call) }

func (t CallsWithArgument) String() string {
	return fmt.Sprintf("CallsWithArgument(%s, %d)", t.Argument, t.Index)
}

func (t ArgumentForCall) String() string {
	return fmt.Sprintf("ArgumentForCall(%s, %d)", t.Call, t.Index)
}

func (t Causes) String() string   { return fmt.Sprintf("Causes(%s)", t.Signal) }
func (t CausedBy) String() string { return fmt.Sprintf("CausedBy(%s)", t.Cause) }

func (t FunctionCanReturnTypeOf) String() string {
	return fmt.Sprintf("FunctionCanReturnTypeOf(%s)", t.Return)
}

func (t ReturnsFromFunction) String() string {
	return fmt.Sprintf("ReturnsFromFunction(%s)", t.Function)
}

func (t DeclarationForScope) String() string {
	return fmt.Sprintf("DeclarationForScope(%s)", t.Scope)
}

func (t ScopeContainsDeclaration) String() string {
	return fmt.Sprintf("ScopeContainsDeclaration(%s)", t.Declaration)
}

func (t IsPrimitiveValue) String() string { return fmt.Sprintf("IsPrimitiveValue(%s)", t.Primitive) }
func (t IsFunction) String() string       { return fmt.Sprintf("IsFunction(%s)", t.Name) }

func (t NamedValue) String() string {
	if t.TypeAnnotation == nil {
		return fmt.Sprintf("NamedValue(%s, %s)", t.Name, t.Value)
	}
	return fmt.Sprintf("NamedValue(%s: %s, %s)", t.Name, *t.TypeAnnotation, t.Value)
}

func (t BasicConstraint) String() string {
	return fmt.Sprintf("BasicConstraint(%s)", t.TypeAnnotation)
}

func (t ReferenceNotInScope) String() string { return fmt.Sprintf("ReferenceNotInScope(%s)", t.Name) }
func (Expression) String() string            { return "Expression" }

// Inverse returns the tag to attach to the node referred to by a tag.
// own is the breadcrumb of the node holding the tag.
// It returns false if the tag has no inverse.
func Inverse(tag Tag, own crumbs.Crumbs) (crumbs.Crumbs, Tag, bool) {
	switch t := tag.(type) {
	case ValueComesFrom:
		return t.Source, ValueGoesTo{Destination: own}, true
	case ValueGoesTo:
		return t.Destination, ValueComesFrom{Source: own}, true
	case Calls:
		return t.Callee, CalledBy{Call: own}, true
	case CalledBy:
		return t.Call, Calls{Callee: own}, true
	case CallsWithArgument:
		return t.Argument, ArgumentForCall{Call: own, Index: t.Index}, true
	case ArgumentForCall:
		return t.Call, CallsWithArgument{Argument: own, Index: t.Index}, true
	case Causes:
		return t.Signal, CausedBy{Cause: own}, true
	case CausedBy:
		return t.Cause, Causes{Signal: own}, true
	case FunctionCanReturnTypeOf:
		return t.Return, ReturnsFromFunction{Function: own}, true
	case ReturnsFromFunction:
		return t.Function, FunctionCanReturnTypeOf{Return: own}, true
	case DeclarationForScope:
		return t.Scope, ScopeContainsDeclaration{Declaration: own}, true
	case ScopeContainsDeclaration:
		return t.Declaration, DeclarationForScope{Scope: own}, true
	}
	return crumbs.Crumbs{}, nil, false
}
