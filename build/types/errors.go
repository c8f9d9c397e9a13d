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

package types

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gx-org/cause/build/crumbs"
)

// LangError is an error in a cause program.
// Language errors are values: they are stored in the resolved types and
// compiled into runtime errors.
type LangError interface {
	error
	langError()
}

type (
	// NeverResolved is the error of a node whose type could not be inferred.
	NeverResolved struct{}

	// NotInScope is the error of an identifier which is not declared.
	NotInScope struct {
		Name string
	}

	// FileNotFound is the error of a reference to an unknown file.
	FileNotFound struct {
		Path string
	}

	// ImportPathInvalid is the error of an import with an invalid path.
	ImportPathInvalid struct {
		Path   string
		Reason string
	}

	// ExportNotFound is the error of a reference to a name a file does not export.
	ExportNotFound struct {
		Path string
		Name string
	}

	// ProxyError is the error of a node which depends on another node with
	// an error. Proxy errors are not reported to the user: the upstream
	// error is.
	ProxyError struct {
		// Path of the file of the node with the error, empty for the
		// same file.
		Path     string
		CausedBy crumbs.Crumbs
	}

	// NotCallable is the error of calling a value which is not a function
	// or a signal.
	NotCallable struct {
		Actual Type
	}

	// NotCausable is the error of causing a value which is not a signal.
	NotCausable struct {
		Actual Type
	}

	// ImplementationTodo is the error of a feature not implemented yet.
	ImplementationTodo struct {
		Description string
	}

	// MismatchedType is the error of a value whose type differs from the
	// expected type.
	MismatchedType struct {
		Expected Type
		Actual   Type
	}

	// NotATypeReference is the error of a type annotation which does not
	// refer to a type.
	NotATypeReference struct {
		Actual Type
	}

	// MissingArguments is the error of a call without all the parameters
	// of the callee.
	MissingArguments struct {
		Names []string
	}

	// ExcessArguments is the error of a call with more arguments than
	// the callee has parameters.
	ExcessArguments struct {
		Expected int
	}
)

func (NeverResolved) langError()      {}
func (NotInScope) langError()         {}
func (FileNotFound) langError()       {}
func (ImportPathInvalid) langError()  {}
func (ExportNotFound) langError()     {}
func (ProxyError) langError()         {}
func (NotCallable) langError()        {}
func (NotCausable) langError()        {}
func (ImplementationTodo) langError() {}
func (MismatchedType) langError()     {}
func (NotATypeReference) langError()  {}
func (MissingArguments) langError()   {}
func (ExcessArguments) langError()    {}

func (NeverResolved) Error() string {
	return "type could not be inferred"
}

func (e NotInScope) Error() string {
	if e.Name == "" {
		return "reference not in scope"
	}
	return fmt.Sprintf("%s not in scope", e.Name)
}

func (e FileNotFound) Error() string {
	return fmt.Sprintf("file %q not found", e.Path)
}

func (e ImportPathInvalid) Error() string {
	return fmt.Sprintf("invalid import path %q: %s", e.Path, e.Reason)
}

func (e ExportNotFound) Error() string {
	return fmt.Sprintf("file %q does not export %s", e.Path, e.Name)
}

func (e ProxyError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("depends on an error at %s:[%s]", e.Path, e.CausedBy)
	}
	return fmt.Sprintf("depends on an error at [%s]", e.CausedBy)
}

func (e NotCallable) Error() string {
	return fmt.Sprintf("cannot call a value of type %s", e.Actual)
}

func (e NotCausable) Error() string {
	return fmt.Sprintf("cannot cause a value of type %s", e.Actual)
}

func (e ImplementationTodo) Error() string {
	return "not implemented: " + e.Description
}

func (e MismatchedType) Error() string {
	return fmt.Sprintf("mismatched type: expected %s but got %s", e.Expected, e.Actual)
}

func (e NotATypeReference) Error() string {
	return fmt.Sprintf("%s is not a type", e.Actual)
}

func (e MissingArguments) Error() string {
	return "missing arguments: " + strings.Join(e.Names, ", ")
}

func (e ExcessArguments) Error() string {
	return fmt.Sprintf("too many arguments: expected %d", e.Expected)
}

// IsProxy returns true if the error is a proxy to another error.
func IsProxy(err LangError) bool {
	_, ok := err.(ProxyError)
	return ok
}

// ErrorsEqual returns true if two language errors are the same.
func ErrorsEqual(a, b LangError) bool {
	if pa, ok := a.(ProxyError); ok {
		pb, ok := b.(ProxyError)
		return ok && pa.Path == pb.Path && pa.CausedBy.Equal(pb.CausedBy)
	}
	return reflect.DeepEqual(a, b)
}
