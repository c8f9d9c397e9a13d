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

package fmterr

import (
	"fmt"
	"io"

	"github.com/gx-org/cause/build/ast"
	"github.com/gx-org/cause/build/crumbs"
	"github.com/pkg/errors"
)

type (
	// ErrorWithPos is an error attached to a node in a cause file.
	ErrorWithPos interface {
		error
		Path() string
		Crumbs() crumbs.Crumbs
		Range() ast.Range
		Err() error
	}

	errorWithPos struct {
		path   string
		crumbs crumbs.Crumbs
		rng    ast.Range
		err    error
	}
)

// Position adds position information to an error.
func Position(path string, src ast.Node, err error) ErrorWithPos {
	info := src.NodeInfo()
	return errorWithPos{
		path:   path,
		crumbs: info.Crumbs,
		rng:    info.Range,
		err:    err,
	}
}

// Errorf returns a formatted error for the user.
func Errorf(path string, src ast.Node, format string, a ...any) error {
	return Position(path, src, errors.Errorf(format, a...))
}

// Internal marks an error as internal, potentially adding additional information.
func Internal(err error) error {
	return fmt.Errorf("cause internal error. This is a bug in the compiler. Please report it. Error:\n%+v", err)
}

// Internalf returns a formatted internal error.
func Internalf(path string, src ast.Node, format string, a ...any) error {
	return Internal(Errorf(path, src, format, a...))
}

// PosString returns a position as a string that can be used for an error.
func PosString(path string, c crumbs.Crumbs, rng ast.Range) string {
	return fmt.Sprintf("%s:%s:[%s]:", path, rng, c)
}

// Error returns a string description of the error.
func (err errorWithPos) Error() string {
	return PosString(err.path, err.crumbs, err.rng) + " " + err.err.Error()
}

// Unwrap the error.
func (err errorWithPos) Unwrap() error {
	return err.err
}

// Format writes the error into the state of the formatter.
func (err errorWithPos) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			io.WriteString(s, err.Error())
			var withSt interface {
				StackTrace() errors.StackTrace
			}
			if errors.As(err.err, &withSt) {
				fmt.Fprintf(s, "\nError generated at:%+v\n", withSt.StackTrace())
			}
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, err.Error())
	case 'q':
		fmt.Fprintf(s, "%q", err.Error())
	}
}

func (err errorWithPos) Path() string {
	return err.path
}

func (err errorWithPos) Crumbs() crumbs.Crumbs {
	return err.crumbs
}

func (err errorWithPos) Range() ast.Range {
	return err.rng
}

func (err errorWithPos) Err() error {
	return err.err
}
