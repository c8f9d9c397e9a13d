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

import "github.com/gx-org/cause/build/ast"

// Appender appends errors to a set within the context of a file.
type Appender struct {
	errors *Errors
	path   string
}

// Append an error to the list of errors.
func (app *Appender) Append(err error) bool {
	return app.errors.Append(err)
}

// AppendAt appends an existing error at a given node.
func (app *Appender) AppendAt(node ast.Node, err error) bool {
	return app.Append(Position(app.path, node, err))
}

// AppendInternalf appends an internal error at a node.
func (app *Appender) AppendInternalf(node ast.Node, format string, a ...any) bool {
	return app.Append(Internalf(app.path, node, format, a...))
}

// Path returns the path of the file.
func (app *Appender) Path() string {
	return app.path
}

// Errors returns the set of errors or nil if no errors has been appended.
func (app *Appender) Errors() *Errors {
	if app.errors.Empty() {
		return nil
	}
	return app.errors
}
