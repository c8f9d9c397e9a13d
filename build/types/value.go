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

type state int

const (
	pending state = iota
	resolved
	errored
)

// Value is the state of the type of a node during resolution:
// pending, resolved to a type, or resolved to a language error.
// The zero value is pending.
type Value struct {
	state state
	typ   Type
	err   LangError
}

// Pending returns a value which has not been resolved yet.
func Pending() Value {
	return Value{}
}

// Resolved returns a value resolved to a type.
func Resolved(t Type) Value {
	return Value{state: resolved, typ: t}
}

// Errored returns a value resolved to an error.
func Errored(err LangError) Value {
	return Value{state: errored, err: err}
}

// IsPending returns true if the value has not been resolved.
func (v Value) IsPending() bool {
	return v.state == pending
}

// Type returns the type of a resolved value.
func (v Value) Type() (Type, bool) {
	return v.typ, v.state == resolved
}

// Err returns the error of a value resolved to an error, nil otherwise.
func (v Value) Err() LangError {
	if v.state != errored {
		return nil
	}
	return v.err
}

// Equal returns true if two values are in the same state with the same
// type or the same error.
func (v Value) Equal(other Value) bool {
	if v.state != other.state {
		return false
	}
	switch v.state {
	case resolved:
		return Equal(v.typ, other.typ)
	case errored:
		return ErrorsEqual(v.err, other.err)
	}
	return true
}

// String returns a readable representation of the value.
func (v Value) String() string {
	switch v.state {
	case resolved:
		return v.typ.String()
	case errored:
		return "error: " + v.err.Error()
	}
	return "pending"
}
