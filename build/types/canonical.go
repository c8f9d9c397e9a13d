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
	"strings"
)

// CanonicalID identifies a canonical type across files.
type CanonicalID struct {
	// Path of the file declaring the type.
	Path string
	// ParentName is the name of the declaration enclosing the type, if any.
	ParentName string
	// Name of the type.
	Name string
	// Number disambiguates types with the same qualified name in a file.
	Number int
}

// String returns a readable representation of the identifier.
func (id CanonicalID) String() string {
	var b strings.Builder
	b.WriteString(id.Path)
	b.WriteString(":")
	if id.ParentName != "" {
		b.WriteString(id.ParentName)
		b.WriteString(".")
	}
	b.WriteString(id.Name)
	if id.Number > 0 {
		fmt.Fprintf(&b, "#%d", id.Number)
	}
	return b.String()
}

// Signal is a canonical type which can be constructed and caused.
type Signal struct {
	ID     CanonicalID
	Name   string
	Params []Param
	// Result is the type of the value produced by causing the signal.
	Result Type
}

// Equal returns true if two signals have the same definition.
func (s *Signal) Equal(other *Signal) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return s.ID == other.ID &&
		s.Name == other.Name &&
		paramsEqual(s.Params, other.Params) &&
		Equal(s.Result, other.Result)
}

// String returns the signature of the signal.
func (s *Signal) String() string {
	return fmt.Sprintf("signal %s(%s) %s", s.Name, paramsString(s.Params), s.Result)
}
