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

// Package module resolves and validates the paths of cause files.
//
// Paths are slash-separated and relative to the root of the workspace, for
// example core/builtin.cau. Imports can also be relative to the importing
// file when they start with ./ or ../.
package module

import (
	"path"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/mod/module"
)

// Extension of cause source files.
const Extension = ".cau"

// IsRelative returns true if an import path is relative to the importing file.
func IsRelative(importPath string) bool {
	return strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../")
}

// Resolve returns the workspace path of the file imported by importPath from
// the file at importer.
func Resolve(importer, importPath string) (string, error) {
	if importPath == "" {
		return "", errors.Errorf("empty import path")
	}
	if strings.HasPrefix(importPath, "/") {
		return "", errors.Errorf("import path %q cannot be absolute", importPath)
	}
	resolved := importPath
	if IsRelative(importPath) {
		resolved = path.Join(path.Dir(importer), importPath)
	}
	resolved = path.Clean(resolved)
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		return "", errors.Errorf("import path %q from %s is outside of the workspace", importPath, importer)
	}
	if err := Check(resolved); err != nil {
		return "", err
	}
	return resolved, nil
}

// Check returns an error if a workspace path is not a valid path to a cause
// source file.
func Check(p string) error {
	if !strings.HasSuffix(p, Extension) {
		return errors.Errorf("%q is not a %s file", p, Extension)
	}
	if err := module.CheckFilePath(p); err != nil {
		return errors.Wrapf(err, "invalid file path %q", p)
	}
	return nil
}
