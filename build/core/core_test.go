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

package core_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/cause/build/core"
	"github.com/gx-org/cause/build/types"
)

func TestGlobalNames(t *testing.T) {
	want := []string{"String", "Integer", "Float", "Action", "Debug", "TypeError", "AssumptionBroken"}
	if diff := cmp.Diff(want, core.GlobalNames()); diff != "" {
		t.Errorf("unexpected global names:\n%s", diff)
	}
}

func TestTypeErrorSignal(t *testing.T) {
	builtin := core.Files()[core.BuiltinPath]
	typ, ok := builtin.Load(core.TypeErrorName)
	if !ok {
		t.Fatalf("%s does not export %s", core.BuiltinPath, core.TypeErrorName)
	}
	canonical, ok := typ.(types.Canonical)
	if !ok {
		t.Fatalf("%s is a %T but want %T", core.TypeErrorName, typ, canonical)
	}
	sig := canonical.Signal
	if sig.ID.Path != core.BuiltinPath || sig.ID.Name != core.TypeErrorName || sig.ID.Number != 0 {
		t.Errorf("unexpected id %s", sig.ID)
	}
	if !types.Equal(sig.Result, types.NeverContinues{}) {
		t.Errorf("got result %s but want NeverContinues", sig.Result)
	}
	if len(sig.Params) != 1 || !types.Equal(sig.Params[0].Type, types.BadValue{}) {
		t.Errorf("unexpected parameters %v", sig.Params)
	}
}

func TestFilesAreIndependent(t *testing.T) {
	a := core.Files()[core.StringPath]
	a.Store("extra", types.Primitive{Kind: types.String})
	if core.Files()[core.StringPath].Has("extra") {
		t.Errorf("descriptors are shared between calls")
	}
	if !core.IsCore(core.StringPath) || core.IsCore("main.cau") {
		t.Errorf("IsCore returns wrong results")
	}
}
