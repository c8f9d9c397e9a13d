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

package ordered_test

import (
	"slices"
	"testing"

	"github.com/gx-org/cause/base/ordered"
)

type entry struct {
	k string
	v int
}

func TestMap(t *testing.T) {
	tests := []struct {
		entries []entry
		want    []entry
	}{
		{
			entries: []entry{{k: "a", v: 1}, {k: "b", v: 2}, {k: "c", v: 3}},
			want:    []entry{{k: "a", v: 1}, {k: "b", v: 2}, {k: "c", v: 3}},
		},
		{
			entries: []entry{{k: "a", v: 1}, {k: "b", v: 2}, {k: "a", v: 3}},
			want:    []entry{{k: "a", v: 3}, {k: "b", v: 2}},
		},
		{
			entries: []entry{{k: "z", v: 1}, {k: "a", v: 2}},
			want:    []entry{{k: "z", v: 1}, {k: "a", v: 2}},
		},
	}
	for ti, test := range tests {
		m := ordered.NewMap[string, int]()
		for _, e := range test.entries {
			m.Store(e.k, e.v)
		}
		if m.Size() != len(test.want) {
			t.Errorf("test %d: map has %d entries but want %d", ti, m.Size(), len(test.want))
			continue
		}
		var got []entry
		for k, v := range m.Clone().Iter() {
			got = append(got, entry{k: k, v: v})
		}
		if !slices.Equal(got, test.want) {
			t.Errorf("test %d: got %v but want %v", ti, got, test.want)
		}
		if keys := slices.Collect(m.Keys()); len(keys) != len(test.want) || keys[0] != test.want[0].k {
			t.Errorf("test %d: got keys %v", ti, keys)
		}
	}
}

func TestUpdate(t *testing.T) {
	m := ordered.NewMap[string, []int]()
	appendTo := func(k string, v int) {
		m.Update(k, func(prev []int, _ bool) []int {
			return append(prev, v)
		})
	}
	appendTo("x", 1)
	appendTo("y", 2)
	appendTo("x", 3)
	got, _ := m.Load("x")
	if !slices.Equal(got, []int{1, 3}) {
		t.Errorf("got %v but want [1 3]", got)
	}
	if keys := slices.Collect(m.Keys()); !slices.Equal(keys, []string{"x", "y"}) {
		t.Errorf("got keys %v but want [x y]", keys)
	}
	if !m.Has("y") || m.Has("z") {
		t.Errorf("Has returned an incorrect result")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := ordered.NewMap[string, int]()
	m.Store("a", 1)
	c := m.Clone()
	c.Store("b", 2)
	c.Store("a", 10)
	if m.Size() != 1 {
		t.Errorf("original map has %d entries but want 1", m.Size())
	}
	if v, _ := m.Load("a"); v != 1 {
		t.Errorf("original map value got %d but want 1", v)
	}
}
