package ordered_test

import (
	"testing"

	"github.com/gx-org/exprgraph/base/ordered"
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
			entries: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "c", v: 3},
			},
			want: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "c", v: 3},
			},
		},
		{
			entries: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "a", v: 3},
			},
			want: []entry{
				{k: "a", v: 3},
				{k: "b", v: 2},
			},
		},
		{
			entries: []entry{
				{k: "a", v: 1},
				{k: "a", v: 2},
				{k: "a", v: 3},
			},
			want: []entry{
				{k: "a", v: 3},
			},
		},
	}
	for ti, test := range tests {
		m := ordered.NewMap[string, int]()
		for _, entry := range test.entries {
			m.Store(entry.k, entry.v)
		}
		if m.Size() != len(test.want) {
			t.Errorf("test %d: map has %d entries but want %d", ti, m.Size(), len(test.want))
			continue
		}

		i := 0
		for gotK, gotV := range m.Iter() {
			wantK, wantV := test.want[i].k, test.want[i].v
			if gotK != wantK || gotV != wantV {
				t.Errorf("test %d entry %d: got %s->%d but want %s->%d", ti, i, gotK, gotV, wantK, wantV)
			}
			i++
		}

		i = 0
		for gotK := range m.Keys() {
			if !m.Has(gotK) {
				t.Errorf("test %d: Has(%s) = false for a stored key", ti, gotK)
			}
			gotV, ok := m.Load(gotK)
			if !ok {
				t.Errorf("test %d: Load(%s) not found", ti, gotK)
			}
			if gotV != test.want[i].v {
				t.Errorf("test %d entry %d: got %s->%d but want %d", ti, i, gotK, gotV, test.want[i].v)
			}
			i++
		}

		i = 0
		for gotV := range m.Values() {
			if gotV != test.want[i].v {
				t.Errorf("test %d value %d: got %d but want %d", ti, i, gotV, test.want[i].v)
			}
			i++
		}
	}
}

func TestMapMissingKey(t *testing.T) {
	m := ordered.NewMap[string, int]()
	if m.Has("nope") {
		t.Errorf("Has on an empty map returned true")
	}
	if v, ok := m.Load("nope"); ok || v != 0 {
		t.Errorf("Load on an empty map returned %d, %v", v, ok)
	}
}
