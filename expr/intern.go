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

package expr

import (
	"encoding/binary"
	"reflect"
	"runtime"
	"slices"
	"sync"
	"weak"

	"github.com/gx-org/exprgraph/exprerr"
)

// The interning tables are the only shared mutable state in the kernel.
// A single mutex serializes lookup-or-insert with the cleanups that remove
// entries once a node has been collected: without that serialization two
// goroutines could create two distinct nodes for the same key and break the
// pointer-equality invariant for good.
//
// Entries hold nodes weakly. A node stays alive as long as some owner
// references it (parents reference their children through args and head);
// once the last owner is gone the entry is removed by a runtime cleanup.
// Reclamation is memory hygiene only: a fresh node interned after its
// predecessor died is canonical for all expressions alive at that point.
var (
	internMu  sync.Mutex
	nextID    uint64
	atoms     = map[atomKey]weak.Pointer[Expr]{}
	compounds = map[string]weak.Pointer[Expr]{}
)

// atomKey distinguishes atoms by type identity, value, and the value's
// dynamic representation, so that Integer(1) stored as int64 and as int32
// intern separately.
type atomKey struct {
	typ   *AtomType
	value any
	rep   reflect.Type
}

// New interns the atom of this type carrying the given native value and
// returns the canonical node. It returns an InvalidConversion error if the
// value is nil or its dynamic type cannot serve as an interning key.
func (t *AtomType) New(value any) (*Expr, error) {
	if value == nil {
		return nil, exprerr.Errorf(exprerr.InvalidConversion, "cannot intern a nil value as a %s atom", t.name)
	}
	rep := reflect.TypeOf(value)
	if !rep.Comparable() {
		return nil, exprerr.Errorf(exprerr.InvalidConversion, "cannot intern a %s value as a %s atom: %s is not comparable", rep, t.name, rep.Kind())
	}
	key := atomKey{typ: t, value: value, rep: rep}

	internMu.Lock()
	defer internMu.Unlock()
	if wp, ok := atoms[key]; ok {
		if prev := wp.Value(); prev != nil {
			return prev, nil
		}
	}
	node := &Expr{id: nextID, typ: t, value: value}
	nextID++
	atoms[key] = weak.Make(node)
	runtime.AddCleanup(node, reclaimAtom, key)
	return node, nil
}

// Call interns the compound applying e to the given arguments and returns
// the canonical node. The key is the exact (head, args...) identity tuple:
// the arguments are already canonical, so no deep comparison is needed.
func (e *Expr) Call(args ...*Expr) *Expr {
	key := compoundKey(e, args)

	internMu.Lock()
	defer internMu.Unlock()
	if wp, ok := compounds[key]; ok {
		if prev := wp.Value(); prev != nil {
			return prev
		}
	}
	node := &Expr{id: nextID, head: e, args: slices.Clone(args)}
	nextID++
	compounds[key] = weak.Make(node)
	runtime.AddCleanup(node, reclaimCompound, key)
	return node
}

// compoundKey encodes the identity handles of the head and arguments.
// Uvarint encodings are self-delimiting, so the concatenation is unambiguous.
func compoundKey(head *Expr, args []*Expr) string {
	b := make([]byte, 0, 4*(len(args)+1))
	b = binary.AppendUvarint(b, head.id)
	for _, arg := range args {
		b = binary.AppendUvarint(b, arg.id)
	}
	return string(b)
}

// reclaimAtom runs after an atom has been collected. The entry may have been
// replaced by a live node interned for the same key in the meantime, in
// which case it is kept.
func reclaimAtom(key atomKey) {
	internMu.Lock()
	defer internMu.Unlock()
	if wp, ok := atoms[key]; ok && wp.Value() == nil {
		delete(atoms, key)
	}
}

func reclaimCompound(key string) {
	internMu.Lock()
	defer internMu.Unlock()
	if wp, ok := compounds[key]; ok && wp.Value() == nil {
		delete(compounds, key)
	}
}

// internSize returns the number of table entries whose node is still alive.
func internSize() (numAtoms, numCompounds int) {
	internMu.Lock()
	defer internMu.Unlock()
	for _, wp := range atoms {
		if wp.Value() != nil {
			numAtoms++
		}
	}
	for _, wp := range compounds {
		if wp.Value() != nil {
			numCompounds++
		}
	}
	return numAtoms, numCompounds
}
