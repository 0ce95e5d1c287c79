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

// Package eval linearizes expression graphs and interprets them under
// pluggable target algebras.
//
// A Form is the flattened view of a DAG: atom slots followed by operation
// slots, every operation referring only to strictly earlier slots. The same
// form can be run through floating-point arithmetic, big-integer arithmetic,
// pretty-printing, operation counting, or instruction emission by swapping
// the Algebra; the traversal logic never changes.
package eval

import (
	"github.com/gx-org/exprgraph/base/ordered"
	"github.com/gx-org/exprgraph/expr"
)

// Op is one operation slot: a head applied to the values of earlier slots.
type Op struct {
	// Head of the compound node. Usually a Function atom, but any
	// expression can appear in head position.
	Head *expr.Expr
	// Args are the slot indices of the operands. Every index refers to a
	// slot strictly before the one this operation produces.
	Args []int
}

// Form is the linearized view of an expression DAG. Slot i is one of the
// atom slots for i < len(Atoms()), and the result of operation
// i-len(Atoms()) otherwise. The last slot is the root.
type Form struct {
	atoms []*expr.Expr
	ops   []Op
	slots []*expr.Expr
}

// NewForm flattens the DAG rooted at root.
//
// Leaves become atom slots if they occur in argument position (or are the
// root itself); a leaf that only ever appears in head position is carried by
// the operations directly and gets no slot. Atom slots keep the order of
// first occurrence in the linearization, so identical DAGs produce
// identical forms.
func NewForm(root *expr.Expr) *Form {
	nodes := expr.Linearize(root)

	slotted := make(map[*expr.Expr]bool, len(nodes))
	slotted[root] = root.IsAtom()
	for _, n := range nodes {
		if n.IsAtom() {
			continue
		}
		for _, arg := range n.Args() {
			if arg.IsAtom() {
				slotted[arg] = true
			}
		}
	}

	index := ordered.NewMap[*expr.Expr, int]()
	f := &Form{}
	for _, n := range nodes {
		if n.IsAtom() && slotted[n] {
			index.Store(n, len(f.atoms))
			f.atoms = append(f.atoms, n)
		}
	}
	f.slots = append(f.slots, f.atoms...)
	for _, n := range nodes {
		if n.IsAtom() {
			continue
		}
		argIndices := make([]int, n.NumArgs())
		for i, arg := range n.Args() {
			// Topological order guarantees the slot exists.
			argIndices[i], _ = index.Load(arg)
		}
		index.Store(n, len(f.slots))
		f.slots = append(f.slots, n)
		f.ops = append(f.ops, Op{Head: n.Head(), Args: argIndices})
	}
	return f
}

// Atoms returns the atom slots: deduplicated leaves in first-occurrence
// order. The returned slice must not be modified.
func (f *Form) Atoms() []*expr.Expr {
	return f.atoms
}

// Ops returns the operation slots in execution order. The returned slice
// must not be modified.
func (f *Form) Ops() []Op {
	return f.ops
}

// NumSlots returns the total number of slots.
func (f *Form) NumSlots() int {
	return len(f.slots)
}

// Slots returns the expression held by every slot: the atoms followed by
// the compound node each operation produces. The returned slice must not be
// modified.
func (f *Form) Slots() []*expr.Expr {
	return f.slots
}

// Root returns the expression of the last slot.
func (f *Form) Root() *expr.Expr {
	return f.slots[len(f.slots)-1]
}

// Rebuild replays the operations as graph-construction calls and returns
// the root. Because construction interns, the result is pointer-identical
// to the expression the form was built from: Rebuild is the exact left
// inverse of NewForm.
func (f *Form) Rebuild() *expr.Expr {
	stack := make([]*expr.Expr, 0, f.NumSlots())
	stack = append(stack, f.atoms...)
	for _, op := range f.ops {
		args := make([]*expr.Expr, len(op.Args))
		for i, slot := range op.Args {
			args[i] = stack[slot]
		}
		stack = append(stack, op.Head.Call(args...))
	}
	return stack[len(stack)-1]
}
