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

// Package expr implements hash-consed symbolic expression graphs.
//
// An expression is either an atom (a typed leaf carrying an opaque native
// value) or a compound (a head applied to an ordered list of arguments).
// Construction interns every node: two requests with the same structural key
// return the same *Expr, so pointer comparison is structural equality and
// node deduplication during traversals is a pointer set. Nodes are immutable
// once created.
package expr

// AtomType identifies a category of atomic expression, such as Integer or
// Symbol. Atom types are compared by identity: two types created with the
// same name are distinct.
type AtomType struct {
	name string
}

// NewAtomType returns a new atom type with the given name.
func NewAtomType(name string) *AtomType {
	return &AtomType{name: name}
}

// Name returns the name of the atom type.
func (t *AtomType) Name() string {
	return t.name
}

// String returns the name of the atom type.
func (t *AtomType) String() string {
	return t.name
}

// Expr is a node in the expression graph: either an atom or a compound.
//
// Every *Expr is canonical: pointer equality is structural equality. The id
// is a stable handle assigned at interning time; equal handles always denote
// the same node, never "equal content, different node".
type Expr struct {
	id uint64

	// Compound fields. The head of a compound is itself an expression,
	// so expressions double as callable symbols.
	head *Expr
	args []*Expr

	// Atom fields.
	typ   *AtomType
	value any
}

// ID returns the stable interning handle of the node.
func (e *Expr) ID() uint64 {
	return e.id
}

// IsAtom returns true if the node is a leaf.
func (e *Expr) IsAtom() bool {
	return e.typ != nil
}

// AtomType returns the type of an atom, or nil for a compound.
func (e *Expr) AtomType() *AtomType {
	return e.typ
}

// Value returns the native value of an atom, or nil for a compound.
func (e *Expr) Value() any {
	return e.value
}

// Head returns the head of a compound, or nil for an atom.
func (e *Expr) Head() *Expr {
	return e.head
}

// Args returns the arguments of a compound. The returned slice is shared
// with the node and must not be modified.
func (e *Expr) Args() []*Expr {
	return e.args
}

// NumArgs returns the number of arguments of a compound.
func (e *Expr) NumArgs() int {
	return len(e.args)
}

// Children returns the head followed by the arguments for a compound, or
// nil for an atom. The returned slice is freshly allocated.
func (e *Expr) Children() []*Expr {
	if e.IsAtom() {
		return nil
	}
	children := make([]*Expr, 0, 1+len(e.args))
	children = append(children, e.head)
	return append(children, e.args...)
}

func (e *Expr) numChildren() int {
	if e.IsAtom() {
		return 0
	}
	return 1 + len(e.args)
}

func (e *Expr) child(i int) *Expr {
	if i == 0 {
		return e.head
	}
	return e.args[i-1]
}
