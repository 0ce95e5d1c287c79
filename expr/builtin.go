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

// Builtin atom types. Users are free to define their own with NewAtomType;
// these are the ones the algebra, diff, and emit packages know about.
var (
	// Integer atoms carry an int64 value.
	Integer = NewAtomType("Integer")
	// SymbolType atoms carry a string name and stand for free variables.
	SymbolType = NewAtomType("Symbol")
	// FunctionType atoms carry a string name and appear in head position.
	FunctionType = NewAtomType("Function")
)

func mustAtom(t *AtomType, value any) *Expr {
	node, err := t.New(value)
	if err != nil {
		panic(err)
	}
	return node
}

// Int returns the canonical Integer atom for v.
func Int(v int64) *Expr {
	return mustAtom(Integer, v)
}

// Sym returns the canonical Symbol atom with the given name.
func Sym(name string) *Expr {
	return mustAtom(SymbolType, name)
}

// Func returns the canonical Function atom with the given name.
func Func(name string) *Expr {
	return mustAtom(FunctionType, name)
}

// Builtin heads. These are ordinary Function atoms: building the same head
// with Func yields the same pointer.
var (
	// Add is the n-ary sum head.
	Add = Func("Add")
	// Mul is the n-ary product head.
	Mul = Func("Mul")
	// Pow is the binary power head.
	Pow = Func("Pow")

	// Sin, Cos, Exp, and Log are unary named functions.
	Sin = Func("sin")
	Cos = Func("cos")
	Exp = Func("exp")
	Log = Func("log")
)

// Distinguished constants. Zero and One are the additive and multiplicative
// identities the differentiation engine elides against; comparisons are by
// pointer, like everywhere else.
var (
	Zero     = Int(0)
	One      = Int(1)
	MinusOne = Int(-1)
)
