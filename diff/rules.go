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

// Package diff computes symbolic derivatives of expression graphs.
//
// Both algorithms, forward and reverse mode, sweep the linearized form of
// the expression and share the structural rules for sums, products, and
// powers with a constant exponent. Everything else comes from a chain-rule
// table mapping (named function, argument position) to a partial-derivative
// generator.
package diff

import (
	"fmt"
	"strings"

	"github.com/gx-org/exprgraph/base/ordered"
	"github.com/gx-org/exprgraph/expr"
	"github.com/gx-org/exprgraph/exprerr"
)

// Partial generates the symbolic partial derivative of a named function
// with respect to one of its arguments, given the call's argument
// expressions.
type Partial func(args []*expr.Expr) (*expr.Expr, error)

type ruleKey struct {
	head *expr.Expr
	arg  int
}

// Rules is a chain-rule table. The zero value is not usable; use NewRules
// or StandardRules.
type Rules struct {
	partials *ordered.Map[ruleKey, Partial]
}

// NewRules returns an empty chain-rule table.
func NewRules() *Rules {
	return &Rules{partials: ordered.NewMap[ruleKey, Partial]()}
}

// Register sets the partial-derivative generator for the given head and
// argument position, replacing any previous entry.
func (r *Rules) Register(head *expr.Expr, arg int, p Partial) *Rules {
	r.partials.Store(ruleKey{head: head, arg: arg}, p)
	return r
}

func (r *Rules) partial(head *expr.Expr, arg int) (Partial, error) {
	p, ok := r.partials.Load(ruleKey{head: head, arg: arg})
	if !ok {
		return nil, exprerr.Errorf(exprerr.UnsupportedOperation, "no derivative rule for argument %d of %s; registered rules: [%s]", arg, head, r.ruleNames())
	}
	return p, nil
}

func (r *Rules) ruleNames() string {
	var names []string
	for key := range r.partials.Keys() {
		names = append(names, fmt.Sprintf("%s/%d", key.head, key.arg))
	}
	return strings.Join(names, " ")
}

func unaryPartial(name string, gen func(arg *expr.Expr) *expr.Expr) Partial {
	return func(args []*expr.Expr) (*expr.Expr, error) {
		if len(args) != 1 {
			return nil, exprerr.Errorf(exprerr.UnsupportedOperation, "%s expects 1 argument, got %d", name, len(args))
		}
		return gen(args[0]), nil
	}
}

// StandardRules returns a table covering the builtin named functions:
// sin, cos, exp, and log.
func StandardRules() *Rules {
	r := NewRules()
	r.Register(expr.Sin, 0, unaryPartial("sin", func(a *expr.Expr) *expr.Expr {
		return expr.Cos.Call(a)
	}))
	r.Register(expr.Cos, 0, unaryPartial("cos", func(a *expr.Expr) *expr.Expr {
		return expr.Mul.Call(expr.MinusOne, expr.Sin.Call(a))
	}))
	r.Register(expr.Exp, 0, unaryPartial("exp", func(a *expr.Expr) *expr.Expr {
		return expr.Exp.Call(a)
	}))
	r.Register(expr.Log, 0, unaryPartial("log", func(a *expr.Expr) *expr.Expr {
		return expr.Pow.Call(a, expr.MinusOne)
	}))
	return r
}

// sumOf combines derivative terms: no terms is the zero atom, a single
// term stands alone, several terms become a sum. Zero terms are elided.
func sumOf(terms []*expr.Expr) *expr.Expr {
	kept := make([]*expr.Expr, 0, len(terms))
	for _, t := range terms {
		if t != expr.Zero {
			kept = append(kept, t)
		}
	}
	switch len(kept) {
	case 0:
		return expr.Zero
	case 1:
		return kept[0]
	}
	return expr.Add.Call(kept...)
}

// productOf combines factors, eliding the identity atom: no factors left
// is the unit atom, a single factor stands alone, several factors become a
// product.
func productOf(factors []*expr.Expr) *expr.Expr {
	kept := make([]*expr.Expr, 0, len(factors))
	for _, f := range factors {
		if f != expr.One {
			kept = append(kept, f)
		}
	}
	switch len(kept) {
	case 0:
		return expr.One
	case 1:
		return kept[0]
	}
	return expr.Mul.Call(kept...)
}
