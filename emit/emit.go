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

// Package emit lowers expression graphs to a flat instruction stream over a
// closed set of primitive opcodes.
//
// The stream is pure data: named parameter slots, float64 constant slots,
// instructions referring to strictly earlier slots, and the output slot.
// Handing it to an assembler, compiler, or JIT is the consumer's concern.
package emit

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/exp/maps"

	"github.com/gx-org/exprgraph/eval"
	"github.com/gx-org/exprgraph/expr"
	"github.com/gx-org/exprgraph/exprerr"
)

// Opcode is one of the primitive operations of the restricted target set.
type Opcode int

const (
	// OpAdd sums any number of operands.
	OpAdd Opcode = iota + 1
	// OpMul multiplies any number of operands.
	OpMul
	// OpPow raises its first operand to its second.
	OpPow
	// OpSin, OpCos, OpExp, and OpLog are unary transcendental calls.
	OpSin
	OpCos
	OpExp
	OpLog
)

var opcodeNames = map[Opcode]string{
	OpAdd: "add",
	OpMul: "mul",
	OpPow: "pow",
	OpSin: "sin",
	OpCos: "cos",
	OpExp: "exp",
	OpLog: "log",
}

// String returns the mnemonic of the opcode.
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("opcode(%d)", int(o))
}

// callOpcodes maps named function heads to their opcode.
var callOpcodes = map[string]Opcode{
	"sin": OpSin,
	"cos": OpCos,
	"exp": OpExp,
	"log": OpLog,
}

// Instr is one instruction: an opcode applied to the values of earlier
// slots.
type Instr struct {
	Op Opcode
	// Args are operand slot indices, each strictly smaller than the index
	// of the slot this instruction produces.
	Args []int
}

// Param is a named input of the program. Slot is -1 for a declared
// parameter the expression never uses.
type Param struct {
	Name string
	Slot int
}

// Const is a constant input of the program.
type Const struct {
	Slot  int
	Value float64
}

// Program is the complete contract with a downstream code generator.
// Slots 0..NumSlots-1 are the parameter and constant slots followed by one
// slot per instruction, in order.
type Program struct {
	Params   []Param
	Consts   []Const
	Instrs   []Instr
	Output   int
	NumSlots int
}

// Emit lowers the DAG rooted at e to an instruction stream. The params
// declare, in order, the Symbol atoms that become named inputs. Any other
// leaf must be an Integer, which lowers to a float64 constant. All
// violations, unknown heads, undeclared symbols, unconvertible atoms, and
// misused Pow, are collected and reported together.
func Emit(e *expr.Expr, params []*expr.Expr) (*Program, error) {
	form := eval.NewForm(e)
	var errs error

	declared := make(map[*expr.Expr]int, len(params))
	prog := &Program{NumSlots: form.NumSlots(), Output: form.NumSlots() - 1}
	for _, p := range params {
		if !p.IsAtom() || p.AtomType() != expr.SymbolType {
			errs = multierr.Append(errs, exprerr.Errorf(exprerr.UnsupportedOperation, "parameter %s is not a symbol", p))
			continue
		}
		if _, ok := declared[p]; ok {
			errs = multierr.Append(errs, exprerr.Errorf(exprerr.UnsupportedOperation, "parameter %s declared twice", p))
			continue
		}
		declared[p] = len(prog.Params)
		prog.Params = append(prog.Params, Param{Name: p.Value().(string), Slot: -1})
	}

	for slot, a := range form.Atoms() {
		if i, ok := declared[a]; ok {
			prog.Params[i].Slot = slot
			continue
		}
		value, err := constValue(a)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		prog.Consts = append(prog.Consts, Const{Slot: slot, Value: value})
	}

	for _, op := range form.Ops() {
		instr, err := lower(op)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		prog.Instrs = append(prog.Instrs, instr)
	}
	if errs != nil {
		return nil, errs
	}
	return prog, nil
}

func constValue(a *expr.Expr) (float64, error) {
	if a.AtomType() == expr.SymbolType {
		return 0, exprerr.Errorf(exprerr.UnsupportedOperation, "symbol %s is not a declared parameter", a)
	}
	if a.AtomType() != expr.Integer {
		return 0, exprerr.Errorf(exprerr.InvalidConversion, "cannot lower %s atom %s to a constant", a.AtomType(), a)
	}
	switch v := a.Value().(type) {
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	}
	return 0, exprerr.Errorf(exprerr.InvalidConversion, "cannot lower %s value %v (%T) to a constant", a.AtomType(), a.Value(), a.Value())
}

func lower(op eval.Op) (Instr, error) {
	args := slices.Clone(op.Args)
	switch op.Head {
	case expr.Add:
		return Instr{Op: OpAdd, Args: args}, nil
	case expr.Mul:
		return Instr{Op: OpMul, Args: args}, nil
	case expr.Pow:
		if len(args) != 2 {
			return Instr{}, exprerr.Errorf(exprerr.UnsupportedOperation, "pow expects 2 operands, got %d", len(args))
		}
		return Instr{Op: OpPow, Args: args}, nil
	}
	if name, ok := headFuncName(op.Head); ok {
		if opcode, ok := callOpcodes[name]; ok {
			if len(args) != 1 {
				return Instr{}, exprerr.Errorf(exprerr.UnsupportedOperation, "%s expects 1 operand, got %d", name, len(args))
			}
			return Instr{Op: opcode, Args: args}, nil
		}
	}
	known := maps.Keys(callOpcodes)
	slices.Sort(known)
	return Instr{}, exprerr.Errorf(exprerr.UnsupportedOperation, "no opcode for head %s; named calls: %v", op.Head, known)
}

func headFuncName(head *expr.Expr) (string, bool) {
	if !head.IsAtom() || head.AtomType() != expr.FunctionType {
		return "", false
	}
	name, ok := head.Value().(string)
	return name, ok
}

// String returns a human-readable listing of the program.
func (p *Program) String() string {
	var b strings.Builder
	for _, param := range p.Params {
		fmt.Fprintf(&b, "param %s -> slot %d\n", param.Name, param.Slot)
	}
	for _, c := range p.Consts {
		fmt.Fprintf(&b, "const %v -> slot %d\n", c.Value, c.Slot)
	}
	slot := p.NumSlots - len(p.Instrs)
	for _, instr := range p.Instrs {
		fmt.Fprintf(&b, "slot %d = %s %v\n", slot, instr.Op, instr.Args)
		slot++
	}
	fmt.Fprintf(&b, "output slot %d\n", p.Output)
	return b.String()
}
