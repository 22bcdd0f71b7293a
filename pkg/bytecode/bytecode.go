// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bytecode defines the IR contract the compiler emits into: the
// opcode set, constant pool, and compiled-module shape. The VM interpreter
// loop that executes this IR is an external collaborator and is not
// implemented here; this package only fixes what the compiler must produce
// and what the interpreter must be able to consume.
package bytecode

import (
	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

// Op is a single bytecode opcode. The exact numeric encoding is an
// implementation detail of the (external) VM; only the operation set named
// in spec.md section 6 is fixed here.
type Op int

const (
	OpLoadLocal Op = iota
	OpStoreLocal
	OpLoadField
	OpStoreField
	OpLoadGlobal
	OpStoreGlobal
	OpPushConst
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpCmpEq
	OpCmpNe
	OpCmpLt
	OpCmpLe
	OpCmpGt
	OpCmpGe
	OpBranchIfTrue
	OpBranchIfFalse
	OpJump
	OpCallFunction     // by function TypeHash
	OpCallMethodVirtual // by itable slot
	OpAllocObject
	OpAddRef
	OpRelease
	OpReturn
)

// Width distinguishes the primitive operand width arithmetic and comparison
// opcodes operate over, per spec.md's "arithmetic per primitive width".
type Width int

const (
	WidthNone Width = iota
	Width8
	Width16
	Width32
	Width64
	WidthFloat32
	WidthFloat64
)

// Instr is one bytecode instruction.
type Instr struct {
	Op Op
	// A holds the opcode's primary operand: a local/field/global slot
	// index, a constant-pool index, a jump target offset, a function
	// TypeHash (as uint64), or an itable slot, depending on Op.
	A uint64
	// Width is set for arithmetic/comparison opcodes.
	Width Width
}

// Constant is one entry in a function's constant pool.
type Constant struct {
	Type  datatype.DataType
	Int   int64
	Float float64
	Bool  bool
	Str   []byte
}

// Chunk is the bytecode body of one compiled function: its instruction
// stream and the constant pool its OpPushConst instructions index into.
type Chunk struct {
	Instrs    []Instr
	Constants []Constant
}

// PushConstInt appends an int constant and a matching OpPushConst
// instruction.
func (c *Chunk) PushConstInt(dt datatype.DataType, v int64) {
	idx := len(c.Constants)
	c.Constants = append(c.Constants, Constant{Type: dt, Int: v})
	c.Instrs = append(c.Instrs, Instr{Op: OpPushConst, A: uint64(idx)})
}

// PushConstFloat appends a float constant and a matching OpPushConst
// instruction.
func (c *Chunk) PushConstFloat(dt datatype.DataType, v float64) {
	idx := len(c.Constants)
	c.Constants = append(c.Constants, Constant{Type: dt, Float: v})
	c.Instrs = append(c.Instrs, Instr{Op: OpPushConst, A: uint64(idx)})
}

// Emit appends an instruction and returns its index, so callers can later
// patch jump targets (e.g. backpatching a branch emitted before its target
// offset was known).
func (c *Chunk) Emit(i Instr) int {
	c.Instrs = append(c.Instrs, i)
	return len(c.Instrs) - 1
}

// PatchTarget rewrites the operand of a previously emitted jump/branch
// instruction to point at the chunk's current end (the next instruction to
// be emitted).
func (c *Chunk) PatchTarget(instrIndex int) {
	c.Instrs[instrIndex].A = uint64(len(c.Instrs))
}

// Local describes one local slot in a compiled function's locals table.
type Local struct {
	Name string
	Type datatype.DataType
}

// CompiledFunction is one function's compiled output: its signature plus
// its emitted body.
type CompiledFunction struct {
	Name       string
	Hash       typehash.TypeHash
	Params     []datatype.DataType
	ReturnType datatype.DataType
	Locals     []Local
	Body       Chunk
}

// Global describes one compiled global variable: its storage slot and (for
// an initialized global) the chunk that computes its initial value, run in
// declaration order before any script function executes.
type Global struct {
	Name        string
	Type        datatype.DataType
	Slot        int
	Initializer *Chunk // nil for an uninitialized global
}

// CompiledModule is the output of compiling a Unit: every function body the
// compiler produced, keyed by function hash for the VM's call-function
// opcode, plus the Unit's global variables in declaration order.
type CompiledModule struct {
	UnitName  string
	Functions map[typehash.TypeHash]*CompiledFunction
	Globals   []*Global
}

// NewCompiledModule creates an empty module for the given unit name.
func NewCompiledModule(unitName string) *CompiledModule {
	return &CompiledModule{UnitName: unitName, Functions: make(map[typehash.TypeHash]*CompiledFunction)}
}

// Add registers a compiled function in the module.
func (m *CompiledModule) Add(fn *CompiledFunction) {
	m.Functions[fn.Hash] = fn
}

// AddGlobal appends a compiled global variable, in declaration order.
func (m *CompiledModule) AddGlobal(g *Global) {
	m.Globals = append(m.Globals, g)
}
