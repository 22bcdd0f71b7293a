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

package compiler

import (
	"github.com/kraklabs/angelgo/pkg/ast"
	"github.com/kraklabs/angelgo/pkg/bytecode"
	"github.com/kraklabs/angelgo/pkg/datatype"
)

// storageKind tags where an assignTarget's value lives, so checkAssign knows
// which Store op (if any) writes a new value back.
type storageKind int

const (
	// storageOpaque covers lvalues with no direct slot of their own (e.g. an
	// opIndex result): the target's current value is already on the stack
	// once resolveAssignTarget returns, and there is no Store op to emit —
	// a plain assignment through one of these is accepted as an lvalue but
	// produces no write, matching the pre-existing opIndex-assignment
	// behavior this fix doesn't extend to.
	storageOpaque storageKind = iota
	storageLocal
	storageGlobal
	storageField         // a field on the implicit `this`; no receiver to cache
	storageExplicitField // a field on an explicit receiver, cached in recvSlot
)

// assignTarget is an lvalue resolved to its storage location without having
// loaded its current value, so checkAssign can choose to skip the load
// entirely for a plain `=` and only pay for it on a compound assignment.
type assignTarget struct {
	Type       datatype.DataType
	IsLValue   bool
	kind       storageKind
	localSlot  int
	globalSlot int
	fieldIdx   int
	recvSlot   int // storageExplicitField: the temp local caching the receiver
}

// resolveAssignTarget determines where an assignment's left-hand side
// stores, without emitting a load of its current value. A MemberExpr's
// receiver is evaluated once here and stashed in a temp local (rather than
// left on the working stack), since a compound assignment needs it again
// later for the store and re-evaluating the receiver expression would run
// any side effects twice.
func (fc *funcCompiler) resolveAssignTarget(e ast.Expr) (assignTarget, bool) {
	switch n := e.(type) {
	case *ast.NameExpr:
		if local, ok := fc.scope.Lookup(n.Name); ok {
			return assignTarget{Type: local.Type, IsLValue: local.Mutable, kind: storageLocal, localSlot: local.Slot}, true
		}
		if fc.ownerClass != nil {
			if idx, field, ok := fc.lookupField(fc.ownerClass, n.Name); ok {
				return assignTarget{Type: field.Type, IsLValue: true, kind: storageField, fieldIdx: idx}, true
			}
		}
		for name, dt := range fc.st.globalVarTypes {
			if name == n.Name || unqualified(name) == n.Name {
				return assignTarget{Type: dt, IsLValue: true, kind: storageGlobal, globalSlot: fc.st.globalVarSlots[name]}, true
			}
		}
		fc.result.Add(&CompilationError{Kind: UnknownName, Span: n.SourceSpan, Name: n.Name})
		return assignTarget{}, false

	case *ast.MemberExpr:
		recv, ok := fc.checkExpr(n.Receiver)
		if !ok {
			return assignTarget{}, false
		}
		class, ok := fc.classOf(recv.Type)
		if !ok {
			fc.result.Add(&CompilationError{Kind: TypeMismatch, Span: n.SourceSpan, Detail: "member access on a non-class type"})
			return assignTarget{}, false
		}
		idx, field, ok := fc.lookupField(class, n.Name)
		if !ok {
			fc.result.Add(&CompilationError{Kind: UnknownName, Span: n.SourceSpan, Name: n.Name})
			return assignTarget{}, false
		}
		recvSlot := fc.scope.DeclareTemp(recv.Type)
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpStoreLocal, A: uint64(recvSlot.Slot)})
		return assignTarget{Type: field.Type, IsLValue: true, kind: storageExplicitField, fieldIdx: idx, recvSlot: recvSlot.Slot}, true

	default:
		info, ok := fc.checkExpr(e)
		return assignTarget{Type: info.Type, IsLValue: info.IsLValue, kind: storageOpaque}, ok
	}
}

// loadTargetValue pushes target's current value, for a compound assignment's
// left-hand operand. A no-op for storageOpaque, whose value is already on
// the stack from resolveAssignTarget's call to checkExpr.
func (fc *funcCompiler) loadTargetValue(target assignTarget) {
	switch target.kind {
	case storageLocal:
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpLoadLocal, A: uint64(target.localSlot)})
	case storageGlobal:
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpLoadGlobal, A: uint64(target.globalSlot)})
	case storageField:
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpLoadField, A: uint64(target.fieldIdx)})
	case storageExplicitField:
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpLoadLocal, A: uint64(target.recvSlot)})
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpLoadField, A: uint64(target.fieldIdx)})
	}
}

// storeTargetValue pops the value on top of the stack into target's storage
// location. A no-op for storageOpaque, which has no Store op of its own.
func (fc *funcCompiler) storeTargetValue(target assignTarget) {
	switch target.kind {
	case storageLocal:
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpStoreLocal, A: uint64(target.localSlot)})
	case storageGlobal:
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpStoreGlobal, A: uint64(target.globalSlot)})
	case storageField:
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpStoreField, A: uint64(target.fieldIdx)})
	case storageExplicitField:
		// The value is already on top of the stack; push the cached
		// receiver above it so OpStoreField pops receiver-then-value.
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpLoadLocal, A: uint64(target.recvSlot)})
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpStoreField, A: uint64(target.fieldIdx)})
	}
}
