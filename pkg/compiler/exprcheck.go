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
	"github.com/kraklabs/angelgo/pkg/conv"
	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

var errInfo = exprInfo{Type: datatype.Void()}

// checkExpr type-checks e, emits its bytecode, and returns its exprInfo. A
// false second return means an error was already recorded and the caller
// should treat the expression as having failed (errInfo is a safe
// placeholder to let checking continue for later errors in the same
// function).
func (fc *funcCompiler) checkExpr(e ast.Expr) (exprInfo, bool) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		dt := datatype.Simple(typehash.INT32)
		fc.chunk.PushConstInt(dt, n.Value)
		return exprInfo{Type: dt, IsConstant: true}, true

	case *ast.FloatLiteral:
		h := typehash.DOUBLE
		if n.IsSingle {
			h = typehash.FLOAT
		}
		dt := datatype.Simple(h)
		fc.chunk.PushConstFloat(dt, n.Value)
		return exprInfo{Type: dt, IsConstant: true}, true

	case *ast.BoolLiteral:
		dt := datatype.Simple(typehash.BOOL)
		v := int64(0)
		if n.Value {
			v = 1
		}
		fc.chunk.PushConstInt(dt, v)
		return exprInfo{Type: dt, IsConstant: true}, true

	case *ast.StringLiteral:
		strHash, ok := fc.c.reg.GetStringTypeHash()
		if !ok {
			fc.result.Add(&CompilationError{Kind: Other, Span: n.SourceSpan, Detail: "no string factory installed"})
			return errInfo, false
		}
		dt := datatype.Simple(strHash)
		idx := len(fc.chunk.Constants)
		fc.chunk.Constants = append(fc.chunk.Constants, bytecode.Constant{Type: dt, Str: n.Value})
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpPushConst, A: uint64(idx)})
		return exprInfo{Type: dt, IsConstant: true}, true

	case *ast.NullLiteral:
		return exprInfo{Type: datatype.NullLiteral(), IsConstant: true}, true

	case *ast.NameExpr:
		return fc.checkName(n)

	case *ast.MemberExpr:
		return fc.checkMember(n)

	case *ast.CallExpr:
		return fc.checkCall(n)

	case *ast.BinaryExpr:
		return fc.checkBinary(n)

	case *ast.UnaryExpr:
		return fc.checkUnary(n)

	case *ast.HandleOfExpr:
		return fc.checkHandleOf(n)

	case *ast.CastExpr:
		return fc.checkCast(n)

	case *ast.ConstructExpr:
		return fc.checkConstruct(n)

	case *ast.IndexExpr:
		return fc.checkIndex(n)

	case *ast.LambdaExpr:
		return fc.checkLambda(n)

	default:
		fc.result.Add(&CompilationError{Kind: Other, Span: e.Span(), Detail: "unsupported expression form"})
		return errInfo, false
	}
}

// checkName resolves a bare identifier: local, then (inside a method) this's
// fields, then a global variable. Any other name, including a global
// function name used outside a call, is reported as UnknownName.
func (fc *funcCompiler) checkName(n *ast.NameExpr) (exprInfo, bool) {
	if local, ok := fc.scope.Lookup(n.Name); ok {
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpLoadLocal, A: uint64(local.Slot)})
		return exprInfo{Type: local.Type, IsLValue: local.Mutable}, true
	}

	if fc.ownerClass != nil {
		if idx, field, ok := fc.lookupField(fc.ownerClass, n.Name); ok {
			fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpLoadField, A: uint64(idx)})
			return exprInfo{Type: field.Type, IsLValue: true}, true
		}
	}

	for name, dt := range fc.st.globalVarTypes {
		if name == n.Name || unqualified(name) == n.Name {
			slot := fc.st.globalVarSlots[name]
			fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpLoadGlobal, A: uint64(slot)})
			return exprInfo{Type: dt, IsLValue: true}, true
		}
	}

	fc.result.Add(&CompilationError{Kind: UnknownName, Span: n.SourceSpan, Name: n.Name})
	return errInfo, false
}

func unqualified(qualified string) string {
	last := qualified
	for i := len(qualified) - 1; i >= 1; i-- {
		if qualified[i-1] == ':' && qualified[i] == ':' {
			return qualified[i+1:]
		}
	}
	return last
}

func (fc *funcCompiler) lookupField(class *registry.ClassEntry, name string) (int, registry.Field, bool) {
	chain := fc.c.baseChain(class)
	idx := 0
	for _, cls := range chain {
		for _, f := range cls.Fields {
			if f.Name == name {
				return idx, f, true
			}
			idx++
		}
	}
	return 0, registry.Field{}, false
}

// checkMember resolves `receiver.name`: a field on a class-typed receiver,
// falling back to a zero-arg method reference (property-style getters are a
// method call with no arguments at the call site, handled by checkCall).
func (fc *funcCompiler) checkMember(n *ast.MemberExpr) (exprInfo, bool) {
	recv, ok := fc.checkExpr(n.Receiver)
	if !ok {
		return errInfo, false
	}
	class, ok := fc.classOf(recv.Type)
	if !ok {
		fc.result.Add(&CompilationError{Kind: TypeMismatch, Span: n.SourceSpan, Detail: "member access on a non-class type"})
		return errInfo, false
	}
	if idx, field, ok := fc.lookupField(class, n.Name); ok {
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpLoadField, A: uint64(idx)})
		return exprInfo{Type: field.Type, IsLValue: true}, true
	}
	if len(fc.methodCandidates(class, n.Name)) > 0 {
		return exprInfo{Type: recv.Type}, true
	}
	fc.result.Add(&CompilationError{Kind: UnknownName, Span: n.SourceSpan, Name: n.Name})
	return errInfo, false
}

func (fc *funcCompiler) classOf(dt datatype.DataType) (*registry.ClassEntry, bool) {
	e, ok := fc.c.reg.GetType(dt.TypeHash)
	if !ok {
		return nil, false
	}
	class, ok := e.(*registry.ClassEntry)
	return class, ok
}

// checkCall resolves a call expression: either `name(args)` (a global
// function or, inside a method, a same-class method call on an implicit
// this), or `receiver.name(args)` (a method call on an explicit receiver).
func (fc *funcCompiler) checkCall(n *ast.CallExpr) (exprInfo, bool) {
	args := make([]exprInfo, len(n.Args))
	ok := true
	for i, a := range n.Args {
		info, aok := fc.checkExpr(a)
		args[i] = info
		ok = ok && aok
	}
	if !ok {
		return errInfo, false
	}

	switch callee := n.Callee.(type) {
	case *ast.MemberExpr:
		recv, rok := fc.checkExpr(callee.Receiver)
		if !rok {
			return errInfo, false
		}
		class, cok := fc.classOf(recv.Type)
		if !cok {
			fc.result.Add(&CompilationError{Kind: TypeMismatch, Span: n.SourceSpan, Detail: "method call on a non-class type"})
			return errInfo, false
		}
		candidates := fc.methodCandidates(class, callee.Name)
		fn, _, rok := fc.resolveOverload(callee.Name, candidates, args, n.SourceSpan)
		if !rok {
			return errInfo, false
		}
		fc.c.reg.RecordCall(fc.callerHash(), fn.Hash)
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpCallMethodVirtual, A: uint64(fn.Hash)})
		return exprInfo{Type: fn.Def.ReturnType}, true

	case *ast.NameExpr:
		if fc.ownerClass != nil {
			if candidates := fc.methodCandidates(fc.ownerClass, callee.Name); len(candidates) > 0 {
				fn, _, rok := fc.resolveOverload(callee.Name, candidates, args, n.SourceSpan)
				if !rok {
					return errInfo, false
				}
				fc.c.reg.RecordCall(fc.callerHash(), fn.Hash)
				fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpCallMethodVirtual, A: uint64(fn.Hash)})
				return exprInfo{Type: fn.Def.ReturnType}, true
			}
		}
		candidates := fc.globalFuncCandidates(callee.Name)
		if len(candidates) == 0 {
			fc.result.Add(&CompilationError{Kind: UnknownName, Span: n.SourceSpan, Name: callee.Name})
			return errInfo, false
		}
		fn, _, rok := fc.resolveOverload(callee.Name, candidates, args, n.SourceSpan)
		if !rok {
			return errInfo, false
		}
		fc.c.reg.RecordCall(fc.callerHash(), fn.Hash)
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpCallFunction, A: uint64(fn.Hash)})
		return exprInfo{Type: fn.Def.ReturnType}, true

	default:
		fc.result.Add(&CompilationError{Kind: Other, Span: n.SourceSpan, Detail: "callee is not a name or member access"})
		return errInfo, false
	}
}

func (fc *funcCompiler) globalFuncCandidates(name string) []*registry.FunctionEntry {
	var out []*registry.FunctionEntry
	for _, gd := range fc.st.globalFuncs {
		if gd.Func.Name != name {
			continue
		}
		def, paramHashes, err := fc.c.compileFuncSignature(&gd.Func, 0, false)
		if err != nil {
			continue
		}
		hash := typehash.FromSignature(qualifiedName(gd.Namespace, def.Name), paramHashes, false)
		if fn, ok := fc.c.reg.GetFunction(hash); ok {
			out = append(out, fn)
		}
	}
	return out
}

// callerHash identifies the enclosing function for call-graph recording.
// Zero (the registry's reserved "no function" hash) for top-level
// initializers, which have no function identity of their own.
func (fc *funcCompiler) callerHash() typehash.TypeHash {
	return fc.callerID
}

func (fc *funcCompiler) checkBinary(n *ast.BinaryExpr) (exprInfo, bool) {
	l, lok := fc.checkExpr(n.Left)
	r, rok := fc.checkExpr(n.Right)
	if !lok || !rok {
		return errInfo, false
	}
	if l.Type.IsEnum {
		l.Type = datatype.Simple(typehash.INT32)
	}
	if r.Type.IsEnum {
		r.Type = datatype.Simple(typehash.INT32)
	}

	switch n.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		return fc.checkComparison(n, l, r)
	default:
		return fc.checkArithmetic(n, l, r)
	}
}

func (fc *funcCompiler) checkComparison(n *ast.BinaryExpr, l, r exprInfo) (exprInfo, bool) {
	if isNumericPrimitive(l.Type.TypeHash) && isNumericPrimitive(r.Type.TypeHash) {
		op := map[string]bytecode.Op{
			"==": bytecode.OpCmpEq, "!=": bytecode.OpCmpNe,
			"<": bytecode.OpCmpLt, "<=": bytecode.OpCmpLe,
			">": bytecode.OpCmpGt, ">=": bytecode.OpCmpGe,
		}[n.Op]
		w := widthOf(l.Type.TypeHash)
		if isFloatPrimitive(r.Type.TypeHash) {
			w = widthOf(r.Type.TypeHash)
		}
		fc.chunk.Emit(bytecode.Instr{Op: op, Width: w})
		return exprInfo{Type: datatype.Simple(typehash.BOOL)}, true
	}
	if n.Op == "==" || n.Op == "!=" {
		op := bytecode.OpCmpEq
		if n.Op == "!=" {
			op = bytecode.OpCmpNe
		}
		if _, ok := fc.findConversion(r.Type, l.Type, conv.ImplicitCast, n.SourceSpan); !ok {
			if _, ok := fc.findConversion(l.Type, r.Type, conv.ImplicitCast, n.SourceSpan); !ok {
				return errInfo, false
			}
		}
		fc.chunk.Emit(bytecode.Instr{Op: op})
		return exprInfo{Type: datatype.Simple(typehash.BOOL)}, true
	}
	if fn, ok := fc.findOperatorMethod(l.Type, ast.OpCmp, []exprInfo{r}); ok {
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpCallMethodVirtual, A: uint64(fn.Hash)})
		return exprInfo{Type: datatype.Simple(typehash.BOOL)}, true
	}
	fc.result.Add(&CompilationError{Kind: TypeMismatch, Span: n.SourceSpan, Detail: "no opCmp between the operand types"})
	return errInfo, false
}

func (fc *funcCompiler) checkArithmetic(n *ast.BinaryExpr, l, r exprInfo) (exprInfo, bool) {
	if isNumericPrimitive(l.Type.TypeHash) && isNumericPrimitive(r.Type.TypeHash) {
		resultType := l.Type
		if isFloatPrimitive(r.Type.TypeHash) && !isFloatPrimitive(l.Type.TypeHash) {
			resultType = r.Type
		}
		op := map[string]bytecode.Op{"+": bytecode.OpAdd, "-": bytecode.OpSub, "*": bytecode.OpMul, "/": bytecode.OpDiv, "%": bytecode.OpMod}[n.Op]
		fc.chunk.Emit(bytecode.Instr{Op: op, Width: widthOf(resultType.TypeHash)})
		return exprInfo{Type: datatype.Simple(resultType.TypeHash)}, true
	}
	behaviorName := map[string]ast.BehaviorKind{"+": ast.OpAdd}[n.Op]
	if behaviorName != "" {
		if fn, ok := fc.findOperatorMethod(l.Type, behaviorName, []exprInfo{r}); ok {
			fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpCallMethodVirtual, A: uint64(fn.Hash)})
			return exprInfo{Type: fn.Def.ReturnType}, true
		}
	}
	fc.result.Add(&CompilationError{Kind: TypeMismatch, Span: n.SourceSpan, Detail: "no arithmetic operator for the operand types"})
	return errInfo, false
}

func (fc *funcCompiler) findOperatorMethod(receiver datatype.DataType, op ast.BehaviorKind, args []exprInfo) (*registry.FunctionEntry, bool) {
	class, ok := fc.classOf(receiver)
	if !ok {
		return nil, false
	}
	candidates := class.Behave.Operators[string(op)]
	for _, hash := range candidates {
		fn, ok := fc.c.reg.GetFunction(hash)
		if !ok || len(fn.Def.Params) != len(args) {
			continue
		}
		match := true
		for i, a := range args {
			if _, found := conv.Find(a.Type, fn.Def.Params[i].Type, conv.ImplicitCast, fc.hierarchy()); !found {
				match = false
				break
			}
		}
		if match {
			return fn, true
		}
	}
	return nil, false
}

func (fc *funcCompiler) checkUnary(n *ast.UnaryExpr) (exprInfo, bool) {
	v, ok := fc.checkExpr(n.Operand)
	if !ok {
		return errInfo, false
	}
	switch n.Op {
	case "-":
		if !isNumericPrimitive(v.Type.TypeHash) {
			fc.result.Add(&CompilationError{Kind: TypeMismatch, Span: n.SourceSpan, Detail: "unary minus requires a numeric operand"})
			return errInfo, false
		}
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpNeg, Width: widthOf(v.Type.TypeHash)})
		return exprInfo{Type: v.Type}, true
	case "!":
		if v.Type.TypeHash != typehash.BOOL {
			fc.result.Add(&CompilationError{Kind: TypeMismatch, Span: n.SourceSpan, Detail: "logical not requires a bool operand"})
			return errInfo, false
		}
		return exprInfo{Type: v.Type}, true
	default:
		fc.result.Add(&CompilationError{Kind: Other, Span: n.SourceSpan, Detail: "unsupported unary operator " + n.Op})
		return errInfo, false
	}
}

func (fc *funcCompiler) checkHandleOf(n *ast.HandleOfExpr) (exprInfo, bool) {
	v, ok := fc.checkExpr(n.Operand)
	if !ok {
		return errInfo, false
	}
	if !v.IsLValue {
		fc.result.Add(&CompilationError{Kind: NotAnLValue, Span: n.SourceSpan, Detail: "@ requires an lvalue operand"})
		return errInfo, false
	}
	return exprInfo{Type: v.Type.AsHandle()}, true
}

func (fc *funcCompiler) checkCast(n *ast.CastExpr) (exprInfo, bool) {
	v, ok := fc.checkExpr(n.Operand)
	if !ok {
		return errInfo, false
	}
	target, err := fc.c.resolveTypeExpr(n.Target)
	if err != nil {
		fc.result.Add(&CompilationError{Kind: UnknownType, Span: n.SourceSpan, Name: n.Target.Name})
		return errInfo, false
	}
	if _, ok := fc.findConversion(v.Type, target, conv.ExplicitCast, n.SourceSpan); !ok {
		return errInfo, false
	}
	return exprInfo{Type: target}, true
}

func (fc *funcCompiler) checkConstruct(n *ast.ConstructExpr) (exprInfo, bool) {
	target, err := fc.c.resolveTypeExpr(n.Target)
	if err != nil {
		fc.result.Add(&CompilationError{Kind: UnknownType, Span: n.SourceSpan, Name: n.Target.Name})
		return errInfo, false
	}
	args := make([]exprInfo, len(n.Args))
	ok := true
	for i, a := range n.Args {
		info, aok := fc.checkExpr(a)
		args[i] = info
		ok = ok && aok
	}
	if !ok {
		return errInfo, false
	}
	class, cok := fc.classOf(target)
	if !cok {
		if len(args) == 1 {
			if _, found := fc.findConversion(args[0].Type, target, conv.ImplicitCast, n.SourceSpan); found {
				return exprInfo{Type: target}, true
			}
		}
		fc.result.Add(&CompilationError{Kind: TypeMismatch, Span: n.SourceSpan, Detail: "not constructible"})
		return errInfo, false
	}
	var candidates []*registry.FunctionEntry
	for _, h := range class.Behave.Construct {
		if fn, ok := fc.c.reg.GetFunction(h); ok {
			candidates = append(candidates, fn)
		}
	}
	fn, _, rok := fc.resolveOverload(class.NameStr, candidates, args, n.SourceSpan)
	if !rok {
		return errInfo, false
	}
	fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpAllocObject, A: uint64(target.TypeHash)})
	fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpCallFunction, A: uint64(fn.Hash)})
	return exprInfo{Type: target}, true
}

func (fc *funcCompiler) checkIndex(n *ast.IndexExpr) (exprInfo, bool) {
	recv, rok := fc.checkExpr(n.Receiver)
	idx, iok := fc.checkExpr(n.Index)
	if !rok || !iok {
		return errInfo, false
	}
	class, ok := fc.classOf(recv.Type)
	if !ok {
		fc.result.Add(&CompilationError{Kind: TypeMismatch, Span: n.SourceSpan, Detail: "opIndex requires a class-typed receiver"})
		return errInfo, false
	}
	fn, ok := fc.findOperatorMethod(recv.Type, ast.OpIndex, []exprInfo{idx})
	if !ok {
		fc.result.Add(&CompilationError{Kind: TypeMismatch, Span: n.SourceSpan, Name: class.NameStr, Detail: "no opIndex accepting the index type"})
		return errInfo, false
	}
	fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpCallMethodVirtual, A: uint64(fn.Hash)})
	return exprInfo{Type: fn.Def.ReturnType, IsLValue: true}, true
}

func (fc *funcCompiler) checkLambda(n *ast.LambdaExpr) (exprInfo, bool) {
	*fc.lambdaCounter++
	sub := fc.c.newFuncCompiler(fc.st, fc.module, fc.result, fc.ownerClass, datatype.Void())
	sub.scope.Push()
	for _, p := range n.Params {
		pt, err := fc.c.resolveTypeExpr(p.Type)
		if err != nil {
			fc.result.Add(&CompilationError{Kind: UnknownType, Span: p.SourceSpan, Name: p.Type.Name})
			continue
		}
		sub.scope.Declare(p.Name, pt, true)
	}
	// Captured outer locals are resolved at the VM level by sharing the
	// enclosing frame's slots; the lambda body itself only type-checks
	// against its own parameter scope here.
	sub.checkBlock(n.Body)

	name := "$lambda" + itoa(*fc.lambdaCounter)
	fdefType := typehash.FromSignature("$lambda::"+name, nil, false)
	cf := &bytecode.CompiledFunction{Name: name, Hash: fdefType, ReturnType: sub.returnType, Body: *sub.chunk}
	fc.module.Add(cf)
	return exprInfo{Type: datatype.Simple(fdefType).AsHandle()}, true
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
