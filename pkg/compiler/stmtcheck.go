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
)

// checkBlock opens a nested scope, checks every statement, and closes the
// scope again.
func (fc *funcCompiler) checkBlock(stmts []ast.Stmt) {
	fc.scope.Push()
	for _, s := range stmts {
		fc.checkStmt(s)
	}
	fc.scope.Pop()
}

// checkStmt type-checks and emits one statement. Grounded on spec.md section
// 4.5 item 3's per-statement rules.
func (fc *funcCompiler) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		fc.checkExpr(n.Expr)

	case *ast.VarDeclStmt:
		fc.checkVarDecl(n)

	case *ast.AssignStmt:
		fc.checkAssign(n)

	case *ast.ReturnStmt:
		fc.checkReturn(n)

	case *ast.BlockStmt:
		fc.checkBlock(n.Stmts)

	case *ast.IfStmt:
		fc.checkIf(n)

	case *ast.WhileStmt:
		fc.checkWhile(n)

	case *ast.DoWhileStmt:
		fc.checkDoWhile(n)

	case *ast.ForStmt:
		fc.checkFor(n)

	case *ast.SwitchStmt:
		fc.checkSwitch(n)

	case *ast.BreakStmt:
		if !fc.jumps.InLoop() {
			fc.result.Add(&CompilationError{Kind: BreakOutsideLoop, Span: n.SourceSpan})
			return
		}
		idx := fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpJump})
		fc.jumps.AddBreak(idx)

	case *ast.ContinueStmt:
		target, err := fc.jumps.ContinueTarget()
		if err != nil {
			fc.result.Add(&CompilationError{Kind: BreakOutsideLoop, Span: n.SourceSpan})
			return
		}
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpJump, A: uint64(target)})

	default:
		fc.result.Add(&CompilationError{Kind: Other, Span: s.Span(), Detail: "unsupported statement form"})
	}
}

func (fc *funcCompiler) checkVarDecl(n *ast.VarDeclStmt) {
	declaredType, err := fc.c.resolveTypeExpr(n.Type)
	if err != nil {
		fc.result.Add(&CompilationError{Kind: UnknownType, Span: n.SourceSpan, Name: n.Type.Name})
		return
	}
	if fc.scope.DeclaredInInnermost(n.Name) {
		fc.result.Add(&CompilationError{Kind: DuplicateSymbol, Span: n.SourceSpan, Name: n.Name})
		return
	}
	if n.Initializer != nil {
		val, ok := fc.checkExpr(n.Initializer)
		if ok {
			if _, cok := fc.findConversion(val.Type, declaredType, conv.ImplicitCast, n.SourceSpan); !cok {
				return
			}
		}
	}
	local := fc.scope.Declare(n.Name, declaredType, true)
	fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpStoreLocal, A: uint64(local.Slot)})
	fc.scope.MarkLifetimeStarted(n.Name)
}

// checkAssign type-checks and emits an assignment statement. A plain `=`
// resolves the target's storage location without loading its current value,
// then stores the right-hand side straight into it. A compound assignment
// (`+=` and friends) does need the current value: either as the left
// operand of a primitive arithmetic op, or, for `+=`, as the implicit
// receiver of a user-defined opAddAssign method (which mutates it in place
// and needs no store of its own afterward).
func (fc *funcCompiler) checkAssign(n *ast.AssignStmt) {
	target, tok := fc.resolveAssignTarget(n.Target)
	if !tok {
		fc.checkExpr(n.Value)
		return
	}
	if !target.IsLValue {
		fc.checkExpr(n.Value)
		fc.result.Add(&CompilationError{Kind: NotAnLValue, Span: n.SourceSpan, Detail: "assignment target is not an lvalue"})
		return
	}

	effectiveOp := n.Op
	if effectiveOp != "=" {
		fc.loadTargetValue(target)
		value, vok := fc.checkExpr(n.Value)
		if !vok {
			return
		}
		if fn, ok := fc.findOperatorMethod(target.Type, compoundOperatorBehavior(effectiveOp), []exprInfo{value}); ok {
			fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpCallMethodVirtual, A: uint64(fn.Hash)})
			return
		}
		if isNumericPrimitive(target.Type.TypeHash) && isNumericPrimitive(value.Type.TypeHash) {
			fc.chunk.Emit(bytecode.Instr{Op: arithmeticOpFor(effectiveOp), Width: widthOf(target.Type.TypeHash)})
			fc.storeTargetValue(target)
			return
		}
		fc.result.Add(&CompilationError{Kind: TypeMismatch, Span: n.SourceSpan, Detail: "no compound-assignment operator for the operand types"})
		return
	}

	value, vok := fc.checkExpr(n.Value)
	if !vok {
		return
	}
	if _, ok := fc.findConversion(value.Type, target.Type, conv.ImplicitCast, n.SourceSpan); !ok {
		return
	}
	fc.storeTargetValue(target)
}

func compoundOperatorBehavior(op string) ast.BehaviorKind {
	switch op {
	case "+=":
		return ast.OpAddAssign
	default:
		return ""
	}
}

func arithmeticOpFor(op string) bytecode.Op {
	switch op {
	case "+=":
		return bytecode.OpAdd
	case "-=":
		return bytecode.OpSub
	case "*=":
		return bytecode.OpMul
	case "/=":
		return bytecode.OpDiv
	case "%=":
		return bytecode.OpMod
	default:
		return bytecode.OpAdd
	}
}

func (fc *funcCompiler) checkReturn(n *ast.ReturnStmt) {
	fc.sawReturn = true
	if n.Value == nil {
		if !fc.isVoid {
			fc.result.Add(&CompilationError{Kind: TypeMismatch, Span: n.SourceSpan, Detail: "missing return value in a non-void function"})
		}
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpReturn})
		return
	}
	val, ok := fc.checkExpr(n.Value)
	if !ok {
		return
	}
	if fc.isVoid {
		fc.result.Add(&CompilationError{Kind: TypeMismatch, Span: n.SourceSpan, Detail: "void function cannot return a value"})
		return
	}
	if _, cok := fc.findConversion(val.Type, fc.returnType, conv.ImplicitCast, n.SourceSpan); !cok {
		return
	}
	fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpReturn})
}

func (fc *funcCompiler) checkIf(n *ast.IfStmt) {
	cond, ok := fc.checkExpr(n.Cond)
	if ok {
		fc.findConversion(cond.Type, boolType(), conv.ImplicitCast, n.SourceSpan)
	}
	branchIdx := fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpBranchIfFalse})
	fc.checkStmt(n.Then)
	if n.Else == nil {
		fc.chunk.PatchTarget(branchIdx)
		return
	}
	jumpOverElse := fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpJump})
	fc.chunk.PatchTarget(branchIdx)
	fc.checkStmt(n.Else)
	fc.chunk.PatchTarget(jumpOverElse)
}

func (fc *funcCompiler) checkWhile(n *ast.WhileStmt) {
	condTarget := len(fc.chunk.Instrs)
	fc.jumps.EnterLoop(condTarget)
	cond, ok := fc.checkExpr(n.Cond)
	if ok {
		fc.findConversion(cond.Type, boolType(), conv.ImplicitCast, n.SourceSpan)
	}
	exitBranch := fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpBranchIfFalse})
	fc.checkStmt(n.Body)
	fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpJump, A: uint64(condTarget)})
	fc.chunk.PatchTarget(exitBranch)
	for _, b := range fc.jumps.ExitLoop() {
		fc.chunk.PatchTarget(b)
	}
}

func (fc *funcCompiler) checkDoWhile(n *ast.DoWhileStmt) {
	bodyStart := len(fc.chunk.Instrs)
	fc.jumps.EnterLoop(bodyStart)
	fc.checkStmt(n.Body)
	cond, ok := fc.checkExpr(n.Cond)
	if ok {
		fc.findConversion(cond.Type, boolType(), conv.ImplicitCast, n.SourceSpan)
	}
	fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpBranchIfTrue, A: uint64(bodyStart)})
	for _, b := range fc.jumps.ExitLoop() {
		fc.chunk.PatchTarget(b)
	}
}

func (fc *funcCompiler) checkFor(n *ast.ForStmt) {
	fc.scope.Push()
	defer fc.scope.Pop()
	if n.Init != nil {
		fc.checkStmt(n.Init)
	}
	condTarget := len(fc.chunk.Instrs)
	fc.jumps.EnterLoop(condTarget)
	var exitBranch int
	hasCond := n.Cond != nil
	if hasCond {
		cond, ok := fc.checkExpr(n.Cond)
		if ok {
			fc.findConversion(cond.Type, boolType(), conv.ImplicitCast, n.SourceSpan)
		}
		exitBranch = fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpBranchIfFalse})
	}
	fc.checkStmt(n.Body)
	if n.Post != nil {
		fc.checkExpr(n.Post)
	}
	fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpJump, A: uint64(condTarget)})
	if hasCond {
		fc.chunk.PatchTarget(exitBranch)
	}
	for _, b := range fc.jumps.ExitLoop() {
		fc.chunk.PatchTarget(b)
	}
}

// checkSwitch emits a chain of equality comparisons against the scrutinee,
// one per labeled case, falling through to the default case (if any) or
// past the switch (if not) when none match. Case bodies fall through to the
// next case's body in source order, per AngelScript's C-style switch
// semantics; `break` exits via the enclosing JumpManager loop context.
func (fc *funcCompiler) checkSwitch(n *ast.SwitchStmt) {
	scrutinee, ok := fc.checkExpr(n.Scrutinee)
	if !ok {
		return
	}
	fc.jumps.EnterSwitch()

	branchIdxs := make([]int, len(n.Cases))
	defaultIdx := -1
	for i, cs := range n.Cases {
		if cs.Label == nil {
			defaultIdx = i
			branchIdxs[i] = -1
			continue
		}
		label, lok := fc.checkExpr(cs.Label)
		if lok {
			fc.findConversion(label.Type, scrutinee.Type, conv.ImplicitCast, n.SourceSpan)
		}
		fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpCmpEq})
		branchIdxs[i] = fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpBranchIfTrue})
	}

	fallthroughJump := fc.chunk.Emit(bytecode.Instr{Op: bytecode.OpJump})

	for i, cs := range n.Cases {
		if i == defaultIdx {
			fc.chunk.PatchTarget(fallthroughJump)
		} else {
			fc.chunk.PatchTarget(branchIdxs[i])
		}
		for _, st := range cs.Stmts {
			fc.checkStmt(st)
		}
	}
	if defaultIdx < 0 {
		fc.chunk.PatchTarget(fallthroughJump)
	}
	for _, b := range fc.jumps.ExitLoop() {
		fc.chunk.PatchTarget(b)
	}
}
