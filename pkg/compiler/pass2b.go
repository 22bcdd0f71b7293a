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
	"github.com/kraklabs/angelgo/pkg/ffi"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

// pass2b type-checks and emits bytecode for every function body in the
// Unit: class methods and behaviors, global functions, and global variable
// initializers. Every class/interface/funcdef structure and every
// signature has already been resolved and registered by pass2a, so this
// pass only needs to look function identities back up by recomputing the
// same deterministic hash pass2a used (resolveTypeExpr is pure given a
// stable registry, so recomputation always agrees with the original).
//
// Grounded on spec.md section 4.5.
func (c *Compiler) pass2b(st *unitState, module *bytecode.CompiledModule, result *CompilationResult) {
	for name, decl := range st.classDecls {
		entry := st.classEntries[name]
		if entry == nil {
			continue
		}
		for _, m := range decl.Methods {
			c.compileMethodBody(st, module, result, entry, m)
		}
		for _, b := range decl.Behaviors {
			c.compileMethodBody(st, module, result, entry, b.Func)
		}
	}

	for _, gd := range st.globalFuncs {
		c.compileGlobalFuncBody(st, module, result, gd)
	}

	for _, gd := range st.globalVars {
		c.compileGlobalVarInit(st, module, result, gd)
	}
}

func (c *Compiler) compileMethodBody(st *unitState, module *bytecode.CompiledModule, result *CompilationResult, owner *registry.ClassEntry, m ast.FuncDecl) {
	def, paramHashes, err := c.compileFuncSignature(&m, owner.TypeHash, true)
	if err != nil {
		return // pass2a already reported the signature error
	}
	hash := ffi.MemberSignatureHash(owner.QualifiedName(), def.Name, paramHashes)
	if m.Body == nil {
		return // abstract or interface method: no body to compile
	}

	fc := c.newFuncCompiler(st, module, result, owner, def.ReturnType)
	fc.callerID = hash
	for _, p := range m.Params {
		fc.scope.Declare(p.Name, paramTypeOf(def, p.Name), true)
	}
	fc.checkBlock(m.Body)
	if !fc.isVoid && !fc.sawReturn {
		result.Add(&CompilationError{Kind: MissingReturn, Span: m.SourceSpan, Name: m.Name})
	}

	module.Add(&bytecode.CompiledFunction{
		Name:       owner.QualifiedName() + "::" + m.Name,
		Hash:       hash,
		Params:     paramTypes(def),
		ReturnType: def.ReturnType,
		Locals:     fc.localsTable(),
		Body:       *fc.chunk,
	})
}

func (c *Compiler) compileGlobalFuncBody(st *unitState, module *bytecode.CompiledModule, result *CompilationResult, gd *ast.GlobalFuncDecl) {
	def, paramHashes, err := c.compileFuncSignature(&gd.Func, 0, false)
	if err != nil {
		return
	}
	def.Namespace = gd.Namespace
	hash := typehash.FromSignature(qualifiedName(gd.Namespace, def.Name), paramHashes, false)
	if gd.Func.Body == nil {
		return
	}

	fc := c.newFuncCompiler(st, module, result, nil, def.ReturnType)
	fc.callerID = hash
	for _, p := range gd.Func.Params {
		fc.scope.Declare(p.Name, paramTypeOf(def, p.Name), true)
	}
	fc.checkBlock(gd.Func.Body)
	if !fc.isVoid && !fc.sawReturn {
		result.Add(&CompilationError{Kind: MissingReturn, Span: gd.Func.SourceSpan, Name: gd.Func.Name})
	}

	module.Add(&bytecode.CompiledFunction{
		Name:       qualifiedName(gd.Namespace, def.Name),
		Hash:       hash,
		Params:     paramTypes(def),
		ReturnType: def.ReturnType,
		Locals:     fc.localsTable(),
		Body:       *fc.chunk,
	})
}

func (c *Compiler) compileGlobalVarInit(st *unitState, module *bytecode.CompiledModule, result *CompilationResult, gd *ast.GlobalVarDecl) {
	name := qualifiedName(gd.Namespace, gd.Name)
	declaredType, ok := st.globalVarTypes[name]
	if !ok {
		return // pass2a already reported the type error
	}
	slot := st.globalVarSlots[name]

	g := &bytecode.Global{Name: name, Type: declaredType, Slot: slot}
	if gd.Initializer != nil {
		fc := c.newFuncCompiler(st, module, result, nil, datatype.Void())
		val, ok := fc.checkExpr(gd.Initializer)
		if ok {
			if _, cok := fc.findConversion(val.Type, declaredType, conv.ImplicitCast, gd.SourceSpan); cok {
				g.Initializer = fc.chunk
			}
		}
	}
	module.AddGlobal(g)
}

func paramTypeOf(def registry.FunctionDef, name string) datatype.DataType {
	for _, p := range def.Params {
		if p.Name == name {
			return p.Type
		}
	}
	return datatype.Void()
}

func paramTypes(def registry.FunctionDef) []datatype.DataType {
	out := make([]datatype.DataType, len(def.Params))
	for i, p := range def.Params {
		out[i] = p.Type
	}
	return out
}

// localsTable reports every stack slot the scope allocated, keyed by
// declaration order; the VM sizes a function's locals array from this.
func (fc *funcCompiler) localsTable() []bytecode.Local {
	out := make([]bytecode.Local, fc.scope.SlotCount())
	for i := range out {
		out[i] = bytecode.Local{Name: "", Type: datatype.Void()}
	}
	return out
}
