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
	"github.com/kraklabs/angelgo/pkg/ffi"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/span"
	"github.com/kraklabs/angelgo/pkg/typehash"
	"github.com/kraklabs/angelgo/pkg/visibility"
)

// pass2a resolves every class/interface/funcdef's internal structure
// (base, interfaces, fields, method signatures, behaviors, v-table,
// i-table) plus global variable types and global function signatures.
// Forward references within the Unit are legal because pass1 already
// created every class/interface/enum/funcdef's registry entry.
//
// Grounded on spec.md section 4.4.
func (c *Compiler) pass2a(st *unitState, result *CompilationResult) {
	// Stage A: resolve base/interface references for every class, using
	// only name lookups (doesn't depend on any other class's internals
	// having resolved yet).
	for name, decl := range st.classDecls {
		entry := st.classEntries[name]
		if decl.Base != nil {
			baseHash, _, err := c.resolveClassRef(*decl.Base)
			if err != nil {
				result.Add(&CompilationError{Kind: UnknownType, Span: decl.Base.SourceSpan, Name: decl.Base.Name})
			} else {
				entry.Base = baseHash
				entry.HasBase = true
			}
		}
		for _, ite := range decl.Interfaces {
			e, ok := c.reg.GetTypeByName(ite.Name)
			if !ok {
				result.Add(&CompilationError{Kind: UnknownType, Span: ite.SourceSpan, Name: ite.Name})
				continue
			}
			if _, isIface := e.(*registry.InterfaceEntry); !isIface {
				result.Add(&CompilationError{Kind: UnknownType, Span: ite.SourceSpan, Name: ite.Name, Detail: "not an interface"})
				continue
			}
			entry.Interfaces = append(entry.Interfaces, e.Hash())
		}
	}

	// Stage B: cycle detection over the now fully-wired Base chains.
	for name, decl := range st.classDecls {
		entry := st.classEntries[name]
		if c.hasInheritanceCycle(entry) {
			result.Add(&CompilationError{Kind: CyclicInheritance, Span: decl.SourceSpan, Name: name})
			entry.HasBase = false
		}
	}

	// Stage C: fields, method signatures, behaviors, v-table, i-table.
	for name, decl := range st.classDecls {
		c.compileClassBody(st, name, decl, result)
	}

	// Interfaces: resolve each abstract method's signature.
	for name, decl := range st.interfaceDecls {
		entry := st.interfaceEntries[name]
		for _, m := range decl.Methods {
			def, paramHashes, err := c.compileFuncSignature(&m, entry.TypeHash, true)
			if err != nil {
				result.Add(&CompilationError{Kind: UnknownType, Span: m.SourceSpan, Name: m.Name, Detail: err.Error()})
				continue
			}
			def.IsAbstract = true
			mhash := ffi.MemberSignatureHash(entry.QualifiedName(), def.Name, paramHashes)
			fentry := &registry.FunctionEntry{Def: def, Hash: mhash, Impl: registry.Implementation{Kind: registry.ImplAbstract}, Src: registry.SourceScript, SourceSpan: m.SourceSpan}
			if err := c.reg.RegisterFunction(fentry); err != nil {
				result.Add(&CompilationError{Kind: DuplicateSymbol, Span: m.SourceSpan, Name: def.Name})
				continue
			}
			entry.Methods = append(entry.Methods, mhash)
		}
	}

	// Funcdefs: resolve parameter/return types onto the pass1-created entry.
	for name, decl := range st.funcdefDecls {
		e, _ := c.reg.GetTypeByName(name)
		fdef := e.(*registry.FuncdefEntry)
		for _, p := range decl.Params {
			dt, err := c.resolveTypeExpr(p.Type)
			if err != nil {
				result.Add(&CompilationError{Kind: UnknownType, Span: p.SourceSpan, Name: p.Type.Name})
				continue
			}
			fdef.Params = append(fdef.Params, dt)
		}
		rt, err := c.resolveTypeExpr(decl.ReturnType)
		if err != nil {
			result.Add(&CompilationError{Kind: UnknownType, Span: decl.SourceSpan, Name: decl.ReturnType.Name})
		} else {
			fdef.ReturnType = rt
		}
	}

	// Global variables: resolve declared type, assign a storage slot.
	for _, d := range st.globalVars {
		name := qualifiedName(d.Namespace, d.Name)
		dt, err := c.resolveTypeExpr(d.Type)
		if err != nil {
			result.Add(&CompilationError{Kind: UnknownType, Span: d.SourceSpan, Name: d.Type.Name})
			continue
		}
		st.globalVarTypes[name] = dt
		st.globalVarSlots[name] = st.nextGlobalSlot
		st.nextGlobalSlot++
	}

	// Global functions: resolve signature and register.
	for _, gd := range st.globalFuncs {
		def, paramHashes, err := c.compileFuncSignature(&gd.Func, 0, false)
		if err != nil {
			result.Add(&CompilationError{Kind: UnknownType, Span: gd.Func.SourceSpan, Name: gd.Func.Name, Detail: err.Error()})
			continue
		}
		def.Namespace = gd.Namespace
		hash := typehash.FromSignature(qualifiedName(gd.Namespace, def.Name), paramHashes, false)
		entry := &registry.FunctionEntry{Def: def, Hash: hash, Impl: registry.Implementation{Kind: registry.ImplScript, Unit: st.unit.Name}, Src: registry.SourceScript, SourceSpan: gd.Func.SourceSpan}
		if err := c.reg.RegisterFunction(entry); err != nil {
			result.Add(&CompilationError{Kind: DuplicateSymbol, Span: gd.Func.SourceSpan, Name: def.Name})
		}
	}
}

func (c *Compiler) resolveClassRef(te ast.TypeExpr) (typehash.TypeHash, *registry.ClassEntry, error) {
	dt, err := c.resolveTypeExpr(te)
	if err != nil {
		return 0, nil, err
	}
	e, ok := c.reg.GetType(dt.TypeHash)
	if !ok {
		return 0, nil, &missingTypeError{name: te.Name}
	}
	class, ok := e.(*registry.ClassEntry)
	if !ok {
		return 0, nil, &missingTypeError{name: te.Name}
	}
	return dt.TypeHash, class, nil
}

type missingTypeError struct{ name string }

func (e *missingTypeError) Error() string { return "not a class: " + e.name }

func (c *Compiler) hasInheritanceCycle(entry *registry.ClassEntry) bool {
	seen := map[typehash.TypeHash]bool{entry.TypeHash: true}
	cur := entry
	for cur.HasBase {
		if seen[cur.Base] {
			return true
		}
		seen[cur.Base] = true
		e, ok := c.reg.GetType(cur.Base)
		if !ok {
			return false
		}
		base, ok := e.(*registry.ClassEntry)
		if !ok {
			return false
		}
		cur = base
	}
	return false
}

func (c *Compiler) compileClassBody(st *unitState, name string, decl *ast.ClassDecl, result *CompilationResult) {
	entry := st.classEntries[name]

	for _, f := range decl.Fields {
		dt, err := c.resolveTypeExpr(f.Type)
		if err != nil {
			result.Add(&CompilationError{Kind: UnknownType, Span: f.SourceSpan, Name: f.Type.Name})
			continue
		}
		entry.Fields = append(entry.Fields, registry.Field{Name: f.Name, Type: dt, Visibility: parseVisibility(f.Visibility), SourceSpan: f.SourceSpan})
	}

	for _, m := range decl.Methods {
		c.compileMethod(st, entry, m, result)
	}
	for _, b := range decl.Behaviors {
		hash, ok := c.compileMethod(st, entry, b.Func, result)
		if ok {
			ffi.AttachBehavior(&entry.Behave, string(b.Kind), hash)
		}
	}

	entry.VTable = c.buildVTable(entry)
	c.checkOverrides(st, entry, decl, result)
	entry.ITable = c.buildITable(entry, result, decl.SourceSpan, name)
}

func (c *Compiler) compileMethod(st *unitState, entry *registry.ClassEntry, m ast.FuncDecl, result *CompilationResult) (typehash.TypeHash, bool) {
	def, paramHashes, err := c.compileFuncSignature(&m, entry.TypeHash, true)
	if err != nil {
		result.Add(&CompilationError{Kind: UnknownType, Span: m.SourceSpan, Name: m.Name, Detail: err.Error()})
		return 0, false
	}
	def.IsVirtual = m.IsVirtual
	def.IsOverride = m.IsOverride
	hash := ffi.MemberSignatureHash(entry.QualifiedName(), def.Name, paramHashes)
	fentry := &registry.FunctionEntry{
		Def:        def,
		Hash:       hash,
		Impl:       registry.Implementation{Kind: registry.ImplScript, Unit: st.unit.Name},
		Src:        registry.SourceScript,
		SourceSpan: m.SourceSpan,
	}
	if err := c.reg.RegisterFunction(fentry); err != nil {
		result.Add(&CompilationError{Kind: DuplicateSymbol, Span: m.SourceSpan, Name: def.Name})
		return 0, false
	}
	entry.Methods = append(entry.Methods, hash)
	return hash, true
}

func (c *Compiler) compileFuncSignature(fd *ast.FuncDecl, owner typehash.TypeHash, isMethod bool) (registry.FunctionDef, []typehash.TypeHash, error) {
	params := make([]registry.Param, len(fd.Params))
	paramHashes := make([]typehash.TypeHash, len(fd.Params))
	for i, p := range fd.Params {
		dt, err := c.resolveTypeExpr(p.Type)
		if err != nil {
			return registry.FunctionDef{}, nil, err
		}
		params[i] = registry.Param{Name: p.Name, Type: dt, HasDefault: p.Default != nil}
		paramHashes[i] = dt.TypeHash
	}
	retType, err := c.resolveTypeExpr(fd.ReturnType)
	if err != nil {
		return registry.FunctionDef{}, nil, err
	}
	return registry.FunctionDef{
		Name:       fd.Name,
		Params:     params,
		ReturnType: retType,
		IsAbstract: fd.IsAbstract,
		IsStatic:   fd.IsStatic,
		IsShared:   fd.IsShared,
		Owner:      owner,
		IsMethod:   isMethod,
		Visibility: parseVisibility(fd.Visibility),
	}, paramHashes, nil
}

func parseVisibility(s string) visibility.Visibility {
	switch s {
	case "protected":
		return visibility.Protected
	case "private":
		return visibility.Private
	default:
		return visibility.Public
	}
}

// buildVTable walks entry's base chain root-first, so overrides replace
// inherited slots by signature hash, per spec.md section 4.4.
func (c *Compiler) buildVTable(entry *registry.ClassEntry) map[typehash.TypeHash]typehash.TypeHash {
	chain := c.baseChain(entry)
	vtable := map[typehash.TypeHash]typehash.TypeHash{}
	for _, cls := range chain {
		for _, mHash := range cls.Methods {
			fn, ok := c.reg.GetFunction(mHash)
			if !ok {
				continue
			}
			sigHash := overrideHashOf(fn)
			vtable[sigHash] = mHash
		}
	}
	return vtable
}

// baseChain returns entry's inheritance chain, root ancestor first.
func (c *Compiler) baseChain(entry *registry.ClassEntry) []*registry.ClassEntry {
	var chain []*registry.ClassEntry
	cur := entry
	for {
		chain = append(chain, cur)
		if !cur.HasBase {
			break
		}
		e, ok := c.reg.GetType(cur.Base)
		if !ok {
			break
		}
		base, ok := e.(*registry.ClassEntry)
		if !ok {
			break
		}
		cur = base
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func overrideHashOf(fn *registry.FunctionEntry) typehash.TypeHash {
	paramHashes := make([]typehash.TypeHash, len(fn.Def.Params))
	for i, p := range fn.Def.Params {
		paramHashes[i] = p.Type.TypeHash
	}
	return ffi.OverrideSignatureHash(fn.Def.Name, paramHashes)
}

// checkOverrides validates each of entry's own declared methods marked
// `override` against the chain inherited *before* this class's own methods
// were merged in, per spec.md section 4.4.
func (c *Compiler) checkOverrides(st *unitState, entry *registry.ClassEntry, decl *ast.ClassDecl, result *CompilationResult) {
	inherited := map[typehash.TypeHash]bool{}
	if entry.HasBase {
		e, ok := c.reg.GetType(entry.Base)
		if ok {
			if baseClass, ok := e.(*registry.ClassEntry); ok {
				for sig := range c.buildVTable(baseClass) {
					inherited[sig] = true
				}
			}
		}
	}
	for _, m := range decl.Methods {
		if !m.IsOverride {
			continue
		}
		def, paramHashes, err := c.compileFuncSignature(&m, entry.TypeHash, true)
		if err != nil {
			continue
		}
		sig := ffi.OverrideSignatureHash(def.Name, paramHashes)
		if !inherited[sig] {
			result.Add(&CompilationError{Kind: IllegalOverride, Span: m.SourceSpan, Name: def.Name, Detail: "no matching base method"})
		}
	}
}

// buildITable verifies every declared interface is fully implemented and
// records each filled slot, per spec.md section 4.4 / the teacher's
// BuildImplementsIndex/hasAllMethods method-set matching (generalized here
// to match by resolved signature hash instead of regex-scraped names).
func (c *Compiler) buildITable(entry *registry.ClassEntry, result *CompilationResult, declSpan span.Span, className string) map[registry.ITableKey]typehash.TypeHash {
	itable := map[registry.ITableKey]typehash.TypeHash{}
	for _, ifaceHash := range entry.Interfaces {
		e, ok := c.reg.GetType(ifaceHash)
		if !ok {
			continue
		}
		iface, ok := e.(*registry.InterfaceEntry)
		if !ok {
			continue
		}
		allImplemented := true
		for _, methodHash := range iface.Methods {
			methodFn, ok := c.reg.GetFunction(methodHash)
			if !ok {
				continue
			}
			sig := overrideHashOf(methodFn)
			implHash, found := entry.VTable[sig]
			if !found {
				allImplemented = false
				result.Add(&CompilationError{
					Kind:   MissingInterfaceMethod,
					Span:   declSpan,
					Name:   className,
					Detail: methodFn.Def.Name,
				})
				continue
			}
			itable[registry.ITableKey{Interface: ifaceHash, Method: methodHash}] = implHash
		}
		if allImplemented {
			iface.ImplementedBy = append(iface.ImplementedBy, entry.TypeHash)
		} else if !entry.IsAbstract {
			result.Add(&CompilationError{Kind: InterfaceNotImplemented, Span: declSpan, Name: className, Detail: iface.QualifiedName()})
		}
	}
	return itable
}
