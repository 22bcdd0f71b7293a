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
	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

// unitState carries the working data pass1 produces and pass2a/pass2b
// consume while compiling a single ast.Unit. It is private to pkg/compiler:
// callers only see the Compiler's public CompileUnit entry point.
type unitState struct {
	unit *ast.Unit

	// Declared-item lookup by qualified name, populated in pass1, consulted
	// in pass2a to resolve bodies against their syntax.
	classDecls     map[string]*ast.ClassDecl
	interfaceDecls map[string]*ast.InterfaceDecl
	enumDecls      map[string]*ast.EnumDecl
	funcdefDecls   map[string]*ast.FuncdefDecl
	globalFuncs    []*ast.GlobalFuncDecl
	globalVars     []*ast.GlobalVarDecl

	// Partial registry entries created in pass1, mutated in place by pass2a
	// as types resolve (pointer identity is what lets forward references
	// within the Unit work: a field referencing a not-yet-resolved class
	// gets the same *ClassEntry pointer pass2a will finish populating).
	classEntries     map[string]*registry.ClassEntry
	interfaceEntries map[string]*registry.InterfaceEntry

	// globalVarTypes is filled in during pass2a once each global's TypeExpr
	// resolves, and consulted by pass2b when compiling references to
	// globals and their initializers.
	globalVarTypes map[string]datatype.DataType
	globalVarSlots map[string]int
	nextGlobalSlot int
}

func newUnitState(unit *ast.Unit) *unitState {
	return &unitState{
		unit:             unit,
		classDecls:       map[string]*ast.ClassDecl{},
		interfaceDecls:   map[string]*ast.InterfaceDecl{},
		enumDecls:        map[string]*ast.EnumDecl{},
		funcdefDecls:     map[string]*ast.FuncdefDecl{},
		classEntries:     map[string]*registry.ClassEntry{},
		interfaceEntries: map[string]*registry.InterfaceEntry{},
		globalVarTypes:   map[string]datatype.DataType{},
		globalVarSlots:   map[string]int{},
	}
}

func qualifiedName(namespace []string, name string) string {
	out := ""
	for _, ns := range namespace {
		out += ns + "::"
	}
	return out + name
}

func typeHashFor(namespace []string, name string) typehash.TypeHash {
	return typehash.FromName(qualifiedName(namespace, name))
}
