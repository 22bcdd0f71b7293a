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
	"github.com/kraklabs/angelgo/pkg/registry"
)

// pass1 walks every top-level item of the Unit, creating a
// partially-populated registry entry for each class/interface/enum/funcdef:
// name, namespace, qualified name, type hash, source span. Method and field
// types are left unresolved (pass2a fills them in) so mutually-referencing
// declarations within the same Unit can still see each other's type hash.
// Global functions and global variables are only recorded in the unit
// state, since a function's registry identity (its signature hash) can't
// be computed before its parameter/return types resolve in pass2a.
//
// Grounded on spec.md section 4.3.
func (c *Compiler) pass1(st *unitState, result *CompilationResult) {
	declaredVarNames := map[string]bool{}

	for _, item := range st.unit.Items {
		switch d := item.(type) {
		case *ast.ClassDecl:
			name := qualifiedName(d.Namespace, d.Name)
			entry := &registry.ClassEntry{
				NameStr:        d.Name,
				Namespace:      d.Namespace,
				TypeHash:       typeHashFor(d.Namespace, d.Name),
				Src:            registry.SourceScript,
				IsAbstract:     d.IsAbstract,
				IsFinal:        d.IsFinal,
				IsTemplate:     len(d.TypeParams) > 0,
				TemplateParams: d.TypeParams,
				SourceSpan:     d.SourceSpan,
			}
			if err := c.reg.RegisterType(entry); err != nil {
				result.Add(&CompilationError{Kind: DuplicateSymbol, Span: d.SourceSpan, Name: name})
				continue
			}
			st.classDecls[name] = d
			st.classEntries[name] = entry

		case *ast.InterfaceDecl:
			name := qualifiedName(d.Namespace, d.Name)
			entry := &registry.InterfaceEntry{
				NameStr:    d.Name,
				Namespace:  d.Namespace,
				TypeHash:   typeHashFor(d.Namespace, d.Name),
				SourceSpan: d.SourceSpan,
			}
			if err := c.reg.RegisterType(entry); err != nil {
				result.Add(&CompilationError{Kind: DuplicateSymbol, Span: d.SourceSpan, Name: name})
				continue
			}
			st.interfaceDecls[name] = d
			st.interfaceEntries[name] = entry

		case *ast.EnumDecl:
			name := qualifiedName(d.Namespace, d.Name)
			entry := &registry.EnumEntry{
				NameStr:    d.Name,
				Namespace:  d.Namespace,
				TypeHash:   typeHashFor(d.Namespace, d.Name),
				SourceSpan: d.SourceSpan,
			}
			prev := map[string]int64{}
			next := int64(0)
			for _, v := range d.Values {
				val := next
				if v.Value != nil {
					if iv, ok := evalConstInt(v.Value, prev); ok {
						val = iv
					} else {
						result.Add(&CompilationError{Kind: Other, Span: v.SourceSpan, Detail: "enum value is not a constant integer expression"})
					}
				}
				entry.Values = append(entry.Values, registry.EnumValue{Name: v.Name, Value: val})
				prev[v.Name] = val
				next = val + 1
			}
			if err := c.reg.RegisterType(entry); err != nil {
				result.Add(&CompilationError{Kind: DuplicateSymbol, Span: d.SourceSpan, Name: name})
				continue
			}
			st.enumDecls[name] = d

		case *ast.FuncdefDecl:
			name := qualifiedName(d.Namespace, d.Name)
			entry := &registry.FuncdefEntry{
				NameStr:    d.Name,
				Namespace:  d.Namespace,
				TypeHash:   typeHashFor(d.Namespace, d.Name),
				SourceSpan: d.SourceSpan,
			}
			if err := c.reg.RegisterType(entry); err != nil {
				result.Add(&CompilationError{Kind: DuplicateSymbol, Span: d.SourceSpan, Name: name})
				continue
			}
			st.funcdefDecls[name] = d

		case *ast.GlobalFuncDecl:
			st.globalFuncs = append(st.globalFuncs, d)

		case *ast.GlobalVarDecl:
			name := qualifiedName(d.Namespace, d.Name)
			if declaredVarNames[name] {
				result.Add(&CompilationError{Kind: DuplicateSymbol, Span: d.SourceSpan, Name: name})
				continue
			}
			declaredVarNames[name] = true
			st.globalVars = append(st.globalVars, d)
		}
	}
}
