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
	"testing"

	"github.com/kraklabs/angelgo/pkg/ast"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intType() ast.TypeExpr  { return ast.TypeExpr{Name: "int"} }
func boolTypeExpr() ast.TypeExpr { return ast.TypeExpr{Name: "bool"} }
func voidType() ast.TypeExpr { return ast.TypeExpr{} }

// TestCompileUnitRegisterAndCall mirrors spec.md's "register + call"
// scenario: a free function compiled and callable by another function in
// the same Unit.
func TestCompileUnitRegisterAndCall(t *testing.T) {
	reg := registry.New(nil)
	c := New(nil, reg, nil)

	unit := &ast.Unit{
		Name: "main",
		Items: []ast.Item{
			&ast.GlobalFuncDecl{
				Func: ast.FuncDecl{
					Name:       "add",
					ReturnType: intType(),
					Params: []ast.ParamDecl{
						{Name: "a", Type: intType()},
						{Name: "b", Type: intType()},
					},
					Body: []ast.Stmt{
						&ast.ReturnStmt{Value: &ast.BinaryExpr{
							Op:    "+",
							Left:  &ast.NameExpr{Name: "a"},
							Right: &ast.NameExpr{Name: "b"},
						}},
					},
				},
			},
			&ast.GlobalFuncDecl{
				Func: ast.FuncDecl{
					Name:       "main",
					ReturnType: intType(),
					Body: []ast.Stmt{
						&ast.ReturnStmt{Value: &ast.CallExpr{
							Callee: &ast.NameExpr{Name: "add"},
							Args:   []ast.Expr{&ast.IntLiteral{Value: 1}, &ast.IntLiteral{Value: 2}},
						}},
					},
				},
			},
		},
	}

	module, result := c.CompileUnit(unit)
	require.True(t, result.IsSuccess(), "%v", result.Errors)
	assert.Len(t, module.Functions, 2)
}

// TestCompileUnitOverloadResolution mirrors spec.md's overload-resolution
// scenario: two overloads of the same name, resolved by argument type.
func TestCompileUnitOverloadResolution(t *testing.T) {
	reg := registry.New(nil)
	c := New(nil, reg, nil)

	unit := &ast.Unit{
		Name: "main",
		Items: []ast.Item{
			&ast.GlobalFuncDecl{
				Func: ast.FuncDecl{
					Name:       "describe",
					ReturnType: voidType(),
					Params:     []ast.ParamDecl{{Name: "v", Type: intType()}},
					Body:       []ast.Stmt{&ast.ReturnStmt{}},
				},
			},
			&ast.GlobalFuncDecl{
				Func: ast.FuncDecl{
					Name:       "describe",
					ReturnType: voidType(),
					Params:     []ast.ParamDecl{{Name: "v", Type: boolTypeExpr()}},
					Body:       []ast.Stmt{&ast.ReturnStmt{}},
				},
			},
			&ast.GlobalFuncDecl{
				Func: ast.FuncDecl{
					Name:       "caller",
					ReturnType: voidType(),
					Body: []ast.Stmt{
						&ast.ExprStmt{Expr: &ast.CallExpr{
							Callee: &ast.NameExpr{Name: "describe"},
							Args:   []ast.Expr{&ast.BoolLiteral{Value: true}},
						}},
						&ast.ReturnStmt{},
					},
				},
			},
		},
	}

	module, result := c.CompileUnit(unit)
	require.True(t, result.IsSuccess(), "%v", result.Errors)
	assert.Len(t, module.Functions, 3)
}

// TestCompileUnitDuplicateSymbol checks that a name collision between two
// classes in the same Unit is reported without aborting the rest of pass1.
func TestCompileUnitDuplicateSymbol(t *testing.T) {
	reg := registry.New(nil)
	c := New(nil, reg, nil)

	unit := &ast.Unit{
		Name: "main",
		Items: []ast.Item{
			&ast.ClassDecl{Name: "Player"},
			&ast.ClassDecl{Name: "Player"},
		},
	}

	_, result := c.CompileUnit(unit)
	require.False(t, result.IsSuccess())
	assert.Equal(t, DuplicateSymbol, result.Errors[0].Kind)
}

// TestCompileUnitClassFieldAndMethod exercises a class with a field read by
// one of its own methods.
func TestCompileUnitClassFieldAndMethod(t *testing.T) {
	reg := registry.New(nil)
	c := New(nil, reg, nil)

	unit := &ast.Unit{
		Name: "main",
		Items: []ast.Item{
			&ast.ClassDecl{
				Name: "Counter",
				Fields: []ast.FieldDecl{
					{Name: "count", Type: intType()},
				},
				Methods: []ast.FuncDecl{
					{
						Name:       "get",
						ReturnType: intType(),
						Body: []ast.Stmt{
							&ast.ReturnStmt{Value: &ast.NameExpr{Name: "count"}},
						},
					},
				},
			},
		},
	}

	module, result := c.CompileUnit(unit)
	require.True(t, result.IsSuccess(), "%v", result.Errors)
	assert.Len(t, module.Functions, 1)
}

// TestCompileUnitMissingReturn checks that a non-void function lacking a
// return statement on its only path is reported.
func TestCompileUnitMissingReturn(t *testing.T) {
	reg := registry.New(nil)
	c := New(nil, reg, nil)

	unit := &ast.Unit{
		Name: "main",
		Items: []ast.Item{
			&ast.GlobalFuncDecl{
				Func: ast.FuncDecl{
					Name:       "broken",
					ReturnType: intType(),
					Body:       []ast.Stmt{&ast.ExprStmt{Expr: &ast.IntLiteral{Value: 1}}},
				},
			},
		},
	}

	_, result := c.CompileUnit(unit)
	require.False(t, result.IsSuccess())
	found := false
	for _, e := range result.Errors {
		if e.Kind == MissingReturn {
			found = true
		}
	}
	assert.True(t, found)
}
