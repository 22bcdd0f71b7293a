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
	"github.com/kraklabs/angelgo/pkg/bytecode"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countOp(instrs []bytecode.Instr, op bytecode.Op) int {
	n := 0
	for _, i := range instrs {
		if i.Op == op {
			n++
		}
	}
	return n
}

// TestCheckAssignPlainLocalEmitsStore covers `x = 5;`: the target must be
// written, not just type-checked.
func TestCheckAssignPlainLocalEmitsStore(t *testing.T) {
	reg := registry.New(nil)
	c := New(nil, reg, nil)

	unit := &ast.Unit{
		Name: "main",
		Items: []ast.Item{
			&ast.GlobalFuncDecl{
				Func: ast.FuncDecl{
					Name:       "run",
					ReturnType: voidType(),
					Body: []ast.Stmt{
						&ast.VarDeclStmt{Name: "x", Type: intType(), Initializer: &ast.IntLiteral{Value: 1}},
						&ast.AssignStmt{Op: "=", Target: &ast.NameExpr{Name: "x"}, Value: &ast.IntLiteral{Value: 5}},
						&ast.ReturnStmt{},
					},
				},
			},
		},
	}

	module, result := c.CompileUnit(unit)
	require.True(t, result.IsSuccess(), "%v", result.Errors)
	require.Len(t, module.Functions, 1)
	var run *bytecode.CompiledFunction
	for _, fn := range module.Functions {
		run = fn
	}
	assert.Equal(t, 2, countOp(run.Body.Instrs, bytecode.OpStoreLocal), "one store for the declaration, one for the assignment")
}

// TestCheckAssignGlobalEmitsStore covers a plain assignment to a global
// variable.
func TestCheckAssignGlobalEmitsStore(t *testing.T) {
	reg := registry.New(nil)
	c := New(nil, reg, nil)

	unit := &ast.Unit{
		Name: "main",
		Items: []ast.Item{
			&ast.GlobalVarDecl{Name: "counter", Type: intType(), Initializer: &ast.IntLiteral{Value: 0}},
			&ast.GlobalFuncDecl{
				Func: ast.FuncDecl{
					Name:       "run",
					ReturnType: voidType(),
					Body: []ast.Stmt{
						&ast.AssignStmt{Op: "=", Target: &ast.NameExpr{Name: "counter"}, Value: &ast.IntLiteral{Value: 7}},
						&ast.ReturnStmt{},
					},
				},
			},
		},
	}

	module, result := c.CompileUnit(unit)
	require.True(t, result.IsSuccess(), "%v", result.Errors)
	var run *bytecode.CompiledFunction
	for _, fn := range module.Functions {
		if fn.Name == "run" {
			run = fn
		}
	}
	require.NotNil(t, run)
	assert.Equal(t, 1, countOp(run.Body.Instrs, bytecode.OpStoreGlobal))
	assert.Equal(t, 0, countOp(run.Body.Instrs, bytecode.OpLoadGlobal), "plain assignment must not load the prior value")
}

// TestCheckAssignFieldEmitsStore covers `obj.field = y;`: an explicit
// receiver's field write.
func TestCheckAssignFieldEmitsStore(t *testing.T) {
	reg := registry.New(nil)
	c := New(nil, reg, nil)

	unit := &ast.Unit{
		Name: "main",
		Items: []ast.Item{
			&ast.ClassDecl{
				Name:   "Counter",
				Fields: []ast.FieldDecl{{Name: "count", Type: intType()}},
			},
			&ast.GlobalFuncDecl{
				Func: ast.FuncDecl{
					Name:       "run",
					ReturnType: voidType(),
					Params:     []ast.ParamDecl{{Name: "c", Type: ast.TypeExpr{Name: "Counter", IsHandle: true}}},
					Body: []ast.Stmt{
						&ast.AssignStmt{
							Op:     "=",
							Target: &ast.MemberExpr{Receiver: &ast.NameExpr{Name: "c"}, Name: "count"},
							Value:  &ast.IntLiteral{Value: 9},
						},
						&ast.ReturnStmt{},
					},
				},
			},
		},
	}

	module, result := c.CompileUnit(unit)
	require.True(t, result.IsSuccess(), "%v", result.Errors)
	var run *bytecode.CompiledFunction
	for _, fn := range module.Functions {
		if fn.Name == "run" {
			run = fn
		}
	}
	require.NotNil(t, run)
	assert.Equal(t, 1, countOp(run.Body.Instrs, bytecode.OpStoreField))
}

// TestCheckAssignCompoundLocalStillStores guards against the compound-op
// sibling of the plain-assignment no-op bug: `x += 1;` must also write its
// result back.
func TestCheckAssignCompoundLocalStillStores(t *testing.T) {
	reg := registry.New(nil)
	c := New(nil, reg, nil)

	unit := &ast.Unit{
		Name: "main",
		Items: []ast.Item{
			&ast.GlobalFuncDecl{
				Func: ast.FuncDecl{
					Name:       "run",
					ReturnType: voidType(),
					Body: []ast.Stmt{
						&ast.VarDeclStmt{Name: "x", Type: intType(), Initializer: &ast.IntLiteral{Value: 1}},
						&ast.AssignStmt{Op: "+=", Target: &ast.NameExpr{Name: "x"}, Value: &ast.IntLiteral{Value: 2}},
						&ast.ReturnStmt{},
					},
				},
			},
		},
	}

	module, result := c.CompileUnit(unit)
	require.True(t, result.IsSuccess(), "%v", result.Errors)
	require.Len(t, module.Functions, 1)
	var run *bytecode.CompiledFunction
	for _, fn := range module.Functions {
		run = fn
	}
	instrs := run.Body.Instrs
	assert.Equal(t, 2, countOp(instrs, bytecode.OpStoreLocal), "one store for the declaration, one for the compound assignment")
	assert.Equal(t, 1, countOp(instrs, bytecode.OpLoadLocal), "compound assignment reads the current value once")
	assert.Equal(t, 1, countOp(instrs, bytecode.OpAdd))
}
