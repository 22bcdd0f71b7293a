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
	"github.com/stretchr/testify/assert"
)

func TestEvalConstIntLiteral(t *testing.T) {
	v, ok := evalConstInt(&ast.IntLiteral{Value: 42}, nil)
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)
}

func TestEvalConstIntNamedReference(t *testing.T) {
	prev := map[string]int64{"RED": 1}
	v, ok := evalConstInt(&ast.NameExpr{Name: "RED"}, prev)
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)
}

func TestEvalConstIntUnknownName(t *testing.T) {
	_, ok := evalConstInt(&ast.NameExpr{Name: "MISSING"}, map[string]int64{})
	assert.False(t, ok)
}

func TestEvalConstIntArithmetic(t *testing.T) {
	e := &ast.BinaryExpr{
		Op:    "+",
		Left:  &ast.IntLiteral{Value: 2},
		Right: &ast.BinaryExpr{Op: "*", Left: &ast.IntLiteral{Value: 3}, Right: &ast.IntLiteral{Value: 4}},
	}
	v, ok := evalConstInt(e, nil)
	assert.True(t, ok)
	assert.Equal(t, int64(14), v)
}

func TestEvalConstIntUnaryMinus(t *testing.T) {
	v, ok := evalConstInt(&ast.UnaryExpr{Op: "-", Operand: &ast.IntLiteral{Value: 5}}, nil)
	assert.True(t, ok)
	assert.Equal(t, int64(-5), v)
}

func TestEvalConstIntDivideByZero(t *testing.T) {
	e := &ast.BinaryExpr{Op: "/", Left: &ast.IntLiteral{Value: 1}, Right: &ast.IntLiteral{Value: 0}}
	_, ok := evalConstInt(e, nil)
	assert.False(t, ok)
}

func TestEvalConstIntRejectsNonConstantForm(t *testing.T) {
	_, ok := evalConstInt(&ast.CallExpr{Callee: &ast.NameExpr{Name: "f"}}, nil)
	assert.False(t, ok)
}
