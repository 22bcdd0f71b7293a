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
	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/typehash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCompiler(t *testing.T) *Compiler {
	t.Helper()
	reg := registry.New(nil)
	return New(nil, reg, nil)
}

func TestResolveTypeExprVoid(t *testing.T) {
	c := newTestCompiler(t)
	dt, err := c.resolveTypeExpr(ast.TypeExpr{})
	require.NoError(t, err)
	assert.True(t, dt.IsVoid())
}

func TestResolveTypeExprPrimitive(t *testing.T) {
	c := newTestCompiler(t)
	dt, err := c.resolveTypeExpr(ast.TypeExpr{Name: "int"})
	require.NoError(t, err)
	assert.Equal(t, typehash.INT32, dt.TypeHash)
}

func TestResolveTypeExprUnknownType(t *testing.T) {
	c := newTestCompiler(t)
	_, err := c.resolveTypeExpr(ast.TypeExpr{Name: "Nonexistent"})
	assert.Error(t, err)
}

func TestResolveTypeExprHandleModifier(t *testing.T) {
	c := newTestCompiler(t)
	dt, err := c.resolveTypeExpr(ast.TypeExpr{Name: "int", IsHandle: true})
	require.NoError(t, err)
	assert.True(t, dt.IsHandle)
	assert.False(t, dt.IsHandleToConst)
}

func TestResolveTypeExprConstHandleModifier(t *testing.T) {
	c := newTestCompiler(t)
	dt, err := c.resolveTypeExpr(ast.TypeExpr{Name: "int", IsHandle: true, IsConst: true})
	require.NoError(t, err)
	assert.True(t, dt.IsHandleToConst)
}

func TestResolveTypeExprReferenceModifier(t *testing.T) {
	c := newTestCompiler(t)
	dt, err := c.resolveTypeExpr(ast.TypeExpr{Name: "int", RefModifier: "inout"})
	require.NoError(t, err)
	assert.True(t, dt.IsReference)
	assert.Equal(t, datatype.RefInOut, dt.RefMod)
}
