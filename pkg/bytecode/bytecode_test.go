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

package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

func TestChunkEmitAndPatch(t *testing.T) {
	var c Chunk
	branch := c.Emit(Instr{Op: OpBranchIfFalse})
	c.Emit(Instr{Op: OpReturn})
	c.PatchTarget(branch)

	assert.Equal(t, uint64(2), c.Instrs[branch].A)
}

func TestPushConstIndexesIntoPool(t *testing.T) {
	var c Chunk
	c.PushConstInt(datatype.Simple(typehash.INT32), 5)
	c.PushConstFloat(datatype.Simple(typehash.DOUBLE), 2.5)

	require.Len(t, c.Constants, 2)
	assert.Equal(t, OpPushConst, c.Instrs[0].Op)
	assert.Equal(t, uint64(0), c.Instrs[0].A)
	assert.Equal(t, int64(5), c.Constants[0].Int)
	assert.Equal(t, OpPushConst, c.Instrs[1].Op)
	assert.Equal(t, uint64(1), c.Instrs[1].A)
	assert.Equal(t, 2.5, c.Constants[1].Float)
}

func TestCompiledModuleAddAndLookup(t *testing.T) {
	m := NewCompiledModule("main")
	hash := typehash.FromSignature("add", []typehash.TypeHash{typehash.INT32, typehash.INT32}, false)
	fn := &CompiledFunction{Name: "add", Hash: hash, ReturnType: datatype.Simple(typehash.INT32)}
	m.Add(fn)

	got, ok := m.Functions[hash]
	require.True(t, ok)
	assert.Equal(t, "add", got.Name)
}

func TestToYAMLRoundTripsStructure(t *testing.T) {
	m := NewCompiledModule("main")
	hash := typehash.FromName("main")
	fn := &CompiledFunction{
		Name:       "main",
		Hash:       hash,
		ReturnType: datatype.Simple(typehash.INT32),
	}
	fn.Body.PushConstInt(datatype.Simple(typehash.INT32), 5)
	fn.Body.Emit(Instr{Op: OpReturn})
	m.Add(fn)

	out, err := m.ToYAML()
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &parsed))
	assert.Equal(t, "main", parsed["unit"])
}
