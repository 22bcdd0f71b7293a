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

package template

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

func arrayBuilder(instance typehash.TypeHash, args []datatype.DataType, needsGC bool) *registry.ClassEntry {
	return &registry.ClassEntry{NameStr: fmt.Sprintf("array_instance_%d", instance), TypeHash: instance, IsTemplate: false}
}

func TestInstantiateCachesRepeatedCalls(t *testing.T) {
	reg := registry.New(nil)
	inst := New(reg)
	arrayTemplate := typehash.FromName("array")
	inst.RegisterBuilder(arrayTemplate, arrayBuilder)

	first, err := inst.Instantiate("array", arrayTemplate, []datatype.DataType{datatype.Simple(typehash.INT32)})
	require.NoError(t, err)

	second, err := inst.Instantiate("array", arrayTemplate, []datatype.DataType{datatype.Simple(typehash.INT32)})
	require.NoError(t, err)

	assert.Equal(t, first, second, "repeated instantiation with equal args returns the same concrete TypeHash")
}

func TestInstantiateDifferentArgsYieldDifferentInstances(t *testing.T) {
	reg := registry.New(nil)
	inst := New(reg)
	arrayTemplate := typehash.FromName("array")
	inst.RegisterBuilder(arrayTemplate, arrayBuilder)

	intInst, err := inst.Instantiate("array", arrayTemplate, []datatype.DataType{datatype.Simple(typehash.INT32)})
	require.NoError(t, err)
	floatInst, err := inst.Instantiate("array", arrayTemplate, []datatype.DataType{datatype.Simple(typehash.DOUBLE)})
	require.NoError(t, err)

	assert.NotEqual(t, intInst, floatInst)
}

func TestTemplateCallbackRejection(t *testing.T) {
	reg := registry.New(nil)
	inst := New(reg)
	arrayTemplate := typehash.FromName("array")
	inst.RegisterBuilder(arrayTemplate, arrayBuilder)
	inst.RegisterCallback(arrayTemplate, func(info InstanceInfo) (bool, bool) {
		return info.SubTypes[0].TypeHash != typehash.VOID, false
	})

	_, err := inst.Instantiate("array", arrayTemplate, []datatype.DataType{datatype.Void()})
	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "array", valErr.Template)
}

func TestPrepopulateReturnsHostInstanceWithoutBuilder(t *testing.T) {
	reg := registry.New(nil)
	inst := New(reg)
	arrayTemplate := typehash.FromName("array")
	hostArrayInt := typehash.FromName("array<int32>@host")

	inst.Prepopulate(arrayTemplate, []typehash.TypeHash{typehash.INT32}, hostArrayInt)

	got, err := inst.Instantiate("array", arrayTemplate, []datatype.DataType{datatype.Simple(typehash.INT32)})
	require.NoError(t, err)
	assert.Equal(t, hostArrayInt, got)
}

func TestMultiArgTemplateOrderSensitive(t *testing.T) {
	reg := registry.New(nil)
	inst := New(reg)
	dictTemplate := typehash.FromName("dict")
	inst.RegisterBuilder(dictTemplate, arrayBuilder)

	a, err := inst.Instantiate("dict", dictTemplate, []datatype.DataType{datatype.Simple(typehash.STRING), datatype.Simple(typehash.INT32)})
	require.NoError(t, err)
	b, err := inst.Instantiate("dict", dictTemplate, []datatype.DataType{datatype.Simple(typehash.INT32), datatype.Simple(typehash.STRING)})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
