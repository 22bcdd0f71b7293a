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

package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/angelgo/pkg/ffi"
	"github.com/kraklabs/angelgo/pkg/registry"
)

func TestBuilderAccumulatesAndFreezes(t *testing.T) {
	b := New(nil, nil)

	playerHash, err := b.RegisterType(ffi.TypeDef{Name: "Player", Flags: ffi.ObjectTypeFlags{IsReference: true}})
	require.NoError(t, err)

	_, err = b.RegisterMethod(playerHash, ffi.FunctionDef{
		Decl:   "void set_health(int)",
		Native: func(ctx registry.NativeCallContext) error { return nil },
	})
	require.NoError(t, err)

	snapshot := b.Build()
	entry, ok := snapshot.Registry().GetType(playerHash)
	require.True(t, ok)
	assert.Equal(t, "Player", entry.QualifiedName())
}

func TestBuilderRejectsMutationAfterBuild(t *testing.T) {
	b := New(nil, nil)
	b.Build()

	_, err := b.RegisterType(ffi.TypeDef{Name: "Too late"})
	require.Error(t, err)
}

func TestBuilderNamespaceDefaultsOntoRegistrations(t *testing.T) {
	b := New(nil, []string{"math"})
	hash, err := b.RegisterType(ffi.TypeDef{Name: "Vec2", Flags: ffi.ObjectTypeFlags{IsValue: true}})
	require.NoError(t, err)

	snapshot := b.Build()
	entry, ok := snapshot.Registry().GetType(hash)
	require.True(t, ok)
	assert.Equal(t, "math::Vec2", entry.QualifiedName())
}
