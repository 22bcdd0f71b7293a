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

	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/typehash"
	"github.com/stretchr/testify/assert"
)

func TestLocalScopeDeclareAndLookup(t *testing.T) {
	s := NewLocalScope()
	l := s.Declare("x", datatype.Simple(typehash.INT32), true)
	assert.Equal(t, 0, l.Slot)

	found, ok := s.Lookup("x")
	assert.True(t, ok)
	assert.Same(t, l, found)
}

func TestLocalScopeShadowingAcrossBlocks(t *testing.T) {
	s := NewLocalScope()
	outer := s.Declare("x", datatype.Simple(typehash.INT32), true)

	s.Push()
	inner := s.Declare("x", datatype.Simple(typehash.FLOAT), true)
	found, _ := s.Lookup("x")
	assert.Same(t, inner, found)
	s.Pop()

	found, _ = s.Lookup("x")
	assert.Same(t, outer, found)
}

func TestLocalScopeDeclaredInInnermost(t *testing.T) {
	s := NewLocalScope()
	s.Declare("x", datatype.Simple(typehash.INT32), true)
	assert.True(t, s.DeclaredInInnermost("x"))

	s.Push()
	assert.False(t, s.DeclaredInInnermost("x"))
	s.Declare("x", datatype.Simple(typehash.INT32), true)
	assert.True(t, s.DeclaredInInnermost("x"))
}

func TestLocalScopeSlotCountAccumulatesAcrossPoppedBlocks(t *testing.T) {
	s := NewLocalScope()
	s.Declare("a", datatype.Simple(typehash.INT32), true)
	s.Push()
	s.Declare("b", datatype.Simple(typehash.INT32), true)
	s.Pop()
	s.Push()
	s.Declare("c", datatype.Simple(typehash.INT32), true)
	s.Pop()

	assert.Equal(t, 3, s.SlotCount())
}

func TestLocalScopeLookupMissing(t *testing.T) {
	s := NewLocalScope()
	_, ok := s.Lookup("nope")
	assert.False(t, ok)
}
