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

package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

type fakeHierarchy struct {
	bases       map[typehash.TypeHash]typehash.TypeHash
	implements  map[[2]typehash.TypeHash]bool
	enums       map[typehash.TypeHash]bool
	ctors       map[[2]typehash.TypeHash]typehash.TypeHash
	implConv    map[[2]typehash.TypeHash]typehash.TypeHash
	explicitConv map[[2]typehash.TypeHash]typehash.TypeHash
}

func (f *fakeHierarchy) BaseOf(h typehash.TypeHash) (typehash.TypeHash, bool) {
	b, ok := f.bases[h]
	return b, ok
}
func (f *fakeHierarchy) Implements(class, iface typehash.TypeHash) bool {
	return f.implements[[2]typehash.TypeHash{class, iface}]
}
func (f *fakeHierarchy) IsEnum(h typehash.TypeHash) bool { return f.enums[h] }
func (f *fakeHierarchy) FindConstructor(target, source typehash.TypeHash) (typehash.TypeHash, bool) {
	v, ok := f.ctors[[2]typehash.TypeHash{target, source}]
	return v, ok
}
func (f *fakeHierarchy) FindImplicitConvMethod(source, target typehash.TypeHash) (typehash.TypeHash, bool) {
	v, ok := f.implConv[[2]typehash.TypeHash{source, target}]
	return v, ok
}
func (f *fakeHierarchy) FindExplicitCastMethod(source, target typehash.TypeHash) (typehash.TypeHash, bool) {
	v, ok := f.explicitConv[[2]typehash.TypeHash{source, target}]
	return v, ok
}

func newFakeHierarchy() *fakeHierarchy {
	return &fakeHierarchy{
		bases:        map[typehash.TypeHash]typehash.TypeHash{},
		implements:   map[[2]typehash.TypeHash]bool{},
		enums:        map[typehash.TypeHash]bool{},
		ctors:        map[[2]typehash.TypeHash]typehash.TypeHash{},
		implConv:     map[[2]typehash.TypeHash]typehash.TypeHash{},
		explicitConv: map[[2]typehash.TypeHash]typehash.TypeHash{},
	}
}

func TestIdentityIsExactAndFree(t *testing.T) {
	dt := datatype.Simple(typehash.INT32)
	c, ok := Find(dt, dt, ImplicitCast, nil)
	assert.True(t, ok)
	assert.True(t, c.IsExact())
	assert.Equal(t, CostExact, c.Cost)
}

func TestNullToHandle(t *testing.T) {
	player := typehash.FromName("Player")
	target := datatype.Simple(player).AsHandle()
	c, ok := Find(datatype.NullLiteral(), target, ImplicitCast, nil)
	assert.True(t, ok)
	assert.True(t, c.IsImplicit)
	assert.Equal(t, CostConstAddition, c.Cost)
	assert.Equal(t, NullToHandle, c.Kind)
}

func TestNullToNonHandleFails(t *testing.T) {
	_, ok := Find(datatype.NullLiteral(), datatype.Simple(typehash.INT32), ImplicitCast, nil)
	assert.False(t, ok)
}

func TestHandleToConstHandle(t *testing.T) {
	player := typehash.FromName("Player")
	from := datatype.Simple(player).AsHandle()
	to := datatype.Simple(player).AsHandleToConst()
	c, ok := Find(from, to, ImplicitCast, nil)
	assert.True(t, ok)
	assert.Equal(t, HandleToConst, c.Kind)
	assert.Equal(t, CostConstAddition, c.Cost)
}

func TestConstHandleToHandleFails(t *testing.T) {
	player := typehash.FromName("Player")
	from := datatype.Simple(player).AsHandleToConst()
	to := datatype.Simple(player).AsHandle()
	_, ok := Find(from, to, ImplicitCast, nil)
	assert.False(t, ok)
}

func TestValueToHandleExplicitOnly(t *testing.T) {
	player := typehash.FromName("Player")
	from := datatype.Simple(player)
	to := datatype.Simple(player).AsHandle()

	_, ok := Find(from, to, ImplicitCast, nil)
	assert.False(t, ok, "value-to-handle must not be usable implicitly")

	c, ok := Find(from, to, ExplicitCast, nil)
	assert.True(t, ok)
	assert.False(t, c.IsImplicit)
	assert.Equal(t, CostExplicitOnly, c.Cost)
}

func TestPrimitiveWidening(t *testing.T) {
	c, ok := Find(datatype.Simple(typehash.INT32), datatype.Simple(typehash.INT64), ImplicitCast, nil)
	assert.True(t, ok)
	assert.True(t, c.IsImplicit)
	assert.Equal(t, CostPrimitiveWidening, c.Cost)
}

func TestPrimitiveNarrowingNotImplicit(t *testing.T) {
	_, ok := Find(datatype.Simple(typehash.INT64), datatype.Simple(typehash.INT32), ImplicitCast, nil)
	assert.False(t, ok)

	c, ok := Find(datatype.Simple(typehash.INT64), datatype.Simple(typehash.INT32), ExplicitCast, nil)
	assert.True(t, ok)
	assert.False(t, c.IsImplicit)
	assert.Equal(t, CostPrimitiveNarrowing, c.Cost)
}

func TestIntToFloatWidens(t *testing.T) {
	c, ok := Find(datatype.Simple(typehash.INT32), datatype.Simple(typehash.DOUBLE), ImplicitCast, nil)
	assert.True(t, ok)
	assert.True(t, c.IsImplicit)
	assert.Equal(t, CostPrimitiveWidening, c.Cost)
}

func TestDerivedToBase(t *testing.T) {
	h := newFakeHierarchy()
	derived := typehash.FromName("Sprite")
	base := typehash.FromName("Entity")
	h.bases[derived] = base

	c, ok := Find(datatype.Simple(derived), datatype.Simple(base), ImplicitCast, h)
	assert.True(t, ok)
	assert.Equal(t, DerivedToBase, c.Kind)
	assert.Equal(t, CostDerivedToBase, c.Cost)
}

func TestClassToInterface(t *testing.T) {
	h := newFakeHierarchy()
	class := typehash.FromName("Sprite")
	iface := typehash.FromName("IDraw")
	h.implements[[2]typehash.TypeHash{class, iface}] = true

	c, ok := Find(datatype.Simple(class), datatype.Simple(iface), ImplicitCast, h)
	assert.True(t, ok)
	assert.Equal(t, ClassToInterface, c.Kind)
	assert.Equal(t, CostClassToInterface, c.Cost)
}

func TestUserDefinedConstructorConversion(t *testing.T) {
	h := newFakeHierarchy()
	vec2 := typehash.FromName("Vec2")
	ctor := typehash.FromName("Vec2::Vec2(float)")
	h.ctors[[2]typehash.TypeHash{vec2, typehash.FLOAT}] = ctor

	c, ok := Find(datatype.Simple(typehash.FLOAT), datatype.Simple(vec2), ImplicitCast, h)
	assert.True(t, ok)
	assert.Equal(t, ConstructorConversion, c.Kind)
	assert.Equal(t, CostUserImplicit, c.Cost)
	assert.Equal(t, ctor, c.Via)
}

func TestExplicitCastMethodNotImplicit(t *testing.T) {
	h := newFakeHierarchy()
	vec2 := typehash.FromName("Vec2")
	method := typehash.FromName("Vec2::opCast")
	h.explicitConv[[2]typehash.TypeHash{vec2, typehash.INT32}] = method

	_, ok := Find(datatype.Simple(vec2), datatype.Simple(typehash.INT32), ImplicitCast, h)
	assert.False(t, ok)

	c, ok := Find(datatype.Simple(vec2), datatype.Simple(typehash.INT32), ExplicitCast, h)
	assert.True(t, ok)
	assert.False(t, c.IsImplicit)
}

func TestEnumToIntImplicit(t *testing.T) {
	h := newFakeHierarchy()
	color := typehash.FromName("Color")
	h.enums[color] = true

	from := datatype.Simple(color)
	from.IsEnum = true
	c, ok := Find(from, datatype.Simple(typehash.INT32), ImplicitCast, h)
	assert.True(t, ok)
	assert.True(t, c.IsImplicit)
	assert.Equal(t, EnumToInt, c.Kind)
}

func TestIntToEnumExplicitOnly(t *testing.T) {
	h := newFakeHierarchy()
	color := typehash.FromName("Color")
	h.enums[color] = true

	target := datatype.Simple(color)
	target.IsEnum = true
	_, ok := Find(datatype.Simple(typehash.INT32), target, ImplicitCast, h)
	assert.False(t, ok)

	c, ok := Find(datatype.Simple(typehash.INT32), target, ExplicitCast, h)
	assert.True(t, ok)
	assert.False(t, c.IsImplicit)
	assert.Equal(t, IntToEnum, c.Kind)
}

func TestNoConversionExists(t *testing.T) {
	_, ok := Find(datatype.Simple(typehash.FromName("Foo")), datatype.Simple(typehash.FromName("Bar")), ImplicitCast, newFakeHierarchy())
	assert.False(t, ok)
}

func TestExactImpliesZeroCostInvariant(t *testing.T) {
	cases := []Conversion{
		identity(),
		{Kind: Primitive, Cost: CostPrimitiveWidening, IsImplicit: true},
	}
	for _, c := range cases {
		if c.IsExact() {
			assert.Equal(t, uint32(0), c.Cost)
		}
	}
}
