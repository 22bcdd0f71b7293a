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

package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/angelgo/pkg/typehash"
)

func TestDynamicCloneIfPossibleRejectsNative(t *testing.T) {
	n := Native(struct{}{})
	_, ok := n.CloneIfPossible()
	assert.False(t, ok)

	i := Int(42)
	cloned, ok := i.CloneIfPossible()
	require.True(t, ok)
	assert.True(t, i.Equal(cloned))
}

func TestDynamicEqualNeverMatchesNative(t *testing.T) {
	a := Native(1)
	b := Native(1)
	assert.False(t, a.Equal(b))
}

func TestDynamicVariantAccessors(t *testing.T) {
	assert.True(t, Void().IsVoid())
	assert.True(t, NullHandle().IsNull())

	_, ok := Int(5).AsFloat()
	assert.False(t, ok)
	v, ok := Int(5).AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(5), v)
}

func TestObjectHeapLifecycle(t *testing.T) {
	heap := NewObjectHeap()
	typeHash := typehash.FromName("Player")

	h := heap.Allocate(typeHash, "alive")
	rc, ok := heap.RefCount(h)
	require.True(t, ok)
	assert.Equal(t, uint32(1), rc)

	ok = heap.AddRef(h)
	require.True(t, ok)
	rc, _ = heap.RefCount(h)
	assert.Equal(t, uint32(2), rc)

	freed, ok := heap.Release(h)
	require.True(t, ok)
	assert.False(t, freed)
	rc, _ = heap.RefCount(h)
	assert.Equal(t, uint32(1), rc)

	freed, ok = heap.Release(h)
	require.True(t, ok)
	assert.True(t, freed)

	_, ok = heap.Get(h)
	assert.False(t, ok, "a freed handle never dereferences live data")

	h2 := heap.Allocate(typeHash, "reborn")
	assert.Equal(t, h.Index, h2.Index, "the free slot is reused")
	assert.NotEqual(t, h.Generation, h2.Generation, "reuse bumps the generation")

	_, ok = heap.Get(h)
	assert.False(t, ok, "the stale handle still doesn't resolve after reuse")
	v, ok := heap.Get(h2)
	require.True(t, ok)
	assert.Equal(t, "reborn", v)
}

func TestObjectHeapReleaseStaleHandleFails(t *testing.T) {
	heap := NewObjectHeap()
	typeHash := typehash.FromName("Player")
	h := heap.Allocate(typeHash, "x")
	heap.Release(h)

	_, ok := heap.Release(h)
	assert.False(t, ok)
}

func TestObjectHeapTypeMismatchIsStale(t *testing.T) {
	heap := NewObjectHeap()
	h := heap.Allocate(typehash.FromName("Player"), "x")
	wrongType := h
	wrongType.TypeHash = typehash.FromName("Enemy")

	_, ok := heap.Get(wrongType)
	assert.False(t, ok)
}

func TestCallContextArgOutOfBoundsReportsNativeError(t *testing.T) {
	ctx := NewCallContext(Dynamic{}, false, []Dynamic{Int(1)}, NewObjectHeap(), nil)
	assert.Equal(t, 1, ctx.ArgCount())

	_, err := ctx.Arg(5)
	require.Error(t, err)
	var nerr *NativeError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, NativeArgumentIndexOutOfBounds, nerr.Kind)
	assert.Equal(t, 5, nerr.Index)
}

func TestCallContextSetReturnAndThis(t *testing.T) {
	ctx := NewCallContext(Int(7), true, nil, NewObjectHeap(), nil)
	this, ok := ctx.This()
	require.True(t, ok)
	assert.True(t, this.Equal(Int(7)))

	ctx.SetReturn(Bool(true))
	assert.True(t, ctx.Return().Equal(Bool(true)))
}

func TestStringFactoryCreatesGoString(t *testing.T) {
	f := NewStringFactory()
	v, err := f.Create([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
	assert.Equal(t, typehash.STRING, f.TypeHash())
}

func TestNativeErrorUnwrap(t *testing.T) {
	cause := &ConversionError{Kind: ConversionTypeMismatch, Expected: "int", Got: "string"}
	wrapped := &NativeError{Kind: NativeConversion, Cause: cause}
	assert.ErrorIs(t, wrapped, cause)
}
