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

package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/angelgo/pkg/typehash"
)

func TestSimpleRoundTrip(t *testing.T) {
	h := typehash.FromName("Player")
	dt := Simple(h)
	assert.Equal(t, h, dt.TypeHash)
}

func TestVoid(t *testing.T) {
	assert.True(t, Void().IsVoid())
	assert.False(t, Simple(typehash.INT32).IsVoid())
}

func TestNullLiteral(t *testing.T) {
	n := NullLiteral()
	assert.True(t, n.IsNull())
	assert.True(t, n.IsHandle)
}

func TestAsHandleToConstImpliesHandle(t *testing.T) {
	dt := Simple(typehash.FromName("Player")).AsHandleToConst()
	assert.True(t, dt.IsHandle)
	assert.True(t, dt.IsHandleToConst)
}

func TestAsHandleClearsHandleToConst(t *testing.T) {
	dt := Simple(typehash.FromName("Player")).AsHandleToConst().AsHandle()
	assert.True(t, dt.IsHandle)
	assert.False(t, dt.IsHandleToConst)
}

func TestReferenceImpliesModifier(t *testing.T) {
	dt := Simple(typehash.INT32).AsReference(RefOut)
	assert.True(t, dt.IsReference)
	assert.Equal(t, RefOut, dt.RefMod)
}

func TestSignatureHashDistinguishesRefModifiers(t *testing.T) {
	base := Simple(typehash.INT32)
	in := base.AsReference(RefIn).SignatureHash()
	out := base.AsReference(RefOut).SignatureHash()
	assert.NotEqual(t, in, out)
}

func TestSignatureHashDistinguishesConst(t *testing.T) {
	base := Simple(typehash.FromName("Player")).AsHandle()
	constHandle := base.AsHandleToConst()
	assert.NotEqual(t, base.SignatureHash(), constHandle.SignatureHash())
}
