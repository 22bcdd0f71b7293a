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

package typehash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimitivesDistinct(t *testing.T) {
	all := []TypeHash{VOID, BOOL, INT8, INT16, INT32, INT64, UINT8, UINT16, UINT32, UINT64, FLOAT, DOUBLE, STRING, NULL}
	seen := make(map[TypeHash]bool, len(all))
	for _, h := range all {
		assert.False(t, seen[h], "duplicate primitive hash %d", h)
		seen[h] = true
	}
}

func TestFromNameDeterministic(t *testing.T) {
	a := FromName("Game::Player")
	b := FromName("Game::Player")
	assert.Equal(t, a, b)
}

func TestFromNameDistinctForDistinctNames(t *testing.T) {
	assert.NotEqual(t, FromName("Player"), FromName("Enemy"))
}

func TestFromNameDoesNotCollideWithPrimitives(t *testing.T) {
	names := []string{"void", "bool", "int", "float", "double", "string", "Player", "Enemy", "array"}
	reserved := map[TypeHash]bool{VOID: true, BOOL: true, INT8: true, INT16: true, INT32: true, INT64: true,
		UINT8: true, UINT16: true, UINT32: true, UINT64: true, FLOAT: true, DOUBLE: true, STRING: true, NULL: true}
	for _, n := range names {
		assert.False(t, reserved[FromName(n)], "name hash for %q collided with a primitive", n)
	}
}

func TestFromSignatureOrderSensitive(t *testing.T) {
	a := FromSignature("foo", []TypeHash{INT32, FLOAT}, false)
	b := FromSignature("foo", []TypeHash{FLOAT, INT32}, false)
	assert.NotEqual(t, a, b)
}

func TestFromSignatureConstMatters(t *testing.T) {
	a := FromSignature("foo", []TypeHash{INT32}, false)
	b := FromSignature("foo", []TypeHash{INT32}, true)
	assert.NotEqual(t, a, b)
}

func TestFromTemplateInstanceOrderSensitive(t *testing.T) {
	dict := FromName("dict")
	a := FromTemplateInstance(dict, []TypeHash{STRING, INT32})
	b := FromTemplateInstance(dict, []TypeHash{INT32, STRING})
	assert.NotEqual(t, a, b)
}

func TestFromTemplateInstanceDeterministic(t *testing.T) {
	arr := FromName("array")
	a := FromTemplateInstance(arr, []TypeHash{INT32})
	b := FromTemplateInstance(arr, []TypeHash{INT32})
	assert.Equal(t, a, b)
}
