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

// Package typehash provides a stable 64-bit identity for every type and
// function signature in the registry. Two distinct types never share a hash
// within a single process, and the same inputs always produce the same
// hash across processes (no process-local salt, no pointer addresses).
package typehash

import "hash/fnv"

// TypeHash is an opaque, stable identity for a type or signature.
type TypeHash uint64

// Primitive hashes are fixed, hard-coded constants distinct from one
// another and from anything FromName/FromSignature/FromTemplateInstance can
// produce (those are domain-separated by a tag byte before hashing, so they
// land outside this small reserved range for all practical purposes).
const (
	VOID TypeHash = iota + 1
	BOOL
	INT8
	INT16
	INT32
	INT64
	UINT8
	UINT16
	UINT32
	UINT64
	FLOAT
	DOUBLE
	STRING
	NULL
)

// domain tags separate the hash input spaces of FromName, FromSignature, and
// FromTemplateInstance from one another and from the primitive range.
const (
	tagName byte = iota + 1
	tagSignature
	tagTemplate
)

func fnv64a(seed TypeHash, tag byte, parts ...[]byte) TypeHash {
	h := fnv.New64a()
	// Mix in the seed so chained calls (e.g. signature hashing over
	// already-hashed param types) don't just reduce to FromName's output.
	var seedBytes [8]byte
	for i := 0; i < 8; i++ {
		seedBytes[i] = byte(seed >> (8 * i))
	}
	_, _ = h.Write(seedBytes[:])
	_, _ = h.Write([]byte{tag})
	for _, p := range parts {
		_, _ = h.Write(p)
		_, _ = h.Write([]byte{0}) // separator so "ab","c" != "a","bc"
	}
	return TypeHash(h.Sum64())
}

// FromName produces a stable hash of a qualified type name (e.g.
// "Game::Entities::Player").
func FromName(qualified string) TypeHash {
	return fnv64a(0, tagName, []byte(qualified))
}

// FromSignature produces a stable hash for a function signature, used for
// override matching and overload identity. The hash depends on the
// function name, the ordered parameter-signature hashes, and const-ness.
func FromSignature(name string, paramSigs []TypeHash, isConst bool) TypeHash {
	constByte := byte(0)
	if isConst {
		constByte = 1
	}
	parts := make([][]byte, 0, len(paramSigs)+2)
	parts = append(parts, []byte(name))
	for _, p := range paramSigs {
		parts = append(parts, encodeHash(p))
	}
	parts = append(parts, []byte{constByte})
	return fnv64a(0, tagSignature, parts...)
}

// FromTemplateInstance produces a stable, order-sensitive hash for a
// template instantiated with concrete type arguments, e.g. array<int32>.
func FromTemplateInstance(template TypeHash, args []TypeHash) TypeHash {
	parts := make([][]byte, 0, len(args)+1)
	parts = append(parts, encodeHash(template))
	for _, a := range args {
		parts = append(parts, encodeHash(a))
	}
	return fnv64a(0, tagTemplate, parts...)
}

func encodeHash(h TypeHash) []byte {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (8 * i))
	}
	return b[:]
}
