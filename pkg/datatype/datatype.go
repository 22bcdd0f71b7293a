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

// Package datatype defines DataType, a cheap-to-copy type reference with
// const/handle/reference modifiers used throughout the registry, conversion
// lattice, and compiler.
package datatype

import "github.com/kraklabs/angelgo/pkg/typehash"

// RefModifier describes how a reference parameter is passed.
type RefModifier int

const (
	RefNone RefModifier = iota
	RefIn
	RefOut
	RefInOut
)

// DataType is a value-semantics type reference: the underlying TypeHash plus
// modifiers. Two DataTypes are equal iff all fields compare equal (ordinary
// struct equality: a DataType is cheap enough to copy and compare by value).
type DataType struct {
	TypeHash        typehash.TypeHash
	IsConst         bool
	IsHandle        bool
	IsHandleToConst bool
	IsReference     bool
	RefMod          RefModifier
	IsEnum          bool
}

// Simple creates a plain value DataType for the given type hash.
func Simple(h typehash.TypeHash) DataType {
	return DataType{TypeHash: h}
}

// Void returns the void DataType.
func Void() DataType {
	return Simple(typehash.VOID)
}

// NullLiteral returns the DataType of the `null` literal: a reserved
// sentinel hash only usable as the source of a null-to-handle conversion.
func NullLiteral() DataType {
	return DataType{TypeHash: typehash.NULL, IsHandle: true}
}

// AsHandle returns a copy of d as a (non-const) handle to the same type.
func (d DataType) AsHandle() DataType {
	d.IsHandle = true
	d.IsHandleToConst = false
	return d
}

// AsHandleToConst returns a copy of d as a handle-to-const of the same type.
func (d DataType) AsHandleToConst() DataType {
	d.IsHandle = true
	d.IsHandleToConst = true
	return d
}

// AsConst returns a copy of d with IsConst set.
func (d DataType) AsConst() DataType {
	d.IsConst = true
	return d
}

// AsReference returns a copy of d marked as a reference with the given
// modifier.
func (d DataType) AsReference(mod RefModifier) DataType {
	d.IsReference = true
	d.RefMod = mod
	return d
}

// IsVoid reports whether d is the void type.
func (d DataType) IsVoid() bool {
	return d.TypeHash == typehash.VOID && !d.IsHandle
}

// IsNull reports whether d is the null-literal sentinel.
func (d DataType) IsNull() bool {
	return d.TypeHash == typehash.NULL
}

// SignatureHash folds the reference/handle modifiers into the type hash so
// that two parameters differing only in &in vs &out vs &inout (for example)
// produce different signature contributions.
func (d DataType) SignatureHash() typehash.TypeHash {
	mod := "v"
	switch {
	case d.IsHandleToConst:
		mod = "H"
	case d.IsHandle:
		mod = "h"
	case d.IsReference:
		switch d.RefMod {
		case RefIn:
			mod = "i"
		case RefOut:
			mod = "o"
		case RefInOut:
			mod = "b"
		default:
			mod = "r"
		}
	}
	if d.IsConst {
		mod += "c"
	}
	return typehash.FromSignature(mod, []typehash.TypeHash{d.TypeHash}, d.IsConst)
}
