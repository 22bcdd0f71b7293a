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

// Package conv implements the conversion lattice used for overload
// resolution, assignment/initialization legality, and explicit casts.
//
// Grounded on original_source/crates/angelscript-compiler/src/conversion.rs
// and .../conversion/handle.rs: the cost constants and conversion-kind
// variants below are a direct transcription of that source (which itself
// mirrors spec.md section 4.2's cost table), adapted to Go idiom (a closed
// Kind enum plus a Hierarchy interface for the lookups that need registry
// knowledge instead of Rust trait objects).
package conv

import (
	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

// Kind identifies the category of a Conversion.
type Kind int

const (
	Identity Kind = iota
	Primitive
	NullToHandle
	HandleToConst
	DerivedToBase
	ClassToInterface
	ConstructorConversion
	ImplicitConvMethod
	ExplicitCastMethod
	ValueToHandle
	EnumToInt
	IntToEnum
)

// Cost constants, exactly as spec.md section 4.2 and the Rust source.
const (
	CostExact             uint32 = 0
	CostConstAddition     uint32 = 1
	CostPrimitiveWidening  uint32 = 2
	CostPrimitiveNarrowing uint32 = 4
	CostDerivedToBase      uint32 = 5
	CostClassToInterface   uint32 = 6
	CostUserImplicit       uint32 = 10
	CostExplicitOnly       uint32 = 100
)

// Conversion describes how to get from a source DataType to a target
// DataType, and at what overload-resolution cost.
type Conversion struct {
	Kind       Kind
	Cost       uint32
	IsImplicit bool
	// Via carries the auxiliary type hash relevant to the conversion kind
	// (the base class for DerivedToBase, the interface for
	// ClassToInterface, the constructor/opImplConv/opCast method for the
	// user-defined kinds, the enum type for IntToEnum). Zero value (0) for
	// kinds that don't need one (Identity, Primitive, handle conversions).
	Via typehash.TypeHash
}

// IsExact reports whether this is a no-op identity conversion.
func (c Conversion) IsExact() bool {
	return c.Kind == Identity
}

func identity() Conversion {
	return Conversion{Kind: Identity, Cost: CostExact, IsImplicit: true}
}

// CastKind distinguishes implicit-context lookups (assignment, argument
// matching) from explicit-context lookups (`cast<T>(x)`).
type CastKind int

const (
	ImplicitCast CastKind = iota
	ExplicitCast
)

// Hierarchy supplies the registry-dependent facts the lattice needs: base
// class chains, interface implementation, enum-ness, and user-defined
// conversion lookups. Implemented by an adapter over *registry.Registry so
// this package never imports registry (avoiding an import cycle, since
// overload resolution consuming this package lives in the compiler, which
// sits above both).
type Hierarchy interface {
	// BaseOf returns the direct base class of h, if any.
	BaseOf(h typehash.TypeHash) (typehash.TypeHash, bool)
	// Implements reports whether class implements interface (directly or
	// via an ancestor).
	Implements(class, iface typehash.TypeHash) bool
	// IsEnum reports whether h names an enum type.
	IsEnum(h typehash.TypeHash) bool
	// FindConstructor finds a single-argument constructor on target
	// accepting a value convertible from source's underlying type.
	FindConstructor(target typehash.TypeHash, source typehash.TypeHash) (typehash.TypeHash, bool)
	// FindImplicitConvMethod finds an opImplConv method on source
	// producing target.
	FindImplicitConvMethod(source, target typehash.TypeHash) (typehash.TypeHash, bool)
	// FindExplicitCastMethod finds an opCast method on source producing
	// target.
	FindExplicitCastMethod(source, target typehash.TypeHash) (typehash.TypeHash, bool)
}

// Find looks up a conversion from source to target DataTypes. kind selects
// whether explicit-only conversions (casts) are eligible. Returns (zero,
// false) if no conversion exists. h may be nil, in which case only
// identity, handle, and primitive conversions are attempted (no hierarchy
// or user-defined lookups) — useful for tests that don't need a registry.
func Find(source, target datatype.DataType, kind CastKind, h Hierarchy) (Conversion, bool) {
	if c, ok := findIdentity(source, target); ok {
		return c, eligible(c, kind)
	}
	if c, ok := findHandleConversion(source, target); ok {
		return c, eligible(c, kind)
	}
	if h != nil {
		if c, ok := findHierarchyConversion(source, target, h); ok {
			return c, eligible(c, kind)
		}
	}
	if c, ok := findPrimitiveConversion(source, target, h); ok {
		return c, eligible(c, kind)
	}
	if h != nil {
		if c, ok := findUserDefinedConversion(source, target, h); ok {
			return c, eligible(c, kind)
		}
	}
	return Conversion{}, false
}

func eligible(c Conversion, kind CastKind) bool {
	if kind == ExplicitCast {
		return true // any conversion found is eligible in an explicit context
	}
	return c.IsImplicit
}

func findIdentity(source, target datatype.DataType) (Conversion, bool) {
	if source == target {
		return identity(), true
	}
	// Same underlying type, target merely adds const to a value (not a
	// handle) is still treated as identity-cost-equivalent const addition,
	// handled below as a dedicated case so cost isn't zero when const is
	// actually being added.
	if source.TypeHash == target.TypeHash && !source.IsHandle && !target.IsHandle &&
		source.IsReference == target.IsReference && source.RefMod == target.RefMod {
		if !source.IsConst && target.IsConst {
			return Conversion{Kind: Identity, Cost: CostConstAddition, IsImplicit: true}, true
		}
		if source.IsConst && !target.IsConst {
			return Conversion{}, false
		}
	}
	return Conversion{}, false
}

// findHandleConversion implements spec.md's handle-conversion rules:
// null-to-handle, handle-to-const, and value-to-handle (explicit only).
// Grounded verbatim on original_source's conversion/handle.rs.
func findHandleConversion(source, target datatype.DataType) (Conversion, bool) {
	if source.IsNull() && target.IsHandle {
		return Conversion{Kind: NullToHandle, Cost: CostConstAddition, IsImplicit: true}, true
	}
	if source.TypeHash == target.TypeHash && source.IsHandle && target.IsHandle &&
		!source.IsHandleToConst && target.IsHandleToConst {
		return Conversion{Kind: HandleToConst, Cost: CostConstAddition, IsImplicit: true}, true
	}
	if !source.IsHandle && target.IsHandle && source.TypeHash == target.TypeHash {
		return Conversion{Kind: ValueToHandle, Cost: CostExplicitOnly, IsImplicit: false}, true
	}
	return Conversion{}, false
}

func findHierarchyConversion(source, target datatype.DataType, h Hierarchy) (Conversion, bool) {
	if source.IsHandle != target.IsHandle {
		return Conversion{}, false
	}
	if target.IsHandle && source.IsHandleToConst && !target.IsHandleToConst {
		return Conversion{}, false
	}
	// Walk the base chain looking for target.
	cur := source.TypeHash
	for {
		base, ok := h.BaseOf(cur)
		if !ok {
			break
		}
		if base == target.TypeHash {
			return Conversion{Kind: DerivedToBase, Cost: CostDerivedToBase, IsImplicit: true, Via: base}, true
		}
		cur = base
	}
	if h.Implements(source.TypeHash, target.TypeHash) {
		return Conversion{Kind: ClassToInterface, Cost: CostClassToInterface, IsImplicit: true, Via: target.TypeHash}, true
	}
	return Conversion{}, false
}

func findUserDefinedConversion(source, target datatype.DataType, h Hierarchy) (Conversion, bool) {
	if ctor, ok := h.FindConstructor(target.TypeHash, source.TypeHash); ok {
		return Conversion{Kind: ConstructorConversion, Cost: CostUserImplicit, IsImplicit: true, Via: ctor}, true
	}
	if m, ok := h.FindImplicitConvMethod(source.TypeHash, target.TypeHash); ok {
		return Conversion{Kind: ImplicitConvMethod, Cost: CostUserImplicit, IsImplicit: true, Via: m}, true
	}
	if m, ok := h.FindExplicitCastMethod(source.TypeHash, target.TypeHash); ok {
		return Conversion{Kind: ExplicitCastMethod, Cost: CostExplicitOnly, IsImplicit: false, Via: m}, true
	}
	return Conversion{}, false
}
