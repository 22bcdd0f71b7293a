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

// Package runtime implements the value model and calling contract the
// (external, unimplemented) VM interpreter loop must honor: the Dynamic
// value discriminator, the generational ObjectHeap, StringFactory
// materialization, and the native call context.
//
// Grounded on original_source/crates/angelscript-core/src/runtime/
// (dynamic.rs, object_heap.rs, native_fn.rs).
package runtime

import "fmt"

// Kind tags a Dynamic's active variant.
type Kind int

const (
	KindVoid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindObject
	KindNative
	KindNullHandle
)

// Dynamic is the unified runtime value discriminator for every value a VM
// slot can hold. Unlike most of this codebase's value types, Dynamic is not
// universally cheap to copy: a Native payload may not be safely
// duplicable, so cloning goes through CloneIfPossible rather than a plain
// Go value copy (which would alias the interface{} payload without
// necessarily being semantically valid to treat as a second owner).
type Dynamic struct {
	kind   Kind
	i      int64
	f      float64
	b      bool
	s      string
	obj    ObjectHandle
	native interface{}
}

// Void is the void value.
func Void() Dynamic { return Dynamic{kind: KindVoid} }

// Int wraps an integer value (all integer widths are stored as int64).
func Int(v int64) Dynamic { return Dynamic{kind: KindInt, i: v} }

// Float wraps a floating-point value (both float and double are stored as
// float64).
func Float(v float64) Dynamic { return Dynamic{kind: KindFloat, f: v} }

// Bool wraps a boolean value.
func Bool(v bool) Dynamic { return Dynamic{kind: KindBool, b: v} }

// String wraps an owned string value.
func String(v string) Dynamic { return Dynamic{kind: KindString, s: v} }

// Object wraps a handle to a heap-allocated object.
func Object(h ObjectHandle) Dynamic { return Dynamic{kind: KindObject, obj: h} }

// Native wraps an opaque registered value whose identity the VM doesn't
// interpret.
func Native(v interface{}) Dynamic { return Dynamic{kind: KindNative, native: v} }

// NullHandle is the null handle value.
func NullHandle() Dynamic { return Dynamic{kind: KindNullHandle} }

// Kind reports this Dynamic's active variant.
func (d Dynamic) Kind() Kind { return d.kind }

// IsVoid reports whether d holds the void value.
func (d Dynamic) IsVoid() bool { return d.kind == KindVoid }

// IsNull reports whether d holds the null handle.
func (d Dynamic) IsNull() bool { return d.kind == KindNullHandle }

// AsInt returns the wrapped int, or (0, false) if d isn't a KindInt.
func (d Dynamic) AsInt() (int64, bool) {
	if d.kind != KindInt {
		return 0, false
	}
	return d.i, true
}

// AsFloat returns the wrapped float, or (0, false) if d isn't a KindFloat.
func (d Dynamic) AsFloat() (float64, bool) {
	if d.kind != KindFloat {
		return 0, false
	}
	return d.f, true
}

// AsBool returns the wrapped bool, or (false, false) if d isn't a KindBool.
func (d Dynamic) AsBool() (bool, bool) {
	if d.kind != KindBool {
		return false, false
	}
	return d.b, true
}

// AsString returns the wrapped string, or ("", false) if d isn't a
// KindString.
func (d Dynamic) AsString() (string, bool) {
	if d.kind != KindString {
		return "", false
	}
	return d.s, true
}

// AsObject returns the wrapped handle, or (zero, false) if d isn't a
// KindObject.
func (d Dynamic) AsObject() (ObjectHandle, bool) {
	if d.kind != KindObject {
		return ObjectHandle{}, false
	}
	return d.obj, true
}

// AsNative returns the wrapped opaque value, or (nil, false) if d isn't a
// KindNative.
func (d Dynamic) AsNative() (interface{}, bool) {
	if d.kind != KindNative {
		return nil, false
	}
	return d.native, true
}

// CloneIfPossible returns a copy of d, or (zero, false) for a KindNative
// value: opaque native values are not implicitly copyable, scripts must go
// through an explicit copy behavior instead.
func (d Dynamic) CloneIfPossible() (Dynamic, bool) {
	if d.kind == KindNative {
		return Dynamic{}, false
	}
	return d, true
}

// TypeName returns a human-readable name for d's variant, for diagnostics.
func (d Dynamic) TypeName() string {
	switch d.kind {
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindNative:
		return "native"
	case KindNullHandle:
		return "null"
	default:
		return "unknown"
	}
}

func (d Dynamic) String() string {
	switch d.kind {
	case KindVoid:
		return "void"
	case KindInt:
		return fmt.Sprintf("%d", d.i)
	case KindFloat:
		return fmt.Sprintf("%g", d.f)
	case KindBool:
		return fmt.Sprintf("%t", d.b)
	case KindString:
		return d.s
	case KindObject:
		return fmt.Sprintf("Object(%v)", d.obj)
	case KindNative:
		return "Native(...)"
	case KindNullHandle:
		return "null"
	default:
		return "unknown"
	}
}

// Equal reports value equality per the variant (Native values are never
// equal, even to themselves, mirroring the policy that opaque values
// aren't comparable).
func (d Dynamic) Equal(other Dynamic) bool {
	if d.kind != other.kind {
		return false
	}
	switch d.kind {
	case KindVoid, KindNullHandle:
		return true
	case KindInt:
		return d.i == other.i
	case KindFloat:
		return d.f == other.f
	case KindBool:
		return d.b == other.b
	case KindString:
		return d.s == other.s
	case KindObject:
		return d.obj == other.obj
	default:
		return false
	}
}
