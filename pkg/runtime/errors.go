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

import "fmt"

// ConversionErrorKind enumerates the ways converting a Dynamic to a native
// Go value can fail, mirrored from original_source/src/ffi/error.rs's
// ConversionError enum.
type ConversionErrorKind int

const (
	ConversionTypeMismatch ConversionErrorKind = iota
	ConversionNullHandle
	ConversionIntegerOverflow
	ConversionFloatConversion
	ConversionInvalidUTF8
	ConversionFailed
)

// ConversionError reports a failed Dynamic-to-native (or native-to-Dynamic)
// conversion.
type ConversionError struct {
	Kind     ConversionErrorKind
	Expected string
	Got      string
	Detail   string
}

func (e *ConversionError) Error() string {
	switch e.Kind {
	case ConversionTypeMismatch:
		return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
	case ConversionNullHandle:
		return "conversion from a null handle"
	case ConversionIntegerOverflow:
		return fmt.Sprintf("integer overflow converting to %s", e.Expected)
	case ConversionFloatConversion:
		return fmt.Sprintf("float conversion failure: %s", e.Detail)
	case ConversionInvalidUTF8:
		return "invalid UTF-8 in string conversion"
	default:
		if e.Detail != "" {
			return fmt.Sprintf("conversion failed: %s", e.Detail)
		}
		return "conversion failed"
	}
}

// NativeErrorKind enumerates the ways a native call can fail, mirrored
// from original_source/src/ffi/error.rs's NativeError enum.
type NativeErrorKind int

const (
	NativeConversion NativeErrorKind = iota
	NativeInvalidThis
	NativeArgumentIndexOutOfBounds
	NativeThisTypeMismatch
	NativeStaleHandle
	NativePanic
	NativeOther
)

// NativeError is the error a NativeFn reports back to the VM through
// CallContext.Fail, or that a conversion helper surfaces.
type NativeError struct {
	Kind  NativeErrorKind
	Index int // valid for NativeArgumentIndexOutOfBounds
	Cause error
	Msg   string
}

func (e *NativeError) Error() string {
	switch e.Kind {
	case NativeConversion:
		if e.Cause != nil {
			return fmt.Sprintf("argument conversion failed: %v", e.Cause)
		}
		return "argument conversion failed"
	case NativeInvalidThis:
		return "native call on an invalid (null or freed) this handle"
	case NativeArgumentIndexOutOfBounds:
		return fmt.Sprintf("argument index %d out of bounds", e.Index)
	case NativeThisTypeMismatch:
		return "this handle's type does not match the bound method's receiver"
	case NativeStaleHandle:
		return "handle refers to a freed or reallocated heap slot"
	case NativePanic:
		return fmt.Sprintf("native function panicked: %s", e.Msg)
	default:
		if e.Msg != "" {
			return e.Msg
		}
		return "native call failed"
	}
}

func (e *NativeError) Unwrap() error { return e.Cause }
