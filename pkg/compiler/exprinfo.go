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
	"github.com/kraklabs/angelgo/pkg/bytecode"
	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

// exprInfo is the result of type-checking one expression node, per spec.md
// section 4.5 item 2's `ExprInfo = { DataType, is_lvalue, is_constant }`.
type exprInfo struct {
	Type       datatype.DataType
	IsLValue   bool
	IsConstant bool
}

// widthOf maps a primitive type hash to the bytecode operand width its
// arithmetic/comparison opcodes should carry. Non-primitive types (classes,
// enums normalized to int32 by the caller before reaching here) have no
// arithmetic width of their own.
func widthOf(h typehash.TypeHash) bytecode.Width {
	switch h {
	case typehash.INT8, typehash.UINT8:
		return bytecode.Width8
	case typehash.INT16, typehash.UINT16:
		return bytecode.Width16
	case typehash.INT32, typehash.UINT32, typehash.BOOL:
		return bytecode.Width32
	case typehash.INT64, typehash.UINT64:
		return bytecode.Width64
	case typehash.FLOAT:
		return bytecode.WidthFloat32
	case typehash.DOUBLE:
		return bytecode.WidthFloat64
	default:
		return bytecode.WidthNone
	}
}

func isIntegerPrimitive(h typehash.TypeHash) bool {
	switch h {
	case typehash.INT8, typehash.INT16, typehash.INT32, typehash.INT64,
		typehash.UINT8, typehash.UINT16, typehash.UINT32, typehash.UINT64, typehash.BOOL:
		return true
	}
	return false
}

func isFloatPrimitive(h typehash.TypeHash) bool {
	return h == typehash.FLOAT || h == typehash.DOUBLE
}

func isNumericPrimitive(h typehash.TypeHash) bool {
	return isIntegerPrimitive(h) || isFloatPrimitive(h)
}
