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
	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

// numericRank describes a primitive numeric type's family and width, used
// to decide widening vs. narrowing. Grounded on spec.md section 4.2's
// "primitive (widening vs narrowing table over the 12 numeric kinds +
// bool)" directive.
type numericRank struct {
	isFloat bool
	width   int
}

var ranks = map[typehash.TypeHash]numericRank{
	typehash.INT8:   {false, 1},
	typehash.UINT8:  {false, 1},
	typehash.INT16:  {false, 2},
	typehash.UINT16: {false, 2},
	typehash.INT32:  {false, 4},
	typehash.UINT32: {false, 4},
	typehash.INT64:  {false, 8},
	typehash.UINT64: {false, 8},
	typehash.FLOAT:  {true, 4},
	typehash.DOUBLE: {true, 8},
}

func isNumeric(h typehash.TypeHash) bool {
	_, ok := ranks[h]
	return ok
}

// findPrimitiveConversion handles numeric widening/narrowing and enum<->int
// normalization (enums normalize to int32 per spec.md section 4.5).
func findPrimitiveConversion(source, target datatype.DataType, h Hierarchy) (Conversion, bool) {
	if source.IsHandle || target.IsHandle {
		return Conversion{}, false
	}

	sourceIsEnum := source.IsEnum || (h != nil && h.IsEnum(source.TypeHash))
	targetIsEnum := target.IsEnum || (h != nil && h.IsEnum(target.TypeHash))

	switch {
	case sourceIsEnum && target.TypeHash == typehash.INT32 && !targetIsEnum:
		return Conversion{Kind: EnumToInt, Cost: CostExact, IsImplicit: true}, true
	case targetIsEnum && source.TypeHash == typehash.INT32 && !sourceIsEnum:
		return Conversion{Kind: IntToEnum, Cost: CostExact, IsImplicit: false, Via: target.TypeHash}, true
	case sourceIsEnum || targetIsEnum:
		return Conversion{}, false
	}

	if source.TypeHash == typehash.BOOL || target.TypeHash == typehash.BOOL {
		if source.TypeHash == target.TypeHash {
			return Conversion{}, false // identity already handled
		}
		return Conversion{Kind: Primitive, Cost: CostExplicitOnly, IsImplicit: false}, true
	}

	sourceRank, sourceOK := ranks[source.TypeHash]
	targetRank, targetOK := ranks[target.TypeHash]
	if !sourceOK || !targetOK {
		return Conversion{}, false
	}
	if source.TypeHash == target.TypeHash {
		return Conversion{}, false // identity already handled
	}

	if widens(sourceRank, targetRank) {
		return Conversion{Kind: Primitive, Cost: CostPrimitiveWidening, IsImplicit: true}, true
	}
	return Conversion{Kind: Primitive, Cost: CostPrimitiveNarrowing, IsImplicit: false}, true
}

// widens reports whether converting from a source rank to a target rank
// never loses information: same family with a larger-or-equal width, or
// any integer to any floating-point type.
func widens(source, target numericRank) bool {
	if source.isFloat == target.isFloat {
		return target.width >= source.width
	}
	return !source.isFloat && target.isFloat
}
