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

import "github.com/kraklabs/angelgo/pkg/ast"

// ConstValue is the result of constant evaluation: used for global
// initializers, array sizes, switch case labels, and (here) enum values.
// Only the Int variant is populated by evalConstInt; a fuller evaluator
// supporting float/bool/string constants belongs to pass2b's expression
// type-checker, which also handles non-constant expressions.
type ConstValue struct {
	Int int64
}

// evalConstInt evaluates a restricted integer-constant expression: integer
// literals, named references to previously evaluated constants (named by
// prevValues, used for enum members referencing an earlier member of the
// same enum), and the four arithmetic binary operators and unary minus.
// Anything else fails, since full constant folding (including user-defined
// opCast and floating point) is pass2b's job once types are resolved.
func evalConstInt(e ast.Expr, prevValues map[string]int64) (int64, bool) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return n.Value, true
	case *ast.NameExpr:
		v, ok := prevValues[n.Name]
		return v, ok
	case *ast.UnaryExpr:
		v, ok := evalConstInt(n.Operand, prevValues)
		if !ok {
			return 0, false
		}
		switch n.Op {
		case "-":
			return -v, true
		case "+":
			return v, true
		}
		return 0, false
	case *ast.BinaryExpr:
		l, ok := evalConstInt(n.Left, prevValues)
		if !ok {
			return 0, false
		}
		r, ok := evalConstInt(n.Right, prevValues)
		if !ok {
			return 0, false
		}
		switch n.Op {
		case "+":
			return l + r, true
		case "-":
			return l - r, true
		case "*":
			return l * r, true
		case "/":
			if r == 0 {
				return 0, false
			}
			return l / r, true
		}
		return 0, false
	default:
		return 0, false
	}
}
