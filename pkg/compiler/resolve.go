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
	"fmt"

	"github.com/kraklabs/angelgo/pkg/ast"
	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/ffi"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

// resolveTypeExpr resolves a parsed (but not yet type-checked) TypeExpr
// against the registry, instantiating templates as needed. Shared by
// pass2a (field/signature resolution) and pass2b (local variable
// declarations, cast targets).
func (c *Compiler) resolveTypeExpr(te ast.TypeExpr) (datatype.DataType, error) {
	if te.Name == "" {
		return datatype.Void(), nil
	}

	if te.IsArray {
		inner := te
		inner.IsArray = false
		innerType, err := c.resolveTypeExpr(inner)
		if err != nil {
			return datatype.DataType{}, err
		}
		arrayEntry, ok := c.reg.GetTypeByName("array")
		if !ok {
			return datatype.DataType{}, fmt.Errorf("compiler: %q[] used before the array template is registered", te.Name)
		}
		instance, err := c.tmpl.Instantiate("array", arrayEntry.Hash(), []datatype.DataType{innerType})
		if err != nil {
			return datatype.DataType{}, err
		}
		result := datatype.Simple(instance)
		return c.applyModifiers(result, te), nil
	}

	var hash typehash.TypeHash
	if h, ok := ffi.PrimitiveHash(te.Name); ok {
		hash = h
	} else {
		entry, ok := c.reg.GetTypeByName(te.Name)
		if !ok {
			return datatype.DataType{}, fmt.Errorf("compiler: unknown type %q", te.Name)
		}
		if len(te.TemplateArgs) > 0 {
			args := make([]datatype.DataType, len(te.TemplateArgs))
			for i, a := range te.TemplateArgs {
				dt, err := c.resolveTypeExpr(a)
				if err != nil {
					return datatype.DataType{}, err
				}
				args[i] = dt
			}
			instance, err := c.tmpl.Instantiate(te.Name, entry.Hash(), args)
			if err != nil {
				return datatype.DataType{}, err
			}
			hash = instance
		} else {
			hash = entry.Hash()
		}
	}

	result := datatype.Simple(hash)
	if e, ok := c.reg.GetType(hash); ok {
		result.IsEnum = e.Kind() == registry.KindEnum
	}
	return c.applyModifiers(result, te), nil
}

func (c *Compiler) applyModifiers(dt datatype.DataType, te ast.TypeExpr) datatype.DataType {
	dt.IsConst = te.IsConst
	if te.IsHandle {
		if te.IsConst {
			dt = dt.AsHandleToConst()
		} else {
			dt = dt.AsHandle()
		}
	}
	switch te.RefModifier {
	case "in":
		dt = dt.AsReference(datatype.RefIn)
	case "out":
		dt = dt.AsReference(datatype.RefOut)
	case "inout":
		dt = dt.AsReference(datatype.RefInOut)
	}
	return dt
}
