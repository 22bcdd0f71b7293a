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

package registry

import (
	"github.com/kraklabs/angelgo/pkg/typehash"
)

// Hierarchy adapts a *Registry to pkg/conv.Hierarchy, supplying the
// base-class, interface-implementation, enum, and user-defined-conversion
// facts the conversion lattice needs without pkg/conv importing this
// package (which would cycle, since the compiler sitting above both wants
// to compose them).
type Hierarchy struct {
	Reg *Registry
}

// BaseOf returns the direct base class of h, if any.
func (adapter Hierarchy) BaseOf(h typehash.TypeHash) (typehash.TypeHash, bool) {
	e, ok := adapter.Reg.GetType(h)
	if !ok {
		return 0, false
	}
	class, ok := e.(*ClassEntry)
	if !ok || !class.HasBase {
		return 0, false
	}
	return class.Base, true
}

// Implements reports whether class implements iface, directly or via an
// ancestor's declared interface list.
func (adapter Hierarchy) Implements(class, iface typehash.TypeHash) bool {
	cur := class
	for {
		e, ok := adapter.Reg.GetType(cur)
		if !ok {
			return false
		}
		c, ok := e.(*ClassEntry)
		if !ok {
			return false
		}
		for _, i := range c.Interfaces {
			if i == iface {
				return true
			}
		}
		if !c.HasBase {
			return false
		}
		cur = c.Base
	}
}

// IsEnum reports whether h names an enum type.
func (adapter Hierarchy) IsEnum(h typehash.TypeHash) bool {
	e, ok := adapter.Reg.GetType(h)
	if !ok {
		return false
	}
	return e.Kind() == KindEnum
}

// FindConstructor finds a single-argument constructor on target accepting
// source.
func (adapter Hierarchy) FindConstructor(target, source typehash.TypeHash) (typehash.TypeHash, bool) {
	e, ok := adapter.Reg.GetType(target)
	if !ok {
		return 0, false
	}
	class, ok := e.(*ClassEntry)
	if !ok {
		return 0, false
	}
	for _, ctorHash := range class.Behave.Construct {
		fn, ok := adapter.Reg.GetFunction(ctorHash)
		if !ok || len(fn.Def.Params) != 1 {
			continue
		}
		if fn.Def.Params[0].Type.TypeHash == source {
			return ctorHash, true
		}
	}
	return 0, false
}

// FindImplicitConvMethod finds an opImplConv method on source producing
// target.
func (adapter Hierarchy) FindImplicitConvMethod(source, target typehash.TypeHash) (typehash.TypeHash, bool) {
	return adapter.findConvMethod(source, target, "opImplConv")
}

// FindExplicitCastMethod finds an opCast method on source producing
// target.
func (adapter Hierarchy) FindExplicitCastMethod(source, target typehash.TypeHash) (typehash.TypeHash, bool) {
	return adapter.findConvMethod(source, target, "opCast")
}

func (adapter Hierarchy) findConvMethod(source, target typehash.TypeHash, behaviorName string) (typehash.TypeHash, bool) {
	e, ok := adapter.Reg.GetType(source)
	if !ok {
		return 0, false
	}
	class, ok := e.(*ClassEntry)
	if !ok {
		return 0, false
	}
	for _, mhash := range class.Behave.Operators[behaviorName] {
		fn, ok := adapter.Reg.GetFunction(mhash)
		if !ok {
			continue
		}
		if fn.Def.ReturnType.TypeHash == target {
			return mhash, true
		}
	}
	return 0, false
}
