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

import "github.com/kraklabs/angelgo/pkg/typehash"

// RecordCall adds one edge to the call graph: caller calls callee. Populated
// by the compiler as it resolves call expressions in pass 2b.
//
// Grounded on the teacher's CallResolver (pkg/ingestion/resolver.go), which
// builds an analogous caller->callee index for cross-package Go calls;
// here the registry is already unified and namespace-qualified so no
// import-alias indirection is needed to land an edge.
func (r *Registry) RecordCall(caller, callee typehash.TypeHash) {
	for _, existing := range r.callees[caller] {
		if existing == callee {
			return
		}
	}
	r.callees[caller] = append(r.callees[caller], callee)
	r.callers[callee] = append(r.callers[callee], caller)
}

// CallersOf returns every function known to call fn.
func (r *Registry) CallersOf(fn typehash.TypeHash) []typehash.TypeHash {
	return r.callers[fn]
}

// CalleesOf returns every function fn is known to call.
func (r *Registry) CalleesOf(fn typehash.TypeHash) []typehash.TypeHash {
	return r.callees[fn]
}
