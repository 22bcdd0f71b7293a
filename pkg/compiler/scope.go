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

import "github.com/kraklabs/angelgo/pkg/datatype"

// Local describes one declared local variable.
type Local struct {
	Name           string
	Type           datatype.DataType
	Slot           int
	Mutable        bool
	LifetimeStarted bool
}

// LocalScope tracks local variables during function-body compilation: a
// stack of name->Local maps supporting nested block scopes and shadowing
// (an inner declaration rebinds a name; the outer binding reappears when
// the inner block pops). Grounded on
// original_source/crates/angelscript-compiler/src/scope.rs's module
// contract (stack-slot allocation, nested block scopes, shadow-and-restore,
// lambda capture); the Rust source itself carries no body in the retrieved
// pack, so the map-stack implementation below is original to this port.
type LocalScope struct {
	frames   []map[string]*Local
	nextSlot int
}

// NewLocalScope creates a scope with its outermost frame (function
// parameters live here at depth 0).
func NewLocalScope() *LocalScope {
	return &LocalScope{frames: []map[string]*Local{{}}}
}

// Push opens a nested block scope.
func (s *LocalScope) Push() {
	s.frames = append(s.frames, map[string]*Local{})
}

// Pop closes the innermost block scope, discarding its locals (and any
// shadow they introduced — the next Lookup for a shadowed name again finds
// the outer binding).
func (s *LocalScope) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth returns the current nesting depth (1 at function entry).
func (s *LocalScope) Depth() int {
	return len(s.frames)
}

// Declare introduces a new local in the innermost frame, allocating the
// next stack slot. Returns the created Local; callers check for an existing
// same-name binding in the innermost frame themselves if shadow-within-the
// -same-block should be rejected (spec.md permits shadowing only across
// block boundaries, not within one).
func (s *LocalScope) Declare(name string, ty datatype.DataType, mutable bool) *Local {
	l := &Local{Name: name, Type: ty, Slot: s.nextSlot, Mutable: mutable}
	s.nextSlot++
	s.frames[len(s.frames)-1][name] = l
	return l
}

// DeclaredInInnermost reports whether name is already bound in the
// innermost frame (used to reject redeclaration within the same block,
// as opposed to legal shadowing of an outer block's binding).
func (s *LocalScope) DeclaredInInnermost(name string) bool {
	_, ok := s.frames[len(s.frames)-1][name]
	return ok
}

// Lookup finds name starting from the innermost frame outward, returning
// the nearest (possibly shadowing) binding.
func (s *LocalScope) Lookup(name string) (*Local, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if l, ok := s.frames[i][name]; ok {
			return l, true
		}
	}
	return nil, false
}

// MarkLifetimeStarted records that a local's initializer has run, so later
// reads of its own declaration (pathological self-reference) can be
// rejected if the caller chooses to check it.
func (s *LocalScope) MarkLifetimeStarted(name string) {
	if l, ok := s.Lookup(name); ok {
		l.LifetimeStarted = true
	}
}

// DeclareTemp allocates a stack slot for compiler-internal bookkeeping (for
// example, caching a field assignment's receiver across a read-then-write)
// without binding it to any name, so it is never visible to Lookup and can't
// collide with a script-declared local.
func (s *LocalScope) DeclareTemp(ty datatype.DataType) *Local {
	l := &Local{Type: ty, Slot: s.nextSlot, Mutable: true, LifetimeStarted: true}
	s.nextSlot++
	return l
}

// SlotCount returns the total number of stack slots allocated across the
// scope's lifetime (locals from popped blocks still occupy a slot — the
// function's locals table is sized for the high-water mark, not live
// count, matching a single flat locals array in the compiled output).
func (s *LocalScope) SlotCount() int {
	return s.nextSlot
}
