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

// Package compiler implements the three-pass compiler: pass 1 (registration)
// creates partially-populated registry entries for every top-level item;
// pass 2a resolves types, builds v-tables/i-tables, and checks interface
// implementation; pass 2b type-checks and emits bytecode for function
// bodies. Grounded on spec.md section 4.3-4.5 and
// original_source/crates/angelscript-compiler/src/{scope,emit/jumps}.rs.
package compiler

import (
	"fmt"

	"github.com/kraklabs/angelgo/pkg/span"
)

// CompilationErrorKind tags a CompilationError's failure mode, per spec.md
// section 7's CompilationError family.
type CompilationErrorKind int

const (
	DuplicateSymbol CompilationErrorKind = iota
	UnknownType
	UnknownName
	TypeMismatch
	AmbiguousCall
	NoMatchingOverload
	NotAnLValue
	BreakOutsideLoop
	MissingReturn
	CyclicInheritance
	AmbiguousBase
	InterfaceNotImplemented
	MissingInterfaceMethod
	IllegalOverride
	TemplateValidationFailed
	UnreachableCode
	Other
)

// String returns the error kind's symbolic name, e.g. for use as a metrics
// label.
func (k CompilationErrorKind) String() string {
	switch k {
	case DuplicateSymbol:
		return "duplicate_symbol"
	case UnknownType:
		return "unknown_type"
	case UnknownName:
		return "unknown_name"
	case TypeMismatch:
		return "type_mismatch"
	case AmbiguousCall:
		return "ambiguous_call"
	case NoMatchingOverload:
		return "no_matching_overload"
	case NotAnLValue:
		return "not_an_lvalue"
	case BreakOutsideLoop:
		return "break_outside_loop"
	case MissingReturn:
		return "missing_return"
	case CyclicInheritance:
		return "cyclic_inheritance"
	case AmbiguousBase:
		return "ambiguous_base"
	case InterfaceNotImplemented:
		return "interface_not_implemented"
	case MissingInterfaceMethod:
		return "missing_interface_method"
	case IllegalOverride:
		return "illegal_override"
	case TemplateValidationFailed:
		return "template_validation_failed"
	case UnreachableCode:
		return "unreachable_code"
	default:
		return "other"
	}
}

// CompilationError reports one failure found during compilation. Span2 is
// used only when HasSpan2 is set. No compiler pass sets it: pass1's
// DuplicateSymbol errors carry only the span of the rejected declaration,
// not that of the original one.
type CompilationError struct {
	Kind    CompilationErrorKind
	Span    span.Span
	Span2   span.Span
	HasSpan2 bool
	Name    string
	Detail  string
}

func (e *CompilationError) Error() string {
	loc := e.Span.String()
	if e.HasSpan2 {
		loc = fmt.Sprintf("%s, %s", e.Span, e.Span2)
	}
	switch e.Kind {
	case DuplicateSymbol:
		return fmt.Sprintf("%s: duplicate symbol %q", loc, e.Name)
	case UnknownType:
		return fmt.Sprintf("%s: unknown type %q", loc, e.Name)
	case UnknownName:
		return fmt.Sprintf("%s: unknown name %q", loc, e.Name)
	case TypeMismatch:
		return fmt.Sprintf("%s: type mismatch: %s", loc, e.Detail)
	case AmbiguousCall:
		return fmt.Sprintf("%s: ambiguous call to %q: %s", loc, e.Name, e.Detail)
	case NoMatchingOverload:
		return fmt.Sprintf("%s: no matching overload for %q: %s", loc, e.Name, e.Detail)
	case NotAnLValue:
		return fmt.Sprintf("%s: not an lvalue: %s", loc, e.Detail)
	case BreakOutsideLoop:
		return fmt.Sprintf("%s: break/continue outside a loop", loc)
	case MissingReturn:
		return fmt.Sprintf("%s: missing return in %q", loc, e.Name)
	case CyclicInheritance:
		return fmt.Sprintf("%s: cyclic inheritance involving %q", loc, e.Name)
	case AmbiguousBase:
		return fmt.Sprintf("%s: ambiguous base for %q: %s", loc, e.Name, e.Detail)
	case InterfaceNotImplemented:
		return fmt.Sprintf("%s: %q does not implement interface %q", loc, e.Name, e.Detail)
	case MissingInterfaceMethod:
		return fmt.Sprintf("%s: %q is missing interface method %q", loc, e.Name, e.Detail)
	case IllegalOverride:
		return fmt.Sprintf("%s: illegal override %q: %s", loc, e.Name, e.Detail)
	case TemplateValidationFailed:
		return fmt.Sprintf("%s: template validation failed for %q: %s", loc, e.Name, e.Detail)
	case UnreachableCode:
		return fmt.Sprintf("%s: unreachable code", loc)
	default:
		return fmt.Sprintf("%s: %s", loc, e.Detail)
	}
}

// CompilationResult accumulates every error found while compiling a Unit
// rather than aborting on the first, per spec.md section 7's accumulation
// policy. A driver must not execute the resulting CompiledModule when
// IsSuccess is false.
type CompilationResult struct {
	Errors []*CompilationError
}

// Add records an error.
func (r *CompilationResult) Add(err *CompilationError) {
	r.Errors = append(r.Errors, err)
}

// IsSuccess reports whether compilation produced no errors.
func (r *CompilationResult) IsSuccess() bool {
	return len(r.Errors) == 0
}
