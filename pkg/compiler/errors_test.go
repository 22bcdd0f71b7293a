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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/angelgo/pkg/span"
)

func TestCompilationErrorKindString(t *testing.T) {
	cases := []struct {
		kind CompilationErrorKind
		want string
	}{
		{DuplicateSymbol, "duplicate_symbol"},
		{UnknownType, "unknown_type"},
		{AmbiguousCall, "ambiguous_call"},
		{MissingReturn, "missing_return"},
		{CyclicInheritance, "cyclic_inheritance"},
		{InterfaceNotImplemented, "interface_not_implemented"},
		{UnreachableCode, "unreachable_code"},
		{CompilationErrorKind(999), "other"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.kind.String())
	}
}

func TestCompilationErrorErrorIncludesSpan2(t *testing.T) {
	err := &CompilationError{
		Kind:     DuplicateSymbol,
		Span:     span.Span{Line: 1, Col: 1},
		Span2:    span.Span{Line: 5, Col: 3},
		HasSpan2: true,
		Name:     "foo",
	}
	msg := err.Error()
	assert.Contains(t, msg, "foo")
	assert.Contains(t, msg, "1:1")
	assert.Contains(t, msg, "5:3")
}
