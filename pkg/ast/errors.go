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

package ast

import "github.com/kraklabs/angelgo/pkg/span"

// LexErrorKind enumerates the ways tokenization can fail. Declared here,
// not produced here: the lexer is an external collaborator, but
// pkg/compiler and internal/diag need a stable shape to render its errors
// uniformly alongside the compiler's own.
type LexErrorKind int

const (
	UnterminatedLiteral LexErrorKind = iota
	InvalidEscape
	InvalidNumber
)

// LexError is one lexical error.
type LexError struct {
	Kind    LexErrorKind
	Message string
	Span    span.Span
}

func (e LexError) Error() string { return e.Message }

// ParseErrorKind enumerates the ways parsing can fail.
type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota
	MissingToken
	UnbalancedDelimiter
)

// ParseError is one syntax error.
type ParseError struct {
	Kind    ParseErrorKind
	Message string
	Span    span.Span
}

func (e ParseError) Error() string { return e.Message }
