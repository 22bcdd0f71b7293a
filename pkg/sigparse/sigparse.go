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

// Package sigparse parses the declaration strings the host passes when
// registering FFI types and functions ("double cos(double)", "void
// set_length(int)", "Player@ f()"). It is a dependency-free package
// imported by pkg/ffi for registration-time parsing; pkg/module reaches it
// only through pkg/ffi.
package sigparse

import "strings"

// RefKind tags how a parameter is passed.
type RefKind int

const (
	RefNone RefKind = iota
	RefIn
	RefOut
	RefInOut
)

// DeclaredType is a parsed type expression from a declaration string:
// a base name, optional handle/reference markers, const-ness, array
// nesting depth, and template arguments.
type DeclaredType struct {
	Name       string // base type name, e.g. "double", "Player", "array"
	IsHandle   bool   // "@"
	IsConst    bool   // leading "const"
	Ref        RefKind
	ArrayDepth int            // number of "[]" suffixes; desugars to array<T>
	TemplateArgs []DeclaredType // "<...>" arguments
}

// DeclaredParam is one parameter of a parsed signature.
type DeclaredParam struct {
	Type DeclaredType
	Name string // optional; declaration strings need not name parameters
}

// DeclaredSignature is a fully parsed function declaration string.
type DeclaredSignature struct {
	ReturnType DeclaredType
	Name       string
	Params     []DeclaredParam
}

// ParseError reports a malformed declaration string.
type ParseError struct {
	Input  string
	Detail string
}

func (e *ParseError) Error() string {
	return "invalid declaration string " + quote(e.Input) + ": " + e.Detail
}

func quote(s string) string { return "\"" + s + "\"" }

// ParseSignature parses a full function declaration string, e.g.
// "double cos(double)" or "Player@ f(const string &in, int &out)".
func ParseSignature(decl string) (*DeclaredSignature, error) {
	decl = strings.TrimSpace(decl)
	if decl == "" {
		return nil, &ParseError{Input: decl, Detail: "empty declaration"}
	}

	paramsStart := findUnqualifiedParen(decl)
	if paramsStart == -1 {
		return nil, &ParseError{Input: decl, Detail: "missing parameter list"}
	}
	end := findMatchingParen(decl, paramsStart)
	if end == -1 {
		return nil, &ParseError{Input: decl, Detail: "unbalanced parentheses"}
	}

	head := strings.TrimSpace(decl[:paramsStart])
	paramStr := decl[paramsStart+1 : end]
	if strings.TrimSpace(decl[end+1:]) != "" {
		return nil, &ParseError{Input: decl, Detail: "trailing content after parameter list"}
	}

	retType, name, err := splitReturnAndName(head)
	if err != nil {
		return nil, err
	}

	var params []DeclaredParam
	for _, p := range splitAtTopLevelCommas(paramStr) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		dp, err := parseParam(p)
		if err != nil {
			return nil, err
		}
		params = append(params, dp)
	}

	return &DeclaredSignature{ReturnType: retType, Name: name, Params: params}, nil
}

// ParseType parses a standalone type declarator, e.g. "const Player@&in"
// or "array<int>".
func ParseType(decl string) (DeclaredType, error) {
	return parseType(strings.TrimSpace(decl))
}

func splitReturnAndName(head string) (DeclaredType, string, error) {
	// The function name is the last identifier-like run before the
	// parameter list's opening paren; everything before it is the return
	// type declarator.
	i := len(head)
	for i > 0 && isNameChar(head[i-1]) {
		i--
	}
	if i == len(head) {
		return DeclaredType{}, "", &ParseError{Input: head, Detail: "missing function name"}
	}
	name := head[i:]
	retDecl := strings.TrimSpace(head[:i])
	if retDecl == "" {
		return DeclaredType{}, "", &ParseError{Input: head, Detail: "missing return type"}
	}
	retType, err := parseType(retDecl)
	if err != nil {
		return DeclaredType{}, "", err
	}
	return retType, name, nil
}

func parseParam(s string) (DeclaredParam, error) {
	// A trailing identifier not part of the type grammar (&, @, const,
	// [], <...>) is the parameter's optional name.
	typeStr := s
	name := ""
	i := len(s)
	for i > 0 && isNameChar(s[i-1]) {
		i--
	}
	if i > 0 && i < len(s) {
		candidateName := s[i:]
		candidateType := strings.TrimSpace(s[:i])
		if candidateType != "" && !isRefKeyword(candidateName) {
			typeStr = candidateType
			name = candidateName
		}
	}
	dt, err := parseType(typeStr)
	if err != nil {
		return DeclaredParam{}, err
	}
	return DeclaredParam{Type: dt, Name: name}, nil
}

func isRefKeyword(s string) bool {
	switch s {
	case "in", "out", "inout":
		return true
	default:
		return false
	}
}

// parseType parses one type declarator: `const`? name `<...>`? `[]`* `@`?
// (`&`(`in`|`out`|`inout`)?)?
func parseType(s string) (DeclaredType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DeclaredType{}, &ParseError{Input: s, Detail: "empty type"}
	}

	var dt DeclaredType

	if rest, ok := trimKeywordPrefix(s, "const"); ok {
		dt.IsConst = true
		s = rest
	}

	s = strings.TrimSpace(s)

	nameEnd := 0
	for nameEnd < len(s) && isNameChar(s[nameEnd]) {
		nameEnd++
	}
	if nameEnd == 0 {
		return DeclaredType{}, &ParseError{Input: s, Detail: "missing type name"}
	}
	dt.Name = s[:nameEnd]
	s = strings.TrimSpace(s[nameEnd:])

	if strings.HasPrefix(s, "<") {
		close := findMatchingAngle(s, 0)
		if close == -1 {
			return DeclaredType{}, &ParseError{Input: s, Detail: "unbalanced template arguments"}
		}
		inner := s[1:close]
		for _, arg := range splitAtTopLevelCommas(inner) {
			arg = strings.TrimSpace(arg)
			if arg == "" {
				continue
			}
			argType, err := parseType(arg)
			if err != nil {
				return DeclaredType{}, err
			}
			dt.TemplateArgs = append(dt.TemplateArgs, argType)
		}
		s = strings.TrimSpace(s[close+1:])
	}

	for strings.HasPrefix(s, "[]") {
		dt.ArrayDepth++
		s = strings.TrimSpace(s[2:])
	}

	if strings.HasPrefix(s, "@") {
		dt.IsHandle = true
		s = strings.TrimSpace(s[1:])
	}

	if strings.HasPrefix(s, "&") {
		s = strings.TrimSpace(s[1:])
		switch {
		case strings.HasPrefix(s, "inout"):
			dt.Ref = RefInOut
			s = strings.TrimSpace(s[len("inout"):])
		case strings.HasPrefix(s, "in"):
			dt.Ref = RefIn
			s = strings.TrimSpace(s[len("in"):])
		case strings.HasPrefix(s, "out"):
			dt.Ref = RefOut
			s = strings.TrimSpace(s[len("out"):])
		default:
			dt.Ref = RefIn
		}
	}

	if s != "" {
		return DeclaredType{}, &ParseError{Input: s, Detail: "unexpected trailing characters " + quote(s)}
	}

	return dt, nil
}

func trimKeywordPrefix(s, kw string) (string, bool) {
	if !strings.HasPrefix(s, kw) {
		return s, false
	}
	rest := s[len(kw):]
	if rest != "" && isNameChar(rest[0]) {
		return s, false // e.g. "constant" isn't the "const" keyword
	}
	return rest, true
}

func isNameChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// findUnqualifiedParen finds the opening '(' of the parameter list: the
// first '(' not nested inside a '<...>' template-argument list.
func findUnqualifiedParen(s string) int {
	angleDepth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			angleDepth++
		case '>':
			if angleDepth > 0 {
				angleDepth--
			}
		case '(':
			if angleDepth == 0 {
				return i
			}
		}
	}
	return -1
}

func findMatchingParen(s string, pos int) int {
	depth := 0
	for i := pos; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func findMatchingAngle(s string, pos int) int {
	depth := 0
	for i := pos; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitAtTopLevelCommas(s string) []string {
	var parts []string
	parenDepth, angleDepth := 0, 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			parenDepth++
		case ')':
			parenDepth--
		case '<':
			angleDepth++
		case '>':
			if angleDepth > 0 {
				angleDepth--
			}
		case ',':
			if parenDepth == 0 && angleDepth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
