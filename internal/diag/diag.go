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

// Package diag renders a compiler.CompilationResult as human-readable
// diagnostics: one block per error, with a source snippet and a caret
// underline when the originating source text is available.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/kraklabs/angelgo/internal/ui"
	"github.com/kraklabs/angelgo/pkg/compiler"
)

// Render writes one formatted block per error in result to w. source is the
// Unit's original text, split into lines for snippet lookup; pass nil (or an
// empty slice) when the source text isn't available, in which case only the
// location and message are printed.
func Render(w io.Writer, unitName string, result *compiler.CompilationResult, source []string) {
	if result.IsSuccess() {
		return
	}
	for i, err := range result.Errors {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderOne(w, unitName, err, source)
	}
	fmt.Fprintf(w, "\n%s\n", ui.Red.Sprintf("%d error(s) in %s", len(result.Errors), unitName))
}

func renderOne(w io.Writer, unitName string, err *compiler.CompilationError, source []string) {
	fmt.Fprintf(w, "%s %s:%s\n", ui.Red.Sprint("error:"), unitName, err.Error())

	line := int(err.Span.Line)
	if line < 1 || line > len(source) {
		return
	}
	text := source[line-1]
	fmt.Fprintf(w, "  %4d | %s\n", line, text)
	fmt.Fprintln(w, caretUnderline(int(err.Span.Col), int(err.Span.Len)))
}

func caretUnderline(col, length int) string {
	if col < 1 {
		col = 1
	}
	if length < 1 {
		length = 1
	}
	var b strings.Builder
	b.WriteString("       ")
	b.WriteString(strings.Repeat(" ", col-1))
	b.WriteString(ui.Yellow.Sprint(strings.Repeat("^", length)))
	return b.String()
}
