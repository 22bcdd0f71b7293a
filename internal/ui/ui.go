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

// Package ui provides the CLI's colored diagnostic output: header/label
// helpers plus a small palette of color.Color instances, all of which
// degrade to plain text when color is disabled or stdout isn't a terminal.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Palette, initialized by InitColors.
var (
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Red    = color.New(color.FgRed, color.Bold)
	Dim    = color.New(color.Faint)
	Cyan   = color.New(color.FgCyan, color.Bold)
)

// InitColors disables color output when noColor is set, NO_COLOR is present
// in the environment, or stdout is not a terminal. Called once at startup
// with the --no-color flag's value.
func InitColors(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// Header prints a bold cyan section heading.
func Header(text string) {
	_, _ = Cyan.Println(text)
}

// SubHeader prints a dim sub-heading, one indent level below Header.
func SubHeader(text string) {
	_, _ = Dim.Println(text)
}

// Label formats a field label for use before a plain value, e.g.
// fmt.Printf("%s %s\n", ui.Label("Project:"), name).
func Label(text string) string {
	return Dim.Sprint(text)
}

// DimText renders text in the dim/faint style.
func DimText(text string) string {
	return Dim.Sprint(text)
}

// CountText renders an integer count, unstyled when non-zero and dim at zero
// (so an empty result doesn't draw the eye as hard as a populated one).
func CountText(n int) string {
	if n == 0 {
		return Dim.Sprint("0")
	}
	return fmt.Sprintf("%d", n)
}

// Info prints an informational line to stdout.
func Info(text string) {
	fmt.Println(text)
}

// Warning prints a yellow warning line to stderr.
func Warning(text string) {
	_, _ = Yellow.Fprintln(os.Stderr, text)
}

// Warningf prints a formatted yellow warning line to stderr.
func Warningf(format string, args ...interface{}) {
	_, _ = Yellow.Fprintf(os.Stderr, format+"\n", args...)
}

// Errorf prints a formatted bold red error line to stderr.
func Errorf(format string, args ...interface{}) {
	_, _ = Red.Fprintf(os.Stderr, format+"\n", args...)
}
