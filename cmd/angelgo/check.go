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

package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/angelgo/internal/errors"
	"github.com/kraklabs/angelgo/internal/ui"
	"github.com/kraklabs/angelgo/pkg/module"
)

// runCheck validates a module file's declarations against a fresh registry
// without printing the per-category counts 'build' does - it reports success
// with one total declaration count, or the first registration failure,
// mirroring the teacher's
// terser validate-only subcommands.
func runCheck(args []string, globals GlobalFlags) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	_ = fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: angelgo check <module.yaml>")
		return 1
	}

	spec, err := loadModuleSpec(rest[0])
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	b := module.New(slog.Default(), spec.Namespace)
	sum, regErr := registerModule(b, spec)
	if regErr != nil {
		errors.FatalError(errors.NewInputError(
			"Module is invalid",
			regErr.Error(),
			"Fix the offending declaration and re-run",
			regErr,
		), globals.JSON)
	}

	if !globals.Quiet {
		total := sum.Types + sum.Enums + sum.Interfaces + sum.Funcdefs + sum.Functions + sum.Methods
		ui.Header("angelgo: module is valid")
		fmt.Printf("%s %s\n", ui.Label("Declarations checked:"), ui.CountText(total))
	}
	return 0
}
