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
	"github.com/schollz/progressbar/v3"

	"github.com/kraklabs/angelgo/internal/errors"
	"github.com/kraklabs/angelgo/internal/metrics"
	"github.com/kraklabs/angelgo/internal/ui"
	"github.com/kraklabs/angelgo/pkg/module"
)

// runBuild registers a module file's declarations against a fresh registry
// and reports the resulting counts, mirroring 'cie index''s
// progress-bar-over-a-batch-operation shape.
func runBuild(args []string, globals GlobalFlags) int {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	_ = fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: angelgo build <module.yaml>")
		return 1
	}

	spec, err := loadModuleSpec(rest[0])
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	b := module.New(slog.Default(), spec.Namespace)
	col := metrics.New(nil)

	total := len(spec.Types) + len(spec.Enums) + len(spec.Interfaces) +
		len(spec.Funcdefs) + len(spec.Functions) + len(spec.Methods)

	var bar *progressbar.ProgressBar
	if !globals.Quiet {
		bar = progressbar.Default(int64(total), "registering declarations")
	}

	sum, regErr := registerModuleTracked(b, spec, bar)
	if regErr != nil {
		errors.FatalError(errors.NewInputError(
			"Module registration failed",
			regErr.Error(),
			"Fix the offending declaration and re-run",
			regErr,
		), globals.JSON)
	}

	frozen := b.Build()
	col.SampleRegistry(frozen.Registry())

	if !globals.Quiet {
		ui.Header("angelgo: module registered")
		fmt.Printf("%s %s\n", ui.Label("Types:"), ui.CountText(sum.Types))
		fmt.Printf("%s %s\n", ui.Label("Enums:"), ui.CountText(sum.Enums))
		fmt.Printf("%s %s\n", ui.Label("Interfaces:"), ui.CountText(sum.Interfaces))
		fmt.Printf("%s %s\n", ui.Label("Funcdefs:"), ui.CountText(sum.Funcdefs))
		fmt.Printf("%s %s\n", ui.Label("Functions:"), ui.CountText(sum.Functions))
		fmt.Printf("%s %s\n", ui.Label("Methods:"), ui.CountText(sum.Methods))
	}
	return 0
}

// registerModuleTracked is registerModule plus a single progress-bar advance
// by the number of registered declarations once registration returns, kept
// separate so registerModule stays testable without a bar.
func registerModuleTracked(b *module.Builder, spec *moduleSpec, bar *progressbar.ProgressBar) (buildSummary, error) {
	tick := func(n int) {
		if bar != nil {
			_ = bar.Add(n)
		}
	}
	sum, err := registerModule(b, spec)
	tick(sum.Types + sum.Enums + sum.Interfaces + sum.Funcdefs + sum.Functions + sum.Methods)
	if bar != nil {
		_ = bar.Finish()
	}
	return sum, err
}
