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
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/angelgo/internal/config"
	"github.com/kraklabs/angelgo/internal/errors"
	"github.com/kraklabs/angelgo/internal/ui"
)

// runInit creates .angelgo/engine.yaml in the current directory with
// default settings, mirroring the teacher's 'cie init' shape but without
// the interactive prompting (angelgo has no remote hub/embedding provider
// to configure).
func runInit(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing configuration")
	_ = fs.Parse(args)

	dir, err := os.Getwd()
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot access working directory",
			"Failed to determine current directory path",
			"Check system permissions and try again",
			err,
		), globals.JSON)
	}

	path := config.Path(dir)
	if _, statErr := os.Stat(path); statErr == nil && !*force {
		errors.FatalError(errors.NewInputError(
			"Configuration already exists",
			path+" already exists",
			"Use --force to overwrite it",
			nil,
		), globals.JSON)
	}

	cfg := config.Default()
	if err := config.Save(cfg, path); err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if !globals.Quiet {
		ui.Header("angelgo: configuration created")
		ui.Info(path)
	}
}
