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

// Package main implements the angelgo CLI: a thin wrapper around the
// registry/ffi/module/compiler packages for validating host FFI module
// declarations and running the metrics server.
//
// Usage:
//
//	angelgo init                 Create .angelgo/engine.yaml configuration
//	angelgo build <module.yaml>  Register a module's declarations, report counts
//	angelgo check <module.yaml>  Validate a module, report a single total count
//	angelgo serve                Start the Prometheus /metrics + health server
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/angelgo/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags holds flags shared by every subcommand.
type GlobalFlags struct {
	JSON    bool
	NoColor bool
	Quiet   bool
}

func main() {
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format")
		noColor     = flag.Bool("no-color", false, "Disable color output")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress non-essential output")
	)

	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `angelgo - embeddable AngelScript-model scripting engine tooling

Usage:
  angelgo <command> [options]

Commands:
  init          Create .angelgo/engine.yaml configuration
  build         Register a module file's FFI declarations, report counts
  check         Validate a module file's FFI declarations
  serve         Start the Prometheus metrics + health HTTP server

Global Options:
  --json        Output in JSON format
  --no-color    Disable color output (respects NO_COLOR)
  -q, --quiet   Suppress non-essential output
  -V, --version Show version and exit
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("angelgo version %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		os.Exit(0)
	}

	if os.Getenv("NO_COLOR") != "" {
		*noColor = true
	}
	if *jsonOutput {
		*quiet = true
	}

	globals := GlobalFlags{JSON: *jsonOutput, NoColor: *noColor, Quiet: *quiet}
	ui.InitColors(globals.NoColor)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "init":
		runInit(cmdArgs, globals)
	case "build":
		os.Exit(runBuild(cmdArgs, globals))
	case "check":
		os.Exit(runCheck(cmdArgs, globals))
	case "serve":
		os.Exit(runServe(cmdArgs, globals))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
