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
	"log/slog"
	"time"

	"github.com/kraklabs/angelgo/pkg/ast"
	"github.com/kraklabs/angelgo/pkg/bytecode"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/template"
)

// Compiler compiles one or more ast.Unit values against a shared registry
// and template instantiator. One Compiler is typically built per Unit (its
// registry is the Unit's own script-declared table, which has already
// imported the frozen FFI registry via Registry.Import); the instantiator
// may be shared across Units so template instances dedupe globally.
//
// Grounded on spec.md section 4.3-4.5 and the teacher's ingestion-pipeline
// orchestration shape (a driver running ordered passes over collected
// entities, threading one shared index through each).
type Compiler struct {
	log  *slog.Logger
	reg  *registry.Registry
	tmpl *template.Instantiator

	// observePass, when set, is called after each pass completes with its
	// name and elapsed wall-clock duration. Wired by internal/metrics'
	// Collector.ObserveCompilePass; nil by default so compilation carries no
	// timing overhead unless a caller opts in.
	observePass func(pass string, d time.Duration)
}

// SetPassObserver installs fn to be called after pass1/pass2a/pass2b each
// complete. Pass nil to disable.
func (c *Compiler) SetPassObserver(fn func(pass string, d time.Duration)) {
	c.observePass = fn
}

// New creates a Compiler. A nil logger defaults to slog's default logger; a
// nil instantiator is replaced with a fresh empty one bound to reg.
func New(log *slog.Logger, reg *registry.Registry, tmpl *template.Instantiator) *Compiler {
	if log == nil {
		log = slog.Default()
	}
	if tmpl == nil {
		tmpl = template.New(reg)
	}
	return &Compiler{log: log, reg: reg, tmpl: tmpl}
}

// CompileUnit runs pass1 (registration), pass2a (type compilation), and
// pass2b (function compilation) over unit in order, per spec.md section 5's
// ordering rule: pass1 completes before any pass2a work begins; pass2a
// completes before pass2b. Errors accumulate in the returned
// CompilationResult rather than aborting the run; the caller must not
// execute the returned CompiledModule when result.IsSuccess() is false.
func (c *Compiler) CompileUnit(unit *ast.Unit) (*bytecode.CompiledModule, *CompilationResult) {
	result := &CompilationResult{}
	st := newUnitState(unit)

	c.timedPass("pass1", func() { c.pass1(st, result) })
	c.timedPass("pass2a", func() { c.pass2a(st, result) })

	module := bytecode.NewCompiledModule(unit.Name)
	c.timedPass("pass2b", func() { c.pass2b(st, module, result) })

	c.log.Debug("compiler: compiled unit", "name", unit.Name, "errors", len(result.Errors))
	return module, result
}

func (c *Compiler) timedPass(name string, run func()) {
	if c.observePass == nil {
		run()
		return
	}
	start := time.Now()
	run()
	c.observePass(name, time.Since(start))
}
