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
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/angelgo/internal/errors"
	"github.com/kraklabs/angelgo/pkg/ffi"
	"github.com/kraklabs/angelgo/pkg/module"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

// moduleSpec is the YAML shape of a host module declaration file: the
// script-visible surface (types/enums/interfaces/funcdefs/functions/methods)
// a host would otherwise register in Go code via pkg/module.Builder. angelgo
// has no lexer/parser of its own (an external collaborator produces the
// ast.Unit the compiler consumes, per spec.md's scope boundary); build/check
// instead validate this declaration surface, which is plain data and has no
// such dependency.
//
// Functions and methods declared here register with a stub native
// implementation that reports "not implemented by the CLI" if ever invoked —
// the real native callable is supplied by the embedding host at runtime.
type moduleSpec struct {
	Namespace  []string        `yaml:"namespace"`
	Types      []typeSpec      `yaml:"types"`
	Enums      []enumSpec      `yaml:"enums"`
	Interfaces []interfaceSpec `yaml:"interfaces"`
	Funcdefs   []string        `yaml:"funcdefs"`
	Functions  []string        `yaml:"functions"`
	Methods    []methodSpec    `yaml:"methods"`
}

type typeSpec struct {
	Name        string `yaml:"name"`
	Size        int    `yaml:"size"`
	IsReference bool   `yaml:"is_reference"`
	IsValue     bool   `yaml:"is_value"`
	NeedsGC     bool   `yaml:"needs_gc"`
	IsPOD       bool   `yaml:"is_pod"`
}

type enumSpec struct {
	Name   string            `yaml:"name"`
	Values map[string]int64  `yaml:"values"`
}

type interfaceSpec struct {
	Name    string   `yaml:"name"`
	Methods []string `yaml:"methods"`
}

type methodSpec struct {
	Owner string `yaml:"owner"`
	Decl  string `yaml:"decl"`
}

func loadModuleSpec(path string) (*moduleSpec, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is an explicit CLI argument
	if err != nil {
		return nil, errors.NewInputError(
			"Cannot read module file",
			fmt.Sprintf("Failed to read %s", path),
			"Check the path and file permissions",
			err,
		)
	}
	var spec moduleSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errors.NewInputError(
			"Invalid module file",
			"YAML parsing failed - the module file contains syntax errors",
			"Fix the syntax error reported above",
			err,
		)
	}
	return &spec, nil
}

// buildSummary counts what a module registration produced, for CLI
// reporting.
type buildSummary struct {
	Types      int
	Enums      int
	Interfaces int
	Funcdefs   int
	Functions  int
	Methods    int
}

// notImplementedNative is the native implementation every CLI-registered
// function/method gets: the CLI only validates declaration surfaces, it
// never executes script code, so any actual invocation is a host wiring bug.
func notImplementedNative(decl string) registry.NativeFn {
	return func(ctx registry.NativeCallContext) error {
		return fmt.Errorf("%q has no native implementation: angelgo build/check only validates declarations", decl)
	}
}

// registerModule applies spec's declarations to b in dependency order
// (types before the methods that reference them) and returns how many of
// each were registered. typesByName is filled in with each registered
// type's hash, keyed by its declared name, so methodSpec.Owner can resolve
// without needing a registry lookup against b's not-yet-frozen table.
func registerModule(b *module.Builder, spec *moduleSpec) (buildSummary, error) {
	var sum buildSummary
	typesByName := map[string]typehash.TypeHash{}

	for _, t := range spec.Types {
		h, err := b.RegisterType(ffi.TypeDef{
			Name: t.Name,
			Flags: ffi.ObjectTypeFlags{
				IsReference: t.IsReference,
				IsValue:     t.IsValue,
				NeedsGC:     t.NeedsGC,
				IsPOD:       t.IsPOD,
			},
			Size: t.Size,
		})
		if err != nil {
			return sum, fmt.Errorf("type %q: %w", t.Name, err)
		}
		typesByName[t.Name] = h
		sum.Types++
	}

	for _, e := range spec.Enums {
		values := make([]registry.EnumValue, 0, len(e.Values))
		for name, v := range e.Values {
			values = append(values, registry.EnumValue{Name: name, Value: v})
		}
		if _, err := b.RegisterEnum(ffi.EnumDef{Name: e.Name, Values: values}); err != nil {
			return sum, fmt.Errorf("enum %q: %w", e.Name, err)
		}
		sum.Enums++
	}

	for _, i := range spec.Interfaces {
		if _, err := b.RegisterInterface(ffi.InterfaceDef{Name: i.Name, Methods: i.Methods}); err != nil {
			return sum, fmt.Errorf("interface %q: %w", i.Name, err)
		}
		sum.Interfaces++
	}

	for _, fd := range spec.Funcdefs {
		if _, err := b.RegisterFuncdef(ffi.FuncdefDef{Decl: fd}); err != nil {
			return sum, fmt.Errorf("funcdef %q: %w", fd, err)
		}
		sum.Funcdefs++
	}

	for _, decl := range spec.Functions {
		if _, err := b.RegisterGlobalFunction(ffi.FunctionDef{Decl: decl, Native: notImplementedNative(decl)}); err != nil {
			return sum, fmt.Errorf("function %q: %w", decl, err)
		}
		sum.Functions++
	}

	for _, m := range spec.Methods {
		owner, ok := typesByName[m.Owner]
		if !ok {
			return sum, fmt.Errorf("method %q: owner type %q not registered", m.Decl, m.Owner)
		}
		if _, err := b.RegisterMethod(owner, ffi.FunctionDef{Decl: m.Decl, Native: notImplementedNative(m.Decl)}); err != nil {
			return sum, fmt.Errorf("method %q on %q: %w", m.Decl, m.Owner, err)
		}
		sum.Methods++
	}

	return sum, nil
}
