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

// Package module implements the builder a host uses to accumulate FFI
// registrations (types, functions, enums, interfaces, funcdefs) into a
// frozen registry snapshot shared across Unit compilations.
//
// Grounded on spec.md §2 item 5 / §6 and the teacher's builder-style
// config construction (cmd/cie/config.go's Config/*Config nested structs,
// built up field by field then frozen at the LoadConfig boundary).
package module

import (
	"fmt"
	"log/slog"

	"github.com/kraklabs/angelgo/pkg/ffi"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

// Builder accumulates host registrations in a namespace. It is
// append-only: once Build freezes the result, the Builder itself must not
// be reused (mirrors spec.md §5's "FFI registry is append-only during
// Module building; after build() it is frozen and shared immutably").
type Builder struct {
	log       *slog.Logger
	reg       *registry.Registry
	namespace []string
	frozen    bool
}

// New creates a builder for the given namespace (nil/empty for the root
// namespace).
func New(log *slog.Logger, namespace []string) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{log: log, reg: registry.New(log), namespace: namespace}
}

func (b *Builder) checkNotFrozen(op string) error {
	if b.frozen {
		return fmt.Errorf("module: %s called after Build() froze the registry", op)
	}
	return nil
}

// RegisterType registers a native object type.
func (b *Builder) RegisterType(def ffi.TypeDef) (typehash.TypeHash, error) {
	if err := b.checkNotFrozen("RegisterType"); err != nil {
		return 0, err
	}
	if len(def.Namespace) == 0 {
		def.Namespace = b.namespace
	}
	hash, err := ffi.RegisterType(b.reg, def)
	if err != nil {
		return 0, err
	}
	b.log.Debug("module: registered type", "name", def.Name, "namespace", def.Namespace)
	return hash, nil
}

// RegisterGlobalFunction registers a free function.
func (b *Builder) RegisterGlobalFunction(def ffi.FunctionDef) (typehash.TypeHash, error) {
	if err := b.checkNotFrozen("RegisterGlobalFunction"); err != nil {
		return 0, err
	}
	hash, err := ffi.RegisterGlobalFunction(b.reg, def)
	if err != nil {
		return 0, err
	}
	b.log.Debug("module: registered global function", "decl", def.Decl)
	return hash, nil
}

// RegisterMethod registers a method on an already-registered type.
func (b *Builder) RegisterMethod(owner typehash.TypeHash, def ffi.FunctionDef) (typehash.TypeHash, error) {
	if err := b.checkNotFrozen("RegisterMethod"); err != nil {
		return 0, err
	}
	hash, err := ffi.RegisterMethod(b.reg, owner, def)
	if err != nil {
		return 0, err
	}
	b.log.Debug("module: registered method", "decl", def.Decl)
	return hash, nil
}

// RegisterBehavior attaches a lifecycle or operator hook to owner.
func (b *Builder) RegisterBehavior(owner typehash.TypeHash, behaviorName string, def ffi.FunctionDef) (typehash.TypeHash, error) {
	if err := b.checkNotFrozen("RegisterBehavior"); err != nil {
		return 0, err
	}
	hash, err := ffi.RegisterBehavior(b.reg, owner, behaviorName, def)
	if err != nil {
		return 0, err
	}
	b.log.Debug("module: registered behavior", "behavior", behaviorName, "decl", def.Decl)
	return hash, nil
}

// RegisterEnum registers an enum type.
func (b *Builder) RegisterEnum(def ffi.EnumDef) (typehash.TypeHash, error) {
	if err := b.checkNotFrozen("RegisterEnum"); err != nil {
		return 0, err
	}
	if len(def.Namespace) == 0 {
		def.Namespace = b.namespace
	}
	hash, err := ffi.RegisterEnum(b.reg, def)
	if err != nil {
		return 0, err
	}
	b.log.Debug("module: registered enum", "name", def.Name)
	return hash, nil
}

// RegisterInterface registers an interface type.
func (b *Builder) RegisterInterface(def ffi.InterfaceDef) (typehash.TypeHash, error) {
	if err := b.checkNotFrozen("RegisterInterface"); err != nil {
		return 0, err
	}
	if len(def.Namespace) == 0 {
		def.Namespace = b.namespace
	}
	hash, err := ffi.RegisterInterface(b.reg, def)
	if err != nil {
		return 0, err
	}
	b.log.Debug("module: registered interface", "name", def.Name)
	return hash, nil
}

// RegisterFuncdef registers a named function-pointer type.
func (b *Builder) RegisterFuncdef(def ffi.FuncdefDef) (typehash.TypeHash, error) {
	if err := b.checkNotFrozen("RegisterFuncdef"); err != nil {
		return 0, err
	}
	hash, err := ffi.RegisterFuncdef(b.reg, def)
	if err != nil {
		return 0, err
	}
	b.log.Debug("module: registered funcdef", "decl", def.Decl)
	return hash, nil
}

// InstallStringFactory records the host's string factory for script
// literal typing.
func (b *Builder) InstallStringFactory(f registry.StringFactory) error {
	if err := b.checkNotFrozen("InstallStringFactory"); err != nil {
		return err
	}
	b.reg.InstallStringFactory(f)
	return nil
}

// FfiRegistry is the frozen snapshot a Module produces: an immutable
// registry a compiler Unit imports via registry.Import before compiling
// script-declared symbols against it.
type FfiRegistry struct {
	reg *registry.Registry
}

// Registry returns the underlying *registry.Registry. Callers must treat
// it as read-only: mutating it after Build defeats the immutability
// contract multiple Units rely on when compiling in parallel.
func (f *FfiRegistry) Registry() *registry.Registry { return f.reg }

// Build freezes the builder's accumulated registrations and returns a
// shareable snapshot. The builder must not be used again afterward.
func (b *Builder) Build() *FfiRegistry {
	b.frozen = true
	return &FfiRegistry{reg: b.reg}
}
