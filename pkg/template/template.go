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

// Package template implements the template instantiator: producing
// concrete TypeEntry/FunctionEntry values from a template and a vector of
// DataType arguments, with a cache so repeated instantiations with equal
// inputs return the same concrete TypeHash.
//
// Grounded on original_source/crates/angelscript-compiler/src/template/cache.rs
// (instance cache keying) and .../template.rs (callback/validation shape).
package template

import (
	"fmt"
	"strings"

	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

// InstanceInfo is passed to a template callback when instantiating a
// template with concrete arguments.
type InstanceInfo struct {
	TemplateName string
	SubTypes     []datatype.DataType
}

// Callback validates a proposed template instantiation. It returns ok=false
// to reject the instantiation (surfaced as TemplateValidationFailed) and
// needsGC=true to mark the instantiated type as participating in cycle
// collection.
type Callback func(info InstanceInfo) (ok bool, needsGC bool)

// ValidationError reports a rejected template instantiation.
type ValidationError struct {
	Template string
	Args     []typehash.TypeHash
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("template validation failed for %q%s", e.Template, argsString(e.Args))
}

func argsString(args []typehash.TypeHash) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%d", a)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// instanceKey is the cache key: a template hash plus its ordered argument
// hashes. Grounded on cache.rs's (TypeHash, Vec<TypeHash>) map key, adapted
// to a Go-comparable array-backed key since Go map keys can't be slices.
type instanceKey struct {
	template typehash.TypeHash
	args     string // ordered arg hashes, joined; order-sensitive by construction
}

func keyOf(tmpl typehash.TypeHash, args []typehash.TypeHash) instanceKey {
	var b strings.Builder
	for _, a := range args {
		fmt.Fprintf(&b, "%d,", a)
	}
	return instanceKey{template: tmpl, args: b.String()}
}

// Instantiator produces concrete type entries from templates. One
// Instantiator is shared across a Unit's compilation so the cache applies
// uniformly.
type Instantiator struct {
	reg       *registry.Registry
	cache     map[instanceKey]typehash.TypeHash
	callbacks map[typehash.TypeHash]Callback
	// builders produces the concrete ClassEntry for a template given its
	// substituted arguments; registered per-template by whatever sets up
	// the template (FFI registration or a script template declaration).
	builders map[typehash.TypeHash]func(instance typehash.TypeHash, args []datatype.DataType, needsGC bool) *registry.ClassEntry

	// observeLookup, when set, is called once per Instantiate with whether
	// the request hit the cache. Wired by internal/metrics' Collector.
	observeLookup func(hit bool)
}

// SetLookupObserver installs fn to be called on every Instantiate with
// whether the request was served from cache. Pass nil to disable.
func (inst *Instantiator) SetLookupObserver(fn func(hit bool)) {
	inst.observeLookup = fn
}

// New creates an instantiator bound to a registry.
func New(reg *registry.Registry) *Instantiator {
	return &Instantiator{
		reg:       reg,
		cache:     make(map[instanceKey]typehash.TypeHash),
		callbacks: make(map[typehash.TypeHash]Callback),
		builders:  make(map[typehash.TypeHash]func(typehash.TypeHash, []datatype.DataType, bool) *registry.ClassEntry),
	}
}

// RegisterCallback attaches a template callback to a template type hash.
func (inst *Instantiator) RegisterCallback(template typehash.TypeHash, cb Callback) {
	inst.callbacks[template] = cb
}

// RegisterBuilder attaches the substitution function used to produce a
// template's concrete class entry. Required before Instantiate can
// construct a script-defined template's instance (host-native
// specializations instead call Prepopulate and never need a builder).
func (inst *Instantiator) RegisterBuilder(template typehash.TypeHash, build func(instance typehash.TypeHash, args []datatype.DataType, needsGC bool) *registry.ClassEntry) {
	inst.builders[template] = build
}

// Prepopulate inserts a host-native specialization (e.g. array<int32>
// implemented directly by the host) into the cache before compilation
// begins, so Instantiate returns the host's type rather than constructing
// a script one.
func (inst *Instantiator) Prepopulate(template typehash.TypeHash, args []typehash.TypeHash, instance typehash.TypeHash) {
	inst.cache[keyOf(template, args)] = instance
}

// Instantiate produces (or retrieves from cache) the concrete type for
// instantiating template with the given argument DataTypes.
//
// Algorithm: consult the cache; if absent, run the template callback (if
// any) and fail with ValidationError if it rejects; construct a fresh
// TypeHash via FromTemplateInstance, build the concrete entry via the
// registered builder, register it, and cache it.
func (inst *Instantiator) Instantiate(templateName string, template typehash.TypeHash, args []datatype.DataType) (typehash.TypeHash, error) {
	argHashes := make([]typehash.TypeHash, len(args))
	for i, a := range args {
		argHashes[i] = a.TypeHash
	}
	key := keyOf(template, argHashes)
	if cached, ok := inst.cache[key]; ok {
		if inst.observeLookup != nil {
			inst.observeLookup(true)
		}
		return cached, nil
	}
	if inst.observeLookup != nil {
		inst.observeLookup(false)
	}

	needsGC := false
	if cb, ok := inst.callbacks[template]; ok {
		ok, gc := cb(InstanceInfo{TemplateName: templateName, SubTypes: args})
		if !ok {
			return 0, &ValidationError{Template: templateName, Args: argHashes}
		}
		needsGC = gc
	}

	instance := typehash.FromTemplateInstance(template, argHashes)

	build, ok := inst.builders[template]
	if !ok {
		return 0, fmt.Errorf("template %q has no registered builder", templateName)
	}
	entry := build(instance, args, needsGC)
	entry.TypeHash = instance

	if err := inst.reg.RegisterType(entry); err != nil {
		return 0, err
	}
	inst.cache[key] = instance
	return instance, nil
}

// CacheSize reports the number of instantiated (or prepopulated) template
// instances currently cached, for observability.
func (inst *Instantiator) CacheSize() int {
	return len(inst.cache)
}

// HasInstance reports whether template has already been instantiated (or
// prepopulated) with the given arguments.
func (inst *Instantiator) HasInstance(template typehash.TypeHash, args []typehash.TypeHash) bool {
	_, ok := inst.cache[keyOf(template, args)]
	return ok
}
