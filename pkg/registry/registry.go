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

// Package registry implements the unified symbol table: the central
// name-resolution authority merging host-registered ("FFI") definitions
// with script-declared symbols, and the basis for overload resolution,
// conversions, and template instantiation lookups.
//
// Grounded on the teacher's ingestion resolver/schema shape
// (pkg/ingestion/resolver.go, schema.go): a small set of maps keyed by
// stable IDs (here, TypeHash) plus secondary name indices, built up
// incrementally and queried by the compiler.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/kraklabs/angelgo/pkg/typehash"
)

// StringFactory materializes string literals into opaque runtime values.
// Defined narrowly here (rather than imported from pkg/runtime) to avoid a
// cycle; pkg/runtime's concrete factory implementations satisfy this
// interface structurally.
type StringFactory interface {
	Create(bytes []byte) (interface{}, error)
	TypeHash() typehash.TypeHash
}

// Registry is the unified table of TypeEntry and FunctionEntry values for
// one compilation scope (a frozen FFI registry shared across Units, or a
// Unit's own script-declared registry that imports one).
type Registry struct {
	log *slog.Logger

	typesByHash map[typehash.TypeHash]TypeEntry
	typesByName map[string]typehash.TypeHash

	funcsByHash map[typehash.TypeHash]*FunctionEntry
	// funcsByName indexes qualified-name -> candidate function hashes,
	// for lookup_functions overload-candidate gathering.
	funcsByName map[string][]typehash.TypeHash

	// operatorIndex maps an operator behavior name ("opAdd", ...) to every
	// function hash registered under that behavior, across all classes.
	operatorIndex map[string][]typehash.TypeHash

	stringFactory StringFactory

	callers map[typehash.TypeHash][]typehash.TypeHash
	callees map[typehash.TypeHash][]typehash.TypeHash

	// nextDeclOrder assigns each registered function a monotonically
	// increasing declaration index, consulted by overload resolution to
	// break a cost tie in favor of the earlier declaration.
	nextDeclOrder int
}

// New creates an empty registry. A nil logger is replaced with slog's
// default.
func New(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		log:           log,
		typesByHash:   make(map[typehash.TypeHash]TypeEntry),
		typesByName:   make(map[string]typehash.TypeHash),
		funcsByHash:   make(map[typehash.TypeHash]*FunctionEntry),
		funcsByName:   make(map[string][]typehash.TypeHash),
		operatorIndex: make(map[string][]typehash.TypeHash),
		callers:       make(map[typehash.TypeHash][]typehash.TypeHash),
		callees:       make(map[typehash.TypeHash][]typehash.TypeHash),
	}
}

// GetType looks up a type by its hash.
func (r *Registry) GetType(h typehash.TypeHash) (TypeEntry, bool) {
	e, ok := r.typesByHash[h]
	return e, ok
}

// GetTypeByName looks up a type by its fully qualified name.
func (r *Registry) GetTypeByName(qualified string) (TypeEntry, bool) {
	h, ok := r.typesByName[qualified]
	if !ok {
		return nil, false
	}
	e, ok := r.typesByHash[h]
	return e, ok
}

// GetTypeByUnqualified resolves an unqualified name from within a
// namespace, trying the current namespace, then each ancestor outward, then
// the root. A child namespace shadows a same-named ancestor declaration only
// when exactly one of the walked levels declares it; if two or more levels
// both declare the name, both are reachable from inNamespace and the lookup
// fails ambiguous rather than silently preferring the innermost, per
// spec.md section 4.1.
func (r *Registry) GetTypeByUnqualified(name string, inNamespace []string) (TypeEntry, error) {
	var found TypeEntry
	var foundAt string
	for i := len(inNamespace); i >= 0; i-- {
		candidate := qualify(inNamespace[:i], name)
		e, ok := r.GetTypeByName(candidate)
		if !ok {
			continue
		}
		if found != nil {
			return nil, &RegistrationError{
				Kind:   AmbiguousName,
				Name:   name,
				Detail: fmt.Sprintf("reachable as both %q and %q", foundAt, candidate),
			}
		}
		found, foundAt = e, candidate
	}
	if found == nil {
		return nil, &RegistrationError{Kind: UnknownType, Name: name}
	}
	return found, nil
}

// RegisterType adds e to the registry. Fails with DuplicateType if an entry
// with the same qualified name already exists; the registry is unchanged on
// failure.
func (r *Registry) RegisterType(e TypeEntry) error {
	name := e.QualifiedName()
	if _, exists := r.typesByName[name]; exists {
		return &RegistrationError{Kind: DuplicateType, Name: name}
	}
	r.typesByHash[e.Hash()] = e
	r.typesByName[name] = e.Hash()
	return nil
}

// GetFunction looks up a function by its signature hash.
func (r *Registry) GetFunction(h typehash.TypeHash) (*FunctionEntry, bool) {
	f, ok := r.funcsByHash[h]
	return f, ok
}

// LookupFunctions returns every overload candidate registered under the
// given qualified name.
func (r *Registry) LookupFunctions(name string) []*FunctionEntry {
	hashes := r.funcsByName[name]
	out := make([]*FunctionEntry, 0, len(hashes))
	for _, h := range hashes {
		out = append(out, r.funcsByHash[h])
	}
	return out
}

// RegisterFunction adds fn, permitting overloads (distinct signature
// hashes under the same name). Fails with AmbiguousOverload if another
// entry already has the identical signature hash; the registry is
// unchanged on failure.
func (r *Registry) RegisterFunction(fn *FunctionEntry) error {
	if _, exists := r.funcsByHash[fn.Hash]; exists {
		return &RegistrationError{
			Kind:   AmbiguousOverload,
			Name:   fn.QualifiedName(),
			Detail: "identical signature hash already registered",
		}
	}
	fn.DeclOrder = r.nextDeclOrder
	r.nextDeclOrder++

	name := fn.QualifiedName()
	r.funcsByHash[fn.Hash] = fn
	r.funcsByName[name] = append(r.funcsByName[name], fn.Hash)

	if fn.Def.IsMethod {
		r.indexBehaviorIfOperator(fn)
	}
	return nil
}

func (r *Registry) indexBehaviorIfOperator(fn *FunctionEntry) {
	switch fn.Def.Name {
	case "opAdd", "opEquals", "opCmp", "opAssign", "opAddAssign", "opCall",
		"opIndex", "opImplConv", "opConv", "opCast", "opNeg", "opCom",
		"opPreInc", "opPreDec":
		r.operatorIndex[fn.Def.Name] = append(r.operatorIndex[fn.Def.Name], fn.Hash)
	}
}

// OperatorCandidates returns every function hash registered under the
// given operator behavior name, across all classes.
func (r *Registry) OperatorCandidates(name string) []typehash.TypeHash {
	return r.operatorIndex[name]
}

// Import merges other's FFI definitions into r. Fails if a conflicting
// definition (same qualified name, different hash) already exists;
// r is unchanged on failure. Non-conflicting re-imports of the identical
// entry are allowed (idempotent).
func (r *Registry) Import(other *Registry) error {
	for name, hash := range other.typesByName {
		if existing, exists := r.typesByName[name]; exists && existing != hash {
			return &RegistrationError{Kind: DuplicateType, Name: name, Detail: "conflicting definition on import"}
		}
	}
	for hash, e := range other.typesByHash {
		r.typesByHash[hash] = e
		r.typesByName[e.QualifiedName()] = hash
	}
	for hash, fn := range other.funcsByHash {
		if _, exists := r.funcsByHash[hash]; exists {
			continue
		}
		r.funcsByHash[hash] = fn
		name := fn.QualifiedName()
		r.funcsByName[name] = append(r.funcsByName[name], hash)
	}
	for op, hashes := range other.operatorIndex {
		r.operatorIndex[op] = append(r.operatorIndex[op], hashes...)
	}
	if other.stringFactory != nil {
		r.stringFactory = other.stringFactory
	}
	return nil
}

// InstallStringFactory records the host's string factory. The compiler
// consults GetStringTypeHash to type string literals.
func (r *Registry) InstallStringFactory(f StringFactory) {
	r.stringFactory = f
}

// GetStringTypeHash returns the installed string factory's type hash, or
// false if none is installed.
func (r *Registry) GetStringTypeHash() (typehash.TypeHash, bool) {
	if r.stringFactory == nil {
		return 0, false
	}
	return r.stringFactory.TypeHash(), true
}

// GetStringFactory returns the installed factory, or nil if none is set.
func (r *Registry) GetStringFactory() StringFactory {
	return r.stringFactory
}

// Stats reports the registry's current population, for observability
// (internal/metrics gauges reading registry size).
type Stats struct {
	Types     int
	Functions int
}

// Stats returns the current type/function counts.
func (r *Registry) Stats() Stats {
	return Stats{Types: len(r.typesByHash), Functions: len(r.funcsByHash)}
}
