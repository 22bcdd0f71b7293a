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

// Package ffi defines the host-facing registration surface: type,
// function, property, enum, interface, and funcdef definitions that a
// pkg/module builder accumulates and hands to pkg/registry.
//
// Grounded on spec.md §4.7/§6 and the teacher's declarative registration
// shape (pkg/ingestion/schema.go's struct-per-entity config), adapted from
// YAML-driven schema entries to host-code registration calls.
package ffi

import (
	"fmt"

	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/sigparse"
	"github.com/kraklabs/angelgo/pkg/typehash"
	"github.com/kraklabs/angelgo/pkg/visibility"
)

// ObjectTypeFlags controls how a host-registered object type behaves:
// reference-counted vs value, GC-participating, POD.
type ObjectTypeFlags struct {
	IsReference bool
	IsValue     bool
	NeedsGC     bool
	IsPOD       bool
}

// TypeDef is a host registration for a native object type, before its
// methods and behaviors are attached.
type TypeDef struct {
	Name      string
	Namespace []string
	Flags     ObjectTypeFlags
	Size      int // opaque size hint for value types; ignored for reference types
}

// FunctionDef is a host registration for a global function or method,
// parsed from a declaration string plus its native implementation.
type FunctionDef struct {
	Decl       string
	Native     registry.NativeFn
	Visibility visibility.Visibility
	IsStatic   bool
}

// PropertyDef is a host registration for a property accessed as a field
// (backed by get_/set_ accessor methods at the registry level, mirroring
// the teacher's declarative property config entries).
type PropertyDef struct {
	Decl string // e.g. "int length" — no parens, just a type + name
}

// EnumDef is a host registration for an enum type and its values.
type EnumDef struct {
	Name      string
	Namespace []string
	Values    []registry.EnumValue
}

// InterfaceDef is a host registration for an interface type and its
// abstract method signatures.
type InterfaceDef struct {
	Name      string
	Namespace []string
	Methods   []string // declaration strings
}

// FuncdefDef is a host registration for a named function-pointer type.
type FuncdefDef struct {
	Decl string // e.g. "void Callback(int)"
}

// MemberSignatureHash computes a method's registry identity: the owning
// type's qualified name folded into the signature hash, so that two
// unrelated classes each declaring e.g. "void update()" register distinct
// global function entries. OverrideSignatureHash computes the matching
// owner-less key used to find the base-class slot a method overrides.
func MemberSignatureHash(ownerQualifiedName, name string, paramHashes []typehash.TypeHash) typehash.TypeHash {
	return typehash.FromSignature(ownerQualifiedName+"::"+name, paramHashes, false)
}

// OverrideSignatureHash computes the owner-independent signature identity
// used to match an overriding method against its base-class/interface
// counterpart (vtable and itable keys), per spec.md §4.4's "override
// replaces by signature hash".
func OverrideSignatureHash(name string, paramHashes []typehash.TypeHash) typehash.TypeHash {
	return typehash.FromSignature(name, paramHashes, false)
}

// RegisterType registers ty as a new ClassEntry and returns its type hash.
func RegisterType(reg *registry.Registry, ty TypeDef) (typehash.TypeHash, error) {
	hash := typehash.FromName(qualifiedName(ty.Namespace, ty.Name))
	entry := &registry.ClassEntry{
		NameStr:   ty.Name,
		Namespace: ty.Namespace,
		TypeHash:  hash,
		Src:       registry.SourceFFI,
		VTable:    map[typehash.TypeHash]typehash.TypeHash{},
		ITable:    map[registry.ITableKey]typehash.TypeHash{},
	}
	if err := reg.RegisterType(entry); err != nil {
		return 0, err
	}
	return hash, nil
}

// RegisterGlobalFunction parses fn.Decl and registers a free function with
// the given native implementation.
func RegisterGlobalFunction(reg *registry.Registry, fn FunctionDef) (typehash.TypeHash, error) {
	sig, err := sigparse.ParseSignature(fn.Decl)
	if err != nil {
		return 0, &registry.RegistrationError{Kind: registry.InvalidDeclarationString, Name: fn.Decl, Detail: err.Error()}
	}

	def, paramHashes, err := toFunctionDef(reg, sig, 0, false, fn.Visibility, fn.IsStatic)
	if err != nil {
		return 0, err
	}

	hash := typehash.FromSignature(def.Name, paramHashes, false)
	entry := &registry.FunctionEntry{
		Def:  def,
		Hash: hash,
		Impl: registry.Implementation{Kind: registry.ImplNative, Native: fn.Native},
		Src:  registry.SourceFFI,
	}
	if err := reg.RegisterFunction(entry); err != nil {
		return 0, err
	}
	return hash, nil
}

// RegisterMethod parses fn.Decl and registers it as a method owned by
// owner, attaching it to the class's method list.
func RegisterMethod(reg *registry.Registry, owner typehash.TypeHash, fn FunctionDef) (typehash.TypeHash, error) {
	ownerEntry, ok := reg.GetType(owner)
	if !ok {
		return 0, fmt.Errorf("ffi: register method %q: owner type not registered", fn.Decl)
	}
	class, ok := ownerEntry.(*registry.ClassEntry)
	if !ok {
		return 0, fmt.Errorf("ffi: register method %q: owner is not a class", fn.Decl)
	}

	sig, err := sigparse.ParseSignature(fn.Decl)
	if err != nil {
		return 0, &registry.RegistrationError{Kind: registry.InvalidDeclarationString, Name: fn.Decl, Detail: err.Error()}
	}

	def, paramHashes, err := toFunctionDef(reg, sig, owner, true, fn.Visibility, fn.IsStatic)
	if err != nil {
		return 0, err
	}

	hash := MemberSignatureHash(ownerEntry.QualifiedName(), def.Name, paramHashes)
	entry := &registry.FunctionEntry{
		Def:  def,
		Hash: hash,
		Impl: registry.Implementation{Kind: registry.ImplNative, Native: fn.Native},
		Src:  registry.SourceFFI,
	}
	if err := reg.RegisterFunction(entry); err != nil {
		return 0, err
	}

	class.Methods = append(class.Methods, hash)
	return hash, nil
}

// RegisterBehavior attaches a native lifecycle or operator hook to owner's
// Behaviors table. behaviorName follows spec.md §6's list (Construct,
// Destruct, ..., opAdd, opEquals, ...).
func RegisterBehavior(reg *registry.Registry, owner typehash.TypeHash, behaviorName string, fn FunctionDef) (typehash.TypeHash, error) {
	hash, err := RegisterMethod(reg, owner, fn)
	if err != nil {
		return 0, err
	}

	ownerEntry, _ := reg.GetType(owner)
	class := ownerEntry.(*registry.ClassEntry)
	AttachBehavior(&class.Behave, behaviorName, hash)
	return hash, nil
}

// AttachBehavior indexes hash into b under behaviorName's slot: one of the
// fixed lifecycle hooks (Construct, Destruct, ...) or, for any other name,
// the Operators map (exported so pkg/compiler's class-body pass can attach
// script-declared behaviors the same way RegisterBehavior attaches
// host-declared ones).
func AttachBehavior(b *registry.Behaviors, name string, hash typehash.TypeHash) {
	switch name {
	case "Construct":
		b.Construct = append(b.Construct, hash)
	case "Destruct":
		b.Destruct = hash
	case "Factory":
		b.Factory = append(b.Factory, hash)
	case "ListFactory":
		b.ListFactory = hash
	case "Copy":
		b.Copy = hash
	case "AddRef":
		b.AddRef = hash
	case "Release":
		b.Release = hash
	case "GetWeakRefFlag":
		b.GetWeakRefFlag = hash
	case "TemplateCallback":
		b.TemplateCallback = hash
	case "GetRefCount":
		b.GetRefCount = hash
	case "SetGCFlag":
		b.SetGCFlag = hash
	case "GetGCFlag":
		b.GetGCFlag = hash
	case "EnumRefs":
		b.EnumRefs = hash
	case "ReleaseRefs":
		b.ReleaseRefs = hash
	default:
		if b.Operators == nil {
			b.Operators = map[string][]typehash.TypeHash{}
		}
		b.Operators[name] = append(b.Operators[name], hash)
	}
}

// RegisterEnum registers an enum type and its values.
func RegisterEnum(reg *registry.Registry, def EnumDef) (typehash.TypeHash, error) {
	hash := typehash.FromName(qualifiedName(def.Namespace, def.Name))
	entry := &registry.EnumEntry{
		NameStr:   def.Name,
		Namespace: def.Namespace,
		TypeHash:  hash,
		Values:    def.Values,
	}
	if err := reg.RegisterType(entry); err != nil {
		return 0, err
	}
	return hash, nil
}

// RegisterInterface registers an interface type. Methods are parsed for
// signature validation but have no implementation (abstract).
func RegisterInterface(reg *registry.Registry, def InterfaceDef) (typehash.TypeHash, error) {
	hash := typehash.FromName(qualifiedName(def.Namespace, def.Name))
	entry := &registry.InterfaceEntry{
		NameStr:   def.Name,
		Namespace: def.Namespace,
		TypeHash:  hash,
	}
	if err := reg.RegisterType(entry); err != nil {
		return 0, err
	}

	for _, decl := range def.Methods {
		sig, err := sigparse.ParseSignature(decl)
		if err != nil {
			return 0, &registry.RegistrationError{Kind: registry.InvalidDeclarationString, Name: decl, Detail: err.Error()}
		}
		fdef, paramHashes, err := toFunctionDef(reg, sig, hash, true, visibility.Public, false)
		if err != nil {
			return 0, err
		}
		fdef.IsAbstract = true
		mhash := MemberSignatureHash(entry.QualifiedName(), fdef.Name, paramHashes)
		fentry := &registry.FunctionEntry{Def: fdef, Hash: mhash, Impl: registry.Implementation{Kind: registry.ImplAbstract}, Src: registry.SourceFFI}
		if err := reg.RegisterFunction(fentry); err != nil {
			return 0, err
		}
		entry.Methods = append(entry.Methods, mhash)
	}
	return hash, nil
}

// RegisterFuncdef registers a named function-pointer type.
func RegisterFuncdef(reg *registry.Registry, def FuncdefDef) (typehash.TypeHash, error) {
	sig, err := sigparse.ParseSignature(def.Decl)
	if err != nil {
		return 0, &registry.RegistrationError{Kind: registry.InvalidDeclarationString, Name: def.Decl, Detail: err.Error()}
	}

	hash := typehash.FromName(sig.Name)
	params := make([]datatype.DataType, len(sig.Params))
	for i, p := range sig.Params {
		dt, err := toDataType(reg, p.Type)
		if err != nil {
			return 0, err
		}
		params[i] = dt
	}
	retType, err := toDataType(reg, sig.ReturnType)
	if err != nil {
		return 0, err
	}

	entry := &registry.FuncdefEntry{
		NameStr:    sig.Name,
		TypeHash:   hash,
		Params:     params,
		ReturnType: retType,
	}
	if err := reg.RegisterType(entry); err != nil {
		return 0, err
	}
	return hash, nil
}

func toFunctionDef(reg *registry.Registry, sig *sigparse.DeclaredSignature, owner typehash.TypeHash, isMethod bool, vis visibility.Visibility, isStatic bool) (registry.FunctionDef, []typehash.TypeHash, error) {
	params := make([]registry.Param, len(sig.Params))
	paramHashes := make([]typehash.TypeHash, len(sig.Params))
	for i, p := range sig.Params {
		dt, err := toDataType(reg, p.Type)
		if err != nil {
			return registry.FunctionDef{}, nil, err
		}
		params[i] = registry.Param{Name: p.Name, Type: dt}
		paramHashes[i] = dt.TypeHash
	}

	retType, err := toDataType(reg, sig.ReturnType)
	if err != nil {
		return registry.FunctionDef{}, nil, err
	}

	return registry.FunctionDef{
		Name:       sig.Name,
		Params:     params,
		ReturnType: retType,
		Owner:      owner,
		IsMethod:   isMethod,
		IsStatic:   isStatic,
		Visibility: vis,
	}, paramHashes, nil
}

// toDataType resolves a parsed declarator against the registry's type
// table, applying the array-sugar-desugars-to-array<T> rule from spec.md
// §6. Template-arg resolution (array<int> → a concrete instantiated type)
// is the template instantiator's job; at FFI-registration time we only
// resolve the base name, leaving template instantiation to pkg/compiler /
// pkg/template once the array template itself is registered.
func toDataType(reg *registry.Registry, dt sigparse.DeclaredType) (datatype.DataType, error) {
	if dt.ArrayDepth > 0 {
		inner := dt
		inner.ArrayDepth = 0
		if _, err := toDataType(reg, inner); err != nil {
			return datatype.DataType{}, err
		}
		arrayEntry, ok := reg.GetTypeByName("array")
		if !ok {
			return datatype.DataType{}, fmt.Errorf("ffi: %q[] used before the array template is registered", inner.Name)
		}
		result := datatype.Simple(arrayEntry.Hash())
		result.IsHandle = dt.IsHandle
		result.IsConst = dt.IsConst
		return result, nil
	}

	hash, ok := PrimitiveHash(dt.Name)
	if !ok {
		entry, found := reg.GetTypeByName(dt.Name)
		if !found {
			return datatype.DataType{}, fmt.Errorf("ffi: unknown type %q", dt.Name)
		}
		hash = entry.Hash()
	}

	result := datatype.Simple(hash)
	result.IsConst = dt.IsConst
	result.IsHandle = dt.IsHandle
	result.IsHandleToConst = dt.IsHandle && dt.IsConst
	switch dt.Ref {
	case sigparse.RefIn:
		result.IsReference = true
		result.RefMod = datatype.RefIn
	case sigparse.RefOut:
		result.IsReference = true
		result.RefMod = datatype.RefOut
	case sigparse.RefInOut:
		result.IsReference = true
		result.RefMod = datatype.RefInOut
	}
	return result, nil
}

// PrimitiveHash looks up the fixed type hash for a primitive keyword
// ("int", "double", "string", ...), exported so pkg/compiler's type
// resolution can share the same table instead of duplicating it.
func PrimitiveHash(name string) (typehash.TypeHash, bool) {
	switch name {
	case "void":
		return typehash.VOID, true
	case "bool":
		return typehash.BOOL, true
	case "int8":
		return typehash.INT8, true
	case "int16":
		return typehash.INT16, true
	case "int", "int32":
		return typehash.INT32, true
	case "int64":
		return typehash.INT64, true
	case "uint8":
		return typehash.UINT8, true
	case "uint16":
		return typehash.UINT16, true
	case "uint", "uint32":
		return typehash.UINT32, true
	case "uint64":
		return typehash.UINT64, true
	case "float":
		return typehash.FLOAT, true
	case "double":
		return typehash.DOUBLE, true
	case "string":
		return typehash.STRING, true
	default:
		return 0, false
	}
}

func qualifiedName(namespace []string, name string) string {
	if len(namespace) == 0 {
		return name
	}
	out := ""
	for _, ns := range namespace {
		out += ns + "::"
	}
	return out + name
}
