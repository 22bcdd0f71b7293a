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

package registry

import (
	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/span"
	"github.com/kraklabs/angelgo/pkg/typehash"
	"github.com/kraklabs/angelgo/pkg/visibility"
)

// EntrySource distinguishes host-registered (FFI) entries from
// script-declared ones.
type EntrySource int

const (
	SourceFFI EntrySource = iota
	SourceScript
)

// TypeEntry is the tagged union over every kind of type the registry can
// hold: class, interface, enum, funcdef, primitive, or template parameter.
// Every consumer exhausts the variants via a type switch on Kind(); a
// method lookup on a primitive or enum is structurally impossible because
// those variants simply don't expose one.
type TypeEntry interface {
	Hash() typehash.TypeHash
	QualifiedName() string
	Kind() TypeEntryKind
}

// TypeEntryKind tags the concrete variant of a TypeEntry.
type TypeEntryKind int

const (
	KindClass TypeEntryKind = iota
	KindInterface
	KindEnum
	KindFuncdef
	KindPrimitive
	KindTemplateParameter
)

// Behaviors holds the lifecycle and operator-overload hooks attached to a
// class, each a function hash into the registry's function table (zero
// value means unset).
type Behaviors struct {
	Construct        []typehash.TypeHash
	Destruct         typehash.TypeHash
	Factory          []typehash.TypeHash
	ListFactory      typehash.TypeHash
	Copy             typehash.TypeHash
	AddRef           typehash.TypeHash
	Release          typehash.TypeHash
	GetWeakRefFlag   typehash.TypeHash
	TemplateCallback typehash.TypeHash
	GetRefCount      typehash.TypeHash
	SetGCFlag        typehash.TypeHash
	GetGCFlag        typehash.TypeHash
	EnumRefs         typehash.TypeHash
	ReleaseRefs      typehash.TypeHash
	// Operators maps an operator behavior name ("opAdd", "opEquals", ...)
	// to the candidate function hashes implementing it (overloads permitted).
	Operators map[string][]typehash.TypeHash
}

// Field is one class field.
type Field struct {
	Name       string
	Type       datatype.DataType
	Visibility visibility.Visibility
	SourceSpan span.Span
}

// ClassEntry is the Class variant of TypeEntry.
type ClassEntry struct {
	NameStr       string
	Namespace     []string
	TypeHash      typehash.TypeHash
	Src           EntrySource
	Fields        []Field
	Methods       []typehash.TypeHash
	Behave        Behaviors
	Base          typehash.TypeHash // zero value means no base
	HasBase       bool
	Interfaces    []typehash.TypeHash
	TemplateParams []string
	IsTemplate    bool
	IsAbstract    bool
	IsFinal       bool
	// VTable maps a signature hash to the overriding method's function
	// hash, populated by pass 2a by walking the base chain (base methods
	// first, overrides replacing by signature hash).
	VTable map[typehash.TypeHash]typehash.TypeHash
	// ITable maps (interface hash, method signature hash) to the
	// implementing method's function hash, populated by the interface
	// implementation checker in pass 2a.
	ITable map[ITableKey]typehash.TypeHash
	SourceSpan span.Span
}

// ITableKey identifies one interface-method slot a class's i-table fills.
type ITableKey struct {
	Interface typehash.TypeHash
	Method    typehash.TypeHash
}

func (c *ClassEntry) Hash() typehash.TypeHash  { return c.TypeHash }
func (c *ClassEntry) QualifiedName() string    { return qualify(c.Namespace, c.NameStr) }
func (c *ClassEntry) Kind() TypeEntryKind       { return KindClass }

// InterfaceEntry is the Interface variant of TypeEntry.
type InterfaceEntry struct {
	NameStr    string
	Namespace  []string
	TypeHash   typehash.TypeHash
	Methods    []typehash.TypeHash
	// ImplementedBy is populated in pass 2a as classes are verified to
	// implement this interface.
	ImplementedBy []typehash.TypeHash
	SourceSpan    span.Span
}

func (i *InterfaceEntry) Hash() typehash.TypeHash { return i.TypeHash }
func (i *InterfaceEntry) QualifiedName() string   { return qualify(i.Namespace, i.NameStr) }
func (i *InterfaceEntry) Kind() TypeEntryKind      { return KindInterface }

// EnumValue is one (name, value) member of an enum.
type EnumValue struct {
	Name  string
	Value int64
}

// EnumEntry is the Enum variant of TypeEntry.
type EnumEntry struct {
	NameStr    string
	Namespace  []string
	TypeHash   typehash.TypeHash
	Values     []EnumValue
	SourceSpan span.Span
}

func (e *EnumEntry) Hash() typehash.TypeHash { return e.TypeHash }
func (e *EnumEntry) QualifiedName() string   { return qualify(e.Namespace, e.NameStr) }
func (e *EnumEntry) Kind() TypeEntryKind      { return KindEnum }

// FuncdefEntry is the Funcdef variant of TypeEntry: a named
// function-signature type used for callbacks.
type FuncdefEntry struct {
	NameStr    string
	Namespace  []string
	TypeHash   typehash.TypeHash
	Params     []datatype.DataType
	ReturnType datatype.DataType
	// Parent is the owning template's type hash for child funcdefs
	// declared on a template; zero value for free-standing funcdefs.
	Parent     typehash.TypeHash
	SourceSpan span.Span
}

func (f *FuncdefEntry) Hash() typehash.TypeHash { return f.TypeHash }
func (f *FuncdefEntry) QualifiedName() string   { return qualify(f.Namespace, f.NameStr) }
func (f *FuncdefEntry) Kind() TypeEntryKind      { return KindFuncdef }

// PrimitiveKind identifies one of the built-in primitive types.
type PrimitiveKind int

const (
	PrimVoid PrimitiveKind = iota
	PrimBool
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
	PrimUint8
	PrimUint16
	PrimUint32
	PrimUint64
	PrimFloat
	PrimDouble
)

// PrimitiveEntry is the Primitive variant of TypeEntry.
type PrimitiveEntry struct {
	PrimKind PrimitiveKind
	TypeHash typehash.TypeHash
}

func (p *PrimitiveEntry) Hash() typehash.TypeHash { return p.TypeHash }
func (p *PrimitiveEntry) QualifiedName() string   { return primitiveNames[p.PrimKind] }
func (p *PrimitiveEntry) Kind() TypeEntryKind      { return KindPrimitive }

var primitiveNames = map[PrimitiveKind]string{
	PrimVoid: "void", PrimBool: "bool",
	PrimInt8: "int8", PrimInt16: "int16", PrimInt32: "int", PrimInt64: "int64",
	PrimUint8: "uint8", PrimUint16: "uint16", PrimUint32: "uint", PrimUint64: "uint64",
	PrimFloat: "float", PrimDouble: "double",
}

// TemplateParameterEntry is the TemplateParameter variant of TypeEntry: a
// placeholder like `T` inside a template's own body, substituted away
// during instantiation.
type TemplateParameterEntry struct {
	NameStr  string
	Index    int
	Owner    typehash.TypeHash
	TypeHash typehash.TypeHash
}

func (t *TemplateParameterEntry) Hash() typehash.TypeHash { return t.TypeHash }
func (t *TemplateParameterEntry) QualifiedName() string   { return t.NameStr }
func (t *TemplateParameterEntry) Kind() TypeEntryKind      { return KindTemplateParameter }

func qualify(namespace []string, name string) string {
	if len(namespace) == 0 {
		return name
	}
	out := ""
	for _, ns := range namespace {
		out += ns + "::"
	}
	return out + name
}

// FunctionImplKind tags a FunctionEntry's Implementation variant.
type FunctionImplKind int

const (
	ImplNative FunctionImplKind = iota
	ImplScript
	ImplAbstract
	ImplExternal
)

// NativeFn is the closure a host binds to a native function or method.
// Defined here (rather than pkg/ffi) because FunctionEntry needs to embed
// an implementation reference at the registry's core; pkg/ffi re-exports
// it for registration-time construction.
type NativeFn func(ctx NativeCallContext) error

// NativeCallContext is the subset of pkg/runtime.CallContext the registry
// layer depends on, kept narrow to avoid an import cycle (pkg/runtime
// will depend on pkg/registry for type lookups, not the reverse).
type NativeCallContext interface {
	ArgCount() int
}

// Implementation is the tagged union over a function's backing
// implementation.
type Implementation struct {
	Kind FunctionImplKind
	// Native is set when Kind == ImplNative (may be nil if the host only
	// reserved the slot, filled in later by a Module).
	Native NativeFn
	// Unit is set when Kind == ImplScript: the name of the compiled Unit
	// owning the function body.
	Unit string
	// Module is set when Kind == ImplExternal: the name of the module the
	// function is imported from.
	Module string
}

// Param is one function parameter.
type Param struct {
	Name    string
	Type    datatype.DataType
	HasDefault bool
}

// FunctionDef is the signature-level description of a function, shared by
// every FunctionEntry regardless of its Implementation.
type FunctionDef struct {
	Name       string
	Namespace  []string
	Params     []Param
	ReturnType datatype.DataType
	IsAbstract bool
	IsVirtual  bool
	IsOverride bool
	IsStatic   bool
	IsShared   bool
	// Owner is the declaring class's type hash for methods; zero value for
	// free functions.
	Owner      typehash.TypeHash
	IsMethod   bool
	Visibility visibility.Visibility
}

// FunctionEntry is one registered function or method.
type FunctionEntry struct {
	Def        FunctionDef
	Hash       typehash.TypeHash
	Impl       Implementation
	Src        EntrySource
	SourceSpan span.Span
	// DeclOrder is the order RegisterFunction assigned this entry, used to
	// break an overload-resolution tie in favor of the earlier declaration
	// (spec.md section 4.2).
	DeclOrder int
}

func (f *FunctionEntry) QualifiedName() string { return qualify(f.Def.Namespace, f.Def.Name) }
