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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

func newClass(name string) *ClassEntry {
	return &ClassEntry{NameStr: name, TypeHash: typehash.FromName(name), VTable: map[typehash.TypeHash]typehash.TypeHash{}}
}

func TestRegisterTypeAndLookup(t *testing.T) {
	r := New(nil)
	c := newClass("Player")
	require.NoError(t, r.RegisterType(c))

	got, ok := r.GetType(c.TypeHash)
	require.True(t, ok)
	assert.Equal(t, "Player", got.QualifiedName())

	byName, ok := r.GetTypeByName("Player")
	require.True(t, ok)
	assert.Equal(t, c.TypeHash, byName.Hash())
}

func TestRegisterTypeDuplicateFailsAndLeavesRegistryUnchanged(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.RegisterType(newClass("Player")))

	err := r.RegisterType(newClass("Player"))
	require.Error(t, err)
	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, DuplicateType, regErr.Kind)

	// Unchanged: still exactly one Player type.
	_, ok := r.GetTypeByName("Player")
	assert.True(t, ok)
}

func TestGetTypeByUnqualifiedWalksNamespacesOutward(t *testing.T) {
	r := New(nil)
	root := &ClassEntry{NameStr: "Vec", TypeHash: typehash.FromName("Vec")}
	nested := &ClassEntry{NameStr: "Vec", Namespace: []string{"math"}, TypeHash: typehash.FromName("math::Vec")}
	require.NoError(t, r.RegisterType(root))
	require.NoError(t, r.RegisterType(nested))

	// Both math::Vec and Vec are reachable from inside math, so the
	// unqualified lookup is ambiguous rather than silently shadowing.
	_, err := r.GetTypeByUnqualified("Vec", []string{"math"})
	require.Error(t, err)
	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, AmbiguousName, regErr.Kind)

	got, err := r.GetTypeByUnqualified("Vec", nil)
	require.NoError(t, err)
	assert.Equal(t, root.TypeHash, got.Hash())
}

func TestGetTypeByUnqualifiedResolvesUniqueNestedName(t *testing.T) {
	r := New(nil)
	nested := &ClassEntry{NameStr: "Quat", Namespace: []string{"math"}, TypeHash: typehash.FromName("math::Quat")}
	require.NoError(t, r.RegisterType(nested))

	got, err := r.GetTypeByUnqualified("Quat", []string{"math"})
	require.NoError(t, err)
	assert.Equal(t, nested.TypeHash, got.Hash())

	_, err = r.GetTypeByUnqualified("Quat", nil)
	require.Error(t, err)
	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, UnknownType, regErr.Kind)
}

func newFunc(name string, params ...typehash.TypeHash) *FunctionEntry {
	var ps []Param
	var hashParts []typehash.TypeHash
	for _, p := range params {
		ps = append(ps, Param{Type: datatype.Simple(p)})
		hashParts = append(hashParts, p)
	}
	return &FunctionEntry{
		Def:  FunctionDef{Name: name, Params: ps, ReturnType: datatype.Simple(typehash.INT32)},
		Hash: typehash.FromSignature(name, hashParts, false),
	}
}

func TestRegisterFunctionAllowsOverloads(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.RegisterFunction(newFunc("foo", typehash.INT32)))
	require.NoError(t, r.RegisterFunction(newFunc("foo", typehash.DOUBLE)))

	candidates := r.LookupFunctions("foo")
	assert.Len(t, candidates, 2)
}

func TestRegisterFunctionAmbiguousOverloadFails(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.RegisterFunction(newFunc("foo", typehash.INT32)))

	err := r.RegisterFunction(newFunc("foo", typehash.INT32))
	require.Error(t, err)
	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, AmbiguousOverload, regErr.Kind)
}

func TestImportMergesAndRejectsConflicts(t *testing.T) {
	host := New(nil)
	require.NoError(t, host.RegisterType(newClass("Player")))

	unit := New(nil)
	require.NoError(t, unit.Import(host))
	_, ok := unit.GetTypeByName("Player")
	assert.True(t, ok)

	conflicting := New(nil)
	conflicting.typesByName["Player"] = typehash.FromName("SomethingElse")
	err := unit.Import(conflicting)
	assert.Error(t, err)
}

func TestCallGraphRecordsBothDirections(t *testing.T) {
	r := New(nil)
	caller := typehash.FromName("main")
	callee := typehash.FromName("add")
	r.RecordCall(caller, callee)
	r.RecordCall(caller, callee) // idempotent

	assert.Equal(t, []typehash.TypeHash{callee}, r.CalleesOf(caller))
	assert.Equal(t, []typehash.TypeHash{caller}, r.CallersOf(callee))
}

func TestStringFactoryInstallation(t *testing.T) {
	r := New(nil)
	_, ok := r.GetStringTypeHash()
	assert.False(t, ok)

	r.InstallStringFactory(fakeStringFactory{})
	h, ok := r.GetStringTypeHash()
	require.True(t, ok)
	assert.Equal(t, typehash.STRING, h)
}

type fakeStringFactory struct{}

func (fakeStringFactory) Create(b []byte) (interface{}, error) { return string(b), nil }
func (fakeStringFactory) TypeHash() typehash.TypeHash            { return typehash.STRING }

func TestHierarchyAdapterWalksBaseChain(t *testing.T) {
	r := New(nil)
	base := newClass("Entity")
	derived := newClass("Sprite")
	derived.HasBase = true
	derived.Base = base.TypeHash
	require.NoError(t, r.RegisterType(base))
	require.NoError(t, r.RegisterType(derived))

	h := Hierarchy{Reg: r}
	got, ok := h.BaseOf(derived.TypeHash)
	require.True(t, ok)
	assert.Equal(t, base.TypeHash, got)

	_, ok = h.BaseOf(base.TypeHash)
	assert.False(t, ok)
}

func TestHierarchyAdapterImplementsWalksAncestors(t *testing.T) {
	r := New(nil)
	iface := typehash.FromName("IDraw")
	base := newClass("Entity")
	base.Interfaces = []typehash.TypeHash{iface}
	derived := newClass("Sprite")
	derived.HasBase = true
	derived.Base = base.TypeHash
	require.NoError(t, r.RegisterType(base))
	require.NoError(t, r.RegisterType(derived))

	h := Hierarchy{Reg: r}
	assert.True(t, h.Implements(derived.TypeHash, iface))
	assert.False(t, h.Implements(derived.TypeHash, typehash.FromName("IOther")))
}
