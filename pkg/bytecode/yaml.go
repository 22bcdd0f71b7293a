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

package bytecode

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlModule is the serializable projection of a CompiledModule: function
// hashes become hex strings (a Go map keyed by typehash.TypeHash can't
// round-trip through yaml.v3's map-key handling the way a string key can).
type yamlModule struct {
	UnitName  string                   `yaml:"unit"`
	Functions map[string]yamlFunction `yaml:"functions"`
}

type yamlFunction struct {
	Name       string       `yaml:"name"`
	Params     []string     `yaml:"params"`
	ReturnType string       `yaml:"return_type"`
	Locals     []yamlLocal  `yaml:"locals"`
	Instrs     []yamlInstr  `yaml:"instrs"`
	Constants  []yamlConst  `yaml:"constants"`
}

type yamlLocal struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type yamlInstr struct {
	Op    string `yaml:"op"`
	A     uint64 `yaml:"a,omitempty"`
	Width string `yaml:"width,omitempty"`
}

type yamlConst struct {
	Type  string  `yaml:"type"`
	Int   int64   `yaml:"int,omitempty"`
	Float float64 `yaml:"float,omitempty"`
	Bool  bool    `yaml:"bool,omitempty"`
	Str   string  `yaml:"str,omitempty"`
}

var opNames = map[Op]string{
	OpLoadLocal: "load_local", OpStoreLocal: "store_local",
	OpLoadField: "load_field", OpStoreField: "store_field",
	OpLoadGlobal: "load_global", OpStoreGlobal: "store_global",
	OpPushConst: "push_const",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod", OpNeg: "neg",
	OpCmpEq: "cmp_eq", OpCmpNe: "cmp_ne", OpCmpLt: "cmp_lt", OpCmpLe: "cmp_le",
	OpCmpGt: "cmp_gt", OpCmpGe: "cmp_ge",
	OpBranchIfTrue: "branch_if_true", OpBranchIfFalse: "branch_if_false", OpJump: "jump",
	OpCallFunction: "call_function", OpCallMethodVirtual: "call_method_virtual",
	OpAllocObject: "alloc_object", OpAddRef: "add_ref", OpRelease: "release",
	OpReturn: "return",
}

var widthNames = map[Width]string{
	WidthNone: "", Width8: "8", Width16: "16", Width32: "32", Width64: "64",
	WidthFloat32: "f32", WidthFloat64: "f64",
}

func opName(o Op) string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// ToYAML renders m as a stable, human-readable debug dump. No angelgo
// subcommand calls it.
func (m *CompiledModule) ToYAML() ([]byte, error) {
	out := yamlModule{UnitName: m.UnitName, Functions: make(map[string]yamlFunction, len(m.Functions))}
	for hash, fn := range m.Functions {
		yf := yamlFunction{
			Name:       fn.Name,
			ReturnType: fmt.Sprintf("%d", fn.ReturnType.TypeHash),
		}
		for _, p := range fn.Params {
			yf.Params = append(yf.Params, fmt.Sprintf("%d", p.TypeHash))
		}
		for _, l := range fn.Locals {
			yf.Locals = append(yf.Locals, yamlLocal{Name: l.Name, Type: fmt.Sprintf("%d", l.Type.TypeHash)})
		}
		for _, i := range fn.Body.Instrs {
			yf.Instrs = append(yf.Instrs, yamlInstr{Op: opName(i.Op), A: i.A, Width: widthNames[i.Width]})
		}
		for _, c := range fn.Body.Constants {
			yf.Constants = append(yf.Constants, yamlConst{
				Type: fmt.Sprintf("%d", c.Type.TypeHash), Int: c.Int, Float: c.Float, Bool: c.Bool, Str: string(c.Str),
			})
		}
		out.Functions[fmt.Sprintf("%016x", uint64(hash))] = yf
	}
	return yaml.Marshal(out)
}
