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
	"github.com/kraklabs/angelgo/pkg/bytecode"
	"github.com/kraklabs/angelgo/pkg/conv"
	"github.com/kraklabs/angelgo/pkg/datatype"
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/span"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

// funcCompiler holds the state needed to type-check and emit bytecode for
// one function body, global-variable initializer, or lambda. Grounded on
// spec.md section 4.5's per-function compilation algorithm.
type funcCompiler struct {
	c      *Compiler
	st     *unitState
	module *bytecode.CompiledModule
	result *CompilationResult

	scope *LocalScope
	jumps *JumpManager
	chunk *bytecode.Chunk

	ownerClass *registry.ClassEntry // nil for free functions/globals
	returnType datatype.DataType
	isVoid     bool
	sawReturn  bool

	// callerID is the function hash recorded as the source of any call-graph
	// edge this body's call expressions produce; zero for global-variable
	// initializers, which have no function identity of their own.
	callerID typehash.TypeHash

	lambdaCounter *int
}

func (c *Compiler) newFuncCompiler(st *unitState, module *bytecode.CompiledModule, result *CompilationResult, owner *registry.ClassEntry, returnType datatype.DataType) *funcCompiler {
	counter := 0
	return &funcCompiler{
		c:             c,
		st:            st,
		module:        module,
		result:        result,
		scope:         NewLocalScope(),
		jumps:         NewJumpManager(),
		chunk:         &bytecode.Chunk{},
		ownerClass:    owner,
		returnType:    returnType,
		isVoid:        returnType.IsVoid(),
		lambdaCounter: &counter,
	}
}

func (fc *funcCompiler) hierarchy() conv.Hierarchy {
	return registry.Hierarchy{Reg: fc.c.reg}
}

func boolType() datatype.DataType {
	return datatype.Simple(typehash.BOOL)
}

// findConversion looks up an implicit (or, for casts, explicit) conversion,
// reporting TypeMismatch on failure.
func (fc *funcCompiler) findConversion(source, target datatype.DataType, kind conv.CastKind, sp span.Span) (conv.Conversion, bool) {
	c, ok := conv.Find(source, target, kind, fc.hierarchy())
	if !ok {
		fc.result.Add(&CompilationError{Kind: TypeMismatch, Span: sp, Detail: "no conversion available"})
		return conv.Conversion{}, false
	}
	return c, true
}

// methodCandidates gathers overload candidates for a method name on class:
// every v-table entry whose name matches (so inherited methods are
// visible). Global functions are not included; globalFuncCandidates
// gathers those.
func (fc *funcCompiler) methodCandidates(class *registry.ClassEntry, name string) []*registry.FunctionEntry {
	var out []*registry.FunctionEntry
	seen := map[typehash.TypeHash]bool{}
	for _, mHash := range class.VTable {
		fn, ok := fc.c.reg.GetFunction(mHash)
		if !ok || fn.Def.Name != name || seen[mHash] {
			continue
		}
		seen[mHash] = true
		out = append(out, fn)
	}
	return out
}

// resolveOverload picks the minimum-cost candidate whose parameters all
// accept args by implicit conversion (extra trailing parameters are
// permitted only when they declare a default), per spec.md section 4.5
// item 2's call-resolution algorithm. A tie on total cost is broken first
// by the candidate with the cheaper worst-matching argument, then by
// declaration order (the earlier-declared candidate wins); only a tie that
// survives both is reported AmbiguousCall. Returns the winning entry and
// the per-argument conversions (parallel to args), or ok=false with an
// error already recorded.
func (fc *funcCompiler) resolveOverload(name string, candidates []*registry.FunctionEntry, args []exprInfo, sp span.Span) (*registry.FunctionEntry, []conv.Conversion, bool) {
	var matches []overloadCandidate

	for _, fn := range candidates {
		if len(args) > len(fn.Def.Params) {
			continue
		}
		ok := true
		var total, max uint32
		convs := make([]conv.Conversion, len(args))
		for i, arg := range args {
			p := fn.Def.Params[i]
			cnv, found := conv.Find(arg.Type, p.Type, conv.ImplicitCast, fc.hierarchy())
			if !found {
				ok = false
				break
			}
			convs[i] = cnv
			total += cnv.Cost
			if cnv.Cost > max {
				max = cnv.Cost
			}
		}
		if !ok {
			continue
		}
		for i := len(args); i < len(fn.Def.Params); i++ {
			if !fn.Def.Params[i].HasDefault {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		matches = append(matches, overloadCandidate{fn: fn, convs: convs, cost: total, maxArgCost: max})
	}

	if len(matches) == 0 {
		fc.result.Add(&CompilationError{Kind: NoMatchingOverload, Span: sp, Name: name, Detail: "no overload accepts the given arguments"})
		return nil, nil, false
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m.betterThan(best) {
			best = m
		}
	}
	ambiguous := false
	for _, m := range matches {
		if m.fn == best.fn {
			continue
		}
		if !best.betterThan(m) {
			ambiguous = true
			break
		}
	}
	if ambiguous {
		fc.result.Add(&CompilationError{Kind: AmbiguousCall, Span: sp, Name: name, Detail: "multiple overloads tie at the lowest cost"})
		return nil, nil, false
	}
	return best.fn, best.convs, true
}

// overloadCandidate is one overload that accepts the call's arguments, with
// enough cost detail to apply spec.md section 4.2's tie-break chain.
type overloadCandidate struct {
	fn         *registry.FunctionEntry
	convs      []conv.Conversion
	cost       uint32 // sum of per-argument conversion costs
	maxArgCost uint32 // the single costliest argument conversion
}

// betterThan reports whether c should be preferred over other: lowest total
// cost wins; a tie is broken by the cheaper worst-matching single argument,
// then by whichever was declared first.
func (c overloadCandidate) betterThan(other overloadCandidate) bool {
	if c.cost != other.cost {
		return c.cost < other.cost
	}
	if c.maxArgCost != other.maxArgCost {
		return c.maxArgCost < other.maxArgCost
	}
	return c.fn.DeclOrder < other.fn.DeclOrder
}
