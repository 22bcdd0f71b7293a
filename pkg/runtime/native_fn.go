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

package runtime

import (
	"github.com/kraklabs/angelgo/pkg/registry"
	"github.com/kraklabs/angelgo/pkg/typehash"
)

// NativeCallable is anything a NativeFn can wrap: a plain Go func value
// satisfies it trivially via NativeFunc. Grounded on native_fn.rs's
// NativeCallable trait plus its blanket impl for FnMut closures — Go
// closures already play that role, so NativeFunc is the only
// implementation this package needs.
type NativeCallable interface {
	Call(ctx *CallContext) error
}

// NativeFunc adapts a plain function to NativeCallable, mirroring
// native_fn.rs's blanket closure implementation.
type NativeFunc func(ctx *CallContext) error

func (f NativeFunc) Call(ctx *CallContext) error { return f(ctx) }

// NativeFn is the registry-facing handle to a native implementation. Go
// closures are already reference values with no ownership ambiguity, so
// unlike native_fn.rs's Arc<dyn NativeCallable> there's nothing to clone:
// Bind just produces the registry.NativeFn closure registry.FunctionEntry
// expects.
type NativeFn struct {
	Callable NativeCallable
	// Funcdef is set when this native function also backs a funcdef type
	// (used as a callback signature), naming that funcdef's type hash.
	Funcdef typehash.TypeHash
}

// Bind produces the registry.NativeFn closure used to populate a
// FunctionEntry's Implementation.Native.
func (nf NativeFn) Bind() registry.NativeFn {
	return func(ctx registry.NativeCallContext) error {
		cc, ok := ctx.(*CallContext)
		if !ok {
			return &NativeError{Kind: NativeOther, Msg: "native call context is not a *runtime.CallContext"}
		}
		return nf.Callable.Call(cc)
	}
}

// CallContext is the bridge a NativeFn uses to read arguments, set the
// return value, allocate/release heap objects, and report a failure back
// to the VM loop. Grounded on native_fn.rs's NativeContext parameter and
// spec.md's CallContext.this/arg_count/arg/set_return/heap_mut/error
// contract.
type CallContext struct {
	this     Dynamic
	hasThis  bool
	args     []Dynamic
	ret      Dynamic
	heap     *ObjectHeap
	strings  registry.StringFactory
	failed   error
}

// NewCallContext builds a call context for invoking a function with the
// given this-value (absent for free functions) and arguments.
func NewCallContext(this Dynamic, hasThis bool, args []Dynamic, heap *ObjectHeap, strings registry.StringFactory) *CallContext {
	return &CallContext{this: this, hasThis: hasThis, args: args, heap: heap, strings: strings}
}

// This returns the call's receiver, or (zero, false) for a free function.
func (c *CallContext) This() (Dynamic, bool) {
	if !c.hasThis {
		return Dynamic{}, false
	}
	return c.this, true
}

// ArgCount reports the number of arguments passed, satisfying
// registry.NativeCallContext.
func (c *CallContext) ArgCount() int { return len(c.args) }

// Arg returns the i'th argument, or a NativeError if i is out of bounds.
func (c *CallContext) Arg(i int) (Dynamic, error) {
	if i < 0 || i >= len(c.args) {
		return Dynamic{}, &NativeError{Kind: NativeArgumentIndexOutOfBounds, Index: i}
	}
	return c.args[i], nil
}

// SetReturn records the function's return value.
func (c *CallContext) SetReturn(v Dynamic) { c.ret = v }

// Return returns the recorded return value.
func (c *CallContext) Return() Dynamic { return c.ret }

// Heap returns the object heap this call's allocations go through.
func (c *CallContext) Heap() *ObjectHeap { return c.heap }

// Strings returns the installed string factory, or nil if none is set.
func (c *CallContext) Strings() registry.StringFactory { return c.strings }

// Fail records a failure for the VM loop to surface once the native call
// returns. A NativeFn reports errors this way rather than by panicking.
func (c *CallContext) Fail(err error) { c.failed = err }

// Failed returns the error recorded via Fail, if any.
func (c *CallContext) Failed() error { return c.failed }
