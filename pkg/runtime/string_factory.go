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

import "github.com/kraklabs/angelgo/pkg/typehash"

// StringFactory materializes string literals into opaque runtime values in
// the host's chosen string representation. The default implementation
// returns literals as plain Go strings (the payload Dynamic's KindString
// holds), not as Dynamic values, which is
// the natural choice absent a host override registering its own string
// type (e.g. a ref-counted or interned string object).
//
// Satisfies pkg/registry.StringFactory.
type StringFactory struct {
	hash typehash.TypeHash
}

// NewStringFactory returns the default string factory, bound to the
// built-in string primitive's type hash.
func NewStringFactory() *StringFactory {
	return &StringFactory{hash: typehash.STRING}
}

// Create materializes a string literal's bytes into an opaque runtime
// value — here, a Go string.
func (f *StringFactory) Create(b []byte) (interface{}, error) {
	return string(b), nil
}

// TypeHash returns the type hash string literals resolve to.
func (f *StringFactory) TypeHash() typehash.TypeHash { return f.hash }
