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

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserErrorMessage(t *testing.T) {
	ue := NewConfigError("Cannot read config", "file missing", "run init", nil)
	assert.Equal(t, "Cannot read config: file missing", ue.Error())
}

func TestUserErrorMessageWithoutDetail(t *testing.T) {
	ue := &UserError{Kind: KindInternal, Title: "boom"}
	assert.Equal(t, "boom", ue.Error())
}

func TestUserErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	ue := NewPermissionError("Cannot write", "write failed", "check perms", cause)
	assert.ErrorIs(t, ue, cause)
}

func TestNewConfigErrorKind(t *testing.T) {
	ue := NewConfigError("t", "d", "s", nil)
	assert.Equal(t, KindConfig, ue.Kind)
}

func TestNewDatabaseErrorKind(t *testing.T) {
	ue := NewDatabaseError("t", "d", "s", nil)
	assert.Equal(t, KindDatabase, ue.Kind)
}
