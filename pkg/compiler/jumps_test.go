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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJumpManagerContinueTargetOutsideLoop(t *testing.T) {
	m := NewJumpManager()
	assert.False(t, m.InLoop())
	_, err := m.ContinueTarget()
	assert.ErrorIs(t, err, BreakError{})
}

func TestJumpManagerBreakAndContinueInsideLoop(t *testing.T) {
	m := NewJumpManager()
	m.EnterLoop(7)
	assert.True(t, m.InLoop())

	target, err := m.ContinueTarget()
	assert.NoError(t, err)
	assert.Equal(t, 7, target)

	m.AddBreak(10)
	m.AddBreak(20)
	labels := m.ExitLoop()
	assert.Equal(t, []int{10, 20}, labels)
	assert.False(t, m.InLoop())
}

func TestJumpManagerNestedLoops(t *testing.T) {
	m := NewJumpManager()
	m.EnterLoop(1)
	m.EnterLoop(2)
	assert.Equal(t, 2, m.LoopDepth())

	target, _ := m.ContinueTarget()
	assert.Equal(t, 2, target)

	m.ExitLoop()
	target, _ = m.ContinueTarget()
	assert.Equal(t, 1, target)
}

func TestJumpManagerSwitchDoesNotCatchContinue(t *testing.T) {
	m := NewJumpManager()
	m.EnterLoop(5)
	m.EnterSwitch()

	target, err := m.ContinueTarget()
	assert.NoError(t, err)
	assert.Equal(t, 5, target, "continue inside a switch must target the enclosing loop")

	m.AddBreak(30)
	labels := m.ExitLoop()
	assert.Equal(t, []int{30}, labels, "break inside the switch is collected by the switch's own context")
}

func TestJumpManagerBreakOutsideLoopIsNoop(t *testing.T) {
	m := NewJumpManager()
	m.AddBreak(99) // no loop context active; must not panic
	assert.Equal(t, 0, m.LoopDepth())
}
