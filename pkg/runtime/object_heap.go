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

// ObjectHandle references a heap slot by index plus a generation counter,
// so a stale handle into a freed-and-reused slot is detectable rather than
// silently aliasing the new occupant.
//
// Grounded on original_source/crates/angelscript-core/src/runtime/object_heap.rs.
type ObjectHandle struct {
	Index      uint32
	Generation uint32
	TypeHash   typehash.TypeHash
}

type slot struct {
	occupied   bool
	generation uint32
	typeHash   typehash.TypeHash
	refCount   uint32
	value      interface{}
}

// ObjectHeap is a generational object store: Allocate returns a handle,
// Get validates the handle's generation and type before returning the
// value, and Release drops a reference, freeing and bumping the slot's
// generation once the count reaches zero.
type ObjectHeap struct {
	slots    []slot
	freeList []uint32

	allocCount uint64
	freeCount  uint64
}

// NewObjectHeap creates an empty heap.
func NewObjectHeap() *ObjectHeap {
	return &ObjectHeap{}
}

// HeapStats reports cumulative allocation activity, for observability
// (internal/metrics counters).
type HeapStats struct {
	Live      int
	Allocated uint64
	Freed     uint64
}

// Stats returns the heap's cumulative allocation/free counts plus the
// current live-slot count.
func (h *ObjectHeap) Stats() HeapStats {
	return HeapStats{Live: len(h.slots) - len(h.freeList), Allocated: h.allocCount, Freed: h.freeCount}
}

// Allocate stores value under typeHash and returns a fresh handle with
// RefCount 1.
func (h *ObjectHeap) Allocate(typeHash typehash.TypeHash, value interface{}) ObjectHandle {
	h.allocCount++
	if n := len(h.freeList); n > 0 {
		idx := h.freeList[n-1]
		h.freeList = h.freeList[:n-1]
		s := &h.slots[idx]
		s.occupied = true
		s.typeHash = typeHash
		s.refCount = 1
		s.value = value
		return ObjectHandle{Index: idx, Generation: s.generation, TypeHash: typeHash}
	}

	idx := uint32(len(h.slots))
	h.slots = append(h.slots, slot{
		occupied:   true,
		generation: 0,
		typeHash:   typeHash,
		refCount:   1,
		value:      value,
	})
	return ObjectHandle{Index: idx, Generation: 0, TypeHash: typeHash}
}

func (h *ObjectHeap) lookup(handle ObjectHandle) (*slot, bool) {
	if int(handle.Index) >= len(h.slots) {
		return nil, false
	}
	s := &h.slots[handle.Index]
	if !s.occupied || s.generation != handle.Generation || s.typeHash != handle.TypeHash {
		return nil, false
	}
	return s, true
}

// Get returns the value stored at handle, or (nil, false) if handle is
// stale (generation mismatch, type mismatch, or the slot was freed).
func (h *ObjectHeap) Get(handle ObjectHandle) (interface{}, bool) {
	s, ok := h.lookup(handle)
	if !ok {
		return nil, false
	}
	return s.value, true
}

// AddRef increments handle's reference count, saturating at MaxUint32
// rather than overflowing. Returns false if handle is stale.
func (h *ObjectHeap) AddRef(handle ObjectHandle) bool {
	s, ok := h.lookup(handle)
	if !ok {
		return false
	}
	if s.refCount < ^uint32(0) {
		s.refCount++
	}
	return true
}

// RefCount returns handle's current reference count, or (0, false) if
// stale.
func (h *ObjectHeap) RefCount(handle ObjectHandle) (uint32, bool) {
	s, ok := h.lookup(handle)
	if !ok {
		return 0, false
	}
	return s.refCount, true
}

// Release decrements handle's reference count. When it reaches zero the
// slot is freed (value dropped, generation incremented so outstanding
// stale handles no longer resolve, slot index pushed onto the free list)
// and Release returns (true, true): the object was actually freed. If the
// count is still positive after decrementing, it returns (false, true).
// If handle is already stale, it returns (false, false).
//
// The generation counter wraps on overflow (Go's uint32 arithmetic does
// this for free); a handle surviving 2^32 alloc/free cycles on the same
// slot to collide with a fresh one is accepted as benign.
func (h *ObjectHeap) Release(handle ObjectHandle) (freed bool, ok bool) {
	s, ok := h.lookup(handle)
	if !ok {
		return false, false
	}
	if s.refCount > 0 {
		s.refCount--
	}
	if s.refCount == 0 {
		s.occupied = false
		s.value = nil
		s.generation++
		h.freeList = append(h.freeList, handle.Index)
		h.freeCount++
		return true, true
	}
	return false, true
}

// Len reports the number of slots ever allocated (occupied or freed),
// i.e. the heap's backing storage size.
func (h *ObjectHeap) Len() int {
	return len(h.slots)
}
