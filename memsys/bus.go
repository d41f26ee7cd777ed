// This file is part of the armcore emulator.
//
// armcore is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// armcore is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with armcore. If not, see <https://www.gnu.org/licenses/>.

// Package memsys is the address-space routing layer: it dispatches
// loads/stores to RAM, ROM, and peripheral backing stores mapped by the
// host, enforcing alignment and the read-only/unmapped fault rules, and
// defines the peripheral contract those objects implement.
package memsys

import (
	"sort"

	"github.com/gothumb/armcore/internal/armerr"
	"github.com/gothumb/armcore/internal/armlog"
)

// Peripheral is the contract a memory-mapped device implements: sized
// reads/writes relative to its base address plus an abstract clock tick.
type Peripheral interface {
	// Read returns the value at the given byte offset from the peripheral's
	// base address, for the given width (1, 2 or 4).
	Read(offset uint32, width int) uint32
	// Write stores value at the given byte offset, for the given width.
	Write(offset uint32, width int, value uint32)
	// Tick advances the peripheral's internal clock by cycles (the driver
	// calls this once per executed instruction).
	Tick(cycles uint32)
}

// backingKind distinguishes the three region backings.
type backingKind int

const (
	backingRAM backingKind = iota
	backingROM
	backingPeripheral
)

// Region is a single mapped [Base, Base+Len) range.
type Region struct {
	Base    uint32
	Len     uint32
	kind    backingKind
	bytes   []byte     // RAM/ROM backing
	periph  Peripheral // peripheral backing
}

func (r *Region) contains(addr uint32) bool {
	return addr >= r.Base && addr < r.Base+r.Len
}

// coversAccess reports whether the whole [addr, addr+width) access fits
// inside the region; an access straddling the region's end is treated as
// unmapped rather than silently reading past the backing buffer.
func (r *Region) coversAccess(addr uint32, width int) bool {
	return addr-r.Base+uint32(width) <= r.Len
}

func overlaps(aBase, aLen, bBase, bLen uint32) bool {
	aEnd := aBase + aLen
	bEnd := bBase + bLen
	return aBase < bEnd && bBase < aEnd
}

// Bus is the processor's address space: a linear scan over a small number
// of non-overlapping regions (region counts are small, typically under
// sixteen, so nothing cleverer than a sorted slice is warranted).
type Bus struct {
	regions []*Region
}

// NewBus returns an empty address space.
func NewBus() *Bus {
	return &Bus{}
}

// Map installs a writable RAM region at base, initialized from the given
// bytes (copied). Returns armerr.MapConflict if the region overlaps an
// existing one.
func (b *Bus) Map(base uint32, data []byte) error {
	return b.mapRegion(base, uint32(len(data)), backingRAM, append([]byte(nil), data...), nil)
}

// MapROM installs a read-only ROM region at base, initialized from the
// given bytes (copied).
func (b *Bus) MapROM(base uint32, data []byte) error {
	return b.mapRegion(base, uint32(len(data)), backingROM, append([]byte(nil), data...), nil)
}

// MapPeripheral attaches a peripheral object covering [base, base+len).
func (b *Bus) MapPeripheral(base, length uint32, p Peripheral) error {
	return b.mapRegion(base, length, backingPeripheral, nil, p)
}

func (b *Bus) mapRegion(base, length uint32, kind backingKind, data []byte, p Peripheral) error {
	for _, r := range b.regions {
		if overlaps(base, length, r.Base, r.Len) {
			return &armerr.MapConflict{Base: base, Len: length, ExistingBase: r.Base, ExistingLen: r.Len}
		}
	}
	r := &Region{Base: base, Len: length, kind: kind, bytes: data, periph: p}
	b.regions = append(b.regions, r)
	sort.Slice(b.regions, func(i, j int) bool { return b.regions[i].Base < b.regions[j].Base })
	return nil
}

// Unmap removes the region starting at base, if any. Used by hosts that
// want to reconfigure the address space between runs.
func (b *Bus) Unmap(base uint32) {
	for i, r := range b.regions {
		if r.Base == base {
			b.regions = append(b.regions[:i], b.regions[i+1:]...)
			return
		}
	}
}

func (b *Bus) find(addr uint32) *Region {
	for _, r := range b.regions {
		if r.contains(addr) {
			return r
		}
	}
	return nil
}

func alignedFor(addr uint32, width int) bool {
	switch width {
	case 2:
		return addr&0b1 == 0
	case 4:
		return addr&0b11 == 0
	default:
		return true
	}
}

// ReadBytes reads width (1, 2 or 4) bytes at addr, little-endian.
// Word/halfword accesses to normal memory are alignment-checked; unaligned
// accesses return an Unaligned MemoryError. Accesses routed to a
// peripheral are delivered as-is -- the peripheral decides.
func (b *Bus) ReadBytes(addr uint32, width int) (uint32, error) {
	r := b.find(addr)
	if r == nil {
		armlog.Warnf("memsys", "read from unmapped address 0x%08x", addr)
		return 0, &armerr.MemoryError{Kind: armerr.Unmapped, Addr: addr, Width: width}
	}
	if r.kind != backingPeripheral && !alignedFor(addr, width) {
		return 0, &armerr.MemoryError{Kind: armerr.Unaligned, Addr: addr, Width: width}
	}
	if !r.coversAccess(addr, width) {
		return 0, &armerr.MemoryError{Kind: armerr.Unmapped, Addr: addr, Width: width}
	}
	switch r.kind {
	case backingPeripheral:
		return r.periph.Read(addr-r.Base, width), nil
	default:
		return readLE(r.bytes, addr-r.Base, width), nil
	}
}

// WriteBytes writes width (1, 2 or 4) bytes of value at addr, little-endian.
func (b *Bus) WriteBytes(addr uint32, width int, value uint32) error {
	r := b.find(addr)
	if r == nil {
		armlog.Warnf("memsys", "write to unmapped address 0x%08x", addr)
		return &armerr.MemoryError{Kind: armerr.Unmapped, Addr: addr, Width: width}
	}
	if r.kind == backingROM {
		return &armerr.MemoryError{Kind: armerr.WriteToROM, Addr: addr, Width: width}
	}
	if r.kind != backingPeripheral && !alignedFor(addr, width) {
		return &armerr.MemoryError{Kind: armerr.Unaligned, Addr: addr, Width: width}
	}
	if !r.coversAccess(addr, width) {
		return &armerr.MemoryError{Kind: armerr.Unmapped, Addr: addr, Width: width}
	}
	switch r.kind {
	case backingPeripheral:
		r.periph.Write(addr-r.Base, width, value)
	default:
		writeLE(r.bytes, addr-r.Base, width, value)
	}
	return nil
}

// ReadHalfwordForFetch reads one instruction halfword at addr. Fetch always
// asserts halfword alignment and never traps to the alignment-fault path
// (an unaligned fetch is an architectural impossibility given how PC is
// maintained, so this is a hard assertion rather than a recoverable fault).
func (b *Bus) ReadHalfwordForFetch(addr uint32) (uint16, error) {
	if addr&1 != 0 {
		return 0, &armerr.MemoryError{Kind: armerr.Unaligned, Addr: addr, Width: 2}
	}
	v, err := b.ReadBytes(addr, 2)
	return uint16(v), err
}

// Tick advances every mapped peripheral's clock by cycles.
func (b *Bus) Tick(cycles uint32) {
	for _, r := range b.regions {
		if r.kind == backingPeripheral {
			r.periph.Tick(cycles)
		}
	}
}

// Peripheral looks up the peripheral mapped at exactly base, if any. Used
// by hosts that want a typed handle back (e.g. the SCS) after mapping it.
func (b *Bus) Peripheral(base uint32) Peripheral {
	for _, r := range b.regions {
		if r.kind == backingPeripheral && r.Base == base {
			return r.periph
		}
	}
	return nil
}

func readLE(buf []byte, off uint32, width int) uint32 {
	switch width {
	case 1:
		return uint32(buf[off])
	case 2:
		return uint32(buf[off]) | uint32(buf[off+1])<<8
	default:
		return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
	}
}

func writeLE(buf []byte, off uint32, width int, v uint32) {
	switch width {
	case 1:
		buf[off] = byte(v)
	case 2:
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
	default:
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
		buf[off+2] = byte(v >> 16)
		buf[off+3] = byte(v >> 24)
	}
}
