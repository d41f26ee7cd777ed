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

// Package armerr defines the error taxonomy: decode errors, memory
// errors, architectural faults and host-driven errors. Each kind is a
// concrete type so a host can type-switch on it; each wraps a sentinel so
// errors.Is works without inspecting fields.
package armerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel base errors. Concrete error values wrap one of these so a host
// can test with errors.Is without inspecting every field.
var (
	ErrUndefinedInstruction    = errors.New("undefined instruction")
	ErrUnimplementedInstruction = errors.New("unimplemented instruction")
	ErrUnmapped                = errors.New("unmapped address")
	ErrWriteToROM              = errors.New("write to read-only memory")
	ErrUnaligned               = errors.New("unaligned access")
	ErrUsageFault               = errors.New("usage fault")
	ErrBusFault                 = errors.New("bus fault")
	ErrMemManage                = errors.New("mem manage fault")
	ErrHardFault                 = errors.New("hard fault")
	ErrMapConflict              = errors.New("region map conflict")
	ErrInvalidRegister          = errors.New("invalid register")
	ErrInvalidConfiguration     = errors.New("invalid configuration")
)

// UndefinedInstruction is raised when an encoding has no concrete
// architectural meaning (UNPREDICTABLE with no defined result).
type UndefinedInstruction struct {
	Addr      uint32
	Halfwords []uint16
}

func (e *UndefinedInstruction) Error() string {
	return fmt.Sprintf("%s: addr=0x%08x halfwords=%04x", ErrUndefinedInstruction, e.Addr, e.Halfwords)
}

func (e *UndefinedInstruction) Unwrap() error { return ErrUndefinedInstruction }

// UnimplementedInstruction is raised for an instruction that is architecturally
// legal but that this emulator has not implemented.
type UnimplementedInstruction struct {
	Addr    uint32
	Mnemonic string
}

func (e *UnimplementedInstruction) Error() string {
	return fmt.Sprintf("%s: %s at 0x%08x", ErrUnimplementedInstruction, e.Mnemonic, e.Addr)
}

func (e *UnimplementedInstruction) Unwrap() error { return ErrUnimplementedInstruction }

// MemoryFaultKind distinguishes the memory-system-level failure modes
// before they are escalated to an architectural fault.
type MemoryFaultKind int

const (
	Unmapped MemoryFaultKind = iota
	WriteToROM
	Unaligned
)

func (k MemoryFaultKind) String() string {
	switch k {
	case Unmapped:
		return "unmapped"
	case WriteToROM:
		return "write-to-rom"
	case Unaligned:
		return "unaligned"
	default:
		return "unknown"
	}
}

// MemoryError is the concrete error returned by the address space.
type MemoryError struct {
	Kind  MemoryFaultKind
	Addr  uint32
	Width int
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("%s: addr=0x%08x width=%d", e.Kind, e.Addr, e.Width)
}

func (e *MemoryError) Unwrap() error {
	switch e.Kind {
	case WriteToROM:
		return ErrWriteToROM
	case Unaligned:
		return ErrUnaligned
	default:
		return ErrUnmapped
	}
}

// FaultKind names an architectural fault sub-category (escalation target).
type FaultKind string

const (
	FaultUnaligned   FaultKind = "UNALIGNED"
	FaultInvalidPC   FaultKind = "INVPC"
	FaultInvalidState FaultKind = "INVSTATE"
	FaultUndefined   FaultKind = "UNDEFINSTR"
	FaultBusError    FaultKind = "BUSERR"
)

// ArchitecturalFault is raised when an escalation to UsageFault, BusFault,
// MemManage or HardFault occurs.
type ArchitecturalFault struct {
	Class FaultCategory
	Kind  FaultKind
	Addr  uint32
}

// FaultCategory is one of the four architectural fault families.
type FaultCategory string

const (
	CategoryUsageFault FaultCategory = "UsageFault"
	CategoryBusFault   FaultCategory = "BusFault"
	CategoryMemManage  FaultCategory = "MemManage"
	CategoryHardFault  FaultCategory = "HardFault"
)

func (e *ArchitecturalFault) Error() string {
	return fmt.Sprintf("%s(%s): addr=0x%08x", e.Class, e.Kind, e.Addr)
}

func (e *ArchitecturalFault) Unwrap() error {
	switch e.Class {
	case CategoryUsageFault:
		return ErrUsageFault
	case CategoryBusFault:
		return ErrBusFault
	case CategoryMemManage:
		return ErrMemManage
	default:
		return ErrHardFault
	}
}

// MapConflict is raised by the host-facing map/map_rom/map_peripheral API
// when a new region overlaps an existing one.
type MapConflict struct {
	Base, Len       uint32
	ExistingBase    uint32
	ExistingLen     uint32
}

func (e *MapConflict) Error() string {
	return fmt.Sprintf("%s: [0x%08x,0x%08x) overlaps existing [0x%08x,0x%08x)",
		ErrMapConflict, e.Base, e.Base+e.Len, e.ExistingBase, e.ExistingBase+e.ExistingLen)
}

func (e *MapConflict) Unwrap() error { return ErrMapConflict }
