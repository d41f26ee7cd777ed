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

// Package scs is the built-in System Control Space peripheral occupying
// 0xE000E000-0xE000EF00: SysTick, a right-sized NVIC (pending/enable/active
// bitmaps plus priority bytes), the SCB registers (ICSR, VTOR, AIRCR,
// SHCSR), and CPUID. A register-bank struct answering Read/Write by offset
// plus a Tick method; implements memsys.Peripheral.
package scs

import "github.com/gothumb/armcore/internal/armlog"

// Base is the fixed physical address at which the SCS is conventionally
// mapped by a host.
const Base = 0xe000e000

// Fixed exception numbers shared by every Cortex-M profile.
const (
	ExcReset     = 1
	ExcNMI       = 2
	ExcHardFault = 3
	ExcMemManage = 4
	ExcBusFault  = 5
	ExcUsageFault = 6
	ExcSVCall    = 11
	ExcDebugMon  = 12
	ExcPendSV    = 14
	ExcSysTick   = 15
	ExcIRQ0      = 16 // external interrupt 0 starts here
)

// Profile selects the CPUID constant and whether certain register banks
// exist (e.g. some v6-M parts have no configurable priority for every
// exception, but the difference is not architecturally significant at the
// level this core models).
type Profile int

const (
	ProfileV6M Profile = iota
	ProfileV7M
	ProfileV7EM
	ProfileV8M
)

func (p Profile) cpuid() uint32 {
	switch p {
	case ProfileV6M:
		return 0x410cc200
	case ProfileV7EM:
		return 0x412fc231
	case ProfileV8M:
		return 0x410fd213
	default: // v7-M
		return 0x412fc230
	}
}

// SCS is the System Control Space.
type SCS struct {
	profile     Profile
	numExtIRQs  int
	maxExc      uint32 // highest valid exception number (15 + numExtIRQs)

	pending []bool
	enabled []bool
	active  []bool
	priority []uint8 // one byte per exception number, index 0 unused

	vtor  uint32
	aircr uint32
	shcsr uint32
	icsr  uint32 // holds only the bits we don't derive (NMIPENDSET handled via pending[])

	// SysTick
	systickCSR   uint32
	systickLoad  uint32
	systickVal   uint32
	systickCalib uint32

	onSysResetReq func()
}

// New builds an SCS for the given profile, sized for numExternalIRQs
// external interrupt lines (NVIC lines 0..numExternalIRQs-1, exception
// numbers 16..16+numExternalIRQs-1). onSysResetReq is invoked when the host
// writes AIRCR.SYSRESETREQ; it may be nil.
func New(profile Profile, numExternalIRQs int, onSysResetReq func()) *SCS {
	maxExc := uint32(ExcIRQ0 + numExternalIRQs - 1)
	s := &SCS{
		profile:       profile,
		numExtIRQs:    numExternalIRQs,
		maxExc:        maxExc,
		pending:       make([]bool, maxExc+1),
		enabled:       make([]bool, maxExc+1),
		active:        make([]bool, maxExc+1),
		priority:      make([]uint8, maxExc+1),
		systickCalib:  10000, // arbitrary stable reference reload value
		onSysResetReq: onSysResetReq,
	}
	// the fixed-priority exceptions (Reset/NMI/HardFault) and the
	// always-enabled ones are implicitly enabled; SVCall/PendSV/SysTick are
	// enabled through SHCSR but we treat them as always deliverable since
	// priority/enable enforcement beyond "is it masked" is out of scope.
	// External IRQs start disabled until NVIC.ISER enables them.
	for i := range s.enabled {
		s.enabled[i] = i < ExcIRQ0
	}
	return s
}

// SetPending marks exception number n pending. Called by the host's
// exception-injection API, by SVC through the exec context's
// PendException, and by any peripheral holding a reference to the SCS.
// SysTick underflow sets its pending bit directly.
func (s *SCS) SetPending(n uint32) {
	if n == 0 || n > s.maxExc {
		armlog.Warnf("scs", "set-pending for out-of-range exception %d", n)
		return
	}
	s.pending[n] = true
}

// ClearPending clears exception number n's pending bit.
func (s *SCS) ClearPending(n uint32) {
	if n == 0 || n > s.maxExc {
		return
	}
	s.pending[n] = false
}

// IsPending reports whether exception n is pending.
func (s *SCS) IsPending(n uint32) bool {
	if n == 0 || n > s.maxExc {
		return false
	}
	return s.pending[n]
}

// IsEnabled reports whether exception n is currently enabled (external
// IRQs default enabled only once the host sets NVIC.ISER; internal
// exceptions are always considered enabled at this level of fidelity).
func (s *SCS) IsEnabled(n uint32) bool {
	if n == 0 || n > s.maxExc {
		return false
	}
	if n >= ExcIRQ0 {
		return s.enabled[n]
	}
	return true
}

// SetActive/ClearActive/IsActive track VECTACTIVE-relevant state used by
// the exception engine and ICSR.VECTACTIVE.
func (s *SCS) SetActive(n uint32)   { if n != 0 && n <= s.maxExc { s.active[n] = true } }
func (s *SCS) ClearActive(n uint32) { if n != 0 && n <= s.maxExc { s.active[n] = false } }
func (s *SCS) IsActive(n uint32) bool {
	if n == 0 || n > s.maxExc {
		return false
	}
	return s.active[n]
}

// Priority returns the priority byte (lower value = higher priority) for
// exception n. Reset/NMI/HardFault have fixed priorities -3/-2/-1
// (all three represented here as -1, below any configurable value).
func (s *SCS) Priority(n uint32) int {
	switch n {
	case ExcReset, ExcNMI, ExcHardFault:
		return -1
	}
	if n == 0 || n > s.maxExc {
		return 256
	}
	return int(s.priority[n])
}

// HighestPendingExceeding returns the pending, enabled exception with the
// numerically-lowest (highest-priority) priority value that exceeds (is
// more urgent than) the processor's current execution priority, honouring
// PRIMASK/FAULTMASK. Returns (0, false) if nothing qualifies. Priority
// *enforcement* within a running handler (preemption) is not modelled --
// this only answers "should Step take something right now", which is
// evaluated between instructions.
func (s *SCS) HighestPendingExceeding(currentPriority int, primask, faultmask bool) (uint32, bool) {
	if faultmask {
		return 0, false
	}
	best := uint32(0)
	bestPrio := 257
	for n := uint32(1); n <= s.maxExc; n++ {
		if !s.pending[n] || !s.IsEnabled(n) {
			continue
		}
		if primask && n != ExcNMI && n != ExcHardFault {
			continue
		}
		prio := s.Priority(n)
		if prio >= currentPriority {
			continue
		}
		if prio < bestPrio {
			bestPrio = prio
			best = n
		}
	}
	if best == 0 {
		return 0, false
	}
	return best, true
}

// AnyPending reports whether any exception is pending and enabled -- the
// WFI/WFE wakeup condition, since all exceptions are wakeup events.
func (s *SCS) AnyPending() bool {
	for n := uint32(1); n <= s.maxExc; n++ {
		if s.pending[n] && s.IsEnabled(n) {
			return true
		}
	}
	return false
}

// VTOR returns the vector table base address.
func (s *SCS) VTOR() uint32 { return s.vtor }

// SetVTOR installs the vector table base, forced to 32-byte alignment.
func (s *SCS) SetVTOR(v uint32) { s.vtor = v &^ 0x1f }

// VectorAddress returns the address of the vector table entry for
// exception n (4 bytes per entry, starting at VTOR).
func (s *SCS) VectorAddress(n uint32) uint32 { return s.vtor + 4*n }
