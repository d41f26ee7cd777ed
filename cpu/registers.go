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

// Package cpu models the Cortex-M architectural register file: the 16
// core registers with banked stack-pointer variants, the packed xPSR view
// (APSR/IPSR/EPSR), the exception-mask registers PRIMASK/FAULTMASK/BASEPRI,
// CONTROL, and IT-block state.
package cpu

import "github.com/gothumb/armcore/internal/armlog"

// Mode is the processor mode: Thread (application code) or Handler
// (exception handler).
type Mode int

const (
	Thread Mode = iota
	Handler
)

func (m Mode) String() string {
	if m == Handler {
		return "Handler"
	}
	return "Thread"
}

// Control models the CONTROL register's three architectural bits.
type Control struct {
	NPriv bool // 0: privileged, 1: unprivileged (Thread mode only)
	SPSEL bool // 0: use MSP, 1: use PSP (Thread mode only; Handler always MSP)
	FPCA  bool // floating-point context active (FP is out of scope; kept for bit fidelity)
}

// Pack returns the three-bit CONTROL value as the hardware lays it out.
func (c Control) Pack() uint32 {
	var v uint32
	if c.NPriv {
		v |= 1 << 0
	}
	if c.SPSEL {
		v |= 1 << 1
	}
	if c.FPCA {
		v |= 1 << 2
	}
	return v
}

// Unpack loads Control from a raw three-bit value.
func (c *Control) Unpack(v uint32) {
	c.NPriv = v&(1<<0) != 0
	c.SPSEL = v&(1<<1) != 0
	c.FPCA = v&(1<<2) != 0
}

// Registers is the full architectural register file: r0-r12, banked SP, LR,
// PC, the PSR, and the exception-mask/CONTROL registers.
type Registers struct {
	r          [13]uint32 // r0..r12
	spMain     uint32
	spProcess  uint32
	lr         uint32
	pc         uint32 // address of the instruction currently executing
	mode       Mode
	control    Control
	psr        PSR
	primask    bool
	faultmask  bool
	basepri    uint8
}

// Reset puts the register file in its post-reset state: all GPRs zero,
// Thread mode, MSP selected, no active exception, no IT block.
func (r *Registers) Reset() {
	*r = Registers{}
	r.psr.SetTBit(true)
}

// activeSPIsProcess reports whether the process stack (PSP) is the live SP:
// never in Handler mode, and in Thread mode when CONTROL.SPSEL selects it.
func (r *Registers) activeSPIsProcess() bool {
	return r.mode == Thread && r.control.SPSEL
}

// R reads general-purpose register n (0-15). Reading r13 yields the active
// banked SP; reading r15 yields PC+4, the architectural pipeline-offset
// read value, regardless of the size of the instruction being executed.
func (r *Registers) R(n int) uint32 {
	switch {
	case n >= 0 && n <= 12:
		return r.r[n]
	case n == 13:
		if r.activeSPIsProcess() {
			return r.spProcess
		}
		return r.spMain
	case n == 14:
		return r.lr
	case n == 15:
		return r.pc + 4
	default:
		armlog.Errorf("cpu", "read of invalid register r%d", n)
		return 0
	}
}

// SetR writes general-purpose register n. Writing r13 forces bits[1:0] to
// zero. Writing r15 sets PC with bit 0 cleared; interworking checks on
// bit 0 are the caller's responsibility (the exec package's writePC and
// interworkingWritePC), since MOV-to-PC semantics differ by instruction
// family.
func (r *Registers) SetR(n int, v uint32) {
	switch {
	case n >= 0 && n <= 12:
		r.r[n] = v
	case n == 13:
		v &^= 0b11
		if r.activeSPIsProcess() {
			r.spProcess = v
		} else {
			r.spMain = v
		}
	case n == 14:
		r.lr = v
	case n == 15:
		r.pc = v &^ 1
	default:
		armlog.Errorf("cpu", "write of invalid register r%d", n)
	}
}

// PC returns the address of the instruction currently being executed (not
// the pipelined PC+4 value R(15) returns).
func (r *Registers) PC() uint32 { return r.pc }

// SetPC sets the address of the instruction about to execute. Used by the
// driver to advance the PC and by branch/interworking instructions; bit 0
// is always cleared since fetch always uses the Thumb-aligned address.
func (r *Registers) SetPC(v uint32) { r.pc = v &^ 1 }

// MSP/PSP give direct, unbanked access to each stack pointer, independent
// of which one is currently active -- used by the exception engine, which
// always stacks on a specific, known SP regardless of CONTROL.SPSEL.
func (r *Registers) MSP() uint32      { return r.spMain }
func (r *Registers) SetMSP(v uint32)  { r.spMain = v &^ 0b11 }
func (r *Registers) PSP() uint32      { return r.spProcess }
func (r *Registers) SetPSP(v uint32)  { r.spProcess = v &^ 0b11 }

// LR/SetLR give direct access to r14 without going through R/SetR.
func (r *Registers) LR() uint32     { return r.lr }
func (r *Registers) SetLR(v uint32) { r.lr = v }

// Mode returns the current processor mode.
func (r *Registers) Mode() Mode { return r.mode }

// SetMode switches between Thread and Handler mode. Entering Handler mode
// always selects MSP, per the architecture.
func (r *Registers) SetMode(m Mode) { r.mode = m }

// Control returns a copy of the CONTROL register.
func (r *Registers) Control() Control { return r.control }

// SetControl installs a new CONTROL register value.
func (r *Registers) SetControl(c Control) { r.control = c }

// PRIMASK/FAULTMASK/BASEPRI accessors.
func (r *Registers) PRIMASK() bool      { return r.primask }
func (r *Registers) SetPRIMASK(v bool)  { r.primask = v }
func (r *Registers) FAULTMASK() bool    { return r.faultmask }
func (r *Registers) SetFAULTMASK(v bool) { r.faultmask = v }
func (r *Registers) BASEPRI() uint8     { return r.basepri }
func (r *Registers) SetBASEPRI(v uint8) { r.basepri = v }

// PSR returns a pointer to the packed program status register.
func (r *Registers) PSR() *PSR { return &r.psr }
