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

package cpu

// PSR is the xPSR: APSR (N,Z,C,V,Q in bits 31..27), IPSR (current
// exception number, bits 8..0), EPSR (T-bit at 24, ITSTATE split across
// bits 26..25 and 15..10). The condition flags and ITSTATE are stored as
// separate fields for cheap per-instruction access; Pack/Unpack derive the
// packed word hosts and the exception engine observe, so both views always
// agree at instruction boundaries.
type PSR struct {
	n, z, c, v, q bool
	exception     uint32 // IPSR: currently active exception number, 0 = Thread
	itCond        uint8  // base condition (bits 7..4 of ITSTATE)
	itMask        uint8  // remaining-instruction mask (bits 3..0 of ITSTATE)
	tBit          bool   // EPSR T-bit; always true for this Thumb-only core
}

// NZCV returns the four APSR condition flags.
func (p *PSR) NZCV() (n, z, c, v bool) { return p.n, p.z, p.c, p.v }

// SetNZCV bulk-sets the four APSR condition flags, as used by every
// flag-setting arithmetic/logic instruction.
func (p *PSR) SetNZCV(n, z, c, v bool) {
	p.n, p.z, p.c, p.v = n, z, c, v
}

// SetNZFromResult sets N and Z from a computed 32-bit result, leaving C and
// V untouched -- the common case for flag-setting logical instructions that
// derive C from the barrel shifter rather than from the ALU result.
func (p *PSR) SetNZFromResult(result uint32) {
	p.n = result&0x80000000 != 0
	p.z = result == 0
}

// Q returns the sticky saturation flag.
func (p *PSR) Q() bool { return p.q }

// SetQ sets the sticky saturation flag. Once set it stays set until the
// host or an explicit clear operation resets it.
func (p *PSR) SetQ(v bool) {
	if v {
		p.q = true
	}
}

// ClearQ clears the sticky saturation flag (used by MSR APSR writes that
// supply a fresh APSR value).
func (p *PSR) ClearQ() { p.q = false }

// Exception returns the IPSR exception number (0 in Thread mode).
func (p *PSR) Exception() uint32 { return p.exception }

// SetException sets IPSR; used by the exception engine on entry/return.
func (p *PSR) SetException(n uint32) { p.exception = n }

// ITState returns the packed 8-bit ITSTATE (base condition in bits 7..4,
// mask in bits 3..0).
func (p *PSR) ITState() uint8 {
	return p.itCond<<4 | p.itMask
}

// SetITState installs a raw 8-bit ITSTATE value, as decoded from an IT
// instruction or restored from a stacked xPSR on exception return.
func (p *PSR) SetITState(v uint8) {
	p.itCond = (v >> 4) & 0xf
	p.itMask = v & 0xf
}

// InITBlock reports whether an IT block is currently open.
func (p *PSR) InITBlock() bool { return p.itMask != 0 }

// ITCond/ITMask expose the split ITSTATE fields directly.
func (p *PSR) ITCond() uint8 { return p.itCond }
func (p *PSR) ITMask() uint8 { return p.itMask }

// CurrentCond returns the condition code that should gate the next
// instruction: the base IT condition if a block is open (possibly inverted
// per the Then/Else mask bit), or AL (0b1110) outside any block.
func (p *PSR) CurrentCond() uint8 {
	if !p.InITBlock() {
		return 0b1110
	}
	return p.itCond
}

// AdvanceIT implements the ARM pseudocode's ITAdvance(): itCond's least
// significant bit is overwritten with the mask's top remaining bit before
// the mask itself shifts, which is what gives each instruction in an
// If-Then-Else block its own effective polarity even though itCond's upper
// three bits never change. ITSTATE clears entirely once the block has run
// its course. Called once per instruction, whether executed or skipped
// under a false condition.
func (p *PSR) AdvanceIT() {
	if !p.InITBlock() {
		return
	}
	if p.itMask&0b0111 == 0 {
		p.itCond = 0
		p.itMask = 0
		return
	}
	p.itCond = (p.itCond &^ 1) | (p.itMask >> 3)
	p.itMask = (p.itMask << 1) & 0b1111
}

// Pack returns the full 32-bit xPSR as the hardware lays it out: APSR in
// bits 31..27, ITSTATE[1:0] in bits 26..25, T-bit at 24, ITSTATE[7:2] in
// bits 15..10, IPSR in bits 8..0.
func (p *PSR) Pack() uint32 {
	var v uint32
	if p.n {
		v |= 1 << 31
	}
	if p.z {
		v |= 1 << 30
	}
	if p.c {
		v |= 1 << 29
	}
	if p.v {
		v |= 1 << 28
	}
	if p.q {
		v |= 1 << 27
	}
	it := p.ITState()
	v |= uint32(it&0b11) << 25
	if p.tBit {
		v |= 1 << 24
	}
	v |= uint32(it>>2) << 10
	v |= p.exception & 0x1ff
	return v
}

// Unpack loads the full packed xPSR word into the scattered fields,
// restoring coherence -- used by exception return when the stacked xPSR is
// popped back into the register file.
func (p *PSR) Unpack(v uint32) {
	p.n = v&(1<<31) != 0
	p.z = v&(1<<30) != 0
	p.c = v&(1<<29) != 0
	p.v = v&(1<<28) != 0
	p.q = v&(1<<27) != 0
	itLow := uint8((v >> 25) & 0b11)
	itHigh := uint8((v >> 10) & 0b111111)
	p.SetITState(itHigh<<2 | itLow)
	p.tBit = v&(1<<24) != 0
	p.exception = v & 0x1ff
}

// SetTBit is provided for completeness of the packed view; this core only
// ever executes Thumb code so it is always true after reset.
func (p *PSR) SetTBit(v bool) { p.tBit = v }
func (p *PSR) TBit() bool     { return p.tBit }
