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

// Package bits implements the pure bit-field helpers the decoder and
// executor share: field extraction, sign extension, the barrel-shifter
// operations with carry-out, Thumb-expand-immediate, and add-with-carry.
// Every function follows the corresponding ARM pseudocode and is total --
// there are no failure modes at this level.
package bits

import "math/bits"

// Bits extracts the inclusive bit range [hi:lo] from x, right-justified.
func Bits(x uint32, hi, lo int) uint32 {
	width := hi - lo + 1
	mask := uint32(1)<<uint(width) - 1
	return (x >> uint(lo)) & mask
}

// Bit extracts a single bit as 0 or 1.
func Bit(x uint32, n int) uint32 {
	return (x >> uint(n)) & 1
}

// SignExtend sign-extends the low n bits of x to a full int32, returned as
// uint32 (two's complement bit pattern preserved).
func SignExtend(x uint32, n int) uint32 {
	shift := uint(32 - n)
	return uint32(int32(x<<shift) >> shift)
}

// Ror rotates x right by n bits (n is taken mod 32).
func Ror(x uint32, n uint) uint32 {
	return bits.RotateLeft32(x, -int(n%32))
}

// Clz counts leading zero bits, the CLZ instruction's result.
func Clz(x uint32) uint32 {
	return uint32(bits.LeadingZeros32(x))
}

// LslC is LSL_C from the ARM pseudocode: logical shift left with carry-out.
// shift == 0 is not a valid LSL_C shift amount per the pseudocode; callers
// must special-case a zero shift amount.
func LslC(x uint32, shift uint) (result uint32, carryOut bool) {
	if shift == 0 {
		return x, false
	}
	if shift > 32 {
		return 0, false
	}
	if shift == 32 {
		return 0, x&1 == 1
	}
	result = x << shift
	carryOut = (x>>(32-shift))&1 == 1
	return result, carryOut
}

// Lsl is the "don't care about carry" convenience wrapper used when building
// effective addresses.
func Lsl(x uint32, shift uint) uint32 {
	if shift == 0 {
		return x
	}
	if shift >= 32 {
		return 0
	}
	return x << shift
}

// LsrC is LSR_C: logical shift right with carry-out.
func LsrC(x uint32, shift uint) (result uint32, carryOut bool) {
	if shift == 0 {
		return x, false
	}
	if shift > 32 {
		return 0, false
	}
	if shift == 32 {
		return 0, (x>>31)&1 == 1
	}
	result = x >> shift
	carryOut = (x>>(shift-1))&1 == 1
	return result, carryOut
}

// Lsr is the carry-indifferent convenience wrapper.
func Lsr(x uint32, shift uint) uint32 {
	if shift == 0 {
		return x
	}
	if shift >= 32 {
		return 0
	}
	return x >> shift
}

// AsrC is ASR_C: arithmetic shift right with carry-out.
func AsrC(x uint32, shift uint) (result uint32, carryOut bool) {
	sx := int32(x)
	if shift == 0 {
		return x, false
	}
	if shift >= 32 {
		if sx < 0 {
			return 0xffffffff, true
		}
		return 0, false
	}
	result = uint32(sx >> shift)
	carryOut = (x>>(shift-1))&1 == 1
	return result, carryOut
}

// Asr is the carry-indifferent convenience wrapper.
func Asr(x uint32, shift uint) uint32 {
	r, _ := AsrC(x, shift)
	return r
}

// RorC is ROR_C: rotate right with carry-out.
func RorC(x uint32, shift uint) (result uint32, carryOut bool) {
	if shift == 0 {
		return x, false
	}
	if shift%32 == 0 {
		// A rotation by a multiple of 32 leaves x intact, but the carry-out
		// is still the last bit rotated through: bit 31 of the input.
		return x, (x>>31)&1 == 1
	}
	result = Ror(x, shift%32)
	carryOut = (result>>31)&1 == 1
	return result, carryOut
}

// RrxC is RRX_C: rotate right with extend, folding in the incoming carry as
// the new top bit.
func RrxC(x uint32, carryIn bool) (result uint32, carryOut bool) {
	carryOut = x&1 == 1
	result = x >> 1
	if carryIn {
		result |= 0x80000000
	}
	return result, carryOut
}

// ShiftType is the two-bit barrel-shifter type field decoded out of a data
// processing instruction's shift specifier.
type ShiftType int

const (
	ShiftLSL ShiftType = iota
	ShiftLSR
	ShiftASR
	ShiftRORorRRX
)

// DecodeImmShift implements DecodeImmShift from the ARM pseudocode: turns a
// two-bit type field and a five-bit immediate into a shift type and amount,
// handling the LSR/ASR #32 encoding of 0 and the RRX special case of ROR #0.
func DecodeImmShift(typ uint32, imm5 uint32) (t ShiftType, amount uint) {
	switch typ {
	case 0b00:
		return ShiftLSL, uint(imm5)
	case 0b01:
		if imm5 == 0 {
			return ShiftLSR, 32
		}
		return ShiftLSR, uint(imm5)
	case 0b10:
		if imm5 == 0 {
			return ShiftASR, 32
		}
		return ShiftASR, uint(imm5)
	default: // 0b11
		if imm5 == 0 {
			return ShiftRORorRRX, 0 // RRX
		}
		return ShiftRORorRRX, uint(imm5)
	}
}

// ShiftC applies a decoded shift type/amount to a value, per the Shift_C
// pseudocode, returning the carry-out that a flag-setting instruction should
// adopt.
func ShiftC(x uint32, t ShiftType, amount uint, carryIn bool) (result uint32, carryOut bool) {
	if amount == 0 && t != ShiftRORorRRX {
		return x, carryIn
	}
	switch t {
	case ShiftLSL:
		return LslC(x, amount)
	case ShiftLSR:
		return LsrC(x, amount)
	case ShiftASR:
		return AsrC(x, amount)
	default:
		if amount == 0 {
			return RrxC(x, carryIn)
		}
		return RorC(x, amount)
	}
}

// ThumbExpandImmC implements ThumbExpandImm_C: expands a Thumb-2 12-bit
// modified-immediate constant (i:imm3:a into the 12-bit encoding) into a
// 32-bit value plus the carry-out a flag-setting instruction should adopt.
func ThumbExpandImmC(imm12 uint32, carryIn bool) (result uint32, carryOut bool) {
	if Bits(imm12, 11, 10) == 0b00 {
		imm8 := Bits(imm12, 7, 0)
		switch Bits(imm12, 9, 8) {
		case 0b00:
			result = imm8
		case 0b01:
			result = imm8<<16 | imm8
		case 0b10:
			result = imm8<<24 | imm8<<8
		default:
			result = imm8<<24 | imm8<<16 | imm8<<8 | imm8
		}
		return result, carryIn
	}
	unrotated := 0x80 | Bits(imm12, 6, 0)
	rotation := Bits(imm12, 11, 7)
	result = Ror(unrotated, uint(rotation))
	carryOut = (result>>31)&1 == 1
	return result, carryOut
}

// AddWithCarry implements AddWithCarry from the pseudocode: a 32-bit add
// with an incoming carry, returning the sum plus the carry-out and
// signed-overflow flags used by every flag-setting ADD/SUB/CMP/CMN.
func AddWithCarry(x, y uint32, carryIn bool) (result uint32, carryOut, overflow bool) {
	cin := uint64(0)
	if carryIn {
		cin = 1
	}
	wide := uint64(x) + uint64(y) + cin
	result = uint32(wide)
	carryOut = wide > 0xffffffff
	sx, sy, sr := int32(x), int32(y), int32(result)
	overflow = (sx >= 0) == (sy >= 0) && (sr >= 0) != (sx >= 0)
	return result, carryOut, overflow
}
