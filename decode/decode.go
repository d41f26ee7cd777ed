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

package decode

import "github.com/gothumb/armcore/bits"

// Is32Bit is the decoder's first stage: bits 15..11 of the first halfword
// distinguish 16-bit encodings from 32-bit ones. Per the ARM ARM, a
// leading 0b11101, 0b11110 or 0b11111 five-bit pattern always begins a
// 32-bit Thumb-2 instruction; every other value is a complete 16-bit
// instruction.
func Is32Bit(hw1 uint16) bool {
	top5 := bits.Bits(uint32(hw1), 15, 11)
	return top5 == 0b11101 || top5 == 0b11110 || top5 == 0b11111
}

// Decode decodes the instruction at addr. hw1 is the halfword at addr; hw2
// is the halfword at addr+2 and is only consulted if Is32Bit(hw1) is true,
// so callers fetch it conditionally. The returned Descriptor records its own Size (2 or 4) so the
// driver can advance the PC.
func Decode(hw1, hw2 uint16, addr uint32) Descriptor {
	if !Is32Bit(hw1) {
		return Decode16(hw1, addr)
	}
	return Decode32(hw1, hw2, addr)
}
