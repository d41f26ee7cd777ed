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

// CondPassed implements ConditionPassed from the ARM pseudocode for the 14
// standard condition codes plus AL. It takes explicit flags instead of a
// receiver so decode-time condition checks don't need a live PSR.
func CondPassed(cond uint8, n, z, c, v bool) bool {
	switch cond {
	case 0b0000: // EQ
		return z
	case 0b0001: // NE
		return !z
	case 0b0010: // CS/HS
		return c
	case 0b0011: // CC/LO
		return !c
	case 0b0100: // MI
		return n
	case 0b0101: // PL
		return !n
	case 0b0110: // VS
		return v
	case 0b0111: // VC
		return !v
	case 0b1000: // HI
		return c && !z
	case 0b1001: // LS
		return !c || z
	case 0b1010: // GE
		return n == v
	case 0b1011: // LT
		return n != v
	case 0b1100: // GT
		return !z && n == v
	case 0b1101: // LE
		return z || n != v
	case 0b1110, 0b1111: // AL (0b1111 is the reserved "always" encoding, also AL)
		return true
	}
	return true
}

// Passes evaluates cond against the PSR's current flags.
func (p *PSR) Passes(cond uint8) bool {
	return CondPassed(cond, p.n, p.z, p.c, p.v)
}
