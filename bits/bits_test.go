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

package bits_test

import (
	"testing"

	"github.com/gothumb/armcore/bits"
	"github.com/stretchr/testify/require"
)

func TestBitsAndSignExtend(t *testing.T) {
	require.Equal(t, uint32(0b101), bits.Bits(0b11010100, 6, 4))
	require.Equal(t, uint32(1), bits.Bit(0b10, 1))
	require.Equal(t, uint32(0xfffffff8), bits.SignExtend(0b1000, 4))
	require.Equal(t, uint32(0x00000008), bits.SignExtend(0b01000, 5))
}

func TestShiftWithCarry(t *testing.T) {
	r, c := bits.LslC(0x80000000, 1)
	require.Equal(t, uint32(0), r)
	require.True(t, c)

	r, c = bits.LsrC(0x1, 1)
	require.Equal(t, uint32(0), r)
	require.True(t, c)

	r, c = bits.AsrC(0x80000000, 31)
	require.Equal(t, uint32(0xffffffff), r)
	require.False(t, c)

	r, c = bits.RrxC(0x1, true)
	require.Equal(t, uint32(0x80000000), r)
	require.True(t, c)
}

func TestThumbExpandImm(t *testing.T) {
	// imm12 = 0x0AA: the zero-extended imm8 form producing 0xAA
	v, _ := bits.ThumbExpandImmC(0b0_0000_10101010, false)
	require.Equal(t, uint32(0xaa), v)

	// replicated-byte forms
	v, _ = bits.ThumbExpandImmC(0b0_0001_00000101, false)
	require.Equal(t, uint32(0x00050005), v)
}

func TestAddWithCarry(t *testing.T) {
	sum, c, v := bits.AddWithCarry(5, ^uint32(2), true) // 5 - 2
	require.Equal(t, uint32(3), sum)
	require.True(t, c)
	require.False(t, v)

	sum, c, v = bits.AddWithCarry(0x7fffffff, 1, false)
	require.Equal(t, uint32(0x80000000), sum)
	require.False(t, c)
	require.True(t, v)
}

func TestDecodeImmShiftAndShiftC(t *testing.T) {
	typ, amount := bits.DecodeImmShift(0b01, 0)
	require.Equal(t, bits.ShiftLSR, typ)
	require.EqualValues(t, 32, amount)

	r, c := bits.ShiftC(1, typ, amount, false)
	require.Equal(t, uint32(0), r)
	require.False(t, c)
}
