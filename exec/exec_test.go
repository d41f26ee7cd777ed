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

package exec_test

import (
	"testing"

	"github.com/gothumb/armcore/bits"
	"github.com/gothumb/armcore/cpu"
	"github.com/gothumb/armcore/decode"
	"github.com/gothumb/armcore/exec"
	"github.com/gothumb/armcore/memsys"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T) *exec.Context {
	t.Helper()
	bus := memsys.NewBus()
	require.NoError(t, bus.Map(0x20000000, make([]byte, 0x1000)))
	return &exec.Context{Reg: &cpu.Registers{}, Bus: bus}
}

func run16(t *testing.T, ctx *exec.Context, hw uint16) {
	t.Helper()
	require.NoError(t, exec.Execute(ctx, decode.Decode(hw, 0, ctx.Reg.PC())))
}

func run32(t *testing.T, ctx *exec.Context, hw1, hw2 uint16) {
	t.Helper()
	require.NoError(t, exec.Execute(ctx, decode.Decode(hw1, hw2, ctx.Reg.PC())))
}

func TestDivideByZeroYieldsZero(t *testing.T) {
	ctx := newContext(t)
	ctx.Reg.SetR(0, 0xffff)
	ctx.Reg.SetR(1, 0)

	run32(t, ctx, 0xFB90, 0xF2F1) // sdiv r2, r0, r1
	require.EqualValues(t, 0, ctx.Reg.R(2))

	run32(t, ctx, 0xFBB0, 0xF2F1) // udiv r2, r0, r1
	require.EqualValues(t, 0, ctx.Reg.R(2))
	require.False(t, ctx.Reg.PSR().Q())
}

func TestSignedDivideRoundsTowardZero(t *testing.T) {
	ctx := newContext(t)
	ctx.Reg.SetR(0, uint32(0xfffffff9)) // -7
	ctx.Reg.SetR(1, 2)

	run32(t, ctx, 0xFB90, 0xF2F1) // sdiv r2, r0, r1
	require.EqualValues(t, uint32(0xfffffffd), ctx.Reg.R(2)) // -3
}

func TestPreIndexWritebackUpdatesBase(t *testing.T) {
	ctx := newContext(t)
	ctx.Reg.SetR(0, 0xaabbccdd)
	ctx.Reg.SetR(1, 0x20000100)

	// str r0, [r1, #4]! -> stores at 0x20000104 and leaves r1 there
	run32(t, ctx, 0xF841, 0x0F04)
	require.EqualValues(t, 0x20000104, ctx.Reg.R(1))
	v, err := ctx.Bus.ReadBytes(0x20000104, 4)
	require.NoError(t, err)
	require.EqualValues(t, 0xaabbccdd, v)
}

func TestPostIndexWritebackUpdatesBaseAfterAccess(t *testing.T) {
	ctx := newContext(t)
	require.NoError(t, ctx.Bus.WriteBytes(0x20000100, 4, 0x11223344))
	ctx.Reg.SetR(1, 0x20000100)

	// ldr r0, [r1], #4 -> loads from 0x20000100, then r1 += 4
	run32(t, ctx, 0xF851, 0x0B04)
	require.EqualValues(t, 0x11223344, ctx.Reg.R(0))
	require.EqualValues(t, 0x20000104, ctx.Reg.R(1))
}

func TestLdmBaseInListSuppressesWriteback(t *testing.T) {
	ctx := newContext(t)
	require.NoError(t, ctx.Bus.WriteBytes(0x20000100, 4, 0x1111))
	require.NoError(t, ctx.Bus.WriteBytes(0x20000104, 4, 0x2222))
	ctx.Reg.SetR(1, 0x20000100)

	// ldm r1!, {r0, r1}: the loaded value wins over the written-back base
	run16(t, ctx, 0xC903)
	require.EqualValues(t, 0x1111, ctx.Reg.R(0))
	require.EqualValues(t, 0x2222, ctx.Reg.R(1))
}

func TestStmAscendingRegisterOrder(t *testing.T) {
	ctx := newContext(t)
	ctx.Reg.SetR(0, 0xa0)
	ctx.Reg.SetR(2, 0xa2)
	ctx.Reg.SetR(4, 0x20000100)

	// stm r4!, {r0, r2}: r0 at the lowest address
	run16(t, ctx, 0xC405)
	lo, _ := ctx.Bus.ReadBytes(0x20000100, 4)
	hi, _ := ctx.Bus.ReadBytes(0x20000104, 4)
	require.EqualValues(t, 0xa0, lo)
	require.EqualValues(t, 0xa2, hi)
	require.EqualValues(t, 0x20000108, ctx.Reg.R(4))
}

func TestStmdbWidePushesDescending(t *testing.T) {
	ctx := newContext(t)
	ctx.Reg.SetR(4, 0x44)
	ctx.Reg.SetR(5, 0x55)
	ctx.Reg.SetR(13, 0x20000100)

	// stmdb sp!, {r4, r5} (push.w)
	run32(t, ctx, 0xE92D, 0x0030)
	require.EqualValues(t, 0x200000f8, ctx.Reg.R(13))
	lo, _ := ctx.Bus.ReadBytes(0x200000f8, 4)
	hi, _ := ctx.Bus.ReadBytes(0x200000fc, 4)
	require.EqualValues(t, 0x44, lo)
	require.EqualValues(t, 0x55, hi)
}

func TestLogicalShiftedOperandCarriesOut(t *testing.T) {
	ctx := newContext(t)
	ctx.Reg.SetR(1, 0x80000001)

	// movs r0, r1, lsl #1 (16-bit lsls r0, r1, #1): carry out = old bit 31
	run16(t, ctx, 0x0048)
	_, _, c, _ := ctx.Reg.PSR().NZCV()
	require.True(t, c)
	require.EqualValues(t, 2, ctx.Reg.R(0))
}

func TestBXWithClearedBitZeroFaults(t *testing.T) {
	ctx := newContext(t)
	ctx.Reg.SetR(1, 0x1000) // bit 0 clear: ARM-state request

	err := exec.Execute(ctx, decode.Decode(0x4708, 0, 0)) // bx r1
	require.Error(t, err)
}

func TestLoadLiteralAlignsPCBase(t *testing.T) {
	ctx := newContext(t)
	require.NoError(t, ctx.Bus.Map(0x1000, make([]byte, 0x100)))
	require.NoError(t, ctx.Bus.WriteBytes(0x1008, 4, 0xcafe0001))

	// ldr.w r0, [pc, #4] at 0x1002: base is Align(0x1002+4, 4) = 0x1004,
	// not the raw pipeline value 0x1006.
	ctx.Reg.SetPC(0x1002)
	run32(t, ctx, 0xF8DF, 0x0004)
	require.EqualValues(t, 0xcafe0001, ctx.Reg.R(0))
}

func TestAddWideToPCAlignsBase(t *testing.T) {
	ctx := newContext(t)

	// addw r0, pc, #4 at 0x1002 (the 32-bit ADR form): 0x1004 + 4.
	ctx.Reg.SetPC(0x1002)
	run32(t, ctx, 0xF20F, 0x0004)
	require.EqualValues(t, 0x1008, ctx.Reg.R(0))
}

func TestRotateByThirtyTwoCarriesTopBit(t *testing.T) {
	ctx := newContext(t)
	ctx.Reg.SetR(0, 0x80000000)
	ctx.Reg.SetR(1, 32)

	// rors r0, r1: the value is unchanged but C becomes the top bit.
	run16(t, ctx, 0x41C8)
	require.EqualValues(t, 0x80000000, ctx.Reg.R(0))
	_, _, c, _ := ctx.Reg.PSR().NZCV()
	require.True(t, c)
}

func TestThumbExpandImmMatchesDataProcessing(t *testing.T) {
	ctx := newContext(t)
	// the 0x00XY00XY replication form:
	// mov.w r0, #0x00780078 (imm12 = 0b0_0001_01111000)
	run32(t, ctx, 0xF04F, 0x1078)
	want, _ := bits.ThumbExpandImmC(0b0_0001_01111000, false)
	require.Equal(t, want, ctx.Reg.R(0))
	require.EqualValues(t, 0x00780078, ctx.Reg.R(0))
}
