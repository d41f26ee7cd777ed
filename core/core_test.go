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

package core_test

import (
	"encoding/binary"
	"testing"

	"github.com/gothumb/armcore/config"
	"github.com/gothumb/armcore/core"
	"github.com/gothumb/armcore/cpu"
	"github.com/gothumb/armcore/scs"
	"github.com/stretchr/testify/require"
)

// asBytes packs a little-endian Thumb halfword stream.
func asBytes(halfwords ...uint16) []byte {
	buf := make([]byte, len(halfwords)*2)
	for i, hw := range halfwords {
		binary.LittleEndian.PutUint16(buf[i*2:], hw)
	}
	return buf
}

func newTestProcessor(t *testing.T) *core.Processor {
	t.Helper()
	p := core.New(config.DefaultProfile())
	require.NoError(t, p.Bus.Map(0x20000000, make([]byte, 0x1000)))
	p.SetSP(0x20001000)
	return p
}

func TestArithmeticAndBranch(t *testing.T) {
	p := newTestProcessor(t)

	// MOVS r0,#5 ; ADDS r1,r0,#3 ; CMP r1,#8 ; BEQ +2 (skip MOVS r2,#9) ; MOVS r2,#1
	code := asBytes(
		0x2005, // MOVS r0,#5
		0x1CC1, // ADDS r1,r0,#3
		0x2908, // CMP r1,#8
		0xD000, // BEQ pc+4 (skips the next 2-byte instruction)
		0x2209, // MOVS r2,#9 (skipped)
		0x2201, // MOVS r2,#1 (branch target)
	)
	require.NoError(t, p.Bus.MapROM(0x1000, code))
	p.SetPC(0x1000)

	_, err := p.Run(core.RunOptions{Gas: 5})
	require.NoError(t, err)

	require.EqualValues(t, 5, p.Register(0))
	require.EqualValues(t, 8, p.Register(1))
	require.EqualValues(t, 1, p.Register(2))
}

func TestITBlockGivesElseInstructionInvertedPolarity(t *testing.T) {
	p := newTestProcessor(t)
	p.SetRegister(0, 0)
	p.SetRegister(3, 0x99)

	code := asBytes(
		0x2800, // CMP r0,#0          (Z=1)
		0xBF06, // ITTE EQ
		0x2101, // MOVS r1,#1 (T)
		0x2202, // MOVS r2,#2 (T)
		0x2303, // MOVS r3,#3 (E, skipped since actual condition is EQ not NE)
	)
	require.NoError(t, p.Bus.MapROM(0x1000, code))
	p.SetPC(0x1000)

	_, err := p.Run(core.RunOptions{Gas: 5})
	require.NoError(t, err)

	require.EqualValues(t, 1, p.Register(1))
	require.EqualValues(t, 2, p.Register(2))
	require.EqualValues(t, 0x99, p.Register(3))
}

func TestMemoryAndStackRoundTrip(t *testing.T) {
	p := newTestProcessor(t)
	p.SetRegister(0, 0x20000100) // a scratch address inside the mapped RAM region

	// MOVS r1,#7 ; PUSH {r1} ; POP {r2} ; STR r1,[r0] ; LDR r3,[r0]
	code := asBytes(
		0x2107, // MOVS r1,#7
		0xB402, // PUSH {r1}
		0xBC04, // POP {r2}
		0x6001, // STR r1,[r0]
		0x6803, // LDR r3,[r0]
	)
	require.NoError(t, p.Bus.MapROM(0x1000, code))
	p.SetPC(0x1000)

	_, err := p.Run(core.RunOptions{Gas: 5})
	require.NoError(t, err)

	require.EqualValues(t, 7, p.Register(2))
	require.EqualValues(t, 7, p.Register(3))
}

func TestExceptionEntryAndReturn(t *testing.T) {
	p := newTestProcessor(t)

	// Vector table + handler: BX LR at 0x40, vector for SysTick (exception
	// 15) at VTOR+4*15 = 0x3c pointing there.
	vectorRegion := make([]byte, 0x100)
	binary.LittleEndian.PutUint32(vectorRegion[0x3c:], 0x41) // handler addr | thumb bit
	binary.LittleEndian.PutUint16(vectorRegion[0x40:], 0x4770) // BX LR
	require.NoError(t, p.Bus.MapROM(0x0, vectorRegion))

	p.SetPC(0x1000)
	p.SetPending(scs.ExcSysTick)

	_, err := p.Step() // should vector into the handler instead of fetching at 0x1000
	require.NoError(t, err)
	require.EqualValues(t, 0x40, p.Reg.PC())
	require.EqualValues(t, scs.ExcSysTick, p.Reg.PSR().Exception())
	require.Equal(t, cpu.Handler, p.Reg.Mode())

	_, err = p.Step() // BX LR: EXC_RETURN back to thread mode
	require.NoError(t, err)
	require.EqualValues(t, 0x1000, p.Reg.PC())
	require.EqualValues(t, 0, p.Reg.PSR().Exception())
	require.Equal(t, cpu.Thread, p.Reg.Mode())
	require.False(t, p.SCS.IsActive(scs.ExcSysTick))
	require.EqualValues(t, 0x20001000, p.Reg.R(13))
}

func TestSubtractSetsCarryFlag(t *testing.T) {
	p := newTestProcessor(t)

	// movs r0,#5 ; movs r1,#2 ; subs r2,r0,r1
	code := asBytes(0x2005, 0x2102, 0x1A42)
	require.NoError(t, p.Bus.MapROM(0x1000, code))
	p.SetPC(0x1000)

	_, err := p.Run(core.RunOptions{Gas: 3})
	require.NoError(t, err)

	require.EqualValues(t, 5, p.Register(0))
	require.EqualValues(t, 2, p.Register(1))
	require.EqualValues(t, 3, p.Register(2))
	n, z, c, v := p.Reg.PSR().NZCV()
	require.False(t, n)
	require.False(t, z)
	require.True(t, c) // no borrow
	require.False(t, v)
}

func TestAddShiftedRegister(t *testing.T) {
	p := newTestProcessor(t)
	p.SetRegister(1, 1)
	p.SetRegister(2, 5)

	// add.w r0, r1, r2, lsl #3 => r0 = 1 + (5<<3) = 41
	code := asBytes(0xEB01, 0x00C2)
	require.NoError(t, p.Bus.MapROM(0x1000, code))
	p.SetPC(0x1000)

	_, err := p.Run(core.RunOptions{Gas: 1})
	require.NoError(t, err)
	require.EqualValues(t, 41, p.Register(0))
}

func TestCompareBranchOnZero(t *testing.T) {
	p := newTestProcessor(t)
	p.SetRegister(0, 0)

	// cbz r0, +0 (target pc+4, skipping movs r1,#9) ; movs r1,#9 ; movs r2,#1
	code := asBytes(0xB100, 0x2109, 0x2201)
	require.NoError(t, p.Bus.MapROM(0x1000, code))
	p.SetPC(0x1000)

	_, err := p.Run(core.RunOptions{Gas: 2})
	require.NoError(t, err)
	require.EqualValues(t, 0, p.Register(1))
	require.EqualValues(t, 1, p.Register(2))
}

func TestWfiHaltsWhenNothingPending(t *testing.T) {
	p := newTestProcessor(t)

	code := asBytes(0xBF30) // wfi
	require.NoError(t, p.Bus.MapROM(0x1000, code))
	p.SetPC(0x1000)

	res, err := p.Run(core.RunOptions{Gas: 10})
	require.NoError(t, err)
	require.Equal(t, core.StopWfi, res.Reason)
	require.Equal(t, 1, res.Steps)
}

func TestHookStopsRunWithoutExecuting(t *testing.T) {
	p := newTestProcessor(t)

	code := asBytes(0x2005, 0x2102) // movs r0,#5 ; movs r1,#2
	require.NoError(t, p.Bus.MapROM(0x1000, code))
	p.SetPC(0x1000)

	hookID := p.AddHook(0x1002, func(*core.Processor) bool { return true })

	res, err := p.Run(core.RunOptions{Gas: 10})
	require.NoError(t, err)
	require.Equal(t, core.StopHook, res.Reason)
	require.EqualValues(t, 5, p.Register(0))
	require.EqualValues(t, 0, p.Register(1)) // hooked instruction never ran

	p.RemoveHook(hookID)
	res, err = p.Run(core.RunOptions{Gas: 1})
	require.NoError(t, err)
	require.Equal(t, core.StopGasExhausted, res.Reason)
	require.EqualValues(t, 2, p.Register(1))
}

func TestBreakpointHalts(t *testing.T) {
	p := newTestProcessor(t)

	code := asBytes(0xBE2A) // bkpt #42
	require.NoError(t, p.Bus.MapROM(0x1000, code))
	p.SetPC(0x1000)

	res, err := p.Run(core.RunOptions{Gas: 10, StopOnBkpt: true})
	require.NoError(t, err)
	require.Equal(t, core.StopBreakpoint, res.Reason)
	require.EqualValues(t, 42, res.BkptImm)
}

func TestResetLoadsSPAndPCFromVectorTable(t *testing.T) {
	p := newTestProcessor(t)

	table := make([]byte, 8)
	binary.LittleEndian.PutUint32(table[0:], 0x20000800) // initial MSP
	binary.LittleEndian.PutUint32(table[4:], 0x1001)     // reset vector, Thumb bit set
	require.NoError(t, p.Bus.MapROM(0x0, table))

	require.NoError(t, p.Reset())
	require.EqualValues(t, 0x20000800, p.Reg.MSP())
	require.EqualValues(t, 0x1000, p.Reg.PC())
	require.Equal(t, cpu.Thread, p.Reg.Mode())
}

func TestExceptionRoundTripOnProcessStack(t *testing.T) {
	p := newTestProcessor(t)

	vectorRegion := make([]byte, 0x100)
	binary.LittleEndian.PutUint32(vectorRegion[0x3c:], 0x41)   // SysTick handler | thumb bit
	binary.LittleEndian.PutUint16(vectorRegion[0x40:], 0x4770) // BX LR
	require.NoError(t, p.Bus.MapROM(0x0, vectorRegion))

	// Thread code running on the process stack.
	p.Reg.SetPSP(0x20000800)
	p.Reg.SetControl(cpu.Control{SPSEL: true})
	p.SetPC(0x1000)
	p.SetPending(scs.ExcSysTick)

	_, err := p.Step() // entry: frame stacked on PSP, handler on MSP
	require.NoError(t, err)
	require.Equal(t, cpu.Handler, p.Reg.Mode())
	require.EqualValues(t, 0x20000800-32, p.Reg.PSP())

	_, err = p.Step() // BX LR with EXC_RETURN 0xFFFFFFFD
	require.NoError(t, err)
	require.Equal(t, cpu.Thread, p.Reg.Mode())
	require.True(t, p.Reg.Control().SPSEL)
	require.EqualValues(t, 0x20000800, p.Reg.PSP())
	require.EqualValues(t, 0x1000, p.Reg.PC())
}
