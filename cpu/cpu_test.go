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

package cpu_test

import (
	"testing"

	"github.com/gothumb/armcore/cpu"
	"github.com/stretchr/testify/require"
)

func TestPSRPackUnpackRoundTrip(t *testing.T) {
	var p cpu.PSR
	p.SetNZCV(true, false, true, false)
	p.SetQ(true)
	p.SetException(15)
	p.SetITState(0b1010_0110)

	packed := p.Pack()

	var q cpu.PSR
	q.Unpack(packed)
	require.Equal(t, p.Pack(), q.Pack())
	n, z, c, v := q.NZCV()
	require.True(t, n)
	require.False(t, z)
	require.True(t, c)
	require.False(t, v)
	require.EqualValues(t, 15, q.Exception())
	require.EqualValues(t, 0b1010_0110, q.ITState())
}

func TestITAdvanceClearsAtEndOfBlock(t *testing.T) {
	var p cpu.PSR
	p.SetITState(0b0000_1000) // mask 1000: one instruction remaining marker, last in block
	require.True(t, p.InITBlock())
	p.AdvanceIT()
	require.False(t, p.InITBlock())
}

func TestITAdvanceShiftsMask(t *testing.T) {
	var p cpu.PSR
	p.SetITState(0b0000_1100) // two instructions remain (ITE-style)
	p.AdvanceIT()
	require.True(t, p.InITBlock())
	require.EqualValues(t, 0b1000, p.ITMask())
}

func TestITAdvanceGivesElseInstructionInvertedPolarity(t *testing.T) {
	var p cpu.PSR
	// ITTE EQ: firstcond=EQ(0b0000), three instructions T,T,E -> mask 0b0110.
	p.SetITState(0b0000_0110)
	require.EqualValues(t, 0b0000, p.CurrentCond()) // first T: EQ

	p.AdvanceIT()
	require.EqualValues(t, 0b0000, p.CurrentCond()) // second T: EQ

	p.AdvanceIT()
	require.EqualValues(t, 0b0001, p.CurrentCond()) // E: NE (EQ with LSB flipped)

	p.AdvanceIT()
	require.False(t, p.InITBlock())
}

func TestRegistersR13ForcesAlignment(t *testing.T) {
	var r cpu.Registers
	r.SetR(13, 0x20000103)
	require.EqualValues(t, 0x20000100, r.R(13))
}

func TestRegistersPCReadIsPCPlus4(t *testing.T) {
	var r cpu.Registers
	r.SetPC(0x1000)
	require.EqualValues(t, 0x1004, r.R(15))
}

func TestBankedSP(t *testing.T) {
	var r cpu.Registers
	r.SetMSP(0x20001000)
	r.SetPSP(0x20002000)
	require.EqualValues(t, 0x20001000, r.R(13)) // Thread, SPSEL=0 -> MSP

	r.SetControl(cpu.Control{SPSEL: true})
	require.EqualValues(t, 0x20002000, r.R(13)) // Thread, SPSEL=1 -> PSP

	r.SetMode(cpu.Handler)
	require.EqualValues(t, 0x20001000, r.R(13)) // Handler always MSP regardless of SPSEL
}

func TestCondPassed(t *testing.T) {
	require.True(t, cpu.CondPassed(0b0000, false, true, false, false))  // EQ, Z set
	require.False(t, cpu.CondPassed(0b0000, false, false, false, false)) // EQ, Z clear
	require.True(t, cpu.CondPassed(0b1110, false, false, false, false))  // AL always true
}
