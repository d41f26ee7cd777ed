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

package scs_test

import (
	"testing"

	"github.com/gothumb/armcore/scs"
	"github.com/stretchr/testify/require"
)

func TestSysTickReloadsAndPendsOnUnderflow(t *testing.T) {
	s := scs.New(scs.ProfileV7M, 4, nil)
	s.Write(0x014, 4, 3)       // RVR = 3
	s.Write(0x010, 4, 0b011)   // ENABLE | TICKINT

	s.Tick(1) // VAL starts at 0: reload to 3, no pend
	require.False(t, s.IsPending(scs.ExcSysTick))
	s.Tick(1) // 3 -> 2
	s.Tick(1) // 2 -> 1
	require.False(t, s.IsPending(scs.ExcSysTick))
	s.Tick(1) // 1 -> 0: underflow, pend
	require.True(t, s.IsPending(scs.ExcSysTick))
}

func TestNVICSetClearPendEnable(t *testing.T) {
	s := scs.New(scs.ProfileV7M, 4, nil)
	s.SetPending(scs.ExcIRQ0)
	require.True(t, s.IsPending(scs.ExcIRQ0))
	require.False(t, s.IsEnabled(scs.ExcIRQ0))

	s.Write(0x100, 4, 1) // ISER0 bit 0 -> enable IRQ0
	require.True(t, s.IsEnabled(scs.ExcIRQ0))

	s.Write(0x280, 4, 1) // ICPR0 bit 0 -> clear pending IRQ0
	require.False(t, s.IsPending(scs.ExcIRQ0))
}

func TestVTORAlignment(t *testing.T) {
	s := scs.New(scs.ProfileV7M, 0, nil)
	s.SetVTOR(0x1234)
	require.EqualValues(t, 0x1220, s.VTOR())
}

func TestAIRCRRequiresVectKey(t *testing.T) {
	called := false
	s := scs.New(scs.ProfileV7M, 0, func() { called = true })
	s.Write(0x00d0c, 4, 1<<2) // SYSRESETREQ without key: ignored
	require.False(t, called)
	s.Write(0x00d0c, 4, 0x05fa0000|(1<<2))
	require.True(t, called)
}

func TestHighestPendingExceeding(t *testing.T) {
	s := scs.New(scs.ProfileV7M, 4, nil)
	s.SetPending(scs.ExcSysTick)
	n, ok := s.HighestPendingExceeding(256, false, false)
	require.True(t, ok)
	require.EqualValues(t, scs.ExcSysTick, n)

	n, ok = s.HighestPendingExceeding(0, false, false) // already running at priority 0 (equal to SysTick's default, so not exceeded)
	require.False(t, ok)
	_ = n
}
