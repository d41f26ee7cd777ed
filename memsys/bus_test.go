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

package memsys_test

import (
	"testing"

	"github.com/gothumb/armcore/internal/armerr"
	"github.com/gothumb/armcore/memsys"
	"github.com/stretchr/testify/require"
)

func TestMapAndReadWriteRoundTrip(t *testing.T) {
	b := memsys.NewBus()
	require.NoError(t, b.Map(0x20000000, make([]byte, 0x100)))

	require.NoError(t, b.WriteBytes(0x20000000, 4, 0xdeadbeef))
	v, err := b.ReadBytes(0x20000000, 4)
	require.NoError(t, err)
	require.EqualValues(t, 0xdeadbeef, v)

	// little-endian byte order
	lo, _ := b.ReadBytes(0x20000000, 1)
	require.EqualValues(t, 0xef, lo)
}

func TestOverlapIsRejected(t *testing.T) {
	b := memsys.NewBus()
	require.NoError(t, b.Map(0x1000, make([]byte, 0x100)))
	err := b.Map(0x1080, make([]byte, 0x100))
	require.Error(t, err)
	var conflict *armerr.MapConflict
	require.ErrorAs(t, err, &conflict)
}

func TestWriteToROMFails(t *testing.T) {
	b := memsys.NewBus()
	require.NoError(t, b.MapROM(0x0, []byte{1, 2, 3, 4}))
	err := b.WriteBytes(0x0, 4, 0)
	require.Error(t, err)
	require.ErrorIs(t, err, armerr.ErrWriteToROM)
}

func TestUnalignedWordAccessFails(t *testing.T) {
	b := memsys.NewBus()
	require.NoError(t, b.Map(0x1000, make([]byte, 0x100)))
	_, err := b.ReadBytes(0x1001, 4)
	require.Error(t, err)
	require.ErrorIs(t, err, armerr.ErrUnaligned)
}

func TestUnmappedAccessFails(t *testing.T) {
	b := memsys.NewBus()
	_, err := b.ReadBytes(0x1000, 4)
	require.ErrorIs(t, err, armerr.ErrUnmapped)
}

type fakePeriph struct {
	reg   uint32
	ticks uint32
}

func (f *fakePeriph) Read(offset uint32, width int) uint32 { return f.reg }
func (f *fakePeriph) Write(offset uint32, width int, value uint32) { f.reg = value }
func (f *fakePeriph) Tick(cycles uint32) { f.ticks += cycles }

func TestPeripheralRoutingAndTick(t *testing.T) {
	b := memsys.NewBus()
	p := &fakePeriph{}
	require.NoError(t, b.MapPeripheral(0xe000e000, 0x1000, p))

	require.NoError(t, b.WriteBytes(0xe000e010, 4, 42))
	require.EqualValues(t, 42, p.reg)

	b.Tick(1)
	require.EqualValues(t, 1, p.ticks)
}
