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

package scs

// Register offsets, relative to Base, per the standard Cortex-M SCS layout.
const (
	offSysTickCSR   = 0x010
	offSysTickRVR   = 0x014
	offSysTickCVR   = 0x018
	offSysTickCALIB = 0x01c

	offNVICISER0 = 0x100
	offNVICICER0 = 0x180
	offNVICISPR0 = 0x200
	offNVICICPR0 = 0x280
	offNVICIABR0 = 0x300
	offNVICIPR0  = 0x400

	offCPUID = 0xd00
	offICSR  = 0xd04
	offVTOR  = 0xd08
	offAIRCR = 0xd0c
	offSHCSR = 0xd24
)

const (
	systickCSRENABLE   = 1 << 0
	systickCSRTICKINT  = 1 << 1
	systickCSRCLKSRC   = 1 << 2
	systickCSRCOUNTFLAG = 1 << 16
)

// Read implements memsys.Peripheral.
func (s *SCS) Read(offset uint32, width int) uint32 {
	switch {
	case offset == offSysTickCSR:
		v := s.systickCSR
		s.systickCSR &^= systickCSRCOUNTFLAG // COUNTFLAG clears on read
		return v
	case offset == offSysTickRVR:
		return s.systickLoad & 0xffffff
	case offset == offSysTickCVR:
		return s.systickVal & 0xffffff
	case offset == offSysTickCALIB:
		return s.systickCalib

	case offset >= offNVICISER0 && offset < offNVICISER0+0x80:
		return s.nvicBitmapRead(offset-offNVICISER0, s.enabled)
	case offset >= offNVICICER0 && offset < offNVICICER0+0x80:
		return s.nvicBitmapRead(offset-offNVICICER0, s.enabled)
	case offset >= offNVICISPR0 && offset < offNVICISPR0+0x80:
		return s.nvicBitmapRead(offset-offNVICISPR0, s.pending)
	case offset >= offNVICICPR0 && offset < offNVICICPR0+0x80:
		return s.nvicBitmapRead(offset-offNVICICPR0, s.pending)
	case offset >= offNVICIABR0 && offset < offNVICIABR0+0x80:
		return s.nvicBitmapRead(offset-offNVICIABR0, s.active)
	case offset >= offNVICIPR0 && offset < offNVICIPR0+uint32(s.numExtIRQs):
		return s.nvicPriorityRead(offset - offNVICIPR0)

	case offset == offCPUID:
		return s.profile.cpuid()
	case offset == offICSR:
		return s.icsrValue()
	case offset == offVTOR:
		return s.vtor
	case offset == offAIRCR:
		return s.aircr
	case offset == offSHCSR:
		return s.shcsr
	}
	return 0
}

// Write implements memsys.Peripheral. Writes to reserved bits and
// unmapped offsets within the SCS range are silently ignored.
func (s *SCS) Write(offset uint32, width int, value uint32) {
	switch {
	case offset == offSysTickCSR:
		s.systickCSR = value & (systickCSRENABLE | systickCSRTICKINT | systickCSRCLKSRC)
	case offset == offSysTickRVR:
		s.systickLoad = value & 0xffffff
	case offset == offSysTickCVR:
		s.systickVal = 0 // any write clears the counter and COUNTFLAG
		s.systickCSR &^= systickCSRCOUNTFLAG
	case offset == offSysTickCALIB:
		// read-only

	case offset >= offNVICISER0 && offset < offNVICISER0+0x80:
		s.nvicBitmapSet(offset-offNVICISER0, value, s.enabled)
	case offset >= offNVICICER0 && offset < offNVICICER0+0x80:
		s.nvicBitmapClear(offset-offNVICICER0, value, s.enabled)
	case offset >= offNVICISPR0 && offset < offNVICISPR0+0x80:
		s.nvicBitmapSet(offset-offNVICISPR0, value, s.pending)
	case offset >= offNVICICPR0 && offset < offNVICICPR0+0x80:
		s.nvicBitmapClear(offset-offNVICICPR0, value, s.pending)
	case offset >= offNVICIPR0 && offset < offNVICIPR0+uint32(s.numExtIRQs):
		s.nvicPriorityWrite(offset-offNVICIPR0, value)

	case offset == offICSR:
		s.writeICSR(value)
	case offset == offVTOR:
		s.SetVTOR(value)
	case offset == offAIRCR:
		s.writeAIRCR(value)
	case offset == offSHCSR:
		s.shcsr = value
	}
}

func (s *SCS) nvicBitmapRead(byteOff uint32, bank []bool) uint32 {
	word := byteOff / 4
	var v uint32
	for bit := uint32(0); bit < 32; bit++ {
		n := ExcIRQ0 + word*32 + bit
		if int(n) < len(bank) && bank[n] {
			v |= 1 << bit
		}
	}
	return v
}

func (s *SCS) nvicBitmapSet(byteOff uint32, value uint32, bank []bool) {
	word := byteOff / 4
	for bit := uint32(0); bit < 32; bit++ {
		if value&(1<<bit) == 0 {
			continue
		}
		n := ExcIRQ0 + word*32 + bit
		if int(n) < len(bank) {
			bank[n] = true
		}
	}
}

func (s *SCS) nvicBitmapClear(byteOff uint32, value uint32, bank []bool) {
	word := byteOff / 4
	for bit := uint32(0); bit < 32; bit++ {
		if value&(1<<bit) == 0 {
			continue
		}
		n := ExcIRQ0 + word*32 + bit
		if int(n) < len(bank) {
			bank[n] = false
		}
	}
}

func (s *SCS) nvicPriorityRead(byteOff uint32) uint32 {
	n := ExcIRQ0 + byteOff
	if int(n) < len(s.priority) {
		return uint32(s.priority[n])
	}
	return 0
}

func (s *SCS) nvicPriorityWrite(byteOff uint32, value uint32) {
	n := ExcIRQ0 + byteOff
	if int(n) < len(s.priority) {
		s.priority[n] = uint8(value)
	}
}

func (s *SCS) icsrValue() uint32 {
	var v uint32
	if s.pending[ExcNMI] {
		v |= 1 << 31 // NMIPENDSET
	}
	if s.pending[ExcPendSV] {
		v |= 1 << 28 // PENDSVSET
	}
	if s.pending[ExcSysTick] {
		v |= 1 << 26 // PENDSTSET
	}
	active := s.vectActive()
	v |= active & 0x1ff
	return v
}

func (s *SCS) vectActive() uint32 {
	for n := uint32(1); n <= s.maxExc; n++ {
		if s.active[n] {
			return n
		}
	}
	return 0
}

func (s *SCS) writeICSR(value uint32) {
	if value&(1<<31) != 0 {
		s.pending[ExcNMI] = true
	}
	if value&(1<<28) != 0 {
		s.pending[ExcPendSV] = true
	}
	if value&(1<<27) != 0 { // PENDSVCLR
		s.pending[ExcPendSV] = false
	}
	if value&(1<<26) != 0 {
		s.pending[ExcSysTick] = true
	}
	if value&(1<<25) != 0 { // PENDSTCLR
		s.pending[ExcSysTick] = false
	}
}

func (s *SCS) writeAIRCR(value uint32) {
	const vectKey = 0x05fa0000
	if value&0xffff0000 != vectKey {
		return // key mismatch: write ignored per the architecture
	}
	s.aircr = value &^ 0xffff0000
	if value&(1<<2) != 0 && s.onSysResetReq != nil { // SYSRESETREQ
		s.onSysResetReq()
	}
}

// tickSysTick advances the SysTick down-counter by cycles, reloading on
// underflow and pending the SysTick exception when CTRL.TICKINT is set.
// Called from Tick (memsys.Peripheral) once per executed instruction.
func (s *SCS) tickSysTick(cycles uint32) {
	if s.systickCSR&systickCSRENABLE == 0 {
		return
	}
	for i := uint32(0); i < cycles; i++ {
		if s.systickVal == 0 {
			// A counter sitting at zero reloads without setting COUNTFLAG;
			// only the 1 -> 0 transition below counts as an underflow.
			s.systickVal = s.systickLoad
			continue
		}
		s.systickVal--
		if s.systickVal == 0 {
			s.systickCSR |= systickCSRCOUNTFLAG
			if s.systickCSR&systickCSRTICKINT != 0 {
				s.pending[ExcSysTick] = true
			}
		}
	}
}

// Tick implements memsys.Peripheral.
func (s *SCS) Tick(cycles uint32) {
	s.tickSysTick(cycles)
}
