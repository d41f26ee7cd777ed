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

package core

import (
	"github.com/gothumb/armcore/cpu"
	"github.com/gothumb/armcore/internal/armerr"
)

// excReturnHandlerMSP / excReturnThreadMSP / excReturnThreadPSP are the
// three EXC_RETURN values this core produces and accepts (no floating-point
// context, so the FType bit is always 1/absent from these patterns).
const (
	excReturnHandlerMSP = 0xfffffff1
	excReturnThreadMSP  = 0xfffffff9
	excReturnThreadPSP  = 0xfffffffd
)

// stackFrameWords is the eight registers the architecture pushes on
// exception entry: r0, r1, r2, r3, r12, lr, return pc, xpsr.
const stackFrameWords = 8

// xpsrStackAlignBit is bit 9 of the stacked xPSR: whether entry padded SP
// by 4 bytes to restore 8-byte alignment.
const xpsrStackAlignBit = 1 << 9

// enterException stacks the eight-word hardware frame, switches to
// Handler mode, and vectors to the handler for exception n, following the
// ExceptionEntry pseudocode.
func (p *Processor) enterException(n uint32) error {
	returnAddr := p.Reg.PC()

	fromHandler := p.Reg.Mode() == cpu.Handler
	usingPSP := !fromHandler && p.Reg.Control().SPSEL

	sp := p.Reg.R(13) - stackFrameWords*4
	padded := sp&0b100 != 0
	sp &^= 0b100

	frame := [stackFrameWords]uint32{
		p.Reg.R(0), p.Reg.R(1), p.Reg.R(2), p.Reg.R(3),
		p.Reg.R(12), p.Reg.LR(), returnAddr, p.Reg.PSR().Pack(),
	}
	if padded {
		frame[7] |= xpsrStackAlignBit
	}
	for i, w := range frame {
		if err := p.Bus.WriteBytes(sp+uint32(4*i), 4, w); err != nil {
			return err
		}
	}

	if usingPSP {
		p.Reg.SetPSP(sp)
	} else {
		p.Reg.SetMSP(sp)
	}

	switch {
	case fromHandler:
		p.Reg.SetLR(excReturnHandlerMSP)
	case usingPSP:
		p.Reg.SetLR(excReturnThreadPSP)
	default:
		p.Reg.SetLR(excReturnThreadMSP)
	}

	ctrl := p.Reg.Control()
	ctrl.SPSEL = false
	p.Reg.SetControl(ctrl)
	p.Reg.SetMode(cpu.Handler)
	p.Reg.PSR().SetException(n)
	p.SCS.ClearPending(n)
	p.SCS.SetActive(n)

	vectorAddr := p.SCS.VectorAddress(n)
	target, err := p.Bus.ReadBytes(vectorAddr, 4)
	if err != nil {
		return err
	}
	p.Reg.SetPC(target)
	return nil
}

// exceptionReturn unstacks the frame named by an EXC_RETURN value written
// to PC and restores the processor to the mode/SP it names.
func (p *Processor) exceptionReturn(excReturn uint32) error {
	var toHandler, toMSP bool
	switch excReturn {
	case excReturnHandlerMSP:
		toHandler, toMSP = true, true
	case excReturnThreadMSP:
		toHandler, toMSP = false, true
	case excReturnThreadPSP:
		toHandler, toMSP = false, false
	default:
		return &armerr.ArchitecturalFault{Class: armerr.CategoryUsageFault, Kind: armerr.FaultInvalidPC, Addr: excReturn}
	}

	returning := p.Reg.PSR().Exception()
	if !toHandler {
		// Returning to Thread mode while another exception is still active
		// is an integrity violation.
		for n := uint32(1); n <= 511; n++ {
			if n != returning && p.SCS.IsActive(n) {
				return &armerr.ArchitecturalFault{Class: armerr.CategoryUsageFault, Kind: armerr.FaultInvalidPC, Addr: excReturn}
			}
		}
	}

	// The frame lives on whichever stack EXC_RETURN names, not the SP that
	// is live right now (Handler mode always reads MSP through r13).
	sp := p.Reg.MSP()
	if !toMSP {
		sp = p.Reg.PSP()
	}

	var frame [stackFrameWords]uint32
	for i := range frame {
		v, err := p.Bus.ReadBytes(sp+uint32(4*i), 4)
		if err != nil {
			return err
		}
		frame[i] = v
	}

	newSP := sp + stackFrameWords*4
	if frame[7]&xpsrStackAlignBit != 0 {
		newSP += 4
	}

	p.SCS.ClearActive(returning)

	p.Reg.SetR(0, frame[0])
	p.Reg.SetR(1, frame[1])
	p.Reg.SetR(2, frame[2])
	p.Reg.SetR(3, frame[3])
	p.Reg.SetR(12, frame[4])
	p.Reg.SetLR(frame[5])
	p.Reg.PSR().Unpack(frame[7])

	p.Reg.SetMode(boolToMode(toHandler))
	ctrl := p.Reg.Control()
	ctrl.SPSEL = !toMSP
	p.Reg.SetControl(ctrl)
	if toMSP {
		p.Reg.SetMSP(newSP)
	} else {
		p.Reg.SetPSP(newSP)
	}

	p.Reg.SetPC(frame[6])
	return nil
}

func boolToMode(handler bool) cpu.Mode {
	if handler {
		return cpu.Handler
	}
	return cpu.Thread
}
