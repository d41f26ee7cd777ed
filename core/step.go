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
	"github.com/gothumb/armcore/decode"
	"github.com/gothumb/armcore/exec"
	"github.com/gothumb/armcore/internal/armerr"
)

// StepResult describes what happened during one Step call.
type StepResult struct {
	HookStopped bool
	Entered     bool // an exception was taken instead of executing an instruction
	Breakpoint  bool
	BkptImm     uint32
	Faulted     bool
	FaultError  error
	Wfi         bool // a WFI executed; Run halts unless something is pending
	Wfe         bool
	Descriptor  decode.Descriptor
}

// excReturnMagicByte is the fixed top byte of every EXC_RETURN value,
// distinguishing a write of that magic value to PC from an ordinary
// branch target.
const excReturnMagicByte = 0xff000000

func isExcReturn(v uint32) bool { return v&excReturnMagicByte == excReturnMagicByte }

// Step executes exactly one instruction boundary: it checks hooks,
// services any pending exception that exceeds the current execution
// priority, then fetches, decodes and conditionally executes the next
// instruction, advances PC and ITSTATE, and ticks every mapped peripheral
// once.
func (p *Processor) Step() (StepResult, error) {
	pc := p.Reg.PC()

	if p.runHooks(pc) {
		return StepResult{HookStopped: true}, nil
	}

	if n, ok := p.SCS.HighestPendingExceeding(p.currentPriority(), p.Reg.PRIMASK(), p.Reg.FAULTMASK()); ok {
		if err := p.enterException(n); err != nil {
			return p.escalate(err)
		}
		return StepResult{Entered: true}, nil
	}

	d, err := p.fetchDescriptor(pc)
	if err != nil {
		return p.escalate(err)
	}

	cond := d.Cond
	if p.Reg.PSR().InITBlock() {
		if !conditionEligible(d.Op) {
			return p.escalate(&armerr.ArchitecturalFault{
				Class: armerr.CategoryUsageFault, Kind: armerr.FaultInvalidState, Addr: pc,
			})
		}
		cond = p.Reg.PSR().CurrentCond()
		// Inside an IT block the 16-bit data-processing encodings do not
		// set flags (their S bit is implied by being outside a block);
		// CMP/CMN/TST are unaffected since they always write flags.
		if d.Size == 2 {
			d.SetFlags = false
		}
	}
	n, z, c, v := p.Reg.PSR().NZCV()
	passed := cpu.CondPassed(cond, n, z, c, v)

	var result StepResult
	result.Descriptor = d

	returned := false
	if passed {
		ctx := p.execContext()
		if err := exec.Execute(ctx, d); err != nil {
			return p.escalate(err)
		}
		if ctx.Breakpoint != nil {
			result.Breakpoint = true
			result.BkptImm = ctx.Breakpoint.Imm
		}
		result.Wfi = ctx.Wfi
		result.Wfe = ctx.Wfe
		switch {
		case ctx.Branched && p.Reg.Mode() == cpu.Handler && isExcReturn(p.Reg.PC()):
			// SetPC clears bit 0; EXC_RETURN's defining bit pattern always
			// has it set, so restore it before matching the exact token.
			target := p.Reg.PC() | 1
			p.Reg.SetPC(pc + uint32(d.Size)) // undo the write; exceptionReturn recomputes the real target
			if err := p.exceptionReturn(target); err != nil {
				return p.escalate(err)
			}
			returned = true
		case ctx.Branched:
			// PC was already set by the instruction (branch/interworking).
		default:
			p.Reg.SetPC(pc + uint32(d.Size))
		}
	} else {
		p.Reg.SetPC(pc + uint32(d.Size))
	}

	// ITSTATE advances once per instruction, executed or skipped -- except
	// for the IT instruction itself (which just installed the state) and an
	// exception return (which restored the interrupted context's state).
	if !(passed && d.Op == decode.OpIT) && !returned {
		p.Reg.PSR().AdvanceIT()
	}
	p.Bus.Tick(1)

	return result, nil
}

// conditionEligible reports whether an instruction may appear inside an IT
// block. Branches that carry their own condition, compare-and-branch, and
// a nested IT are not conditional-eligible; executing one there is an
// execution fault.
func conditionEligible(op decode.Op) bool {
	switch op {
	case decode.OpIT, decode.OpBcc, decode.OpBccW, decode.OpCBZ, decode.OpCBNZ:
		return false
	}
	return true
}
