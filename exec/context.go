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

// Package exec holds one execute function per opcode family, applying a
// decode.Descriptor to the register file and address space at integer
// level. Flag-setting flows through bits.AddWithCarry and bits.ShiftC so
// every family shares one implementation of the carry/overflow rules
// instead of re-deriving them per opcode.
package exec

import (
	"github.com/gothumb/armcore/bits"
	"github.com/gothumb/armcore/cpu"
	"github.com/gothumb/armcore/decode"
	"github.com/gothumb/armcore/internal/armerr"
	"github.com/gothumb/armcore/internal/armlog"
	"github.com/gothumb/armcore/memsys"
)

// BreakpointInfo is recorded on Context when a BKPT instruction executes;
// the driver turns this into a breakpoint halt rather than a fault.
type BreakpointInfo struct {
	Imm  uint32
	Addr uint32
}

// Context bundles everything an execute function needs: the register
// file, the address space, and the callback the driver wants invoked when
// an instruction pends an exception (SVC, or a fault the host chooses to
// vector rather than report as a Go error).
type Context struct {
	Reg           *cpu.Registers
	Bus           *memsys.Bus
	PendException func(n uint32)

	// Branched is set by any execute function that wrote r15 directly
	// (branches, BX/BLX, LDR/POP/ADD to pc). When set, the driver's
	// speculative PC += size advance is skipped; the written value wins.
	Branched bool

	// Breakpoint is set by BKPT; the driver checks this after Execute
	// returns and, if non-nil, halts the run loop instead of continuing.
	Breakpoint *BreakpointInfo

	// Wfi/Wfe are set by the wait-for-interrupt/event hints; the run loop
	// halts on them unless an exception is already pending.
	Wfi bool
	Wfe bool
}

// Execute applies d to ctx. Memory faults from the address space are
// returned as errors for the driver to escalate; decode Op values with no
// concrete semantics built here are returned as UnimplementedInstruction.
func Execute(ctx *Context, d decode.Descriptor) error {
	ctx.Branched = false
	switch {
	case isDataProcessing16(d.Op):
		return execDataProcessing16(ctx, d)
	case isLoadStore16(d.Op):
		return execLoadStore16(ctx, d)
	case isBranchOrMisc16(d.Op):
		return execBranchOrMisc16(ctx, d)
	case isDataProcessing32(d.Op):
		return execDataProcessing32(ctx, d)
	case isLoadStore32(d.Op):
		return execLoadStore32(ctx, d)
	case isBranchOrMisc32(d.Op):
		return execBranchOrMisc32(ctx, d)
	case d.Op == decode.OpUnimplemented:
		return &armerr.UnimplementedInstruction{Addr: d.Addr, Mnemonic: d.Mnemonic}
	case d.Op == decode.OpUndefined:
		return &armerr.UndefinedInstruction{Addr: d.Addr, Halfwords: d.RawHalfwords}
	}
	armlog.Errorf("exec", "no execute handler registered for op %v (%s) at 0x%08x", d.Op, d.Mnemonic, d.Addr)
	return &armerr.UnimplementedInstruction{Addr: d.Addr, Mnemonic: d.Mnemonic}
}

// writePC performs an ordinary branch write to r15: bit 0 is discarded
// (fetch always uses the cleared address) and Branched is raised so the
// driver doesn't also apply its speculative PC+=size advance.
func writePC(ctx *Context, target uint32) {
	ctx.Reg.SetPC(target)
	ctx.Branched = true
}

// interworkingWritePC performs a BX/BLX/POP-to-pc style write: bit 0 must
// be 1 to select Thumb state; clearing it requests an ARM-state switch
// this core does not support and is reported as a usage fault.
func interworkingWritePC(ctx *Context, target uint32) error {
	if target&1 == 0 {
		return &armerr.ArchitecturalFault{Class: armerr.CategoryUsageFault, Kind: armerr.FaultInvalidState, Addr: target}
	}
	ctx.Reg.SetPC(target &^ 1)
	ctx.Branched = true
	return nil
}

// setFlagsLogical sets N and Z from result and C from the barrel
// shifter's carry-out -- the rule for AND/ORR/EOR/BIC/MOV and the other
// logical operations with a shifted operand.
func setFlagsLogical(p *cpu.PSR, result uint32, carryOut bool, setFlags bool) {
	if !setFlags {
		return
	}
	p.SetNZFromResult(result)
	n, z, _, v := p.NZCV()
	p.SetNZCV(n, z, carryOut, v)
}

// setFlagsArith sets N, Z, C, V from an add_with_carry-style result, the
// common case for ADD/SUB/CMP/CMN/ADC/SBC.
func setFlagsArith(p *cpu.PSR, result uint32, carryOut, overflow bool, setFlags bool) {
	if !setFlags {
		return
	}
	p.SetNZCV(result&0x80000000 != 0, result == 0, carryOut, overflow)
}

// wordAlignedIfPC reads register n, word-aligning the value when n is the
// PC: every PC-relative form (ADR, the literal loads) uses Align(PC,4) as
// its base, not the raw pipeline value.
func wordAlignedIfPC(ctx *Context, n int) uint32 {
	v := ctx.Reg.R(n)
	if n == 15 {
		v &^= 3
	}
	return v
}

// shiftedRegister evaluates Rm shifted per the descriptor's shift spec,
// returning the result and the carry-out a flag-setting instruction should
// adopt (falling back to the current carry flag when the shift amount is
// zero, per the Shift_C pseudocode).
func shiftedRegister(ctx *Context, d decode.Descriptor) (uint32, bool) {
	_, _, c, _ := ctx.Reg.PSR().NZCV()
	rm := ctx.Reg.R(d.Rm)
	return bits.ShiftC(rm, d.ShiftType, d.ShiftAmount, c)
}
