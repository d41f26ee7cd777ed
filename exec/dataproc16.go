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

package exec

import (
	"github.com/gothumb/armcore/bits"
	"github.com/gothumb/armcore/decode"
)

// execDataProcessing16 covers the 16-bit data-processing formats: move
// shifted register, add/subtract, move/compare/add/subtract immediate, the
// two-register ALU operations, the ADD/CMP/MOV hi-register forms, the
// PC-relative/SP-relative address generation (ADR, ADD Rd,SP,#imm, ADD/SUB
// SP,#imm), and the extend/byte-reverse group.
func execDataProcessing16(ctx *Context, d decode.Descriptor) error {
	p := ctx.Reg.PSR()
	switch d.Op {
	case decode.OpMOVshift:
		_, _, c, _ := p.NZCV()
		rm := ctx.Reg.R(d.Rm)
		result, carryOut := bits.ShiftC(rm, d.ShiftType, d.ShiftAmount, c)
		ctx.Reg.SetR(d.Rd, result)
		setFlagsLogical(p, result, carryOut, d.SetFlags)
		return nil

	case decode.OpADDreg:
		rn := ctx.Reg.R(d.Rn)
		rm := ctx.Reg.R(d.Rm)
		result, carry, overflow := bits.AddWithCarry(rn, rm, false)
		ctx.Reg.SetR(d.Rd, result)
		setFlagsArith(p, result, carry, overflow, d.SetFlags)
		return nil

	case decode.OpSUBreg:
		rn := ctx.Reg.R(d.Rn)
		rm := ctx.Reg.R(d.Rm)
		result, carry, overflow := bits.AddWithCarry(rn, ^rm, true)
		ctx.Reg.SetR(d.Rd, result)
		setFlagsArith(p, result, carry, overflow, d.SetFlags)
		return nil

	case decode.OpADDimm3:
		rn := ctx.Reg.R(d.Rn)
		result, carry, overflow := bits.AddWithCarry(rn, d.Imm, false)
		ctx.Reg.SetR(d.Rd, result)
		setFlagsArith(p, result, carry, overflow, d.SetFlags)
		return nil

	case decode.OpSUBimm3:
		rn := ctx.Reg.R(d.Rn)
		result, carry, overflow := bits.AddWithCarry(rn, ^d.Imm, true)
		ctx.Reg.SetR(d.Rd, result)
		setFlagsArith(p, result, carry, overflow, d.SetFlags)
		return nil

	case decode.OpMOVimm8:
		ctx.Reg.SetR(d.Rd, d.Imm)
		_, _, c, _ := p.NZCV()
		setFlagsLogical(p, d.Imm, c, d.SetFlags)
		return nil

	case decode.OpCMPimm8:
		rn := ctx.Reg.R(d.Rd)
		result, carry, overflow := bits.AddWithCarry(rn, ^d.Imm, true)
		setFlagsArith(p, result, carry, overflow, true)
		return nil

	case decode.OpADDimm8:
		rdn := ctx.Reg.R(d.Rd)
		result, carry, overflow := bits.AddWithCarry(rdn, d.Imm, false)
		ctx.Reg.SetR(d.Rd, result)
		setFlagsArith(p, result, carry, overflow, d.SetFlags)
		return nil

	case decode.OpSUBimm8:
		rdn := ctx.Reg.R(d.Rd)
		result, carry, overflow := bits.AddWithCarry(rdn, ^d.Imm, true)
		ctx.Reg.SetR(d.Rd, result)
		setFlagsArith(p, result, carry, overflow, d.SetFlags)
		return nil

	case decode.OpAND, decode.OpEOR, decode.OpORR, decode.OpBIC, decode.OpMVN, decode.OpTST:
		return execALULogical16(ctx, d)

	case decode.OpLSLreg, decode.OpLSRreg, decode.OpASRreg, decode.OpRORreg:
		return execALUShiftByReg16(ctx, d)

	case decode.OpADC:
		rdn := ctx.Reg.R(d.Rd)
		rm := ctx.Reg.R(d.Rm)
		_, _, c, _ := p.NZCV()
		result, carry, overflow := bits.AddWithCarry(rdn, rm, c)
		ctx.Reg.SetR(d.Rd, result)
		setFlagsArith(p, result, carry, overflow, d.SetFlags)
		return nil

	case decode.OpSBC:
		rdn := ctx.Reg.R(d.Rd)
		rm := ctx.Reg.R(d.Rm)
		_, _, c, _ := p.NZCV()
		result, carry, overflow := bits.AddWithCarry(rdn, ^rm, c)
		ctx.Reg.SetR(d.Rd, result)
		setFlagsArith(p, result, carry, overflow, d.SetFlags)
		return nil

	case decode.OpRSB:
		// format 4's NEG: operand is Rm (Rd/Rm, no Rn in this encoding).
		rm := ctx.Reg.R(d.Rm)
		result, carry, overflow := bits.AddWithCarry(^rm, 0, true)
		ctx.Reg.SetR(d.Rd, result)
		setFlagsArith(p, result, carry, overflow, d.SetFlags)
		return nil

	case decode.OpCMPreg:
		// format 4's CMP Rd,Rm: the compared register arrives in Rd, not Rn.
		rn := ctx.Reg.R(d.Rd)
		rm := ctx.Reg.R(d.Rm)
		result, carry, overflow := bits.AddWithCarry(rn, ^rm, true)
		setFlagsArith(p, result, carry, overflow, true)
		return nil

	case decode.OpCMNreg:
		rn := ctx.Reg.R(d.Rd)
		rm := ctx.Reg.R(d.Rm)
		result, carry, overflow := bits.AddWithCarry(rn, rm, false)
		setFlagsArith(p, result, carry, overflow, true)
		return nil

	case decode.OpMUL:
		rdn := ctx.Reg.R(d.Rd)
		rm := ctx.Reg.R(d.Rm)
		result := rdn * rm
		ctx.Reg.SetR(d.Rd, result)
		if d.SetFlags {
			p.SetNZFromResult(result)
		}
		return nil

	case decode.OpADDhi, decode.OpMOVhi:
		rm := ctx.Reg.R(d.Rm)
		var result uint32
		if d.Op == decode.OpMOVhi {
			result = rm
		} else {
			result = ctx.Reg.R(d.Rd) + rm
		}
		if d.Rd == 15 {
			writePC(ctx, result&^1)
			return nil
		}
		ctx.Reg.SetR(d.Rd, result)
		return nil

	case decode.OpCMPhi:
		rn := ctx.Reg.R(d.Rd)
		rm := ctx.Reg.R(d.Rm)
		result, carry, overflow := bits.AddWithCarry(rn, ^rm, true)
		setFlagsArith(p, result, carry, overflow, true)
		return nil

	case decode.OpADR:
		base := (ctx.Reg.R(15) &^ 3) + d.Imm
		ctx.Reg.SetR(d.Rd, base)
		return nil

	case decode.OpADDsp:
		ctx.Reg.SetR(d.Rd, ctx.Reg.R(13)+d.Imm)
		return nil

	case decode.OpADDSPimm:
		ctx.Reg.SetR(13, ctx.Reg.R(13)+d.Imm)
		return nil

	case decode.OpSUBSPimm:
		ctx.Reg.SetR(13, ctx.Reg.R(13)-d.Imm)
		return nil

	case decode.OpSXTH:
		ctx.Reg.SetR(d.Rd, uint32(int32(int16(ctx.Reg.R(d.Rm)))))
		return nil
	case decode.OpSXTB:
		ctx.Reg.SetR(d.Rd, uint32(int32(int8(ctx.Reg.R(d.Rm)))))
		return nil
	case decode.OpUXTH:
		ctx.Reg.SetR(d.Rd, ctx.Reg.R(d.Rm)&0xffff)
		return nil
	case decode.OpUXTB:
		ctx.Reg.SetR(d.Rd, ctx.Reg.R(d.Rm)&0xff)
		return nil

	case decode.OpREV:
		v := ctx.Reg.R(d.Rm)
		ctx.Reg.SetR(d.Rd, v<<24|v>>24|(v&0xff00)<<8|(v>>8)&0xff00)
		return nil
	case decode.OpREV16:
		v := ctx.Reg.R(d.Rm)
		ctx.Reg.SetR(d.Rd, (v&0x00ff00ff)<<8|(v>>8)&0x00ff00ff)
		return nil
	case decode.OpREVSH:
		v := ctx.Reg.R(d.Rm)
		half := uint16(v<<8 | (v>>8)&0xff)
		ctx.Reg.SetR(d.Rd, uint32(int32(int16(half))))
		return nil
	}
	return nil
}

func execALULogical16(ctx *Context, d decode.Descriptor) error {
	p := ctx.Reg.PSR()
	rdn := ctx.Reg.R(d.Rd)
	rm, carryOut := shiftedRegisterNoShift(ctx, d)
	var result uint32
	switch d.Op {
	case decode.OpAND, decode.OpTST:
		result = rdn & rm
	case decode.OpEOR:
		result = rdn ^ rm
	case decode.OpORR:
		result = rdn | rm
	case decode.OpBIC:
		result = rdn &^ rm
	case decode.OpMVN:
		result = ^rm
	}
	if d.Op != decode.OpTST {
		ctx.Reg.SetR(d.Rd, result)
	}
	setFlagsLogical(p, result, carryOut, d.SetFlags || d.Op == decode.OpTST)
	return nil
}

// shiftedRegisterNoShift returns Rm unshifted along with the current carry
// flag; the 16-bit ALU-operations format never carries a shift amount of
// its own (LSL/LSR/ASR/ROR by register is handled separately), so AND,
// EOR, TST, ORR, BIC and MVN see the operand verbatim and fall back to the
// prior carry flag per the "shift amount zero" pseudocode rule.
func shiftedRegisterNoShift(ctx *Context, d decode.Descriptor) (uint32, bool) {
	_, _, c, _ := ctx.Reg.PSR().NZCV()
	return ctx.Reg.R(d.Rm), c
}

func execALUShiftByReg16(ctx *Context, d decode.Descriptor) error {
	p := ctx.Reg.PSR()
	rdn := ctx.Reg.R(d.Rd)
	rm := ctx.Reg.R(d.Rm)
	shiftAmount := rm & 0xff
	var result uint32
	var carryOut bool
	_, _, c, _ := p.NZCV()
	switch d.Op {
	case decode.OpLSLreg:
		result, carryOut = bits.LslC(rdn, uint(shiftAmount))
		if shiftAmount == 0 {
			carryOut = c
		}
	case decode.OpLSRreg:
		result, carryOut = bits.LsrC(rdn, uint(shiftAmount))
		if shiftAmount == 0 {
			carryOut = c
		}
	case decode.OpASRreg:
		result, carryOut = bits.AsrC(rdn, uint(shiftAmount))
		if shiftAmount == 0 {
			carryOut = c
		}
	case decode.OpRORreg:
		// the full 8-bit amount goes to RorC so a rotation by 32 still
		// produces its bit-31 carry-out.
		result, carryOut = bits.RorC(rdn, uint(shiftAmount))
		if shiftAmount == 0 {
			carryOut = c
		}
	}
	ctx.Reg.SetR(d.Rd, result)
	setFlagsLogical(p, result, carryOut, d.SetFlags)
	return nil
}
