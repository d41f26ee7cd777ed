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

// execDataProcessing32 covers the Thumb-2 data-processing families:
// modified-immediate and shifted-register forms, MOVW/MOVT/ADDW/SUBW,
// shift-by-register, CLZ, and MUL/SDIV/UDIV. The modified-immediate and
// shifted-register forms share one operand-computation path since decode
// collapsed their op tables onto the same mnemonic set.
func execDataProcessing32(ctx *Context, d decode.Descriptor) error {
	p := ctx.Reg.PSR()
	switch d.Op {
	case decode.OpDPimm, decode.OpDPimmCmp:
		_, _, c, _ := p.NZCV()
		operand2, carryOut := bits.ThumbExpandImmC(d.Imm, c)
		return execDPCommon(ctx, d, operand2, carryOut)

	case decode.OpDPreg, decode.OpDPregCmp:
		operand2, carryOut := shiftedRegister(ctx, d)
		return execDPCommon(ctx, d, operand2, carryOut)

	case decode.OpMOVregW:
		operand2, carryOut := shiftedRegister(ctx, d)
		ctx.Reg.SetR(d.Rd, operand2)
		setFlagsLogical(p, operand2, carryOut, d.SetFlags)
		return nil

	case decode.OpMOVimmW:
		_, _, c, _ := p.NZCV()
		operand2, carryOut := bits.ThumbExpandImmC(d.Imm, c)
		ctx.Reg.SetR(d.Rd, operand2)
		setFlagsLogical(p, operand2, carryOut, d.SetFlags)
		return nil

	case decode.OpMVNimmW:
		_, _, c, _ := p.NZCV()
		operand2, carryOut := bits.ThumbExpandImmC(d.Imm, c)
		result := ^operand2
		ctx.Reg.SetR(d.Rd, result)
		setFlagsLogical(p, result, carryOut, d.SetFlags)
		return nil

	case decode.OpMVNreg:
		operand2, carryOut := shiftedRegister(ctx, d)
		result := ^operand2
		ctx.Reg.SetR(d.Rd, result)
		setFlagsLogical(p, result, carryOut, d.SetFlags)
		return nil

	case decode.OpShiftRegW:
		rn := ctx.Reg.R(d.Rn)
		amount := ctx.Reg.R(d.Rm) & 0xff
		_, _, c, _ := p.NZCV()
		result, carryOut := rn, c
		if amount != 0 {
			result, carryOut = bits.ShiftC(rn, d.ShiftType, uint(amount), c)
		}
		ctx.Reg.SetR(d.Rd, result)
		setFlagsLogical(p, result, carryOut, d.SetFlags)
		return nil

	case decode.OpCLZ:
		ctx.Reg.SetR(d.Rd, bits.Clz(ctx.Reg.R(d.Rm)))
		return nil

	case decode.OpMOVimm16:
		ctx.Reg.SetR(d.Rd, d.Imm)
		return nil

	case decode.OpMOVTimm16:
		cur := ctx.Reg.R(d.Rd)
		ctx.Reg.SetR(d.Rd, (d.Imm<<16)|(cur&0xffff))
		return nil

	case decode.OpADDWimm:
		result, _, _ := bits.AddWithCarry(wordAlignedIfPC(ctx, d.Rn), d.Imm, false)
		ctx.Reg.SetR(d.Rd, result)
		return nil

	case decode.OpSUBWimm:
		result, _, _ := bits.AddWithCarry(wordAlignedIfPC(ctx, d.Rn), ^d.Imm, true)
		ctx.Reg.SetR(d.Rd, result)
		return nil

	case decode.OpMULW:
		ctx.Reg.SetR(d.Rd, ctx.Reg.R(d.Rn)*ctx.Reg.R(d.Rm))
		return nil

	case decode.OpMLA:
		ctx.Reg.SetR(d.Rd, ctx.Reg.R(d.Rd2)+ctx.Reg.R(d.Rn)*ctx.Reg.R(d.Rm))
		return nil

	case decode.OpMLS:
		ctx.Reg.SetR(d.Rd, ctx.Reg.R(d.Rd2)-ctx.Reg.R(d.Rn)*ctx.Reg.R(d.Rm))
		return nil

	case decode.OpUMULL:
		wide := uint64(ctx.Reg.R(d.Rn)) * uint64(ctx.Reg.R(d.Rm))
		ctx.Reg.SetR(d.Rd2, uint32(wide))
		ctx.Reg.SetR(d.Rd, uint32(wide>>32))
		return nil

	case decode.OpSMULL:
		wide := int64(int32(ctx.Reg.R(d.Rn))) * int64(int32(ctx.Reg.R(d.Rm)))
		ctx.Reg.SetR(d.Rd2, uint32(uint64(wide)))
		ctx.Reg.SetR(d.Rd, uint32(uint64(wide)>>32))
		return nil

	case decode.OpUBFX:
		v := ctx.Reg.R(d.Rn) >> d.Imm
		mask := uint32(1)<<d.ShiftAmount - 1
		ctx.Reg.SetR(d.Rd, v&mask)
		return nil

	case decode.OpSBFX:
		v := ctx.Reg.R(d.Rn) >> d.Imm
		v &= uint32(1)<<d.ShiftAmount - 1
		ctx.Reg.SetR(d.Rd, bits.SignExtend(v, int(d.ShiftAmount)))
		return nil

	case decode.OpBFI:
		mask := (uint32(1)<<d.ShiftAmount - 1) << d.Imm
		field := ctx.Reg.R(d.Rn) << d.Imm
		ctx.Reg.SetR(d.Rd, (ctx.Reg.R(d.Rd)&^mask)|(field&mask))
		return nil

	case decode.OpBFC:
		mask := (uint32(1)<<d.ShiftAmount - 1) << d.Imm
		ctx.Reg.SetR(d.Rd, ctx.Reg.R(d.Rd)&^mask)
		return nil

	case decode.OpSDIV:
		rn := int32(ctx.Reg.R(d.Rn))
		rm := int32(ctx.Reg.R(d.Rm))
		var result int32
		if rm != 0 {
			result = rn / rm
		}
		ctx.Reg.SetR(d.Rd, uint32(result))
		return nil

	case decode.OpUDIV:
		rn := ctx.Reg.R(d.Rn)
		rm := ctx.Reg.R(d.Rm)
		var result uint32
		if rm != 0 {
			result = rn / rm
		}
		ctx.Reg.SetR(d.Rd, result)
		return nil
	}
	return nil
}

// execDPCommon applies the AND/BIC/ORR/ORN/EOR/ADD/ADC/SBC/SUB/RSB op
// table (and its TST/TEQ/CMN/CMP comparison-only counterpart) shared by
// the modified-immediate and shifted-register 32-bit data processing
// instructions; operand2 and its shifter carry-out have already been
// computed by the caller.
func execDPCommon(ctx *Context, d decode.Descriptor, operand2 uint32, carryOut bool) error {
	p := ctx.Reg.PSR()
	var rn uint32
	if d.Rn >= 0 {
		rn = ctx.Reg.R(d.Rn)
	}
	var result uint32
	logical := false
	switch d.Mnemonic {
	case "AND", "TST":
		result = rn & operand2
		logical = true
	case "BIC":
		result = rn &^ operand2
		logical = true
	case "ORR":
		result = rn | operand2
		logical = true
	case "ORN":
		result = rn | ^operand2
		logical = true
	case "EOR", "TEQ":
		result = rn ^ operand2
		logical = true
	case "ADD", "CMN":
		var carry, overflow bool
		result, carry, overflow = bits.AddWithCarry(rn, operand2, false)
		setFlagsArith(p, result, carry, overflow, d.SetFlags || d.Op == decode.OpDPimmCmp || d.Op == decode.OpDPregCmp)
	case "ADC":
		_, _, c, _ := p.NZCV()
		var carry, overflow bool
		result, carry, overflow = bits.AddWithCarry(rn, operand2, c)
		setFlagsArith(p, result, carry, overflow, d.SetFlags)
	case "SBC":
		_, _, c, _ := p.NZCV()
		var carry, overflow bool
		result, carry, overflow = bits.AddWithCarry(rn, ^operand2, c)
		setFlagsArith(p, result, carry, overflow, d.SetFlags)
	case "SUB", "CMP":
		var carry, overflow bool
		result, carry, overflow = bits.AddWithCarry(rn, ^operand2, true)
		setFlagsArith(p, result, carry, overflow, d.SetFlags || d.Op == decode.OpDPimmCmp || d.Op == decode.OpDPregCmp)
	case "RSB":
		var carry, overflow bool
		result, carry, overflow = bits.AddWithCarry(^rn, operand2, true)
		setFlagsArith(p, result, carry, overflow, d.SetFlags)
	}
	if logical {
		setFlagsLogical(p, result, carryOut, d.SetFlags || d.Op == decode.OpDPimmCmp || d.Op == decode.OpDPregCmp)
	}
	if d.Op != decode.OpDPimmCmp && d.Op != decode.OpDPregCmp {
		ctx.Reg.SetR(d.Rd, result)
	}
	return nil
}
