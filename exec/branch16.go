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

import "github.com/gothumb/armcore/decode"

// execBranchOrMisc16 covers the short conditional and unconditional
// branches, BX/BLX, BKPT, SVC, compare-and-branch, CPS, the wait hints,
// and IT (itself a 16-bit encoding).
func execBranchOrMisc16(ctx *Context, d decode.Descriptor) error {
	switch d.Op {
	case decode.OpBcc, decode.OpB:
		writePC(ctx, ctx.Reg.R(15)+d.Imm)
		return nil

	case decode.OpBX:
		return interworkingWritePC(ctx, ctx.Reg.R(d.Rm))

	case decode.OpBLXreg:
		returnAddr := (ctx.Reg.PC() + uint32(d.Size)) | 1
		target := ctx.Reg.R(d.Rm)
		ctx.Reg.SetLR(returnAddr)
		return interworkingWritePC(ctx, target)

	case decode.OpBKPT:
		ctx.Breakpoint = &BreakpointInfo{Imm: d.Imm, Addr: d.Addr}
		return nil

	case decode.OpSVC:
		if ctx.PendException != nil {
			ctx.PendException(11) // SVCall, per scs.ExcSVCall
		}
		return nil

	case decode.OpIT:
		ctx.Reg.PSR().SetITState(uint8(d.Imm))
		return nil

	case decode.OpCBZ, decode.OpCBNZ:
		zero := ctx.Reg.R(d.Rn) == 0
		if zero == (d.Op == decode.OpCBZ) {
			writePC(ctx, ctx.Reg.R(15)+d.Imm)
		}
		return nil

	case decode.OpCPS:
		disable := d.Imm&0x10 != 0
		if d.Imm&0b10 != 0 { // I: PRIMASK
			ctx.Reg.SetPRIMASK(disable)
		}
		if d.Imm&0b01 != 0 { // F: FAULTMASK
			ctx.Reg.SetFAULTMASK(disable)
		}
		return nil

	case decode.OpWFI:
		ctx.Wfi = true
		return nil
	case decode.OpWFE:
		ctx.Wfe = true
		return nil
	case decode.OpNOPhint:
		return nil
	}
	return nil
}
