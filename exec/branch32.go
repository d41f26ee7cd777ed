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

// execBranchOrMisc32 covers BL, the 32-bit encodings of B and B<cond>,
// MRS/MSR, and the memory/instruction barriers.
func execBranchOrMisc32(ctx *Context, d decode.Descriptor) error {
	switch d.Op {
	case decode.OpBL:
		ctx.Reg.SetLR((ctx.Reg.PC() + uint32(d.Size)) | 1)
		writePC(ctx, ctx.Reg.R(15)+d.Imm)
		return nil

	case decode.OpBW, decode.OpBccW:
		writePC(ctx, ctx.Reg.R(15)+d.Imm)
		return nil

	case decode.OpMRS:
		ctx.Reg.SetR(d.Rd, readSpecialRegister(ctx, d.SpecialReg))
		return nil

	case decode.OpMSR:
		writeSpecialRegister(ctx, d.SpecialReg, ctx.Reg.R(d.Rn))
		return nil

	case decode.OpDMB, decode.OpDSB, decode.OpISB, decode.OpCLREX:
		// Barriers are no-ops: there is no out-of-order execution or write
		// buffering to order, and no exclusive monitor to clear.
		return nil
	}
	return nil
}

// readSpecialRegister implements the MRS operand table (ARMv7-M B5.2.2)
// for the subset of special registers this core models.
func readSpecialRegister(ctx *Context, sysm uint32) uint32 {
	p := ctx.Reg.PSR()
	switch sysm {
	case 0, 1, 2, 3: // APSR, IAPSR, EAPSR, xPSR
		return p.Pack()
	case 5: // IPSR
		return p.Exception()
	case 8:
		return ctx.Reg.MSP()
	case 9:
		return ctx.Reg.PSP()
	case 16:
		if ctx.Reg.PRIMASK() {
			return 1
		}
		return 0
	case 17, 18:
		return uint32(ctx.Reg.BASEPRI())
	case 19:
		if ctx.Reg.FAULTMASK() {
			return 1
		}
		return 0
	case 20:
		return ctx.Reg.Control().Pack()
	}
	return 0
}

// writeSpecialRegister implements the MSR operand table for the same
// subset of special registers readSpecialRegister covers; APSR writes only
// touch the NZCVQ condition bits, per the architecture's register write
// masking rules.
func writeSpecialRegister(ctx *Context, sysm uint32, value uint32) {
	p := ctx.Reg.PSR()
	switch sysm {
	case 0, 1, 2: // APSR/IAPSR/EAPSR: condition flags only
		n := value&0x80000000 != 0
		z := value&0x40000000 != 0
		c := value&0x20000000 != 0
		v := value&0x10000000 != 0
		p.SetNZCV(n, z, c, v)
		if value&0x08000000 != 0 {
			p.SetQ(true)
		} else {
			p.ClearQ()
		}
	case 8:
		ctx.Reg.SetMSP(value)
	case 9:
		ctx.Reg.SetPSP(value)
	case 16:
		ctx.Reg.SetPRIMASK(value&1 != 0)
	case 17, 18:
		ctx.Reg.SetBASEPRI(uint8(value & 0xff))
	case 19:
		ctx.Reg.SetFAULTMASK(value&1 != 0)
	case 20:
		existing := ctx.Reg.Control()
		existing.NPriv = value&1 != 0
		existing.SPSEL = value&2 != 0
		existing.FPCA = value&4 != 0
		ctx.Reg.SetControl(existing)
	}
}
