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

// execLoadStore32 covers the 32-bit encodings of STR/LDR and their
// byte/halfword/signed variants across imm12, pre/post-indexed imm8, and
// shifted-register-offset addressing, plus STM.W/LDM.W.
func execLoadStore32(ctx *Context, d decode.Descriptor) error {
	switch d.Op {
	case decode.OpSTRimmW:
		return storeAt(ctx, d, 4)
	case decode.OpSTRBimmW:
		return storeAt(ctx, d, 1)
	case decode.OpSTRHimmW:
		return storeAt(ctx, d, 2)

	case decode.OpLDRimmW:
		return loadAt(ctx, d, 4, false)
	case decode.OpLDRBimmW:
		return loadAt(ctx, d, 1, false)
	case decode.OpLDRSBimmW:
		return loadAt(ctx, d, 1, true)
	case decode.OpLDRHimmW:
		return loadAt(ctx, d, 2, false)
	case decode.OpLDRSHimmW:
		return loadAt(ctx, d, 2, true)

	case decode.OpLDRDimm:
		return execLoadStoreDual(ctx, d, true)
	case decode.OpSTRDimm:
		return execLoadStoreDual(ctx, d, false)

	case decode.OpTBB, decode.OpTBH:
		return execTableBranch(ctx, d)

	case decode.OpSTMW:
		return execStm(ctx, d, d.Rn)
	case decode.OpLDMW:
		return execLdm(ctx, d, d.Rn)
	}
	return nil
}

// execLoadStoreDual transfers the Rd/Rd2 pair to or from two consecutive
// words, sharing the pre/post-indexed writeback rules of the single
// load/stores.
func execLoadStoreDual(ctx *Context, d decode.Descriptor, load bool) error {
	addr, writeback := effectiveAddress(ctx, d)
	if load {
		lo, err := ctx.Bus.ReadBytes(addr, 4)
		if err != nil {
			return err
		}
		hi, err := ctx.Bus.ReadBytes(addr+4, 4)
		if err != nil {
			return err
		}
		ctx.Reg.SetR(d.Rd, lo)
		ctx.Reg.SetR(d.Rd2, hi)
	} else {
		if err := store(ctx, addr, 4, ctx.Reg.R(d.Rd)); err != nil {
			return err
		}
		if err := store(ctx, addr+4, 4, ctx.Reg.R(d.Rd2)); err != nil {
			return err
		}
	}
	if d.WriteBack {
		ctx.Reg.SetR(d.Rn, writeback)
	}
	return nil
}

// execTableBranch implements TBB/TBH: a forward-only branch by twice the
// byte or halfword table entry at Rn+Rm (TBB) or Rn+Rm*2 (TBH). Rn=pc
// addresses a table immediately following the instruction.
func execTableBranch(ctx *Context, d decode.Descriptor) error {
	base := ctx.Reg.R(d.Rn)
	var offset uint32
	var err error
	if d.Op == decode.OpTBH {
		offset, err = ctx.Bus.ReadBytes(base+ctx.Reg.R(d.Rm)*2, 2)
	} else {
		offset, err = ctx.Bus.ReadBytes(base+ctx.Reg.R(d.Rm), 1)
	}
	if err != nil {
		return err
	}
	writePC(ctx, ctx.Reg.R(15)+offset*2)
	return nil
}

// effectiveAddress implements the common pre/post-indexed, optionally
// register-offset, addressing mode shared by every T3/T4 single load/store
// encoding: the transfer address and the address writeback should apply
// (which differ when the instruction is post-indexed). An Rn of PC is the
// literal form, whose base is Align(PC,4).
func effectiveAddress(ctx *Context, d decode.Descriptor) (transfer, writeback uint32) {
	rn := wordAlignedIfPC(ctx, d.Rn)
	var offset uint32
	if d.RegOffset {
		offset = bits.Lsl(ctx.Reg.R(d.Rm), d.ShiftAmount)
	} else {
		offset = d.Imm
	}
	var offsetAddr uint32
	if d.Add {
		offsetAddr = rn + offset
	} else {
		offsetAddr = rn - offset
	}
	if d.Index {
		return offsetAddr, offsetAddr
	}
	return rn, offsetAddr
}

func storeAt(ctx *Context, d decode.Descriptor, width int) error {
	addr, writeback := effectiveAddress(ctx, d)
	if err := store(ctx, addr, width, ctx.Reg.R(d.Rd)); err != nil {
		return err
	}
	if d.WriteBack {
		ctx.Reg.SetR(d.Rn, writeback)
	}
	return nil
}

func loadAt(ctx *Context, d decode.Descriptor, width int, signExtend bool) error {
	addr, writeback := effectiveAddress(ctx, d)
	if err := load(ctx, d.Rd, addr, width, signExtend); err != nil {
		return err
	}
	if d.WriteBack {
		ctx.Reg.SetR(d.Rn, writeback)
	}
	return nil
}
