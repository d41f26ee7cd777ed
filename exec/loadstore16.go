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
	"github.com/gothumb/armcore/decode"
)

// execLoadStore16 covers the 16-bit load/store formats: PC/SP-relative
// load, register-offset and immediate-offset load/store, the
// sign-extending loads, PUSH/POP, and STM/LDM.
func execLoadStore16(ctx *Context, d decode.Descriptor) error {
	switch d.Op {
	case decode.OpLDRlit:
		addr := (ctx.Reg.R(15) &^ 3) + d.Imm
		v, err := ctx.Bus.ReadBytes(addr, 4)
		if err != nil {
			return err
		}
		ctx.Reg.SetR(d.Rd, v)
		return nil

	case decode.OpSTRreg:
		return store(ctx, ctx.Reg.R(d.Rn)+ctx.Reg.R(d.Rm), 4, ctx.Reg.R(d.Rd))
	case decode.OpSTRBreg:
		return store(ctx, ctx.Reg.R(d.Rn)+ctx.Reg.R(d.Rm), 1, ctx.Reg.R(d.Rd))
	case decode.OpSTRH:
		return store(ctx, ctx.Reg.R(d.Rn)+ctx.Reg.R(d.Rm), 2, ctx.Reg.R(d.Rd))

	case decode.OpLDRreg:
		return load(ctx, d.Rd, ctx.Reg.R(d.Rn)+ctx.Reg.R(d.Rm), 4, false)
	case decode.OpLDRBreg:
		return load(ctx, d.Rd, ctx.Reg.R(d.Rn)+ctx.Reg.R(d.Rm), 1, false)
	case decode.OpLDRSB:
		return load(ctx, d.Rd, ctx.Reg.R(d.Rn)+ctx.Reg.R(d.Rm), 1, true)
	case decode.OpLDRH:
		return load(ctx, d.Rd, ctx.Reg.R(d.Rn)+ctx.Reg.R(d.Rm), 2, false)
	case decode.OpLDRSH:
		return load(ctx, d.Rd, ctx.Reg.R(d.Rn)+ctx.Reg.R(d.Rm), 2, true)

	case decode.OpSTRimm:
		return store(ctx, ctx.Reg.R(d.Rn)+d.Imm, 4, ctx.Reg.R(d.Rd))
	case decode.OpLDRimm:
		return load(ctx, d.Rd, ctx.Reg.R(d.Rn)+d.Imm, 4, false)
	case decode.OpSTRBimm:
		return store(ctx, ctx.Reg.R(d.Rn)+d.Imm, 1, ctx.Reg.R(d.Rd))
	case decode.OpLDRBimm:
		return load(ctx, d.Rd, ctx.Reg.R(d.Rn)+d.Imm, 1, false)
	case decode.OpSTRHimm:
		return store(ctx, ctx.Reg.R(d.Rn)+d.Imm, 2, ctx.Reg.R(d.Rd))
	case decode.OpLDRHimm:
		return load(ctx, d.Rd, ctx.Reg.R(d.Rn)+d.Imm, 2, false)

	case decode.OpSTRsp:
		return store(ctx, ctx.Reg.R(13)+d.Imm, 4, ctx.Reg.R(d.Rd))
	case decode.OpLDRsp:
		return load(ctx, d.Rd, ctx.Reg.R(13)+d.Imm, 4, false)

	case decode.OpPUSH:
		return execPush(ctx, d)
	case decode.OpPOP:
		return execPop(ctx, d)
	case decode.OpSTM:
		return execStm(ctx, d, 13)
	case decode.OpLDM:
		return execLdm(ctx, d, 13)
	}
	return nil
}

func store(ctx *Context, addr uint32, width int, value uint32) error {
	return ctx.Bus.WriteBytes(addr, width, value)
}

func load(ctx *Context, rt int, addr uint32, width int, signExtend bool) error {
	v, err := ctx.Bus.ReadBytes(addr, width)
	if err != nil {
		return err
	}
	if signExtend {
		shift := uint(32 - width*8)
		v = uint32(int32(v<<shift) >> shift)
	}
	if rt == 15 {
		// Loading the PC is an interworking branch: bit 0 must select Thumb.
		return interworkingWritePC(ctx, v)
	}
	ctx.Reg.SetR(rt, v)
	return nil
}

// execPush stores the listed registers to a descending full stack: SP is
// decremented by 4 for every set bit before the first store, matching
// STMDB semantics.
func execPush(ctx *Context, d decode.Descriptor) error {
	sp := ctx.Reg.R(13)
	count := popcount(d.RegList)
	sp -= 4 * uint32(count)
	addr := sp
	for i := 0; i < 16; i++ {
		if d.RegList&(1<<uint(i)) == 0 {
			continue
		}
		if err := store(ctx, addr, 4, ctx.Reg.R(i)); err != nil {
			return err
		}
		addr += 4
	}
	ctx.Reg.SetR(13, sp)
	return nil
}

// execPop loads the listed registers (the decoder maps POP {...,pc} onto
// bit 15 of RegList) from an ascending full stack.
func execPop(ctx *Context, d decode.Descriptor) error {
	sp := ctx.Reg.R(13)
	addr := sp
	loadedPC := false
	var pcVal uint32
	for i := 0; i < 16; i++ {
		if d.RegList&(1<<uint(i)) == 0 {
			continue
		}
		v, err := ctx.Bus.ReadBytes(addr, 4)
		if err != nil {
			return err
		}
		addr += 4
		if i == 15 {
			loadedPC = true
			pcVal = v
			continue
		}
		ctx.Reg.SetR(i, v)
	}
	ctx.Reg.SetR(13, addr)
	if loadedPC {
		return interworkingWritePC(ctx, pcVal)
	}
	return nil
}

// execStm covers both the increment-after and decrement-before (STMDB.W)
// forms; registers are always stored in ascending register-number order at
// ascending addresses, only the base differs.
func execStm(ctx *Context, d decode.Descriptor, baseReg int) error {
	start := ctx.Reg.R(d.Rn)
	if !d.Add {
		start -= 4 * uint32(popcount(d.RegList))
	}
	addr := start
	for i := 0; i < 16; i++ {
		if d.RegList&(1<<uint(i)) == 0 {
			continue
		}
		if err := store(ctx, addr, 4, ctx.Reg.R(i)); err != nil {
			return err
		}
		addr += 4
	}
	if d.WriteBack {
		if d.Add {
			ctx.Reg.SetR(d.Rn, addr)
		} else {
			ctx.Reg.SetR(d.Rn, start)
		}
	}
	return nil
}

func execLdm(ctx *Context, d decode.Descriptor, baseReg int) error {
	start := ctx.Reg.R(d.Rn)
	if !d.Add {
		start -= 4 * uint32(popcount(d.RegList))
	}
	addr := start
	loadedBase := d.RegList&(1<<uint(d.Rn)) != 0
	loadedPC := false
	var pcVal uint32
	for i := 0; i < 16; i++ {
		if d.RegList&(1<<uint(i)) == 0 {
			continue
		}
		v, err := ctx.Bus.ReadBytes(addr, 4)
		if err != nil {
			return err
		}
		addr += 4
		if i == 15 {
			loadedPC = true
			pcVal = v
			continue
		}
		ctx.Reg.SetR(i, v)
	}
	// writeback does not apply when the base register was itself reloaded,
	// per the LDM pseudocode's wback-suppression rule.
	if d.WriteBack && !loadedBase {
		if d.Add {
			ctx.Reg.SetR(d.Rn, addr)
		} else {
			ctx.Reg.SetR(d.Rn, start)
		}
	}
	if loadedPC {
		return interworkingWritePC(ctx, pcVal)
	}
	return nil
}

func popcount(regList uint16) int {
	n := 0
	for i := 0; i < 16; i++ {
		if regList&(1<<uint(i)) != 0 {
			n++
		}
	}
	return n
}
