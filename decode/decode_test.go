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

package decode_test

import (
	"testing"

	"github.com/gothumb/armcore/bits"
	"github.com/gothumb/armcore/decode"
	"github.com/stretchr/testify/require"
)

func TestIs32Bit(t *testing.T) {
	require.False(t, decode.Is32Bit(0x2005)) // MOVS r0,#5
	require.False(t, decode.Is32Bit(0xE7FE)) // B .
	require.True(t, decode.Is32Bit(0xE880))  // STM.W leading halfword
	require.True(t, decode.Is32Bit(0xF000))  // BL/B.W leading halfword
	require.True(t, decode.Is32Bit(0xF8D0))  // LDR.W leading halfword
}

// Round-trip property: each encoding decodes to a descriptor whose
// printable form is the expected mnemonic.
func TestDecode16Mnemonics(t *testing.T) {
	vectors := []struct {
		hw       uint16
		mnemonic string
	}{
		{0x0049, "LSLS"},  // lsls r1, r1, #1
		{0x0849, "LSRS"},  // lsrs r1, r1, #1
		{0x1049, "ASRS"},  // asrs r1, r1, #1
		{0x1889, "ADDS"},  // adds r1, r1, r2
		{0x1A89, "SUBS"},  // subs r1, r1, r2
		{0x1DC9, "ADDS"},  // adds r1, r1, #7
		{0x2005, "MOVS"},  // movs r0, #5
		{0x2805, "CMP"},   // cmp r0, #5
		{0x3001, "ADDS"},  // adds r0, #1
		{0x3801, "SUBS"},  // subs r0, #1
		{0x4008, "ANDS"},  // ands r0, r1
		{0x4048, "EORS"},  // eors r0, r1
		{0x4148, "ADCS"},  // adcs r0, r1
		{0x4248, "RSBS"},  // rsbs r0, r1, #0
		{0x4288, "CMP"},   // cmp r0, r1
		{0x4348, "MULS"},  // muls r0, r1
		{0x43C8, "MVNS"},  // mvns r0, r1
		{0x4448, "ADD"},   // add r0, r9
		{0x4648, "MOV"},   // mov r0, r9
		{0x4708, "BX"},    // bx r1
		{0x4788, "BLX"},   // blx r1
		{0x4801, "LDR"},   // ldr r0, [pc, #4]
		{0x5088, "STR"},   // str r0, [r1, r2]
		{0x5688, "LDRSB"}, // ldrsb r0, [r1, r2]
		{0x6008, "STR"},   // str r0, [r1]
		{0x6808, "LDR"},   // ldr r0, [r1]
		{0x7008, "STRB"},  // strb r0, [r1]
		{0x8008, "STRH"},  // strh r0, [r1]
		{0x9001, "STR"},   // str r0, [sp, #4]
		{0xA001, "ADR"},   // adr r0, pc+4
		{0xA801, "ADD"},   // add r0, sp, #4
		{0xB001, "ADD"},   // add sp, #4
		{0xB081, "SUB"},   // sub sp, #4
		{0xB100, "CBZ"},   // cbz r0, .
		{0xB900, "CBNZ"},  // cbnz r0, .
		{0xB208, "SXTH"},  // sxth r0, r1
		{0xB248, "SXTB"},  // sxtb r0, r1
		{0xB288, "UXTH"},  // uxth r0, r1
		{0xB2C8, "UXTB"},  // uxtb r0, r1
		{0xB402, "PUSH"},  // push {r1}
		{0xBC04, "POP"},   // pop {r2}
		{0xB662, "CPSIE"}, // cpsie i
		{0xB672, "CPSID"}, // cpsid i
		{0xBA08, "REV"},   // rev r0, r1
		{0xBA48, "REV16"}, // rev16 r0, r1
		{0xBAC8, "REVSH"}, // revsh r0, r1
		{0xBE2A, "BKPT"},  // bkpt #42
		{0xBF00, "NOP"},
		{0xBF20, "WFE"},
		{0xBF30, "WFI"},
		{0xBF08, "IT"},   // it eq
		{0xC103, "STM"},  // stm r1!, {r0,r1}
		{0xC903, "LDM"},  // ldm r1, {r0,r1}
		{0xD0FE, "B"},    // beq .
		{0xDF2A, "SVC"},  // svc #42
		{0xE7FE, "B"},    // b .
	}
	for _, v := range vectors {
		d := decode.Decode(v.hw, 0, 0x1000)
		require.Equalf(t, v.mnemonic, d.String(), "halfword %04x", v.hw)
		require.Equal(t, 2, d.Size)
	}
}

func TestDecode32Mnemonics(t *testing.T) {
	vectors := []struct {
		hw1, hw2 uint16
		mnemonic string
	}{
		{0xF000, 0xF800, "BL"},    // bl .
		{0xF000, 0xB800, "B.W"},   // b.w .
		{0xF000, 0x8000, "B"},     // beq.w .
		{0xF04F, 0x0005, "MOV"},   // mov.w r0, #5
		{0xF100, 0x0101, "ADD"},   // add.w r1, r0, #1
		{0xF1B0, 0x0F00, "CMP"},   // cmp.w r0, #0
		{0xF240, 0x0005, "MOVW"},  // movw r0, #5
		{0xF2C0, 0x0005, "MOVT"},  // movt r0, #5
		{0xEB01, 0x00C2, "ADD"},   // add.w r0, r1, r2, lsl #3
		{0xEA4F, 0x0041, "MOV"},   // mov.w r0, r1, lsl #1
		{0xFA01, 0xF002, "LSL"},   // lsl.w r0, r1, r2
		{0xFAB1, 0xF081, "CLZ"},   // clz r0, r1
		{0xFB00, 0xF001, "MUL"},   // mul r0, r0, r1
		{0xFB90, 0xF0F1, "SDIV"},  // sdiv r0, r0, r1
		{0xFBB0, 0xF0F1, "UDIV"},  // udiv r0, r0, r1
		{0xF8D1, 0x0000, "LDR"},   // ldr.w r0, [r1]
		{0xF8C1, 0x0000, "STR"},   // str.w r0, [r1]
		{0xF891, 0x0000, "LDRB"},  // ldrb.w r0, [r1]
		{0xF9B1, 0x0000, "LDRSH"}, // ldrsh.w r0, [r1]
		{0xE881, 0x000D, "STM.W"}, // stm.w r1, {r0,r2,r3}
		{0xE891, 0x000D, "LDM.W"}, // ldm.w r1, {r0,r2,r3}
		{0xE9D1, 0x2300, "LDRD"},  // ldrd r2, r3, [r1]
		{0xE9C1, 0x2300, "STRD"},  // strd r2, r3, [r1]
		{0xE8D1, 0xF000, "TBB"},   // tbb [r1, r0]
		{0xE8D1, 0xF010, "TBH"},   // tbh [r1, r0, lsl #1]
		{0xFB01, 0x2002, "MLA"},   // mla r0, r1, r2, r2
		{0xFBA1, 0x2302, "UMULL"}, // umull r2, r3, r1, r2
		{0xF3C1, 0x0207, "UBFX"},  // ubfx r2, r1, #0, #8
		{0xF341, 0x0207, "SBFX"},  // sbfx r2, r1, #0, #8
		{0xF361, 0x0207, "BFI"},   // bfi r2, r1, #0, #8
		{0xF36F, 0x0207, "BFC"},   // bfc r2, #0, #8
		{0xF3EF, 0x8008, "MRS"},   // mrs r0, msp
		{0xF380, 0x8808, "MSR"},   // msr msp, r0
		{0xF3BF, 0x8F4F, "DSB"},
		{0xF3BF, 0x8F5F, "DMB"},
		{0xF3BF, 0x8F6F, "ISB"},
	}
	for _, v := range vectors {
		d := decode.Decode(v.hw1, v.hw2, 0x1000)
		require.Equalf(t, v.mnemonic, d.String(), "halfwords %04x %04x", v.hw1, v.hw2)
		require.Equal(t, 4, d.Size)
	}
}

func TestDecodeLoadLiteralSubtractForm(t *testing.T) {
	// ldr.w r0, [pc, #-4]: Rn=pc selects the literal form, where hw1 bit 7
	// is the U bit rather than the imm12/imm8 discriminator.
	d := decode.Decode(0xF85F, 0x0004, 0x1000)
	require.Equal(t, decode.OpLDRimmW, d.Op)
	require.Equal(t, 15, d.Rn)
	require.False(t, d.Add)
	require.EqualValues(t, 4, d.Imm)
	require.True(t, d.Index)
	require.False(t, d.WriteBack)

	// the add form keeps the same fields with U set.
	d = decode.Decode(0xF8DF, 0x0004, 0x1000)
	require.Equal(t, decode.OpLDRimmW, d.Op)
	require.True(t, d.Add)
}

func TestDecodeModifiedImmediateOperands(t *testing.T) {
	// add.w r1, r0, #1: i=0 imm3=0 imm8=1
	d := decode.Decode(0xF100, 0x0101, 0)
	require.Equal(t, 1, d.Rd)
	require.Equal(t, 0, d.Rn)
	require.False(t, d.SetFlags)
	v, _ := bits.ThumbExpandImmC(d.Imm, false)
	require.EqualValues(t, 1, v)
}

func TestUnimplementedIsDistinctFromUndefined(t *testing.T) {
	// LDREX: architecturally valid, but no exclusive monitor is modelled.
	d := decode.Decode(0xE851, 0x0F00, 0)
	require.Equal(t, decode.OpUnimplemented, d.Op)

	// Conditional branch with the reserved condition 0b1110.
	d = decode.Decode(0xDE00, 0, 0)
	require.Equal(t, decode.OpUndefined, d.Op)
}

func TestConditionalBranchCarriesCondition(t *testing.T) {
	d := decode.Decode(0xD0FE, 0, 0x1000) // beq .
	require.Equal(t, decode.OpBcc, d.Op)
	require.EqualValues(t, 0b0000, d.Cond)
	require.EqualValues(t, 0xfffffffc, d.Imm) // -4: back to the instruction itself
}
