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

// Package decode is the two-stage decoder that turns a 16- or 32-bit
// Thumb halfword stream into a semantic instruction descriptor. The 16-bit
// tree follows the classic Thumb format tables; the 32-bit tree follows
// the Thumb-2 top-level encoding split. Decoding is pure: it reads nothing
// but the halfwords and the instruction's address, so descriptors can be
// produced and inspected without a live processor.
package decode

import "github.com/gothumb/armcore/bits"

// Op identifies an instruction family. Naming follows the ARM mnemonics.
type Op int

const (
	OpInvalid Op = iota

	// format 1-4 / data processing
	OpMOVshift // LSL/LSR/ASR/RRX Rd, Rm, #imm  (register, immediate shift)
	OpADDreg
	OpSUBreg
	OpADDimm3
	OpSUBimm3
	OpMOVimm8
	OpCMPimm8
	OpADDimm8
	OpSUBimm8
	OpAND
	OpEOR
	OpLSLreg
	OpLSRreg
	OpASRreg
	OpADC
	OpSBC
	OpRORreg
	OpTST
	OpRSB // NEG
	OpCMPreg
	OpCMNreg
	OpORR
	OpMUL
	OpBIC
	OpMVN

	// format 5: hi register ops / BX / BLX
	OpADDhi
	OpCMPhi
	OpMOVhi
	OpBX
	OpBLXreg

	// loads/stores (16-bit)
	OpLDRlit   // PC-relative load
	OpSTRreg   // [Rn, Rm]
	OpSTRBreg
	OpLDRreg
	OpLDRBreg
	OpSTRH
	OpLDRSB
	OpLDRH
	OpLDRSH
	OpSTRimm
	OpLDRimm
	OpSTRBimm
	OpLDRBimm
	OpSTRHimm
	OpLDRHimm
	OpSTRsp
	OpLDRsp
	OpADR
	OpADDsp
	OpADDSPimm
	OpSUBSPimm
	OpPUSH
	OpPOP
	OpSTM
	OpLDM

	OpBcc   // conditional branch (16-bit short form)
	OpBKPT
	OpSVC
	OpB     // unconditional branch (16-bit short form)
	OpIT
	OpCBZ
	OpCBNZ
	OpSXTH
	OpSXTB
	OpUXTH
	OpUXTB
	OpREV
	OpREV16
	OpREVSH

	// 32-bit (Thumb-2)
	OpBL
	OpBW      // unconditional branch, 32-bit encoding
	OpBccW    // conditional branch, 32-bit encoding
	OpDPimm   // data-processing modified-immediate (AND/ORR/EOR/ADD/ADC/SBC/SUB/RSB/BIC/ORN, S bit)
	OpDPimmCmp // TST/TEQ/CMP/CMN (modified immediate, always sets flags, Rd unused)
	OpMOVimm16 // MOVW
	OpMOVTimm16
	OpADDWimm  // ADDW/SUBW plain 12-bit immediate, does not set flags
	OpSUBWimm
	OpDPreg    // data-processing register (shifted register), same op set as OpDPimm
	OpDPregCmp // TST/TEQ/CMP/CMN register form
	OpMOVregW  // MOV.W / MVN.W / shifted-register move forms
	OpMVNreg
	OpMOVimmW // MOV.W #const (modified immediate)
	OpMVNimmW
	OpShiftRegW // LSL/LSR/ASR/ROR Rd, Rn, Rm (32-bit shift-by-register)
	OpCLZ
	OpMULW
	OpMLA
	OpMLS
	OpUMULL
	OpSMULL
	OpSDIV
	OpUDIV
	OpUBFX
	OpSBFX
	OpBFI
	OpBFC
	OpLDRimmW
	OpSTRimmW
	OpLDRBimmW
	OpSTRBimmW
	OpLDRHimmW
	OpSTRHimmW
	OpLDRSBimmW
	OpLDRSHimmW
	OpLDRDimm
	OpSTRDimm
	OpTBB
	OpTBH
	OpSTMW
	OpLDMW
	OpMRS
	OpMSR
	OpDMB
	OpDSB
	OpISB
	OpNOPhint
	OpWFI
	OpWFE
	OpCLREX
	OpCPS

	OpUnimplemented
	OpUndefined
)

// Descriptor is the semantic instruction descriptor: a tagged variant
// identifying the operation family plus its decoded operands. Lifetime is
// one execute step; descriptors are not cached between steps. A register
// field is -1 where an encoding explicitly omits that operand (e.g. MOV's
// absent Rn); fields an Op never consults are left at their zero value.
type Descriptor struct {
	Op       Op
	Size     int // encoding length in bytes: 2 for 16-bit, 4 for 32-bit encodings
	Addr     uint32

	Cond     uint8 // condition code this instruction itself carries (B.cond); AL (0b1110) otherwise
	SetFlags bool

	Rd, Rn, Rm  int
	Rd2         int // second transfer register (LDRD/STRD), accumulator (MLA/MLS), or RdLo (long multiply)
	Imm         uint32
	ShiftType   bits.ShiftType
	ShiftAmount uint

	Add       bool // offset is added (true) or subtracted (false)
	Index     bool // pre-indexed (true) or post-indexed (false)
	WriteBack bool
	RegOffset bool // true when the offset is Rm<<ShiftAmount rather than Imm

	RegList uint16 // LDM/STM/PUSH/POP register bitmap, bit n = r[n]

	Mnemonic string // used for disassembly and for Unimplemented/Undefined reporting
	SpecialReg uint32 // MRS/MSR special-register selector (SYSm)

	RawHalfwords []uint16
}

// String returns the descriptor's printable form: the decoded mnemonic.
func (d Descriptor) String() string { return d.Mnemonic }
