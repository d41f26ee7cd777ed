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

func isDataProcessing16(op decode.Op) bool {
	switch op {
	case decode.OpMOVshift, decode.OpADDreg, decode.OpSUBreg, decode.OpADDimm3, decode.OpSUBimm3,
		decode.OpMOVimm8, decode.OpCMPimm8, decode.OpADDimm8, decode.OpSUBimm8,
		decode.OpAND, decode.OpEOR, decode.OpLSLreg, decode.OpLSRreg, decode.OpASRreg,
		decode.OpADC, decode.OpSBC, decode.OpRORreg, decode.OpTST, decode.OpRSB,
		decode.OpCMPreg, decode.OpCMNreg, decode.OpORR, decode.OpMUL, decode.OpBIC, decode.OpMVN,
		decode.OpADDhi, decode.OpCMPhi, decode.OpMOVhi, decode.OpADR, decode.OpADDsp,
		decode.OpADDSPimm, decode.OpSUBSPimm,
		decode.OpSXTH, decode.OpSXTB, decode.OpUXTH, decode.OpUXTB,
		decode.OpREV, decode.OpREV16, decode.OpREVSH:
		return true
	}
	return false
}

func isLoadStore16(op decode.Op) bool {
	switch op {
	case decode.OpLDRlit, decode.OpSTRreg, decode.OpSTRBreg, decode.OpLDRreg, decode.OpLDRBreg,
		decode.OpSTRH, decode.OpLDRSB, decode.OpLDRH, decode.OpLDRSH,
		decode.OpSTRimm, decode.OpLDRimm, decode.OpSTRBimm, decode.OpLDRBimm,
		decode.OpSTRHimm, decode.OpLDRHimm, decode.OpSTRsp, decode.OpLDRsp,
		decode.OpPUSH, decode.OpPOP, decode.OpSTM, decode.OpLDM:
		return true
	}
	return false
}

// isBranchOrMisc16 also owns the ops the 16- and 32-bit hint encodings
// share (NOP, WFI, WFE, CPS): both decode trees produce the same Op values
// and the semantics are identical.
func isBranchOrMisc16(op decode.Op) bool {
	switch op {
	case decode.OpBcc, decode.OpBKPT, decode.OpSVC, decode.OpB, decode.OpIT, decode.OpBX, decode.OpBLXreg,
		decode.OpCBZ, decode.OpCBNZ, decode.OpCPS, decode.OpWFI, decode.OpWFE, decode.OpNOPhint:
		return true
	}
	return false
}

func isDataProcessing32(op decode.Op) bool {
	switch op {
	case decode.OpDPimm, decode.OpDPimmCmp, decode.OpMOVimm16, decode.OpMOVTimm16,
		decode.OpADDWimm, decode.OpSUBWimm, decode.OpDPreg, decode.OpDPregCmp,
		decode.OpMOVregW, decode.OpMVNreg, decode.OpMOVimmW, decode.OpMVNimmW,
		decode.OpShiftRegW, decode.OpCLZ,
		decode.OpMULW, decode.OpMLA, decode.OpMLS, decode.OpUMULL, decode.OpSMULL,
		decode.OpSDIV, decode.OpUDIV,
		decode.OpUBFX, decode.OpSBFX, decode.OpBFI, decode.OpBFC:
		return true
	}
	return false
}

func isLoadStore32(op decode.Op) bool {
	switch op {
	case decode.OpLDRimmW, decode.OpSTRimmW, decode.OpLDRBimmW, decode.OpSTRBimmW,
		decode.OpLDRHimmW, decode.OpSTRHimmW, decode.OpLDRSBimmW, decode.OpLDRSHimmW,
		decode.OpLDRDimm, decode.OpSTRDimm, decode.OpTBB, decode.OpTBH,
		decode.OpSTMW, decode.OpLDMW:
		return true
	}
	return false
}

func isBranchOrMisc32(op decode.Op) bool {
	switch op {
	case decode.OpBL, decode.OpBW, decode.OpBccW, decode.OpMRS, decode.OpMSR,
		decode.OpDMB, decode.OpDSB, decode.OpISB, decode.OpCLREX:
		return true
	}
	return false
}
