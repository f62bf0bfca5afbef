/*
   PicoBlaze opcodes for assembly and disassembly

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

package opcodemap

// Opcode tags. One tag per operation, conditional branch variants included,
// so execution dispatches on the tag alone.
const (
	OpLoad = 1 + iota
	OpAdd
	OpAddCarry
	OpSub
	OpSubCarry
	OpAnd
	OpOr
	OpXor
	OpRL
	OpRR
	OpSL0
	OpSL1
	OpSLX
	OpSLA
	OpSR0
	OpSR1
	OpSRX
	OpSRA
	OpCompare
	OpTest
	OpFetch
	OpStore
	OpInput
	OpOutput
	OpOutputK
	OpJump
	OpJumpZ
	OpJumpNZ
	OpJumpC
	OpJumpNC
	OpJumpAt
	OpCall
	OpCallZ
	OpCallNZ
	OpCallC
	OpCallNC
	OpReturn
	OpReturnZ
	OpReturnNZ
	OpReturnC
	OpReturnNC
	OpReturnIEnable
	OpReturnIDisable
	OpEnableInt
	OpDisableInt

	// Assembler directives, never executed.
	OpAddress
	OpConstant
)

// Mnemonics maps assembly mnemonics to opcode tags, multi-word mnemonics
// included verbatim. The assembler matches the longest entry that prefixes
// the line, which disambiguates JUMP from JUMP Z.
var Mnemonics = map[string]int{
	"LOAD":    OpLoad,
	"ADD":     OpAdd,
	"ADDC":    OpAddCarry,
	"ADDCY":   OpAddCarry,
	"SUB":     OpSub,
	"SUBC":    OpSubCarry,
	"SUBCY":   OpSubCarry,
	"AND":     OpAnd,
	"OR":      OpOr,
	"XOR":     OpXor,
	"RL":      OpRL,
	"RR":      OpRR,
	"SL0":     OpSL0,
	"SL1":     OpSL1,
	"SLX":     OpSLX,
	"SLA":     OpSLA,
	"SR0":     OpSR0,
	"SR1":     OpSR1,
	"SRX":     OpSRX,
	"SRA":     OpSRA,
	"COMPARE": OpCompare,
	"COMP":    OpCompare,
	"TEST":    OpTest,
	"FETCH":   OpFetch,
	"STORE":   OpStore,
	"INPUT":   OpInput,
	"IN":      OpInput,
	"OUTPUT":  OpOutput,
	"OUT":     OpOutput,
	"OUTPUTK": OpOutputK,

	"JUMP":    OpJump,
	"JUMP Z":  OpJumpZ,
	"JUMP NZ": OpJumpNZ,
	"JUMP C":  OpJumpC,
	"JUMP NC": OpJumpNC,
	"JUMP@":   OpJumpAt,
	"CALL":    OpCall,
	"CALL Z":  OpCallZ,
	"CALL NZ": OpCallNZ,
	"CALL C":  OpCallC,
	"CALL NC": OpCallNC,

	"RETURN":    OpReturn,
	"RETURN Z":  OpReturnZ,
	"RETURN NZ": OpReturnNZ,
	"RETURN C":  OpReturnC,
	"RETURN NC": OpReturnNC,
	"RET":       OpReturn,
	"RET Z":     OpReturnZ,
	"RET NZ":    OpReturnNZ,
	"RET C":     OpReturnC,
	"RET NC":    OpReturnNC,

	"RETURNI ENABLE":    OpReturnIEnable,
	"RETURNI DISABLE":   OpReturnIDisable,
	"ENABLE INTERRUPT":  OpEnableInt,
	"EINT":              OpEnableInt,
	"DISABLE INTERRUPT": OpDisableInt,
	"DINT":              OpDisableInt,

	"ADDRESS":  OpAddress,
	"CONSTANT": OpConstant,
}

// Names maps opcode tags back to their canonical mnemonic.
var Names = map[int]string{
	OpLoad:           "LOAD",
	OpAdd:            "ADD",
	OpAddCarry:       "ADDCY",
	OpSub:            "SUB",
	OpSubCarry:       "SUBCY",
	OpAnd:            "AND",
	OpOr:             "OR",
	OpXor:            "XOR",
	OpRL:             "RL",
	OpRR:             "RR",
	OpSL0:            "SL0",
	OpSL1:            "SL1",
	OpSLX:            "SLX",
	OpSLA:            "SLA",
	OpSR0:            "SR0",
	OpSR1:            "SR1",
	OpSRX:            "SRX",
	OpSRA:            "SRA",
	OpCompare:        "COMPARE",
	OpTest:           "TEST",
	OpFetch:          "FETCH",
	OpStore:          "STORE",
	OpInput:          "INPUT",
	OpOutput:         "OUTPUT",
	OpOutputK:        "OUTPUTK",
	OpJump:           "JUMP",
	OpJumpZ:          "JUMP Z",
	OpJumpNZ:         "JUMP NZ",
	OpJumpC:          "JUMP C",
	OpJumpNC:         "JUMP NC",
	OpJumpAt:         "JUMP@",
	OpCall:           "CALL",
	OpCallZ:          "CALL Z",
	OpCallNZ:         "CALL NZ",
	OpCallC:          "CALL C",
	OpCallNC:         "CALL NC",
	OpReturn:         "RETURN",
	OpReturnZ:        "RETURN Z",
	OpReturnNZ:       "RETURN NZ",
	OpReturnC:        "RETURN C",
	OpReturnNC:       "RETURN NC",
	OpReturnIEnable:  "RETURNI ENABLE",
	OpReturnIDisable: "RETURNI DISABLE",
	OpEnableInt:      "ENABLE INTERRUPT",
	OpDisableInt:     "DISABLE INTERRUPT",
	OpAddress:        "ADDRESS",
	OpConstant:       "CONSTANT",
}
