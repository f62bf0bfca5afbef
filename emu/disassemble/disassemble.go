/*
   PicoBlaze instruction disassembler.

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

package disassemble

import (
	"fmt"

	"github.com/rcornwell/PicoBlaze/emu/cpu"
	op "github.com/rcornwell/PicoBlaze/emu/opcodemap"
)

// Render an instruction back to assembly text. Values print as hex, the
// source convention. Used by the step trace and the monitor's list command.
func Disassemble(inst cpu.Instruction) string {
	name, ok := op.Names[inst.Op]
	if !ok {
		return fmt.Sprintf("DW %d", inst.Op)
	}

	switch inst.Op {
	case op.OpLoad, op.OpAdd, op.OpAddCarry, op.OpSub, op.OpSubCarry,
		op.OpAnd, op.OpOr, op.OpXor, op.OpCompare, op.OpTest,
		op.OpFetch, op.OpStore, op.OpInput, op.OpOutput:
		if inst.IsReg {
			return fmt.Sprintf("%s %s, %s", name, inst.Reg, inst.Reg2)
		}
		return fmt.Sprintf("%s %s, %02x", name, inst.Reg, inst.Value)

	case op.OpRL, op.OpRR, op.OpSL0, op.OpSL1, op.OpSLX, op.OpSLA,
		op.OpSR0, op.OpSR1, op.OpSRX, op.OpSRA:
		return fmt.Sprintf("%s %s", name, inst.Reg)

	case op.OpJump, op.OpCall:
		return fmt.Sprintf("%s %03x", name, inst.Value)

	case op.OpJumpZ, op.OpJumpNZ, op.OpJumpC, op.OpJumpNC,
		op.OpCallZ, op.OpCallNZ, op.OpCallC, op.OpCallNC:
		return fmt.Sprintf("%s, %03x", name, inst.Value)

	case op.OpJumpAt:
		return fmt.Sprintf("%s (%s, %s)", name, inst.Reg, inst.Reg2)
	}
	return name
}
