/*
   CPU: instruction representation and dispatch.

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

package cpu

import (
	"fmt"

	op "github.com/rcornwell/PicoBlaze/emu/opcodemap"
)

// Instruction is one decoded operation: an opcode tag plus its operands.
// Conditional branch variants carry their own tag, so execution is a single
// switch. The second operand is either a register name or a resolved value,
// never both.
type Instruction struct {
	Op    int    // Opcode tag from opcodemap.
	Reg   string // First register operand.
	Reg2  string // Second register operand when IsReg is set.
	Value int    // Literal, address or port id.
	IsReg bool   // Second operand is a register.
}

// Apply the instruction to the processor. Every instruction leaves the
// program counter on the next instruction to execute: the following
// address, a branch target, or a popped return address.
func (inst Instruction) Execute(proc *Processor) error {
	switch inst.Op {
	case op.OpAdd, op.OpAddCarry, op.OpSub, op.OpSubCarry:
		return inst.arithmetic(proc)
	case op.OpAnd, op.OpOr, op.OpXor:
		return inst.logical(proc)
	case op.OpRL, op.OpRR, op.OpSL0, op.OpSL1, op.OpSLX, op.OpSLA,
		op.OpSR0, op.OpSR1, op.OpSRX, op.OpSRA:
		return inst.shift(proc)
	case op.OpCompare, op.OpTest:
		return inst.compare(proc)
	case op.OpLoad, op.OpFetch, op.OpStore, op.OpInput, op.OpOutput, op.OpOutputK:
		return inst.data(proc)
	case op.OpJump, op.OpJumpZ, op.OpJumpNZ, op.OpJumpC, op.OpJumpNC,
		op.OpJumpAt, op.OpCall, op.OpCallZ, op.OpCallNZ, op.OpCallC, op.OpCallNC,
		op.OpReturn, op.OpReturnZ, op.OpReturnNZ, op.OpReturnC, op.OpReturnNC,
		op.OpReturnIEnable, op.OpReturnIDisable, op.OpEnableInt, op.OpDisableInt:
		return inst.control(proc)
	}
	return fmt.Errorf("cannot execute opcode %d", inst.Op)
}

// Resolve the second operand: the register's current value when it names
// a register, the literal otherwise.
func (inst Instruction) operand(proc *Processor) (int, error) {
	if inst.IsReg {
		return proc.mem.FetchRegister(inst.Reg2)
	}
	return inst.Value, nil
}
