/*
   CPU: control flow instructions.

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
	op "github.com/rcornwell/PicoBlaze/emu/opcodemap"
	"github.com/rcornwell/PicoBlaze/emu/program"
)

// JUMP, CALL, RETURN with their conditional variants, the computed JUMP@,
// RETURNI and the interrupt enable pair.
//
// CALL pushes the address of the CALL itself, so RETURN pops and adds one.
// RETURNI pops without the adjustment, because the interrupt saved the
// address of the instruction that had not yet executed, and restores both
// flags from their shadows.
func (inst Instruction) control(proc *Processor) error {
	switch inst.Op {
	case op.OpJump, op.OpJumpZ, op.OpJumpNZ, op.OpJumpC, op.OpJumpNC:
		if !inst.taken(proc) {
			proc.mgr.Next()
			return nil
		}
		proc.mgr.Jump(inst.Value)

	case op.OpJumpAt:
		high, err := proc.mem.FetchRegister(inst.Reg)
		if err != nil {
			return err
		}
		low, err := proc.mem.FetchRegister(inst.Reg2)
		if err != nil {
			return err
		}
		// Low four bits of the high register concatenated with the
		// low register, wrapped to the program length.
		proc.mgr.Jump((high&0x0f)<<8 | low)

	case op.OpCall, op.OpCallZ, op.OpCallNZ, op.OpCallC, op.OpCallNC:
		if !inst.taken(proc) {
			proc.mgr.Next()
			return nil
		}
		if err := proc.mem.PushStack(proc.mgr.PC()); err != nil {
			return err
		}
		proc.mgr.Jump(inst.Value)

	case op.OpReturn, op.OpReturnZ, op.OpReturnNZ, op.OpReturnC, op.OpReturnNC:
		if !inst.taken(proc) {
			proc.mgr.Next()
			return nil
		}
		ret, err := proc.mem.PopStack()
		if err != nil {
			return err
		}
		proc.mgr.Jump((ret + 1) % program.Length)

	case op.OpReturnIEnable, op.OpReturnIDisable:
		ret, err := proc.mem.PopStack()
		if err != nil {
			return err
		}
		proc.carry = proc.shadowC
		proc.zero = proc.shadowZ
		proc.intEnb = inst.Op == op.OpReturnIEnable
		proc.mgr.Jump(ret)

	case op.OpEnableInt:
		proc.intEnb = true
		proc.mgr.Next()

	case op.OpDisableInt:
		proc.intEnb = false
		proc.mgr.Next()
	}
	return nil
}

// Evaluate the branch guard. Unconditional forms are always taken.
func (inst Instruction) taken(proc *Processor) bool {
	switch inst.Op {
	case op.OpJumpZ, op.OpCallZ, op.OpReturnZ:
		return proc.zero
	case op.OpJumpNZ, op.OpCallNZ, op.OpReturnNZ:
		return !proc.zero
	case op.OpJumpC, op.OpCallC, op.OpReturnC:
		return proc.carry
	case op.OpJumpNC, op.OpCallNC, op.OpReturnNC:
		return !proc.carry
	}
	return true
}
