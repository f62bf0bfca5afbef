/*
   CPU: arithmetic, logical and compare instructions.

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
	"math/bits"

	op "github.com/rcornwell/PicoBlaze/emu/opcodemap"
)

// ADD, ADDCY, SUB, SUBCY. The sum is formed in plain integers; the carry
// variants add or subtract the incoming carry before wrapping. Carry takes
// the ninth bit: overflow on add, borrow on subtract. Zero reflects the
// wrapped 8 bit result.
func (inst Instruction) arithmetic(proc *Processor) error {
	dest, err := proc.mem.FetchRegister(inst.Reg)
	if err != nil {
		return err
	}
	value, err := inst.operand(proc)
	if err != nil {
		return err
	}

	carryIn := 0
	if proc.carry {
		carryIn = 1
	}

	var result int
	switch inst.Op {
	case op.OpAdd:
		result = dest + value
	case op.OpAddCarry:
		result = dest + value + carryIn
	case op.OpSub:
		result = dest - value
	case op.OpSubCarry:
		result = dest - value - carryIn
	}

	if inst.Op == op.OpAdd || inst.Op == op.OpAddCarry {
		proc.carry = result >= 0x100
	} else {
		proc.carry = result < 0
	}
	result &= 0xff
	proc.zero = result == 0

	if err := proc.mem.SetRegister(inst.Reg, result); err != nil {
		return err
	}
	proc.mgr.Next()
	return nil
}

// AND, OR, XOR. Bitwise on 8 bits; carry always clears, zero reflects
// the result.
func (inst Instruction) logical(proc *Processor) error {
	dest, err := proc.mem.FetchRegister(inst.Reg)
	if err != nil {
		return err
	}
	value, err := inst.operand(proc)
	if err != nil {
		return err
	}

	var result int
	switch inst.Op {
	case op.OpAnd:
		result = dest & value
	case op.OpOr:
		result = dest | value
	case op.OpXor:
		result = dest ^ value
	}
	result &= 0xff

	proc.carry = false
	proc.zero = result == 0
	if err := proc.mem.SetRegister(inst.Reg, result); err != nil {
		return err
	}
	proc.mgr.Next()
	return nil
}

// COMPARE and TEST set flags without touching the register file.
// COMPARE behaves like an 8 bit subtract: zero on equality, carry on
// unsigned less than. TEST masks the operands together: zero when the
// mask comes out clear, carry set to the odd parity of the mask.
func (inst Instruction) compare(proc *Processor) error {
	first, err := proc.mem.FetchRegister(inst.Reg)
	if err != nil {
		return err
	}
	second, err := inst.operand(proc)
	if err != nil {
		return err
	}

	switch inst.Op {
	case op.OpCompare:
		proc.zero = first == second
		proc.carry = first < second
	case op.OpTest:
		masked := first & second & 0xff
		proc.zero = masked == 0
		proc.carry = bits.OnesCount8(uint8(masked))&1 != 0
	}
	proc.mgr.Next()
	return nil
}
