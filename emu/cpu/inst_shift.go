/*
   CPU: single register rotate and shift instructions.

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
)

/*
   Ten variants over one register, five left and five right. Left operations shift
   the pattern up and fill the vacated LSB; right operations shift down and
   fill the vacated MSB:

     RL/RR   rotate, filled from the bit shifted out.
     SL0/SR0 fill with zero.
     SL1/SR1 fill with one.
     SLX/SRX fill from the bit next to the vacancy (LSB / MSB extend).
     SLA/SRA fill from the carry, making a 9 bit rotate through carry.

   Carry always receives the bit shifted out. The fill-with-one and
   through-carry forms clear the zero flag; the others leave it alone.
*/

func (inst Instruction) shift(proc *Processor) error {
	value, err := proc.mem.FetchRegister(inst.Reg)
	if err != nil {
		return err
	}

	msb := (value >> 7) & 1
	lsb := value & 1
	carryIn := 0
	if proc.carry {
		carryIn = 1
	}

	var result, out int
	switch inst.Op {
	case op.OpRL:
		result, out = value<<1|msb, msb
	case op.OpSL0:
		result, out = value<<1, msb
	case op.OpSL1:
		result, out = value<<1|1, msb
	case op.OpSLX:
		result, out = value<<1|lsb, msb
	case op.OpSLA:
		result, out = value<<1|carryIn, msb
	case op.OpRR:
		result, out = value>>1|lsb<<7, lsb
	case op.OpSR0:
		result, out = value>>1, lsb
	case op.OpSR1:
		result, out = value>>1|1<<7, lsb
	case op.OpSRX:
		result, out = value>>1|msb<<7, lsb
	case op.OpSRA:
		result, out = value>>1|carryIn<<7, lsb
	}
	result &= 0xff

	proc.carry = out != 0
	switch inst.Op {
	case op.OpSL1, op.OpSLA, op.OpSR1, op.OpSRA:
		proc.zero = false
	}

	if err := proc.mem.SetRegister(inst.Reg, result); err != nil {
		return err
	}
	proc.mgr.Next()
	return nil
}
