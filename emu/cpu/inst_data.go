/*
   CPU: data movement instructions.

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
	"github.com/rcornwell/PicoBlaze/util/debug"
)

// LOAD, FETCH, STORE, INPUT, OUTPUT, OUTPUTK. None of these touch the
// flags. A register second operand on FETCH and STORE addresses the
// scratchpad indirectly through the register's value; a literal addresses
// it directly. INPUT and OUTPUT place the port id on port_id and transfer
// one byte through in_port or out_port, consulting the bus backend when
// one is attached.
func (inst Instruction) data(proc *Processor) error {
	value, err := inst.operand(proc)
	if err != nil {
		return err
	}

	switch inst.Op {
	case op.OpLoad:
		if err := proc.mem.SetRegister(inst.Reg, value); err != nil {
			return err
		}

	case op.OpFetch:
		if err := proc.mem.SetRegister(inst.Reg, proc.mem.FetchData(value)); err != nil {
			return err
		}

	case op.OpStore:
		source, err := proc.mem.FetchRegister(inst.Reg)
		if err != nil {
			return err
		}
		proc.mem.StoreData(value, source)

	case op.OpInput:
		proc.portID.Set(value)
		if proc.bus != nil {
			proc.inPort.Set(int(proc.bus.Read(uint8(proc.portID.Value()))))
		}
		if err := proc.mem.SetRegister(inst.Reg, proc.inPort.Value()); err != nil {
			return err
		}
		debug.Debugf("IO", debug.DebugIO, "in  %02x: %02x", proc.portID.Value(), proc.inPort.Value())

	case op.OpOutput:
		source, err := proc.mem.FetchRegister(inst.Reg)
		if err != nil {
			return err
		}
		proc.portID.Set(value)
		proc.outPort.Set(source)
		debug.Debugf("IO", debug.DebugIO, "out %02x: %02x", proc.portID.Value(), proc.outPort.Value())
		if proc.bus != nil {
			proc.bus.Write(uint8(proc.portID.Value()), uint8(proc.outPort.Value()))
		}

	case op.OpOutputK:
		// Reserved mnemonic with no architectural effect defined.
	}

	proc.mgr.Next()
	return nil
}
