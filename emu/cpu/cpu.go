/*
   CPU: PicoBlaze processor state, instruction step and interrupt logic.

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
	"errors"
	"fmt"

	"github.com/rcornwell/PicoBlaze/emu/device"
	"github.com/rcornwell/PicoBlaze/emu/memory"
	"github.com/rcornwell/PicoBlaze/emu/program"
	"github.com/rcornwell/PicoBlaze/emu/word"
)

/*
   The PicoBlaze is an 8 bit soft core microcontroller for Xilinx FPGAs.
   It has sixteen 8 bit registers s0 to sf, a 64 byte scratchpad memory,
   a 1024 word program store of 18 bit instructions, and a 31 entry call
   stack of 10 bit return addresses. Two flags, carry and zero, drive the
   conditional branches. A single maskable interrupt saves both flags into
   shadow copies and vectors to a configurable service routine address,
   0x3FF by default. I/O happens over a 256 port byte wide bus: INPUT and
   OUTPUT place the port id on port_id and transfer one byte through
   in_port or out_port.
*/

// Step on a processor whose program counter has left the program.
var ErrOutOfProgram = errors.New("out of program")

// Processor owns all architectural state: memory, program counter, flags,
// interrupt machinery and the I/O port registers. Instructions receive the
// processor and mutate it directly.
type Processor struct {
	mem     *memory.Memory
	mgr     *program.Manager
	store   map[int]Instruction
	loaded  int
	carry   bool
	zero    bool
	shadowC bool // Carry saved while in the service routine.
	shadowZ bool
	intEnb  bool
	intPend bool
	intAck  bool
	portID  *word.Word
	inPort  *word.Word
	outPort *word.Word
	bus     device.PortDevice
}

// Create a processor with the given interrupt vector. When random is set,
// registers and scratchpad power up randomized the way the hardware does.
func New(isr int, random bool) *Processor {
	return &Processor{
		mem:     memory.New(random),
		mgr:     program.New(isr),
		store:   map[int]Instruction{},
		portID:  word.New(word.Data),
		inPort:  word.New(word.Data),
		outPort: word.New(word.Data),
	}
}

// Load an assembled program into the program store, replacing any
// previous one.
func (proc *Processor) LoadProgram(store map[int]Instruction) {
	proc.store = store
	proc.loaded = len(store)
}

// Attach an I/O backend. INPUT reads in_port from it, OUTPUT delivers
// out_port to it. Without a backend the port registers work standalone,
// with in_port supplied through the external interface.
func (proc *Processor) SetBackend(bus device.PortDevice) {
	proc.bus = bus
}

// Report whether the program counter sits at the count of loaded
// instructions, the address one past a contiguous program. Used by hosts
// as the termination condition. Sparse programs keep executing past this
// count; landing on an unpopulated address surfaces ErrOutOfProgram.
func (proc *Processor) OutsideProgram() bool {
	return proc.mgr.PC() == proc.loaded
}

// Execute one simulated instruction, or accept a pending interrupt.
//
// Accepting an interrupt consumes the step: the return address and both
// flags are saved, interrupts are disabled and the counter vectors to the
// service routine, which starts executing on the following step.
func (proc *Processor) Step() error {
	proc.intAck = false

	if proc.intEnb && proc.intPend {
		if err := proc.mem.PushStack(proc.mgr.PC()); err != nil {
			return err
		}
		proc.shadowC = proc.carry
		proc.shadowZ = proc.zero
		proc.intEnb = false
		proc.intPend = false
		proc.intAck = true
		proc.mgr.Jump(proc.mgr.ISR())
		return nil
	}

	if proc.OutsideProgram() {
		return ErrOutOfProgram
	}
	inst, ok := proc.store[proc.mgr.PC()]
	if !ok {
		return fmt.Errorf("no instruction at %03x: %w", proc.mgr.PC(), ErrOutOfProgram)
	}
	return inst.Execute(proc)
}

// Return the current program counter.
func (proc *Processor) PC() int {
	return proc.mgr.PC()
}

// Set the program counter, for hosts placing execution before a run.
func (proc *Processor) SetPC(address int) {
	proc.mgr.Jump(address)
}

// Return the instruction loaded at an address.
func (proc *Processor) InstructionAt(address int) (Instruction, bool) {
	inst, ok := proc.store[address]
	return inst, ok
}

// Return the architectural memory for inspection or setup.
func (proc *Processor) Memory() *memory.Memory {
	return proc.mem
}

func (proc *Processor) Carry() bool {
	return proc.carry
}

func (proc *Processor) Zero() bool {
	return proc.zero
}

func (proc *Processor) SetCarry(value bool) {
	proc.carry = value
}

func (proc *Processor) SetZero(value bool) {
	proc.zero = value
}

// Flag shadows captured when an interrupt was accepted.
func (proc *Processor) PreservedCarry() bool {
	return proc.shadowC
}

func (proc *Processor) PreservedZero() bool {
	return proc.shadowZ
}

func (proc *Processor) InterruptEnabled() bool {
	return proc.intEnb
}

// External models what hardware outside the core may observe and drive:
// flags, interrupt acknowledge and the port registers on the output side;
// the interrupt line and in_port on the input side. It is a view over the
// processor, not a separate owner.
type External struct {
	proc *Processor
}

func (proc *Processor) External() *External {
	return &External{proc: proc}
}

func (ext *External) Carry() bool {
	return ext.proc.carry
}

func (ext *External) Zero() bool {
	return ext.proc.zero
}

func (ext *External) InterruptAck() bool {
	return ext.proc.intAck
}

func (ext *External) PortID() uint8 {
	return uint8(ext.proc.portID.Value())
}

func (ext *External) OutPort() uint8 {
	return uint8(ext.proc.outPort.Value())
}

// Raise the interrupt line. Taken on the next step if interrupts are
// enabled; dropped when accepted.
func (ext *External) Interrupt() {
	ext.proc.intPend = true
}

// Drive a value onto in_port, for hosts not using a bus backend.
func (ext *External) SetInPort(value uint8) {
	ext.proc.inPort.Set(int(value))
}
