/*
   CPU: instruction and interrupt tests.

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
	"testing"

	"github.com/rcornwell/PicoBlaze/emu/memory"
	op "github.com/rcornwell/PicoBlaze/emu/opcodemap"
	"github.com/rcornwell/PicoBlaze/emu/program"
)

// Build a zeroed processor with the given instructions loaded from
// address zero.
func testProc(insts ...Instruction) *Processor {
	proc := New(program.DefaultISR, false)
	store := map[int]Instruction{}
	for i, inst := range insts {
		store[i] = inst
	}
	proc.LoadProgram(store)
	return proc
}

// Execute one instruction on a fresh processor with s1 preset.
func runOne(t *testing.T, inst Instruction, s1 int, carry bool) *Processor {
	t.Helper()
	proc := testProc(inst)
	_ = proc.mem.SetRegister("s1", s1)
	proc.carry = carry
	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	return proc
}

func reg(t *testing.T, proc *Processor, name string) int {
	t.Helper()
	r, err := proc.mem.FetchRegister(name)
	if err != nil {
		t.Fatalf("FetchRegister %s failed: %v", name, err)
	}
	return r
}

// Every ADD over the full operand space: carry is the ninth bit, zero
// reflects the wrapped result.
func TestAdd(t *testing.T) {
	for a := range 256 {
		for b := range 256 {
			proc := runOne(t, Instruction{Op: op.OpAdd, Reg: "s1", Value: b}, a, false)
			sum := a + b
			if r := reg(t, proc, "s1"); r != sum&0xff {
				t.Fatalf("ADD %02x+%02x not correct got: %02x expected: %02x", a, b, r, sum&0xff)
			}
			if proc.carry != (sum > 255) {
				t.Fatalf("ADD %02x+%02x carry not correct got: %v", a, b, proc.carry)
			}
			if proc.zero != (sum&0xff == 0) {
				t.Fatalf("ADD %02x+%02x zero not correct got: %v", a, b, proc.zero)
			}
			if r := proc.PC(); r != 1 {
				t.Fatalf("ADD did not advance PC got: %03x", r)
			}
		}
	}
}

func TestAddRegister(t *testing.T) {
	proc := testProc(Instruction{Op: op.OpAdd, Reg: "s1", Reg2: "s2", IsReg: true})
	_ = proc.mem.SetRegister("s1", 0x80)
	_ = proc.mem.SetRegister("s2", 0x90)
	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if r := reg(t, proc, "s1"); r != 0x10 {
		t.Errorf("ADD register not correct got: %02x expected: %02x", r, 0x10)
	}
	if !proc.carry {
		t.Errorf("ADD register carry not set")
	}
}

func TestAddCarry(t *testing.T) {
	proc := runOne(t, Instruction{Op: op.OpAddCarry, Reg: "s1", Value: 0x10}, 0x20, true)
	if r := reg(t, proc, "s1"); r != 0x31 {
		t.Errorf("ADDCY not correct got: %02x expected: %02x", r, 0x31)
	}
	if proc.carry {
		t.Errorf("ADDCY carry should clear")
	}

	// Carry in pushes the sum over the top.
	proc = runOne(t, Instruction{Op: op.OpAddCarry, Reg: "s1", Value: 0xff}, 0x00, true)
	if r := reg(t, proc, "s1"); r != 0 {
		t.Errorf("ADDCY wrap not correct got: %02x expected: %02x", r, 0)
	}
	if !proc.carry {
		t.Errorf("ADDCY carry not set")
	}
	if !proc.zero {
		t.Errorf("ADDCY zero not set")
	}
}

func TestSub(t *testing.T) {
	proc := runOne(t, Instruction{Op: op.OpSub, Reg: "s1", Value: 0x10}, 0x20, false)
	if r := reg(t, proc, "s1"); r != 0x10 {
		t.Errorf("SUB not correct got: %02x expected: %02x", r, 0x10)
	}
	if proc.carry {
		t.Errorf("SUB carry should clear without borrow")
	}

	// Borrow sets carry and wraps.
	proc = runOne(t, Instruction{Op: op.OpSub, Reg: "s1", Value: 0x21}, 0x20, false)
	if r := reg(t, proc, "s1"); r != 0xff {
		t.Errorf("SUB borrow not correct got: %02x expected: %02x", r, 0xff)
	}
	if !proc.carry {
		t.Errorf("SUB borrow carry not set")
	}

	proc = runOne(t, Instruction{Op: op.OpSub, Reg: "s1", Value: 0x20}, 0x20, false)
	if !proc.zero {
		t.Errorf("SUB zero not set")
	}
}

func TestSubCarry(t *testing.T) {
	proc := runOne(t, Instruction{Op: op.OpSubCarry, Reg: "s1", Value: 0x10}, 0x20, true)
	if r := reg(t, proc, "s1"); r != 0x0f {
		t.Errorf("SUBCY not correct got: %02x expected: %02x", r, 0x0f)
	}

	// Borrow through the carry chain.
	proc = runOne(t, Instruction{Op: op.OpSubCarry, Reg: "s1", Value: 0x00}, 0x00, true)
	if r := reg(t, proc, "s1"); r != 0xff {
		t.Errorf("SUBCY wrap not correct got: %02x expected: %02x", r, 0xff)
	}
	if !proc.carry {
		t.Errorf("SUBCY borrow carry not set")
	}
}

func TestLogical(t *testing.T) {
	cases := []struct {
		opcode int
		a, b   int
		expect int
	}{
		{op.OpAnd, 0xf0, 0x3c, 0x30},
		{op.OpOr, 0xf0, 0x3c, 0xfc},
		{op.OpXor, 0xf0, 0x3c, 0xcc},
		{op.OpAnd, 0x0f, 0xf0, 0x00},
	}
	for _, c := range cases {
		proc := runOne(t, Instruction{Op: c.opcode, Reg: "s1", Value: c.b}, c.a, true)
		if r := reg(t, proc, "s1"); r != c.expect {
			t.Errorf("Logical op %d not correct got: %02x expected: %02x", c.opcode, r, c.expect)
		}
		if proc.carry {
			t.Errorf("Logical op %d carry not cleared", c.opcode)
		}
		if proc.zero != (c.expect == 0) {
			t.Errorf("Logical op %d zero not correct got: %v", c.opcode, proc.zero)
		}
	}
}

func TestShifts(t *testing.T) {
	cases := []struct {
		opcode  int
		value   int
		carryIn bool
		expect  int
		carry   bool
	}{
		{op.OpRL, 0x81, false, 0x03, true},
		{op.OpRL, 0x01, false, 0x02, false},
		{op.OpRR, 0x81, false, 0xc0, true},
		{op.OpRR, 0x80, false, 0x40, false},
		{op.OpSL0, 0x81, false, 0x02, true},
		{op.OpSL1, 0x01, false, 0x03, false},
		{op.OpSLX, 0x81, false, 0x03, true},
		{op.OpSLX, 0x80, false, 0x00, true},
		{op.OpSLA, 0x80, true, 0x01, true},
		{op.OpSLA, 0x01, false, 0x02, false},
		{op.OpSR0, 0x81, false, 0x40, true},
		{op.OpSR1, 0x80, false, 0xc0, false},
		{op.OpSRX, 0x81, false, 0xc0, true},
		{op.OpSRX, 0x02, false, 0x01, false},
		{op.OpSRA, 0x02, true, 0x81, false},
		{op.OpSRA, 0x01, false, 0x00, true},
	}
	for _, c := range cases {
		proc := runOne(t, Instruction{Op: c.opcode, Reg: "s1"}, c.value, c.carryIn)
		if r := reg(t, proc, "s1"); r != c.expect {
			t.Errorf("Shift op %d of %02x not correct got: %02x expected: %02x",
				c.opcode, c.value, r, c.expect)
		}
		if proc.carry != c.carry {
			t.Errorf("Shift op %d of %02x carry not correct got: %v expected: %v",
				c.opcode, c.value, proc.carry, c.carry)
		}
	}
}

// SL1, SLA, SR1 and SRA clear zero; the others leave it alone.
func TestShiftZeroFlag(t *testing.T) {
	clears := map[int]bool{op.OpSL1: true, op.OpSLA: true, op.OpSR1: true, op.OpSRA: true}
	all := []int{op.OpRL, op.OpRR, op.OpSL0, op.OpSL1, op.OpSLX, op.OpSLA,
		op.OpSR0, op.OpSR1, op.OpSRX, op.OpSRA}
	for _, opcode := range all {
		proc := testProc(Instruction{Op: opcode, Reg: "s1"})
		proc.zero = true
		_ = proc.mem.SetRegister("s1", 0x10)
		if err := proc.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
		if proc.zero == clears[opcode] {
			t.Errorf("Shift op %d zero flag not correct got: %v", opcode, proc.zero)
		}
	}
}

// Shift with carry chain: SRA then SLA restores the value.
func TestShiftCarryChain(t *testing.T) {
	proc := testProc(
		Instruction{Op: op.OpSRA, Reg: "s1"},
		Instruction{Op: op.OpSLA, Reg: "s1"},
	)
	_ = proc.mem.SetRegister("s1", 0x80)

	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if r := reg(t, proc, "s1"); r != 0x40 {
		t.Errorf("SRA not correct got: %02x expected: %02x", r, 0x40)
	}
	if proc.carry {
		t.Errorf("SRA carry should hold the old LSB zero")
	}
	if proc.zero {
		t.Errorf("SRA zero should clear")
	}

	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if r := reg(t, proc, "s1"); r != 0x80 {
		t.Errorf("SLA not correct got: %02x expected: %02x", r, 0x80)
	}
	if proc.carry {
		t.Errorf("SLA carry not correct")
	}
}

// Eight rotates return every value to itself and leave carry at bit 7,
// the LSB in the MSB-first bit numbering.
func TestRotateIdentity(t *testing.T) {
	for value := range 256 {
		proc := New(program.DefaultISR, false)
		store := map[int]Instruction{}
		for i := range 8 {
			store[i] = Instruction{Op: op.OpRL, Reg: "s1"}
		}
		proc.LoadProgram(store)
		_ = proc.mem.SetRegister("s1", value)
		for range 8 {
			if err := proc.Step(); err != nil {
				t.Fatalf("Step failed: %v", err)
			}
		}
		if r := reg(t, proc, "s1"); r != value {
			t.Errorf("Eight RL of %02x not correct got: %02x", value, r)
		}
		if proc.carry != (value&1 != 0) {
			t.Errorf("Eight RL of %02x carry not correct got: %v", value, proc.carry)
		}
	}
}

// RL then RR is the identity for every value.
func TestRotateInverse(t *testing.T) {
	for value := range 256 {
		proc := testProc(
			Instruction{Op: op.OpRL, Reg: "s1"},
			Instruction{Op: op.OpRR, Reg: "s1"},
		)
		_ = proc.mem.SetRegister("s1", value)
		for range 2 {
			if err := proc.Step(); err != nil {
				t.Fatalf("Step failed: %v", err)
			}
		}
		if r := reg(t, proc, "s1"); r != value {
			t.Errorf("RL RR of %02x not correct got: %02x", value, r)
		}
	}
}

// COMPARE behaves like a subtract at width 8 but writes no register.
func TestCompare(t *testing.T) {
	for a := 0; a < 256; a += 5 {
		for b := 0; b < 256; b += 7 {
			proc := runOne(t, Instruction{Op: op.OpCompare, Reg: "s1", Value: b}, a, false)
			if proc.zero != (a == b) {
				t.Fatalf("COMPARE %02x,%02x zero not correct got: %v", a, b, proc.zero)
			}
			if proc.carry != (a < b) {
				t.Fatalf("COMPARE %02x,%02x carry not correct got: %v", a, b, proc.carry)
			}
			if r := reg(t, proc, "s1"); r != a {
				t.Fatalf("COMPARE wrote the register got: %02x expected: %02x", r, a)
			}
		}
	}
}

func TestTestOp(t *testing.T) {
	cases := []struct {
		a, b  int
		zero  bool
		carry bool
	}{
		{0xf0, 0x0f, true, false},  // Mask clear.
		{0xff, 0x01, false, true},  // One bit set, odd parity.
		{0xff, 0x03, false, false}, // Two bits set, even parity.
		{0xff, 0x07, false, true},  // Three bits set.
		{0x00, 0xff, true, false},
	}
	for _, c := range cases {
		proc := runOne(t, Instruction{Op: op.OpTest, Reg: "s1", Value: c.b}, c.a, false)
		if proc.zero != c.zero {
			t.Errorf("TEST %02x,%02x zero not correct got: %v", c.a, c.b, proc.zero)
		}
		if proc.carry != c.carry {
			t.Errorf("TEST %02x,%02x carry not correct got: %v", c.a, c.b, proc.carry)
		}
		if r := reg(t, proc, "s1"); r != c.a {
			t.Errorf("TEST wrote the register got: %02x expected: %02x", r, c.a)
		}
	}
}

func TestLoad(t *testing.T) {
	proc := runOne(t, Instruction{Op: op.OpLoad, Reg: "s1", Value: 0x42}, 0, false)
	if r := reg(t, proc, "s1"); r != 0x42 {
		t.Errorf("LOAD not correct got: %02x expected: %02x", r, 0x42)
	}
	if proc.carry || proc.zero {
		t.Errorf("LOAD should not touch flags")
	}

	proc = testProc(Instruction{Op: op.OpLoad, Reg: "s1", Reg2: "s2", IsReg: true})
	_ = proc.mem.SetRegister("s2", 0x99)
	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if r := reg(t, proc, "s1"); r != 0x99 {
		t.Errorf("LOAD register not correct got: %02x expected: %02x", r, 0x99)
	}
}

// Direct and indirect scratchpad addressing.
func TestFetchStore(t *testing.T) {
	proc := testProc(
		Instruction{Op: op.OpStore, Reg: "s1", Value: 0x10},
		Instruction{Op: op.OpFetch, Reg: "s2", Value: 0x10},
		Instruction{Op: op.OpStore, Reg: "s1", Reg2: "s3", IsReg: true},
		Instruction{Op: op.OpFetch, Reg: "s4", Reg2: "s3", IsReg: true},
	)
	_ = proc.mem.SetRegister("s1", 0x77)
	_ = proc.mem.SetRegister("s3", 0x20)
	for range 4 {
		if err := proc.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}
	if r := reg(t, proc, "s2"); r != 0x77 {
		t.Errorf("FETCH direct not correct got: %02x expected: %02x", r, 0x77)
	}
	if r := proc.mem.FetchData(0x20); r != 0x77 {
		t.Errorf("STORE indirect not correct got: %02x expected: %02x", r, 0x77)
	}
	if r := reg(t, proc, "s4"); r != 0x77 {
		t.Errorf("FETCH indirect not correct got: %02x expected: %02x", r, 0x77)
	}
}

// Without a bus backend the port registers work standalone.
func TestInputOutput(t *testing.T) {
	proc := testProc(
		Instruction{Op: op.OpOutput, Reg: "s1", Value: 0x05},
		Instruction{Op: op.OpInput, Reg: "s2", Value: 0x07},
	)
	_ = proc.mem.SetRegister("s1", 0xab)
	ext := proc.External()
	ext.SetInPort(0xcd)

	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if r := ext.OutPort(); r != 0xab {
		t.Errorf("OUTPUT out_port not correct got: %02x expected: %02x", r, 0xab)
	}
	if r := ext.PortID(); r != 0x05 {
		t.Errorf("OUTPUT port_id not correct got: %02x expected: %02x", r, 0x05)
	}

	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if r := reg(t, proc, "s2"); r != 0xcd {
		t.Errorf("INPUT not correct got: %02x expected: %02x", r, 0xcd)
	}
	if r := ext.PortID(); r != 0x07 {
		t.Errorf("INPUT port_id not correct got: %02x expected: %02x", r, 0x07)
	}
}

// A backend sees OUTPUT bytes and supplies INPUT bytes.
type recordingBackend struct {
	port  uint8
	value uint8
}

func (dev *recordingBackend) Read(_ uint8) uint8 {
	return 0x5a
}

func (dev *recordingBackend) Write(port uint8, value uint8) {
	dev.port = port
	dev.value = value
}

func TestPortBackend(t *testing.T) {
	proc := testProc(
		Instruction{Op: op.OpOutput, Reg: "s1", Value: 0x11},
		Instruction{Op: op.OpInput, Reg: "s2", Value: 0x22},
	)
	backend := &recordingBackend{}
	proc.SetBackend(backend)
	_ = proc.mem.SetRegister("s1", 0x33)

	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if backend.port != 0x11 || backend.value != 0x33 {
		t.Errorf("Backend write not correct got: %02x %02x expected: %02x %02x",
			backend.port, backend.value, 0x11, 0x33)
	}

	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if r := reg(t, proc, "s2"); r != 0x5a {
		t.Errorf("Backend read not correct got: %02x expected: %02x", r, 0x5a)
	}
}

func TestOutputK(t *testing.T) {
	proc := testProc(Instruction{Op: op.OpOutputK})
	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if r := proc.PC(); r != 1 {
		t.Errorf("OUTPUTK did not advance PC got: %03x", r)
	}
}

func TestJumpConditions(t *testing.T) {
	cases := []struct {
		opcode int
		carry  bool
		zero   bool
		taken  bool
	}{
		{op.OpJump, false, false, true},
		{op.OpJumpZ, false, true, true},
		{op.OpJumpZ, false, false, false},
		{op.OpJumpNZ, false, false, true},
		{op.OpJumpNZ, false, true, false},
		{op.OpJumpC, true, false, true},
		{op.OpJumpC, false, false, false},
		{op.OpJumpNC, false, false, true},
		{op.OpJumpNC, true, false, false},
	}
	for _, c := range cases {
		proc := testProc(Instruction{Op: c.opcode, Value: 0x20})
		proc.carry = c.carry
		proc.zero = c.zero
		if err := proc.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
		expect := 1
		if c.taken {
			expect = 0x20
		}
		if r := proc.PC(); r != expect {
			t.Errorf("Jump op %d PC not correct got: %03x expected: %03x", c.opcode, r, expect)
		}
	}
}

// Call and return round trip: one stack entry inside the subroutine,
// PC lands after the call.
func TestCallReturn(t *testing.T) {
	proc := New(program.DefaultISR, false)
	proc.LoadProgram(map[int]Instruction{
		0:     {Op: op.OpCall, Value: 0x010},
		0x010: {Op: op.OpReturn},
	})

	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if r := proc.PC(); r != 0x010 {
		t.Errorf("CALL PC not correct got: %03x expected: %03x", r, 0x010)
	}
	if r := proc.mem.StackDepth(); r != 1 {
		t.Errorf("CALL stack depth not correct got: %d expected: %d", r, 1)
	}

	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if r := proc.PC(); r != 1 {
		t.Errorf("RETURN PC not correct got: %03x expected: %03x", r, 1)
	}
	if r := proc.mem.StackDepth(); r != 0 {
		t.Errorf("RETURN stack depth not correct got: %d expected: %d", r, 0)
	}
}

// Balanced nesting to the full stack depth returns through every level,
// each RETURN landing one past its CALL.
func TestNestedCalls(t *testing.T) {
	proc := New(program.DefaultISR, false)
	store := map[int]Instruction{}
	// Level i: CALL at 2i into the next level, RETURN at 2i+1 for the way
	// back up. The deepest level is a bare RETURN.
	for i := range memory.StackLength {
		store[2*i] = Instruction{Op: op.OpCall, Value: 2 * (i + 1)}
		store[2*i+1] = Instruction{Op: op.OpReturn}
	}
	store[2*memory.StackLength] = Instruction{Op: op.OpReturn}
	proc.LoadProgram(store)

	for range memory.StackLength {
		if err := proc.Step(); err != nil {
			t.Fatalf("CALL step failed: %v", err)
		}
	}
	if r := proc.mem.StackDepth(); r != memory.StackLength {
		t.Errorf("Nested depth not correct got: %d expected: %d", r, memory.StackLength)
	}
	if r := proc.PC(); r != 2*memory.StackLength {
		t.Errorf("Deepest PC not correct got: %03x expected: %03x", r, 2*memory.StackLength)
	}

	for i := memory.StackLength - 1; i >= 0; i-- {
		if err := proc.Step(); err != nil {
			t.Fatalf("RETURN step failed: %v", err)
		}
		if r := proc.PC(); r != 2*i+1 {
			t.Fatalf("RETURN level %d PC not correct got: %03x expected: %03x", i, r, 2*i+1)
		}
	}
	if r := proc.mem.StackDepth(); r != 0 {
		t.Errorf("Stack not drained got: %d", r)
	}
}

func TestCallOverflow(t *testing.T) {
	proc := testProc(Instruction{Op: op.OpCall, Value: 0})
	for range memory.StackLength {
		if err := proc.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}
	if err := proc.Step(); !errors.Is(err, memory.ErrStackOverflow) {
		t.Errorf("CALL expected stack overflow got: %v", err)
	}
}

func TestReturnUnderflow(t *testing.T) {
	proc := testProc(Instruction{Op: op.OpReturn})
	if err := proc.Step(); !errors.Is(err, memory.ErrStackUnderflow) {
		t.Errorf("RETURN expected stack underflow got: %v", err)
	}
}

// Computed jump: low nibble of the high register and all of the low one.
func TestJumpAt(t *testing.T) {
	proc := testProc(Instruction{Op: op.OpJumpAt, Reg: "s1", Reg2: "s2"})
	_ = proc.mem.SetRegister("s1", 0xf2) // High nibble discarded.
	_ = proc.mem.SetRegister("s2", 0x34)
	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	// 0x234 wraps modulo 1024.
	if r := proc.PC(); r != 0x234%program.Length {
		t.Errorf("JUMP@ PC not correct got: %03x expected: %03x", r, 0x234%program.Length)
	}
}

// Interrupt accept: flags preserved, enable dropped, vector taken, ack
// raised for one step.
func TestInterrupt(t *testing.T) {
	proc := New(program.DefaultISR, false)
	proc.LoadProgram(map[int]Instruction{
		0x010: {Op: op.OpLoad, Reg: "s0", Value: 0},
		0x3ff: {Op: op.OpReturnIEnable},
	})
	proc.SetPC(0x010)
	proc.carry = true
	proc.zero = false
	proc.intEnb = true
	proc.External().Interrupt()

	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if r := proc.PC(); r != 0x3ff {
		t.Errorf("Interrupt PC not correct got: %03x expected: %03x", r, 0x3ff)
	}
	if r := proc.mem.StackDepth(); r != 1 {
		t.Errorf("Interrupt stack depth not correct got: %d expected: %d", r, 1)
	}
	if proc.intEnb {
		t.Errorf("Interrupt should disable further interrupts")
	}
	if !proc.PreservedCarry() {
		t.Errorf("Interrupt preserved carry not correct")
	}
	if proc.PreservedZero() {
		t.Errorf("Interrupt preserved zero not correct")
	}
	if !proc.External().InterruptAck() {
		t.Errorf("Interrupt ack not raised")
	}

	// Clobber the live flags inside the service routine, then return.
	proc.carry = false
	proc.zero = true
	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if r := proc.PC(); r != 0x010 {
		t.Errorf("RETURNI PC not correct got: %03x expected: %03x", r, 0x010)
	}
	if !proc.carry || proc.zero {
		t.Errorf("RETURNI flags not restored got: carry %v zero %v", proc.carry, proc.zero)
	}
	if !proc.intEnb {
		t.Errorf("RETURNI ENABLE should enable interrupts")
	}
	if r := proc.mem.StackDepth(); r != 0 {
		t.Errorf("RETURNI stack depth not correct got: %d expected: %d", r, 0)
	}
	if proc.External().InterruptAck() {
		t.Errorf("Interrupt ack should drop on the next step")
	}
}

// A pending interrupt waits while interrupts are disabled.
func TestInterruptMasked(t *testing.T) {
	proc := testProc(Instruction{Op: op.OpLoad, Reg: "s0", Value: 1})
	proc.External().Interrupt()
	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if r := proc.PC(); r != 1 {
		t.Errorf("Masked interrupt PC not correct got: %03x expected: %03x", r, 1)
	}
	if r := proc.mem.StackDepth(); r != 0 {
		t.Errorf("Masked interrupt pushed the stack")
	}
}

func TestReturnIDisable(t *testing.T) {
	proc := New(program.DefaultISR, false)
	proc.LoadProgram(map[int]Instruction{0: {Op: op.OpReturnIDisable}})
	_ = proc.mem.PushStack(0x123)
	proc.intEnb = true
	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if proc.intEnb {
		t.Errorf("RETURNI DISABLE should leave interrupts disabled")
	}
	if r := proc.PC(); r != 0x123 {
		t.Errorf("RETURNI PC not correct got: %03x expected: %03x", r, 0x123)
	}
}

func TestEnableDisable(t *testing.T) {
	proc := testProc(
		Instruction{Op: op.OpEnableInt},
		Instruction{Op: op.OpDisableInt},
	)
	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if !proc.intEnb {
		t.Errorf("ENABLE INTERRUPT not correct")
	}
	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if proc.intEnb {
		t.Errorf("DISABLE INTERRUPT not correct")
	}
	if r := proc.PC(); r != 2 {
		t.Errorf("Enable pair PC not correct got: %03x expected: %03x", r, 2)
	}
}

func TestOutsideProgram(t *testing.T) {
	proc := testProc(Instruction{Op: op.OpLoad, Reg: "s0", Value: 1})
	if proc.OutsideProgram() {
		t.Errorf("OutsideProgram true before running")
	}
	if err := proc.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if !proc.OutsideProgram() {
		t.Errorf("OutsideProgram false after the last instruction")
	}
	if err := proc.Step(); !errors.Is(err, ErrOutOfProgram) {
		t.Errorf("Step outside program expected error got: %v", err)
	}
}
