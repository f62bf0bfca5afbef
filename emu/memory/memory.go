package memory

/*
 * PicoBlaze - Register file, scratchpad memory and call stack
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rcornwell/PicoBlaze/emu/word"
)

// Architectural sizes.
const (
	NumRegisters = 16 // Registers s0 through sf.
	DataLength   = 64 // Scratchpad cells.
	StackLength  = 31 // Call stack entries.
)

var (
	ErrUnknownRegister = errors.New("unknown register")
	ErrStackOverflow   = errors.New("stack overflow")
	ErrStackUnderflow  = errors.New("stack underflow")
)

// Memory owns the register file, the scratchpad data memory and the
// call/return stack. Each location enforces its own word width, so callers
// never need to mask values before storing.
type Memory struct {
	registers map[string]*word.Word
	data      [DataLength]*word.Word
	stack     [StackLength]*word.Word
	pointer   int
}

// Create the architectural memory. When random is set, registers and
// scratchpad cells power up with a randomized bit pattern the way the
// hardware does; otherwise they are zeroed.
func New(random bool) *Memory {
	mem := &Memory{registers: make(map[string]*word.Word, NumRegisters)}
	for i := range NumRegisters {
		mem.registers[fmt.Sprintf("s%x", i)] = newCell(random)
	}
	for i := range mem.data {
		mem.data[i] = newCell(random)
	}
	for i := range mem.stack {
		mem.stack[i] = word.New(word.Address)
	}
	return mem
}

func newCell(random bool) *word.Word {
	if random {
		return word.NewValue(word.Data, rand.Intn(1<<word.Data))
	}
	return word.New(word.Data)
}

// Fetch the value of a register by name. Names are case insensitive.
func (mem *Memory) FetchRegister(name string) (int, error) {
	reg, ok := mem.registers[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownRegister, name)
	}
	return reg.Value(), nil
}

// Set a register by name, wrapping the value to eight bits.
func (mem *Memory) SetRegister(name string, value int) error {
	reg, ok := mem.registers[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRegister, name)
	}
	reg.Set(value)
	return nil
}

// Fetch a scratchpad cell. Addresses wrap modulo the scratchpad length,
// matching the hardware's six address bits.
func (mem *Memory) FetchData(address int) int {
	return mem.data[wrapData(address)].Value()
}

// Store a value into a scratchpad cell.
func (mem *Memory) StoreData(address int, value int) {
	mem.data[wrapData(address)].Set(value)
}

func wrapData(address int) int {
	address %= DataLength
	if address < 0 {
		address += DataLength
	}
	return address
}

// Push a return address onto the call stack.
func (mem *Memory) PushStack(pc int) error {
	if mem.pointer >= StackLength {
		return ErrStackOverflow
	}
	mem.stack[mem.pointer].Set(pc)
	mem.pointer++
	return nil
}

// Pop the most recent return address off the call stack.
func (mem *Memory) PopStack() (int, error) {
	if mem.pointer == 0 {
		return 0, ErrStackUnderflow
	}
	mem.pointer--
	return mem.stack[mem.pointer].Value(), nil
}

// Return the number of values on the call stack.
func (mem *Memory) StackDepth() int {
	return mem.pointer
}

// Return the stack contents from bottom to top, for inspection.
func (mem *Memory) StackValues() []int {
	values := make([]int, mem.pointer)
	for i := range values {
		values[i] = mem.stack[i].Value()
	}
	return values
}
