package program

/*
 * PicoBlaze - Program counter management
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

// Program store length in instructions.
const Length = 1024

// Default interrupt service routine vector.
const DefaultISR = 0x3FF

// Manager holds the program counter and the interrupt vector. The counter
// always stays inside the program store; next and jump wrap modulo the
// store length.
type Manager struct {
	pc  int
	isr int
}

// Create a manager with the counter at zero and the given interrupt vector.
func New(isr int) *Manager {
	return &Manager{isr: wrap(isr)}
}

// Return the current program counter.
func (mgr *Manager) PC() int {
	return mgr.pc
}

// Advance the counter to the next instruction.
func (mgr *Manager) Next() {
	mgr.pc = (mgr.pc + 1) % Length
}

// Jump to an absolute address.
func (mgr *Manager) Jump(address int) {
	mgr.pc = wrap(address)
}

// Return the interrupt service routine address.
func (mgr *Manager) ISR() int {
	return mgr.isr
}

func wrap(address int) int {
	address %= Length
	if address < 0 {
		address += Length
	}
	return address
}
