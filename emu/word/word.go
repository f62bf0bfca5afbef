package word

/*
 * PicoBlaze - Fixed width machine word
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

// Word widths used by the PicoBlaze architecture.
const (
	Data    = 8  // Registers, scratchpad cells and I/O ports.
	Address = 10 // Program addresses and stack entries.
	Program = 18 // Program store words.
)

// Word holds a binary value of fixed width. Negative values written to a
// word are stored as their two's complement; reads always return the
// non-negative representative. Bit 0 is the most significant bit.
type Word struct {
	width int
	value uint32
}

// Create a word of the given width, initialized to zero.
func New(width int) *Word {
	return &Word{width: width}
}

// Create a word of the given width holding value.
func NewValue(width int, value int) *Word {
	w := &Word{width: width}
	w.Set(value)
	return w
}

// Return the width of the word in bits.
func (w *Word) Width() int {
	return w.width
}

// Return the current value, always non-negative.
func (w *Word) Value() int {
	return int(w.value)
}

// Set the word to value, wrapping modulo 2^width. Negative values wrap as
// two's complement. Out of range values never fail here; range checking
// belongs to the assembler.
func (w *Word) Set(value int) {
	modulus := 1 << w.width
	value %= modulus
	if value < 0 {
		value += modulus
	}
	w.value = uint32(value)
}

// Return the bit pattern most significant bit first.
func (w *Word) Bits() []bool {
	bits := make([]bool, w.width)
	for i := range bits {
		bits[i] = (w.value>>(w.width-1-i))&1 != 0
	}
	return bits
}

// Set the bit pattern, most significant bit first. Patterns shorter than
// the width are zero extended on the left.
func (w *Word) SetBits(bits []bool) {
	var value uint32
	for _, bit := range bits {
		value <<= 1
		if bit {
			value |= 1
		}
	}
	w.value = value & uint32((1<<w.width)-1)
}
