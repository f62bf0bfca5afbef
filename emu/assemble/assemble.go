/*
	   PicoBlaze Assembler

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
package assembler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rcornwell/PicoBlaze/emu/cpu"
	op "github.com/rcornwell/PicoBlaze/emu/opcodemap"
	"github.com/rcornwell/PicoBlaze/emu/program"
	"github.com/rcornwell/PicoBlaze/util/debug"
)

// Any malformed line: unknown mnemonic, bad literal, wrong operand shape.
var ErrParse = errors.New("parse error")

/* Lexical shape of a source line:
 *
 *   [label:] mnemonic [arg1 [, arg2]] [; comment]
 *
 * Mnemonics may span words (JUMP NZ, RETURNI ENABLE); recognition takes
 * the longest known mnemonic prefixing the line. Operands are registers
 * (s0..sf), names bound by CONSTANT or a label, or numeric literals with
 * a radix postfix: 'b binary, 'o octal, 'd decimal, 'h hex. A bare
 * literal is hex, the PicoBlaze convention. Parentheses around operands
 * are discarded. Labels and names are case insensitive.
 */

// Source line surviving the first pass: an address and an unresolved
// operation.
type line struct {
	number  int // Source line number, for errors.
	address int
	opcode  int
	args    []string
	text    string
}

// Assembler translates text lines into the instruction store. The first
// pass (Parse) assigns addresses, collects labels and constants and
// consumes directives; the second pass (Convert) substitutes names and
// builds instructions.
type Assembler struct {
	start     int
	lines     []line
	constants map[string]int
	labels    map[string]int
}

// Create an assembler placing the first instruction at start.
func New(start int) *Assembler {
	return &Assembler{
		start:     start,
		constants: map[string]int{},
		labels:    map[string]int{},
	}
}

// LineSource yields source lines until exhausted.
type LineSource interface {
	Next() (string, bool)
}

type sliceSource struct {
	lines []string
	pos   int
}

func (src *sliceSource) Next() (string, bool) {
	if src.pos >= len(src.lines) {
		return "", false
	}
	src.pos++
	return src.lines[src.pos-1], true
}

// Wrap literal lines as a LineSource.
func Lines(lines ...string) LineSource {
	return &sliceSource{lines: lines}
}

// Assemble a whole program starting at address zero.
func Assemble(src LineSource) (map[int]cpu.Instruction, error) {
	asm := New(0)
	if err := asm.Parse(src); err != nil {
		return nil, err
	}
	return asm.Convert()
}

// First pass: read every line, strip comments, bind labels, consume the
// ADDRESS and CONSTANT directives and assign each remaining line its
// address.
func (asm *Assembler) Parse(src LineSource) error {
	counter := asm.start
	number := 0
	for {
		text, ok := src.Next()
		if !ok {
			break
		}
		number++

		code := text
		if i := strings.IndexByte(code, ';'); i >= 0 {
			code = code[:i]
		}
		label := ""
		if i := strings.IndexByte(code, ':'); i >= 0 {
			label = strings.TrimSpace(code[:i])
			code = code[i+1:]
		}
		code = strings.TrimSpace(code)
		if label != "" {
			asm.labels[strings.ToLower(label)] = counter
		}
		if code == "" {
			continue
		}

		opcode, rest, err := matchMnemonic(code)
		if err != nil {
			return fmt.Errorf("line %d: %w", number, err)
		}
		args := splitOperands(rest)

		switch opcode {
		case op.OpAddress:
			if len(args) != 1 {
				return fmt.Errorf("line %d: ADDRESS takes one value: %w", number, ErrParse)
			}
			value, err := parseNumber(args[0])
			if err != nil {
				return fmt.Errorf("line %d: %w", number, err)
			}
			if value < 0 || value >= program.Length {
				return fmt.Errorf("line %d: address %03x out of range: %w", number, value, ErrParse)
			}
			counter = value
			if label != "" {
				asm.labels[strings.ToLower(label)] = counter
			}

		case op.OpConstant:
			if len(args) != 2 {
				return fmt.Errorf("line %d: CONSTANT takes a name and a value: %w", number, ErrParse)
			}
			value, err := parseNumber(args[1])
			if err != nil {
				return fmt.Errorf("line %d: %w", number, err)
			}
			asm.constants[strings.ToLower(args[0])] = value

		default:
			asm.lines = append(asm.lines, line{
				number:  number,
				address: counter,
				opcode:  opcode,
				args:    args,
				text:    code,
			})
			counter++
		}
	}
	return nil
}

// Second pass: substitute constants then labels into each operand and
// build the instruction store. Lines sharing an address via the ADDRESS
// directive overwrite in source order, later ones winning.
func (asm *Assembler) Convert() (map[int]cpu.Instruction, error) {
	store := make(map[int]cpu.Instruction, len(asm.lines))
	for _, ln := range asm.lines {
		inst, err := asm.build(ln)
		if err != nil {
			return nil, err
		}
		debug.Debugf("ASM", debug.DebugAsm, "%03x  %s", ln.address, ln.text)
		store[ln.address] = inst
	}
	return store, nil
}

// Build one instruction from a parsed line.
func (asm *Assembler) build(ln line) (cpu.Instruction, error) {
	inst := cpu.Instruction{Op: ln.opcode}

	switch ln.opcode {
	// Register with a register or value operand.
	case op.OpLoad, op.OpAdd, op.OpAddCarry, op.OpSub, op.OpSubCarry,
		op.OpAnd, op.OpOr, op.OpXor, op.OpCompare, op.OpTest,
		op.OpFetch, op.OpStore, op.OpInput, op.OpOutput:
		if len(ln.args) != 2 {
			return inst, fmt.Errorf("line %d: %s takes two operands: %w", ln.number, ln.text, ErrParse)
		}
		if !isRegister(ln.args[0]) {
			return inst, fmt.Errorf("line %d: %s is not a register: %w", ln.number, ln.args[0], ErrParse)
		}
		inst.Reg = strings.ToLower(ln.args[0])
		if isRegister(ln.args[1]) {
			inst.Reg2 = strings.ToLower(ln.args[1])
			inst.IsReg = true
			break
		}
		value, err := asm.resolve(ln, ln.args[1], 0xff)
		if err != nil {
			return inst, err
		}
		inst.Value = value

	// Single register.
	case op.OpRL, op.OpRR, op.OpSL0, op.OpSL1, op.OpSLX, op.OpSLA,
		op.OpSR0, op.OpSR1, op.OpSRX, op.OpSRA:
		if len(ln.args) != 1 || !isRegister(ln.args[0]) {
			return inst, fmt.Errorf("line %d: %s takes one register: %w", ln.number, ln.text, ErrParse)
		}
		inst.Reg = strings.ToLower(ln.args[0])

	// Branch target.
	case op.OpJump, op.OpJumpZ, op.OpJumpNZ, op.OpJumpC, op.OpJumpNC,
		op.OpCall, op.OpCallZ, op.OpCallNZ, op.OpCallC, op.OpCallNC:
		if len(ln.args) != 1 {
			return inst, fmt.Errorf("line %d: %s takes a target: %w", ln.number, ln.text, ErrParse)
		}
		value, err := asm.resolve(ln, ln.args[0], program.Length-1)
		if err != nil {
			return inst, err
		}
		inst.Value = value

	// Computed jump through a register pair.
	case op.OpJumpAt:
		if len(ln.args) != 2 || !isRegister(ln.args[0]) || !isRegister(ln.args[1]) {
			return inst, fmt.Errorf("line %d: %s takes two registers: %w", ln.number, ln.text, ErrParse)
		}
		inst.Reg = strings.ToLower(ln.args[0])
		inst.Reg2 = strings.ToLower(ln.args[1])

	// No operands.
	case op.OpReturn, op.OpReturnZ, op.OpReturnNZ, op.OpReturnC, op.OpReturnNC,
		op.OpReturnIEnable, op.OpReturnIDisable, op.OpEnableInt, op.OpDisableInt:
		if len(ln.args) != 0 {
			return inst, fmt.Errorf("line %d: %s takes no operands: %w", ln.number, ln.text, ErrParse)
		}

	// Reserved; assembles but has no defined effect.
	case op.OpOutputK:

	default:
		return inst, fmt.Errorf("line %d: cannot assemble %s: %w", ln.number, ln.text, ErrParse)
	}
	return inst, nil
}

// Resolve a symbolic or numeric operand: constants first, then labels,
// then a numeric literal, range checked against max.
func (asm *Assembler) resolve(ln line, token string, max int) (int, error) {
	name := strings.ToLower(token)
	value, ok := asm.constants[name]
	if !ok {
		value, ok = asm.labels[name]
	}
	if !ok {
		var err error
		value, err = parseNumber(token)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", ln.number, err)
		}
	}
	if value < 0 || value > max {
		return 0, fmt.Errorf("line %d: %s out of range: %w", ln.number, token, ErrParse)
	}
	return value, nil
}

// Find the longest known mnemonic prefixing the line. Returns the opcode
// and the remainder of the line.
func matchMnemonic(code string) (int, string, error) {
	upper := strings.ToUpper(code)
	best := ""
	bestOp := 0
	for name, tag := range op.Mnemonics {
		if !strings.HasPrefix(upper, name) {
			continue
		}
		if len(upper) > len(name) {
			next := upper[len(name)]
			if next != ' ' && next != '\t' && next != ',' && next != '(' {
				continue
			}
		}
		if len(name) > len(best) {
			best = name
			bestOp = tag
		}
	}
	if best == "" {
		return 0, "", fmt.Errorf("unknown mnemonic in %q: %w", code, ErrParse)
	}
	return bestOp, code[len(best):], nil
}

// Split the operand remainder into tokens. Parentheses are discarded,
// commas and whitespace separate.
func splitOperands(rest string) []string {
	return strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || r == '(' || r == ')' || unicode.IsSpace(r)
	})
}

// Register names are s0 through sf, case insensitive.
func isRegister(token string) bool {
	if len(token) != 2 || (token[0] != 's' && token[0] != 'S') {
		return false
	}
	by := token[1]
	return (by >= '0' && by <= '9') || (by >= 'a' && by <= 'f') || (by >= 'A' && by <= 'F')
}

// Parse a numeric literal with an optional radix postfix. Without one the
// literal is hex.
func parseNumber(token string) (int, error) {
	text := strings.ToLower(token)
	base := 16
	if i := strings.IndexByte(text, '\''); i >= 0 {
		switch text[i+1:] {
		case "b":
			base = 2
		case "o":
			base = 8
		case "d":
			base = 10
		case "h":
			base = 16
		default:
			return 0, fmt.Errorf("bad radix postfix in %q: %w", token, ErrParse)
		}
		text = text[:i]
	}
	value, err := strconv.ParseInt(text, base, 32)
	if err != nil {
		return 0, fmt.Errorf("bad literal %q: %w", token, ErrParse)
	}
	return int(value), nil
}
