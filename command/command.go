/*
 * PicoBlaze - Interactive monitor.
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

package command

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/rcornwell/PicoBlaze/emu/core"
	dis "github.com/rcornwell/PicoBlaze/emu/disassemble"
	"github.com/rcornwell/PicoBlaze/emu/memory"
)

var commands = []string{
	"step", "run", "regs", "data", "stack", "ports", "int", "list", "help", "quit",
}

// Monitor is an interactive front end over a simulator: single stepping,
// state inspection and interrupt injection from a terminal.
type Monitor struct {
	sim *core.Simulator
}

func New(sim *core.Simulator) *Monitor {
	return &Monitor{sim: sim}
}

// Run the command loop until quit or end of input.
func (mon *Monitor) Run() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(text string) []string {
		var matches []string
		for _, cmd := range commands {
			if strings.HasPrefix(cmd, strings.ToLower(text)) {
				matches = append(matches, cmd)
			}
		}
		return matches
	})

	for {
		input, err := line.Prompt("pico> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		if quit := mon.dispatch(strings.Fields(input)); quit {
			return nil
		}
	}
}

func (mon *Monitor) dispatch(fields []string) bool {
	proc := mon.sim.Processor()

	switch strings.ToLower(fields[0]) {
	case "step", "s":
		count := 1
		if len(fields) > 1 {
			count, _ = strconv.Atoi(fields[1])
		}
		for range count {
			pc := proc.PC()
			if err := proc.Step(); err != nil {
				fmt.Println(err)
				break
			}
			if inst, ok := proc.InstructionAt(pc); ok {
				fmt.Printf("%03x  %s\n", pc, dis.Disassemble(inst))
			}
		}
		mon.showFlags()

	case "run", "g":
		steps, reason, err := mon.sim.Run(0, 0)
		fmt.Printf("ran %d steps: %s\n", steps, reason)
		if err != nil {
			fmt.Println(err)
		}

	case "regs", "r":
		mon.showRegs()

	case "data", "d":
		start := 0
		if len(fields) > 1 {
			start = parseHex(fields[1])
		}
		for addr := start; addr < start+16 && addr < memory.DataLength; addr++ {
			fmt.Printf("%02x ", proc.Memory().FetchData(addr))
		}
		fmt.Println()

	case "stack":
		values := proc.Memory().StackValues()
		if len(values) == 0 {
			fmt.Println("stack empty")
			break
		}
		for i, v := range values {
			fmt.Printf("%2d: %03x\n", i, v)
		}

	case "ports":
		ext := proc.External()
		fmt.Printf("port_id: %02x out: %02x ack: %v\n", ext.PortID(), ext.OutPort(), ext.InterruptAck())

	case "int", "i":
		proc.External().Interrupt()
		fmt.Println("interrupt raised")

	case "list", "l":
		start := proc.PC()
		if len(fields) > 1 {
			start = parseHex(fields[1])
		}
		for addr := start; addr < start+8; addr++ {
			if inst, ok := proc.InstructionAt(addr); ok {
				fmt.Printf("%03x  %s\n", addr, dis.Disassemble(inst))
			}
		}

	case "help", "?":
		fmt.Println("step [n]  run  regs  data [addr]  stack  ports  int  list [addr]  quit")

	case "quit", "q":
		return true

	default:
		fmt.Printf("unknown command %s\n", fields[0])
	}
	return false
}

func (mon *Monitor) showFlags() {
	proc := mon.sim.Processor()
	fmt.Printf("pc: %03x carry: %v zero: %v ie: %v\n",
		proc.PC(), proc.Carry(), proc.Zero(), proc.InterruptEnabled())
}

func (mon *Monitor) showRegs() {
	proc := mon.sim.Processor()
	for i := range memory.NumRegisters {
		name := fmt.Sprintf("s%x", i)
		value, _ := proc.Memory().FetchRegister(name)
		fmt.Printf("%s: %02x  ", name, value)
		if i%8 == 7 {
			fmt.Println()
		}
	}
	mon.showFlags()
}

func parseHex(text string) int {
	value, err := strconv.ParseInt(text, 16, 32)
	if err != nil {
		return 0
	}
	return int(value)
}
