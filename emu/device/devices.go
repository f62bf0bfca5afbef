/*
PicoBlaze built in port devices

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
package device

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// Loopback is the default bus device: one register, written by OUTPUT and
// read back by INPUT regardless of port id.
type Loopback struct {
	value uint8
}

func (dev *Loopback) Read(_ uint8) uint8 {
	return dev.value
}

func (dev *Loopback) Write(_ uint8, value uint8) {
	dev.value = value
}

// Console writes OUTPUT bytes to a writer. INPUT reads zero.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (dev *Console) Read(_ uint8) uint8 {
	return 0
}

func (dev *Console) Write(_ uint8, value uint8) {
	fmt.Fprintf(dev.out, "%c", value)
}

// Switches drives a fixed bit pattern, like a bank of input switches.
// OUTPUT to the port is ignored.
type Switches struct {
	value uint8
}

func NewSwitches(value uint8) *Switches {
	return &Switches{value: value}
}

func (dev *Switches) Read(_ uint8) uint8 {
	return dev.value
}

func (dev *Switches) Write(_ uint8, _ uint8) {
}

func createConsole(_ []string) (PortDevice, error) {
	return NewConsole(os.Stdout), nil
}

func createSwitches(args []string) (PortDevice, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("SWITCHES takes a value")
	}
	value, err := strconv.ParseUint(args[0], 16, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid switch value %s", args[0])
	}
	return NewSwitches(uint8(value)), nil
}

func createLoopback(_ []string) (PortDevice, error) {
	return &Loopback{}, nil
}

func init() {
	RegisterDevice("CONSOLE", createConsole)
	RegisterDevice("SWITCHES", createSwitches)
	RegisterDevice("LOOPBACK", createLoopback)
}
