/*
PicoBlaze I/O port bus and device interface

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
	"strconv"
	"strings"

	config "github.com/rcornwell/PicoBlaze/config/configparser"
)

// PortDevice is the backend behind the I/O port bus. INPUT asks the device
// for the value to drive onto in_port; OUTPUT hands the device the byte the
// program wrote.
type PortDevice interface {
	Read(port uint8) uint8         // INPUT: value for in_port.
	Write(port uint8, value uint8) // OUTPUT: byte from out_port.
}

// InterruptSource is external hardware driving the interrupt line. The
// run loop samples it between steps; a true result raises the pending
// interrupt on the processor.
type InterruptSource interface {
	Pending() bool
}

// Bus routes port transfers to attached devices. Ports with no device fall
// back to a default device, a single loopback register.
type Bus struct {
	devices  map[uint8]PortDevice
	fallback PortDevice
}

// Create a bus with the loopback register as the default device.
func NewBus() *Bus {
	return &Bus{
		devices:  map[uint8]PortDevice{},
		fallback: &Loopback{},
	}
}

// Attach a device to a port id, replacing any previous one.
func (bus *Bus) Attach(port uint8, dev PortDevice) {
	bus.devices[port] = dev
}

func (bus *Bus) device(port uint8) PortDevice {
	if dev, ok := bus.devices[port]; ok {
		return dev
	}
	return bus.fallback
}

// Read the value a device drives for an INPUT on port.
func (bus *Bus) Read(port uint8) uint8 {
	return bus.device(port).Read(port)
}

// Deliver an OUTPUT byte to the device on port.
func (bus *Bus) Write(port uint8, value uint8) {
	bus.device(port).Write(port, value)
}

// Device factories by configuration name.
var factories = map[string]func(args []string) (PortDevice, error){}

// Register should be called from init functions of device implementations.
func RegisterDevice(name string, create func(args []string) (PortDevice, error)) {
	factories[strings.ToUpper(name)] = create
}

type attach struct {
	port uint8
	name string
	args []string
}

var pending []attach

// Handle a "PORT <hex id> <device> [args]" configuration line. Attachments
// are collected and realized by NewConfiguredBus once parsing is done.
func portOption(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("PORT takes a port id and a device name")
	}
	port, err := strconv.ParseUint(args[0], 16, 8)
	if err != nil {
		return fmt.Errorf("invalid port id %s", args[0])
	}
	name := strings.ToUpper(args[1])
	if _, ok := factories[name]; !ok {
		return fmt.Errorf("unknown device %s", args[1])
	}
	pending = append(pending, attach{port: uint8(port), name: name, args: args[2:]})
	return nil
}

// Build a bus holding the devices named in the configuration file.
func NewConfiguredBus() (*Bus, error) {
	bus := NewBus()
	for _, at := range pending {
		dev, err := factories[at.name](at.args)
		if err != nil {
			return nil, fmt.Errorf("port %02x: %w", at.port, err)
		}
		bus.Attach(at.port, dev)
	}
	pending = nil
	return bus, nil
}

func init() {
	config.RegisterOption("PORT", portOption)
}
