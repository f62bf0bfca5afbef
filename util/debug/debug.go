/*
 * PicoBlaze - Trace debug data to a file
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

package debug

import (
	"fmt"
	"os"
	"strings"

	config "github.com/rcornwell/PicoBlaze/config/configparser"
)

// Trace masks, enabled with the DEBUG configuration option.
const (
	DebugCPU = 1 << iota // Per step instruction trace.
	DebugIO              // Port bus reads and writes.
	DebugAsm             // Per line assembly results.
)

var masks = map[string]int{
	"CPU": DebugCPU,
	"IO":  DebugIO,
	"ASM": DebugAsm,
}

var traceFile *os.File

var enabled int

// Generic trace message, written when the module's mask is enabled.
func Debugf(module string, mask int, format string, a ...interface{}) {
	if (enabled&mask) != 0 && traceFile != nil {
		fmt.Fprintf(traceFile, module+": "+format+"\n", a...)
	}
}

// Report whether a mask is enabled, for callers whose trace formatting
// is itself expensive.
func Enabled(mask int) bool {
	return (enabled&mask) != 0 && traceFile != nil
}

// register configuration options on initialize.
func init() {
	config.RegisterFile("DEBUGFILE", create)
	config.RegisterOption("DEBUG", setDebug)
}

// Create the trace file.
func create(fileName string) error {
	if traceFile != nil {
		return fmt.Errorf("can't have more than one debug file, previous: %s", traceFile.Name())
	}

	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("unable to create debug file: %s", fileName)
	}

	traceFile = file
	return nil
}

// Handle "DEBUG <module> ..." enabling trace masks by module name.
func setDebug(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("DEBUG takes module names")
	}
	for _, name := range args {
		mask, ok := masks[strings.ToUpper(name)]
		if !ok {
			return fmt.Errorf("unknown debug module %s", name)
		}
		enabled |= mask
	}
	return nil
}
