/*
   PicoBlaze simulation run loop.

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

package core

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/rcornwell/PicoBlaze/emu/cpu"
	"github.com/rcornwell/PicoBlaze/emu/device"
	dis "github.com/rcornwell/PicoBlaze/emu/disassemble"
	"github.com/rcornwell/PicoBlaze/util/debug"
)

// Why a run ended.
type Reason int

const (
	Outside  Reason = 1 + iota // Program counter left the program.
	Limit                      // Step limit reached.
	Deadline                   // Wall clock deadline passed.
	Stopped                    // Stop was called.
	Failed                     // A step returned an error.
)

func (r Reason) String() string {
	switch r {
	case Outside:
		return "outside program"
	case Limit:
		return "step limit"
	case Deadline:
		return "deadline"
	case Stopped:
		return "stopped"
	case Failed:
		return "error"
	}
	return "unknown"
}

// Simulator drives a processor until the program ends, a step budget runs
// out, a wall deadline passes or the host asks it to stop. External
// hardware mutates the processor's external interface between steps only.
type Simulator struct {
	proc   *cpu.Processor
	intSrc device.InterruptSource
	stop   atomic.Bool
}

func New(proc *cpu.Processor) *Simulator {
	return &Simulator{proc: proc}
}

// Attach external hardware driving the interrupt line, sampled between
// steps.
func (sim *Simulator) SetInterruptSource(src device.InterruptSource) {
	sim.intSrc = src
}

func (sim *Simulator) Processor() *cpu.Processor {
	return sim.proc
}

// Ask a running simulation to stop after the current step. Safe to call
// from another goroutine, typically a signal handler.
func (sim *Simulator) Stop() {
	sim.stop.Store(true)
}

// Run the processor. A limit of zero means no step limit; a deadline of
// zero means no deadline. Returns the number of steps executed, why the
// run ended, and the step error when the reason is Failed.
func (sim *Simulator) Run(limit int, deadline time.Duration) (int, Reason, error) {
	var until time.Time
	if deadline > 0 {
		until = time.Now().Add(deadline)
	}
	sim.stop.Store(false)

	steps := 0
	for {
		if sim.proc.OutsideProgram() {
			return steps, Outside, nil
		}
		if limit > 0 && steps >= limit {
			return steps, Limit, nil
		}
		if deadline > 0 && !time.Now().Before(until) {
			slog.Warn("Simulation deadline passed", "steps", steps)
			return steps, Deadline, nil
		}
		if sim.stop.Load() {
			return steps, Stopped, nil
		}

		if sim.intSrc != nil && sim.intSrc.Pending() {
			sim.proc.External().Interrupt()
		}
		if debug.Enabled(debug.DebugCPU) {
			pc := sim.proc.PC()
			if inst, ok := sim.proc.InstructionAt(pc); ok {
				debug.Debugf("CPU", debug.DebugCPU, "%03x  %s", pc, dis.Disassemble(inst))
			}
		}
		if err := sim.proc.Step(); err != nil {
			return steps, Failed, err
		}
		steps++
	}
}
