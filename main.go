/*
 * PicoBlaze - Main process.
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

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/PicoBlaze/command"
	config "github.com/rcornwell/PicoBlaze/config/configparser"
	assembler "github.com/rcornwell/PicoBlaze/emu/assemble"
	"github.com/rcornwell/PicoBlaze/emu/core"
	"github.com/rcornwell/PicoBlaze/emu/cpu"
	"github.com/rcornwell/PicoBlaze/emu/device"
	"github.com/rcornwell/PicoBlaze/emu/program"
	logger "github.com/rcornwell/PicoBlaze/util/logger"
)

var Logger *slog.Logger

// Processor construction settings, adjustable from the configuration file.
var (
	isrAddress = program.DefaultISR
	randomInit = false
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optMonitor := getopt.BoolLong("monitor", 'i', "Interactive monitor")
	optLimit := getopt.IntLong("limit", 'n', 0, "Step limit, 0 for none")
	optDeadline := getopt.IntLong("deadline", 't', 0, "Run deadline in seconds, 0 for none")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.SetParameters("program.psm")
	getopt.Parse()

	if *optHelp || len(getopt.Args()) != 1 {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel}, false))
	slog.SetDefault(Logger)

	Logger.Info("PicoBlaze started")

	config.RegisterOption("ISR", setISR)
	config.RegisterOption("REGINIT", setRegInit)
	if *optConfig != "" {
		if _, err := os.Stat(*optConfig); os.IsNotExist(err) {
			Logger.Error("Configuration file " + *optConfig + " can't be found")
			os.Exit(1)
		}
		if err := config.LoadConfigFile(*optConfig); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}

	bus, err := device.NewConfiguredBus()
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	source, err := os.Open(getopt.Args()[0])
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	store, err := assembler.Assemble(assembler.NewSource(source))
	source.Close()
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	Logger.Info("Assembled", "instructions", strconv.Itoa(len(store)))

	proc := cpu.New(isrAddress, randomInit)
	proc.LoadProgram(store)
	proc.SetBackend(bus)
	sim := core.New(proc)

	// SIGINT stops the run after the current step.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		sim.Stop()
	}()

	if *optMonitor {
		if err := command.New(sim).Run(); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	steps, reason, err := sim.Run(*optLimit, time.Duration(*optDeadline)*time.Second)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	fmt.Printf("ran %d steps: %s\n", steps, reason)
	Logger.Info("Simulation ended", "steps", strconv.Itoa(steps), "reason", reason.String())
}

// Handle "ISR <hex address>".
func setISR(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("ISR takes an address")
	}
	value, err := strconv.ParseInt(args[0], 16, 32)
	if err != nil || value < 0 || value >= program.Length {
		return fmt.Errorf("invalid ISR address %s", args[0])
	}
	isrAddress = int(value)
	return nil
}

// Handle "REGINIT RANDOM|ZERO".
func setRegInit(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("REGINIT takes RANDOM or ZERO")
	}
	switch strings.ToUpper(args[0]) {
	case "RANDOM":
		randomInit = true
	case "ZERO":
		randomInit = false
	default:
		return fmt.Errorf("invalid REGINIT mode %s", args[0])
	}
	return nil
}
