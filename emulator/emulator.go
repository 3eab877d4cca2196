// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"iter"
	"log"
	"maps"
	"time"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/io"
)

const (
	DEFAULT_CADENCE = 5 * time.Millisecond // Time between CPU ticks.
)

var _emulator_defines = map[string]string{
	"CYCLE_HZ": fmt.Sprintf("%v", int(time.Second/DEFAULT_CADENCE)),
}

var _ cpu.Display = (*io.Framebuffer)(nil)

// Emulator state. CPU + framebuffer + program image.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Rom     []byte          // ROM image, used when Program is empty.
	Display *io.Framebuffer // Framebuffer the CPU draws to.
	Cadence time.Duration   // Time between ticks in Run.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	display := io.NewFramebuffer()

	emu = &Emulator{
		Cpu:     cpu.NewCpu(display),
		Program: &cpu.Program{},
		Display: display,
		Cadence: DEFAULT_CADENCE,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		io.Defines(),
	)
}

// Image returns the bytes loaded at PROGRAM_ADDRESS: the assembled
// Program if it has any opcodes, otherwise the Rom.
func (emu *Emulator) Image() []byte {
	if emu.Program != nil && len(emu.Program.Opcodes) > 0 {
		return emu.Program.Binary()
	}
	return emu.Rom
}

// Reset the emulator, and load the program image.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = false

	emu.Cpu.Reset()
	emu.Display.Clear()

	err = emu.Cpu.Load(cpu.PROGRAM_ADDRESS, emu.Image())
	if err != nil {
		return
	}

	emu.Cpu.Verbose = emu.Verbose

	if emu.Verbose {
		log.Printf("emulator: reset, %d byte image", len(emu.Image()))
	}

	return
}

// Listing returns the assembly listing of the Program, or the
// disassembly of the Rom.
func (emu *Emulator) Listing() string {
	if emu.Program != nil && len(emu.Program.Opcodes) > 0 {
		return emu.Program.Listing()
	}
	return cpu.Disassemble(emu.Rom).Listing()
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint16 {
	return emu.Cpu.Pc
}

// Code returns the instruction at the program counter.
func (emu *Emulator) Code() cpu.Instruction {
	pc := int(emu.Cpu.Pc)
	if pc+1 >= cpu.MEMORY_SIZE {
		return cpu.Instruction{}
	}

	return cpu.Decode(uint16(emu.Cpu.Memory[pc])<<8 | uint16(emu.Cpu.Memory[pc+1]))
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()

	return
}

// Run ticks the emulator once per Cadence until the context is done,
// or the CPU faults.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	cadence := emu.Cadence
	if cadence <= 0 {
		cadence = DEFAULT_CADENCE
	}

	ticker := time.NewTicker(cadence)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if emu.Verbose {
				log.Printf("emulator: stopped after %d ticks", emu.Ticks())
			}
			return
		case <-ticker.C:
			err = emu.Tick()
			if err != nil {
				return
			}
		}
	}
}
