// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/io"
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrDefineSyntax = errors.New(f("define must be NAME=VALUE"))
	ErrNoProgram    = errors.New(f("one of -c or -r is required"))
)

// defineFlags collects repeated -D NAME=VALUE options.
type defineFlags map[string]string

func (df defineFlags) String() string {
	var defs []string
	for _, name := range slices.Sorted(maps.Keys(df)) {
		defs = append(defs, name+"="+df[name])
	}
	return strings.Join(defs, ",")
}

func (df defineFlags) Set(value string) error {
	name, val, ok := strings.Cut(value, "=")
	if !ok || len(name) == 0 {
		return ErrDefineSyntax
	}
	df[name] = val
	return nil
}

// writeImage saves the program image, failing if there is none.
func writeImage(path string, emu *emulator.Emulator) (err error) {
	image := emu.Image()
	if len(image) == 0 {
		err = io.ErrRomEmpty
		return
	}

	err = os.WriteFile(path, image, 0o644)
	return
}

func writePNG(path string, display *io.Framebuffer, scale int) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}
	defer func() {
		err = errors.Join(err, ouf.Close())
	}()

	err = display.WritePNG(ouf, scale)
	return
}

func main() {
	var compile string
	var rom string
	var output string
	var listing bool
	var hz int
	var steps int
	var screenshot string
	var scale int
	var verbose bool
	var hold time.Duration
	defines := defineFlags{}

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&rom, "r", "", ".ch8 ROM file to load")
	flag.StringVar(&output, "o", "", "Save the program image, do not execute")
	flag.BoolVar(&listing, "l", false, "Print assembly listing")
	flag.IntVar(&hz, "hz", int(time.Second/emulator.DEFAULT_CADENCE), "CPU cycles per second")
	flag.IntVar(&steps, "n", 0, "Run headless for this many cycles, then print the screen")
	flag.StringVar(&screenshot, "png", "", "Save a PNG screenshot on exit")
	flag.IntVar(&scale, "scale", 8, "Screenshot scale")
	flag.DurationVar(&hold, "hold", io.DEFAULT_HOLD, "Key press duration, longer than the terminal autorepeat delay")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Var(defines, "D", "Assembler predefine NAME=VALUE (repeatable)")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if hz <= 0 {
		log.Fatalf("%v: -hz %d: %v", os.Args[0], hz, cpu.ErrValueRange)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Cadence = time.Second / time.Duration(hz)

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for name, value := range emu.Defines() {
			asm.Predefine(name, value)
		}
		for name, value := range defines {
			asm.Predefine(name, value)
		}

		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(rom) != 0:
		inf, err := os.Open(rom)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
		defer inf.Close()

		emu.Rom, err = io.ReadRom(inf)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
	default:
		flag.Usage()
		log.Fatalf("%v: %v", os.Args[0], ErrNoProgram)
	}

	if listing {
		fmt.Print(emu.Listing())
	}

	if len(output) != 0 {
		err := writeImage(output, emu)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	if steps > 0 {
		for range steps {
			err = emu.Tick()
			if err != nil {
				break
			}
		}
		fmt.Print(emu.Display.String())
		if verbose {
			fmt.Print(emu.Cpu.String())
		}
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err = runTerminal(ctx, emu, hold)
		stop()
	}

	if len(screenshot) != 0 {
		err_png := writePNG(screenshot, emu.Display, scale)
		if err_png != nil {
			log.Printf("%v: %v", screenshot, err_png)
		}
	}

	if err != nil {
		log.Print(emu.Cpu.String())
		log.Fatal(err)
	}
}
