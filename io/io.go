// Package io provides the host peripherals of the CHIP-8 emulator.
// It includes the 64x32 monochrome framebuffer (Framebuffer), the
// terminal keyboard mapping onto the hex keypad (Keyboard), and bounded
// ROM image loading (ReadRom).
package io

import (
	"fmt"
	"iter"
	"maps"
)

const (
	SCREEN_WIDTH  = 64    // Framebuffer columns.
	SCREEN_HEIGHT = 32    // Framebuffer rows.
	ROM_LIMIT     = 0xE00 // Largest ROM image, program space from 0x200.
)

var _io_defines = map[string]string{
	"SCREEN_WIDTH":  fmt.Sprintf("%v", SCREEN_WIDTH),
	"SCREEN_HEIGHT": fmt.Sprintf("%v", SCREEN_HEIGHT),
	"ROM_LIMIT":     fmt.Sprintf("%#x", ROM_LIMIT),
}

// Defines returns the assembler equates of the peripherals.
func Defines() iter.Seq2[string, string] {
	return maps.All(_io_defines)
}
