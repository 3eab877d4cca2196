package cpu

import (
	"slices"
)

const (
	MEMORY_SIZE     = 0x1000 // Addressable memory.
	FONT_ADDRESS    = 0x000  // Hex digit glyphs.
	FONT_GLYPH_SIZE = 5      // Bytes per glyph.
	PROGRAM_ADDRESS = 0x200  // Program load and entry address.
	REGISTER_COUNT  = 16     // General purpose registers.
	REGISTER_FLAG   = 0xf    // Carry and collision flag register.
)

// fontSet is the 4x5 glyph set for the hex digits 0-F.
var fontSet = [16 * FONT_GLYPH_SIZE]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// FontSet returns a copy of the hex digit glyphs.
func FontSet() []uint8 {
	return slices.Clone(fontSet[:])
}
