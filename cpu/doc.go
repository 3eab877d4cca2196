// Package cpu implements the processor and assembler for the CHIP-8 system.
//
// The CPU consists of 4K of byte addressed memory, sixteen 8-bit registers
// (v0-vf), a 16-bit index register (I), a program counter, a sixteen slot
// return stack, a delay timer and a keypad. Register vf is the sprite
// collision flag.
//
// Each Tick fetches a big-endian instruction word, decodes it into an
// Instruction, executes it, and decays the delay timer. Pixels are drawn
// through an injected Display.
//
// The assembler provides a small assembly language for the implemented
// instruction set, supporting labels, equates, data directives, and
// compile-time expression evaluation.
package cpu
