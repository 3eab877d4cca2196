package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Opcode represents a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo    int      // Source line.
	Address   uint16   // Memory address of the first byte.
	Words     []string // Source words.
	Bytes     []byte   // Generated bytes.
	Data      bool     // Set for .byte and .word directives.
	LinkLabel string   // Label to link into the address operand.
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int // Byte offset into the opcode.
}

// Debug returns the opcode that generated the byte at addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if addr >= op.Address && int(addr) < int(op.Address)+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr - op.Address),
			}
			break
		}
	}

	return
}

// End returns the address past the last generated byte.
func (prog *Program) End() (end uint16) {
	end = PROGRAM_ADDRESS
	for _, op := range prog.Opcodes {
		end = max(end, op.Address+uint16(len(op.Bytes)))
	}
	return
}

// Binary returns the memory image from PROGRAM_ADDRESS.
func (prog *Program) Binary() (bin []byte) {
	bin = make([]byte, int(prog.End())-PROGRAM_ADDRESS)
	for _, op := range prog.Opcodes {
		copy(bin[int(op.Address)-PROGRAM_ADDRESS:], op.Bytes)
	}

	return
}

// Codes iterates over the instructions of the program, skipping data.
func (prog *Program) Codes() iter.Seq2[uint16, Instruction] {
	return func(yield func(addr uint16, ins Instruction) bool) {
		for _, op := range prog.Opcodes {
			if op.Data || len(op.Bytes) != 2 {
				continue
			}
			word := uint16(op.Bytes[0])<<8 | uint16(op.Bytes[1])
			if !yield(op.Address, Decode(word)) {
				return
			}
		}
	}
}

// Disassemble splits a memory image loaded at PROGRAM_ADDRESS into
// instruction words. A trailing odd byte becomes data.
func Disassemble(bin []byte) (prog *Program) {
	prog = &Program{}

	for offset := 0; offset < len(bin); offset += 2 {
		op := Opcode{
			Address: uint16(PROGRAM_ADDRESS + offset),
			Bytes:   bin[offset:min(offset+2, len(bin))],
		}
		if len(op.Bytes) == 2 {
			word := uint16(op.Bytes[0])<<8 | uint16(op.Bytes[1])
			op.Words = strings.Fields(strings.ReplaceAll(Decode(word).String(), ",", " "))
		} else {
			op.Data = true
			op.Words = []string{".byte", fmt.Sprintf("0x%02x", op.Bytes[0])}
		}
		prog.Opcodes = append(prog.Opcodes, op)
	}

	return
}

// Listing returns the program as address, bytes, and disassembly.
// Source line numbers are omitted for disassembled images.
func (prog *Program) Listing() string {
	var sb strings.Builder

	for _, op := range prog.Opcodes {
		var text string
		if op.Data {
			text = strings.Join(op.Words, " ")
		} else {
			word := uint16(op.Bytes[0])<<8 | uint16(op.Bytes[1])
			text = Decode(word).String()
		}
		if op.LineNo == 0 {
			fmt.Fprintf(&sb, "%03x: % x\t%s\n", op.Address, op.Bytes, text)
			continue
		}
		fmt.Fprintf(&sb, "%03x: % x\t%-24s; line %d\n", op.Address, op.Bytes, text, op.LineNo)
	}

	return sb.String()
}
