package cpu

import (
	"fmt"
	"strings"
)

// Op is a decoded operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_UNKNOWN  = Op(0)  // .word
	OP_RET      = Op(1)  // ret
	OP_JP       = Op(2)  // jp
	OP_CALL     = Op(3)  // call
	OP_SE_BYTE  = Op(4)  // se
	OP_SNE_BYTE = Op(5)  // sne
	OP_LD_BYTE  = Op(6)  // ld
	OP_ADD_BYTE = Op(7)  // add
	OP_LD_REG   = Op(8)  // ld
	OP_SNE_REG  = Op(9)  // sne
	OP_LD_I     = Op(10) // ld
	OP_RND      = Op(11) // rnd
	OP_DRW      = Op(12) // drw
	OP_SKP      = Op(13) // skp
	OP_SKNP     = Op(14) // sknp
	OP_LD_VX_DT = Op(15) // ld
	OP_LD_DT_VX = Op(16) // ld
	OP_ADD_I    = Op(17) // add
)

// CodeArg is an operand position of an instruction.
type CodeArg int

const (
	ARG_VX     = CodeArg(0) // Register in bits 8-11.
	ARG_VY     = CodeArg(1) // Register in bits 4-7.
	ARG_BYTE   = CodeArg(2) // Immediate in bits 0-7.
	ARG_NIBBLE = CodeArg(3) // Immediate in bits 0-3.
	ARG_ADDR   = CodeArg(4) // Address in bits 0-11.
	ARG_I      = CodeArg(5) // Index register, implied.
	ARG_DT     = CodeArg(6) // Delay timer, implied.
)

// Valued returns true if the operand is encoded in the instruction word.
func (arg CodeArg) Valued() bool {
	return arg <= ARG_ADDR
}

// Limit returns the largest encodable operand value.
func (arg CodeArg) Limit() uint16 {
	switch arg {
	case ARG_VX, ARG_VY, ARG_NIBBLE:
		return 0xf
	case ARG_BYTE:
		return 0xff
	case ARG_ADDR:
		return 0xfff
	}
	return 0
}

// opForm is the encoding pattern of an operation.
type opForm struct {
	Word uint16    // Fixed bits.
	Args []CodeArg // Operands, in assembly order.
}

var opForms = [...]opForm{
	OP_UNKNOWN:  {0x0000, nil},
	OP_RET:      {0x00EE, nil},
	OP_JP:       {0x1000, []CodeArg{ARG_ADDR}},
	OP_CALL:     {0x2000, []CodeArg{ARG_ADDR}},
	OP_SE_BYTE:  {0x3000, []CodeArg{ARG_VX, ARG_BYTE}},
	OP_SNE_BYTE: {0x4000, []CodeArg{ARG_VX, ARG_BYTE}},
	OP_LD_BYTE:  {0x6000, []CodeArg{ARG_VX, ARG_BYTE}},
	OP_ADD_BYTE: {0x7000, []CodeArg{ARG_VX, ARG_BYTE}},
	OP_LD_REG:   {0x8000, []CodeArg{ARG_VX, ARG_VY}},
	OP_SNE_REG:  {0x9000, []CodeArg{ARG_VX, ARG_VY}},
	OP_LD_I:     {0xA000, []CodeArg{ARG_I, ARG_ADDR}},
	OP_RND:      {0xC000, []CodeArg{ARG_VX, ARG_BYTE}},
	OP_DRW:      {0xD000, []CodeArg{ARG_VX, ARG_VY, ARG_NIBBLE}},
	OP_SKP:      {0xE09E, []CodeArg{ARG_VX}},
	OP_SKNP:     {0xE0A1, []CodeArg{ARG_VX}},
	OP_LD_VX_DT: {0xF007, []CodeArg{ARG_VX, ARG_DT}},
	OP_LD_DT_VX: {0xF015, []CodeArg{ARG_DT, ARG_VX}},
	OP_ADD_I:    {0xF01E, []CodeArg{ARG_I, ARG_VX}},
}

// Args returns the assembly operands of the operation.
func (op Op) Args() []CodeArg {
	if op < 0 || int(op) >= len(opForms) {
		return nil
	}
	return opForms[op].Args
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Op   Op     // Decoded operation, OP_UNKNOWN if unrecognized.
	Word uint16 // Instruction word as fetched.
}

// Decode classifies an instruction word.
func Decode(word uint16) (ins Instruction) {
	ins.Word = word

	switch word & 0xF000 {
	case 0x0000:
		if word == 0x00EE {
			ins.Op = OP_RET
		}
	case 0x1000:
		ins.Op = OP_JP
	case 0x2000:
		ins.Op = OP_CALL
	case 0x3000:
		ins.Op = OP_SE_BYTE
	case 0x4000:
		ins.Op = OP_SNE_BYTE
	case 0x6000:
		ins.Op = OP_LD_BYTE
	case 0x7000:
		ins.Op = OP_ADD_BYTE
	case 0x8000:
		if word&0x000F == 0x0 {
			ins.Op = OP_LD_REG
		}
	case 0x9000:
		// The low nibble is not checked.
		ins.Op = OP_SNE_REG
	case 0xA000:
		ins.Op = OP_LD_I
	case 0xC000:
		ins.Op = OP_RND
	case 0xD000:
		ins.Op = OP_DRW
	case 0xE000:
		switch word & 0x00FF {
		case 0x9E:
			ins.Op = OP_SKP
		case 0xA1:
			ins.Op = OP_SKNP
		}
	case 0xF000:
		switch word & 0x00FF {
		case 0x07:
			ins.Op = OP_LD_VX_DT
		case 0x15:
			ins.Op = OP_LD_DT_VX
		case 0x1E:
			ins.Op = OP_ADD_I
		}
	}

	return
}

// MakeInstruction encodes an operation with its valued operands, in assembly order.
func MakeInstruction(op Op, values ...uint16) (ins Instruction, err error) {
	if op <= OP_UNKNOWN || int(op) >= len(opForms) {
		err = ErrOpcodeInvalid
		return
	}

	form := opForms[op]
	word := form.Word
	for _, arg := range form.Args {
		if !arg.Valued() {
			continue
		}
		if len(values) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		value := values[0]
		values = values[1:]
		if value > arg.Limit() {
			err = ErrValueRange
			return
		}
		switch arg {
		case ARG_VX:
			word |= value << 8
		case ARG_VY:
			word |= value << 4
		default:
			word |= value
		}
	}

	if len(values) != 0 {
		err = ErrOpcodeExtraArgs
		return
	}

	ins = Instruction{Op: op, Word: word}
	return
}

// X returns the first register operand.
func (ins Instruction) X() uint8 {
	return uint8((ins.Word >> 8) & 0xf)
}

// Y returns the second register operand.
func (ins Instruction) Y() uint8 {
	return uint8((ins.Word >> 4) & 0xf)
}

// N returns the low nibble immediate.
func (ins Instruction) N() uint8 {
	return uint8(ins.Word & 0xf)
}

// NN returns the low byte immediate.
func (ins Instruction) NN() uint8 {
	return uint8(ins.Word & 0xff)
}

// NNN returns the address operand.
func (ins Instruction) NNN() uint16 {
	return ins.Word & 0xfff
}

// Encode returns the instruction word.
func (ins Instruction) Encode() uint16 {
	return ins.Word
}

// String returns the assembly language representation of this instruction.
func (ins Instruction) String() string {
	if ins.Op == OP_UNKNOWN {
		return fmt.Sprintf("%v 0x%04x", ins.Op, ins.Word)
	}

	args := ins.Op.Args()
	if len(args) == 0 {
		return ins.Op.String()
	}

	strs := make([]string, 0, len(args))
	for _, arg := range args {
		var str string
		switch arg {
		case ARG_VX:
			str = fmt.Sprintf("v%x", ins.X())
		case ARG_VY:
			str = fmt.Sprintf("v%x", ins.Y())
		case ARG_BYTE:
			str = fmt.Sprintf("0x%02x", ins.NN())
		case ARG_NIBBLE:
			str = fmt.Sprintf("%d", ins.N())
		case ARG_ADDR:
			str = fmt.Sprintf("0x%03x", ins.NNN())
		case ARG_I:
			str = "i"
		case ARG_DT:
			str = "dt"
		}
		strs = append(strs, str)
	}

	return ins.Op.String() + " " + strings.Join(strs, ", ")
}
