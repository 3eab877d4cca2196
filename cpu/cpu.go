package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand/v2"
	"strings"
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":     fmt.Sprintf("%#x", MEMORY_SIZE),
	"FONT_ADDRESS":    fmt.Sprintf("%#x", FONT_ADDRESS),
	"FONT_GLYPH_SIZE": fmt.Sprintf("%v", FONT_GLYPH_SIZE),
	"PROGRAM_ADDRESS": fmt.Sprintf("%#x", PROGRAM_ADDRESS),
	"STACK_LIMIT":     fmt.Sprintf("%v", STACK_LIMIT),
}

// Cpu is the simulation context for the CHIP-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Display Display      // Pixel sink for the draw instruction.
	Keypad  Keypad       // Keypad snapshot, written by the input source.
	Rand    func() uint8 // Random byte source, math/rand/v2 if nil.

	Memory     [MEMORY_SIZE]uint8    // Main memory.
	Register   [REGISTER_COUNT]uint8 // Register bank v0-vf.
	Index      uint16                // Index register (I).
	Pc         uint16                // Program counter.
	Stack      Stack                 // Return stack.
	DelayTimer uint8                 // Decremented once per tick while non-zero.
	SoundTimer uint8                 // Never read or decremented.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new CPU drawing to display, with the font loaded.
// A nil display discards all drawing.
func NewCpu(display Display) (cpu *Cpu) {
	if display == nil {
		display = nullDisplay{}
	}

	cpu = &Cpu{
		Display: display,
	}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory, registers, index, stack and timers.
// - Reloads the font.
// - Sets the program counter to PROGRAM_ADDRESS.
// The keypad belongs to the input source, and is left alone.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Index = 0
	cpu.Pc = PROGRAM_ADDRESS
	cpu.Stack.Reset()
	cpu.DelayTimer = 0
	cpu.SoundTimer = 0
	cpu.Ticks = 0

	cpu.LoadFont()
}

// LoadFont copies the hex digit glyphs to FONT_ADDRESS.
func (cpu *Cpu) LoadFont() {
	copy(cpu.Memory[FONT_ADDRESS:], fontSet[:])
}

// Load copies data into memory at offset.
func (cpu *Cpu) Load(offset uint16, data []byte) (err error) {
	if int(offset)+len(data) > MEMORY_SIZE {
		err = errors.Join(ErrOutOfRange, ErrLoadRange)
		return
	}

	copy(cpu.Memory[offset:], data)

	if cpu.Verbose {
		log.Printf("cpu: load %d bytes at 0x%03x", len(data), offset)
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%5s: 0x%03x\n", "pc", cpu.Pc)
	fmt.Fprintf(&sb, "%5s: 0x%03x\n", "i", cpu.Index)
	for n, val := range cpu.Register {
		fmt.Fprintf(&sb, "%5s: 0x%02x\n", fmt.Sprintf("v%x", n), val)
	}
	fmt.Fprintf(&sb, "%5s: %v\n", "dt", cpu.DelayTimer)
	fmt.Fprintf(&sb, "%5s: %v\n", "st", cpu.SoundTimer)

	val, ok := cpu.Stack.Peek()
	if ok {
		fmt.Fprintf(&sb, "%5s: 0x%03x (%d)\n", "stack", val, cpu.Stack.Depth())
	} else {
		fmt.Fprintf(&sb, "%5s: ---\n", "stack")
	}

	var keys string
	for n, pressed := range cpu.Keypad.Snapshot() {
		if pressed {
			keys += fmt.Sprintf("%X", n)
		} else {
			keys += "."
		}
	}
	fmt.Fprintf(&sb, "%5s: %v\n", "keys", keys)

	return sb.String()
}

// Fetch reads the instruction at the program counter, and advances it.
func (cpu *Cpu) Fetch() (ins Instruction, err error) {
	if int(cpu.Pc)+1 >= MEMORY_SIZE {
		err = errors.Join(ErrOutOfRange, ErrPcRange)
		return
	}

	word := uint16(cpu.Memory[cpu.Pc])<<8 | uint16(cpu.Memory[cpu.Pc+1])
	cpu.Pc += 2

	ins = Decode(word)
	return
}

// Tick executes a single CPU instruction cycle.
// The delay timer decays even if the instruction faulted.
func (cpu *Cpu) Tick() (err error) {
	pc := cpu.Pc

	ins, err := cpu.Fetch()
	if err == nil {
		if cpu.Verbose {
			log.Printf("%03x: %v", pc, ins)
		}
		err = cpu.Execute(ins)
	}

	if cpu.DelayTimer > 0 {
		cpu.DelayTimer--
	}

	cpu.Ticks++

	return
}

// skipIf skips the next instruction if cond is true.
func (cpu *Cpu) skipIf(cond bool) {
	if cond {
		cpu.Pc += 2
	}
}

// random returns a uniformly random byte.
func (cpu *Cpu) random() uint8 {
	if cpu.Rand != nil {
		return cpu.Rand()
	}
	return uint8(rand.Uint32())
}

// Execute executes a single decoded instruction.
// The program counter must already point past the instruction.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(ins), err)
		}
	}()

	x := ins.X()
	y := ins.Y()

	switch ins.Op {
	case OP_RET:
		addr, ok := cpu.Stack.Pop()
		if !ok {
			err = errors.Join(ErrOutOfRange, ErrStackEmpty)
			return
		}
		cpu.Pc = addr
	case OP_JP:
		cpu.Pc = ins.NNN()
	case OP_CALL:
		if !cpu.Stack.Push(cpu.Pc) {
			err = errors.Join(ErrOutOfRange, ErrStackFull)
			return
		}
		cpu.Pc = ins.NNN()
	case OP_SE_BYTE:
		cpu.skipIf(cpu.Register[x] == ins.NN())
	case OP_SNE_BYTE:
		cpu.skipIf(cpu.Register[x] != ins.NN())
	case OP_LD_BYTE:
		cpu.Register[x] = ins.NN()
	case OP_ADD_BYTE:
		// Wraps at 8 bits, vf is not changed.
		cpu.Register[x] += ins.NN()
	case OP_LD_REG:
		cpu.Register[x] = cpu.Register[y]
	case OP_SNE_REG:
		// Skips on equality, not inequality.
		cpu.skipIf(cpu.Register[x] == cpu.Register[y])
	case OP_LD_I:
		cpu.Index = ins.NNN()
	case OP_RND:
		cpu.Register[x] = cpu.random() & ins.NN()
	case OP_DRW:
		err = cpu.draw(x, y, ins.N())
	case OP_SKP, OP_SKNP:
		key := cpu.Register[x]
		if key >= KEY_COUNT {
			err = errors.Join(ErrOutOfRange, ErrKeyRange)
			return
		}
		pressed := cpu.Keypad.Pressed(key)
		cpu.skipIf(pressed == (ins.Op == OP_SKP))
	case OP_LD_VX_DT:
		cpu.Register[x] = cpu.DelayTimer
	case OP_LD_DT_VX:
		cpu.DelayTimer = cpu.Register[x]
	case OP_ADD_I:
		// Not limited to 12 bits.
		cpu.Index += uint16(cpu.Register[x])
	default:
		log.Print(f("cpu: unknown opcode 0x%04x at 0x%03x", ins.Word, cpu.Pc-2))
	}

	return
}

// draw XORs an 8 x n sprite from memory at the index register onto the
// display at (vx, vy), setting vf if any lit pixel was cleared.
func (cpu *Cpu) draw(x, y, n uint8) (err error) {
	base := int(cpu.Index)
	if base+int(n) > MEMORY_SIZE {
		err = errors.Join(ErrOutOfRange, ErrIndexRange)
		return
	}

	// vf is cleared before the coordinates are read.
	cpu.Register[REGISTER_FLAG] = 0
	posX := int(cpu.Register[x])
	posY := int(cpu.Register[y])

	display := cpu.Display
	if display == nil {
		display = nullDisplay{}
	}
	for row := range int(n) {
		sprite := cpu.Memory[base+row]
		for col := range 8 {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			px, py := posX+col, posY+row
			if display.Pixel(px, py) {
				display.SetPixel(px, py, false)
				cpu.Register[REGISTER_FLAG] = 1
			} else {
				display.SetPixel(px, py, true)
			}
			display.Repaint()
		}
	}

	return
}
