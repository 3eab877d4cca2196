package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	for rv := range 0x10 {
		f.Add(uint16(rv<<12), rv&1 == 1, rv&2 == 2, uint8(rv))
		f.Add(uint16(rv<<12)|0x0fff, rv&1 == 1, rv&2 == 2, uint8(rv))
	}

	f.Fuzz(func(t *testing.T, word uint16, stack bool, high_index bool, key uint8) {
		assert := assert.New(t)

		const origin = 0x300

		display := newGridDisplay()
		cpu := NewCpu(display)
		cpu.Rand = func() uint8 { return 0xa5 }
		for n := range REGISTER_COUNT {
			cpu.Register[n] = uint8(0x10*n + n)
		}
		cpu.Register[0x3] = key
		cpu.Keypad.Press(0x3)
		cpu.Index = 0x280
		for n := range 16 {
			cpu.Memory[0x280+n] = 0xff
		}
		if high_index {
			cpu.Index = MEMORY_SIZE - 4
		}
		cpu.DelayTimer = 7
		if stack {
			cpu.Stack.Push(0x444)
		}
		cpu.Pc = origin
		cpu.Memory[origin] = uint8(word >> 8)
		cpu.Memory[origin+1] = uint8(word)

		pre := struct {
			Register [REGISTER_COUNT]uint8
			Index    uint16
			Stack    Stack
			Ticks    int
		}{cpu.Register, cpu.Index, cpu.Stack, cpu.Ticks}
		ins := Decode(word)
		x, y := ins.X(), ins.Y()

		err := cpu.Tick()

		ins_str := fmt.Sprintf("0x%04x (%v) stack:%v high_index:%v key:%v\ncpu:%v",
			word, ins, stack, high_index, key, cpu.String())

		assert.Equal(pre.Ticks+1, cpu.Ticks, ins_str)
		expect_dt := uint8(6)
		if err == nil && ins.Op == OP_LD_DT_VX {
			expect_dt = max(pre.Register[x], 1) - 1
		}
		assert.Equal(expect_dt, cpu.DelayTimer, ins_str)

		if err != nil {
			assert.ErrorIs(err, ErrOutOfRange, ins_str)
			assert.ErrorIs(err, ErrOpcode{}, ins_str)
			switch {
			case errors.Is(err, ErrStackEmpty):
				assert.Equal(OP_RET, ins.Op, ins_str)
				assert.False(stack, ins_str)
			case errors.Is(err, ErrKeyRange):
				assert.Contains([]Op{OP_SKP, OP_SKNP}, ins.Op, ins_str)
				assert.Greater(cpu.Register[x], uint8(0xf), ins_str)
			case errors.Is(err, ErrIndexRange):
				assert.Equal(OP_DRW, ins.Op, ins_str)
				assert.True(high_index, ins_str)
				assert.Equal(0, len(display.pixel), ins_str)
			default:
				assert.NoError(err, ins_str)
			}
			// Only the fetch is visible.
			assert.Equal(uint16(origin+2), cpu.Pc, ins_str)
			assert.Equal(pre.Register, cpu.Register, ins_str)
			assert.Equal(pre.Index, cpu.Index, ins_str)
			assert.Equal(pre.Stack, cpu.Stack, ins_str)
			return
		}

		next_pc := uint16(origin + 2)
		expect := pre.Register
		expect_index := pre.Index
		skip := func(cond bool) {
			if cond {
				next_pc += 2
			}
		}

		switch ins.Op {
		case OP_UNKNOWN:
		case OP_RET:
			assert.True(stack, ins_str)
			next_pc = 0x444
		case OP_JP:
			next_pc = ins.NNN()
		case OP_CALL:
			next_pc = ins.NNN()
			top, ok := cpu.Stack.Peek()
			assert.True(ok, ins_str)
			assert.Equal(uint16(origin+2), top, ins_str)
		case OP_SE_BYTE:
			skip(pre.Register[x] == ins.NN())
		case OP_SNE_BYTE:
			skip(pre.Register[x] != ins.NN())
		case OP_LD_BYTE:
			expect[x] = ins.NN()
		case OP_ADD_BYTE:
			expect[x] = pre.Register[x] + ins.NN()
		case OP_LD_REG:
			expect[x] = pre.Register[y]
		case OP_SNE_REG:
			skip(pre.Register[x] == pre.Register[y])
		case OP_LD_I:
			expect_index = ins.NNN()
		case OP_RND:
			expect[x] = 0xa5 & ins.NN()
		case OP_DRW:
			expect[REGISTER_FLAG] = 0
			if ins.N() > 0 && !high_index {
				assert.Equal(8*int(ins.N()), len(display.pixel), ins_str)
			}
		case OP_SKP:
			skip(pre.Register[x] == 0x3)
		case OP_SKNP:
			skip(pre.Register[x] != 0x3)
		case OP_LD_VX_DT:
			expect[x] = 7
		case OP_LD_DT_VX:
		case OP_ADD_I:
			expect_index = pre.Index + uint16(pre.Register[x])
		default:
			panic(ErrOpcode(ins))
		}

		assert.Equal(next_pc, cpu.Pc, ins_str)
		assert.Equal(expect, cpu.Register, ins_str)
		assert.Equal(expect_index, cpu.Index, ins_str)
	})
}
