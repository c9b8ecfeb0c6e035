package cpu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	for code := range 0x100 {
		f.Add(uint8(code), uint8(0x80), uint8(0x7f), uint8(0), false, false)
	}
	f.Add(uint8(0x4f), uint8(0xff), uint8(0x00), uint8(0x0f), true, true)
	f.Add(uint8(0xef), uint8(0x00), uint8(0x00), uint8(0x0f), false, true)

	f.Fuzz(func(t *testing.T, opcode uint8, a uint8, b uint8, pc uint8, carry bool, zero bool) {
		assert := assert.New(t)

		code := Instruction(opcode)

		cpu := NewCpu()
		for n := range cpu.Ram {
			cpu.Ram[n] = uint8(0x1b * (n + 1))
		}
		cpu.A = a
		cpu.B = b
		cpu.Pc = pc & ADDR_MASK
		cpu.Carry = carry
		cpu.Zero = zero

		prior := snap(cpu)

		err := cpu.Execute(code)
		assert.NoError(err)

		code_str := fmt.Sprintf("0x%02x (%v) a:%#02x b:%#02x pc:%#x c:%v z:%v\ncpu:%v",
			opcode, code, a, b, pc, carry, zero, cpu.String())

		// Reference model.
		expected := prior
		expected.Pc = (prior.Pc + 1) % RAM_SIZE
		arg := int(code.Operand())
		mem := prior.Ram[arg]

		arith := func(result int) {
			expected.A = uint8(result)
			expected.Zero = uint8(result) == 0
		}

		switch code.Opcode() {
		case OP_NOP:
		case OP_LDA:
			expected.A = mem
		case OP_LDB:
			expected.B = mem
		case OP_STA:
			expected.Ram[arg] = prior.A
		case OP_ADD:
			arith(int(prior.A) + int(mem))
			expected.Carry = int(prior.A)+int(mem) > 255
		case OP_ADI:
			arith(int(prior.A) + arg)
			expected.Carry = int(prior.A)+arg > 255
		case OP_JMP:
			expected.Pc = uint8(arg)
		case OP_JMPV:
			expected.Pc = mem % RAM_SIZE
		case OP_JC:
			if prior.Carry {
				expected.Pc = uint8(arg)
			}
		case OP_JZ:
			if prior.Zero {
				expected.Pc = uint8(arg)
			}
		case OP_OUT:
			expected.Output = prior.A
		case OP_MOVA_B:
			expected.A = prior.B
		case OP_MOVB_A:
			expected.B = prior.A
		case OP_LDI:
			expected.A = uint8(arg)
		case OP_SUB:
			arith(int(prior.A) - int(mem))
			expected.Carry = prior.A >= mem
		case OP_HLT:
			expected.Halted = true
		}

		assert.Equal(expected, snap(cpu), code_str)
		assert.Less(cpu.Pc, uint8(RAM_SIZE), code_str)
		assert.Equal(1, cpu.Ticks, code_str)
	})
}
