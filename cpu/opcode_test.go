package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstruction(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code    Instruction
		opcode  Opcode
		operand uint8
		text    string
	}){
		{0x00, OP_NOP, 0x0, "NOP"},
		{0xD1, OP_LDI, 0x1, "LDI 0x01"},
		{0x3F, OP_STA, 0xf, "STA 0x0F"},
		{0xEF, OP_SUB, 0xf, "SUB 0x0F"},
		{0x7F, OP_JMPV, 0xf, "JMPV 0x0F"},
		{0xA0, OP_OUT, 0x0, "OUT"},
		{0xA7, OP_OUT, 0x7, "OUT"},
		{0xB0, OP_MOVA_B, 0x0, "MOVA_B"},
		{0xC0, OP_MOVB_A, 0x0, "MOVB_A"},
		{0xF0, OP_HLT, 0x0, "HLT"},
	}

	for _, entry := range table {
		assert.Equal(entry.opcode, entry.code.Opcode(), entry.text)
		assert.Equal(entry.operand, entry.code.Operand(), entry.text)
		assert.Equal(entry.text, entry.code.String())
		assert.Equal(entry.code, MakeInstruction(entry.opcode, entry.operand))
	}
}

func TestInstruction_AllDecode(t *testing.T) {
	assert := assert.New(t)

	for value := range 0x100 {
		code := Instruction(value)
		assert.Equal(uint8(value>>4), uint8(code.Opcode()))
		assert.Equal(uint8(value&0xf), code.Operand())
		assert.NotEmpty(code.Opcode().String())
	}
}

func TestMakeInstruction_Truncates(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Instruction(0x61), MakeInstruction(OP_JMP, 0x31))
	assert.Equal(Instruction(0x5f), MakeInstruction(Opcode(0x15), 0xff))
}

func TestDefinitions(t *testing.T) {
	assert := assert.New(t)

	count := 0
	for def := range Definitions() {
		assert.Equal(Opcode(count), def.Opcode)
		assert.Equal(def, def.Opcode.Definition())
		count++
	}
	assert.Equal(16, count)

	flags := []Opcode{}
	branches := []Opcode{}
	for def := range Definitions() {
		if def.Flags {
			flags = append(flags, def.Opcode)
		}
		if def.Branch {
			branches = append(branches, def.Opcode)
		}
	}
	assert.Equal([]Opcode{OP_ADD, OP_ADI, OP_SUB}, flags)
	assert.Equal([]Opcode{OP_JMP, OP_JMPV, OP_JC, OP_JZ}, branches)

	assert.Equal(OPERAND_IMM, OP_LDI.Definition().Operand)
	assert.Equal(OPERAND_VEC, OP_JMPV.Definition().Operand)
	assert.Equal(OPERAND_ADDR, OP_JC.Definition().Operand)
	assert.Equal(OPERAND_NONE, OP_OUT.Definition().Operand)
}

func TestLookupMnemonic(t *testing.T) {
	assert := assert.New(t)

	table := map[string]Opcode{
		"nop":     OP_NOP,
		"LDA":     OP_LDA,
		"ld":      OP_LDA,
		"St":      OP_STA,
		"JM":      OP_JMP,
		"jv":      OP_JMPV,
		"MOVAB":   OP_MOVA_B,
		"mov_a_b": OP_MOVA_B,
		"MOVA":    OP_MOVA_B,
		"MOVBA":   OP_MOVB_A,
		"MOV_B_A": OP_MOVB_A,
		"movb":    OP_MOVB_A,
		"stop":    OP_HLT,
		"hlt":     OP_HLT,
	}

	for name, expected := range table {
		op, ok := LookupMnemonic(name)
		assert.True(ok, name)
		assert.Equal(expected, op, name)
	}

	_, ok := LookupMnemonic("MUL")
	assert.False(ok)
	_, ok = LookupMnemonic("")
	assert.False(ok)
}

func TestOperandKind_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("none", OPERAND_NONE.String())
	assert.Equal("imm4", OPERAND_IMM.String())
	assert.Equal("addr4", OPERAND_ADDR.String())
	assert.Equal("vec4", OPERAND_VEC.String())
	assert.Equal("OperandKind(9)", OperandKind(9).String())
}
