package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Opcode is the instruction class, held in the top nibble of an instruction.
type Opcode uint8

const (
	OP_NOP    = Opcode(0x0) // NOP
	OP_LDA    = Opcode(0x1) // LDA
	OP_LDB    = Opcode(0x2) // LDB
	OP_STA    = Opcode(0x3) // STA
	OP_ADD    = Opcode(0x4) // ADD
	OP_ADI    = Opcode(0x5) // ADI
	OP_JMP    = Opcode(0x6) // JMP
	OP_JMPV   = Opcode(0x7) // JMPV
	OP_JC     = Opcode(0x8) // JC
	OP_JZ     = Opcode(0x9) // JZ
	OP_OUT    = Opcode(0xA) // OUT
	OP_MOVA_B = Opcode(0xB) // MOVA_B
	OP_MOVB_A = Opcode(0xC) // MOVB_A
	OP_LDI    = Opcode(0xD) // LDI
	OP_SUB    = Opcode(0xE) // SUB
	OP_HLT    = Opcode(0xF) // HLT
)

// OperandKind is how an opcode interprets the operand nibble.
type OperandKind int

const (
	OPERAND_NONE = OperandKind(0) // none
	OPERAND_IMM  = OperandKind(1) // imm4
	OPERAND_ADDR = OperandKind(2) // addr4
	OPERAND_VEC  = OperandKind(3) // vec4
)

var operandKindNames = [...]string{"none", "imm4", "addr4", "vec4"}

func (kind OperandKind) String() string {
	if kind < 0 || int(kind) >= len(operandKindNames) {
		return fmt.Sprintf("OperandKind(%d)", int(kind))
	}
	return operandKindNames[kind]
}

// Definition describes a single opcode of the instruction set.
type Definition struct {
	Opcode   Opcode
	Mnemonic string
	Operand  OperandKind
	Aliases  []string // Alternate mnemonics accepted by the assembler.
	Flags    bool     // Updates the carry and zero flags.
	Branch   bool     // May load the program counter.
}

var definitions = [16]Definition{
	{Opcode: OP_NOP, Mnemonic: "NOP", Operand: OPERAND_NONE},
	{Opcode: OP_LDA, Mnemonic: "LDA", Operand: OPERAND_ADDR, Aliases: []string{"LD"}},
	{Opcode: OP_LDB, Mnemonic: "LDB", Operand: OPERAND_ADDR},
	{Opcode: OP_STA, Mnemonic: "STA", Operand: OPERAND_ADDR, Aliases: []string{"ST"}},
	{Opcode: OP_ADD, Mnemonic: "ADD", Operand: OPERAND_ADDR, Flags: true},
	{Opcode: OP_ADI, Mnemonic: "ADI", Operand: OPERAND_IMM, Flags: true},
	{Opcode: OP_JMP, Mnemonic: "JMP", Operand: OPERAND_ADDR, Aliases: []string{"JM"}, Branch: true},
	{Opcode: OP_JMPV, Mnemonic: "JMPV", Operand: OPERAND_VEC, Aliases: []string{"JV"}, Branch: true},
	{Opcode: OP_JC, Mnemonic: "JC", Operand: OPERAND_ADDR, Branch: true},
	{Opcode: OP_JZ, Mnemonic: "JZ", Operand: OPERAND_ADDR, Branch: true},
	{Opcode: OP_OUT, Mnemonic: "OUT", Operand: OPERAND_NONE},
	{Opcode: OP_MOVA_B, Mnemonic: "MOVA_B", Operand: OPERAND_NONE, Aliases: []string{"MOVAB", "MOV_A_B", "MOVA"}},
	{Opcode: OP_MOVB_A, Mnemonic: "MOVB_A", Operand: OPERAND_NONE, Aliases: []string{"MOVBA", "MOV_B_A", "MOVB"}},
	{Opcode: OP_LDI, Mnemonic: "LDI", Operand: OPERAND_IMM},
	{Opcode: OP_SUB, Mnemonic: "SUB", Operand: OPERAND_ADDR, Flags: true},
	{Opcode: OP_HLT, Mnemonic: "HLT", Operand: OPERAND_NONE, Aliases: []string{"STOP"}},
}

// mnemonicMap maps upper case mnemonics and aliases to opcodes.
var mnemonicMap = func() map[string]Opcode {
	mnemonics := make(map[string]Opcode, 32)
	for _, def := range definitions {
		mnemonics[def.Mnemonic] = def.Opcode
		for _, alias := range def.Aliases {
			mnemonics[alias] = def.Opcode
		}
	}
	return mnemonics
}()

// Definition returns the instruction set definition of the opcode.
func (op Opcode) Definition() Definition {
	return definitions[op&0xf]
}

func (op Opcode) String() string {
	return op.Definition().Mnemonic
}

// Definitions iterates over all sixteen opcode definitions, in opcode order.
func Definitions() iter.Seq[Definition] {
	return func(yield func(def Definition) bool) {
		for _, def := range definitions {
			if !yield(def) {
				return
			}
		}
	}
}

// LookupMnemonic finds the opcode for a mnemonic or alias, ignoring case.
func LookupMnemonic(name string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[strings.ToUpper(name)]
	return
}

// Instruction is a single encoded instruction byte.
// The top nibble is the opcode, the bottom nibble the operand.
type Instruction uint8

// MakeInstruction encodes an opcode and operand into an instruction.
// The operand is truncated to 4 bits.
func MakeInstruction(op Opcode, operand uint8) Instruction {
	return Instruction((uint8(op&0xf) << 4) | (operand & OPERAND_MAX))
}

// Opcode returns the opcode from the instruction byte.
func (code Instruction) Opcode() Opcode {
	return Opcode(uint8(code) >> 4)
}

// Operand returns the operand nibble from the instruction byte.
func (code Instruction) Operand() uint8 {
	return uint8(code) & OPERAND_MAX
}

// String returns the assembly language representation of this instruction.
// Operands of opcodes that ignore them are not shown.
func (code Instruction) String() string {
	def := code.Opcode().Definition()
	if def.Operand == OPERAND_NONE {
		return def.Mnemonic
	}

	return fmt.Sprintf("%v 0x%02X", def.Mnemonic, code.Operand())
}
