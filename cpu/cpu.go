package cpu

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ezrec/kf8/internal"
	"github.com/ezrec/kf8/io"
)

var _cpu_defines = map[string]string{
	"RAM_SIZE":    fmt.Sprintf("%d", RAM_SIZE),
	"ADDR_MASK":   fmt.Sprintf("0x%x", ADDR_MASK),
	"OPERAND_MAX": fmt.Sprintf("%d", OPERAND_MAX),
}

// Cpu is the machine state of the KF-8.
type Cpu struct {
	A      uint8           // Accumulator.
	B      uint8           // Auxiliary register.
	Carry  bool            // Carry flag.
	Zero   bool            // Zero flag.
	Pc     uint8           // Program counter, 4 bits.
	Ram    [RAM_SIZE]uint8 // Program and data memory.
	Output uint8           // Output latch.
	Halted bool            // Set by HLT.

	Ticks int // Instructions executed since reset.

	display io.Channel // Receives every OUT value, if set.
	logger  *zap.Logger
}

// Option configures a Cpu.
type Option func(cpu *Cpu)

// WithLogger sets the logger used for instruction traces.
func WithLogger(logger *zap.Logger) Option {
	return func(cpu *Cpu) {
		cpu.logger = logger
	}
}

// WithDisplay attaches a channel that is sent every OUT value.
func WithDisplay(display io.Channel) Option {
	return func(cpu *Cpu) {
		cpu.display = display
	}
}

// NewCpu creates a new CPU, in the reset state.
func NewCpu(opts ...Option) (cpu *Cpu) {
	cpu = &Cpu{
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cpu)
	}

	cpu.logger = cpu.logger.Named("cpu")

	return
}

// Defines returns the assembler equates of the machine: the memory
// geometry, and the value of every opcode as OP_<mnemonic>.
func Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_cpu_defines), opcodeDefines())
}

// Defines for the cpu.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return Defines()
}

func opcodeDefines() iter.Seq2[string, string] {
	return func(yield func(name, value string) bool) {
		for def := range Definitions() {
			if !yield("OP_"+def.Mnemonic, fmt.Sprintf("0x%x", uint8(def.Opcode))) {
				return
			}
		}
	}
}

// SetDisplay sets the channel that receives OUT values.
func (cpu *Cpu) SetDisplay(display io.Channel) {
	cpu.display = display
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"pc", "a", "b", "c", "z", "out", "halt", "ram"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%X", cpu.Pc)
		case "a":
			strval = fmt.Sprintf("%02X", cpu.A)
		case "b":
			strval = fmt.Sprintf("%02X", cpu.B)
		case "c":
			strval = fmt.Sprintf("%v", cpu.Carry)
		case "z":
			strval = fmt.Sprintf("%v", cpu.Zero)
		case "out":
			strval = fmt.Sprintf("%02X", cpu.Output)
		case "halt":
			strval = fmt.Sprintf("%v", cpu.Halted)
		case "ram":
			var hex []string
			for _, value := range cpu.Ram {
				hex = append(hex, fmt.Sprintf("%02X", value))
			}
			strval = strings.Join(hex, " ")
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Reset the CPU state.
// - Clears the registers, flags, output latch and RAM.
// - Zeros the tick counter.
// - Rewinds the display.
func (cpu *Cpu) Reset() {
	cpu.logger.Debug("reset")

	cpu.A = 0
	cpu.B = 0
	cpu.Carry = false
	cpu.Zero = false
	cpu.Pc = 0
	clear(cpu.Ram[:])
	cpu.Output = 0
	cpu.Halted = false
	cpu.Ticks = 0

	if cpu.display != nil {
		cpu.display.Rewind()
	}
}

// Load resets the CPU, and then copies a program image from a channel
// into RAM, starting at address 0.
// The image must be between 1 and RAM_SIZE bytes.
func (cpu *Cpu) Load(rom io.Channel) (err error) {
	cpu.Reset()

	size := 0
	for value := range rom.Receive() {
		if size < RAM_SIZE {
			cpu.Ram[size] = value
		}
		size++
	}

	if size == 0 || size > RAM_SIZE {
		clear(cpu.Ram[:])
		err = ErrProgramSize(size)
		return
	}

	cpu.logger.Debug("load", zap.Int("size", size))

	return
}

// Fetch returns the instruction at the program counter.
func (cpu *Cpu) Fetch() Instruction {
	return Instruction(cpu.Ram[cpu.Pc&ADDR_MASK])
}

// Tick executes a single CPU instruction cycle.
// Returns ErrHalted once the CPU has executed a HLT.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	err = cpu.Execute(cpu.Fetch())

	return
}

// Execute executes a single decoded instruction.
//
// Execution always completes; the only error is a failure of the
// attached display to accept an OUT value, which is reported after the
// machine state has been updated.
func (cpu *Cpu) Execute(code Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	if ce := cpu.logger.Check(zapcore.DebugLevel, "execute"); ce != nil {
		ce.Write(
			zap.Uint8("pc", cpu.Pc),
			zap.Stringer("code", code),
			zap.Uint8("a", cpu.A),
			zap.Uint8("b", cpu.B),
			zap.Bool("c", cpu.Carry),
			zap.Bool("z", cpu.Zero),
		)
	}

	next_pc := (cpu.Pc + 1) & ADDR_MASK

	arg := code.Operand()

	switch code.Opcode() {
	case OP_NOP:
		// pass
	case OP_LDA:
		cpu.A = cpu.Ram[arg]
	case OP_LDB:
		cpu.B = cpu.Ram[arg]
	case OP_STA:
		cpu.Ram[arg] = cpu.A
	case OP_ADD:
		cpu.A = cpu.doAlu(cpu.A, cpu.Ram[arg], false)
	case OP_ADI:
		cpu.A = cpu.doAlu(cpu.A, arg, false)
	case OP_JMP:
		next_pc = arg
	case OP_JMPV:
		next_pc = cpu.Ram[arg] & ADDR_MASK
	case OP_JC:
		if cpu.Carry {
			next_pc = arg
		}
	case OP_JZ:
		if cpu.Zero {
			next_pc = arg
		}
	case OP_OUT:
		cpu.Output = cpu.A
		if cpu.display != nil {
			err = cpu.display.Send(cpu.A)
			if err != nil {
				err = errors.Join(ErrDisplay, err)
			}
		}
	case OP_MOVA_B:
		cpu.A = cpu.B
	case OP_MOVB_A:
		cpu.B = cpu.A
	case OP_LDI:
		cpu.A = arg
	case OP_SUB:
		cpu.A = cpu.doAlu(cpu.A, cpu.Ram[arg], true)
	case OP_HLT:
		cpu.Halted = true
		cpu.logger.Debug("halt", zap.Uint8("pc", cpu.Pc), zap.Uint8("out", cpu.Output))
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	return
}

// doAlu adds, or subtracts, value from input and returns the 8-bit result.
//
// Subtraction is input + ^value + 1, so the carry flag is set when no
// borrow was needed (input >= value). The zero flag reflects the result.
func (cpu *Cpu) doAlu(input uint8, value uint8, subtract bool) (output uint8) {
	carry_in := uint16(0)
	if subtract {
		value = ^value
		carry_in = 1
	}

	sum := uint16(input) + uint16(value) + carry_in
	output = uint8(sum)

	cpu.Carry = sum > 0xff
	cpu.Zero = output == 0

	return
}
