// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs KF-8 program images to completion, or until a
// step budget is exhausted.
package emulator

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/ezrec/kf8/cpu"
	"github.com/ezrec/kf8/internal"
	"github.com/ezrec/kf8/io"
)

const (
	DEFAULT_BUDGET = 1024 // Default instruction budget for a run.
)

var _emulator_defines = map[string]string{
	"DEFAULT_BUDGET": fmt.Sprintf("%v", DEFAULT_BUDGET),
}

// Emulator state. CPU + program ROM + output tape.
type Emulator struct {
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Listing of the loaded image.
	Budget   int          // Instruction budget of Run and Resume.

	Rom  io.Rom  // Program image, loaded into RAM on reset.
	Tape io.Tape // Receives every OUT value.

	logger *zap.Logger
}

// Option configures an Emulator.
type Option func(emu *Emulator)

// WithLogger sets the logger of the emulator, and of its CPU.
func WithLogger(logger *zap.Logger) Option {
	return func(emu *Emulator) {
		emu.logger = logger
	}
}

// WithBudget sets the instruction budget of Run.
func WithBudget(budget int) Option {
	return func(emu *Emulator) {
		emu.Budget = budget
	}
}

// Result of a run.
type Result struct {
	Output  uint8   // Final value of the output latch.
	Halted  bool    // True if the program executed HLT.
	Steps   int     // Instructions executed since reset, HLT included.
	Outputs []uint8 // Every value sent by OUT, in order.
}

// NewEmulator creates a new emulator.
func NewEmulator(opts ...Option) (emu *Emulator) {
	emu = &Emulator{
		Program: &cpu.Program{},
		Budget:  DEFAULT_BUDGET,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(emu)
	}

	emu.logger = emu.logger.Named("emu")
	emu.Cpu = cpu.NewCpu(cpu.WithLogger(emu.logger), cpu.WithDisplay(&emu.Tape))

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Load sets the program image, and resets the machine with it.
func (emu *Emulator) Load(code []uint8) (err error) {
	emu.Rom.Data = slices.Clone(code)
	emu.Program = cpu.Disassemble(emu.Rom.Data)

	err = emu.Reset()

	return
}

// LoadProgram sets an assembled program, and resets the machine with it.
// The program source lines are then reported by LineNo.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	emu.Rom.Data = prog.Bytes()
	emu.Program = prog

	err = emu.Reset()

	return
}

// Reset the machine, and reload the program image into RAM.
func (emu *Emulator) Reset() (err error) {
	err = emu.Cpu.Load(&emu.Rom)

	return
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() int {
	return int(emu.Cpu.Pc)
}

// Code returns the current instruction.
func (emu *Emulator) Code() cpu.Instruction {
	return emu.Cpu.Fetch()
}

// LineNo returns the source line number of the current instruction,
// or 0 if it is not known.
func (emu *Emulator) LineNo() int {
	line := emu.Program.Debug(emu.Cpu.Pc)
	if line == nil {
		return 0
	}

	return line.LineNo
}

// Tick performs a single instruction of the emulator.
// done is set once the program has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Cpu.Halted {
		done = true
		return
	}

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted

	return
}

// Run loads a program image, and executes it until it halts or Budget
// instructions have been executed.
//
// The only errors are an image that is empty or larger than RAM, and a
// failure to write to the Tape output.
func (emu *Emulator) Run(code []uint8) (result Result, err error) {
	err = emu.Load(code)
	if err != nil {
		return
	}

	result, err = emu.Resume()

	return
}

// Resume executes the loaded program until it halts, or until Budget more
// instructions have been executed. Result.Steps counts every instruction
// since the last reset, not only those of this call.
func (emu *Emulator) Resume() (result Result, err error) {
	emu.logger.Debug("run", zap.Int("pc", emu.Pc()), zap.Int("budget", emu.Budget))

	for steps := 0; steps < emu.Budget; steps++ {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			break
		}
	}

	result = Result{
		Output:  emu.Cpu.Output,
		Halted:  emu.Cpu.Halted,
		Steps:   emu.Cpu.Ticks,
		Outputs: slices.Clone(emu.Tape.History),
	}

	emu.logger.Debug("done",
		zap.Int("steps", result.Steps),
		zap.Bool("halted", result.Halted),
		zap.Uint8("output", result.Output),
	)

	return
}

// Run executes a program image on a fresh emulator, with the given
// instruction budget.
func Run(code []uint8, budget int, opts ...Option) (result Result, err error) {
	opts = append(slices.Clone(opts), WithBudget(budget))

	result, err = NewEmulator(opts...).Run(code)

	return
}
