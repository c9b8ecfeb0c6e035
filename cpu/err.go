package cpu

import (
	"errors"

	"github.com/ezrec/kf8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted  = errors.New(f("halted"))
	ErrDisplay = errors.New(f("display"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrPadding            = errors.New(f("cannot pad below the program length"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrOpcode Instruction

func (eo ErrOpcode) Error() string {
	return f("executing 0x%02x %v", uint8(eo), Instruction(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrOperandRange is an operand that does not fit in 4 bits.
type ErrOperandRange int

func (err ErrOperandRange) Error() string {
	return f("operand out of range (0..%d): %d", OPERAND_MAX, int(err))
}

func (err ErrOperandRange) Is(target error) (ok bool) {
	_, ok = target.(ErrOperandRange)
	return
}

// ErrProgramSize is a program image that is empty, or does not fit in RAM.
type ErrProgramSize int

func (err ErrProgramSize) Error() string {
	return f("program size %d not in 1..%d", int(err), RAM_SIZE)
}

func (err ErrProgramSize) Is(target error) (ok bool) {
	_, ok = target.(ErrProgramSize)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}

// ErrArrayName is a Progmem array name that is not a C identifier.
type ErrArrayName string

func (err ErrArrayName) Error() string {
	return f("array name '%v' is not [A-Z_][A-Z0-9_]*", string(err))
}
