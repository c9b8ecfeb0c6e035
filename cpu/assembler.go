// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"go.uber.org/zap"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// labelRe matches a valid label, or label reference.
var labelRe = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// Assembler is a two pass macro assembler for the KF-8.
//
// Each source line holds at most one instruction, so every instruction
// is placed in the first pass. Label references are linked once the
// whole source has been read.
type Assembler struct {
	Logger  *zap.Logger // If set, logs the assembler actions.
	PadTo   int         // If non-zero, pad the image to this many bytes.
	PadByte uint8       // Value used for padding. Defaults to NOP.
	Line    []Line      // List of generated lines.

	predefine  map[string]string
	Label      map[string]int      // Map of labels to addresses.
	Equate     map[string]string   // Map of equates.
	Macro      map[string](*Macro) // Map of macros.
	leading    []string            // Comment-only lines before the next instruction.
	expansions int                 // Count of macro expansions.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

func (asm *Assembler) logger() *zap.Logger {
	if asm.Logger == nil {
		return zap.NewNop()
	}
	return asm.Logger
}

// valueOf returns the value of a decimal, 0x hexadecimal or 0b binary number.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	lower := strings.ToLower(word)

	var v64 int64
	switch {
	case strings.HasPrefix(lower, "0x"):
		v64, err = strconv.ParseInt(lower[2:], 16, 32)
	case strings.HasPrefix(lower, "0b"):
		v64, err = strconv.ParseInt(lower[2:], 2, 32)
	default:
		v64, err = strconv.ParseInt(lower, 10, 32)
	}
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	return
}

// parenEval does compile-time $(...) evaluations.
// Numeric equates, and labels defined so far, are visible to the expression.
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var num int
		num, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be labels
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(num)
	}
	for key, pc := range asm.Label {
		pred[key] = starlark.MakeInt(pc)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// parseLine expands a single line into the words of an instruction.
// Handles $(...) expressions, .equ, equate substitution, labels and
// macro invocations.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !labelRe.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentPc()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansions++
		local := fmt.Sprintf("%v_%v_", name, asm.expansions)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno, "")
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentPc gets the address of the next instruction.
func (asm *Assembler) currentPc() int {
	return len(asm.Line)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	logger := asm.logger().Named("asm")

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	clear(asm.Label)
	asm.Line = asm.Line[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.leading = nil
	asm.expansions = 0
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range Defines() {
		asm.Equate[attr] = val
	}
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		logger.Debug("line", zap.Int("lineno", lineno), zap.String("text", text))

		code, rest, has_comment := strings.Cut(text, ";")
		var comment string
		if has_comment {
			comment = ";" + strings.TrimRight(rest, " \t\r")
		}
		line = strings.TrimSpace(code)
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		if len(words) == 0 {
			if len(comment) != 0 {
				asm.leading = append(asm.leading, comment)
			}
			continue
		}

		err = asm.parseWords(words, lineno, comment)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Line {
		op := &asm.Line[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		pc, ok := asm.Label[label]
		if !ok {
			lineno, line = op.LineNo, strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if pc > OPERAND_MAX {
			lineno, line = op.LineNo, strings.Join(op.Words, " ")
			err = ErrOperandRange(pc)
			return
		}
		op.Code = MakeInstruction(op.Code.Opcode(), uint8(pc))
		logger.Debug("link", zap.String("label", label), zap.Int("pc", pc), zap.Int("lineno", op.LineNo))
	}

	size := len(asm.Line)
	if asm.PadTo != 0 {
		if asm.PadTo > RAM_SIZE {
			err = ErrProgramSize(asm.PadTo)
			return
		}
		if asm.PadTo < size {
			err = ErrPadding
			return
		}
	}

	prog = &Program{
		Lines:    slices.Clone(asm.Line),
		Trailing: asm.leading,
		Size:     max(size, asm.PadTo),
		PadByte:  asm.PadByte,
	}

	return
}

// parseWords encodes the words of a single instruction.
func (asm *Assembler) parseWords(words []string, lineno int, comment string) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	op, ok := LookupMnemonic(words[0])
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	if asm.currentPc() >= RAM_SIZE {
		err = ErrProgramSize(asm.currentPc() + 1)
		return
	}

	def := op.Definition()
	args := words[1:]

	line := Line{
		LineNo:  lineno,
		Pc:      asm.currentPc(),
		Words:   []string{def.Mnemonic},
		Comment: comment,
		Leading: asm.leading,
	}

	switch {
	case def.Operand == OPERAND_NONE:
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		line.Code = MakeInstruction(op, 0)
	case len(args) == 0:
		err = ErrOpcodeValueMissing
		return
	case len(args) > 1:
		err = ErrOpcodeExtraArgs
		return
	case labelRe.MatchString(args[0]):
		// Linked once all labels are known.
		line.Words = append(line.Words, args[0])
		line.LinkLabel = args[0]
		line.Code = MakeInstruction(op, 0)
	default:
		var value int
		value, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if value < 0 || value > OPERAND_MAX {
			err = ErrOperandRange(value)
			return
		}
		line.Words = append(line.Words, args[0])
		line.Code = MakeInstruction(op, uint8(value))
	}

	asm.leading = nil
	asm.Line = append(asm.Line, line)

	return
}
