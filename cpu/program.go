package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"regexp"
	"strings"
)

// Line is a line of assembled code with its source location.
type Line struct {
	LineNo    int      // Source line number, 0 if disassembled.
	Pc        int      // Address of the instruction.
	Words     []string // Canonical mnemonic, and the operand as written.
	Code      Instruction
	Comment   string   // Trailing comment, including the leading ';'.
	Leading   []string // Comment-only lines preceding this line.
	LinkLabel string   // Label the operand is linked to.
}

// Program is an assembled (or disassembled) program image.
type Program struct {
	Lines    []Line
	Trailing []string // Comment-only lines after the last instruction.
	Size     int      // Image size in bytes, including padding.
	PadByte  uint8    // Value of the padding bytes.
}

// arrayNameRe matches a valid Progmem array name.
var arrayNameRe = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// Debug returns the source line of the instruction at pc, or nil.
func (prog *Program) Debug(pc uint8) (line *Line) {
	for n := range prog.Lines {
		if prog.Lines[n].Pc == int(pc) {
			line = &prog.Lines[n]
			break
		}
	}

	return
}

// Codes iterates over the assembled instructions, without padding.
func (prog *Program) Codes() iter.Seq2[uint8, Instruction] {
	return func(yield func(pc uint8, code Instruction) bool) {
		for _, line := range prog.Lines {
			if !yield(uint8(line.Pc), line.Code) {
				return
			}
		}
	}
}

// Len returns the image size in bytes, including padding.
func (prog *Program) Len() int {
	return max(prog.Size, len(prog.Lines))
}

// Bytes returns the program image, including padding.
func (prog *Program) Bytes() (image []uint8) {
	image = make([]uint8, 0, prog.Len())
	for _, code := range prog.Codes() {
		image = append(image, uint8(code))
	}

	for len(image) < prog.Size {
		image = append(image, prog.PadByte)
	}

	return
}

// source returns the source text of a line, with the canonical mnemonic.
func (line *Line) source() string {
	if len(line.Words) == 0 {
		return line.Code.String()
	}

	return strings.Join(line.Words, " ")
}

// Listing writes a summary table of the program; one line per byte:
//
//	address | binary | decoded instruction | source
func (prog *Program) Listing(w io.Writer) (err error) {
	wr := bufio.NewWriter(w)

	comments := func(lines []string) {
		for _, comment := range lines {
			fmt.Fprintf(wr, "%2s | %8s | %-11s | %v\n", "", "", "", comment)
		}
	}

	for _, line := range prog.Lines {
		comments(line.Leading)
		code := line.Code
		decoded := fmt.Sprintf("%-6s %4s", code.Opcode().String(), "")
		if code.Opcode().Definition().Operand != OPERAND_NONE {
			decoded = fmt.Sprintf("%-6s 0x%02x", code.Opcode().String(), code.Operand())
		}
		fmt.Fprintf(wr, "%02x | %08b | %-11s | %v\n", line.Pc, uint8(code), decoded, line.source())
	}

	comments(prog.Trailing)

	for pc := len(prog.Lines); pc < prog.Size; pc++ {
		fmt.Fprintf(wr, "%02x | %08b | %-11s | %v\n", pc, prog.PadByte, "", "PAD")
	}

	err = wr.Flush()

	return
}

// Progmem writes the program as a C array named name, in the form
// used by the RAM programmer firmware:
//
//	const uint8_t NAME[N]PROGMEM = {
//	  0xD1, // LDI 0x01 ; comment
//	};
//
// name must be a C identifier of upper case letters, digits and
// underscores.
func (prog *Program) Progmem(w io.Writer, name string) (err error) {
	if !arrayNameRe.MatchString(name) {
		err = ErrArrayName(name)
		return
	}

	wr := bufio.NewWriter(w)

	fmt.Fprintf(wr, "const uint8_t %s[%d]PROGMEM = {\n", name, prog.Len())

	for _, line := range prog.Lines {
		for _, comment := range line.Leading {
			fmt.Fprintf(wr, "  // %s\n", comment)
		}
		text := line.Code.String()
		if len(line.Comment) != 0 {
			text += " " + line.Comment
		}
		fmt.Fprintf(wr, "  0x%02X, // %s\n", uint8(line.Code), text)
	}

	for _, comment := range prog.Trailing {
		fmt.Fprintf(wr, "  // %s\n", comment)
	}

	for pc := len(prog.Lines); pc < prog.Size; pc++ {
		fmt.Fprintf(wr, "  0x%02X, // PAD\n", prog.PadByte)
	}

	fmt.Fprintf(wr, "};\n")

	err = wr.Flush()

	return
}

// Disassemble decodes a program image into a Program.
// Every byte decodes to an instruction, so this never fails.
func Disassemble(image []uint8) (prog *Program) {
	prog = &Program{
		Lines: make([]Line, 0, len(image)),
		Size:  len(image),
	}

	for pc, value := range image {
		code := Instruction(value)
		words := []string{code.Opcode().String()}
		if code.Opcode().Definition().Operand != OPERAND_NONE {
			words = append(words, fmt.Sprintf("0x%02X", code.Operand()))
		}
		prog.Lines = append(prog.Lines, Line{
			Pc:    pc,
			Words: words,
			Code:  code,
		})
	}

	return
}
