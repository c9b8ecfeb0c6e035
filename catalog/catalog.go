// Package catalog holds the fixed, ordered menu of KF-8 program images.
//
// A Catalog is validated once, when it is built, and is read-only
// afterwards. Every accessor hands out copies, so a Catalog may be shared
// freely between goroutines.
package catalog

import (
	"iter"
	"slices"

	"github.com/ezrec/kf8/cpu"
	"github.com/ezrec/kf8/emulator"
)

// Kind of a catalog program.
type Kind int

const (
	KIND_TEST  Kind = iota // Self-checking; halts after emitting Pass.
	KIND_DANCE             // Display animation; never halts.
	KIND_DEMO              // Demonstration; no pass code.
)

func (k Kind) String() string {
	switch k {
	case KIND_TEST:
		return "test"
	case KIND_DANCE:
		return "dance"
	case KIND_DEMO:
		return "demo"
	default:
		return f("Kind(%d)", int(k))
	}
}

// Program is a named program image.
type Program struct {
	Symbol      string  // Identifier of the image, ie TEST01.
	Name        string  // Display name.
	Code        []uint8 // Image, loaded at address 0.
	Length      int     // Declared size of Code.
	Kind        Kind    // Kind of program.
	Pass        uint8   // Output of a passing KIND_TEST program.
	Description string  // One line summary.
}

// Validate checks the declared length against the image.
func (prog *Program) Validate() (err error) {
	if prog.Length != len(prog.Code) {
		err = ErrLength
		return
	}

	if prog.Length < 1 || prog.Length > cpu.RAM_SIZE {
		err = cpu.ErrProgramSize(prog.Length)
		return
	}

	return
}

func (prog Program) clone() Program {
	prog.Code = slices.Clone(prog.Code)
	return prog
}

// Run executes the program image on a fresh emulator.
func (prog *Program) Run(budget int, opts ...emulator.Option) (result emulator.Result, err error) {
	result, err = emulator.Run(prog.Code, budget, opts...)

	return
}

// Verify runs the program, and checks it behaves as its Kind promises:
// test programs halt emitting Pass, and every other program runs
// without error.
func (prog *Program) Verify(budget int, opts ...emulator.Option) (result emulator.Result, err error) {
	result, err = prog.Run(budget, opts...)
	if err != nil {
		return
	}

	if prog.Kind != KIND_TEST {
		return
	}

	if !result.Halted {
		err = ErrNotHalted
		return
	}

	if result.Output != prog.Pass {
		err = ErrOutput{Expected: prog.Pass, Actual: result.Output}
		return
	}

	return
}

// Catalog is an ordered, immutable list of programs.
type Catalog struct {
	programs []Program
}

// New builds a catalog, in the order given.
// A program whose declared length does not match its image, or whose
// image does not fit in RAM, is rejected.
func New(programs ...Program) (cat *Catalog, err error) {
	list := make([]Program, 0, len(programs))
	for n, prog := range programs {
		err = prog.Validate()
		if err != nil {
			err = &ErrProgram{Index: n, Name: prog.Name, Err: err}
			return
		}
		list = append(list, prog.clone())
	}

	cat = &Catalog{programs: list}

	return
}

// Len returns the number of programs.
func (cat *Catalog) Len() int {
	return len(cat.programs)
}

// At returns the program at an index.
func (cat *Catalog) At(index int) (prog Program, ok bool) {
	if index < 0 || index >= len(cat.programs) {
		return
	}

	return cat.programs[index].clone(), true
}

// ByName returns the first program with exactly the given display name.
func (cat *Catalog) ByName(name string) (prog Program, ok bool) {
	index := slices.IndexFunc(cat.programs, func(p Program) bool { return p.Name == name })
	if index < 0 {
		return
	}

	return cat.programs[index].clone(), true
}

// BySymbol returns the first program with exactly the given symbol.
func (cat *Catalog) BySymbol(symbol string) (prog Program, ok bool) {
	index := slices.IndexFunc(cat.programs, func(p Program) bool { return p.Symbol == symbol })
	if index < 0 {
		return
	}

	return cat.programs[index].clone(), true
}

// Lookup finds a program by symbol, and then by display name.
func (cat *Catalog) Lookup(key string) (prog Program, err error) {
	prog, ok := cat.BySymbol(key)
	if ok {
		return
	}

	prog, ok = cat.ByName(key)
	if ok {
		return
	}

	err = ErrNotFound

	return
}

// All iterates over the programs in catalog order.
func (cat *Catalog) All() iter.Seq2[int, Program] {
	return func(yield func(int, Program) bool) {
		for n, prog := range cat.programs {
			if !yield(n, prog.clone()) {
				return
			}
		}
	}
}

// Names returns the display names in catalog order.
func (cat *Catalog) Names() (names []string) {
	names = make([]string, 0, len(cat.programs))
	for _, prog := range cat.programs {
		names = append(names, prog.Name)
	}

	return
}
