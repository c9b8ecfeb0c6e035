// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ezrec/kf8/catalog"
	"github.com/ezrec/kf8/cpu"
	"github.com/ezrec/kf8/emulator"
	"github.com/ezrec/kf8/translate"
)

// outputWriter prints every OUT value on its own line.
type outputWriter struct {
	w io.Writer
}

func (ow outputWriter) Write(data []byte) (n int, err error) {
	for _, value := range data {
		_, err = fmt.Fprintf(ow.w, "out 0x%02X %08b %3d\n", value, value, value)
		if err != nil {
			return
		}
		n++
	}

	return
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.TimeKey = ""

	return config.Build()
}

func listCatalog(w io.Writer, cat *catalog.Catalog) {
	for n, prog := range cat.All() {
		fmt.Fprintf(w, "%2d %-8s %-5s %2d  %-16s %s\n",
			n, prog.Symbol, prog.Kind, prog.Length, prog.Name, prog.Description)
	}
}

func selfTest(w io.Writer, cat *catalog.Catalog, budget int, logger *zap.Logger) (err error) {
	failed := 0
	for _, prog := range cat.All() {
		result, verr := prog.Verify(budget, emulator.WithLogger(logger))
		status := "PASS"
		if verr != nil {
			status = "FAIL " + verr.Error()
			failed++
		}
		fmt.Fprintf(w, "%-8s %-5s out=0x%02X steps=%-5d halted=%-5v %s\n",
			prog.Symbol, prog.Kind, result.Output, result.Steps, result.Halted, status)
	}

	if failed != 0 {
		err = fmt.Errorf("%d of %d programs failed", failed, cat.Len())
	}

	return
}

func main() {
	var compile string
	var name string
	var index int
	var list bool
	var selftest bool
	var budget int
	var format string
	var output string
	var pad int
	var padByte uint
	var arrayName string
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&name, "p", "", "Catalog program, by symbol or name")
	flag.IntVar(&index, "i", -1, "Catalog program, by index")
	flag.BoolVar(&list, "l", false, "List the catalog")
	flag.BoolVar(&selftest, "t", false, "Verify every catalog program")
	flag.IntVar(&budget, "n", emulator.DEFAULT_BUDGET, "Instruction budget")
	flag.StringVar(&format, "f", "run", "Output format: run, bin, c or list")
	flag.StringVar(&output, "o", "-", "Output file")
	flag.IntVar(&pad, "pad", 0, "Pad an assembled image to this many bytes")
	flag.UintVar(&padByte, "pad-byte", 0, "Padding byte")
	flag.StringVar(&arrayName, "name", "", "Array name of the c format, [A-Z_][A-Z0-9_]*")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	logger, err := newLogger(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Debug("locale", zap.Stringer("language", translate.Language()))

	if flag.NArg() != 0 {
		logger.Fatal("unknown arguments", zap.Strings("args", flag.Args()))
	}

	if padByte > 0xff {
		logger.Fatal("padding byte out of range", zap.Uint("pad-byte", padByte))
	}

	var out io.Writer = os.Stdout
	if output != "-" {
		ouf, err := os.Create(output)
		if err != nil {
			logger.Fatal("output", zap.Error(err))
		}
		defer ouf.Close()
		out = ouf
	}

	cat := catalog.Builtin()

	if list {
		listCatalog(out, cat)
		return
	}

	if selftest {
		err = selfTest(out, cat, budget, logger)
		if err != nil {
			logger.Fatal("self-test", zap.Error(err))
		}
		return
	}

	var prog *cpu.Program

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			logger.Fatal("source", zap.Error(err))
		}
		defer inf.Close()

		asm := &cpu.Assembler{
			Logger:  logger,
			PadTo:   pad,
			PadByte: uint8(padByte),
		}
		prog, err = asm.Parse(inf)
		if err != nil {
			logger.Fatal("assemble", zap.String("file", compile), zap.Error(err))
		}

		if len(arrayName) == 0 {
			base := filepath.Base(compile)
			arrayName = strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
		}
	case len(name) != 0 || index >= 0:
		var entry catalog.Program
		if len(name) != 0 {
			entry, err = cat.Lookup(name)
		} else {
			var ok bool
			entry, ok = cat.At(index)
			if !ok {
				err = catalog.ErrNotFound
			}
		}
		if err != nil {
			logger.Fatal("catalog", zap.String("program", name), zap.Int("index", index), zap.Error(err))
		}

		prog = cpu.Disassemble(entry.Code)
		if len(arrayName) == 0 {
			arrayName = entry.Symbol
		}
	default:
		logger.Fatal("no program; use -c, -p, -i, -l or -t")
	}

	switch format {
	case "run":
		emu := emulator.NewEmulator(emulator.WithLogger(logger), emulator.WithBudget(budget))
		emu.Tape.Output = outputWriter{w: out}

		err = emu.LoadProgram(prog)
		if err == nil {
			var result emulator.Result
			result, err = emu.Resume()
			fmt.Fprintf(out, "halted=%v steps=%d output=0x%02X\n", result.Halted, result.Steps, result.Output)
		}
	case "bin":
		if output == "-" && term.IsTerminal(int(os.Stdout.Fd())) {
			err = errors.New("refusing to write a binary image to a terminal; use -o")
			break
		}
		_, err = out.Write(prog.Bytes())
	case "c":
		err = prog.Progmem(out, arrayName)
	case "list":
		err = prog.Listing(out)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}

	if err != nil {
		logger.Fatal(format, zap.Error(err))
	}
}
