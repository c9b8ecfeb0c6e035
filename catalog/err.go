package catalog

import (
	"errors"

	"github.com/ezrec/kf8/translate"
)

var f = translate.From

var (
	ErrLength    = errors.New(f("declared length does not match code size"))
	ErrNotFound  = errors.New(f("program not found"))
	ErrNotHalted = errors.New(f("program did not halt"))
)

// ErrProgram is a catalog entry that failed validation.
type ErrProgram struct {
	Index int
	Name  string
	Err   error
}

func (err *ErrProgram) Error() string {
	return f("program %d (%v): %v", err.Index, err.Name, err.Err)
}

func (err *ErrProgram) Unwrap() error {
	return err.Err
}

// ErrOutput is a self-checking program that emitted the wrong code.
type ErrOutput struct {
	Expected uint8
	Actual   uint8
}

func (err ErrOutput) Error() string {
	return f("output 0x%02X, expected 0x%02X", err.Actual, err.Expected)
}
