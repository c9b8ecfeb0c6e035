package io

import (
	"io"
	"iter"
)

// Tape records the byte stream sent to it.
// Every byte is kept in History, and is also copied to Output when set.
type Tape struct {
	Output io.Writer

	History []uint8

	readIndex int
}

var _ Channel = (*Tape)(nil)

// Rewind discards the recorded history.
func (tc *Tape) Rewind() {
	tc.History = tc.History[:0]
	tc.readIndex = 0
}

// Receive returns an iterator that yields the recorded bytes not yet
// received.
func (tc *Tape) Receive() iter.Seq[uint8] {
	return func(yield func(value uint8) bool) {
		for tc.readIndex < len(tc.History) {
			value := tc.History[tc.readIndex]
			tc.readIndex++
			if !yield(value) {
				return
			}
		}
	}
}

// Send records a byte, and writes it to the output stream.
func (tc *Tape) Send(value uint8) (err error) {
	tc.History = append(tc.History, value)

	if tc.Output != nil {
		_, err = tc.Output.Write([]byte{value})
	}

	return
}

// Last returns the most recently recorded byte.
func (tc *Tape) Last() (value uint8, ok bool) {
	if len(tc.History) == 0 {
		return
	}

	return tc.History[len(tc.History)-1], true
}
