// Package io provides the byte channels attached to the KF-8 machine.
// The Rom channel streams a program image in upload order, and the Tape
// channel records every value latched by the OUT instruction.
package io

import (
	"iter"
)

// Channel defines the interface for all byte channels of the KF-8 machine.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns an iterator that yields bytes from the channel.
	Receive() iter.Seq[uint8]
	// Send writes a single byte to the channel.
	Send(value uint8) error
}
