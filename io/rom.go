package io

import (
	"iter"
)

// Rom is a read-only program image.
//
// Receive yields the image bytes unmodified and in order, starting from
// offset 0, which is exactly what a RAM programmer must transfer into the
// machine.
type Rom struct {
	Data []uint8
}

var _ Channel = (*Rom)(nil)

// Rewind is a no-op; every Receive starts at offset 0.
func (rc *Rom) Rewind() {
}

func (rc *Rom) Receive() iter.Seq[uint8] {
	return func(yield func(value uint8) bool) {
		for _, data := range rc.Data {
			if !yield(data) {
				return
			}
		}
	}
}

func (rc *Rom) Send(value uint8) error {
	return ErrChannelFull
}

// Len returns the size of the image in bytes.
func (rc *Rom) Len() int {
	return len(rc.Data)
}
