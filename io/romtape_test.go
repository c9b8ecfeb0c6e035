package io

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRom_Receive(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{
		Data: []uint8{0xD1, 0x3F, 0xF0},
	}

	var got []uint8
	for value := range rom.Receive() {
		got = append(got, value)
	}

	assert.Equal([]uint8{0xD1, 0x3F, 0xF0}, got)
	assert.Equal(3, rom.Len())

	// Every receive restarts from offset 0.
	got = got[:0]
	for value := range rom.Receive() {
		got = append(got, value)
	}
	assert.Equal([]uint8{0xD1, 0x3F, 0xF0}, got)
}

func TestRom_Receive_Empty(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}

	count := 0
	for range rom.Receive() {
		count++
	}

	assert.Equal(0, count)
}

func TestRom_Receive_EarlyStop(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []uint8{1, 2, 3, 4}}

	var got []uint8
	for value := range rom.Receive() {
		got = append(got, value)
		if len(got) == 2 {
			break
		}
	}

	assert.Equal([]uint8{1, 2}, got)
}

func TestRom_Send(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	err := rom.Send(0x42)
	assert.ErrorIs(err, ErrChannelFull)
}

func TestTape_Send(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{Output: output}

	assert.NoError(tape.Send(0x02))
	assert.NoError(tape.Send(0x03))
	assert.NoError(tape.Send(0x05))

	assert.Equal([]byte{0x02, 0x03, 0x05}, output.Bytes())
	assert.Equal([]uint8{0x02, 0x03, 0x05}, tape.History)

	last, ok := tape.Last()
	assert.True(ok)
	assert.Equal(uint8(0x05), last)
}

func TestTape_Receive(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	tape.Send(0x0A)
	tape.Send(0x0B)

	var got []uint8
	for value := range tape.Receive() {
		got = append(got, value)
	}
	assert.Equal([]uint8{0x0A, 0x0B}, got)

	// Already received values are not repeated.
	tape.Send(0x0C)
	got = got[:0]
	for value := range tape.Receive() {
		got = append(got, value)
	}
	assert.Equal([]uint8{0x0C}, got)
}

func TestTape_Rewind(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	tape.Send(0x0A)
	tape.Rewind()

	_, ok := tape.Last()
	assert.False(ok)
	assert.Empty(tape.History)
}

type failWriter struct{}

var errWrite = errors.New("write failed")

func (failWriter) Write(p []byte) (int, error) {
	return 0, errWrite
}

func TestTape_Send_WriteError(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Output: failWriter{}}
	err := tape.Send(0x01)
	assert.ErrorIs(err, errWrite)

	// The value is still recorded.
	assert.Equal([]uint8{0x01}, tape.History)
}
