package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := map[string]string{"RAM_SIZE": "16"}
	second := map[string]string{"OP_HLT": "0xf", "OP_NOP": "0x0"}

	all := maps.Collect(IterSeq2Concat(maps.All(first), maps.All(second)))
	assert.Equal(map[string]string{
		"RAM_SIZE": "16",
		"OP_HLT":   "0xf",
		"OP_NOP":   "0x0",
	}, all)
}

func TestIterSeq2Concat_EarlyStop(t *testing.T) {
	assert := assert.New(t)

	first := map[int]int{1: 1}
	second := map[int]int{2: 2, 3: 3}

	count := 0
	for range IterSeq2Concat(maps.All(first), maps.All(second)) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)
}

func TestIterSeq2Concat_Empty(t *testing.T) {
	assert := assert.New(t)

	count := 0
	for range IterSeq2Concat[string, string]() {
		count++
	}
	assert.Equal(0, count)
}
