package catalog

import (
	"sync"
)

var builtinPrograms = []Program{
	{
		Symbol: "TEST01",
		Name:   "Flags & Jumps",
		Code: []uint8{
			0xD1, 0x3F, 0xD0, 0xEF, 0x8D, 0x51, 0x98, 0x6D,
			0x8A, 0x6D, 0xDA, 0xA0, 0xF0, 0xDE, 0xA0, 0xF0,
		},
		Length:      16,
		Kind:        KIND_TEST,
		Pass:        0x0A,
		Description: "LDI, STA, SUB, ADI, JC, JZ, JMP, OUT and HLT; FAIL emits 0x0E",
	},
	{
		Symbol: "TEST02",
		Name:   "Memory",
		Code: []uint8{
			0xD9, 0xA0, 0x3E, 0xD3, 0x3F, 0x1E, 0x52, 0x2F,
			0xB0, 0x58, 0xA0, 0xF0,
		},
		Length:      12,
		Kind:        KIND_TEST,
		Pass:        0x0B,
		Description: "STA to LDA round trip, LDB and MOVA_B",
	},
	{
		Symbol: "TEST03",
		Name:   "Registers & ADD",
		Code: []uint8{
			0x00, 0xD1, 0x3F, 0xDB, 0x4F, 0xC0, 0xD0, 0xB0,
			0xA0, 0xF0,
		},
		Length:      10,
		Kind:        KIND_TEST,
		Pass:        0x0C,
		Description: "NOP, ADD from RAM, MOVB_A and MOVA_B",
	},
	{
		Symbol: "TEST04",
		Name:   "JMPV",
		Code: []uint8{
			0xDC, 0x3F, 0xDE, 0x7F, 0xA0, 0xF0, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00, 0xDD, 0xA0, 0xF0, 0x00,
		},
		Length:      16,
		Kind:        KIND_TEST,
		Pass:        0x0D,
		Description: "Indirect jump through RAM; fall through emits 0x0E",
	},
	{
		Symbol: "DANCE01",
		Name:   "LED Dance 1",
		Code: []uint8{
			0xD1, 0x3F, 0xD0, 0x30, 0xC0, 0xD0, 0xE0, 0xEF,
			0xC0, 0x31, 0x10, 0x4F, 0xA0, 0x63,
		},
		Length:      14,
		Kind:        KIND_DANCE,
		Description: "Dual chase: A counts up while B shows its complement",
	},
	{
		Symbol: "DANCE02",
		Name:   "LED Dance 2",
		Code: []uint8{
			0xD7, 0x31, 0x51, 0xA0, 0xC0, 0x41, 0xE1, 0x52,
			0xA0, 0x62,
		},
		Length:      10,
		Kind:        KIND_DANCE,
		Description: "ALU shimmer: A jitters and B follows",
	},
	{
		Symbol: "DEMO01",
		Name:   "Demo 01",
		Code: []uint8{
			0xD1, 0x3E, 0x3F, 0x8C, 0x1F, 0x3D, 0x4E, 0xA0,
			0x3F, 0x1D, 0x3E, 0x63, 0xF0, 0x00, 0x00, 0x00,
		},
		Length:      16,
		Kind:        KIND_DEMO,
		Description: "Fibonacci sequence until the sum carries",
	},
}

var builtin = sync.OnceValue(func() *Catalog {
	cat, err := New(builtinPrograms...)
	if err != nil {
		panic(err)
	}
	return cat
})

// Builtin returns the catalog of programs shipped with the KF-8.
func Builtin() *Catalog {
	return builtin()
}
