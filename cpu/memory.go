package cpu

const (
	RAM_SIZE    = 16   // Bytes of addressable RAM, shared by code and data.
	ADDR_MASK   = 0x0f // Mask of a 4-bit address.
	OPERAND_MAX = 0x0f // Largest operand value.
)
