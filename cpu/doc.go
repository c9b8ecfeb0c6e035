// Package cpu implements the KF-8 processor and its assembler.
//
// The KF-8 is an 8-bit accumulator machine with sixteen bytes of RAM that
// hold both the program and its data. It has an accumulator (A), an
// auxiliary register (B), carry and zero flags, a 4-bit program counter
// and an output latch.
//
// Every instruction is a single byte: the top nibble selects one of
// sixteen opcodes, and the bottom nibble is a RAM address, a 4-bit
// immediate, or ignored. There are no invalid instructions.
//
// Arithmetic is modulo 256. ADD, ADI and SUB are the only instructions
// that touch the flags: Z is set when the result is zero, and C is set on
// a carry out of bit 7 for additions, or when no borrow was needed for
// subtraction.
//
// The assembler accepts the mnemonics and aliases of the instruction set,
// labels, equates, macros and compile-time $(...) expressions.
package cpu
