// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alu

// AddDecimal6502 performs a decimal-mode add with carry the way the NMOS
// 6502 does it.
//
// Only the accumulator and the carry flag are decimal-corrected. The zero
// flag is taken from the plain binary sum, and the negative and overflow
// flags are taken from the high nibble before it is corrected.
func AddDecimal6502(carry bool, acc, operand byte) Result {
	var r Result

	binary := acc + operand + bit(carry)
	r.Z = binary == 0

	lo := acc&0x0f + operand&0x0f + bit(carry)
	carrylo := lo > 9
	if carrylo {
		lo = (lo - 10) & 0x0f
	}

	hi := acc>>4 + operand>>4 + bit(carrylo)

	uncorrectedHi := hi
	r.N = (uncorrectedHi & 0x08) != 0
	r.V = ((acc&0x80) != 0) != r.N && ((operand&0x80) != 0) != r.N

	r.C = hi > 9
	if r.C {
		hi = (hi - 10) & 0x0f
	}

	r.A = hi<<4 | lo
	return r
}

// SubDecimal6502 performs a decimal-mode subtract with carry the way the
// NMOS 6502 does it.
//
// The negative, overflow and zero flags are identical to a binary-mode
// subtraction. Only the accumulator and the carry flag are
// decimal-corrected.
func SubDecimal6502(carry bool, acc, operand byte) Result {
	r := SubBinary(carry, acc, operand)

	// A nibble difference is negative when bit 7 of its byte is set.
	borrow := bit(!carry)

	lo := acc&0x0f - operand&0x0f - borrow
	borrowlo := (lo & 0x80) != 0
	if borrowlo {
		lo = (lo + 10) & 0x0f
	}

	hi := acc>>4 - operand>>4 - bit(borrowlo)
	borrowhi := (hi & 0x80) != 0
	if borrowhi {
		hi = (hi + 10) & 0x0f
	}

	r.A = hi<<4 | lo
	r.C = !borrowhi
	return r
}
