// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alu

// AddDecimal65C02 performs a decimal-mode add with carry the way the WDC
// 65C02 does it. The negative and zero flags reflect the corrected
// accumulator. The overflow flag still uses bit 3 of the high nibble before
// correction.
func AddDecimal65C02(carry bool, acc, operand byte) Result {
	lo := acc&0x0f + operand&0x0f + bit(carry)
	carrylo := lo > 9
	if carrylo {
		lo -= 10
	}
	lo &= 0x0f

	hi := acc>>4 + operand>>4 + bit(carrylo)
	uncorrectedHiBit3 := (hi & 0x08) != 0

	c := hi > 9
	if c {
		hi -= 10
	}
	hi &= 0x0f

	v := hi<<4 | lo
	return Result{
		A: v,
		N: (v & 0x80) != 0,
		V: ((acc&0x80) != 0) != uncorrectedHiBit3 && ((operand&0x80) != 0) != uncorrectedHiBit3,
		Z: v == 0,
		C: c,
	}
}

// SubDecimal65C02 performs a decimal-mode subtract with carry the way the
// WDC 65C02 does it.
//
// Unlike the 6502, a low nibble that is still negative after its +10
// correction takes one more unit away from the high nibble. This was
// measured on the chip and has to be kept as is.
func SubDecimal65C02(carry bool, acc, operand byte) Result {
	borrow := bit(!carry)

	lo := acc&0x0f - operand&0x0f - borrow
	borrowlo := (lo & 0x80) != 0
	if borrowlo {
		lo += 10
	}
	loStillNegative := (lo & 0x80) != 0
	lo &= 0x0f

	hi := acc>>4 - operand>>4 - bit(borrowlo)
	uncorrectedHiBit3 := (hi & 0x08) != 0

	borrowhi := (hi & 0x80) != 0
	if borrowhi {
		hi += 10
	}
	hi -= bit(loStillNegative)
	hi &= 0x0f

	v := hi<<4 | lo
	return Result{
		A: v,
		N: (v & 0x80) != 0,
		V: ((acc&0x80) != 0) != uncorrectedHiBit3 && ((operand&0x80) == 0) != uncorrectedHiBit3,
		Z: v == 0,
		C: !borrowhi,
	}
}
