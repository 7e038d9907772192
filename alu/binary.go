// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alu

// AddBinary performs a binary-mode add with carry. The 6502 and 65C02
// behave identically here.
func AddBinary(carry bool, acc, operand byte) Result {
	sum := uint16(acc) + uint16(operand) + uint16(bit(carry))
	v := byte(sum)
	n := (v & 0x80) != 0

	return Result{
		A: v,
		N: n,
		V: ((acc&0x80) != 0) != n && ((operand&0x80) != 0) != n,
		Z: v == 0,
		C: sum >= 0x100,
	}
}

// SubBinary performs a binary-mode subtract with carry. It is the add with
// the operand inverted, so the carry flag acts as an inverted borrow.
func SubBinary(carry bool, acc, operand byte) Result {
	borrow := bit(!carry)
	v := acc - operand - borrow
	n := (v & 0x80) != 0

	return Result{
		A: v,
		N: n,
		V: ((acc&0x80) != 0) != n && ((operand&0x80) == 0) != n,
		Z: v == 0,
		C: uint16(acc) >= uint16(operand)+uint16(borrow),
	}
}
