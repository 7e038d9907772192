// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package alu implements the add-with-carry and subtract-with-carry
// arithmetic of the NMOS 6502 and the WDC 65C02, including their decimal
// mode behavior.
//
// Every function in this package produces results that are bitwise
// identical to real hardware for all inputs. The 6502 versions were
// verified against a SALLY 6502 (Atari 800XL) and the 65C02 versions
// against a WDC 65C02 (Neo6502).
//
// Binary mode is the same on both chips. In decimal mode the two diverge:
// the 6502 derives N, V and Z from intermediate or binary values, while
// the 65C02 derives N and Z from the corrected result and propagates an
// extra low-nibble borrow during subtraction. Invalid BCD operands (nibbles
// from 10 to 15) are accepted and produce the same results as the silicon.
//
// All functions are pure. They may be called from any number of goroutines.
package alu

// ADC6502 executes the 6502 ADC instruction.
func ADC6502(decimal, carry bool, acc, operand byte) Result {
	if decimal {
		return AddDecimal6502(carry, acc, operand)
	}
	return AddBinary(carry, acc, operand)
}

// SBC6502 executes the 6502 SBC instruction.
func SBC6502(decimal, carry bool, acc, operand byte) Result {
	if decimal {
		return SubDecimal6502(carry, acc, operand)
	}
	return SubBinary(carry, acc, operand)
}

// ADC65C02 executes the 65C02 ADC instruction.
func ADC65C02(decimal, carry bool, acc, operand byte) Result {
	if decimal {
		return AddDecimal65C02(carry, acc, operand)
	}
	return AddBinary(carry, acc, operand)
}

// SBC65C02 executes the 65C02 SBC instruction.
func SBC65C02(decimal, carry bool, acc, operand byte) Result {
	if decimal {
		return SubDecimal65C02(carry, acc, operand)
	}
	return SubBinary(carry, acc, operand)
}
