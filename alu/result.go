// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alu

// Result holds the outcome of a single ADC or SBC operation: the new
// accumulator value and the four status flags the instruction affects.
type Result struct {
	A byte // accumulator
	N bool // negative
	V bool // overflow
	Z bool // zero
	C bool // carry
}

// Bits assigned to the result flags within the 6502 processor status byte.
const (
	CarryBit    = 1 << 0
	ZeroBit     = 1 << 1
	OverflowBit = 1 << 6
	NegativeBit = 1 << 7
)

// Flags packs the result flags into their processor status byte positions.
// All other bits are zero.
func (r Result) Flags() byte {
	var ps byte
	if r.N {
		ps |= NegativeBit
	}
	if r.V {
		ps |= OverflowBit
	}
	if r.Z {
		ps |= ZeroBit
	}
	if r.C {
		ps |= CarryBit
	}
	return ps
}

// Func is the signature shared by the four instruction entry points.
type Func func(decimal, carry bool, acc, operand byte) Result

func bit(v bool) byte {
	if v {
		return 1
	}
	return 0
}
