// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"

	"github.com/beevik/alu65/alu"
)

// Registers contains the state of all 6502 registers.
type Registers struct {
	A                byte   // accumulator
	X                byte   // X indexing register
	Y                byte   // Y indexing register
	SP               byte   // stack pointer ($100 + SP = stack memory location)
	PC               uint16 // program counter
	Carry            bool   // PS: Carry bit
	Zero             bool   // PS: Zero bit
	InterruptDisable bool   // PS: Interrupt disable bit
	Decimal          bool   // PS: Decimal bit
	Overflow         bool   // PS: Overflow bit
	Sign             bool   // PS: Sign bit
}

// Bits assigned to the processor status byte
const (
	CarryBit            = 1 << 0
	ZeroBit             = 1 << 1
	InterruptDisableBit = 1 << 2
	DecimalBit          = 1 << 3
	BreakBit            = 1 << 4
	ReservedBit         = 1 << 5
	OverflowBit         = 1 << 6
	SignBit             = 1 << 7
)

// SavePS returns the processor status as a byte. The reserved bit is
// always set. The break bit is set if requested.
func (r *Registers) SavePS(brk bool) byte {
	ps := byte(ReservedBit)
	for _, f := range []struct {
		on  bool
		bit byte
	}{
		{r.Carry, CarryBit},
		{r.Zero, ZeroBit},
		{r.InterruptDisable, InterruptDisableBit},
		{r.Decimal, DecimalBit},
		{brk, BreakBit},
		{r.Overflow, OverflowBit},
		{r.Sign, SignBit},
	} {
		if f.on {
			ps |= f.bit
		}
	}
	return ps
}

// RestorePS restores the processor status from a byte. The break and
// reserved bits are ignored.
func (r *Registers) RestorePS(ps byte) {
	r.Carry = (ps & CarryBit) != 0
	r.Zero = (ps & ZeroBit) != 0
	r.InterruptDisable = (ps & InterruptDisableBit) != 0
	r.Decimal = (ps & DecimalBit) != 0
	r.Overflow = (ps & OverflowBit) != 0
	r.Sign = (ps & SignBit) != 0
}

// Init initializes all registers. A, X, Y = 0. SP = 0xff. PC = 0. PS = 0.
func (r *Registers) Init() {
	*r = Registers{SP: 0xff}
}

// applyResult copies an arithmetic result into the accumulator and the
// N, V, Z and C flags. Nothing else is touched.
func (r *Registers) applyResult(res alu.Result) {
	r.A = res.A
	r.Sign = res.N
	r.Overflow = res.V
	r.Zero = res.Z
	r.Carry = res.C
}

// FlagString renders the processor status as "NV-BDIZC" style letters,
// with a '-' for each clear flag.
func (r *Registers) FlagString() string {
	ps := r.SavePS(false)
	const names = "NV-BDIZC"
	b := []byte("--------")
	for i := 0; i < 8; i++ {
		if ps&(0x80>>i) != 0 && names[i] != '-' && names[i] != 'B' {
			b[i] = names[i]
		}
	}
	return string(b)
}

// String returns a one-line summary of the register contents.
func (r *Registers) String() string {
	return fmt.Sprintf("A=$%02X X=$%02X Y=$%02X SP=$%02X PC=$%04X PS=[%s]",
		r.A, r.X, r.Y, r.SP, r.PC, r.FlagString())
}
