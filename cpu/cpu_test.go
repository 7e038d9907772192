// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"errors"
	"testing"

	"github.com/beevik/alu65/cpu"
)

func loadCPU(arch cpu.Architecture, origin uint16, code ...byte) *cpu.CPU {
	mem := cpu.NewFlatMemory()
	c := cpu.NewCPU(arch, mem)
	mem.StoreBytes(origin, code)
	c.SetPC(origin)
	return c
}

func stepCPU(t *testing.T, c *cpu.CPU, steps int) {
	t.Helper()
	for i := 0; i < steps; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func runCPU(t *testing.T, arch cpu.Architecture, steps int, code ...byte) *cpu.CPU {
	t.Helper()
	c := loadCPU(arch, 0x1000, code...)
	stepCPU(t, c, steps)
	return c
}

func expectPC(t *testing.T, c *cpu.CPU, pc uint16) {
	t.Helper()
	if c.Reg.PC != pc {
		t.Errorf("PC incorrect. exp: $%04X, got: $%04X", pc, c.Reg.PC)
	}
}

func expectCycles(t *testing.T, c *cpu.CPU, cycles uint64) {
	t.Helper()
	if c.Cycles != cycles {
		t.Errorf("Cycles incorrect. exp: %d, got: %d", cycles, c.Cycles)
	}
}

func expectACC(t *testing.T, c *cpu.CPU, acc byte) {
	t.Helper()
	if c.Reg.A != acc {
		t.Errorf("Accumulator incorrect. exp: $%02X, got: $%02X", acc, c.Reg.A)
	}
}

func expectPS(t *testing.T, c *cpu.CPU, ps byte) {
	t.Helper()
	if got := c.Reg.SavePS(false); got != ps {
		t.Errorf("Status incorrect. exp: $%02X, got: $%02X", ps, got)
	}
}

func expectMem(t *testing.T, c *cpu.CPU, addr uint16, v byte) {
	t.Helper()
	got := c.Mem.LoadByte(addr)
	if got != v {
		t.Errorf("Memory at $%04X incorrect. exp: $%02X, got: $%02X", addr, v, got)
	}
}

func TestAccumulator(t *testing.T) {
	c := runCPU(t, cpu.NMOS, 3,
		0xa9, 0x5e, // LDA #$5E
		0x85, 0x15, // STA $15
		0x8d, 0x00, 0x15, // STA $1500
	)

	expectPC(t, c, 0x1007)
	expectCycles(t, c, 9)
	expectACC(t, c, 0x5e)
	expectMem(t, c, 0x15, 0x5e)
	expectMem(t, c, 0x1500, 0x5e)
}

func TestAddressingModes(t *testing.T) {
	tests := []struct {
		arch cpu.Architecture
		code []byte
		addr uint16
	}{
		{cpu.NMOS, []byte{0xa5, 0x20}, 0x0020},       // LDA $20
		{cpu.NMOS, []byte{0xb5, 0x20}, 0x0022},       // LDA $20,X
		{cpu.NMOS, []byte{0xad, 0x00, 0x30}, 0x3000}, // LDA $3000
		{cpu.NMOS, []byte{0xbd, 0x00, 0x30}, 0x3002}, // LDA $3000,X
		{cpu.NMOS, []byte{0xb9, 0x00, 0x30}, 0x3003}, // LDA $3000,Y
		{cpu.NMOS, []byte{0xa1, 0x40}, 0x4000},       // LDA ($40,X)
		{cpu.NMOS, []byte{0xb1, 0x44}, 0x4103},       // LDA ($44),Y
		{cpu.CMOS, []byte{0xb2, 0x46}, 0x4200},       // LDA ($46)
	}

	for _, tt := range tests {
		c := loadCPU(tt.arch, 0x1000, tt.code...)
		c.Reg.X, c.Reg.Y = 0x02, 0x03
		c.Mem.StoreBytes(0x0042, []byte{0x00, 0x40, 0x00, 0x41, 0x00, 0x42})
		c.Mem.StoreByte(tt.addr, 0x5a)
		stepCPU(t, c, 1)

		if c.Reg.A != 0x5a {
			t.Errorf("% X: load from $%04X incorrect. got: $%02X", tt.code, tt.addr, c.Reg.A)
		}
		expectPC(t, c, 0x1000+uint16(len(tt.code)))
	}
}

func TestIndirect(t *testing.T) {
	c := loadCPU(cpu.NMOS, 0x1000,
		0xa9, 0xee, // LDA #$EE
		0x9d, 0x00, 0x20, // STA $2000,X
		0x99, 0x00, 0x20, // STA $2000,Y
		0xa9, 0x11, // LDA #$11
		0x85, 0x06, // STA $06
		0xa9, 0x05, // LDA #$05
		0x85, 0x07, // STA $07
	)
	c.Reg.X, c.Reg.Y = 0x80, 0x40
	stepCPU(t, c, 7)

	expectMem(t, c, 0x2080, 0xee)
	expectMem(t, c, 0x2040, 0xee)

	c.Mem.StoreBytes(c.Reg.PC, []byte{
		0xa9, 0xbb, // LDA #$BB
		0x81, 0x05, // STA ($05,X)
		0x91, 0x06, // STA ($06),Y
	})
	c.Reg.X, c.Reg.Y = 0x01, 0x01
	stepCPU(t, c, 3)

	expectMem(t, c, 0x0511, 0xbb)
	expectMem(t, c, 0x0512, 0xbb)
}

func TestPageCross(t *testing.T) {
	c := loadCPU(cpu.NMOS, 0x1000,
		0xa9, 0x55, // LDA #$55      2 cycles
		0x8d, 0x01, 0x11, // STA $1101     4 cycles
		0xa9, 0x00, // LDA #$00      2 cycles
		0xbd, 0x02, 0x10, // LDA $1002,X   5 cycles
	)
	c.Reg.X = 0xff
	stepCPU(t, c, 4)

	expectPC(t, c, 0x100a)
	expectCycles(t, c, 13)
	expectACC(t, c, 0x55)
	expectMem(t, c, 0x1101, 0x55)
}

func TestZeroPageWrap(t *testing.T) {
	c := loadCPU(cpu.NMOS, 0x1000,
		0xa1, 0xfe, // LDA ($FE,X)
		0x75, 0xf0, // ADC $F0,X
	)
	c.Reg.X = 0x01
	c.Mem.StoreByte(0x00ff, 0x34)
	c.Mem.StoreByte(0x0000, 0x12)
	c.Mem.StoreByte(0x1234, 0x40)
	c.Mem.StoreByte(0x00f1, 0x02)
	stepCPU(t, c, 2)

	expectACC(t, c, 0x42)
	expectCycles(t, c, 10)
}

func TestDecimalFamilies(t *testing.T) {
	code := []byte{
		0xf8,       // SED
		0x18,       // CLC
		0xa9, 0x99, // LDA #$99
		0x69, 0x01, // ADC #$01
	}

	tests := []struct {
		arch   cpu.Architecture
		ps     byte
		cycles uint64
	}{
		{cpu.NMOS, cpu.ReservedBit | cpu.DecimalBit | cpu.SignBit | cpu.CarryBit, 8},
		{cpu.NMOSX, cpu.ReservedBit | cpu.DecimalBit | cpu.SignBit | cpu.CarryBit, 8},
		{cpu.CMOS, cpu.ReservedBit | cpu.DecimalBit | cpu.ZeroBit | cpu.CarryBit, 9},
	}

	for _, tt := range tests {
		t.Run(tt.arch.String(), func(t *testing.T) {
			c := runCPU(t, tt.arch, 4, code...)
			expectACC(t, c, 0x00)
			expectPS(t, c, tt.ps)
			expectCycles(t, c, tt.cycles)
		})
	}
}

func TestSubtract(t *testing.T) {
	c := runCPU(t, cpu.NMOS, 3,
		0x38,       // SEC
		0xa9, 0x00, // LDA #$00
		0xe9, 0x01, // SBC #$01
	)

	expectACC(t, c, 0xff)
	expectPS(t, c, cpu.ReservedBit|cpu.SignBit)
	expectCycles(t, c, 6)

	c = runCPU(t, cpu.NMOS, 4,
		0xf8,       // SED
		0x38,       // SEC
		0xa9, 0x00, // LDA #$00
		0xe9, 0x01, // SBC #$01
	)
	expectACC(t, c, 0x99)
	expectPS(t, c, cpu.ReservedBit|cpu.DecimalBit|cpu.SignBit)
}

func TestCMOSZeroPageIndirect(t *testing.T) {
	c := loadCPU(cpu.CMOS, 0x1000,
		0x72, 0xff, // ADC ($FF)
		0xf8,       // SED
		0xf2, 0xff, // SBC ($FF)
	)
	c.Mem.StoreByte(0x00ff, 0x00)
	c.Mem.StoreByte(0x0000, 0x20)
	c.Mem.StoreByte(0x2000, 0x10)
	c.Reg.A = 0x05
	stepCPU(t, c, 1)

	expectACC(t, c, 0x15)
	expectCycles(t, c, 5)

	c.Reg.Carry = true
	stepCPU(t, c, 2)
	expectACC(t, c, 0x05)
	expectCycles(t, c, 5+2+6)

	n := loadCPU(cpu.NMOS, 0x1000, 0x72, 0xff)
	if err := n.Step(); !errors.Is(err, cpu.ErrUnsupportedOpcode) {
		t.Errorf("expected unsupported opcode on 6502, got %v", err)
	}
}

func TestUndocumentedSBC(t *testing.T) {
	code := []byte{
		0x38,       // SEC
		0xa9, 0x05, // LDA #$05
		0xeb, 0x03, // SBC #$03 (undocumented)
	}

	c := runCPU(t, cpu.NMOSX, 3, code...)
	expectACC(t, c, 0x02)
	expectPS(t, c, cpu.ReservedBit|cpu.CarryBit)

	c = loadCPU(cpu.NMOS, 0x1000, code...)
	stepCPU(t, c, 2)
	if err := c.Step(); !errors.Is(err, cpu.ErrUnsupportedOpcode) {
		t.Errorf("expected unsupported opcode, got %v", err)
	}
}

func TestUnsupportedLeavesState(t *testing.T) {
	c := loadCPU(cpu.CMOS, 0x1000, 0xaa) // TAX
	c.Reg.A = 0x42
	before := c.Reg

	err := c.Step()
	if !errors.Is(err, cpu.ErrUnsupportedOpcode) {
		t.Fatalf("expected ErrUnsupportedOpcode, got %v", err)
	}
	if c.Reg != before {
		t.Errorf("registers changed. exp: %s, got: %s", before.String(), c.Reg.String())
	}
	expectCycles(t, c, 0)
}

func TestFlagInstructions(t *testing.T) {
	c := runCPU(t, cpu.NMOS, 3,
		0xa9, 0x7f, // LDA #$7F
		0x69, 0x01, // ADC #$01
		0xb8, // CLV
	)
	expectACC(t, c, 0x80)
	expectPS(t, c, cpu.ReservedBit|cpu.SignBit)

	c = runCPU(t, cpu.NMOS, 4,
		0x38, // SEC
		0xf8, // SED
		0xd8, // CLD
		0xea, // NOP
	)
	expectPS(t, c, cpu.ReservedBit|cpu.CarryBit)
	expectCycles(t, c, 8)
}

func TestParseArchitecture(t *testing.T) {
	tests := []struct {
		in   string
		arch cpu.Architecture
		ok   bool
	}{
		{"6502", cpu.NMOS, true},
		{"65c02", cpu.CMOS, true},
		{"65C02", cpu.CMOS, true},
		{"6502x", cpu.NMOSX, true},
		{"z80", cpu.NMOS, false},
	}
	for _, tt := range tests {
		arch, err := cpu.ParseArchitecture(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseArchitecture(%q) error = %v", tt.in, err)
			continue
		}
		if tt.ok && arch != tt.arch {
			t.Errorf("ParseArchitecture(%q) = %v, want %v", tt.in, arch, tt.arch)
		}
		if !tt.ok && !errors.Is(err, cpu.ErrArchitecture) {
			t.Errorf("ParseArchitecture(%q) error should wrap ErrArchitecture", tt.in)
		}
	}
}

func TestMemoryDifference(t *testing.T) {
	a := cpu.NewFlatMemory()
	b := cpu.NewFlatMemory()
	if _, ok := a.FirstDifference(b); ok || !a.Equal(b) {
		t.Fatal("fresh memories should be equal")
	}

	b.StoreBytes(0xfffe, []byte{1, 2, 3})
	if got := b.LoadByte(0x0000); got != 3 {
		t.Errorf("StoreBytes did not wrap. exp: $03, got: $%02X", got)
	}
	addr, ok := a.FirstDifference(b)
	if !ok || addr != 0x0000 {
		t.Errorf("FirstDifference incorrect. exp: $0000, got: $%04X (%v)", addr, ok)
	}

	b.Clear()
	if !a.Equal(b) {
		t.Error("Clear did not zero memory")
	}
}

func TestFlagString(t *testing.T) {
	var r cpu.Registers
	r.Init()
	r.RestorePS(0xff)
	if got, exp := r.FlagString(), "NV--DIZC"; got != exp {
		t.Errorf("FlagString incorrect. exp: %s, got: %s", exp, got)
	}
}
