// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements a single-instruction 6502 executor built around
// the ADC and SBC arithmetic of the alu package.
//
// Only the instructions needed to load, store and do arithmetic on the
// accumulator are implemented. Any other opcode makes Step return
// ErrUnsupportedOpcode without changing CPU state.
package cpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/alu65/alu"
)

// Errors
var (
	ErrUnsupportedOpcode = errors.New("unsupported opcode")
	ErrArchitecture      = errors.New("unknown CPU architecture")
)

// Architecture selects the CPU chip: 6502, 65C02 or 6502 with undocumented
// opcodes.
type Architecture byte

const (
	// NMOS 6502 CPU
	NMOS Architecture = iota

	// CMOS 65C02 CPU
	CMOS

	// NMOS 6502 CPU including undocumented opcodes
	NMOSX

	archCount
)

var archNames = [archCount]string{
	NMOS:  "6502",
	CMOS:  "65C02",
	NMOSX: "6502X",
}

// String returns the chip name of the architecture.
func (a Architecture) String() string {
	if a < archCount {
		return archNames[a]
	}
	return fmt.Sprintf("Architecture(%d)", byte(a))
}

// ParseArchitecture converts a chip name ("6502", "65C02" or "6502X") into
// an Architecture. Case is ignored.
func ParseArchitecture(s string) (Architecture, error) {
	for i, name := range archNames {
		if strings.EqualFold(s, name) {
			return Architecture(i), nil
		}
	}
	return NMOS, fmt.Errorf("%w: %q", ErrArchitecture, s)
}

// ADC returns the add-with-carry function of the architecture's family.
func (a Architecture) ADC() alu.Func {
	if a == CMOS {
		return alu.ADC65C02
	}
	return alu.ADC6502
}

// SBC returns the subtract-with-carry function of the architecture's
// family.
func (a Architecture) SBC() alu.Func {
	if a == CMOS {
		return alu.SBC65C02
	}
	return alu.SBC6502
}

// CPU represents a single 6502 CPU. It contains a pointer to the
// memory associated with the CPU.
type CPU struct {
	Arch        Architecture    // CPU architecture
	Reg         Registers       // CPU registers
	Mem         Memory          // assigned memory
	Cycles      uint64          // total executed CPU cycles
	InstSet     *InstructionSet // Instruction set used by the CPU
	add         alu.Func
	sub         alu.Func
	pageCrossed bool
	deltaCycles int8
}

// NewCPU creates an emulated 6502 CPU bound to the specified memory.
func NewCPU(arch Architecture, m Memory) *CPU {
	cpu := &CPU{
		Arch:    arch,
		Mem:     m,
		InstSet: GetInstructionSet(arch),
		add:     arch.ADC(),
		sub:     arch.SBC(),
	}

	cpu.Reg.Init()
	return cpu
}

// SetPC updates the CPU program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
}

// Step the cpu by one instruction. If the opcode at PC is not implemented,
// the CPU is left untouched and an error wrapping ErrUnsupportedOpcode is
// returned.
func (cpu *CPU) Step() error {
	// Grab the next opcode at the current PC
	opcode := cpu.Mem.LoadByte(cpu.Reg.PC)

	// Look up the instruction data for the opcode
	inst := cpu.InstSet.Lookup(opcode)
	if inst.fn == nil {
		return fmt.Errorf("%w $%02X at $%04X (%s)", ErrUnsupportedOpcode, opcode, cpu.Reg.PC, cpu.Arch)
	}

	// Fetch the operand (if any) and advance the PC
	var buf [2]byte
	operand := buf[:inst.Length-1]
	cpu.Mem.LoadBytes(cpu.Reg.PC+1, operand)
	cpu.Reg.PC += uint16(inst.Length)

	// Execute the instruction
	cpu.pageCrossed = false
	cpu.deltaCycles = 0
	inst.fn(cpu, inst, operand)

	// Update the CPU cycle counter, with special-case logic
	// to handle a page boundary crossing
	cpu.Cycles += uint64(int8(inst.Cycles) + cpu.deltaCycles)
	if cpu.pageCrossed {
		cpu.Cycles += uint64(inst.BPCycles)
	}
	return nil
}

// Compute the effective address of a memory operand. Indexed modes record
// whether a page boundary was crossed. ZPG and ABS address the operand
// directly.
func (cpu *CPU) effectiveAddress(mode Mode, operand []byte) uint16 {
	switch mode {
	case ZPX:
		return offsetZeroPage(operandToAddress(operand), cpu.Reg.X)
	case ABX:
		var addr uint16
		addr, cpu.pageCrossed = offsetAddress(operandToAddress(operand), cpu.Reg.X)
		return addr
	case ABY:
		var addr uint16
		addr, cpu.pageCrossed = offsetAddress(operandToAddress(operand), cpu.Reg.Y)
		return addr
	case IND:
		return cpu.Mem.LoadAddress(operandToAddress(operand))
	case IDX:
		zpaddr := offsetZeroPage(operandToAddress(operand), cpu.Reg.X)
		return cpu.Mem.LoadAddress(zpaddr)
	case IDY:
		var addr uint16
		addr = cpu.Mem.LoadAddress(operandToAddress(operand))
		addr, cpu.pageCrossed = offsetAddress(addr, cpu.Reg.Y)
		return addr
	default:
		return operandToAddress(operand)
	}
}

// Load a byte value from using the requested addressing mode
// and the operand to determine where to load it from.
func (cpu *CPU) load(mode Mode, operand []byte) byte {
	if mode == IMM {
		return operand[0]
	}
	return cpu.Mem.LoadByte(cpu.effectiveAddress(mode, operand))
}

// Store a byte value using the specified addressing mode and the
// variable-sized instruction operand to determine where to store it.
func (cpu *CPU) store(mode Mode, operand []byte, v byte) {
	cpu.Mem.StoreByte(cpu.effectiveAddress(mode, operand), v)
}

// Update the Zero and Negative flags based on the value of 'v'.
func (cpu *CPU) updateNZ(v byte) {
	cpu.Reg.Zero = (v == 0)
	cpu.Reg.Sign = ((v & 0x80) != 0)
}

// Run one of the arithmetic functions against the accumulator and the
// operand. The 65C02 spends an extra cycle in decimal mode.
func (cpu *CPU) arith(fn alu.Func, inst *Instruction, operand []byte) {
	v := cpu.load(inst.Mode, operand)
	cpu.Reg.applyResult(fn(cpu.Reg.Decimal, cpu.Reg.Carry, cpu.Reg.A, v))
	if cpu.Arch == CMOS && cpu.Reg.Decimal {
		cpu.deltaCycles++
	}
}

// Add with carry
func (cpu *CPU) adc(inst *Instruction, operand []byte) {
	cpu.arith(cpu.add, inst, operand)
}

// Subtract with carry
func (cpu *CPU) sbc(inst *Instruction, operand []byte) {
	cpu.arith(cpu.sub, inst, operand)
}

// Clear Carry flag
func (cpu *CPU) clc(inst *Instruction, operand []byte) {
	cpu.Reg.Carry = false
}

// Clear Decimal flag
func (cpu *CPU) cld(inst *Instruction, operand []byte) {
	cpu.Reg.Decimal = false
}

// Clear oVerflow flag
func (cpu *CPU) clv(inst *Instruction, operand []byte) {
	cpu.Reg.Overflow = false
}

// Load Accumulator
func (cpu *CPU) lda(inst *Instruction, operand []byte) {
	cpu.Reg.A = cpu.load(inst.Mode, operand)
	cpu.updateNZ(cpu.Reg.A)
}

// No-operation
func (cpu *CPU) nop(inst *Instruction, operand []byte) {
	// Do nothing
}

// Set Carry flag
func (cpu *CPU) sec(inst *Instruction, operand []byte) {
	cpu.Reg.Carry = true
}

// Set Decimal flag
func (cpu *CPU) sed(inst *Instruction, operand []byte) {
	cpu.Reg.Decimal = true
}

// Store Accumulator
func (cpu *CPU) sta(inst *Instruction, operand []byte) {
	cpu.store(inst.Mode, operand, cpu.Reg.A)
}
