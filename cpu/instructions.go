// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "sync"

// An opsym is an internal symbol used to associate an opcode's data
// with its instructions.
type opsym byte

const (
	symADC opsym = iota
	symCLC
	symCLD
	symCLV
	symLDA
	symNOP
	symSBC
	symSEC
	symSED
	symSTA
)

type instfunc func(c *CPU, inst *Instruction, operand []byte)

// Emulator implementation for each opcode
type opcodeImpl struct {
	sym  opsym
	name string
	fn   instfunc
}

var impl = []opcodeImpl{
	{symADC, "ADC", (*CPU).adc},
	{symCLC, "CLC", (*CPU).clc},
	{symCLD, "CLD", (*CPU).cld},
	{symCLV, "CLV", (*CPU).clv},
	{symLDA, "LDA", (*CPU).lda},
	{symNOP, "NOP", (*CPU).nop},
	{symSBC, "SBC", (*CPU).sbc},
	{symSEC, "SEC", (*CPU).sec},
	{symSED, "SED", (*CPU).sed},
	{symSTA, "STA", (*CPU).sta},
}

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (no operand)
	ZPG             // Zero Page
	ZPX             // Zero Page,X
	ABS             // Absolute
	ABX             // Absolute,X
	ABY             // Absolute,Y
	IND             // (Indirect); (zp) on the 65C02
	IDX             // (Indirect,X)
	IDY             // (Indirect),Y
)

// archMask selects the architectures an opcode exists on.
type archMask byte

const (
	onNMOS  archMask = 1 << NMOS
	onCMOS  archMask = 1 << CMOS
	onNMOSX archMask = 1 << NMOSX
	onAll            = onNMOS | onCMOS | onNMOSX
)

// Opcode data for an (opcode, mode) pair
type opcodeData struct {
	sym      opsym    // internal opcode symbol
	mode     Mode     // addressing mode
	opcode   byte     // opcode hex value
	length   byte     // length of opcode + operand in bytes
	cycles   byte     // number of CPU cycles to execute command
	bpcycles byte     // additional CPU cycles if command crosses page boundary
	archs    archMask // architectures the pair is valid on
}

// All implemented (opcode, mode) pairs
var data = []opcodeData{
	{symLDA, IMM, 0xa9, 2, 2, 0, onAll},
	{symLDA, ZPG, 0xa5, 2, 3, 0, onAll},
	{symLDA, ZPX, 0xb5, 2, 4, 0, onAll},
	{symLDA, ABS, 0xad, 3, 4, 0, onAll},
	{symLDA, ABX, 0xbd, 3, 4, 1, onAll},
	{symLDA, ABY, 0xb9, 3, 4, 1, onAll},
	{symLDA, IDX, 0xa1, 2, 6, 0, onAll},
	{symLDA, IDY, 0xb1, 2, 5, 1, onAll},
	{symLDA, IND, 0xb2, 2, 5, 0, onCMOS},

	{symSTA, ZPG, 0x85, 2, 3, 0, onAll},
	{symSTA, ZPX, 0x95, 2, 4, 0, onAll},
	{symSTA, ABS, 0x8d, 3, 4, 0, onAll},
	{symSTA, ABX, 0x9d, 3, 5, 0, onAll},
	{symSTA, ABY, 0x99, 3, 5, 0, onAll},
	{symSTA, IDX, 0x81, 2, 6, 0, onAll},
	{symSTA, IDY, 0x91, 2, 6, 0, onAll},
	{symSTA, IND, 0x92, 2, 5, 0, onCMOS},

	{symADC, IMM, 0x69, 2, 2, 0, onAll},
	{symADC, ZPG, 0x65, 2, 3, 0, onAll},
	{symADC, ZPX, 0x75, 2, 4, 0, onAll},
	{symADC, ABS, 0x6d, 3, 4, 0, onAll},
	{symADC, ABX, 0x7d, 3, 4, 1, onAll},
	{symADC, ABY, 0x79, 3, 4, 1, onAll},
	{symADC, IDX, 0x61, 2, 6, 0, onAll},
	{symADC, IDY, 0x71, 2, 5, 1, onAll},
	{symADC, IND, 0x72, 2, 5, 0, onCMOS},

	{symSBC, IMM, 0xe9, 2, 2, 0, onAll},
	{symSBC, IMM, 0xeb, 2, 2, 0, onNMOSX},
	{symSBC, ZPG, 0xe5, 2, 3, 0, onAll},
	{symSBC, ZPX, 0xf5, 2, 4, 0, onAll},
	{symSBC, ABS, 0xed, 3, 4, 0, onAll},
	{symSBC, ABX, 0xfd, 3, 4, 1, onAll},
	{symSBC, ABY, 0xf9, 3, 4, 1, onAll},
	{symSBC, IDX, 0xe1, 2, 6, 0, onAll},
	{symSBC, IDY, 0xf1, 2, 5, 1, onAll},
	{symSBC, IND, 0xf2, 2, 5, 0, onCMOS},

	{symCLC, IMP, 0x18, 1, 2, 0, onAll},
	{symSEC, IMP, 0x38, 1, 2, 0, onAll},
	{symCLD, IMP, 0xd8, 1, 2, 0, onAll},
	{symSED, IMP, 0xf8, 1, 2, 0, onAll},
	{symCLV, IMP, 0xb8, 1, 2, 0, onAll},

	{symNOP, IMP, 0xea, 1, 2, 0, onAll},
}

// UnsupportedName is the instruction name given to opcodes that have no
// implementation on an architecture.
const UnsupportedName = "???"

// An Instruction describes a CPU instruction, including its name,
// its addressing mode, its opcode value, its operand size, and its CPU cycle
// cost.
type Instruction struct {
	Name     string   // all-caps name of the instruction
	Mode     Mode     // addressing mode
	Opcode   byte     // hexadecimal opcode value
	Length   byte     // combined size of opcode and operand, in bytes
	Cycles   byte     // number of CPU cycles to execute the instruction
	BPCycles byte     // additional cycles required if boundary page crossed
	fn       instfunc // emulator implementation of the function
}

// Supported reports whether the CPU can execute the instruction.
func (inst *Instruction) Supported() bool {
	return inst.fn != nil
}

// An InstructionSet defines the set of all possible instructions that
// can run on the emulated CPU.
type InstructionSet struct {
	Arch         Architecture
	instructions [256]Instruction // all instructions by opcode
}

// Lookup retrieves a CPU instruction corresponding to the requested opcode.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return &s.instructions[opcode]
}

// SupportedOpcodes returns every opcode the architecture can execute, in
// ascending order.
func (s *InstructionSet) SupportedOpcodes() []byte {
	var ops []byte
	for i := range s.instructions {
		if s.instructions[i].Supported() {
			ops = append(ops, byte(i))
		}
	}
	return ops
}

// Create an instruction set for a CPU architecture.
func newInstructionSet(arch Architecture) *InstructionSet {
	set := &InstructionSet{Arch: arch}

	for i := range set.instructions {
		set.instructions[i] = Instruction{
			Name:   UnsupportedName,
			Mode:   IMP,
			Opcode: byte(i),
			Length: 1,
		}
	}

	symToImpl := make(map[opsym]*opcodeImpl, len(impl))
	for i := range impl {
		symToImpl[impl[i].sym] = &impl[i]
	}

	for _, d := range data {
		if d.archs&(1<<arch) == 0 {
			continue
		}

		impl := symToImpl[d.sym]
		inst := &set.instructions[d.opcode]
		inst.Name = impl.name
		inst.Mode = d.mode
		inst.Length = d.length
		inst.Cycles = d.cycles
		inst.BPCycles = d.bpcycles
		inst.fn = impl.fn
	}
	return set
}

var (
	instructionSets    [archCount]*InstructionSet
	instructionSetOnce [archCount]sync.Once
)

// GetInstructionSet returns an instruction set for the requested CPU
// architecture. It is safe to call from multiple goroutines.
func GetInstructionSet(arch Architecture) *InstructionSet {
	instructionSetOnce[arch].Do(func() {
		instructionSets[arch] = newInstructionSet(arch)
	})
	return instructionSets[arch]
}
