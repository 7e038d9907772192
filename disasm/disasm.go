// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a 6502 instruction set
// disassembler.
package disasm

import (
	"fmt"
	"strings"

	"github.com/beevik/alu65/cpu"
)

// Disassembler formatting for addressing modes
var modeFormat = []string{
	"#$%s",    // IMM
	"%s",      // IMP
	"$%s",     // ZPG
	"$%s,X",   // ZPX
	"$%s",     // ABS
	"$%s,X",   // ABX
	"$%s,Y",   // ABY
	"($%s)",   // IND
	"($%s,X)", // IDX
	"($%s),Y", // IDY
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of the byte slice, most
// significant byte first.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Disassemble the machine code in memory 'm' at address 'addr' as the
// given architecture decodes it. Return a 'line' string representing the
// disassembled instruction and a 'next' address that starts the following
// line of machine code. Opcodes the architecture does not implement are
// shown as "???" followed by the opcode byte.
func Disassemble(m cpu.Memory, arch cpu.Architecture, addr uint16) (line string, next uint16) {
	opcode := m.LoadByte(addr)
	inst := cpu.GetInstructionSet(arch).Lookup(opcode)
	next = addr + uint16(inst.Length)

	if !inst.Supported() {
		return fmt.Sprintf("%s $%02X", inst.Name, opcode), next
	}

	operand := make([]byte, inst.Length-1)
	m.LoadBytes(addr+1, operand)

	format := "%s " + modeFormat[inst.Mode]
	line = strings.TrimRight(fmt.Sprintf(format, inst.Name, hexString(operand)), " ")
	return line, next
}

// Listing returns the disassembly of the instruction at 'addr' prefixed by
// its address and raw bytes, e.g. "1000- 69 05     ADC #$05".
func Listing(m cpu.Memory, arch cpu.Architecture, addr uint16) (line string, next uint16) {
	text, next := Disassemble(m, arch, addr)

	raw := make([]byte, next-addr)
	m.LoadBytes(addr, raw)
	var b strings.Builder
	for i, v := range raw {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", v)
	}
	return fmt.Sprintf("%04X- %-8s  %s", addr, b.String(), text), next
}
