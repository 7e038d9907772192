// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Memory is the address space seen by the CPU. Every operand fetch, load
// and store made while executing an instruction goes through it.
type Memory interface {
	LoadByte(addr uint16) byte
	LoadBytes(addr uint16, b []byte) // wraps past $FFFF
	LoadAddress(addr uint16) uint16  // little-endian, high byte page-wrapped
	StoreByte(addr uint16, v byte)
	StoreBytes(addr uint16, b []byte) // wraps past $FFFF
}

// FlatMemory is a plain 64K RAM image with no memory-mapped devices.
type FlatMemory struct {
	b [64 * 1024]byte
}

// NewFlatMemory returns a zeroed 64K memory.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{}
}

// LoadByte returns the byte at addr.
func (m *FlatMemory) LoadByte(addr uint16) byte {
	return m.b[addr]
}

// LoadBytes loads multiple bytes starting at the address. Reads past $FFFF
// wrap around to $0000.
func (m *FlatMemory) LoadBytes(addr uint16, b []byte) {
	for i := range b {
		b[i] = m.b[addr]
		addr++
	}
}

// LoadAddress reads a little-endian pointer. The high byte never leaves
// the page of the low byte, so a pointer at $12FF takes its high byte from
// $1200. Zero-page pointers wrap this way on both the 6502 and the 65C02.
func (m *FlatMemory) LoadAddress(addr uint16) uint16 {
	hi := addr&0xff00 | (addr+1)&0x00ff
	return uint16(m.b[addr]) | uint16(m.b[hi])<<8
}

// StoreByte writes v to addr.
func (m *FlatMemory) StoreByte(addr uint16, v byte) {
	m.b[addr] = v
}

// StoreBytes stores multiple bytes starting at the address, wrapping
// around past $FFFF.
func (m *FlatMemory) StoreBytes(addr uint16, b []byte) {
	for _, v := range b {
		m.b[addr] = v
		addr++
	}
}

// Clear zeroes the entire address space.
func (m *FlatMemory) Clear() {
	m.b = [64 * 1024]byte{}
}

// Equal reports whether two memories hold identical contents.
func (m *FlatMemory) Equal(other *FlatMemory) bool {
	return m.b == other.b
}

// FirstDifference returns the lowest address at which the two memories
// differ. The ok value is false when they are identical.
func (m *FlatMemory) FirstDifference(other *FlatMemory) (addr uint16, ok bool) {
	if m.Equal(other) {
		return 0, false
	}
	for i := range m.b {
		if m.b[i] != other.b[i] {
			return uint16(i), true
		}
	}
	return 0, false
}

// offsetAddress indexes addr by offset and reports a page crossing.
func offsetAddress(addr uint16, offset byte) (newAddr uint16, pageCrossed bool) {
	newAddr = addr + uint16(offset)
	return newAddr, newAddr>>8 != addr>>8
}

// offsetZeroPage indexes a zero-page address, staying within page zero.
func offsetZeroPage(addr uint16, offset byte) uint16 {
	return (addr + uint16(offset)) & 0xff
}

// Convert a 1- or 2-byte operand into an address.
func operandToAddress(operand []byte) uint16 {
	switch len(operand) {
	case 1:
		return uint16(operand[0])
	case 2:
		return uint16(operand[0]) | uint16(operand[1])<<8
	}
	return 0
}
