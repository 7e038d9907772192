// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package singlestep

import (
	"errors"
	"fmt"

	"github.com/beevik/alu65/cpu"
	"github.com/beevik/alu65/disasm"
)

// Options control how testcases are executed and checked.
type Options struct {
	Arch       cpu.Architecture // CPU variant to execute as
	TestCycles bool             // compare the cycle count
	TestMemory bool             // compare the full 64K memory image
}

// DefaultOptions returns options that perform every check for the
// architecture.
func DefaultOptions(arch cpu.Architecture) Options {
	return Options{Arch: arch, TestCycles: true, TestMemory: true}
}

// CaseResult describes the outcome of one testcase. Errors are deviations
// from the expected final state; notices are informational.
type CaseResult struct {
	Instruction string   // disassembly of the executed instruction
	Cycles      int      // cycles consumed by the CPU
	Errors      []string // one message per failed check
	Notices     []string // messages that are not deviations
}

// Failed reports whether the testcase showed any deviation.
func (r *CaseResult) Failed() bool {
	return len(r.Errors) > 0
}

func (r *CaseResult) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Both the initial and the final P values get the break and reserved bits
// set, since the recorded testcases do not agree on them.
const psFixup = cpu.BreakBit | cpu.ReservedBit

// bench holds the reusable memory images needed to run testcases.
type bench struct {
	mem  *cpu.FlatMemory
	want *cpu.FlatMemory
}

func newBench() *bench {
	return &bench{mem: cpu.NewFlatMemory(), want: cpu.NewFlatMemory()}
}

// Execute runs a single testcase on a fresh CPU and memory and compares
// the outcome with the testcase's final state.
func Execute(tc *TestCase, opt Options) CaseResult {
	return newBench().execute(tc, opt)
}

func (b *bench) execute(tc *TestCase, opt Options) CaseResult {
	var r CaseResult

	b.mem.Clear()
	tc.Initial.Load(b.mem)

	c := cpu.NewCPU(opt.Arch, b.mem)
	c.Reg.A = tc.Initial.A
	c.Reg.X = tc.Initial.X
	c.Reg.Y = tc.Initial.Y
	c.Reg.SP = tc.Initial.S
	c.Reg.PC = tc.Initial.PC
	c.Reg.RestorePS(tc.Initial.P | psFixup)

	r.Instruction, _ = disasm.Disassemble(b.mem, opt.Arch, c.Reg.PC)

	if err := c.Step(); err != nil {
		if !errors.Is(err, cpu.ErrUnsupportedOpcode) {
			r.errorf("execution failed: %v.", err)
		} else {
			r.Notices = append(r.Notices, fmt.Sprintf(
				"opcode 0x%02x is not supported on %s (address 0x%04x); instruction not executed.",
				b.mem.LoadByte(c.Reg.PC), opt.Arch, c.Reg.PC))
		}
	}
	r.Cycles = int(c.Cycles)

	final := &tc.Final
	if c.Reg.A != final.A {
		r.errorf("A register check failed (expected: 0x%02x, got: 0x%02x).", final.A, c.Reg.A)
	}
	if c.Reg.X != final.X {
		r.errorf("X register check failed (expected: 0x%02x, got: 0x%02x).", final.X, c.Reg.X)
	}
	if c.Reg.Y != final.Y {
		r.errorf("Y register check failed (expected: 0x%02x, got: 0x%02x).", final.Y, c.Reg.Y)
	}
	if ps := c.Reg.SavePS(true); ps != final.P|psFixup {
		r.errorf("P register check failed (expected: 0x%02x, got: 0x%02x).", final.P, ps)
	}
	if c.Reg.SP != final.S {
		r.errorf("S register check failed (expected: 0x%02x, got: 0x%02x).", final.S, c.Reg.SP)
	}
	if c.Reg.PC != final.PC {
		r.errorf("PC register check failed (expected: 0x%04x, got: 0x%04x).", final.PC, c.Reg.PC)
	}

	if opt.TestCycles && r.Cycles != len(tc.Cycles) {
		r.errorf("cycle count check failed (expected: %d, got: %d).", len(tc.Cycles), r.Cycles)
	}

	if opt.TestMemory {
		b.want.Clear()
		final.Load(b.want)
		if addr, ok := b.want.FirstDifference(b.mem); ok {
			r.errorf("memory check failed: (address 0x%04x: expected 0x%02x, got: 0x%02x).",
				addr, b.want.LoadByte(addr), b.mem.LoadByte(addr))
		}
	}

	return r
}
