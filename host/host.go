// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host allows you to create a "host" for probing the arithmetic of
// the 6502 family: a CPU of a selectable variant, 64K of memory, and a
// command shell.
//
// Within the host it is possible to evaluate ADC and SBC on any input,
// compare the NMOS 6502 against the CMOS 65C02, count where their decimal
// modes differ, execute single instructions, dump and change memory and
// registers, run single-step test files, and run Lua scripts that call the
// arithmetic functions directly.
package host

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/beevik/alu65/alu"
	"github.com/beevik/alu65/cpu"
	"github.com/beevik/alu65/disasm"
	"github.com/beevik/alu65/singlestep"
	"github.com/beevik/cmd"
)

var errQuit = errors.New("exiting program")

// A selection is a command looked up from an input line, along with the
// arguments that followed it.
type selection struct {
	Command *cmd.Command
	Args    []string
}

// The Host structure represents the emulated computer and its command
// shell.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	quit        bool
	mem         *cpu.FlatMemory
	cpu         *cpu.CPU
	lastCmd     *selection
	settings    *settings

	mu     sync.Mutex
	cancel context.CancelFunc // cancels the running command, if any
}

// New creates a new host with a 6502 CPU and 64K of zeroed memory.
func New() *Host {
	h := &Host{
		mem:      cpu.NewFlatMemory(),
		settings: newSettings(),
	}
	h.cpu = cpu.NewCPU(h.settings.Architecture(), h.mem)
	return h
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered. It returns false
// once the quit command has been issued.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) bool {
	if h.quit {
		return false
	}

	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive
	h.lastCmd = nil

	if interactive {
		h.println()
		h.displayRegisters()
	}

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		var c selection
		if line = strings.TrimSpace(line); line != "" {
			n, args, err := cmds.Lookup(line)
			switch {
			case errors.Is(err, cmd.ErrNotFound):
				h.println("Command not found.")
				continue
			case errors.Is(err, cmd.ErrAmbiguous):
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}

			// A subtree name alone lists the subtree's commands.
			cc, ok := n.(*cmd.Command)
			if !ok {
				n.DisplayHelp(h.output)
				h.flush()
				continue
			}
			c = selection{Command: cc, Args: args}
		} else if h.interactive && h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		handler := c.Command.Data.(func(*Host, selection) error)
		if err := handler(h, c); err != nil {
			h.quit = true
			break
		}
	}

	h.flush()
	return !h.quit
}

// Break interrupts the command currently running, if any.
func (h *Host) Break() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
	}
}

// beginCommand returns a context that Break cancels. The returned function
// must be called when the command completes.
func (h *Host) beginCommand() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	return ctx, func() {
		h.mu.Lock()
		h.cancel = nil
		h.mu.Unlock()
		cancel()
	}
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
	}
}

func (h *Host) displayRegisters() {
	h.printf("%s %s C=%d\n", h.cpu.Arch, h.cpu.Reg.String(), h.cpu.Cycles)
}

func (h *Host) displayHelpText(c *cmd.Command) {
	c.DisplayUsage(h.output)
	h.flush()
}

func (h *Host) parseNumber(s string) (int64, error) {
	return parseNumber(s, h.settings.HexMode)
}

// parseByte parses a value in the range -128 to 255. Negative values are
// stored in two's complement.
func (h *Host) parseByte(s string) (byte, error) {
	v, err := h.parseNumber(s)
	if err != nil {
		return 0, err
	}
	if v < -0x80 || v > 0xff {
		return 0, fmt.Errorf("value '%s' is out of byte range", s)
	}
	return byte(v), nil
}

func (h *Host) parseAddr(s string) (uint16, error) {
	v, err := h.parseNumber(s)
	if err != nil {
		return 0, err
	}
	if v < -0x8000 || v > 0xffff {
		return 0, fmt.Errorf("address '%s' is out of range", s)
	}
	return uint16(v), nil
}

func (h *Host) parseBytes(args []string) ([]byte, error) {
	b := make([]byte, len(args))
	for i, a := range args {
		v, err := h.parseByte(a)
		if err != nil {
			return nil, err
		}
		b[i] = v
	}
	return b, nil
}

func (h *Host) cmdHelp(c selection) error {
	if err := cmds.GetHelp(h.output, c.Args); err != nil {
		h.printf("%v.\n", err)
	}
	h.flush()
	return nil
}

func (h *Host) cmdAdc(c selection) error {
	return h.arith(c, "ADC", h.cpu.Arch.ADC())
}

func (h *Host) cmdSbc(c selection) error {
	return h.arith(c, "SBC", h.cpu.Arch.SBC())
}

func (h *Host) arith(c selection, name string, fn alu.Func) error {
	if len(c.Args) < 2 {
		h.displayHelpText(c.Command)
		return nil
	}

	b, err := h.parseBytes(c.Args[:2])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	r := &h.cpu.Reg
	res := fn(r.Decimal, r.Carry, b[0], b[1])
	h.printf("%s $%02X,$%02X with %s: %s\n", name, b[0], b[1], inputFlags(r), resultString(res))
	return nil
}

func inputFlags(r *cpu.Registers) string {
	return fmt.Sprintf("D=%d C=%d", boolToInt(r.Decimal), boolToInt(r.Carry))
}

func resultString(r alu.Result) string {
	return fmt.Sprintf("A=$%02X N=%d V=%d Z=%d C=%d",
		r.A, boolToInt(r.N), boolToInt(r.V), boolToInt(r.Z), boolToInt(r.C))
}

// resultDiff returns the names of the result fields that differ.
func resultDiff(x, y alu.Result) []string {
	var diff []string
	if x.A != y.A {
		diff = append(diff, "A")
	}
	if x.N != y.N {
		diff = append(diff, "N")
	}
	if x.V != y.V {
		diff = append(diff, "V")
	}
	if x.Z != y.Z {
		diff = append(diff, "Z")
	}
	if x.C != y.C {
		diff = append(diff, "C")
	}
	return diff
}

func (h *Host) cmdCompare(c selection) error {
	if len(c.Args) < 3 {
		h.displayHelpText(c.Command)
		return nil
	}

	var nmos, cmos alu.Func
	switch strings.ToLower(c.Args[0]) {
	case "adc":
		nmos, cmos = alu.ADC6502, alu.ADC65C02
	case "sbc":
		nmos, cmos = alu.SBC6502, alu.SBC65C02
	default:
		h.printf("Unknown operation '%s'.\n", c.Args[0])
		return nil
	}

	b, err := h.parseBytes(c.Args[1:3])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	r := &h.cpu.Reg
	x := nmos(r.Decimal, r.Carry, b[0], b[1])
	y := cmos(r.Decimal, r.Carry, b[0], b[1])

	h.printf("%s $%02X,$%02X with %s:\n", strings.ToUpper(c.Args[0]), b[0], b[1], inputFlags(r))
	h.printf("    %-6s %s\n", cpu.NMOS, resultString(x))
	h.printf("    %-6s %s\n", cpu.CMOS, resultString(y))
	if diff := resultDiff(x, y); len(diff) > 0 {
		h.printf("    Differences: %s\n", strings.Join(diff, " "))
	} else {
		h.println("    Results are identical.")
	}
	return nil
}

func (h *Host) cmdCensus(c selection) error {
	ops := []struct {
		name       string
		nmos, cmos alu.Func
	}{
		{"ADC", alu.ADC6502, alu.ADC65C02},
		{"SBC", alu.SBC6502, alu.SBC65C02},
	}

	h.println("Decimal mode differences between the 6502 and 65C02 (131072 inputs):")
	h.printf("    %-4s %6s %6s %6s %6s %6s\n", "", "A", "N", "V", "Z", "C")
	for _, op := range ops {
		var counts [5]int
		for _, carry := range []bool{false, true} {
			for acc := 0; acc < 256; acc++ {
				for operand := 0; operand < 256; operand++ {
					x := op.nmos(true, carry, byte(acc), byte(operand))
					y := op.cmos(true, carry, byte(acc), byte(operand))
					counts[0] += boolToInt(x.A != y.A)
					counts[1] += boolToInt(x.N != y.N)
					counts[2] += boolToInt(x.V != y.V)
					counts[3] += boolToInt(x.Z != y.Z)
					counts[4] += boolToInt(x.C != y.C)
				}
			}
		}
		h.printf("    %-4s %6d %6d %6d %6d %6d\n", op.name,
			counts[0], counts[1], counts[2], counts[3], counts[4])
	}
	return nil
}

func (h *Host) cmdDisassemble(c selection) error {
	addr := h.cpu.Reg.PC
	if len(c.Args) > 0 {
		a, err := h.parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		v, err := h.parseNumber(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = int(v)
	}

	for i := 0; i < lines; i++ {
		var line string
		line, addr = disasm.Listing(h.mem, h.cpu.Arch, addr)
		h.println(line)
	}
	return nil
}

func (h *Host) cmdExec(c selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	b, err := h.parseBytes(c.Args)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	pc := h.cpu.Reg.PC
	h.mem.StoreBytes(pc, b)
	line, _ := disasm.Listing(h.mem, h.cpu.Arch, pc)
	h.println(line)

	if err := h.cpu.Step(); err != nil {
		h.printf("ERROR: %v.\n", err)
		return nil
	}
	h.displayRegisters()
	return nil
}

func (h *Host) cmdMemoryDump(c selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextMemDumpAddr
	case ".":
		addr = h.cpu.Reg.PC
	default:
		a, err := h.parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := uint16(h.settings.MemDumpBytes)
	if len(c.Args) >= 2 {
		var err error
		bytes, err = h.parseAddr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + bytes
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(c selection) error {
	if len(c.Args) < 2 {
		h.displayHelpText(c.Command)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b, err := h.parseBytes(c.Args[1:])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.mem.StoreBytes(addr, b)
	h.printf("Stored %d byte(s) at $%04X.\n", len(b), addr)
	return nil
}

func (h *Host) cmdQuit(c selection) error {
	return errQuit
}

func (h *Host) cmdRegister(c selection) error {
	if len(c.Args) == 0 {
		h.displayRegisters()
		return nil
	}
	if len(c.Args) < 2 {
		h.displayHelpText(c.Command)
		return nil
	}

	key := strings.ToLower(c.Args[0])
	v, err := h.parseNumber(c.Args[1])
	if err != nil {
		// Flags also accept true and false.
		b, berr := stringToBool(c.Args[1])
		if berr != nil {
			h.printf("%v\n", err)
			return nil
		}
		v = int64(boolToInt(b))
	}

	r := &h.cpu.Reg
	sz := -1
	switch key {
	case "a":
		r.A, sz = byte(v), 1
	case "x":
		r.X, sz = byte(v), 1
	case "y":
		r.Y, sz = byte(v), 1
	case "sp":
		r.SP, sz = byte(v), 1
	case ".":
		key = "pc"
		fallthrough
	case "pc":
		r.PC, sz = uint16(v), 2
	case "c", "carry":
		key, r.Carry, sz = "carry", v != 0, 0
	case "z", "zero":
		key, r.Zero, sz = "zero", v != 0, 0
	case "i", "interruptdisable":
		key, r.InterruptDisable, sz = "interruptdisable", v != 0, 0
	case "d", "decimal":
		key, r.Decimal, sz = "decimal", v != 0, 0
	case "v", "overflow":
		key, r.Overflow, sz = "overflow", v != 0, 0
	case "n", "sign":
		key, r.Sign, sz = "sign", v != 0, 0
	}

	switch sz {
	case 0:
		h.printf("Register %s set to %v.\n", strings.ToUpper(key), v != 0)
	case 1:
		h.printf("Register %s set to $%02X.\n", strings.ToUpper(key), byte(v))
	case 2:
		h.printf("Register %s set to $%04X.\n", strings.ToUpper(key), uint16(v))
	default:
		h.printf("Unknown register '%s'.\n", c.Args[0])
	}
	return nil
}

func (h *Host) cmdScript(c selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	ctx, done := h.beginCommand()
	defer done()

	if err := h.runScript(ctx, c.Args[0]); err != nil {
		h.printf("ERROR: %v\n", err)
	}
	return nil
}

func (h *Host) cmdSet(c selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayHelpText(c.Command)

	default:
		key, value := c.Args[0], strings.Join(c.Args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("Setting '%s' not found", key)
		case reflect.String:
			err = h.settings.Set(key, value)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			var v int64
			v, err = h.parseNumber(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}

		h.onSettingsUpdate()
	}

	return nil
}

// onSettingsUpdate rebuilds the CPU when the architecture setting changes.
// Registers, cycle count and memory are kept.
func (h *Host) onSettingsUpdate() {
	arch := h.settings.Architecture()
	if arch == h.cpu.Arch {
		return
	}

	c := cpu.NewCPU(arch, h.mem)
	c.Reg = h.cpu.Reg
	c.Cycles = h.cpu.Cycles
	h.cpu = c
}

func (h *Host) cmdTest(c selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	ctx, done := h.beginCommand()
	defer done()

	r := singlestep.Runner{
		Options: singlestep.Options{
			Arch:       h.cpu.Arch,
			TestCycles: h.settings.TestCycles,
			TestMemory: h.settings.TestMemory,
		},
		Out:  h.output,
		Jobs: h.settings.Jobs,
	}

	reports, err := r.RunFiles(ctx, c.Args)
	h.flush()
	if errors.Is(err, context.Canceled) {
		h.println("Test run interrupted.")
		return nil
	}

	var cases, failed int
	for _, rep := range reports {
		cases += rep.Cases
		failed += rep.Failed
	}
	h.printf("%d of %d testcases failed in %d file(s).\n", failed, cases, len(reports))
	return nil
}

func (h *Host) dumpMemory(addr0, bytes uint16) {
	if bytes == 0 {
		return
	}

	addr1 := addr0 + bytes - 1
	if addr1 < addr0 {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := addr0, 6, 32; a <= addr1 && a >= addr0; a, c1, c2 = a+1, c1+3, c2+1 {
			m := h.mem.LoadByte(a)
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := (uint32(addr1) + 8) & 0xffff8
	if stop > 0x10000 {
		stop = 0x10000
	}

	a := uint16(start)
	for r := start; r < stop; r += 8 {
		addrToBuf(a, buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= addr0 && a <= addr1 {
				m := h.mem.LoadByte(a)
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}
