// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/alu65/cpu"
)

func runHost(h *Host, commands ...string) (string, bool) {
	var out strings.Builder
	more := h.RunCommands(strings.NewReader(strings.Join(commands, "\n")), &out, false)
	return out.String(), more
}

func expectLine(t *testing.T, out, line string) {
	t.Helper()
	for _, l := range strings.Split(out, "\n") {
		if strings.TrimRight(l, " ") == line {
			return
		}
	}
	t.Errorf("output line missing. exp: %q\noutput:\n%s", line, out)
}

func TestArithmetic(t *testing.T) {
	h := New()
	out, _ := runHost(h,
		"adc $50 $50",
		"register decimal 1",
		"adc $19 $28",
		"register carry true",
		"sbc 0 1",
	)

	expectLine(t, out, "ADC $50,$50 with D=0 C=0: A=$A0 N=1 V=1 Z=0 C=0")
	expectLine(t, out, "Register DECIMAL set to true.")
	expectLine(t, out, "ADC $19,$28 with D=1 C=0: A=$47 N=0 V=0 Z=0 C=0")
	expectLine(t, out, "SBC $00,$01 with D=1 C=1: A=$99 N=1 V=0 Z=0 C=0")

	if h.cpu.Reg.A != 0 {
		t.Errorf("accumulator modified. exp: $00, got: $%02X", h.cpu.Reg.A)
	}
}

func TestCompare(t *testing.T) {
	h := New()
	out, _ := runHost(h,
		"compare adc $19 $28",
		"register d 1",
		"compare adc $99 $01",
		"compare xor 1 2",
	)

	expectLine(t, out, "    Results are identical.")
	expectLine(t, out, "ADC $99,$01 with D=1 C=0:")
	expectLine(t, out, "    6502   A=$00 N=1 V=0 Z=0 C=1")
	expectLine(t, out, "    65C02  A=$00 N=0 V=0 Z=1 C=1")
	expectLine(t, out, "    Differences: N Z")
	expectLine(t, out, "Unknown operation 'xor'.")
}

func TestCensus(t *testing.T) {
	out, _ := runHost(New(), "census")
	expectLine(t, out, "    ADC       0  83880      0   1039      0")
	expectLine(t, out, "    SBC    9216  44592      0    488      0")
}

func TestExec(t *testing.T) {
	h := New()
	out, _ := runHost(h,
		"register pc $1000",
		"exec $f8",
		"exec $a9 $58",
		"exec $38",
		"exec $69 $46",
	)

	expectLine(t, out, "1000- F8        SED")
	expectLine(t, out, "1003- 38        SEC")
	expectLine(t, out, "1004- 69 46     ADC #$46")

	r := &h.cpu.Reg
	if r.A != 0x05 || !r.Carry || !r.Sign || !r.Overflow || r.Zero {
		t.Errorf("result incorrect. got: %s", r.String())
	}
	if r.PC != 0x1006 {
		t.Errorf("PC incorrect. exp: $1006, got: $%04X", r.PC)
	}
	if h.cpu.Cycles != 8 {
		t.Errorf("cycles incorrect. exp: 8, got: %d", h.cpu.Cycles)
	}

	out, _ = runHost(h, "exec $72 $10")
	if !strings.Contains(out, "ERROR: unsupported opcode") {
		t.Errorf("unsupported opcode not reported:\n%s", out)
	}
}

func TestArchSetting(t *testing.T) {
	h := New()
	out, _ := runHost(h,
		"register a $12",
		"set arch 65c02",
		"set arch z80",
		"register decimal 1",
		"adc $99 $01",
	)

	expectLine(t, out, "Setting updated.")
	expectLine(t, out, "ADC $99,$01 with D=1 C=0: A=$00 N=0 V=0 Z=1 C=1")
	if h.cpu.Arch != cpu.CMOS {
		t.Errorf("architecture incorrect. exp: %v, got: %v", cpu.CMOS, h.cpu.Arch)
	}
	if h.settings.Arch != "65C02" {
		t.Errorf("setting not canonical. got: %s", h.settings.Arch)
	}
	if h.cpu.Reg.A != 0x12 {
		t.Errorf("registers not kept. got: %s", h.cpu.Reg.String())
	}
}

func TestMemory(t *testing.T) {
	h := New()
	out, _ := runHost(h,
		"memory set $2000 $41 $42",
		"memory dump $2000 2",
		"m $1ffe 16",
	)

	expectLine(t, out, "Stored 2 byte(s) at $2000.")
	if !strings.Contains(out, "2000- 41 42") || !strings.Contains(out, "AB") {
		t.Errorf("memory dump incorrect:\n%s", out)
	}
	if h.settings.NextMemDumpAddr != 0x200e {
		t.Errorf("next dump address incorrect. exp: $200E, got: $%04X", h.settings.NextMemDumpAddr)
	}
	if h.mem.LoadByte(0x2001) != 0x42 {
		t.Errorf("memory not stored")
	}
}

func TestHexMode(t *testing.T) {
	h := New()
	out, _ := runHost(h,
		"set hexmode true",
		"adc 10 20",
	)
	expectLine(t, out, "ADC $10,$20 with D=0 C=0: A=$30 N=0 V=0 Z=0 C=0")
}

func TestQuit(t *testing.T) {
	h := New()
	out, more := runHost(h, "quit", "adc 1 1")
	if more {
		t.Error("quit not reported")
	}
	if strings.Contains(out, "ADC") {
		t.Errorf("command ran after quit:\n%s", out)
	}
	if _, more = runHost(h, "adc 1 1"); more {
		t.Error("host accepted commands after quit")
	}
}

func TestUnknownCommand(t *testing.T) {
	out, more := runHost(New(), "frobnicate")
	expectLine(t, out, "Command not found.")
	if !more {
		t.Error("unknown command ended the session")
	}
}

func TestTestCommand(t *testing.T) {
	h := New()
	file := filepath.Join("..", "singlestep", "testdata", "6502", "69.json")
	out, _ := runHost(h, "test "+file)
	expectLine(t, out, "0 of 2 testcases failed in 1 file(s).")

	// The 65C02 sets N from the decimal result and takes an extra cycle.
	out, _ = runHost(h, "set arch 65c02", "test "+file)
	expectLine(t, out, "1 of 2 testcases failed in 1 file(s).")
	if !strings.Contains(out, "P register check failed") {
		t.Errorf("P deviation not reported:\n%s", out)
	}
}

func TestScript(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "probe.lua")
	script := `
local a, n, v, z, c = adc6502(1, 0, 153, 1)
print(a, n, v, z, c)
a, n, v, z, c = adc65c02(true, false, 153, 1)
print(a, n, v, z, c)
print(sbc6502(false, true, 0, 1))
`
	if err := os.WriteFile(file, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _ := runHost(New(), "script "+file)
	expectLine(t, out, "0\ttrue\tfalse\tfalse\ttrue")
	expectLine(t, out, "0\tfalse\tfalse\ttrue\ttrue")
	expectLine(t, out, "255\ttrue\tfalse\tfalse\tfalse")
}

func TestScriptErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.lua")
	if err := os.WriteFile(file, []byte("adc6502(0, 0, 300, 1)"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, more := runHost(New(), "script "+file, "script "+filepath.Join(dir, "missing.lua"))
	if strings.Count(out, "ERROR:") != 2 {
		t.Errorf("script errors not reported:\n%s", out)
	}
	if !more {
		t.Error("script error ended the session")
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		s       string
		hexMode bool
		v       int64
		ok      bool
	}{
		{"12", false, 12, true},
		{"12", true, 0x12, true},
		{"$ff", false, 0xff, true},
		{"0x1F", false, 0x1f, true},
		{"0b101", false, 5, true},
		{"0b101", true, 0xb101, true},
		{"0d99", false, 99, true},
		{"-1", false, -1, true},
		{"$", false, 0, false},
		{"ff", false, 0, false},
		{"", false, 0, false},
	}

	for _, c := range cases {
		v, err := parseNumber(c.s, c.hexMode)
		switch {
		case c.ok && err != nil:
			t.Errorf("parseNumber(%q) failed: %v", c.s, err)
		case !c.ok && err == nil:
			t.Errorf("parseNumber(%q) succeeded. exp: error", c.s)
		case c.ok && v != c.v:
			t.Errorf("parseNumber(%q) incorrect. exp: %d, got: %d", c.s, c.v, v)
		}
	}
}

func TestSettings(t *testing.T) {
	s := newSettings()
	if err := s.Set("te", true); err == nil {
		t.Error("ambiguous setting accepted")
	}
	if err := s.Set("memdump", int64(32)); err != nil || s.MemDumpBytes != 32 {
		t.Errorf("MemDumpBytes not set: %v", err)
	}
	if err := s.Set("arch", "6502x"); err != nil || s.Architecture() != cpu.NMOSX {
		t.Errorf("Arch not set: %v", err)
	}
	if err := s.Set("arch", "8080"); err == nil {
		t.Error("unknown architecture accepted")
	}
	if err := s.Set("hexmode", "yes"); err == nil {
		t.Error("string accepted for bool setting")
	}

	var out strings.Builder
	s.Display(&out)
	if !strings.Contains(out.String(), `Arch             "6502X"`) {
		t.Errorf("settings display incorrect:\n%s", out.String())
	}
}

func TestHelp(t *testing.T) {
	out, _ := runHost(New(),
		"help",
		"help compare",
		"memory",
		"adc",
		"help frobnicate",
	)

	expectLine(t, out, "alu65 commands:")
	expectLine(t, out, "    adc          Add with carry")
	expectLine(t, out, "    memory       Memory commands")
	expectLine(t, out, "Usage: compare <adc|sbc> <acc> <operand>")
	expectLine(t, out, "Shortcut: c")
	expectLine(t, out, "memory commands:")
	expectLine(t, out, "    dump  Dump memory at address")
	expectLine(t, out, "Usage: adc <acc> <operand>")
	expectLine(t, out, "Command not found.")
}
