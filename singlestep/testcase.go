// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package singlestep runs the SingleStepTests 65x02 instruction testcases
// against the cpu package and reports deviations from the recorded
// hardware behavior.
package singlestep

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/alu65/cpu"
)

// ErrFormat is wrapped by every error caused by malformed testcase data.
var ErrFormat = errors.New("malformed testcase")

// MachineState is a CPU and memory snapshot taken before or after a
// testcase instruction. RAM holds (address, value) pairs; all other
// addresses are zero.
type MachineState struct {
	PC  uint16      `json:"pc"`
	S   uint8       `json:"s"`
	A   uint8       `json:"a"`
	X   uint8       `json:"x"`
	Y   uint8       `json:"y"`
	P   uint8       `json:"p"`
	RAM [][2]uint32 `json:"ram"`
}

type stateJSON struct {
	PC  *int64    `json:"pc"`
	S   *int64    `json:"s"`
	A   *int64    `json:"a"`
	X   *int64    `json:"x"`
	Y   *int64    `json:"y"`
	P   *int64    `json:"p"`
	RAM [][]int64 `json:"ram"`
}

// UnmarshalJSON decodes a machine state, rejecting missing fields and
// values that do not fit the register or memory they describe.
func (s *MachineState) UnmarshalJSON(b []byte) error {
	var raw stateJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}

	fields := []struct {
		name string
		v    *int64
		max  int64
	}{
		{"pc", raw.PC, 0xffff},
		{"s", raw.S, 0xff},
		{"a", raw.A, 0xff},
		{"x", raw.X, 0xff},
		{"y", raw.Y, 0xff},
		{"p", raw.P, 0xff},
	}
	for _, f := range fields {
		if f.v == nil {
			return fmt.Errorf("%w: missing field %q", ErrFormat, f.name)
		}
		if *f.v < 0 || *f.v > f.max {
			return fmt.Errorf("%w: field %q out of range (%d)", ErrFormat, f.name, *f.v)
		}
	}
	if raw.RAM == nil {
		return fmt.Errorf("%w: missing field \"ram\"", ErrFormat)
	}

	ram := make([][2]uint32, len(raw.RAM))
	for i, e := range raw.RAM {
		if len(e) != 2 {
			return fmt.Errorf("%w: ram entry %d is not an (address, value) pair", ErrFormat, i)
		}
		if e[0] < 0 || e[0] > 0xffff {
			return fmt.Errorf("%w: ram entry %d address out of range (%d)", ErrFormat, i, e[0])
		}
		if e[1] < 0 || e[1] > 0xff {
			return fmt.Errorf("%w: ram entry %d value out of range (%d)", ErrFormat, i, e[1])
		}
		ram[i] = [2]uint32{uint32(e[0]), uint32(e[1])}
	}

	*s = MachineState{
		PC:  uint16(*raw.PC),
		S:   uint8(*raw.S),
		A:   uint8(*raw.A),
		X:   uint8(*raw.X),
		Y:   uint8(*raw.Y),
		P:   uint8(*raw.P),
		RAM: ram,
	}
	return nil
}

// Load stores the state's RAM contents into m. Addresses not listed in
// the state are left alone, so m should normally be cleared first.
func (s *MachineState) Load(m *cpu.FlatMemory) {
	for _, e := range s.RAM {
		m.StoreByte(uint16(e[0]), byte(e[1]))
	}
}

// TestCase describes one instruction execution: the machine state before
// and after, and the bus activity of every cycle in between. Only the
// number of cycles is used.
type TestCase struct {
	Name    string            `json:"name"`
	Initial MachineState      `json:"initial"`
	Final   MachineState      `json:"final"`
	Cycles  []json.RawMessage `json:"cycles"`
}

type testCaseJSON struct {
	Name    *string           `json:"name"`
	Initial *MachineState     `json:"initial"`
	Final   *MachineState     `json:"final"`
	Cycles  []json.RawMessage `json:"cycles"`
}

// UnmarshalJSON decodes a testcase, rejecting it when any part is missing
// or malformed.
func (tc *TestCase) UnmarshalJSON(b []byte) error {
	var raw testCaseJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		if errors.Is(err, ErrFormat) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	switch {
	case raw.Name == nil:
		return fmt.Errorf("%w: missing field \"name\"", ErrFormat)
	case raw.Initial == nil:
		return fmt.Errorf("%w: missing field \"initial\"", ErrFormat)
	case raw.Final == nil:
		return fmt.Errorf("%w: missing field \"final\"", ErrFormat)
	case raw.Cycles == nil:
		return fmt.Errorf("%w: missing field \"cycles\"", ErrFormat)
	}

	*tc = TestCase{
		Name:    *raw.Name,
		Initial: *raw.Initial,
		Final:   *raw.Final,
		Cycles:  raw.Cycles,
	}
	return nil
}

// Decode reads a JSON array of testcases without interpreting its
// elements. Each element can then be parsed with ParseCase, so that one
// malformed testcase does not spoil the rest of a file.
func Decode(r io.Reader) ([]json.RawMessage, error) {
	var cases []json.RawMessage
	if err := json.NewDecoder(r).Decode(&cases); err != nil {
		return nil, fmt.Errorf("%w: decoding testcase array: %v", ErrFormat, err)
	}
	return cases, nil
}

// ParseCase parses a single testcase.
func ParseCase(raw json.RawMessage) (TestCase, error) {
	var tc TestCase
	if err := json.Unmarshal(raw, &tc); err != nil {
		if errors.Is(err, ErrFormat) {
			return TestCase{}, err
		}
		return TestCase{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return tc, nil
}

// Load reads a JSON array of testcases. It fails on the first malformed
// testcase.
func Load(r io.Reader) ([]TestCase, error) {
	raws, err := Decode(r)
	if err != nil {
		return nil, err
	}

	cases := make([]TestCase, len(raws))
	for i, raw := range raws {
		if cases[i], err = ParseCase(raw); err != nil {
			return nil, fmt.Errorf("testcase %d: %w", i+1, err)
		}
	}
	return cases, nil
}

// openFile opens a testcase file, transparently decompressing files whose
// name ends in ".gz".
func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open test file: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	gz, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	return &gzipFile{Reader: gz, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	err := g.Reader.Close()
	if ferr := g.f.Close(); err == nil {
		err = ferr
	}
	return err
}

// LoadFile reads a plain (.json) or gzip-compressed (.json.gz) testcase
// file.
func LoadFile(path string) ([]TestCase, error) {
	r, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	cases, err := Load(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}
