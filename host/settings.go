// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/alu65/cpu"
	"github.com/beevik/prefixtree/v2"
)

type settings struct {
	Arch            string `doc:"CPU variant: 6502, 65C02 or 6502X"`
	HexMode         bool   `doc:"hexadecimal input mode"`
	TestCycles      bool   `doc:"compare cycle counts when testing"`
	TestMemory      bool   `doc:"compare memory when testing"`
	Jobs            int    `doc:"test files run at once, 0 for all CPUs"`
	MemDumpBytes    int    `doc:"default number of memory bytes to dump"`
	DisasmLines     int    `doc:"default number of lines to disassemble"`
	NextMemDumpAddr uint16 `doc:"address of next memory dump"`
}

func newSettings() *settings {
	return &settings{
		Arch:         cpu.NMOS.String(),
		TestCycles:   true,
		TestMemory:   true,
		MemDumpBytes: 64,
		DisasmLines:  10,
	}
}

type settingsField struct {
	name  string
	index int
	kind  reflect.Kind
	typ   reflect.Type
	doc   string
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

func init() {
	settingsType := reflect.TypeOf(settings{})
	settingsFields = make([]settingsField, settingsType.NumField())
	for i := 0; i < len(settingsFields); i++ {
		f := settingsType.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

// Display writes every setting with its current value and description.
func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		v := value.Field(i)
		var s string
		switch f.kind {
		case reflect.String:
			s = fmt.Sprintf("    %-16s \"%s\"", f.name, v.String())
		case reflect.Uint8:
			s = fmt.Sprintf("    %-16s $%02X", f.name, uint8(v.Uint()))
		case reflect.Uint16:
			s = fmt.Sprintf("    %-16s $%04X", f.name, uint16(v.Uint()))
		default:
			s = fmt.Sprintf("    %-16s %v", f.name, v)
		}
		fmt.Fprintf(w, "%-28s (%s)\n", s, f.doc)
	}
}

func (s *settings) Kind(key string) reflect.Kind {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return reflect.Invalid
	}
	return f.kind
}

// Set assigns a value to the setting matching the key prefix. The value
// must be convertible to the setting's type.
func (s *settings) Set(key string, value any) error {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return err
	}

	vIn := reflect.ValueOf(value)
	if (f.kind == reflect.String && vIn.Kind() != reflect.String) ||
		(f.kind != reflect.String && vIn.Kind() == reflect.String) ||
		!vIn.Type().ConvertibleTo(f.typ) {
		return fmt.Errorf("invalid value type for setting '%s'", f.name)
	}

	// Architecture names are stored in their canonical form.
	if f.name == "Arch" {
		arch, err := cpu.ParseArchitecture(vIn.String())
		if err != nil {
			return err
		}
		vIn = reflect.ValueOf(arch.String())
	}

	vOut := reflect.ValueOf(s).Elem().Field(f.index)
	vOut.Set(vIn.Convert(f.typ))
	return nil
}

// Architecture returns the CPU variant selected by the Arch setting.
func (s *settings) Architecture() cpu.Architecture {
	arch, err := cpu.ParseArchitecture(s.Arch)
	if err != nil {
		return cpu.NMOS
	}
	return arch
}
