// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"context"
	"strings"

	"github.com/beevik/alu65/alu"
	lua "github.com/yuin/gopher-lua"
)

var scriptFuncs = map[string]alu.Func{
	"adc6502":  alu.ADC6502,
	"sbc6502":  alu.SBC6502,
	"adc65c02": alu.ADC65C02,
	"sbc65c02": alu.SBC65C02,
}

// newScriptState creates a Lua state with the arithmetic functions and a
// print function that writes to the host's output.
func (h *Host) newScriptState(ctx context.Context) *lua.LState {
	L := lua.NewState()
	L.SetContext(ctx)

	for name, fn := range scriptFuncs {
		L.SetGlobal(name, L.NewFunction(luaArith(fn)))
	}
	L.SetGlobal("print", L.NewFunction(h.luaPrint))
	return L
}

// runScript executes a Lua script file. The script stops early if the
// context is cancelled.
func (h *Host) runScript(ctx context.Context, filename string) error {
	L := h.newScriptState(ctx)
	defer L.Close()
	return L.DoFile(filename)
}

// luaArith wraps an arithmetic function taking (decimal, carry, acc,
// operand) and returning acc, n, v, z, c.
func luaArith(fn alu.Func) lua.LGFunction {
	return func(L *lua.LState) int {
		decimal := luaFlag(L, 1)
		carry := luaFlag(L, 2)
		acc := luaByte(L, 3)
		operand := luaByte(L, 4)

		r := fn(decimal, carry, acc, operand)
		L.Push(lua.LNumber(r.A))
		L.Push(lua.LBool(r.N))
		L.Push(lua.LBool(r.V))
		L.Push(lua.LBool(r.Z))
		L.Push(lua.LBool(r.C))
		return 5
	}
}

// luaFlag accepts a boolean or a number, where any nonzero number is true.
func luaFlag(L *lua.LState, n int) bool {
	switch v := L.CheckAny(n).(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return v != 0
	}
	L.ArgError(n, "boolean or number expected")
	return false
}

func luaByte(L *lua.LState, n int) byte {
	v := L.CheckInt(n)
	if v < 0 || v > 0xff {
		L.ArgError(n, "value out of byte range")
	}
	return byte(v)
}

func (h *Host) luaPrint(L *lua.LState) int {
	top := L.GetTop()
	args := make([]string, top)
	for i := 1; i <= top; i++ {
		args[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	h.println(strings.Join(args, "\t"))
	return 0
}
