// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "alu65"})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "help",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
		Data:        (*Host).cmdHelp,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "adc",
		Brief: "Add with carry",
		Description: "Add the operand and the carry flag to an accumulator" +
			" value using the current CPU variant. The decimal and carry" +
			" flags are taken from the status register. The registers are" +
			" not modified.",
		Usage: "adc <acc> <operand>",
		Data:  (*Host).cmdAdc,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "sbc",
		Brief: "Subtract with borrow",
		Description: "Subtract the operand and the inverted carry flag from" +
			" an accumulator value using the current CPU variant. The decimal" +
			" and carry flags are taken from the status register. The" +
			" registers are not modified.",
		Usage: "sbc <acc> <operand>",
		Data:  (*Host).cmdSbc,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "compare",
		Brief: "Compare the 6502 and 65C02 results",
		Description: "Run an ADC or SBC on both the 6502 and the 65C02 with" +
			" the current decimal and carry flags, and show the two results" +
			" side by side. Fields that differ are marked.",
		Usage: "compare <adc|sbc> <acc> <operand>",
		Data:  (*Host).cmdCompare,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "census",
		Brief: "Count decimal mode differences",
		Description: "Run every decimal mode ADC and SBC input on both the" +
			" 6502 and the 65C02 and count, for each result field, how many" +
			" inputs produce different values.",
		Usage: "census",
		Data:  (*Host).cmdCensus,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "disassemble",
		Brief: "Disassemble code",
		Description: "Disassemble machine code starting at the requested" +
			" address. The number of instruction lines to disassemble may be" +
			" specified as an option. If no address is specified, the" +
			" disassembly starts at the program counter.",
		Usage: "disassemble [<address>] [<lines>]",
		Data:  (*Host).cmdDisassemble,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "exec",
		Brief: "Execute one instruction",
		Description: "Store the instruction bytes at the program counter," +
			" execute a single instruction and display the resulting" +
			" register state.",
		Usage: "exec <byte> [<byte> ...]",
		Data:  (*Host).cmdExec,
	})

	// Memory commands
	me := root.AddSubtree(cmd.TreeDescriptor{Name: "memory", Brief: "Memory commands"})
	me.AddCommand(cmd.CommandDescriptor{
		Name:  "dump",
		Brief: "Dump memory at address",
		Description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option. If the address is $, the" +
			" memory dump continues from where the last dump left off.",
		Usage: "memory dump <address> [<bytes>]",
		Data:  (*Host).cmdMemoryDump,
	})
	me.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set memory at address",
		Description: "Set the contents of memory starting from the specified" +
			" address. The values to assign should be a series of" +
			" space-separated byte values.",
		Usage: "memory set <address> <byte> [<byte> ...]",
		Data:  (*Host).cmdMemorySet,
	})

	root.AddCommand(cmd.CommandDescriptor{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
		Data:        (*Host).cmdQuit,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "register",
		Brief: "View or change register values",
		Description: "When used without arguments, this command displays the current" +
			" contents of the CPU registers.  When used with arguments, this" +
			" command changes the value of a register or one of the CPU's status" +
			" flags. Allowed register names include A, X, Y, PC and SP. Allowed status" +
			" flag names include Sign, Zero, Carry, Decimal and Overflow.",
		Usage: "register [<name> <value>]",
		Data:  (*Host).cmdRegister,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "script",
		Brief: "Run a Lua script",
		Description: "Load a Lua script from disk and run it. The script may" +
			" call adc6502, sbc6502, adc65c02 and sbc65c02 with the arguments" +
			" (decimal, carry, acc, operand). Each returns acc, n, v, z and c.",
		Usage: "script <filename>",
		Data:  (*Host).cmdScript,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		Usage: "set [<var> <value>]",
		Data:  (*Host).cmdSet,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "test",
		Brief: "Run single-step test files",
		Description: "Execute the testcases in one or more single-step test" +
			" files using the Arch, TestCycles, TestMemory and Jobs" +
			" settings, and report every deviation from the expected state.",
		Usage: "test <filename> [<filename> ...]",
		Data:  (*Host).cmdTest,
	})

	// Add command shortcuts.
	root.AddShortcut("c", "compare")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("ms", "memory set")
	root.AddShortcut("r", "register")
	root.AddShortcut("x", "exec")
	root.AddShortcut("?", "help")
	root.AddShortcut(".", "register")

	cmds = root
}
