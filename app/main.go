// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/beevik/alu65/cpu"
	"github.com/beevik/alu65/host"
	"github.com/beevik/alu65/singlestep"
	"github.com/beevik/term"
)

var (
	testMode      string
	noCycleTest   bool
	noMemoryTest  bool
	suiteDir      string
	allOpcodes    bool
	dashboardFile string
	jobs          int
	verbose       bool
)

func init() {
	flag.StringVar(&testMode, "t", "", "run single-step test files as CPU `mode` (6502, 6502X or 65C02)")
	flag.BoolVar(&noCycleTest, "disable-cycle-count-test", false, "do not compare cycle counts")
	flag.BoolVar(&noMemoryTest, "disable-memory-test", false, "do not compare memory")
	flag.StringVar(&suiteDir, "suite", "", "run the opcode files of the mode found in `dir`")
	flag.BoolVar(&allOpcodes, "all-opcodes", false, "with -suite, include opcodes the CPU does not implement")
	flag.StringVar(&dashboardFile, "dashboard", "", "write an HTML dashboard of the test run to `file`")
	flag.IntVar(&jobs, "j", 0, "number of test files run concurrently (0 for all CPUs)")
	flag.BoolVar(&verbose, "v", false, "log test progress to stderr")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: alu65 [script] ..\n       alu65 -t <mode> [options] <testfile> ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if testMode != "" {
		runTests()
		return
	}

	h := host.New()

	// Run commands contained in command-line files.
	for _, filename := range flag.Args() {
		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		more := h.RunCommands(file, os.Stdout, false)
		file.Close()
		if !more {
			return
		}
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands interactively.
	h.RunCommands(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

func runTests() {
	arch, err := cpu.ParseArchitecture(testMode)
	if err != nil {
		exitOnError(err)
	}

	files := flag.Args()
	dir := suiteDir
	if dir != "" {
		files = append(singlestep.OpcodeFiles(dir, arch, !allOpcodes), files...)
	} else if len(files) > 0 {
		dir = filepath.Dir(files[0])
	}
	if len(files) == 0 {
		exitOnError(errors.New("no test files specified"))
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	r := singlestep.Runner{
		Options: singlestep.Options{
			Arch:       arch,
			TestCycles: !noCycleTest,
			TestMemory: !noMemoryTest,
		},
		Out:  out,
		Jobs: jobs,
	}
	if verbose {
		r.Log = log.New(os.Stderr, "alu65: ", log.Ltime)
	}

	// Stop on Ctrl-C.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reports, err := r.RunFiles(ctx, files)
	if errors.Is(err, context.Canceled) {
		out.Flush()
		exitOnError(errors.New("test run interrupted"))
	}

	if dashboardFile != "" {
		suite := singlestep.Suite{Variant: arch.String(), Directory: dir, Reports: reports}
		if err := writeDashboard(dashboardFile, suite); err != nil {
			out.Flush()
			exitOnError(err)
		}
	}

	// Unreadable files are already in the report.
	if err != nil {
		out.Flush()
		os.Exit(1)
	}
}

func writeDashboard(filename string, suite singlestep.Suite) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := singlestep.WriteDashboard(file, []singlestep.Suite{suite}); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
