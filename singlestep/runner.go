// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package singlestep

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FileReport summarizes the testcases of one file.
type FileReport struct {
	File   string // path as given to the runner
	Opcode int    // opcode taken from the file name, or -1
	Cases  int    // number of testcases in the file
	Failed int    // testcases that deviated or could not be parsed
	Err    error  // set when the file could not be read at all
}

// FailurePercent returns the share of failed testcases, from 0 to 100.
func (f *FileReport) FailurePercent() float64 {
	if f.Cases == 0 {
		return 0
	}
	return float64(f.Failed) / float64(f.Cases) * 100
}

// A Runner executes testcase files and writes a line-oriented report.
type Runner struct {
	Options Options
	Out     io.Writer   // report output
	Log     *log.Logger // progress diagnostics; nil discards them
	Jobs    int         // files processed concurrently; <= 0 uses GOMAXPROCS
}

func (r *Runner) logf(format string, args ...any) {
	if r.Log != nil {
		r.Log.Printf(format, args...)
	}
}

// RunFiles executes every testcase in the files. Files are processed
// concurrently but their reports are written to Out in the order given.
//
// Testcase deviations are reported, not returned. The returned error joins
// the errors of files that could not be read, or is the context's error
// when the run was cancelled.
func (r *Runner) RunFiles(ctx context.Context, files []string) ([]FileReport, error) {
	jobs := r.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	r.logf("running %d files as %s with %d jobs", len(files), r.Options.Arch, jobs)

	reports := make([]FileReport, len(files))
	outputs := make([]bytes.Buffer, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, file := range files {
		g.Go(func() error {
			var err error
			reports[i], err = r.runFile(ctx, file, &outputs[i])
			return err
		})
	}
	err := g.Wait()

	if r.Out != nil {
		for i := range outputs {
			if _, werr := outputs[i].WriteTo(r.Out); werr != nil {
				return reports, werr
			}
		}
	}
	if err != nil {
		return reports, err
	}

	var errs []error
	for _, rep := range reports {
		if rep.Err != nil {
			errs = append(errs, rep.Err)
		}
	}
	return reports, errors.Join(errs...)
}

// runFile executes one file's testcases. Only context cancellation is
// returned as an error; read failures are recorded in the report.
func (r *Runner) runFile(ctx context.Context, file string, w io.Writer) (FileReport, error) {
	rep := FileReport{File: file, Opcode: OpcodeFromPath(file)}
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	raws, err := readFile(file)
	if err != nil {
		rep.Err = err
		fmt.Fprintf(w, "[%s] ERROR - Test file cannot be read: %v\n", file, err)
		r.logf("skipped %s: %v", file, err)
		return rep, nil
	}

	b := newBench()
	for i, raw := range raws {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
		}

		index := i + 1
		rep.Cases++

		tc, err := ParseCase(raw)
		if err != nil {
			rep.Failed++
			fmt.Fprintf(w, "[%s:%d] ERROR: Testcase cannot be parsed.\n", file, index)
			continue
		}

		res := b.execute(&tc, r.Options)
		if res.Failed() {
			rep.Failed++
		}
		writeCaseResult(w, file, index, &tc, &res)
	}

	fmt.Fprintf(w, "[%s] INFO - Test file summary: %d of %d testcases show deviations from expected behavior.\n",
		file, rep.Failed, rep.Cases)
	r.logf("finished %s: %d of %d failed", file, rep.Failed, rep.Cases)
	return rep, nil
}

func readFile(file string) ([]json.RawMessage, error) {
	f, err := openFile(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func writeCaseResult(w io.Writer, file string, index int, tc *TestCase, res *CaseResult) {
	prefix := fmt.Sprintf("[%s:%d (\"%s\")]", file, index, tc.Name)
	for _, n := range res.Notices {
		fmt.Fprintf(w, "%s NOTICE - %s\n", prefix, n)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(w, "%s ERROR - %s\n", prefix, e)
	}
	fmt.Fprintf(w, "%s INFO - Test summary: %s, %s.\n", prefix,
		plural(len(res.Errors), "error"), plural(len(res.Notices), "notice"))
}

func plural(n int, word string) string {
	if n != 1 {
		word += "s"
	}
	return fmt.Sprintf("%d %s", n, word)
}

// OpcodeFromPath extracts the opcode from a testcase file name such as
// "6502/v1/69.json" or "69.json.gz". It returns -1 when the base name is
// not two hex digits.
func OpcodeFromPath(path string) int {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	base = strings.TrimSuffix(base, ".json")
	if len(base) != 2 {
		return -1
	}
	v, err := strconv.ParseUint(base, 16, 8)
	if err != nil {
		return -1
	}
	return int(v)
}
