// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package singlestep

import (
	"fmt"
	"html/template"
	"io"
)

// A Suite is the set of file reports produced by running one CPU variant
// against one directory of testcases.
type Suite struct {
	Variant   string
	Directory string
	Reports   []FileReport
}

type dashboardCell struct {
	Text  string
	Color string
	Style string // "background-color" or "color"
}

type dashboardTable struct {
	Title   string
	Rows    [][]dashboardCell
	Summary string
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<html>
  <head>
    <title>Results for the 65x02 test suite</title>
  </head>
  <body>
{{- range .}}
    <h1>{{.Title}}</h1>
    <table border="1" style="text-align:center">
{{- range .Rows}}
      <tr>{{range .}}<td style="{{.Style}}:{{.Color}}">{{.Text}}</td>{{end}}</tr>
{{- end}}
    </table>
    <p>{{.Summary}}</p>
{{- end}}
  </body>
</html>
`))

// cellColor maps a failure percentage to the dashboard color scale.
func cellColor(percent float64) string {
	switch {
	case percent == 0:
		return "lightgreen"
	case percent < 1:
		return "yellow"
	case percent < 100:
		return "orange"
	default:
		return "orangered"
	}
}

func newDashboardTable(s *Suite) dashboardTable {
	byOpcode := make(map[int]*FileReport)
	var failed, total int
	for i := range s.Reports {
		rep := &s.Reports[i]
		if rep.Opcode < 0 || rep.Err != nil || rep.Cases == 0 {
			continue
		}
		byOpcode[rep.Opcode] = rep
		failed += rep.Failed
		total += rep.Cases
	}

	t := dashboardTable{Title: fmt.Sprintf("%s / %s", s.Variant, s.Directory)}
	for row := 0; row < 16; row++ {
		cells := make([]dashboardCell, 16)
		for col := range cells {
			op := row*16 + col
			rep, ok := byOpcode[op]
			if !ok {
				cells[col] = dashboardCell{Text: "illegal", Color: "lightgray", Style: "color"}
				continue
			}
			pct := rep.FailurePercent()
			cells[col] = dashboardCell{
				Text:  fmt.Sprintf("0x%02x:\u00a0(%.2f%%)", op, pct),
				Color: cellColor(pct),
				Style: "background-color",
			}
		}
		t.Rows = append(t.Rows, cells)
	}

	var pct float64
	if total > 0 {
		pct = float64(failed) / float64(total) * 100
	}
	t.Summary = fmt.Sprintf("In total, %d out of %d tests failed (%.3f%%).", failed, total, pct)
	return t
}

// WriteDashboard renders an HTML page with one 16x16 opcode table per
// suite. Each cell is colored by the opcode's failure percentage; opcodes
// without a report are shown in gray.
func WriteDashboard(w io.Writer, suites []Suite) error {
	tables := make([]dashboardTable, len(suites))
	for i := range suites {
		tables[i] = newDashboardTable(&suites[i])
	}
	return dashboardTemplate.Execute(w, tables)
}
