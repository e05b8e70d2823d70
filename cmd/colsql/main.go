// Copyright (C) 2026 Sandstone Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// colsql is a small demo CLI that wires the engine's operators
// together by hand (there is no SQL front end in this module; the
// lexer/parser/logical planner are out-of-scope external
// collaborators) and runs the resulting plan against the built-in
// sample datasets.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sandstonedb/sandstone/batchvec"
	"github.com/sandstonedb/sandstone/evalcontract"
	"github.com/sandstonedb/sandstone/plan"
	"github.com/sandstonedb/sandstone/stats"
)

var (
	dashd      string
	dashselect string
	dashwhere  string
	dashorder  string
	dashlimit  int64
	dashoffset int64
	dashjson   bool
	dasho      string
	printStats bool

	dst io.Writer
)

func init() {
	flag.StringVar(&dashd, "d", "$planets", "internal dataset to query ($planets, $satellites, $astronauts, $no_table)")
	flag.StringVar(&dashselect, "select", "", "comma-separated column list (default: all columns)")
	flag.StringVar(&dashwhere, "where", "", "single predicate: COLUMN OP VALUE, OP one of = != < <= > >=")
	flag.StringVar(&dashorder, "order", "", "sort key: COLUMN or COLUMN:desc")
	flag.Int64Var(&dashlimit, "limit", 0, "row limit, 0 means unlimited")
	flag.Int64Var(&dashoffset, "offset", 0, "rows to skip before the first returned row")
	flag.BoolVar(&dashjson, "j", false, "print rows as JSON lines instead of a text table")
	flag.StringVar(&dasho, "o", "", "output file (default: stdout)")
	flag.BoolVar(&printStats, "S", false, "print execution statistics on stderr")
}

func main() {
	flag.Parse()

	dst = os.Stdout
	if dasho != "" {
		f, err := os.Create(dasho)
		if err != nil {
			exit(err)
		}
		defer f.Close()
		dst = f
	}

	op, err := buildPlan()
	if err != nil {
		exit(err)
	}

	st := stats.New()
	logger := log.New(os.Stderr, "colsql: ", 0)
	logger.Printf("query %s starting, dataset=%s", st.QueryID, dashd)

	start := time.Now()
	if err := run(op, st); err != nil {
		exit(err)
	}
	elapsed := time.Since(start)

	logger.Printf("query %s finished in %s", st.QueryID, elapsed)
	if printStats {
		printStatistics(st)
	}
}

// buildPlan assembles an operator tree by hand from the flags given,
// standing in for the out-of-scope SQL planner.
func buildPlan() (plan.Op, error) {
	src, err := plan.NewInternalDataset(dashd, "")
	if err != nil {
		return nil, err
	}
	var root plan.Op = src

	if dashwhere != "" {
		pred, err := parsePredicate(dashwhere)
		if err != nil {
			return nil, err
		}
		sel := plan.NewSelection(pred, evalcontract.Simple{})
		if err := sel.SetProducers([]plan.Op{root}); err != nil {
			return nil, err
		}
		root = sel
	}

	if dashselect != "" {
		var outputs []plan.OutputColumn
		for _, name := range strings.Split(dashselect, ",") {
			name = strings.TrimSpace(name)
			outputs = append(outputs, plan.OutputColumn{Identifier: name, Name: name})
		}
		proj := plan.NewProjection(outputs, evalcontract.Simple{})
		if err := proj.SetProducers([]plan.Op{root}); err != nil {
			return nil, err
		}
		root = proj
	}

	if dashorder != "" {
		col, desc, _ := strings.Cut(dashorder, ":")
		key := plan.SortKey{Expr: evalcontract.ColumnRef{Name: strings.TrimSpace(col)}, Desc: strings.EqualFold(desc, "desc")}
		srt := plan.NewSort([]plan.SortKey{key}, evalcontract.Simple{})
		if err := srt.SetProducers([]plan.Op{root}); err != nil {
			return nil, err
		}
		root = srt
	}

	if dashoffset > 0 {
		off := plan.NewOffset(dashoffset)
		if err := off.SetProducers([]plan.Op{root}); err != nil {
			return nil, err
		}
		root = off
	}

	if dashlimit > 0 {
		lim := plan.NewLimit(dashlimit)
		if err := lim.SetProducers([]plan.Op{root}); err != nil {
			return nil, err
		}
		root = lim
	}

	return root, nil
}

func parsePredicate(expr string) (evalcontract.Expr, error) {
	fields := strings.Fields(expr)
	if len(fields) != 3 {
		return nil, fmt.Errorf("colsql: -where must look like \"column op value\", got %q", expr)
	}
	col, opText, rawVal := fields[0], fields[1], fields[2]

	var op evalcontract.CompareOp
	switch opText {
	case "=":
		op = evalcontract.OpEq
	case "!=":
		op = evalcontract.OpNe
	case "<":
		op = evalcontract.OpLt
	case "<=":
		op = evalcontract.OpLe
	case ">":
		op = evalcontract.OpGt
	case ">=":
		op = evalcontract.OpGe
	default:
		return nil, fmt.Errorf("colsql: unsupported operator %q", opText)
	}

	return evalcontract.Compare{
		Op:    op,
		Left:  evalcontract.ColumnRef{Name: col},
		Right: evalcontract.Literal{Value: literalValue(rawVal)},
	}, nil
}

// literalValue coerces a command-line value into the narrowest scalar
// type Simple's comparison logic understands, falling back to string.
func literalValue(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

// run drives op to completion, printing every batch it produces.
func run(op plan.Op, st *stats.Stats) error {
	stream, err := op.Execute(context.Background(), st)
	if err != nil {
		return err
	}
	first := true
	for {
		batch, err := stream()
		if err != nil {
			return err
		}
		if batch == nil {
			break
		}
		if err := printBatch(batch, first); err != nil {
			return err
		}
		first = false
	}
	return nil
}

func printBatch(b *batchvec.Batch, header bool) error {
	if dashjson {
		return printBatchJSON(b)
	}
	return printBatchTable(b, header)
}

func printBatchJSON(b *batchvec.Batch) error {
	names := b.Names()
	enc := json.NewEncoder(dst)
	for row := 0; row < b.RowCount(); row++ {
		rec := make(map[string]any, len(names))
		for _, name := range names {
			col, _ := b.Column(name)
			rec[name] = rowValue(col, row)
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

func printBatchTable(b *batchvec.Batch, header bool) error {
	names := b.Names()
	if header {
		fmt.Fprintln(dst, strings.Join(names, "\t"))
	}
	for row := 0; row < b.RowCount(); row++ {
		vals := make([]string, len(names))
		for i, name := range names {
			col, _ := b.Column(name)
			vals[i] = fmt.Sprint(rowValue(col, row))
		}
		fmt.Fprintln(dst, strings.Join(vals, "\t"))
	}
	return nil
}

// rowValue extracts row i of c as a plain Go value suitable for
// fmt.Sprint or JSON encoding, mirroring the per-kind type switches
// in evalcontract.Simple's own row accessors.
func rowValue(c batchvec.Column, i int) any {
	switch v := c.Data.(type) {
	case batchvec.StringVector:
		return v[i]
	case batchvec.Int64Vector:
		return v[i]
	case batchvec.Float64Vector:
		return v[i]
	case batchvec.BoolVector:
		return v[i]
	case batchvec.TimestampVector:
		return time.UnixMicro(v.Values[i]).UTC().Format(time.RFC3339)
	case batchvec.ListVector:
		return v.Rows[i]
	case batchvec.StructVector:
		return v[i]
	default:
		return nil
	}
}

func printStatistics(st *stats.Stats) {
	snap := st.Snapshot()
	fmt.Fprintf(os.Stderr, "query %s statistics:\n", st.QueryID)
	for _, key := range []string{
		"rows_read", "columns_read",
		"count_blobs_found", "count_data_blobs_read",
		"cache_hits", "cache_misses", "cache_oversize", "cache_errors",
		"time_total",
	} {
		fmt.Fprintf(os.Stderr, "  %-24s %v\n", key, snap[key])
	}
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, "colsql:", err)
	os.Exit(1)
}
