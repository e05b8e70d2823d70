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

package plan

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sandstonedb/sandstone/batchvec"
	"github.com/sandstonedb/sandstone/enginerr"
	"github.com/sandstonedb/sandstone/stats"
)

// FunctionCall describes one dataset-producing function invocation
// (spec.md §4.7): generate_series, unnest, values, or fake.
type FunctionCall struct {
	Name  string
	Args  []any
	Rows  [][]any // VALUES-style row literals; only used by "values"
	Alias string
}

// FunctionDataset is the dataset-function operator: a leaf that
// interprets a FunctionCall and emits exactly one batch named after
// the function (or its alias, if declared).
type FunctionDataset struct {
	base
	call FunctionCall
}

func NewFunctionDataset(call FunctionCall) *FunctionDataset {
	return &FunctionDataset{base: newBase(fmt.Sprintf("FunctionDataset(%s)", call.Name), 0), call: call}
}

func (f *FunctionDataset) Config() string { return fmt.Sprintf("function=%s", f.call.Name) }

func (f *FunctionDataset) Execute(ctx context.Context, st *stats.Stats) (Stream, error) {
	done := false
	return func() (*batchvec.Batch, error) {
		if done {
			return nil, nil
		}
		done = true

		batch, err := f.build()
		if err != nil {
			return nil, err
		}
		batch = batchvec.Normalize(batch)
		alias := f.call.Alias
		if alias == "" {
			alias = f.call.Name
		}
		batch = batch.AttachTable(alias, f.call.Name)
		st.AddRowsRead(int64(batch.RowCount()))
		st.AddColumnsRead(int64(len(batch.Names())))
		return batch, nil
	}, nil
}

func (f *FunctionDataset) build() (*batchvec.Batch, error) {
	switch strings.ToLower(f.call.Name) {
	case "generate_series":
		return buildGenerateSeries(f.call)
	case "unnest":
		return buildUnnest(f.call)
	case "values":
		return buildValues(f.call)
	case "fake":
		return buildFake(f.call)
	default:
		return nil, &enginerr.InvalidSqlError{Msg: fmt.Sprintf("unknown dataset function %q", f.call.Name)}
	}
}

func outputName(call FunctionCall) string {
	if call.Alias != "" {
		return call.Alias
	}
	return call.Name
}

// buildGenerateSeries supports two forms: a numeric range
// (start, stop, step float64-or-int64) and a date range
// (start, stop string dates, step "<n> <unit>").
func buildGenerateSeries(call FunctionCall) (*batchvec.Batch, error) {
	if len(call.Args) != 3 {
		return nil, &enginerr.InvalidSqlError{Msg: "generate_series expects 3 arguments"}
	}
	name := outputName(call)

	if start, ok := call.Args[0].(string); ok {
		stop, ok2 := call.Args[1].(string)
		step, ok3 := call.Args[2].(string)
		if !ok2 || !ok3 {
			return nil, &enginerr.InvalidSqlError{Msg: "generate_series date arguments must all be strings"}
		}
		return buildDateSeries(name, start, stop, step)
	}

	startN, err1 := asFloat(call.Args[0])
	stopN, err2 := asFloat(call.Args[1])
	stepN, err3 := asFloat(call.Args[2])
	if err1 != nil || err2 != nil || err3 != nil || stepN == 0 {
		return nil, &enginerr.InvalidSqlError{Msg: "generate_series numeric arguments are invalid"}
	}
	var out batchvec.Float64Vector
	for v := startN; (stepN > 0 && v <= stopN) || (stepN < 0 && v >= stopN); v += stepN {
		out = append(out, v)
	}
	return batchvec.MustNew([]batchvec.Column{{Meta: batchvec.Meta{Name: name}, Data: out}}), nil
}

func buildDateSeries(name, start, stop, step string) (*batchvec.Batch, error) {
	startT, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, fmt.Errorf("plan: generate_series start date: %w", err)
	}
	stopT, err := time.Parse("2006-01-02", stop)
	if err != nil {
		return nil, fmt.Errorf("plan: generate_series stop date: %w", err)
	}
	years, months, days, err := parseStep(step)
	if err != nil {
		return nil, err
	}

	var out []int64
	for t := startT; !t.After(stopT); t = t.AddDate(years, months, days) {
		out = append(out, t.UnixMicro())
	}
	return batchvec.MustNew([]batchvec.Column{
		{Meta: batchvec.Meta{Name: name}, Data: batchvec.NewTimestamp(out, batchvec.KindTimestampUS)},
	}), nil
}

// parseStep parses intervals of the form "<n> <unit>", unit one of
// day, days, month, months, year, years.
func parseStep(step string) (years, months, days int, err error) {
	fields := strings.Fields(step)
	if len(fields) != 2 {
		return 0, 0, 0, &enginerr.InvalidSqlError{Msg: fmt.Sprintf("unsupported interval %q", step)}
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, 0, &enginerr.InvalidSqlError{Msg: fmt.Sprintf("unsupported interval %q", step)}
	}
	switch strings.TrimSuffix(strings.ToLower(fields[1]), "s") {
	case "day":
		return 0, 0, n, nil
	case "month":
		return 0, n, 0, nil
	case "year":
		return n, 0, 0, nil
	default:
		return 0, 0, 0, &enginerr.InvalidSqlError{Msg: fmt.Sprintf("unsupported interval unit %q", fields[1])}
	}
}

// buildUnnest explodes a literal list (call.Args[0]) into one row per
// element, in a single column named after the function/alias.
func buildUnnest(call FunctionCall) (*batchvec.Batch, error) {
	if len(call.Args) != 1 {
		return nil, &enginerr.InvalidSqlError{Msg: "unnest expects exactly one argument"}
	}
	elems, ok := call.Args[0].([]any)
	if !ok {
		return nil, &enginerr.InvalidSqlError{Msg: "unnest argument must be a list"}
	}
	name := outputName(call)

	allInts, allFloats := true, true
	for _, e := range elems {
		if _, ok := e.(int64); !ok {
			allInts = false
		}
		if _, ok := asNumeric(e); !ok {
			allFloats = false
		}
	}
	switch {
	case allInts:
		out := make(batchvec.Int64Vector, len(elems))
		for i, e := range elems {
			out[i] = e.(int64)
		}
		return batchvec.MustNew([]batchvec.Column{{Meta: batchvec.Meta{Name: name}, Data: out}}), nil
	case allFloats:
		out := make(batchvec.Float64Vector, len(elems))
		for i, e := range elems {
			v, _ := asNumeric(e)
			out[i] = v
		}
		return batchvec.MustNew([]batchvec.Column{{Meta: batchvec.Meta{Name: name}, Data: out}}), nil
	default:
		out := make(batchvec.StringVector, len(elems))
		for i, e := range elems {
			out[i] = fmt.Sprint(e)
		}
		return batchvec.MustNew([]batchvec.Column{{Meta: batchvec.Meta{Name: name}, Data: out}}), nil
	}
}

func asNumeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, error) {
	if n, ok := asNumeric(v); ok {
		return n, nil
	}
	return 0, fmt.Errorf("plan: %v is not numeric", v)
}

// buildValues implements the VALUES (...) , (...) table constructor:
// call.Rows holds one slice of cell values per row, all the same
// length; output columns are named column1..columnN.
func buildValues(call FunctionCall) (*batchvec.Batch, error) {
	if len(call.Rows) == 0 {
		return batchvec.MustNew(nil), nil
	}
	width := len(call.Rows[0])
	cols := make([]batchvec.StringVector, width)
	for _, row := range call.Rows {
		if len(row) != width {
			return nil, &enginerr.InvalidSqlError{Msg: "VALUES rows must all have the same arity"}
		}
		for i, cell := range row {
			cols[i] = append(cols[i], fmt.Sprint(cell))
		}
	}
	out := make([]batchvec.Column, width)
	for i, c := range cols {
		out[i] = batchvec.Column{Meta: batchvec.Meta{Name: fmt.Sprintf("column%d", i+1)}, Data: c}
	}
	return batchvec.MustNew(out), nil
}

// buildFake generates call.Args[0] (int64 row count) rows of
// synthetic data shaped by call.Args[1] (map[string]string of column
// name to kind: "string", "int", "float", "bool").
func buildFake(call FunctionCall) (*batchvec.Batch, error) {
	if len(call.Args) != 2 {
		return nil, &enginerr.InvalidSqlError{Msg: "fake expects (row_count, schema)"}
	}
	n, ok := call.Args[0].(int64)
	if !ok {
		return nil, &enginerr.InvalidSqlError{Msg: "fake row_count must be an integer"}
	}
	schema, ok := call.Args[1].(map[string]string)
	if !ok {
		return nil, &enginerr.InvalidSqlError{Msg: "fake schema must be a column-name-to-kind map"}
	}

	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	// Deterministic column order regardless of map iteration order.
	sort.Strings(names)

	cols := make([]batchvec.Column, 0, len(names))
	for _, name := range names {
		cols = append(cols, fakeColumn(name, schema[name], int(n)))
	}
	return batchvec.MustNew(cols), nil
}

func fakeColumn(name, kind string, n int) batchvec.Column {
	switch strings.ToLower(kind) {
	case "int", "int64":
		v := make(batchvec.Int64Vector, n)
		for i := range v {
			v[i] = int64(i)
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: v}
	case "float", "float64":
		v := make(batchvec.Float64Vector, n)
		for i := range v {
			v[i] = fakeFraction(i)
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: v}
	case "bool", "boolean":
		v := make(batchvec.BoolVector, n)
		for i := range v {
			v[i] = i%2 == 0
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: v}
	default:
		v := make(batchvec.StringVector, n)
		for i := range v {
			v[i] = fmt.Sprintf("%s-%d", name, i)
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: v}
	}
}

func fakeFraction(i int) float64 {
	return float64((int64(i)*2654435761)%1000) / 1000.0
}
