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

package decode

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/sandstonedb/sandstone/batchvec"
)

func decodeJSONL(data []byte, proj Projection) (*batchvec.Batch, error) {
	return parseJSONL(newReader(data), proj)
}

// decodeZstdJSONL decompresses a zstd-compressed JSONL blob and
// parses it the same way decodeJSONL does, grounded on
// opteryx.storage.file_decoders.zstd_decoder, which simply wraps the
// jsonl decoder with zstandard decompression.
func decodeZstdJSONL(data []byte, proj Projection) (*batchvec.Batch, error) {
	zr, err := zstd.NewReader(newReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: zstd: %w", err)
	}
	defer zr.Close()
	return parseJSONL(zr, proj)
}

// decodeColumnarEnvelope reads the same newline-delimited JSON row
// envelope as decodeJSONL. See the doc comment on Registry for why
// parquet/arrow/orc share this implementation in this module.
func decodeColumnarEnvelope(data []byte, proj Projection) (*batchvec.Batch, error) {
	return parseJSONL(newReader(data), proj)
}

func parseJSONL(r io.Reader, proj Projection) (*batchvec.Batch, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var order []string
	rows := make([]map[string]any, 0, 64)
	seen := map[string]bool{}

	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var row map[string]any
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, fmt.Errorf("decode: jsonl: %w", err)
		}
		for k := range row {
			if !proj.Has(k) {
				delete(row, k)
				continue
			}
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("decode: jsonl: %w", err)
	}

	cols := make([]batchvec.Column, 0, len(order))
	for _, name := range order {
		cols = append(cols, buildColumn(name, rows))
	}
	return batchvec.New(cols)
}

// buildColumn inspects the JSON-decoded values for name across rows
// and builds the narrowest Vector kind that fits them all: int64 if
// every present value is a whole-numbered float64, float64 if any is
// fractional, bool, list, struct, or string as a fallback.
func buildColumn(name string, rows []map[string]any) batchvec.Column {
	allInt, allFloat, allBool, allList, allStruct, present := true, true, true, true, true, false
	for _, r := range rows {
		v, ok := r[name]
		if !ok || v == nil {
			continue
		}
		present = true
		switch x := v.(type) {
		case float64:
			allBool, allList, allStruct = false, false, false
			if x != float64(int64(x)) {
				allInt = false
			}
		case bool:
			allInt, allFloat, allList, allStruct = false, false, false, false
		case []any:
			allInt, allFloat, allBool, allStruct = false, false, false, false
		case map[string]any:
			allInt, allFloat, allBool, allList = false, false, false, false
		default:
			allInt, allFloat, allBool, allList, allStruct = false, false, false, false, false
		}
	}
	if !present {
		allInt, allFloat, allBool, allList, allStruct = false, false, false, false, false
	}

	switch {
	case allInt:
		vals := make(batchvec.Int64Vector, len(rows))
		for i, r := range rows {
			if v, ok := r[name].(float64); ok {
				vals[i] = int64(v)
			}
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: vals}
	case allFloat:
		vals := make(batchvec.Float64Vector, len(rows))
		for i, r := range rows {
			if v, ok := r[name].(float64); ok {
				vals[i] = v
			}
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: vals}
	case allBool:
		vals := make(batchvec.BoolVector, len(rows))
		for i, r := range rows {
			if v, ok := r[name].(bool); ok {
				vals[i] = v
			}
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: vals}
	case allList:
		kind := batchvec.KindListNull
		out := make([][]any, len(rows))
		for i, r := range rows {
			if v, ok := r[name].([]any); ok {
				out[i] = v
				if len(v) > 0 {
					kind = batchvec.KindString
				}
			}
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: batchvec.ListVector{Rows: out, ElemKind: kind}}
	case allStruct:
		out := make(batchvec.StructVector, len(rows))
		for i, r := range rows {
			if v, ok := r[name].(map[string]any); ok {
				out[i] = v
			}
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: out}
	default:
		vals := make(batchvec.StringVector, len(rows))
		for i, r := range rows {
			if v, ok := r[name]; ok && v != nil {
				vals[i] = fmt.Sprintf("%v", v)
			}
		}
		return batchvec.Column{Meta: batchvec.Meta{Name: name}, Data: vals}
	}
}
