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

// Package enginerr collects the error types the engine exposes at its
// boundary. Callers use errors.As to distinguish them.
package enginerr

import "fmt"

// DatasetNotFoundError is returned when a dataset identifier cannot
// be resolved to any rows: an unknown `$name`, an unbound dotted
// name, or a blob scan that surfaced no partitions with any DATA
// blobs.
type DatasetNotFoundError struct {
	Dataset string
}

func (e *DatasetNotFoundError) Error() string {
	return fmt.Sprintf("dataset not found: %q", e.Dataset)
}

// InvalidSqlError wraps a problem in the (externally produced) SQL
// plan that the engine cannot execute, such as a predicate over a
// column that the evaluator cannot resolve.
type InvalidSqlError struct {
	Msg string
}

func (e *InvalidSqlError) Error() string { return "invalid sql: " + e.Msg }

// InvalidPlanError is raised when an operator is wired with the
// wrong number of producers, e.g. a Selection given zero or two
// producers instead of exactly one.
type InvalidPlanError struct {
	Op       string
	Want     int
	Got      int
}

func (e *InvalidPlanError) Error() string {
	return fmt.Sprintf("invalid plan: %s expects %d producer(s), got %d", e.Op, e.Want, e.Got)
}

// DecodeError wraps a failure to decode a blob's bytes into a batch,
// such as a corrupt file or a schema that the decoder cannot apply.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
