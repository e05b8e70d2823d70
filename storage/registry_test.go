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

package storage

import "testing"

type fakeAdapter struct{ Adapter }

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	a := &fakeAdapter{}
	r.Bind("tests", a)

	got, rel, err := r.Resolve("tests.data.parquet")
	if err != nil {
		t.Fatal(err)
	}
	if got != Adapter(a) {
		t.Fatal("resolved wrong adapter")
	}
	if rel != "data/parquet" {
		t.Fatalf("rel = %q, want data/parquet", rel)
	}
}

func TestRegistryResolveUnknown(t *testing.T) {
	r := NewRegistry()
	if _, _, err := r.Resolve("nope.data"); err == nil {
		t.Fatal("expected error for unbound prefix")
	}
}

func TestLoadPrefixes(t *testing.T) {
	cfg, err := LoadPrefixes([]byte("tests: local\nprod: s3\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg["tests"] != "local" || cfg["prod"] != "s3" {
		t.Fatalf("cfg = %v", cfg)
	}
}

func TestDateAddDaysAndParse(t *testing.T) {
	d, err := ParseDate("2020-02-28")
	if err != nil {
		t.Fatal(err)
	}
	next := d.AddDays(1)
	if next.String() != "2020-02-29" {
		t.Fatalf("next = %s, want 2020-02-29", next.String())
	}
}
