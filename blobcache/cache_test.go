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

package blobcache

import "testing"

func TestKeyIsStableAndUppercaseHex(t *testing.T) {
	k1 := Key("tests/data.parquet")
	k2 := Key("tests/data.parquet")
	if k1 != k2 {
		t.Fatalf("key not stable: %s vs %s", k1, k2)
	}
	if len(k1) != 16 {
		t.Fatalf("key length = %d, want 16", len(k1))
	}
	for _, r := range k1 {
		if !((r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')) {
			t.Fatalf("key %s is not uppercase hex", k1)
		}
	}
	if Key("other/path") == k1 {
		t.Fatal("expected different paths to hash differently")
	}
}

func TestSealUnsealRoundTrip(t *testing.T) {
	data := []byte("some blob bytes")
	sealed := Seal(data)
	if len(sealed) != digestSize+len(data) {
		t.Fatalf("sealed length = %d, want %d", len(sealed), digestSize+len(data))
	}
	got, err := Unseal(sealed)
	if err != nil {
		t.Fatalf("Unseal: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("got %q, want %q", got, data)
	}
}

func TestUnsealDetectsCorruption(t *testing.T) {
	sealed := Seal([]byte("original"))
	sealed[len(sealed)-1] ^= 0xFF
	if _, err := Unseal(sealed); err == nil {
		t.Fatal("expected integrity error for corrupted entry")
	}
}

func TestMemCacheSurfacesCorruptedEntryAsError(t *testing.T) {
	m := NewMem()
	key := Key("a/b.jsonl")
	if err := m.Set(key, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	m.items[key][len(m.items[key])-1] ^= 0xFF
	if _, err := m.Get(key); err == nil {
		t.Fatal("expected Get to surface the corrupted entry as an error")
	}
}

func TestMemCacheRoundTrip(t *testing.T) {
	m := NewMem()
	key := Key("a/b.jsonl")
	if v, err := m.Get(key); err != nil || v != nil {
		t.Fatalf("expected miss, got v=%v err=%v", v, err)
	}
	if err := m.Set(key, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	v, err := m.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != "hello" {
		t.Fatalf("got %q, want hello", v)
	}
	if m.Len() != 1 {
		t.Fatalf("len = %d, want 1", m.Len())
	}
}
