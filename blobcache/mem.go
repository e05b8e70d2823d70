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

import (
	"fmt"
	"sync"
)

// Mem is an in-process Cache backed by a map, guarded by its own
// lock (the Cache contract requires implementations to own their own
// locking, per spec.md §5's shared-resource policy). It is meant for
// tests, the cmd/colsql demo, and single-process deployments; a
// production cache would instead be backed by local disk (as
// tenant/dcache.Cache is in the teacher) or a network service.
type Mem struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMem returns an empty Mem cache.
func NewMem() *Mem {
	return &Mem{items: make(map[string][]byte)}
}

func (m *Mem) Get(key string) ([]byte, error) {
	m.mu.RLock()
	sealed, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	data, err := Unseal(sealed)
	if err != nil {
		return nil, fmt.Errorf("blobcache: mem entry %s: %w", key, err)
	}
	return data, nil
}

func (m *Mem) Set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = Seal(append([]byte(nil), data...))
	return nil
}

// Len reports the number of entries currently cached.
func (m *Mem) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
