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

import (
	"fmt"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"
)

// Registry binds a dotted namespace prefix (e.g. "tests" in
// "tests.data.parquet") to the Adapter that serves it.
type Registry struct {
	byPrefix map[string]Adapter
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byPrefix: make(map[string]Adapter)}
}

// Bind registers adapter as the handler for dataset names beginning
// with prefix + ".".
func (r *Registry) Bind(prefix string, adapter Adapter) {
	r.byPrefix[prefix] = adapter
}

// Resolve finds the Adapter bound to dataset's longest matching
// dotted prefix and returns the adapter-relative path (the dataset
// name with the prefix and its trailing "." removed, with "."
// rewritten to "/", matching the blob reader's path rendering).
func (r *Registry) Resolve(dataset string) (Adapter, string, error) {
	prefixes := make([]string, 0, len(r.byPrefix))
	for p := range r.byPrefix {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })
	for _, p := range prefixes {
		if dataset == p || strings.HasPrefix(dataset, p+".") {
			rel := strings.TrimPrefix(dataset, p)
			rel = strings.TrimPrefix(rel, ".")
			return r.byPrefix[p], strings.ReplaceAll(rel, ".", "/"), nil
		}
	}
	return nil, "", fmt.Errorf("storage: no adapter bound for dataset %q", dataset)
}

// PrefixConfig is the YAML shape for a prefix-registry configuration
// file: a flat mapping of namespace prefix to adapter kind name. The
// kind name is advisory (resolving it to a concrete Adapter
// implementation -- an S3 client, a local filesystem root, a document
// store client -- is a deployment concern outside this module's
// scope, per spec.md §1); LoadPrefixes exists so that configuration
// loading itself follows the same sigs.k8s.io/yaml-based pattern as
// db.TableDefinition in the teacher rather than reaching for a
// bespoke format.
type PrefixConfig map[string]string

// LoadPrefixes decodes a PrefixConfig from YAML (or JSON, which is a
// YAML subset).
func LoadPrefixes(data []byte) (PrefixConfig, error) {
	var cfg PrefixConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("storage: parsing prefix config: %w", err)
	}
	return cfg, nil
}
