package resolver

import (
	"sort"
	"strings"
)

// CatalogEntry is one data view known to the resolver.
type CatalogEntry struct {
	ID   string
	Name string
}

// CatalogIndex is an immutable id and name lookup built from a catalog
// listing. Name lookups are case-insensitive.
type CatalogIndex struct {
	ids     map[string]struct{}
	byName  map[string][]string
	entries []CatalogEntry
}

// NewCatalogIndex builds an index over the given entries.
func NewCatalogIndex(entries []CatalogEntry) *CatalogIndex {
	ix := &CatalogIndex{
		ids:     make(map[string]struct{}, len(entries)),
		byName:  make(map[string][]string),
		entries: entries,
	}
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		ix.ids[e.ID] = struct{}{}
		if e.Name != "" {
			key := strings.ToLower(e.Name)
			ix.byName[key] = append(ix.byName[key], e.ID)
		}
	}
	return ix
}

// HasID reports whether the catalog contains the exact id.
func (ix *CatalogIndex) HasID(id string) bool {
	_, ok := ix.ids[id]
	return ok
}

// IDsForName returns all catalog ids whose name matches, case-insensitively.
func (ix *CatalogIndex) IDsForName(name string) []string {
	ids := ix.byName[strings.ToLower(name)]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Names returns all distinct display names in the catalog, sorted. Useful
// for building did-you-mean suggestions from FindSimilar.
func (ix *CatalogIndex) Names() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, e := range ix.entries {
		if e.Name == "" {
			continue
		}
		if _, dup := seen[e.Name]; dup {
			continue
		}
		seen[e.Name] = struct{}{}
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// Resolution is the outcome of resolving user-supplied tokens. IDs holds all
// resolved ids in token order; ByName records, for every token treated as a
// name, the candidate ids it matched. A zero-length candidate list therefore
// means "unknown name" while more than one means "ambiguous" — the resolver
// surfaces ambiguity and never silently picks one. Callers expecting exactly
// one id per token must reject multi-id entries.
type Resolution struct {
	IDs    []string
	ByName map[string][]string
}

// ResolveNames resolves tokens against the catalog. A token that matches an
// existing id verbatim passes through unchanged with no ambiguity entry;
// anything else is treated as a name and contributes every id it matches.
func ResolveNames(tokens []string, index *CatalogIndex) Resolution {
	res := Resolution{ByName: make(map[string][]string)}
	for _, token := range tokens {
		if index.HasID(token) {
			res.IDs = append(res.IDs, token)
			continue
		}
		ids := index.IDsForName(token)
		res.ByName[token] = ids
		res.IDs = append(res.IDs, ids...)
	}
	return res
}
