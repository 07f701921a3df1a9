package commands

import (
	"fmt"
	"strings"

	catalogerrors "github.com/metriclens/metriclens/internal/errors"
	"github.com/metriclens/metriclens/internal/resolver"
)

const (
	suggestionMaxDistance = 3
	suggestionLimit       = 5
)

// catalogEntries lists the data views known from stored snapshots, memoized
// through the TTL cache keyed by directory.
func catalogEntries(dir string) ([]resolver.CatalogEntry, error) {
	if entries, ok := catalogCache.Get(dir); ok {
		return entries, nil
	}

	infos, err := store.List(dir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var entries []resolver.CatalogEntry
	for _, info := range infos {
		if _, dup := seen[info.DataViewID]; dup {
			continue
		}
		seen[info.DataViewID] = struct{}{}
		entries = append(entries, resolver.CatalogEntry{ID: info.DataViewID, Name: info.DataViewName})
	}
	catalogCache.Set(dir, entries, cfg.Storage.CacheTTL)
	return entries, nil
}

// resolveDataView maps a user-supplied token (id or name) to exactly one data
// view id. Ambiguous names are rejected with the candidate ids; unknown names
// are rejected with did-you-mean suggestions.
func resolveDataView(token, dir string) (string, error) {
	entries, err := catalogEntries(dir)
	if err != nil {
		return "", err
	}
	index := resolver.NewCatalogIndex(entries)
	res := resolver.ResolveNames([]string{token}, index)

	if candidates, wasName := res.ByName[token]; wasName {
		switch len(candidates) {
		case 0:
			err := catalogerrors.NotFound("data view " + token)
			if similar := resolver.FindSimilar(token, index.Names(), suggestionMaxDistance, suggestionLimit); len(similar) > 0 {
				var names []string
				for _, s := range similar {
					names = append(names, s.Value)
				}
				err = err.WithCause("did you mean: " + strings.Join(names, ", "))
			}
			return "", err
		case 1:
			return candidates[0], nil
		default:
			return "", catalogerrors.AmbiguousName(token, candidates)
		}
	}
	if len(res.IDs) != 1 {
		return "", fmt.Errorf("token %q did not resolve to exactly one data view", token)
	}
	return res.IDs[0], nil
}
