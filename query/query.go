// Package query provides the typed fetch layer over store snapshots:
// optional predicate filtering, parent scoping, and ordering. Zero
// matches is an empty slice, never an error.
package query

import (
	"sort"
	"strings"

	"github.com/didudo/didudo/types"
)

// Predicate decides whether a record is included in a result.
type Predicate[T types.Record] func(T) bool

// Options configures a fetch.
type Options[T types.Record] struct {
	// Predicate filters records; nil means match all.
	Predicate Predicate[T]

	// Sort orders the result. SortInsertion (the zero value) preserves
	// the snapshot's order.
	Sort types.SortOrder
}

// Execute filters and orders a snapshot. The input slice is not mutated.
func Execute[T types.Record](recs []T, opts Options[T]) []T {
	result := make([]T, 0, len(recs))
	for _, rec := range recs {
		if opts.Predicate != nil && !opts.Predicate(rec) {
			continue
		}
		result = append(result, rec)
	}
	if opts.Sort == types.SortNameAscending {
		SortByName(result)
	}
	return result
}

// SortByName orders records by name, ascending and case-insensitive.
// Equal names keep their relative order.
func SortByName[T types.Record](recs []T) {
	sort.SliceStable(recs, func(i, j int) bool {
		return strings.ToLower(recs[i].RecordName()) < strings.ToLower(recs[j].RecordName())
	})
}

// CategoryInFolder scopes categories to their owning folder.
func CategoryInFolder(folderID string) Predicate[types.Category] {
	return func(c types.Category) bool { return c.FolderID == folderID }
}

// ItemInCategory scopes items to their owning category.
func ItemInCategory(categoryID string) Predicate[types.Item] {
	return func(it types.Item) bool { return it.CategoryID == categoryID }
}
