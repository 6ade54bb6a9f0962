// Package search implements substring matching over record names:
// case- and diacritic-insensitive containment, with a one-level lookahead
// join for categories (a category matches when any of its items does).
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/didudo/didudo/query"
	"github.com/didudo/didudo/types"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips combining diacritical marks, so "Crème"
// folds to "creme". Used on both haystack and needle before containment.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// Transform only fails on malformed input; fall back to the
		// original string rather than dropping the record from results.
		folded = s
	}
	return strings.ToLower(folded)
}

// Contains reports whether haystack contains needle under folding.
func Contains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// Engine performs bounded synchronous scans over snapshots. It holds no
// state; each call is a single pass.
type Engine struct{}

// FilterItems returns items whose name contains term, sorted by name
// ascending, case-insensitive.
func (Engine) FilterItems(items []types.Item, term string) []types.Item {
	needle := Fold(term)
	matched := make([]types.Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(Fold(it.Name), needle) {
			matched = append(matched, it)
		}
	}
	query.SortByName(matched)
	return matched
}

// FilterCategories returns categories whose own name contains term, or
// that own at least one item whose name does. itemsOf supplies the items
// of a category for the lookahead join. Results are sorted by name
// ascending, case-insensitive.
func (Engine) FilterCategories(categories []types.Category, itemsOf func(categoryID string) []types.Item, term string) []types.Category {
	needle := Fold(term)
	matched := make([]types.Category, 0, len(categories))
	for _, c := range categories {
		if strings.Contains(Fold(c.Name), needle) {
			matched = append(matched, c)
			continue
		}
		for _, it := range itemsOf(c.ID) {
			if strings.Contains(Fold(it.Name), needle) {
				matched = append(matched, c)
				break
			}
		}
	}
	query.SortByName(matched)
	return matched
}
