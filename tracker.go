package didudo

import (
	"strings"

	"github.com/didudo/didudo/query"
	"github.com/didudo/didudo/search"
	"github.com/didudo/didudo/store"
	"github.com/didudo/didudo/types"
)

// Tracker is the composition root: it owns the store and exposes the
// query, mutation and search surface the screens are built on.
type Tracker struct {
	store  *store.Store
	engine search.Engine
}

// NewTracker wraps an opened store.
func NewTracker(s *store.Store) *Tracker {
	return &Tracker{store: s}
}

// Store exposes the underlying store for advanced callers.
func (t *Tracker) Store() *store.Store { return t.store }

// Close releases the store's backend.
func (t *Tracker) Close() error { return t.store.Close() }

// Subscribe registers a change listener. The callback receives the
// affected scope id (store.RootScope for the folder list) after every
// successful mutation, so parent screens can refresh derived counts.
func (t *Tracker) Subscribe(fn func(scopeID string)) func() {
	return t.store.Subscribe(fn)
}

// ListFolders returns all folders in insertion order.
func (t *Tracker) ListFolders() []types.Folder {
	return t.store.Folders()
}

// ListCategories returns the folder's categories in insertion order.
// scopeMissing is true when the folder itself does not exist; the result
// is then empty, not an error.
func (t *Tracker) ListCategories(folderID string) (categories []types.Category, scopeMissing bool) {
	if _, ok := t.store.FolderByID(folderID); !ok {
		return []types.Category{}, true
	}
	return query.Execute(t.store.Categories(), query.Options[types.Category]{
		Predicate: query.CategoryInFolder(folderID),
	}), false
}

// ListItems returns the category's items in insertion order. scopeMissing
// is true when the category itself does not exist; the result is then
// empty, not an error.
func (t *Tracker) ListItems(categoryID string) (items []types.Item, scopeMissing bool) {
	if _, ok := t.store.CategoryByID(categoryID); !ok {
		return []types.Item{}, true
	}
	return query.Execute(t.store.Items(), query.Options[types.Item]{
		Predicate: query.ItemInCategory(categoryID),
	}), false
}

// AddFolder creates a folder.
func (t *Tracker) AddFolder(name string) (types.Folder, error) {
	return t.store.AddFolder(name)
}

// AddCategory creates a category under a folder.
func (t *Tracker) AddCategory(name, folderID string) (types.Category, error) {
	return t.store.AddCategory(name, folderID)
}

// AddItem creates an item under a category.
func (t *Tracker) AddItem(name, categoryID string) (types.Item, error) {
	return t.store.AddItem(name, categoryID)
}

// Rename updates a record's name.
func (t *Tracker) Rename(kind types.Kind, id, newName string) error {
	return t.store.Rename(kind, id, newName)
}

// ToggleDone flips an item's done flag.
func (t *Tracker) ToggleDone(itemID string) (types.Item, error) {
	return t.store.ToggleDone(itemID)
}

// Delete removes a record and cascades to its descendants.
func (t *Tracker) Delete(kind types.Kind, id string) error {
	return t.store.Delete(kind, id)
}

// SearchCategories matches categories in the folder whose name contains
// term, or that own an item whose name does. A blank term means "no
// filter": the unfiltered scoped listing is returned with
// isFilterActive false. Filtered results are sorted by name ascending.
func (t *Tracker) SearchCategories(folderID, term string) (results []types.Category, isFilterActive bool) {
	scoped, _ := t.ListCategories(folderID)
	if strings.TrimSpace(term) == "" {
		return scoped, false
	}
	itemsOf := func(categoryID string) []types.Item {
		items, _ := t.ListItems(categoryID)
		return items
	}
	return t.engine.FilterCategories(scoped, itemsOf, term), true
}

// SearchItems matches items in the category whose own name contains
// term. A blank term returns the unfiltered scoped listing with
// isFilterActive false. Filtered results are sorted by name ascending.
func (t *Tracker) SearchItems(categoryID, term string) (results []types.Item, isFilterActive bool) {
	scoped, _ := t.ListItems(categoryID)
	if strings.TrimSpace(term) == "" {
		return scoped, false
	}
	return t.engine.FilterItems(scoped, term), true
}
