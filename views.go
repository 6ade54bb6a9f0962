package didudo

import (
	"strings"

	"github.com/didudo/didudo/projection"
	"github.com/didudo/didudo/types"
)

// The three views mirror the three screens of the app: the folder list,
// a folder's categories and a category's items. Each owns a projection
// of its scope and keeps it in sync by appending, replacing or removing
// entries only after the store has persisted the change.

// FolderView is the root screen: the list of all folders.
type FolderView struct {
	tracker *Tracker
	proj    *projection.Projection[types.Folder]
}

// NewFolderView returns an unloaded folder view.
func NewFolderView(t *Tracker) *FolderView {
	return &FolderView{tracker: t, proj: projection.New[types.Folder](nil)}
}

// Load replaces the view with the current folder list.
func (v *FolderView) Load() error {
	return v.proj.Load(func() ([]types.Folder, error) {
		return v.tracker.ListFolders(), nil
	})
}

// Add creates a folder and appends it at the tail of the view.
func (v *FolderView) Add(name string) (types.Folder, error) {
	f, err := v.tracker.AddFolder(name)
	if err != nil {
		return types.Folder{}, err
	}
	v.proj.Append(f)
	return f, nil
}

// RenameAt renames the folder at pos in place.
func (v *FolderView) RenameAt(pos int, newName string) error {
	f, ok := v.proj.At(pos)
	if !ok {
		return projection.ErrIndexOutOfRange
	}
	if err := v.tracker.Rename(types.KindFolder, f.ID, newName); err != nil {
		return err
	}
	f.Name = strings.TrimSpace(newName)
	return v.proj.Replace(pos, f)
}

// RemoveAt deletes the folder at pos, cascading to its categories and
// items, then drops it from the view.
func (v *FolderView) RemoveAt(pos int) error {
	f, ok := v.proj.At(pos)
	if !ok {
		return projection.ErrIndexOutOfRange
	}
	if err := v.tracker.Delete(types.KindFolder, f.ID); err != nil {
		return err
	}
	return v.proj.RemoveAt(pos)
}

// CategoryCountAt returns how many categories the folder at pos holds,
// computed on demand from the store.
func (v *FolderView) CategoryCountAt(pos int) (int, bool) {
	f, ok := v.proj.At(pos)
	if !ok {
		return 0, false
	}
	cats, _ := v.tracker.ListCategories(f.ID)
	return projection.CountInFolder(cats, f.ID), true
}

// At returns the folder at pos.
func (v *FolderView) At(pos int) (types.Folder, bool) { return v.proj.At(pos) }

// Len returns the number of folders in the view.
func (v *FolderView) Len() int { return v.proj.Len() }

// All returns the view's folders in order.
func (v *FolderView) All() []types.Folder { return v.proj.All() }

// CategoryView is a folder's screen: its categories, optionally
// filtered by a search term.
type CategoryView struct {
	tracker  *Tracker
	folderID string
	proj     *projection.Projection[types.Category]

	// ScopeMissing is set by Load when the folder no longer exists;
	// the view is then empty rather than erroring.
	ScopeMissing bool
}

// NewCategoryView returns an unloaded view of the folder's categories.
func NewCategoryView(t *Tracker, folderID string) *CategoryView {
	return &CategoryView{tracker: t, folderID: folderID, proj: projection.New[types.Category](nil)}
}

// Load replaces the view with the folder's categories in insertion
// order and clears any active search filter.
func (v *CategoryView) Load() error {
	return v.proj.Load(func() ([]types.Category, error) {
		cats, missing := v.tracker.ListCategories(v.folderID)
		v.ScopeMissing = missing
		return cats, nil
	})
}

// Search replaces the view with the categories matching term. A blank
// term reloads the unfiltered listing.
func (v *CategoryView) Search(term string) error {
	results, active := v.tracker.SearchCategories(v.folderID, term)
	if !active {
		return v.Load()
	}
	v.proj.SetFiltered(results)
	return nil
}

// FilterActive reports whether the view currently shows search results.
func (v *CategoryView) FilterActive() bool { return v.proj.FilterActive() }

// Add creates a category in the folder and appends it at the tail.
func (v *CategoryView) Add(name string) (types.Category, error) {
	c, err := v.tracker.AddCategory(name, v.folderID)
	if err != nil {
		return types.Category{}, err
	}
	v.proj.Append(c)
	return c, nil
}

// RenameAt renames the category at pos in place.
func (v *CategoryView) RenameAt(pos int, newName string) error {
	c, ok := v.proj.At(pos)
	if !ok {
		return projection.ErrIndexOutOfRange
	}
	if err := v.tracker.Rename(types.KindCategory, c.ID, newName); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(newName)
	return v.proj.Replace(pos, c)
}

// RemoveAt deletes the category at pos, cascading to its items, then
// drops it from the view.
func (v *CategoryView) RemoveAt(pos int) error {
	c, ok := v.proj.At(pos)
	if !ok {
		return projection.ErrIndexOutOfRange
	}
	if err := v.tracker.Delete(types.KindCategory, c.ID); err != nil {
		return err
	}
	return v.proj.RemoveAt(pos)
}

// CountsAt returns the done/open item counts of the category at pos,
// computed on demand from the store.
func (v *CategoryView) CountsAt(pos int) (done, open int, ok bool) {
	c, found := v.proj.At(pos)
	if !found {
		return 0, 0, false
	}
	items, _ := v.tracker.ListItems(c.ID)
	done, open = projection.DoneOpenCounts(items)
	return done, open, true
}

// At returns the category at pos.
func (v *CategoryView) At(pos int) (types.Category, bool) { return v.proj.At(pos) }

// Len returns the number of categories in the view.
func (v *CategoryView) Len() int { return v.proj.Len() }

// All returns the view's categories in order.
func (v *CategoryView) All() []types.Category { return v.proj.All() }

// ItemView is a category's screen: its items, optionally filtered by a
// search term.
type ItemView struct {
	tracker    *Tracker
	categoryID string
	proj       *projection.Projection[types.Item]

	// ScopeMissing is set by Load when the category no longer exists.
	ScopeMissing bool
}

// NewItemView returns an unloaded view of the category's items.
func NewItemView(t *Tracker, categoryID string) *ItemView {
	return &ItemView{tracker: t, categoryID: categoryID, proj: projection.New[types.Item](nil)}
}

// Load replaces the view with the category's items in insertion order
// and clears any active search filter.
func (v *ItemView) Load() error {
	return v.proj.Load(func() ([]types.Item, error) {
		items, missing := v.tracker.ListItems(v.categoryID)
		v.ScopeMissing = missing
		return items, nil
	})
}

// Search replaces the view with the items matching term. A blank term
// reloads the unfiltered listing.
func (v *ItemView) Search(term string) error {
	results, active := v.tracker.SearchItems(v.categoryID, term)
	if !active {
		return v.Load()
	}
	v.proj.SetFiltered(results)
	return nil
}

// FilterActive reports whether the view currently shows search results.
func (v *ItemView) FilterActive() bool { return v.proj.FilterActive() }

// Add creates an item in the category and appends it at the tail.
func (v *ItemView) Add(name string) (types.Item, error) {
	it, err := v.tracker.AddItem(name, v.categoryID)
	if err != nil {
		return types.Item{}, err
	}
	v.proj.Append(it)
	return it, nil
}

// RenameAt renames the item at pos in place.
func (v *ItemView) RenameAt(pos int, newName string) error {
	it, ok := v.proj.At(pos)
	if !ok {
		return projection.ErrIndexOutOfRange
	}
	if err := v.tracker.Rename(types.KindItem, it.ID, newName); err != nil {
		return err
	}
	it.Name = strings.TrimSpace(newName)
	return v.proj.Replace(pos, it)
}

// ToggleAt flips the done flag of the item at pos and updates the view
// with the persisted copy.
func (v *ItemView) ToggleAt(pos int) (types.Item, error) {
	it, ok := v.proj.At(pos)
	if !ok {
		return types.Item{}, projection.ErrIndexOutOfRange
	}
	updated, err := v.tracker.ToggleDone(it.ID)
	if err != nil {
		return types.Item{}, err
	}
	if err := v.proj.Replace(pos, updated); err != nil {
		return types.Item{}, err
	}
	return updated, nil
}

// RemoveAt deletes the item at pos, then drops it from the view.
func (v *ItemView) RemoveAt(pos int) error {
	it, ok := v.proj.At(pos)
	if !ok {
		return projection.ErrIndexOutOfRange
	}
	if err := v.tracker.Delete(types.KindItem, it.ID); err != nil {
		return err
	}
	return v.proj.RemoveAt(pos)
}

// Counts returns the view's done/open item counts.
func (v *ItemView) Counts() (done, open int) {
	return projection.DoneOpenCounts(v.proj.All())
}

// At returns the item at pos.
func (v *ItemView) At(pos int) (types.Item, bool) { return v.proj.At(pos) }

// Len returns the number of items in the view.
func (v *ItemView) Len() int { return v.proj.Len() }

// All returns the view's items in order.
func (v *ItemView) All() []types.Item { return v.proj.All() }
