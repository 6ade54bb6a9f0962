// Package store implements the durable hierarchical record store. It
// keeps the canonical state in memory, persists every mutation through a
// storage.Backend, and notifies subscribers after successful writes.
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/didudo/didudo/internal/validation"
	"github.com/didudo/didudo/storage"
	"github.com/didudo/didudo/types"
)

// RootScope is the scope identifier used in change notifications when the
// top-level folder list itself changed.
const RootScope = ""

// Store owns the canonical copy of all records. All operations are safe
// for concurrent use: reads run concurrently, writes are serialized.
type Store struct {
	backend  storage.Backend
	locks    *storage.LockManager
	data     *storage.Data
	logger   *slog.Logger
	timeFunc func() time.Time

	subMu   sync.Mutex
	subs    map[int]func(scopeID string)
	nextSub int
}

// New opens a store over the given backend and loads the persisted state.
func New(backend storage.Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend:  backend,
		locks:    storage.NewLockManager(),
		timeFunc: time.Now,
		subs:     map[int]func(string){},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "store")
	}

	data, err := backend.Load(context.Background())
	if err != nil {
		return nil, err
	}
	s.data = data
	return s, nil
}

// Open is a convenience constructor using the default JSON file backend.
func Open(filePath string, opts ...Option) (*Store, error) {
	return New(storage.NewJSONBackend(filePath), opts...)
}

// SetTimeFunc sets a custom time function for deterministic timestamps in
// tests.
func (s *Store) SetTimeFunc(fn func() time.Time) {
	_ = s.locks.Execute(storage.WriteOperation, func() error {
		s.timeFunc = fn
		return nil
	})
}

// Close releases backend resources.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Subscribe registers fn to be called with the affected scope id after
// every successful mutation. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(scopeID string)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// notify runs outside the write lock so subscribers may query the store.
func (s *Store) notify(scopes ...string) {
	s.subMu.Lock()
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	seen := map[string]bool{}
	for _, scope := range scopes {
		if seen[scope] {
			continue
		}
		seen[scope] = true
		for _, fn := range fns {
			fn(scope)
		}
	}
}

// save persists the current state. It must be called while holding the
// write lock.
func (s *Store) save() error {
	s.data.Metadata.UpdatedAt = s.timeFunc()
	return s.backend.Save(context.Background(), s.data)
}

// AddFolder creates a folder. The name must be non-empty after trimming.
func (s *Store) AddFolder(name string) (types.Folder, error) {
	trimmed, err := validation.Name(name)
	if err != nil {
		return types.Folder{}, err
	}

	folder, err := storage.ExecuteWithResult(s.locks, storage.WriteOperation, func() (types.Folder, error) {
		f := types.Folder{
			ID:        uuid.New().String(),
			Name:      trimmed,
			CreatedAt: s.timeFunc(),
		}
		s.data.Folders = append(s.data.Folders, f)
		if err := s.save(); err != nil {
			s.data.Folders = s.data.Folders[:len(s.data.Folders)-1]
			return types.Folder{}, err
		}
		return f, nil
	})
	if err != nil {
		return types.Folder{}, err
	}

	s.logger.Info("folder added", "id", folder.ID)
	s.notify(RootScope)
	return folder, nil
}

// AddCategory creates a category under an existing folder.
func (s *Store) AddCategory(name, folderID string) (types.Category, error) {
	trimmed, err := validation.Name(name)
	if err != nil {
		return types.Category{}, err
	}

	category, err := storage.ExecuteWithResult(s.locks, storage.WriteOperation, func() (types.Category, error) {
		if _, ok := findByID(s.data.Folders, folderID); !ok {
			return types.Category{}, types.NotFoundError{Kind: types.KindFolder, ID: folderID}
		}
		c := types.Category{
			ID:        uuid.New().String(),
			Name:      trimmed,
			FolderID:  folderID,
			CreatedAt: s.timeFunc(),
		}
		s.data.Categories = append(s.data.Categories, c)
		if err := s.save(); err != nil {
			s.data.Categories = s.data.Categories[:len(s.data.Categories)-1]
			return types.Category{}, err
		}
		return c, nil
	})
	if err != nil {
		return types.Category{}, err
	}

	s.logger.Info("category added", "id", category.ID, "folder", folderID)
	s.notify(folderID)
	return category, nil
}

// AddItem creates an item under an existing category. Done defaults to
// false.
func (s *Store) AddItem(name, categoryID string) (types.Item, error) {
	trimmed, err := validation.Name(name)
	if err != nil {
		return types.Item{}, err
	}

	item, err := storage.ExecuteWithResult(s.locks, storage.WriteOperation, func() (types.Item, error) {
		if _, ok := findByID(s.data.Categories, categoryID); !ok {
			return types.Item{}, types.NotFoundError{Kind: types.KindCategory, ID: categoryID}
		}
		it := types.Item{
			ID:         uuid.New().String(),
			Name:       trimmed,
			Done:       false,
			CategoryID: categoryID,
			CreatedAt:  s.timeFunc(),
		}
		s.data.Items = append(s.data.Items, it)
		if err := s.save(); err != nil {
			s.data.Items = s.data.Items[:len(s.data.Items)-1]
			return types.Item{}, err
		}
		return it, nil
	})
	if err != nil {
		return types.Item{}, err
	}

	s.logger.Info("item added", "id", item.ID, "category", categoryID)
	s.notify(categoryID)
	return item, nil
}

// Rename updates the name of a record of any kind.
func (s *Store) Rename(kind types.Kind, id, newName string) error {
	trimmed, err := validation.Name(newName)
	if err != nil {
		return err
	}

	scope, err := storage.ExecuteWithResult(s.locks, storage.WriteOperation, func() (string, error) {
		switch kind {
		case types.KindFolder:
			i, ok := indexByID(s.data.Folders, id)
			if !ok {
				return "", types.NotFoundError{Kind: kind, ID: id}
			}
			prev := s.data.Folders[i].Name
			s.data.Folders[i].Name = trimmed
			if err := s.save(); err != nil {
				s.data.Folders[i].Name = prev
				return "", err
			}
			return RootScope, nil
		case types.KindCategory:
			i, ok := indexByID(s.data.Categories, id)
			if !ok {
				return "", types.NotFoundError{Kind: kind, ID: id}
			}
			prev := s.data.Categories[i].Name
			s.data.Categories[i].Name = trimmed
			if err := s.save(); err != nil {
				s.data.Categories[i].Name = prev
				return "", err
			}
			return s.data.Categories[i].FolderID, nil
		case types.KindItem:
			i, ok := indexByID(s.data.Items, id)
			if !ok {
				return "", types.NotFoundError{Kind: kind, ID: id}
			}
			prev := s.data.Items[i].Name
			s.data.Items[i].Name = trimmed
			if err := s.save(); err != nil {
				s.data.Items[i].Name = prev
				return "", err
			}
			return s.data.Items[i].CategoryID, nil
		default:
			return "", types.NotFoundError{Kind: kind, ID: id}
		}
	})
	if err != nil {
		return err
	}

	s.logger.Info("renamed", "kind", kind, "id", id)
	s.notify(scope)
	return nil
}

// ToggleDone flips an item's done flag and returns the updated item.
func (s *Store) ToggleDone(itemID string) (types.Item, error) {
	item, err := storage.ExecuteWithResult(s.locks, storage.WriteOperation, func() (types.Item, error) {
		i, ok := indexByID(s.data.Items, itemID)
		if !ok {
			return types.Item{}, types.NotFoundError{Kind: types.KindItem, ID: itemID}
		}
		s.data.Items[i].Done = !s.data.Items[i].Done
		if err := s.save(); err != nil {
			s.data.Items[i].Done = !s.data.Items[i].Done
			return types.Item{}, err
		}
		return s.data.Items[i], nil
	})
	if err != nil {
		return types.Item{}, err
	}

	s.logger.Debug("item toggled", "id", itemID, "done", item.Done)
	s.notify(item.CategoryID)
	return item, nil
}

// Delete removes a record and all of its descendants in one save: a
// folder takes its categories and their items, a category takes its
// items. Deleting an id that no longer exists returns NotFoundError,
// which callers treat as a benign no-op.
func (s *Store) Delete(kind types.Kind, id string) error {
	scopes, err := storage.ExecuteWithResult(s.locks, storage.WriteOperation, func() ([]string, error) {
		prev := s.data.Clone()

		var scopes []string
		switch kind {
		case types.KindFolder:
			i, ok := indexByID(s.data.Folders, id)
			if !ok {
				return nil, types.NotFoundError{Kind: kind, ID: id}
			}
			s.data.Folders = append(s.data.Folders[:i], s.data.Folders[i+1:]...)
			removed := s.removeCategoriesOfFolder(id)
			scopes = append([]string{RootScope, id}, removed...)
		case types.KindCategory:
			i, ok := indexByID(s.data.Categories, id)
			if !ok {
				return nil, types.NotFoundError{Kind: kind, ID: id}
			}
			folderID := s.data.Categories[i].FolderID
			s.data.Categories = append(s.data.Categories[:i], s.data.Categories[i+1:]...)
			s.removeItemsOfCategory(id)
			scopes = []string{folderID, id}
		case types.KindItem:
			i, ok := indexByID(s.data.Items, id)
			if !ok {
				return nil, types.NotFoundError{Kind: kind, ID: id}
			}
			categoryID := s.data.Items[i].CategoryID
			s.data.Items = append(s.data.Items[:i], s.data.Items[i+1:]...)
			scopes = []string{categoryID}
		default:
			return nil, types.NotFoundError{Kind: kind, ID: id}
		}

		if err := s.save(); err != nil {
			s.data = prev
			return nil, err
		}
		return scopes, nil
	})
	if err != nil {
		if types.IsNotFound(err) {
			s.logger.Warn("delete target gone", "kind", kind, "id", id)
		}
		return err
	}

	s.logger.Info("deleted", "kind", kind, "id", id)
	s.notify(scopes...)
	return nil
}

// removeCategoriesOfFolder drops every category in the folder along with
// their items and returns the removed category ids. Caller holds the
// write lock.
func (s *Store) removeCategoriesOfFolder(folderID string) []string {
	var removed []string
	kept := s.data.Categories[:0]
	for _, c := range s.data.Categories {
		if c.FolderID == folderID {
			removed = append(removed, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	s.data.Categories = kept
	for _, categoryID := range removed {
		s.removeItemsOfCategory(categoryID)
	}
	return removed
}

func (s *Store) removeItemsOfCategory(categoryID string) {
	kept := s.data.Items[:0]
	for _, it := range s.data.Items {
		if it.CategoryID == categoryID {
			continue
		}
		kept = append(kept, it)
	}
	s.data.Items = kept
}

// Folders returns a copy of all folders in insertion order.
func (s *Store) Folders() []types.Folder {
	out, _ := storage.ExecuteWithResult(s.locks, storage.ReadOperation, func() ([]types.Folder, error) {
		cp := make([]types.Folder, len(s.data.Folders))
		copy(cp, s.data.Folders)
		return cp, nil
	})
	return out
}

// Categories returns a copy of all categories in insertion order.
func (s *Store) Categories() []types.Category {
	out, _ := storage.ExecuteWithResult(s.locks, storage.ReadOperation, func() ([]types.Category, error) {
		cp := make([]types.Category, len(s.data.Categories))
		copy(cp, s.data.Categories)
		return cp, nil
	})
	return out
}

// Items returns a copy of all items in insertion order.
func (s *Store) Items() []types.Item {
	out, _ := storage.ExecuteWithResult(s.locks, storage.ReadOperation, func() ([]types.Item, error) {
		cp := make([]types.Item, len(s.data.Items))
		copy(cp, s.data.Items)
		return cp, nil
	})
	return out
}

// FolderByID looks up a folder.
func (s *Store) FolderByID(id string) (types.Folder, bool) {
	return lookup(s, func() ([]types.Folder, int) {
		i, ok := indexByID(s.data.Folders, id)
		if !ok {
			return nil, -1
		}
		return s.data.Folders, i
	})
}

// CategoryByID looks up a category.
func (s *Store) CategoryByID(id string) (types.Category, bool) {
	return lookup(s, func() ([]types.Category, int) {
		i, ok := indexByID(s.data.Categories, id)
		if !ok {
			return nil, -1
		}
		return s.data.Categories, i
	})
}

// ItemByID looks up an item.
func (s *Store) ItemByID(id string) (types.Item, bool) {
	return lookup(s, func() ([]types.Item, int) {
		i, ok := indexByID(s.data.Items, id)
		if !ok {
			return nil, -1
		}
		return s.data.Items, i
	})
}

func lookup[T types.Record](s *Store, find func() ([]T, int)) (T, bool) {
	type result struct {
		rec T
		ok  bool
	}
	out, _ := storage.ExecuteWithResult(s.locks, storage.ReadOperation, func() (result, error) {
		recs, i := find()
		if i < 0 {
			return result{}, nil
		}
		return result{rec: recs[i], ok: true}, nil
	})
	return out.rec, out.ok
}

func findByID[T types.Record](recs []T, id string) (T, bool) {
	i, ok := indexByID(recs, id)
	if !ok {
		var zero T
		return zero, false
	}
	return recs[i], true
}

func indexByID[T types.Record](recs []T, id string) (int, bool) {
	for i := range recs {
		if recs[i].RecordID() == id {
			return i, true
		}
	}
	return 0, false
}
