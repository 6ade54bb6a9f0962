// Package didudo is a hierarchical task store: folders own categories,
// categories own items. It provides durable persistence with cascade
// delete, typed queries, per-screen projections kept in sync with the
// store, and case- and diacritic-insensitive substring search.
package didudo

import (
	"context"

	"github.com/didudo/didudo/store"
	"github.com/didudo/didudo/types"
)

// Record model aliases, so callers only need this package for common use.
type (
	Folder   = types.Folder
	Category = types.Category
	Item     = types.Item
	Kind     = types.Kind
)

const (
	KindFolder   = types.KindFolder
	KindCategory = types.KindCategory
	KindItem     = types.KindItem
)

// Open creates a Tracker over the default JSON file backend at path.
func Open(path string, opts ...store.Option) (*Tracker, error) {
	s, err := store.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	return NewTracker(s), nil
}

// OpenConfig creates a Tracker using the backend the config names.
func OpenConfig(ctx context.Context, cfg store.Config, opts ...store.Option) (*Tracker, error) {
	backend, err := cfg.NewBackend(ctx)
	if err != nil {
		return nil, err
	}
	s, err := store.New(backend, opts...)
	if err != nil {
		return nil, err
	}
	return NewTracker(s), nil
}
