// Package storage provides the persistence layer for didudo.
// It defines the backend interface for durable state and provides a JSON
// file implementation and a SQLite implementation.
package storage

import (
	"context"
	"time"

	"github.com/didudo/didudo/types"
)

// Data is the complete persisted state: all three record tables plus
// metadata. Backends load and save it as a single unit, which keeps every
// save transactional regardless of backend.
type Data struct {
	Folders    []types.Folder   `json:"folders"`
	Categories []types.Category `json:"categories"`
	Items      []types.Item     `json:"items"`
	Metadata   Metadata         `json:"metadata"`
}

// Metadata contains storage metadata.
type Metadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewData returns an empty Data with initialized metadata.
func NewData(now time.Time) *Data {
	return &Data{
		Folders:    []types.Folder{},
		Categories: []types.Category{},
		Items:      []types.Item{},
		Metadata: Metadata{
			Version:   "1.0",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// Clone returns a deep copy. Record structs contain only value fields, so
// copying the slices is sufficient.
func (d *Data) Clone() *Data {
	out := &Data{
		Folders:    make([]types.Folder, len(d.Folders)),
		Categories: make([]types.Category, len(d.Categories)),
		Items:      make([]types.Item, len(d.Items)),
		Metadata:   d.Metadata,
	}
	copy(out.Folders, d.Folders)
	copy(out.Categories, d.Categories)
	copy(out.Items, d.Items)
	return out
}

// Backend is the durable read/write boundary. Load returns the persisted
// state (empty state when nothing has been saved yet); Save persists the
// given state atomically.
type Backend interface {
	Load(ctx context.Context) (*Data, error)

	Save(ctx context.Context, data *Data) error

	// Close releases any resources held by the backend.
	Close() error
}
