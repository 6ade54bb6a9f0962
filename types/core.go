// Package types defines the record model shared by all didudo packages.
// Three record kinds form a strict containment hierarchy:
// Folder -> Category -> Item. Categories always belong to a folder and
// items always belong to a category; only items carry a done flag.
package types

import "time"

// Kind identifies one of the three record kinds.
type Kind string

const (
	KindFolder   Kind = "folder"
	KindCategory Kind = "category"
	KindItem     Kind = "item"
)

// Folder is a root-level container for categories.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Category is a task list owned by exactly one folder.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FolderID  string    `json:"folderId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Item is a single task owned by exactly one category.
type Item struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Done       bool      `json:"done"`
	CategoryID string    `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Record is implemented by all three record kinds. It gives generic code
// (queries, projections, search) compile-time access to the identity and
// display name of a record without reflection.
type Record interface {
	RecordID() string
	RecordName() string
	RecordKind() Kind
}

func (f Folder) RecordID() string   { return f.ID }
func (f Folder) RecordName() string { return f.Name }
func (f Folder) RecordKind() Kind   { return KindFolder }

func (c Category) RecordID() string   { return c.ID }
func (c Category) RecordName() string { return c.Name }
func (c Category) RecordKind() Kind   { return KindCategory }

func (i Item) RecordID() string   { return i.ID }
func (i Item) RecordName() string { return i.Name }
func (i Item) RecordKind() Kind   { return KindItem }

// SortOrder selects how query results are ordered.
type SortOrder int

const (
	// SortInsertion preserves the order records were created in.
	SortInsertion SortOrder = iota

	// SortNameAscending orders by record name, ascending and
	// case-insensitive.
	SortNameAscending
)
