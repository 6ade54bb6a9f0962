package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/didudo/didudo/types"

	_ "modernc.org/sqlite"
)

// SQLiteBackend persists the state in an embedded SQLite database: one
// table per record kind with foreign-key columns for the parent scope.
// Save replaces all rows inside a single transaction, so a save is
// all-or-nothing like the JSON backend's atomic rename.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (creating if needed) the database at path and
// applies the schema.
func NewSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, types.StorageError{Op: "open", Err: err}
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness for multi-process local usage.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, types.StorageError{Op: "open", Err: err}
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, types.StorageError{Op: "migrate", Err: err}
	}
	return &SQLiteBackend{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS folders (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			pos INTEGER NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			folder_id TEXT NOT NULL,
			pos INTEGER NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_categories_folder ON categories(folder_id);`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			done INTEGER NOT NULL,
			category_id TEXT NOT NULL,
			pos INTEGER NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category_id);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Load reads all rows in insertion order. An empty database loads as
// empty state.
func (b *SQLiteBackend) Load(ctx context.Context) (*Data, error) {
	data := NewData(time.Now())
	if err := b.loadMeta(ctx, data); err != nil {
		return nil, types.StorageError{Op: "load", Err: err}
	}

	rows, err := b.db.QueryContext(ctx, `SELECT id, name, created_at_unixms FROM folders ORDER BY pos`)
	if err != nil {
		return nil, types.StorageError{Op: "load", Err: err}
	}
	defer rows.Close()
	for rows.Next() {
		var f types.Folder
		var createdMs int64
		if err := rows.Scan(&f.ID, &f.Name, &createdMs); err != nil {
			return nil, types.StorageError{Op: "load", Err: err}
		}
		f.CreatedAt = time.UnixMilli(createdMs).UTC()
		data.Folders = append(data.Folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, types.StorageError{Op: "load", Err: err}
	}

	crows, err := b.db.QueryContext(ctx, `SELECT id, name, folder_id, created_at_unixms FROM categories ORDER BY pos`)
	if err != nil {
		return nil, types.StorageError{Op: "load", Err: err}
	}
	defer crows.Close()
	for crows.Next() {
		var c types.Category
		var createdMs int64
		if err := crows.Scan(&c.ID, &c.Name, &c.FolderID, &createdMs); err != nil {
			return nil, types.StorageError{Op: "load", Err: err}
		}
		c.CreatedAt = time.UnixMilli(createdMs).UTC()
		data.Categories = append(data.Categories, c)
	}
	if err := crows.Err(); err != nil {
		return nil, types.StorageError{Op: "load", Err: err}
	}

	irows, err := b.db.QueryContext(ctx, `SELECT id, name, done, category_id, created_at_unixms FROM items ORDER BY pos`)
	if err != nil {
		return nil, types.StorageError{Op: "load", Err: err}
	}
	defer irows.Close()
	for irows.Next() {
		var it types.Item
		var done int
		var createdMs int64
		if err := irows.Scan(&it.ID, &it.Name, &done, &it.CategoryID, &createdMs); err != nil {
			return nil, types.StorageError{Op: "load", Err: err}
		}
		it.Done = done != 0
		it.CreatedAt = time.UnixMilli(createdMs).UTC()
		data.Items = append(data.Items, it)
	}
	if err := irows.Err(); err != nil {
		return nil, types.StorageError{Op: "load", Err: err}
	}

	return data, nil
}

// loadMeta overlays persisted metadata onto data. A fresh database has
// no meta rows; the NewData defaults then stand.
func (b *SQLiteBackend) loadMeta(ctx context.Context, data *Data) error {
	rows, err := b.db.QueryContext(ctx, `SELECT k, v FROM meta`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return err
		}
		switch k {
		case "version":
			data.Metadata.Version = v
		case "created_at_unixms":
			ms, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("meta %s: %w", k, err)
			}
			data.Metadata.CreatedAt = time.UnixMilli(ms).UTC()
		case "updated_at_unixms":
			ms, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("meta %s: %w", k, err)
			}
			data.Metadata.UpdatedAt = time.UnixMilli(ms).UTC()
		}
	}
	return rows.Err()
}

// Save replaces all rows in one transaction.
func (b *SQLiteBackend) Save(ctx context.Context, data *Data) error {
	tx, err := b.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return types.StorageError{Op: "save", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveTx(ctx, tx, data); err != nil {
		return types.StorageError{Op: "save", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return types.StorageError{Op: "save", Err: err}
	}
	return nil
}

func saveTx(ctx context.Context, tx *sql.Tx, data *Data) error {
	for _, t := range []string{"folders", "categories", "items"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}
	metaRows := map[string]string{
		"version":           data.Metadata.Version,
		"created_at_unixms": strconv.FormatInt(data.Metadata.CreatedAt.UTC().UnixMilli(), 10),
		"updated_at_unixms": strconv.FormatInt(data.Metadata.UpdatedAt.UTC().UnixMilli(), 10),
	}
	for k, v := range metaRows {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}

	for pos, f := range data.Folders {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO folders(id, name, pos, created_at_unixms) VALUES(?, ?, ?, ?)`,
			f.ID, f.Name, pos, f.CreatedAt.UTC().UnixMilli()); err != nil {
			return err
		}
	}
	for pos, c := range data.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories(id, name, folder_id, pos, created_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.FolderID, pos, c.CreatedAt.UTC().UnixMilli()); err != nil {
			return err
		}
	}
	for pos, it := range data.Items {
		done := 0
		if it.Done {
			done = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items(id, name, done, category_id, pos, created_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			it.ID, it.Name, done, it.CategoryID, pos, it.CreatedAt.UTC().UnixMilli()); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
