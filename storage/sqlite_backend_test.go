package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/didudo/didudo/types"
)

func openSQLite(t *testing.T) *SQLiteBackend {
	t.Helper()
	b, err := NewSQLiteBackend(context.Background(), filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite backend: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestSQLiteBackendEmptyDatabaseLoadsEmpty(t *testing.T) {
	b := openSQLite(t)
	data, err := b.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(data.Folders) != 0 || len(data.Categories) != 0 || len(data.Items) != 0 {
		t.Error("expected empty state for fresh database")
	}
}

func TestSQLiteBackendRoundTrip(t *testing.T) {
	b := openSQLite(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := b.Save(ctx, testData(now)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Folders) != 1 || loaded.Folders[0].Name != "Work" {
		t.Fatalf("folder did not round-trip: %+v", loaded.Folders)
	}
	if !loaded.Folders[0].CreatedAt.Equal(now) {
		t.Errorf("created_at did not round-trip: %v", loaded.Folders[0].CreatedAt)
	}
	if len(loaded.Categories) != 1 || loaded.Categories[0].FolderID != "f1" {
		t.Errorf("category did not round-trip: %+v", loaded.Categories)
	}
	if len(loaded.Items) != 1 || !loaded.Items[0].Done || loaded.Items[0].CategoryID != "c1" {
		t.Errorf("item did not round-trip: %+v", loaded.Items)
	}
}

func TestSQLiteBackendPreservesInsertionOrder(t *testing.T) {
	b := openSQLite(t)
	ctx := context.Background()
	now := time.Now()

	data := NewData(now)
	for _, name := range []string{"Zebra", "Alpha", "Middle"} {
		data.Folders = append(data.Folders, types.Folder{ID: "f-" + name, Name: name, CreatedAt: now})
	}
	if err := b.Save(ctx, data); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	for i, want := range []string{"Zebra", "Alpha", "Middle"} {
		if loaded.Folders[i].Name != want {
			t.Errorf("position %d: expected %q, got %q", i, want, loaded.Folders[i].Name)
		}
	}
}

func TestSQLiteBackendSaveReplacesAllRows(t *testing.T) {
	b := openSQLite(t)
	ctx := context.Background()
	now := time.Now()

	if err := b.Save(ctx, testData(now)); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	// Second save with the item removed must not leave the old row behind.
	data := testData(now)
	data.Items = []types.Item{}
	if err := b.Save(ctx, data); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	loaded, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Items) != 0 {
		t.Errorf("expected 0 items after replacing save, got %d", len(loaded.Items))
	}
	if len(loaded.Folders) != 1 {
		t.Errorf("expected 1 folder, got %d", len(loaded.Folders))
	}
}

func TestSQLiteBackendMetadataRoundTrip(t *testing.T) {
	b := openSQLite(t)
	ctx := context.Background()

	created := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	data := NewData(created)
	data.Metadata.UpdatedAt = updated

	if err := b.Save(ctx, data); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Metadata.Version != data.Metadata.Version {
		t.Errorf("version did not round-trip: %q", loaded.Metadata.Version)
	}
	if !loaded.Metadata.CreatedAt.Equal(created) {
		t.Errorf("created_at did not round-trip: %v", loaded.Metadata.CreatedAt)
	}
	if !loaded.Metadata.UpdatedAt.Equal(updated) {
		t.Errorf("updated_at did not round-trip: %v", loaded.Metadata.UpdatedAt)
	}
}

func TestSQLiteBackendReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tracker.db")
	now := time.Now()

	b, err := NewSQLiteBackend(ctx, path)
	if err != nil {
		t.Fatalf("failed to open sqlite backend: %v", err)
	}
	if err := b.Save(ctx, testData(now)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened, err := NewSQLiteBackend(ctx, path)
	if err != nil {
		t.Fatalf("failed to reopen sqlite backend: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	loaded, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Folders) != 1 {
		t.Errorf("state lost across reopen: %d folders", len(loaded.Folders))
	}
}
