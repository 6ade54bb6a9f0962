package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/didudo/didudo/types"
)

const (
	lockTimeout    = 3 * time.Second
	lockRetryDelay = 100 * time.Millisecond
)

// JSONBackend persists the full state as a single JSON document. Writes
// are atomic (temp file plus rename) and guarded by a cross-process file
// lock next to the data file.
type JSONBackend struct {
	filePath string
	fs       FileSystem
	fileLock FileLock
}

// JSONOption customizes a JSONBackend; used by tests to inject mock file
// systems and locks.
type JSONOption func(*JSONBackend)

// WithFileSystem sets a custom FileSystem implementation.
func WithFileSystem(fs FileSystem) JSONOption {
	return func(b *JSONBackend) { b.fs = fs }
}

// WithFileLockFactory sets a custom FileLockFactory implementation.
func WithFileLockFactory(factory FileLockFactory) JSONOption {
	return func(b *JSONBackend) { b.fileLock = factory.New(b.filePath + ".lock") }
}

// NewJSONBackend creates a JSON file backend for the given path. The file
// does not need to exist yet.
func NewJSONBackend(filePath string, opts ...JSONOption) *JSONBackend {
	b := &JSONBackend{filePath: filePath}
	for _, opt := range opts {
		opt(b)
	}
	if b.fs == nil {
		b.fs = OSFileSystem{}
	}
	if b.fileLock == nil {
		b.fileLock = FlockFactory{}.New(filePath + ".lock")
	}
	return b
}

// Load reads the data file. A missing or empty file is not an error: it
// loads as empty state.
func (b *JSONBackend) Load(ctx context.Context) (*Data, error) {
	var data *Data
	err := b.withLock(ctx, func() error {
		if _, err := b.fs.Stat(b.filePath); errors.Is(err, os.ErrNotExist) {
			data = NewData(time.Now())
			return nil
		}

		raw, err := b.fs.ReadFile(b.filePath)
		if err != nil {
			return err
		}
		if len(raw) == 0 {
			data = NewData(time.Now())
			return nil
		}

		var loaded Data
		if err := json.Unmarshal(raw, &loaded); err != nil {
			return fmt.Errorf("parse: %w", err)
		}
		if loaded.Folders == nil {
			loaded.Folders = []types.Folder{}
		}
		if loaded.Categories == nil {
			loaded.Categories = []types.Category{}
		}
		if loaded.Items == nil {
			loaded.Items = []types.Item{}
		}
		data = &loaded
		return nil
	})
	if err != nil {
		return nil, types.StorageError{Op: "load", Err: err}
	}
	return data, nil
}

// Save writes the state atomically: marshal, write to a temp file, rename
// over the data file while holding the file lock.
func (b *JSONBackend) Save(ctx context.Context, data *Data) error {
	err := b.withLock(ctx, func() error {
		raw, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}

		tmpFile := b.filePath + ".tmp"
		if err := b.fs.WriteFile(tmpFile, raw, 0o644); err != nil {
			return fmt.Errorf("write temp file: %w", err)
		}
		if err := b.fs.Rename(tmpFile, b.filePath); err != nil {
			_ = b.fs.Remove(tmpFile)
			return fmt.Errorf("rename: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.StorageError{Op: "save", Err: err}
	}
	return nil
}

// Close removes the lock file.
func (b *JSONBackend) Close() error {
	_ = b.fs.Remove(b.filePath + ".lock")
	return nil
}

func (b *JSONBackend) withLock(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := b.fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("acquire lock: timed out")
	}
	defer func() { _ = b.fileLock.Unlock() }()

	return fn()
}
