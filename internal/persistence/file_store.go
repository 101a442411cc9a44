package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/shattercrown/internal/telemetry"
	"github.com/samdwyer/shattercrown/internal/world"
)

// fileData is the structure of the save file.
type fileData struct {
	Maps map[string]*world.Snapshot `json:"maps"`
}

// FileStore keeps every named snapshot in one local JSON file, rewritten
// on each save.
type FileStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *fileData
}

// NewFileStore opens or creates the save file at filePath.
func NewFileStore(filePath string) (*FileStore, error) {
	store := &FileStore{
		filePath: filePath,
		data:     &fileData{Maps: make(map[string]*world.Snapshot)},
	}

	if _, err := os.Stat(filePath); err == nil {
		raw, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("read save file: %w", err)
		}
		if err := json.Unmarshal(raw, store.data); err != nil {
			return nil, fmt.Errorf("parse save file %s: %w", filePath, err)
		}
		if store.data.Maps == nil {
			store.data.Maps = make(map[string]*world.Snapshot)
		}
	} else {
		if err := store.writeLocked(); err != nil {
			return nil, fmt.Errorf("create save file: %w", err)
		}
	}

	return store, nil
}

// SaveMap records a snapshot under its name and rewrites the file.
func (fs *FileStore) SaveMap(ctx context.Context, name string, snap *world.Snapshot) error {
	_, span := telemetry.Tracer("persistence").Start(ctx, "map.save")
	defer span.End()
	span.SetAttributes(
		attribute.String("map.name", name),
		attribute.String("store.backend", "file"),
		attribute.Int("map.tiles", len(snap.Grid)),
	)

	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	fs.data.Maps[name] = snap
	if err := fs.writeLocked(); err != nil {
		return fmt.Errorf("save map %q: %w", name, err)
	}

	log.WithField("map", name).Debug("map saved to file")
	return nil
}

// LoadMap returns the snapshot stored under name, or ErrNotFound.
func (fs *FileStore) LoadMap(ctx context.Context, name string) (*world.Snapshot, error) {
	_, span := telemetry.Tracer("persistence").Start(ctx, "map.load")
	defer span.End()
	span.SetAttributes(
		attribute.String("map.name", name),
		attribute.String("store.backend", "file"),
	)

	fs.mutex.RLock()
	defer fs.mutex.RUnlock()

	snap, ok := fs.data.Maps[name]
	if !ok {
		return nil, fmt.Errorf("map %q: %w", name, ErrNotFound)
	}
	return snap, nil
}

// Close is a no-op for the file store.
func (fs *FileStore) Close() error {
	return nil
}

// writeLocked rewrites the save file. The caller holds the write lock.
func (fs *FileStore) writeLocked() error {
	raw, err := json.MarshalIndent(fs.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fs.filePath, raw, 0o644)
}

// Ensure FileStore implements Store
var _ Store = (*FileStore)(nil)
