package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	realincome "github.com/malusev998/real-income"
)

// FileCache keeps one JSON document per key under a directory. Writes go to
// a temporary file in the same directory and are renamed into place, so a
// concurrent reader never observes a partially written entry.
type FileCache struct {
	dir string
}

func NewFileCache(config FileConfig) (*FileCache, error) {
	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return nil, err
	}

	return &FileCache{dir: config.Dir}, nil
}

func (f *FileCache) entryPath(key realincome.Key) string {
	return filepath.Join(f.dir, key.String()+".json")
}

func (f *FileCache) Lookup(_ context.Context, key realincome.Key) (realincome.CacheEntry, bool, error) {
	data, err := os.ReadFile(f.entryPath(key))

	if err != nil {
		return realincome.CacheEntry{}, false, nil
	}

	var entry realincome.CacheEntry

	if err := json.Unmarshal(data, &entry); err != nil || len(entry.Series) == 0 || entry.Key.String() != key.String() {
		// corrupted entry, drop it and treat as a miss
		_ = os.Remove(f.entryPath(key))
		return realincome.CacheEntry{}, false, nil
	}

	return entry, true, nil
}

func (f *FileCache) Store(_ context.Context, key realincome.Key, series realincome.Series) error {
	entry := realincome.CacheEntry{
		Key:       key,
		Series:    series,
		FetchedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, key.String()+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), f.entryPath(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return nil
}

func (f *FileCache) Close() error {
	return nil
}
