package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists every key into a single JSON object on disk. The file
// is rewritten on each mutation.
type FileStore struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

// NewFileStore opens the store at path, loading existing content if the
// file is present.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store: empty path")
	}
	fs := &FileStore{path: path}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) load() error {
	f, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			fs.values = make(map[string]string)
			return nil
		}
		return fmt.Errorf("open %s: %w", fs.path, err)
	}
	defer f.Close()

	values := make(map[string]string)
	if err := json.NewDecoder(f).Decode(&values); err != nil {
		return fmt.Errorf("decode %s: %w", fs.path, err)
	}
	fs.values = values
	return nil
}

// save writes values to a temp file next to the store and renames it over
// the store file.
func (fs *FileStore) save(values map[string]string) error {
	f, err := os.CreateTemp(filepath.Dir(fs.path), filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", fs.path, err)
	}
	tmp := f.Name()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(values); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode %s: %w", fs.path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

func (fs *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	v, ok := fs.values[key]
	return v, ok, nil
}

func (fs *FileStore) Set(_ context.Context, key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	next := maps.Clone(fs.values)
	next[key] = value
	if err := fs.save(next); err != nil {
		return err
	}
	fs.values = next
	return nil
}

func (fs *FileStore) Remove(_ context.Context, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.values[key]; !ok {
		return nil
	}
	next := maps.Clone(fs.values)
	delete(next, key)
	if err := fs.save(next); err != nil {
		return err
	}
	fs.values = next
	return nil
}
