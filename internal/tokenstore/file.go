package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// fileBackend keeps all keys in one JSON document, like device async storage.
type fileBackend struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a backend stored at path. Parent directories are created on first write.
func NewFile(path string) (Backend, error) {
	if path == "" {
		return nil, fmt.Errorf("file token store requires a path")
	}
	return &fileBackend{path: path}, nil
}

func (b *fileBackend) Name() string { return DriverFile }

func (b *fileBackend) load() (map[string]string, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.path, err)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}
	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", b.path, err)
	}
	return entries, nil
}

// save writes to a temp file and renames it over the old document.
func (b *fileBackend) save(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, b.path)
}

func (b *fileBackend) Read(_ context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := b.load()
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

func (b *fileBackend) Write(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := b.load()
	if err != nil {
		// a corrupt document must not block a fresh login
		entries = map[string]string{}
	}
	entries[key] = value
	return b.save(entries)
}

func (b *fileBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := b.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return b.save(entries)
}

func (b *fileBackend) Close() error { return nil }
