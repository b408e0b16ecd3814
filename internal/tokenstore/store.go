// Package tokenstore persists the owner's bearer token in durable key-value storage.
package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// Key is the storage entry holding the JSON-encoded token string.
const Key = "rent-owner"

// Backend is a durable key-value store. Implementations must be safe for
// concurrent use; there is no cross-call locking, so the last write wins.
type Backend interface {
	// Read returns the stored value and whether it exists.
	Read(ctx context.Context, key string) (value string, found bool, err error)
	Write(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
	// Name identifies the backend in logs.
	Name() string
}

// Store owns the single persisted token.
type Store struct {
	backend Backend
	key     string
}

// NewStore wraps a backend under the fixed token key.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend, key: Key}
}

// Get returns the persisted token or "" when absent. It never fails: storage
// and parse errors are logged and treated as absence.
func (s *Store) Get(ctx context.Context) string {
	raw, found, err := s.backend.Read(ctx, s.key)
	if err != nil {
		log.Printf("[TokenStore] Read FAILED backend=%s err=%v (treating as anonymous)", s.backend.Name(), err)
		return ""
	}
	if !found || raw == "" {
		return ""
	}

	var token string
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		log.Printf("[TokenStore] Stored token is not a JSON string backend=%s err=%v", s.backend.Name(), err)
		return ""
	}
	return token
}

// Set overwrites the persisted token.
func (s *Store) Set(ctx context.Context, token string) error {
	encoded, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := s.backend.Write(ctx, s.key, string(encoded)); err != nil {
		return fmt.Errorf("write token (%s): %w", s.backend.Name(), err)
	}
	return nil
}

// Clear removes the persisted token. Clearing an empty store succeeds.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("remove token (%s): %w", s.backend.Name(), err)
	}
	return nil
}

// Backend exposes the underlying backend name for diagnostics.
func (s *Store) Backend() string {
	return s.backend.Name()
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
