package tokenstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ShubhamP528/RentManagement-frontend/internal/database"
)

// failingBackend returns err from every operation.
type failingBackend struct{ err error }

func (f failingBackend) Name() string { return "failing" }
func (f failingBackend) Read(context.Context, string) (string, bool, error) {
	return "", false, f.err
}
func (f failingBackend) Write(context.Context, string, string) error { return f.err }
func (f failingBackend) Delete(context.Context, string) error        { return f.err }
func (f failingBackend) Close() error                                { return nil }

// exerciseStore runs the shared lifecycle against any backend.
func exerciseStore(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()

	if got := store.Get(ctx); got != "" {
		t.Fatalf("Get on empty store = %q, want empty", got)
	}

	if err := store.Set(ctx, "abc"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if got := store.Get(ctx); got != "abc" {
		t.Fatalf("Get after Set = %q, want %q", got, "abc")
	}

	// last write wins
	if err := store.Set(ctx, "def"); err != nil {
		t.Fatalf("second Set returned error: %v", err)
	}
	if got := store.Get(ctx); got != "def" {
		t.Fatalf("Get after overwrite = %q, want %q", got, "def")
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if got := store.Get(ctx); got != "" {
		t.Fatalf("Get after Clear = %q, want empty", got)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear on empty store returned error: %v", err)
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewStore(NewMemory())
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestFileStoreLifecycle(t *testing.T) {
	backend, err := NewFile(filepath.Join(t.TempDir(), "nested", "storage.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	exerciseStore(t, NewStore(backend))
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")

	first, _ := NewFile(path)
	if err := NewStore(first).Set(ctx, "tok-123"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	second, _ := NewFile(path)
	if got := NewStore(second).Get(ctx); got != "tok-123" {
		t.Fatalf("Get from new instance = %q, want tok-123", got)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read storage: %v", err)
	}
	// the token is stored JSON-encoded under the fixed key
	want := `"rent-owner": "\"tok-123\""`
	if !strings.Contains(string(raw), want) {
		t.Fatalf("storage document %s does not contain %s", raw, want)
	}
}

func TestFileStoreCorruptDocumentReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	backend, _ := NewFile(path)
	store := NewStore(backend)
	if got := store.Get(ctx); got != "" {
		t.Fatalf("Get on corrupt document = %q, want empty", got)
	}

	// a fresh login overwrites the corrupt document
	if err := store.Set(ctx, "fresh"); err != nil {
		t.Fatalf("Set over corrupt document: %v", err)
	}
	if got := store.Get(ctx); got != "fresh" {
		t.Fatalf("Get = %q, want fresh", got)
	}
}

func TestStoreGetIgnoresNonJSONValue(t *testing.T) {
	ctx := context.Background()
	backend := NewMemory()
	_ = backend.Write(ctx, Key, "plain-token-not-json")

	if got := NewStore(backend).Get(ctx); got != "" {
		t.Fatalf("Get = %q, want empty for undecodable value", got)
	}
}

func TestStoreBackendErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	store := NewStore(failingBackend{err: boom})

	if got := store.Get(ctx); got != "" {
		t.Errorf("Get with failing backend = %q, want empty", got)
	}
	if err := store.Set(ctx, "abc"); !errors.Is(err, boom) {
		t.Errorf("Set error = %v, want wrapped %v", err, boom)
	}
	if err := store.Clear(ctx); !errors.Is(err, boom) {
		t.Errorf("Clear error = %v, want wrapped %v", err, boom)
	}
}

func TestSQLiteStoreLifecycle(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	backend, err := NewSQLite(db, true)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	store := NewStore(backend)
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestRedisStoreLifecycle(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store := NewStore(NewRedis(client, "", true))
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)

	_ = store.Set(context.Background(), "abc")
	if !mr.Exists(DefaultRedisPrefix + Key) {
		t.Fatalf("expected key %s in redis", DefaultRedisPrefix+Key)
	}
	if ttl := mr.TTL(DefaultRedisPrefix + Key); ttl != 0 {
		t.Fatalf("token key has TTL %v, want none", ttl)
	}
}

func TestPostgresStoreLifecycle(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres token store test")
	}
	store, err := New(context.Background(), Config{Driver: DriverPostgres, DSN: dsn}, Dependencies{})
	if err != nil {
		t.Fatalf("New postgres store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestFactory(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, err := New(ctx, Config{Driver: DriverMemory}, Dependencies{})
		if err != nil {
			t.Fatalf("New memory: %v", err)
		}
		if store.Backend() != DriverMemory {
			t.Fatalf("Backend() = %q", store.Backend())
		}
	})

	t.Run("default is file", func(t *testing.T) {
		store, err := New(ctx, Config{Path: filepath.Join(t.TempDir(), "s.json")}, Dependencies{})
		if err != nil {
			t.Fatalf("New default: %v", err)
		}
		if store.Backend() != DriverFile {
			t.Fatalf("Backend() = %q, want file", store.Backend())
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := New(ctx, Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "kv.db")}, Dependencies{})
		if err != nil {
			t.Fatalf("New sqlite: %v", err)
		}
		defer store.Close()
		if err := store.Set(ctx, "factory-sqlite"); err != nil {
			t.Fatalf("Set: %v", err)
		}
	})

	t.Run("redis", func(t *testing.T) {
		mr, err := miniredis.Run()
		if err != nil {
			t.Fatalf("miniredis: %v", err)
		}
		defer mr.Close()

		store, err := New(ctx, Config{Driver: DriverRedis, RedisURL: "redis://" + mr.Addr()}, Dependencies{})
		if err != nil {
			t.Fatalf("New redis: %v", err)
		}
		defer store.Close()
		if err := store.Set(ctx, "factory-redis"); err != nil {
			t.Fatalf("Set: %v", err)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if _, err := New(ctx, Config{Driver: "keychain"}, Dependencies{}); err == nil {
			t.Fatal("expected error for unsupported driver")
		}
	})

	t.Run("file without path", func(t *testing.T) {
		if _, err := New(ctx, Config{Driver: DriverFile}, Dependencies{}); err == nil {
			t.Fatal("expected error for file driver without path")
		}
	})
}
