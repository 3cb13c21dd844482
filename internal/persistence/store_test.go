package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/jobit-client/internal/config"
)

func newRedisStore(t *testing.T) Store {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)
	return NewRedis(config.StorageConfig{RedisAddr: mr.Addr(), RedisKeyPrefix: "jobit:"}, zap.NewNop())
}

// newPostgresStore connects to JOBIT_TEST_POSTGRES_DSN and skips when it is unset.
func newPostgresStore(t *testing.T) Store {
	t.Helper()
	dsn := os.Getenv("JOBIT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("JOBIT_TEST_POSTGRES_DSN not set")
	}
	s, err := NewPostgres(context.Background(), config.StorageConfig{PostgresDSN: dsn, RunMigrations: true}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewPostgres() error: %v", err)
	}
	return s
}

func TestNewPostgresRequiresDSN(t *testing.T) {
	if _, err := NewPostgres(context.Background(), config.StorageConfig{}, zap.NewNop()); err == nil {
		t.Fatal("NewPostgres() without a DSN should fail")
	}
}

func TestStoreContract(t *testing.T) {
	t.Parallel()

	factories := map[string]func(t *testing.T) Store{
		"postgres": newPostgresStore,
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
			if err != nil {
				t.Fatalf("NewFileStore() error: %v", err)
			}
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLite(":memory:")
			if err != nil {
				t.Fatalf("NewSQLite() error: %v", err)
			}
			return s
		},
		"redis": newRedisStore,
		"sealed": func(t *testing.T) Store {
			s, err := NewSealed(NewMemoryStore(), "s3cret")
			if err != nil {
				t.Fatalf("NewSealed() error: %v", err)
			}
			return s
		},
	}

	for name, factory := range factories {
		factory := factory
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := factory(t)
			defer store.Close()

			if err := store.Ping(ctx); err != nil {
				t.Fatalf("Ping() error: %v", err)
			}
			if _, ok, err := store.Get(ctx, "jobit-user"); err != nil || ok {
				t.Fatalf("Get(missing) = ok %v err %v, want absent", ok, err)
			}
			if err := store.Set(ctx, "jobit-user", `{"access_token":"abc"}`); err != nil {
				t.Fatalf("Set() error: %v", err)
			}
			if err := store.Set(ctx, "jobit-user-claims", `{"role":"ADMIN"}`); err != nil {
				t.Fatalf("Set() error: %v", err)
			}
			if err := store.Set(ctx, "jobit-user", `{"access_token":"def"}`); err != nil {
				t.Fatalf("Set(overwrite) error: %v", err)
			}
			v, ok, err := store.Get(ctx, "jobit-user")
			if err != nil || !ok || v != `{"access_token":"def"}` {
				t.Fatalf("Get() = %q %v %v", v, ok, err)
			}

			if err := store.Delete(ctx, "jobit-user", "jobit-user-claims"); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			if err := store.Delete(ctx, "jobit-user", "jobit-user-claims"); err != nil {
				t.Fatalf("second Delete() error: %v", err)
			}
			for _, k := range []string{"jobit-user", "jobit-user-claims"} {
				if _, ok, _ := store.Get(ctx, k); ok {
					t.Errorf("%s still present after Delete", k)
				}
			}
		})
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	first, _ := NewFileStore(path)
	if err := first.Set(ctx, "jobit-user", "token"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	second, _ := NewFileStore(path)
	v, ok, err := second.Get(ctx, "jobit-user")
	if err != nil || !ok || v != "token" {
		t.Fatalf("Get() = %q %v %v", v, ok, err)
	}
}

func TestFileStoreCorruptDocument(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	store, _ := NewFileStore(path)
	if _, _, err := store.Get(context.Background(), "jobit-user"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSealedStoreHidesPlaintext(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner := NewMemoryStore()
	sealed, err := NewSealed(inner, "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if err := sealed.Set(ctx, "jobit-user", "plain-token"); err != nil {
		t.Fatal(err)
	}
	raw, _, _ := inner.Get(ctx, "jobit-user")
	if raw == "plain-token" || raw == "" {
		t.Fatalf("inner value not sealed: %q", raw)
	}

	other, _ := NewSealed(inner, "different")
	if _, _, err := other.Get(ctx, "jobit-user"); !errors.Is(err, ErrSealBroken) {
		t.Errorf("wrong secret err = %v, want ErrSealBroken", err)
	}

	_ = inner.Set(ctx, "jobit-user", "tampered")
	if _, _, err := sealed.Get(ctx, "jobit-user"); !errors.Is(err, ErrSealBroken) {
		t.Errorf("tampered err = %v, want ErrSealBroken", err)
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	_ = store.Close()
	if err := store.Set(context.Background(), "k", "v"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Set() after Close err = %v", err)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	logger := zap.NewNop()

	store, err := Open(ctx, config.StorageConfig{Driver: "memory"}, logger)
	if err != nil {
		t.Fatalf("Open(memory) error: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Errorf("Open(memory) = %T", store)
	}

	store, err = Open(ctx, config.StorageConfig{Driver: "sqlite", Path: ":memory:", Secret: "k"}, logger)
	if err != nil {
		t.Fatalf("Open(sqlite sealed) error: %v", err)
	}
	if _, ok := store.(*Sealed); !ok {
		t.Errorf("Open(sqlite sealed) = %T", store)
	}
	store.Close()

	if _, err := Open(ctx, config.StorageConfig{Driver: "postgres"}, logger); err == nil {
		t.Error("Open(postgres) without DSN should fail")
	}
	if _, err := Open(ctx, config.StorageConfig{Driver: "etcd"}, logger); err == nil {
		t.Error("Open(etcd) should fail")
	}
}
