package keyValue_test

import (
	"context"
	"errors"
	"incordes-client/internal/database"
	"incordes-client/internal/keyValue"
	"incordes-client/internal/models"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func stores(t *testing.T) map[string]keyValue.Store {
	t.Helper()
	sugar := zap.NewNop().Sugar()

	db, dialect, err := database.Setup(&models.ConfigFile{SessionBackend: "sqlite", SqlitePath: filepath.Join(t.TempDir(), "kv.db")})
	if err != nil {
		t.Fatalf("database setup failed: %v", err)
	}

	result := map[string]keyValue.Store{
		"memory": keyValue.NewMemoryStore(sugar),
		"sqlite": keyValue.NewSQLStore(db, dialect, sugar),
		"sealed": keyValue.NewSealed(keyValue.NewMemoryStore(sugar), "secret"),
	}

	if addr := os.Getenv("INCORDES_TEST_REDIS"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		result["redis"] = keyValue.NewRedisStore(client, "incordes-test:", sugar)
	}

	t.Cleanup(func() {
		for _, s := range result {
			s.Close()
		}
	})
	return result
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get(ctx, "missing"); !errors.Is(err, keyValue.ErrNotFound) {
				t.Errorf("Get(missing) got %v, want ErrNotFound", err)
			}

			err := store.SetMany(ctx, map[string]string{"a": "1", "b": `{"x":"y"}`})
			if err != nil {
				t.Fatalf("SetMany failed: %v", err)
			}

			if v, err := store.Get(ctx, "b"); err != nil || v != `{"x":"y"}` {
				t.Errorf("Get(b) got (%q, %v)", v, err)
			}

			if err := store.SetMany(ctx, map[string]string{"a": "2"}); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			if v, _ := store.Get(ctx, "a"); v != "2" {
				t.Errorf("Get(a) after overwrite got %q, want 2", v)
			}

			if err := store.Delete(ctx, "a", "b"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			for _, key := range []string{"a", "b"} {
				if _, err := store.Get(ctx, key); !errors.Is(err, keyValue.ErrNotFound) {
					t.Errorf("Get(%s) after delete got %v, want ErrNotFound", key, err)
				}
			}

			// deleting absent keys is not an error
			if err := store.Delete(ctx, "a"); err != nil {
				t.Errorf("second Delete failed: %v", err)
			}
		})
	}
}

func TestSealedHidesValues(t *testing.T) {
	ctx := context.Background()
	inner := keyValue.NewMemoryStore(zap.NewNop().Sugar())
	sealed := keyValue.NewSealed(inner, "secret")

	if err := sealed.SetMany(ctx, map[string]string{"incordes_token": "t1"}); err != nil {
		t.Fatal(err)
	}

	raw, err := inner.Get(ctx, "incordes_token")
	if err != nil {
		t.Fatal(err)
	}
	if raw == "t1" {
		t.Error("value was stored in the clear")
	}

	other := keyValue.NewSealed(inner, "different")
	if _, err := other.Get(ctx, "incordes_token"); !errors.Is(err, keyValue.ErrUnseal) {
		t.Errorf("Get with wrong secret got %v, want ErrUnseal", err)
	}
}
