package session_test

import (
	"context"
	"errors"
	"incordes-client/internal/keyValue"
	"incordes-client/internal/models"
	"incordes-client/internal/session"
	"testing"

	"go.uber.org/zap"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := session.NewKVRepository(keyValue.NewMemoryStore(zap.NewNop().Sugar()))

	want := session.Session{
		Token: "t1",
		User: models.User{
			ID:         "u1",
			Email:      "ann@example.com",
			UserName:   "ann",
			IncordesID: "ann#0001",
			Avatar:     "https://example.com/a.png",
			Banner:     "https://example.com/b.png",
			Bio:        "hi",
			Theme:      "light",
		},
	}

	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != want {
		t.Errorf("Load got %+v, want %+v", got, want)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name          string
		stored        map[string]string
		expectedError error
	}{
		{
			name:          "Nothing stored",
			stored:        map[string]string{},
			expectedError: session.ErrNoSession,
		},
		{
			name:          "Token without user",
			stored:        map[string]string{session.TokenKey: "t1"},
			expectedError: session.ErrCorrupt,
		},
		{
			name:          "User without token",
			stored:        map[string]string{session.UserKey: `{"id":"u1"}`},
			expectedError: session.ErrCorrupt,
		},
		{
			name:          "User is not json",
			stored:        map[string]string{session.TokenKey: "t1", session.UserKey: "{not json"},
			expectedError: session.ErrCorrupt,
		},
		{
			name:          "User is null",
			stored:        map[string]string{session.TokenKey: "t1", session.UserKey: "null"},
			expectedError: session.ErrCorrupt,
		},
		{
			name:          "Valid session",
			stored:        map[string]string{session.TokenKey: "t1", session.UserKey: `{"id":"u1","username":"ann"}`},
			expectedError: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := keyValue.NewMemoryStore(zap.NewNop().Sugar())
			if err := store.SetMany(ctx, tc.stored); err != nil {
				t.Fatal(err)
			}

			_, err := session.NewKVRepository(store).Load(ctx)
			if tc.expectedError == nil {
				if err != nil {
					t.Errorf("Load failed unexpectedly: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.expectedError) {
				t.Errorf("Load got error %v, want %v", err, tc.expectedError)
			}
		})
	}
}

func TestClearRemovesBothEntries(t *testing.T) {
	ctx := context.Background()
	store := keyValue.NewMemoryStore(zap.NewNop().Sugar())
	repo := session.NewKVRepository(store)

	if err := repo.Save(ctx, session.Session{Token: "t1", User: models.User{ID: "u1"}}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{session.TokenKey, session.UserKey} {
		if _, err := store.Get(ctx, key); !errors.Is(err, keyValue.ErrNotFound) {
			t.Errorf("%s still present after Clear", key)
		}
	}
}

func TestSaveUserKeepsToken(t *testing.T) {
	ctx := context.Background()
	repo := session.NewKVRepository(keyValue.NewMemoryStore(zap.NewNop().Sugar()))

	if err := repo.Save(ctx, session.Session{Token: "t1", User: models.User{ID: "u1", Bio: "old"}}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveUser(ctx, models.User{ID: "u1", Bio: "new"}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Token != "t1" || got.User.Bio != "new" {
		t.Errorf("unexpected session after SaveUser: %+v", got)
	}
}
