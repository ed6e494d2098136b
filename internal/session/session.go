package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"incordes-client/internal/keyValue"
	"incordes-client/internal/models"
)

const (
	TokenKey = "incordes_token"
	UserKey  = "incordes_user"
)

var (
	ErrNoSession = errors.New("no stored session")
	ErrCorrupt   = errors.New("stored session is corrupt")
)

// Session is the authenticated actor: an opaque bearer token and its user.
type Session struct {
	Token string
	User  models.User
}

type Repository interface {
	// Load returns ErrNoSession when nothing is stored and ErrCorrupt when
	// the stored entries cannot be turned back into a Session.
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	SaveUser(ctx context.Context, user models.User) error
	Clear(ctx context.Context) error
}

// KVRepository stores the session as two entries of a key-value store.
type KVRepository struct {
	store keyValue.Store
}

func NewKVRepository(store keyValue.Store) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) Load(ctx context.Context) (Session, error) {
	token, tokenErr := r.store.Get(ctx, TokenKey)
	rawUser, userErr := r.store.Get(ctx, UserKey)

	tokenMissing := errors.Is(tokenErr, keyValue.ErrNotFound)
	userMissing := errors.Is(userErr, keyValue.ErrNotFound)

	switch {
	case tokenMissing && userMissing:
		return Session{}, ErrNoSession
	case errors.Is(tokenErr, keyValue.ErrUnseal), errors.Is(userErr, keyValue.ErrUnseal):
		return Session{}, fmt.Errorf("%w: %w", ErrCorrupt, keyValue.ErrUnseal)
	case tokenErr != nil && !tokenMissing:
		return Session{}, fmt.Errorf("failed to read token: %w", tokenErr)
	case userErr != nil && !userMissing:
		return Session{}, fmt.Errorf("failed to read user: %w", userErr)
	case tokenMissing || userMissing || token == "":
		return Session{}, fmt.Errorf("%w: only one of token and user is stored", ErrCorrupt)
	}

	var user models.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if user.ID == "" {
		return Session{}, fmt.Errorf("%w: stored user has no id", ErrCorrupt)
	}

	return Session{Token: token, User: user}, nil
}

func (r *KVRepository) Save(ctx context.Context, s Session) error {
	userBytes, err := json.Marshal(s.User)
	if err != nil {
		return err
	}

	return r.store.SetMany(ctx, map[string]string{
		TokenKey: s.Token,
		UserKey:  string(userBytes),
	})
}

func (r *KVRepository) SaveUser(ctx context.Context, user models.User) error {
	userBytes, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return r.store.SetMany(ctx, map[string]string{UserKey: string(userBytes)})
}

func (r *KVRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, TokenKey, UserKey)
}
