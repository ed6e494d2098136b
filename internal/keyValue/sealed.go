package keyValue

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

var ErrUnseal = errors.New("stored value could not be decrypted")

// the salt is fixed so the same secret opens the store across restarts
var sealSalt = []byte("incordes-session-store")

// Sealed encrypts values before handing them to the wrapped store. Keys are
// stored in the clear.
type Sealed struct {
	Store
	key [32]byte
}

func NewSealed(inner Store, secret string) *Sealed {
	s := &Sealed{Store: inner}
	copy(s.key[:], argon2.IDKey([]byte(secret), sealSalt, 1, 64*1024, 4, 32))
	return s
}

func (s *Sealed) Get(ctx context.Context, key string) (string, error) {
	value, err := s.Store.Get(ctx, key)
	if err != nil {
		return "", err
	}

	box, err := base64.StdEncoding.DecodeString(value)
	if err != nil || len(box) < 24 {
		return "", ErrUnseal
	}

	var nonce [24]byte
	copy(nonce[:], box[:24])

	plain, ok := secretbox.Open(nil, box[24:], &nonce, &s.key)
	if !ok {
		return "", ErrUnseal
	}
	return string(plain), nil
}

func (s *Sealed) SetMany(ctx context.Context, values map[string]string) error {
	sealed := make(map[string]string, len(values))
	for key, value := range values {
		var nonce [24]byte
		if _, err := rand.Read(nonce[:]); err != nil {
			return fmt.Errorf("failed to generate nonce: %w", err)
		}
		box := secretbox.Seal(nonce[:], []byte(value), &nonce, &s.key)
		sealed[key] = base64.StdEncoding.EncodeToString(box)
	}
	return s.Store.SetMany(ctx, sealed)
}
