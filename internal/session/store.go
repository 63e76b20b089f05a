package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/nacl/secretbox"
)

// ErrNoCredentials indicates that no credential is persisted.
var ErrNoCredentials = errors.New("no persisted credentials")

// Credentials is the pair persisted between console runs.
type Credentials struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// CredentialStore persists the operator's bearer credentials. Writes are
// atomic replace-or-clear; the lifecycle manager is the sole writer.
type CredentialStore interface {
	Load(ctx context.Context) (Credentials, error)
	Save(ctx context.Context, creds Credentials) error
	Clear(ctx context.Context) error
}

const credentialKey = "evalia:credentials"

// RedisCredentialStore keeps credentials in redis, sealed with a secretbox
// key derived from the session secret so tokens never sit in plaintext.
type RedisCredentialStore struct {
	client *redis.Client
	key    [32]byte
}

// NewRedisCredentialStore derives the sealing key and wraps the client.
func NewRedisCredentialStore(client *redis.Client, secret string) *RedisCredentialStore {
	return &RedisCredentialStore{
		client: client,
		key:    sha256.Sum256([]byte(secret)),
	}
}

// Load fetches and opens the persisted credential.
func (s *RedisCredentialStore) Load(ctx context.Context) (Credentials, error) {
	sealed, err := s.client.Get(ctx, credentialKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Credentials{}, ErrNoCredentials
		}
		return Credentials{}, fmt.Errorf("session: load credentials: %w", err)
	}
	if len(sealed) < 24 {
		return Credentials{}, fmt.Errorf("session: sealed credentials truncated")
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	plain, ok := secretbox.Open(nil, sealed[24:], &nonce, &s.key)
	if !ok {
		return Credentials{}, fmt.Errorf("session: credentials cannot be opened")
	}
	var creds Credentials
	if err := json.Unmarshal(plain, &creds); err != nil {
		return Credentials{}, fmt.Errorf("session: decode credentials: %w", err)
	}
	return creds, nil
}

// Save seals and stores the credential, replacing any previous value.
func (s *RedisCredentialStore) Save(ctx context.Context, creds Credentials) error {
	plain, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("session: encode credentials: %w", err)
	}
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("session: nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, &s.key)
	if err := s.client.Set(ctx, credentialKey, sealed, 0).Err(); err != nil {
		return fmt.Errorf("session: save credentials: %w", err)
	}
	return nil
}

// Clear removes the persisted credential.
func (s *RedisCredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, credentialKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("session: clear credentials: %w", err)
	}
	return nil
}
